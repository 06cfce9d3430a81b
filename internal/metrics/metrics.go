// Package metrics exposes the prometheus counters published on each
// service's admin endpoint.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// BidsAccepted counts bids that passed validation and escrow.
	BidsAccepted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "auction_bids_accepted_total",
		Help: "Number of accepted bids.",
	})

	// BidsRejected counts bids refused for any reason.
	BidsRejected = promauto.NewCounter(prometheus.CounterOpts{
		Name: "auction_bids_rejected_total",
		Help: "Number of rejected bids.",
	})

	// ItemsSold counts auctions settled by a close timer.
	ItemsSold = promauto.NewCounter(prometheus.CounterOpts{
		Name: "auction_items_sold_total",
		Help: "Number of items sold.",
	})

	// FundsTransferred sums the currency units moved by settlements.
	FundsTransferred = promauto.NewCounter(prometheus.CounterOpts{
		Name: "auction_funds_transferred_total",
		Help: "Total currency units transferred to venues.",
	})
)

// Handler returns the HTTP handler serving the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
