package agent

import (
	"math/rand"
	"time"

	"github.com/cdmaestas19/CS351-Distributed-Auction/utils"
)

// AutoBidder drives an agent with random bids at random intervals. It is
// the unattended stand-in for a human bidder; shutdown waits for the
// agent's outstanding bids to resolve.
type AutoBidder struct {
	agent    *Agent
	interval time.Duration
	jitter   time.Duration

	stop chan struct{}
	done chan struct{}
}

// NewAutoBidder creates an auto bidder firing every interval plus up to
// jitter of random delay.
func NewAutoBidder(agent *Agent, interval, jitter time.Duration) *AutoBidder {
	return &AutoBidder{
		agent:    agent,
		interval: interval,
		jitter:   jitter,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Start begins bidding in the background.
func (b *AutoBidder) Start() {
	go b.run()
}

func (b *AutoBidder) run() {
	defer close(b.done)
	for {
		delay := b.interval
		if b.jitter > 0 {
			delay += time.Duration(rand.Int63n(int64(b.jitter)))
		}
		select {
		case <-b.stop:
			b.shutdownGracefully()
			return
		case <-time.After(delay):
		}
		b.placeRandomBid()
	}
}

// placeRandomBid picks a random item at a random venue and bids a little
// over its minimum.
func (b *AutoBidder) placeRandomBid() {
	sessions := b.agent.Sessions()
	if len(sessions) == 0 {
		return
	}
	session := sessions[rand.Intn(len(sessions))]
	items := session.Items()
	if len(items) == 0 {
		return
	}
	item := items[rand.Intn(len(items))]
	amount := item.MinimumBid + rand.Intn(50)
	if amount <= item.CurrentBid {
		amount = item.CurrentBid + 1 + rand.Intn(25)
	}

	if err := session.PlaceBid(item.ID, amount); err != nil {
		utils.Debug("auto bid failed", map[string]any{
			"agent_id": b.agent.ID(), "item_id": item.ID, "error": err.Error(),
		})
		return
	}
	utils.Info("auto bid placed", map[string]any{
		"agent_id": b.agent.ID(), "venue_id": session.VenueID(),
		"item_id": item.ID, "amount": amount,
	})
}

// shutdownGracefully waits for outstanding bids to resolve, then shuts the
// agent down.
func (b *AutoBidder) shutdownGracefully() {
	utils.Info("auto bidder draining", map[string]any{"agent_id": b.agent.ID()})
	for !b.agent.CanShutdown() {
		time.Sleep(500 * time.Millisecond)
	}
	if err := b.agent.Shutdown(); err != nil {
		utils.Warn("auto bidder shutdown failed", map[string]any{
			"agent_id": b.agent.ID(), "error": err.Error(),
		})
	}
}

// Stop requests shutdown and blocks until the agent has exited.
func (b *AutoBidder) Stop() {
	close(b.stop)
	<-b.done
}
