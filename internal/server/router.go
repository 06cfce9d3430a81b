// Package server builds the gin routers for the read-only admin surfaces.
package server

import (
	"net/http"

	"github.com/cdmaestas19/CS351-Distributed-Auction/internal/metrics"
	handler "github.com/cdmaestas19/CS351-Distributed-Auction/services/admin/handler"

	"github.com/gin-gonic/gin"
)

// newRouter configures the middleware stack shared by both admin surfaces.
func newRouter() *gin.Engine {
	router := gin.New() // New router without default middleware for full control over middleware and logging

	router.Use(gin.Recovery())          // recover from panics
	router.Use(RequestLoggerMiddleware) // custom request logging

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	return router
}

// NewBankRouter configures the bank's admin routes.
func NewBankRouter(ledger handler.LedgerInterface) *gin.Engine {
	router := newRouter()

	ledgerHandler := handler.NewLedgerHandler(ledger)

	accounts := router.Group("/accounts")
	{
		accounts.GET("", ledgerHandler.GetAccountsHandler)
		accounts.GET("/:account_id", ledgerHandler.GetAccountHandler)
	}

	router.GET("/venues", ledgerHandler.GetVenuesHandler)

	return router
}

// NewAuctionRouter configures an auction house's admin routes.
func NewAuctionRouter(house handler.AuctionInterface) *gin.Engine {
	router := newRouter()

	auctionHandler := handler.NewAuctionHandler(house)

	router.GET("/items", auctionHandler.GetItemsHandler)
	router.GET("/agents", auctionHandler.GetAgentsHandler)

	return router
}
