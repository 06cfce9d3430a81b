// Package handler serves the read-only admin endpoints: account and venue
// listings on the bank, item and agent listings on an auction house. The
// line protocol stays the only write path.
package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/cdmaestas19/CS351-Distributed-Auction/internal/auction"
	"github.com/cdmaestas19/CS351-Distributed-Auction/internal/bank"
	"github.com/cdmaestas19/CS351-Distributed-Auction/services/admin/helpers"
	"github.com/cdmaestas19/CS351-Distributed-Auction/utils"

	"github.com/gin-gonic/gin"
)

type LedgerInterface interface {
	Accounts() []bank.AccountInfo
	Venues() []bank.Venue
	Balance(id int) (total, available int, err error)
}

type LedgerHandler struct {
	ledger LedgerInterface
}

func NewLedgerHandler(ledger LedgerInterface) *LedgerHandler {
	return &LedgerHandler{ledger: ledger}
}

// GetAccountsHandler handles GET /accounts
func (h *LedgerHandler) GetAccountsHandler(c *gin.Context) {
	accounts := h.ledger.Accounts()

	resp := make([]helpers.AccountResponse, 0, len(accounts))
	for _, account := range accounts {
		resp = append(resp, helpers.AccountResponse{
			AccountID: account.ID,
			Name:      account.Name,
			Role:      string(account.Role),
			Total:     account.Total,
			Blocked:   account.Blocked,
			Available: account.Available,
		})
	}

	utils.JSONResponse(c, http.StatusOK, resp, "accounts retrieved successfully")
	helpers.LogSuccess("GetAccountsHandler", "accounts retrieved successfully", map[string]any{
		"count": len(resp),
	})
}

// GetAccountHandler handles GET /accounts/:account_id
func (h *LedgerHandler) GetAccountHandler(c *gin.Context) {
	accountID, err := strconv.Atoi(c.Param("account_id"))
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, fmt.Errorf("invalid account id: %w", err), "invalid account id")
		return
	}

	total, available, err := h.ledger.Balance(accountID)
	if err != nil {
		status, message := helpers.MapErrorToHTTP(err)
		utils.JSONError(c, status, fmt.Errorf("%s: %w", message, err), message)
		utils.Warn("GetAccountHandler: balance lookup failed", map[string]any{
			"account_id": accountID, "error": err.Error(),
		})
		return
	}

	resp := helpers.BalanceResponse{AccountID: accountID, Total: total, Available: available}
	utils.JSONResponse(c, http.StatusOK, resp, "balance retrieved successfully")
}

// GetVenuesHandler handles GET /venues
func (h *LedgerHandler) GetVenuesHandler(c *gin.Context) {
	venues := h.ledger.Venues()

	resp := make([]helpers.VenueResponse, 0, len(venues))
	for _, venue := range venues {
		resp = append(resp, helpers.VenueResponse{
			AccountID: venue.ID,
			Host:      venue.Host,
			Port:      venue.Port,
		})
	}

	utils.JSONResponse(c, http.StatusOK, resp, "venues retrieved successfully")
	helpers.LogSuccess("GetVenuesHandler", "venues retrieved successfully", map[string]any{
		"count": len(resp),
	})
}

type AuctionInterface interface {
	AccountID() int
	ActiveItems() []auction.ItemSnapshot
	ConnectedAgents() []int
}

type AuctionHandler struct {
	house AuctionInterface
}

func NewAuctionHandler(house AuctionInterface) *AuctionHandler {
	return &AuctionHandler{house: house}
}

// GetItemsHandler handles GET /items
func (h *AuctionHandler) GetItemsHandler(c *gin.Context) {
	items := h.house.ActiveItems()

	resp := make([]helpers.ItemResponse, 0, len(items))
	for _, item := range items {
		resp = append(resp, helpers.ItemResponse{
			ItemID:        item.ID,
			Description:   item.Description,
			MinimumBid:    item.MinimumBid,
			CurrentBid:    item.CurrentBid,
			CurrentBidder: item.CurrentBidder,
		})
	}

	utils.JSONResponse(c, http.StatusOK, resp, "items retrieved successfully")
	helpers.LogSuccess("GetItemsHandler", "items retrieved successfully", map[string]any{
		"venue_id": h.house.AccountID(),
		"count":    len(resp),
	})
}

// GetAgentsHandler handles GET /agents
func (h *AuctionHandler) GetAgentsHandler(c *gin.Context) {
	resp := helpers.AgentsResponse{
		VenueID:  h.house.AccountID(),
		AgentIDs: h.house.ConnectedAgents(),
	}

	utils.JSONResponse(c, http.StatusOK, resp, "agents retrieved successfully")
}
