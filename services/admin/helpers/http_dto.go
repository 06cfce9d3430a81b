package helpers

// Response DTOs for the read-only admin surface.

type AccountResponse struct {
	AccountID int    `json:"account_id"`
	Name      string `json:"name"`
	Role      string `json:"role"`
	Total     int    `json:"total"`
	Blocked   int    `json:"blocked"`
	Available int    `json:"available"`
}

type BalanceResponse struct {
	AccountID int `json:"account_id"`
	Total     int `json:"total"`
	Available int `json:"available"`
}

type VenueResponse struct {
	AccountID int    `json:"account_id"`
	Host      string `json:"host"`
	Port      int    `json:"port"`
}

type ItemResponse struct {
	ItemID        int    `json:"item_id"`
	Description   string `json:"description"`
	MinimumBid    int    `json:"minimum_bid"`
	CurrentBid    int    `json:"current_bid"`
	CurrentBidder int    `json:"current_bidder"`
}

type AgentsResponse struct {
	VenueID  int   `json:"venue_id"`
	AgentIDs []int `json:"agent_ids"`
}
