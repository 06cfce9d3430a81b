package auctionerrors

import "errors"

// Protocol-level errors
var (
	ErrUnknownCommand = errors.New("unknown command")
	ErrBadHandshake   = errors.New("malformed handshake")
)

// Bid validation errors
var (
	ErrItemNotFound      = errors.New("item not found")
	ErrItemSold          = errors.New("item already sold")
	ErrBidTooLow         = errors.New("bid too low")
	ErrAlreadyHighBidder = errors.New("already highest bidder")
)

// Ledger errors
var (
	ErrAccountNotFound    = errors.New("account not found")
	ErrInsufficientFunds  = errors.New("insufficient funds")
	ErrInsufficientEscrow = errors.New("insufficient escrowed funds")
)

// Shutdown coordination errors
var (
	ErrActiveAuctions  = errors.New("active auctions in progress")
	ErrOutstandingBids = errors.New("outstanding bids in progress")
)
