// Package protocol implements the line-oriented wire format shared by the
// bank, the auction houses, and the agents.
//
// Every message is a single UTF-8 line: a case-sensitive verb followed by
// space-separated arguments. A description argument that contains spaces is
// carried as one field wrapped in literal '"' characters; Fields strips the
// quotes on decode. Line boundary is the only framing; arguments must not
// contain newlines.
package protocol

import (
	"strconv"
	"strings"
)

// Verbs sent to the bank.
const (
	CmdRegisterAuctionHouse = "REGISTER_AUCTION_HOUSE"
	CmdRegisterAgent        = "REGISTER_AGENT"
	CmdRegisterAgentChannel = "REGISTER_AGENT_CHANNEL"
	CmdBlockFunds           = "BLOCK_FUNDS"
	CmdUnblockFunds         = "UNBLOCK_FUNDS"
	CmdTransferFunds        = "TRANSFER_FUNDS"
	CmdBalance              = "BALANCE"
	CmdDeregister           = "DEREGISTER"
)

// Bank replies and asynchronous pushes.
const (
	ReplyOK                = "OK"
	ReplyError             = "ERROR"
	PushBalance            = "BALANCE"
	PushAuctionHouse       = "AUCTION_HOUSE"
	PushRemoveAuctionHouse = "REMOVE_AUCTION_HOUSE"
)

// Verbs sent to an auction house.
const (
	CmdAgent = "AGENT"
	CmdList  = "LIST"
	CmdBid   = "BID"
	CmdQuit  = "QUIT"
)

// Auction house replies and pushes.
const (
	ReplyWelcome    = "WELCOME"
	ReplyItem       = "ITEM"
	ReplyEndItems   = "END_ITEMS"
	ReplyAccepted   = "ACCEPTED"
	ReplyRejected   = "REJECTED"
	ReplyGoodbye    = "GOODBYE"
	PushOutbid      = "OUTBID"
	PushItemUpdated = "ITEM_UPDATED"
	PushItemSold    = "ITEM_SOLD"
	PushWinner      = "WINNER"
)

// Encode builds a wire line from a verb and its arguments.
func Encode(verb string, args ...string) string {
	if len(args) == 0 {
		return verb
	}
	return verb + " " + strings.Join(args, " ")
}

// Fields splits a wire line into its fields. A run wrapped in '"' characters
// is returned as a single field with the quotes stripped; everything else
// splits on spaces. Leading and trailing whitespace is ignored.
func Fields(line string) []string {
	line = strings.TrimSpace(line)
	var fields []string
	var b strings.Builder
	inQuote := false
	for _, r := range line {
		switch {
		case r == '"':
			inQuote = !inQuote
		case r == ' ' && !inQuote:
			if b.Len() > 0 {
				fields = append(fields, b.String())
				b.Reset()
			}
		default:
			b.WriteRune(r)
		}
	}
	if b.Len() > 0 {
		fields = append(fields, b.String())
	}
	return fields
}

// Quote wraps a description for the wire so it survives space splitting.
func Quote(s string) string {
	return `"` + s + `"`
}

// ItemArgs renders the argument list of an ITEM or ITEM_UPDATED message:
// id "description" minimumBid currentBid.
func ItemArgs(id int, description string, minimumBid, currentBid int) []string {
	return []string{
		strconv.Itoa(id),
		Quote(description),
		strconv.Itoa(minimumBid),
		strconv.Itoa(currentBid),
	}
}
