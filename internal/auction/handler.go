package auction

import (
	"bufio"
	"errors"
	"net"
	"strconv"
	"sync"

	"github.com/cdmaestas19/CS351-Distributed-Auction/internal/auctionerrors"
	"github.com/cdmaestas19/CS351-Distributed-Auction/internal/metrics"
	"github.com/cdmaestas19/CS351-Distributed-Auction/internal/protocol"
	"github.com/cdmaestas19/CS351-Distributed-Auction/utils"
)

type connState int

const (
	stateAwaitingHandshake connState = iota
	stateReady
	stateClosed
)

// AgentHandler terminates one agent connection. The first line must be the
// AGENT handshake; after that the handler serves LIST, BID, and QUIT until
// the peer disconnects.
type AgentHandler struct {
	house  *AuctionHouse
	conn   net.Conn
	connID string

	writeMu   sync.Mutex
	closeOnce sync.Once

	// stateMu guards state and agentID; close runs on the shutdown
	// goroutine while the handler goroutine is still dispatching.
	stateMu sync.Mutex
	state   connState
	agentID int
}

func newAgentHandler(house *AuctionHouse, conn net.Conn) *AgentHandler {
	return &AgentHandler{
		house:  house,
		conn:   conn,
		connID: utils.GenerateID(),
		state:  stateAwaitingHandshake,
	}
}

func (ah *AgentHandler) run() {
	defer ah.close()

	utils.Debug("agent connection opened", map[string]any{
		"conn_id": ah.connID,
		"remote":  ah.conn.RemoteAddr().String(),
	})

	scanner := bufio.NewScanner(ah.conn)
	for scanner.Scan() {
		fields := protocol.Fields(scanner.Text())
		if len(fields) == 0 {
			// Blank and whitespace-only lines carry no command.
			continue
		}
		if !ah.handleLine(fields) {
			return
		}
	}
	if err := scanner.Err(); err != nil {
		utils.Debug("agent connection read error", map[string]any{"conn_id": ah.connID, "error": err.Error()})
	}
}

// handleLine processes one decoded command; false means close the
// connection.
func (ah *AgentHandler) handleLine(fields []string) bool {
	ah.stateMu.Lock()
	state := ah.state
	ah.stateMu.Unlock()
	if state == stateAwaitingHandshake {
		return ah.handshake(fields)
	}

	switch fields[0] {
	case protocol.CmdList:
		ah.sendItemList()
		return true

	case protocol.CmdBid:
		ah.handleBid(fields)
		return true

	case protocol.CmdQuit:
		ah.reply(protocol.Encode(protocol.ReplyGoodbye))
		return false

	default:
		// Malformed commands after the handshake get an error reply;
		// the connection stays open.
		ah.reply(protocol.Encode(protocol.ReplyError, auctionerrors.ErrUnknownCommand.Error()))
		return true
	}
}

// handshake validates the AGENT line. A bad handshake is rejected and the
// connection closed.
func (ah *AgentHandler) handshake(fields []string) bool {
	if len(fields) != 2 || fields[0] != protocol.CmdAgent {
		ah.reply(protocol.Encode(protocol.ReplyRejected, auctionerrors.ErrBadHandshake.Error()))
		return false
	}
	agentID, err := strconv.Atoi(fields[1])
	if err != nil {
		ah.reply(protocol.Encode(protocol.ReplyRejected, auctionerrors.ErrBadHandshake.Error()))
		return false
	}

	ah.stateMu.Lock()
	ah.agentID = agentID
	ah.state = stateReady
	ah.stateMu.Unlock()
	ah.house.registerHandler(agentID, ah)
	ah.reply(protocol.Encode(protocol.ReplyWelcome, strconv.Itoa(agentID)))
	return true
}

// sendItemList streams the active items terminated by END_ITEMS.
func (ah *AgentHandler) sendItemList() {
	for _, item := range ah.house.ActiveItems() {
		ah.reply(protocol.Encode(protocol.ReplyItem,
			protocol.ItemArgs(item.ID, item.Description, item.MinimumBid, item.CurrentBid)...))
	}
	ah.reply(protocol.Encode(protocol.ReplyEndItems))
}

func (ah *AgentHandler) handleBid(fields []string) {
	if len(fields) != 3 {
		metrics.BidsRejected.Inc()
		ah.reply(protocol.Encode(protocol.ReplyRejected, "malformed bid"))
		return
	}
	itemID, err1 := strconv.Atoi(fields[1])
	amount, err2 := strconv.Atoi(fields[2])
	if err1 != nil || err2 != nil {
		metrics.BidsRejected.Inc()
		ah.reply(protocol.Encode(protocol.ReplyRejected, "malformed bid"))
		return
	}

	if err := ah.house.placeBid(ah.agentID, itemID, amount); err != nil {
		metrics.BidsRejected.Inc()
		ah.reply(protocol.Encode(protocol.ReplyRejected, rejectionReason(err)))
		return
	}
	ah.reply(protocol.Encode(protocol.ReplyAccepted, strconv.Itoa(itemID)))
}

// rejectionReason maps a bid error to the short human-readable reason the
// agent displays verbatim.
func rejectionReason(err error) string {
	for _, sentinel := range []error{
		auctionerrors.ErrItemNotFound,
		auctionerrors.ErrItemSold,
		auctionerrors.ErrBidTooLow,
		auctionerrors.ErrAlreadyHighBidder,
		auctionerrors.ErrAccountNotFound,
		auctionerrors.ErrInsufficientFunds,
	} {
		if errors.Is(err, sentinel) {
			return sentinel.Error()
		}
	}
	return "bid refused"
}

// reply writes a line to this handler's peer, logging a failed write.
func (ah *AgentHandler) reply(line string) {
	if err := ah.send(line); err != nil {
		utils.Warn("reply to agent failed", map[string]any{"conn_id": ah.connID, "error": err.Error()})
	}
}

// send writes one line. Broadcast workers and the handler goroutine share
// the connection, so writes are serialized.
func (ah *AgentHandler) send(line string) error {
	ah.writeMu.Lock()
	defer ah.writeMu.Unlock()
	_, err := ah.conn.Write([]byte(line + "\n"))
	return err
}

func (ah *AgentHandler) close() {
	ah.closeOnce.Do(func() {
		ah.stateMu.Lock()
		registered := ah.state == stateReady
		agentID := ah.agentID
		ah.state = stateClosed
		ah.stateMu.Unlock()

		if registered {
			ah.house.removeHandler(agentID, ah)
		}
		_ = ah.conn.Close()
		utils.Debug("agent connection closed", map[string]any{"conn_id": ah.connID, "agent_id": agentID})
	})
}
