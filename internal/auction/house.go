package auction

import (
	"errors"
	"fmt"
	"net"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/cdmaestas19/CS351-Distributed-Auction/internal/auctionerrors"
	"github.com/cdmaestas19/CS351-Distributed-Auction/internal/client"
	"github.com/cdmaestas19/CS351-Distributed-Auction/internal/events"
	"github.com/cdmaestas19/CS351-Distributed-Auction/internal/metrics"
	"github.com/cdmaestas19/CS351-Distributed-Auction/internal/notify"
	"github.com/cdmaestas19/CS351-Distributed-Auction/internal/protocol"
	"github.com/cdmaestas19/CS351-Distributed-Auction/utils"
)

// AuctionHouse coordinates agent connections, bid validation, escrow, close
// timers, and winner settlement for one venue.
type AuctionHouse struct {
	advertisedHost string
	listenAddr     string

	bank   client.BankClient
	items  *ItemManager
	timers *TimerEngine
	pool   *notify.Pool
	hub    *events.Hub

	listener  net.Listener
	accountID int

	mu       sync.Mutex
	handlers map[int]*AgentHandler
	running  bool
	wg       sync.WaitGroup
}

// NewAuctionHouse creates a coordinator. advertisedHost is the address
// bidders are told to connect to; listenAddr is the local bind address
// (port 0 picks a free one, handy in tests). closeDelay is the per-item
// countdown restarted by each accepted bid.
func NewAuctionHouse(advertisedHost, listenAddr string, bank client.BankClient, items *ItemManager, closeDelay time.Duration) *AuctionHouse {
	h := &AuctionHouse{
		advertisedHost: advertisedHost,
		listenAddr:     listenAddr,
		bank:           bank,
		items:          items,
		pool:           notify.NewPool(4, 64),
		hub:            events.NewHub(),
		handlers:       make(map[int]*AgentHandler),
	}
	h.timers = NewTimerEngine(closeDelay, h.closeAuction)
	return h
}

// Events exposes the venue's observer hub (item changes, messages).
func (h *AuctionHouse) Events() *events.Hub {
	return h.hub
}

// Start binds the listening port, registers the venue with the bank, and
// begins accepting agent connections. Either failure aborts startup.
func (h *AuctionHouse) Start() error {
	listener, err := net.Listen("tcp", h.listenAddr)
	if err != nil {
		return fmt.Errorf("auction house: listen on %s: %w", h.listenAddr, err)
	}
	h.listener = listener

	port := listener.Addr().(*net.TCPAddr).Port
	accountID, err := h.bank.RegisterAuctionHouse(h.advertisedHost, port)
	if err != nil {
		listener.Close()
		return fmt.Errorf("auction house: register with bank: %w", err)
	}
	h.accountID = accountID

	h.mu.Lock()
	h.running = true
	h.mu.Unlock()

	utils.Info("auction house started", map[string]any{
		"account_id": accountID,
		"addr":       listener.Addr().String(),
	})

	h.wg.Add(1)
	go h.acceptLoop()
	return nil
}

// Addr returns the bound listen address.
func (h *AuctionHouse) Addr() net.Addr {
	return h.listener.Addr()
}

// AccountID returns the venue's bank account id.
func (h *AuctionHouse) AccountID() int {
	return h.accountID
}

// ActiveItems returns the current listing snapshot.
func (h *AuctionHouse) ActiveItems() []ItemSnapshot {
	return h.items.ActiveItems()
}

// HasActiveAuctions reports whether any item currently carries a bid.
func (h *AuctionHouse) HasActiveAuctions() bool {
	return h.items.HasActiveAuctions()
}

// ConnectedAgents returns the ids of the agents with live connections.
func (h *AuctionHouse) ConnectedAgents() []int {
	h.mu.Lock()
	defer h.mu.Unlock()
	ids := make([]int, 0, len(h.handlers))
	for id := range h.handlers {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

func (h *AuctionHouse) acceptLoop() {
	defer h.wg.Done()
	for {
		conn, err := h.listener.Accept()
		if err != nil {
			h.mu.Lock()
			running := h.running
			h.mu.Unlock()
			if running {
				utils.Error("auction house accept failed", map[string]any{"error": err.Error()})
			}
			return
		}
		handler := newAgentHandler(h, conn)
		h.wg.Add(1)
		go func() {
			defer h.wg.Done()
			handler.run()
		}()
	}
}

// Shutdown deregisters from the bank and closes all connections. It refuses
// while any auction is contested.
func (h *AuctionHouse) Shutdown() error {
	if h.items.HasActiveAuctions() {
		return fmt.Errorf("auction house %d: %w", h.accountID, auctionerrors.ErrActiveAuctions)
	}

	h.mu.Lock()
	if !h.running {
		h.mu.Unlock()
		return nil
	}
	h.running = false
	handlers := make([]*AgentHandler, 0, len(h.handlers))
	for _, ah := range h.handlers {
		handlers = append(handlers, ah)
	}
	h.mu.Unlock()

	if err := h.bank.Deregister(h.accountID); err != nil {
		utils.Warn("deregister from bank failed", map[string]any{"account_id": h.accountID, "error": err.Error()})
	}

	h.timers.StopAll()
	_ = h.listener.Close()
	for _, ah := range handlers {
		ah.close()
	}
	h.wg.Wait()
	h.pool.Close()
	utils.Info("auction house shut down", map[string]any{"account_id": h.accountID})
	return nil
}

// registerHandler records a ready handler for targeted notification.
func (h *AuctionHouse) registerHandler(agentID int, ah *AgentHandler) {
	h.mu.Lock()
	h.handlers[agentID] = ah
	h.mu.Unlock()
	utils.Info("agent connected", map[string]any{"agent_id": agentID, "venue_id": h.accountID})
}

// removeHandler drops a handler when its connection ends.
func (h *AuctionHouse) removeHandler(agentID int, ah *AgentHandler) {
	h.mu.Lock()
	if current, ok := h.handlers[agentID]; ok && current == ah {
		delete(h.handlers, agentID)
	}
	h.mu.Unlock()
}

// placeBid runs the full bid sequence under the item's lock: validate,
// escrow, refund and notify any outbid predecessor, commit, restart the
// close timer, broadcast the new state. The outbid notification is sent
// before this returns, so the previous bidder observes OUTBID before the
// caller's ACCEPTED goes out.
func (h *AuctionHouse) placeBid(agentID, itemID, amount int) error {
	item, ok := h.items.Lookup(itemID)
	if !ok {
		return fmt.Errorf("bid on item %d: %w", itemID, auctionerrors.ErrItemNotFound)
	}

	item.mu.Lock()
	defer item.mu.Unlock()

	if item.sold {
		return fmt.Errorf("bid on item %d: %w", itemID, auctionerrors.ErrItemSold)
	}
	if item.currentBidder == agentID {
		return fmt.Errorf("bid on item %d: %w", itemID, auctionerrors.ErrAlreadyHighBidder)
	}
	if amount < item.MinimumBid || amount <= item.currentBid {
		return fmt.Errorf("bid of %d on item %d: %w", amount, itemID, auctionerrors.ErrBidTooLow)
	}

	if err := h.bank.BlockFunds(agentID, amount); err != nil {
		if errors.Is(err, auctionerrors.ErrAccountNotFound) {
			return fmt.Errorf("bid of %d by agent %d: %w", amount, agentID, auctionerrors.ErrAccountNotFound)
		}
		return fmt.Errorf("bid of %d by agent %d: %w", amount, agentID, auctionerrors.ErrInsufficientFunds)
	}

	prevBidder, prevAmount := item.currentBidder, item.currentBid
	if prevBidder != NoBidder {
		if err := h.bank.UnblockFunds(prevBidder, prevAmount); err != nil {
			utils.Error("outbid refund failed", map[string]any{
				"agent_id": prevBidder, "amount": prevAmount, "error": err.Error(),
			})
		}
		h.notifyAgent(prevBidder, protocol.Encode(protocol.PushOutbid, strconv.Itoa(itemID)))
	}

	item.currentBid = amount
	item.currentBidder = agentID
	h.timers.Schedule(itemID)

	snapshot := item.snapshotLocked()
	h.broadcast(itemUpdatedLine(snapshot))
	h.hub.Publish(events.ItemsChanged{VenueID: h.accountID})
	metrics.BidsAccepted.Inc()

	utils.Info("bid accepted", map[string]any{
		"venue_id": h.accountID, "item_id": itemID, "agent_id": agentID, "amount": amount,
	})
	return nil
}

// closeAuction is the timer-fire callback. A stale generation means a newer
// bid rescheduled the countdown while this fire was in flight: no-op.
func (h *AuctionHouse) closeAuction(itemID int, gen uint64) {
	item, ok := h.items.Lookup(itemID)
	if !ok {
		return
	}

	item.mu.Lock()
	if !h.timers.Current(itemID, gen) || item.sold {
		item.mu.Unlock()
		return
	}
	if item.currentBidder == NoBidder {
		// No bids: the item stays listed and unscheduled until the
		// next accepted bid re-arms its countdown.
		item.mu.Unlock()
		return
	}
	item.sold = true
	winner, amount := item.currentBidder, item.currentBid
	item.mu.Unlock()

	if err := h.bank.TransferFunds(winner, h.accountID, amount); err != nil {
		utils.Error("settlement transfer failed", map[string]any{
			"item_id": itemID, "winner": winner, "amount": amount, "error": err.Error(),
		})
	} else {
		metrics.FundsTransferred.Add(float64(amount))
	}

	promoted := h.items.MarkSold(itemID)
	metrics.ItemsSold.Inc()

	utils.Info("item sold", map[string]any{
		"venue_id": h.accountID, "item_id": itemID, "winner": winner, "amount": amount,
	})

	h.notifyAgent(winner, protocol.Encode(protocol.PushWinner, strconv.Itoa(amount), strconv.Itoa(itemID)))
	h.broadcast(protocol.Encode(protocol.PushItemSold, strconv.Itoa(itemID)))
	if promoted != nil {
		h.broadcast(itemUpdatedLine(promoted.Snapshot()))
	}
	h.hub.Publish(events.ItemsChanged{VenueID: h.accountID})
}

// notifyAgent sends a targeted push to one connected agent. A missing or
// unreachable handler is logged and ignored.
func (h *AuctionHouse) notifyAgent(agentID int, line string) {
	h.mu.Lock()
	ah, ok := h.handlers[agentID]
	h.mu.Unlock()
	if !ok {
		utils.Debug("push target not connected", map[string]any{"agent_id": agentID})
		return
	}
	if err := ah.send(line); err != nil {
		utils.Warn("push to agent failed", map[string]any{"agent_id": agentID, "error": err.Error()})
	}
}

// broadcast fans a push line out to every connected agent through the pool.
// Delivery is fire-and-forget per recipient.
func (h *AuctionHouse) broadcast(line string) {
	h.mu.Lock()
	targets := make(map[int]*AgentHandler, len(h.handlers))
	for id, ah := range h.handlers {
		targets[id] = ah
	}
	h.mu.Unlock()

	for id, ah := range targets {
		id, ah := id, ah
		h.pool.Submit(func() {
			if err := ah.send(line); err != nil {
				utils.Warn("broadcast to agent failed", map[string]any{"agent_id": id, "error": err.Error()})
			}
		})
	}
}

func itemUpdatedLine(s ItemSnapshot) string {
	return protocol.Encode(protocol.PushItemUpdated, protocol.ItemArgs(s.ID, s.Description, s.MinimumBid, s.CurrentBid)...)
}
