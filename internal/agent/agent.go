// Package agent implements the bidding client: its view of the ledger
// balance, one session per known auction house, and the shutdown contract
// that refuses to exit while a bid is still outstanding.
package agent

import (
	"bufio"
	"fmt"
	"net"
	"strconv"
	"sync"

	"github.com/cdmaestas19/CS351-Distributed-Auction/internal/auctionerrors"
	"github.com/cdmaestas19/CS351-Distributed-Auction/internal/client"
	"github.com/cdmaestas19/CS351-Distributed-Auction/internal/events"
	"github.com/cdmaestas19/CS351-Distributed-Auction/internal/protocol"
	"github.com/cdmaestas19/CS351-Distributed-Auction/utils"
)

// Agent is one bidding client registered with the bank.
type Agent struct {
	name string
	id   int
	bank client.BankClient
	hub  *events.Hub

	// dial builds the per-venue transport; tests substitute a fake.
	dial func() client.AuctionClient

	mu        sync.Mutex
	total     int
	available int
	sessions  map[int]*VenueSession

	bankConn net.Conn
	wg       sync.WaitGroup
}

// New creates an agent for an already registered bidder account.
func New(name string, id int, bank client.BankClient) *Agent {
	return &Agent{
		name:     name,
		id:       id,
		bank:     bank,
		hub:      events.NewHub(),
		dial:     func() client.AuctionClient { return client.NewSocketAuctionClient() },
		sessions: make(map[int]*VenueSession),
	}
}

// ID returns the bank account id.
func (a *Agent) ID() int {
	return a.id
}

// Name returns the display name.
func (a *Agent) Name() string {
	return a.name
}

// Events exposes the agent's observer hub for a dashboard or test harness.
func (a *Agent) Events() *events.Hub {
	return a.hub
}

// Balances returns the last balances pushed by the bank.
func (a *Agent) Balances() (total, available int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.total, a.available
}

// OpenBankChannel establishes the persistent notification connection to the
// bank and starts the push reader. The bank replies with the current venue
// list, so sessions to already-known venues open automatically.
func (a *Agent) OpenBankChannel(host string, port int) error {
	conn, err := net.Dial("tcp", net.JoinHostPort(host, strconv.Itoa(port)))
	if err != nil {
		return fmt.Errorf("agent: dial bank channel: %w", err)
	}

	line := protocol.Encode(protocol.CmdRegisterAgentChannel, strconv.Itoa(a.id))
	if _, err := conn.Write([]byte(line + "\n")); err != nil {
		conn.Close()
		return fmt.Errorf("agent: register channel: %w", err)
	}
	reader := bufio.NewReader(conn)
	reply, err := reader.ReadString('\n')
	if err != nil {
		conn.Close()
		return fmt.Errorf("agent: register channel reply: %w", err)
	}
	fields := protocol.Fields(reply)
	if len(fields) == 0 || fields[0] != protocol.ReplyOK {
		conn.Close()
		return fmt.Errorf("agent: channel registration refused: %s", reply)
	}

	a.bankConn = conn
	a.wg.Add(1)
	go a.bankReadLoop(reader)
	return nil
}

func (a *Agent) bankReadLoop(reader *bufio.Reader) {
	defer a.wg.Done()
	for {
		line, err := reader.ReadString('\n')
		if err != nil {
			utils.Debug("bank channel closed", map[string]any{"agent_id": a.id, "error": err.Error()})
			return
		}
		a.handleBankPush(protocol.Fields(line))
	}
}

// handleBankPush dispatches one push line from the bank channel.
func (a *Agent) handleBankPush(fields []string) {
	if len(fields) == 0 {
		return
	}
	switch fields[0] {
	case protocol.PushBalance:
		if len(fields) != 3 {
			return
		}
		total, err1 := strconv.Atoi(fields[1])
		available, err2 := strconv.Atoi(fields[2])
		if err1 != nil || err2 != nil {
			return
		}
		a.setBalances(total, available)

	case protocol.PushAuctionHouse:
		if len(fields) != 4 {
			return
		}
		port, err1 := strconv.Atoi(fields[2])
		venueID, err2 := strconv.Atoi(fields[3])
		if err1 != nil || err2 != nil {
			return
		}
		if err := a.ConnectToVenue(fields[1], port, venueID); err != nil {
			utils.Warn("failed to join auction house", map[string]any{
				"agent_id": a.id, "venue_id": venueID, "error": err.Error(),
			})
		}

	case protocol.PushRemoveAuctionHouse:
		if len(fields) != 2 {
			return
		}
		venueID, err := strconv.Atoi(fields[1])
		if err != nil {
			return
		}
		a.dropVenue(venueID)

	default:
		utils.Debug("unknown bank push", map[string]any{"agent_id": a.id, "fields": fields})
	}
}

func (a *Agent) setBalances(total, available int) {
	a.mu.Lock()
	a.total = total
	a.available = available
	a.mu.Unlock()
	a.hub.Publish(events.BalanceChanged{Total: total, Available: available})
}

// refreshBalance queries the bank and updates the cached balances.
func (a *Agent) refreshBalance() {
	total, available, err := a.bank.Balance(a.id)
	if err != nil {
		utils.Warn("balance refresh failed", map[string]any{"agent_id": a.id, "error": err.Error()})
		return
	}
	a.setBalances(total, available)
}

// ConnectToVenue opens a session with an auction house. Reconnecting to an
// already known venue is a no-op.
func (a *Agent) ConnectToVenue(host string, port, venueID int) error {
	a.mu.Lock()
	if _, known := a.sessions[venueID]; known {
		a.mu.Unlock()
		return nil
	}
	a.mu.Unlock()

	ac := a.dial()
	if err := ac.Connect(host, port, a.id); err != nil {
		return err
	}

	session := newVenueSession(a, venueID, ac)
	if err := session.start(); err != nil {
		_ = ac.Close()
		return err
	}

	a.mu.Lock()
	a.sessions[venueID] = session
	a.mu.Unlock()

	utils.Info("joined auction house", map[string]any{"agent_id": a.id, "venue_id": venueID})
	a.hub.Publish(events.VenueAdded{ID: venueID, Host: host, Port: port})
	return nil
}

// Session returns the session for a venue, if one is open.
func (a *Agent) Session(venueID int) (*VenueSession, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	s, ok := a.sessions[venueID]
	return s, ok
}

// Sessions returns all open venue sessions.
func (a *Agent) Sessions() []*VenueSession {
	a.mu.Lock()
	defer a.mu.Unlock()
	sessions := make([]*VenueSession, 0, len(a.sessions))
	for _, s := range a.sessions {
		sessions = append(sessions, s)
	}
	return sessions
}

func (a *Agent) dropVenue(venueID int) {
	a.mu.Lock()
	session, ok := a.sessions[venueID]
	delete(a.sessions, venueID)
	a.mu.Unlock()
	if !ok {
		return
	}
	session.close()
	a.hub.Publish(events.VenueRemoved{ID: venueID})
}

// CanShutdown reports whether the agent holds no outstanding high bid at
// any venue.
func (a *Agent) CanShutdown() bool {
	for _, s := range a.Sessions() {
		if s.HasActiveBids() {
			return false
		}
	}
	return true
}

// Shutdown closes all venue sessions and deregisters from the bank. It
// refuses while any bid is outstanding.
func (a *Agent) Shutdown() error {
	if !a.CanShutdown() {
		return fmt.Errorf("agent %d: %w", a.id, auctionerrors.ErrOutstandingBids)
	}

	for _, s := range a.Sessions() {
		a.dropVenue(s.VenueID())
	}
	if err := a.bank.Deregister(a.id); err != nil {
		utils.Warn("deregister failed", map[string]any{"agent_id": a.id, "error": err.Error()})
	}
	if a.bankConn != nil {
		_ = a.bankConn.Close()
	}
	a.wg.Wait()
	a.hub.Close()
	utils.Info("agent shut down", map[string]any{"agent_id": a.id})
	return nil
}
