package agent

import (
	"fmt"
	"sort"
	"strconv"
	"sync"

	"github.com/cdmaestas19/CS351-Distributed-Auction/internal/client"
	"github.com/cdmaestas19/CS351-Distributed-Auction/internal/events"
	"github.com/cdmaestas19/CS351-Distributed-Auction/internal/protocol"
	"github.com/cdmaestas19/CS351-Distributed-Auction/utils"
)

// VenueSession is the agent's view of one auction house: the local item
// list and the set of items carrying this agent's outstanding high bid.
type VenueSession struct {
	agent   *Agent
	venueID int
	client  client.AuctionClient

	mu         sync.Mutex
	items      map[int]client.ItemListing
	activeBids map[int]struct{}
	closed     bool
}

func newVenueSession(agent *Agent, venueID int, ac client.AuctionClient) *VenueSession {
	return &VenueSession{
		agent:      agent,
		venueID:    venueID,
		client:     ac,
		items:      make(map[int]client.ItemListing),
		activeBids: make(map[int]struct{}),
	}
}

// start fetches the initial listing and begins consuming pushes.
func (s *VenueSession) start() error {
	items, err := s.client.Items()
	if err != nil {
		return fmt.Errorf("venue %d: initial listing: %w", s.venueID, err)
	}
	s.mu.Lock()
	for _, item := range items {
		s.items[item.ID] = item
	}
	s.mu.Unlock()
	s.agent.hub.Publish(events.ItemsChanged{VenueID: s.venueID})

	go s.readLoop()
	return nil
}

// VenueID returns the auction house's bank account id.
func (s *VenueSession) VenueID() int {
	return s.venueID
}

// Items returns the session's current view of the venue's listings.
func (s *VenueSession) Items() []client.ItemListing {
	s.mu.Lock()
	defer s.mu.Unlock()
	items := make([]client.ItemListing, 0, len(s.items))
	for _, item := range s.items {
		items = append(items, item)
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	return items
}

// PlaceBid submits a bid; the outcome arrives on the push stream.
func (s *VenueSession) PlaceBid(itemID, amount int) error {
	return s.client.PlaceBid(itemID, amount)
}

// HasActiveBids reports whether this agent holds the high bid on any item
// at this venue.
func (s *VenueSession) HasActiveBids() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.activeBids) > 0
}

func (s *VenueSession) readLoop() {
	reader := s.client.Reader()
	for {
		line, err := reader.ReadString('\n')
		if err != nil {
			s.mu.Lock()
			closed := s.closed
			s.mu.Unlock()
			if !closed {
				utils.Warn("auction house connection lost", map[string]any{
					"agent_id": s.agent.id, "venue_id": s.venueID, "error": err.Error(),
				})
			}
			return
		}
		s.handleLine(protocol.Fields(line))
	}
}

// handleLine dispatches one push from the auction house.
func (s *VenueSession) handleLine(fields []string) {
	if len(fields) == 0 {
		return
	}
	switch fields[0] {
	case protocol.ReplyAccepted:
		if itemID, ok := atoiAt(fields, 1); ok {
			s.mu.Lock()
			s.activeBids[itemID] = struct{}{}
			s.mu.Unlock()
			s.publishMessage(fmt.Sprintf("Bid accepted on item %d", itemID))
		}

	case protocol.ReplyRejected:
		s.publishMessage("Bid rejected: " + joinFrom(fields, 1))

	case protocol.PushOutbid:
		if itemID, ok := atoiAt(fields, 1); ok {
			s.mu.Lock()
			delete(s.activeBids, itemID)
			s.mu.Unlock()
			s.publishMessage(fmt.Sprintf("Outbid on item %d", itemID))
		}

	case protocol.PushWinner:
		if len(fields) != 3 {
			return
		}
		amount, ok1 := atoiAt(fields, 1)
		itemID, ok2 := atoiAt(fields, 2)
		if !ok1 || !ok2 {
			return
		}
		s.mu.Lock()
		delete(s.activeBids, itemID)
		s.mu.Unlock()
		// Settlement already happened at the venue; fetch the new balance.
		s.agent.refreshBalance()
		s.publishMessage(fmt.Sprintf("Won item %d for %d at auction house %d", itemID, amount, s.venueID))

	case protocol.PushItemUpdated:
		item, ok := client.ParseItemFields(fields)
		if !ok {
			return
		}
		s.mu.Lock()
		s.items[item.ID] = item
		s.mu.Unlock()
		s.agent.hub.Publish(events.ItemsChanged{VenueID: s.venueID})

	case protocol.PushItemSold:
		if itemID, ok := atoiAt(fields, 1); ok {
			s.mu.Lock()
			delete(s.items, itemID)
			delete(s.activeBids, itemID)
			s.mu.Unlock()
			s.agent.hub.Publish(events.ItemsChanged{VenueID: s.venueID})
		}

	default:
		utils.Debug("unknown auction house push", map[string]any{
			"agent_id": s.agent.id, "venue_id": s.venueID, "fields": fields,
		})
	}
}

func (s *VenueSession) publishMessage(text string) {
	s.agent.hub.Publish(events.Message{Text: text})
}

func (s *VenueSession) close() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	_ = s.client.Close()
}

func atoiAt(fields []string, i int) (int, bool) {
	if i >= len(fields) {
		return 0, false
	}
	n, err := strconv.Atoi(fields[i])
	if err != nil {
		return 0, false
	}
	return n, true
}

func joinFrom(fields []string, i int) string {
	if i >= len(fields) {
		return ""
	}
	out := fields[i]
	for _, f := range fields[i+1:] {
		out += " " + f
	}
	return out
}
