// Package events is the typed observer hub through which the core reports
// state changes to whatever consumer is attached, a dashboard, a log tail,
// or a test harness. The core publishes and moves on; nothing in it depends
// on how an event is rendered.
package events

import "sync"

// BalanceChanged reports the agent's balances after a ledger push.
type BalanceChanged struct {
	Total     int
	Available int
}

// VenueAdded reports a newly known auction house.
type VenueAdded struct {
	ID   int
	Host string
	Port int
}

// VenueRemoved reports an auction house leaving the system.
type VenueRemoved struct {
	ID int
}

// ItemsChanged reports that a venue's item list changed.
type ItemsChanged struct {
	VenueID int
}

// Message carries a human-readable notice (bid accepted, outbid, winner).
type Message struct {
	Text string
}

// Hub fans typed events out to subscribers. Publishing never blocks: a
// subscriber whose channel is full misses the event.
type Hub struct {
	mu     sync.Mutex
	subs   []chan any
	closed bool
}

func NewHub() *Hub {
	return &Hub{}
}

// Subscribe registers a new subscriber and returns its event channel. After
// Close the returned channel is already closed.
func (h *Hub) Subscribe(buffer int) <-chan any {
	ch := make(chan any, buffer)
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		close(ch)
		return ch
	}
	h.subs = append(h.subs, ch)
	return ch
}

// Publish delivers an event to every subscriber that has room for it. The
// sends stay under the lock so a concurrent Close can never catch a send to
// a channel it is closing; they never block, so the lock is held briefly.
func (h *Hub) Publish(event any) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	for _, ch := range h.subs {
		select {
		case ch <- event:
		default:
		}
	}
}

// Close closes all subscriber channels. Publishing afterwards is a no-op.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.closed = true
	for _, ch := range h.subs {
		close(ch)
	}
	h.subs = nil
}
