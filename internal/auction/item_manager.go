// Package auction implements the auction house: the item catalog, the
// per-item close timers, and the coordinator that serializes bids through
// the bank and pushes notifications to connected agents.
package auction

import (
	"math/rand"
	"sort"
	"sync"
)

// DefaultMaxActive is the number of items open for bidding at once.
const DefaultMaxActive = 3

// ItemSpec is one catalog entry: what to sell and for how little.
type ItemSpec struct {
	Description string
	MinimumBid  int
}

// ItemManager owns the active and pending item queues. Active membership is
// bounded; selling an item promotes the next pending one into its slot.
type ItemManager struct {
	mu        sync.Mutex
	active    map[int]*Item
	pending   []*Item
	nextID    int
	maxActive int
}

// NewItemManager creates an empty catalog allowing maxActive concurrent
// listings (DefaultMaxActive when zero or negative).
func NewItemManager(maxActive int) *ItemManager {
	if maxActive <= 0 {
		maxActive = DefaultMaxActive
	}
	return &ItemManager{
		active:    make(map[int]*Item),
		maxActive: maxActive,
		nextID:    1,
	}
}

// Load populates the pending queue from the catalog source and opens the
// first slots. Order is shuffled so the catalog file order carries no bias.
func (m *ItemManager) Load(specs []ItemSpec) {
	shuffled := append([]ItemSpec(nil), specs...)
	rand.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	m.mu.Lock()
	defer m.mu.Unlock()
	for _, spec := range shuffled {
		item := newItem(m.nextID, spec.Description, spec.MinimumBid)
		m.nextID++
		m.pending = append(m.pending, item)
	}
	for len(m.active) < m.maxActive && len(m.pending) > 0 {
		m.promoteLocked()
	}
}

// promoteLocked moves the head of the pending queue into the active set and
// returns it. The caller holds m.mu.
func (m *ItemManager) promoteLocked() *Item {
	if len(m.pending) == 0 {
		return nil
	}
	item := m.pending[0]
	m.pending = m.pending[1:]
	m.active[item.ID] = item
	return item
}

// ActiveItems returns a snapshot of the active set, sorted by id so two
// listings with no intervening bids are identical.
func (m *ItemManager) ActiveItems() []ItemSnapshot {
	m.mu.Lock()
	items := make([]*Item, 0, len(m.active))
	for _, item := range m.active {
		items = append(items, item)
	}
	m.mu.Unlock()

	snapshots := make([]ItemSnapshot, 0, len(items))
	for _, item := range items {
		snapshots = append(snapshots, item.Snapshot())
	}
	sort.Slice(snapshots, func(i, j int) bool { return snapshots[i].ID < snapshots[j].ID })
	return snapshots
}

// Lookup finds an active item by id.
func (m *ItemManager) Lookup(id int) (*Item, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	item, ok := m.active[id]
	return item, ok
}

// MarkSold removes a sold item from the active set and promotes one pending
// item into the vacated slot, returning the promoted item (nil if none).
// The item's own sold flag is set by the caller under the item lock.
func (m *ItemManager) MarkSold(id int) *Item {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.active[id]; !ok {
		return nil
	}
	delete(m.active, id)
	return m.promoteLocked()
}

// HasActiveAuctions reports whether any active item is currently contested,
// i.e. carries a bid. Used to refuse shutdown mid-auction.
func (m *ItemManager) HasActiveAuctions() bool {
	m.mu.Lock()
	items := make([]*Item, 0, len(m.active))
	for _, item := range m.active {
		items = append(items, item)
	}
	m.mu.Unlock()

	for _, item := range items {
		if item.Snapshot().CurrentBidder != NoBidder {
			return true
		}
	}
	return false
}

// PendingCount reports how many items wait for an active slot.
func (m *ItemManager) PendingCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.pending)
}
