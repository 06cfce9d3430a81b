package auction

import "sync"

// NoBidder is the sentinel bidder id of an item nobody has bid on.
const NoBidder = -1

// Item is a single lot. The immutable fields are set at creation; the bid
// state is guarded by mu and mutated only while it is held. The bid handler
// holds mu across the whole validate-escrow-commit-reschedule sequence, so a
// close timer and an in-flight bid on the same item can never interleave.
type Item struct {
	ID          int
	Description string
	MinimumBid  int

	mu            sync.Mutex
	currentBid    int
	currentBidder int
	sold          bool
}

func newItem(id int, description string, minimumBid int) *Item {
	return &Item{
		ID:            id,
		Description:   description,
		MinimumBid:    minimumBid,
		currentBidder: NoBidder,
	}
}

// ItemSnapshot is a point-in-time copy of an item's state.
type ItemSnapshot struct {
	ID            int
	Description   string
	MinimumBid    int
	CurrentBid    int
	CurrentBidder int
	Sold          bool
}

// Snapshot copies the item's state under its lock.
func (i *Item) Snapshot() ItemSnapshot {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.snapshotLocked()
}

// snapshotLocked copies the state; the caller holds i.mu.
func (i *Item) snapshotLocked() ItemSnapshot {
	return ItemSnapshot{
		ID:            i.ID,
		Description:   i.Description,
		MinimumBid:    i.MinimumBid,
		CurrentBid:    i.currentBid,
		CurrentBidder: i.currentBidder,
		Sold:          i.sold,
	}
}
