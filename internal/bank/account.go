package bank

import "sync"

// Role distinguishes the two kinds of ledger accounts.
type Role string

const (
	RoleBidder Role = "bidder"
	RoleVenue  Role = "venue"
)

// Account is a single ledger row. The id, name, and role are immutable after
// creation; the fund fields are guarded by mu and mutated only through the
// Ledger's operations. Rows are never deleted: deregistration removes routing
// state but the account stays queryable.
type Account struct {
	id   int
	name string
	role Role

	mu      sync.Mutex
	total   int
	blocked int
}

// ID returns the bank-assigned account id.
func (a *Account) ID() int {
	return a.id
}

// Name returns the display name given at registration.
func (a *Account) Name() string {
	return a.name
}

// Role returns whether the account belongs to a bidder or a venue.
func (a *Account) Role() Role {
	return a.role
}

// AccountInfo is a point-in-time copy of an account's state.
type AccountInfo struct {
	ID        int
	Name      string
	Role      Role
	Total     int
	Blocked   int
	Available int
}

func (a *Account) snapshot() AccountInfo {
	a.mu.Lock()
	defer a.mu.Unlock()
	return AccountInfo{
		ID:        a.id,
		Name:      a.name,
		Role:      a.role,
		Total:     a.total,
		Blocked:   a.blocked,
		Available: a.total - a.blocked,
	}
}
