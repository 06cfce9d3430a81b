// Package bank implements the ledger service: the single source of truth for
// money. It owns the account table, the escrow invariants, the venue
// registry, and the push channels of registered bidders.
package bank

import (
	"fmt"
	"sort"
	"strconv"
	"sync"

	"github.com/cdmaestas19/CS351-Distributed-Auction/internal/auctionerrors"
	"github.com/cdmaestas19/CS351-Distributed-Auction/internal/notify"
	"github.com/cdmaestas19/CS351-Distributed-Auction/internal/protocol"
	"github.com/cdmaestas19/CS351-Distributed-Auction/utils"
)

// LineWriter is the outbound side of a bidder's push channel.
type LineWriter interface {
	WriteLine(line string) error
}

// Venue is the registration record kept for each auction house so that
// bidders can be told where to connect.
type Venue struct {
	ID   int
	Host string
	Port int
	Name string
}

// Ledger owns all account state. Map membership is guarded by mu; fund
// mutations take the individual account's lock, never a global one.
type Ledger struct {
	mu       sync.RWMutex
	accounts map[int]*Account
	venues   map[int]Venue
	channels map[int]LineWriter
	nextID   int

	pool *notify.Pool
}

// NewLedger creates an empty ledger that fans push notifications out through
// the given pool. Account ids start at 1000.
func NewLedger(pool *notify.Pool) *Ledger {
	return &Ledger{
		accounts: make(map[int]*Account),
		venues:   make(map[int]Venue),
		channels: make(map[int]LineWriter),
		nextID:   1000,
		pool:     pool,
	}
}

// RegisterBidder creates a bidder account with the given opening balance.
func (l *Ledger) RegisterBidder(name string, balance int) (int, error) {
	if name == "" {
		return 0, fmt.Errorf("register bidder: empty name")
	}
	if balance < 0 {
		return 0, fmt.Errorf("register bidder %s: negative balance", name)
	}

	l.mu.Lock()
	id := l.nextID
	l.nextID++
	l.accounts[id] = &Account{id: id, name: name, role: RoleBidder, total: balance}
	l.mu.Unlock()

	utils.Info("bidder registered", map[string]any{"account_id": id, "name": name, "balance": balance})
	return id, nil
}

// RegisterVenue creates a venue account with a zero balance, records where
// the venue listens, and announces it to every bidder with a live channel.
func (l *Ledger) RegisterVenue(host string, port int) (int, error) {
	if host == "" || port <= 0 {
		return 0, fmt.Errorf("register venue: bad address %s:%d", host, port)
	}

	l.mu.Lock()
	id := l.nextID
	l.nextID++
	name := fmt.Sprintf("auction-house-%d", id)
	l.accounts[id] = &Account{id: id, name: name, role: RoleVenue}
	venue := Venue{ID: id, Host: host, Port: port, Name: name}
	l.venues[id] = venue
	l.mu.Unlock()

	utils.Info("auction house registered", map[string]any{"account_id": id, "host": host, "port": port})
	l.broadcast(protocol.Encode(protocol.PushAuctionHouse, host, strconv.Itoa(port), strconv.Itoa(id)))
	return id, nil
}

// RegisterChannel associates an outbound push channel with an existing
// bidder, replacing any previous one. The new channel is immediately caught
// up with the full venue list and the bidder's current balance.
func (l *Ledger) RegisterChannel(bidderID int, w LineWriter) error {
	account, err := l.account(bidderID)
	if err != nil {
		return err
	}
	if account.role != RoleBidder {
		return fmt.Errorf("register channel for %d: %w", bidderID, auctionerrors.ErrAccountNotFound)
	}

	l.mu.Lock()
	l.channels[bidderID] = w
	venues := l.venueList()
	l.mu.Unlock()

	for _, v := range venues {
		l.sendTo(bidderID, w, protocol.Encode(protocol.PushAuctionHouse, v.Host, strconv.Itoa(v.Port), strconv.Itoa(v.ID)))
	}
	info := account.snapshot()
	l.sendTo(bidderID, w, protocol.Encode(protocol.PushBalance, strconv.Itoa(info.Total), strconv.Itoa(info.Available)))

	utils.Info("agent channel registered", map[string]any{"account_id": bidderID})
	return nil
}

// BlockFunds escrows amount from the account's available balance. The check
// and the increment happen under the account lock, so two concurrent bids
// cannot both pass on the same money.
func (l *Ledger) BlockFunds(id, amount int) error {
	account, err := l.account(id)
	if err != nil {
		return err
	}
	if amount <= 0 {
		return fmt.Errorf("block funds for %d: non-positive amount %d", id, amount)
	}

	account.mu.Lock()
	if account.total-account.blocked < amount {
		account.mu.Unlock()
		return fmt.Errorf("block %d for account %d: %w", amount, id, auctionerrors.ErrInsufficientFunds)
	}
	account.blocked += amount
	account.mu.Unlock()

	l.pushBalance(account)
	return nil
}

// UnblockFunds releases previously escrowed funds, floored at zero.
func (l *Ledger) UnblockFunds(id, amount int) error {
	account, err := l.account(id)
	if err != nil {
		return err
	}

	account.mu.Lock()
	account.blocked -= amount
	if account.blocked < 0 {
		account.blocked = 0
	}
	account.mu.Unlock()

	l.pushBalance(account)
	return nil
}

// TransferFunds permanently moves escrowed money from one account to
// another. Both accounts are locked in ascending id order so concurrent
// transfers cannot deadlock.
func (l *Ledger) TransferFunds(fromID, toID, amount int) error {
	from, err := l.account(fromID)
	if err != nil {
		return err
	}
	to, err := l.account(toID)
	if err != nil {
		return err
	}
	if fromID == toID {
		return fmt.Errorf("transfer for account %d: sender equals receiver", fromID)
	}

	first, second := from, to
	if second.id < first.id {
		first, second = second, first
	}
	first.mu.Lock()
	defer first.mu.Unlock()
	second.mu.Lock()
	defer second.mu.Unlock()

	if from.blocked < amount {
		// The escrow protocol guarantees blocked funds cover every
		// settlement. Reaching this branch means a caller bypassed it.
		utils.Error("transfer without sufficient escrow", map[string]any{
			"from": fromID, "to": toID, "amount": amount, "blocked": from.blocked,
		})
		return fmt.Errorf("transfer %d from %d to %d: %w", amount, fromID, toID, auctionerrors.ErrInsufficientEscrow)
	}

	from.blocked -= amount
	from.total -= amount
	to.total += amount

	utils.Info("funds transferred", map[string]any{"from": fromID, "to": toID, "amount": amount})
	go l.pushBalance(from)
	return nil
}

// Balance reports an account's total and available balance.
func (l *Ledger) Balance(id int) (total, available int, err error) {
	account, err := l.account(id)
	if err != nil {
		return 0, 0, err
	}
	info := account.snapshot()
	return info.Total, info.Available, nil
}

// Deregister removes the account's routing and notification state. The
// ledger row itself stays. A departing venue is announced to all bidders.
func (l *Ledger) Deregister(id int) error {
	account, err := l.account(id)
	if err != nil {
		return err
	}

	l.mu.Lock()
	delete(l.channels, id)
	_, wasVenue := l.venues[id]
	delete(l.venues, id)
	l.mu.Unlock()

	utils.Info("account deregistered", map[string]any{"account_id": id, "role": account.role})
	if wasVenue {
		l.broadcast(protocol.Encode(protocol.PushRemoveAuctionHouse, strconv.Itoa(id)))
	}
	return nil
}

// Accounts returns a snapshot of every ledger row, sorted by id.
func (l *Ledger) Accounts() []AccountInfo {
	l.mu.RLock()
	accounts := make([]*Account, 0, len(l.accounts))
	for _, a := range l.accounts {
		accounts = append(accounts, a)
	}
	l.mu.RUnlock()

	infos := make([]AccountInfo, 0, len(accounts))
	for _, a := range accounts {
		infos = append(infos, a.snapshot())
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].ID < infos[j].ID })
	return infos
}

// Venues returns a snapshot of the registered venues, sorted by id.
func (l *Ledger) Venues() []Venue {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.venueList()
}

// venueList copies the venue map; callers hold at least a read lock.
func (l *Ledger) venueList() []Venue {
	venues := make([]Venue, 0, len(l.venues))
	for _, v := range l.venues {
		venues = append(venues, v)
	}
	sort.Slice(venues, func(i, j int) bool { return venues[i].ID < venues[j].ID })
	return venues
}

func (l *Ledger) account(id int) (*Account, error) {
	l.mu.RLock()
	account, ok := l.accounts[id]
	l.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("account %d: %w", id, auctionerrors.ErrAccountNotFound)
	}
	return account, nil
}

// pushBalance sends the account's current balances to its push channel, if
// one is registered.
func (l *Ledger) pushBalance(account *Account) {
	l.mu.RLock()
	w, ok := l.channels[account.id]
	l.mu.RUnlock()
	if !ok {
		return
	}

	info := account.snapshot()
	line := protocol.Encode(protocol.PushBalance, strconv.Itoa(info.Total), strconv.Itoa(info.Available))
	l.pool.Submit(func() {
		l.sendTo(account.id, w, line)
	})
}

// broadcast fans a push line out to every live channel.
func (l *Ledger) broadcast(line string) {
	l.mu.RLock()
	targets := make(map[int]LineWriter, len(l.channels))
	for id, w := range l.channels {
		targets[id] = w
	}
	l.mu.RUnlock()

	for id, w := range targets {
		id, w := id, w
		l.pool.Submit(func() {
			l.sendTo(id, w, line)
		})
	}
}

// sendTo writes one push line. A failed write means the peer is gone: log
// it, drop the channel, and carry on.
func (l *Ledger) sendTo(id int, w LineWriter, line string) {
	if err := w.WriteLine(line); err != nil {
		utils.Warn("push to bidder failed", map[string]any{"account_id": id, "error": err.Error()})
		l.mu.Lock()
		if current, ok := l.channels[id]; ok && current == w {
			delete(l.channels, id)
		}
		l.mu.Unlock()
	}
}
