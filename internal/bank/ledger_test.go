package bank

import (
	"errors"
	"strconv"
	"sync"
	"testing"

	"github.com/cdmaestas19/CS351-Distributed-Auction/internal/auctionerrors"
	"github.com/cdmaestas19/CS351-Distributed-Auction/internal/notify"
	"github.com/stretchr/testify/require"
)

// recordingWriter captures push lines for assertions.
type recordingWriter struct {
	mu    sync.Mutex
	lines []string
	fail  bool
}

func (w *recordingWriter) WriteLine(line string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.fail {
		return errors.New("peer gone")
	}
	w.lines = append(w.lines, line)
	return nil
}

func (w *recordingWriter) all() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]string(nil), w.lines...)
}

func newTestLedger() (*Ledger, *notify.Pool) {
	pool := notify.NewPool(2, 32)
	return NewLedger(pool), pool
}

func TestRegisterBidder(t *testing.T) {
	ledger, pool := newTestLedger()
	defer pool.Close()

	id, err := ledger.RegisterBidder("alice", 1000)
	require.NoError(t, err)
	require.GreaterOrEqual(t, id, 1000)

	total, available, err := ledger.Balance(id)
	require.NoError(t, err)
	require.Equal(t, 1000, total)
	require.Equal(t, 1000, available)

	_, err = ledger.RegisterBidder("", 100)
	require.Error(t, err)
	_, err = ledger.RegisterBidder("bob", -5)
	require.Error(t, err)
}

func TestRegisterVenueAnnouncesToLiveChannels(t *testing.T) {
	ledger, pool := newTestLedger()

	bidderID, err := ledger.RegisterBidder("alice", 500)
	require.NoError(t, err)

	w := &recordingWriter{}
	require.NoError(t, ledger.RegisterChannel(bidderID, w))

	venueID, err := ledger.RegisterVenue("localhost", 9200)
	require.NoError(t, err)
	pool.Close()

	lines := w.all()
	// Catch-up balance first, then the venue announcement.
	require.Contains(t, lines, "BALANCE 500 500")
	require.Contains(t, lines, "AUCTION_HOUSE localhost 9200 "+strconv.Itoa(venueID))
}

func TestRegisterChannelCatchesUpLateJoiner(t *testing.T) {
	ledger, pool := newTestLedger()
	defer pool.Close()

	venueID, err := ledger.RegisterVenue("localhost", 9200)
	require.NoError(t, err)

	bidderID, err := ledger.RegisterBidder("late", 250)
	require.NoError(t, err)

	w := &recordingWriter{}
	require.NoError(t, ledger.RegisterChannel(bidderID, w))

	require.Equal(t, []string{
		"AUCTION_HOUSE localhost 9200 " + strconv.Itoa(venueID),
		"BALANCE 250 250",
	}, w.all())
}

func TestRegisterChannelRejectsUnknownAndVenueAccounts(t *testing.T) {
	ledger, pool := newTestLedger()
	defer pool.Close()

	require.ErrorIs(t, ledger.RegisterChannel(42, &recordingWriter{}), auctionerrors.ErrAccountNotFound)

	venueID, err := ledger.RegisterVenue("localhost", 9000)
	require.NoError(t, err)
	require.ErrorIs(t, ledger.RegisterChannel(venueID, &recordingWriter{}), auctionerrors.ErrAccountNotFound)
}

func TestBlockFunds(t *testing.T) {
	ledger, pool := newTestLedger()
	defer pool.Close()

	id, err := ledger.RegisterBidder("alice", 100)
	require.NoError(t, err)

	require.NoError(t, ledger.BlockFunds(id, 60))
	total, available, err := ledger.Balance(id)
	require.NoError(t, err)
	require.Equal(t, 100, total)
	require.Equal(t, 40, available)

	err = ledger.BlockFunds(id, 50)
	require.ErrorIs(t, err, auctionerrors.ErrInsufficientFunds)

	// The failed block must not have mutated anything.
	total, available, err = ledger.Balance(id)
	require.NoError(t, err)
	require.Equal(t, 100, total)
	require.Equal(t, 40, available)
}

func TestUnblockFundsFloorsAtZero(t *testing.T) {
	ledger, pool := newTestLedger()
	defer pool.Close()

	id, err := ledger.RegisterBidder("alice", 100)
	require.NoError(t, err)
	require.NoError(t, ledger.BlockFunds(id, 30))

	require.NoError(t, ledger.UnblockFunds(id, 100))
	total, available, err := ledger.Balance(id)
	require.NoError(t, err)
	require.Equal(t, 100, total)
	require.Equal(t, 100, available)
}

func TestTransferFundsRequiresEscrow(t *testing.T) {
	ledger, pool := newTestLedger()
	defer pool.Close()

	bidder, err := ledger.RegisterBidder("alice", 1000)
	require.NoError(t, err)
	venue, err := ledger.RegisterVenue("localhost", 9200)
	require.NoError(t, err)

	// Settlement without escrow is a contract violation.
	err = ledger.TransferFunds(bidder, venue, 150)
	require.ErrorIs(t, err, auctionerrors.ErrInsufficientEscrow)

	require.NoError(t, ledger.BlockFunds(bidder, 150))
	require.NoError(t, ledger.TransferFunds(bidder, venue, 150))

	total, available, err := ledger.Balance(bidder)
	require.NoError(t, err)
	require.Equal(t, 850, total)
	require.Equal(t, 850, available)

	total, _, err = ledger.Balance(venue)
	require.NoError(t, err)
	require.Equal(t, 150, total)
}

// Escrow conservation: under concurrent block/unblock/transfer traffic,
// blocked funds never go negative and never exceed the total balance.
func TestEscrowConservationUnderConcurrency(t *testing.T) {
	ledger, pool := newTestLedger()
	defer pool.Close()

	bidder, err := ledger.RegisterBidder("alice", 1000)
	require.NoError(t, err)
	venue, err := ledger.RegisterVenue("localhost", 9200)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				if ledger.BlockFunds(bidder, 10) == nil {
					if j%2 == 0 {
						_ = ledger.UnblockFunds(bidder, 10)
					} else {
						_ = ledger.TransferFunds(bidder, venue, 10)
					}
				}

				info := ledger.Accounts()
				for _, a := range info {
					if a.Blocked < 0 || a.Blocked > a.Total {
						t.Errorf("escrow invariant broken: %+v", a)
						return
					}
				}
			}
		}()
	}
	wg.Wait()

	bidderTotal, _, err := ledger.Balance(bidder)
	require.NoError(t, err)
	venueTotal, _, err := ledger.Balance(venue)
	require.NoError(t, err)
	require.Equal(t, 1000, bidderTotal+venueTotal, "money must be conserved")
}

// Concurrent opposing transfers exercise the fixed lock ordering.
func TestTransferFundsNoDeadlock(t *testing.T) {
	ledger, pool := newTestLedger()
	defer pool.Close()

	a, err := ledger.RegisterBidder("alice", 10000)
	require.NoError(t, err)
	b, err := ledger.RegisterBidder("bob", 10000)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				if ledger.BlockFunds(a, 1) == nil {
					_ = ledger.TransferFunds(a, b, 1)
				}
			}
		}()
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				if ledger.BlockFunds(b, 1) == nil {
					_ = ledger.TransferFunds(b, a, 1)
				}
			}
		}()
	}
	wg.Wait()

	aTotal, _, err := ledger.Balance(a)
	require.NoError(t, err)
	bTotal, _, err := ledger.Balance(b)
	require.NoError(t, err)
	require.Equal(t, 20000, aTotal+bTotal)
}

func TestDeregisterVenueBroadcastsRemoval(t *testing.T) {
	ledger, pool := newTestLedger()

	bidder, err := ledger.RegisterBidder("alice", 100)
	require.NoError(t, err)
	w := &recordingWriter{}
	require.NoError(t, ledger.RegisterChannel(bidder, w))

	venue, err := ledger.RegisterVenue("localhost", 9200)
	require.NoError(t, err)
	require.NoError(t, ledger.Deregister(venue))
	pool.Close()

	require.Contains(t, w.all(), "REMOVE_AUCTION_HOUSE "+strconv.Itoa(venue))
	require.Empty(t, ledger.Venues())

	// The ledger row survives deregistration.
	_, _, err = ledger.Balance(venue)
	require.NoError(t, err)
}

func TestDeadChannelIsDropped(t *testing.T) {
	ledger, pool := newTestLedger()

	bidder, err := ledger.RegisterBidder("alice", 100)
	require.NoError(t, err)
	w := &recordingWriter{fail: true}
	_ = ledger.RegisterChannel(bidder, w)

	// Broadcasts must carry on despite the dead peer.
	_, err = ledger.RegisterVenue("localhost", 9200)
	require.NoError(t, err)
	pool.Close()

	ledger.mu.RLock()
	_, stillThere := ledger.channels[bidder]
	ledger.mu.RUnlock()
	require.False(t, stillThere)
}

