package integrationtests

import (
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/cdmaestas19/CS351-Distributed-Auction/internal/agent"
	"github.com/cdmaestas19/CS351-Distributed-Auction/internal/auction"
	"github.com/cdmaestas19/CS351-Distributed-Auction/internal/bank"
	"github.com/cdmaestas19/CS351-Distributed-Auction/internal/client"
	"github.com/cdmaestas19/CS351-Distributed-Auction/internal/notify"
)

// Stack is a full system on localhost TCP: one bank, one auction house.
type Stack struct {
	Pool       *notify.Pool
	Ledger     *bank.Ledger
	BankServer *bank.Server
	BankPort   int
	House      *auction.AuctionHouse
}

// StartStack boots the bank and one auction house with the given catalog
// and close delay, all on ephemeral ports.
func StartStack(t *testing.T, closeDelay time.Duration, specs []auction.ItemSpec) *Stack {
	t.Helper()

	pool := notify.NewPool(4, 64)
	t.Cleanup(pool.Close)

	ledger := bank.NewLedger(pool)
	bankServer := bank.NewServer("127.0.0.1:0", ledger)
	require.NoError(t, bankServer.Start())
	t.Cleanup(bankServer.Shutdown)

	bankPort := bankServer.Addr().(*net.TCPAddr).Port

	items := auction.NewItemManager(auction.DefaultMaxActive)
	items.Load(specs)

	bankClient := client.NewSocketBankClient("127.0.0.1", bankPort)
	house := auction.NewAuctionHouse("127.0.0.1", "127.0.0.1:0", bankClient, items, closeDelay)
	require.NoError(t, house.Start())
	t.Cleanup(func() {
		// Best effort: a test may leave a contested auction behind.
		_ = house.Shutdown()
	})

	return &Stack{
		Pool:       pool,
		Ledger:     ledger,
		BankServer: bankServer,
		BankPort:   bankPort,
		House:      house,
	}
}

// StartAgent registers a bidder at the bank, opens its push channel, and
// waits for the catch-up pushes to connect it to the stack's auction house.
func StartAgent(t *testing.T, stack *Stack, name string, balance int) *agent.Agent {
	t.Helper()

	bankClient := client.NewSocketBankClient("127.0.0.1", stack.BankPort)
	accountID, err := bankClient.RegisterAgent(name, balance)
	require.NoError(t, err)

	a := agent.New(name, accountID, bankClient)
	require.NoError(t, a.OpenBankChannel("127.0.0.1", stack.BankPort))

	WaitFor(t, func() bool {
		_, ok := a.Session(stack.House.AccountID())
		return ok
	}, name+" to join the auction house")
	return a
}

// WaitFor polls cond until it holds or the deadline passes.
func WaitFor(t *testing.T, cond func() bool, what string) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}
