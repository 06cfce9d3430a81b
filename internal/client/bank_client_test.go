package client

import (
	"net"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cdmaestas19/CS351-Distributed-Auction/internal/auctionerrors"
	"github.com/cdmaestas19/CS351-Distributed-Auction/internal/bank"
	"github.com/cdmaestas19/CS351-Distributed-Auction/internal/notify"
)

func startBank(t *testing.T) (*bank.Ledger, *SocketBankClient) {
	t.Helper()
	pool := notify.NewPool(2, 16)
	t.Cleanup(pool.Close)

	ledger := bank.NewLedger(pool)
	server := bank.NewServer("127.0.0.1:0", ledger)
	require.NoError(t, server.Start())
	t.Cleanup(server.Shutdown)

	port := server.Addr().(*net.TCPAddr).Port
	return ledger, NewSocketBankClient("127.0.0.1", port)
}

// TestRefusalsCarrySentinels checks that a bank refusal keeps its identity
// across the wire: callers match with errors.Is exactly as they would
// against the ledger in process.
func TestRefusalsCarrySentinels(t *testing.T) {
	ledger, bankClient := startBank(t)

	id, err := bankClient.RegisterAgent("alice", 100)
	require.NoError(t, err)

	err = bankClient.BlockFunds(9999, 50)
	require.ErrorIs(t, err, auctionerrors.ErrAccountNotFound)

	err = bankClient.BlockFunds(id, 500)
	require.ErrorIs(t, err, auctionerrors.ErrInsufficientFunds)

	_, _, err = bankClient.Balance(9999)
	require.ErrorIs(t, err, auctionerrors.ErrAccountNotFound)

	// The failed attempts left the escrow untouched.
	total, available, err := ledger.Balance(id)
	require.NoError(t, err)
	require.Equal(t, 100, total)
	require.Equal(t, 100, available)
}
