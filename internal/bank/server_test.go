package bank

import (
	"bufio"
	"fmt"
	"net"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/cdmaestas19/CS351-Distributed-Auction/internal/notify"
	"github.com/stretchr/testify/require"
)

func startTestServer(t *testing.T) (*Server, string) {
	t.Helper()
	pool := notify.NewPool(2, 32)
	server := NewServer("127.0.0.1:0", NewLedger(pool))
	require.NoError(t, server.Start())
	t.Cleanup(func() {
		server.Shutdown()
		pool.Close()
	})
	return server, server.Addr().String()
}

// roundTrip opens a fresh connection, sends one line, and reads one reply,
// the way the socket bank client talks to the bank.
func roundTrip(t *testing.T, addr, line string) string {
	t.Helper()
	conn, err := net.Dial("tcp", addr)
	require.NoError(t, err)
	defer conn.Close()

	_, err = fmt.Fprintf(conn, "%s\n", line)
	require.NoError(t, err)

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	reply, err := bufio.NewReader(conn).ReadString('\n')
	require.NoError(t, err)
	return strings.TrimSpace(reply)
}

func TestServerRegisterAndBalance(t *testing.T) {
	_, addr := startTestServer(t)

	reply := roundTrip(t, addr, "REGISTER_AGENT alice 1000")
	require.True(t, strings.HasPrefix(reply, "OK "), reply)
	id := strings.Fields(reply)[1]

	require.Equal(t, "BALANCE 1000 1000", roundTrip(t, addr, "BALANCE "+id))
}

func TestServerBlockUnblockTransfer(t *testing.T) {
	_, addr := startTestServer(t)

	agentReply := roundTrip(t, addr, "REGISTER_AGENT alice 1000")
	agentID := strings.Fields(agentReply)[1]
	houseReply := roundTrip(t, addr, "REGISTER_AUCTION_HOUSE localhost 9200")
	houseID := strings.Fields(houseReply)[1]

	require.Equal(t, "OK", roundTrip(t, addr, "BLOCK_FUNDS "+agentID+" 400"))
	require.Equal(t, "BALANCE 1000 600", roundTrip(t, addr, "BALANCE "+agentID))

	reply := roundTrip(t, addr, "BLOCK_FUNDS "+agentID+" 700")
	require.True(t, strings.HasPrefix(reply, "ERROR"), reply)

	require.Equal(t, "OK", roundTrip(t, addr, "TRANSFER_FUNDS "+agentID+" "+houseID+" 400"))
	require.Equal(t, "BALANCE 600 600", roundTrip(t, addr, "BALANCE "+agentID))
	require.Equal(t, "BALANCE 400 400", roundTrip(t, addr, "BALANCE "+houseID))
}

func TestServerRejectsMalformedInput(t *testing.T) {
	_, addr := startTestServer(t)

	tests := []struct {
		name string
		line string
	}{
		{name: "unknown_verb", line: "FROBNICATE 1 2"},
		{name: "missing_args", line: "BLOCK_FUNDS"},
		{name: "non_numeric", line: "BLOCK_FUNDS abc xyz"},
		{name: "unknown_account", line: "BALANCE 424242"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reply := roundTrip(t, addr, tt.line)
			require.True(t, strings.HasPrefix(reply, "ERROR"), reply)
		})
	}
}

func TestServerAgentChannelReceivesPushes(t *testing.T) {
	_, addr := startTestServer(t)

	agentReply := roundTrip(t, addr, "REGISTER_AGENT alice 500")
	agentID, err := strconv.Atoi(strings.Fields(agentReply)[1])
	require.NoError(t, err)

	// Persistent channel connection.
	conn, err := net.Dial("tcp", addr)
	require.NoError(t, err)
	defer conn.Close()
	_, err = fmt.Fprintf(conn, "REGISTER_AGENT_CHANNEL %d\n", agentID)
	require.NoError(t, err)

	reader := bufio.NewReader(conn)
	readLine := func() string {
		require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
		line, err := reader.ReadString('\n')
		require.NoError(t, err)
		return strings.TrimSpace(line)
	}

	require.Equal(t, "OK", readLine())
	require.Equal(t, "BALANCE 500 500", readLine())

	// A venue registering elsewhere must be pushed to this channel.
	houseReply := roundTrip(t, addr, "REGISTER_AUCTION_HOUSE auctions.local 9300")
	houseID := strings.Fields(houseReply)[1]
	require.Equal(t, "AUCTION_HOUSE auctions.local 9300 "+houseID, readLine())

	// Fund movements push fresh balances.
	require.Equal(t, "OK", roundTrip(t, addr, fmt.Sprintf("BLOCK_FUNDS %d 200", agentID)))
	require.Equal(t, "BALANCE 500 300", readLine())
}
