package perftests

import (
	"bufio"
	"fmt"
	"math/rand"
	"net"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/cdmaestas19/CS351-Distributed-Auction/internal/auction"
	"github.com/cdmaestas19/CS351-Distributed-Auction/internal/bank"
	"github.com/cdmaestas19/CS351-Distributed-Auction/internal/client"
	"github.com/cdmaestas19/CS351-Distributed-Auction/internal/notify"
	"github.com/cdmaestas19/CS351-Distributed-Auction/internal/protocol"
)

// LoadScenario defines configurable load parameters
type LoadScenario struct {
	Name        string
	NumAgents   int
	NumItems    int
	BidsPerUser int
	Balance     int
}

// OperationMetrics collects bid round-trip latencies
type OperationMetrics struct {
	mu        sync.Mutex
	latencies []time.Duration
}

func (om *OperationMetrics) Record(d time.Duration) {
	om.mu.Lock()
	om.latencies = append(om.latencies, d)
	om.mu.Unlock()
}

func (om *OperationMetrics) Stats() (min, max, avg, p95, p99 time.Duration) {
	om.mu.Lock()
	defer om.mu.Unlock()
	if len(om.latencies) == 0 {
		return
	}
	latencies := append([]time.Duration(nil), om.latencies...)
	sort.Slice(latencies, func(i, j int) bool { return latencies[i] < latencies[j] })

	min = latencies[0]
	max = latencies[len(latencies)-1]

	var total time.Duration
	for _, d := range latencies {
		total += d
	}
	avg = total / time.Duration(len(latencies))
	p95 = latencies[int(0.95*float64(len(latencies)))]
	p99 = latencies[int(0.99*float64(len(latencies)))]
	return
}

// biddingConn is a raw agent connection issuing one bid at a time.
type biddingConn struct {
	conn   net.Conn
	reader *bufio.Reader
}

func dialHouse(addr string, agentID int) (*biddingConn, error) {
	conn, err := net.Dial("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("dial auction house: %w", err)
	}
	reader := bufio.NewReader(conn)

	fmt.Fprintf(conn, "%s %d\n", protocol.CmdAgent, agentID)
	line, err := reader.ReadString('\n')
	if err != nil || !strings.HasPrefix(line, protocol.ReplyWelcome) {
		conn.Close()
		return nil, fmt.Errorf("handshake failed: %q %v", line, err)
	}
	return &biddingConn{conn: conn, reader: reader}, nil
}

// bid sends one BID and reads lines until its ACCEPTED or REJECTED reply,
// skipping interleaved pushes.
func (c *biddingConn) bid(itemID, amount int) (bool, error) {
	fmt.Fprintf(c.conn, "%s %d %d\n", protocol.CmdBid, itemID, amount)
	for {
		line, err := c.reader.ReadString('\n')
		if err != nil {
			return false, err
		}
		switch {
		case strings.HasPrefix(line, protocol.ReplyAccepted):
			return true, nil
		case strings.HasPrefix(line, protocol.ReplyRejected):
			return false, nil
		}
	}
}

// TestBiddingLoad floods one auction house with concurrent bidders and
// checks latency and money conservation afterwards.
func TestBiddingLoad(t *testing.T) {
	if testing.Short() {
		t.Skip("load test skipped in short mode")
	}

	scenario := LoadScenario{
		Name:        "burst_bidding",
		NumAgents:   8,
		NumItems:    3,
		BidsPerUser: 50,
		Balance:     1_000_000,
	}

	pool := notify.NewPool(4, 64)
	defer pool.Close()
	ledger := bank.NewLedger(pool)
	bankServer := bank.NewServer("127.0.0.1:0", ledger)
	if err := bankServer.Start(); err != nil {
		t.Fatalf("failed to start bank: %v", err)
	}
	defer bankServer.Shutdown()
	bankPort := bankServer.Addr().(*net.TCPAddr).Port

	specs := make([]auction.ItemSpec, scenario.NumItems)
	for i := range specs {
		specs[i] = auction.ItemSpec{Description: fmt.Sprintf("lot_%d", i), MinimumBid: 1}
	}
	items := auction.NewItemManager(scenario.NumItems)
	items.Load(specs)

	bankClient := client.NewSocketBankClient("127.0.0.1", bankPort)
	house := auction.NewAuctionHouse("127.0.0.1", "127.0.0.1:0", bankClient, items, time.Minute)
	if err := house.Start(); err != nil {
		t.Fatalf("failed to start auction house: %v", err)
	}

	initialTotal := 0
	agentIDs := make([]int, scenario.NumAgents)
	for i := range agentIDs {
		id, err := ledger.RegisterBidder(fmt.Sprintf("load_agent_%d", i), scenario.Balance)
		if err != nil {
			t.Fatalf("failed to register bidder: %v", err)
		}
		agentIDs[i] = id
		initialTotal += scenario.Balance
	}

	metrics := &OperationMetrics{}
	var wg sync.WaitGroup
	for _, agentID := range agentIDs {
		wg.Add(1)
		go func(agentID int) {
			defer wg.Done()
			conn, err := dialHouse(house.Addr().String(), agentID)
			if err != nil {
				t.Errorf("agent %d: %v", agentID, err)
				return
			}
			defer conn.conn.Close()

			for i := 0; i < scenario.BidsPerUser; i++ {
				itemID := 1 + rand.Intn(scenario.NumItems)
				amount := 1 + rand.Intn(10_000)
				start := time.Now()
				if _, err := conn.bid(itemID, amount); err != nil {
					t.Errorf("bid round trip failed: %v", err)
					return
				}
				metrics.Record(time.Since(start))
			}
		}(agentID)
	}
	wg.Wait()

	min, max, avg, p95, p99 := metrics.Stats()
	t.Logf("%s: %d bids, min=%v max=%v avg=%v p95=%v p99=%v",
		scenario.Name, scenario.NumAgents*scenario.BidsPerUser, min, max, avg, p95, p99)

	// Nothing has settled yet, so every unit of money must still be held
	// by a bidder, either free or escrowed.
	finalTotal := 0
	for _, id := range agentIDs {
		total, _, err := ledger.Balance(id)
		if err != nil {
			t.Fatalf("failed to read balance: %v", err)
		}
		finalTotal += total
	}
	if finalTotal != initialTotal {
		t.Fatalf("money not conserved: had %d, now %d", initialTotal, finalTotal)
	}

	for _, snapshot := range house.ActiveItems() {
		if snapshot.CurrentBidder != auction.NoBidder && snapshot.CurrentBid <= 0 {
			t.Fatalf("item %d has a bidder but no bid", snapshot.ID)
		}
	}
}
