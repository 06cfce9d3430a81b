package client

import (
	"bufio"
	"fmt"
	"net"
	"strconv"
	"sync"

	"github.com/cdmaestas19/CS351-Distributed-Auction/internal/protocol"
)

// ItemListing is one ITEM line decoded from an auction house.
type ItemListing struct {
	ID          int
	Description string
	MinimumBid  int
	CurrentBid  int
}

// AuctionClient is the per-venue transport used by an agent: a persistent
// connection carrying the handshake, commands, and the venue's pushes.
type AuctionClient interface {
	Connect(host string, port int, agentID int) error
	AgentID() int
	Items() ([]ItemListing, error)
	PlaceBid(itemID, amount int) error
	Reader() *bufio.Reader
	Close() error
}

// SocketAuctionClient implements AuctionClient over TCP.
type SocketAuctionClient struct {
	conn    net.Conn
	reader  *bufio.Reader
	agentID int

	writeMu sync.Mutex
}

func NewSocketAuctionClient() *SocketAuctionClient {
	return &SocketAuctionClient{}
}

// Connect dials the auction house and performs the AGENT handshake. Any
// reply other than WELCOME is a rejection.
func (c *SocketAuctionClient) Connect(host string, port int, agentID int) error {
	conn, err := net.Dial("tcp", net.JoinHostPort(host, strconv.Itoa(port)))
	if err != nil {
		return fmt.Errorf("auction client: dial %s:%d: %w", host, port, err)
	}
	reader := bufio.NewReader(conn)

	if _, err := conn.Write([]byte(protocol.Encode(protocol.CmdAgent, strconv.Itoa(agentID)) + "\n")); err != nil {
		conn.Close()
		return fmt.Errorf("auction client: handshake write: %w", err)
	}
	reply, err := reader.ReadString('\n')
	if err != nil {
		conn.Close()
		return fmt.Errorf("auction client: handshake read: %w", err)
	}
	fields := protocol.Fields(reply)
	if len(fields) == 0 || fields[0] != protocol.ReplyWelcome {
		conn.Close()
		return fmt.Errorf("auction client: connection rejected: %s", reply)
	}

	c.conn = conn
	c.reader = reader
	c.agentID = agentID
	return nil
}

// AgentID returns the id used in the handshake.
func (c *SocketAuctionClient) AgentID() int {
	return c.agentID
}

// Items requests the venue's active items and reads ITEM lines until the
// END_ITEMS marker. It must not run concurrently with the session reader
// loop; sessions call it once before starting the loop.
func (c *SocketAuctionClient) Items() ([]ItemListing, error) {
	if err := c.writeLine(protocol.Encode(protocol.CmdList)); err != nil {
		return nil, err
	}

	var items []ItemListing
	for {
		line, err := c.reader.ReadString('\n')
		if err != nil {
			return nil, fmt.Errorf("auction client: read item list: %w", err)
		}
		fields := protocol.Fields(line)
		if len(fields) == 0 {
			continue
		}
		switch fields[0] {
		case protocol.ReplyEndItems:
			return items, nil
		case protocol.ReplyItem:
			item, ok := ParseItemFields(fields)
			if !ok {
				return nil, fmt.Errorf("auction client: malformed item line %q", line)
			}
			items = append(items, item)
		default:
			// A push can interleave with the listing; it belongs to
			// the session loop, which has not started yet, so skip it.
		}
	}
}

// PlaceBid sends a BID command. The reply arrives asynchronously on the
// reader as ACCEPTED or REJECTED.
func (c *SocketAuctionClient) PlaceBid(itemID, amount int) error {
	return c.writeLine(protocol.Encode(protocol.CmdBid, strconv.Itoa(itemID), strconv.Itoa(amount)))
}

// Reader exposes the connection's input for the session's listener loop.
func (c *SocketAuctionClient) Reader() *bufio.Reader {
	return c.reader
}

// Close sends QUIT and closes the connection.
func (c *SocketAuctionClient) Close() error {
	if c.conn == nil {
		return nil
	}
	_ = c.writeLine(protocol.Encode(protocol.CmdQuit))
	return c.conn.Close()
}

func (c *SocketAuctionClient) writeLine(line string) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	if c.conn == nil {
		return fmt.Errorf("auction client: not connected")
	}
	if _, err := c.conn.Write([]byte(line + "\n")); err != nil {
		return fmt.Errorf("auction client: write: %w", err)
	}
	return nil
}

// ParseItemFields decodes the argument fields of an ITEM or ITEM_UPDATED
// line: verb id description minBid currBid.
func ParseItemFields(fields []string) (ItemListing, bool) {
	if len(fields) != 5 {
		return ItemListing{}, false
	}
	id, err1 := strconv.Atoi(fields[1])
	minBid, err2 := strconv.Atoi(fields[3])
	currBid, err3 := strconv.Atoi(fields[4])
	if err1 != nil || err2 != nil || err3 != nil {
		return ItemListing{}, false
	}
	return ItemListing{ID: id, Description: fields[2], MinimumBid: minBid, CurrentBid: currBid}, true
}
