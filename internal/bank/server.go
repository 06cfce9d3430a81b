package bank

import (
	"bufio"
	"fmt"
	"net"
	"strconv"
	"sync"

	"github.com/cdmaestas19/CS351-Distributed-Auction/internal/protocol"
	"github.com/cdmaestas19/CS351-Distributed-Auction/utils"
)

// Server terminates the bank's TCP connections and dispatches wire commands
// to the ledger. Each accepted connection gets its own goroutine; a
// connection that registers an agent channel stays open for pushes.
type Server struct {
	addr     string
	ledger   *Ledger
	listener net.Listener

	mu      sync.Mutex
	conns   map[net.Conn]struct{}
	running bool
	wg      sync.WaitGroup
}

// NewServer creates a bank server for the given listen address.
func NewServer(addr string, ledger *Ledger) *Server {
	return &Server{
		addr:   addr,
		ledger: ledger,
		conns:  make(map[net.Conn]struct{}),
	}
}

// Start binds the listening port and begins accepting connections in the
// background. A bind failure is returned so the caller can abort startup.
func (s *Server) Start() error {
	listener, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("bank: listen on %s: %w", s.addr, err)
	}
	s.listener = listener
	s.mu.Lock()
	s.running = true
	s.mu.Unlock()

	utils.Info("bank server listening", map[string]any{"addr": listener.Addr().String()})
	s.wg.Add(1)
	go s.acceptLoop()
	return nil
}

// Addr returns the bound listen address.
func (s *Server) Addr() net.Addr {
	return s.listener.Addr()
}

func (s *Server) acceptLoop() {
	defer s.wg.Done()
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			s.mu.Lock()
			running := s.running
			s.mu.Unlock()
			if running {
				utils.Error("bank accept failed", map[string]any{"error": err.Error()})
			}
			return
		}

		s.mu.Lock()
		s.conns[conn] = struct{}{}
		s.mu.Unlock()

		s.wg.Add(1)
		go s.handleConn(conn)
	}
}

// Shutdown stops accepting connections and closes the open ones.
func (s *Server) Shutdown() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	conns := make([]net.Conn, 0, len(s.conns))
	for c := range s.conns {
		conns = append(conns, c)
	}
	s.mu.Unlock()

	if s.listener != nil {
		_ = s.listener.Close()
	}
	for _, c := range conns {
		_ = c.Close()
	}
	s.wg.Wait()
	utils.Info("bank server shut down", nil)
}

func (s *Server) handleConn(conn net.Conn) {
	connID := utils.GenerateID()
	defer func() {
		s.mu.Lock()
		delete(s.conns, conn)
		s.mu.Unlock()
		_ = conn.Close()
		s.wg.Done()
		utils.Debug("bank connection closed", map[string]any{"conn_id": connID})
	}()

	utils.Debug("bank connection opened", map[string]any{
		"conn_id": connID,
		"remote":  conn.RemoteAddr().String(),
	})

	writer := newLineConn(conn)
	scanner := bufio.NewScanner(conn)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}
		reply := s.dispatch(protocol.Fields(line), writer)
		if reply != "" {
			if err := writer.WriteLine(reply); err != nil {
				utils.Warn("bank reply write failed", map[string]any{"conn_id": connID, "error": err.Error()})
				return
			}
		}
	}
	if err := scanner.Err(); err != nil {
		utils.Debug("bank connection read error", map[string]any{"conn_id": connID, "error": err.Error()})
	}
}

// dispatch routes one decoded command to the ledger and renders the reply
// line. An empty return means the command already produced its own output.
func (s *Server) dispatch(fields []string, w LineWriter) string {
	if len(fields) == 0 {
		return errorReply("empty command")
	}

	switch fields[0] {
	case protocol.CmdRegisterAgent:
		if len(fields) != 3 {
			return errorReply("usage: REGISTER_AGENT name balance")
		}
		balance, err := strconv.Atoi(fields[2])
		if err != nil {
			return errorReply("invalid balance")
		}
		id, err := s.ledger.RegisterBidder(fields[1], balance)
		if err != nil {
			return errorReply(err.Error())
		}
		return protocol.Encode(protocol.ReplyOK, strconv.Itoa(id))

	case protocol.CmdRegisterAuctionHouse:
		if len(fields) != 3 {
			return errorReply("usage: REGISTER_AUCTION_HOUSE host port")
		}
		port, err := strconv.Atoi(fields[2])
		if err != nil {
			return errorReply("invalid port")
		}
		id, err := s.ledger.RegisterVenue(fields[1], port)
		if err != nil {
			return errorReply(err.Error())
		}
		return protocol.Encode(protocol.ReplyOK, strconv.Itoa(id))

	case protocol.CmdRegisterAgentChannel:
		id, ok := intField(fields, 1, 2)
		if !ok {
			return errorReply("usage: REGISTER_AGENT_CHANNEL bidderId")
		}
		// Reply OK before the catch-up pushes so the client can treat
		// everything after it as asynchronous.
		if err := w.WriteLine(protocol.Encode(protocol.ReplyOK)); err != nil {
			return ""
		}
		if err := s.ledger.RegisterChannel(id, w); err != nil {
			utils.Warn("agent channel registration failed", map[string]any{"account_id": id, "error": err.Error()})
		}
		return ""

	case protocol.CmdBlockFunds:
		id, amount, ok := intPair(fields)
		if !ok {
			return errorReply("usage: BLOCK_FUNDS id amount")
		}
		if err := s.ledger.BlockFunds(id, amount); err != nil {
			return errorReply(err.Error())
		}
		return protocol.Encode(protocol.ReplyOK)

	case protocol.CmdUnblockFunds:
		id, amount, ok := intPair(fields)
		if !ok {
			return errorReply("usage: UNBLOCK_FUNDS id amount")
		}
		if err := s.ledger.UnblockFunds(id, amount); err != nil {
			return errorReply(err.Error())
		}
		return protocol.Encode(protocol.ReplyOK)

	case protocol.CmdTransferFunds:
		if len(fields) != 4 {
			return errorReply("usage: TRANSFER_FUNDS fromId toId amount")
		}
		from, err1 := strconv.Atoi(fields[1])
		to, err2 := strconv.Atoi(fields[2])
		amount, err3 := strconv.Atoi(fields[3])
		if err1 != nil || err2 != nil || err3 != nil {
			return errorReply("invalid transfer arguments")
		}
		if err := s.ledger.TransferFunds(from, to, amount); err != nil {
			return errorReply(err.Error())
		}
		return protocol.Encode(protocol.ReplyOK)

	case protocol.CmdBalance:
		id, ok := intField(fields, 1, 2)
		if !ok {
			return errorReply("usage: BALANCE id")
		}
		total, available, err := s.ledger.Balance(id)
		if err != nil {
			return errorReply(err.Error())
		}
		return protocol.Encode(protocol.PushBalance, strconv.Itoa(total), strconv.Itoa(available))

	case protocol.CmdDeregister:
		id, ok := intField(fields, 1, 2)
		if !ok {
			return errorReply("usage: DEREGISTER id")
		}
		if err := s.ledger.Deregister(id); err != nil {
			return errorReply(err.Error())
		}
		return protocol.Encode(protocol.ReplyOK)

	default:
		return errorReply("unknown command")
	}
}

func errorReply(reason string) string {
	return protocol.Encode(protocol.ReplyError, reason)
}

func intField(fields []string, index, expectLen int) (int, bool) {
	if len(fields) != expectLen {
		return 0, false
	}
	n, err := strconv.Atoi(fields[index])
	if err != nil {
		return 0, false
	}
	return n, true
}

func intPair(fields []string) (int, int, bool) {
	if len(fields) != 3 {
		return 0, 0, false
	}
	a, err1 := strconv.Atoi(fields[1])
	b, err2 := strconv.Atoi(fields[2])
	if err1 != nil || err2 != nil {
		return 0, 0, false
	}
	return a, b, true
}

// lineConn serializes line writes to a shared connection so replies and
// asynchronous pushes never interleave mid-line.
type lineConn struct {
	mu   sync.Mutex
	conn net.Conn
}

func newLineConn(conn net.Conn) *lineConn {
	return &lineConn{conn: conn}
}

func (c *lineConn) WriteLine(line string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, err := c.conn.Write([]byte(line + "\n"))
	return err
}
