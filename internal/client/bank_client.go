// Package client holds the thin transport adapters used to talk to the bank
// and to auction houses: connect, send a line, read a line. All protocol
// knowledge lives in the callers; these types only move lines.
package client

import (
	"bufio"
	"fmt"
	"net"
	"strconv"
	"strings"

	"github.com/cdmaestas19/CS351-Distributed-Auction/internal/auctionerrors"
	"github.com/cdmaestas19/CS351-Distributed-Auction/internal/protocol"
	"github.com/cdmaestas19/CS351-Distributed-Auction/utils"
)

// BankClient is the ledger capability used by auction houses and agents.
type BankClient interface {
	RegisterAuctionHouse(host string, port int) (int, error)
	RegisterAgent(name string, balance int) (int, error)
	BlockFunds(accountID, amount int) error
	UnblockFunds(accountID, amount int) error
	TransferFunds(fromID, toID, amount int) error
	Balance(accountID int) (total, available int, err error)
	Deregister(accountID int) error
}

// SocketBankClient talks to the bank over TCP, one short-lived connection
// per request: open, send one line, read one reply, close.
type SocketBankClient struct {
	addr string
}

// NewSocketBankClient creates a client for the bank at host:port.
func NewSocketBankClient(host string, port int) *SocketBankClient {
	return &SocketBankClient{addr: net.JoinHostPort(host, strconv.Itoa(port))}
}

// RegisterAuctionHouse registers a venue and returns its account id.
func (c *SocketBankClient) RegisterAuctionHouse(host string, port int) (int, error) {
	reply, err := c.send(protocol.Encode(protocol.CmdRegisterAuctionHouse, host, strconv.Itoa(port)))
	if err != nil {
		return 0, err
	}
	return parseOKID(reply)
}

// RegisterAgent registers a bidder and returns its account id.
func (c *SocketBankClient) RegisterAgent(name string, balance int) (int, error) {
	reply, err := c.send(protocol.Encode(protocol.CmdRegisterAgent, name, strconv.Itoa(balance)))
	if err != nil {
		return 0, err
	}
	return parseOKID(reply)
}

// BlockFunds escrows amount from the account.
func (c *SocketBankClient) BlockFunds(accountID, amount int) error {
	return c.sendExpectOK(protocol.Encode(protocol.CmdBlockFunds, strconv.Itoa(accountID), strconv.Itoa(amount)))
}

// UnblockFunds releases previously escrowed funds.
func (c *SocketBankClient) UnblockFunds(accountID, amount int) error {
	return c.sendExpectOK(protocol.Encode(protocol.CmdUnblockFunds, strconv.Itoa(accountID), strconv.Itoa(amount)))
}

// TransferFunds settles escrowed funds from one account to another.
func (c *SocketBankClient) TransferFunds(fromID, toID, amount int) error {
	return c.sendExpectOK(protocol.Encode(protocol.CmdTransferFunds,
		strconv.Itoa(fromID), strconv.Itoa(toID), strconv.Itoa(amount)))
}

// Balance queries an account's total and available balance.
func (c *SocketBankClient) Balance(accountID int) (int, int, error) {
	reply, err := c.send(protocol.Encode(protocol.CmdBalance, strconv.Itoa(accountID)))
	if err != nil {
		return 0, 0, err
	}
	fields := protocol.Fields(reply)
	if len(fields) > 0 && fields[0] == protocol.ReplyError {
		return 0, 0, refusalError(strings.TrimSpace(strings.TrimPrefix(reply, protocol.ReplyError)))
	}
	if len(fields) != 3 || fields[0] != protocol.PushBalance {
		return 0, 0, fmt.Errorf("bank client: unexpected balance reply %q", reply)
	}
	total, err1 := strconv.Atoi(fields[1])
	available, err2 := strconv.Atoi(fields[2])
	if err1 != nil || err2 != nil {
		return 0, 0, fmt.Errorf("bank client: unparsable balance reply %q", reply)
	}
	return total, available, nil
}

// Deregister removes the account's routing state at the bank.
func (c *SocketBankClient) Deregister(accountID int) error {
	return c.sendExpectOK(protocol.Encode(protocol.CmdDeregister, strconv.Itoa(accountID)))
}

// send performs one request/reply exchange on a fresh connection.
func (c *SocketBankClient) send(line string) (string, error) {
	conn, err := net.Dial("tcp", c.addr)
	if err != nil {
		return "", fmt.Errorf("bank client: dial %s: %w", c.addr, err)
	}
	defer conn.Close()

	if _, err := conn.Write([]byte(line + "\n")); err != nil {
		return "", fmt.Errorf("bank client: write: %w", err)
	}
	reply, err := bufio.NewReader(conn).ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("bank client: read reply: %w", err)
	}
	return strings.TrimSpace(reply), nil
}

func (c *SocketBankClient) sendExpectOK(line string) error {
	reply, err := c.send(line)
	if err != nil {
		return err
	}
	if !strings.HasPrefix(reply, protocol.ReplyOK) {
		utils.Debug("bank request refused", map[string]any{"request": line, "reply": reply})
		return refusalError(strings.TrimSpace(strings.TrimPrefix(reply, protocol.ReplyError)))
	}
	return nil
}

// refusalError restores the ledger sentinel hidden in an ERROR reply's
// reason text, so callers can use errors.Is across the wire exactly as they
// would against the ledger itself.
func refusalError(reason string) error {
	for _, sentinel := range []error{
		auctionerrors.ErrAccountNotFound,
		auctionerrors.ErrInsufficientEscrow,
		auctionerrors.ErrInsufficientFunds,
	} {
		if strings.Contains(reason, sentinel.Error()) {
			return fmt.Errorf("bank client: %s: %w", reason, sentinel)
		}
	}
	return fmt.Errorf("bank client: %s", reason)
}

func parseOKID(reply string) (int, error) {
	fields := protocol.Fields(reply)
	if len(fields) != 2 || fields[0] != protocol.ReplyOK {
		return 0, fmt.Errorf("bank client: registration refused: %s", reply)
	}
	id, err := strconv.Atoi(fields[1])
	if err != nil {
		return 0, fmt.Errorf("bank client: bad account id in %q", reply)
	}
	return id, nil
}
