package main

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/pflag"

	"github.com/cdmaestas19/CS351-Distributed-Auction/internal/agent"
	"github.com/cdmaestas19/CS351-Distributed-Auction/internal/auctionerrors"
	"github.com/cdmaestas19/CS351-Distributed-Auction/internal/client"
	"github.com/cdmaestas19/CS351-Distributed-Auction/internal/config"
	"github.com/cdmaestas19/CS351-Distributed-Auction/internal/events"
)

func main() {
	configPath := pflag.String("config", "", "path to YAML configuration file")
	name := pflag.String("name", "", "display name for the bank account (overrides config)")
	balance := pflag.Int("balance", -1, "initial account balance (overrides config)")
	auto := pflag.Bool("auto", false, "bid automatically instead of reading commands")
	pflag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	if *name != "" {
		cfg.Agent.Name = *name
	}
	if *balance >= 0 {
		cfg.Agent.InitialBalance = *balance
	}
	if *auto {
		cfg.Agent.AutoBid = true
	}

	bankClient := client.NewSocketBankClient(cfg.Agent.BankHost, cfg.Agent.BankPort)
	accountID, err := bankClient.RegisterAgent(cfg.Agent.Name, cfg.Agent.InitialBalance)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to register with bank: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Registered as %s (account %d) with balance %d\n",
		cfg.Agent.Name, accountID, cfg.Agent.InitialBalance)

	a := agent.New(cfg.Agent.Name, accountID, bankClient)
	go printEvents(a.Events().Subscribe(64))

	if err := a.OpenBankChannel(cfg.Agent.BankHost, cfg.Agent.BankPort); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open bank channel: %v\n", err)
		os.Exit(1)
	}

	if cfg.Agent.AutoBid {
		runAutoBidder(a, cfg.Agent.AutoBidInterval())
		return
	}
	runConsole(a)
}

// printEvents renders hub events for the terminal.
func printEvents(eventsCh <-chan any) {
	for event := range eventsCh {
		switch e := event.(type) {
		case events.BalanceChanged:
			fmt.Printf("* balance: %d total, %d available\n", e.Total, e.Available)
		case events.VenueAdded:
			fmt.Printf("* auction house %d joined (%s:%d)\n", e.ID, e.Host, e.Port)
		case events.VenueRemoved:
			fmt.Printf("* auction house %d left\n", e.ID)
		case events.Message:
			fmt.Printf("* %s\n", e.Text)
		}
	}
}

// runAutoBidder bids unattended until interrupted, then drains.
func runAutoBidder(a *agent.Agent, interval time.Duration) {
	bidder := agent.NewAutoBidder(a, interval, interval/2)
	bidder.Start()
	fmt.Println("Auto bidding; press Ctrl-C to stop.")

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	<-sigs
	fmt.Println("Stopping; waiting for outstanding bids to resolve...")
	bidder.Stop()
}

// runConsole reads commands from stdin until quit or EOF.
func runConsole(a *agent.Agent) {
	fmt.Println("Commands: venues | items <venue> | bid <venue> <item> <amount> | balance | quit")
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		switch fields[0] {
		case "venues":
			for _, session := range a.Sessions() {
				fmt.Printf("auction house %d\n", session.VenueID())
			}

		case "items":
			if len(fields) != 2 {
				fmt.Println("usage: items <venue>")
				continue
			}
			session, ok := lookupSession(a, fields[1])
			if !ok {
				continue
			}
			for _, item := range session.Items() {
				fmt.Printf("item %d: %s (minimum %d, current %d)\n",
					item.ID, item.Description, item.MinimumBid, item.CurrentBid)
			}

		case "bid":
			if len(fields) != 4 {
				fmt.Println("usage: bid <venue> <item> <amount>")
				continue
			}
			session, ok := lookupSession(a, fields[1])
			if !ok {
				continue
			}
			itemID, err1 := strconv.Atoi(fields[2])
			amount, err2 := strconv.Atoi(fields[3])
			if err1 != nil || err2 != nil {
				fmt.Println("item and amount must be numbers")
				continue
			}
			if err := session.PlaceBid(itemID, amount); err != nil {
				fmt.Printf("bid failed: %v\n", err)
			}

		case "balance":
			total, available := a.Balances()
			fmt.Printf("balance: %d total, %d available\n", total, available)

		case "quit":
			quit(a)
			return

		default:
			fmt.Printf("unknown command %q\n", fields[0])
		}
	}
	quit(a)
}

func lookupSession(a *agent.Agent, venueField string) (*agent.VenueSession, bool) {
	venueID, err := strconv.Atoi(venueField)
	if err != nil {
		fmt.Println("venue must be a number")
		return nil, false
	}
	session, ok := a.Session(venueID)
	if !ok {
		fmt.Printf("no connection to auction house %d\n", venueID)
		return nil, false
	}
	return session, true
}

// quit retries until no bid is outstanding; an agent holding a high bid
// must wait for the auction to settle.
func quit(a *agent.Agent) {
	for {
		err := a.Shutdown()
		if err == nil {
			fmt.Println("Goodbye.")
			return
		}
		if errors.Is(err, auctionerrors.ErrOutstandingBids) {
			fmt.Println("Waiting for outstanding bids to resolve...")
			time.Sleep(time.Second)
			continue
		}
		fmt.Fprintf(os.Stderr, "Shutdown failed: %v\n", err)
		return
	}
}
