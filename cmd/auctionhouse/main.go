package main

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/pflag"

	"github.com/cdmaestas19/CS351-Distributed-Auction/internal/auction"
	"github.com/cdmaestas19/CS351-Distributed-Auction/internal/auctionerrors"
	"github.com/cdmaestas19/CS351-Distributed-Auction/internal/client"
	"github.com/cdmaestas19/CS351-Distributed-Auction/internal/config"
	"github.com/cdmaestas19/CS351-Distributed-Auction/internal/server"
	"github.com/cdmaestas19/CS351-Distributed-Auction/utils"
)

func main() {
	configPath := pflag.String("config", "", "path to YAML configuration file")
	port := pflag.Int("port", 0, "agent listen port (overrides config)")
	adminPort := pflag.Int("admin-port", 0, "admin HTTP listen port (overrides config)")
	itemsFile := pflag.String("items", "", "catalog file of description,minimum_bid lines (overrides config)")
	pflag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	if *port != 0 {
		cfg.Auction.Port = *port
	}
	if *adminPort != 0 {
		cfg.Auction.AdminPort = *adminPort
	}
	if *itemsFile != "" {
		cfg.Auction.ItemsFile = *itemsFile
	}

	specs, err := loadCatalog(cfg.Auction.ItemsFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load item catalog: %v\n", err)
		os.Exit(1)
	}

	items := auction.NewItemManager(cfg.Auction.MaxActiveItems)
	items.Load(specs)

	bankClient := client.NewSocketBankClient(cfg.Auction.BankHost, cfg.Auction.BankPort)
	house := auction.NewAuctionHouse(
		cfg.Auction.AdvertisedHost,
		fmt.Sprintf(":%d", cfg.Auction.Port),
		bankClient,
		items,
		cfg.Auction.CloseDelay(),
	)
	if err := house.Start(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to start auction house: %v\n", err)
		os.Exit(1)
	}
	utils.Info("auction house open", map[string]any{
		"addr":       house.Addr().String(),
		"account_id": house.AccountID(),
		"items":      len(specs),
	})

	router := server.NewAuctionRouter(house)
	go func() {
		addr := fmt.Sprintf(":%d", cfg.Auction.AdminPort)
		fmt.Printf("Starting auction admin server on %s...\n", addr)
		if err := router.Run(addr); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to start admin server: %v\n", err)
			os.Exit(1)
		}
	}()

	waitForInterrupt()
	shutdown(house)
}

// loadCatalog reads the configured items file, falling back to a small
// built-in catalog when no file is given.
func loadCatalog(path string) ([]auction.ItemSpec, error) {
	if path != "" {
		return auction.LoadItemsFile(path)
	}
	return []auction.ItemSpec{
		{Description: "antique map", MinimumBid: 50},
		{Description: "brass telescope", MinimumBid: 100},
		{Description: "oil painting", MinimumBid: 150},
		{Description: "pocket watch", MinimumBid: 75},
		{Description: "first edition novel", MinimumBid: 200},
	}, nil
}

// shutdown retries until no auction is mid-flight; an item with a live bid
// must settle before the house may leave the bank.
func shutdown(house *auction.AuctionHouse) {
	for {
		err := house.Shutdown()
		if err == nil {
			utils.Info("auction house closed", nil)
			return
		}
		if errors.Is(err, auctionerrors.ErrActiveAuctions) {
			utils.Info("waiting for active auctions to settle", nil)
			time.Sleep(time.Second)
			continue
		}
		fmt.Fprintf(os.Stderr, "Shutdown failed: %v\n", err)
		return
	}
}

func waitForInterrupt() {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	<-sigs
}
