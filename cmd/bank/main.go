package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/cdmaestas19/CS351-Distributed-Auction/internal/bank"
	"github.com/cdmaestas19/CS351-Distributed-Auction/internal/config"
	"github.com/cdmaestas19/CS351-Distributed-Auction/internal/notify"
	"github.com/cdmaestas19/CS351-Distributed-Auction/internal/server"
	"github.com/cdmaestas19/CS351-Distributed-Auction/utils"
)

func main() {
	configPath := pflag.String("config", "", "path to YAML configuration file")
	port := pflag.Int("port", 0, "line-protocol listen port (overrides config)")
	adminPort := pflag.Int("admin-port", 0, "admin HTTP listen port (overrides config)")
	pflag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	if *port != 0 {
		cfg.Bank.Port = *port
	}
	if *adminPort != 0 {
		cfg.Bank.AdminPort = *adminPort
	}

	pool := notify.NewPool(4, 64)
	defer pool.Close()

	ledger := bank.NewLedger(pool)
	bankServer := bank.NewServer(fmt.Sprintf(":%d", cfg.Bank.Port), ledger)
	if err := bankServer.Start(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to start bank server: %v\n", err)
		os.Exit(1)
	}
	utils.Info("bank listening", map[string]any{"addr": bankServer.Addr().String()})

	router := server.NewBankRouter(ledger)
	go func() {
		addr := fmt.Sprintf(":%d", cfg.Bank.AdminPort)
		fmt.Printf("Starting bank admin server on %s...\n", addr)
		if err := router.Run(addr); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to start admin server: %v\n", err)
			os.Exit(1)
		}
	}()

	waitForInterrupt()
	utils.Info("bank shutting down", nil)
	bankServer.Shutdown()
}

// waitForInterrupt blocks until SIGINT or SIGTERM.
func waitForInterrupt() {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	<-sigs
}
