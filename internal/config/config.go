// Package config loads service configuration from a single YAML file.
// There is no discovery or layering: the path comes from a flag, and a
// missing path means defaults.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the master configuration shared by the three binaries. Each
// binary reads only its own section.
type Config struct {
	Bank    BankConfig    `yaml:"bank"`
	Auction AuctionConfig `yaml:"auction"`
	Agent   AgentConfig   `yaml:"agent"`
}

// BankConfig configures the ledger service.
type BankConfig struct {
	// Port is the line-protocol listen port.
	Port int `yaml:"port"`

	// AdminPort serves the read-only HTTP surface (health, metrics, accounts).
	AdminPort int `yaml:"admin_port"`
}

// AuctionConfig configures an auction house.
type AuctionConfig struct {
	Port      int `yaml:"port"`
	AdminPort int `yaml:"admin_port"`

	// BankHost and BankPort locate the ledger service.
	BankHost string `yaml:"bank_host"`
	BankPort int    `yaml:"bank_port"`

	// AdvertisedHost is the hostname published to the bank for agents to
	// dial; it defaults to localhost and must be set when agents connect
	// from other machines.
	AdvertisedHost string `yaml:"advertised_host"`

	// CloseDelaySeconds is how long an item stays open after its latest bid.
	CloseDelaySeconds int `yaml:"close_delay_seconds"`

	// MaxActiveItems caps concurrent listings; sold items promote pending ones.
	MaxActiveItems int `yaml:"max_active_items"`

	// ItemsFile is an optional catalog file of "description,minimum_bid" lines.
	ItemsFile string `yaml:"items_file"`
}

// AgentConfig configures a bidding client.
type AgentConfig struct {
	BankHost string `yaml:"bank_host"`
	BankPort int    `yaml:"bank_port"`

	// Name and InitialBalance seed the bank account.
	Name           string `yaml:"name"`
	InitialBalance int    `yaml:"initial_balance"`

	// AutoBid enables the unattended bidder.
	AutoBid                bool `yaml:"auto_bid"`
	AutoBidIntervalSeconds int  `yaml:"auto_bid_interval_seconds"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Bank: BankConfig{
			Port:      9100,
			AdminPort: 9101,
		},
		Auction: AuctionConfig{
			Port:              9200,
			AdminPort:         9201,
			BankHost:          "localhost",
			BankPort:          9100,
			AdvertisedHost:    "localhost",
			CloseDelaySeconds: 30,
			MaxActiveItems:    3,
		},
		Agent: AgentConfig{
			BankHost:               "localhost",
			BankPort:               9100,
			Name:                   "agent",
			InitialBalance:         1000,
			AutoBidIntervalSeconds: 5,
		},
	}
}

// Load reads the file at path over the defaults. An empty path returns the
// defaults unchanged.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return Config{}, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}

func (c Config) validate() error {
	if c.Auction.CloseDelaySeconds <= 0 {
		return fmt.Errorf("auction.close_delay_seconds must be positive, got %d", c.Auction.CloseDelaySeconds)
	}
	if c.Auction.MaxActiveItems <= 0 {
		return fmt.Errorf("auction.max_active_items must be positive, got %d", c.Auction.MaxActiveItems)
	}
	if c.Agent.InitialBalance < 0 {
		return fmt.Errorf("agent.initial_balance must not be negative, got %d", c.Agent.InitialBalance)
	}
	return nil
}

// CloseDelay returns the auction close delay as a duration.
func (c AuctionConfig) CloseDelay() time.Duration {
	return time.Duration(c.CloseDelaySeconds) * time.Second
}

// AutoBidInterval returns the auto bidder's base interval as a duration.
func (c AgentConfig) AutoBidInterval() time.Duration {
	return time.Duration(c.AutoBidIntervalSeconds) * time.Second
}
