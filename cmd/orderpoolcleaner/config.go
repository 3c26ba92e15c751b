package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/ava-labs/orderpool-cleaner/pkg/chainstate"
)

// Config holds all configuration for the orderpoolcleaner application
type Config struct {
	Verbose bool

	// Node settings
	IPCPath       string
	HeadsCapacity int
	ChainID       uint64

	// Chain state provider settings, read from STATE_* environment variables
	State chainstate.Config

	// Watchdog settings
	WatchdogInterval  time.Duration
	WatchdogMaxOrders int

	// Metrics settings
	MetricsHost   string
	MetricsPort   int
	Environment   string
	Region        string
	CloudProvider string
}

// MetricsAddr returns the formatted metrics address
func (c *Config) MetricsAddr() string {
	return fmt.Sprintf("%s:%d", c.MetricsHost, c.MetricsPort)
}

// buildConfig builds a Config from CLI context flags and the environment
func buildConfig(c *cli.Context) (*Config, error) {
	stateCfg, err := chainstate.Load()
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Verbose:           c.Bool("verbose"),
		IPCPath:           c.String("ipc-path"),
		HeadsCapacity:     c.Int("heads-ch-capacity"),
		ChainID:           c.Uint64("chain-id"),
		State:             stateCfg,
		WatchdogInterval:  c.Duration("watchdog-interval"),
		WatchdogMaxOrders: c.Int("watchdog-max-orders"),
		MetricsHost:       c.String("metrics-host"),
		MetricsPort:       c.Int("metrics-port"),
		Environment:       c.String("environment"),
		Region:            c.String("region"),
		CloudProvider:     c.String("cloud-provider"),
	}

	// State is read from the same node unless configured otherwise.
	if cfg.State.RPCURL == "" {
		cfg.State.RPCURL = cfg.IPCPath
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.IPCPath == "" {
		return errors.New("ipc-path must not be empty")
	}
	if c.HeadsCapacity <= 0 {
		return fmt.Errorf("heads-ch-capacity must be greater than 0, got %d", c.HeadsCapacity)
	}
	if c.WatchdogInterval <= 0 {
		return fmt.Errorf("watchdog-interval must be greater than 0, got %s", c.WatchdogInterval)
	}
	if c.WatchdogMaxOrders <= 0 {
		return fmt.Errorf("watchdog-max-orders must be greater than 0, got %d", c.WatchdogMaxOrders)
	}
	if err := c.State.Validate(); err != nil {
		return fmt.Errorf("invalid chain state config: %w", err)
	}
	return nil
}
