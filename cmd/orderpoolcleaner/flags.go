package main

import (
	"time"

	"github.com/urfave/cli/v2"

	"github.com/ava-labs/orderpool-cleaner/pkg/cleaner"
)

// appFlags returns the global flags, resolved before any command runs
func appFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "env-file",
			Usage:   "Optional dotenv file loaded before command flags are resolved",
			EnvVars: []string{"ENV_FILE"},
		},
	}
}

// runFlags returns all CLI flags for the run command
func runFlags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"v"},
			Usage:   "Enable verbose logging",
			EnvVars: []string{"VERBOSE"},
			Value:   false,
		},
		&cli.StringFlag{
			Name:     "ipc-path",
			Aliases:  []string{"i"},
			Usage:    "Path to the node IPC socket used for the new heads subscription",
			EnvVars:  []string{"IPC_PATH"},
			Required: true,
		},
		&cli.IntFlag{
			Name:    "heads-ch-capacity",
			Aliases: []string{"H"},
			Usage:   "The capacity of the new heads subscription channel",
			EnvVars: []string{"HEADS_CH_CAPACITY"},
			Value:   cleaner.DefaultHeadsCapacity,
		},
		&cli.Uint64Flag{
			Name:    "chain-id",
			Aliases: []string{"C"},
			Usage:   "The chain ID used as a metrics label",
			EnvVars: []string{"CHAIN_ID"},
		},
		&cli.DurationFlag{
			Name:    "watchdog-interval",
			Usage:   "How often the orderpool size watchdog checks the pool",
			EnvVars: []string{"WATCHDOG_INTERVAL"},
			Value:   30 * time.Second,
		},
		&cli.IntFlag{
			Name:    "watchdog-max-orders",
			Usage:   "Pending orders (transactions + bundles) above which the watchdog warns",
			EnvVars: []string{"WATCHDOG_MAX_ORDERS"},
			Value:   100_000,
		},
		&cli.StringFlag{
			Name:    "metrics-host",
			Usage:   "Host for Prometheus metrics server (empty for all interfaces)",
			EnvVars: []string{"METRICS_HOST"},
			Value:   "",
		},
		&cli.IntFlag{
			Name:    "metrics-port",
			Aliases: []string{"m"},
			Usage:   "Port for Prometheus metrics server",
			EnvVars: []string{"METRICS_PORT"},
			Value:   9090,
		},
		&cli.StringFlag{
			Name:    "environment",
			Aliases: []string{"E"},
			Usage:   "Deployment environment for metrics labels (e.g., 'production', 'staging')",
			EnvVars: []string{"ENVIRONMENT"},
		},
		&cli.StringFlag{
			Name:    "region",
			Aliases: []string{"R"},
			Usage:   "Cloud region for metrics labels (e.g., 'us-east-1')",
			EnvVars: []string{"REGION"},
		},
		&cli.StringFlag{
			Name:    "cloud-provider",
			Aliases: []string{"P"},
			Usage:   "Cloud provider for metrics labels (e.g., 'aws', 'gcp')",
			EnvVars: []string{"CLOUD_PROVIDER"},
		},
	}
}
