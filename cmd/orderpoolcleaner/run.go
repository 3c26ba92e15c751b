package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/urfave/cli/v2"
	"golang.org/x/sync/errgroup"

	"github.com/ava-labs/orderpool-cleaner/pkg/cancellation"
	"github.com/ava-labs/orderpool-cleaner/pkg/chainstate"
	"github.com/ava-labs/orderpool-cleaner/pkg/cleaner"
	"github.com/ava-labs/orderpool-cleaner/pkg/metrics"
	"github.com/ava-labs/orderpool-cleaner/pkg/orderpool"
	"github.com/ava-labs/orderpool-cleaner/pkg/utils"
)

var errJobStopped = errors.New("clean orderpool job stopped")

func run(c *cli.Context) error {
	cfg, err := buildConfig(c)
	if err != nil {
		return fmt.Errorf("failed to build config: %w", err)
	}

	sugar, err := utils.NewSugaredLogger(cfg.Verbose)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer sugar.Desugar().Sync() //nolint:errcheck // best-effort flush; ignore sync errors

	sugar.Infow("config",
		"verbose", cfg.Verbose,
		"ipcPath", cfg.IPCPath,
		"headsCapacity", cfg.HeadsCapacity,
		"chainID", cfg.ChainID,
		"stateRPCURL", cfg.State.RPCURL,
		"stateCallTimeout", cfg.State.CallTimeout,
		"watchdogInterval", cfg.WatchdogInterval,
		"watchdogMaxOrders", cfg.WatchdogMaxOrders,
		"metricsHost", cfg.MetricsHost,
		"metricsPort", cfg.MetricsPort,
		"environment", cfg.Environment,
		"region", cfg.Region,
		"cloudProvider", cfg.CloudProvider,
	)

	registry := prometheus.NewRegistry()
	m, err := metrics.NewWithLabels(registry, metrics.Labels{
		ChainID:       cfg.ChainID,
		Environment:   cfg.Environment,
		Region:        cfg.Region,
		CloudProvider: cfg.CloudProvider,
	})
	if err != nil {
		return fmt.Errorf("failed to create metrics: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Every job started below shares this token; any of them stopping stops all.
	token := cancellation.New(ctx)
	defer token.Cancel()

	stateClient, err := ethclient.DialContext(ctx, cfg.State.RPCURL)
	if err != nil {
		return fmt.Errorf("failed to dial state rpc: %w", err)
	}
	defer stateClient.Close()

	provider, err := chainstate.NewRPCProvider(stateClient, cfg.State.CallTimeout)
	if err != nil {
		return fmt.Errorf("failed to create state provider: %w", err)
	}

	mem, err := orderpool.NewMemory(utils.Named(sugar, "orderpool"))
	if err != nil {
		return fmt.Errorf("failed to create orderpool: %w", err)
	}
	pool := orderpool.NewShared(mem)

	job, err := cleaner.Spawn(ctx, utils.Named(sugar, "cleaner"), cleaner.Config{
		IPCPath:       cfg.IPCPath,
		HeadsCapacity: cfg.HeadsCapacity,
	}, cleaner.DialIPC, provider, pool, token, m)
	if err != nil {
		return fmt.Errorf("failed to start clean orderpool job: %w", err)
	}

	metricsServer := metrics.NewServer(cfg.MetricsAddr(), registry, func() bool {
		select {
		case <-job.Done():
			return false
		default:
			return true
		}
	})
	metricsErrCh := metricsServer.Start()
	if cfg.MetricsHost == "" {
		sugar.Infof("metrics server listening on http://0.0.0.0:%d/metrics", cfg.MetricsPort)
	} else {
		sugar.Infof("metrics server listening on http://%s/metrics", cfg.MetricsAddr())
	}

	g, gctx := errgroup.WithContext(token.Context())
	g.Go(func() error {
		job.Wait()
		if ctx.Err() != nil {
			return nil
		}
		return errJobStopped
	})
	g.Go(func() error {
		select {
		case <-gctx.Done():
			return nil
		case err := <-metricsErrCh:
			if err != nil {
				token.Cancel()
				return fmt.Errorf("metrics server failed: %w", err)
			}
			return nil
		}
	})
	g.Go(func() error {
		if err := orderpool.StartSizeWatchdog(token.Context(), utils.Named(sugar, "watchdog"), pool, cfg.WatchdogInterval, cfg.WatchdogMaxOrders); err != nil {
			token.Cancel()
			return fmt.Errorf("orderpool watchdog failed: %w", err)
		}
		return nil
	})

	err = g.Wait()
	if err == nil {
		sugar.Infow("exiting due to shutdown signal")
	} else {
		sugar.Errorw("run failed", "error", err)
	}

	sugar.Info("shutting down metrics server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := metricsServer.Shutdown(shutdownCtx); err != nil {
		sugar.Warnw("metrics server shutdown error", "error", err)
	}

	sugar.Info("shutdown complete")
	return err
}
