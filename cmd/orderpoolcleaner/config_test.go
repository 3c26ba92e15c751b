package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
)

// runApp runs the real app with a capturing run action and returns the built config.
func runApp(t *testing.T, args ...string) (*Config, error, error) {
	t.Helper()
	var (
		cfg    *Config
		cfgErr error
	)
	app := newApp(func(c *cli.Context) error {
		cfg, cfgErr = buildConfig(c)
		return nil
	})
	runErr := app.Run(append([]string{"orderpoolcleaner"}, args...))
	return cfg, cfgErr, runErr
}

// parseConfig runs the run command with args and returns the built config.
func parseConfig(t *testing.T, args ...string) (*Config, error) {
	t.Helper()
	cfg, cfgErr, runErr := runApp(t, append([]string{"run"}, args...)...)
	require.NoError(t, runErr)
	return cfg, cfgErr
}

func writeEnvFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

// unsetenv removes keys for the duration of the test.
func unsetenv(t *testing.T, keys ...string) {
	t.Helper()
	for _, k := range keys {
		t.Setenv(k, "") // restores the previous value on cleanup
		require.NoError(t, os.Unsetenv(k))
	}
}

func TestBuildConfig_Defaults(t *testing.T) {
	unsetenv(t, "ENV_FILE", "STATE_RPC_URL", "STATE_CALL_TIMEOUT")

	cfg, err := parseConfig(t, "--ipc-path", "/tmp/reth.ipc")
	require.NoError(t, err)

	require.Equal(t, "/tmp/reth.ipc", cfg.IPCPath)
	require.Equal(t, "/tmp/reth.ipc", cfg.State.RPCURL, "state falls back to the ipc path")
	require.Equal(t, 2*time.Second, cfg.State.CallTimeout)
	require.Equal(t, 16, cfg.HeadsCapacity)
	require.Equal(t, 30*time.Second, cfg.WatchdogInterval)
	require.Equal(t, 100_000, cfg.WatchdogMaxOrders)
	require.Equal(t, ":9090", cfg.MetricsAddr())
}

func TestBuildConfig_FromEnv(t *testing.T) {
	unsetenv(t, "ENV_FILE")
	t.Setenv("IPC_PATH", "/data/reth.ipc")
	t.Setenv("HEADS_CH_CAPACITY", "4")
	t.Setenv("CHAIN_ID", "17000")
	t.Setenv("METRICS_HOST", "127.0.0.1")
	t.Setenv("METRICS_PORT", "9100")
	t.Setenv("STATE_RPC_URL", "ws://localhost:8546")
	t.Setenv("STATE_CALL_TIMEOUT", "750ms")

	cfg, err := parseConfig(t)
	require.NoError(t, err)

	require.Equal(t, "/data/reth.ipc", cfg.IPCPath)
	require.Equal(t, 4, cfg.HeadsCapacity)
	require.Equal(t, uint64(17000), cfg.ChainID)
	require.Equal(t, "ws://localhost:8546", cfg.State.RPCURL)
	require.Equal(t, 750*time.Millisecond, cfg.State.CallTimeout)
	require.Equal(t, "127.0.0.1:9100", cfg.MetricsAddr())
}

func TestBuildConfig_Invalid(t *testing.T) {
	unsetenv(t, "ENV_FILE", "STATE_RPC_URL", "STATE_CALL_TIMEOUT")

	tests := []struct {
		name        string
		args        []string
		errContains string
	}{
		{
			name:        "zero heads capacity",
			args:        []string{"--ipc-path", "/tmp/reth.ipc", "--heads-ch-capacity", "0"},
			errContains: "heads-ch-capacity",
		},
		{
			name:        "zero watchdog interval",
			args:        []string{"--ipc-path", "/tmp/reth.ipc", "--watchdog-interval", "0s"},
			errContains: "watchdog-interval",
		},
		{
			name:        "negative max orders",
			args:        []string{"--ipc-path", "/tmp/reth.ipc", "--watchdog-max-orders", "-1"},
			errContains: "watchdog-max-orders",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseConfig(t, tt.args...)
			require.ErrorContains(t, err, tt.errContains)
		})
	}
}

func TestEnvFile(t *testing.T) {
	// godotenv writes the process environment; unsetenv restores it on cleanup.
	unsetenv(t, "ENV_FILE", "IPC_PATH", "STATE_RPC_URL", "STATE_CALL_TIMEOUT", "METRICS_PORT")
	path := writeEnvFile(t, "IPC_PATH=/from/env-file.ipc\nSTATE_CALL_TIMEOUT=3s\nMETRICS_PORT=9200\n")

	cfg, cfgErr, runErr := runApp(t, "--env-file", path, "run")
	require.NoError(t, runErr)
	require.NoError(t, cfgErr)

	require.Equal(t, "/from/env-file.ipc", cfg.IPCPath)
	require.Equal(t, "/from/env-file.ipc", cfg.State.RPCURL)
	require.Equal(t, 3*time.Second, cfg.State.CallTimeout)
	require.Equal(t, ":9200", cfg.MetricsAddr())
}

func TestEnvFile_FromEnvVar(t *testing.T) {
	unsetenv(t, "IPC_PATH", "STATE_RPC_URL", "STATE_CALL_TIMEOUT")
	t.Setenv("ENV_FILE", writeEnvFile(t, "IPC_PATH=/from/env-var.ipc\n"))

	cfg, err := parseConfig(t)
	require.NoError(t, err)
	require.Equal(t, "/from/env-var.ipc", cfg.IPCPath)
}

func TestEnvFile_FlagsWin(t *testing.T) {
	unsetenv(t, "ENV_FILE", "IPC_PATH", "STATE_RPC_URL", "STATE_CALL_TIMEOUT")
	path := writeEnvFile(t, "IPC_PATH=/from/env-file.ipc\n")

	cfg, cfgErr, runErr := runApp(t, "--env-file", path, "run", "--ipc-path", "/from/flag.ipc")
	require.NoError(t, runErr)
	require.NoError(t, cfgErr)
	require.Equal(t, "/from/flag.ipc", cfg.IPCPath)
}

func TestEnvFile_Missing(t *testing.T) {
	unsetenv(t, "ENV_FILE")

	_, _, runErr := runApp(t, "--env-file", filepath.Join(t.TempDir(), "missing.env"), "run", "--ipc-path", "/tmp/reth.ipc")
	require.ErrorContains(t, runErr, "failed to load env file")
}
