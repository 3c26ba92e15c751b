package chainstate

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds the settings of the RPC backed state provider.
type Config struct {
	RPCURL      string        `env:"STATE_RPC_URL"`
	CallTimeout time.Duration `env:"STATE_CALL_TIMEOUT" envDefault:"2s"`
}

// Load reads the state provider configuration from environment variables.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse chain state config: %w", err)
	}
	return cfg, nil
}

// Validate checks that the configuration is usable.
func (c Config) Validate() error {
	if c.RPCURL == "" {
		return errors.New("invalid state rpc url: must not be empty")
	}
	if c.CallTimeout <= 0 {
		return errors.New("invalid state call timeout: must be greater than 0")
	}
	return nil
}
