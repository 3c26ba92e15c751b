package utils

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewSugaredLogger creates a sugared logger based on the verbose flag.
// Verbose selects the development config (debug level, console output); otherwise
// the production JSON config is used with ISO8601 timestamps so log lines can be
// correlated with block timestamps.
func NewSugaredLogger(verbose bool) (*zap.SugaredLogger, error) {
	var cfg zap.Config
	if verbose {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg = zap.NewProductionConfig()
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	}

	l, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to create logger (verbose=%t): %w", verbose, err)
	}
	return l.Sugar(), nil
}

// Named scopes log to a component. A nil log yields a no-op logger.
func Named(log *zap.SugaredLogger, component string) *zap.SugaredLogger {
	if log == nil {
		return zap.NewNop().Sugar()
	}
	return log.Named(component)
}
