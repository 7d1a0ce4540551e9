package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v11"
	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

// logConfig is read from the environment before flags are parsed.
type logConfig struct {
	Level string `env:"SPELLBEE_LOG_LEVEL" envDefault:"warn"`
	File  string `env:"SPELLBEE_LOG_FILE"`
}

// setupLog configures the default logger. Diagnostics go to stderr, or to
// SPELLBEE_LOG_FILE when set, so stdout only carries progress output.
func setupLog() (func() error, error) {
	cfg, err := env.ParseAs[logConfig]()
	if err != nil {
		return nil, fmt.Errorf("error parsing log config: %w", err)
	}

	level, err := log.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid SPELLBEE_LOG_LEVEL %q: %w", cfg.Level, err)
	}
	log.SetLevel(level)
	log.SetOutput(os.Stderr)

	if cfg.File == "" {
		return func() error { return nil }, nil
	}

	if err := os.MkdirAll(filepath.Dir(cfg.File), 0o755); err != nil { //nolint:gosec
		return nil, fmt.Errorf("unable to create log directory: %w", err)
	}
	f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644) //nolint:gosec
	if err != nil {
		return nil, fmt.Errorf("unable to open log file: %w", err)
	}
	log.SetOutput(f)
	log.SetReportTimestamp(true)
	return f.Close, nil
}

// runLogger returns a logger tagging every line with a fresh run ID.
func runLogger() (*log.Logger, string) {
	id := uuid.NewString()
	return log.Default().With("run", id[:8]), id
}
