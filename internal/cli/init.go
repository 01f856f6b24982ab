// Package cli provides common process initialization utilities for
// cmd/expense-tracker.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"expensetracker/internal/config"
	"expensetracker/internal/core"
	"expensetracker/internal/log"
	"expensetracker/internal/session"
	"expensetracker/internal/tracker"
)

// SetupLogger builds the process logger for the given level and installs it
// as the slog default. Unknown levels fall back to info.
func SetupLogger(level string) *log.Logger {
	cfg := log.DefaultConfig()
	if lvl, err := log.ParseLevel(level); err == nil {
		cfg.Level = lvl
	}
	logger := log.New(cfg)
	log.SetDefault(logger)
	return logger
}

// LoadEnvFile loads .env files for local development. Missing files are not
// an error since production takes its settings from the real environment.
// Variables already set are never overridden.
func LoadEnvFile(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("load env file %s: %w", p, err)
		}
	}
	return nil
}

// LoadAndValidateConfig loads configuration from the environment and
// validates it.
func LoadAndValidateConfig() (*config.Config, error) {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// TrackerFactory returns the constructor for per-session trackers.
func TrackerFactory(cfg *config.Config) session.Factory {
	locale := cfg.Locale()
	seed := cfg.SeedSampleExpenses
	return func() *tracker.Tracker {
		opts := []tracker.Option{tracker.WithLocale(locale)}
		if seed {
			opts = append(opts, tracker.WithExpenses(core.SampleExpenses()))
		}
		return tracker.New(opts...)
	}
}

// SignalContext returns a context cancelled on SIGINT or SIGTERM.
func SignalContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}
