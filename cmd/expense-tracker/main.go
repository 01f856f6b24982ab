package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"

	"golang.org/x/sync/errgroup"

	"expensetracker/internal/cache"
	"expensetracker/internal/cli"
	apphttp "expensetracker/internal/http"
	"expensetracker/internal/log"
	"expensetracker/internal/session"
)

func main() {
	if err := cli.LoadEnvFile(); err != nil {
		log.New(log.DefaultConfig()).Error("Failed to load .env file", log.FieldError, err.Error())
		os.Exit(1)
	}

	cfg, err := cli.LoadAndValidateConfig()
	if err != nil {
		log.New(log.DefaultConfig()).Error("Configuration validation failed",
			log.FieldError, err.Error(),
			log.FieldErrorType, log.ErrorTypeConfiguration)
		os.Exit(1)
	}

	logger := cli.SetupLogger(cfg.LogLevel)

	sessions := session.NewRegistry(session.Config{
		TTL:         cfg.SessionTTL,
		MaxSessions: cfg.SessionMax,
	}, cli.TrackerFactory(cfg), logger)

	srv, err := apphttp.NewServer(apphttp.Options{
		Addr:               net.JoinHostPort("", cfg.Port),
		Sessions:           sessions,
		Logger:             logger,
		CurrencySymbol:     cfg.CurrencySymbol,
		RateLimitPerMinute: cfg.RateLimitPerMinute,
		SecureCookies:      cfg.SecureCookies,
		TrustedProxies:     cfg.TrustedProxies,
	})
	if err != nil {
		logger.Error("Failed to build HTTP server", log.FieldError, err.Error())
		os.Exit(1)
	}

	sweeper := cache.NewManager(cfg.SessionCleanupInterval, logger)
	sweeper.Register(sessions)
	sweeper.Register(srv.RateLimiter())

	ctx, stop := cli.SignalContext(context.Background())
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("Starting expense tracker",
			"port", cfg.Port,
			"session_ttl", cfg.SessionTTL.String(),
			"session_max", cfg.SessionMax,
			"seed_samples", cfg.SeedSampleExpenses,
			log.FieldOperation, log.OpStartup)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		return sweeper.Run(gctx)
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutdown signal received", log.FieldOperation, log.OpShutdown)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Error("Server stopped with error", log.FieldError, err.Error())
		os.Exit(1)
	}
	logger.Info("Server stopped gracefully")
}
