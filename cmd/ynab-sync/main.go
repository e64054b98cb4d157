// Command ynab-sync mirrors one YNAB budget into a local SQLite file using
// incremental (server knowledge) listings.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/eshaffer321/ynab-go/pkg/ynab"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "ynab-sync: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	cfg, err := LoadConfig(args)
	if err != nil {
		return err
	}

	logger := newLogger(cfg.Env)
	defer func() { _ = logger.Sync() }()

	client, err := ynab.NewClient(&ynab.ClientOptions{
		BaseURL:     cfg.BaseURL,
		Timeout:     cfg.Timeout,
		Token:       cfg.Token,
		Logger:      zapLogger{sugar: logger},
		SentryDSN:   cfg.SentryDSN,
		RetryConfig: &ynab.RetryConfig{MaxRetries: 3, RetryWait: time.Second, MaxWait: 30 * time.Second},
	})
	if err != nil {
		return err
	}
	defer client.Close()

	store, err := OpenStore(cfg.StatePath)
	if err != nil {
		return err
	}
	defer store.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	m, err := newMirror(ctx, client, store, cfg.BudgetID, logger)
	if err != nil {
		return err
	}

	logger.Infow("Starting ynab-sync", "budget_id", m.replica.BudgetID, "state", cfg.StatePath, "interval", cfg.Interval, "once", cfg.Once)

	if err := m.cycle(ctx); err != nil {
		if cfg.Once {
			return err
		}
		logger.Errorw("Sync cycle failed", "error", err, "retryable", ynab.IsRetryable(err))
	}
	if cfg.Once {
		return nil
	}

	ticker := time.NewTicker(cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("Shutdown signal received")
			return nil
		case <-ticker.C:
			if err := m.cycle(ctx); err != nil {
				if ynab.IsAuthError(err) {
					return err
				}
				logger.Errorw("Sync cycle failed", "error", err, "retryable", ynab.IsRetryable(err))
			}
		}
	}
}
