// Package main implements the entry point for the registrar server, which
// manages institute and student accounts, course enrollment, and the grant
// ledger.
package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/campushq/registrar/internal/config"
	"github.com/campushq/registrar/internal/platform/logger"
)

func main() {
	app, err := initializeApp()
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}
	defer app.Close()

	slog.Info("registrar ready",
		"port", app.cfg.Server.Port,
		"log_level", app.cfg.Server.LogLevel)

	// The registrar has no transport surface of its own yet; the process
	// stays up until it is told to stop.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	slog.Info("registrar shutting down")
}

// initializeApp loads configuration, sets up logging, connects to the
// database, runs migrations, and wires the service layer.
func initializeApp() (*application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	appLogger := logger.Setup(cfg.Server.LogLevel)

	db, err := setupDatabase(cfg, appLogger)
	if err != nil {
		return nil, fmt.Errorf("failed to set up database: %w", err)
	}

	if err := runMigrations(db, appLogger); err != nil {
		closeErr := db.Close()
		if closeErr != nil {
			appLogger.Error("failed to close database after migration failure",
				slog.String("error", closeErr.Error()))
		}
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	app, err := newApplication(cfg, db, appLogger)
	if err != nil {
		closeErr := db.Close()
		if closeErr != nil {
			appLogger.Error("failed to close database after wiring failure",
				slog.String("error", closeErr.Error()))
		}
		return nil, fmt.Errorf("failed to wire application: %w", err)
	}

	return app, nil
}
