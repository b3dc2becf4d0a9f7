package main

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/taskmart-api/internal/config"
	"github.com/phrazzld/taskmart-api/internal/platform/postgres"
)

// handleMigrations runs a goose command against the configured PostgreSQL
// database. It is called from run() when the -migrate flag is set.
func handleMigrations(ctx context.Context, cfg *config.Config, command string, logger *slog.Logger) error {
	if !slices.Contains(postgres.MigrationCommands, command) {
		return fmt.Errorf("unknown migration command %q", command)
	}
	if cfg.Database.Driver != config.DriverPostgres {
		return fmt.Errorf("migrations require the %s driver, got %q", config.DriverPostgres, cfg.Database.Driver)
	}

	// Use a correlation ID for all migration logs to allow tracing the entire operation
	migrationLogger := logger.With(
		"correlation_id", uuid.New().String(),
		"component", "migrations",
		"command", command,
	)

	startTime := time.Now()
	migrationLogger.Info("Starting migration operation", "operation", "goose "+command)

	db, err := postgres.Open(ctx, cfg.Database.URL, migrationLogger)
	if err != nil {
		migrationLogger.Error("Failed to open database connection", "error", err)
		return err
	}
	defer func() {
		if closeErr := db.Close(ctx); closeErr != nil {
			migrationLogger.Error("Failed to close database connection", "error", closeErr)
		}
	}()

	if err := postgres.Migrate(db.DB(), command, migrationLogger); err != nil {
		migrationLogger.Error("Migration failed",
			"error", err,
			"duration_ms", time.Since(startTime).Milliseconds())
		return err
	}

	migrationLogger.Info("Migration completed successfully",
		"duration_ms", time.Since(startTime).Milliseconds())
	return nil
}
