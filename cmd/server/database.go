package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/phrazzld/taskmart-api/internal/config"
	"github.com/phrazzld/taskmart-api/internal/platform/memory"
	"github.com/phrazzld/taskmart-api/internal/platform/mongodb"
	"github.com/phrazzld/taskmart-api/internal/platform/postgres"
	"github.com/phrazzld/taskmart-api/internal/store"
)

// setupAppDatabase connects the document store selected by the configured
// driver. The PostgreSQL schema is migrated up before the store is returned.
func setupAppDatabase(ctx context.Context, cfg *config.Config, logger *slog.Logger) (store.Database, error) {
	switch cfg.Database.Driver {
	case config.DriverMongo:
		db, err := mongodb.Connect(ctx, cfg.Database.ConnectionURL(), cfg.Database.Name, logger)
		if err != nil {
			return nil, err
		}
		return db, nil

	case config.DriverPostgres:
		db, err := postgres.Open(ctx, cfg.Database.URL, logger)
		if err != nil {
			return nil, err
		}
		if err := postgres.Migrate(db.DB(), "up", logger.With("component", "migrations")); err != nil {
			_ = db.Close(ctx)
			return nil, err
		}
		return db, nil

	case config.DriverMemory:
		logger.Warn("using in-memory store; data is lost on shutdown")
		return memory.NewDatabase(), nil

	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Database.Driver)
	}
}
