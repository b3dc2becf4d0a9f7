package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // pgx driver
	"github.com/phrazzld/taskmart-api/internal/store"
)

// Connection pool settings.
const (
	maxOpenConns    = 10
	maxIdleConns    = 5
	connMaxLifetime = 5 * time.Minute
	pingTimeout     = 5 * time.Second
)

// Database implements store.Database on a *sql.DB opened with the pgx driver.
type Database struct {
	db     *sql.DB
	logger *slog.Logger
}

// Ensure Database implements store.Database.
var _ store.Database = (*Database)(nil)

// Open establishes a connection pool for dsn and verifies it with a ping.
func Open(ctx context.Context, dsn string, logger *slog.Logger) (*Database, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	db.SetMaxOpenConns(maxOpenConns)
	db.SetMaxIdleConns(maxIdleConns)
	db.SetConnMaxLifetime(connMaxLifetime)

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	d := NewDatabase(db, logger)
	d.logger.Info("database connection established")
	return d, nil
}

// NewDatabase wraps an existing pool.
func NewDatabase(db *sql.DB, logger *slog.Logger) *Database {
	if logger == nil {
		logger = slog.Default()
	}
	return &Database{
		db:     db,
		logger: logger.With(slog.String("component", "postgres")),
	}
}

// DB returns the underlying pool.
func (d *Database) DB() *sql.DB {
	return d.db
}

// Collection implements store.Database.Collection.
func (d *Database) Collection(name string) store.Collection {
	return NewCollection(d.db, name, d.logger)
}

// Ping implements store.Database.Ping.
func (d *Database) Ping(ctx context.Context) error {
	return d.db.PingContext(ctx)
}

// Close implements store.Database.Close.
func (d *Database) Close(_ context.Context) error {
	return d.db.Close()
}
