// Package mongodb implements the store interfaces on top of the official
// MongoDB Go driver. Filters and updates are passed through as BSON, so the
// server evaluates dotted paths and equality natively.
package mongodb

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/phrazzld/taskmart-api/internal/store"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// DefaultConnectTimeout bounds the initial connect-and-ping.
const DefaultConnectTimeout = 10 * time.Second

// Database implements store.Database using a shared *mongo.Client.
type Database struct {
	client *mongo.Client
	db     *mongo.Database
	logger *slog.Logger
}

// Ensure Database implements store.Database.
var _ store.Database = (*Database)(nil)

// Connect opens a client for uri, pins it to Stable API v1 (strict, with
// deprecation errors) and pings the primary before returning.
func Connect(ctx context.Context, uri, dbName string, logger *slog.Logger) (*Database, error) {
	if logger == nil {
		logger = slog.Default()
	}

	serverAPI := options.ServerAPI(options.ServerAPIVersion1).
		SetStrict(true).
		SetDeprecationErrors(true)
	opts := options.Client().
		ApplyURI(uri).
		SetServerAPIOptions(serverAPI)

	connectCtx, cancel := context.WithTimeout(ctx, DefaultConnectTimeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	if err := client.Ping(connectCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	logger.Info("connected to MongoDB", slog.String("database", dbName))
	return NewDatabase(client, dbName, logger), nil
}

// NewDatabase wraps an already connected client.
func NewDatabase(client *mongo.Client, dbName string, logger *slog.Logger) *Database {
	if logger == nil {
		logger = slog.Default()
	}
	return &Database{
		client: client,
		db:     client.Database(dbName),
		logger: logger.With(slog.String("component", "mongodb")),
	}
}

// Collection implements store.Database.Collection.
func (d *Database) Collection(name string) store.Collection {
	return NewCollection(d.db.Collection(name), d.logger)
}

// Ping implements store.Database.Ping.
func (d *Database) Ping(ctx context.Context) error {
	return d.client.Ping(ctx, readpref.Primary())
}

// Close implements store.Database.Close.
func (d *Database) Close(ctx context.Context) error {
	return d.client.Disconnect(ctx)
}

// DropDatabase removes the database with all of its collections.
func (d *Database) DropDatabase(ctx context.Context) error {
	return d.db.Drop(ctx)
}
