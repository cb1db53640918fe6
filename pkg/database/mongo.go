// Package database owns the MongoDB client shared by every request.
// The client is safe for concurrent use; no application-level locking is applied.
package database

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/ghuser/productstore/pkg/logger"
)

const (
	connectTimeout = 10 * time.Second
	pingTimeout    = 2 * time.Second
)

// Database wraps a connected mongo.Client and the application database handle.
type Database struct {
	client *mongo.Client
	db     *mongo.Database
	log    logger.Logger
}

// Connect dials MongoDB at uri and verifies connectivity against the primary.
// The returned Database must be closed with Close on shutdown.
func Connect(ctx context.Context, uri, dbName string, log logger.Logger) (*Database, error) {
	opts := options.Client().
		ApplyURI(uri).
		SetAppName("productstore").
		SetMaxPoolSize(50).
		SetMinPoolSize(2).
		SetConnectTimeout(connectTimeout)

	connectCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, opts)
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}

	pingCtx, cancelPing := context.WithTimeout(ctx, pingTimeout)
	defer cancelPing()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo ping: %w", err)
	}

	log.Info("mongo connected", "database", dbName)
	return &Database{client: client, db: client.Database(dbName), log: log}, nil
}

// Collection returns a handle to the named collection. Handles are cheap and
// share the client's connection pool.
func (d *Database) Collection(name string) *mongo.Collection {
	return d.db.Collection(name)
}

// Ping checks the MongoDB connection health.
func (d *Database) Ping(ctx context.Context) error {
	if err := d.client.Ping(ctx, readpref.Primary()); err != nil {
		return fmt.Errorf("mongo ping: %w", err)
	}
	return nil
}

// Close disconnects the client, waiting for in-flight operations up to ctx's deadline.
func (d *Database) Close(ctx context.Context) error {
	if d.client == nil {
		return nil
	}
	if err := d.client.Disconnect(ctx); err != nil {
		return fmt.Errorf("mongo disconnect: %w", err)
	}
	d.log.Info("mongo disconnected")
	return nil
}
