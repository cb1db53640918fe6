// Command product ensures the MongoDB indexes the product store relies on,
// most importantly the unique index on products.id that turns duplicate
// inserts into duplicate-key errors. Safe to run on every deploy.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/ghuser/productstore/pkg/config"
	"github.com/ghuser/productstore/pkg/database"
	"github.com/ghuser/productstore/pkg/logger"
	"github.com/ghuser/productstore/pkg/migrator"
	mongorepo "github.com/ghuser/productstore/services/product/infrastructure/persistence/mongo"
)

const migrateTimeout = time.Minute

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	log := logger.New(cfg).With("component", "migrations")

	if err := migrate(cfg, log); err != nil {
		log.Error("product migration failed", "error", err)
		os.Exit(1)
	}
}

func migrate(cfg *config.Config, log logger.Logger) error {
	ctx, cancel := context.WithTimeout(context.Background(), migrateTimeout)
	defer cancel()

	db, err := database.Connect(ctx, cfg.MongoURI, cfg.MongoDatabase, log)
	if err != nil {
		return err
	}
	defer db.Close(context.Background()) //nolint:errcheck

	coll := db.Collection(cfg.MongoCollection)
	names, err := migrator.EnsureIndexes(ctx, coll, mongorepo.Indexes...)
	if err != nil {
		return fmt.Errorf("ensure indexes on %s: %w", coll.Name(), err)
	}
	log.Info("indexes ensured", "database", cfg.MongoDatabase, "collection", coll.Name(), "indexes", names)
	return nil
}
