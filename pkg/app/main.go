package app

import (
	"github.com/ghuser/productstore/pkg/cache"
	"github.com/ghuser/productstore/pkg/config"
	"github.com/ghuser/productstore/pkg/database"
	"github.com/ghuser/productstore/pkg/events"
	"github.com/ghuser/productstore/pkg/logger"
)

// Application holds shared infrastructure dependencies for all services.
// Pass to each service's Routes call during server initialization.
//
// Logging: app.Logger is backed by a trace-aware handler; use slog's context methods
// and trace_id, span_id, and request_id are injected automatically:
//
//	app.Logger.InfoContext(ctx, "product created", "product_id", id)
//	app.Logger.ErrorContext(ctx, "failed to insert", "error", err)
//
// Use app.Logger.Info/Error (no context) only for startup and shutdown messages.
//
// Db is nil when Config.StoreBackend is "memory". Redis and Activity are nil
// when Redis is unavailable outside production; activity tracking is then off.
type Application struct {
	Config   *config.Config
	Db       *database.Database
	Logger   logger.Logger
	EventBus *events.EventBus
	Redis    *cache.RedisClient
	Activity *cache.ActivityStore
}

// UsesMemoryStore reports whether products are kept in process memory.
func (a *Application) UsesMemoryStore() bool {
	return a.Config != nil && a.Config.StoreBackend == config.StoreMemory
}
