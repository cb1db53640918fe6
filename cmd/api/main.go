package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	_ "github.com/ghuser/productstore/docs/swagger"
	"github.com/ghuser/productstore/pkg/app"
	"github.com/ghuser/productstore/pkg/cache"
	"github.com/ghuser/productstore/pkg/config"
	"github.com/ghuser/productstore/pkg/database"
	"github.com/ghuser/productstore/pkg/events"
	"github.com/ghuser/productstore/pkg/httpx"
	"github.com/ghuser/productstore/pkg/logger"
	"github.com/ghuser/productstore/pkg/telemetry"
	productApi "github.com/ghuser/productstore/services/product/application/api"
	"github.com/ghuser/productstore/services/product/application/subscribers"
)

// @title			Product Store API
// @version		1.0
// @description	Product catalogue backed by MongoDB.
// @contact.name	API Support
// @license.name	MIT
// @license.url	https://opensource.org/licenses/MIT
// @host			localhost:8080
// @BasePath		/api
// @schemes		http https
func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if err := config.ValidateForProduction(cfg); err != nil {
		slog.Error("refusing to start", "error", err)
		os.Exit(1)
	}

	log := logger.New(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("productstore exited", "error", err)
		os.Exit(1) //nolint:gocritic // stop() is a no-op at this point
	}
}

// run wires infrastructure, serves HTTP until ctx is cancelled, then drains.
// Deferred closes run in reverse: event bus subscribers stop before Redis and
// Mongo go away.
func run(ctx context.Context, cfg *config.Config, log logger.Logger) error {
	otelShutdown, metricsHandler, err := telemetry.Setup(ctx, cfg)
	if err != nil {
		return fmt.Errorf("setup otel: %w", err)
	}
	defer otelShutdown(context.Background()) //nolint:errcheck

	if err := telemetry.SetupSentry(cfg); err != nil {
		log.Warn("sentry disabled", "error", err)
	}
	defer telemetry.SentryFlush()

	a := &app.Application{Config: cfg, Logger: log}
	health := httpx.HealthChecks{}

	if a.UsesMemoryStore() {
		log.Warn("using in-memory product store; data is lost on restart")
	} else {
		db, err := database.Connect(ctx, cfg.MongoURI, cfg.MongoDatabase, log)
		if err != nil {
			return fmt.Errorf("connect mongo: %w", err)
		}
		defer db.Close(context.Background()) //nolint:errcheck
		a.Db = db
		health.Database = db
	}

	redisClient, err := cache.NewRedisClient(ctx, cfg)
	switch {
	case err == nil:
		defer redisClient.Close() //nolint:errcheck
		a.Redis = redisClient
		a.Activity = cache.NewActivityStore(redisClient)
		health.Redis = redisClient
	case cfg.Environment == config.EnvProduction:
		return fmt.Errorf("connect redis: %w", err)
	default:
		log.Warn("redis unavailable, product activity tracking disabled", "error", err)
	}

	bus := events.NewEventBus(log)
	defer bus.Close() //nolint:errcheck
	a.EventBus = bus
	health.EventBus = bus

	// Subscriptions end when subCtx is cancelled, ahead of bus.Close.
	subCtx, cancelSubs := context.WithCancel(ctx)
	defer cancelSubs()
	if a.Activity != nil {
		h := subscribers.NewActivityHandler(a.Activity, log)
		if err := subscribers.Register(subCtx, bus, h, log); err != nil {
			return fmt.Errorf("register subscribers: %w", err)
		}
	}

	r := httpx.NewRouter(httpx.ServerConfig{
		ServiceName:        cfg.ServiceName,
		IsDevelopment:      cfg.Environment == config.EnvDevelopment,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		RequestsPerMinute:  cfg.RateLimitPerMinute,
		MaxBodyBytes:       cfg.MaxBodyBytes,
		HandlerTimeout:     cfg.HandlerTimeout,
	}, httpx.Instrumentation{
		Recovery: logger.Recovery(log),
		Sentry:   telemetry.SentryMiddleware(),
		Tracing:  otelhttp.NewMiddleware(cfg.ServiceName),
		Logging:  logger.Middleware(log),
	})
	r.Get("/health", httpx.HealthHandler(health))
	r.Get("/metrics", metricsHandler.ServeHTTP)
	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))
	r.Route("/api", func(r chi.Router) {
		productApi.ProductRoutes(r, a)
	})

	srv := httpx.NewServer(cfg.HTTPAddr, r, cfg.HandlerTimeout)
	serveErr := make(chan error, 1)
	go func() {
		log.Info("server listening", "addr", srv.Addr, "env", cfg.Environment, "store", cfg.StoreBackend)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
	}

	log.Info("shutting down", "timeout", cfg.ShutdownTimeout)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	cancelSubs()
	log.Info("server stopped")
	return nil
}
