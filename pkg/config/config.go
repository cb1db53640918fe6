package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/ardanlabs/conf/v3"
	"github.com/joho/godotenv"
)

// Environment name constants used in ENVIRONMENT config field.
const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
	EnvTesting     = "testing"
)

// Store backend names used in STORE_BACKEND config field.
const (
	StoreMongo  = "mongo"
	StoreMemory = "memory"
)

// Config holds all configuration for the application
type Config struct {
	// Document store
	MongoURI        string `conf:"default:mongodb://localhost:27017/store,env:MONGO_URI,noprint"`
	MongoDatabase   string `conf:"default:store,env:MONGO_DATABASE"`
	MongoCollection string `conf:"default:products,env:MONGO_COLLECTION"`
	StoreBackend    string `conf:"default:mongo,enum:mongo|memory,env:STORE_BACKEND"`

	// Redis
	RedisURL string `conf:"default:redis://localhost:6379,env:REDIS_URL"`

	// Application
	LogLevel    string `conf:"default:info,env:LOG_LEVEL"`
	Environment string `conf:"default:development,enum:development|testing|production,env:ENVIRONMENT"`
	HTTPAddr    string `conf:"default::8080,env:HTTP_ADDR"`

	// HTTP limits
	RateLimitPerMinute int           `conf:"default:100,env:RATE_LIMIT_PER_MINUTE"`
	MaxBodyBytes       int64         `conf:"default:1048576,env:MAX_BODY_BYTES"`
	HandlerTimeout     time.Duration `conf:"default:30s,env:HANDLER_TIMEOUT"`
	ShutdownTimeout    time.Duration `conf:"default:30s,env:SHUTDOWN_TIMEOUT"`

	// CORS: comma-separated list of allowed origins; use * to allow all (dev only)
	CORSAllowedOrigins string `conf:"default:*,env:CORS_ALLOWED_ORIGINS"`

	// Observability
	ServiceName    string  `conf:"default:productstore,env:SERVICE_NAME"`
	ServiceVersion string  `conf:"default:dev,env:SERVICE_VERSION"`
	OtelEndpoint   string  `conf:"env:OTEL_ENDPOINT"`
	TraceSampling  float64 `conf:"default:1,env:TRACE_SAMPLE_RATIO"`
	SentryDSN      string  `conf:"env:SENTRY_DSN,noprint"`
}

// Load reads configuration from environment variables with sensible defaults
func Load() (*Config, error) {
	var cfg Config
	_ = godotenv.Load()
	if _, err := conf.Parse("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return &cfg, nil
}

// ValidateForProduction enforces safety requirements when ENVIRONMENT=production.
// Returns an error if any critical settings are missing or unsafe.
// No-ops for non-production environments.
func ValidateForProduction(cfg *Config) error {
	if cfg.Environment != EnvProduction {
		return nil
	}

	var errs []string

	if cfg.StoreBackend != StoreMongo {
		errs = append(errs, fmt.Sprintf("STORE_BACKEND must be %q in production (got %q)", StoreMongo, cfg.StoreBackend))
	}

	if strings.TrimSpace(cfg.CORSAllowedOrigins) == "*" {
		errs = append(errs, "CORS_ALLOWED_ORIGINS must list explicit origins in production")
	}

	if cfg.LogLevel == "debug" {
		errs = append(errs, "LOG_LEVEL must not be 'debug' in production (may leak sensitive data)")
	}

	if len(errs) == 0 {
		return nil
	}

	return fmt.Errorf("production config validation failed: %s", strings.Join(errs, "; "))
}
