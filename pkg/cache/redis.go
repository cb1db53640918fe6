// Package cache holds the Redis-backed stores: the connection wrapper and the
// product activity counters fed by event subscribers.
package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ghuser/productstore/pkg/config"
)

const connectTimeout = 2 * time.Second

// RedisClient owns the connection pool. It satisfies httpx.HealthChecker.
type RedisClient struct {
	client *redis.Client
}

// NewRedisClient connects to cfg.RedisURL and pings it before returning.
// An unreachable server is an error; callers decide whether that is fatal.
func NewRedisClient(ctx context.Context, cfg *config.Config) (*RedisClient, error) {
	opts, err := clientOptions(cfg.RedisURL)
	if err != nil {
		return nil, err
	}
	rc := WrapClient(redis.NewClient(opts))

	pingCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()
	if err := rc.Ping(pingCtx); err != nil {
		_ = rc.Close()
		return nil, err
	}
	return rc, nil
}

// clientOptions parses url and applies pool settings sized for a handful of
// counter writes per request.
func clientOptions(url string) (*redis.Options, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	opts.PoolSize = 10
	opts.MinIdleConns = 2
	opts.MaxRetries = 3
	opts.DialTimeout = 5 * time.Second
	opts.ReadTimeout = 3 * time.Second
	opts.WriteTimeout = 3 * time.Second
	opts.PoolTimeout = 4 * time.Second
	return opts, nil
}

// WrapClient adopts an already configured client.
func WrapClient(c *redis.Client) *RedisClient {
	return &RedisClient{client: c}
}

func (r *RedisClient) Ping(ctx context.Context) error {
	if err := r.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping: %w", err)
	}
	return nil
}

// Close releases the pool. Closing a zero RedisClient is a no-op.
func (r *RedisClient) Close() error {
	if r.client == nil {
		return nil
	}
	if err := r.client.Close(); err != nil {
		return fmt.Errorf("redis close: %w", err)
	}
	return nil
}

// Client exposes the underlying client.
func (r *RedisClient) Client() *redis.Client {
	return r.client
}
