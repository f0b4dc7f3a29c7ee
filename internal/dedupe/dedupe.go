// Package dedupe remembers which inbound messages were already handled so a
// retried webhook delivery is not interpreted twice.
package dedupe

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// Store records message IDs for a limited time.
type Store interface {
	// MarkProcessed records id. It returns true if id was not already recorded.
	MarkProcessed(ctx context.Context, id string, ttl time.Duration) (bool, error)

	// Release forgets id so a later delivery is handled again.
	Release(ctx context.Context, id string) error

	// Close releases any resources held by the store.
	Close() error
}

// Config selects the store implementation.
type Config struct {
	Driver string // memory or redis

	RedisAddr     string
	RedisPassword string
	RedisDB       int
}

// New creates the configured store. When Redis is selected but unreachable it
// falls back to an in-memory store and logs a warning.
func New(cfg Config) (Store, error) {
	switch cfg.Driver {
	case "", "memory":
		return NewMemoryStore(), nil
	case "redis":
		store, err := NewRedisStore(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err == nil {
			slog.Info("using redis dedupe store", "addr", cfg.RedisAddr)
			return store, nil
		}
		slog.Warn("redis unavailable, falling back to in-memory dedupe store; retries may be handled twice across instances",
			"addr", cfg.RedisAddr, "error", err)
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown dedupe driver %q", cfg.Driver)
	}
}
