// Package cache holds the read-through cache used for settings and the
// homepage payload. Values are stored as JSON so every backend shares one
// encoding.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/storage/memory/v2"
	"github.com/redis/go-redis/v9"

	"github.com/ecc24clmk/clmk-site/internal/config"
)

// Cache stores JSON encoded values with an expiry.
type Cache interface {
	// Get decodes the value of key into dst. It reports false on a miss.
	Get(ctx context.Context, key string, dst any) (bool, error)
	// Set stores v under key for ttl.
	Set(ctx context.Context, key string, v any, ttl time.Duration) error
	// Delete removes keys. Missing keys are ignored.
	Delete(ctx context.Context, keys ...string) error
}

// New builds the cache selected by cfg.Driver.
func New(cfg config.Cache) (Cache, error) {
	switch cfg.Driver {
	case config.CacheDriverNone:
		return Noop{}, nil
	case "", config.CacheDriverMemory:
		return NewStorage(memory.New()), nil
	case config.CacheDriverRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})

		return NewRedis(client), nil
	default:
		return nil, fmt.Errorf("%w: %s", config.ErrUnknownCacheDriver, cfg.Driver)
	}
}

// Storage is a cache over a fiber storage backend.
type Storage struct {
	s fiber.Storage
}

// NewStorage wraps s.
func NewStorage(s fiber.Storage) *Storage {
	return &Storage{s: s}
}

// Get implements Cache.
func (c *Storage) Get(_ context.Context, key string, dst any) (bool, error) {
	raw, err := c.s.Get(key)
	if err != nil {
		return false, fmt.Errorf("cache get %s: %w", key, err)
	}

	if len(raw) == 0 {
		return false, nil
	}

	if err = json.Unmarshal(raw, dst); err != nil {
		return false, fmt.Errorf("cache decode %s: %w", key, err)
	}

	return true, nil
}

// Set implements Cache.
func (c *Storage) Set(_ context.Context, key string, v any, ttl time.Duration) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("cache encode %s: %w", key, err)
	}

	return c.s.Set(key, raw, ttl)
}

// Delete implements Cache.
func (c *Storage) Delete(_ context.Context, keys ...string) error {
	for _, k := range keys {
		if err := c.s.Delete(k); err != nil {
			return fmt.Errorf("cache delete %s: %w", k, err)
		}
	}

	return nil
}

// Noop never stores anything; every Get is a miss.
type Noop struct{}

// Get implements Cache.
func (Noop) Get(context.Context, string, any) (bool, error) { return false, nil }

// Set implements Cache.
func (Noop) Set(context.Context, string, any, time.Duration) error { return nil }

// Delete implements Cache.
func (Noop) Delete(context.Context, ...string) error { return nil }
