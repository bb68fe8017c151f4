package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/playforge/walletd/internal/idempotency"
	"github.com/playforge/walletd/pkg/logger"
)

// KeyPrefix namespaces idempotency records in Redis
const KeyPrefix = "idem:"

// Cache is a Redis-backed read-through cache for idempotency records. The
// Postgres row stays the single authority; the cache only short-circuits
// obvious retries before any locks are taken, so every failure here is
// survivable.
type Cache struct {
	client *redis.Client
	logger *logger.Logger
}

// NewCache creates a new idempotency record cache
func NewCache(client *redis.Client, log *logger.Logger) *Cache {
	return &Cache{
		client: client,
		logger: log.WithField("component", "idempotency-cache"),
	}
}

// Get retrieves a cached record; nil on miss
func (c *Cache) Get(ctx context.Context, key string) (*idempotency.Record, error) {
	val, err := c.client.Get(ctx, KeyPrefix+key).Result()
	if errors.Is(err, redis.Nil) {
		c.logger.Debug("cache miss", "key", key)
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get cached record: %w", err)
	}

	var rec idempotency.Record
	if err := json.Unmarshal([]byte(val), &rec); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cached record: %w", err)
	}

	c.logger.Debug("cache hit", "key", key)
	return &rec, nil
}

// Set stores a record until its expiry
func (c *Cache) Set(ctx context.Context, rec *idempotency.Record) error {
	ttl := time.Until(rec.ExpiresAt)
	if ttl <= 0 {
		return nil
	}

	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to marshal record: %w", err)
	}

	if err := c.client.Set(ctx, KeyPrefix+rec.Key, data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to set cached record: %w", err)
	}

	return nil
}
