// Package cache provides a Redis-backed cache for resolved module
// configurations. Caching is optional; the resolver works identically
// without it, just slower.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"tenantcore/internal/domain"
	"tenantcore/internal/service"
)

var _ service.ConfigCache = (*RedisConfigCache)(nil)

// RedisConfigCache stores resolved module configurations as JSON values with
// a TTL. Keys follow modcfg:<module>:<scope>, so a per-module wildcard delete
// implements invalidation on registry writes.
type RedisConfigCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisConfigCache creates a cache on an existing client.
func NewRedisConfigCache(client *redis.Client, ttl time.Duration) *RedisConfigCache {
	return &RedisConfigCache{client: client, ttl: ttl}
}

// Get returns the cached config for key, with ok=false on a miss.
func (c *RedisConfigCache) Get(ctx context.Context, key string) (*domain.ResolvedModuleConfig, bool, error) {
	raw, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	var cfg domain.ResolvedModuleConfig
	if err := json.Unmarshal(raw, &cfg); err != nil {
		// Treat a corrupt entry as a miss; it will be rewritten.
		return nil, false, nil
	}
	return &cfg, true, nil
}

// Set stores the config under key for the configured TTL.
func (c *RedisConfigCache) Set(ctx context.Context, key string, cfg *domain.ResolvedModuleConfig) error {
	raw, err := json.Marshal(cfg)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, raw, c.ttl).Err()
}

// InvalidateModule removes every cached scope of one module.
func (c *RedisConfigCache) InvalidateModule(ctx context.Context, moduleID string) error {
	pattern := fmt.Sprintf("modcfg:%s:*", moduleID)
	iter := c.client.Scan(ctx, 0, pattern, 0).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}
	return c.client.Del(ctx, keys...).Err()
}
