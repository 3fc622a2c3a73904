package gateway

import (
	"context"
	"fmt"
	"time"

	"shareit/internal/config"

	"github.com/redis/go-redis/v9"
)

// Cache keeps recent GET responses in Redis so read-heavy clients do not
// hit the backend on every request. A nil client disables caching.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisClient builds a Redis client from the configuration.
func NewRedisClient(cfg config.RedisConfig) *redis.Client {
	options := &redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
		PoolSize: cfg.PoolSize,
	}

	return redis.NewClient(options)
}

func NewCache(client *redis.Client, ttl time.Duration) *Cache {
	return &Cache{client: client, ttl: ttl}
}

func cacheKey(userID, path, query string) string {
	return fmt.Sprintf("gw:%s:%s?%s", userID, path, query)
}

func (c *Cache) Get(ctx context.Context, key string) ([]byte, bool) {
	if c == nil || c.client == nil {
		return nil, false
	}
	val, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		return nil, false
	}
	return val, true
}

func (c *Cache) Set(ctx context.Context, key string, value []byte) {
	if c == nil || c.client == nil {
		return
	}
	_ = c.client.Set(ctx, key, value, c.ttl).Err()
}

// Ping verifies the Redis connection.
func Ping(ctx context.Context, client *redis.Client) error {
	if _, err := client.Ping(ctx).Result(); err != nil {
		return fmt.Errorf("failed to ping Redis: %w", err)
	}
	return nil
}
