package storage

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"model_gateway/internal/logging"
)

// RedisCache is a BodyCache shared across gateway replicas.
type RedisCache struct {
	client    *redis.Client
	keyPrefix string
	ttl       time.Duration
}

var _ BodyCache = (*RedisCache)(nil)

// NewRedisCache creates a Redis-backed body cache. Keys are stored as
// keyPrefix+key; callers pass keys already hashed.
func NewRedisCache(client *redis.Client, keyPrefix string, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, keyPrefix: keyPrefix, ttl: ttl}
}

// Get returns the cached body. Redis failures are treated as misses.
func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, bool) {
	val, err := c.client.Get(ctx, c.redisKey(key)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			logging.Logger().Warn().Err(err).Msg("redis cache read failed")
		}
		return nil, false
	}
	return val, true
}

// Set stores the body with the cache TTL. Failures are logged and ignored.
func (c *RedisCache) Set(ctx context.Context, key string, value []byte) {
	if err := c.client.Set(ctx, c.redisKey(key), value, c.ttl).Err(); err != nil {
		logging.Logger().Warn().Err(err).Msg("redis cache write failed")
	}
}

func (c *RedisCache) redisKey(key string) string {
	return c.keyPrefix + key
}
