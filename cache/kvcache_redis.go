package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"weathercore/errs"
)

// RedisKVCache adapts a go-redis client to the KVCache interface. It is
// the L2 backend TwoTierCache writes behind, grounded in the teacher's
// own Redis-backed cache adapters (storage/grid_cache_redis.go).
type RedisKVCache struct {
	client *redis.Client
}

// NewRedisKVCache wraps an already-configured *redis.Client.
func NewRedisKVCache(client *redis.Client) *RedisKVCache {
	return &RedisKVCache{client: client}
}

func (c *RedisKVCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	val, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, &errs.CacheUnavailable{Err: err}
	}
	return val, true, nil
}

func (c *RedisKVCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := c.client.Set(ctx, key, value, ttl).Err(); err != nil {
		return &errs.CacheUnavailable{Err: err}
	}
	return nil
}

func (c *RedisKVCache) Delete(ctx context.Context, key string) error {
	if err := c.client.Del(ctx, key).Err(); err != nil {
		return &errs.CacheUnavailable{Err: err}
	}
	return nil
}
