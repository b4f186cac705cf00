package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"news-dashboard/internal/domain"
)

// RedisCache implements domain.Cache over Redis, so cached enrichments
// survive a process restart.
type RedisCache struct {
	client *redis.Client
}

var _ domain.Cache = (*RedisCache)(nil)

// NewRedis creates the cache.
func NewRedis(client *redis.Client) *RedisCache {
	return &RedisCache{client: client}
}

// GetOrCompute implements domain.Cache.
func (c *RedisCache) GetOrCompute(key string, ttl time.Duration, compute func() ([]byte, error)) ([]byte, bool, error) {
	value, err := c.Get(key)
	if err == nil {
		return value, true, nil
	}
	if !errors.Is(err, domain.ErrCacheMiss) {
		return nil, false, err
	}
	value, err = compute()
	if err != nil {
		return nil, false, err
	}
	_ = c.Set(key, value, ttl)
	return value, false, nil
}

// Get implements domain.Cache.
func (c *RedisCache) Get(key string) ([]byte, error) {
	value, err := c.client.Get(context.Background(), key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, domain.ErrCacheMiss
	}
	if err != nil {
		return nil, err
	}
	return value, nil
}

// Set implements domain.Cache.
func (c *RedisCache) Set(key string, value []byte, ttl time.Duration) error {
	return c.client.Set(context.Background(), key, value, ttl).Err()
}
