package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisCache stores entries in Redis using native key expiry.
type RedisCache struct {
	client redis.UniversalClient
	prefix string
	owned  bool
}

// NewRedisCache connects to the Redis server at url
// (redis://[:password@]host:port/db or rediss:// for TLS) and pings it,
// retrying while the server refuses connections.
func NewRedisCache(ctx context.Context, url string) (*RedisCache, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)

	err = ping(ctx, func(ctx context.Context) error { return client.Ping(ctx).Err() })
	if err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connect redis: %w", err)
	}
	return &RedisCache{client: client, prefix: "geosvg:", owned: true}, nil
}

// NewRedisCacheFromClient wraps an existing client. The caller keeps
// ownership and Close leaves the client open.
func NewRedisCacheFromClient(client redis.UniversalClient, prefix string) *RedisCache {
	return &RedisCache{client: client, prefix: prefix}
}

func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, err := c.client.Get(ctx, c.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return data, true, nil
}

// Set stores data with ttl. Redis treats a zero expiration as "keep forever".
func (c *RedisCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	return c.client.Set(ctx, c.prefix+key, data, ttl).Err()
}

func (c *RedisCache) Delete(ctx context.Context, key string) error {
	return c.client.Del(ctx, c.prefix+key).Err()
}

func (c *RedisCache) Close() error {
	if !c.owned {
		return nil
	}
	return c.client.Close()
}

var _ Cache = (*RedisCache)(nil)
