package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// Cache is a byte-oriented key/value store with expiry.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

type RedisCache struct {
	rdb    *redis.Client
	prefix string
}

// NewRedisCache connects to addr and checks the connection.
func NewRedisCache(ctx context.Context, addr, password string) (*RedisCache, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       0,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, err
	}
	return NewRedisCacheFromClient(rdb, "qrhub-admin:"), nil
}

func NewRedisCacheFromClient(rdb *redis.Client, prefix string) *RedisCache {
	return &RedisCache{rdb: rdb, prefix: prefix}
}

func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	val, err := c.rdb.Get(ctx, c.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return val, true, nil
}

func (c *RedisCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return c.rdb.Set(ctx, c.prefix+key, value, ttl).Err()
}

func (c *RedisCache) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	full := make([]string, len(keys))
	for i, k := range keys {
		full[i] = c.prefix + k
	}
	return c.rdb.Del(ctx, full...).Err()
}

func (c *RedisCache) Close() error {
	return c.rdb.Close()
}

// NopCache never stores anything. It is used when no redis is configured.
type NopCache struct{}

func (NopCache) Get(context.Context, string) ([]byte, bool, error) { return nil, false, nil }
func (NopCache) Set(context.Context, string, []byte, time.Duration) error { return nil }
func (NopCache) Delete(context.Context, ...string) error { return nil }

// Remember returns the cached value for key, or calls load and caches its
// result for ttl. Cache failures are logged and never fail the call.
func Remember[T any](ctx context.Context, c Cache, log *logrus.Entry, key string, ttl time.Duration, load func(context.Context) (T, error)) (T, error) {
	if raw, ok, err := c.Get(ctx, key); err != nil {
		log.WithError(err).WithField("key", key).Warn("Cache read failed")
	} else if ok {
		var v T
		if err := json.Unmarshal(raw, &v); err == nil {
			return v, nil
		}
		log.WithField("key", key).Warn("Discarding undecodable cache entry")
	}

	v, err := load(ctx)
	if err != nil {
		return v, err
	}

	if raw, err := json.Marshal(v); err == nil {
		if err := c.Set(ctx, key, raw, ttl); err != nil {
			log.WithError(err).WithField("key", key).Warn("Cache write failed")
		}
	}
	return v, nil
}
