package store

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// Compile-time interface check.
var _ Store = (*RedisStore)(nil)

// RedisStore is a Store backed by Redis. Each record is a Redis hash named
// "<namespace>:<key>" whose hash fields hold the counters.
type RedisStore struct {
	client    *redis.Client
	namespace string
}

// NewRedisStore creates a Redis-backed store on an existing client.
func NewRedisStore(client *redis.Client, namespace string) *RedisStore {
	return &RedisStore{client: client, namespace: namespace}
}

// DialRedis parses a redis:// or rediss:// URL, connects and pings the
// server before returning the store.
func DialRedis(ctx context.Context, url, namespace string) (*RedisStore, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	c := redis.NewClient(opt)

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := c.Ping(pingCtx).Err(); err != nil {
		_ = c.Close()
		return nil, unavailable("redis", "ping", err)
	}
	return NewRedisStore(c, namespace), nil
}

// Increment atomically adds one to field under key using HINCRBY.
func (r *RedisStore) Increment(ctx context.Context, key, field string) (int64, error) {
	v, err := r.client.HIncrBy(ctx, r.redisKey(key), field, 1).Result()
	if err != nil {
		return 0, unavailable("redis", "hincrby", err)
	}
	return v, nil
}

// Get returns the current value of field under key.
func (r *RedisStore) Get(ctx context.Context, key, field string) (int64, error) {
	s, err := r.client.HGet(ctx, r.redisKey(key), field).Result()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, unavailable("redis", "hget", err)
	}

	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("redis: parse %s of %q: %w", field, key, err)
	}
	return v, nil
}

// Close closes the underlying Redis client.
func (r *RedisStore) Close() error {
	return r.client.Close()
}

func (r *RedisStore) redisKey(key string) string {
	if r.namespace == "" {
		return key
	}
	return strings.TrimSuffix(r.namespace, ":") + ":" + key
}
