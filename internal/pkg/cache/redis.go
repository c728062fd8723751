// Package cache stores short-lived responses keyed by idempotency key.
package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache is a string key/value store with per-entry TTL. Get returns "" and
// no error on a miss.
type Cache interface {
	Set(ctx context.Context, key string, value string, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	GenerateKey(operation, key string) string
}

type RedisCache struct {
	client      *redis.Client
	serviceName string
}

func NewRedisCache(addr, serviceName string) *RedisCache {
	return &RedisCache{
		client:      redis.NewClient(&redis.Options{Addr: addr}),
		serviceName: serviceName,
	}
}

// Ping checks that the server is reachable.
func (r *RedisCache) Ping(ctx context.Context) error {
	if err := r.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("cache: ping redis: %w", err)
	}
	return nil
}

func (r *RedisCache) Set(ctx context.Context, key string, value string, ttl time.Duration) error {
	if err := r.client.Set(ctx, key, value, ttl).Err(); err != nil {
		return fmt.Errorf("cache: set %s: %w", key, err)
	}
	return nil
}

func (r *RedisCache) Get(ctx context.Context, key string) (string, error) {
	value, err := r.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("cache: get %s: %w", key, err)
	}
	return value, nil
}

func (r *RedisCache) GenerateKey(operation, key string) string {
	return generateKey(r.serviceName, operation, key)
}

func (r *RedisCache) Close() error {
	return r.client.Close()
}

func generateKey(service, operation, key string) string {
	return fmt.Sprintf("%s:%s:%s", service, operation, key)
}
