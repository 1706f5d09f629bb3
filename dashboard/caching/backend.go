// Package caching keeps dashboard listing results in Redis or memcache.
package caching

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bradfitz/gomemcache/memcache"
	"github.com/redis/go-redis/v9"
)

// Backend stores opaque payloads under string keys.
type Backend interface {
	// Get returns the payload and whether the key was present.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

type redisBackend struct {
	client *redis.Client
}

func NewRedisBackend(client *redis.Client) Backend {
	return &redisBackend{client: client}
}

func (b *redisBackend) Get(ctx context.Context, key string) ([]byte, bool, error) {
	value, err := b.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read %s from Redis: %w", key, err)
	}
	return value, true, nil
}

func (b *redisBackend) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := b.client.Set(ctx, key, value, ttl).Err(); err != nil {
		return fmt.Errorf("failed to write %s to Redis: %w", key, err)
	}
	return nil
}

type memcacheBackend struct {
	client *memcache.Client
}

func NewMemcacheBackend(client *memcache.Client) Backend {
	return &memcacheBackend{client: client}
}

func (b *memcacheBackend) Get(_ context.Context, key string) ([]byte, bool, error) {
	item, err := b.client.Get(key)
	if errors.Is(err, memcache.ErrCacheMiss) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read %s from memcache: %w", key, err)
	}
	return item.Value, true, nil
}

func (b *memcacheBackend) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	item := &memcache.Item{Key: key, Value: value, Expiration: int32(ttl / time.Second)}
	if err := b.client.Set(item); err != nil {
		return fmt.Errorf("failed to write %s to memcache: %w", key, err)
	}
	return nil
}
