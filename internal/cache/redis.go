// TheBox - Social Stories Backend
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/thebox

package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"

	"github.com/tomtom215/thebox/internal/metrics"
)

// BackendRedis labels metrics from the Redis store.
const BackendRedis = "redis"

// RedisConfig holds connection settings for RedisStore.
type RedisConfig struct {
	Addr         string
	Password     string
	DB           int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// RedisStore is a Store backed by Redis.
type RedisStore struct {
	client redis.UniversalClient
}

// NewRedisStore connects to Redis and verifies the connection with PING.
func NewRedisStore(ctx context.Context, cfg RedisConfig) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis at %s: %w", cfg.Addr, err)
	}

	return &RedisStore{client: client}, nil
}

// NewRedisStoreFromClient wraps an existing client without pinging it.
func NewRedisStoreFromClient(client redis.UniversalClient) *RedisStore {
	return &RedisStore{client: client}
}

// Get implements Store.
func (r *RedisStore) Get(ctx context.Context, key string, dest any) (bool, error) {
	data, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		metrics.RecordCacheLookup(BackendRedis, false)
		return false, nil
	}
	if err != nil {
		metrics.RecordCacheError(BackendRedis, "get")
		return false, fmt.Errorf("redis get %q: %w", key, err)
	}

	if err := json.Unmarshal(data, dest); err != nil {
		metrics.RecordCacheError(BackendRedis, "decode")
		return false, fmt.Errorf("decode cached %q: %w", key, err)
	}

	metrics.RecordCacheLookup(BackendRedis, true)
	return true, nil
}

// Set implements Store.
func (r *RedisStore) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}

	data, err := json.Marshal(value)
	if err != nil {
		metrics.RecordCacheError(BackendRedis, "encode")
		return fmt.Errorf("encode %q: %w", key, err)
	}

	if err := r.client.Set(ctx, key, data, ttl).Err(); err != nil {
		metrics.RecordCacheError(BackendRedis, "set")
		return fmt.Errorf("redis set %q: %w", key, err)
	}
	return nil
}

// Delete implements Store. All keys are removed in one DEL round trip.
func (r *RedisStore) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}

	removed, err := r.client.Del(ctx, keys...).Result()
	if err != nil {
		metrics.RecordCacheError(BackendRedis, "delete")
		return fmt.Errorf("redis del: %w", err)
	}
	if removed > 0 {
		metrics.CacheEvictions.WithLabelValues(BackendRedis).Add(float64(removed))
	}
	return nil
}

// SetMany writes several entries with the same ttl in one pipeline.
func (r *RedisStore) SetMany(ctx context.Context, values map[string]any, ttl time.Duration) error {
	if ttl <= 0 || len(values) == 0 {
		return nil
	}

	pipe := r.client.Pipeline()
	for key, value := range values {
		data, err := json.Marshal(value)
		if err != nil {
			metrics.RecordCacheError(BackendRedis, "encode")
			return fmt.Errorf("encode %q: %w", key, err)
		}
		pipe.Set(ctx, key, data, ttl)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		metrics.RecordCacheError(BackendRedis, "set")
		return fmt.Errorf("redis pipeline set: %w", err)
	}
	return nil
}

// Ping checks that Redis is reachable.
func (r *RedisStore) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// Close closes the underlying client.
func (r *RedisStore) Close() error {
	return r.client.Close()
}
