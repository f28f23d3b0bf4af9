// Storefront Catalog - Live Product Sheet Sync and Cache
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/storefront-catalog

package snapshotstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/tomtom215/storefront-catalog/internal/logging"
	"github.com/tomtom215/storefront-catalog/internal/models"
)

// RedisOptions configures a RedisStore.
type RedisOptions struct {
	Addr     string
	Password string
	DB       int
	Key      string
}

// RedisStore keeps the snapshot as one JSON value so that several
// instances behind a load balancer can restore the same catalog.
type RedisStore struct {
	client *redis.Client
	key    string
}

// OpenRedis connects and pings the server.
func OpenRedis(ctx context.Context, opts RedisOptions) (*RedisStore, error) {
	if opts.Addr == "" {
		return nil, errors.New("redis persistence requires persist.redis_addr")
	}
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	logging.Info().Str("addr", opts.Addr).Int("db", opts.DB).Msg("Snapshot persistence connected to Redis")

	return NewRedisStore(client, opts.Key), nil
}

// NewRedisStore wraps an existing client. An empty key uses DefaultKey.
func NewRedisStore(client *redis.Client, key string) *RedisStore {
	if key == "" {
		key = DefaultKey
	}
	return &RedisStore{client: client, key: key}
}

// Save replaces the stored snapshot. The value has no expiry; the cache TTL
// decides freshness, not Redis.
func (s *RedisStore) Save(ctx context.Context, snap *models.Snapshot) error {
	data, err := encode(snap)
	if err != nil {
		return err
	}
	if err := s.client.Set(ctx, s.key, data, 0).Err(); err != nil {
		return fmt.Errorf("set snapshot in Redis: %w", err)
	}
	return nil
}

// Load returns (nil, nil) when the key does not exist.
func (s *RedisStore) Load(ctx context.Context) (*models.Snapshot, error) {
	data, err := s.client.Get(ctx, s.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get snapshot from Redis: %w", err)
	}
	return decode(data)
}

// Close closes the client connection pool.
func (s *RedisStore) Close() error {
	return s.client.Close()
}
