// Storefront Catalog - Live Product Sheet Sync and Cache
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/storefront-catalog

package snapshotstore

import (
	"context"
	"fmt"

	"github.com/goccy/go-json"

	"github.com/tomtom215/storefront-catalog/internal/config"
	"github.com/tomtom215/storefront-catalog/internal/models"
)

// Backend names accepted in persist.backend.
const (
	BackendNone   = "none"
	BackendBadger = "badger"
	BackendRedis  = "redis"
)

// DefaultKey is where the snapshot is stored when no key is configured.
const DefaultKey = "catalog:snapshot"

// Store persists a single catalog snapshot. It satisfies cache.Persister.
type Store interface {
	Save(ctx context.Context, snap *models.Snapshot) error
	Load(ctx context.Context) (*models.Snapshot, error)
	Close() error
}

// New opens the backend selected in cfg. It returns (nil, nil) for "none"
// so callers can pass the result straight through as an optional persister.
func New(ctx context.Context, cfg config.PersistConfig) (Store, error) {
	switch cfg.Backend {
	case "", BackendNone:
		return nil, nil
	case BackendBadger:
		s, err := OpenBadger(cfg.BadgerPath)
		if err != nil {
			return nil, err
		}
		return s, nil
	case BackendRedis:
		s, err := OpenRedis(ctx, RedisOptions{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
			Key:      cfg.RedisKey,
		})
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unknown persist backend %q", cfg.Backend)
	}
}

func encode(snap *models.Snapshot) ([]byte, error) {
	data, err := json.Marshal(snap)
	if err != nil {
		return nil, fmt.Errorf("marshal snapshot: %w", err)
	}
	return data, nil
}

// decode rebuilds the lookup indexes, which are not serialized.
func decode(data []byte) (*models.Snapshot, error) {
	var snap models.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("unmarshal snapshot: %w", err)
	}
	return snap.Reindexed(), nil
}
