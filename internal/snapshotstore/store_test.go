// Storefront Catalog - Live Product Sheet Sync and Cache
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/storefront-catalog

package snapshotstore

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/shopspring/decimal"

	"github.com/tomtom215/storefront-catalog/internal/config"
	"github.com/tomtom215/storefront-catalog/internal/models"
)

func testSnapshot() *models.Snapshot {
	created := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	variantPrice := decimal.RequireFromString("24.50")
	products := []models.Product{
		{
			ID:        1,
			Name:      "Classic Tee",
			Slug:      "classic-tee",
			Price:     decimal.RequireFromString("19.99"),
			Category:  "t-shirts",
			Images:    []string{"https://cdn.example.com/tee.jpg"},
			Colors:    []models.Color{{Name: "Black", Value: "#000000"}},
			Sizes:     []string{"M"},
			CreatedAt: &created,
			Variants: []models.Variant{{
				ProductID:   1,
				ColorName:   "Black",
				Size:        "M",
				SKU:         "TEE-BLK-M",
				Price:       &variantPrice,
				Images:      []string{"https://cdn.example.com/tee.jpg"},
				IsAvailable: true,
			}},
		},
		{ID: 2, Name: "Hoodie", Slug: "hoodie", Price: decimal.RequireFromString("49"), Category: "hoodies"},
	}
	return models.NewSnapshot(products, time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC), 3, 1)
}

func assertRoundTrip(t *testing.T, want, got *models.Snapshot) {
	t.Helper()
	if got == nil {
		t.Fatal("Load() returned nil snapshot")
	}
	if got.Version != want.Version {
		t.Errorf("Version = %q, want %q", got.Version, want.Version)
	}
	if !got.FetchedAt.Equal(want.FetchedAt) {
		t.Errorf("FetchedAt = %v, want %v", got.FetchedAt, want.FetchedAt)
	}
	if got.Len() != want.Len() || got.SkippedRows != want.SkippedRows {
		t.Errorf("Len/SkippedRows = %d/%d, want %d/%d", got.Len(), got.SkippedRows, want.Len(), want.SkippedRows)
	}

	// Indexes must be rebuilt after decoding.
	p, ok := got.BySlug("classic-tee")
	if !ok {
		t.Fatal("BySlug(classic-tee) not found after load")
	}
	if !p.Price.Equal(decimal.RequireFromString("19.99")) {
		t.Errorf("Price = %s, want 19.99", p.Price)
	}
	if len(p.Variants) != 1 || p.Variants[0].Price == nil || !p.Variants[0].Price.Equal(decimal.RequireFromString("24.5")) {
		t.Errorf("variant price not preserved: %+v", p.Variants)
	}
	if _, ok := got.ByID(2); !ok {
		t.Error("ByID(2) not found after load")
	}
}

func TestBadgerStore_SaveLoad(t *testing.T) {
	ctx := context.Background()
	dir := filepath.Join(t.TempDir(), "snapshots")

	s, err := OpenBadger(dir)
	if err != nil {
		t.Fatalf("OpenBadger() error = %v", err)
	}

	got, err := s.Load(ctx)
	if err != nil || got != nil {
		t.Fatalf("Load() on empty db = %v, %v; want nil, nil", got, err)
	}

	want := testSnapshot()
	if err := s.Save(ctx, want); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	// Reopen to prove the snapshot survives a restart.
	s, err = OpenBadger(dir)
	if err != nil {
		t.Fatalf("reopen error = %v", err)
	}
	defer s.Close()

	got, err = s.Load(ctx)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	assertRoundTrip(t, want, got)
}

func TestBadgerStore_SaveOverwrites(t *testing.T) {
	ctx := context.Background()
	s, err := OpenBadger(t.TempDir())
	if err != nil {
		t.Fatalf("OpenBadger() error = %v", err)
	}
	defer s.Close()

	first := testSnapshot()
	second := models.NewSnapshot(nil, time.Now().UTC(), 0, 0)
	if err := s.Save(ctx, first); err != nil {
		t.Fatal(err)
	}
	if err := s.Save(ctx, second); err != nil {
		t.Fatal(err)
	}

	got, err := s.Load(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if got.Version != second.Version || got.Len() != 0 {
		t.Errorf("Load() = version %q len %d, want the second snapshot", got.Version, got.Len())
	}
}

func TestNew(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		cfg     config.PersistConfig
		wantNil bool
		wantErr bool
	}{
		{name: "empty backend", cfg: config.PersistConfig{}, wantNil: true},
		{name: "none", cfg: config.PersistConfig{Backend: BackendNone}, wantNil: true},
		{name: "badger without path", cfg: config.PersistConfig{Backend: BackendBadger}, wantErr: true},
		{name: "redis without addr", cfg: config.PersistConfig{Backend: BackendRedis}, wantErr: true},
		{name: "unknown", cfg: config.PersistConfig{Backend: "s3"}, wantErr: true},
		{name: "badger", cfg: config.PersistConfig{Backend: BackendBadger, BadgerPath: t.TempDir()}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := New(ctx, tt.cfg)
			if (err != nil) != tt.wantErr {
				t.Fatalf("New() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				if s != nil {
					t.Error("New() returned a store alongside an error")
				}
				return
			}
			if (s == nil) != tt.wantNil {
				t.Fatalf("New() store = %v, wantNil %v", s, tt.wantNil)
			}
			if s != nil {
				_ = s.Close()
			}
		})
	}
}

func TestRedisStore_SaveLoad(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}
	ctx := context.Background()
	key := "catalog:snapshot:test:" + time.Now().Format("150405.000000")

	s, err := OpenRedis(ctx, RedisOptions{Addr: addr, Key: key})
	if err != nil {
		t.Fatalf("OpenRedis() error = %v", err)
	}
	defer s.Close()
	defer s.client.Del(ctx, key)

	got, err := s.Load(ctx)
	if err != nil || got != nil {
		t.Fatalf("Load() on missing key = %v, %v; want nil, nil", got, err)
	}

	want := testSnapshot()
	if err := s.Save(ctx, want); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	got, err = s.Load(ctx)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	assertRoundTrip(t, want, got)
}

func TestNewRedisStore_DefaultKey(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:0"})
	defer client.Close()

	if got := NewRedisStore(client, "").key; got != DefaultKey {
		t.Errorf("key = %q, want %q", got, DefaultKey)
	}
	if got := NewRedisStore(client, "shop:catalog").key; got != "shop:catalog" {
		t.Errorf("key = %q, want shop:catalog", got)
	}
}
