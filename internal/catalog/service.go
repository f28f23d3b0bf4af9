// Storefront Catalog - Live Product Sheet Sync and Cache
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/storefront-catalog

package catalog

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/tomtom215/storefront-catalog/internal/cache"
	"github.com/tomtom215/storefront-catalog/internal/logging"
	"github.com/tomtom215/storefront-catalog/internal/models"
	"github.com/tomtom215/storefront-catalog/internal/parser"
	"github.com/tomtom215/storefront-catalog/internal/query"
)

// Options configures a Service.
type Options struct {
	Limits query.Limits
	// WarmProfiles are used by WarmCache when the caller passes none.
	WarmProfiles []string
	// WarmConcurrency bounds concurrent warm queries; defaults to 4.
	WarmConcurrency int
}

// Service exposes the catalog operations used by the HTTP layer and the
// scheduled sync.
type Service struct {
	store   *cache.Store
	queries *cache.QueryCache[query.Result]
	opts    Options
}

// NewService wires the store and query cache. The store's OnChange hook
// should purge queries.
func NewService(store *cache.Store, queries *cache.QueryCache[query.Result], opts Options) *Service {
	if opts.Limits.DefaultLimit <= 0 || opts.Limits.MaxLimit <= 0 {
		opts.Limits = query.DefaultLimits
	}
	if opts.WarmConcurrency <= 0 {
		opts.WarmConcurrency = 4
	}
	return &Service{store: store, queries: queries, opts: opts}
}

// Limits returns the page size bounds used for parsing listing queries.
func (s *Service) Limits() query.Limits {
	return s.opts.Limits
}

// Meta describes where a read was served from.
type Meta struct {
	// Cached is true when the page came from the query cache.
	Cached bool
	// Stale is true when the snapshot is past its TTL because a refresh failed.
	Stale      bool
	SnapshotAt time.Time
}

func metaFor(snap *models.Snapshot, stale bool) Meta {
	return Meta{Stale: stale, SnapshotAt: snap.FetchedAt}
}

// ListProducts returns one page of products matching p.
func (s *Service) ListProducts(ctx context.Context, p query.Params) (query.Result, Meta, error) {
	snap, stale, err := s.store.Snapshot(ctx)
	if err != nil {
		return query.Result{}, Meta{}, err
	}
	meta := metaFor(snap, stale)
	res, cached := s.run(snap, p)
	meta.Cached = cached
	return res, meta, nil
}

func (s *Service) run(snap *models.Snapshot, p query.Params) (query.Result, bool) {
	key := p.CacheKey(snap.Version)
	if res, ok := s.queries.Get(key); ok {
		return res, true
	}
	res := query.Run(snap, p)
	s.queries.Add(key, res)
	return res, false
}

// GetProductBySlug finds a product by slug. The slug is normalized the same
// way product slugs are built, so "Classic Tee" finds "classic-tee".
func (s *Service) GetProductBySlug(ctx context.Context, slug string) (models.Product, Meta, error) {
	snap, stale, err := s.store.Snapshot(ctx)
	if err != nil {
		return models.Product{}, Meta{}, err
	}
	normalized := parser.Slugify(slug)
	p, ok := snap.BySlug(normalized)
	if !ok {
		return models.Product{}, Meta{}, fmt.Errorf("%w: product %q", models.ErrNotFound, normalized)
	}
	return p, metaFor(snap, stale), nil
}

// GetVariantSKU returns the SKU of the first variant of productID whose
// color and size match. Matching is case-insensitive after trimming, and an
// empty color or size matches any value. Variants without a SKU are skipped.
func (s *Service) GetVariantSKU(ctx context.Context, productID int, color, size string) (string, error) {
	snap, _, err := s.store.Snapshot(ctx)
	if err != nil {
		return "", err
	}
	p, ok := snap.ByID(productID)
	if !ok {
		return "", fmt.Errorf("%w: product %d", models.ErrNotFound, productID)
	}

	color, size = strings.TrimSpace(color), strings.TrimSpace(size)
	for _, v := range p.Variants {
		if v.SKU == "" {
			continue
		}
		if color != "" && !strings.EqualFold(strings.TrimSpace(v.ColorName), color) {
			continue
		}
		if size != "" && !strings.EqualFold(strings.TrimSpace(v.Size), size) {
			continue
		}
		return v.SKU, nil
	}
	return "", fmt.Errorf("%w: no variant of product %d with color %q size %q", models.ErrNotFound, productID, color, size)
}

// ClearCache invalidates the snapshot without fetching. The next read
// refreshes.
func (s *Service) ClearCache(ctx context.Context) {
	s.store.Invalidate()
	logging.Ctx(ctx).Info().Msg("Catalog cache cleared")
}

// StatusReport is the cache status plus query cache occupancy.
type StatusReport struct {
	cache.Status
	QueryCacheEntries int `json:"queryCacheEntries"`
	WarmProfiles      int `json:"warmProfiles"`
}

// Status reports cache state without triggering a refresh.
func (s *Service) Status() StatusReport {
	return StatusReport{
		Status:            s.store.Status(),
		QueryCacheEntries: s.queries.Len(),
		WarmProfiles:      len(s.opts.WarmProfiles),
	}
}
