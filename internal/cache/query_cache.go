// Storefront Catalog - Live Product Sheet Sync and Cache
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/storefront-catalog

package cache

import (
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/tomtom215/storefront-catalog/internal/metrics"
)

const queryCacheType = "query"

// QueryCache holds computed query results keyed by GenerateKey output.
// Entries expire after ttl and the least recently used entry is evicted
// once size is reached.
type QueryCache[V any] struct {
	lru *expirable.LRU[string, V]
}

// NewQueryCache creates a cache of at most size entries. A size of zero or
// less disables caching: Get always misses and Add is a no-op.
func NewQueryCache[V any](size int, ttl time.Duration) *QueryCache[V] {
	if size <= 0 {
		return &QueryCache[V]{}
	}
	onEvict := func(string, V) {
		metrics.CacheEvictions.WithLabelValues(queryCacheType).Inc()
	}
	return &QueryCache[V]{lru: expirable.NewLRU[string, V](size, onEvict, ttl)}
}

// Get returns the cached value for key.
func (c *QueryCache[V]) Get(key string) (V, bool) {
	var zero V
	if c.lru == nil {
		return zero, false
	}
	v, ok := c.lru.Get(key)
	metrics.RecordCacheLookup(queryCacheType, ok)
	return v, ok
}

// Add stores value under key.
func (c *QueryCache[V]) Add(key string, value V) {
	if c.lru == nil {
		return
	}
	c.lru.Add(key, value)
	metrics.CacheSize.WithLabelValues(queryCacheType).Set(float64(c.lru.Len()))
}

// Purge drops every entry.
func (c *QueryCache[V]) Purge() {
	if c.lru == nil {
		return
	}
	c.lru.Purge()
	metrics.CacheSize.WithLabelValues(queryCacheType).Set(0)
}

// Len returns the number of live entries.
func (c *QueryCache[V]) Len() int {
	if c.lru == nil {
		return 0
	}
	return c.lru.Len()
}
