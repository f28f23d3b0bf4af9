// Storefront Catalog - Live Product Sheet Sync and Cache
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/storefront-catalog

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// API Endpoint Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	// Sheet Fetch Metrics
	SheetFetchTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sheet_fetch_total",
			Help: "Sheet API fetches by result",
		},
		[]string{"result"}, // success, unavailable, auth, not_configured
	)

	SheetFetchDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "sheet_fetch_duration_seconds",
			Help:    "Duration of sheet API fetches",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 15},
		},
	)

	SheetRowsFetched = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "sheet_rows_fetched",
			Help: "Rows returned by the last successful fetch, header included",
		},
	)

	// Parse Metrics
	ParseSkippedRows = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "catalog_parse_skipped_rows_total",
			Help: "Rows dropped by the parser because their id was not a positive integer",
		},
	)

	SKUCollisions = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "catalog_sku_collisions_total",
			Help: "Variant SKUs seen more than once within a snapshot",
		},
	)

	SlugCollisions = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "catalog_slug_collisions_total",
			Help: "Products whose slug is already taken by an earlier product in the snapshot",
		},
	)

	// Snapshot Metrics
	CacheRefreshTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_refresh_total",
			Help: "Snapshot refresh attempts by result",
		},
		[]string{"result"}, // success, failure
	)

	CacheRefreshCoalesced = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "catalog_refresh_coalesced_total",
			Help: "Refresh calls that joined an in-flight refresh instead of fetching",
		},
	)

	SnapshotProducts = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "catalog_snapshot_products",
			Help: "Products in the current snapshot",
		},
	)

	SnapshotFetchedAt = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "catalog_snapshot_fetched_timestamp_seconds",
			Help: "Unix time the current snapshot was fetched",
		},
	)

	StaleServed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_stale_served_total",
			Help: "Reads answered from an expired snapshot because refresh failed",
		},
		[]string{"reason"}, // unavailable, auth, not_configured
	)

	// Cache Metrics (General)
	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_hits_total",
			Help: "Total number of cache hits",
		},
		[]string{"cache_type"}, // snapshot, query
	)

	CacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_misses_total",
			Help: "Total number of cache misses",
		},
		[]string{"cache_type"},
	)

	CacheSize = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "cache_entries",
			Help: "Current number of cached entries",
		},
		[]string{"cache_type"},
	)

	CacheEvictions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_evictions_total",
			Help: "Total number of cache evictions",
		},
		[]string{"cache_type"},
	)

	// Warm Metrics
	WarmQueries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_warm_queries_total",
			Help: "Warm-up profile executions by result",
		},
		[]string{"result"}, // success, failure
	)

	// Sync Metrics
	SyncRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_sync_runs_total",
			Help: "Background and manual sync runs by trigger and result",
		},
		[]string{"trigger", "result"}, // trigger: startup, scheduled, manual
	)

	SyncLastSuccess = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "catalog_sync_last_success_timestamp_seconds",
			Help: "Unix time of the last successful sync run",
		},
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "Total number of requests through circuit breaker",
		},
		[]string{"name", "result"}, // result: "success", "failure", "rejected"
	)

	CircuitBreakerConsecutiveFailures = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_consecutive_failures",
			Help: "Current number of consecutive failures",
		},
		[]string{"name"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)
)

// RecordAPIRequest records an API request metric
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest tracks active API requests
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordSheetFetch records one fetch attempt. result is one of the
// SheetFetchTotal labels; rows is ignored unless result is "success".
func RecordSheetFetch(result string, duration time.Duration, rows int) {
	SheetFetchTotal.WithLabelValues(result).Inc()
	SheetFetchDuration.Observe(duration.Seconds())
	if result == "success" {
		SheetRowsFetched.Set(float64(rows))
	}
}

// RecordSnapshot publishes gauges for a newly installed snapshot.
func RecordSnapshot(products int, fetchedAt time.Time) {
	SnapshotProducts.Set(float64(products))
	SnapshotFetchedAt.Set(float64(fetchedAt.Unix()))
}

// RecordCacheLookup counts a hit or miss for cacheType.
func RecordCacheLookup(cacheType string, hit bool) {
	if hit {
		CacheHits.WithLabelValues(cacheType).Inc()
		return
	}
	CacheMisses.WithLabelValues(cacheType).Inc()
}
