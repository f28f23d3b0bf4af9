// Storefront Catalog - Live Product Sheet Sync and Cache
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/storefront-catalog

/*
Package metrics holds the Prometheus collectors for the catalog service.

All collectors are registered on the default registry through promauto and
exported at /metrics by the API router.

# Catalog

  - sheet_fetch_total{result}, sheet_fetch_duration_seconds, sheet_rows_fetched
  - catalog_refresh_total{result}, catalog_refresh_coalesced_total
  - catalog_snapshot_products, catalog_snapshot_fetched_timestamp_seconds
  - catalog_stale_served_total{reason}
  - catalog_parse_skipped_rows_total, catalog_sku_collisions_total
  - catalog_warm_queries_total{result}

# Caches

cache_hits_total, cache_misses_total, cache_entries and cache_evictions_total
are labelled by cache_type: "snapshot" for the catalog snapshot and "query"
for per-query results.

# HTTP and circuit breaker

api_requests_total, api_request_duration_seconds, api_active_requests, and the
circuit_breaker_* family for the sheet API breaker.
*/
package metrics
