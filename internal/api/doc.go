// Storefront Catalog - Live Product Sheet Sync and Cache
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/storefront-catalog

/*
Package api is the HTTP surface over the catalog service.

Routes:

	GET  /api/v1/products             paginated listing (search, category, sort, flags)
	GET  /api/v1/products/{slug}      single product
	GET  /api/v1/variants/sku         SKU for productId + color + size
	GET  /api/v1/cache/status         snapshot age, freshness, last error
	POST /api/v1/admin/cache/clear    invalidate without fetching
	POST /api/v1/admin/cache/warm     precompute listing pages
	POST /api/v1/admin/sync           force a refresh (cron entry point)
	GET  /health, /health/ready       probes
	GET  /metrics                     Prometheus

Admin routes need "Authorization: Bearer <security.admin_token>" when a
token is configured.

Every response uses models.APIResponse. Catalog errors map to statuses in
classifyError: a missing configuration is 503 NOT_CONFIGURED, rejected
credentials 502 SOURCE_AUTH_ERROR, any other source failure 503
SOURCE_UNAVAILABLE. A stale snapshot is still a 200 with metadata.stale set.
*/
package api
