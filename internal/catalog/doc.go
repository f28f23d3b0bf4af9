// Storefront Catalog - Live Product Sheet Sync and Cache
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/storefront-catalog

/*
Package catalog is the operation surface of the product catalog.

Reads (ListProducts, GetProductBySlug, GetVariantSKU) obtain a snapshot from
the cache store, refreshing on demand and falling back to the previous
snapshot when the sheet is unreachable. Listing pages are memoized in the
query cache keyed by snapshot version and normalized parameters.

Administrative operations:

  - ClearCache invalidates the snapshot; nothing is fetched until the next read
  - WarmCache loads a snapshot if needed and precomputes the configured
    warm profiles, settling each one independently
  - SyncNow forces a refresh, joining one already in flight

Errors match the sentinels in package models: ErrNotFound for missing
products or variants, ErrRefreshFailed (with ErrNotConfigured,
ErrSourceAuth or ErrSourceUnavailable) when no snapshot can be served.
*/
package catalog
