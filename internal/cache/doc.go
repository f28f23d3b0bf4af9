// Storefront Catalog - Live Product Sheet Sync and Cache
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/storefront-catalog

/*
Package cache holds the catalog snapshot and the per-query result cache.

# Store

Store owns exactly one *models.Snapshot behind an atomic pointer. A snapshot
is fresh until its TTL elapses or Invalidate is called; Get only returns
fresh snapshots while Current returns whatever is installed.

Refresh goes through golang.org/x/sync/singleflight, so any number of
concurrent callers (on-demand reads, the scheduled sync, an admin sync)
produce a single upstream fetch. A failed refresh leaves the installed
snapshot untouched. Snapshot combines both behaviours for readers:

	snap, stale, err := store.Snapshot(ctx)
	switch {
	case err != nil:
	    // nothing was ever fetched, or restored from persistence
	case stale:
	    // refresh failed, serving the previous snapshot
	}

With a Persister configured every successful refresh is saved, and Restore
installs the saved snapshot at startup as already expired.

# QueryCache

QueryCache is a size-bounded LRU with TTL (hashicorp/golang-lru expirable)
for computed listing pages. Keys come from GenerateKey over normalized
query parameters plus the snapshot version, so a new snapshot never serves
results computed from an older one.
*/
package cache
