// Storefront Catalog - Live Product Sheet Sync and Cache
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/storefront-catalog

/*
Package services adapts application components to suture.Service.

HTTPServerService wraps *http.Server: ListenAndServe runs in a goroutine
and context cancellation triggers Shutdown with a timeout.

SyncService wraps the Start/Stop lifecycle of sync.Manager: Start on entry,
block until the context ends, then Stop, which waits for the sync goroutines.

Both implement fmt.Stringer so supervisor log lines name the service.
*/
package services
