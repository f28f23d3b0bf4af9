// Storefront Catalog - Live Product Sheet Sync and Cache
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/storefront-catalog

/*
Package sync runs the background refresh cycle for the catalog.

A Manager ticks at the configured interval and on each tick forces a
snapshot refresh through catalog.Service.SyncNow, then re-runs the warm
profiles so the first shoppers after a refresh hit a populated query
cache. Failures are logged and counted; the previous snapshot keeps
serving.

The Manager follows a Start/Stop lifecycle and is run under the
supervisor tree through services.SyncService:

	mgr := sync.NewManager(svc, sync.Options{
		Enabled:     cfg.Sync.Enabled,
		Interval:    cfg.Sync.Interval,
		WarmOnStart: cfg.Cache.WarmOnStart,
	})
	tree.AddDataService(services.NewSyncService(mgr))

External schedulers that prefer cron over the in-process ticker call
POST /api/v1/admin/sync instead, which reaches the same SyncNow path.
*/
package sync
