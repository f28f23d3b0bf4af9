// Storefront Catalog - Live Product Sheet Sync and Cache
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/storefront-catalog

// Package snapshotstore persists the last good catalog snapshot so a
// restarted process can serve (stale) products before its first fetch
// succeeds. BadgerDB suits a single instance; Redis lets several instances
// share one copy.
package snapshotstore
