// Storefront Catalog - Live Product Sheet Sync and Cache
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/storefront-catalog

// Package middleware provides the chi-compatible HTTP middleware used by the
// API router: request ids wired into logging, Prometheus instrumentation,
// and bearer-token protection for admin routes.
package middleware
