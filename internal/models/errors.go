// Storefront Catalog - Live Product Sheet Sync and Cache
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/storefront-catalog

package models

import "errors"

// Catalog error kinds. Wrapped errors are matched with errors.Is.
var (
	// ErrNotConfigured means required sheet configuration is absent or still a placeholder.
	ErrNotConfigured = errors.New("catalog source not configured")

	// ErrSourceUnavailable covers timeouts, 5xx, rate limiting and an open circuit.
	ErrSourceUnavailable = errors.New("catalog source unavailable")

	// ErrSourceAuth means the sheet rejected the credentials.
	ErrSourceAuth = errors.New("catalog source rejected credentials")

	// ErrParseRow marks a single unusable row. It never leaves the parser.
	ErrParseRow = errors.New("unparseable row")

	// ErrRefreshFailed wraps a fetch failure during a cache refresh.
	ErrRefreshFailed = errors.New("catalog refresh failed")

	// ErrNotFound is the normal outcome of a lookup with no match.
	ErrNotFound = errors.New("not found")
)
