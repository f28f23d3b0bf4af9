// Storefront Catalog - Live Product Sheet Sync and Cache
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/storefront-catalog

package models

import (
	"time"
)

// APIResponse is the envelope every HTTP endpoint writes.
//
// Status is "success" with Data populated, or "error" with Error populated.
//
//	{
//	  "status": "success",
//	  "data": {"products": [...], "pagination": {...}},
//	  "metadata": {"timestamp": "2026-01-10T12:00:00Z", "query_time_ms": 2, "cached": true}
//	}
type APIResponse struct {
	Status   string      `json:"status"`
	Data     interface{} `json:"data"`
	Metadata Metadata    `json:"metadata"`
	Error    *APIError   `json:"error,omitempty"`
}

// Metadata carries timing and cache information for a response.
// Cached is true when the payload came from the per-query cache.
type Metadata struct {
	Timestamp   time.Time  `json:"timestamp"`
	QueryTimeMS int64      `json:"query_time_ms,omitempty"`
	Cached      bool       `json:"cached,omitempty"`
	SnapshotAt  *time.Time `json:"snapshot_at,omitempty"`
	Stale       bool       `json:"stale,omitempty"`
}

// APIError is the structured error body.
//
// Codes in use: VALIDATION_ERROR, NOT_FOUND, NOT_CONFIGURED, SOURCE_AUTH_ERROR,
// SOURCE_UNAVAILABLE, UNAUTHORIZED, INTERNAL_ERROR.
type APIError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}
