// Storefront Catalog - Live Product Sheet Sync and Cache
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/storefront-catalog

// Package models defines the catalog data types shared by every layer:
// Product, Variant and the immutable Snapshot, the error kinds used for
// fetch and lookup failures, and the JSON envelope written by the HTTP API.
//
// Prices use shopspring/decimal so that values read from the sheet such as
// "1299.90" round-trip exactly.
package models
