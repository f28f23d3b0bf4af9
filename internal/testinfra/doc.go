// Storefront Catalog - Live Product Sheet Sync and Cache
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/storefront-catalog

// Package testinfra holds shared test fixtures.
//
// # Fake Sheets API
//
// SheetsServer is an httptest server that answers the Sheets v4 values
// endpoint with configurable rows or failures. Point config.SheetConfig.BaseURL
// at its URL to drive the real client end to end:
//
//	srv := testinfra.NewSheetsServer(t, rows)
//	cfg := config.SheetConfig{
//	    SpreadsheetID: "sheet",
//	    Range:         "Products!A:Z",
//	    APIKey:        "key",
//	    BaseURL:       srv.BaseURL(),
//	}
//
// # Containers
//
// Files built with the integration tag start real services through
// testcontainers-go. RedisContainer backs the snapshot persistence tests:
//
//	go test -tags integration ./internal/snapshotstore/...
//
// These tests skip when Docker is not available.
package testinfra
