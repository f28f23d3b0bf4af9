// Storefront Catalog - Live Product Sheet Sync and Cache
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/storefront-catalog

// Package query filters, sorts and paginates a catalog snapshot.
//
// Run is a pure function of a snapshot and normalized Params. Sorting is
// stable in both directions, so products with equal keys keep their
// snapshot order and pages of the same snapshot never overlap or skip.
package query
