// Storefront Catalog - Live Product Sheet Sync and Cache
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/storefront-catalog

// Package config loads service configuration with koanf.
//
// Sources are layered, later ones winning:
//
//  1. built-in defaults (defaultConfig)
//  2. an optional YAML file: $CONFIG_PATH, ./config.yaml, or /etc/storefront-catalog/config.yaml
//  3. environment variables listed in envMappings, e.g. SHEET_ID, CACHE_TTL, WARM_PROFILES
//
// Example config.yaml:
//
//	sheet:
//	  spreadsheet_id: 1AbC...
//	  range: Products!A:Z
//	  credentials_file: /secrets/sa.json
//	cache:
//	  ttl: 2m
//	warm:
//	  profiles:
//	    - bestseller=true&limit=8
//	    - category=hoodies&sortBy=price&sortOrder=asc
//	persist:
//	  backend: badger
//	  badger_path: /data/catalog-snapshot
//
// Validate rejects structurally invalid values. Sheet credentials are checked
// separately by SheetConfig.CheckConfigured so that the service can start,
// serve a persisted snapshot, and report NOT_CONFIGURED instead of exiting.
package config
