// Storefront Catalog - Live Product Sheet Sync and Cache
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/storefront-catalog

/*
Command server runs the storefront catalog: it reads products from a Google
Sheet, keeps a parsed snapshot in memory with a TTL, and serves listings,
product pages and SKU lookups over HTTP.

Startup order:

 1. .env / .env.local (godotenv), then configuration (koanf: defaults,
    optional YAML file, environment)
 2. Logging (zerolog)
 3. Sheets client behind a circuit breaker
 4. Snapshot persistence (none, badger or redis) and restore of the last
    good snapshot, which starts out expired
 5. Cache store, query cache and catalog service
 6. Sync manager, HTTP router and the suture supervisor tree

Minimal environment:

	SHEET_ID=1AbC...            # spreadsheet id
	SHEET_RANGE=Products!A1:V   # range including the header row
	GOOGLE_API_KEY=...          # or GOOGLE_CREDENTIALS_FILE for a service account
	ADMIN_TOKEN=...             # protects /api/v1/admin/*

SIGINT or SIGTERM shuts the tree down gracefully.
*/
package main
