// Storefront Catalog - Live Product Sheet Sync and Cache
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/storefront-catalog

/*
Package sheets pulls raw product rows from the Google Sheets values API.

The Client performs exactly one GET per Fetch against

	{base_url}/{spreadsheet_id}/values/{range}?majorDimension=ROWS

authenticated either with an API key or with a service account (JWT bearer
flow from golang.org/x/oauth2/jwt, spreadsheets.readonly scope). It never
retries; retry policy belongs to whoever triggered the refresh.

Every call is bounded by the configured timeout and a token-bucket limiter.
Breaker wraps any Fetcher with a sony/gobreaker circuit breaker so a dead
upstream is not hammered by scheduled syncs and on-demand refreshes.

# Errors

Fetch returns models.ErrNotConfigured (wrapped) without touching the network
when the sheet id, range or credentials are missing or look like template
placeholders. Every other failure is a *FetchError whose Kind is one of

  - models.ErrSourceAuth: 401, 403, an invalid API key, or a rejected token exchange
  - models.ErrSourceUnavailable: timeouts, 429, 5xx, an open circuit (transient),
    or 404 and other 4xx responses such as an unknown range (permanent)

Callers test the kind with errors.Is and the retry class with IsTransient.
*/
package sheets
