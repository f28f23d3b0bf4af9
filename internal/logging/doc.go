// Storefront Catalog - Live Product Sheet Sync and Cache
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/storefront-catalog

// Package logging is the zerolog-based structured logger used by every
// package in the service.
//
// Call Init once from main with the values loaded by internal/config. Until
// then a json logger at info level writes to stderr.
//
//	logging.Init(logging.Config{Level: cfg.Logging.Level, Format: cfg.Logging.Format})
//	logging.Info().Str("sheet", id).Msg("Catalog source configured")
//
// Request handlers log through Ctx so that request_id and correlation_id
// set by the HTTP middleware appear on every line:
//
//	logging.Ctx(r.Context()).Warn().Err(err).Msg("Serving stale catalog")
//
// Long-lived components take a tagged child logger:
//
//	log := logging.WithComponent("sheets")
//
// NewSlogLogger bridges zerolog to log/slog for the suture supervisor.
//
// Always finish an event with Msg or Send, otherwise nothing is written.
package logging
