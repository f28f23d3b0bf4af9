// Storefront Catalog - Live Product Sheet Sync and Cache
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/storefront-catalog

package api

import (
	"net/http"
	"time"

	"github.com/tomtom215/storefront-catalog/internal/catalog"
)

// catalogCacheControl lets browsers and CDNs hold catalog reads briefly.
// The server-side TTL is what bounds staleness.
const catalogCacheControl = "public, max-age=60"

// SyncStatus is the read side of the background sync manager.
type SyncStatus interface {
	LastSyncTime() time.Time
	LastError() error
}

// Handler contains dependencies for API handlers.
//
// Handler methods are split across files:
//   - handlers_catalog.go: product listing, lookup and cache status
//   - handlers_admin.go: cache clear, warm and forced sync
//   - handlers_health.go: liveness and readiness
type Handler struct {
	catalog   *catalog.Service
	sync      SyncStatus
	startTime time.Time
}

// NewHandler creates a handler. syncStatus may be nil when the scheduled
// sync is not running.
func NewHandler(svc *catalog.Service, syncStatus SyncStatus) *Handler {
	return &Handler{
		catalog:   svc,
		sync:      syncStatus,
		startTime: time.Now(),
	}
}

// unauthorized is the denial handler for admin routes.
func (h *Handler) unauthorized(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("WWW-Authenticate", `Bearer realm="catalog-admin"`)
	respondError(w, http.StatusUnauthorized, ErrCodeUnauthorized, "Valid admin bearer token required", nil)
}

func (h *Handler) notFound(w http.ResponseWriter, r *http.Request) {
	respondError(w, http.StatusNotFound, ErrCodeNotFound, "Route not found", nil)
}

func (h *Handler) methodNotAllowed(w http.ResponseWriter, r *http.Request) {
	respondError(w, http.StatusMethodNotAllowed, ErrCodeMethodNotAllowed, "Method not allowed", nil)
}

func (h *Handler) tooManyRequests(w http.ResponseWriter, r *http.Request) {
	respondError(w, http.StatusTooManyRequests, ErrCodeTooManyRequests, "Rate limit exceeded", nil)
}
