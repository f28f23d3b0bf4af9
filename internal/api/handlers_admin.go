// Storefront Catalog - Live Product Sheet Sync and Cache
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/storefront-catalog

package api

import (
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/storefront-catalog/internal/catalog"
	"github.com/tomtom215/storefront-catalog/internal/logging"
	"github.com/tomtom215/storefront-catalog/internal/validation"
)

// maxAdminBody bounds the warm request body.
const maxAdminBody = 64 << 10

// ClearCache handles POST /api/v1/admin/cache/clear.
func (h *Handler) ClearCache(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	h.catalog.ClearCache(r.Context())
	respondSuccess(w, start, map[string]interface{}{"cleared": true}, nil, "")
}

// WarmCache handles POST /api/v1/admin/cache/warm.
//
// The body is optional: {"profiles": ["bestseller=true&limit=8", ...]}.
// Without it the configured profiles run.
func (h *Handler) WarmCache(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req validation.WarmRequest
	body := http.MaxBytesReader(w, r.Body, maxAdminBody)
	if err := json.NewDecoder(body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		respondError(w, http.StatusBadRequest, ErrCodeValidation, "Request body must be JSON like {\"profiles\": [...]}", nil)
		return
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondValidation(w, apiErr)
		return
	}

	report, err := h.catalog.WarmCache(r.Context(), req.Profiles)
	if err != nil {
		respondServiceError(w, err, report)
		return
	}
	respondSuccess(w, start, report, nil, "")
}

// SyncResponse is the body of POST /api/v1/admin/sync.
type SyncResponse struct {
	Sync catalog.SyncReport  `json:"sync"`
	Warm *catalog.WarmReport `json:"warm,omitempty"`
}

// Sync handles POST /api/v1/admin/sync, the entry point for external
// schedulers. A successful refresh is followed by a warm of the configured
// profiles. On failure the report is still returned alongside the error.
func (h *Handler) Sync(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	report, err := h.catalog.SyncNow(r.Context())
	if err != nil {
		respondServiceError(w, err, SyncResponse{Sync: report})
		return
	}

	resp := SyncResponse{Sync: report}
	warm, werr := h.catalog.WarmCache(r.Context(), nil)
	if werr != nil {
		logging.Ctx(r.Context()).Warn().Err(werr).Msg("Warm after sync failed")
	} else {
		resp.Warm = &warm
	}
	respondSuccess(w, start, resp, nil, "")
}
