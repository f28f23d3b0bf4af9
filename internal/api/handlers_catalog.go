// Storefront Catalog - Live Product Sheet Sync and Cache
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/storefront-catalog

package api

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/storefront-catalog/internal/models"
	"github.com/tomtom215/storefront-catalog/internal/query"
	"github.com/tomtom215/storefront-catalog/internal/validation"
)

// Products handles GET /api/v1/products.
//
// Query parameters: search (or q), category, page, limit, sortBy, sortOrder,
// bestseller, new. Unknown or malformed values fall back to defaults rather
// than failing, matching what storefront pages send.
func (h *Handler) Products(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	params := query.ParseParams(r.URL.Query(), h.catalog.Limits())

	result, meta, err := h.catalog.ListProducts(r.Context(), params)
	if err != nil {
		respondServiceError(w, err, nil)
		return
	}
	respondSuccess(w, start, result, &meta, catalogCacheControl)
}

// ProductBySlug handles GET /api/v1/products/{slug}.
func (h *Handler) ProductBySlug(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	req := validation.SlugRequest{Slug: strings.TrimSpace(chi.URLParam(r, "slug"))}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondValidation(w, apiErr)
		return
	}

	product, meta, err := h.catalog.GetProductBySlug(r.Context(), req.Slug)
	if err != nil {
		respondServiceError(w, err, nil)
		return
	}
	respondSuccess(w, start, product, &meta, catalogCacheControl)
}

// SKUResponse is the body of a successful variant lookup.
type SKUResponse struct {
	ProductID int    `json:"productId"`
	Color     string `json:"color,omitempty"`
	Size      string `json:"size,omitempty"`
	SKU       string `json:"sku"`
}

// VariantSKU handles GET /api/v1/variants/sku?productId=&color=&size=.
func (h *Handler) VariantSKU(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	q := r.URL.Query()

	var req validation.SKULookupRequest
	if raw := strings.TrimSpace(q.Get("productId")); raw != "" {
		id, err := strconv.Atoi(raw)
		if err != nil {
			respondValidation(w, &models.APIError{
				Code:    ErrCodeValidation,
				Message: "productId must be an integer",
				Details: map[string]interface{}{"field": "productId", "tag": "int"},
			})
			return
		}
		req.ProductID = id
	}
	req.Color = strings.TrimSpace(q.Get("color"))
	req.Size = strings.TrimSpace(q.Get("size"))
	if apiErr := validateRequest(&req); apiErr != nil {
		respondValidation(w, apiErr)
		return
	}

	sku, err := h.catalog.GetVariantSKU(r.Context(), req.ProductID, req.Color, req.Size)
	if err != nil {
		respondServiceError(w, err, nil)
		return
	}
	respondSuccess(w, start, SKUResponse{
		ProductID: req.ProductID,
		Color:     req.Color,
		Size:      req.Size,
		SKU:       sku,
	}, nil, "")
}

// CacheStatus handles GET /api/v1/cache/status. It never triggers a fetch.
func (h *Handler) CacheStatus(w http.ResponseWriter, r *http.Request) {
	respondSuccess(w, time.Now(), h.catalog.Status(), nil, "")
}
