// Storefront Catalog - Live Product Sheet Sync and Cache
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/storefront-catalog

package validation

// SKULookupRequest is the query of GET /api/v1/variants/sku. Color and size
// are optional; an empty value matches any variant.
type SKULookupRequest struct {
	ProductID int    `json:"productId" validate:"gt=0"`
	Color     string `json:"color" validate:"max=100"`
	Size      string `json:"size" validate:"max=50"`
}

// SlugRequest is the path parameter of GET /api/v1/products/{slug}.
type SlugRequest struct {
	Slug string `json:"slug" validate:"required,max=200"`
}

// WarmRequest is the optional body of POST /api/v1/admin/cache/warm. When
// Profiles is empty the configured warm profiles are used.
type WarmRequest struct {
	Profiles []string `json:"profiles" validate:"max=50,dive,warmprofile"`
}
