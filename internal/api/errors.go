// Storefront Catalog - Live Product Sheet Sync and Cache
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/storefront-catalog

package api

import (
	"errors"
	"net/http"

	"github.com/tomtom215/storefront-catalog/internal/models"
)

// Error codes written in APIError.Code.
const (
	ErrCodeValidation        = "VALIDATION_ERROR"
	ErrCodeNotFound          = "NOT_FOUND"
	ErrCodeNotConfigured     = "NOT_CONFIGURED"
	ErrCodeSourceAuth        = "SOURCE_AUTH_ERROR"
	ErrCodeSourceUnavailable = "SOURCE_UNAVAILABLE"
	ErrCodeUnauthorized      = "UNAUTHORIZED"
	ErrCodeTooManyRequests   = "TOO_MANY_REQUESTS"
	ErrCodeMethodNotAllowed  = "METHOD_NOT_ALLOWED"
	ErrCodeInternal          = "INTERNAL_ERROR"
)

// classifyError maps a catalog error to an HTTP status, code and a message
// safe to show to clients. Order matters: a refresh failure wraps the
// underlying source error, which decides the status.
func classifyError(err error) (status int, code, message string) {
	switch {
	case errors.Is(err, models.ErrNotFound):
		return http.StatusNotFound, ErrCodeNotFound, "Not found"
	case errors.Is(err, models.ErrNotConfigured):
		// The message names the missing setting and carries no secrets.
		return http.StatusServiceUnavailable, ErrCodeNotConfigured, err.Error()
	case errors.Is(err, models.ErrSourceAuth):
		return http.StatusBadGateway, ErrCodeSourceAuth, "Product catalog source rejected the configured credentials"
	case errors.Is(err, models.ErrSourceUnavailable), errors.Is(err, models.ErrRefreshFailed):
		return http.StatusServiceUnavailable, ErrCodeSourceUnavailable, "Product catalog is temporarily unavailable"
	default:
		return http.StatusInternalServerError, ErrCodeInternal, "Internal server error"
	}
}
