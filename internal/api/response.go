// Storefront Catalog - Live Product Sheet Sync and Cache
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/storefront-catalog

package api

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/storefront-catalog/internal/catalog"
	"github.com/tomtom215/storefront-catalog/internal/logging"
	"github.com/tomtom215/storefront-catalog/internal/models"
	"github.com/tomtom215/storefront-catalog/internal/validation"
)

// sanitizeLogValue escapes control characters so client input cannot forge
// log lines.
func sanitizeLogValue(s string) string {
	var result strings.Builder
	result.Grow(len(s))
	for _, r := range s {
		if r < 0x20 || r == 0x7F {
			result.WriteString(fmt.Sprintf("\\x%02x", r))
		} else {
			result.WriteRune(r)
		}
	}
	return result.String()
}

// respondJSON sends a JSON response. cacheControl is empty for responses
// that must not be cached.
func respondJSON(w http.ResponseWriter, status int, cacheControl string, response *models.APIResponse) {
	w.Header().Set("Content-Type", "application/json")
	if cacheControl != "" {
		w.Header().Set("Cache-Control", cacheControl)
	} else {
		w.Header().Set("Cache-Control", "no-store")
	}

	data, err := json.Marshal(response)
	if err != nil {
		logging.Error().Err(err).Msg("Failed to marshal JSON response")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("ETag", generateETag(data))

	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		logging.Error().Err(err).Msg("Failed to write JSON response")
	}
}

// generateETag creates a weak content hash using FNV-1a.
func generateETag(data []byte) string {
	hash := uint32(2166136261)
	for _, b := range data {
		hash ^= uint32(b)
		hash *= 16777619
	}
	return `W/"` + strconv.FormatUint(uint64(hash), 16) + `"`
}

// respondSuccess writes a success envelope. Catalog reads are cacheable by
// browsers and CDNs for a short time; everything else is not.
func respondSuccess(w http.ResponseWriter, start time.Time, data interface{}, meta *catalog.Meta, cacheControl string) {
	md := models.Metadata{
		Timestamp:   time.Now(),
		QueryTimeMS: time.Since(start).Milliseconds(),
	}
	if meta != nil {
		at := meta.SnapshotAt
		md.Cached = meta.Cached
		md.Stale = meta.Stale
		md.SnapshotAt = &at
	}
	respondJSON(w, http.StatusOK, cacheControl, &models.APIResponse{
		Status:   "success",
		Data:     data,
		Metadata: md,
	})
}

// respondError sends an error response.
func respondError(w http.ResponseWriter, status int, code, message string, err error) {
	respondErrorWithData(w, status, code, message, nil, nil, err)
}

func respondErrorWithData(w http.ResponseWriter, status int, code, message string, details map[string]interface{}, data interface{}, err error) {
	if err != nil {
		ev := logging.Warn()
		if status >= http.StatusInternalServerError && code == ErrCodeInternal {
			ev = logging.Error()
		}
		ev.Str("code", sanitizeLogValue(code)).Str("error", sanitizeLogValue(err.Error())).Msg("API Error")
	}

	respondJSON(w, status, "", &models.APIResponse{
		Status: "error",
		Data:   data,
		Metadata: models.Metadata{
			Timestamp: time.Now(),
		},
		Error: &models.APIError{
			Code:    code,
			Message: message,
			Details: details,
		},
	})
}

// respondServiceError maps a catalog error onto the error envelope.
// Source errors set Retry-After so clients and cron callers back off.
func respondServiceError(w http.ResponseWriter, err error, data interface{}) {
	status, code, message := classifyError(err)
	switch code {
	case ErrCodeSourceUnavailable:
		w.Header().Set("Retry-After", "30")
	case ErrCodeNotFound:
		// Expected for unknown slugs; not worth a log line.
		err = nil
	}
	respondErrorWithData(w, status, code, message, nil, data, err)
}

// validateRequest validates a struct using go-playground/validator.
func validateRequest(v interface{}) *models.APIError {
	if validationErr := validation.ValidateStruct(v); validationErr != nil {
		return validationErr.ToAPIError()
	}
	return nil
}

func respondValidation(w http.ResponseWriter, apiErr *models.APIError) {
	respondErrorWithData(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, apiErr.Details, nil, nil)
}
