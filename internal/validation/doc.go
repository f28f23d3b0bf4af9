// Storefront Catalog - Live Product Sheet Sync and Cache
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/storefront-catalog

// Package validation validates HTTP request structs with go-playground/validator.
//
// A single validator instance is shared process-wide so struct metadata is
// parsed once. Failures are returned as *RequestValidationError, which the API
// layer converts to a VALIDATION_ERROR body:
//
//	req := validation.SKULookupRequest{ProductID: id, Color: color}
//	if verr := validation.ValidateStruct(&req); verr != nil {
//	    respondAPIError(w, http.StatusBadRequest, verr.ToAPIError())
//	    return
//	}
//
// Custom tags:
//   - warmprofile: a query-string style cache warm profile ("category=shoes&limit=24")
package validation
