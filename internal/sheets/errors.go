// Storefront Catalog - Live Product Sheet Sync and Cache
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/storefront-catalog

package sheets

import (
	"errors"
	"fmt"

	"github.com/tomtom215/storefront-catalog/internal/models"
)

// FetchError describes a failed pull from the spreadsheet API.
type FetchError struct {
	// Kind is models.ErrSourceUnavailable or models.ErrSourceAuth.
	Kind error
	// StatusCode is the HTTP status, or 0 when no response was received.
	StatusCode int
	// Permanent is true when repeating the request cannot succeed until
	// configuration or the sheet itself changes.
	Permanent bool
	Err       error
}

func (e *FetchError) Error() string {
	class := "transient"
	if e.Permanent {
		class = "permanent"
	}
	if e.StatusCode != 0 {
		return fmt.Sprintf("%v (%s, HTTP %d): %v", e.Kind, class, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%v (%s): %v", e.Kind, class, e.Err)
}

// Unwrap exposes both the kind sentinel and the underlying cause.
func (e *FetchError) Unwrap() []error {
	return []error{e.Kind, e.Err}
}

func unavailable(status int, permanent bool, err error) *FetchError {
	return &FetchError{Kind: models.ErrSourceUnavailable, StatusCode: status, Permanent: permanent, Err: err}
}

func authFailure(status int, err error) *FetchError {
	return &FetchError{Kind: models.ErrSourceAuth, StatusCode: status, Permanent: true, Err: err}
}

// IsTransient reports whether err is a fetch failure worth retrying later.
func IsTransient(err error) bool {
	var fe *FetchError
	return errors.As(err, &fe) && !fe.Permanent
}

// Reason maps a fetch error to the short label used in metrics and logs.
func Reason(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, models.ErrNotConfigured):
		return "not_configured"
	case errors.Is(err, models.ErrSourceAuth):
		return "auth"
	default:
		return "unavailable"
	}
}
