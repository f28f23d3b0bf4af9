// Storefront Catalog - Live Product Sheet Sync and Cache
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/storefront-catalog

package config

import (
	"fmt"
	"strings"

	"github.com/tomtom215/storefront-catalog/internal/models"
)

// placeholderMarkers are substrings that show a value was copied from an
// example file and never filled in.
var placeholderMarkers = []string{
	"your_",
	"your-",
	"placeholder",
	"changeme",
	"change_me",
	"replace_me",
	"replace-me",
	"example",
	"<",
}

// IsPlaceholder reports whether v is empty or looks like a template value.
func IsPlaceholder(v string) bool {
	v = strings.ToLower(strings.TrimSpace(v))
	if v == "" {
		return true
	}
	for _, marker := range placeholderMarkers {
		if strings.Contains(v, marker) {
			return true
		}
	}
	return false
}

// UsesServiceAccount reports whether service-account credentials were given.
func (s *SheetConfig) UsesServiceAccount() bool {
	if !IsPlaceholder(s.CredentialsFile) {
		return true
	}
	// Key bodies are random base64, so only the PEM armour is checked.
	return !IsPlaceholder(s.ServiceAccountEmail) && strings.Contains(s.PrivateKey, "PRIVATE KEY")
}

// CheckConfigured returns an error wrapping models.ErrNotConfigured when the
// sheet id or every credential style is missing or a placeholder.
func (s *SheetConfig) CheckConfigured() error {
	if IsPlaceholder(s.SpreadsheetID) {
		return fmt.Errorf("%w: SHEET_ID is missing or a placeholder", models.ErrNotConfigured)
	}
	if IsPlaceholder(s.Range) {
		return fmt.Errorf("%w: SHEET_RANGE is missing or a placeholder", models.ErrNotConfigured)
	}
	if s.UsesServiceAccount() || !IsPlaceholder(s.APIKey) {
		return nil
	}
	return fmt.Errorf("%w: set GOOGLE_API_KEY, GOOGLE_CREDENTIALS_FILE, or GOOGLE_SERVICE_ACCOUNT_EMAIL with GOOGLE_PRIVATE_KEY",
		models.ErrNotConfigured)
}
