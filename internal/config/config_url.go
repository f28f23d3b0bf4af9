// Storefront Catalog - Live Product Sheet Sync and Cache
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/storefront-catalog

package config

import (
	"fmt"
	"net/url"
)

// validateHTTPURL requires an absolute http(s) URL with a host and no query.
// A path is allowed because API endpoints are configured with their prefix.
func validateHTTPURL(rawURL, fieldName string) error {
	parsedURL, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("%s failed to parse URL: %w", fieldName, err)
	}
	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return fmt.Errorf("%s scheme must be http or https, got: %q", fieldName, parsedURL.Scheme)
	}
	if parsedURL.Host == "" {
		return fmt.Errorf("%s host is required", fieldName)
	}
	if parsedURL.RawQuery != "" {
		return fmt.Errorf("%s should not contain query parameters, remove: ?%s", fieldName, parsedURL.RawQuery)
	}
	return nil
}
