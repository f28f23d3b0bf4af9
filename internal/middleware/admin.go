// Storefront Catalog - Live Product Sheet Sync and Cache
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/storefront-catalog

package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/tomtom215/storefront-catalog/internal/logging"
)

// AdminToken guards cache administration routes with a static bearer token.
// An empty token leaves the routes open, which is only accepted outside
// production by config validation.
func AdminToken(token string, onDenied http.HandlerFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if token == "" {
			return next
		}
		want := []byte(token)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			if !ok || subtle.ConstantTimeCompare([]byte(got), want) != 1 {
				logging.Ctx(r.Context()).Warn().Str("path", r.URL.Path).Msg("Rejected admin request")
				onDenied(w, r)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
