// Storefront Catalog - Live Product Sheet Sync and Cache
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/storefront-catalog

package parser

import (
	"strings"
	"unicode"
)

// Slugify lower-cases s and joins its words with hyphens. Punctuation other
// than hyphens is dropped, so "Classic Tee (Black)" becomes
// "classic-tee-black". Slugify is idempotent, which lets lookups slugify
// whatever the caller sends.
func Slugify(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range strings.ToLower(s) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
		case r == '-' || r == '_' || unicode.IsSpace(r):
			b.WriteRune(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), "-")
}
