// Storefront Catalog - Live Product Sheet Sync and Cache
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/storefront-catalog

package parser

import (
	"errors"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tomtom215/storefront-catalog/internal/models"
)

var errNotPositive = errors.New("not a positive integer")

// parseID accepts "12" and spreadsheet-formatted "12.0".
func parseID(s string) (int, error) {
	if id, err := strconv.Atoi(s); err == nil {
		if id <= 0 {
			return 0, errNotPositive
		}
		return id, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if f <= 0 || f != math.Trunc(f) || f > math.MaxInt32 {
		return 0, errNotPositive
	}
	return int(f), nil
}

// numericText strips currency symbols, thousands separators and spaces,
// keeping digits, one leading minus and the decimal point.
func numericText(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9', r == '.':
			b.WriteRune(r)
		case r == '-' && b.Len() == 0:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// parseDecimal parses prices such as "₹1,299.00" or "$ 25". ok is false when
// nothing numeric remains.
func parseDecimal(s string) (decimal.Decimal, bool) {
	n := numericText(s)
	if n == "" || n == "-" {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(n)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

func parseFloat(s string) float64 {
	f, err := strconv.ParseFloat(numericText(s), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

func parseInt(s string) int {
	f := parseFloat(s)
	if f > math.MaxInt32 || f < math.MinInt32 {
		return 0
	}
	return int(f)
}

var truthy = map[string]bool{
	"true": true, "yes": true, "y": true, "1": true, "on": true, "x": true, "✓": true, "✔": true,
}

func parseBool(s string) bool {
	return truthy[strings.ToLower(strings.TrimSpace(s))]
}

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
	"1/2/2006 15:04:05",
	"1/2/2006",
	"2 Jan 2006",
	"Jan 2, 2006",
}

func parseTime(s string) *time.Time {
	if s == "" {
		return nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			t = t.UTC()
			return &t
		}
	}
	return nil
}

// splitList splits multi-value cells on commas, pipes, semicolons and
// newlines, dropping blanks and case-insensitive duplicates.
func splitList(s string, extra ...rune) []string {
	parts := strings.FieldsFunc(s, func(r rune) bool {
		switch r {
		case ',', '|', ';', '\n', '\r':
			return true
		}
		for _, e := range extra {
			if r == e {
				return true
			}
		}
		return false
	})
	out := make([]string, 0, len(parts))
	seen := make(map[string]bool, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		key := strings.ToLower(p)
		if p == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, p)
	}
	return out
}

// parseImages normalizes each reference, dropping unusable ones.
func parseImages(s string) []string {
	var out []string
	seen := map[string]bool{}
	for _, raw := range splitImageRefs(s) {
		u := NormalizeImageURL(raw)
		if u == "" || seen[u] {
			continue
		}
		seen[u] = true
		out = append(out, u)
	}
	return out
}

// splitImageRefs splits an image cell on newlines and pipes. Commas also
// separate references, but only when the text after the comma starts a new
// one; otherwise the comma belongs to the URL, as in CDN transform paths
// like /upload/w_400,h_300/.
func splitImageRefs(s string) []string {
	var refs []string
	for _, chunk := range strings.FieldsFunc(s, func(r rune) bool {
		return r == '|' || r == '\n' || r == '\r'
	}) {
		var current string
		for _, frag := range strings.Split(chunk, ",") {
			frag = strings.TrimSpace(frag)
			switch {
			case frag == "":
			case current != "" && !startsImageRef(frag):
				current += "," + frag
			default:
				if current != "" {
					refs = append(refs, current)
				}
				current = frag
			}
		}
		if current != "" {
			refs = append(refs, current)
		}
	}
	return refs
}

func startsImageRef(frag string) bool {
	lower := strings.ToLower(frag)
	for _, prefix := range []string{"http://", "https://", "/", "drive.", "docs.", "www."} {
		if strings.HasPrefix(lower, prefix) {
			return true
		}
	}
	return bareDriveID.MatchString(frag)
}

// parseColors reads "Black:#000000|White:#FFFFFF". The value part is optional.
func parseColors(s string) []models.Color {
	entries := splitList(s)
	colors := make([]models.Color, 0, len(entries))
	for _, e := range entries {
		name, value, _ := strings.Cut(e, ":")
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		colors = append(colors, models.Color{Name: name, Value: strings.TrimSpace(value)})
	}
	return colors
}
