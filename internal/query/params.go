// Storefront Catalog - Live Product Sheet Sync and Cache
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/storefront-catalog

package query

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/tomtom215/storefront-catalog/internal/cache"
)

// Sort fields accepted by SortBy. Anything else keeps snapshot order.
const (
	SortName      = "name"
	SortPrice     = "price"
	SortRating    = "rating"
	SortReviews   = "reviews"
	SortCreatedAt = "createdAt"

	OrderAsc  = "asc"
	OrderDesc = "desc"
)

var sortFields = map[string]string{
	"name":      SortName,
	"price":     SortPrice,
	"rating":    SortRating,
	"reviews":   SortReviews,
	"createdat": SortCreatedAt,
	"newest":    SortCreatedAt,
}

// Limits are the page size bounds applied while parsing.
type Limits struct {
	DefaultLimit int
	MaxLimit     int
}

// DefaultLimits matches the documented defaults: 12 per page, at most 100.
var DefaultLimits = Limits{DefaultLimit: 12, MaxLimit: 100}

// Params is a normalized listing query. Params holding the same values
// produce the same CacheKey however the original query string was spelled.
type Params struct {
	Text       string `json:"text"`
	Category   string `json:"category"`
	Page       int    `json:"page"`
	Limit      int    `json:"limit"`
	SortBy     string `json:"sortBy"`
	SortOrder  string `json:"sortOrder"`
	Bestseller *bool  `json:"bestseller"`
	New        *bool  `json:"new"`
}

// ParseParams reads listing parameters from a query string. It never
// fails: unparsable or out-of-range numbers fall back to defaults and
// unknown sort fields are ignored.
//
// Recognized keys: search (or q), category, page, limit, sortBy (or sort),
// sortOrder (or order), bestseller (or isBestseller), new (or isNew).
func ParseParams(values url.Values, limits Limits) Params {
	if limits.DefaultLimit <= 0 {
		limits.DefaultLimit = DefaultLimits.DefaultLimit
	}
	if limits.MaxLimit <= 0 {
		limits.MaxLimit = DefaultLimits.MaxLimit
	}

	p := Params{
		Text:      strings.ToLower(strings.TrimSpace(first(values, "search", "q"))),
		Category:  strings.ToLower(strings.TrimSpace(values.Get("category"))),
		Page:      positiveInt(values.Get("page"), 1),
		Limit:     positiveInt(values.Get("limit"), limits.DefaultLimit),
		SortBy:    sortFields[strings.ToLower(strings.TrimSpace(first(values, "sortBy", "sort")))],
		SortOrder: OrderAsc,
	}
	if p.Category == "all" {
		p.Category = ""
	}
	if p.Limit > limits.MaxLimit {
		p.Limit = limits.MaxLimit
	}
	if p.SortBy != "" && strings.EqualFold(strings.TrimSpace(first(values, "sortOrder", "order")), OrderDesc) {
		p.SortOrder = OrderDesc
	}
	p.Bestseller = optionalBool(first(values, "bestseller", "isBestseller"))
	p.New = optionalBool(first(values, "new", "isNew"))
	return p
}

// ParseProfile parses a warm profile written as a query string, e.g.
// "category=tees&sortBy=price&sortOrder=desc".
func ParseProfile(profile string, limits Limits) (Params, error) {
	values, err := url.ParseQuery(strings.TrimSpace(profile))
	if err != nil {
		return Params{}, err
	}
	return ParseParams(values, limits), nil
}

// CacheKey identifies the result of p over the snapshot with the given version.
func (p Params) CacheKey(snapshotVersion string) string {
	return cache.GenerateKey("products", struct {
		Version string `json:"v"`
		Params  Params `json:"p"`
	}{snapshotVersion, p})
}

func first(values url.Values, keys ...string) string {
	for _, k := range keys {
		if v := values.Get(k); v != "" {
			return v
		}
	}
	return ""
}

func positiveInt(s string, fallback int) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 1 {
		return fallback
	}
	return n
}

func optionalBool(s string) *bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "1", "yes":
		v := true
		return &v
	case "false", "0", "no":
		v := false
		return &v
	}
	return nil
}
