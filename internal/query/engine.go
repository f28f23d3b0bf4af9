// Storefront Catalog - Live Product Sheet Sync and Cache
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/storefront-catalog

package query

import (
	"cmp"
	"slices"
	"strings"

	"github.com/tomtom215/storefront-catalog/internal/models"
)

// Pagination describes the page returned and the full match set.
type Pagination struct {
	Page    int  `json:"page"`
	Limit   int  `json:"limit"`
	Total   int  `json:"total"`
	Pages   int  `json:"pages"`
	HasNext bool `json:"hasNext"`
	HasPrev bool `json:"hasPrev"`
}

// Result is one page of products.
type Result struct {
	Products   []models.Product `json:"products"`
	Pagination Pagination       `json:"pagination"`
}

// Run filters, sorts and paginates snap. It does not modify snap, and a page
// past the end yields no products with the correct totals.
func Run(snap *models.Snapshot, p Params) Result {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Limit < 1 {
		p.Limit = DefaultLimits.DefaultLimit
	}

	var matched []models.Product
	if snap != nil {
		matched = make([]models.Product, 0, len(snap.Products))
		for i := range snap.Products {
			if matches(&snap.Products[i], &p) {
				matched = append(matched, snap.Products[i])
			}
		}
	}

	if compare := comparator(p.SortBy); compare != nil {
		if p.SortOrder == OrderDesc {
			asc := compare
			compare = func(a, b models.Product) int { return asc(b, a) }
		}
		slices.SortStableFunc(matched, compare)
	}

	total := len(matched)
	pages := (total + p.Limit - 1) / p.Limit
	items := []models.Product{}
	// Compare page numbers before multiplying so huge pages cannot overflow.
	if p.Page <= pages {
		start := (p.Page - 1) * p.Limit
		items = matched[start:min(start+p.Limit, total)]
	}

	return Result{
		Products: items,
		Pagination: Pagination{
			Page:    p.Page,
			Limit:   p.Limit,
			Total:   total,
			Pages:   pages,
			HasNext: p.Page < pages,
			HasPrev: p.Page > 1,
		},
	}
}

func matches(prod *models.Product, p *Params) bool {
	if p.Category != "" && prod.Category != p.Category {
		return false
	}
	if p.Bestseller != nil && prod.IsBestseller != *p.Bestseller {
		return false
	}
	if p.New != nil && prod.IsNew != *p.New {
		return false
	}
	if p.Text != "" &&
		!strings.Contains(strings.ToLower(prod.Name), p.Text) &&
		!strings.Contains(strings.ToLower(prod.Description), p.Text) {
		return false
	}
	return true
}

// comparator returns the ascending order for field, or nil to keep
// snapshot order. Products without createdAt sort after dated ones in
// ascending order.
func comparator(field string) func(a, b models.Product) int {
	switch field {
	case SortName:
		return func(a, b models.Product) int {
			return strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
		}
	case SortPrice:
		return func(a, b models.Product) int { return a.Price.Cmp(b.Price) }
	case SortRating:
		return func(a, b models.Product) int { return cmp.Compare(a.Rating, b.Rating) }
	case SortReviews:
		return func(a, b models.Product) int { return cmp.Compare(a.Reviews, b.Reviews) }
	case SortCreatedAt:
		return func(a, b models.Product) int {
			switch {
			case a.CreatedAt == nil && b.CreatedAt == nil:
				return 0
			case a.CreatedAt == nil:
				return 1
			case b.CreatedAt == nil:
				return -1
			}
			return a.CreatedAt.Compare(*b.CreatedAt)
		}
	}
	return nil
}
