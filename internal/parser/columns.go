// Storefront Catalog - Live Product Sheet Sync and Cache
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/storefront-catalog

package parser

import "strings"

type field int

// Positional order used when the sheet has no header row.
const (
	fieldID field = iota
	fieldName
	fieldSlug
	fieldDescription
	fieldPrice
	fieldCategory
	fieldImages
	fieldColors
	fieldSizes
	fieldBestseller
	fieldNew
	fieldRating
	fieldReviews
	fieldCreatedAt
	fieldColorName
	fieldColorValue
	fieldSize
	fieldSKU
	fieldVariantPrice
	fieldVariantImages
	fieldStock
	fieldAvailable

	fieldCount
)

var fieldNames = [fieldCount]string{
	"id", "name", "slug", "description", "price", "category", "images", "colors",
	"sizes", "isBestseller", "isNew", "rating", "reviews", "createdAt", "colorName",
	"colorValue", "size", "sku", "variantPrice", "variantImages", "stockQuantity", "isAvailable",
}

func (f field) String() string {
	if f < 0 || f >= fieldCount {
		return "unknown"
	}
	return fieldNames[f]
}

// headerAliases maps normalized header text to a field. Headers are
// normalized by lower-casing and dropping spaces, underscores and hyphens,
// so "Color Name", "color_name" and "colorName" are the same header.
var headerAliases = map[string]field{
	"id":            fieldID,
	"productid":     fieldID,
	"name":          fieldName,
	"productname":   fieldName,
	"title":         fieldName,
	"slug":          fieldSlug,
	"description":   fieldDescription,
	"desc":          fieldDescription,
	"price":         fieldPrice,
	"baseprice":     fieldPrice,
	"category":      fieldCategory,
	"images":        fieldImages,
	"image":         fieldImages,
	"imageurl":      fieldImages,
	"imageurls":     fieldImages,
	"colors":        fieldColors,
	"sizes":         fieldSizes,
	"isbestseller":  fieldBestseller,
	"bestseller":    fieldBestseller,
	"isnew":         fieldNew,
	"new":           fieldNew,
	"newarrival":    fieldNew,
	"rating":        fieldRating,
	"reviews":       fieldReviews,
	"reviewcount":   fieldReviews,
	"createdat":     fieldCreatedAt,
	"created":       fieldCreatedAt,
	"dateadded":     fieldCreatedAt,
	"colorname":     fieldColorName,
	"color":         fieldColorName,
	"variantcolor":  fieldColorName,
	"colorvalue":    fieldColorValue,
	"colorhex":      fieldColorValue,
	"hex":           fieldColorValue,
	"size":          fieldSize,
	"variantsize":   fieldSize,
	"sku":           fieldSKU,
	"variantsku":    fieldSKU,
	"variantprice":  fieldVariantPrice,
	"variantimages": fieldVariantImages,
	"variantimage":  fieldVariantImages,
	"stockquantity": fieldStock,
	"stock":         fieldStock,
	"quantity":      fieldStock,
	"qty":           fieldStock,
	"isavailable":   fieldAvailable,
	"available":     fieldAvailable,
	"instock":       fieldAvailable,
}

func normalizeHeader(h string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '_', '-', '\t':
			return -1
		}
		return r
	}, strings.ToLower(strings.TrimSpace(h)))
}

// layout maps fields to column indexes; -1 means the column is absent.
type layout [fieldCount]int

func positionalLayout() layout {
	var l layout
	for i := range l {
		l[i] = i
	}
	return l
}

// detectHeader returns a header-keyed layout when the first row names an id
// column. Unknown headers are ignored and the first occurrence of a field wins.
func detectHeader(row []string) (layout, bool) {
	var l layout
	for i := range l {
		l[i] = -1
	}
	found := false
	for col, h := range row {
		f, ok := headerAliases[normalizeHeader(h)]
		if !ok || l[f] != -1 {
			continue
		}
		l[f] = col
		if f == fieldID {
			found = true
		}
	}
	return l, found
}

// cell returns the trimmed value of f in row, or "" when the row is short.
func (l *layout) cell(row []string, f field) string {
	col := l[f]
	if col < 0 || col >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[col])
}
