// Storefront Catalog - Live Product Sheet Sync and Cache
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/storefront-catalog

package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Color is a named swatch, e.g. {"Black", "#000000"}.
type Color struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Product is one catalog entry built from one or more sheet rows sharing an id.
//
// Category is stored lower-cased and trimmed so it can be matched exactly.
// Images holds only normalized URLs; rows whose image cells could not be
// normalized contribute nothing and callers supply a placeholder.
type Product struct {
	ID           int             `json:"id"`
	Name         string          `json:"name"`
	Slug         string          `json:"slug"`
	Description  string          `json:"description,omitempty"`
	Price        decimal.Decimal `json:"price"`
	Category     string          `json:"category"`
	Images       []string        `json:"images"`
	Colors       []Color         `json:"colors"`
	Sizes        []string        `json:"sizes"`
	IsBestseller bool            `json:"isBestseller"`
	IsNew        bool            `json:"isNew"`
	Rating       float64         `json:"rating"`
	Reviews      int             `json:"reviews"`
	CreatedAt    *time.Time      `json:"createdAt,omitempty"`
	Variants     []Variant       `json:"variants"`
}

// Variant is a color/size specific purchasable unit of a Product.
//
// Price is nil when the sheet left it blank; EffectivePrice falls back to the
// parent. Images are already resolved against the parent by the parser.
type Variant struct {
	ProductID     int              `json:"productId"`
	ColorName     string           `json:"colorName"`
	ColorValue    string           `json:"colorValue,omitempty"`
	Size          string           `json:"size,omitempty"`
	SKU           string           `json:"sku"`
	Price         *decimal.Decimal `json:"price"`
	Images        []string         `json:"images"`
	StockQuantity int              `json:"stockQuantity"`
	IsAvailable   bool             `json:"isAvailable"`
}

// EffectivePrice returns the variant's own price or the parent's when unset.
func (v Variant) EffectivePrice(parent Product) decimal.Decimal {
	if v.Price != nil {
		return *v.Price
	}
	return parent.Price
}
