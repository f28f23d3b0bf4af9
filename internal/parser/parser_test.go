// Storefront Catalog - Live Product Sheet Sync and Cache
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/storefront-catalog

package parser

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tomtom215/storefront-catalog/internal/models"
)

// positionalRow builds a header-less row with the given fields set.
func positionalRow(cells map[field]string) []string {
	row := make([]string, fieldCount)
	for f, v := range cells {
		row[f] = v
	}
	return row
}

func variantColors(p models.Product) []string {
	out := make([]string, len(p.Variants))
	for i, v := range p.Variants {
		out[i] = v.ColorName
	}
	return out
}

func productIDs(products []models.Product) []int {
	ids := make([]int, len(products))
	for i, p := range products {
		ids[i] = p.ID
	}
	return ids
}

func TestParse_GroupsVariantsEndToEnd(t *testing.T) {
	tests := []struct {
		name string
		rows [][]string
	}{
		{
			name: "header keyed",
			rows: [][]string{
				{"ID", "Name", "Price", "Color Name"},
				{"1", "Classic Tee", "499", "Black"},
				{"1", "Classic Tee", "499", "White"},
				{"2", "Canvas Cap", "299", ""},
			},
		},
		{
			name: "positional",
			rows: [][]string{
				positionalRow(map[field]string{fieldID: "1", fieldName: "Classic Tee", fieldColorName: "Black"}),
				positionalRow(map[field]string{fieldID: "1", fieldName: "Classic Tee", fieldColorName: "White"}),
				positionalRow(map[field]string{fieldID: "2", fieldName: "Canvas Cap"}),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Parse(tt.rows)

			if got := productIDs(res.Products); !reflect.DeepEqual(got, []int{1, 2}) {
				t.Fatalf("product ids = %v, want [1 2]", got)
			}
			if got := variantColors(res.Products[0]); !reflect.DeepEqual(got, []string{"Black", "White"}) {
				t.Errorf("variants of 1 = %v, want [Black White]", got)
			}
			if res.Products[1].Variants == nil || len(res.Products[1].Variants) != 0 {
				t.Errorf("variants of 2 = %#v, want empty list", res.Products[1].Variants)
			}
			if res.RowCount != 3 || res.Skipped != 0 {
				t.Errorf("RowCount = %d, Skipped = %d", res.RowCount, res.Skipped)
			}
		})
	}
}

func TestParse_MalformedRowTolerance(t *testing.T) {
	rows := [][]string{
		{"id", "name"},
		{"1", "Tee"},
		{"abc", "Broken"},
		{"2", "Hoodie"},
		{"3", "Cap"},
	}

	res := Parse(rows)
	if len(res.Products) != 3 {
		t.Fatalf("products = %d, want 3", len(res.Products))
	}
	if res.Skipped != 1 {
		t.Errorf("Skipped = %d, want 1", res.Skipped)
	}

	t.Run("non positive ids", func(t *testing.T) {
		res := Parse([][]string{{"id"}, {"0"}, {"-4"}, {""}, {"2.5"}, {"7.0"}})
		if got := productIDs(res.Products); !reflect.DeepEqual(got, []int{7}) {
			t.Errorf("ids = %v, want [7]", got)
		}
		// The row with an empty id is blank and ignored, not dropped.
		if res.Skipped != 3 {
			t.Errorf("Skipped = %d, want 3", res.Skipped)
		}
	})

	t.Run("short and blank rows", func(t *testing.T) {
		res := Parse([][]string{{"id", "name", "price", "sku"}, {"5"}, {}, {"", "  "}, {"6", "Mug"}})
		if got := productIDs(res.Products); !reflect.DeepEqual(got, []int{5, 6}) {
			t.Errorf("ids = %v, want [5 6]", got)
		}
		if res.RowCount != 2 {
			t.Errorf("RowCount = %d, want 2", res.RowCount)
		}
	})

	t.Run("empty input", func(t *testing.T) {
		if res := Parse(nil); len(res.Products) != 0 {
			t.Errorf("products = %d", len(res.Products))
		}
	})
}

func TestParseRowError(t *testing.T) {
	err := &ParseRowError{Row: 4, Field: "id", Value: "abc", Err: errNotPositive}
	if !errors.Is(err, models.ErrParseRow) {
		t.Error("ParseRowError should match models.ErrParseRow")
	}
	if !errors.Is(err, errNotPositive) {
		t.Error("ParseRowError should unwrap its cause")
	}
}

func TestParse_VariantImageFallback(t *testing.T) {
	rows := [][]string{
		{"id", "name", "images", "color", "variant images"},
		{"1", "Tee", "https://cdn.shopify.com/tee-1.jpg, https://cdn.shopify.com/tee-2.jpg", "Black", ""},
		{"1", "Tee", "", "White", "https://cdn.shopify.com/tee-white.jpg"},
	}

	p := Parse(rows).Products[0]
	black, white := p.Variants[0], p.Variants[1]

	if !reflect.DeepEqual(black.Images, p.Images) {
		t.Errorf("black images = %v, want parent %v", black.Images, p.Images)
	}
	if &black.Images[0] == &p.Images[0] {
		t.Error("variant images must not alias the product slice")
	}
	if !reflect.DeepEqual(white.Images, []string{"https://cdn.shopify.com/tee-white.jpg"}) {
		t.Errorf("white images = %v", white.Images)
	}
}

func TestParse_FieldValues(t *testing.T) {
	rows := [][]string{
		{"id", "name", "Price", "category", "images", "colors", "sizes", "Is Bestseller", "is_new",
			"rating", "reviews", "Color Name", "size", "SKU", "variant price", "stock", "available"},
		{"10", "Oversized Hoodie", "₹1,299.00", " Hoodies ", testDriveID + "|not an image", "Black:#000000|Sand:#C2B280",
			"S, M, L", "Yes", "✓", "4.5", "1,024", "black", "M", "HD-BLK-M", "", "3", ""},
		{"10", "ignored", "1", "ignored", "", "", "", "", "", "", "", "Olive", "XL", "HD-OLV-XL", "₹1,499", "0", "yes"},
		{"11", "Mug", "not a price", "", "", "", "", "no", "", "abc", "", "", "", "", "", "", ""},
	}

	res := Parse(rows)
	if len(res.Products) != 2 {
		t.Fatalf("products = %d", len(res.Products))
	}
	hoodie, mug := res.Products[0], res.Products[1]

	if hoodie.Name != "Oversized Hoodie" || hoodie.Slug != "oversized-hoodie" {
		t.Errorf("name/slug = %q/%q", hoodie.Name, hoodie.Slug)
	}
	if !hoodie.Price.Equal(decimal.RequireFromString("1299")) {
		t.Errorf("price = %s", hoodie.Price)
	}
	if hoodie.Category != "hoodies" {
		t.Errorf("category = %q", hoodie.Category)
	}
	if !reflect.DeepEqual(hoodie.Images, []string{DriveViewPrefix + testDriveID}) {
		t.Errorf("images = %v", hoodie.Images)
	}
	if !hoodie.IsBestseller || !hoodie.IsNew {
		t.Errorf("flags = %v/%v", hoodie.IsBestseller, hoodie.IsNew)
	}
	if hoodie.Rating != 4.5 || hoodie.Reviews != 1024 {
		t.Errorf("rating/reviews = %v/%d", hoodie.Rating, hoodie.Reviews)
	}

	wantColors := []models.Color{{Name: "Black", Value: "#000000"}, {Name: "Sand", Value: "#C2B280"}, {Name: "Olive"}}
	if !reflect.DeepEqual(hoodie.Colors, wantColors) {
		t.Errorf("colors = %v, want %v", hoodie.Colors, wantColors)
	}
	if !reflect.DeepEqual(hoodie.Sizes, []string{"S", "M", "L", "XL"}) {
		t.Errorf("sizes = %v", hoodie.Sizes)
	}

	black, olive := hoodie.Variants[0], hoodie.Variants[1]
	if black.ColorValue != "#000000" {
		t.Errorf("black color value = %q, want value from product colors", black.ColorValue)
	}
	if black.Price != nil || !black.EffectivePrice(hoodie).Equal(hoodie.Price) {
		t.Errorf("black price = %v, want parent fallback", black.Price)
	}
	if !black.IsAvailable || black.StockQuantity != 3 {
		t.Errorf("black stock/available = %d/%v", black.StockQuantity, black.IsAvailable)
	}
	if olive.Price == nil || !olive.Price.Equal(decimal.RequireFromString("1499")) {
		t.Errorf("olive price = %v", olive.Price)
	}
	if !olive.IsAvailable {
		t.Error("explicit availability should win over zero stock")
	}

	if !mug.Price.IsZero() || mug.Rating != 0 || mug.IsBestseller {
		t.Errorf("mug defaults = %s/%v/%v", mug.Price, mug.Rating, mug.IsBestseller)
	}
	if mug.Images == nil || mug.Colors == nil || mug.Sizes == nil {
		t.Error("list fields should be empty, not nil")
	}
}

func TestParse_ImageListSeparators(t *testing.T) {
	const cloudinary = "https://res.cloudinary.com/demo/image/upload/w_400,h_300,c_fill/tee.jpg"
	const imgix = "https://storefront.imgix.net/tee.jpg?w=400&rect=0,0,800,600"

	tests := []struct {
		name string
		cell string
		want []string
	}{
		{"cdn transform commas kept", cloudinary, []string{cloudinary}},
		{"query commas kept", imgix, []string{imgix}},
		{"comma separated urls", "https://cdn.test/a.jpg, https://cdn.test/b.jpg", []string{"https://cdn.test/a.jpg", "https://cdn.test/b.jpg"}},
		{"comma then transform url", "/img/a.png," + cloudinary, []string{"/img/a.png", cloudinary}},
		{"comma then drive id", "https://cdn.test/a.jpg," + testDriveID, []string{"https://cdn.test/a.jpg", DriveViewPrefix + testDriveID}},
		{"pipes and newlines", cloudinary + "|/img/b.png\n" + imgix, []string{cloudinary, "/img/b.png", imgix}},
		{"empty fragments", ",, " + cloudinary + " ,", []string{cloudinary}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Parse([][]string{{"id", "name", "images"}, {"1", "Tee", tt.cell}})
			if len(res.Products) != 1 {
				t.Fatalf("products = %d", len(res.Products))
			}
			if got := res.Products[0].Images; !reflect.DeepEqual(got, tt.want) {
				t.Errorf("images = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParse_SKUCollisions(t *testing.T) {
	rows := [][]string{
		{"id", "sku", "color"},
		{"1", "TEE-01", "Black"},
		{"2", "tee-01", "White"},
		{"2", "TEE-02", "Grey"},
	}
	res := Parse(rows)
	if res.SKUCollisions != 1 {
		t.Errorf("SKUCollisions = %d, want 1", res.SKUCollisions)
	}
	if len(res.Products[1].Variants) != 2 {
		t.Errorf("colliding variant should be kept")
	}
}

func TestParse_SlugCollisions(t *testing.T) {
	t.Run("first in row order owns the slug", func(t *testing.T) {
		rows := [][]string{
			{"id", "name"},
			{"1", "Tee!"},
			{"2", "Tee"},
			{"3", "Cap"},
		}
		res := Parse(rows)
		if res.SlugCollisions != 1 {
			t.Errorf("SlugCollisions = %d, want 1", res.SlugCollisions)
		}
		if len(res.Products) != 3 {
			t.Errorf("products = %d, colliding product should still be listed", len(res.Products))
		}
		p, ok := models.NewSnapshot(res.Products, time.Now(), res.RowCount, res.Skipped).BySlug("tee")
		if !ok || p.ID != 1 {
			t.Errorf("BySlug(tee) = %d, %v; want product 1", p.ID, ok)
		}
	})

	t.Run("counted in final order", func(t *testing.T) {
		rows := [][]string{
			{"id", "name", "created at"},
			{"1", "Tee", "2026-03-01"},
			{"2", "Tee", "2026-01-01"},
		}
		res := Parse(rows)
		if res.SlugCollisions != 1 {
			t.Errorf("SlugCollisions = %d, want 1", res.SlugCollisions)
		}
		p, _ := models.NewSnapshot(res.Products, time.Now(), res.RowCount, res.Skipped).BySlug("tee")
		if p.ID != 2 {
			t.Errorf("BySlug(tee) = product %d, want 2 (earliest createdAt)", p.ID)
		}
	})

	t.Run("distinct slugs", func(t *testing.T) {
		res := Parse([][]string{{"id", "name"}, {"1", "Tee"}, {"2", "Cap"}})
		if res.SlugCollisions != 0 {
			t.Errorf("SlugCollisions = %d, want 0", res.SlugCollisions)
		}
	})
}

func TestParse_CreatedAtOrdering(t *testing.T) {
	t.Run("sorted ascending with undated last", func(t *testing.T) {
		rows := [][]string{
			{"id", "created at"},
			{"1", "2026-03-01"},
			{"2", ""},
			{"3", "2026-01-15T10:00:00Z"},
			{"4", "2026-03-01"},
			{"5", "2/10/2026"},
		}
		res := Parse(rows)
		if got := productIDs(res.Products); !reflect.DeepEqual(got, []int{3, 5, 1, 4, 2}) {
			t.Errorf("order = %v, want [3 5 1 4 2]", got)
		}
		want := time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC)
		if !res.Products[0].CreatedAt.Equal(want) {
			t.Errorf("createdAt = %v", res.Products[0].CreatedAt)
		}
	})

	t.Run("first seen order without dates", func(t *testing.T) {
		res := Parse([][]string{{"id"}, {"3"}, {"1"}, {"3"}, {"2"}})
		if got := productIDs(res.Products); !reflect.DeepEqual(got, []int{3, 1, 2}) {
			t.Errorf("order = %v, want [3 1 2]", got)
		}
	})
}
