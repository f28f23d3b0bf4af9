// Storefront Catalog - Live Product Sheet Sync and Cache
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/storefront-catalog

package parser

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/tomtom215/storefront-catalog/internal/logging"
	"github.com/tomtom215/storefront-catalog/internal/metrics"
	"github.com/tomtom215/storefront-catalog/internal/models"
)

// ParseRowError describes a row that was dropped. It never leaves the
// parser except through logs and the Skipped count.
type ParseRowError struct {
	// Row is the 1-based sheet row number.
	Row   int
	Field string
	Value string
	Err   error
}

func (e *ParseRowError) Error() string {
	return fmt.Sprintf("row %d: %s %q: %v", e.Row, e.Field, e.Value, e.Err)
}

func (e *ParseRowError) Unwrap() []error {
	return []error{models.ErrParseRow, e.Err}
}

// Result is the outcome of one parse.
type Result struct {
	Products []models.Product
	// RowCount counts data rows, excluding the header and blank rows.
	RowCount       int
	Skipped        int
	SKUCollisions  int
	// SlugCollisions counts products unreachable by slug because an earlier
	// product in final order has the same one.
	SlugCollisions int
	HeaderKeyed    bool
}

// Parse converts raw sheet rows into products. It never fails: rows whose id
// is not a positive integer are dropped and counted, and every other bad
// cell falls back to its zero value.
//
// Rows sharing an id are folded into one product. The first row supplies the
// product fields; any row with a color name, size or SKU adds a variant.
// Products keep first-seen order unless at least one carries createdAt, in
// which case they are stably sorted by it ascending with undated ones last.
func Parse(rows [][]string) Result {
	log := logging.WithComponent("parser")

	var res Result
	if len(rows) == 0 {
		return res
	}

	cols, headerKeyed := detectHeader(rows[0])
	start := 0
	if headerKeyed {
		start = 1
	} else {
		cols = positionalLayout()
	}
	res.HeaderKeyed = headerKeyed

	byID := make(map[int]*models.Product)
	var order []*models.Product

	for i := start; i < len(rows); i++ {
		row := rows[i]
		if isBlank(row) {
			continue
		}
		res.RowCount++
		rowNum := i + 1

		rawID := cols.cell(row, fieldID)
		id, err := parseID(rawID)
		if err != nil {
			res.Skipped++
			perr := &ParseRowError{Row: rowNum, Field: fieldID.String(), Value: rawID, Err: err}
			log.Warn().Err(perr).Int("row", rowNum).Msg("Dropping sheet row")
			continue
		}

		p, seen := byID[id]
		if !seen {
			built := productFromRow(&cols, row, id)
			p = &built
			byID[id] = p
			order = append(order, p)
		}

		if v, ok := variantFromRow(&cols, row, id, rowNum); ok {
			p.Variants = append(p.Variants, v)
		}
	}

	res.Products = make([]models.Product, 0, len(order))
	for _, p := range order {
		res.Products = append(res.Products, finalize(*p))
	}
	res.SKUCollisions = countSKUCollisions(res.Products)
	sortByCreatedAt(res.Products)
	// After sorting: the snapshot's slug index keeps the first product in final order.
	res.SlugCollisions = countSlugCollisions(res.Products)

	metrics.ParseSkippedRows.Add(float64(res.Skipped))
	metrics.SKUCollisions.Add(float64(res.SKUCollisions))
	metrics.SlugCollisions.Add(float64(res.SlugCollisions))

	log.Debug().
		Int("rows", res.RowCount).
		Int("products", len(res.Products)).
		Int("skipped", res.Skipped).
		Bool("header_keyed", headerKeyed).
		Msg("Parsed sheet rows")
	return res
}

func isBlank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func productFromRow(cols *layout, row []string, id int) models.Product {
	name := cols.cell(row, fieldName)
	slug := Slugify(cols.cell(row, fieldSlug))
	if slug == "" {
		slug = Slugify(name)
	}
	if slug == "" {
		slug = "product-" + strconv.Itoa(id)
	}

	price, _ := parseDecimal(cols.cell(row, fieldPrice))

	return models.Product{
		ID:           id,
		Name:         name,
		Slug:         slug,
		Description:  cols.cell(row, fieldDescription),
		Price:        price,
		Category:     strings.ToLower(cols.cell(row, fieldCategory)),
		Images:       parseImages(cols.cell(row, fieldImages)),
		Colors:       parseColors(cols.cell(row, fieldColors)),
		Sizes:        splitList(cols.cell(row, fieldSizes), '/'),
		IsBestseller: parseBool(cols.cell(row, fieldBestseller)),
		IsNew:        parseBool(cols.cell(row, fieldNew)),
		Rating:       parseFloat(cols.cell(row, fieldRating)),
		Reviews:      parseInt(cols.cell(row, fieldReviews)),
		CreatedAt:    parseTime(cols.cell(row, fieldCreatedAt)),
	}
}

// variantFromRow reports ok=false for rows that only describe the product.
func variantFromRow(cols *layout, row []string, productID, rowNum int) (models.Variant, bool) {
	colorName := cols.cell(row, fieldColorName)
	size := cols.cell(row, fieldSize)
	sku := cols.cell(row, fieldSKU)
	if colorName == "" && size == "" && sku == "" {
		return models.Variant{}, false
	}

	v := models.Variant{
		ProductID:     productID,
		ColorName:     colorName,
		ColorValue:    cols.cell(row, fieldColorValue),
		Size:          size,
		SKU:           sku,
		Images:        parseImages(cols.cell(row, fieldVariantImages)),
		StockQuantity: parseInt(cols.cell(row, fieldStock)),
	}

	if raw := cols.cell(row, fieldVariantPrice); raw != "" {
		if p, ok := parseDecimal(raw); ok {
			v.Price = &p
		} else {
			logging.Debug().Int("row", rowNum).Str("value", raw).Msg("Variant price unreadable, using product price")
		}
	}

	if raw := cols.cell(row, fieldAvailable); raw != "" {
		v.IsAvailable = parseBool(raw)
	} else {
		v.IsAvailable = v.StockQuantity > 0
	}

	return v, true
}

// finalize resolves variant fallbacks against the finished product.
func finalize(p models.Product) models.Product {
	if p.Images == nil {
		p.Images = []string{}
	}
	if p.Colors == nil {
		p.Colors = []models.Color{}
	}
	if p.Sizes == nil {
		p.Sizes = []string{}
	}
	if p.Variants == nil {
		p.Variants = []models.Variant{}
	}

	for i := range p.Variants {
		v := &p.Variants[i]
		if len(v.Images) == 0 {
			v.Images = slices.Clone(p.Images)
		}
		if v.ColorName != "" {
			if c, ok := findColor(p.Colors, v.ColorName); ok {
				if v.ColorValue == "" {
					v.ColorValue = c.Value
				}
			} else {
				p.Colors = append(p.Colors, models.Color{Name: v.ColorName, Value: v.ColorValue})
			}
		}
		if v.Size != "" && !slices.ContainsFunc(p.Sizes, func(s string) bool { return strings.EqualFold(s, v.Size) }) {
			p.Sizes = append(p.Sizes, v.Size)
		}
	}
	return p
}

func findColor(colors []models.Color, name string) (models.Color, bool) {
	for _, c := range colors {
		if strings.EqualFold(c.Name, name) {
			return c, true
		}
	}
	return models.Color{}, false
}

// countSKUCollisions logs every SKU that appears more than once. Duplicates
// are kept; lookups return the first match.
func countSKUCollisions(products []models.Product) int {
	firstOwner := make(map[string]int)
	collisions := 0
	for _, p := range products {
		for _, v := range p.Variants {
			if v.SKU == "" {
				continue
			}
			key := strings.ToLower(v.SKU)
			if owner, dup := firstOwner[key]; dup {
				collisions++
				logging.Warn().
					Str("sku", v.SKU).
					Int("product_id", p.ID).
					Int("first_product_id", owner).
					Msg("Duplicate variant SKU in sheet")
				continue
			}
			firstOwner[key] = p.ID
		}
	}
	return collisions
}

// countSlugCollisions logs every product whose slug was already taken.
// Only the first owner is reachable by slug; the rest are still listed.
func countSlugCollisions(products []models.Product) int {
	firstOwner := make(map[string]int)
	collisions := 0
	for _, p := range products {
		if p.Slug == "" {
			continue
		}
		if owner, dup := firstOwner[p.Slug]; dup {
			collisions++
			logging.Warn().
				Str("slug", p.Slug).
				Int("product_id", p.ID).
				Int("first_product_id", owner).
				Msg("Duplicate product slug in sheet; product not reachable by slug")
			continue
		}
		firstOwner[p.Slug] = p.ID
	}
	return collisions
}

func sortByCreatedAt(products []models.Product) {
	if !slices.ContainsFunc(products, func(p models.Product) bool { return p.CreatedAt != nil }) {
		return
	}
	slices.SortStableFunc(products, func(a, b models.Product) int {
		switch {
		case a.CreatedAt == nil && b.CreatedAt == nil:
			return 0
		case a.CreatedAt == nil:
			return 1
		case b.CreatedAt == nil:
			return -1
		default:
			return a.CreatedAt.Compare(*b.CreatedAt)
		}
	})
}
