// Storefront Catalog - Live Product Sheet Sync and Cache
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/storefront-catalog

// Package parser turns raw sheet rows into catalog products.
//
// The first row is treated as a header when one of its cells names the id
// column; header names are matched loosely ("Color Name", "color_name",
// "colorName"). Without a header, columns are read in this order:
//
//	id, name, slug, description, price, category, images, colors, sizes,
//	isBestseller, isNew, rating, reviews, createdAt, colorName, colorValue,
//	size, sku, variantPrice, variantImages, stockQuantity, isAvailable
//
// Colors and sizes are separated by commas, pipes, semicolons or newlines.
// Colors are written "Black:#000000|White:#FFFFFF". Images are separated by
// pipes or newlines, and by a comma only when a new reference follows it, so
// URLs with commas in them survive. Each goes through NormalizeImageURL.
package parser
