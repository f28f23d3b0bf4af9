// Storefront Catalog - Live Product Sheet Sync and Cache
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/storefront-catalog

package models

import (
	"time"

	"github.com/google/uuid"
)

// Snapshot is one immutable, fully parsed copy of the catalog.
//
// A Snapshot is never mutated after NewSnapshot returns. The cache store
// replaces it wholesale; readers holding an older pointer keep a consistent view.
type Snapshot struct {
	Version        string    `json:"version"`
	Products       []Product `json:"products"`
	FetchedAt      time.Time `json:"fetchedAt"`
	SourceRowCount int       `json:"sourceRowCount"`
	SkippedRows    int       `json:"skippedRows"`

	bySlug map[string]int
	byID   map[int]int
}

// NewSnapshot builds a snapshot and its lookup indexes. The products slice
// is owned by the snapshot afterwards.
func NewSnapshot(products []Product, fetchedAt time.Time, sourceRows, skipped int) *Snapshot {
	s := &Snapshot{
		Version:        uuid.New().String(),
		Products:       products,
		FetchedAt:      fetchedAt,
		SourceRowCount: sourceRows,
		SkippedRows:    skipped,
	}
	s.index()
	return s
}

// Reindexed returns a copy of a decoded snapshot with its indexes rebuilt.
// Persisted snapshots go through here because indexes are not serialized.
func (s *Snapshot) Reindexed() *Snapshot {
	c := *s
	if c.Version == "" {
		c.Version = uuid.New().String()
	}
	c.index()
	return &c
}

func (s *Snapshot) index() {
	s.bySlug = make(map[string]int, len(s.Products))
	s.byID = make(map[int]int, len(s.Products))
	for i := range s.Products {
		p := &s.Products[i]
		if _, dup := s.bySlug[p.Slug]; !dup && p.Slug != "" {
			s.bySlug[p.Slug] = i
		}
		if _, dup := s.byID[p.ID]; !dup {
			s.byID[p.ID] = i
		}
	}
}

// Len returns the number of products.
func (s *Snapshot) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Products)
}

// BySlug returns the first product with the given slug.
func (s *Snapshot) BySlug(slug string) (Product, bool) {
	if s == nil {
		return Product{}, false
	}
	i, ok := s.bySlug[slug]
	if !ok {
		return Product{}, false
	}
	return s.Products[i], true
}

// ByID returns the product with the given id.
func (s *Snapshot) ByID(id int) (Product, bool) {
	if s == nil {
		return Product{}, false
	}
	i, ok := s.byID[id]
	if !ok {
		return Product{}, false
	}
	return s.Products[i], true
}

// Age reports how long ago the snapshot was fetched.
func (s *Snapshot) Age(now time.Time) time.Duration {
	return now.Sub(s.FetchedAt)
}
