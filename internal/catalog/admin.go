// Storefront Catalog - Live Product Sheet Sync and Cache
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/storefront-catalog

package catalog

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/tomtom215/storefront-catalog/internal/logging"
	"github.com/tomtom215/storefront-catalog/internal/metrics"
	"github.com/tomtom215/storefront-catalog/internal/query"
	"github.com/tomtom215/storefront-catalog/internal/sheets"
)

// WarmResult is the outcome of one warm profile.
type WarmResult struct {
	Profile string `json:"profile"`
	OK      bool   `json:"ok"`
	Total   int    `json:"total"`
	Error   string `json:"error,omitempty"`
}

// WarmReport summarizes a WarmCache call.
type WarmReport struct {
	SnapshotVersion string        `json:"snapshotVersion,omitempty"`
	Stale           bool          `json:"stale"`
	Succeeded       int           `json:"succeeded"`
	Failed          int           `json:"failed"`
	Results         []WarmResult  `json:"results"`
	Duration        time.Duration `json:"-"`
	DurationMS      int64         `json:"durationMs"`
}

// WarmCache makes sure a snapshot is loaded, refreshing only if needed,
// then precomputes the listing page of every profile. A bad profile is
// reported and logged without stopping the others. The error is non-nil
// only when no snapshot could be obtained at all.
func (s *Service) WarmCache(ctx context.Context, profiles []string) (WarmReport, error) {
	start := time.Now()
	if len(profiles) == 0 {
		profiles = s.opts.WarmProfiles
	}
	report := WarmReport{Results: make([]WarmResult, len(profiles))}

	snap, stale, err := s.store.Snapshot(ctx)
	if err != nil {
		report.Duration = time.Since(start)
		report.DurationMS = report.Duration.Milliseconds()
		return report, err
	}
	report.SnapshotVersion = snap.Version
	report.Stale = stale

	// Goroutines never return an error: every profile settles on its own.
	var g errgroup.Group
	g.SetLimit(s.opts.WarmConcurrency)
	for i, profile := range profiles {
		g.Go(func() error {
			result := WarmResult{Profile: profile}
			p, err := query.ParseProfile(profile, s.opts.Limits)
			if err != nil {
				result.Error = err.Error()
				metrics.WarmQueries.WithLabelValues("failure").Inc()
				logging.Ctx(ctx).Warn().Err(err).Str("profile", profile).Msg("Skipping invalid warm profile")
			} else {
				res, _ := s.run(snap, p)
				result.OK = true
				result.Total = res.Pagination.Total
				metrics.WarmQueries.WithLabelValues("success").Inc()
			}
			report.Results[i] = result
			return nil
		})
	}
	_ = g.Wait()

	for _, r := range report.Results {
		if r.OK {
			report.Succeeded++
		} else {
			report.Failed++
		}
	}
	report.Duration = time.Since(start)
	report.DurationMS = report.Duration.Milliseconds()

	logging.Ctx(ctx).Info().
		Int("succeeded", report.Succeeded).
		Int("failed", report.Failed).
		Bool("stale", stale).
		Dur("duration", report.Duration).
		Msg("Catalog cache warmed")
	return report, nil
}

// SyncReport summarizes a SyncNow call.
type SyncReport struct {
	OK          bool          `json:"ok"`
	Version     string        `json:"version,omitempty"`
	Products    int           `json:"products"`
	SkippedRows int           `json:"skippedRows"`
	FetchedAt   *time.Time    `json:"fetchedAt,omitempty"`
	Error       string        `json:"error,omitempty"`
	Reason      string        `json:"reason"`
	Transient   bool          `json:"transient"`
	Duration    time.Duration `json:"-"`
	DurationMS  int64         `json:"durationMs"`
}

// SyncNow forces a refresh. If one is already running it joins it rather
// than fetching again. The report is always filled in; on failure the
// previous snapshot keeps serving and the error is also returned.
func (s *Service) SyncNow(ctx context.Context) (SyncReport, error) {
	start := time.Now()
	snap, err := s.store.Refresh(ctx)

	report := SyncReport{Reason: sheets.Reason(err), Duration: time.Since(start)}
	report.DurationMS = report.Duration.Milliseconds()
	if err != nil {
		report.Error = err.Error()
		report.Transient = sheets.IsTransient(err)
		return report, err
	}

	fetchedAt := snap.FetchedAt
	report.OK = true
	report.Version = snap.Version
	report.Products = snap.Len()
	report.SkippedRows = snap.SkippedRows
	report.FetchedAt = &fetchedAt
	return report, nil
}
