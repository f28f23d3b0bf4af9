// Storefront Catalog - Live Product Sheet Sync and Cache
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/storefront-catalog

package cache

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/tomtom215/storefront-catalog/internal/logging"
	"github.com/tomtom215/storefront-catalog/internal/metrics"
	"github.com/tomtom215/storefront-catalog/internal/models"
	"github.com/tomtom215/storefront-catalog/internal/parser"
	"github.com/tomtom215/storefront-catalog/internal/sheets"
)

const (
	snapshotCacheType = "snapshot"
	refreshKey        = "refresh"
)

// Persister keeps the last good snapshot outside the process.
type Persister interface {
	Save(ctx context.Context, snap *models.Snapshot) error
	// Load returns (nil, nil) when nothing has been saved yet.
	Load(ctx context.Context) (*models.Snapshot, error)
}

// Options configures a Store.
type Options struct {
	TTL time.Duration
	// Persister is optional.
	Persister Persister
	// OnChange runs after a snapshot is installed and after Invalidate.
	OnChange func()
	// Now defaults to time.Now.
	Now func() time.Time
}

// entry pairs a snapshot with the freshness state it was installed under.
type entry struct {
	snap      *models.Snapshot
	expiresAt time.Time
	// generation is the invalidation generation current when the fetch
	// started. A later Invalidate makes the entry stale even if the fetch
	// finishes afterwards.
	generation uint64
}

type refreshFailure struct {
	err error
	at  time.Time
}

// Store owns the single shared catalog snapshot.
//
// Readers never block on a refresh and never see a partially built
// snapshot: a new snapshot is fully parsed and indexed before one atomic
// pointer swap installs it. Concurrent Refresh calls share one fetch.
type Store struct {
	fetcher sheets.Fetcher
	opts    Options

	current    atomic.Pointer[entry]
	generation atomic.Uint64
	group      singleflight.Group

	// waiting counts callers attached to the in-flight refresh.
	waiting     atomic.Int32
	lastFailure atomic.Pointer[refreshFailure]
	lastSuccess atomic.Pointer[time.Time]
}

// NewStore creates an empty store. Nothing is fetched until the first
// Refresh or Snapshot call.
func NewStore(fetcher sheets.Fetcher, opts Options) *Store {
	if opts.TTL <= 0 {
		opts.TTL = 5 * time.Minute
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Store{fetcher: fetcher, opts: opts}
}

// TTL returns the configured snapshot lifetime.
func (s *Store) TTL() time.Duration {
	return s.opts.TTL
}

// Get returns the current snapshot if it exists, has not expired and has
// not been invalidated since its fetch started.
func (s *Store) Get() (*models.Snapshot, bool) {
	e := s.current.Load()
	if e == nil || e.generation != s.generation.Load() || !s.opts.Now().Before(e.expiresAt) {
		return nil, false
	}
	return e.snap, true
}

// Current returns the last installed snapshot regardless of freshness, or
// nil when no snapshot was ever built or restored.
func (s *Store) Current() *models.Snapshot {
	if e := s.current.Load(); e != nil {
		return e.snap
	}
	return nil
}

// Invalidate makes the next Get miss without fetching. Repeated calls
// before the next refresh have no further effect.
func (s *Store) Invalidate() {
	s.generation.Add(1)
	logging.Info().Msg("Catalog cache invalidated")
	if s.opts.OnChange != nil {
		s.opts.OnChange()
	}
}

// Refresh fetches, parses and installs a new snapshot. Callers arriving
// while a refresh is in flight wait for that refresh instead of starting
// another. A caller whose ctx ends stops waiting, but the shared refresh
// runs to completion for everyone else.
//
// On failure the previous snapshot stays installed and the returned error
// matches models.ErrRefreshFailed plus the underlying fetch kind.
//
// A caller that joins a refresh started before the last Invalidate gets
// that refresh's snapshot, which is installed already expired. Snapshot
// reports it as stale; direct callers can check Get.
func (s *Store) Refresh(ctx context.Context) (*models.Snapshot, error) {
	detached := context.WithoutCancel(ctx)
	ch := s.group.DoChan(refreshKey, func() (interface{}, error) {
		return s.refresh(detached)
	})

	// Counted after DoChan so a caller is only counted once it is attached.
	if s.waiting.Add(1) > 1 {
		metrics.CacheRefreshCoalesced.Inc()
	}
	defer s.waiting.Add(-1)

	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*models.Snapshot), nil
	case <-ctx.Done():
		return nil, fmt.Errorf("%w: %w", models.ErrRefreshFailed, ctx.Err())
	}
}

func (s *Store) refresh(ctx context.Context) (*models.Snapshot, error) {
	generation := s.generation.Load()
	start := s.opts.Now()

	rows, err := s.fetcher.Fetch(ctx)
	if err != nil {
		s.recordFailure(ctx, err)
		return nil, fmt.Errorf("%w: %w", models.ErrRefreshFailed, err)
	}

	res := parser.Parse(rows)
	snap := models.NewSnapshot(res.Products, s.opts.Now(), res.RowCount, res.Skipped)
	s.install(snap, generation, snap.FetchedAt.Add(s.opts.TTL))

	now := s.opts.Now()
	s.lastSuccess.Store(&now)
	s.lastFailure.Store(nil)
	metrics.CacheRefreshTotal.WithLabelValues("success").Inc()

	logging.Ctx(ctx).Info().
		Str("version", snap.Version).
		Int("products", snap.Len()).
		Int("rows", res.RowCount).
		Int("skipped", res.Skipped).
		Int("slug_collisions", res.SlugCollisions).
		Dur("duration", now.Sub(start)).
		Msg("Catalog snapshot refreshed")

	if s.opts.Persister != nil {
		if err := s.opts.Persister.Save(ctx, snap); err != nil {
			logging.Ctx(ctx).Warn().Err(err).Msg("Failed to persist catalog snapshot")
		}
	}
	return snap, nil
}

func (s *Store) install(snap *models.Snapshot, generation uint64, expiresAt time.Time) {
	s.current.Store(&entry{snap: snap, expiresAt: expiresAt, generation: generation})
	metrics.RecordSnapshot(snap.Len(), snap.FetchedAt)
	if s.opts.OnChange != nil {
		s.opts.OnChange()
	}
}

func (s *Store) recordFailure(ctx context.Context, err error) {
	s.lastFailure.Store(&refreshFailure{err: err, at: s.opts.Now()})
	metrics.CacheRefreshTotal.WithLabelValues("failure").Inc()

	event := logging.Ctx(ctx).Warn()
	switch {
	case errors.Is(err, models.ErrSourceAuth):
		// Stays broken until someone fixes the credentials.
		event = logging.Ctx(ctx).Error()
	case errors.Is(err, models.ErrNotConfigured):
		event = logging.Ctx(ctx).Debug()
	}
	event.Err(err).
		Bool("transient", sheets.IsTransient(err)).
		Bool("has_snapshot", s.Current() != nil).
		Msg("Catalog refresh failed")
}

// Snapshot returns a usable snapshot for a read, refreshing on demand.
// When the refresh fails but an older snapshot exists it is returned with
// stale=true and a nil error; the error is returned only when there is
// nothing to serve at all.
func (s *Store) Snapshot(ctx context.Context) (snap *models.Snapshot, stale bool, err error) {
	if fresh, ok := s.Get(); ok {
		metrics.RecordCacheLookup(snapshotCacheType, true)
		return fresh, false, nil
	}
	metrics.RecordCacheLookup(snapshotCacheType, false)

	snap, err = s.Refresh(ctx)
	if err == nil {
		// The joined refresh may predate an Invalidate, or a newer one may
		// have landed meanwhile.
		if fresh, ok := s.Get(); ok {
			return fresh, false, nil
		}
		return snap, true, nil
	}
	if prev := s.Current(); prev != nil {
		metrics.StaleServed.WithLabelValues(sheets.Reason(err)).Inc()
		logging.Ctx(ctx).Warn().Err(err).
			Time("fetched_at", prev.FetchedAt).
			Msg("Serving stale catalog snapshot")
		return prev, true, nil
	}
	return nil, false, err
}

// Restore installs the persisted snapshot, if any, as already expired: the
// first read still triggers a refresh, but a failing refresh can serve it.
func (s *Store) Restore(ctx context.Context) error {
	if s.opts.Persister == nil || s.Current() != nil {
		return nil
	}
	snap, err := s.opts.Persister.Load(ctx)
	if err != nil {
		return fmt.Errorf("load persisted snapshot: %w", err)
	}
	if snap == nil {
		return nil
	}
	// CompareAndSwap so a refresh that finished meanwhile is not replaced.
	restored := &entry{snap: snap, generation: s.generation.Load()}
	if !s.current.CompareAndSwap(nil, restored) {
		return nil
	}
	metrics.RecordSnapshot(snap.Len(), snap.FetchedAt)
	logging.Info().
		Str("version", snap.Version).
		Int("products", snap.Len()).
		Time("fetched_at", snap.FetchedAt).
		Msg("Restored persisted catalog snapshot")
	return nil
}

// Status describes the store for the status endpoint.
type Status struct {
	HasSnapshot   bool          `json:"hasSnapshot"`
	Fresh         bool          `json:"fresh"`
	Version       string        `json:"version,omitempty"`
	FetchedAt     *time.Time    `json:"fetchedAt,omitempty"`
	Age           time.Duration `json:"-"`
	AgeSeconds    float64       `json:"ageSeconds"`
	TTLSeconds    float64       `json:"ttlSeconds"`
	Products      int           `json:"products"`
	SourceRows    int           `json:"sourceRows"`
	SkippedRows   int           `json:"skippedRows"`
	Refreshing    bool          `json:"refreshing"`
	LastSuccessAt *time.Time    `json:"lastSuccessAt,omitempty"`
	LastError     string        `json:"lastError,omitempty"`
	LastErrorAt   *time.Time    `json:"lastErrorAt,omitempty"`
}

// Status reports the current cache state.
func (s *Store) Status() Status {
	st := Status{
		TTLSeconds: s.opts.TTL.Seconds(),
		Refreshing: s.waiting.Load() > 0,
	}
	if snap := s.Current(); snap != nil {
		_, fresh := s.Get()
		fetchedAt := snap.FetchedAt
		st.HasSnapshot = true
		st.Fresh = fresh
		st.Version = snap.Version
		st.FetchedAt = &fetchedAt
		st.Age = snap.Age(s.opts.Now())
		st.AgeSeconds = st.Age.Seconds()
		st.Products = snap.Len()
		st.SourceRows = snap.SourceRowCount
		st.SkippedRows = snap.SkippedRows
	}
	if t := s.lastSuccess.Load(); t != nil {
		at := *t
		st.LastSuccessAt = &at
	}
	if f := s.lastFailure.Load(); f != nil {
		at := f.at
		st.LastError = f.err.Error()
		st.LastErrorAt = &at
	}
	return st
}
