// Storefront Catalog - Live Product Sheet Sync and Cache
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/storefront-catalog

package sync

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/storefront-catalog/internal/catalog"
	"github.com/tomtom215/storefront-catalog/internal/logging"
	"github.com/tomtom215/storefront-catalog/internal/metrics"
	"github.com/tomtom215/storefront-catalog/internal/models"
)

// Catalog is the part of catalog.Service the manager drives.
type Catalog interface {
	SyncNow(ctx context.Context) (catalog.SyncReport, error)
	WarmCache(ctx context.Context, profiles []string) (catalog.WarmReport, error)
}

// Options configures the manager.
type Options struct {
	// Enabled turns the periodic loop on. With it off, Start only performs
	// the optional startup warm.
	Enabled bool
	// Interval between scheduled syncs.
	Interval time.Duration
	// WarmOnStart loads the catalog and runs the warm profiles as soon as
	// the manager starts instead of waiting for the first tick.
	WarmOnStart bool
}

// Trigger names used for logging and metrics.
const (
	TriggerStartup   = "startup"
	TriggerScheduled = "scheduled"
	TriggerManual    = "manual"
)

// Manager runs the scheduled sync-and-warm cycle.
type Manager struct {
	catalog Catalog
	opts    Options
	log     zerolog.Logger

	mu       sync.RWMutex
	running  bool
	stopChan chan struct{}
	wg       sync.WaitGroup
	lastSync time.Time
	lastErr  error

	// syncMu keeps scheduled and manual runs from overlapping. The store
	// already coalesces fetches; this keeps the warm step ordered too.
	syncMu sync.Mutex
}

// NewManager creates a manager. It does nothing until Start is called.
func NewManager(c Catalog, opts Options) *Manager {
	if opts.Interval <= 0 {
		opts.Interval = 5 * time.Minute
	}
	logger := logging.WithComponent("sync")
	logger.Info().
		Bool("enabled", opts.Enabled).
		Dur("interval", opts.Interval).
		Bool("warm_on_start", opts.WarmOnStart).
		Msg("Sync manager config loaded")
	return &Manager{
		catalog: c,
		opts:    opts,
		log:     logger,
	}
}

// Start launches the background goroutines and returns immediately.
func (m *Manager) Start(ctx context.Context) error {
	m.mu.Lock()
	if m.running {
		m.mu.Unlock()
		return fmt.Errorf("sync manager is already running")
	}
	m.running = true
	m.stopChan = make(chan struct{})
	stop := m.stopChan
	m.mu.Unlock()

	if m.opts.WarmOnStart {
		m.wg.Add(1)
		go func() {
			defer m.wg.Done()
			// Startup failures are logged; the next tick or a request retries.
			_ = m.run(ctx, TriggerStartup)
		}()
	}

	if m.opts.Enabled {
		m.wg.Add(1)
		go m.syncLoop(ctx, stop)
		m.log.Info().Dur("interval", m.opts.Interval).Msg("Scheduled catalog sync started")
	} else {
		m.log.Info().Msg("Scheduled catalog sync disabled")
	}
	return nil
}

// Stop signals the goroutines and waits for them to finish.
func (m *Manager) Stop() error {
	m.mu.Lock()
	if !m.running {
		m.mu.Unlock()
		return fmt.Errorf("sync manager is not running")
	}
	m.running = false
	close(m.stopChan)
	m.mu.Unlock()

	m.wg.Wait()
	m.log.Info().Msg("Sync manager stopped")
	return nil
}

// TriggerSync runs one sync-and-warm cycle on the caller's goroutine.
func (m *Manager) TriggerSync(ctx context.Context) error {
	return m.run(ctx, TriggerManual)
}

// LastSyncTime returns the time of the last successful run.
func (m *Manager) LastSyncTime() time.Time {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.lastSync
}

// LastError returns the error of the most recent run, nil after a success.
func (m *Manager) LastError() error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.lastErr
}

func (m *Manager) syncLoop(ctx context.Context, stop <-chan struct{}) {
	defer m.wg.Done()

	ticker := time.NewTicker(m.opts.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-stop:
			return
		case <-ticker.C:
			_ = m.run(ctx, TriggerScheduled)
		}
	}
}

// run refreshes the snapshot and then warms the query cache. A failed
// refresh still warms against whatever snapshot is being served, so a
// stale catalog keeps its hot pages.
func (m *Manager) run(ctx context.Context, trigger string) error {
	m.syncMu.Lock()
	defer m.syncMu.Unlock()

	ctx = logging.ContextWithNewCorrelationID(ctx)
	log := m.log.With().Str("trigger", trigger).Logger()

	report, err := m.catalog.SyncNow(ctx)
	if err != nil {
		metrics.SyncRuns.WithLabelValues(trigger, "failure").Inc()
		ev := log.Warn()
		if errors.Is(err, models.ErrNotConfigured) {
			ev = log.Debug()
		}
		ev.Err(err).
			Str("reason", report.Reason).
			Bool("transient", report.Transient).
			Msg("Catalog sync failed")
	} else {
		now := time.Now()
		metrics.SyncRuns.WithLabelValues(trigger, "success").Inc()
		metrics.SyncLastSuccess.Set(float64(now.Unix()))
		log.Info().
			Str("version", report.Version).
			Int("products", report.Products).
			Int("skipped_rows", report.SkippedRows).
			Int64("duration_ms", report.DurationMS).
			Msg("Catalog sync completed")
	}

	m.mu.Lock()
	m.lastErr = err
	if err == nil {
		m.lastSync = time.Now()
	}
	m.mu.Unlock()

	if _, werr := m.catalog.WarmCache(ctx, nil); werr != nil && err == nil {
		log.Warn().Err(werr).Msg("Cache warm failed")
	}
	return err
}
