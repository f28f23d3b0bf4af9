// Storefront Catalog - Live Product Sheet Sync and Cache
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/storefront-catalog

package services

import (
	"context"
	"fmt"
)

// StartStopManager is the lifecycle of sync.Manager.
type StartStopManager interface {
	Start(ctx context.Context) error
	Stop() error
}

// SyncService runs the scheduled catalog sync under the supervisor.
type SyncService struct {
	manager StartStopManager
	name    string
}

// NewSyncService wraps manager.
func NewSyncService(manager StartStopManager) *SyncService {
	return &SyncService{
		manager: manager,
		name:    "catalog-sync",
	}
}

// Serve starts the manager, blocks until ctx ends and then stops it. A
// failed Start is returned so suture restarts the service with backoff.
func (s *SyncService) Serve(ctx context.Context) error {
	if err := s.manager.Start(ctx); err != nil {
		return fmt.Errorf("catalog sync start failed: %w", err)
	}

	<-ctx.Done()

	// Stop waits for an in-flight sync to return.
	if err := s.manager.Stop(); err != nil {
		return fmt.Errorf("catalog sync stop failed: %w", err)
	}
	return ctx.Err()
}

// String names the service in supervisor logs.
func (s *SyncService) String() string {
	return s.name
}
