// Storefront Catalog - Live Product Sheet Sync and Cache
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/storefront-catalog

package supervisor

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"
)

// mockService fails failTimes times, then runs until canceled.
type mockService struct {
	name      string
	starts    atomic.Int32
	failTimes int32
}

func (m *mockService) Serve(ctx context.Context) error {
	n := m.starts.Add(1)
	if n <= m.failTimes {
		return errors.New("simulated failure")
	}
	<-ctx.Done()
	return ctx.Err()
}

func (m *mockService) String() string { return m.name }

func testLogger(buf *bytes.Buffer) *slog.Logger {
	return slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func TestNewSupervisorTree_Defaults(t *testing.T) {
	tree, err := NewSupervisorTree(nil, TreeConfig{})
	if err != nil {
		t.Fatalf("NewSupervisorTree() error = %v", err)
	}
	if tree.config != DefaultTreeConfig() {
		t.Errorf("config = %+v, want defaults", tree.config)
	}
	if tree.Root() == nil {
		t.Error("Root() is nil")
	}
}

func TestSupervisorTree_RunsBothLayers(t *testing.T) {
	var buf bytes.Buffer
	tree, err := NewSupervisorTree(testLogger(&buf), TreeConfig{ShutdownTimeout: time.Second})
	if err != nil {
		t.Fatal(err)
	}

	syncSvc := &mockService{name: "catalog-sync"}
	httpSvc := &mockService{name: "http-server"}
	tree.AddDataService(syncSvc)
	tree.AddAPIService(httpSvc)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := tree.ServeBackground(ctx)

	deadline := time.Now().Add(2 * time.Second)
	for (syncSvc.starts.Load() == 0 || httpSvc.starts.Load() == 0) && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	cancel()

	select {
	case <-errCh:
	case <-time.After(3 * time.Second):
		t.Fatal("tree did not stop")
	}
	if syncSvc.starts.Load() != 1 || httpSvc.starts.Load() != 1 {
		t.Errorf("starts: sync=%d http=%d", syncSvc.starts.Load(), httpSvc.starts.Load())
	}
}

func TestSupervisorTree_RestartsFailedService(t *testing.T) {
	var buf bytes.Buffer
	tree, err := NewSupervisorTree(testLogger(&buf), TreeConfig{
		FailureThreshold: 10,
		FailureBackoff:   10 * time.Millisecond,
		ShutdownTimeout:  time.Second,
	})
	if err != nil {
		t.Fatal(err)
	}

	flaky := &mockService{name: "flaky-sync", failTimes: 2}
	steady := &mockService{name: "http-server"}
	tree.AddDataService(flaky)
	tree.AddAPIService(steady)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := tree.ServeBackground(ctx)

	deadline := time.Now().Add(3 * time.Second)
	for flaky.starts.Load() < 3 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	cancel()
	<-errCh

	if flaky.starts.Load() < 3 {
		t.Errorf("flaky starts = %d, want >= 3", flaky.starts.Load())
	}
	if steady.starts.Load() != 1 {
		t.Errorf("api layer restarted %d times; a data layer failure must not touch it", steady.starts.Load()-1)
	}
	if !bytes.Contains(buf.Bytes(), []byte("flaky-sync")) {
		t.Error("supervisor events were not logged through the slog hook")
	}
}
