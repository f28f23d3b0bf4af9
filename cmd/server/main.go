// Storefront Catalog - Live Product Sheet Sync and Cache
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/storefront-catalog

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tomtom215/storefront-catalog/internal/api"
	"github.com/tomtom215/storefront-catalog/internal/cache"
	"github.com/tomtom215/storefront-catalog/internal/catalog"
	"github.com/tomtom215/storefront-catalog/internal/config"
	"github.com/tomtom215/storefront-catalog/internal/logging"
	"github.com/tomtom215/storefront-catalog/internal/query"
	"github.com/tomtom215/storefront-catalog/internal/sheets"
	"github.com/tomtom215/storefront-catalog/internal/snapshotstore"
	"github.com/tomtom215/storefront-catalog/internal/supervisor"
	"github.com/tomtom215/storefront-catalog/internal/supervisor/services"
	"github.com/tomtom215/storefront-catalog/internal/sync"
)

func main() {
	dotEnv, dotEnvErr := loadDotEnv()

	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})
	if dotEnvErr != nil {
		logging.Warn().Err(dotEnvErr).Msg("Failed to read .env file")
	} else if len(dotEnv) > 0 {
		logging.Debug().Strs("files", dotEnv).Msg("Loaded .env files")
	}

	logging.Info().Msg("Starting storefront catalog")

	// A missing sheet configuration is not fatal: the API answers with
	// NOT_CONFIGURED until it is fixed.
	if err := cfg.Sheet.CheckConfigured(); err != nil {
		logging.Warn().Err(err).Msg("Product sheet not configured; catalog requests will fail until it is")
	} else {
		logging.Info().
			Str("range", cfg.Sheet.Range).
			Bool("service_account", cfg.Sheet.UsesServiceAccount()).
			Dur("ttl", cfg.Cache.TTL).
			Msg("Configuration loaded")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	fetcher := sheets.NewBreaker(sheets.NewClient(cfg.Sheet), sheets.DefaultBreakerSettings())

	persister, err := snapshotstore.New(ctx, cfg.Persist)
	if err != nil {
		logging.Fatal().Err(err).Str("backend", cfg.Persist.Backend).Msg("Failed to open snapshot persistence")
	}
	var storePersister cache.Persister
	if persister != nil {
		storePersister = persister
		defer func() {
			if err := persister.Close(); err != nil {
				logging.Error().Err(err).Msg("Error closing snapshot persistence")
			}
		}()
	}

	queries := cache.NewQueryCache[query.Result](cfg.Cache.QueryCacheSize, cfg.Cache.TTL)
	store := cache.NewStore(fetcher, cache.Options{
		TTL:       cfg.Cache.TTL,
		Persister: storePersister,
		OnChange:  queries.Purge,
	})
	if err := store.Restore(ctx); err != nil {
		logging.Warn().Err(err).Msg("Could not restore persisted snapshot; starting empty")
	}

	svc := catalog.NewService(store, queries, catalog.Options{
		Limits: query.Limits{
			DefaultLimit: cfg.API.DefaultPageSize,
			MaxLimit:     cfg.API.MaxPageSize,
		},
		WarmProfiles: cfg.Warm.Profiles,
	})

	syncManager := sync.NewManager(svc, sync.Options{
		Enabled:     cfg.Sync.Enabled,
		Interval:    cfg.Sync.Interval,
		WarmOnStart: cfg.Cache.WarmOnStart,
	})

	handler := api.NewHandler(svc, syncManager)
	router := api.NewRouterFromConfig(handler, cfg.Security)

	server := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           router.SetupChi(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.Server.Timeout,
		WriteTimeout:      cfg.Server.Timeout,
		IdleTimeout:       60 * time.Second,
	}

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create supervisor tree")
	}
	tree.AddDataService(services.NewSyncService(syncManager))
	tree.AddAPIService(services.NewHTTPServerService(server, 10*time.Second))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	logging.Info().Str("addr", server.Addr).Msg("Starting supervisor tree")
	errCh := tree.ServeBackground(ctx)

	select {
	case <-ctx.Done():
		logging.Info().Msg("Context canceled, waiting for supervisor to finish")
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor tree error")
		}
	}
	for err := range errCh {
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor shutdown error")
		}
	}

	if unstopped, _ := tree.UnstoppedServiceReport(); len(unstopped) > 0 {
		for _, svc := range unstopped {
			logging.Warn().Str("service", svc.Name).Msg("Service failed to stop within timeout")
		}
	}

	logging.Info().Msg("Storefront catalog stopped")
}
