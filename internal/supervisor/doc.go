// Storefront Catalog - Live Product Sheet Sync and Cache
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/storefront-catalog

/*
Package supervisor runs the long-lived parts of the service under a suture v4
tree with restart, backoff and graceful shutdown.

	storefront-catalog
	├── data-layer
	│   └── SyncService (scheduled sync and warm)
	└── api-layer
	    └── HTTPServerService

Usage in main.go:

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	if err != nil {
	    return err
	}
	tree.AddDataService(services.NewSyncService(syncManager))
	tree.AddAPIService(services.NewHTTPServerService(server, 10*time.Second))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := tree.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
	    logging.Error().Err(err).Msg("Supervisor exited")
	}

Supervisor events (start, failure, backoff) are logged through sutureslog
into zerolog via logging.NewSlogLogger.
*/
package supervisor
