// Shopsense - Product Query Interpretation and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shopsense

/*
Package supervisor runs Shopsense's long-lived services under a suture v4
tree.

	shopsense
	├── data-layer
	│   ├── interpreter-rebuilder   (vocabulary overrides watch)
	│   └── model-retrainer         (recommend.train_interval)
	├── messaging-layer
	│   └── interaction-ingest      (NATS_ENABLED, build tag: nats)
	└── api-layer
	    └── http-server

Each layer restarts its own services with backoff. A crashing ingest
consumer leaves the API serving; a failing rebuild leaves the last good
interpreter published.

Supervisor events (start, stop, panic, backoff) go to slog through
sutureslog. cmd/server bridges that slog logger to zerolog with
logging.NewSlogLogger.

The service wrappers live in the services subpackage.

# Usage

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.TreeConfig{
	    ShutdownTimeout: cfg.Server.ShutdownTimeout,
	})
	tree.AddDataService(services.NewRetrainService(engine, retrainCfg, logger))
	tree.AddAPIService(services.NewHTTPServerService(srv, cfg.Server.ShutdownTimeout))

	errCh := tree.ServeBackground(ctx)
*/
package supervisor
