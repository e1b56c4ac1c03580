// Shopsense - Product Query Interpretation and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shopsense

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/shopsense/internal/api"
	"github.com/tomtom215/shopsense/internal/config"
	"github.com/tomtom215/shopsense/internal/database"
	"github.com/tomtom215/shopsense/internal/docindex"
	"github.com/tomtom215/shopsense/internal/logging"
	"github.com/tomtom215/shopsense/internal/metrics"
	"github.com/tomtom215/shopsense/internal/middleware"
	"github.com/tomtom215/shopsense/internal/supervisor"
	"github.com/tomtom215/shopsense/internal/supervisor/services"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	issueToken := flag.String("issue-admin-token", "", "print an admin JWT for `subject` and exit")
	tokenTTL := flag.Duration("token-ttl", 24*time.Hour, "lifetime of the token printed by -issue-admin-token")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		// Config not yet available; use the default logger.
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	if *issueToken != "" {
		if err := issueAdminToken(&cfg.Security, *issueToken, *tokenTTL, os.Stdout); err != nil {
			logging.Fatal().Err(err).Msg("Failed to issue admin token")
		}
		return
	}

	logging.Init(logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		Caller:    cfg.Logging.Caller,
		Timestamp: true,
		Service:   "shopsense",
		Version:   version,
	})

	if err := run(cfg); err != nil {
		logging.Fatal().Err(err).Msg("Shopsense stopped with an error")
	}
	logging.Info().Msg("Application stopped gracefully")
}

// run wires every component, starts the supervisor tree and blocks until
// SIGINT or SIGTERM.
//
//nolint:gocyclo // sequential setup steps
func run(cfg *config.Config) error {
	logger := logging.Logger()
	logger.Info().
		Str("version", version).
		Str("environment", cfg.Server.Environment).
		Str("query_mode", cfg.Query.Mode).
		Str("auth_mode", cfg.Security.AuthMode).
		Bool("nats_enabled", cfg.NATS.Enabled).
		Msg("Starting Shopsense with supervisor tree")
	metrics.AppInfo.WithLabelValues(version, runtime.Version()).Set(1)

	if cfg.ShouldWarnAboutCORS() {
		logger.Warn().Msg("CORS allows any origin while admin authentication is enabled")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.New(&cfg.Database)
	if err != nil {
		return fmt.Errorf("initialize database: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error().Err(err).Msg("Error closing database")
		}
	}()
	logger.Info().Str("path", cfg.Database.Path).Msg("Event store initialized")

	interp, err := initInterpreter(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("initialize query interpreter: %w", err)
	}
	defer interp.Close(&logger)

	index, err := docindex.New(&cfg.DocIndex, nil)
	if err != nil {
		return fmt.Errorf("initialize document index client: %w", err)
	}

	rec, err := initRecommend(&cfg.Recommend, db, logger)
	if err != nil {
		return fmt.Errorf("initialize recommendation engine: %w", err)
	}

	events, err := initEvents(ctx, &cfg.NATS, db, logger)
	if err != nil {
		return fmt.Errorf("initialize event ingestion: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		events.Shutdown(shutdownCtx)
	}()

	authn, err := initAuth(&cfg.Security)
	if err != nil {
		return fmt.Errorf("initialize authentication: %w", err)
	}
	if authn == nil {
		logger.Warn().Msg("Admin endpoints are unauthenticated (AUTH_MODE=none)")
	}

	handler, err := api.NewHandler(api.Deps{
		Interpreter:   interp.Live,
		Index:         index,
		Recommender:   rec.Engine,
		Events:        events.Recorder,
		Store:         db,
		Performance:   middleware.NewPerformanceMonitor(1000, time.Second, logger),
		EncodeTimeout: cfg.Query.EncodeTimeout,
		TrainTimeout:  cfg.Recommend.TrainTimeout,
		Version:       version,
	}, logger)
	if err != nil {
		return fmt.Errorf("initialize API handler: %w", err)
	}
	router := api.NewRouter(handler, api.NewChiMiddleware(api.ChiMiddlewareConfigFrom(&cfg.Security)), authn, logging.NewSecurityLogger())
	routes := router.SetupChi()

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.TreeConfig{
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	})
	if err != nil {
		return fmt.Errorf("create supervisor tree: %w", err)
	}

	tree.AddDataService(rec.Service)
	if interp.Service != nil {
		tree.AddDataService(interp.Service)
	}
	if events.Ingest != nil {
		tree.AddMessagingService(events.Ingest)
	}

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	newServer := func() services.HTTPServer {
		return &http.Server{
			Addr:              addr,
			Handler:           routes,
			ReadTimeout:       cfg.Server.Timeout,
			ReadHeaderTimeout: 10 * time.Second,
			WriteTimeout:      cfg.Server.Timeout,
			IdleTimeout:       60 * time.Second,
		}
	}
	tree.AddAPIService(services.NewHTTPServerService(newServer, addr, cfg.Server.ShutdownTimeout, logger))

	logger.Info().Str("addr", addr).Msg("Starting supervisor tree")
	return waitForTree(ctx, tree, &logger)
}

// waitForTree serves the tree until ctx ends and reports services that did
// not stop in time.
func waitForTree(ctx context.Context, tree *supervisor.SupervisorTree, logger *zerolog.Logger) error {
	errCh := tree.ServeBackground(ctx)

	var treeErr error
	select {
	case <-ctx.Done():
		logger.Info().Msg("Shutdown signal received, waiting for supervisor to finish")
		treeErr = <-errCh
	case treeErr = <-errCh:
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	for _, svc := range unstopped {
		logger.Warn().Str("service", svc.Name).Msg("Service failed to stop within timeout")
	}

	if treeErr != nil && !errors.Is(treeErr, context.Canceled) {
		return treeErr
	}
	return nil
}
