// Shopsense - Product Query Interpretation and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shopsense

package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

// HTTPServer is the lifecycle subset of *http.Server.
type HTTPServer interface {
	ListenAndServe() error
	Shutdown(ctx context.Context) error
}

// HTTPServerFactory returns a fresh server for every start. An
// *http.Server cannot listen again once it has been shut down, so a
// restart after a crash needs a new one.
type HTTPServerFactory func() HTTPServer

// HTTPServerService runs the API server under supervision. ListenAndServe
// runs in a goroutine; context cancellation triggers a graceful Shutdown
// bounded by shutdownTimeout.
type HTTPServerService struct {
	newServer       HTTPServerFactory
	addr            string
	shutdownTimeout time.Duration
	logger          zerolog.Logger
}

// NewHTTPServerService wraps newServer. addr is used for logging only.
//
//nolint:gocritic // hugeParam: logger passed by value for zerolog chaining
func NewHTTPServerService(newServer HTTPServerFactory, addr string, shutdownTimeout time.Duration, logger zerolog.Logger) *HTTPServerService {
	if shutdownTimeout <= 0 {
		shutdownTimeout = 10 * time.Second
	}
	return &HTTPServerService{
		newServer:       newServer,
		addr:            addr,
		shutdownTimeout: shutdownTimeout,
		logger:          logger.With().Str("service", "http-server").Logger(),
	}
}

// Serve implements suture.Service. Canceling ctx shuts the server down
// gracefully and Serve returns ctx.Err(); any other end of ListenAndServe
// is an error so the supervisor restarts the service.
func (h *HTTPServerService) Serve(ctx context.Context) error {
	server := h.newServer()

	shutdownErr := make(chan error, 1)
	stopWatching := context.AfterFunc(ctx, func() {
		shutdownErr <- h.shutdown(server)
	})
	defer stopWatching()

	h.logger.Info().Str("addr", h.addr).Msg("http server listening")
	err := server.ListenAndServe()
	if !errors.Is(err, http.ErrServerClosed) {
		if err == nil {
			err = errors.New("listener returned without error")
		}
		return fmt.Errorf("http server failed: %w", err)
	}
	if stopWatching() {
		return errors.New("http server stopped unexpectedly")
	}
	if err := <-shutdownErr; err != nil {
		return fmt.Errorf("http server shutdown failed: %w", err)
	}
	return ctx.Err()
}

// shutdown runs after ctx is canceled, so it needs its own deadline.
func (h *HTTPServerService) shutdown(server HTTPServer) error {
	sctx, cancel := context.WithTimeout(context.Background(), h.shutdownTimeout)
	defer cancel()
	h.logger.Info().Dur("timeout", h.shutdownTimeout).Msg("http server shutting down")
	return server.Shutdown(sctx)
}

// String implements fmt.Stringer for suture's logs.
func (h *HTTPServerService) String() string {
	return "http-server"
}
