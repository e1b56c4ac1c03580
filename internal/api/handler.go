// Shopsense - Product Query Interpretation and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shopsense

package api

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/shopsense/internal/docindex"
	"github.com/tomtom215/shopsense/internal/eventprocessor"
	"github.com/tomtom215/shopsense/internal/middleware"
	"github.com/tomtom215/shopsense/internal/query"
	"github.com/tomtom215/shopsense/internal/recommend"
)

// ProductIndex is the document index the search endpoints read from.
// *docindex.Client implements it.
type ProductIndex interface {
	Search(ctx context.Context, p *query.Predicate) ([]docindex.Product, error)
	ByID(ctx context.Context, id string) (docindex.Product, error)
	All(ctx context.Context) ([]docindex.Product, error)
	Latest(ctx context.Context, limit int) ([]docindex.Product, error)
	ByProductIDs(ctx context.Context, ids []string) ([]docindex.Product, error)
	Ping(ctx context.Context) error
	BreakerState() string
}

// Recommender serves and rebuilds the neighbor model. *recommend.Engine
// implements it.
type Recommender interface {
	Recommend(ctx context.Context, userID string, n int) recommend.Result
	Train(ctx context.Context) error
	Status() recommend.TrainingStatus
}

// Pinger reports whether a backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Deps are the collaborators a Handler serves from. Interpreter, Index,
// Recommender and Events are required.
type Deps struct {
	Interpreter query.Interpreter
	Index       ProductIndex
	Recommender Recommender
	Events      eventprocessor.Recorder

	// Store is pinged by the readiness probe when set.
	Store Pinger

	// Performance backs the admin performance endpoint when set.
	Performance *middleware.PerformanceMonitor

	// EncodeTimeout bounds query interpretation. Zero means 5s.
	EncodeTimeout time.Duration

	// TrainTimeout bounds an admin-triggered retrain. Zero means 5m.
	TrainTimeout time.Duration

	Version string
}

// Handler implements the HTTP endpoints.
type Handler struct {
	interp      query.Interpreter
	index       ProductIndex
	recommender Recommender
	events      eventprocessor.Recorder
	store       Pinger
	perf        *middleware.PerformanceMonitor

	encodeTimeout time.Duration
	trainTimeout  time.Duration
	version       string
	startTime     time.Time

	logger zerolog.Logger
}

// NewHandler validates deps and returns a Handler.
//
//nolint:gocritic // hugeParam: logger passed by value for zerolog chaining
func NewHandler(deps Deps, logger zerolog.Logger) (*Handler, error) {
	switch {
	case deps.Interpreter == nil:
		return nil, errors.New("api: interpreter is required")
	case deps.Index == nil:
		return nil, errors.New("api: product index is required")
	case deps.Recommender == nil:
		return nil, errors.New("api: recommender is required")
	case deps.Events == nil:
		return nil, errors.New("api: event recorder is required")
	}

	h := &Handler{
		interp:        deps.Interpreter,
		index:         deps.Index,
		recommender:   deps.Recommender,
		events:        deps.Events,
		store:         deps.Store,
		perf:          deps.Performance,
		encodeTimeout: deps.EncodeTimeout,
		trainTimeout:  deps.TrainTimeout,
		version:       deps.Version,
		startTime:     time.Now(),
		logger:        logger.With().Str("component", "api").Logger(),
	}
	if h.encodeTimeout <= 0 {
		h.encodeTimeout = 5 * time.Second
	}
	if h.trainTimeout <= 0 {
		h.trainTimeout = 5 * time.Minute
	}
	if h.version == "" {
		h.version = "dev"
	}
	return h, nil
}
