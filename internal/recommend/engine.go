// Shopsense - Product Query Interpretation and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shopsense

package recommend

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/shopsense/internal/metrics"
)

// ErrTrainingInProgress is returned by Train while another run holds the
// training lock.
var ErrTrainingInProgress = errors.New("training already in progress")

// EventSource supplies raw interactions for training. It is typically
// implemented by the database package.
type EventSource interface {
	// Interactions returns every event recorded at or after since. A zero
	// since returns all events.
	Interactions(ctx context.Context, since time.Time) ([]Event, error)
}

// Engine owns the current neighbor model and rebuilds it from an
// EventSource. It is safe for concurrent use: Recommend reads whichever
// model was published last, and Train swaps in a new one atomically.
type Engine struct {
	config *Config
	logger zerolog.Logger
	source EventSource

	model atomic.Pointer[Model]

	trainMu  sync.Mutex
	statusMu sync.RWMutex
	status   TrainingStatus

	now func() time.Time
}

// NewEngine creates a recommendation engine. The engine has no model until
// the first successful Train.
//
//nolint:gocritic // hugeParam: logger passed by value for zerolog chaining
func NewEngine(cfg *Config, source EventSource, logger zerolog.Logger) (*Engine, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if source == nil {
		return nil, errors.New("event source is required")
	}
	return &Engine{
		config: cfg,
		logger: logger.With().Str("component", "recommend").Logger(),
		source: source,
		now:    time.Now,
	}, nil
}

// Config returns the engine configuration.
func (e *Engine) Config() *Config {
	return e.config
}

// Train reads events, aggregates them, builds a model and publishes it.
// A failed run leaves the previous model in place.
func (e *Engine) Train(ctx context.Context) error {
	if !e.trainMu.TryLock() {
		return ErrTrainingInProgress
	}
	defer e.trainMu.Unlock()

	start := time.Now()
	e.updateStatus(func(s *TrainingStatus) {
		s.IsTraining = true
		s.LastError = ""
	})
	e.logger.Info().Msg("starting model training")

	trainCtx, cancel := context.WithTimeout(ctx, e.config.Training.Timeout)
	defer cancel()

	model, events, err := e.build(trainCtx)
	duration := time.Since(start)
	if err != nil {
		metrics.RecordTraining(duration, 0, 0, err)
		e.updateStatus(func(s *TrainingStatus) {
			s.IsTraining = false
			s.LastError = err.Error()
			s.LastTrainingDurationMS = duration.Milliseconds()
		})
		e.logger.Error().Err(err).Msg("model training failed")
		return err
	}

	e.model.Store(model)
	users, items := len(model.matrix.Users), len(model.matrix.Items)
	metrics.RecordTraining(duration, users, items, nil)

	var version int
	e.updateStatus(func(s *TrainingStatus) {
		s.IsTraining = false
		s.ModelBuilt = !model.matrix.Empty()
		s.ModelVersion++
		s.LastTrainedAt = e.now()
		s.LastTrainingDurationMS = duration.Milliseconds()
		s.EventCount = events
		s.UserCount = users
		s.ItemCount = items
		version = s.ModelVersion
	})

	e.logger.Info().
		Int("version", version).
		Int("events", events).
		Int("users", users).
		Int("items", items).
		Int("cells", model.matrix.NonZero()).
		Int64("duration_ms", duration.Milliseconds()).
		Msg("model training complete")
	return nil
}

func (e *Engine) build(ctx context.Context) (*Model, int, error) {
	var since time.Time
	if e.config.Training.Lookback > 0 {
		since = e.now().Add(-e.config.Training.Lookback)
	}
	events, err := e.source.Interactions(ctx, since)
	if err != nil {
		return nil, 0, fmt.Errorf("get interactions: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}
	matrix := Aggregate(events)
	return BuildModel(matrix, e.config.Neighbors, e.config.NeighborCap), len(events), nil
}

// Recommend returns up to n items for userID from the current model. n is
// clamped to [1, MaxN]; zero selects DefaultN.
func (e *Engine) Recommend(_ context.Context, userID string, n int) Result {
	if n <= 0 {
		n = e.config.DefaultN
	}
	n = min(n, e.config.MaxN)

	res := e.model.Load().Recommend(userID, n)
	metrics.RecordRecommendation(res.Outcome.String())

	e.logger.Debug().
		Str("user_id", userID).
		Int("n", n).
		Str("outcome", res.Outcome.String()).
		Int("returned", len(res.Items)).
		Msg("recommendation complete")
	return res
}

// Model returns the current model, or nil before the first Train.
func (e *Engine) Model() *Model {
	return e.model.Load()
}

// Status returns a copy of the training status.
func (e *Engine) Status() TrainingStatus {
	e.statusMu.RLock()
	defer e.statusMu.RUnlock()
	return e.status
}

func (e *Engine) updateStatus(fn func(*TrainingStatus)) {
	e.statusMu.Lock()
	defer e.statusMu.Unlock()
	fn(&e.status)
}
