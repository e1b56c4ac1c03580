// Shopsense - Product Query Interpretation and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shopsense

package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Rebuilder republishes the query interpreter. *query.Rebuilder
// implements it.
type Rebuilder interface {
	Rebuild(ctx context.Context) error
}

// WatchFunc registers callback for changes to path. config.WatchConfigFile
// has this shape.
type WatchFunc func(path string, callback func()) error

// RebuildConfig controls when the interpreter is rebuilt.
type RebuildConfig struct {
	// WatchPath is the vocabulary overrides file. Empty disables watching.
	WatchPath string

	// Debounce collapses bursts of change events, such as an editor
	// writing a file in several steps. Default: 500ms.
	Debounce time.Duration

	// Timeout bounds one rebuild. Default: 5m.
	Timeout time.Duration

	// Pending reports that no interpreter has been published yet, as
	// after a failed startup build. While it returns true the loop
	// rebuilds on its own, waiting RetryInitial, then twice as long each
	// time up to RetryMax. Nil disables retrying.
	Pending func() bool

	RetryInitial time.Duration // default 5s
	RetryMax     time.Duration // default 5m
}

// RebuildService rebuilds the query interpreter whenever the vocabulary
// overrides file changes, and keeps retrying while no interpreter has been
// published. The initial build happens in cmd/server before the tree
// starts, so the API never serves before the first attempt.
type RebuildService struct {
	rebuilder Rebuilder
	watch     WatchFunc
	config    RebuildConfig
	logger    zerolog.Logger

	changes   chan struct{}
	watchOnce sync.Once
	watchErr  error
}

// NewRebuildService creates the rebuild loop.
//
//nolint:gocritic // hugeParam: logger passed by value for zerolog chaining
func NewRebuildService(rebuilder Rebuilder, watch WatchFunc, cfg RebuildConfig, logger zerolog.Logger) *RebuildService {
	if cfg.Debounce <= 0 {
		cfg.Debounce = 500 * time.Millisecond
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 5 * time.Minute
	}
	if cfg.RetryInitial <= 0 {
		cfg.RetryInitial = 5 * time.Second
	}
	if cfg.RetryMax < cfg.RetryInitial {
		cfg.RetryMax = max(5*time.Minute, cfg.RetryInitial)
	}
	return &RebuildService{
		rebuilder: rebuilder,
		watch:     watch,
		config:    cfg,
		logger:    logger.With().Str("service", "interpreter-rebuilder").Logger(),
		changes:   make(chan struct{}, 1),
	}
}

// Trigger requests a rebuild. Requests made while one is pending coalesce.
func (s *RebuildService) Trigger() {
	select {
	case s.changes <- struct{}{}:
	default:
	}
}

// Serve implements suture.Service. The file watch is registered once and
// survives supervisor restarts of the loop.
func (s *RebuildService) Serve(ctx context.Context) error {
	if s.config.WatchPath != "" && s.watch != nil {
		s.watchOnce.Do(func() {
			s.watchErr = s.watch(s.config.WatchPath, s.Trigger)
		})
		if s.watchErr != nil {
			return fmt.Errorf("watch %s: %w", s.config.WatchPath, s.watchErr)
		}
		s.logger.Info().Str("path", s.config.WatchPath).Msg("watching vocabulary overrides")
	}

	var (
		debounce   *time.Timer
		debounceCh <-chan time.Time
	)
	delay := s.config.RetryInitial
	retry := time.NewTimer(delay)
	retryCh := retry.C
	defer retry.Stop()
	defer func() {
		if debounce != nil {
			debounce.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case <-s.changes:
			if debounce == nil {
				debounce = time.NewTimer(s.config.Debounce)
			} else {
				debounce.Reset(s.config.Debounce)
			}
			debounceCh = debounce.C

		case <-debounceCh:
			debounceCh = nil
			_ = s.rebuild(ctx)

		case <-retryCh:
			retryCh = nil
			if !s.pending() {
				continue
			}
			if err := s.rebuild(ctx); err == nil || !s.pending() {
				continue
			}
			delay = min(2*delay, s.config.RetryMax)
			s.logger.Warn().Dur("next_attempt_in", delay).Msg("no interpreter published yet")
			retry.Reset(delay)
			retryCh = retry.C
		}
	}
}

func (s *RebuildService) pending() bool {
	return s.config.Pending != nil && s.config.Pending()
}

func (s *RebuildService) rebuild(ctx context.Context) error {
	rebuildCtx, cancel := context.WithTimeout(ctx, s.config.Timeout)
	defer cancel()

	start := time.Now()
	if err := s.rebuilder.Rebuild(rebuildCtx); err != nil {
		s.logger.Error().Err(err).Msg("interpreter rebuild failed; keeping current interpreter")
		return err
	}
	s.logger.Info().Dur("duration", time.Since(start)).Msg("interpreter rebuilt")
	return nil
}

// String implements fmt.Stringer for suture's logs.
func (s *RebuildService) String() string {
	return "interpreter-rebuilder"
}
