// Shopsense - Product Query Interpretation and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shopsense

package services

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/shopsense/internal/recommend"
)

// Trainer rebuilds the recommendation model. *recommend.Engine
// implements it.
type Trainer interface {
	Train(ctx context.Context) error
}

// RetrainConfig schedules model rebuilds.
type RetrainConfig struct {
	// TrainOnStartup trains once as soon as the service starts.
	TrainOnStartup bool

	// Interval between scheduled retrains. Zero disables the schedule.
	Interval time.Duration
}

// RetrainService keeps the recommendation model fresh. Training errors are
// logged and never stop the service; the engine keeps serving the last
// good model.
type RetrainService struct {
	trainer Trainer
	config  RetrainConfig
	logger  zerolog.Logger
	started bool
}

// NewRetrainService creates the retrain loop.
//
//nolint:gocritic // hugeParam: logger passed by value for zerolog chaining
func NewRetrainService(trainer Trainer, cfg RetrainConfig, logger zerolog.Logger) *RetrainService {
	return &RetrainService{
		trainer: trainer,
		config:  cfg,
		logger:  logger.With().Str("service", "model-retrainer").Logger(),
	}
}

// Serve implements suture.Service. The startup training runs only on the
// first start, not after a supervisor restart.
func (s *RetrainService) Serve(ctx context.Context) error {
	s.logger.Info().
		Bool("train_on_startup", s.config.TrainOnStartup).
		Dur("interval", s.config.Interval).
		Msg("model retrainer starting")

	if s.config.TrainOnStartup && !s.started {
		s.train(ctx, "startup")
	}
	s.started = true

	if s.config.Interval <= 0 {
		<-ctx.Done()
		return ctx.Err()
	}

	ticker := time.NewTicker(s.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info().Msg("model retrainer stopping")
			return ctx.Err()
		case <-ticker.C:
			s.train(ctx, "schedule")
		}
	}
}

func (s *RetrainService) train(ctx context.Context, trigger string) {
	err := s.trainer.Train(ctx)
	switch {
	case err == nil:
	case errors.Is(err, recommend.ErrTrainingInProgress):
		s.logger.Debug().Str("trigger", trigger).Msg("training already running; skipped")
	case ctx.Err() != nil:
		// Shutting down.
	default:
		s.logger.Warn().Err(err).Str("trigger", trigger).Msg("model training failed")
	}
}

// String implements fmt.Stringer for suture's logs.
func (s *RetrainService) String() string {
	return "model-retrainer"
}
