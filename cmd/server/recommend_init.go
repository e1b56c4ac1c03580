// Shopsense - Product Query Interpretation and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shopsense

package main

import (
	"github.com/rs/zerolog"

	"github.com/tomtom215/shopsense/internal/config"
	"github.com/tomtom215/shopsense/internal/recommend"
	"github.com/tomtom215/shopsense/internal/supervisor/services"
)

// RecommendComponents holds the engine and the service that retrains it.
type RecommendComponents struct {
	Engine  *recommend.Engine
	Service *services.RetrainService
}

// initRecommend creates the engine over source. The engine starts without
// a model; the retrain service builds the first one.
//
//nolint:gocritic // hugeParam: logger passed by value for zerolog chaining
func initRecommend(cfg *config.RecommendConfig, source recommend.EventSource, logger zerolog.Logger) (*RecommendComponents, error) {
	engineCfg := buildEngineConfig(cfg)

	engine, err := recommend.NewEngine(engineCfg, source, logger)
	if err != nil {
		return nil, err
	}

	logger.Info().
		Int("neighbors", engineCfg.Neighbors).
		Int("neighbor_cap", engineCfg.NeighborCap).
		Dur("train_interval", engineCfg.Training.Interval).
		Bool("train_on_startup", cfg.TrainOnStartup).
		Dur("lookback", engineCfg.Training.Lookback).
		Msg("Recommendation engine initialized")

	service := services.NewRetrainService(engine, services.RetrainConfig{
		TrainOnStartup: cfg.TrainOnStartup,
		Interval:       engineCfg.Training.Interval,
	}, logger)

	return &RecommendComponents{Engine: engine, Service: service}, nil
}

// buildEngineConfig maps the recommend config section onto the engine
// config. Zero sizes and timeouts keep the engine defaults. A zero
// TrainInterval disables scheduled retraining and a zero Lookback trains on
// all events.
func buildEngineConfig(cfg *config.RecommendConfig) *recommend.Config {
	out := recommend.DefaultConfig()
	if cfg.Neighbors > 0 {
		out.Neighbors = cfg.Neighbors
	}
	if cfg.NeighborCap > 0 {
		out.NeighborCap = cfg.NeighborCap
	}
	if cfg.DefaultN > 0 {
		out.DefaultN = cfg.DefaultN
	}
	if cfg.MaxN > 0 {
		out.MaxN = cfg.MaxN
	}
	out.Training.Interval = cfg.TrainInterval
	if cfg.TrainTimeout > 0 {
		out.Training.Timeout = cfg.TrainTimeout
	}
	out.Training.Lookback = cfg.Lookback
	return out
}
