// Shopsense - Product Query Interpretation and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shopsense

package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/tomtom215/shopsense/internal/config"
	"github.com/tomtom215/shopsense/internal/eventprocessor"
)

// EventComponents is the interaction write path. Ingest is nil when events
// go straight to the store.
type EventComponents struct {
	Recorder eventprocessor.Recorder
	Ingest   *eventprocessor.Ingest
}

// Shutdown closes the NATS connection and embedded server, if any.
func (c *EventComponents) Shutdown(ctx context.Context) {
	if c != nil && c.Ingest != nil {
		c.Ingest.Shutdown(ctx)
	}
}

// initEvents selects how POST /api/v1/events reaches the store. With NATS
// enabled and compiled in (-tags nats), events are published to JetStream
// and the ingest consumer writes them; otherwise they are appended
// directly.
//
//nolint:gocritic // hugeParam: logger passed by value for zerolog chaining
func initEvents(ctx context.Context, cfg *config.NATSConfig, store eventprocessor.InteractionStore, logger zerolog.Logger) (*EventComponents, error) {
	if cfg.Enabled {
		ingestCfg, err := eventprocessor.IngestConfigFrom(cfg)
		if err != nil {
			return nil, err
		}
		ingest, err := eventprocessor.InitIngest(ctx, &ingestCfg, store, logger)
		switch {
		case err == nil:
			logger.Info().
				Str("topic", cfg.Topic).
				Bool("embedded", cfg.EmbeddedServer).
				Msg("Interaction events routed through NATS JetStream")
			return &EventComponents{Recorder: ingest.Recorder(), Ingest: ingest}, nil
		case errors.Is(err, eventprocessor.ErrNATSNotEnabled):
			logger.Warn().Msg("NATS_ENABLED=true but NATS support not compiled (build with -tags nats); writing events directly")
		default:
			return nil, fmt.Errorf("init NATS ingest: %w", err)
		}
	}

	direct, err := eventprocessor.NewDirectRecorder(store)
	if err != nil {
		return nil, err
	}
	logger.Info().Msg("Interaction events written directly to the event store")
	return &EventComponents{Recorder: direct}, nil
}
