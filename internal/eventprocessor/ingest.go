// Shopsense - Product Query Interpretation and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shopsense

//go:build nats

package eventprocessor

import (
	"context"
	"fmt"

	"github.com/ThreeDotsLabs/watermill"
	wmNats "github.com/ThreeDotsLabs/watermill-nats/v2/pkg/nats"
	"github.com/nats-io/nats-server/v2/server"
	natsgo "github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/rs/zerolog"

	"github.com/tomtom215/shopsense/internal/logging"
)

// Ingest owns the NATS side of interaction ingestion: the optional
// embedded server, the stream, the publisher used by the API, and the
// consumer that writes to the store.
type Ingest struct {
	cfg       IngestConfig
	url       string
	server    *server.Server
	conn      *natsgo.Conn
	publisher *Publisher
	handler   *IngestHandler
	events    *logging.EventLogger
	wmLogger  watermill.LoggerAdapter
	logger    zerolog.Logger
}

// InitIngest starts or connects to NATS, ensures the stream exists and
// creates the publisher. Consumption starts with Serve. On error every
// resource opened so far is released.
//
//nolint:gocritic // hugeParam: logger passed by value for zerolog chaining
func InitIngest(ctx context.Context, cfg *IngestConfig, store InteractionStore, logger zerolog.Logger) (in *Ingest, err error) {
	logger = logger.With().Str("component", "ingest").Logger()
	events := logging.NewEventLoggerWithLogger(logger)

	handler, err := NewIngestHandler(store, events)
	if err != nil {
		return nil, err
	}

	in = &Ingest{
		cfg:      *cfg,
		url:      cfg.URL,
		handler:  handler,
		events:   events,
		wmLogger: NewWatermillLogger(logger),
		logger:   logger,
	}
	defer func() {
		if err != nil {
			in.Shutdown(context.Background())
			in = nil
		}
	}()

	if cfg.Embedded {
		if in.server, err = startEmbeddedServer(&in.cfg.Server); err != nil {
			return in, err
		}
		in.url = in.server.ClientURL()
		logger.Info().Str("url", in.url).Msg("Embedded NATS server started")
	}

	if in.conn, err = natsgo.Connect(in.url, connOptions(&in.cfg.Conn, "control", in.wmLogger)...); err != nil {
		return in, fmt.Errorf("connect to NATS: %w", err)
	}
	js, err := jetstream.New(in.conn)
	if err != nil {
		return in, fmt.Errorf("create JetStream context: %w", err)
	}
	info, err := ensureStream(ctx, js, &in.cfg.Stream)
	if err != nil {
		return in, err
	}
	logger.Info().
		Str("name", info.Config.Name).
		Strs("subjects", info.Config.Subjects).
		Dur("max_age", info.Config.MaxAge).
		Uint64("messages", info.State.Msgs).
		Msg("JetStream stream ready")

	in.publisher, err = newPublisher(in.url, cfg.Topic, &in.cfg.Conn, events, in.wmLogger)
	return in, err
}

// Recorder returns the publisher the API uses to enqueue events.
func (in *Ingest) Recorder() Recorder {
	return in.publisher
}

// Serve consumes the interaction topic until ctx is canceled. Each call
// builds its own subscriber and router, so a supervisor can restart it.
func (in *Ingest) Serve(ctx context.Context) error {
	subscriber, err := wmNats.NewSubscriber(subscriberConfig(&in.cfg, in.url, in.wmLogger), in.wmLogger)
	if err != nil {
		return fmt.Errorf("create watermill subscriber: %w", err)
	}
	defer func() {
		if err := subscriber.Close(); err != nil {
			in.logger.Warn().Err(err).Msg("Failed to close subscriber")
		}
	}()

	router, err := newIngestRouter(&in.cfg.Retry, in.publisher.pub, in.wmLogger)
	if err != nil {
		return err
	}
	router.AddConsumerHandler("interaction-ingest", in.cfg.Topic, subscriber, in.handler.Handle)

	in.events.LogSubscriptionStarted(in.cfg.Topic, in.cfg.Consumer.QueueGroup)
	defer in.events.LogSubscriptionStopped(in.cfg.Topic)

	if err := router.Run(ctx); err != nil {
		return fmt.Errorf("ingest router: %w", err)
	}
	return ctx.Err()
}

// String names the service in supervisor logs.
func (in *Ingest) String() string {
	return "interaction-ingest"
}

// Stats returns the consumer counters.
func (in *Ingest) Stats() IngestStats {
	return in.handler.Stats()
}

// Shutdown closes the publisher, the connection and the embedded server,
// in that order.
func (in *Ingest) Shutdown(ctx context.Context) {
	if in.publisher != nil {
		if err := in.publisher.Close(); err != nil {
			in.logger.Warn().Err(err).Msg("Failed to close publisher")
		}
	}
	if in.conn != nil {
		in.conn.Close()
	}
	if in.server != nil {
		if err := stopEmbeddedServer(ctx, in.server); err != nil {
			in.logger.Warn().Err(err).Msg("Embedded NATS server did not stop in time")
		}
	}
}
