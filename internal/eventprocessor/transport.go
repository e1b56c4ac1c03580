// Shopsense - Product Query Interpretation and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shopsense

//go:build nats

package eventprocessor

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	wmNats "github.com/ThreeDotsLabs/watermill-nats/v2/pkg/nats"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	"github.com/nats-io/nats-server/v2/server"
	natsgo "github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
)

const serverReadyTimeout = 30 * time.Second

// connOptions returns client options for one ingestion connection. role
// suffixes the client name so connections can be told apart in the
// server's connz output.
func connOptions(cfg *ConnConfig, role string, logger watermill.LoggerAdapter) []natsgo.Option {
	fields := watermill.LogFields{"role": role}
	opts := []natsgo.Option{
		natsgo.Name(cfg.Name + "-" + role),
		natsgo.RetryOnFailedConnect(true),
		natsgo.MaxReconnects(cfg.MaxReconnects),
		natsgo.ReconnectWait(cfg.ReconnectWait),
		natsgo.DisconnectErrHandler(func(_ *natsgo.Conn, err error) {
			if err != nil {
				logger.Error("NATS disconnected", err, fields)
			}
		}),
		natsgo.ReconnectHandler(func(nc *natsgo.Conn) {
			logger.Info("NATS reconnected", fields.Add(watermill.LogFields{"url": nc.ConnectedUrl()}))
		}),
	}
	if cfg.ReconnectBuffer > 0 {
		opts = append(opts, natsgo.ReconnectBufSize(cfg.ReconnectBuffer))
	}
	return opts
}

// publisherConfig publishes into the pre-created stream. TrackMsgId sets
// Nats-Msg-Id to the message UUID so the stream's duplicate window drops
// client retries.
func publisherConfig(url string, cfg *ConnConfig, logger watermill.LoggerAdapter) wmNats.PublisherConfig {
	return wmNats.PublisherConfig{
		URL:         url,
		NatsOptions: connOptions(cfg, "publisher", logger),
		Marshaler:   &wmNats.NATSMarshaler{},
		JetStream: wmNats.JetStreamConfig{
			TrackMsgId: true,
			PublishOptions: []natsgo.PubOpt{
				natsgo.RetryAttempts(3),
				natsgo.RetryWait(100 * time.Millisecond),
			},
		},
	}
}

// subscriberConfig binds a durable queue consumer to the interaction
// stream instead of letting Watermill provision one per topic.
func subscriberConfig(cfg *IngestConfig, url string, logger watermill.LoggerAdapter) wmNats.SubscriberConfig {
	c := cfg.Consumer
	return wmNats.SubscriberConfig{
		URL:              url,
		QueueGroupPrefix: c.QueueGroup,
		SubscribersCount: c.Workers,
		AckWaitTimeout:   c.AckWait,
		CloseTimeout:     c.CloseTimeout,
		NatsOptions:      connOptions(&cfg.Conn, "consumer", logger),
		Unmarshaler:      &wmNats.NATSMarshaler{},
		JetStream: wmNats.JetStreamConfig{
			DurablePrefix: c.Durable,
			SubscribeOptions: []natsgo.SubOpt{
				natsgo.BindStream(cfg.Stream.Name),
				natsgo.DeliverAll(),
				natsgo.AckWait(c.AckWait),
				natsgo.MaxDeliver(c.MaxDeliver),
				natsgo.MaxAckPending(c.MaxAckPending),
			},
		},
	}
}

// newIngestRouter wires poison queue, retry and panic recovery around
// every handler, outermost first. A nil poison publisher or empty topic
// leaves failed messages unacknowledged for JetStream redelivery.
func newIngestRouter(cfg *RetryConfig, poison message.Publisher, logger watermill.LoggerAdapter) (*message.Router, error) {
	router, err := message.NewRouter(message.RouterConfig{CloseTimeout: cfg.CloseTimeout}, logger)
	if err != nil {
		return nil, fmt.Errorf("create watermill router: %w", err)
	}

	if poison != nil && cfg.PoisonTopic != "" {
		pq, err := middleware.PoisonQueue(poison, cfg.PoisonTopic)
		if err != nil {
			return nil, fmt.Errorf("create poison queue middleware: %w", err)
		}
		router.AddMiddleware(pq)
	}

	backoff := middleware.Retry{
		MaxRetries:      cfg.Attempts,
		InitialInterval: cfg.Initial,
		MaxInterval:     cfg.Max,
		Multiplier:      cfg.Multiplier,
		Logger:          logger,
	}
	router.AddMiddleware(backoff.Middleware, middleware.Recoverer)
	return router, nil
}

// streamSpec keeps interactions on disk under limits retention, discarding
// the oldest once a limit is hit.
func streamSpec(cfg *StreamConfig) jetstream.StreamConfig {
	return jetstream.StreamConfig{
		Name:       cfg.Name,
		Subjects:   cfg.Subjects,
		Retention:  jetstream.LimitsPolicy,
		Storage:    jetstream.FileStorage,
		Discard:    jetstream.DiscardOld,
		MaxAge:     cfg.MaxAge,
		MaxBytes:   cfg.MaxBytes,
		MaxMsgs:    cfg.MaxMsgs,
		Duplicates: cfg.DuplicateWindow,
		Replicas:   cfg.Replicas,
	}
}

type streamCreator interface {
	CreateOrUpdateStream(ctx context.Context, cfg jetstream.StreamConfig) (jetstream.Stream, error)
}

// ensureStream creates the stream or brings an existing one in line with
// cfg, so retention changes apply on restart.
func ensureStream(ctx context.Context, js streamCreator, cfg *StreamConfig) (*jetstream.StreamInfo, error) {
	if js == nil {
		return nil, errors.New("JetStream context required")
	}
	stream, err := js.CreateOrUpdateStream(ctx, streamSpec(cfg))
	if err != nil {
		return nil, fmt.Errorf("ensure stream %s: %w", cfg.Name, err)
	}
	return stream.CachedInfo(), nil
}

func serverOptions(cfg *ServerConfig) *server.Options {
	return &server.Options{
		ServerName:         "shopsense-events",
		Host:               cfg.Host,
		Port:               cfg.Port,
		JetStream:          true,
		StoreDir:           cfg.StoreDir,
		JetStreamMaxMemory: cfg.MaxMemory,
		JetStreamMaxStore:  cfg.MaxStore,
		MaxPayload:         cfg.MaxPayload,
		NoLog:              true,
		NoSigs:             true,
	}
}

// startEmbeddedServer runs an in-process JetStream server and waits until
// it accepts clients.
func startEmbeddedServer(cfg *ServerConfig) (*server.Server, error) {
	ns, err := server.NewServer(serverOptions(cfg))
	if err != nil {
		return nil, fmt.Errorf("create NATS server: %w", err)
	}
	go ns.Start()

	if !ns.ReadyForConnections(serverReadyTimeout) {
		ns.Shutdown()
		return nil, fmt.Errorf("NATS server not ready after %s", serverReadyTimeout)
	}
	return ns, nil
}

// stopEmbeddedServer shuts ns down and waits for it to exit or ctx to end.
func stopEmbeddedServer(ctx context.Context, ns *server.Server) error {
	ns.Shutdown()
	done := make(chan struct{})
	go func() {
		ns.WaitForShutdown()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
