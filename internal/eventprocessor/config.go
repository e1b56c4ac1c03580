// Shopsense - Product Query Interpretation and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shopsense

package eventprocessor

import (
	"fmt"
	"time"

	"github.com/tomtom215/shopsense/internal/config"
)

const (
	defaultStreamName  = "INTERACTIONS"
	defaultPoisonTopic = "shopsense.interactions.poison"

	// maxInteractionBytes bounds a single encoded event on the wire.
	maxInteractionBytes = 1 << 20
)

// IngestConfig is everything InitIngest needs, derived from the
// application's nats section.
type IngestConfig struct {
	Embedded bool
	URL      string
	Topic    string

	Conn     ConnConfig
	Server   ServerConfig
	Stream   StreamConfig
	Consumer ConsumerConfig
	Retry    RetryConfig
}

// ConnConfig is shared by every client connection ingestion opens.
type ConnConfig struct {
	Name            string
	MaxReconnects   int // -1 retries forever
	ReconnectWait   time.Duration
	ReconnectBuffer int
}

// ServerConfig describes the embedded server. Port -1 picks a free port.
type ServerConfig struct {
	Host       string
	Port       int
	StoreDir   string
	MaxMemory  int64
	MaxStore   int64
	MaxPayload int32
}

// StreamConfig is the JetStream stream holding interactions and their
// poison queue.
type StreamConfig struct {
	Name            string
	Subjects        []string
	MaxAge          time.Duration
	MaxBytes        int64
	MaxMsgs         int64
	DuplicateWindow time.Duration
	Replicas        int
}

// ConsumerConfig is the durable queue subscription that feeds the store.
type ConsumerConfig struct {
	Durable       string
	QueueGroup    string
	Workers       int
	AckWait       time.Duration
	MaxDeliver    int
	MaxAckPending int
	CloseTimeout  time.Duration
}

// RetryConfig drives the consumer's backoff. Messages still failing after
// Attempts are moved to PoisonTopic, or dropped when it is empty.
type RetryConfig struct {
	Attempts     int
	Initial      time.Duration
	Max          time.Duration
	Multiplier   float64
	PoisonTopic  string
	CloseTimeout time.Duration
}

// DefaultIngestConfig returns production settings for topic.
func DefaultIngestConfig(topic string) IngestConfig {
	return IngestConfig{
		Topic: topic,
		Conn: ConnConfig{
			Name:            "shopsense-ingest",
			MaxReconnects:   -1,
			ReconnectWait:   2 * time.Second,
			ReconnectBuffer: 8 << 20,
		},
		Server: ServerConfig{
			Host:       "127.0.0.1",
			Port:       4222,
			StoreDir:   "/data/nats/jetstream",
			MaxMemory:  1 << 30,
			MaxStore:   10 << 30,
			MaxPayload: maxInteractionBytes,
		},
		Stream: StreamConfig{
			Name:            defaultStreamName,
			Subjects:        streamSubjects(topic, defaultPoisonTopic),
			MaxAge:          7 * 24 * time.Hour,
			MaxBytes:        2 << 30,
			MaxMsgs:         -1,
			DuplicateWindow: 2 * time.Minute,
			Replicas:        1,
		},
		Consumer: ConsumerConfig{
			Durable:       "interaction-ingest",
			QueueGroup:    "ingest",
			Workers:       1,
			AckWait:       30 * time.Second,
			MaxDeliver:    5,
			MaxAckPending: 1000,
			CloseTimeout:  30 * time.Second,
		},
		Retry: RetryConfig{
			Attempts:     5,
			Initial:      time.Second,
			Max:          time.Minute,
			Multiplier:   2,
			PoisonTopic:  defaultPoisonTopic,
			CloseTimeout: 30 * time.Second,
		},
	}
}

// streamSubjects lists topic and, when distinct, the poison topic.
func streamSubjects(topic, poison string) []string {
	if poison == "" || poison == topic {
		return []string{topic}
	}
	return []string{topic, poison}
}

// IngestConfigFrom overlays the nats config section on DefaultIngestConfig.
// Zero values keep the default, except the poison topic where empty
// disables the poison queue.
func IngestConfigFrom(cfg *config.NATSConfig) (IngestConfig, error) {
	if cfg == nil || cfg.Topic == "" {
		return IngestConfig{}, fmt.Errorf("%w: nats topic is required", ErrInvalidConfig)
	}

	out := DefaultIngestConfig(cfg.Topic)
	out.Embedded = cfg.EmbeddedServer
	out.URL = cfg.URL

	override(&out.Server.StoreDir, cfg.StoreDir)
	override(&out.Server.MaxMemory, cfg.MaxMemory)
	override(&out.Server.MaxStore, cfg.MaxStore)
	if cfg.StreamRetentionDays > 0 {
		out.Stream.MaxAge = time.Duration(cfg.StreamRetentionDays) * 24 * time.Hour
	}

	override(&out.Consumer.Durable, cfg.DurableName)
	override(&out.Consumer.QueueGroup, cfg.QueueGroup)
	override(&out.Consumer.Workers, cfg.SubscribersCount)

	out.Retry.PoisonTopic = cfg.RouterPoisonQueueTopic
	out.Stream.Subjects = streamSubjects(cfg.Topic, cfg.RouterPoisonQueueTopic)
	if cfg.RouterRetryCount >= 0 {
		out.Retry.Attempts = cfg.RouterRetryCount
	}
	if cfg.RouterRetryInitialInterval > 0 {
		out.Retry.Initial = cfg.RouterRetryInitialInterval
		out.Retry.Max = 10 * cfg.RouterRetryInitialInterval
	}
	override(&out.Retry.CloseTimeout, cfg.RouterCloseTimeout)

	return out, nil
}

func override[T comparable](dst *T, v T) {
	var zero T
	if v != zero {
		*dst = v
	}
}
