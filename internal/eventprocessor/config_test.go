// Shopsense - Product Query Interpretation and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shopsense

package eventprocessor

import (
	"errors"
	"testing"
	"time"

	"github.com/tomtom215/shopsense/internal/config"
)

func TestStreamSubjects(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		topic  string
		poison string
		want   int
	}{
		{"with poison queue", "a", "a.poison", 2},
		{"no poison queue", "a", "", 1},
		{"same subject", "a", "a", 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := streamSubjects(tt.topic, tt.poison); len(got) != tt.want {
				t.Errorf("streamSubjects() = %v, want %d entries", got, tt.want)
			}
		})
	}
}

func TestDefaultIngestConfig(t *testing.T) {
	t.Parallel()

	cfg := DefaultIngestConfig("shopsense.interactions")
	if cfg.Stream.Subjects[0] != "shopsense.interactions" || cfg.Stream.Subjects[1] != cfg.Retry.PoisonTopic {
		t.Errorf("Subjects = %v, want topic then poison topic", cfg.Stream.Subjects)
	}
	if cfg.Conn.MaxReconnects != -1 {
		t.Errorf("MaxReconnects = %d, want -1", cfg.Conn.MaxReconnects)
	}
	if cfg.Server.MaxPayload != maxInteractionBytes {
		t.Errorf("MaxPayload = %d, want %d", cfg.Server.MaxPayload, maxInteractionBytes)
	}
}

func TestIngestConfigFrom(t *testing.T) {
	t.Parallel()

	cfg := &config.NATSConfig{
		URL:                        "nats://example:4222",
		EmbeddedServer:             true,
		StoreDir:                   "/tmp/js",
		StreamRetentionDays:        3,
		Topic:                      "shopsense.interactions",
		SubscribersCount:           4,
		DurableName:                "durable",
		QueueGroup:                 "queue",
		RouterRetryCount:           0,
		RouterRetryInitialInterval: 50 * time.Millisecond,
		RouterPoisonQueueTopic:     "shopsense.interactions.poison",
	}
	got, err := IngestConfigFrom(cfg)
	if err != nil {
		t.Fatalf("IngestConfigFrom() error = %v", err)
	}

	if !got.Embedded || got.Server.StoreDir != "/tmp/js" {
		t.Errorf("server config = %+v", got.Server)
	}
	if got.Stream.MaxAge != 72*time.Hour {
		t.Errorf("Stream.MaxAge = %v, want 72h", got.Stream.MaxAge)
	}
	if got.Consumer.Durable != "durable" || got.Consumer.QueueGroup != "queue" || got.Consumer.Workers != 4 {
		t.Errorf("consumer config = %+v", got.Consumer)
	}
	if got.Server.MaxMemory != DefaultIngestConfig("x").Server.MaxMemory {
		t.Errorf("Server.MaxMemory = %d, want default", got.Server.MaxMemory)
	}
	if got.Retry.Attempts != 0 {
		t.Errorf("Retry.Attempts = %d, want 0", got.Retry.Attempts)
	}
	if got.Retry.Max != 500*time.Millisecond {
		t.Errorf("Retry.Max = %v, want 500ms", got.Retry.Max)
	}

	noPoison := *cfg
	noPoison.RouterPoisonQueueTopic = ""
	got, err = IngestConfigFrom(&noPoison)
	if err != nil {
		t.Fatalf("IngestConfigFrom(no poison) error = %v", err)
	}
	if got.Retry.PoisonTopic != "" || len(got.Stream.Subjects) != 1 {
		t.Errorf("no poison queue: topic = %q, subjects = %v", got.Retry.PoisonTopic, got.Stream.Subjects)
	}

	if _, err := IngestConfigFrom(&config.NATSConfig{}); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("IngestConfigFrom(empty) error = %v, want ErrInvalidConfig", err)
	}
}
