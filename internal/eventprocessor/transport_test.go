// Shopsense - Product Query Interpretation and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shopsense

//go:build nats

package eventprocessor

import (
	"context"
	"errors"
	"testing"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/nats-io/nats.go/jetstream"
)

func TestSubscriberConfig(t *testing.T) {
	t.Parallel()

	cfg := DefaultIngestConfig("shopsense.interactions")
	cfg.Consumer.Workers = 3
	got := subscriberConfig(&cfg, "nats://127.0.0.1:4222", watermill.NopLogger{})

	if got.URL != "nats://127.0.0.1:4222" {
		t.Errorf("URL = %q", got.URL)
	}
	if got.SubscribersCount != 3 || got.QueueGroupPrefix != "ingest" {
		t.Errorf("SubscribersCount = %d, QueueGroupPrefix = %q", got.SubscribersCount, got.QueueGroupPrefix)
	}
	if got.JetStream.AutoProvision {
		t.Error("AutoProvision = true, want false for a bound stream")
	}
	if got.JetStream.DurablePrefix != "interaction-ingest" {
		t.Errorf("DurablePrefix = %q", got.JetStream.DurablePrefix)
	}
	if len(got.JetStream.SubscribeOptions) != 5 {
		t.Errorf("SubscribeOptions = %d, want 5", len(got.JetStream.SubscribeOptions))
	}
}

func TestPublisherConfig(t *testing.T) {
	t.Parallel()

	cfg := DefaultIngestConfig("t")
	got := publisherConfig("nats://x", &cfg.Conn, watermill.NopLogger{})
	if !got.JetStream.TrackMsgId {
		t.Error("TrackMsgId = false, want true")
	}
	if got.JetStream.AutoProvision || got.JetStream.Disabled {
		t.Errorf("JetStream = %+v, want enabled without provisioning", got.JetStream)
	}
}

func TestConnOptions_ReconnectBuffer(t *testing.T) {
	t.Parallel()

	cfg := DefaultIngestConfig("t").Conn
	with := len(connOptions(&cfg, "publisher", watermill.NopLogger{}))
	cfg.ReconnectBuffer = 0
	without := len(connOptions(&cfg, "publisher", watermill.NopLogger{}))
	if with != without+1 {
		t.Errorf("options with buffer = %d, without = %d", with, without)
	}
}

func TestStreamSpec(t *testing.T) {
	t.Parallel()

	cfg := DefaultIngestConfig("shopsense.interactions").Stream
	got := streamSpec(&cfg)
	if got.Retention != jetstream.LimitsPolicy || got.Storage != jetstream.FileStorage || got.Discard != jetstream.DiscardOld {
		t.Errorf("policy = %v/%v/%v", got.Retention, got.Storage, got.Discard)
	}
	if got.Duplicates != cfg.DuplicateWindow || got.MaxAge != cfg.MaxAge {
		t.Errorf("Duplicates = %v, MaxAge = %v", got.Duplicates, got.MaxAge)
	}
}

type failingStreams struct{ err error }

func (f failingStreams) CreateOrUpdateStream(context.Context, jetstream.StreamConfig) (jetstream.Stream, error) {
	return nil, f.err
}

func TestEnsureStream_Errors(t *testing.T) {
	t.Parallel()

	cfg := DefaultIngestConfig("t").Stream
	if _, err := ensureStream(context.Background(), nil, &cfg); err == nil {
		t.Error("ensureStream(nil) error = nil, want error")
	}

	boom := errors.New("boom")
	if _, err := ensureStream(context.Background(), failingStreams{boom}, &cfg); !errors.Is(err, boom) {
		t.Errorf("ensureStream() error = %v, want %v", err, boom)
	}
}

func TestNewIngestRouter(t *testing.T) {
	t.Parallel()

	cfg := DefaultIngestConfig("t").Retry
	router, err := newIngestRouter(&cfg, nil, watermill.NopLogger{})
	if err != nil {
		t.Fatalf("newIngestRouter() error = %v", err)
	}
	if router == nil {
		t.Fatal("newIngestRouter() = nil")
	}
	if got := len(router.Handlers()); got != 0 {
		t.Errorf("Handlers() = %d, want 0", got)
	}
}

func TestServerOptions(t *testing.T) {
	t.Parallel()

	cfg := DefaultIngestConfig("t").Server
	cfg.Port = -1
	got := serverOptions(&cfg)
	if !got.JetStream || got.Port != -1 || got.MaxPayload != maxInteractionBytes {
		t.Errorf("serverOptions() = JetStream %v, Port %d, MaxPayload %d", got.JetStream, got.Port, got.MaxPayload)
	}
}
