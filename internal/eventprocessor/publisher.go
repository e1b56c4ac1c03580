// Shopsense - Product Query Interpretation and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shopsense

//go:build nats

package eventprocessor

import (
	"context"
	"fmt"
	"sync"

	"github.com/ThreeDotsLabs/watermill"
	wmNats "github.com/ThreeDotsLabs/watermill-nats/v2/pkg/nats"
	"github.com/ThreeDotsLabs/watermill/message"

	"github.com/tomtom215/shopsense/internal/logging"
	"github.com/tomtom215/shopsense/internal/metrics"
	"github.com/tomtom215/shopsense/internal/recommend"
)

// Publisher enqueues interaction events on the ingest topic.
type Publisher struct {
	mu     sync.RWMutex
	pub    message.Publisher
	topic  string
	events *logging.EventLogger
	closed bool
}

var _ Recorder = (*Publisher)(nil)

func newPublisher(url, topic string, conn *ConnConfig, events *logging.EventLogger, logger watermill.LoggerAdapter) (*Publisher, error) {
	pub, err := wmNats.NewPublisher(publisherConfig(url, conn, logger), logger)
	if err != nil {
		return nil, fmt.Errorf("create watermill publisher: %w", err)
	}
	return &Publisher{pub: pub, topic: topic, events: events}, nil
}

// Record validates ev and publishes it. It returns ErrPublisherClosed
// once Close has been called.
func (p *Publisher) Record(ctx context.Context, ev recommend.Event) error {
	msg, err := NewInteractionMessage(ctx, &ev)
	if err != nil {
		return err
	}

	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return ErrPublisherClosed
	}
	if err := p.pub.Publish(p.topic, msg); err != nil {
		return fmt.Errorf("publish interaction: %w", err)
	}

	metrics.RecordNATSPublish()
	p.events.LogEventPublished(ctx, msg.UUID, p.topic)
	return nil
}

// Close is idempotent.
func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return nil
	}
	p.closed = true
	return p.pub.Close()
}
