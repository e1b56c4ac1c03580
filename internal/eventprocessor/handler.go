// Shopsense - Product Query Interpretation and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shopsense

package eventprocessor

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"

	"github.com/tomtom215/shopsense/internal/database"
	"github.com/tomtom215/shopsense/internal/logging"
	"github.com/tomtom215/shopsense/internal/metrics"
	"github.com/tomtom215/shopsense/internal/recommend"
)

// InteractionStore persists interaction events under a caller-chosen id.
// Appending an id that already exists is a no-op reporting inserted=false.
type InteractionStore interface {
	Append(ctx context.Context, id string, ev recommend.Event) (inserted bool, err error)
}

// Recorder accepts interaction events for asynchronous storage.
type Recorder interface {
	Record(ctx context.Context, ev recommend.Event) error
}

// IngestStats counts handled messages.
type IngestStats struct {
	Stored     int64
	Duplicates int64
	Rejected   int64
	Failed     int64
}

// IngestHandler stores interaction messages. It is registered with the
// Router as a consumer handler: a returned error triggers retry and, once
// retries are exhausted, the poison queue.
type IngestHandler struct {
	store  InteractionStore
	logger *logging.EventLogger

	stored     atomic.Int64
	duplicates atomic.Int64
	rejected   atomic.Int64
	failed     atomic.Int64
}

// NewIngestHandler creates a handler writing to store.
func NewIngestHandler(store InteractionStore, logger *logging.EventLogger) (*IngestHandler, error) {
	if store == nil {
		return nil, errors.New("interaction store required")
	}
	if logger == nil {
		logger = logging.NewEventLogger()
	}
	return &IngestHandler{store: store, logger: logger}, nil
}

// Handle implements message.NoPublishHandlerFunc.
func (h *IngestHandler) Handle(msg *message.Message) error {
	start := time.Now()
	ctx := msg.Context()
	if id := msg.Metadata.Get(MetadataCorrelationID); id != "" {
		ctx = logging.ContextWithCorrelationID(ctx, id)
	}

	ev, err := DecodeInteraction(msg.Payload)
	if err != nil {
		h.reject(ctx, msg.UUID, start, err)
		return nil
	}
	h.logger.LogEventReceived(ctx, msg.UUID, ev.UserID, string(ev.Kind))

	inserted, err := h.store.Append(ctx, msg.UUID, ev)
	if err != nil {
		if errors.Is(err, database.ErrInvalidEvent) {
			h.reject(ctx, msg.UUID, start, err)
			return nil
		}
		h.failed.Add(1)
		h.logger.LogEventFailed(ctx, msg.UUID, err)
		metrics.RecordNATSConsume(time.Since(start), nil)
		return err
	}

	if inserted {
		h.stored.Add(1)
	} else {
		h.duplicates.Add(1)
	}
	elapsed := time.Since(start)
	metrics.RecordNATSConsume(elapsed, nil)
	h.logger.LogEventProcessed(ctx, msg.UUID, elapsed.Milliseconds())
	return nil
}

func (h *IngestHandler) reject(ctx context.Context, id string, start time.Time, err error) {
	h.rejected.Add(1)
	h.logger.LogEventRejected(ctx, id, err)
	metrics.RecordNATSConsume(time.Since(start), err)
}

// Stats returns a snapshot of the handler counters.
func (h *IngestHandler) Stats() IngestStats {
	return IngestStats{
		Stored:     h.stored.Load(),
		Duplicates: h.duplicates.Load(),
		Rejected:   h.rejected.Load(),
		Failed:     h.failed.Load(),
	}
}

var _ InteractionStore = (*database.DB)(nil)
