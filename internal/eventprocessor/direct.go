// Shopsense - Product Query Interpretation and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shopsense

package eventprocessor

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/tomtom215/shopsense/internal/recommend"
)

// DirectRecorder writes events straight to the store. It is the Recorder
// used when NATS ingestion is disabled.
type DirectRecorder struct {
	store InteractionStore
	now   func() time.Time
}

// NewDirectRecorder creates a recorder appending to store.
func NewDirectRecorder(store InteractionStore) (*DirectRecorder, error) {
	if store == nil {
		return nil, errors.New("interaction store required")
	}
	return &DirectRecorder{store: store, now: time.Now}, nil
}

// Record validates ev, stamps it if it has no timestamp and appends it under
// a fresh id.
func (d *DirectRecorder) Record(ctx context.Context, ev recommend.Event) error {
	if err := validateInteraction(&ev); err != nil {
		return err
	}
	if ev.Timestamp.IsZero() {
		ev.Timestamp = d.now().UTC()
	}
	if _, err := d.store.Append(ctx, uuid.NewString(), ev); err != nil {
		return fmt.Errorf("append interaction: %w", err)
	}
	return nil
}

var _ Recorder = (*DirectRecorder)(nil)
