// Shopsense - Product Query Interpretation and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shopsense

package eventprocessor

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/tomtom215/shopsense/internal/recommend"
)

func TestDirectRecorder(t *testing.T) {
	t.Parallel()

	if _, err := NewDirectRecorder(nil); err == nil {
		t.Error("NewDirectRecorder(nil) expected error")
	}

	store := newMemStore()
	rec, err := NewDirectRecorder(store)
	if err != nil {
		t.Fatalf("NewDirectRecorder() error = %v", err)
	}
	fixed := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	rec.now = func() time.Time { return fixed }

	ev := recommend.Event{UserID: "U", ProductID: "P1", Kind: recommend.KindView}
	if err := rec.Record(context.Background(), ev); err != nil {
		t.Fatalf("Record() error = %v", err)
	}
	if err := rec.Record(context.Background(), ev); err != nil {
		t.Fatalf("Record() second call error = %v", err)
	}
	if store.len() != 2 {
		t.Errorf("store has %d events, want 2 (each Record gets its own id)", store.len())
	}
	for _, got := range store.events {
		if !got.Timestamp.Equal(fixed) {
			t.Errorf("Timestamp = %v, want %v", got.Timestamp, fixed)
		}
	}

	err = rec.Record(context.Background(), recommend.Event{UserID: "U", ProductID: "P1", Kind: "like"})
	if !errors.Is(err, ErrInvalidPayload) {
		t.Errorf("Record(invalid kind) error = %v, want ErrInvalidPayload", err)
	}

	store.err = errors.New("disk full")
	if err := rec.Record(context.Background(), ev); err == nil || errors.Is(err, ErrInvalidPayload) {
		t.Errorf("Record() with failing store error = %v, want storage error", err)
	}
}
