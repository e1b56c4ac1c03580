// Shopsense - Product Query Interpretation and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shopsense

//go:build !nats

package eventprocessor

import (
	"context"

	"github.com/rs/zerolog"
)

// Ingest is a stub when NATS dependencies are not compiled in.
// Build with -tags=nats to enable ingestion.
type Ingest struct{}

// InitIngest returns ErrNATSNotEnabled.
//
//nolint:gocritic // hugeParam: logger passed by value for zerolog chaining
func InitIngest(_ context.Context, _ *IngestConfig, _ InteractionStore, _ zerolog.Logger) (*Ingest, error) {
	return nil, ErrNATSNotEnabled
}

// Recorder returns nil for the stub.
func (in *Ingest) Recorder() Recorder {
	return nil
}

// Serve blocks until ctx is canceled.
func (in *Ingest) Serve(ctx context.Context) error {
	<-ctx.Done()
	return ctx.Err()
}

// String names the service in supervisor logs.
func (in *Ingest) String() string {
	return "interaction-ingest"
}

// Stats returns zero counters for the stub.
func (in *Ingest) Stats() IngestStats {
	return IngestStats{}
}

// Shutdown is a no-op stub.
func (in *Ingest) Shutdown(_ context.Context) {}
