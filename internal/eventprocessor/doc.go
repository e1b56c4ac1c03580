// Shopsense - Product Query Interpretation and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shopsense

// Package eventprocessor ingests user-product interaction events through
// NATS JetStream using Watermill.
//
// # Flow
//
//	POST /api/v1/events ──► Publisher ──► JetStream (INTERACTIONS)
//	                                            │
//	                                            ▼
//	                         Router [poison queue → retry → recoverer]
//	                                            │
//	                                            ▼
//	                                   IngestHandler ──► DuckDB
//
// Each message carries a UUID that becomes the stored event id, so a
// redelivered message is inserted once. Payloads that fail to decode or
// validate are acknowledged and dropped; store failures are retried with
// exponential backoff and then routed to the poison queue topic.
//
// # Build Tags
//
// The NATS client, the embedded server and the Watermill NATS adapter are
// only compiled with -tags nats. Without it InitIngest returns
// ErrNATSNotEnabled and the API appends events to the store directly. The
// payload codec and IngestHandler are always available.
package eventprocessor
