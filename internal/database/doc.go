// Shopsense - Product Query Interpretation and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shopsense

// Package database stores the interaction event log in DuckDB.
//
// The log is append-only. Each row is one view, add-to-cart, or purchase
// together with the weight it contributes to the recommendation matrix.
// Rows are keyed by an id supplied by the caller (the stream message UUID
// when events arrive over NATS), so a redelivered message inserts nothing.
//
// *DB implements recommend.EventSource; the recommendation engine reads
// the log through Interactions on every training run.
//
// Files:
//   - database.go: connection lifecycle and pool configuration
//   - schema.go: table and index creation
//   - interactions.go: append, batch append, and filtered reads
//   - errors.go: sentinel errors and close helpers
//
// Filter clauses are assembled with the query subpackage's WhereBuilder,
// which keeps every value parameterized.
package database
