// Shopsense - Product Query Interpretation and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shopsense

package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/tomtom215/shopsense/internal/database/query"
	"github.com/tomtom215/shopsense/internal/logging"
	"github.com/tomtom215/shopsense/internal/metrics"
	"github.com/tomtom215/shopsense/internal/recommend"
)

const insertInteraction = `INSERT INTO interactions (
		id, user_id, product_id, interaction_type, weight, occurred_at
	) VALUES (?, ?, ?, ?, ?, ?) ON CONFLICT DO NOTHING`

// InteractionFilter narrows QueryInteractions. Zero fields are ignored.
type InteractionFilter struct {
	Since  time.Time
	Until  time.Time
	UserID string
	Kinds  []string
	Limit  int
}

// Append stores one event. An empty id is replaced with a new UUID; a
// repeated id is ignored and reported as not inserted, which makes
// redelivered messages harmless. A zero timestamp is set to now.
//
//nolint:gocritic // hugeParam: Event passed by value to keep the caller's copy untouched
func (db *DB) Append(ctx context.Context, id string, ev recommend.Event) (inserted bool, err error) {
	if err := validateEvent(&ev); err != nil {
		return false, err
	}
	if id == "" {
		id = uuid.NewString()
	}
	if ev.Timestamp.IsZero() {
		ev.Timestamp = db.now()
	}

	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	start := time.Now()
	res, err := db.conn.ExecContext(ctx, insertInteraction,
		id, ev.UserID, ev.ProductID, string(ev.Kind), int(ev.Kind.Weight()), ev.Timestamp.UTC())
	metrics.RecordDBQuery("insert", tableInteractions, time.Since(start), err)
	if err != nil {
		return false, fmt.Errorf("insert interaction: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return true, nil
	}
	return n > 0, nil
}

// AppendBatch stores events in one transaction. Invalid events are skipped
// and counted; the batch fails only on a storage error.
func (db *DB) AppendBatch(ctx context.Context, events []recommend.Event) (inserted, skipped int, err error) {
	if len(events) == 0 {
		return 0, 0, nil
	}
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	start := time.Now()
	defer func() {
		metrics.RecordDBQuery("insert_batch", tableInteractions, time.Since(start), err)
	}()

	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				logging.Error().
					Err(rbErr).
					AnErr("original_error", err).
					Msg("Transaction rollback failed")
			}
		}
	}()

	stmt, err := tx.PrepareContext(ctx, insertInteraction)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer closeWithLog(stmt, "prepared statement")

	now := db.now()
	for i := range events {
		ev := events[i]
		if validateEvent(&ev) != nil {
			skipped++
			continue
		}
		if ev.Timestamp.IsZero() {
			ev.Timestamp = now
		}
		if _, err = stmt.ExecContext(ctx,
			uuid.NewString(), ev.UserID, ev.ProductID, string(ev.Kind), int(ev.Kind.Weight()), ev.Timestamp.UTC()); err != nil {
			return 0, 0, fmt.Errorf("insert interaction %d: %w", i, err)
		}
		inserted++
	}

	if err = tx.Commit(); err != nil {
		return 0, 0, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return inserted, skipped, nil
}

// Interactions implements recommend.EventSource. It returns every event at
// or after since, oldest first.
func (db *DB) Interactions(ctx context.Context, since time.Time) ([]recommend.Event, error) {
	return db.QueryInteractions(ctx, InteractionFilter{Since: since})
}

// QueryInteractions returns events matching f, oldest first.
//
//nolint:gocritic // hugeParam: filter passed by value for immutability
func (db *DB) QueryInteractions(ctx context.Context, f InteractionFilter) ([]recommend.Event, error) {
	wb := query.NewWhereBuilder().
		AddTimeRange("occurred_at", utcPtr(f.Since), utcPtr(f.Until)).
		AddEquals("user_id", f.UserID).
		AddIn("interaction_type", f.Kinds)
	where, args := wb.BuildWithPrefix()

	q := "SELECT user_id, product_id, interaction_type, occurred_at FROM interactions " +
		where + " ORDER BY occurred_at, id"
	if f.Limit > 0 {
		q += " LIMIT ?"
		args = append(args, f.Limit)
	}

	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	start := time.Now()
	rows, err := db.conn.QueryContext(ctx, q, args...)
	if err != nil {
		metrics.RecordDBQuery("select", tableInteractions, time.Since(start), err)
		return nil, fmt.Errorf("query interactions: %w", err)
	}
	defer closeWithLog(rows, "rows")

	events, err := scanEvents(rows)
	metrics.RecordDBQuery("select", tableInteractions, time.Since(start), err)
	return events, err
}

// CountByKind returns the number of stored events per interaction type.
func (db *DB) CountByKind(ctx context.Context) (map[string]int64, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	start := time.Now()
	rows, err := db.conn.QueryContext(ctx,
		"SELECT interaction_type, COUNT(*) FROM interactions GROUP BY interaction_type")
	if err != nil {
		metrics.RecordDBQuery("count", tableInteractions, time.Since(start), err)
		return nil, fmt.Errorf("count interactions: %w", err)
	}
	defer closeWithLog(rows, "rows")

	counts := make(map[string]int64)
	for rows.Next() {
		var kind string
		var n int64
		if err := rows.Scan(&kind, &n); err != nil {
			return nil, fmt.Errorf("scan count: %w", err)
		}
		counts[kind] = n
	}
	err = rows.Err()
	metrics.RecordDBQuery("count", tableInteractions, time.Since(start), err)
	return counts, err
}

func scanEvents(rows *sql.Rows) ([]recommend.Event, error) {
	var events []recommend.Event
	for rows.Next() {
		var ev recommend.Event
		var kind string
		if err := rows.Scan(&ev.UserID, &ev.ProductID, &kind, &ev.Timestamp); err != nil {
			return nil, fmt.Errorf("scan interaction: %w", err)
		}
		ev.Kind = recommend.InteractionKind(kind)
		events = append(events, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate interactions: %w", err)
	}
	return events, nil
}

func validateEvent(ev *recommend.Event) error {
	if ev.UserID == "" || ev.ProductID == "" {
		return fmt.Errorf("%w: userId and productId are required", ErrInvalidEvent)
	}
	if !ev.Kind.Valid() {
		return fmt.Errorf("%w: unknown interaction type %q", ErrInvalidEvent, ev.Kind)
	}
	return nil
}

func utcPtr(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	u := t.UTC()
	return &u
}

var _ recommend.EventSource = (*DB)(nil)
