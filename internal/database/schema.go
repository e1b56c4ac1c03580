// Shopsense - Product Query Interpretation and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shopsense

package database

import (
	"context"
	"fmt"
)

const tableInteractions = "interactions"

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS interactions (
		id VARCHAR PRIMARY KEY,
		user_id VARCHAR NOT NULL,
		product_id VARCHAR NOT NULL,
		interaction_type VARCHAR NOT NULL,
		weight TINYINT NOT NULL,
		occurred_at TIMESTAMP NOT NULL,
		ingested_at TIMESTAMP NOT NULL DEFAULT current_timestamp
	)`,
	`CREATE INDEX IF NOT EXISTS idx_interactions_occurred_at ON interactions (occurred_at)`,
	`CREATE INDEX IF NOT EXISTS idx_interactions_user ON interactions (user_id)`,
}

// initialize creates tables and indexes.
func (db *DB) initialize(ctx context.Context) error {
	for _, stmt := range schemaStatements {
		if _, err := db.conn.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("schema: %w", err)
		}
	}
	return nil
}
