// Shopsense - Product Query Interpretation and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shopsense

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"time"

	_ "github.com/duckdb/duckdb-go/v2"

	"github.com/tomtom215/shopsense/internal/config"
	"github.com/tomtom215/shopsense/internal/logging"
)

const (
	memoryPath          = ":memory:"
	defaultMaxMemory    = "1GB"
	defaultQueryTimeout = 30 * time.Second
)

// DB wraps the DuckDB connection holding the interaction event log.
type DB struct {
	conn *sql.DB
	cfg  *config.DatabaseConfig
	now  func() time.Time
}

// dsn builds the DuckDB connection string. Extension autoloading is off so
// the server never reaches the network on open.
func dsn(cfg *config.DatabaseConfig) (conn string, threads int, maxMemory string) {
	threads = cfg.Threads
	if threads <= 0 {
		threads = runtime.NumCPU()
	}
	maxMemory = cfg.MaxMemory
	if maxMemory == "" {
		maxMemory = defaultMaxMemory
	}
	q := url.Values{}
	q.Set("access_mode", "read_write")
	q.Set("threads", strconv.Itoa(threads))
	q.Set("max_memory", maxMemory)
	q.Set("autoinstall_known_extensions", "false")
	q.Set("autoload_known_extensions", "false")
	return cfg.Path + "?" + q.Encode(), threads, maxMemory
}

// New opens (or creates) the database at cfg.Path and ensures the schema.
// ":memory:" opens a private in-memory database.
func New(cfg *config.DatabaseConfig) (*DB, error) {
	if cfg == nil {
		return nil, errors.New("database config is required")
	}
	if dir := filepath.Dir(cfg.Path); cfg.Path != memoryPath && dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, fmt.Errorf("create database directory %s: %w", dir, err)
		}
	}

	connStr, threads, maxMemory := dsn(cfg)
	conn, err := sql.Open("duckdb", connStr)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	sizePool(conn, cfg.Path == memoryPath)

	db := &DB{conn: conn, cfg: cfg, now: time.Now}
	ctx, cancel := context.WithTimeout(context.Background(), defaultQueryTimeout)
	defer cancel()
	if err := db.initialize(ctx); err != nil {
		closeQuietly(conn)
		return nil, fmt.Errorf("initialize database: %w", err)
	}

	logging.Info().
		Str("path", cfg.Path).
		Int("threads", threads).
		Str("max_memory", maxMemory).
		Msg("event store ready")
	return db, nil
}

// sizePool pins an in-memory database to one connection, since each
// connection would otherwise see its own empty database.
func sizePool(conn *sql.DB, inMemory bool) {
	if inMemory {
		conn.SetMaxOpenConns(1)
		conn.SetMaxIdleConns(1)
		conn.SetConnMaxLifetime(0)
		return
	}
	conn.SetMaxOpenConns(runtime.NumCPU())
	conn.SetMaxIdleConns(2)
	conn.SetConnMaxLifetime(time.Hour)
	conn.SetConnMaxIdleTime(5 * time.Minute)
}

// Conn returns the underlying pool.
func (db *DB) Conn() *sql.DB { return db.conn }

// Ping checks that the connection is alive.
func (db *DB) Ping(ctx context.Context) error {
	if db.conn == nil {
		return errors.New("database connection is nil")
	}
	return db.conn.PingContext(ctx)
}

// Checkpoint flushes the WAL into the database file.
func (db *DB) Checkpoint(ctx context.Context) error {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()
	if _, err := db.conn.ExecContext(ctx, "CHECKPOINT"); err != nil {
		return fmt.Errorf("checkpoint: %w", err)
	}
	return nil
}

// Close checkpoints, logging a failure, and closes the pool.
func (db *DB) Close() error {
	if db.conn == nil {
		return nil
	}
	if err := db.Checkpoint(context.Background()); err != nil {
		logging.Warn().Err(err).Msg("Checkpoint before close failed")
	}
	return db.conn.Close()
}

// ensureContext bounds ctx by the configured query timeout unless it
// already carries a deadline.
func (db *DB) ensureContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if ctx == nil {
		ctx = context.Background()
	}
	if _, ok := ctx.Deadline(); ok {
		return ctx, func() {}
	}
	timeout := db.cfg.QueryTimeout
	if timeout <= 0 {
		timeout = defaultQueryTimeout
	}
	return context.WithTimeout(ctx, timeout)
}
