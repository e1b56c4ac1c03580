// Shopsense - Product Query Interpretation and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shopsense

package embedding

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"os"

	"github.com/dgraph-io/badger/v4"
)

// ErrSnapshotNotFound is returned by Load when no snapshot exists for the
// requested vocabulary hash.
var ErrSnapshotNotFound = errors.New("embedding: snapshot not found")

const snapshotPrefix = "snapshot/"

// SnapshotStore persists snapshots in Badger, keyed by vocabulary hash.
type SnapshotStore struct {
	db *badger.DB
}

// OpenSnapshotStore opens (or creates) a store at dir. An empty dir opens an
// in-memory store that is lost on Close.
func OpenSnapshotStore(dir string) (*SnapshotStore, error) {
	var opts badger.Options
	if dir == "" {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, fmt.Errorf("create snapshot dir: %w", err)
		}
		opts = badger.DefaultOptions(dir)
	}
	opts = opts.WithLogger(nil)

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open snapshot store: %w", err)
	}
	return &SnapshotStore{db: db}, nil
}

func snapshotKey(vocabHash [32]byte) []byte {
	return []byte(snapshotPrefix + hex.EncodeToString(vocabHash[:]))
}

// Save writes snap, replacing any snapshot with the same vocabulary hash.
func (s *SnapshotStore) Save(ctx context.Context, snap *Snapshot) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := snap.MarshalBinary()
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(snapshotKey(snap.VocabHash), data)
	})
}

// Load returns the snapshot stored for vocabHash.
func (s *SnapshotStore) Load(ctx context.Context, vocabHash [32]byte) (*Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var snap Snapshot
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(snapshotKey(vocabHash))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrSnapshotNotFound
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return snap.UnmarshalBinary(val)
		})
	})
	if err != nil {
		return nil, err
	}
	return &snap, nil
}

// Delete removes the snapshot for vocabHash. Deleting a missing snapshot is
// not an error.
func (s *SnapshotStore) Delete(vocabHash [32]byte) error {
	return s.db.Update(func(txn *badger.Txn) error {
		err := txn.Delete(snapshotKey(vocabHash))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		return err
	})
}

// Close releases the underlying database.
func (s *SnapshotStore) Close() error {
	return s.db.Close()
}
