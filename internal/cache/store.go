// Shopsense - Product Query Interpretation and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shopsense

package cache

import (
	"context"
	"time"
)

// Store is a byte-valued cache with per-entry TTL. LRU serves a single
// node; Redis is shared between replicas.
type Store interface {
	// Get returns the value and true if the key is present and not expired.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores value under key. A non-positive ttl uses the store default.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Name identifies the backend in logs.
	Name() string
}

// Stats is a point-in-time counter snapshot.
type Stats struct {
	Hits      int64
	Misses    int64
	TotalKeys int64
}

// HitRate returns hits as a percentage of lookups, or 0 before any.
func (s Stats) HitRate() float64 {
	if lookups := s.Hits + s.Misses; lookups > 0 {
		return 100 * float64(s.Hits) / float64(lookups)
	}
	return 0
}

var (
	_ Store = (*LRU)(nil)
	_ Store = (*Redis)(nil)
)
