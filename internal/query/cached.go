// Shopsense - Product Query Interpretation and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shopsense

package query

import (
	"context"
	"encoding/hex"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/blake2b"

	"github.com/tomtom215/shopsense/internal/cache"
	"github.com/tomtom215/shopsense/internal/metrics"
)

// Cached memoizes another interpreter's predicates in a cache.Store. Cache
// errors are logged and the query is parsed directly. Predicates missing a
// pass because of a failed dependency are returned but not stored.
type Cached struct {
	next   Interpreter
	store  cache.Store
	ttl    time.Duration
	logger zerolog.Logger
}

// NewCached wraps next.
//
//nolint:gocritic // hugeParam: logger passed by value for zerolog chaining
func NewCached(next Interpreter, store cache.Store, ttl time.Duration, logger zerolog.Logger) *Cached {
	return &Cached{
		next:   next,
		store:  store,
		ttl:    ttl,
		logger: logger.With().Str("component", "query_cache").Str("backend", store.Name()).Logger(),
	}
}

// Mode implements Interpreter.
func (c *Cached) Mode() string { return c.next.Mode() }

// Version implements Interpreter.
func (c *Cached) Version() string { return c.next.Version() }

// Parse implements Interpreter.
func (c *Cached) Parse(ctx context.Context, query string) Predicate {
	key := c.key(query)

	if data, ok, err := c.store.Get(ctx, key); err != nil {
		c.logger.Debug().Err(err).Msg("parse cache get failed")
	} else if ok {
		var p Predicate
		if err := json.Unmarshal(data, &p); err == nil {
			metrics.RecordParseCache(true)
			return p
		}
		_ = c.store.Delete(ctx, key)
	}
	metrics.RecordParseCache(false)

	p, complete := c.parseNext(ctx, query)
	if !complete {
		return p
	}
	data, err := json.Marshal(p)
	if err != nil {
		return p
	}
	if err := c.store.Set(ctx, key, data, c.ttl); err != nil {
		c.logger.Debug().Err(err).Msg("parse cache set failed")
	}
	return p
}

// parseNext reports whether the result may be cached. Interpreters that
// cannot tell are assumed complete.
func (c *Cached) parseNext(ctx context.Context, query string) (Predicate, bool) {
	if pp, ok := c.next.(partialParser); ok {
		return pp.parseComplete(ctx, query)
	}
	return c.next.Parse(ctx, query), true
}

// key digests the interpreter version and the query text.
func (c *Cached) key(query string) string {
	h, _ := blake2b.New(16, nil) // only errors on bad size or key
	h.Write([]byte(c.next.Version()))
	h.Write([]byte{0})
	h.Write([]byte(query))
	return "parse:" + hex.EncodeToString(h.Sum(nil))
}
