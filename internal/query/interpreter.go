// Shopsense - Product Query Interpretation and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shopsense

package query

import (
	"context"
	"strings"
	"sync/atomic"
	"time"

	"github.com/tomtom215/shopsense/internal/metrics"
)

// Interpreter modes reported by Mode.
const (
	ModeSemantic    = "semantic"
	ModePassThrough = "passthrough"
)

// Interpreter turns a search phrase into a Predicate. Parse never fails;
// signals it cannot extract are left unset.
type Interpreter interface {
	Parse(ctx context.Context, query string) Predicate

	// Mode names the implementation.
	Mode() string

	// Version changes whenever the same query could parse differently.
	Version() string
}

// partialParser is implemented by interpreters that know when a pass was
// skipped because a dependency such as the embedder failed.
type partialParser interface {
	parseComplete(ctx context.Context, query string) (Predicate, bool)
}

// PassThrough is the interpreter used when the vocabulary or embedder is
// unavailable. It extracts nothing and returns the raw text split into
// lower-case keywords, so the search layer falls back to full-text
// matching.
type PassThrough struct{}

// Parse implements Interpreter.
func (PassThrough) Parse(_ context.Context, query string) Predicate {
	start := time.Now()
	p := NewPredicate(query)
	p.Keywords = strings.Fields(strings.ToLower(query))
	metrics.RecordParse(ModePassThrough, time.Since(start), nil)
	return p
}

// Mode implements Interpreter.
func (PassThrough) Mode() string { return ModePassThrough }

// Version implements Interpreter.
func (PassThrough) Version() string { return ModePassThrough }

// Live serves whichever Interpreter was stored last. Rebuilding the
// vocabulary or the embedding index publishes a whole new interpreter with
// Store, so a request never sees half of a rebuild.
type Live struct {
	current atomic.Pointer[box]
}

type box struct{ Interpreter }

// NewLive returns a Live serving initial.
func NewLive(initial Interpreter) *Live {
	l := &Live{}
	l.Store(initial)
	return l
}

// Store publishes next.
func (l *Live) Store(next Interpreter) {
	l.current.Store(&box{next})
}

// Current returns the interpreter being served.
func (l *Live) Current() Interpreter {
	return l.current.Load().Interpreter
}

// Parse implements Interpreter.
func (l *Live) Parse(ctx context.Context, query string) Predicate {
	return l.Current().Parse(ctx, query)
}

// Mode implements Interpreter.
func (l *Live) Mode() string { return l.Current().Mode() }

// Version implements Interpreter.
func (l *Live) Version() string { return l.Current().Version() }

var (
	_ Interpreter = PassThrough{}
	_ Interpreter = (*Live)(nil)
	_ Interpreter = (*Parser)(nil)
	_ Interpreter = (*Cached)(nil)

	_ partialParser = (*Parser)(nil)
)
