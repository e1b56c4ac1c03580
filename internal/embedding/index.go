// Shopsense - Product Query Interpretation and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shopsense

package embedding

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/viant/vec/search"
	"golang.org/x/sync/errgroup"
)

// DefaultParallelism bounds concurrent Embed calls during Build.
const DefaultParallelism = 4

// ErrDimensionMismatch reports vectors of different sizes in one index.
var ErrDimensionMismatch = errors.New("embedding: dimension mismatch")

// Match is a vocabulary term and its cosine similarity to a query vector.
type Match struct {
	Term  string
	Score float32
}

// Searcher finds the single best term whose similarity to vec is strictly
// greater than threshold.
type Searcher interface {
	Search(ctx context.Context, vec []float32, threshold float32) (Match, bool, error)
}

// Index is an immutable brute-force cosine index over vocabulary terms.
// Terms are kept in build order and scanned in that order, so the first of
// several equal maxima wins.
type Index struct {
	terms   []string
	vecs    [][]float32
	mags    []float32
	dim     int
	builtAt time.Time
}

// BuildOptions tunes Build.
type BuildOptions struct {
	Parallelism int
	Clock       func() time.Time
}

// Build encodes every term once and returns the finished index. Terms are
// encoded lower-cased; the index reports them in their original case.
func Build(ctx context.Context, e Embedder, terms []string, opts BuildOptions) (*Index, error) {
	if opts.Parallelism <= 0 {
		opts.Parallelism = DefaultParallelism
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}

	vecs := make([][]float32, len(terms))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Parallelism)
	for i, term := range terms {
		g.Go(func() error {
			v, err := Encode(gctx, e, strings.ToLower(term))
			if err != nil {
				return fmt.Errorf("encode %q: %w", term, err)
			}
			vecs[i] = v
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	idx, err := NewIndex(terms, vecs)
	if err != nil {
		return nil, err
	}
	idx.builtAt = opts.Clock().UTC()
	return idx, nil
}

// NewIndex assembles an index from precomputed vectors. All vectors must
// share one dimension.
func NewIndex(terms []string, vecs [][]float32) (*Index, error) {
	if len(terms) != len(vecs) {
		return nil, fmt.Errorf("embedding: %d terms but %d vectors", len(terms), len(vecs))
	}
	idx := &Index{
		terms: append([]string(nil), terms...),
		vecs:  make([][]float32, len(vecs)),
		mags:  make([]float32, len(vecs)),
	}
	for i, v := range vecs {
		if i == 0 {
			idx.dim = len(v)
		} else if len(v) != idx.dim {
			return nil, fmt.Errorf("%w: term %q has %d, want %d", ErrDimensionMismatch, terms[i], len(v), idx.dim)
		}
		idx.vecs[i] = append([]float32(nil), v...)
		idx.mags[i] = search.Float32s(v).Magnitude()
	}
	return idx, nil
}

// NearestAbove scans every term and returns the one most similar to vec,
// provided its similarity is strictly greater than threshold. Zero vectors
// never match.
func (x *Index) NearestAbove(vec []float32, threshold float32) (Match, bool) {
	if x == nil || len(x.terms) == 0 || len(vec) != x.dim {
		return Match{}, false
	}
	qmag := search.Float32s(vec).Magnitude()
	if qmag == 0 {
		return Match{}, false
	}

	best := Match{Score: threshold}
	found := false
	for i, v := range x.vecs {
		if x.mags[i] == 0 {
			continue
		}
		sim := 1 - search.Float32s(vec).CosineDistance(v)
		if sim > best.Score {
			best = Match{Term: x.terms[i], Score: sim}
			found = true
		}
	}
	return best, found
}

// Search implements Searcher over the in-memory index.
func (x *Index) Search(_ context.Context, vec []float32, threshold float32) (Match, bool, error) {
	m, ok := x.NearestAbove(vec, threshold)
	return m, ok, nil
}

// Len returns the number of indexed terms.
func (x *Index) Len() int {
	if x == nil {
		return 0
	}
	return len(x.terms)
}

// Dimension returns the vector size, or zero for an empty index.
func (x *Index) Dimension() int { return x.dim }

// BuiltAt returns when the vectors were computed.
func (x *Index) BuiltAt() time.Time { return x.builtAt }

// Terms returns a copy of the indexed terms in scan order.
func (x *Index) Terms() []string { return append([]string(nil), x.terms...) }

// Vector returns the stored vector of term i. The slice must not be
// modified.
func (x *Index) Vector(i int) []float32 { return x.vecs[i] }

// Digest fingerprints the terms and vectors as 16 hex characters. Indexes
// with equal digests answer every search identically.
func (x *Index) Digest() string {
	h := xxhash.New()
	var buf [4]byte
	for i, term := range x.terms {
		_, _ = h.WriteString(term)
		_, _ = h.Write([]byte{0})
		for _, f := range x.vecs[i] {
			binary.LittleEndian.PutUint32(buf[:], math.Float32bits(f))
			_, _ = h.Write(buf[:])
		}
	}
	return fmt.Sprintf("%016x", h.Sum64())
}

// Identity names the in-memory backend and its contents.
func (x *Index) Identity() string {
	return "memory:" + x.Digest() + "/" + strconv.Itoa(x.dim)
}
