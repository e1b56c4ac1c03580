// Shopsense - Product Query Interpretation and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shopsense

package query

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/shopsense/internal/cache"
	"github.com/tomtom215/shopsense/internal/embedding"
	"github.com/tomtom215/shopsense/internal/metrics"
	"github.com/tomtom215/shopsense/internal/vocabulary"
)

// Index sources reported to metrics and logs.
const (
	SourceSnapshot = "snapshot"
	SourceBuild    = "build"
)

// SnapshotStore persists embedding indexes between restarts.
// *embedding.SnapshotStore implements it.
type SnapshotStore interface {
	Save(ctx context.Context, snap *embedding.Snapshot) error
	Load(ctx context.Context, vocabHash [32]byte) (*embedding.Snapshot, error)
}

// RemoteSearcher is a category search backend loaded with every new
// index. Sync returns a Searcher over exactly that index, leaving the one
// being served untouched; Prune drops everything but keep once the new
// interpreter is published. *embedding.QdrantSearcher implements it.
type RemoteSearcher interface {
	Sync(ctx context.Context, idx *embedding.Index) (embedding.Searcher, error)
	Prune(ctx context.Context, keep embedding.Searcher) error
}

var _ RemoteSearcher = (*embedding.QdrantSearcher)(nil)

// RebuildOptions wires a Rebuilder. Embedder is required; every other
// collaborator is optional.
type RebuildOptions struct {
	Config        Config
	CatalogPath   string
	OverridesPath string
	Embedder      embedding.Embedder
	Parallelism   int

	Holder    *embedding.Holder
	Snapshots SnapshotStore
	Remote    RemoteSearcher

	// Cache memoizes parse results for CacheTTL when set.
	Cache    cache.Store
	CacheTTL time.Duration
}

// Rebuilder assembles a semantic Parser from the vocabulary sources and
// publishes it through a Live interpreter. A failed rebuild leaves the
// previously published interpreter serving.
type Rebuilder struct {
	opts   RebuildOptions
	live   *Live
	logger zerolog.Logger

	mu sync.Mutex
}

// NewRebuilder returns a rebuilder publishing into live.
//
//nolint:gocritic // hugeParam: logger passed by value for zerolog chaining
func NewRebuilder(opts RebuildOptions, live *Live, logger zerolog.Logger) (*Rebuilder, error) {
	if opts.Embedder == nil {
		return nil, errors.New("embedder is required")
	}
	if live == nil {
		return nil, errors.New("live interpreter is required")
	}
	if err := opts.Config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if opts.Holder == nil {
		opts.Holder = embedding.NewHolder(nil)
	}
	return &Rebuilder{
		opts:   opts,
		live:   live,
		logger: logger.With().Str("component", "query_rebuild").Logger(),
	}, nil
}

// Live returns the interpreter the rebuilder publishes into.
func (r *Rebuilder) Live() *Live { return r.live }

// Index returns the most recently published embedding index, or nil.
func (r *Rebuilder) Index() *embedding.Index { return r.opts.Holder.Load() }

// Rebuild reloads the vocabulary, obtains an index for it and publishes a
// new interpreter. Concurrent calls run one at a time.
func (r *Rebuilder) Rebuild(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	start := time.Now()
	vocab, err := r.loadVocabulary()
	if err != nil {
		return err
	}

	idx, source, err := r.index(ctx, vocab)
	if err != nil {
		return fmt.Errorf("build embedding index: %w", err)
	}

	var searcher embedding.Searcher = idx
	if r.opts.Remote != nil {
		if searcher, err = r.opts.Remote.Sync(ctx, idx); err != nil {
			return fmt.Errorf("sync remote index: %w", err)
		}
	}

	parser, err := NewParser(r.opts.Config, vocab, r.opts.Embedder, searcher, r.logger)
	if err != nil {
		return fmt.Errorf("create parser: %w", err)
	}

	var next Interpreter = parser
	if r.opts.Cache != nil {
		next = NewCached(parser, r.opts.Cache, r.opts.CacheTTL, r.logger)
	}
	r.opts.Holder.Swap(idx)
	r.live.Store(next)
	metrics.RecordIndexPublished(source, idx.Len())

	if r.opts.Remote != nil {
		if err := r.opts.Remote.Prune(ctx, searcher); err != nil {
			r.logger.Warn().Err(err).Msg("failed to drop superseded remote indexes")
		}
	}

	r.logger.Info().
		Str("source", source).
		Str("version", parser.Version()).
		Int("terms", idx.Len()).
		Int("brands", len(vocab.Brands)).
		Int64("duration_ms", time.Since(start).Milliseconds()).
		Msg("query interpreter published")
	return nil
}

// loadVocabulary reads the catalogue and applies overrides. A missing or
// unreadable catalogue degrades to the built-in lists; a broken overrides
// file fails the rebuild.
func (r *Rebuilder) loadVocabulary() (*vocabulary.Vocabulary, error) {
	vocab := vocabulary.Builtin()
	if r.opts.CatalogPath != "" {
		loaded, err := vocabulary.LoadCSV(r.opts.CatalogPath)
		if err != nil {
			r.logger.Warn().Err(err).Str("path", r.opts.CatalogPath).Msg("catalogue unavailable; category matching disabled")
		} else {
			vocab = loaded
		}
	}

	if r.opts.OverridesPath == "" {
		return vocab, nil
	}
	overrides, err := vocabulary.LoadOverrides(r.opts.OverridesPath)
	if err != nil {
		return nil, err
	}
	return overrides.Apply(vocab), nil
}

// index restores a snapshot for vocab when one exists and matches the
// embedder, and builds (then saves) a fresh index otherwise.
func (r *Rebuilder) index(ctx context.Context, vocab *vocabulary.Vocabulary) (*embedding.Index, string, error) {
	hash := vocab.Hash()

	if r.opts.Snapshots != nil {
		idx, err := r.restore(ctx, hash)
		switch {
		case err == nil:
			return idx, SourceSnapshot, nil
		case errors.Is(err, embedding.ErrSnapshotNotFound):
			r.logger.Debug().Str("vocab", vocab.HashHex()).Msg("no index snapshot")
		default:
			r.logger.Warn().Err(err).Msg("index snapshot unusable; rebuilding")
		}
	}

	idx, err := embedding.Build(ctx, r.opts.Embedder, vocab.CategoryTerms(), embedding.BuildOptions{
		Parallelism: r.opts.Parallelism,
	})
	if err != nil {
		return nil, "", err
	}

	if r.opts.Snapshots != nil {
		if err := r.opts.Snapshots.Save(ctx, idx.Snapshot(hash)); err != nil {
			r.logger.Warn().Err(err).Msg("failed to save index snapshot")
		}
	}
	return idx, SourceBuild, nil
}

func (r *Rebuilder) restore(ctx context.Context, hash [32]byte) (*embedding.Index, error) {
	snap, err := r.opts.Snapshots.Load(ctx, hash)
	if err != nil {
		return nil, err
	}
	idx, err := snap.Index()
	if err != nil {
		return nil, err
	}
	if idx.Len() > 0 && idx.Dimension() != r.opts.Embedder.Dimension() {
		return nil, fmt.Errorf("%w: snapshot has %d, embedder produces %d",
			embedding.ErrDimensionMismatch, idx.Dimension(), r.opts.Embedder.Dimension())
	}
	return idx, nil
}
