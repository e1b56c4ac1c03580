// Shopsense - Product Query Interpretation and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shopsense

package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/shopsense/internal/cache"
	"github.com/tomtom215/shopsense/internal/config"
	"github.com/tomtom215/shopsense/internal/embedding"
	"github.com/tomtom215/shopsense/internal/query"
	"github.com/tomtom215/shopsense/internal/supervisor/services"
)

// InterpreterComponents is the query interpretation stack. Rebuilder and
// Service are nil in passthrough mode.
type InterpreterComponents struct {
	Live      *query.Live
	Rebuilder *query.Rebuilder
	Service   *services.RebuildService

	closers []io.Closer
}

// Close releases the snapshot store, the Qdrant connection and the Redis
// client, whichever were opened.
func (c *InterpreterComponents) Close(logger *zerolog.Logger) {
	for i := len(c.closers) - 1; i >= 0; i-- {
		if err := c.closers[i].Close(); err != nil {
			logger.Warn().Err(err).Msg("Failed to close interpreter resource")
		}
	}
}

// initInterpreter builds the query interpreter. The Live interpreter starts
// as passthrough; in semantic mode the first Rebuild replaces it. A failed
// first build is logged and leaves passthrough serving while the rebuild
// service retries with backoff.
//
//nolint:gocritic // hugeParam: logger passed by value for zerolog chaining
func initInterpreter(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (*InterpreterComponents, error) {
	comps := &InterpreterComponents{Live: query.NewLive(query.PassThrough{})}

	if cfg.Query.Mode == query.ModePassThrough {
		logger.Info().Msg("Query interpreter in passthrough mode")
		return comps, nil
	}

	embedder, err := newEmbedder(&cfg.Embedding)
	if err != nil {
		return nil, err
	}

	opts := query.RebuildOptions{
		Config: query.Config{
			CategoryThreshold: cfg.Query.CategoryThreshold,
			BrandAccept:       cfg.Query.BrandAccept,
			BrandEarlyExit:    cfg.Query.BrandEarlyExit,
			EncodeTimeout:     cfg.Query.EncodeTimeout,
		},
		CatalogPath:   cfg.Vocabulary.CatalogPath,
		OverridesPath: cfg.Vocabulary.OverridesPath,
		Embedder:      embedder,
		Parallelism:   cfg.Embedding.Parallelism,
		Holder:        embedding.NewHolder(nil),
	}

	if cfg.Embedding.SnapshotDir != "" {
		store, err := embedding.OpenSnapshotStore(cfg.Embedding.SnapshotDir)
		if err != nil {
			logger.Warn().Err(err).Str("dir", cfg.Embedding.SnapshotDir).Msg("Index snapshots disabled")
		} else {
			opts.Snapshots = store
			comps.closers = append(comps.closers, store)
		}
	}

	if q := cfg.Embedding.Qdrant; q.Enabled {
		searcher, err := embedding.NewQdrantSearcher(embedding.QdrantConfig{
			Host:       q.Host,
			Port:       q.Port,
			APIKey:     q.APIKey,
			UseTLS:     q.UseTLS,
			Collection: q.Collection,
		})
		if err != nil {
			comps.Close(&logger)
			return nil, err
		}
		opts.Remote = searcher
		comps.closers = append(comps.closers, searcher)
		logger.Info().Str("host", q.Host).Str("collection", q.Collection).Msg("Category search served by Qdrant")
	}

	if cfg.Cache.Enabled {
		store, closer := newParseCache(ctx, &cfg.Cache, logger)
		opts.Cache = store
		opts.CacheTTL = cfg.Cache.TTL
		if closer != nil {
			comps.closers = append(comps.closers, closer)
		}
	}

	rebuilder, err := query.NewRebuilder(opts, comps.Live, logger)
	if err != nil {
		comps.Close(&logger)
		return nil, err
	}
	comps.Rebuilder = rebuilder

	buildCtx, cancel := context.WithTimeout(ctx, 5*time.Minute)
	defer cancel()
	if err := rebuilder.Rebuild(buildCtx); err != nil {
		logger.Warn().Err(err).Msg("Semantic interpreter unavailable; serving passthrough")
	}

	watchPath := ""
	if cfg.Vocabulary.WatchOverrides {
		watchPath = cfg.Vocabulary.OverridesPath
	}
	live := comps.Live
	comps.Service = services.NewRebuildService(rebuilder, config.WatchConfigFile, services.RebuildConfig{
		WatchPath: watchPath,
		Pending:   func() bool { return live.Mode() == query.ModePassThrough },
	}, logger)

	return comps, nil
}

// newEmbedder selects the embedding provider.
func newEmbedder(cfg *config.EmbeddingConfig) (embedding.Embedder, error) {
	switch cfg.Provider {
	case "", "hash":
		return embedding.NewHashEmbedder(cfg.Dimension), nil
	case "http":
		return embedding.NewHTTPEmbedder(embedding.HTTPConfig{
			URL:           cfg.HTTP.URL,
			Model:         cfg.HTTP.Model,
			APIKey:        cfg.HTTP.APIKey,
			Dimension:     cfg.Dimension,
			Timeout:       cfg.HTTP.Timeout,
			RatePerSecond: cfg.HTTP.RatePerSecond,
			Burst:         cfg.HTTP.Burst,
		}, nil), nil
	default:
		return nil, fmt.Errorf("unknown embedding provider %q", cfg.Provider)
	}
}

// newParseCache returns Redis when configured and reachable, and an
// in-process LRU otherwise. The closer is nil for the LRU.
//
//nolint:gocritic // hugeParam: logger passed by value for zerolog chaining
func newParseCache(ctx context.Context, cfg *config.CacheConfig, logger zerolog.Logger) (cache.Store, io.Closer) {
	if cfg.RedisAddr != "" {
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		r, err := cache.NewRedis(pingCtx, cache.RedisConfig{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
			Prefix:   cfg.RedisPrefix,
			TTL:      cfg.TTL,
		})
		if err == nil {
			logger.Info().Str("addr", cfg.RedisAddr).Msg("Parse cache backed by Redis")
			return r, r
		}
		logger.Warn().Err(err).Msg("Redis unavailable; using in-process parse cache")
	}
	logger.Info().Int("capacity", cfg.LRUCapacity).Dur("ttl", cfg.TTL).Msg("Parse cache backed by in-process LRU")
	return cache.NewLRU(cfg.LRUCapacity, cfg.TTL), nil
}
