// Shopsense - Product Query Interpretation and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shopsense

package config

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"
)

// Validate reports the first invalid setting, naming it by its
// environment variable.
func (c *Config) Validate() error {
	for _, section := range []func() error{
		c.validateServer,
		c.validateLogging,
		c.validateEmbedding,
		c.validateQuery,
		c.validateCache,
		c.validateRecommend,
		c.validateDatabase,
		c.validateDocIndex,
		c.validateNATS,
		c.validateSecurity,
	} {
		if err := section(); err != nil {
			return err
		}
	}
	return nil
}

// firstErr returns the first non-nil error in rule order.
func firstErr(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

func between[T cmp.Ordered](name string, v, lo, hi T) error {
	if v < lo || v > hi {
		return fmt.Errorf("%s must be between %v and %v", name, lo, hi)
	}
	return nil
}

func atLeast[T cmp.Ordered](name string, v, lo T) error {
	if v < lo {
		return fmt.Errorf("%s must be at least %v", name, lo)
	}
	return nil
}

func oneOf(name, v string, allowed ...string) error {
	if !slices.Contains(allowed, v) {
		return fmt.Errorf("%s must be one of: %s", name, strings.Join(allowed, ", "))
	}
	return nil
}

func required(name, v string) error {
	if v == "" {
		return fmt.Errorf("%s is required", name)
	}
	return nil
}

func check(ok bool, msg string) error {
	if !ok {
		return errors.New(msg)
	}
	return nil
}

func (c *Config) validateServer() error {
	return firstErr(
		between("HTTP_PORT", c.Server.Port, 1, 65535),
		check(c.Server.Timeout > 0, "HTTP_TIMEOUT must be positive"),
	)
}

func (c *Config) validateLogging() error {
	err := oneOf("LOG_LEVEL", c.Logging.Level, "trace", "debug", "info", "warn", "error")
	if err == nil && c.Logging.Format != "" {
		err = oneOf("LOG_FORMAT", c.Logging.Format, "json", "console")
	}
	return err
}

func (c *Config) validateEmbedding() error {
	e := &c.Embedding
	if err := oneOf("EMBEDDING_PROVIDER", e.Provider, "hash", "http"); err != nil {
		return err
	}
	if e.Provider == "http" {
		if e.HTTP.URL == "" {
			return errors.New("EMBEDDING_URL is required when EMBEDDING_PROVIDER=http")
		}
		if err := validateHTTPURL(e.HTTP.URL, "EMBEDDING_URL"); err != nil {
			return err
		}
	}
	if err := between("EMBEDDING_DIMENSION", e.Dimension, 1, 8192); err != nil {
		return err
	}
	if !e.Qdrant.Enabled {
		return nil
	}
	return firstErr(
		check(e.Qdrant.Host != "" && e.Qdrant.Collection != "",
			"QDRANT_HOST and QDRANT_COLLECTION are required when QDRANT_ENABLED=true"),
		between("QDRANT_PORT", e.Qdrant.Port, 1, 65535),
	)
}

func (c *Config) validateQuery() error {
	q := &c.Query
	return firstErr(
		oneOf("QUERY_MODE", q.Mode, "semantic", "passthrough"),
		between("QUERY_CATEGORY_THRESHOLD", q.CategoryThreshold, -1, 1),
		between("QUERY_BRAND_ACCEPT", q.BrandAccept, 0, 100),
		check(q.BrandEarlyExit >= q.BrandAccept && q.BrandEarlyExit <= 100,
			"QUERY_BRAND_EARLY_EXIT must be between QUERY_BRAND_ACCEPT and 100"),
		check(q.EncodeTimeout >= 0, "QUERY_ENCODE_TIMEOUT must not be negative"),
	)
}

// validateCache skips the LRU bound when Redis backs the cache.
func (c *Config) validateCache() error {
	if !c.Cache.Enabled {
		return nil
	}
	err := check(c.Cache.TTL > 0, "CACHE_TTL must be positive")
	if err == nil && c.Cache.RedisAddr == "" {
		err = atLeast("CACHE_LRU_CAPACITY", c.Cache.LRUCapacity, 1)
	}
	return err
}

func (c *Config) validateRecommend() error {
	r := &c.Recommend
	return firstErr(
		check(r.Neighbors >= 1 && r.NeighborCap >= 1,
			"RECOMMEND_NEIGHBORS and RECOMMEND_NEIGHBOR_CAP must be at least 1"),
		check(r.DefaultN >= 1 && r.DefaultN <= r.MaxN,
			"RECOMMEND_DEFAULT_N must be at least 1 and not exceed RECOMMEND_MAX_N"),
		atLeast("RECOMMEND_TRAIN_INTERVAL", r.TrainInterval, time.Minute),
		check(r.TrainTimeout > 0, "RECOMMEND_TRAIN_TIMEOUT must be positive"),
		check(r.Lookback >= 0, "RECOMMEND_LOOKBACK must not be negative"),
	)
}

func (c *Config) validateDatabase() error {
	return firstErr(
		required("DUCKDB_PATH", c.Database.Path),
		atLeast("DUCKDB_THREADS", c.Database.Threads, 0),
	)
}

func (c *Config) validateDocIndex() error {
	d := &c.DocIndex
	return firstErr(
		validateHTTPURL(d.URL, "DOCINDEX_URL"),
		required("DOCINDEX_INDEX", d.Index),
		check(d.BreakerFailureRatio > 0 && d.BreakerFailureRatio <= 1,
			"DOCINDEX_BREAKER_FAILURE_RATIO must be in (0, 1]"),
	)
}

// JetStream limits for the embedded server and the ingest stream.
const (
	natsMinMemory      int64 = 64 << 20
	natsMinStore       int64 = 100 << 20
	natsMaxRetention         = 365
	natsMaxSubscribers       = 32
)

func (c *Config) validateNATS() error {
	n := &c.NATS
	if !n.Enabled {
		return nil
	}
	if err := validateNATSURL(n.URL); err != nil {
		return fmt.Errorf("NATS_URL is invalid: %w", err)
	}
	if n.Topic == "" {
		return errors.New("NATS_TOPIC is required when NATS_ENABLED=true")
	}
	if n.EmbeddedServer {
		if err := firstErr(
			atLeast("NATS_MAX_MEMORY", n.MaxMemory, natsMinMemory),
			atLeast("NATS_MAX_STORE", n.MaxStore, natsMinStore),
		); err != nil {
			return err
		}
	}
	return firstErr(
		between("NATS_RETENTION_DAYS", n.StreamRetentionDays, 1, natsMaxRetention),
		between("NATS_SUBSCRIBERS", n.SubscribersCount, 1, natsMaxSubscribers),
	)
}

func (c *Config) validateSecurity() error {
	s := &c.Security
	switch s.AuthMode {
	case "jwt":
		if err := validateJWTSecret(s.JWTSecret); err != nil {
			return err
		}
	case "none":
		if c.IsProduction() {
			return errors.New("AUTH_MODE=none is not allowed when ENVIRONMENT=production")
		}
	default:
		return oneOf("AUTH_MODE", s.AuthMode, "jwt", "none")
	}

	if s.RateLimitDisabled {
		return nil
	}
	return firstErr(
		between("RATE_LIMIT_REQUESTS", s.RateLimitReqs, 1, 100000),
		between("RATE_LIMIT_WINDOW", s.RateLimitWindow, time.Second, time.Hour),
	)
}

func validateJWTSecret(secret string) error {
	switch {
	case secret == "":
		return errors.New("JWT_SECRET is required when AUTH_MODE is jwt")
	case len(secret) < 32:
		return errors.New("JWT_SECRET must be at least 32 characters")
	case containsPlaceholder(secret):
		return errors.New("JWT_SECRET contains a placeholder value; generate one with: openssl rand -base64 32")
	}
	return nil
}

// IsProduction reports ENVIRONMENT=production (or prod).
func (c *Config) IsProduction() bool {
	env := strings.ToLower(c.Server.Environment)
	return env == "production" || env == "prod"
}

// ShouldWarnAboutCORS reports a wildcard origin on an authenticated API.
func (c *Config) ShouldWarnAboutCORS() bool {
	return c.Security.AuthMode != "none" && slices.Contains(c.Security.CORSOrigins, "*")
}

var placeholderPatterns = []string{"REPLACE", "CHANGEME", "CHANGE_ME", "YOUR_SECRET", "PLACEHOLDER", "EXAMPLE"}

func containsPlaceholder(value string) bool {
	upper := strings.ToUpper(value)
	return slices.ContainsFunc(placeholderPatterns, func(p string) bool {
		return strings.Contains(upper, p)
	})
}
