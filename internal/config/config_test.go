// Shopsense - Product Query Interpretation and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shopsense

package config

import (
	"strings"
	"testing"

	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// defaultsKoanf returns a koanf instance holding only the defaults.
func defaultsKoanf(t *testing.T) *koanf.Koanf {
	t.Helper()
	k := koanf.New(".")
	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		t.Fatalf("load defaults: %v", err)
	}
	return k
}

func validConfig() *Config {
	cfg := defaultConfig()
	cfg.Security.JWTSecret = testSecret
	return cfg
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"defaults with secret", func(*Config) {}, ""},
		{"bad port", func(c *Config) { c.Server.Port = 0 }, "HTTP_PORT"},
		{"bad log level", func(c *Config) { c.Logging.Level = "loud" }, "LOG_LEVEL"},
		{"bad provider", func(c *Config) { c.Embedding.Provider = "magic" }, "EMBEDDING_PROVIDER"},
		{"http without url", func(c *Config) { c.Embedding.Provider = "http" }, "EMBEDDING_URL"},
		{"http with url", func(c *Config) {
			c.Embedding.Provider = "http"
			c.Embedding.HTTP.URL = "http://embedder:8080/v1/embeddings"
		}, ""},
		{"qdrant without collection", func(c *Config) {
			c.Embedding.Qdrant.Enabled = true
			c.Embedding.Qdrant.Collection = ""
		}, "QDRANT"},
		{"bad mode", func(c *Config) { c.Query.Mode = "fuzzy" }, "QUERY_MODE"},
		{"threshold out of range", func(c *Config) { c.Query.CategoryThreshold = 1.5 }, "QUERY_CATEGORY_THRESHOLD"},
		{"early exit below accept", func(c *Config) { c.Query.BrandEarlyExit = 70 }, "QUERY_BRAND_EARLY_EXIT"},
		{"lru capacity", func(c *Config) { c.Cache.LRUCapacity = 0 }, "CACHE_LRU_CAPACITY"},
		{"redis skips lru capacity", func(c *Config) {
			c.Cache.LRUCapacity = 0
			c.Cache.RedisAddr = "localhost:6379"
		}, ""},
		{"zero neighbors", func(c *Config) { c.Recommend.Neighbors = 0 }, "RECOMMEND_NEIGHBORS"},
		{"default above max", func(c *Config) { c.Recommend.DefaultN = 100 }, "RECOMMEND_DEFAULT_N"},
		{"short interval", func(c *Config) { c.Recommend.TrainInterval = 0 }, "RECOMMEND_TRAIN_INTERVAL"},
		{"empty db path", func(c *Config) { c.Database.Path = "" }, "DUCKDB_PATH"},
		{"bad docindex url", func(c *Config) { c.DocIndex.URL = "ftp://es" }, "DOCINDEX_URL"},
		{"nats bad url", func(c *Config) {
			c.NATS.Enabled = true
			c.NATS.URL = "http://nats"
		}, "NATS_URL"},
		{"nats small memory", func(c *Config) {
			c.NATS.Enabled = true
			c.NATS.MaxMemory = 1
		}, "NATS_MAX_MEMORY"},
		{"missing secret", func(c *Config) { c.Security.JWTSecret = "" }, "JWT_SECRET is required"},
		{"placeholder secret", func(c *Config) { c.Security.JWTSecret = "CHANGEME-CHANGEME-CHANGEME-CHANGEME" }, "placeholder"},
		{"none in dev", func(c *Config) {
			c.Security.AuthMode = "none"
			c.Security.JWTSecret = ""
		}, ""},
		{"none in production", func(c *Config) {
			c.Security.AuthMode = "none"
			c.Server.Environment = "production"
		}, "AUTH_MODE=none"},
		{"bad rate limit", func(c *Config) { c.Security.RateLimitReqs = 0 }, "RATE_LIMIT_REQUESTS"},
		{"rate limit disabled", func(c *Config) {
			c.Security.RateLimitReqs = 0
			c.Security.RateLimitDisabled = true
		}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := validConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() error = %v, want nil", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestShouldWarnAboutCORS(t *testing.T) {
	t.Parallel()

	cfg := validConfig()
	if !cfg.ShouldWarnAboutCORS() {
		t.Error("ShouldWarnAboutCORS() = false for wildcard with jwt")
	}
	cfg.Security.CORSOrigins = []string{"https://shop.example.com"}
	if cfg.ShouldWarnAboutCORS() {
		t.Error("ShouldWarnAboutCORS() = true for explicit origins")
	}
}

func TestIsProduction(t *testing.T) {
	t.Parallel()

	for env, want := range map[string]bool{"production": true, "PROD": true, "development": false, "": false} {
		cfg := &Config{Server: ServerConfig{Environment: env}}
		if got := cfg.IsProduction(); got != want {
			t.Errorf("IsProduction(%q) = %v, want %v", env, got, want)
		}
	}
}
