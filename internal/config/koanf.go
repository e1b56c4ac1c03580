// Shopsense - Product Query Interpretation and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shopsense

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the paths where config files are searched in order of priority.
// The first file found will be used.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/shopsense/config.yaml",
	"/etc/shopsense/config.yml",
}

// ConfigPathEnvVar is the environment variable that can override the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// defaultConfig returns a Config struct with all default values.
// These defaults are applied first, then overridden by config file and env vars.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            8000,
			Host:            "0.0.0.0",
			Timeout:         30 * time.Second,
			ShutdownTimeout: 15 * time.Second,
			Environment:     "development",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
		Vocabulary: VocabularyConfig{
			CatalogPath:    "data/styles.csv",
			OverridesPath:  "",
			WatchOverrides: true,
		},
		Embedding: EmbeddingConfig{
			Provider:    "hash",
			Dimension:   256,
			Parallelism: 8,
			SnapshotDir: "/data/snapshots",
			HTTP: EmbeddingHTTPConfig{
				Timeout:       10 * time.Second,
				RatePerSecond: 20,
				Burst:         5,
			},
			Qdrant: QdrantConfig{
				Enabled:    false,
				Host:       "localhost",
				Port:       6334,
				Collection: "shopsense_terms",
			},
		},
		Query: QueryConfig{
			Mode:              "semantic",
			CategoryThreshold: 0.4,
			BrandAccept:       80,
			BrandEarlyExit:    90,
			EncodeTimeout:     5 * time.Second,
		},
		Cache: CacheConfig{
			Enabled:     true,
			TTL:         10 * time.Minute,
			LRUCapacity: 1024,
			RedisPrefix: "shopsense:parse:",
		},
		Recommend: RecommendConfig{
			Neighbors:      10,
			NeighborCap:    20,
			DefaultN:       5,
			MaxN:           50,
			TrainInterval:  15 * time.Minute,
			TrainTimeout:   5 * time.Minute,
			TrainOnStartup: true,
			Lookback:       0,
		},
		Database: DatabaseConfig{
			Path:         "/data/shopsense.duckdb",
			MaxMemory:    "1GB",
			Threads:      0, // 0 = use runtime.NumCPU()
			QueryTimeout: 30 * time.Second,
		},
		DocIndex: DocIndexConfig{
			URL:                 "http://localhost:9200",
			Index:               "hekto",
			Timeout:             10 * time.Second,
			BreakerMaxRequests:  3,
			BreakerInterval:     time.Minute,
			BreakerTimeout:      2 * time.Minute,
			BreakerMinRequests:  10,
			BreakerFailureRatio: 0.6,
		},
		NATS: NATSConfig{
			Enabled:                    false,
			URL:                        "nats://127.0.0.1:4222",
			EmbeddedServer:             true,
			StoreDir:                   "/data/nats/jetstream",
			MaxMemory:                  256 << 20, // 256MB
			MaxStore:                   1 << 30,   // 1GB
			StreamRetentionDays:        7,
			Topic:                      "shopsense.interactions",
			SubscribersCount:           2,
			DurableName:                "interaction-ingest",
			QueueGroup:                 "ingest",
			RouterRetryCount:           3,
			RouterRetryInitialInterval: 100 * time.Millisecond,
			RouterPoisonQueueTopic:     "shopsense.interactions.poison",
			RouterCloseTimeout:         30 * time.Second,
		},
		Security: SecurityConfig{
			AuthMode:          "jwt",
			JWTSecret:         "",
			JWTIssuer:         "shopsense",
			RateLimitReqs:     100,
			RateLimitWindow:   time.Minute,
			RateLimitDisabled: false,
			CORSOrigins:       []string{"*"},
		},
	}
}

// LoadWithKoanf loads configuration using Koanf v2 with layered sources:
//  1. Defaults: Built-in defaults
//  2. Config File: Optional YAML config file (if exists)
//  3. Environment Variables: Override any mapped setting
func LoadWithKoanf() (*Config, error) {
	k := koanf.New(".")

	// Layer 1: Load defaults from struct
	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// Layer 2: Load config file (optional)
	if configPath := findConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// Layer 3: Load environment variables (highest priority)
	// DUCKDB_PATH -> database.path, QUERY_BRAND_ACCEPT -> query.brand_accept
	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// findConfigFile searches for a config file in the default paths.
// Returns the path to the first file found, or empty string if none found.
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// sliceConfigPaths defines which config paths should be parsed as comma-separated slices
var sliceConfigPaths = []string{
	"security.cors_origins",
}

// processSliceFields converts comma-separated string values to slices for known slice fields.
// Env vars arrive as strings; YAML lists are left alone.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok || strVal == "" {
			continue
		}
		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if len(trimmed) > 0 {
			if err := k.Set(path, trimmed); err != nil {
				return fmt.Errorf("failed to set %s: %w", path, err)
			}
		}
	}
	return nil
}

// envMappings maps lower-cased environment variable names to koanf paths.
var envMappings = map[string]string{
	// Server mappings
	"http_port":             "server.port",
	"http_host":             "server.host",
	"http_timeout":          "server.timeout",
	"http_shutdown_timeout": "server.shutdown_timeout",
	"environment":           "server.environment",

	// Logging mappings
	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",

	// Vocabulary mappings
	"catalog_path":               "vocabulary.catalog_path",
	"vocabulary_overrides_path":  "vocabulary.overrides_path",
	"vocabulary_watch_overrides": "vocabulary.watch_overrides",

	// Embedding mappings
	"embedding_provider":        "embedding.provider",
	"embedding_dimension":       "embedding.dimension",
	"embedding_parallelism":     "embedding.parallelism",
	"embedding_snapshot_dir":    "embedding.snapshot_dir",
	"embedding_url":             "embedding.http.url",
	"embedding_model":           "embedding.http.model",
	"embedding_api_key":         "embedding.http.api_key",
	"embedding_timeout":         "embedding.http.timeout",
	"embedding_rate_per_second": "embedding.http.rate_per_second",
	"embedding_burst":           "embedding.http.burst",
	"qdrant_enabled":            "embedding.qdrant.enabled",
	"qdrant_host":               "embedding.qdrant.host",
	"qdrant_port":               "embedding.qdrant.port",
	"qdrant_api_key":            "embedding.qdrant.api_key",
	"qdrant_use_tls":            "embedding.qdrant.use_tls",
	"qdrant_collection":         "embedding.qdrant.collection",

	// Query mappings
	"query_mode":               "query.mode",
	"query_category_threshold": "query.category_threshold",
	"query_brand_accept":       "query.brand_accept",
	"query_brand_early_exit":   "query.brand_early_exit",
	"query_encode_timeout":     "query.encode_timeout",

	// Cache mappings
	"cache_enabled":      "cache.enabled",
	"cache_ttl":          "cache.ttl",
	"cache_lru_capacity": "cache.lru_capacity",
	"redis_addr":         "cache.redis_addr",
	"redis_password":     "cache.redis_password",
	"redis_db":           "cache.redis_db",
	"redis_prefix":       "cache.redis_prefix",

	// Recommendation engine mappings
	"recommend_neighbors":        "recommend.neighbors",
	"recommend_neighbor_cap":     "recommend.neighbor_cap",
	"recommend_default_n":        "recommend.default_n",
	"recommend_max_n":            "recommend.max_n",
	"recommend_train_interval":   "recommend.train_interval",
	"recommend_train_timeout":    "recommend.train_timeout",
	"recommend_train_on_startup": "recommend.train_on_startup",
	"recommend_lookback":         "recommend.lookback",

	// Database mappings
	"duckdb_path":          "database.path",
	"duckdb_max_memory":    "database.max_memory",
	"duckdb_threads":       "database.threads",
	"duckdb_query_timeout": "database.query_timeout",

	// Document index mappings
	"docindex_url":                   "docindex.url",
	"docindex_index":                 "docindex.index",
	"docindex_api_key":               "docindex.api_key",
	"docindex_username":              "docindex.username",
	"docindex_password":              "docindex.password",
	"docindex_timeout":               "docindex.timeout",
	"docindex_breaker_max_requests":  "docindex.breaker_max_requests",
	"docindex_breaker_interval":      "docindex.breaker_interval",
	"docindex_breaker_timeout":       "docindex.breaker_timeout",
	"docindex_breaker_min_requests":  "docindex.breaker_min_requests",
	"docindex_breaker_failure_ratio": "docindex.breaker_failure_ratio",

	// NATS mappings
	"nats_enabled":               "nats.enabled",
	"nats_url":                   "nats.url",
	"nats_embedded":              "nats.embedded_server",
	"nats_store_dir":             "nats.store_dir",
	"nats_max_memory":            "nats.max_memory",
	"nats_max_store":             "nats.max_store",
	"nats_retention_days":        "nats.stream_retention_days",
	"nats_topic":                 "nats.topic",
	"nats_subscribers":           "nats.subscribers_count",
	"nats_durable_name":          "nats.durable_name",
	"nats_queue_group":           "nats.queue_group",
	"nats_router_retry_count":    "nats.router_retry_count",
	"nats_router_retry_interval": "nats.router_retry_initial_interval",
	"nats_router_poison_topic":   "nats.router_poison_queue_topic",
	"nats_router_close_timeout":  "nats.router_close_timeout",

	// Security mappings
	"auth_mode":           "security.auth_mode",
	"jwt_secret":          "security.jwt_secret",
	"jwt_issuer":          "security.jwt_issuer",
	"rate_limit_requests": "security.rate_limit_reqs",
	"rate_limit_window":   "security.rate_limit_window",
	"disable_rate_limit":  "security.rate_limit_disabled",
	"cors_origins":        "security.cors_origins",
}

// envTransformFunc transforms environment variable names to koanf config paths.
// Unmapped variables return an empty string and are skipped, so unrelated
// environment variables never pollute the configuration.
func envTransformFunc(key string) string {
	return envMappings[strings.ToLower(key)]
}

// WatchConfigFile calls callback whenever the file at path changes.
// The caller is responsible for synchronizing any state the callback swaps.
func WatchConfigFile(path string, callback func()) error {
	provider := file.Provider(path)
	return provider.Watch(func(_ interface{}, err error) {
		if err != nil {
			return
		}
		callback()
	})
}
