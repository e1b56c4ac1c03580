// Shopsense - Product Query Interpretation and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shopsense

package config

import (
	"time"
)

// Config holds all application configuration.
//
// Configuration Loading Order (Koanf v2):
//  1. Defaults: built-in values for every setting
//  2. Config File: optional YAML file (config.yaml or CONFIG_PATH)
//  3. Environment Variables: explicit mapping table, highest priority
//
// Config is immutable after Load() and safe for concurrent reads.
type Config struct {
	Server     ServerConfig     `koanf:"server"`
	Logging    LoggingConfig    `koanf:"logging"`
	Vocabulary VocabularyConfig `koanf:"vocabulary"`
	Embedding  EmbeddingConfig  `koanf:"embedding"`
	Query      QueryConfig      `koanf:"query"`
	Cache      CacheConfig      `koanf:"cache"`
	Recommend  RecommendConfig  `koanf:"recommend"`
	Database   DatabaseConfig   `koanf:"database"`
	DocIndex   DocIndexConfig   `koanf:"docindex"`
	NATS       NATSConfig       `koanf:"nats"`
	Security   SecurityConfig   `koanf:"security"`
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port            int           `koanf:"port"`
	Host            string        `koanf:"host"`
	Timeout         time.Duration `koanf:"timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	Environment     string        `koanf:"environment"` // "development", "staging", "production"
}

// LoggingConfig holds logging settings for zerolog.
//
// Environment Variables:
//   - LOG_LEVEL: trace, debug, info, warn, error (default: info)
//   - LOG_FORMAT: json, console (default: json)
//   - LOG_CALLER: include caller file:line (default: false)
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// VocabularyConfig locates the term sources.
//
// CatalogPath is the product catalogue CSV; when empty or missing only the
// built-in brand, color and season lists are available and category
// matching is disabled. OverridesPath is an optional YAML file adjusting the
// built-in lists. With WatchOverrides set, edits to it trigger a rebuild.
type VocabularyConfig struct {
	CatalogPath    string `koanf:"catalog_path"`
	OverridesPath  string `koanf:"overrides_path"`
	WatchOverrides bool   `koanf:"watch_overrides"`
}

// EmbeddingConfig selects and tunes the text embedder.
type EmbeddingConfig struct {
	// Provider is "hash" (local feature hashing) or "http".
	Provider  string `koanf:"provider"`
	Dimension int    `koanf:"dimension"`

	// Parallelism bounds concurrent encode calls while building the index.
	Parallelism int `koanf:"parallelism"`

	// SnapshotDir is the Badger directory for index snapshots. Empty
	// disables snapshot persistence.
	SnapshotDir string `koanf:"snapshot_dir"`

	HTTP   EmbeddingHTTPConfig `koanf:"http"`
	Qdrant QdrantConfig        `koanf:"qdrant"`
}

// EmbeddingHTTPConfig configures the remote embedding endpoint.
type EmbeddingHTTPConfig struct {
	URL           string        `koanf:"url"`
	Model         string        `koanf:"model"`
	APIKey        string        `koanf:"api_key"`
	Timeout       time.Duration `koanf:"timeout"`
	RatePerSecond float64       `koanf:"rate_per_second"`
	Burst         int           `koanf:"burst"`
}

// QdrantConfig enables the Qdrant category search backend.
type QdrantConfig struct {
	Enabled    bool   `koanf:"enabled"`
	Host       string `koanf:"host"`
	Port       int    `koanf:"port"`
	APIKey     string `koanf:"api_key"`
	UseTLS     bool   `koanf:"use_tls"`
	Collection string `koanf:"collection"`
}

// QueryConfig holds interpreter thresholds.
type QueryConfig struct {
	// Mode is "semantic" or "passthrough". Semantic falls back to
	// passthrough when the vocabulary or embedder cannot be initialized.
	Mode              string        `koanf:"mode"`
	CategoryThreshold float64       `koanf:"category_threshold"`
	BrandAccept       float64       `koanf:"brand_accept"`
	BrandEarlyExit    float64       `koanf:"brand_early_exit"`
	EncodeTimeout     time.Duration `koanf:"encode_timeout"`
}

// CacheConfig configures the parse result cache. RedisAddr selects Redis;
// otherwise an in-process LRU of LRUCapacity entries is used.
type CacheConfig struct {
	Enabled       bool          `koanf:"enabled"`
	TTL           time.Duration `koanf:"ttl"`
	LRUCapacity   int           `koanf:"lru_capacity"`
	RedisAddr     string        `koanf:"redis_addr"`
	RedisPassword string        `koanf:"redis_password"`
	RedisDB       int           `koanf:"redis_db"`
	RedisPrefix   string        `koanf:"redis_prefix"`
}

// RecommendConfig holds recommendation engine settings.
type RecommendConfig struct {
	Neighbors      int           `koanf:"neighbors"`
	NeighborCap    int           `koanf:"neighbor_cap"`
	DefaultN       int           `koanf:"default_n"`
	MaxN           int           `koanf:"max_n"`
	TrainInterval  time.Duration `koanf:"train_interval"`
	TrainTimeout   time.Duration `koanf:"train_timeout"`
	TrainOnStartup bool          `koanf:"train_on_startup"`
	Lookback       time.Duration `koanf:"lookback"` // 0 = all events
}

// DatabaseConfig holds DuckDB settings
type DatabaseConfig struct {
	Path         string        `koanf:"path"`
	MaxMemory    string        `koanf:"max_memory"`
	Threads      int           `koanf:"threads"` // Number of DuckDB threads (0 = use NumCPU)
	QueryTimeout time.Duration `koanf:"query_timeout"`
}

// DocIndexConfig points at the product document index. APIKey takes
// precedence over Username and Password.
type DocIndexConfig struct {
	URL      string        `koanf:"url"`
	Index    string        `koanf:"index"`
	APIKey   string        `koanf:"api_key"`
	Username string        `koanf:"username"`
	Password string        `koanf:"password"`
	Timeout  time.Duration `koanf:"timeout"`

	// Circuit breaker settings
	BreakerMaxRequests  uint32        `koanf:"breaker_max_requests"`
	BreakerInterval     time.Duration `koanf:"breaker_interval"`
	BreakerTimeout      time.Duration `koanf:"breaker_timeout"`
	BreakerMinRequests  uint32        `koanf:"breaker_min_requests"`
	BreakerFailureRatio float64       `koanf:"breaker_failure_ratio"`
}

// NATSConfig holds event ingestion settings.
//
// Example - Embedded server (default when enabled):
//
//	cfg := NATSConfig{
//	    Enabled:        true,
//	    EmbeddedServer: true,
//	    StoreDir:       "/data/nats",
//	}
type NATSConfig struct {
	// Enabled controls whether the ingest consumer runs.
	Enabled bool `koanf:"enabled"`

	// URL is the NATS server connection URL.
	URL string `koanf:"url"`

	// EmbeddedServer starts an in-process NATS server with JetStream.
	// If false, expects an external server at URL.
	EmbeddedServer bool `koanf:"embedded_server"`

	// StoreDir is the JetStream storage directory.
	StoreDir string `koanf:"store_dir"`

	// MaxMemory is the maximum memory for JetStream in bytes.
	MaxMemory int64 `koanf:"max_memory"`

	// MaxStore is the maximum disk storage for JetStream in bytes.
	MaxStore int64 `koanf:"max_store"`

	// StreamRetentionDays is how long to keep events.
	StreamRetentionDays int `koanf:"stream_retention_days"`

	// Topic carries interaction events.
	Topic string `koanf:"topic"`

	// SubscribersCount is the number of concurrent message processors.
	SubscribersCount int `koanf:"subscribers_count"`

	// DurableName is the consumer durable name for message tracking.
	DurableName string `koanf:"durable_name"`

	// QueueGroup is the queue group for load balancing.
	QueueGroup string `koanf:"queue_group"`

	// RouterRetryCount is the maximum number of retries for failed messages.
	RouterRetryCount int `koanf:"router_retry_count"`

	// RouterRetryInitialInterval is the initial backoff interval for retries.
	RouterRetryInitialInterval time.Duration `koanf:"router_retry_initial_interval"`

	// RouterPoisonQueueTopic receives permanently failed messages.
	RouterPoisonQueueTopic string `koanf:"router_poison_queue_topic"`

	// RouterCloseTimeout is the maximum time to wait for graceful shutdown.
	RouterCloseTimeout time.Duration `koanf:"router_close_timeout"`
}

// SecurityConfig holds authentication and request limiting settings.
//
// AuthMode "jwt" protects the admin endpoints with HS256 bearer tokens
// signed with JWTSecret. "none" leaves them open and is rejected in
// production.
type SecurityConfig struct {
	AuthMode          string        `koanf:"auth_mode"`
	JWTSecret         string        `koanf:"jwt_secret"`
	JWTIssuer         string        `koanf:"jwt_issuer"`
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
	CORSOrigins       []string      `koanf:"cors_origins"`
}

// Load reads configuration with Koanf (defaults, optional file, env).
func Load() (*Config, error) {
	return LoadWithKoanf()
}
