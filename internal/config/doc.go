// Shopsense - Product Query Interpretation and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shopsense

/*
Package config loads and validates Shopsense configuration.

# Configuration Sources

Koanf v2 merges three layers, later layers winning:
  - built-in defaults (defaultConfig)
  - an optional YAML file: CONFIG_PATH, ./config.yaml, or /etc/shopsense/config.yaml
  - environment variables, through an explicit mapping table

Unmapped environment variables are ignored.

# Environment Variables

Server:
  - HTTP_HOST, HTTP_PORT (default 8000), HTTP_TIMEOUT, ENVIRONMENT

Query interpreter:
  - QUERY_MODE: semantic or passthrough (default semantic)
  - QUERY_CATEGORY_THRESHOLD (default 0.4)
  - QUERY_BRAND_ACCEPT (default 80), QUERY_BRAND_EARLY_EXIT (default 90)
  - QUERY_ENCODE_TIMEOUT (default 5s)

Vocabulary and embeddings:
  - CATALOG_PATH, VOCABULARY_OVERRIDES_PATH, VOCABULARY_WATCH_OVERRIDES
  - EMBEDDING_PROVIDER: hash or http; EMBEDDING_URL, EMBEDDING_MODEL
  - EMBEDDING_SNAPSHOT_DIR: Badger directory for index snapshots
  - QDRANT_ENABLED, QDRANT_HOST, QDRANT_PORT, QDRANT_COLLECTION

Recommendations:
  - RECOMMEND_NEIGHBORS (default 10), RECOMMEND_NEIGHBOR_CAP (default 20)
  - RECOMMEND_TRAIN_INTERVAL (default 15m), RECOMMEND_LOOKBACK

Storage and messaging:
  - DUCKDB_PATH, DUCKDB_MAX_MEMORY, DUCKDB_THREADS
  - DOCINDEX_URL, DOCINDEX_INDEX
  - REDIS_ADDR: enables the Redis parse cache
  - NATS_ENABLED, NATS_URL, NATS_EMBEDDED, NATS_TOPIC

Security:
  - AUTH_MODE: jwt or none (none is rejected in production)
  - JWT_SECRET: at least 32 characters, required for jwt
  - RATE_LIMIT_REQUESTS, RATE_LIMIT_WINDOW, DISABLE_RATE_LIMIT
  - CORS_ORIGINS: comma-separated

# Usage

	cfg, err := config.Load()
	if err != nil {
	    log.Fatal(err)
	}
	db, err := database.New(&cfg.Database)

Config is immutable after Load and safe for concurrent reads.
*/
package config
