// Shopsense - Product Query Interpretation and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shopsense

/*
Package main is the entry point for the Shopsense server.

Shopsense turns free-text shopping queries into structured product filters,
forwards them to the product document index, and serves item-based
collaborative-filtering recommendations trained on recorded user
interactions.

# Application Architecture

Long-running work runs under a Suture v4 supervisor tree:

	RootSupervisor ("shopsense")
	├── DataSupervisor ("data-layer")
	│   ├── interpreter-rebuilder (vocabulary reloads, index rebuilds)
	│   └── model-retrainer (scheduled recommendation training)
	├── MessagingSupervisor ("messaging-layer")
	│   └── interaction-ingest (optional, -tags nats)
	└── APISupervisor ("api-layer")
	    └── http-server

Component initialization order:

 1. Configuration: Koanf v2 with defaults, config file and environment
 2. Logging: zerolog with JSON or console output
 3. Event store: DuckDB table of user-product interactions
 4. Query interpreter: vocabulary load, term embedding, optional snapshot
    restore, Qdrant sync and parse cache
 5. Document index client with circuit breaker
 6. Recommendation engine and its retrain service
 7. Interaction ingestion: NATS JetStream or direct store writes
 8. Admin authentication (JWT or none)
 9. Supervisor tree and Chi HTTP server

A failed interpreter build does not stop startup. The server answers with
the passthrough interpreter until a later rebuild succeeds.

# Configuration

Sources are layered, highest priority first:

	Environment variables > Config file (CONFIG_PATH or config.yaml) > Defaults

Commonly used environment variables:

	HTTP_PORT=8000
	LOG_LEVEL=info               # trace, debug, info, warn, error
	LOG_FORMAT=json              # json or console

	CATALOG_PATH=data/styles.csv
	VOCABULARY_OVERRIDES_PATH=data/vocabulary.yaml
	QUERY_MODE=semantic          # semantic or passthrough
	EMBEDDING_PROVIDER=hash      # hash or http
	EMBEDDING_URL=http://embedder:8080/v1/embeddings

	DOCINDEX_URL=http://opensearch:9200
	DOCINDEX_INDEX=products
	DUCKDB_PATH=/data/shopsense.duckdb

	AUTH_MODE=jwt                # jwt or none
	JWT_SECRET=<32+ chars>

# Flags

	-issue-admin-token <subject>  print a signed admin JWT and exit
	-token-ttl <duration>         lifetime of the issued token (default 24h)

Token issuance only reads configuration. It does not open the event store
or start any service.

# Build Tags

	go build ./cmd/server              # events written directly to DuckDB
	go build -tags nats ./cmd/server   # events routed through NATS JetStream

Without the nats tag, NATS_ENABLED=true logs a warning and falls back to
direct writes.

# Signal Handling

SIGINT and SIGTERM cancel the root context. The HTTP server drains
in-flight requests within HTTP_SHUTDOWN_TIMEOUT, the ingest router and NATS
connection close, and the event store is closed last. Services that miss
the shutdown timeout are logged by name.

# Usage Examples

Development:

	export AUTH_MODE=none LOG_FORMAT=console
	go run ./cmd/server

Production:

	export AUTH_MODE=jwt JWT_SECRET=$(openssl rand -base64 48)
	export ENVIRONMENT=production
	./shopsense
	./shopsense -issue-admin-token ops@example.com -token-ttl 1h

# Endpoints

	GET  /api/v1/health, /live, /ready
	POST /api/v1/parse
	GET  /api/v1/products, /products/latest, /products/{id}
	POST /api/v1/recommendations
	POST /api/v1/events
	POST /api/v1/admin/retrain       (admin)
	GET  /api/v1/admin/model         (admin)
	GET  /api/v1/admin/performance   (admin)
	GET  /metrics

# See Also

  - internal/config: configuration loading
  - internal/query: query interpretation
  - internal/recommend: recommendation engine
  - internal/supervisor: process supervision
  - internal/api: HTTP handlers and routing
*/
package main
