// Shopsense - Product Query Interpretation and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shopsense

/*
Package metrics provides Prometheus metrics collection and export for observability.

All collectors are registered with the default registry through promauto at
package init and exported on /metrics by the API router.

# Available Metrics

Every name carries the shopsense_ prefix.

Query interpretation:
  - query_parse_requests_total{mode}, query_parse_field_hits_total{field}
  - query_parse_duration_seconds
  - query_parse_cache_hits_total, query_parse_cache_misses_total
  - embedding_encode_duration_seconds, embedding_encode_failures_total
  - embedding_index_terms, embedding_index_builds_total{source}

Recommendations:
  - recommend_outcomes_total{outcome}
  - recommend_train_duration_seconds, recommend_train_errors_total
  - recommend_model_users, recommend_model_items

Infrastructure:
  - duckdb_query_duration_seconds{operation,table}
  - duckdb_query_errors_total{operation,table,error_type}, where error_type
    is one of timeout, canceled, no_rows, connection, other
  - api_requests_total{method,endpoint,status_code}, api_request_duration_seconds
  - circuit_breaker_state{name} (0=closed, 1=half-open, 2=open)
  - circuit_breaker_requests_total{name,result}
  - docindex_requests_total{operation,result}
  - nats_messages_published_total, nats_messages_consumed_total

# Usage

	start := time.Now()
	rows, err := db.QueryContext(ctx, query)
	metrics.RecordDBQuery("select", "interactions", time.Since(start), err)
*/
package metrics
