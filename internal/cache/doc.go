// Shopsense - Product Query Interpretation and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shopsense

/*
Package cache provides the byte-oriented Store used to memoize parsed query
predicates.

Two backends implement Store:
  - LRU: thread-safe in-process cache with O(1) eviction and lazy TTL expiry
  - Redis: shared cache for multi-replica deployments (go-redis)

The parse cache keys entries by a digest of the query text and the
interpreter version, so a vocabulary reload never serves stale predicates.
Cache failures are never fatal to a request.
*/
package cache
