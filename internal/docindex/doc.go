// Shopsense - Product Query Interpretation and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shopsense

/*
Package docindex reads products from the Elasticsearch-compatible document
index that backs the catalogue endpoints.

The package builds query DSL bodies from interpreted predicates and sends
them with a small JSON-over-HTTP client. Every request goes through a
gobreaker circuit breaker: server errors and transport failures count
against it, while 4xx rejections do not.

Errors:

  - ErrUnavailable: the index is down, timed out or the breaker is open
  - ErrNotFound: a lookup by id matched nothing
  - ErrRejected: the index refused the request as malformed

Usage:

	client, err := docindex.New(&cfg.DocIndex, nil)
	if err != nil {
	    return err
	}
	products, err := client.Search(ctx, &predicate)
*/
package docindex
