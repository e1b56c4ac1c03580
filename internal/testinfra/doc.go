// Shopsense - Product Query Interpretation and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shopsense

// Package testinfra provides containers for integration tests.
//
// Everything here is built with the integration tag and uses
// testcontainers-go. Tests call SkipIfNoDocker first so they skip cleanly
// on machines without a Docker daemon:
//
//	func TestSearch(t *testing.T) {
//	    testinfra.SkipIfNoDocker(t)
//	    ctx := context.Background()
//	    es, err := testinfra.NewElasticsearchContainer(ctx)
//	    if err != nil {
//	        t.Fatal(err)
//	    }
//	    defer testinfra.CleanupContainer(t, ctx, es.Container)
//	    // index documents, then query es.URL
//	}
//
// # Containers
//
//   - ElasticsearchContainer: single-node cluster backing the product index
//   - RedisContainer: shared parse cache
//   - QdrantContainer: remote category search
//
// First runs download the images; later runs use the local image cache.
package testinfra
