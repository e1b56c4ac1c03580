// Shopsense - Product Query Interpretation and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shopsense

/*
Package embedding provides the vector side of category matching.

An Embedder turns text into a vector. HashEmbedder works offline and is the
default; HTTPEmbedder calls a remote model endpoint behind a rate limiter.

Build encodes every category term once into an Index, a brute-force cosine
index whose NearestAbove returns the single best term strictly above a
similarity threshold. Indexes never change after Build. A rebuild produces a
new Index that is published through a Holder in one atomic swap.

Snapshots persist an index together with the hash of the vocabulary it was
built from and its build time. SnapshotStore keeps them in Badger so a
restart with an unchanged vocabulary skips re-encoding:

	snap, err := store.Load(ctx, vocab.Hash())
	if errors.Is(err, embedding.ErrSnapshotNotFound) {
	    idx, err = embedding.Build(ctx, embedder, vocab.CategoryTerms(), embedding.BuildOptions{})
	    ...
	    err = store.Save(ctx, idx.Snapshot(vocab.Hash()))
	}

QdrantSearcher optionally serves category search from Qdrant. Every synced
index lives in its own collection, and the QdrantCollection returned by
Sync searches only that one.
*/
package embedding
