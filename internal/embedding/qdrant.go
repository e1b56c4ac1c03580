// Shopsense - Product Query Interpretation and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shopsense

package embedding

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/qdrant/go-client/qdrant"
)

const qdrantTermField = "term"

// QdrantConfig configures a QdrantSearcher.
type QdrantConfig struct {
	Host       string
	Port       int
	APIKey     string
	UseTLS     bool
	Collection string
}

// QdrantSearcher loads category indexes into Qdrant. Each index gets its
// own collection, "<Collection>_<digest>_<dimension>", so an interpreter
// keeps searching the complete collection it was built with while the next
// one loads. Prune removes collections that are no longer served.
//
// Qdrant orders equal scores by its own rules, so ties between identical
// similarities may resolve differently from Index.NearestAbove.
type QdrantSearcher struct {
	client *qdrant.Client
	base   string

	mu     sync.Mutex
	active string
}

// NewQdrantSearcher connects to Qdrant.
func NewQdrantSearcher(cfg QdrantConfig) (*QdrantSearcher, error) {
	if cfg.Collection == "" {
		return nil, errors.New("qdrant collection name is required")
	}
	client, err := qdrant.NewClient(&qdrant.Config{
		Host:   cfg.Host,
		Port:   cfg.Port,
		APIKey: cfg.APIKey,
		UseTLS: cfg.UseTLS,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create qdrant client: %w", err)
	}
	return &QdrantSearcher{client: client, base: cfg.Collection}, nil
}

// collectionName derives the collection that holds idx.
func collectionName(base string, idx *Index) string {
	return base + "_" + idx.Digest() + "_" + strconv.Itoa(idx.Dimension())
}

// ownedBy reports whether name was produced by collectionName for base.
func ownedBy(base, name string) bool {
	rest, ok := strings.CutPrefix(name, base+"_")
	if !ok {
		return false
	}
	digest, dim, ok := strings.Cut(rest, "_")
	if !ok || len(digest) != 16 {
		return false
	}
	if _, err := strconv.ParseUint(digest, 16, 64); err != nil {
		return false
	}
	_, err := strconv.Atoi(dim)
	return err == nil
}

// Sync writes idx into its collection and returns a Searcher bound to it.
// The collection being served is reused as is; any other existing one with
// the same name is left over from an interrupted sync and is recreated.
// An empty index creates nothing, since no search runs without terms.
func (q *QdrantSearcher) Sync(ctx context.Context, idx *Index) (Searcher, error) {
	name := collectionName(q.base, idx)
	bound := &QdrantCollection{client: q.client, name: name}

	q.mu.Lock()
	active := q.active
	q.mu.Unlock()
	if name == active || idx.Len() == 0 {
		return bound, nil
	}

	exists, err := q.client.CollectionExists(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("check collection %s: %w", name, err)
	}
	if exists {
		if err := q.client.DeleteCollection(ctx, name); err != nil {
			return nil, fmt.Errorf("drop stale collection %s: %w", name, err)
		}
	}
	if err := q.client.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: name,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     uint64(idx.Dimension()),
			Distance: qdrant.Distance_Cosine,
		}),
	}); err != nil {
		return nil, fmt.Errorf("create collection %s: %w", name, err)
	}

	wait := true
	if _, err := q.client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: name,
		Wait:           &wait,
		Points:         termPoints(idx),
	}); err != nil {
		_ = q.client.DeleteCollection(context.WithoutCancel(ctx), name)
		return nil, fmt.Errorf("upsert terms into %s: %w", name, err)
	}
	return bound, nil
}

// Prune marks keep as the served collection and deletes every other
// collection this searcher created. keep must come from Sync.
func (q *QdrantSearcher) Prune(ctx context.Context, keep Searcher) error {
	kept, ok := keep.(*QdrantCollection)
	if !ok {
		return fmt.Errorf("prune: %T is not a qdrant collection", keep)
	}
	q.mu.Lock()
	q.active = kept.name
	q.mu.Unlock()

	names, err := q.client.ListCollections(ctx)
	if err != nil {
		return fmt.Errorf("list collections: %w", err)
	}
	var errs []error
	for _, name := range names {
		if name == kept.name || !ownedBy(q.base, name) {
			continue
		}
		if err := q.client.DeleteCollection(ctx, name); err != nil {
			errs = append(errs, fmt.Errorf("delete %s: %w", name, err))
		}
	}
	return errors.Join(errs...)
}

// Close closes the client connection.
func (q *QdrantSearcher) Close() error {
	return q.client.Close()
}

// QdrantCollection is a Searcher over one synced collection.
type QdrantCollection struct {
	client *qdrant.Client
	name   string
}

// Name returns the collection name.
func (c *QdrantCollection) Name() string { return c.name }

// Identity implements Identifier.
func (c *QdrantCollection) Identity() string { return "qdrant:" + c.name }

// Search implements Searcher.
func (c *QdrantCollection) Search(ctx context.Context, vec []float32, threshold float32) (Match, bool, error) {
	limit := uint64(1)
	points, err := c.client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: c.name,
		Query:          qdrant.NewQuery(vec...),
		Limit:          &limit,
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		return Match{}, false, fmt.Errorf("qdrant search failed: %w", err)
	}
	m, ok := bestPoint(points, threshold)
	return m, ok, nil
}

// termPoints converts idx into Qdrant points. Point ids are term positions.
func termPoints(idx *Index) []*qdrant.PointStruct {
	points := make([]*qdrant.PointStruct, 0, idx.Len())
	for i, term := range idx.terms {
		points = append(points, &qdrant.PointStruct{
			Id:      qdrant.NewIDNum(uint64(i)),
			Vectors: qdrant.NewVectors(idx.vecs[i]...),
			Payload: qdrant.NewValueMap(map[string]any{qdrantTermField: term}),
		})
	}
	return points
}

// bestPoint applies the strict threshold to the top scored point.
func bestPoint(points []*qdrant.ScoredPoint, threshold float32) (Match, bool) {
	if len(points) == 0 || points[0].Score <= threshold {
		return Match{}, false
	}
	term := points[0].Payload[qdrantTermField].GetStringValue()
	if term == "" {
		return Match{}, false
	}
	return Match{Term: term, Score: points[0].Score}, true
}
