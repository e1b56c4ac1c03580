// Shopsense - Product Query Interpretation and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shopsense

package recommend

import (
	"cmp"
	"slices"

	"github.com/viant/vec/search"
)

// Model is a brute-force cosine kNN index over the rows of a Matrix. It is
// read-only after BuildModel and safe for concurrent use.
type Model struct {
	matrix      *Matrix
	mags        []float32
	neighborCap int
	neighbors   int
}

// neighbor is one candidate row and its cosine distance to the query row.
type neighbor struct {
	row      int
	distance float32
}

// BuildModel indexes m. neighborCap bounds how many rows a single query can
// return; neighbors is how many a recommendation asks for, including the
// query row itself.
func BuildModel(m *Matrix, neighbors, neighborCap int) *Model {
	if m == nil {
		m = Aggregate(nil)
	}
	model := &Model{
		matrix:      m,
		mags:        make([]float32, len(m.rows)),
		neighborCap: neighborCap,
		neighbors:   neighbors,
	}
	for i, rw := range m.rows {
		model.mags[i] = search.Float32s(rw.vals).Magnitude()
	}
	return model
}

// Matrix returns the indexed matrix.
func (md *Model) Matrix() *Matrix {
	return md.matrix
}

// Recommend ranks the items userID has not interacted with by the mean
// weight its nearest neighbors gave them. n <= 0 returns every positively
// scored item.
func (md *Model) Recommend(userID string, n int) Result {
	res := Result{UserID: userID}
	if md == nil || md.matrix.Empty() {
		res.Outcome = OutcomeModelUnbuilt
		return res
	}
	target, ok := md.matrix.Row(userID)
	if !ok {
		res.Outcome = OutcomeUserNotFound
		return res
	}

	k := min(md.neighbors, md.neighborCap, len(md.matrix.rows))
	nearest := md.kNearest(target, k)
	if len(nearest) > 0 {
		nearest = nearest[1:]
	}
	if len(nearest) == 0 {
		res.Outcome = OutcomeNoSimilarUsers
		return res
	}

	own := md.matrix.rows[target]
	if len(own.cols) == len(md.matrix.Items) {
		res.Outcome = OutcomeNoNewItems
		return res
	}

	sums := make([]float32, len(md.matrix.Items))
	for _, nb := range nearest {
		rw := md.matrix.rows[nb.row]
		for i, c := range rw.cols {
			sums[c] += rw.vals[i]
		}
	}

	type scored struct {
		col   int
		score float32
	}
	count := float32(len(nearest))
	candidates := make([]scored, 0)
	for c, sum := range sums {
		if sum <= 0 {
			continue
		}
		if _, interacted := slices.BinarySearch(own.cols, c); interacted {
			continue
		}
		candidates = append(candidates, scored{col: c, score: sum / count})
	}
	if len(candidates) == 0 {
		res.Outcome = OutcomeNoPositiveScores
		return res
	}

	slices.SortStableFunc(candidates, func(a, b scored) int {
		return cmp.Compare(b.score, a.score)
	})
	if n > 0 && len(candidates) > n {
		candidates = candidates[:n]
	}
	res.Items = make([]string, len(candidates))
	for i, s := range candidates {
		res.Items[i] = md.matrix.Items[s.col]
	}
	return res
}

// kNearest returns the k rows closest to target, ordered by distance with
// target itself first among equals and then by row index.
func (md *Model) kNearest(target, k int) []neighbor {
	if k <= 0 {
		return nil
	}
	all := make([]neighbor, len(md.matrix.rows))
	for r := range md.matrix.rows {
		all[r] = neighbor{row: r, distance: md.distance(target, r)}
	}
	slices.SortFunc(all, func(a, b neighbor) int {
		if c := cmp.Compare(a.distance, b.distance); c != 0 {
			return c
		}
		if a.row == target {
			return -1
		}
		if b.row == target {
			return 1
		}
		return cmp.Compare(a.row, b.row)
	})
	return all[:k]
}

// distance is the cosine distance between two rows, clamped to [0, 2].
// A row's distance to itself is exactly 0.
func (md *Model) distance(a, b int) float32 {
	if a == b {
		return 0
	}
	ma, mb := md.mags[a], md.mags[b]
	if ma == 0 || mb == 0 {
		return 1
	}
	d := 1 - sparseDot(md.matrix.rows[a], md.matrix.rows[b])/(ma*mb)
	return min(max(d, 0), 2)
}

// sparseDot merges two column-sorted rows.
func sparseDot(a, b row) float32 {
	var dot float32
	i, j := 0, 0
	for i < len(a.cols) && j < len(b.cols) {
		switch {
		case a.cols[i] == b.cols[j]:
			dot += a.vals[i] * b.vals[j]
			i++
			j++
		case a.cols[i] < b.cols[j]:
			i++
		default:
			j++
		}
	}
	return dot
}
