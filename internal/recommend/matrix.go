// Shopsense - Product Query Interpretation and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shopsense

package recommend

import (
	"slices"
)

// Matrix is a sparse user-by-item weight matrix. Rows and columns are
// sorted ascending by id. Each row stores its non-zero cells ordered by
// column index.
type Matrix struct {
	Users []string
	Items []string

	rows      []row
	userIndex map[string]int
}

type row struct {
	cols []int
	vals []float32
}

// Aggregate folds raw events into a Matrix. Events with an unknown kind or
// an empty id are dropped; repeated (user, item) pairs keep the highest
// weight.
//
//nolint:gocritic // rangeValCopy: Event passed by value in range, acceptable for clarity
func Aggregate(events []Event) *Matrix {
	cells := make(map[string]map[string]float32)
	items := make(map[string]struct{})

	for _, ev := range events {
		w := ev.Kind.Weight()
		if w == 0 || ev.UserID == "" || ev.ProductID == "" {
			continue
		}
		userCells := cells[ev.UserID]
		if userCells == nil {
			userCells = make(map[string]float32)
			cells[ev.UserID] = userCells
		}
		if w > userCells[ev.ProductID] {
			userCells[ev.ProductID] = w
		}
		items[ev.ProductID] = struct{}{}
	}

	m := &Matrix{
		Users:     sortedKeys(cells),
		Items:     sortedKeys(items),
		userIndex: make(map[string]int, len(cells)),
	}
	itemIndex := make(map[string]int, len(m.Items))
	for i, id := range m.Items {
		itemIndex[id] = i
	}

	m.rows = make([]row, len(m.Users))
	for r, user := range m.Users {
		m.userIndex[user] = r
		userCells := cells[user]
		cols := make([]int, 0, len(userCells))
		for item := range userCells {
			cols = append(cols, itemIndex[item])
		}
		slices.Sort(cols)
		vals := make([]float32, len(cols))
		for i, c := range cols {
			vals[i] = userCells[m.Items[c]]
		}
		m.rows[r] = row{cols: cols, vals: vals}
	}
	return m
}

// Empty reports whether the matrix has no rows.
func (m *Matrix) Empty() bool {
	return m == nil || len(m.Users) == 0
}

// Row returns the index of user, if present.
func (m *Matrix) Row(user string) (int, bool) {
	if m == nil {
		return 0, false
	}
	r, ok := m.userIndex[user]
	return r, ok
}

// At returns the weight at (row, col), or 0 for a missing cell.
func (m *Matrix) At(r, c int) float32 {
	rw := m.rows[r]
	if i, ok := slices.BinarySearch(rw.cols, c); ok {
		return rw.vals[i]
	}
	return 0
}

// Weight returns the aggregated weight for (user, item), or 0.
func (m *Matrix) Weight(user, item string) float32 {
	r, ok := m.Row(user)
	if !ok {
		return 0
	}
	c, ok := slices.BinarySearch(m.Items, item)
	if !ok {
		return 0
	}
	return m.At(r, c)
}

// NonZero returns the number of populated cells.
func (m *Matrix) NonZero() int {
	if m == nil {
		return 0
	}
	n := 0
	for _, rw := range m.rows {
		n += len(rw.cols)
	}
	return n
}

func sortedKeys[V any](set map[string]V) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
