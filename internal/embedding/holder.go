// Shopsense - Product Query Interpretation and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shopsense

package embedding

import (
	"context"
	"sync/atomic"
)

// Holder publishes the current Index. Readers always see either the old or
// the new index in full; a rebuild is a single pointer swap.
type Holder struct {
	current atomic.Pointer[Index]
}

// NewHolder returns a holder serving idx, which may be nil.
func NewHolder(idx *Index) *Holder {
	h := &Holder{}
	if idx != nil {
		h.current.Store(idx)
	}
	return h
}

// Load returns the current index, or nil before the first Swap.
func (h *Holder) Load() *Index {
	return h.current.Load()
}

// Swap publishes idx and returns the index it replaced.
func (h *Holder) Swap(idx *Index) *Index {
	return h.current.Swap(idx)
}

// Search implements Searcher against whatever index is current.
func (h *Holder) Search(ctx context.Context, vec []float32, threshold float32) (Match, bool, error) {
	return h.Load().Search(ctx, vec, threshold)
}
