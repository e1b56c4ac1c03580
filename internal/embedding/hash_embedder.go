// Shopsense - Product Query Interpretation and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shopsense

package embedding

import (
	"context"
	"math"
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// DefaultHashDimension is the vector size used when none is configured.
const DefaultHashDimension = 256

// HashEmbedder is a deterministic, offline embedder. It hashes word tokens
// and padded character trigrams into signed buckets and L2-normalizes the
// result, so texts sharing words or word fragments land close together.
type HashEmbedder struct {
	dim int
}

// NewHashEmbedder returns a HashEmbedder producing vectors of size dim, or
// DefaultHashDimension when dim is not positive.
func NewHashEmbedder(dim int) *HashEmbedder {
	if dim <= 0 {
		dim = DefaultHashDimension
	}
	return &HashEmbedder{dim: dim}
}

// Identity implements Identifier.
func (h *HashEmbedder) Identity() string { return "hash/" + strconv.Itoa(h.dim) }

// Dimension implements Embedder.
func (h *HashEmbedder) Dimension() int { return h.dim }

// Embed implements Embedder. Blank text yields the zero vector, which never
// matches anything.
func (h *HashEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	vec := make([]float32, h.dim)
	for _, tok := range strings.Fields(strings.ToLower(text)) {
		tok = strings.Trim(tok, ".,;:!?\"'()[]{}$")
		if tok == "" {
			continue
		}
		h.add(vec, "w:"+tok, 1)

		padded := []rune(" " + tok + " ")
		for i := 0; i+3 <= len(padded); i++ {
			h.add(vec, "t:"+string(padded[i:i+3]), 0.5)
		}
	}

	var norm float64
	for _, v := range vec {
		norm += float64(v) * float64(v)
	}
	if norm == 0 {
		return vec, nil
	}
	scale := float32(1 / math.Sqrt(norm))
	for i := range vec {
		vec[i] *= scale
	}
	return vec, nil
}

func (h *HashEmbedder) add(vec []float32, feature string, weight float32) {
	sum := xxhash.Sum64String(feature)
	idx := int(sum % uint64(h.dim))
	if sum>>63 == 1 {
		weight = -weight
	}
	vec[idx] += weight
}
