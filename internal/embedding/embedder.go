// Shopsense - Product Query Interpretation and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shopsense

package embedding

import (
	"context"
	"errors"
	"fmt"
)

// ErrEncoding wraps every failure to turn text into a vector. The query
// interpreter treats it as "no category" rather than a failed parse.
var ErrEncoding = errors.New("embedding: encoding failed")

// Embedder turns text into a fixed-dimension vector. Implementations must be
// safe for concurrent use.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	Dimension() int
}

// Identifier is implemented by embedders and searchers whose output
// depends on settings beyond their Go type, such as a model name.
type Identifier interface {
	Identity() string
}

// Identity describes v for cache keys: two values with the same identity
// produce the same vectors or matches.
func Identity(v any) string {
	if id, ok := v.(Identifier); ok {
		return id.Identity()
	}
	return fmt.Sprintf("%T", v)
}

// Encode embeds a single text and checks the result against the embedder's
// declared dimension. Every error it returns matches ErrEncoding.
func Encode(ctx context.Context, e Embedder, text string) ([]float32, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEncoding, err)
	}
	vec, err := e.Embed(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrEncoding, err)
	}
	if d := e.Dimension(); d > 0 && len(vec) != d {
		return nil, fmt.Errorf("%w: got %d dimensions, want %d", ErrEncoding, len(vec), d)
	}
	return vec, nil
}
