// Shopsense - Product Query Interpretation and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shopsense

package query

import (
	"fmt"
	"time"
)

// Config holds the interpreter's tunable thresholds.
type Config struct {
	// CategoryThreshold is the cosine similarity a category term must
	// strictly exceed to be accepted.
	CategoryThreshold float64

	// BrandAccept is the minimum WRatio score (0-100) for a brand match.
	BrandAccept float64

	// BrandEarlyExit stops the brand scan once the best score exceeds it.
	BrandEarlyExit float64

	// EncodeTimeout bounds the per-query embedding call. Zero means no
	// limit beyond the caller's context.
	EncodeTimeout time.Duration
}

// DefaultConfig returns the standard thresholds.
func DefaultConfig() Config {
	return Config{
		CategoryThreshold: 0.4,
		BrandAccept:       80,
		BrandEarlyExit:    90,
		EncodeTimeout:     5 * time.Second,
	}
}

// Validate checks threshold ranges.
func (c Config) Validate() error {
	if c.CategoryThreshold < -1 || c.CategoryThreshold > 1 {
		return fmt.Errorf("category threshold must be within [-1, 1], got %v", c.CategoryThreshold)
	}
	if c.BrandAccept < 0 || c.BrandAccept > 100 {
		return fmt.Errorf("brand accept score must be within [0, 100], got %v", c.BrandAccept)
	}
	if c.BrandEarlyExit < c.BrandAccept || c.BrandEarlyExit > 100 {
		return fmt.Errorf("brand early-exit score must be within [%v, 100], got %v", c.BrandAccept, c.BrandEarlyExit)
	}
	if c.EncodeTimeout < 0 {
		return fmt.Errorf("encode timeout must not be negative, got %v", c.EncodeTimeout)
	}
	return nil
}
