// Shopsense - Product Query Interpretation and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shopsense

package recommend

import (
	"fmt"
	"time"
)

// Config contains all configuration for the recommendation engine.
type Config struct {
	// Neighbors is how many nearest rows a recommendation queries,
	// including the user's own row. Default: 10.
	Neighbors int `json:"neighbors"`

	// NeighborCap is the most rows the model will ever return for one
	// query. The effective neighbor count is min(Neighbors, NeighborCap,
	// users). Default: 20.
	NeighborCap int `json:"neighbor_cap"`

	// DefaultN is used when a request asks for zero items. Default: 5.
	DefaultN int `json:"default_n"`

	// MaxN bounds the number of items one request may ask for. Default: 50.
	MaxN int `json:"max_n"`

	// Training contains training schedule parameters.
	Training TrainingConfig `json:"training"`
}

// TrainingConfig controls model rebuilds.
type TrainingConfig struct {
	// Interval between scheduled retrains. Zero disables scheduling.
	Interval time.Duration `json:"interval"`

	// Timeout bounds a single training run.
	Timeout time.Duration `json:"timeout"`

	// Lookback limits training to events newer than now-Lookback. Zero
	// means all events.
	Lookback time.Duration `json:"lookback"`
}

// DefaultConfig returns a Config with production defaults.
func DefaultConfig() *Config {
	return &Config{
		Neighbors:   10,
		NeighborCap: 20,
		DefaultN:    5,
		MaxN:        50,
		Training: TrainingConfig{
			Interval: 15 * time.Minute,
			Timeout:  5 * time.Minute,
		},
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.Neighbors < 1 {
		return fmt.Errorf("neighbors must be at least 1, got %d", c.Neighbors)
	}
	if c.NeighborCap < 1 {
		return fmt.Errorf("neighbor_cap must be at least 1, got %d", c.NeighborCap)
	}
	if c.DefaultN < 1 {
		return fmt.Errorf("default_n must be at least 1, got %d", c.DefaultN)
	}
	if c.MaxN < c.DefaultN {
		return fmt.Errorf("max_n (%d) must be >= default_n (%d)", c.MaxN, c.DefaultN)
	}
	if c.Training.Interval < 0 {
		return fmt.Errorf("training interval must not be negative, got %v", c.Training.Interval)
	}
	if c.Training.Timeout <= 0 {
		return fmt.Errorf("training timeout must be positive, got %v", c.Training.Timeout)
	}
	if c.Training.Lookback < 0 {
		return fmt.Errorf("training lookback must not be negative, got %v", c.Training.Lookback)
	}
	return nil
}
