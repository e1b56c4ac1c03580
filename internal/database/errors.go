// Shopsense - Product Query Interpretation and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shopsense

package database

import (
	"errors"
	"io"

	"github.com/tomtom215/shopsense/internal/logging"
)

// ErrInvalidEvent is returned for events with an unknown interaction type
// or a missing id. Such events are never stored.
var ErrInvalidEvent = errors.New("invalid interaction event")

// closeWithLog is for deferred closes on the success path.
func closeWithLog(c io.Closer, what string) {
	if c == nil {
		return
	}
	if err := c.Close(); err != nil {
		logging.Warn().Err(err).Str("type", what).Msg("Failed to close resource")
	}
}

// closeQuietly is for error paths, where the original error matters more.
func closeQuietly(c io.Closer) {
	if c != nil {
		_ = c.Close()
	}
}
