// Shopsense - Product Query Interpretation and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shopsense

package eventprocessor

import (
	"log/slog"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/rs/zerolog"

	"github.com/tomtom215/shopsense/internal/logging"
)

// NewWatermillLogger routes Watermill's logs into logger through the slog
// bridge.
//
//nolint:gocritic // hugeParam: logger passed by value for zerolog chaining
func NewWatermillLogger(logger zerolog.Logger) watermill.LoggerAdapter {
	handler := logging.NewSlogHandlerWithLogger(logger.With().Str("component", "watermill").Logger())
	return watermill.NewSlogLogger(slog.New(handler))
}
