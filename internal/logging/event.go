// Shopsense - Product Query Interpretation and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shopsense

package logging

import (
	"context"

	"github.com/rs/zerolog"
)

// EventLogger logs the lifecycle of ingested interaction events.
type EventLogger struct {
	logger zerolog.Logger
}

// NewEventLogger creates an event logger on the global logger.
func NewEventLogger() *EventLogger {
	return &EventLogger{logger: With().Str("component", "eventprocessor").Logger()}
}

// NewEventLoggerWithLogger creates an event logger on logger.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewEventLoggerWithLogger(logger zerolog.Logger) *EventLogger {
	return &EventLogger{logger: logger.With().Str("component", "eventprocessor").Logger()}
}

func (e *EventLogger) from(ctx context.Context) zerolog.Logger {
	if id := CorrelationIDFromContext(ctx); id != "" {
		return e.logger.With().Str("correlation_id", id).Logger()
	}
	return e.logger
}

// LogEventReceived logs an event taken off the stream.
func (e *EventLogger) LogEventReceived(ctx context.Context, messageID, userID, kind string) {
	l := e.from(ctx)
	l.Debug().
		Str("message_id", messageID).
		Str("user_id", userID).
		Str("interaction_type", kind).
		Msg("event received")
}

// LogEventProcessed logs an event stored successfully.
func (e *EventLogger) LogEventProcessed(ctx context.Context, messageID string, durationMs int64) {
	l := e.from(ctx)
	l.Debug().
		Str("message_id", messageID).
		Int64("duration_ms", durationMs).
		Msg("event processed")
}

// LogEventRejected logs a malformed event that will not be retried.
func (e *EventLogger) LogEventRejected(ctx context.Context, messageID string, err error) {
	l := e.from(ctx)
	l.Warn().
		Err(err).
		Str("message_id", messageID).
		Msg("event rejected")
}

// LogEventFailed logs a storage failure; the message will be redelivered.
func (e *EventLogger) LogEventFailed(ctx context.Context, messageID string, err error) {
	l := e.from(ctx)
	l.Error().
		Err(err).
		Str("message_id", messageID).
		Msg("event processing failed")
}

// LogEventPublished logs an event written to the stream.
func (e *EventLogger) LogEventPublished(ctx context.Context, messageID, topic string) {
	l := e.from(ctx)
	l.Debug().
		Str("message_id", messageID).
		Str("topic", topic).
		Msg("event published")
}

// LogSubscriptionStarted logs a consumer attaching to topic.
func (e *EventLogger) LogSubscriptionStarted(topic, queue string) {
	e.logger.Info().
		Str("topic", topic).
		Str("queue", queue).
		Msg("subscription started")
}

// LogSubscriptionStopped logs a consumer detaching from topic.
func (e *EventLogger) LogSubscriptionStopped(topic string) {
	e.logger.Info().Str("topic", topic).Msg("subscription stopped")
}
