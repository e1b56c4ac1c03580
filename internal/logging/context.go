// Shopsense - Product Query Interpretation and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shopsense

package logging

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type ctxKey int

const (
	keyRequestID ctxKey = iota
	keyCorrelationID
	keyLogger
)

// idFields lists the context ids Ctx copies onto log lines, in output order.
var idFields = []struct {
	key  ctxKey
	name string
}{
	{keyCorrelationID, "correlation_id"},
	{keyRequestID, "request_id"},
}

// GenerateRequestID returns a new UUID for an HTTP request.
func GenerateRequestID() string {
	return uuid.NewString()
}

// GenerateCorrelationID returns a short id that follows one request or
// ingested event through API, queue and store logs.
func GenerateCorrelationID() string {
	return uuid.NewString()[:8]
}

func stringValue(ctx context.Context, key ctxKey) string {
	s, _ := ctx.Value(key).(string)
	return s
}

// ContextWithRequestID returns a context carrying id.
func ContextWithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, keyRequestID, id)
}

// RequestIDFromContext returns the request id, or "".
func RequestIDFromContext(ctx context.Context) string {
	return stringValue(ctx, keyRequestID)
}

// ContextWithCorrelationID returns a context carrying id.
func ContextWithCorrelationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, keyCorrelationID, id)
}

// ContextWithNewCorrelationID attaches a freshly generated correlation id.
func ContextWithNewCorrelationID(ctx context.Context) context.Context {
	return ContextWithCorrelationID(ctx, GenerateCorrelationID())
}

// CorrelationIDFromContext returns the correlation id, or "".
func CorrelationIDFromContext(ctx context.Context) string {
	return stringValue(ctx, keyCorrelationID)
}

// ContextWithLogger stores logger in ctx for Ctx to build on.
//
//nolint:gocritic // hugeParam: logger passed by value for zerolog chaining
func ContextWithLogger(ctx context.Context, logger zerolog.Logger) context.Context {
	return context.WithValue(ctx, keyLogger, logger)
}

// Ctx returns the logger stored in ctx, or the global one, with the ids
// found in ctx attached.
//
//	logging.Ctx(ctx).Info().Str("user_id", id).Msg("recommendations served")
func Ctx(ctx context.Context) *zerolog.Logger {
	base, ok := ctx.Value(keyLogger).(zerolog.Logger)
	if !ok {
		base = Logger()
	}
	lc := base.With()
	for _, f := range idFields {
		if id := stringValue(ctx, f.key); id != "" {
			lc = lc.Str(f.name, id)
		}
	}
	l := lc.Logger()
	return &l
}
