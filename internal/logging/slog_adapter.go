// Shopsense - Product Query Interpretation and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shopsense

package logging

import (
	"context"
	"log/slog"

	"github.com/rs/zerolog"
)

// SlogHandler implements slog.Handler on top of zerolog for libraries that
// only accept *slog.Logger: sutureslog and Watermill.
//
// Attributes given to WithAttrs are rendered once into the child zerolog
// context. Group names prefix keys with dots, so
// WithGroup("supervisor").With("name", "http") logs "supervisor.name".
type SlogHandler struct {
	logger zerolog.Logger
	prefix string
}

// NewSlogHandler wraps the global logger.
func NewSlogHandler() *SlogHandler {
	return &SlogHandler{logger: Logger()}
}

// NewSlogHandlerWithLogger wraps logger.
//
//nolint:gocritic // hugeParam: logger passed by value for zerolog chaining
func NewSlogHandlerWithLogger(logger zerolog.Logger) *SlogHandler {
	return &SlogHandler{logger: logger}
}

// Enabled implements slog.Handler.
func (h *SlogHandler) Enabled(_ context.Context, level slog.Level) bool {
	lvl := slogToZerologLevel(level)
	return lvl >= h.logger.GetLevel() && lvl >= zerolog.GlobalLevel()
}

// Handle implements slog.Handler.
//
//nolint:gocritic // hugeParam: slog.Record is passed by value per slog.Handler
func (h *SlogHandler) Handle(_ context.Context, record slog.Record) error {
	event := h.logger.WithLevel(slogToZerologLevel(record.Level))
	record.Attrs(func(a slog.Attr) bool {
		event = appendAttr(event, h.prefix, a)
		return true
	})
	event.Msg(record.Message)
	return nil
}

// WithAttrs implements slog.Handler.
func (h *SlogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}
	ctx := h.logger.With()
	for _, a := range attrs {
		ctx = appendCtxAttr(ctx, h.prefix, a)
	}
	return &SlogHandler{logger: ctx.Logger(), prefix: h.prefix}
}

// WithGroup implements slog.Handler.
func (h *SlogHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	return &SlogHandler{logger: h.logger, prefix: h.prefix + name + "."}
}

// fieldWriter is the subset shared by *zerolog.Event and zerolog.Context
// that attribute rendering needs.
type fieldWriter[T any] interface {
	Str(key, val string) T
	Int64(key string, i int64) T
	Uint64(key string, i uint64) T
	Float64(key string, f float64) T
	Bool(key string, b bool) T
	Interface(key string, i any) T
}

func appendAttr(e *zerolog.Event, prefix string, a slog.Attr) *zerolog.Event {
	return writeAttr[*zerolog.Event](e, prefix, a)
}

func appendCtxAttr(c zerolog.Context, prefix string, a slog.Attr) zerolog.Context {
	return writeAttr[zerolog.Context](c, prefix, a)
}

func writeAttr[T fieldWriter[T]](w T, prefix string, a slog.Attr) T {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return w
	}
	key := prefix + a.Key

	switch a.Value.Kind() {
	case slog.KindGroup:
		nested := prefix
		if a.Key != "" {
			nested = key + "."
		}
		for _, ga := range a.Value.Group() {
			w = writeAttr(w, nested, ga)
		}
		return w
	case slog.KindString:
		return w.Str(key, a.Value.String())
	case slog.KindInt64:
		return w.Int64(key, a.Value.Int64())
	case slog.KindUint64:
		return w.Uint64(key, a.Value.Uint64())
	case slog.KindFloat64:
		return w.Float64(key, a.Value.Float64())
	case slog.KindBool:
		return w.Bool(key, a.Value.Bool())
	case slog.KindDuration:
		return w.Str(key, a.Value.Duration().String())
	case slog.KindTime:
		return w.Str(key, a.Value.Time().Format(zerolog.TimeFieldFormat))
	default:
		if err, ok := a.Value.Any().(error); ok {
			return w.Str(key, err.Error())
		}
		return w.Interface(key, a.Value.Any())
	}
}

// slogToZerologLevel maps slog levels, including values between the named
// ones, onto the nearest zerolog level at or below them.
func slogToZerologLevel(level slog.Level) zerolog.Level {
	switch {
	case level < slog.LevelDebug:
		return zerolog.TraceLevel
	case level < slog.LevelInfo:
		return zerolog.DebugLevel
	case level < slog.LevelWarn:
		return zerolog.InfoLevel
	case level < slog.LevelError:
		return zerolog.WarnLevel
	default:
		return zerolog.ErrorLevel
	}
}

// NewSlogLogger returns an slog.Logger over the global logger.
//
//	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), cfg)
func NewSlogLogger() *slog.Logger {
	return slog.New(NewSlogHandler())
}
