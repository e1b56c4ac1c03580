// Shopsense - Product Query Interpretation and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shopsense

package logging

import (
	"io"
	"os"
	"strings"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
)

// Config holds logging configuration.
type Config struct {
	Level     string // trace, debug, info, warn, error, fatal, panic, disabled
	Format    string // json or console
	Caller    bool
	Timestamp bool

	// Service and Version are attached to every line when set, so logs from
	// several replicas can be told apart after aggregation.
	Service string
	Version string

	Output io.Writer // default os.Stderr
}

// DefaultConfig returns the configuration used before Init is called.
func DefaultConfig() Config {
	return Config{
		Level:     "info",
		Format:    "json",
		Timestamp: true,
		Output:    os.Stderr,
	}
}

var global atomic.Pointer[zerolog.Logger]

//nolint:gochecknoinits // logging must work before main calls Init
func init() {
	Init(DefaultConfig())
}

// Init builds the global logger from cfg. Later calls replace it.
//
//nolint:gocritic // hugeParam: Config is copied once at startup
func Init(cfg Config) {
	zerolog.SetGlobalLevel(parseLevel(cfg.Level))
	zerolog.TimeFieldFormat = time.RFC3339
	zerolog.TimestampFieldName = "time"
	zerolog.MessageFieldName = "message"

	l := build(cfg)
	global.Store(&l)
}

func build(cfg Config) zerolog.Logger {
	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}
	if cfg.Format == "console" {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: "15:04:05"}
	}

	ctx := zerolog.New(out).With()
	if cfg.Timestamp {
		ctx = ctx.Timestamp()
	}
	if cfg.Caller {
		ctx = ctx.Caller()
	}
	if cfg.Service != "" {
		ctx = ctx.Str("service", cfg.Service)
	}
	if cfg.Version != "" {
		ctx = ctx.Str("version", cfg.Version)
	}
	return ctx.Logger()
}

// parseLevel accepts zerolog level names in any case plus "warning".
// Empty and unknown names map to info.
func parseLevel(name string) zerolog.Level {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "warning" {
		return zerolog.WarnLevel
	}
	lvl, err := zerolog.ParseLevel(name)
	if err != nil || lvl == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return lvl
}

// Logger returns a copy of the global logger.
func Logger() zerolog.Logger { return *global.Load() }

// With starts a child context from the global logger.
//
//	l := logging.With().Str("component", "rebuilder").Logger()
func With() zerolog.Context { return global.Load().With() }

// Debug starts a debug message on the global logger.
func Debug() *zerolog.Event { return global.Load().Debug() }

// Info starts an info message on the global logger.
func Info() *zerolog.Event { return global.Load().Info() }

// Warn starts a warning on the global logger.
func Warn() *zerolog.Event { return global.Load().Warn() }

// Error starts an error message on the global logger.
func Error() *zerolog.Event { return global.Load().Error() }

// Fatal starts a fatal message; os.Exit(1) follows the write.
func Fatal() *zerolog.Event { return global.Load().Fatal() }

// Err starts an error-level message carrying err, or info when err is nil.
func Err(err error) *zerolog.Event { return global.Load().Err(err) }

// NewTestLogger returns a JSON logger writing to w.
func NewTestLogger(w io.Writer) zerolog.Logger {
	return zerolog.New(w).With().Timestamp().Logger()
}
