// Shopsense - Product Query Interpretation and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shopsense

package logging

import (
	"strings"

	"github.com/rs/zerolog"
)

const maxErrorLen = 200

// SecurityLogger writes audit records for the admin surface. Subjects and
// errors are sanitized before they reach the log.
type SecurityLogger struct {
	logger zerolog.Logger
}

// NewSecurityLogger creates a security logger on the global logger.
func NewSecurityLogger() *SecurityLogger {
	return NewSecurityLoggerWithLogger(Logger())
}

// NewSecurityLoggerWithLogger creates a security logger on logger.
//
//nolint:gocritic // hugeParam: logger passed by value for zerolog chaining
func NewSecurityLoggerWithLogger(logger zerolog.Logger) *SecurityLogger {
	return &SecurityLogger{logger: logger.With().Str("component", "security").Logger()}
}

// LogAdminAuth records the outcome of an admin token check. Failures are
// logged at warn level.
func (l *SecurityLogger) LogAdminAuth(subject, ip, path string, success bool, errMsg string) {
	level := zerolog.InfoLevel
	if !success {
		level = zerolog.WarnLevel
	}
	e := l.logger.WithLevel(level).
		Str("event", "admin_auth").
		Bool("success", success)
	for _, f := range [...]struct{ key, val string }{
		{"subject", SanitizeUserID(subject)},
		{"ip", ip},
		{"path", path},
		{"error", SanitizeError(errMsg)},
	} {
		if f.val != "" {
			e = e.Str(f.key, f.val)
		}
	}
	e.Msg("security event")
}

// mask keeps the first and last four characters of s. Values of at most
// short characters are replaced entirely.
func mask(s string, short int) string {
	switch {
	case s == "":
		return ""
	case len(s) <= short:
		return "***"
	}
	return s[:4] + "..." + s[len(s)-4:]
}

// SanitizeToken masks a bearer token for logging.
func SanitizeToken(token string) string { return mask(token, 12) }

// SanitizeUserID masks a subject or user id for logging.
func SanitizeUserID(userID string) string { return mask(userID, 8) }

var sensitiveErrorWords = []string{"password", "secret", "token", "key", "bearer", "authorization"}

// SanitizeError replaces messages that may quote credentials with a
// generic one and truncates the rest.
func SanitizeError(msg string) string {
	lower := strings.ToLower(msg)
	for _, w := range sensitiveErrorWords {
		if strings.Contains(lower, w) {
			return "authentication error"
		}
	}
	if len(msg) > maxErrorLen {
		return msg[:maxErrorLen] + "..."
	}
	return msg
}
