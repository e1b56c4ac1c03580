// Shopsense - Product Query Interpretation and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shopsense

package config

import (
	"fmt"
	"net/url"
	"slices"
	"strings"
)

// urlRule is what a configured endpoint must look like.
type urlRule struct {
	schemes    []string
	allowQuery bool
}

var (
	// Upstream HTTP endpoints take paths but not query strings, which
	// would be lost when request paths are joined onto them.
	httpURL = urlRule{schemes: []string{"http", "https"}}
	natsURL = urlRule{schemes: []string{"nats", "tls", "ws", "wss"}, allowQuery: true}
)

func (r urlRule) check(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("parse: %w", err)
	}
	if !slices.Contains(r.schemes, u.Scheme) {
		return fmt.Errorf("scheme must be one of %s, got %q", strings.Join(r.schemes, ", "), u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("host is required")
	}
	if u.RawQuery != "" && !r.allowQuery {
		return fmt.Errorf("query parameters are not allowed (?%s)", u.RawQuery)
	}
	return nil
}

func validateHTTPURL(raw, field string) error {
	if err := httpURL.check(raw); err != nil {
		return fmt.Errorf("%s is invalid: %w", field, err)
	}
	return nil
}

func validateNATSURL(raw string) error {
	return natsURL.check(raw)
}
