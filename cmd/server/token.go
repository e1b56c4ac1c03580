// Shopsense - Product Query Interpretation and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shopsense

package main

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/tomtom215/shopsense/internal/auth"
	"github.com/tomtom215/shopsense/internal/config"
)

// issueAdminToken signs an admin token for subject with the configured
// secret and writes it to w followed by a newline.
func issueAdminToken(cfg *config.SecurityConfig, subject string, ttl time.Duration, w io.Writer) error {
	if cfg.AuthMode != "jwt" {
		return fmt.Errorf("auth mode is %q; tokens are only used with jwt", cfg.AuthMode)
	}
	if subject == "" {
		return errors.New("token subject is required")
	}
	if ttl <= 0 {
		return fmt.Errorf("token ttl must be positive, got %v", ttl)
	}

	manager, err := auth.NewJWTManager(cfg)
	if err != nil {
		return err
	}
	token, err := manager.GenerateToken(subject, auth.RoleAdmin, ttl)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, token)
	return err
}

// initAuth returns the admin authenticator, or nil when auth is disabled.
func initAuth(cfg *config.SecurityConfig) (*auth.Authenticator, error) {
	if cfg.AuthMode == "none" {
		return nil, nil
	}
	manager, err := auth.NewJWTManager(cfg)
	if err != nil {
		return nil, err
	}
	return auth.NewAuthenticator(manager), nil
}
