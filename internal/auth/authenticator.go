// Shopsense - Product Query Interpretation and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shopsense

package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// Standard authentication errors
var (
	// ErrNoCredentials indicates no credentials were provided.
	ErrNoCredentials = errors.New("no credentials provided")

	// ErrInvalidCredentials indicates credentials were invalid.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrExpiredCredentials indicates credentials have expired.
	ErrExpiredCredentials = errors.New("credentials expired")

	// ErrForbidden indicates valid credentials without the required role.
	ErrForbidden = errors.New("insufficient role")
)

// Authenticator validates bearer tokens on incoming requests.
type Authenticator struct {
	manager *JWTManager
}

// NewAuthenticator wraps manager.
func NewAuthenticator(manager *JWTManager) *Authenticator {
	return &Authenticator{manager: manager}
}

// Authenticate extracts and validates the bearer token from r.
func (a *Authenticator) Authenticate(r *http.Request) (*Claims, error) {
	tokenStr := extractBearer(r)
	if tokenStr == "" {
		return nil, ErrNoCredentials
	}

	claims, err := a.manager.ValidateToken(tokenStr)
	switch {
	case err == nil:
		return claims, nil
	case errors.Is(err, jwt.ErrTokenExpired):
		return nil, ErrExpiredCredentials
	default:
		return nil, ErrInvalidCredentials
	}
}

// AuthenticateAdmin is Authenticate plus a role check.
func (a *Authenticator) AuthenticateAdmin(r *http.Request) (*Claims, error) {
	claims, err := a.Authenticate(r)
	if err != nil {
		return nil, err
	}
	if !claims.IsAdmin() {
		return claims, ErrForbidden
	}
	return claims, nil
}

// extractBearer returns the token of an "Authorization: Bearer" header,
// matching the scheme case-insensitively.
func extractBearer(r *http.Request) string {
	scheme, token, ok := strings.Cut(r.Header.Get("Authorization"), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

type claimsKey struct{}

// ContextWithClaims returns ctx carrying claims.
func ContextWithClaims(ctx context.Context, claims *Claims) context.Context {
	return context.WithValue(ctx, claimsKey{}, claims)
}

// ClaimsFromContext returns the claims stored by ContextWithClaims, or nil.
func ClaimsFromContext(ctx context.Context) *Claims {
	claims, _ := ctx.Value(claimsKey{}).(*Claims)
	return claims
}
