// Shopsense - Product Query Interpretation and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shopsense

package auth

import (
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/tomtom215/shopsense/internal/config"
)

const testSecret = "this_is_a_very_long_secret_key_for_testing_purposes_12345"

func newTestManager(t *testing.T, issuer string) *JWTManager {
	t.Helper()
	m, err := NewJWTManager(&config.SecurityConfig{JWTSecret: testSecret, JWTIssuer: issuer})
	if err != nil {
		t.Fatalf("NewJWTManager() error = %v", err)
	}
	return m
}

func TestNewJWTManager(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		secret  string
		wantErr bool
	}{
		{"valid secret", testSecret, false},
		{"empty secret", "", true},
		{"short secret", "too-short", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			m, err := NewJWTManager(&config.SecurityConfig{JWTSecret: tt.secret})
			if (err != nil) != tt.wantErr {
				t.Fatalf("NewJWTManager() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && m == nil {
				t.Error("NewJWTManager() returned nil manager")
			}
		})
	}
}

func TestGenerateAndValidateToken(t *testing.T) {
	t.Parallel()

	m := newTestManager(t, "shopsense")
	token, err := m.GenerateToken("operator", RoleAdmin, time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken() error = %v", err)
	}

	claims, err := m.ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken() error = %v", err)
	}
	if claims.Subject != "operator" {
		t.Errorf("Subject = %q, want operator", claims.Subject)
	}
	if !claims.IsAdmin() {
		t.Errorf("IsAdmin() = false for role %q", claims.Role)
	}
	if claims.Issuer != "shopsense" {
		t.Errorf("Issuer = %q, want shopsense", claims.Issuer)
	}
}

func TestGenerateToken_Errors(t *testing.T) {
	t.Parallel()

	m := newTestManager(t, "")
	if _, err := m.GenerateToken("", RoleAdmin, time.Hour); err == nil {
		t.Error("GenerateToken() with empty subject expected error")
	}
	if _, err := m.GenerateToken("operator", RoleAdmin, 0); err == nil {
		t.Error("GenerateToken() with zero ttl expected error")
	}
}

func TestValidateToken_Rejects(t *testing.T) {
	t.Parallel()

	m := newTestManager(t, "shopsense")

	expired := newTestManager(t, "shopsense")
	expired.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	expiredToken, err := expired.GenerateToken("operator", RoleAdmin, time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken() error = %v", err)
	}

	otherIssuer := newTestManager(t, "someone-else")
	otherToken, err := otherIssuer.GenerateToken("operator", RoleAdmin, time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken() error = %v", err)
	}

	hs512 := jwt.NewWithClaims(jwt.SigningMethodHS512, &Claims{
		Role: RoleAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "operator",
			Issuer:    "shopsense",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	hs512Token, err := hs512.SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("SignedString() error = %v", err)
	}

	wrongKey, err := NewJWTManager(&config.SecurityConfig{
		JWTSecret: "a_completely_different_secret_of_enough_length",
		JWTIssuer: "shopsense",
	})
	if err != nil {
		t.Fatalf("NewJWTManager() error = %v", err)
	}
	wrongKeyToken, err := wrongKey.GenerateToken("operator", RoleAdmin, time.Hour)
	if err != nil {
		t.Fatalf("GenerateToken() error = %v", err)
	}

	tests := []struct {
		name        string
		token       string
		wantExpired bool
	}{
		{"expired", expiredToken, true},
		{"other issuer", otherToken, false},
		{"wrong algorithm", hs512Token, false},
		{"wrong key", wrongKeyToken, false},
		{"garbage", "not.a.token", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := m.ValidateToken(tt.token)
			if err == nil {
				t.Fatal("ValidateToken() expected error")
			}
			if got := errors.Is(err, jwt.ErrTokenExpired); got != tt.wantExpired {
				t.Errorf("errors.Is(err, ErrTokenExpired) = %v, want %v (err=%v)", got, tt.wantExpired, err)
			}
		})
	}
}

func TestAuthenticator(t *testing.T) {
	t.Parallel()

	m := newTestManager(t, "")
	authn := NewAuthenticator(m)

	admin, _ := m.GenerateToken("operator", RoleAdmin, time.Hour)
	viewer, _ := m.GenerateToken("analyst", "viewer", time.Hour)
	expired := newTestManager(t, "")
	expired.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	old, _ := expired.GenerateToken("operator", RoleAdmin, time.Hour)

	tests := []struct {
		name    string
		header  string
		wantErr error
	}{
		{"admin", "Bearer " + admin, nil},
		{"lower-case scheme", "bearer " + admin, nil},
		{"missing header", "", ErrNoCredentials},
		{"basic scheme", "Basic dXNlcjpwYXNz", ErrNoCredentials},
		{"empty bearer", "Bearer ", ErrNoCredentials},
		{"garbage", "Bearer xyz", ErrInvalidCredentials},
		{"expired", "Bearer " + old, ErrExpiredCredentials},
		{"not admin", "Bearer " + viewer, ErrForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			r := httptest.NewRequest("POST", "/api/v1/admin/retrain", nil)
			if tt.header != "" {
				r.Header.Set("Authorization", tt.header)
			}
			_, err := authn.AuthenticateAdmin(r)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("AuthenticateAdmin() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestClaimsContext(t *testing.T) {
	t.Parallel()

	r := httptest.NewRequest("GET", "/", nil)
	if ClaimsFromContext(r.Context()) != nil {
		t.Error("ClaimsFromContext() on empty context should be nil")
	}
	want := &Claims{Role: RoleAdmin}
	ctx := ContextWithClaims(r.Context(), want)
	if got := ClaimsFromContext(ctx); got != want {
		t.Errorf("ClaimsFromContext() = %v, want %v", got, want)
	}
}
