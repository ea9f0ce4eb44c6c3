// Carbon Offset - Vehicle Emissions Calculator and Offset Checkout
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/carbonoffset

package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/tomtom215/carbonoffset/internal/config"
)

const testSecret = "this_is_a_very_long_secret_key_for_testing_purposes_12345"

func newTestManager(t *testing.T, timeout time.Duration) *JWTManager {
	t.Helper()
	m, err := NewJWTManager(&config.SecurityConfig{JWTSecret: testSecret, SessionTimeout: timeout})
	if err != nil {
		t.Fatalf("NewJWTManager() error = %v", err)
	}
	return m
}

func TestNewJWTManager(t *testing.T) {
	if _, err := NewJWTManager(&config.SecurityConfig{}); err == nil {
		t.Error("NewJWTManager() expected error for empty secret")
	}

	m, err := NewJWTManager(&config.SecurityConfig{JWTSecret: testSecret})
	if err != nil {
		t.Fatalf("NewJWTManager() error = %v", err)
	}
	if m.timeout != 24*time.Hour {
		t.Errorf("default timeout = %v, want 24h", m.timeout)
	}
}

func TestGenerateAndValidateToken(t *testing.T) {
	m := newTestManager(t, time.Hour)

	tests := []struct {
		username string
		role     string
	}{
		{"admin", RoleAdmin},
		{"writer", RoleEditor},
	}

	for _, tt := range tests {
		t.Run(tt.role, func(t *testing.T) {
			token, expiresAt, err := m.GenerateToken(tt.username, tt.role)
			if err != nil {
				t.Fatalf("GenerateToken() error = %v", err)
			}
			if time.Until(expiresAt) <= 59*time.Minute {
				t.Errorf("expiresAt = %v, want about one hour from now", expiresAt)
			}

			claims, err := m.ValidateToken(token)
			if err != nil {
				t.Fatalf("ValidateToken() error = %v", err)
			}
			if claims.Username != tt.username || claims.Role != tt.role {
				t.Errorf("claims = %s/%s, want %s/%s", claims.Username, claims.Role, tt.username, tt.role)
			}
		})
	}
}

func TestValidateToken_Rejects(t *testing.T) {
	m := newTestManager(t, time.Hour)
	valid, _, err := m.GenerateToken("admin", RoleAdmin)
	if err != nil {
		t.Fatal(err)
	}

	other, err := NewJWTManager(&config.SecurityConfig{JWTSecret: strings.Repeat("x", 40), SessionTimeout: time.Hour})
	if err != nil {
		t.Fatal(err)
	}
	foreign, _, err := other.GenerateToken("admin", RoleAdmin)
	if err != nil {
		t.Fatal(err)
	}

	expired := newTestManager(t, time.Hour)
	expired.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	old, _, err := expired.GenerateToken("admin", RoleAdmin)
	if err != nil {
		t.Fatal(err)
	}

	none := jwt.NewWithClaims(jwt.SigningMethodNone, &Claims{Username: "admin", Role: RoleAdmin})
	unsigned, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatal(err)
	}

	noRole, _, err := m.GenerateToken("admin", "")
	if err != nil {
		t.Fatal(err)
	}

	tests := map[string]string{
		"garbage":        "not.a.token",
		"tampered":       valid[:len(valid)-2] + "xx",
		"foreign secret": foreign,
		"expired":        old,
		"alg none":       unsigned,
		"missing role":   noRole,
	}
	for name, token := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := m.ValidateToken(token); err == nil {
				t.Error("ValidateToken() expected error")
			}
		})
	}
}
