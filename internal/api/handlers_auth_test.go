// Carbon Offset - Vehicle Emissions Calculator and Offset Checkout
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/carbonoffset

package api

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/tomtom215/carbonoffset/internal/auth"
	"github.com/tomtom215/carbonoffset/internal/metrics"
	"github.com/tomtom215/carbonoffset/internal/models"
)

func TestLogin(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodPost, "/api/auth/login", models.LoginRequest{Username: "admin", Password: testAdminPassword}, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	var resp models.LoginResponse
	decodeBody(t, rec, &resp)
	if resp.Token == "" || resp.Role != auth.RoleAdmin || resp.Username != "admin" {
		t.Errorf("response = %+v", resp)
	}
	if !resp.ExpiresAt.After(time.Now()) {
		t.Errorf("expires_at %v is not in the future", resp.ExpiresAt)
	}

	claims, err := ts.jwt.ValidateToken(resp.Token)
	if err != nil {
		t.Fatalf("issued token does not validate: %v", err)
	}
	if claims.Role != auth.RoleAdmin {
		t.Errorf("claims role = %q", claims.Role)
	}

	// The issued token opens admin routes.
	rec = ts.do(t, http.MethodGet, "/api/admin/vehicles", nil, resp.Token)
	if rec.Code != http.StatusOK {
		t.Errorf("admin list with issued token: status %d", rec.Code)
	}
}

func TestLogin_Failures(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t)

	failuresBefore := testutil.ToFloat64(metrics.AuthAttemptsTotal.WithLabelValues("false"))

	tests := []struct {
		name       string
		body       interface{}
		wantStatus int
		wantCode   string
	}{
		{"wrong password", models.LoginRequest{Username: "admin", Password: "wrong-password"}, http.StatusUnauthorized, models.ErrCodeAuthentication},
		{"unknown user", models.LoginRequest{Username: "root", Password: testAdminPassword}, http.StatusUnauthorized, models.ErrCodeAuthentication},
		{"missing password", models.LoginRequest{Username: "admin"}, http.StatusBadRequest, models.ErrCodeValidation},
		{"malformed body", "{", http.StatusBadRequest, models.ErrCodeBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := ts.do(t, http.MethodPost, "/api/auth/login", tt.body, "")
			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if apiErr := decodeError(t, rec); apiErr.Code != tt.wantCode {
				t.Errorf("code = %q, want %q", apiErr.Code, tt.wantCode)
			}
		})
	}

	if got := testutil.ToFloat64(metrics.AuthAttemptsTotal.WithLabelValues("false")) - failuresBefore; got < 2 {
		t.Errorf("failed attempts recorded = %v, want at least 2", got)
	}
}

func TestLogin_NotConfigured(t *testing.T) {
	t.Parallel()

	h := NewHandler(Dependencies{Vehicles: testLookup()})
	router := NewRouter(h, nil, nil, nil).SetupChi()

	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d", rec.Code)
	}

	// Protected routes are closed when no accounts exist.
	req = httptest.NewRequest(http.MethodPost, "/api/vehicles/sync", nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("protected route status = %d", rec.Code)
	}
}
