// Carbon Offset - Vehicle Emissions Calculator and Offset Checkout
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/carbonoffset

package api

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/tomtom215/carbonoffset/internal/config"
	"github.com/tomtom215/carbonoffset/internal/models"
)

func TestSanitizeLogValue(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{"plain", "plain"},
		{"line\nbreak", "line\\x0abreak"},
		{"tab\there", "tab\\x09here"},
		{"del\x7f", "del\\x7f"},
		{"unicode CO₂", "unicode CO₂"},
	}
	for _, tt := range tests {
		if got := sanitizeLogValue(tt.in); got != tt.want {
			t.Errorf("sanitizeLogValue(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestDecodeJSON(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		body    string
		wantErr bool
		tooBig  bool
	}{
		{"valid", `{"content":"hello"}`, false, false},
		{"empty", ``, true, false},
		{"truncated", `{"content":`, true, false},
		{"too large", `{"content":"` + strings.Repeat("a", maxBodyBytes) + `"}`, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()

			var dst models.ContentUpdateRequest
			err := decodeJSON(rec, req, &dst)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.tooBig && !errors.Is(err, errBodyTooLarge) {
				t.Errorf("err = %v, want errBodyTooLarge", err)
			}
			if !tt.wantErr && dst.Content != "hello" {
				t.Errorf("content = %q", dst.Content)
			}
		})
	}
}

func TestRespondSuccess_Envelope(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	respondSuccess(rec, req, http.StatusOK, map[string]int{"total": 3}, time.Now())

	var resp struct {
		Status   string          `json:"status"`
		Data     map[string]int  `json:"data"`
		Metadata models.Metadata `json:"metadata"`
	}
	decodeBody(t, rec, &resp)
	if resp.Status != models.StatusSuccess || resp.Data["total"] != 3 {
		t.Errorf("envelope = %+v", resp)
	}
	if resp.Metadata.Timestamp.IsZero() {
		t.Error("timestamp not set")
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q", ct)
	}
}

func TestChiMiddlewareConfigFromSecurity(t *testing.T) {
	t.Parallel()

	cfg := ChiMiddlewareConfigFromSecurity(&config.SecurityConfig{
		CORSOrigins:     []string{"https://carbon.example"},
		RateLimitReqs:   42,
		RateLimitWindow: 30 * time.Second,
	})
	if len(cfg.CORSAllowedOrigins) != 1 || cfg.CORSAllowedOrigins[0] != "https://carbon.example" {
		t.Errorf("origins = %v", cfg.CORSAllowedOrigins)
	}
	if cfg.RateLimitRequests != 42 || cfg.RateLimitWindow != 30*time.Second {
		t.Errorf("rate limit = %d per %v", cfg.RateLimitRequests, cfg.RateLimitWindow)
	}

	defaults := ChiMiddlewareConfigFromSecurity(&config.SecurityConfig{})
	if defaults.RateLimitRequests != 100 || defaults.RateLimitWindow != time.Minute {
		t.Errorf("zero values should keep defaults, got %d per %v", defaults.RateLimitRequests, defaults.RateLimitWindow)
	}
}
