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

	"github.com/tomtom215/carbonoffset/internal/audit"
	"github.com/tomtom215/carbonoffset/internal/auth"
	"github.com/tomtom215/carbonoffset/internal/models"
)

type auditEnvelope struct {
	Status string        `json:"status"`
	Data   AuditResponse `json:"data"`
}

// waitForAudit polls the audit endpoint until at least want events match path.
// Events are written asynchronously.
func waitForAudit(t *testing.T, ts *testServer, path string, want int) []audit.Event {
	t.Helper()
	admin := ts.token(t, "admin", auth.RoleAdmin)

	deadline := time.Now().Add(2 * time.Second)
	for {
		rec := ts.do(t, http.MethodGet, path, nil, admin)
		if rec.Code != http.StatusOK {
			t.Fatalf("GET %s: status %d, body %s", path, rec.Code, rec.Body.String())
		}
		var resp auditEnvelope
		decodeBody(t, rec, &resp)
		if resp.Data.Count >= want {
			return resp.Data.Events
		}
		if time.Now().After(deadline) {
			t.Fatalf("GET %s: got %d events, want %d", path, resp.Data.Count, want)
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestAuditEvents_RecordsAdminActions(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t)
	admin := ts.token(t, "admin", auth.RoleAdmin)
	editor := ts.token(t, "editor", auth.RoleEditor)

	ts.do(t, http.MethodPost, "/api/auth/login", models.LoginRequest{Username: "admin", Password: "wrong-password"}, "")
	ts.do(t, http.MethodPost, "/api/content/hero", models.ContentUpdateRequest{Content: "Offset your drive"}, editor)

	rec := ts.do(t, http.MethodPost, "/api/admin/vehicles", models.VehicleRequest{Year: 2024, Make: "Honda", Model: "Civic", MPGCombined: 36}, admin)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d", rec.Code)
	}

	events := waitForAudit(t, ts, "/api/admin/audit", 3)

	byType := map[audit.EventType]audit.Event{}
	for _, e := range events {
		byType[e.Type] = e
	}

	failure, ok := byType[audit.EventTypeAuthFailure]
	if !ok || failure.Actor.Name != "admin" || failure.Outcome != audit.OutcomeFailure {
		t.Errorf("auth failure event = %+v", failure)
	}
	updated, ok := byType[audit.EventTypeContentUpdated]
	if !ok || updated.Actor.Name != "editor" || updated.Target == nil || updated.Target.ID != "hero" {
		t.Errorf("content event = %+v", updated)
	}
	created, ok := byType[audit.EventTypeVehicleCreated]
	if !ok || created.Metadata["make"] != "Honda" || created.Target == nil || created.Target.Type != "vehicle" {
		t.Errorf("vehicle event = %+v", created)
	}
}

func TestAuditEvents_Filters(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t)

	rec := ts.do(t, http.MethodPost, "/api/vehicles/sync", nil, ts.token(t, "admin", auth.RoleAdmin))
	if rec.Code != http.StatusOK {
		t.Fatalf("sync status = %d", rec.Code)
	}
	ts.do(t, http.MethodPost, "/api/auth/login", models.LoginRequest{Username: "admin", Password: testAdminPassword}, "")

	events := waitForAudit(t, ts, "/api/admin/audit?type=vehicle.sync&outcome=success", 1)
	if len(events) != 1 || events[0].Metadata["total"] != "2" {
		t.Errorf("sync events = %+v", events)
	}

	events = waitForAudit(t, ts, "/api/admin/audit?type=auth.success,auth.failure&actor=admin&limit=5", 1)
	for _, e := range events {
		if e.Type != audit.EventTypeAuthSuccess && e.Type != audit.EventTypeAuthFailure {
			t.Errorf("unexpected event type %q", e.Type)
		}
	}
}

func TestAuditEvents_Errors(t *testing.T) {
	t.Parallel()
	ts := newTestServer(t)
	admin := ts.token(t, "admin", auth.RoleAdmin)

	tests := []struct {
		name       string
		path       string
		token      string
		wantStatus int
	}{
		{"bad outcome", "/api/admin/audit?outcome=maybe", admin, http.StatusBadRequest},
		{"bad since", "/api/admin/audit?since=yesterday", admin, http.StatusBadRequest},
		{"editor", "/api/admin/audit", ts.token(t, "editor", auth.RoleEditor), http.StatusForbidden},
		{"anonymous", "/api/admin/audit", "", http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := ts.do(t, http.MethodGet, tt.path, nil, tt.token)
			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
		})
	}
}

func TestAuditEvents_Disabled(t *testing.T) {
	t.Parallel()

	h := NewHandler(Dependencies{Vehicles: testLookup()})
	req := httptest.NewRequest(http.MethodGet, "/api/admin/audit", nil)
	rec := httptest.NewRecorder()
	h.AuditEvents(rec, req)

	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d", rec.Code)
	}
}
