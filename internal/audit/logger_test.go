// Carbon Offset - Vehicle Emissions Calculator and Offset Checkout
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/carbonoffset

package audit

import (
	"context"
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/tomtom215/carbonoffset/internal/auth"
	"github.com/tomtom215/carbonoffset/internal/logging"
	"github.com/tomtom215/carbonoffset/internal/metrics"
)

func TestLogger_LogAndQuery(t *testing.T) {
	store := NewMemoryStore(100)
	logger := NewLogger(store, DefaultConfig())

	logger.Log(&Event{Type: EventTypeContentUpdated, Outcome: OutcomeSuccess, Actor: Actor{Name: "editor"}})
	logger.Log(&Event{Type: EventTypeVehicleDeleted, Outcome: OutcomeSuccess, Actor: Actor{Name: "admin"}})
	if err := logger.Close(); err != nil {
		t.Fatal(err)
	}

	events, err := logger.Query(context.Background(), QueryFilter{})
	if err != nil {
		t.Fatal(err)
	}
	if len(events) != 2 {
		t.Fatalf("got %d events, want 2", len(events))
	}
	if events[0].Type != EventTypeVehicleDeleted {
		t.Errorf("events not newest first: %v", events[0].Type)
	}
	for _, e := range events {
		if e.ID == "" || e.Timestamp.IsZero() {
			t.Errorf("event missing ID or timestamp: %+v", e)
		}
	}
}

func TestLogger_NilIsNoop(t *testing.T) {
	var logger *Logger
	req := httptest.NewRequest("POST", "/api/content/hero", nil)

	logger.Log(&Event{Type: EventTypeContentUpdated})
	logger.LogLogin(req, "admin", "", false)
	logger.Record(req, EventTypeContentUpdated, OutcomeSuccess, nil, "noop", nil)
	if err := logger.Close(); err != nil {
		t.Errorf("Close on nil logger: %v", err)
	}
}

func TestLogger_LogLogin(t *testing.T) {
	store := NewMemoryStore(10)
	logger := NewLogger(store, nil)

	failuresBefore := testutil.ToFloat64(metrics.AuditEventsTotal.WithLabelValues(string(EventTypeAuthFailure), string(OutcomeFailure)))

	req := httptest.NewRequest("POST", "/api/auth/login", nil)
	req.RemoteAddr = "198.51.100.4:52311"
	req.Header.Set("User-Agent", "curl/8.0")
	req = req.WithContext(logging.ContextWithRequestID(req.Context(), "req-1"))

	logger.LogLogin(req, "admin", auth.RoleAdmin, true)
	logger.LogLogin(req, "root", "", false)
	_ = logger.Close()

	failures, _ := store.Query(context.Background(), QueryFilter{Outcome: OutcomeFailure})
	if len(failures) != 1 {
		t.Fatalf("failures = %d, want 1", len(failures))
	}
	f := failures[0]
	if f.Type != EventTypeAuthFailure || f.Actor.Name != "root" || f.Severity != SeverityWarning {
		t.Errorf("failure event = %+v", f)
	}
	if f.Source.IPAddress != "198.51.100.4" || f.Source.UserAgent != "curl/8.0" || f.RequestID != "req-1" {
		t.Errorf("source = %+v request_id = %q", f.Source, f.RequestID)
	}

	if got := testutil.ToFloat64(metrics.AuditEventsTotal.WithLabelValues(string(EventTypeAuthFailure), string(OutcomeFailure))) - failuresBefore; got != 1 {
		t.Errorf("audit_events_total delta = %v, want 1", got)
	}
}

func TestLogger_RecordUsesClaims(t *testing.T) {
	store := NewMemoryStore(10)
	logger := NewLogger(store, nil)

	req := httptest.NewRequest("DELETE", "/api/admin/vehicles/abc", nil)
	req = req.WithContext(auth.ContextWithClaims(req.Context(), &auth.Claims{Username: "ops", Role: auth.RoleAdmin}))

	logger.Record(req, EventTypeVehicleDeleted, OutcomeSuccess, &Target{ID: "abc", Type: "vehicle"}, "Vehicle deleted", map[string]string{"year": "2024"})
	_ = logger.Close()

	events, _ := store.Query(context.Background(), QueryFilter{Actor: "ops"})
	if len(events) != 1 {
		t.Fatalf("events = %d", len(events))
	}
	e := events[0]
	if e.Actor.Role != auth.RoleAdmin || e.Severity != SeverityCritical || e.Target.ID != "abc" || e.Metadata["year"] != "2024" {
		t.Errorf("event = %+v", e)
	}
}

func TestLogger_BufferFullDrops(t *testing.T) {
	store := &blockingStore{release: make(chan struct{})}
	logger := NewLogger(store, &Config{BufferSize: 1})

	droppedBefore := testutil.ToFloat64(metrics.AuditEventsDropped)
	for i := 0; i < 5; i++ {
		logger.Log(&Event{Type: EventTypeContentUpdated})
	}
	if testutil.ToFloat64(metrics.AuditEventsDropped)-droppedBefore < 1 {
		t.Error("expected dropped events with a full buffer")
	}

	close(store.release)
	_ = logger.Close()
}

func TestLogger_ServeRetention(t *testing.T) {
	store := NewMemoryStore(10)
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	_ = store.Save(context.Background(), &Event{ID: "old", Timestamp: now.AddDate(0, 0, -91)})
	_ = store.Save(context.Background(), &Event{ID: "new", Timestamp: now.AddDate(0, 0, -1)})

	logger := NewLogger(store, &Config{RetentionDays: 90, CleanupInterval: 10 * time.Millisecond})
	logger.now = func() time.Time { return now }
	defer logger.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Millisecond)
	defer cancel()
	if err := logger.Serve(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Serve = %v", err)
	}

	if store.Len() != 1 {
		t.Fatalf("len = %d, want 1", store.Len())
	}
	events, _ := store.Query(context.Background(), QueryFilter{})
	if events[0].ID != "new" {
		t.Errorf("kept %q", events[0].ID)
	}
	if logger.String() != "audit-retention" {
		t.Errorf("String() = %q", logger.String())
	}
}

// blockingStore blocks Save until release is closed.
type blockingStore struct {
	release chan struct{}
}

func (s *blockingStore) Save(context.Context, *Event) error {
	<-s.release
	return nil
}

func (s *blockingStore) Query(context.Context, QueryFilter) ([]Event, error) { return nil, nil }

func (s *blockingStore) Delete(context.Context, time.Time) (int64, error) { return 0, nil }
