// Carbon Offset - Vehicle Emissions Calculator and Offset Checkout
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/carbonoffset

package breaker

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/tomtom215/carbonoffset/internal/metrics"
)

var errSimulated = errors.New("simulated failure")

func TestBreaker_OpensAfterFailures(t *testing.T) {
	b := New("test-opens", DefaultSettings())

	if b.State() != "closed" {
		t.Fatalf("initial state = %s, want closed", b.State())
	}

	// 7 failures then 3 successes: 10 requests, no trip yet because the
	// ratio is checked on failures only.
	for i := 0; i < 10; i++ {
		_, _ = Execute(b, func() (string, error) {
			if i < 7 {
				return "", errSimulated
			}
			return "ok", nil
		})
	}
	if b.State() != "closed" {
		t.Errorf("state after 10 requests = %s, want closed", b.State())
	}

	_, _ = Execute(b, func() (string, error) { return "", errSimulated })
	if b.State() != "open" {
		t.Fatalf("state after 8/11 failures = %s, want open", b.State())
	}

	_, err := Execute(b, func() (string, error) { return "never", nil })
	if !IsRejected(err) {
		t.Errorf("Execute() on open circuit error = %v, want rejection", err)
	}

	if got := testutil.ToFloat64(metrics.CircuitBreakerState.WithLabelValues("test-opens")); got != 2 {
		t.Errorf("circuit_breaker_state = %v, want 2", got)
	}
	if got := testutil.ToFloat64(metrics.CircuitBreakerRequests.WithLabelValues("test-opens", "rejected")); got != 1 {
		t.Errorf("rejected requests = %v, want 1", got)
	}
}

func TestBreaker_StaysClosedBelowMinimum(t *testing.T) {
	b := New("test-minimum", DefaultSettings())

	for i := 0; i < 9; i++ {
		_, _ = Execute(b, func() (int, error) { return 0, errSimulated })
	}
	if b.State() != "closed" {
		t.Errorf("state after 9 failures = %s, want closed", b.State())
	}
}

func TestBreaker_HalfOpenRecovery(t *testing.T) {
	s := DefaultSettings()
	s.MinRequests = 1
	s.Timeout = 20 * time.Millisecond
	b := New("test-recovery", s)

	_, _ = Execute(b, func() (int, error) { return 0, errSimulated })
	if b.State() != "open" {
		t.Fatalf("state = %s, want open", b.State())
	}

	time.Sleep(40 * time.Millisecond)
	if b.State() != "half-open" {
		t.Fatalf("state after timeout = %s, want half-open", b.State())
	}

	for i := 0; i < int(s.MaxRequests); i++ {
		if _, err := Execute(b, func() (int, error) { return 1, nil }); err != nil {
			t.Fatalf("probe %d error = %v", i, err)
		}
	}
	if b.State() != "closed" {
		t.Errorf("state after successful probes = %s, want closed", b.State())
	}
}

func TestExecute_TypedResult(t *testing.T) {
	b := New("test-typed", DefaultSettings())

	type payload struct{ N int }
	got, err := Execute(b, func() (*payload, error) { return &payload{N: 7}, nil })
	if err != nil {
		t.Fatal(err)
	}
	if got.N != 7 {
		t.Errorf("Execute() = %+v, want N=7", got)
	}

	nilResult, err := Execute(b, func() (*payload, error) { return nil, nil })
	if err != nil || nilResult != nil {
		t.Errorf("Execute() nil result = %v, %v", nilResult, err)
	}
}
