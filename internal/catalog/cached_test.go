// Carbon Offset - Vehicle Emissions Calculator and Offset Checkout
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/carbonoffset

package catalog

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/goccy/go-json"
)

// countingLookup wraps a Service and counts calls that reach it.
type countingLookup struct {
	next  Lookup
	calls atomic.Int32
	err   error
}

func (c *countingLookup) ListYears(ctx context.Context) ([]int, error) {
	c.calls.Add(1)
	if c.err != nil {
		return nil, c.err
	}
	return c.next.ListYears(ctx)
}

func (c *countingLookup) ListMakes(ctx context.Context, year int) ([]string, error) {
	c.calls.Add(1)
	if c.err != nil {
		return nil, c.err
	}
	return c.next.ListMakes(ctx, year)
}

func (c *countingLookup) ListModels(ctx context.Context, year int, vehicleMake string) ([]Vehicle, error) {
	c.calls.Add(1)
	if c.err != nil {
		return nil, c.err
	}
	return c.next.ListModels(ctx, year, vehicleMake)
}

func newCountingLookup(t *testing.T) *countingLookup {
	t.Helper()
	svc := NewService(writeTestCatalog(t, testVehicles()))
	if err := svc.Load(context.Background()); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	return &countingLookup{next: svc}
}

func TestCachedLookup_ServesRepeatsFromCache(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	inner := newCountingLookup(t)
	cached := NewCachedLookup(inner, time.Minute)
	defer cached.Close()

	for i := 0; i < 3; i++ {
		years, err := cached.ListYears(ctx)
		if err != nil || len(years) != 2 || years[0] != 2020 {
			t.Fatalf("ListYears() = %v, %v", years, err)
		}
		makes, err := cached.ListMakes(ctx, 2020)
		if err != nil || len(makes) != 2 {
			t.Fatalf("ListMakes() = %v, %v", makes, err)
		}
		models, err := cached.ListModels(ctx, 2020, "Toyota")
		if err != nil || len(models) != 2 || models[0].Model != "Camry" {
			t.Fatalf("ListModels() = %v, %v", models, err)
		}
	}
	if got := inner.calls.Load(); got != 3 {
		t.Errorf("inner calls = %d, want 3", got)
	}

	cached.Invalidate()
	if _, err := cached.ListYears(ctx); err != nil {
		t.Fatal(err)
	}
	if got := inner.calls.Load(); got != 4 {
		t.Errorf("inner calls after Invalidate = %d, want 4", got)
	}
}

func TestCachedLookup_ReturnsCopies(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	cached := NewCachedLookup(newCountingLookup(t), time.Minute)
	defer cached.Close()

	first, err := cached.ListMakes(ctx, 2020)
	if err != nil {
		t.Fatal(err)
	}
	first[0] = "Mutated"

	second, err := cached.ListMakes(ctx, 2020)
	if err != nil {
		t.Fatal(err)
	}
	if second[0] == "Mutated" {
		t.Error("cached slice was mutated through a returned value")
	}
}

func TestCachedLookup_ErrorsAreNotCached(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	inner := newCountingLookup(t)
	inner.err = errors.New("server selection timeout")
	cached := NewCachedLookup(inner, time.Minute)
	defer cached.Close()

	if _, err := cached.ListYears(ctx); err == nil {
		t.Fatal("expected error")
	}
	inner.err = nil
	years, err := cached.ListYears(ctx)
	if err != nil || len(years) != 2 {
		t.Errorf("ListYears() after recovery = %v, %v", years, err)
	}
}

// emptyLookup answers every query with a nil slice, as a store with no
// matching documents does.
type emptyLookup struct{}

func (emptyLookup) ListYears(context.Context) ([]int, error)                   { return nil, nil }
func (emptyLookup) ListMakes(context.Context, int) ([]string, error)           { return nil, nil }
func (emptyLookup) ListModels(context.Context, int, string) ([]Vehicle, error) { return nil, nil }

func TestCachedLookup_EmptyResultStaysEmpty(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	cached := NewCachedLookup(emptyLookup{}, time.Minute)
	defer cached.Close()

	for call := 1; call <= 2; call++ {
		years, err := cached.ListYears(ctx)
		if err != nil {
			t.Fatal(err)
		}
		makes, err := cached.ListMakes(ctx, 1999)
		if err != nil {
			t.Fatal(err)
		}
		models, err := cached.ListModels(ctx, 1999, "Nonexistent")
		if err != nil {
			t.Fatal(err)
		}

		tests := []struct {
			name  string
			isNil bool
			value interface{}
		}{
			{"years", years == nil, years},
			{"makes", makes == nil, makes},
			{"models", models == nil, models},
		}
		for _, tt := range tests {
			if tt.isNil {
				t.Errorf("call %d: %s is nil, want empty slice", call, tt.name)
			}
			data, err := json.Marshal(tt.value)
			if err != nil {
				t.Fatal(err)
			}
			if string(data) != "[]" {
				t.Errorf("call %d: %s encodes as %s, want []", call, tt.name, data)
			}
		}
	}
}

func TestCachedLookup_UnknownKeysAreIdempotent(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	inner := newCountingLookup(t)
	cached := NewCachedLookup(inner, time.Minute)
	defer cached.Close()

	for call := 1; call <= 3; call++ {
		makes, err := cached.ListMakes(ctx, 1999)
		if err != nil || makes == nil || len(makes) != 0 {
			t.Errorf("call %d: ListMakes(1999) = %#v, %v; want empty", call, makes, err)
		}
		models, err := cached.ListModels(ctx, 2020, "Unknown")
		if err != nil || models == nil || len(models) != 0 {
			t.Errorf("call %d: ListModels(2020, Unknown) = %#v, %v; want empty", call, models, err)
		}
	}
	if got := inner.calls.Load(); got != 2 {
		t.Errorf("inner calls = %d, want 2", got)
	}
}
