// Carbon Offset - Vehicle Emissions Calculator and Offset Checkout
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/carbonoffset

package content

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"
)

// memoryStore is an in-memory Store that counts reads.
type memoryStore struct {
	mu      sync.Mutex
	entries map[string]Entry
	gets    int
	alls    int
	failAll error
}

func newMemoryStore() *memoryStore {
	return &memoryStore{entries: make(map[string]Entry)}
}

func (m *memoryStore) All(ctx context.Context) ([]Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.alls++
	if m.failAll != nil {
		return nil, m.failAll
	}
	out := make([]Entry, 0, len(m.entries))
	for _, e := range m.entries {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out, nil
}

func (m *memoryStore) Get(ctx context.Context, key string) (*Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gets++
	e, ok := m.entries[key]
	if !ok {
		return nil, ErrNotFound
	}
	return &e, nil
}

func (m *memoryStore) Upsert(ctx context.Context, e Entry) (*Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[e.Key] = e
	return &e, nil
}

func newTestService(t *testing.T, ttl time.Duration) (*Service, *memoryStore) {
	t.Helper()
	store := newMemoryStore()
	svc := NewService(store, ttl)
	svc.now = func() time.Time { return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC) }
	t.Cleanup(svc.Close)
	return svc, store
}

func TestService_UpsertAndGet(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc, _ := newTestService(t, time.Minute)

	e, err := svc.Upsert(ctx, "hero_title", "Offset your drive")
	if err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}
	if e.Key != "hero_title" || e.Content != "Offset your drive" {
		t.Errorf("Upsert() = %+v", e)
	}
	if !e.UpdatedAt.Equal(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)) {
		t.Errorf("UpdatedAt = %v, want service clock", e.UpdatedAt)
	}

	got, err := svc.Get(ctx, "hero_title")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.Content != "Offset your drive" {
		t.Errorf("Get() content = %q", got.Content)
	}
}

func TestService_GetNotFound(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t, time.Minute)
	if _, err := svc.Get(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get() error = %v, want ErrNotFound", err)
	}
}

func TestService_EmptyKey(t *testing.T) {
	t.Parallel()

	svc, _ := newTestService(t, time.Minute)
	if _, err := svc.Upsert(context.Background(), "  ", "x"); !errors.Is(err, ErrEmptyKey) {
		t.Errorf("Upsert() error = %v, want ErrEmptyKey", err)
	}
}

func TestService_CachesReadsAndInvalidatesOnWrite(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc, store := newTestService(t, time.Minute)

	if _, err := svc.Upsert(ctx, "k", "v1"); err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 3; i++ {
		if _, err := svc.Get(ctx, "k"); err != nil {
			t.Fatal(err)
		}
		if _, err := svc.All(ctx); err != nil {
			t.Fatal(err)
		}
	}
	if store.gets != 1 || store.alls != 1 {
		t.Errorf("store reads gets=%d alls=%d, want 1/1", store.gets, store.alls)
	}

	if _, err := svc.Upsert(ctx, "k", "v2"); err != nil {
		t.Fatal(err)
	}
	got, err := svc.Get(ctx, "k")
	if err != nil {
		t.Fatal(err)
	}
	if got.Content != "v2" {
		t.Errorf("Get() after write = %q, want v2", got.Content)
	}
	all, err := svc.All(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 1 || all[0].Content != "v2" {
		t.Errorf("All() after write = %+v", all)
	}
}

func TestService_NoCache(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc, store := newTestService(t, 0)
	if _, err := svc.Upsert(ctx, "k", "v"); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 2; i++ {
		if _, err := svc.Get(ctx, "k"); err != nil {
			t.Fatal(err)
		}
	}
	if store.gets != 2 {
		t.Errorf("store gets = %d, want 2 with caching disabled", store.gets)
	}
}

func TestService_AllPropagatesStoreError(t *testing.T) {
	t.Parallel()

	svc, store := newTestService(t, time.Minute)
	store.failAll = errors.New("boom")
	if _, err := svc.All(context.Background()); err == nil {
		t.Error("expected store error")
	}
}
