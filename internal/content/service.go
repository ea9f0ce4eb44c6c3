// Carbon Offset - Vehicle Emissions Calculator and Offset Checkout
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/carbonoffset

package content

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/tomtom215/carbonoffset/internal/cache"
	"github.com/tomtom215/carbonoffset/internal/logging"
	"github.com/tomtom215/carbonoffset/internal/metrics"
)

const allEntriesKey = "all"

// Service fronts a Store with a read-through cache. Writes go to the store
// and invalidate the cache.
type Service struct {
	store   Store
	entries *cache.Cache[Entry]
	all     *cache.Cache[[]Entry]
	now     func() time.Time

	// writeMu serializes read-modify-write updates such as section moves.
	writeMu sync.Mutex
}

// NewService returns a Service caching reads for ttl. A non-positive ttl
// disables caching.
func NewService(store Store, ttl time.Duration) *Service {
	s := &Service{store: store, now: time.Now}
	if ttl > 0 {
		s.entries = cache.New[Entry](ttl)
		s.all = cache.New[[]Entry](ttl)
	}
	return s
}

// Close stops the cache cleanup goroutines.
func (s *Service) Close() {
	if s.entries != nil {
		s.entries.Close()
		s.all.Close()
	}
}

// All returns every content entry.
func (s *Service) All(ctx context.Context) ([]Entry, error) {
	if s.all != nil {
		if entries, ok := s.all.Get(allEntriesKey); ok {
			metrics.RecordContentCache(true)
			return copyEntries(entries), nil
		}
		metrics.RecordContentCache(false)
	}

	entries, err := s.store.All(ctx)
	if err != nil {
		return nil, err
	}
	if s.all != nil {
		s.all.Set(allEntriesKey, copyEntries(entries))
	}
	return entries, nil
}

// Get returns the entry for key or ErrNotFound.
func (s *Service) Get(ctx context.Context, key string) (*Entry, error) {
	if s.entries != nil {
		if e, ok := s.entries.Get(key); ok {
			metrics.RecordContentCache(true)
			return &e, nil
		}
		metrics.RecordContentCache(false)
	}

	e, err := s.store.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	if s.entries != nil {
		s.entries.Set(key, *e)
	}
	return e, nil
}

// Upsert creates or replaces the content for key, stamping it with the
// current time.
func (s *Service) Upsert(ctx context.Context, key, body string) (*Entry, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	return s.upsertLocked(ctx, key, body)
}

func (s *Service) upsertLocked(ctx context.Context, key, body string) (*Entry, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return nil, ErrEmptyKey
	}

	e, err := s.store.Upsert(ctx, Entry{Key: key, Content: body, UpdatedAt: s.now().UTC()})
	if err != nil {
		return nil, err
	}
	s.invalidate(key)
	metrics.ContentUpdatesTotal.Inc()

	logging.Ctx(ctx).Info().Str("key", key).Int("bytes", len(body)).Msg("Content updated")
	return e, nil
}

func (s *Service) invalidate(key string) {
	if s.entries == nil {
		return
	}
	s.entries.Delete(key)
	s.all.Delete(allEntriesKey)
}

func copyEntries(in []Entry) []Entry {
	out := make([]Entry, len(in))
	copy(out, in)
	return out
}
