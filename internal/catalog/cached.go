// Carbon Offset - Vehicle Emissions Calculator and Offset Checkout
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/carbonoffset

package catalog

import (
	"context"
	"strconv"
	"time"

	"github.com/tomtom215/carbonoffset/internal/cache"
	"github.com/tomtom215/carbonoffset/internal/metrics"
)

// CachedLookup fronts a slow Lookup, such as the MongoDB repository, with
// TTL caches. Errors are never cached. Invalidate drops everything after the
// underlying vehicles change.
type CachedLookup struct {
	next   Lookup
	years  *cache.Cache[[]int]
	makes  *cache.Cache[[]string]
	models *cache.Cache[[]Vehicle]
}

var _ Lookup = (*CachedLookup)(nil)

const yearsKey = "years"

// NewCachedLookup wraps next. Call Close to stop the cache cleanup goroutines.
func NewCachedLookup(next Lookup, ttl time.Duration) *CachedLookup {
	return &CachedLookup{
		next:   next,
		years:  cache.New[[]int](ttl),
		makes:  cache.New[[]string](ttl),
		models: cache.New[[]Vehicle](ttl),
	}
}

func (c *CachedLookup) ListYears(ctx context.Context) ([]int, error) {
	if years, ok := c.years.Get(yearsKey); ok {
		metrics.RecordLookupCache("years", true)
		return cloneSlice(years), nil
	}
	metrics.RecordLookupCache("years", false)

	years, err := c.next.ListYears(ctx)
	if err != nil {
		return nil, err
	}
	c.years.Set(yearsKey, cloneSlice(years))
	return cloneSlice(years), nil
}

func (c *CachedLookup) ListMakes(ctx context.Context, year int) ([]string, error) {
	key := strconv.Itoa(year)
	if makes, ok := c.makes.Get(key); ok {
		metrics.RecordLookupCache("makes", true)
		return cloneSlice(makes), nil
	}
	metrics.RecordLookupCache("makes", false)

	makes, err := c.next.ListMakes(ctx, year)
	if err != nil {
		return nil, err
	}
	c.makes.Set(key, cloneSlice(makes))
	return cloneSlice(makes), nil
}

func (c *CachedLookup) ListModels(ctx context.Context, year int, vehicleMake string) ([]Vehicle, error) {
	key := strconv.Itoa(year) + "|" + vehicleMake
	if models, ok := c.models.Get(key); ok {
		metrics.RecordLookupCache("models", true)
		return cloneSlice(models), nil
	}
	metrics.RecordLookupCache("models", false)

	models, err := c.next.ListModels(ctx, year, vehicleMake)
	if err != nil {
		return nil, err
	}
	c.models.Set(key, cloneSlice(models))
	return cloneSlice(models), nil
}

// cloneSlice copies s. The result is never nil so an empty lookup encodes
// as [] rather than null.
func cloneSlice[T any](s []T) []T {
	out := make([]T, len(s))
	copy(out, s)
	return out
}

// Invalidate clears every cached lookup.
func (c *CachedLookup) Invalidate() {
	c.years.Clear()
	c.makes.Clear()
	c.models.Clear()
}

// Close stops the cache cleanup goroutines.
func (c *CachedLookup) Close() {
	c.years.Close()
	c.makes.Close()
	c.models.Close()
}
