// Carbon Offset - Vehicle Emissions Calculator and Offset Checkout
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/carbonoffset

package catalog

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/carbonoffset/internal/logging"
	"github.com/tomtom215/carbonoffset/internal/metrics"
)

// Service serves lookups from a catalog JSON file loaded once into memory.
// The loaded catalog is never mutated, so lookups need no locking.
type Service struct {
	path string

	once    sync.Once
	catalog *Catalog
	loadErr error
	ready   atomic.Bool
}

var _ Lookup = (*Service)(nil)

// NewService returns a Service for the catalog file at path. Nothing is read
// until Load or the first lookup.
func NewService(path string) *Service {
	return &Service{path: path}
}

// Path returns the configured catalog file path.
func (s *Service) Path() string {
	return s.path
}

// Load reads and validates the catalog. It runs at most once; later calls
// return the first result, including a failure.
func (s *Service) Load(ctx context.Context) error {
	s.once.Do(func() {
		start := time.Now()
		c, err := readCatalog(s.path)
		if err != nil {
			s.loadErr = err
			logging.Ctx(ctx).Error().Err(err).Str("path", s.path).Msg("Failed to load vehicle catalog")
			return
		}
		s.catalog = c
		s.ready.Store(true)
		metrics.RecordCatalogLoad(time.Since(start), c.Count())
		logging.Ctx(ctx).Info().
			Str("path", s.path).
			Int("years", len(c.Years)).
			Int("vehicles", c.Count()).
			Dur("duration", time.Since(start)).
			Msg("Vehicle catalog loaded")
	})
	return s.loadErr
}

// Ready reports whether the catalog has been loaded successfully.
func (s *Service) Ready() bool {
	return s.ready.Load()
}

func readCatalog(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrCatalogNotFound, path)
		}
		return nil, fmt.Errorf("%w: read %s: %v", ErrCatalogNotFound, path, err)
	}

	var c Catalog
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("%w: decode %s: %v", ErrInvalidCatalog, path, err)
	}
	if err := c.validate(); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidCatalog, path, err)
	}
	return &c, nil
}

// validate checks that years and vehicles agree.
func (c *Catalog) validate() error {
	if c.Vehicles == nil {
		c.Vehicles = make(map[int]map[string]map[string]Vehicle)
	}
	if c.Years == nil {
		c.Years = []int{}
	}
	listed := make(map[int]struct{}, len(c.Years))
	for _, y := range c.Years {
		listed[y] = struct{}{}
	}
	for y := range c.Vehicles {
		if _, ok := listed[y]; !ok {
			return fmt.Errorf("year %d has vehicles but is not listed in years", y)
		}
	}
	return nil
}

func (s *Service) loaded(ctx context.Context) (*Catalog, error) {
	if err := s.Load(ctx); err != nil {
		return nil, err
	}
	return s.catalog, nil
}

// ListYears returns the catalog years, newest first.
func (s *Service) ListYears(ctx context.Context) ([]int, error) {
	c, err := s.loaded(ctx)
	if err != nil {
		return nil, err
	}
	years := make([]int, len(c.Years))
	copy(years, c.Years)
	return years, nil
}

// ListMakes returns the makes for year sorted ascending. An unknown year
// yields an empty slice.
func (s *Service) ListMakes(ctx context.Context, year int) ([]string, error) {
	c, err := s.loaded(ctx)
	if err != nil {
		return nil, err
	}
	makes := c.Vehicles[year]
	out := make([]string, 0, len(makes))
	for m := range makes {
		out = append(out, m)
	}
	sort.Strings(out)
	return out, nil
}

// ListModels returns the vehicles for year and make sorted by model. Unknown
// keys yield an empty slice.
func (s *Service) ListModels(ctx context.Context, year int, vehicleMake string) ([]Vehicle, error) {
	c, err := s.loaded(ctx)
	if err != nil {
		return nil, err
	}
	models := c.Vehicles[year][vehicleMake]
	out := make([]Vehicle, 0, len(models))
	for _, v := range models {
		out = append(out, v)
	}
	SortByModel(out)
	return out, nil
}
