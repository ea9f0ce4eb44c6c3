// Carbon Offset - Vehicle Emissions Calculator and Offset Checkout
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/carbonoffset

package sync

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/tomtom215/carbonoffset/internal/breaker"
	"github.com/tomtom215/carbonoffset/internal/catalog"
	"github.com/tomtom215/carbonoffset/internal/config"
	"github.com/tomtom215/carbonoffset/internal/logging"
	"github.com/tomtom215/carbonoffset/internal/metrics"
)

var (
	// ErrSyncInProgress is returned when a sync or import is already running.
	ErrSyncInProgress = errors.New("vehicle sync already in progress")

	// ErrDownloadFailed is returned when the EPA CSV cannot be fetched.
	ErrDownloadFailed = errors.New("epa download failed")
)

// VehicleStore receives synced vehicles.
type VehicleStore interface {
	BulkUpsert(ctx context.Context, vehicles []catalog.Vehicle, batchSize int) (int, error)
}

// ChangeNotifier is told after a sync or import wrote vehicles.
type ChangeNotifier interface {
	NotifyVehiclesChanged(ctx context.Context, source string, count int)
}

// Change sources passed to ChangeNotifier.
const (
	SourceSync   = "sync"
	SourceImport = "import"
)

// Result reports the outcome of a sync or import.
type Result struct {
	// Total is the number of vehicles that passed the filter.
	Total int `json:"total"`

	Rows    int           `json:"rows"`
	Dropped int           `json:"dropped"`
	Elapsed time.Duration `json:"-"`
}

// Syncer downloads the EPA vehicles CSV and upserts it into a VehicleStore.
// Only one Run or Import executes at a time.
type Syncer struct {
	cfg     config.SyncConfig
	store   VehicleStore
	client  *http.Client
	breaker *breaker.Breaker
	running atomic.Bool

	notifier ChangeNotifier

	lastResult atomic.Pointer[Result]
}

// NewSyncer creates a Syncer for the configured source URL.
func NewSyncer(cfg config.SyncConfig, store VehicleStore) *Syncer {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Minute
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 1000
	}

	return &Syncer{
		cfg:     cfg,
		store:   store,
		client:  &http.Client{Timeout: timeout},
		breaker: breaker.New("epa-download", breaker.DefaultSettings()),
	}
}

// OnChange registers n to be told about every successful sync or import.
// It must be called before the Syncer is shared.
func (s *Syncer) OnChange(n ChangeNotifier) {
	s.notifier = n
}

// Running reports whether a sync is currently executing.
func (s *Syncer) Running() bool {
	return s.running.Load()
}

// LastResult returns the most recent successful result, or nil.
func (s *Syncer) LastResult() *Result {
	return s.lastResult.Load()
}

// Run downloads the configured CSV and upserts the filtered vehicles.
func (s *Syncer) Run(ctx context.Context) (Result, error) {
	if !s.running.CompareAndSwap(false, true) {
		return Result{}, ErrSyncInProgress
	}
	defer s.running.Store(false)

	start := time.Now()
	log := logging.Ctx(ctx).With().Str("component", "epa-sync").Logger()
	log.Info().Str("url", s.cfg.SourceURL).Msg("Downloading EPA CSV data")

	body, err := breaker.Execute(s.breaker, func() (io.ReadCloser, error) {
		return s.download(ctx)
	})
	if err != nil {
		metrics.RecordSyncOperation(time.Since(start), 0, metrics.SyncStageDownload, err)
		log.Error().Err(err).Msg("EPA download failed")
		return Result{}, err
	}
	defer body.Close()

	return s.ingest(ctx, body, start, SourceSync)
}

// Import runs the parse and upsert path on an already available CSV, such as
// an admin upload.
func (s *Syncer) Import(ctx context.Context, r io.Reader) (Result, error) {
	if !s.running.CompareAndSwap(false, true) {
		return Result{}, ErrSyncInProgress
	}
	defer s.running.Store(false)

	return s.ingest(ctx, r, time.Now(), SourceImport)
}

func (s *Syncer) ingest(ctx context.Context, r io.Reader, start time.Time, source string) (Result, error) {
	log := logging.Ctx(ctx).With().Str("component", "epa-sync").Logger()

	vehicles, stats, err := catalog.ParseCSV(r)
	if err != nil {
		metrics.RecordSyncOperation(time.Since(start), 0, metrics.SyncStageParse, err)
		return Result{}, fmt.Errorf("parse vehicle csv: %w", err)
	}
	log.Info().Int("rows", stats.Rows).Int("kept", stats.Kept).Msg("Parsed EPA CSV data")

	written, err := s.store.BulkUpsert(ctx, vehicles, s.cfg.BatchSize)
	if err != nil {
		metrics.RecordSyncOperation(time.Since(start), written, metrics.SyncStageStore, err)
		return Result{}, fmt.Errorf("store vehicles: %w", err)
	}

	res := Result{
		Total:   len(vehicles),
		Rows:    stats.Rows,
		Dropped: stats.Dropped,
		Elapsed: time.Since(start),
	}
	metrics.RecordSyncOperation(res.Elapsed, written, "", nil)
	s.lastResult.Store(&res)

	log.Info().
		Int("total", res.Total).
		Int("dropped", res.Dropped).
		Dur("elapsed", res.Elapsed).
		Msg("EPA data sync complete")

	if s.notifier != nil {
		s.notifier.NotifyVehiclesChanged(ctx, source, res.Total)
	}
	return res, nil
}

// download opens the CSV body. Non-2xx responses are errors.
func (s *Syncer) download(ctx context.Context) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.cfg.SourceURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %v", ErrDownloadFailed, err)
	}
	req.Header.Set("Accept", "text/csv")
	req.Header.Set("User-Agent", "carbonoffset-sync/1.0")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDownloadFailed, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		resp.Body.Close()
		return nil, fmt.Errorf("%w: unexpected status %d", ErrDownloadFailed, resp.StatusCode)
	}
	return resp.Body, nil
}
