// Carbon Offset - Vehicle Emissions Calculator and Offset Checkout
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/carbonoffset

package services

import (
	"context"
	"errors"
	"time"

	"github.com/tomtom215/carbonoffset/internal/logging"
	syncpkg "github.com/tomtom215/carbonoffset/internal/sync"
)

// SyncRunner is satisfied by *sync.Syncer.
type SyncRunner interface {
	Run(ctx context.Context) (syncpkg.Result, error)
}

// PeriodicSyncService refreshes the vehicle collection from the EPA on a
// fixed interval.
//
// The first sync runs one interval after start, not immediately, so a
// restart loop cannot hammer fueleconomy.gov. A failed sync is logged and
// retried on the next tick; it never crashes the service. A sync that is
// already running (triggered from the admin API) is skipped.
type PeriodicSyncService struct {
	runner   SyncRunner
	interval time.Duration
	name     string
}

// NewPeriodicSyncService creates the service. interval must be positive.
func NewPeriodicSyncService(runner SyncRunner, interval time.Duration) *PeriodicSyncService {
	return &PeriodicSyncService{
		runner:   runner,
		interval: interval,
		name:     "vehicle-sync",
	}
}

// Serve implements suture.Service.
func (s *PeriodicSyncService) Serve(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	logging.Info().Dur("interval", s.interval).Msg("Periodic vehicle sync enabled")

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			s.runOnce(ctx)
		}
	}
}

func (s *PeriodicSyncService) runOnce(ctx context.Context) {
	ctx = logging.ContextWithNewCorrelationID(ctx)

	result, err := s.runner.Run(ctx)
	switch {
	case err == nil:
		logging.Ctx(ctx).Info().
			Int("total", result.Total).
			Int("dropped", result.Dropped).
			Dur("elapsed", result.Elapsed).
			Msg("Scheduled vehicle sync complete")
	case errors.Is(err, syncpkg.ErrSyncInProgress):
		logging.Ctx(ctx).Debug().Msg("Skipping scheduled sync, another sync is running")
	case errors.Is(err, context.Canceled):
	default:
		logging.Ctx(ctx).Warn().Err(err).Msg("Scheduled vehicle sync failed")
	}
}

// String implements fmt.Stringer.
func (s *PeriodicSyncService) String() string {
	return s.name
}
