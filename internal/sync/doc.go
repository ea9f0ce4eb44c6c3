// Carbon Offset - Vehicle Emissions Calculator and Offset Checkout
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/carbonoffset

/*
Package sync refreshes the vehicles collection from the EPA fuel economy
dataset.

Syncer.Run downloads vehicles.csv through a circuit breaker, filters and
projects it with catalog.ParseCSV, and upserts the result into a
VehicleStore in batches keyed on (year, make, model). Syncer.Import runs the
same path on an uploaded file. A second call while one is running fails
fast with ErrSyncInProgress.

Usage Example:

	syncer := sync.NewSyncer(cfg.Sync, db.Vehicles())
	res, err := syncer.Run(ctx)
	if errors.Is(err, sync.ErrSyncInProgress) {
	    // another sync owns the collection
	}
	log.Printf("synced %d vehicles", res.Total)

The supervisor package wraps Syncer in a periodic service when
sync.interval is set.
*/
package sync
