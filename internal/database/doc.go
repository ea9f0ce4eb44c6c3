// Carbon Offset - Vehicle Emissions Calculator and Offset Checkout
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/carbonoffset

// Package database provides MongoDB persistence for synced vehicles and
// editable content.
//
// # Overview
//
// Connect opens a client, pings the primary and ensures indexes:
//
//	db, err := database.Connect(ctx, &cfg.Mongo)
//	if err != nil {
//	    return err
//	}
//	defer db.Close(context.Background())
//
// The vehicles collection carries a unique (year, make, model) index, so the
// EPA sync can upsert rows by key. VehicleRepository implements
// catalog.Lookup and can replace the file catalog as the source of the
// dropdown cascade; it also backs the admin CRUD endpoints.
//
// ContentRepository implements content.Store over the contents collection,
// keyed by a unique content key.
//
// # Errors
//
// Missing documents map to ErrNotFound (content.ErrNotFound for content),
// unique index violations to ErrDuplicate and malformed ids to ErrInvalidID.
//
// # Metrics
//
// Every operation is timed through metrics.RecordDBOperation.
package database
