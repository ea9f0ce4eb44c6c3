// Carbon Offset - Vehicle Emissions Calculator and Offset Checkout
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/carbonoffset

package api

import (
	"context"
	"io"
	"time"

	"github.com/tomtom215/carbonoffset/internal/audit"
	"github.com/tomtom215/carbonoffset/internal/auth"
	"github.com/tomtom215/carbonoffset/internal/catalog"
	"github.com/tomtom215/carbonoffset/internal/content"
	"github.com/tomtom215/carbonoffset/internal/database"
	"github.com/tomtom215/carbonoffset/internal/emissions"
	"github.com/tomtom215/carbonoffset/internal/payment"
	"github.com/tomtom215/carbonoffset/internal/receipt"
	syncpkg "github.com/tomtom215/carbonoffset/internal/sync"
)

// VehicleSyncer runs the EPA sync and admin uploads.
type VehicleSyncer interface {
	Run(ctx context.Context) (syncpkg.Result, error)
	Import(ctx context.Context, r io.Reader) (syncpkg.Result, error)
	Running() bool
	LastResult() *syncpkg.Result
}

// VehicleAdmin is the admin CRUD surface over stored vehicles.
type VehicleAdmin interface {
	List(ctx context.Context, opts database.ListOptions) (*database.ListResult, error)
	Get(ctx context.Context, id string) (*database.StoredVehicle, error)
	Create(ctx context.Context, v *catalog.Vehicle) (*database.StoredVehicle, error)
	Update(ctx context.Context, id string, v *catalog.Vehicle) (*database.StoredVehicle, error)
	Delete(ctx context.Context, id string) error
}

// VehicleEvents is told after admin CRUD changed stored vehicles.
type VehicleEvents interface {
	NotifyVehiclesChanged(ctx context.Context, source string, count int)
}

// ReadinessCheck is one named dependency probed by /health/ready.
type ReadinessCheck struct {
	Name  string
	Check func(ctx context.Context) error
}

// Dependencies are the services the handlers call. Vehicles, Content and
// Pricing are required; the rest are optional and their endpoints answer
// 503 when absent.
type Dependencies struct {
	Vehicles  catalog.Lookup
	Content   *content.Service
	Pricing   emissions.Pricing
	Checkout  payment.Checkout
	Receipts  *receipt.Service
	Syncer    VehicleSyncer
	Admin     VehicleAdmin
	Events    VehicleEvents
	Accounts  *auth.CredentialStore
	JWT       *auth.JWTManager
	Audit     *audit.Logger
	Readiness []ReadinessCheck
	Version   string

	// SyncDeadline replaces the server read and write timeouts for the sync
	// and upload endpoints. Zero uses DefaultSyncDeadline.
	SyncDeadline time.Duration
}

// DefaultSyncDeadline bounds a synchronous sync or upload request.
const DefaultSyncDeadline = 10 * time.Minute

// Handler contains dependencies for API handlers.
//
// Handler methods are split across multiple files:
//   - handlers.go: Handler struct and constructor (this file)
//   - handlers_health.go: health and readiness probes
//   - handlers_vehicles.go: year, make and model lookups
//   - handlers_emissions.go: footprint and offset pricing
//   - handlers_payment.go: checkout sessions and receipts
//   - handlers_content.go: editable content and section order
//   - handlers_auth.go: admin login
//   - handlers_admin.go: EPA sync, upload and vehicle CRUD
//   - handlers_audit.go: admin audit trail
type Handler struct {
	deps      Dependencies
	startTime time.Time
}

// NewHandler creates a new API handler. A nil Checkout is replaced with
// payment.Disabled so checkout requests fail with a clear error.
func NewHandler(deps Dependencies) *Handler {
	if deps.Checkout == nil {
		deps.Checkout = payment.Disabled{}
	}
	if deps.Pricing.PricePerTon <= 0 {
		deps.Pricing = emissions.DefaultPricing()
	}
	return &Handler{
		deps:      deps,
		startTime: time.Now(),
	}
}
