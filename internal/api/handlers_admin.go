// Carbon Offset - Vehicle Emissions Calculator and Offset Checkout
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/carbonoffset

package api

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/carbonoffset/internal/audit"
	"github.com/tomtom215/carbonoffset/internal/breaker"
	"github.com/tomtom215/carbonoffset/internal/catalog"
	"github.com/tomtom215/carbonoffset/internal/database"
	"github.com/tomtom215/carbonoffset/internal/logging"
	"github.com/tomtom215/carbonoffset/internal/models"
	syncpkg "github.com/tomtom215/carbonoffset/internal/sync"
)

// maxUploadBytes bounds admin CSV uploads. The full EPA file is about 45 MB.
const maxUploadBytes = 100 << 20

// SyncResponse is the body returned by the sync and upload endpoints.
type SyncResponse struct {
	Total int `json:"total"`
}

// SyncStatusResponse reports whether a sync is running and the last outcome.
type SyncStatusResponse struct {
	Running    bool            `json:"running"`
	LastResult *syncpkg.Result `json:"last_result,omitempty"`
}

// VehicleSync downloads the EPA CSV and upserts it into MongoDB.
//
//	POST /api/vehicles/sync -> {"total":12345}
func (h *Handler) VehicleSync(w http.ResponseWriter, r *http.Request) {
	if h.deps.Syncer == nil {
		respondError(w, r, http.StatusServiceUnavailable, models.ErrCodeUnavailable, "Vehicle sync is not configured", nil)
		return
	}

	h.extendSyncDeadline(w, r)
	result, err := h.deps.Syncer.Run(r.Context())
	if err != nil {
		if !errors.Is(err, syncpkg.ErrSyncInProgress) {
			h.deps.Audit.Record(r, audit.EventTypeVehicleSync, audit.OutcomeFailure, nil, "EPA sync failed", nil)
		}
		respondSyncError(w, r, err)
		return
	}
	h.deps.Audit.Record(r, audit.EventTypeVehicleSync, audit.OutcomeSuccess, nil, "EPA sync completed", syncMetadata(result))
	respondJSON(w, http.StatusOK, SyncResponse{Total: result.Total})
}

// VehicleSyncStatus reports the sync state.
func (h *Handler) VehicleSyncStatus(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	if h.deps.Syncer == nil {
		respondError(w, r, http.StatusServiceUnavailable, models.ErrCodeUnavailable, "Vehicle sync is not configured", nil)
		return
	}
	respondSuccess(w, r, http.StatusOK, SyncStatusResponse{
		Running:    h.deps.Syncer.Running(),
		LastResult: h.deps.Syncer.LastResult(),
	}, start)
}

// VehicleUpload imports an uploaded EPA-format CSV through the sync path.
//
//	POST /api/admin/vehicles/upload (multipart/form-data, field "file")
func (h *Handler) VehicleUpload(w http.ResponseWriter, r *http.Request) {
	if h.deps.Syncer == nil {
		respondError(w, r, http.StatusServiceUnavailable, models.ErrCodeUnavailable, "Vehicle sync is not configured", nil)
		return
	}

	h.extendSyncDeadline(w, r)
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	file, header, err := r.FormFile("file")
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			respondError(w, r, http.StatusRequestEntityTooLarge, models.ErrCodeBadRequest, "Upload too large", nil)
			return
		}
		respondError(w, r, http.StatusBadRequest, models.ErrCodeBadRequest, "A CSV file is required in the \"file\" field", nil)
		return
	}
	defer file.Close()

	logging.Ctx(r.Context()).Info().
		Str("filename", sanitizeLogValue(header.Filename)).
		Int64("size", header.Size).
		Msg("Vehicle CSV upload received")

	result, err := h.deps.Syncer.Import(r.Context(), file)
	if err != nil {
		if !errors.Is(err, syncpkg.ErrSyncInProgress) {
			h.deps.Audit.Record(r, audit.EventTypeVehicleImport, audit.OutcomeFailure, nil, "Vehicle CSV import failed",
				map[string]string{"filename": header.Filename})
		}
		respondSyncError(w, r, err)
		return
	}
	meta := syncMetadata(result)
	meta["filename"] = header.Filename
	h.deps.Audit.Record(r, audit.EventTypeVehicleImport, audit.OutcomeSuccess, nil, "Vehicle CSV imported", meta)
	respondJSON(w, http.StatusOK, SyncResponse{Total: result.Total})
}

// extendSyncDeadline moves the connection deadlines past the server-wide
// timeouts so the caller still receives the result of a long sync.
func (h *Handler) extendSyncDeadline(w http.ResponseWriter, r *http.Request) {
	d := h.deps.SyncDeadline
	if d <= 0 {
		d = DefaultSyncDeadline
	}
	deadline := time.Now().Add(d)

	rc := http.NewResponseController(w)
	if err := rc.SetWriteDeadline(deadline); err != nil && !errors.Is(err, http.ErrNotSupported) {
		logging.Ctx(r.Context()).Warn().Err(err).Msg("Failed to extend write deadline")
	}
	if err := rc.SetReadDeadline(deadline); err != nil && !errors.Is(err, http.ErrNotSupported) {
		logging.Ctx(r.Context()).Warn().Err(err).Msg("Failed to extend read deadline")
	}
}

func syncMetadata(result syncpkg.Result) map[string]string {
	return map[string]string{"total": strconv.Itoa(result.Total)}
}

func respondSyncError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, syncpkg.ErrSyncInProgress):
		respondError(w, r, http.StatusConflict, models.ErrCodeConflict, "A vehicle sync is already running", nil)
	case errors.Is(err, catalog.ErrMalformedInput):
		respondError(w, r, http.StatusBadRequest, models.ErrCodeValidation, "The vehicle CSV is malformed", err)
	case breaker.IsRejected(err):
		respondError(w, r, http.StatusServiceUnavailable, models.ErrCodeUnavailable, "EPA download is temporarily unavailable", err)
	case errors.Is(err, syncpkg.ErrDownloadFailed):
		respondError(w, r, http.StatusBadGateway, models.ErrCodeUpstream, "Failed to download EPA vehicle data", err)
	default:
		respondError(w, r, http.StatusInternalServerError, models.ErrCodeDatabase, "Vehicle sync failed", err)
	}
}

// AdminVehicleList returns one page of stored vehicles.
//
//	GET /api/admin/vehicles?page=1&limit=50&sort=year&dir=desc
func (h *Handler) AdminVehicleList(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	if !h.requireAdmin(w, r) {
		return
	}

	q := r.URL.Query()
	opts := database.ListOptions{
		Page:  getIntParam(r, "page", 1),
		Limit: getIntParam(r, "limit", database.DefaultPageLimit),
		Sort:  q.Get("sort"),
		Desc:  strings.EqualFold(q.Get("dir"), "desc"),
	}

	result, err := h.deps.Admin.List(r.Context(), opts)
	if errors.Is(err, database.ErrInvalidSort) {
		respondError(w, r, http.StatusBadRequest, models.ErrCodeValidation, err.Error(), nil)
		return
	}
	if err != nil {
		respondError(w, r, http.StatusInternalServerError, models.ErrCodeDatabase, "Failed to list vehicles", err)
		return
	}
	respondSuccess(w, r, http.StatusOK, result, start)
}

// AdminVehicleGet returns one stored vehicle.
func (h *Handler) AdminVehicleGet(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	if !h.requireAdmin(w, r) {
		return
	}

	v, err := h.deps.Admin.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		respondVehicleError(w, r, err)
		return
	}
	respondSuccess(w, r, http.StatusOK, v, start)
}

// AdminVehicleCreate inserts a vehicle. Duplicate (year, make, model) keys
// answer 409.
func (h *Handler) AdminVehicleCreate(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	if !h.requireAdmin(w, r) {
		return
	}

	var req models.VehicleRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	v, err := h.deps.Admin.Create(r.Context(), vehicleFromRequest(&req))
	if err != nil {
		respondVehicleError(w, r, err)
		return
	}
	h.deps.Audit.Record(r, audit.EventTypeVehicleCreated, audit.OutcomeSuccess, vehicleTarget(v.ID.Hex()), "Vehicle created", vehicleMetadata(&req))
	h.vehiclesChanged(r)
	respondSuccess(w, r, http.StatusCreated, v, start)
}

// AdminVehicleUpdate replaces a stored vehicle.
func (h *Handler) AdminVehicleUpdate(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	if !h.requireAdmin(w, r) {
		return
	}

	var req models.VehicleRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	v, err := h.deps.Admin.Update(r.Context(), chi.URLParam(r, "id"), vehicleFromRequest(&req))
	if err != nil {
		respondVehicleError(w, r, err)
		return
	}
	h.deps.Audit.Record(r, audit.EventTypeVehicleUpdated, audit.OutcomeSuccess, vehicleTarget(v.ID.Hex()), "Vehicle updated", vehicleMetadata(&req))
	h.vehiclesChanged(r)
	respondSuccess(w, r, http.StatusOK, v, start)
}

// AdminVehicleDelete removes a stored vehicle.
func (h *Handler) AdminVehicleDelete(w http.ResponseWriter, r *http.Request) {
	if !h.requireAdmin(w, r) {
		return
	}

	id := chi.URLParam(r, "id")
	if err := h.deps.Admin.Delete(r.Context(), id); err != nil {
		respondVehicleError(w, r, err)
		return
	}
	h.deps.Audit.Record(r, audit.EventTypeVehicleDeleted, audit.OutcomeSuccess, vehicleTarget(id), "Vehicle deleted", nil)
	h.vehiclesChanged(r)
	w.WriteHeader(http.StatusNoContent)
}

// vehicleChangeSource tags events published by admin CRUD.
const vehicleChangeSource = "admin"

func (h *Handler) vehiclesChanged(r *http.Request) {
	if h.deps.Events != nil {
		h.deps.Events.NotifyVehiclesChanged(r.Context(), vehicleChangeSource, 1)
	}
}

func (h *Handler) requireAdmin(w http.ResponseWriter, r *http.Request) bool {
	if h.deps.Admin == nil {
		respondError(w, r, http.StatusServiceUnavailable, models.ErrCodeUnavailable, "Vehicle administration requires MongoDB", nil)
		return false
	}
	return true
}

func respondVehicleError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, database.ErrInvalidID):
		respondError(w, r, http.StatusBadRequest, models.ErrCodeValidation, "Invalid vehicle id", nil)
	case errors.Is(err, database.ErrNotFound):
		respondError(w, r, http.StatusNotFound, models.ErrCodeNotFound, "Vehicle not found", nil)
	case errors.Is(err, database.ErrDuplicate):
		respondError(w, r, http.StatusConflict, models.ErrCodeConflict, "A vehicle with this year, make and model already exists", nil)
	default:
		respondError(w, r, http.StatusInternalServerError, models.ErrCodeDatabase, "Vehicle operation failed", err)
	}
}

func vehicleTarget(id string) *audit.Target {
	return &audit.Target{ID: id, Type: "vehicle"}
}

func vehicleMetadata(req *models.VehicleRequest) map[string]string {
	return map[string]string{
		"year":  strconv.Itoa(req.Year),
		"make":  req.Make,
		"model": req.Model,
	}
}

func vehicleFromRequest(req *models.VehicleRequest) *catalog.Vehicle {
	return &catalog.Vehicle{
		Year:         req.Year,
		Make:         strings.TrimSpace(req.Make),
		Model:        strings.TrimSpace(req.Model),
		MPGCombined:  req.MPGCombined,
		MPGCity:      req.MPGCity,
		MPGHighway:   req.MPGHighway,
		FuelType:     req.FuelType,
		Cylinders:    req.Cylinders,
		Displacement: req.Displacement,
		Transmission: req.Transmission,
		DriveType:    req.DriveType,
	}
}

// getIntParam extracts an integer query parameter with a default value
func getIntParam(r *http.Request, key string, defaultValue int) int {
	value := r.URL.Query().Get(key)
	if value == "" {
		return defaultValue
	}

	intValue, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}

	return intValue
}
