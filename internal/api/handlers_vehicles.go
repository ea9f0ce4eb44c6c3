// Carbon Offset - Vehicle Emissions Calculator and Offset Checkout
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/carbonoffset

package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/carbonoffset/internal/models"
)

// ModelOption is one entry of the model dropdown.
type ModelOption struct {
	Model       string  `json:"model"`
	MPGCombined float64 `json:"mpg_combined"`
}

// parseYearParam reads the {year} path parameter, writing a 400 when it is
// not an integer.
func parseYearParam(w http.ResponseWriter, r *http.Request) (int, bool) {
	raw := chi.URLParam(r, "year")
	year, err := strconv.Atoi(raw)
	if err != nil {
		respondError(w, r, http.StatusBadRequest, models.ErrCodeValidation, "year must be an integer", nil)
		return 0, false
	}
	return year, true
}

// VehicleYears returns every model year, newest first.
//
//	GET /api/vehicles/years -> [2026, 2025, ...]
func (h *Handler) VehicleYears(w http.ResponseWriter, r *http.Request) {
	years, err := h.deps.Vehicles.ListYears(r.Context())
	if err != nil {
		respondError(w, r, http.StatusServiceUnavailable, models.ErrCodeUnavailable, "Vehicle data is unavailable", err)
		return
	}
	respondJSON(w, http.StatusOK, years)
}

// VehicleMakes returns the makes available in a year. Unknown years yield [].
//
//	GET /api/vehicles/makes/{year} -> ["Honda", "Toyota"]
func (h *Handler) VehicleMakes(w http.ResponseWriter, r *http.Request) {
	year, ok := parseYearParam(w, r)
	if !ok {
		return
	}

	makes, err := h.deps.Vehicles.ListMakes(r.Context(), year)
	if err != nil {
		respondError(w, r, http.StatusServiceUnavailable, models.ErrCodeUnavailable, "Vehicle data is unavailable", err)
		return
	}
	respondJSON(w, http.StatusOK, makes)
}

// VehicleModels returns the models for a year and make with their combined
// MPG. Unknown keys yield [].
//
//	GET /api/vehicles/models/{year}/{make} -> [{"model":"Civic","mpg_combined":36}]
func (h *Handler) VehicleModels(w http.ResponseWriter, r *http.Request) {
	year, ok := parseYearParam(w, r)
	if !ok {
		return
	}
	vehicleMake := strings.TrimSpace(chi.URLParam(r, "make"))

	vehicles, err := h.deps.Vehicles.ListModels(r.Context(), year, vehicleMake)
	if err != nil {
		respondError(w, r, http.StatusServiceUnavailable, models.ErrCodeUnavailable, "Vehicle data is unavailable", err)
		return
	}

	options := make([]ModelOption, 0, len(vehicles))
	for i := range vehicles {
		options = append(options, ModelOption{
			Model:       vehicles[i].Model,
			MPGCombined: vehicles[i].MPGCombined,
		})
	}
	respondJSON(w, http.StatusOK, options)
}
