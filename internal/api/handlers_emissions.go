// Carbon Offset - Vehicle Emissions Calculator and Offset Checkout
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/carbonoffset

package api

import (
	"net/http"

	"github.com/tomtom215/carbonoffset/internal/emissions"
	"github.com/tomtom215/carbonoffset/internal/models"
)

// CalculateEmissions returns the annual footprint for a mileage and MPG.
//
//	POST /api/emissions/calculate {"annualMiles":12000,"mpgCombined":30}
func (h *Handler) CalculateEmissions(w http.ResponseWriter, r *http.Request) {
	var req models.CalculateRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	result, err := emissions.Calculate(req.AnnualMiles, req.MPGCombined)
	if err != nil {
		respondError(w, r, http.StatusBadRequest, models.ErrCodeValidation, err.Error(), nil)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

// QuoteOffset prices offsetting a share of an annual footprint.
//
//	POST /api/emissions/quote {"tonsCO2":3.92,"offsetPercent":50}
func (h *Handler) QuoteOffset(w http.ResponseWriter, r *http.Request) {
	var req models.QuoteRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	quote, err := h.deps.Pricing.Quote(req.TonsCO2, req.OffsetPercent)
	if err != nil {
		respondError(w, r, http.StatusBadRequest, models.ErrCodeValidation, err.Error(), nil)
		return
	}
	respondJSON(w, http.StatusOK, quote)
}
