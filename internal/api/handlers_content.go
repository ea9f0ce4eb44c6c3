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

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/carbonoffset/internal/audit"
	"github.com/tomtom215/carbonoffset/internal/content"
	"github.com/tomtom215/carbonoffset/internal/models"
)

// contentNotFound is the bare 404 body the site checks for.
type contentNotFound struct {
	Message string `json:"message"`
}

// ContentAll returns every content entry.
func (h *Handler) ContentAll(w http.ResponseWriter, r *http.Request) {
	entries, err := h.deps.Content.All(r.Context())
	if err != nil {
		respondError(w, r, http.StatusInternalServerError, models.ErrCodeDatabase, "Failed to load content", err)
		return
	}
	respondJSON(w, http.StatusOK, entries)
}

// ContentGet returns one entry, or 404 {"message":"Content not found"}.
func (h *Handler) ContentGet(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")

	entry, err := h.deps.Content.Get(r.Context(), key)
	if errors.Is(err, content.ErrNotFound) {
		respondJSON(w, http.StatusNotFound, contentNotFound{Message: "Content not found"})
		return
	}
	if err != nil {
		respondError(w, r, http.StatusInternalServerError, models.ErrCodeDatabase, "Failed to load content", err)
		return
	}
	respondJSON(w, http.StatusOK, entry)
}

// ContentUpsert creates or replaces an entry and returns it with its new
// updatedAt.
//
//	POST /api/content/{key} {"content":"..."}
func (h *Handler) ContentUpsert(w http.ResponseWriter, r *http.Request) {
	var req models.ContentUpdateRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	key := chi.URLParam(r, "key")
	if key == content.SectionOrderKey {
		respondError(w, r, http.StatusBadRequest, models.ErrCodeValidation,
			"section order is changed through /api/content/section-order", nil)
		return
	}

	entry, err := h.deps.Content.Upsert(r.Context(), key, req.Content)
	if errors.Is(err, content.ErrEmptyKey) {
		respondError(w, r, http.StatusBadRequest, models.ErrCodeValidation, "content key is required", nil)
		return
	}
	if err != nil {
		respondError(w, r, http.StatusInternalServerError, models.ErrCodeDatabase, "Failed to save content", err)
		return
	}
	h.deps.Audit.Record(r, audit.EventTypeContentUpdated, audit.OutcomeSuccess,
		&audit.Target{ID: entry.Key, Type: "content"}, "Content entry saved", nil)
	respondJSON(w, http.StatusOK, entry)
}

// SectionOrder returns the landing page section order.
func (h *Handler) SectionOrder(w http.ResponseWriter, r *http.Request) {
	order, err := h.deps.Content.SectionOrder(r.Context())
	if err != nil {
		respondError(w, r, http.StatusInternalServerError, models.ErrCodeDatabase, "Failed to load section order", err)
		return
	}
	respondJSON(w, http.StatusOK, order)
}

// SectionMove moves one section and returns the new order.
//
//	POST /api/content/section-order/move {"from":0,"to":2}
func (h *Handler) SectionMove(w http.ResponseWriter, r *http.Request) {
	var req models.SectionMoveRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	order, err := h.deps.Content.MoveSection(r.Context(), *req.From, *req.To)
	if err != nil {
		respondSectionError(w, r, err)
		return
	}
	h.deps.Audit.Record(r, audit.EventTypeSectionsReordered, audit.OutcomeSuccess, nil, "Section moved",
		map[string]string{"from": strconv.Itoa(*req.From), "to": strconv.Itoa(*req.To)})
	respondJSON(w, http.StatusOK, order)
}

// SectionReorder replaces the full section order.
//
//	PUT /api/content/section-order {"order":["hero", ...]}
func (h *Handler) SectionReorder(w http.ResponseWriter, r *http.Request) {
	var req models.SectionOrderRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	order, err := h.deps.Content.SetSectionOrder(r.Context(), req.Order)
	if err != nil {
		respondSectionError(w, r, err)
		return
	}
	h.deps.Audit.Record(r, audit.EventTypeSectionsReordered, audit.OutcomeSuccess, nil, "Section order replaced",
		map[string]string{"order": strings.Join(order, ",")})
	respondJSON(w, http.StatusOK, order)
}

func respondSectionError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, content.ErrInvalidMove), errors.Is(err, content.ErrInvalidOrder):
		respondError(w, r, http.StatusBadRequest, models.ErrCodeValidation, err.Error(), nil)
	default:
		respondError(w, r, http.StatusInternalServerError, models.ErrCodeDatabase, "Failed to save section order", err)
	}
}
