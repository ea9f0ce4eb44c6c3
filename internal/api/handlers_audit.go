// Carbon Offset - Vehicle Emissions Calculator and Offset Checkout
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/carbonoffset

package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/tomtom215/carbonoffset/internal/audit"
	"github.com/tomtom215/carbonoffset/internal/models"
)

// AuditResponse is one page of audit events.
type AuditResponse struct {
	Events []audit.Event `json:"events"`
	Count  int           `json:"count"`
}

// AuditEvents lists recorded admin actions, newest first.
//
//	GET /api/admin/audit?type=vehicle.deleted,auth.failure&actor=admin&outcome=failure&since=2026-01-02T15:04:05Z&limit=50
func (h *Handler) AuditEvents(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	if h.deps.Audit == nil {
		respondError(w, r, http.StatusServiceUnavailable, models.ErrCodeUnavailable, "Audit logging is disabled", nil)
		return
	}

	filter, ok := parseAuditFilter(w, r)
	if !ok {
		return
	}

	events, err := h.deps.Audit.Query(r.Context(), filter)
	if err != nil {
		respondError(w, r, http.StatusInternalServerError, models.ErrCodeDatabase, "Failed to query audit events", err)
		return
	}
	if events == nil {
		events = []audit.Event{}
	}
	respondSuccess(w, r, http.StatusOK, AuditResponse{Events: events, Count: len(events)}, start)
}

func parseAuditFilter(w http.ResponseWriter, r *http.Request) (audit.QueryFilter, bool) {
	q := r.URL.Query()
	filter := audit.QueryFilter{
		Actor: strings.TrimSpace(q.Get("actor")),
		Limit: getIntParam(r, "limit", audit.DefaultQueryLimit),
	}

	for _, t := range strings.Split(q.Get("type"), ",") {
		if t = strings.TrimSpace(t); t != "" {
			filter.Types = append(filter.Types, audit.EventType(t))
		}
	}

	switch outcome := audit.Outcome(q.Get("outcome")); outcome {
	case "", audit.OutcomeSuccess, audit.OutcomeFailure:
		filter.Outcome = outcome
	default:
		respondError(w, r, http.StatusBadRequest, models.ErrCodeValidation, "outcome must be success or failure", nil)
		return filter, false
	}

	if since := q.Get("since"); since != "" {
		t, err := time.Parse(time.RFC3339, since)
		if err != nil {
			respondError(w, r, http.StatusBadRequest, models.ErrCodeValidation, "since must be an RFC 3339 timestamp", nil)
			return filter, false
		}
		filter.Since = t
	}
	return filter, true
}
