// Carbon Offset - Vehicle Emissions Calculator and Offset Checkout
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/carbonoffset

package api

import (
	"context"
	"net/http"
	"time"

	"github.com/tomtom215/carbonoffset/internal/logging"
	"github.com/tomtom215/carbonoffset/internal/models"
)

// readinessTimeout bounds each dependency probe.
const readinessTimeout = 2 * time.Second

// Health is the basic liveness endpoint used by the site and load balancers.
//
//	GET /health -> {"status":"ok"}
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, models.HealthStatus{Status: "ok"})
}

// HealthLive reports that the process is up, with version and uptime.
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, models.HealthStatus{
		Status:  "ok",
		Version: h.deps.Version,
		Uptime:  time.Since(h.startTime).Seconds(),
	})
}

// HealthReady runs every readiness check. Any failure answers 503 with the
// per-check results so orchestrators hold traffic until the catalog is loaded
// and MongoDB answers.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	checks := make(map[string]string, len(h.deps.Readiness))
	ready := true

	for _, rc := range h.deps.Readiness {
		ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
		err := rc.Check(ctx)
		cancel()

		if err != nil {
			ready = false
			checks[rc.Name] = "unavailable"
			logging.Ctx(r.Context()).Warn().Err(err).Str("check", rc.Name).Msg("Readiness check failed")
			continue
		}
		checks[rc.Name] = "ok"
	}

	status := http.StatusOK
	health := models.HealthStatus{Status: "ready", Version: h.deps.Version, Checks: checks}
	if !ready {
		status = http.StatusServiceUnavailable
		health.Status = "not_ready"
	}
	respondJSON(w, status, health)
}
