// Carbon Offset - Vehicle Emissions Calculator and Offset Checkout
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/carbonoffset

package api

import (
	"errors"
	"net/http"

	"github.com/tomtom215/carbonoffset/internal/auth"
	"github.com/tomtom215/carbonoffset/internal/logging"
	"github.com/tomtom215/carbonoffset/internal/metrics"
	"github.com/tomtom215/carbonoffset/internal/models"
)

// Login exchanges a configured username and password for a bearer token.
//
//	POST /api/auth/login {"username":"admin","password":"..."}
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	if h.deps.Accounts == nil || h.deps.JWT == nil || h.deps.Accounts.Len() == 0 {
		respondError(w, r, http.StatusServiceUnavailable, models.ErrCodeUnavailable, "Admin login is not configured", nil)
		return
	}

	var req models.LoginRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	role, err := h.deps.Accounts.Verify(req.Username, req.Password)
	if err != nil {
		metrics.RecordAuthAttempt(false)
		if errors.Is(err, auth.ErrInvalidCredentials) {
			h.deps.Audit.LogLogin(r, req.Username, "", false)
			logging.Ctx(r.Context()).Warn().
				Str("username", sanitizeLogValue(req.Username)).
				Str("remote_addr", r.RemoteAddr).
				Msg("Failed login attempt")
			respondError(w, r, http.StatusUnauthorized, models.ErrCodeAuthentication, "Invalid username or password", nil)
			return
		}
		respondError(w, r, http.StatusInternalServerError, models.ErrCodeInternal, "Login failed", err)
		return
	}

	token, expiresAt, err := h.deps.JWT.GenerateToken(req.Username, role)
	if err != nil {
		metrics.RecordAuthAttempt(false)
		respondError(w, r, http.StatusInternalServerError, models.ErrCodeInternal, "Failed to issue token", err)
		return
	}
	metrics.RecordAuthAttempt(true)
	h.deps.Audit.LogLogin(r, req.Username, role, true)

	logging.Ctx(r.Context()).Info().
		Str("username", sanitizeLogValue(req.Username)).
		Str("role", role).
		Msg("Login succeeded")
	respondJSON(w, http.StatusOK, models.LoginResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		Username:  req.Username,
		Role:      role,
	})
}
