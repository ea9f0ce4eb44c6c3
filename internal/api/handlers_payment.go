// Carbon Offset - Vehicle Emissions Calculator and Offset Checkout
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/carbonoffset

package api

import (
	"errors"
	"net/http"

	"github.com/tomtom215/carbonoffset/internal/breaker"
	"github.com/tomtom215/carbonoffset/internal/logging"
	"github.com/tomtom215/carbonoffset/internal/models"
	"github.com/tomtom215/carbonoffset/internal/payment"
)

// CheckoutResponse is the body returned by create-session.
type CheckoutResponse struct {
	URL string `json:"url"`
}

// ReceiptResponse is the body returned by the receipt endpoint.
type ReceiptResponse struct {
	Success bool `json:"success"`
}

// CreateCheckoutSession creates a hosted checkout session and returns its URL.
//
//	POST /api/payment/create-session -> {"url":"https://checkout.stripe.com/..."}
func (h *Handler) CreateCheckoutSession(w http.ResponseWriter, r *http.Request) {
	var req payment.Request
	if !decodeAndValidate(w, r, &req) {
		return
	}

	session, err := h.deps.Checkout.CreateSession(r.Context(), req)
	if err != nil {
		respondPaymentError(w, r, err)
		return
	}

	logging.Ctx(r.Context()).Info().
		Str("session_id", session.ID).
		Str("payment_type", req.PaymentType).
		Msg("Checkout session created")
	respondJSON(w, http.StatusOK, CheckoutResponse{URL: session.URL})
}

// SendReceipt emails a purchase receipt.
//
//	POST /api/payment/receipt -> {"success":true}
func (h *Handler) SendReceipt(w http.ResponseWriter, r *http.Request) {
	if h.deps.Receipts == nil {
		respondError(w, r, http.StatusServiceUnavailable, models.ErrCodeUnavailable, "Receipt delivery is not configured", nil)
		return
	}

	var req payment.Request
	if !decodeAndValidate(w, r, &req) {
		return
	}

	if err := h.deps.Receipts.Send(r.Context(), req); err != nil {
		respondError(w, r, http.StatusBadGateway, models.ErrCodeUpstream, "Failed to send receipt", err)
		return
	}
	respondJSON(w, http.StatusOK, ReceiptResponse{Success: true})
}

func respondPaymentError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, payment.ErrNotConfigured):
		respondError(w, r, http.StatusServiceUnavailable, models.ErrCodeUnavailable, "Payments are not configured", err)
	case breaker.IsRejected(err):
		respondError(w, r, http.StatusServiceUnavailable, models.ErrCodeUnavailable, "Payment provider is temporarily unavailable", err)
	default:
		respondError(w, r, http.StatusBadGateway, models.ErrCodeUpstream, "Failed to create checkout session", err)
	}
}
