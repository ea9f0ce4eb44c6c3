// Carbon Offset - Vehicle Emissions Calculator and Offset Checkout
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/carbonoffset

package payment

import (
	"context"
	"errors"
	"fmt"
	"math"
)

// Payment types accepted by checkout and receipts.
const (
	TypeOneTime      = "one-time"
	TypeSubscription = "subscription"
)

// ErrNotConfigured is returned when no payment provider key is configured.
var ErrNotConfigured = errors.New("payment provider not configured")

// Request is the checkout and receipt body sent by the offset form.
type Request struct {
	MetricTons  float64 `json:"metricTons" validate:"gt=0"`
	BaseCost    float64 `json:"baseCost" validate:"gte=0"`
	TotalCost   float64 `json:"totalCost" validate:"gt=0"`
	PaymentType string  `json:"paymentType" validate:"required,oneof=one-time subscription"`
	Email       string  `json:"email" validate:"required,email,max=254"`
}

// IsSubscription reports whether the request is for a monthly subscription.
func (r Request) IsSubscription() bool {
	return r.PaymentType == TypeSubscription
}

// MonthlyCost is the annual total spread over twelve months.
func (r Request) MonthlyCost() float64 {
	return r.TotalCost / 12
}

// UnitAmount is the charged amount in cents: one month for subscriptions,
// the full total otherwise.
func (r Request) UnitAmount() int64 {
	if r.IsSubscription() {
		return int64(math.Round(r.MonthlyCost() * 100))
	}
	return int64(math.Round(r.TotalCost * 100))
}

// ProductName is the line item name shown on the checkout page.
func (r Request) ProductName() string {
	if r.IsSubscription() {
		return "Monthly Carbon Offset Subscription"
	}
	return "Annual Carbon Offset Credits"
}

// ProductDescription is the line item description shown on the checkout page.
func (r Request) ProductDescription() string {
	if r.IsSubscription() {
		return fmt.Sprintf("Monthly subscription to offset %.2f metric tons of CO₂ annually", r.MetricTons)
	}
	return fmt.Sprintf("One-time payment to offset %.2f metric tons of CO₂ emissions", r.MetricTons)
}

// Session is a created hosted checkout session.
type Session struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// Checkout creates hosted checkout sessions.
type Checkout interface {
	CreateSession(ctx context.Context, req Request) (*Session, error)
}

// Disabled is the Checkout used when no provider is configured.
type Disabled struct{}

// CreateSession always returns ErrNotConfigured.
func (Disabled) CreateSession(context.Context, Request) (*Session, error) {
	return nil, ErrNotConfigured
}
