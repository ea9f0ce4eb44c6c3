// Carbon Offset - Vehicle Emissions Calculator and Offset Checkout
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/carbonoffset

package payment

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"

	"github.com/tomtom215/carbonoffset/internal/breaker"
	"github.com/tomtom215/carbonoffset/internal/logging"
	"github.com/tomtom215/carbonoffset/internal/metrics"
)

// StripeCheckout creates Stripe Checkout sessions.
type StripeCheckout struct {
	api       *client.API
	clientURL string
	breaker   *breaker.Breaker
}

var _ Checkout = (*StripeCheckout)(nil)

// StripeOption customizes a StripeCheckout.
type StripeOption func(*stripe.BackendConfig)

// WithBackendURL points the client at a different API host (tests, stripe-mock).
func WithBackendURL(url string) StripeOption {
	return func(c *stripe.BackendConfig) {
		c.URL = stripe.String(url)
	}
}

// NewStripeCheckout creates a checkout client. clientURL is the public site
// origin the hosted page redirects back to.
func NewStripeCheckout(secretKey, clientURL string, opts ...StripeOption) *StripeCheckout {
	cfg := &stripe.BackendConfig{
		HTTPClient:        &http.Client{Timeout: 30 * time.Second},
		LeveledLogger:     &stripe.LeveledLogger{Level: stripe.LevelNull},
		MaxNetworkRetries: stripe.Int64(1),
	}
	for _, opt := range opts {
		opt(cfg)
	}

	backend := stripe.GetBackendWithConfig(stripe.APIBackend, cfg)
	api := client.New(secretKey, &stripe.Backends{
		API:     backend,
		Connect: backend,
		Uploads: stripe.GetBackendWithConfig(stripe.UploadsBackend, cfg),
	})

	return &StripeCheckout{
		api:       api,
		clientURL: strings.TrimRight(clientURL, "/"),
		breaker:   breaker.New("stripe", breaker.DefaultSettings()),
	}
}

// CreateSession reuses an existing customer with the same email when one
// exists, then creates a one-time or monthly subscription session.
func (s *StripeCheckout) CreateSession(ctx context.Context, req Request) (*Session, error) {
	session, err := breaker.Execute(s.breaker, func() (*stripe.CheckoutSession, error) {
		customerID, err := s.findCustomer(ctx, req.Email)
		if err != nil {
			return nil, err
		}
		return s.api.CheckoutSessions.New(s.sessionParams(ctx, req, customerID))
	})
	metrics.RecordCheckoutSession(req.PaymentType, err)
	if err != nil {
		logging.Ctx(ctx).Error().Err(err).Str("payment_type", req.PaymentType).Msg("Failed to create checkout session")
		return nil, fmt.Errorf("create checkout session: %w", err)
	}

	logging.Ctx(ctx).Info().
		Str("session_id", session.ID).
		Str("payment_type", req.PaymentType).
		Int64("unit_amount", req.UnitAmount()).
		Msg("Checkout session created")
	return &Session{ID: session.ID, URL: session.URL}, nil
}

func (s *StripeCheckout) findCustomer(ctx context.Context, email string) (string, error) {
	params := &stripe.CustomerListParams{Email: stripe.String(email)}
	params.Context = ctx
	params.Limit = stripe.Int64(1)
	params.Single = true

	iter := s.api.Customers.List(params)
	if iter.Next() {
		return iter.Customer().ID, nil
	}
	if err := iter.Err(); err != nil {
		return "", fmt.Errorf("lookup customer: %w", err)
	}
	return "", nil
}

func (s *StripeCheckout) sessionParams(ctx context.Context, req Request, customerID string) *stripe.CheckoutSessionParams {
	priceData := &stripe.CheckoutSessionLineItemPriceDataParams{
		Currency: stripe.String(string(stripe.CurrencyUSD)),
		ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
			Name:        stripe.String(req.ProductName()),
			Description: stripe.String(req.ProductDescription()),
		},
		UnitAmount: stripe.Int64(req.UnitAmount()),
	}

	mode := stripe.CheckoutSessionModePayment
	if req.IsSubscription() {
		mode = stripe.CheckoutSessionModeSubscription
		priceData.Recurring = &stripe.CheckoutSessionLineItemPriceDataRecurringParams{
			Interval: stripe.String(string(stripe.PriceRecurringIntervalMonth)),
		}
	}

	params := &stripe.CheckoutSessionParams{
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{PriceData: priceData, Quantity: stripe.Int64(1)},
		},
		Mode:       stripe.String(string(mode)),
		SuccessURL: stripe.String(s.clientURL + "/?payment=success"),
		CancelURL:  stripe.String(s.clientURL + "/?payment=cancelled"),
	}
	if customerID != "" {
		params.Customer = stripe.String(customerID)
	} else {
		params.CustomerEmail = stripe.String(req.Email)
	}
	params.Context = ctx
	return params
}
