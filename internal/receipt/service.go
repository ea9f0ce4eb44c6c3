// Carbon Offset - Vehicle Emissions Calculator and Offset Checkout
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/carbonoffset

package receipt

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"

	"github.com/tomtom215/carbonoffset/internal/logging"
	"github.com/tomtom215/carbonoffset/internal/metrics"
	"github.com/tomtom215/carbonoffset/internal/payment"
)

// Service renders and sends purchase receipts, throttling outbound sends.
type Service struct {
	sender  Sender
	from    string
	limiter *rate.Limiter
}

// NewService creates a receipt service. ratePerSecond <= 0 disables throttling.
func NewService(sender Sender, from string, ratePerSecond float64) *Service {
	if from == "" {
		from = DefaultFrom
	}
	limit := rate.Inf
	burst := 1
	if ratePerSecond > 0 {
		limit = rate.Limit(ratePerSecond)
		burst = max(1, int(ratePerSecond))
	}
	return &Service{
		sender:  sender,
		from:    from,
		limiter: rate.NewLimiter(limit, burst),
	}
}

// Provider returns the sender name.
func (s *Service) Provider() string {
	return s.sender.Name()
}

// Send renders the receipt for req and delivers it. It waits for the rate
// limiter, so a cancelled ctx aborts a queued send.
func (s *Service) Send(ctx context.Context, req payment.Request) error {
	msg, err := Render(s.from, req)
	if err != nil {
		return err
	}

	if err := s.limiter.Wait(ctx); err != nil {
		metrics.RecordReceipt(s.sender.Name(), err)
		return fmt.Errorf("receipt throttled: %w", err)
	}

	err = s.sender.Send(ctx, msg)
	metrics.RecordReceipt(s.sender.Name(), err)
	if err != nil {
		logging.Ctx(ctx).Error().Err(err).Str("provider", s.sender.Name()).Msg("Failed to send receipt")
		return fmt.Errorf("send receipt: %w", err)
	}

	logging.Ctx(ctx).Info().Str("provider", s.sender.Name()).Str("payment_type", req.PaymentType).Msg("Receipt sent")
	return nil
}
