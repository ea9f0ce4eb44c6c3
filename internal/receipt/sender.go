// Carbon Offset - Vehicle Emissions Calculator and Offset Checkout
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/carbonoffset

package receipt

import (
	"context"
	"fmt"

	"github.com/resend/resend-go/v2"

	"github.com/tomtom215/carbonoffset/internal/config"
	"github.com/tomtom215/carbonoffset/internal/logging"
)

// DefaultFrom is the sender used when none is configured.
const DefaultFrom = "Carbon Offset <onboarding@resend.dev>"

// Sender delivers a rendered message.
type Sender interface {
	// Name identifies the provider in logs and metrics.
	Name() string
	Send(ctx context.Context, msg *Message) error
}

// NewSender builds the sender selected by cfg.Provider.
func NewSender(cfg *config.ReceiptConfig) (Sender, error) {
	switch cfg.Provider {
	case config.ReceiptProviderResend:
		if cfg.ResendAPIKey == "" {
			return nil, fmt.Errorf("receipt provider %q requires an API key", cfg.Provider)
		}
		return NewResendSender(resend.NewClient(cfg.ResendAPIKey)), nil
	case config.ReceiptProviderSMTP:
		return NewSMTPSender(cfg.SMTP), nil
	case config.ReceiptProviderLog, "":
		return LogSender{}, nil
	default:
		return nil, fmt.Errorf("unknown receipt provider %q", cfg.Provider)
	}
}

// ResendSender sends through the Resend API.
type ResendSender struct {
	client *resend.Client
}

// NewResendSender wraps an initialized Resend client.
func NewResendSender(client *resend.Client) *ResendSender {
	return &ResendSender{client: client}
}

// Name returns "resend".
func (s *ResendSender) Name() string { return config.ReceiptProviderResend }

// Send submits msg to the Resend emails endpoint.
func (s *ResendSender) Send(ctx context.Context, msg *Message) error {
	sent, err := s.client.Emails.SendWithContext(ctx, &resend.SendEmailRequest{
		From:    msg.From,
		To:      []string{msg.To},
		Subject: msg.Subject,
		Html:    msg.HTML,
		Text:    msg.Text,
	})
	if err != nil {
		return fmt.Errorf("resend: %w", err)
	}
	logging.Ctx(ctx).Debug().Str("email_id", sent.Id).Msg("Receipt accepted by Resend")
	return nil
}

// LogSender writes receipts to the log instead of sending them. Used in
// development when no provider is configured.
type LogSender struct{}

// Name returns "log".
func (LogSender) Name() string { return config.ReceiptProviderLog }

// Send logs the envelope of msg.
func (LogSender) Send(ctx context.Context, msg *Message) error {
	logging.Ctx(ctx).Info().
		Str("to", msg.To).
		Str("subject", msg.Subject).
		Int("html_bytes", len(msg.HTML)).
		Msg("Receipt email (log provider, not sent)")
	return nil
}
