// Carbon Offset - Vehicle Emissions Calculator and Offset Checkout
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/carbonoffset

// Package receipt renders and emails offset purchase receipts.
//
// Render produces an HTML body (html/template, so the customer email is
// escaped) and a plain text alternative. Service sends the result through
// one of three Senders selected by receipt.provider:
//
//   - resend: the Resend HTTP API
//   - smtp: any SMTP relay, with optional STARTTLS
//   - log: writes the envelope to the log (development)
//
// Sends are throttled by a token bucket (receipt.rate_per_second).
package receipt
