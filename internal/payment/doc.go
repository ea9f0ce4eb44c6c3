// Carbon Offset - Vehicle Emissions Calculator and Offset Checkout
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/carbonoffset

// Package payment creates hosted checkout sessions for carbon offset purchases.
//
// A Request carries the quote computed by the calculator (metric tons and
// annual total) plus the payment type and email. One-time purchases charge
// the annual total; subscriptions charge a twelfth of it every month.
// StripeCheckout is the production implementation and runs every call
// through the "stripe" circuit breaker. Disabled is wired when no secret key
// is configured.
package payment
