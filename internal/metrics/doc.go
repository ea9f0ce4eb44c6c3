// Carbon Offset - Vehicle Emissions Calculator and Offset Checkout
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/carbonoffset

// Package metrics defines the Prometheus collectors exposed on /metrics.
//
// Collectors are registered at package init through promauto and grouped by
// concern:
//
//   - api_*: request counts, latency and in-flight requests (middleware)
//   - catalog_*: vehicle catalog size and load time
//   - mongo_*: MongoDB operation latency and failures
//   - sync_*: EPA sync duration, throughput, failures per stage
//   - circuit_breaker_*: state of the EPA download and Stripe breakers
//   - checkout_sessions_total, receipts_sent_total: payment flow outcomes
//   - content_*: content cache efficiency and updates
//
// Callers use the Record* helpers rather than touching collectors directly.
package metrics
