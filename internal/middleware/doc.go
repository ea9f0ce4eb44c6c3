// Carbon Offset - Vehicle Emissions Calculator and Offset Checkout
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/carbonoffset

// Package middleware provides http.HandlerFunc middleware shared by the API
// router: request ID propagation and Prometheus request metrics.
package middleware
