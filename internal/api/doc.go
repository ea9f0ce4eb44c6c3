// Carbon Offset - Vehicle Emissions Calculator and Offset Checkout
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/carbonoffset

/*
Package api provides the HTTP surface of the carbon offset backend using the
Chi router.

# Routes

Public:

	GET  /health, /health/live, /health/ready
	GET  /api/vehicles/years
	GET  /api/vehicles/makes/{year}
	GET  /api/vehicles/models/{year}/{make}
	POST /api/emissions/calculate
	POST /api/emissions/quote
	POST /api/payment/create-session
	POST /api/payment/receipt
	GET  /api/content, /api/content/{key}, /api/content/section-order
	POST /api/auth/login
	GET  /metrics

Protected (bearer token, casbin policy on the request path):

	POST   /api/vehicles/sync
	GET    /api/vehicles/sync/status
	POST   /api/content/{key}
	POST   /api/content/section-order/move
	PUT    /api/content/section-order
	GET    /api/admin/vehicles[/{id}]
	POST   /api/admin/vehicles
	PUT    /api/admin/vehicles/{id}
	DELETE /api/admin/vehicles/{id}
	POST   /api/admin/vehicles/upload

# Response Format

Successful lookup, payment and content responses are bare JSON arrays and
objects, matching what the site already consumes. Admin reads are wrapped in
models.APIResponse. Every error uses the envelope:

	{
	  "status": "error",
	  "error": {"code": "VALIDATION_ERROR", "message": "year must be an integer"},
	  "metadata": {"timestamp": "2026-03-01T12:00:00Z", "request_id": "..."}
	}

The one exception is GET /api/content/{key}, which answers a missing key with
404 {"message":"Content not found"}.

# Middleware

Global: request ID, real IP, panic recovery, CORS and Prometheus metrics.
Per group: go-chi/httprate limits (strict on login, moderate on writes and
checkout, permissive on lookups) and security headers.
*/
package api
