// Carbon Offset - Vehicle Emissions Calculator and Offset Checkout
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/carbonoffset

// Package models defines the HTTP request bodies and response envelopes
// shared by the API handlers.
//
// Domain types live with their packages (catalog.Vehicle, content.Entry,
// payment.Request); this package only holds what exists for the wire:
// validated request DTOs, the APIResponse envelope with its error codes, and
// the login and health payloads.
package models
