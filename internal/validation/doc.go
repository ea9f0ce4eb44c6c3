// Carbon Offset - Vehicle Emissions Calculator and Offset Checkout
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/carbonoffset

// Package validation provides struct validation using go-playground/validator v10.
//
// A single validator instance is created on first use and shared by every
// handler; it caches struct reflection data and is safe for concurrent use.
// Field names in errors come from json tags, so a failure on
//
//	type CheckoutRequest struct {
//	    Email string `json:"email" validate:"required,email"`
//	}
//
// reads "email must be a valid email address".
//
// # Custom Tags
//
//   - modelyear: integer inside the catalog year window (2010-2026)
//
// # API Error Integration
//
// ToAPIError produces the VALIDATION_ERROR code used by the API error
// envelope. A single failure carries field, tag and value in Details; several
// failures are listed under Details["fields"].
package validation
