// Carbon Offset - Vehicle Emissions Calculator and Offset Checkout
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/carbonoffset

package catalog

import "errors"

var (
	// ErrInputNotFound is returned when the source CSV does not exist.
	ErrInputNotFound = errors.New("vehicle csv not found")

	// ErrMalformedInput is returned when the CSV header lacks a required column.
	ErrMalformedInput = errors.New("vehicle csv is malformed")

	// ErrCatalogNotFound is returned when the configured catalog file cannot be read.
	ErrCatalogNotFound = errors.New("vehicle catalog not found")

	// ErrInvalidCatalog is returned when the catalog file exists but cannot be decoded
	// or violates the years/vehicles invariant.
	ErrInvalidCatalog = errors.New("vehicle catalog is invalid")
)
