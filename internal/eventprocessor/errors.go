// Carbon Offset - Vehicle Emissions Calculator and Offset Checkout
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/carbonoffset

package eventprocessor

import "errors"

var (
	// ErrInvalidEvent is returned for payloads that cannot be decoded or
	// fail validation. Handlers return it wrapped; retrying will not help.
	ErrInvalidEvent = errors.New("invalid event")

	// ErrBusClosed is returned when publishing after Close.
	ErrBusClosed = errors.New("event bus closed")
)
