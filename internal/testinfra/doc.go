// Carbon Offset - Vehicle Emissions Calculator and Offset Checkout
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/carbonoffset

// Package testinfra starts throwaway service containers for integration
// tests. Everything here builds only with the integration tag:
//
//	go test -tags integration ./internal/database/...
package testinfra
