// Carbon Offset - Vehicle Emissions Calculator and Offset Checkout
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/carbonoffset

package eventprocessor

import (
	"fmt"
	"time"

	"github.com/goccy/go-json"
)

// Topics.
const (
	TopicVehiclesChanged = "vehicles.changed"
	TopicPoison          = "events.poison"
)

// Sources of a vehicle change.
const (
	SourceSync   = "sync"
	SourceImport = "import"
	SourceAdmin  = "admin"
)

// VehiclesChanged is published after stored vehicles were written.
type VehiclesChanged struct {
	Source     string    `json:"source"`
	Count      int       `json:"count"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Validate checks required fields.
func (e *VehiclesChanged) Validate() error {
	if e.Source == "" {
		return fmt.Errorf("%w: source is required", ErrInvalidEvent)
	}
	if e.Count < 0 {
		return fmt.Errorf("%w: count must not be negative", ErrInvalidEvent)
	}
	return nil
}

func decodeVehiclesChanged(payload []byte) (*VehiclesChanged, error) {
	var e VehiclesChanged
	if err := json.Unmarshal(payload, &e); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidEvent, err)
	}
	if err := e.Validate(); err != nil {
		return nil, err
	}
	return &e, nil
}
