// Carbon Offset - Vehicle Emissions Calculator and Offset Checkout
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/carbonoffset

package audit

import (
	"context"
	"time"
)

// EventType categorizes audit events.
type EventType string

const (
	// Authentication events
	EventTypeAuthSuccess EventType = "auth.success"
	EventTypeAuthFailure EventType = "auth.failure"

	// Content events
	EventTypeContentUpdated    EventType = "content.updated"
	EventTypeSectionsReordered EventType = "content.sections_reordered"

	// Vehicle events
	EventTypeVehicleCreated EventType = "vehicle.created"
	EventTypeVehicleUpdated EventType = "vehicle.updated"
	EventTypeVehicleDeleted EventType = "vehicle.deleted"
	EventTypeVehicleSync    EventType = "vehicle.sync"
	EventTypeVehicleImport  EventType = "vehicle.import"
)

// Severity indicates the severity level of an audit event.
type Severity string

const (
	SeverityInfo     Severity = "info"
	SeverityWarning  Severity = "warning"
	SeverityCritical Severity = "critical"
)

// Outcome indicates whether an action succeeded or failed.
type Outcome string

const (
	OutcomeSuccess Outcome = "success"
	OutcomeFailure Outcome = "failure"
)

// Event is one audit trail record.
type Event struct {
	ID          string            `json:"id" bson:"_id"`
	Timestamp   time.Time         `json:"timestamp" bson:"timestamp"`
	Type        EventType         `json:"type" bson:"type"`
	Severity    Severity          `json:"severity" bson:"severity"`
	Outcome     Outcome           `json:"outcome" bson:"outcome"`
	Actor       Actor             `json:"actor" bson:"actor"`
	Target      *Target           `json:"target,omitempty" bson:"target,omitempty"`
	Source      Source            `json:"source" bson:"source"`
	Description string            `json:"description" bson:"description"`
	Metadata    map[string]string `json:"metadata,omitempty" bson:"metadata,omitempty"`
	RequestID   string            `json:"request_id,omitempty" bson:"request_id,omitempty"`
}

// Actor is the account that performed the action. Name is the submitted
// username for failed logins.
type Actor struct {
	Name string `json:"name" bson:"name"`
	Role string `json:"role,omitempty" bson:"role,omitempty"`
}

// Target is the object of an action.
type Target struct {
	ID   string `json:"id" bson:"id"`
	Type string `json:"type" bson:"type"` // content, vehicle, catalog
}

// Source is where a request originated.
type Source struct {
	IPAddress string `json:"ip_address" bson:"ip_address"`
	UserAgent string `json:"user_agent,omitempty" bson:"user_agent,omitempty"`
}

// Store persists audit events.
type Store interface {
	Save(ctx context.Context, event *Event) error

	// Query returns matching events, newest first.
	Query(ctx context.Context, filter QueryFilter) ([]Event, error)

	// Delete removes events older than olderThan and returns how many.
	Delete(ctx context.Context, olderThan time.Time) (int64, error)
}

// QueryFilter narrows an audit query. Zero fields match everything.
type QueryFilter struct {
	Types   []EventType
	Actor   string
	Outcome Outcome
	Since   time.Time
	Limit   int
}

// Query limits.
const (
	DefaultQueryLimit = 100
	MaxQueryLimit     = 1000
)

// Normalize clamps Limit to [1, MaxQueryLimit], defaulting to DefaultQueryLimit.
func (f QueryFilter) Normalize() QueryFilter {
	switch {
	case f.Limit <= 0:
		f.Limit = DefaultQueryLimit
	case f.Limit > MaxQueryLimit:
		f.Limit = MaxQueryLimit
	}
	return f
}

// Matches reports whether e satisfies the filter.
func (f *QueryFilter) Matches(e *Event) bool {
	if len(f.Types) > 0 {
		found := false
		for _, t := range f.Types {
			if e.Type == t {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if f.Actor != "" && e.Actor.Name != f.Actor {
		return false
	}
	if f.Outcome != "" && e.Outcome != f.Outcome {
		return false
	}
	if !f.Since.IsZero() && e.Timestamp.Before(f.Since) {
		return false
	}
	return true
}
