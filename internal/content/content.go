// Carbon Offset - Vehicle Emissions Calculator and Offset Checkout
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/carbonoffset

package content

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrNotFound is returned when no entry exists for a key.
	ErrNotFound = errors.New("content not found")

	// ErrEmptyKey is returned for writes without a key.
	ErrEmptyKey = errors.New("content key is required")
)

// Entry is one piece of editable page content.
type Entry struct {
	Key       string    `json:"key" bson:"key"`
	Content   string    `json:"content" bson:"content"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updatedAt"`
}

// Store persists content entries. Get returns ErrNotFound for unknown keys.
// Upsert creates or replaces the entry and returns the stored result.
type Store interface {
	All(ctx context.Context) ([]Entry, error)
	Get(ctx context.Context, key string) (*Entry, error)
	Upsert(ctx context.Context, entry Entry) (*Entry, error)
}
