// Carbon Offset - Vehicle Emissions Calculator and Offset Checkout
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/carbonoffset

package content

import (
	"context"
	"errors"
	"fmt"

	"github.com/goccy/go-json"

	"github.com/tomtom215/carbonoffset/internal/logging"
)

// SectionOrderKey is the content key holding the landing page section order
// as a JSON array of section IDs.
const SectionOrderKey = "second_section_order"

var (
	// ErrInvalidMove is returned when a move index is out of range.
	ErrInvalidMove = errors.New("section index out of range")

	// ErrInvalidOrder is returned when a new order is not a permutation of
	// the known sections.
	ErrInvalidOrder = errors.New("section order must contain each section exactly once")
)

// DefaultSections returns the landing page sections in their default order.
func DefaultSections() []string {
	return []string{"hero", "co2-stat", "what-you-can-do", "calculator", "why-now", "final-cta"}
}

// SectionOrder returns the stored section order, or the default when none is
// stored or the stored value is not a permutation of the default sections.
func (s *Service) SectionOrder(ctx context.Context) ([]string, error) {
	e, err := s.Get(ctx, SectionOrderKey)
	if errors.Is(err, ErrNotFound) {
		return DefaultSections(), nil
	}
	if err != nil {
		return nil, err
	}

	var order []string
	if err := json.Unmarshal([]byte(e.Content), &order); err != nil || len(order) == 0 {
		logging.Ctx(ctx).Warn().Err(err).Msg("Stored section order is unreadable, using default")
		return DefaultSections(), nil
	}
	if err := validatePermutation(order, DefaultSections()); err != nil {
		logging.Ctx(ctx).Warn().Err(err).Msg("Stored section order is invalid, using default")
		return DefaultSections(), nil
	}
	return order, nil
}

// MoveSection moves the section at index from to index to, shifting the
// sections in between, and persists the result.
func (s *Service) MoveSection(ctx context.Context, from, to int) ([]string, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	order, err := s.SectionOrder(ctx)
	if err != nil {
		return nil, err
	}
	moved, err := arrayMove(order, from, to)
	if err != nil {
		return nil, err
	}
	if err := s.saveOrderLocked(ctx, moved); err != nil {
		return nil, err
	}
	return moved, nil
}

// SetSectionOrder replaces the order. It must contain every default section
// exactly once.
func (s *Service) SetSectionOrder(ctx context.Context, order []string) ([]string, error) {
	if err := validatePermutation(order, DefaultSections()); err != nil {
		return nil, err
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	out := make([]string, len(order))
	copy(out, order)
	if err := s.saveOrderLocked(ctx, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Service) saveOrderLocked(ctx context.Context, order []string) error {
	data, err := json.Marshal(order)
	if err != nil {
		return fmt.Errorf("encode section order: %w", err)
	}
	_, err = s.upsertLocked(ctx, SectionOrderKey, string(data))
	return err
}

// arrayMove returns a copy of items with the element at from removed and
// reinserted at to.
func arrayMove(items []string, from, to int) ([]string, error) {
	n := len(items)
	if from < 0 || from >= n || to < 0 || to >= n {
		return nil, fmt.Errorf("%w: from=%d to=%d len=%d", ErrInvalidMove, from, to, n)
	}

	out := make([]string, 0, n)
	out = append(out, items[:from]...)
	out = append(out, items[from+1:]...)

	moved := items[from]
	out = append(out, "")
	copy(out[to+1:], out[to:])
	out[to] = moved
	return out, nil
}

func validatePermutation(order, known []string) error {
	if len(order) != len(known) {
		return fmt.Errorf("%w: got %d sections, want %d", ErrInvalidOrder, len(order), len(known))
	}
	remaining := make(map[string]bool, len(known))
	for _, k := range known {
		remaining[k] = true
	}
	for _, id := range order {
		if !remaining[id] {
			return fmt.Errorf("%w: unexpected or repeated section %q", ErrInvalidOrder, id)
		}
		delete(remaining, id)
	}
	return nil
}
