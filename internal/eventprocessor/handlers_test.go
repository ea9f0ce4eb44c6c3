// Carbon Offset - Vehicle Emissions Calculator and Offset Checkout
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/carbonoffset

package eventprocessor

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
)

type countingInvalidator struct {
	calls atomic.Int32
}

func (c *countingInvalidator) Invalidate() { c.calls.Add(1) }

func TestInvalidateLookupHandler(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		payload   string
		wantCalls int32
	}{
		{"valid event", `{"source":"sync","count":12,"occurred_at":"2026-01-02T15:04:05Z"}`, 1},
		{"missing source", `{"count":1}`, 0},
		{"negative count", `{"source":"admin","count":-1}`, 0},
		{"garbage", `not json`, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inv := &countingInvalidator{}
			handler := InvalidateLookupHandler(inv)

			msg := message.NewMessage(watermill.NewUUID(), []byte(tt.payload))
			msg.SetContext(context.Background())
			if err := handler(msg); err != nil {
				t.Fatalf("handler error = %v", err)
			}
			if got := inv.calls.Load(); got != tt.wantCalls {
				t.Errorf("Invalidate calls = %d, want %d", got, tt.wantCalls)
			}
		})
	}
}

func TestInvalidateLookupHandler_ThroughBus(t *testing.T) {
	t.Parallel()

	bus, err := NewBus(testBusConfig())
	if err != nil {
		t.Fatal(err)
	}
	inv := &countingInvalidator{}
	bus.AddConsumerHandler("lookup-cache", TopicVehiclesChanged, InvalidateLookupHandler(inv))
	startBus(t, bus)

	bus.NotifyVehiclesChanged(context.Background(), SourceImport, 3)
	bus.NotifyVehiclesChanged(context.Background(), SourceAdmin, 1)

	waitFor(t, "two invalidations", func() bool { return inv.calls.Load() == 2 })
}

func TestVehiclesChanged_Validate(t *testing.T) {
	t.Parallel()

	if err := (&VehiclesChanged{Source: SourceSync}).Validate(); err != nil {
		t.Errorf("Validate() = %v", err)
	}
	if err := (&VehiclesChanged{}).Validate(); !errors.Is(err, ErrInvalidEvent) {
		t.Errorf("Validate() = %v, want ErrInvalidEvent", err)
	}
}
