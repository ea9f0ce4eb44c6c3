// Carbon Offset - Vehicle Emissions Calculator and Offset Checkout
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/carbonoffset

package eventprocessor

import (
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"

	"github.com/tomtom215/carbonoffset/internal/logging"
)

// Invalidator drops derived state, such as a lookup cache.
type Invalidator interface {
	Invalidate()
}

// InvalidateLookupHandler clears inv on every VehiclesChanged event.
// Undecodable payloads are logged and acknowledged.
func InvalidateLookupHandler(inv Invalidator) message.NoPublishHandlerFunc {
	return func(msg *message.Message) error {
		ctx := logging.ContextWithCorrelationID(msg.Context(), middleware.MessageCorrelationID(msg))

		event, err := decodeVehiclesChanged(msg.Payload)
		if err != nil {
			logging.Ctx(ctx).Warn().Err(err).Str("message_uuid", msg.UUID).Msg("Skipping invalid vehicles changed event")
			return nil
		}

		inv.Invalidate()
		logging.Ctx(ctx).Debug().
			Str("source", event.Source).
			Int("count", event.Count).
			Msg("Vehicle lookup cache invalidated")
		return nil
	}
}
