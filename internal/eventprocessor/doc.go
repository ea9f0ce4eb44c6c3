// Carbon Offset - Vehicle Emissions Calculator and Offset Checkout
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/carbonoffset

// Package eventprocessor is the in-process domain event bus. It is built on a
// Watermill GoChannel pub/sub and a Watermill Router.
//
// Writers publish events after they change state and move on. Subscribers
// react without the writer knowing about them:
//
//	┌────────────┐  ┌────────────┐  ┌────────────┐
//	│  EPA sync  │  │ CSV upload │  │ Admin CRUD │
//	└─────┬──────┘  └─────┬──────┘  └─────┬──────┘
//	      └───────────────┼───────────────┘
//	                      ▼
//	            vehicles.changed topic
//	                      │
//	                      ▼
//	           ┌──────────────────────┐
//	           │ lookup-cache handler │  → CachedLookup.Invalidate
//	           └──────────────────────┘
//
// # Delivery
//
// Messages are delivered at least once while the process runs. Handlers are
// retried with exponential backoff; a message that still fails goes to the
// events.poison topic, where it is logged and acknowledged. Nothing survives
// a restart, and an event published before the router starts is dropped.
//
// # Lifecycle
//
// Register handlers with AddConsumerHandler, then add the Bus to the supervisor
// tree. Serve runs the router until its context is canceled.
//
//	bus, err := eventprocessor.NewBus(eventprocessor.DefaultBusConfig())
//	bus.AddConsumerHandler("lookup-cache", eventprocessor.TopicVehiclesChanged,
//	    eventprocessor.InvalidateLookupHandler(cachedLookup))
//	tree.AddJobService(bus)
package eventprocessor
