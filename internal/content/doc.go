// Carbon Offset - Vehicle Emissions Calculator and Offset Checkout
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/carbonoffset

/*
Package content stores the admin-editable text of the marketing pages and the
landing page section order.

Entries live in a Store: BadgerStore for single-node deployments, or the
MongoDB content repository from the database package. Service adds a
read-through TTL cache in front of the store and keeps the section order
under SectionOrderKey as a JSON array.
*/
package content
