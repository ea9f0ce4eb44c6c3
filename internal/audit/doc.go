// Carbon Offset - Vehicle Emissions Calculator and Offset Checkout
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/carbonoffset

// Package audit records an audit trail of admin activity: logins, content
// edits, section reordering, vehicle CRUD, EPA syncs and CSV imports.
//
// Events are buffered in a channel and written by a background goroutine so
// request handlers never wait on the store:
//
//	Logger.Log() -> Event Buffer (chan) -> Async Writer -> Store
//
// Two stores are provided: MemoryStore for development and tests, and the
// MongoDB audit_events collection (database.AuditRepository). Logger.Serve
// enforces RetentionDays and runs under the supervisor tree.
//
// Checkout and receipt requests are not audited; they carry customer email
// addresses and are covered by the request log.
package audit
