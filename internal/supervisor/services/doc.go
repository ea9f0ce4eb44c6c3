// Carbon Offset - Vehicle Emissions Calculator and Offset Checkout
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/carbonoffset

/*
Package services provides suture.Service wrappers for server components.

HTTPServerService adapts the ListenAndServe/Shutdown pattern of *http.Server.
PeriodicSyncService runs sync.Syncer on a ticker.

Return values determine supervisor behavior:

	nil         -> service stopped cleanly, will not restart
	error       -> service crashed, supervisor will restart
	ctx.Err()   -> shutdown requested, normal termination
*/
package services
