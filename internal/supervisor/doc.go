// Carbon Offset - Vehicle Emissions Calculator and Offset Checkout
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/carbonoffset

/*
Package supervisor runs the server's long-lived services under suture v4.

The tree is organized into two layers:

	RootSupervisor ("carbonoffset")
	├── JobsSupervisor ("jobs-layer")
	│   ├── eventprocessor.Bus ("event-bus")
	│   ├── audit.Logger ("audit-retention", if AUDIT_ENABLED)
	│   └── PeriodicSyncService (if SYNC_INTERVAL > 0)
	└── APISupervisor ("api-layer")
	    └── HTTPServerService

Crashed services are restarted with backoff. Supervisor events are logged
through the sutureslog adapter, which cmd/server points at the zerolog-backed
slog handler from internal/logging.

# Usage

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	if err != nil {
	    return err
	}
	tree.AddAPIService(services.NewHTTPServerService(server, 10*time.Second))
	if cfg.Sync.Interval > 0 {
	    tree.AddJobService(services.NewPeriodicSyncService(syncer, cfg.Sync.Interval))
	}
	return tree.Serve(ctx)

Serve returns when ctx is canceled. UnstoppedServiceReport lists services
that ignored the shutdown timeout.
*/
package supervisor
