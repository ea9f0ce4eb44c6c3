// Carbon Offset - Vehicle Emissions Calculator and Offset Checkout
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/carbonoffset

/*
Package main is the entry point for the Carbon Offset API server.

The server answers vehicle lookups for the calculator form, computes annual
CO2 emissions and offset quotes, opens Stripe checkout sessions, sends
receipt emails and serves the editable page content.

# Startup

 1. Configuration: Koanf v2 (defaults, config.yaml, environment)
 2. Logging: zerolog, JSON or console
 3. MongoDB (if MONGODB_URI is set): vehicles and optionally content
 4. Vehicle catalog: pre-built JSON file or the MongoDB vehicles collection.
    A missing catalog file aborts startup.
 5. Event bus (Watermill GoChannel) and the optional lookup cache it invalidates
 6. Content store: BadgerDB or MongoDB, behind a TTL cache
 7. Checkout (Stripe) and receipt sender (Resend, SMTP or log)
 8. Accounts, JWT, Casbin RBAC and the audit log for the admin routes
 9. Supervisor tree: HTTP server, event bus, audit retention and the optional
    periodic EPA sync

# Configuration

	# Server
	PORT=3001
	CLIENT_URL=https://carbon.example   # checkout redirects, default CORS origin
	LOG_LEVEL=info
	LOG_FORMAT=json

	# Vehicles
	CATALOG_SOURCE=file                 # file or mongo
	CATALOG_PATH=data/vehicles.json
	CATALOG_CACHE_TTL=10m               # mongo source only, 0 disables
	MONGODB_URI=mongodb://localhost:27017
	SYNC_INTERVAL=24h                   # 0 disables periodic sync

	# Content
	CONTENT_STORE=badger                # badger or mongo
	CONTENT_BADGER_PATH=data/content

	# Checkout and receipts
	STRIPE_SECRET_KEY=sk_live_...
	RECEIPT_PROVIDER=resend             # resend, smtp or log
	RESEND_API_KEY=re_...

	# Admin
	JWT_SECRET=<32+ chars>
	ADMIN_USERNAME=admin
	ADMIN_PASSWORD=<12+ chars>
	AUDIT_STORE=memory                  # memory or mongo
	AUDIT_RETENTION_DAYS=90

# Signal Handling

SIGINT and SIGTERM cancel the root context. The HTTP server drains in-flight
requests for up to 10 seconds, then MongoDB and BadgerDB are closed.
*/
package main
