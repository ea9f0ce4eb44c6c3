// Carbon Offset - Vehicle Emissions Calculator and Offset Checkout
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/carbonoffset

// Package config loads and validates application configuration.
//
// Configuration is layered with Koanf v2: built-in defaults, an optional YAML
// file (CONFIG_PATH or config.yaml), then environment variables. Only the
// environment variables listed in envMappings are read; everything else in
// the process environment is ignored.
//
// Commonly set variables:
//
//	PORT                 HTTP port (default 3001)
//	CLIENT_URL           public site origin (default http://localhost:8080)
//	CATALOG_SOURCE       file or mongo (default file)
//	CATALOG_PATH         JSON catalog path (default data/vehicles.json)
//	MONGODB_URI          MongoDB connection string (optional)
//	STRIPE_SECRET_KEY    Stripe secret key
//	RESEND_API_KEY       Resend API key (RECEIPT_PROVIDER=resend)
//	JWT_SECRET           admin token signing secret (32+ characters)
//	ADMIN_USERNAME       admin login
//	ADMIN_PASSWORD       admin password (12+ characters)
//
// Validate enforces cross-field rules, for example that CATALOG_SOURCE=mongo
// requires MONGODB_URI and that production deployments set a Stripe key.
package config
