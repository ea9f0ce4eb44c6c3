// Carbon Offset - Vehicle Emissions Calculator and Offset Checkout
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/carbonoffset

// Package auth authenticates the admin and editor accounts.
//
// # Login
//
// CredentialStore holds the accounts from configuration (security.admin_* and
// security.editor_*). Passwords are bcrypt-hashed at startup (cost 12) and
// usernames compared in constant time. A successful login issues an HS256
// JWT through JWTManager:
//
//	role, err := creds.Verify(req.Username, req.Password)
//	if err != nil {
//	    // 401
//	}
//	token, expiresAt, err := jwtManager.GenerateToken(req.Username, role)
//
// # Requests
//
// Middleware.Authenticate validates "Authorization: Bearer <token>" and puts
// the Claims in the request context; ClaimsFromContext reads them back for
// the authorization layer (internal/authz).
//
// Tokens are stateless and stay valid until they expire
// (security.session_timeout, default 24h).
package auth
