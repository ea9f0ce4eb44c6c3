// Carbon Offset - Vehicle Emissions Calculator and Offset Checkout
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/carbonoffset

// Package authz provides role-based authorization using Casbin.
//
// The subject is the role carried in the login token, the object is the
// request path and the action is derived from the method (read, write,
// delete). The embedded policy grants:
//
//	admin   /*               *
//	editor  /api/content/*   write
//
// so an editor can change page text and the section order but cannot touch
// vehicles or trigger a sync. security.casbin_model_path and
// security.casbin_policy_path replace the embedded files.
//
// Decisions are cached per (role, path, action) and counted in
// authz_decisions_total.
package authz
