// Carbon Offset - Vehicle Emissions Calculator and Offset Checkout
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/carbonoffset

// Package logging provides the zerolog-based structured logger used across
// the carbon offset backend.
//
// The package keeps one global logger, configured once from main():
//
//	logging.Init(logging.Config{Level: "info", Format: "json"})
//	logging.Info().Str("path", cfg.Catalog.Path).Msg("Vehicle catalog loaded")
//
// Request handlers log through Ctx so that request and correlation IDs set
// by the HTTP middleware are attached to every line:
//
//	logging.Ctx(r.Context()).Warn().Err(err).Msg("Checkout session failed")
//
// An slog.Handler adapter (SlogHandler) lets the suture supervisor tree log
// through the same pipeline via sutureslog.
//
// Always terminate event chains with Msg() or Send(); an unterminated chain
// is never written.
package logging
