// Carbon Offset - Vehicle Emissions Calculator and Offset Checkout
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/carbonoffset

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tomtom215/carbonoffset/internal/auth"
	"github.com/tomtom215/carbonoffset/internal/authz"
	"github.com/tomtom215/carbonoffset/internal/middleware"
	"github.com/tomtom215/carbonoffset/internal/models"
)

// Router wires handlers to routes.
type Router struct {
	handler       *Handler
	chiMiddleware *ChiMiddleware
	authn         *auth.Middleware
	authz         *authz.Middleware
}

// NewRouter creates a router. authn and authz may be nil when no admin
// account is configured; protected routes then answer 503.
func NewRouter(handler *Handler, chiMW *ChiMiddleware, authn *auth.Middleware, authzMW *authz.Middleware) *Router {
	if chiMW == nil {
		chiMW = NewChiMiddleware(nil)
	}
	return &Router{
		handler:       handler,
		chiMiddleware: chiMW,
		authn:         authn,
		authz:         authzMW,
	}
}

// chiMiddleware adapts http.HandlerFunc middleware to Chi's func(http.Handler) http.Handler.
func chiMiddleware(mw func(http.HandlerFunc) http.HandlerFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return mw(next.ServeHTTP)
	}
}

// protected authenticates the bearer token, then checks the casbin policy
// for the caller's role.
func (router *Router) protected(next http.Handler) http.Handler {
	if router.authn == nil || router.authz == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			respondError(w, r, http.StatusServiceUnavailable, models.ErrCodeUnavailable, "Admin access is not configured", nil)
		})
	}
	return router.authn.Authenticate(router.authz.AuthorizeRequest(next))
}

// SetupChi configures all HTTP routes.
func (router *Router) SetupChi() http.Handler {
	r := chi.NewRouter()
	h := router.handler
	mw := router.chiMiddleware

	// ========================
	// Global Middleware Stack
	// ========================
	r.Use(chiMiddleware(middleware.RequestID))
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(mw.CORS()) // CORS must be global to handle OPTIONS preflight
	r.Use(chiMiddleware(middleware.PrometheusMetrics))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, r, http.StatusNotFound, models.ErrCodeNotFound, "Route not found", nil)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, r, http.StatusMethodNotAllowed, models.ErrCodeBadRequest, "Method not allowed", nil)
	})

	// ========================
	// Health Endpoints
	// ========================
	r.Route("/health", func(r chi.Router) {
		r.Use(mw.RateLimitHealth())
		r.Get("/", h.Health)
		r.Get("/live", h.HealthLive)
		r.Get("/ready", h.HealthReady)
	})

	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Use(APISecurityHeaders())

		// ========================
		// Vehicle Lookups and Sync
		// ========================
		r.Route("/vehicles", func(r chi.Router) {
			r.Group(func(r chi.Router) {
				r.Use(mw.RateLimitLookup())
				r.Get("/years", h.VehicleYears)
				r.Get("/makes/{year}", h.VehicleMakes)
				r.Get("/models/{year}/{make}", h.VehicleModels)
			})

			r.Group(func(r chi.Router) {
				r.Use(NoStore)
				r.Use(router.protected)
				r.With(mw.RateLimitSync()).Post("/sync", h.VehicleSync)
				r.Get("/sync/status", h.VehicleSyncStatus)
			})
		})

		// ========================
		// Emissions and Pricing
		// ========================
		r.Route("/emissions", func(r chi.Router) {
			r.Use(mw.RateLimit())
			r.Post("/calculate", h.CalculateEmissions)
			r.Post("/quote", h.QuoteOffset)
		})

		// ========================
		// Payments
		// ========================
		r.Route("/payment", func(r chi.Router) {
			r.Use(NoStore)
			r.Use(mw.RateLimitCheckout())
			r.Post("/create-session", h.CreateCheckoutSession)
			r.Post("/receipt", h.SendReceipt)
		})

		// ========================
		// Content
		// ========================
		r.Route("/content", func(r chi.Router) {
			r.Group(func(r chi.Router) {
				r.Use(mw.RateLimit())
				r.Get("/", h.ContentAll)
				r.Get("/section-order", h.SectionOrder)
				r.Get("/{key}", h.ContentGet)
			})

			r.Group(func(r chi.Router) {
				r.Use(NoStore)
				r.Use(mw.RateLimitWrite())
				r.Use(router.protected)
				r.Put("/section-order", h.SectionReorder)
				r.Post("/section-order/move", h.SectionMove)
				r.Post("/{key}", h.ContentUpsert)
			})
		})

		// ========================
		// Authentication
		// ========================
		r.Route("/auth", func(r chi.Router) {
			r.Use(NoStore)
			r.With(mw.RateLimitLogin()).Post("/login", h.Login)
		})

		// ========================
		// Vehicle Administration
		// ========================
		r.Route("/admin/vehicles", func(r chi.Router) {
			r.Use(NoStore)
			r.Use(router.protected)

			r.Get("/", h.AdminVehicleList)
			r.Get("/{id}", h.AdminVehicleGet)
			r.Group(func(r chi.Router) {
				r.Use(mw.RateLimitWrite())
				r.Post("/", h.AdminVehicleCreate)
				r.Put("/{id}", h.AdminVehicleUpdate)
				r.Delete("/{id}", h.AdminVehicleDelete)
			})
			r.With(mw.RateLimitSync()).Post("/upload", h.VehicleUpload)
		})

		r.Route("/admin/audit", func(r chi.Router) {
			r.Use(NoStore)
			r.Use(router.protected)
			r.Get("/", h.AuditEvents)
		})
	})

	return r
}
