// Carbon Offset - Vehicle Emissions Calculator and Offset Checkout
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/carbonoffset

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/tomtom215/carbonoffset/internal/api"
	"github.com/tomtom215/carbonoffset/internal/auth"
	"github.com/tomtom215/carbonoffset/internal/authz"
	"github.com/tomtom215/carbonoffset/internal/config"
	"github.com/tomtom215/carbonoffset/internal/database"
	"github.com/tomtom215/carbonoffset/internal/eventprocessor"
	"github.com/tomtom215/carbonoffset/internal/logging"
	"github.com/tomtom215/carbonoffset/internal/metrics"
	"github.com/tomtom215/carbonoffset/internal/supervisor"
	"github.com/tomtom215/carbonoffset/internal/supervisor/services"
	syncpkg "github.com/tomtom215/carbonoffset/internal/sync"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

//nolint:gocyclo // Sequential setup steps
func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	metrics.AppInfo.WithLabelValues(version, runtime.Version()).Set(1)

	logging.Info().
		Str("version", version).
		Str("environment", cfg.Server.Environment).
		Str("catalog_source", cfg.Catalog.Source).
		Str("content_store", cfg.Content.Store).
		Bool("mongo_enabled", cfg.Mongo.Enabled()).
		Msg("Starting Carbon Offset server")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var readiness []api.ReadinessCheck

	var db *database.DB
	if cfg.Mongo.Enabled() {
		db, err = initMongo(ctx, &cfg.Mongo)
		if err != nil {
			logging.Fatal().Err(err).Msg("Failed to connect to MongoDB")
		}
		defer func() {
			closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := db.Close(closeCtx); err != nil {
				logging.Error().Err(err).Msg("Error closing MongoDB connection")
			}
		}()
		readiness = append(readiness, api.ReadinessCheck{Name: "mongodb", Check: db.Ping})
	} else {
		logging.Info().Msg("MongoDB disabled (MONGODB_URI not set), vehicle sync and admin CRUD unavailable")
	}

	lookup, catalogCheck, err := initCatalog(ctx, cfg, db)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize vehicle catalog")
	}
	if catalogCheck != nil {
		readiness = append(readiness, *catalogCheck)
	}

	bus, err := eventprocessor.NewBus(eventprocessor.DefaultBusConfig())
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create event bus")
	}
	defer func() {
		if err := bus.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing event bus")
		}
	}()

	if cachedLookup := initLookupCache(&cfg.Catalog, lookup); cachedLookup != nil {
		defer cachedLookup.Close()
		bus.AddConsumerHandler("lookup-cache", eventprocessor.TopicVehiclesChanged,
			eventprocessor.InvalidateLookupHandler(cachedLookup))
		lookup = cachedLookup
	}

	contentSvc, closeContent, err := initContent(cfg, db)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize content store")
	}
	defer closeContent()

	receipts, err := initReceipts(&cfg.Receipt)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize receipt sender")
	}

	accounts, jwtManager, err := initAccounts(&cfg.Security)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize authentication")
	}

	auditLogger, err := initAudit(cfg, db)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize audit logging")
	}
	defer func() {
		if err := auditLogger.Close(); err != nil {
			logging.Error().Err(err).Msg("Error flushing audit events")
		}
	}()

	var authn *auth.Middleware
	var authzMW *authz.Middleware
	if jwtManager != nil {
		enforcer, err := authz.NewEnforcer(&authz.EnforcerConfig{
			ModelPath:  cfg.Security.CasbinModelPath,
			PolicyPath: cfg.Security.CasbinPolicyPath,
			CacheTTL:   5 * time.Minute,
		})
		if err != nil {
			logging.Fatal().Err(err).Msg("Failed to initialize authorization")
		}
		defer enforcer.Close()

		authn = auth.NewMiddleware(jwtManager)
		authzMW = authz.NewMiddleware(enforcer)
		logging.Info().Int("accounts", accounts.Len()).Msg("Admin authentication enabled")
	} else {
		logging.Warn().Msg("No admin or editor accounts configured, protected routes will return 503")
	}

	if cfg.Security.RateLimitDisabled {
		logging.Warn().Msg("Rate limiting is DISABLED (DISABLE_RATE_LIMIT=true)")
	}

	deps := api.Dependencies{
		Vehicles:  lookup,
		Content:   contentSvc,
		Pricing:   pricingFromConfig(&cfg.Payment),
		Checkout:  initCheckout(cfg),
		Receipts:  receipts,
		Accounts:  accounts,
		JWT:       jwtManager,
		Audit:     auditLogger,
		Readiness: readiness,
		Version:   version,
	}

	var syncer *syncpkg.Syncer
	if db != nil {
		syncer = syncpkg.NewSyncer(cfg.Sync, db.Vehicles())
		syncer.OnChange(bus)
		deps.Syncer = syncer
		deps.Admin = db.Vehicles()
		deps.Events = bus
		// Download and store each get the sync timeout.
		deps.SyncDeadline = 2 * cfg.Sync.Timeout
	}

	handler := api.NewHandler(deps)
	router := api.NewRouter(
		handler,
		api.NewChiMiddleware(api.ChiMiddlewareConfigFromSecurity(&cfg.Security)),
		authn,
		authzMW,
	)

	server := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           router.SetupChi(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.Server.Timeout,
		WriteTimeout:      cfg.Server.Timeout,
		IdleTimeout:       60 * time.Second,
	}

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create supervisor tree")
	}

	if syncer != nil && cfg.Sync.Interval > 0 {
		tree.AddJobService(services.NewPeriodicSyncService(syncer, cfg.Sync.Interval))
	}

	tree.AddJobService(bus)
	if auditLogger != nil {
		tree.AddJobService(auditLogger)
	}

	tree.AddAPIService(services.NewHTTPServerService(server, 10*time.Second))
	logging.Info().Str("addr", server.Addr).Msg("HTTP server service added")

	errCh := tree.ServeBackground(ctx)

	var serveErr error
	select {
	case <-ctx.Done():
		logging.Info().Msg("Received shutdown signal, waiting for supervisor to finish")
		serveErr = <-errCh
	case serveErr = <-errCh:
	}
	if serveErr != nil && !errors.Is(serveErr, context.Canceled) {
		logging.Error().Err(serveErr).Msg("Supervisor tree error")
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	for _, svc := range unstopped {
		logging.Warn().Str("service", svc.Name).Msg("Service failed to stop within timeout")
	}

	logging.Info().Msg("Server stopped gracefully")
}
