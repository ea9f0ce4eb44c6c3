// Carbon Offset - Vehicle Emissions Calculator and Offset Checkout
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/carbonoffset

package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/tomtom215/carbonoffset/internal/api"
	"github.com/tomtom215/carbonoffset/internal/audit"
	"github.com/tomtom215/carbonoffset/internal/auth"
	"github.com/tomtom215/carbonoffset/internal/catalog"
	"github.com/tomtom215/carbonoffset/internal/config"
	"github.com/tomtom215/carbonoffset/internal/content"
	"github.com/tomtom215/carbonoffset/internal/database"
	"github.com/tomtom215/carbonoffset/internal/emissions"
	"github.com/tomtom215/carbonoffset/internal/logging"
	"github.com/tomtom215/carbonoffset/internal/payment"
	"github.com/tomtom215/carbonoffset/internal/receipt"
)

var errCatalogNotReady = errors.New("vehicle catalog not loaded")

func initMongo(ctx context.Context, cfg *config.MongoConfig) (*database.DB, error) {
	connectCtx, cancel := context.WithTimeout(ctx, 2*cfg.ConnectTimeout+5*time.Second)
	defer cancel()
	return database.Connect(connectCtx, cfg)
}

// initCatalog selects the vehicle lookup. A file catalog that fails to load
// aborts startup with catalog.ErrCatalogNotFound.
func initCatalog(ctx context.Context, cfg *config.Config, db *database.DB) (catalog.Lookup, *api.ReadinessCheck, error) {
	switch cfg.Catalog.Source {
	case config.CatalogSourceMongo:
		if db == nil {
			return nil, nil, fmt.Errorf("catalog source %q requires MongoDB", cfg.Catalog.Source)
		}
		logging.Info().Msg("Serving vehicle lookups from MongoDB")
		return db.Vehicles(), nil, nil
	default:
		svc := catalog.NewService(cfg.Catalog.Path)
		if err := svc.Load(ctx); err != nil {
			return nil, nil, fmt.Errorf("%w (run catalog-builder to create %s)", err, cfg.Catalog.Path)
		}
		check := &api.ReadinessCheck{
			Name: "catalog",
			Check: func(context.Context) error {
				if !svc.Ready() {
					return errCatalogNotReady
				}
				return nil
			},
		}
		return svc, check, nil
	}
}

// initLookupCache fronts MongoDB lookups with a cache. It returns nil when the
// lookup is file-backed or caching is disabled.
func initLookupCache(cfg *config.CatalogConfig, lookup catalog.Lookup) *catalog.CachedLookup {
	if cfg.Source != config.CatalogSourceMongo || cfg.CacheTTL <= 0 {
		return nil
	}
	logging.Info().Dur("ttl", cfg.CacheTTL).Msg("Vehicle lookup cache enabled")
	return catalog.NewCachedLookup(lookup, cfg.CacheTTL)
}

// initContent opens the content store. The returned func releases it.
func initContent(cfg *config.Config, db *database.DB) (*content.Service, func(), error) {
	var store content.Store
	closeStore := func() {}

	switch cfg.Content.Store {
	case config.ContentStoreMongo:
		if db == nil {
			return nil, nil, fmt.Errorf("content store %q requires MongoDB", cfg.Content.Store)
		}
		store = db.Content()
	default:
		badgerStore, err := content.OpenBadgerStore(cfg.Content.BadgerPath)
		if err != nil {
			return nil, nil, err
		}
		store = badgerStore
		closeStore = func() {
			if err := badgerStore.Close(); err != nil {
				logging.Error().Err(err).Msg("Error closing content store")
			}
		}
	}

	svc := content.NewService(store, cfg.Content.CacheTTL)
	logging.Info().Str("store", cfg.Content.Store).Dur("cache_ttl", cfg.Content.CacheTTL).Msg("Content store ready")

	return svc, func() {
		svc.Close()
		closeStore()
	}, nil
}

// initAudit returns nil when auditing is disabled; the nil logger discards events.
func initAudit(cfg *config.Config, db *database.DB) (*audit.Logger, error) {
	if !cfg.Audit.Enabled {
		return nil, nil
	}

	var store audit.Store
	switch cfg.Audit.Store {
	case config.AuditStoreMongo:
		if db == nil {
			return nil, fmt.Errorf("audit store %q requires MongoDB", cfg.Audit.Store)
		}
		store = db.Audit()
	default:
		store = audit.NewMemoryStore(0)
	}

	logging.Info().
		Str("store", cfg.Audit.Store).
		Int("retention_days", cfg.Audit.RetentionDays).
		Msg("Audit logging enabled")

	return audit.NewLogger(store, &audit.Config{
		RetentionDays:   cfg.Audit.RetentionDays,
		CleanupInterval: audit.DefaultConfig().CleanupInterval,
		BufferSize:      cfg.Audit.BufferSize,
		LogToStdout:     cfg.Logging.Level == "debug",
	}), nil
}

func initReceipts(cfg *config.ReceiptConfig) (*receipt.Service, error) {
	sender, err := receipt.NewSender(cfg)
	if err != nil {
		return nil, err
	}
	if sender.Name() == config.ReceiptProviderLog {
		logging.Warn().Msg("Receipt emails are logged, not sent (RECEIPT_PROVIDER=log)")
	}
	return receipt.NewService(sender, cfg.From, cfg.RatePerSecond), nil
}

func initCheckout(cfg *config.Config) payment.Checkout {
	if cfg.Payment.StripeSecretKey == "" {
		logging.Warn().Msg("STRIPE_SECRET_KEY not set, checkout disabled")
		return payment.Disabled{}
	}
	return payment.NewStripeCheckout(cfg.Payment.StripeSecretKey, cfg.Server.ClientURL)
}

// initAccounts returns nil managers when no account is configured.
func initAccounts(cfg *config.SecurityConfig) (*auth.CredentialStore, *auth.JWTManager, error) {
	accounts, err := auth.NewCredentialStoreFromConfig(cfg)
	if err != nil {
		return nil, nil, err
	}
	if accounts.Len() == 0 {
		return nil, nil, nil
	}
	jwtManager, err := auth.NewJWTManager(cfg)
	if err != nil {
		return nil, nil, err
	}
	return accounts, jwtManager, nil
}

func pricingFromConfig(cfg *config.PaymentConfig) emissions.Pricing {
	pricing := emissions.DefaultPricing()
	if cfg.PricePerTon > 0 {
		pricing.PricePerTon = cfg.PricePerTon
	}
	if cfg.FeeRate >= 0 {
		pricing.FeeRate = cfg.FeeRate
	}
	return pricing
}
