// Carbon Offset - Vehicle Emissions Calculator and Offset Checkout
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/carbonoffset

package config

import (
	"fmt"
	"strings"
	"time"
)

// Validate checks that required configuration is present and valid
func (c *Config) Validate() error {
	validators := []func() error{
		c.validateServer,
		c.validateCatalog,
		c.validateSync,
		c.validateContent,
		c.validatePayment,
		c.validateReceipt,
		c.validateSecurity,
		c.validateAudit,
		c.validateLogging,
	}
	for _, validate := range validators {
		if err := validate(); err != nil {
			return err
		}
	}
	return nil
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("PORT must be between 1 and 65535")
	}
	if c.Server.ClientURL == "" {
		return fmt.Errorf("CLIENT_URL is required")
	}
	if err := validateHTTPURL(c.Server.ClientURL, "CLIENT_URL"); err != nil {
		return fmt.Errorf("CLIENT_URL is invalid: %w", err)
	}
	return nil
}

// validateCatalog validates the vehicle lookup source
func (c *Config) validateCatalog() error {
	switch c.Catalog.Source {
	case CatalogSourceFile:
		if c.Catalog.Path == "" {
			return fmt.Errorf("CATALOG_PATH is required when CATALOG_SOURCE=file")
		}
	case CatalogSourceMongo:
		if !c.Mongo.Enabled() {
			return fmt.Errorf("MONGODB_URI is required when CATALOG_SOURCE=mongo")
		}
	default:
		return fmt.Errorf("CATALOG_SOURCE must be one of: file, mongo")
	}
	if c.Catalog.CacheTTL < 0 {
		return fmt.Errorf("CATALOG_CACHE_TTL must not be negative")
	}
	return nil
}

const (
	minSyncBatchSize = 1
	maxSyncBatchSize = 10000
	minSyncInterval  = time.Hour
)

// validateSync validates EPA sync settings. Sync writes to MongoDB, so the
// periodic job is rejected without a database.
func (c *Config) validateSync() error {
	if err := validateHTTPSourceURL(c.Sync.SourceURL, "EPA_CSV_URL"); err != nil {
		return err
	}
	if c.Sync.BatchSize < minSyncBatchSize || c.Sync.BatchSize > maxSyncBatchSize {
		return fmt.Errorf("SYNC_BATCH_SIZE must be between %d and %d", minSyncBatchSize, maxSyncBatchSize)
	}
	if c.Sync.Timeout <= 0 {
		return fmt.Errorf("SYNC_TIMEOUT must be positive")
	}
	if c.Sync.Interval < 0 {
		return fmt.Errorf("SYNC_INTERVAL must not be negative")
	}
	if c.Sync.Interval > 0 {
		if c.Sync.Interval < minSyncInterval {
			return fmt.Errorf("SYNC_INTERVAL must be at least %v", minSyncInterval)
		}
		if !c.Mongo.Enabled() {
			return fmt.Errorf("MONGODB_URI is required when SYNC_INTERVAL is set")
		}
	}
	return nil
}

func (c *Config) validateContent() error {
	switch c.Content.Store {
	case ContentStoreBadger:
		if c.Content.BadgerPath == "" {
			return fmt.Errorf("CONTENT_BADGER_PATH is required when CONTENT_STORE=badger")
		}
	case ContentStoreMongo:
		if !c.Mongo.Enabled() {
			return fmt.Errorf("MONGODB_URI is required when CONTENT_STORE=mongo")
		}
	default:
		return fmt.Errorf("CONTENT_STORE must be one of: badger, mongo")
	}
	if c.Content.CacheTTL < 0 {
		return fmt.Errorf("CONTENT_CACHE_TTL must not be negative")
	}
	return nil
}

// validatePayment validates checkout settings. The Stripe key may be empty in
// development, in which case checkout requests fail with 503.
func (c *Config) validatePayment() error {
	if c.Payment.PricePerTon <= 0 {
		return fmt.Errorf("OFFSET_PRICE_PER_TON must be positive")
	}
	if c.Payment.FeeRate < 0 || c.Payment.FeeRate > 1 {
		return fmt.Errorf("OFFSET_PROCESSING_FEE must be between 0 and 1")
	}
	key := c.Payment.StripeSecretKey
	if key != "" && !strings.HasPrefix(key, "sk_") && !strings.HasPrefix(key, "rk_") {
		return fmt.Errorf("STRIPE_SECRET_KEY must be a secret (sk_) or restricted (rk_) key")
	}
	if c.IsProduction() && (key == "" || containsPlaceholder(key)) {
		return fmt.Errorf("STRIPE_SECRET_KEY is required when ENVIRONMENT=production")
	}
	return nil
}

func (c *Config) validateReceipt() error {
	if c.Receipt.From == "" {
		return fmt.Errorf("RECEIPT_FROM is required")
	}
	if c.Receipt.RatePerSecond <= 0 {
		return fmt.Errorf("RECEIPT_RATE_LIMIT must be positive")
	}

	switch c.Receipt.Provider {
	case ReceiptProviderResend:
		if c.Receipt.ResendAPIKey == "" || containsPlaceholder(c.Receipt.ResendAPIKey) {
			return fmt.Errorf("RESEND_API_KEY is required when RECEIPT_PROVIDER=resend")
		}
	case ReceiptProviderSMTP:
		if c.Receipt.SMTP.Host == "" {
			return fmt.Errorf("SMTP_HOST is required when RECEIPT_PROVIDER=smtp")
		}
		if c.Receipt.SMTP.Port < 1 || c.Receipt.SMTP.Port > 65535 {
			return fmt.Errorf("SMTP_PORT must be between 1 and 65535")
		}
	case ReceiptProviderLog:
		if c.IsProduction() {
			return fmt.Errorf("RECEIPT_PROVIDER=log is not allowed when ENVIRONMENT=production")
		}
	default:
		return fmt.Errorf("RECEIPT_PROVIDER must be one of: resend, smtp, log")
	}
	return nil
}

// validateSecurity validates security configuration
func (c *Config) validateSecurity() error {
	if err := c.validateAccounts(); err != nil {
		return err
	}
	if err := c.validateCORS(); err != nil {
		return err
	}
	return c.validateRateLimits()
}

// validateAccounts requires a strong JWT secret whenever a login account exists.
func (c *Config) validateAccounts() error {
	s := &c.Security
	if (s.AdminUsername == "") != (s.AdminPassword == "") {
		return fmt.Errorf("ADMIN_USERNAME and ADMIN_PASSWORD must be set together")
	}
	if (s.EditorUsername == "") != (s.EditorPassword == "") {
		return fmt.Errorf("EDITOR_USERNAME and EDITOR_PASSWORD must be set together")
	}
	if s.EditorEnabled() && s.EditorUsername == s.AdminUsername {
		return fmt.Errorf("EDITOR_USERNAME must differ from ADMIN_USERNAME")
	}
	if c.IsProduction() && !s.AdminEnabled() {
		return fmt.Errorf("ADMIN_USERNAME and ADMIN_PASSWORD are required when ENVIRONMENT=production")
	}
	if !s.AdminEnabled() && !s.EditorEnabled() {
		return nil
	}

	if err := c.validateJWTSecret(); err != nil {
		return err
	}
	for _, pw := range []struct{ name, value string }{
		{"ADMIN_PASSWORD", s.AdminPassword},
		{"EDITOR_PASSWORD", s.EditorPassword},
	} {
		if pw.value == "" {
			continue
		}
		if len(pw.value) < minPasswordLength {
			return fmt.Errorf("%s must be at least %d characters", pw.name, minPasswordLength)
		}
		if containsPlaceholder(pw.value) {
			return fmt.Errorf("%s contains a placeholder value - set a secure password", pw.name)
		}
	}
	if s.SessionTimeout <= 0 {
		return fmt.Errorf("SESSION_TIMEOUT must be positive")
	}
	return nil
}

const minPasswordLength = 12

// validateJWTSecret validates the JWT secret configuration
func (c *Config) validateJWTSecret() error {
	if c.Security.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required when admin or editor accounts are configured")
	}
	if len(c.Security.JWTSecret) < 32 {
		return fmt.Errorf("JWT_SECRET must be at least 32 characters for security")
	}
	if containsPlaceholder(c.Security.JWTSecret) {
		return fmt.Errorf("JWT_SECRET contains a placeholder value - generate a secure secret with: openssl rand -base64 32")
	}
	return nil
}

// validateCORS rejects wildcard origins in production; admin tokens travel
// in the Authorization header and the browser must not hand them to any site.
func (c *Config) validateCORS() error {
	if c.hasWildcardCORS() && c.IsProduction() {
		return fmt.Errorf("CORS_ORIGINS=* (wildcard) is not allowed in production; set CLIENT_URL or explicit CORS_ORIGINS")
	}
	return nil
}

func (c *Config) hasWildcardCORS() bool {
	for _, origin := range c.Security.CORSOrigins {
		if origin == "*" {
			return true
		}
	}
	return false
}

const (
	minRateLimitRequests = 1
	maxRateLimitRequests = 100000
	minRateLimitWindow   = time.Second
	maxRateLimitWindow   = time.Hour
)

func (c *Config) validateRateLimits() error {
	if c.Security.RateLimitDisabled {
		return nil
	}
	if c.Security.RateLimitReqs < minRateLimitRequests || c.Security.RateLimitReqs > maxRateLimitRequests {
		return fmt.Errorf("RATE_LIMIT_REQUESTS must be between %d and %d", minRateLimitRequests, maxRateLimitRequests)
	}
	if c.Security.RateLimitWindow < minRateLimitWindow || c.Security.RateLimitWindow > maxRateLimitWindow {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be between %v and %v", minRateLimitWindow, maxRateLimitWindow)
	}
	return nil
}

func (c *Config) validateAudit() error {
	if !c.Audit.Enabled {
		return nil
	}
	switch c.Audit.Store {
	case AuditStoreMemory:
	case AuditStoreMongo:
		if !c.Mongo.Enabled() {
			return fmt.Errorf("MONGODB_URI is required when AUDIT_STORE=mongo")
		}
	default:
		return fmt.Errorf("AUDIT_STORE must be one of: memory, mongo")
	}
	if c.Audit.RetentionDays < 1 {
		return fmt.Errorf("AUDIT_RETENTION_DAYS must be at least 1")
	}
	if c.Audit.BufferSize < 1 {
		return fmt.Errorf("AUDIT_BUFFER_SIZE must be positive")
	}
	return nil
}

// IsProduction returns true if the application is running in production mode.
func (c *Config) IsProduction() bool {
	env := strings.ToLower(c.Server.Environment)
	return env == "production" || env == "prod"
}

var validLogLevels = map[string]bool{
	"trace": true,
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

var validLogFormats = map[string]bool{
	"json":    true,
	"console": true,
}

// validateLogging validates logging configuration
func (c *Config) validateLogging() error {
	if !validLogLevels[c.Logging.Level] {
		return fmt.Errorf("LOG_LEVEL must be one of: trace, debug, info, warn, error")
	}
	if c.Logging.Format != "" && !validLogFormats[c.Logging.Format] {
		return fmt.Errorf("LOG_FORMAT must be one of: json, console")
	}
	return nil
}

// placeholderPatterns are values that indicate the user forgot to set a real secret.
var placeholderPatterns = []string{
	"REPLACE",
	"CHANGEME",
	"CHANGE_ME",
	"YOUR_SECRET",
	"YOUR_PASSWORD",
	"PLACEHOLDER",
	"SUPERSECRET",
	"EXAMPLE",
}

func containsPlaceholder(value string) bool {
	upper := strings.ToUpper(value)
	for _, pattern := range placeholderPatterns {
		if strings.Contains(upper, pattern) {
			return true
		}
	}
	return false
}
