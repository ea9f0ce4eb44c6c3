// Carbon Offset - Vehicle Emissions Calculator and Offset Checkout
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/carbonoffset

package config

import (
	"time"
)

// Config holds all application configuration loaded from defaults, an optional
// YAML file and environment variables (in that order of precedence).
//
//	cfg, err := config.Load()
//	if err != nil {
//	    logging.Fatal().Err(err).Msg("Failed to load configuration")
//	}
type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Catalog  CatalogConfig  `koanf:"catalog"`
	Mongo    MongoConfig    `koanf:"mongo"`
	Sync     SyncConfig     `koanf:"sync"`
	Content  ContentConfig  `koanf:"content"`
	Payment  PaymentConfig  `koanf:"payment"`
	Receipt  ReceiptConfig  `koanf:"receipt"`
	Security SecurityConfig `koanf:"security"`
	Audit    AuditConfig    `koanf:"audit"`
	Logging  LoggingConfig  `koanf:"logging"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port        int           `koanf:"port"`
	Host        string        `koanf:"host"`
	Timeout     time.Duration `koanf:"timeout"`
	Environment string        `koanf:"environment"` // development, staging, production

	// ClientURL is the public site origin. Checkout redirects are built from it
	// and it is the default CORS origin.
	ClientURL string `koanf:"client_url"`
}

// Catalog sources.
const (
	CatalogSourceFile  = "file"
	CatalogSourceMongo = "mongo"
)

// CatalogConfig selects where vehicle lookups are served from.
type CatalogConfig struct {
	// Source is "file" (pre-built JSON catalog) or "mongo" (synced vehicles collection).
	Source string `koanf:"source"`

	// Path is the single JSON catalog location used when Source is "file".
	Path string `koanf:"path"`

	// CacheTTL caches MongoDB lookups when Source is "mongo". Zero disables
	// the cache. Vehicle writes clear it through the event bus.
	CacheTTL time.Duration `koanf:"cache_ttl"`
}

// MongoConfig holds MongoDB connection settings. An empty URI disables MongoDB.
type MongoConfig struct {
	URI            string        `koanf:"uri"`
	Database       string        `koanf:"database"`
	ConnectTimeout time.Duration `koanf:"connect_timeout"`
}

// Enabled reports whether a MongoDB URI is configured.
func (m MongoConfig) Enabled() bool {
	return m.URI != ""
}

// SyncConfig holds EPA vehicle sync settings.
type SyncConfig struct {
	SourceURL string        `koanf:"source_url"`
	BatchSize int           `koanf:"batch_size"`
	Timeout   time.Duration `koanf:"timeout"`

	// Interval enables periodic background sync when greater than zero.
	Interval time.Duration `koanf:"interval"`
}

// Content stores.
const (
	ContentStoreBadger = "badger"
	ContentStoreMongo  = "mongo"
)

// ContentConfig holds editable page content settings.
type ContentConfig struct {
	Store      string        `koanf:"store"`
	BadgerPath string        `koanf:"badger_path"`
	CacheTTL   time.Duration `koanf:"cache_ttl"`
}

// PaymentConfig holds checkout settings.
type PaymentConfig struct {
	StripeSecretKey string  `koanf:"stripe_secret_key"`
	PricePerTon     float64 `koanf:"price_per_ton"`
	FeeRate         float64 `koanf:"fee_rate"`
}

// Receipt providers.
const (
	ReceiptProviderResend = "resend"
	ReceiptProviderSMTP   = "smtp"
	ReceiptProviderLog    = "log"
)

// ReceiptConfig holds receipt email settings.
type ReceiptConfig struct {
	Provider      string     `koanf:"provider"`
	ResendAPIKey  string     `koanf:"resend_api_key"`
	From          string     `koanf:"from"`
	RatePerSecond float64    `koanf:"rate_per_second"`
	SMTP          SMTPConfig `koanf:"smtp"`
}

// SMTPConfig holds SMTP relay settings for the smtp receipt provider.
type SMTPConfig struct {
	Host     string `koanf:"host"`
	Port     int    `koanf:"port"`
	Username string `koanf:"username"`
	Password string `koanf:"password"`
	UseTLS   bool   `koanf:"use_tls"`
}

// SecurityConfig holds authentication, authorization and rate limit settings.
type SecurityConfig struct {
	JWTSecret      string        `koanf:"jwt_secret"`
	SessionTimeout time.Duration `koanf:"session_timeout"`

	// AdminUsername and AdminPassword define the admin account. When both are
	// empty, admin routes reject every request.
	AdminUsername string `koanf:"admin_username"`
	AdminPassword string `koanf:"admin_password"`

	// EditorUsername and EditorPassword define an optional content-only account.
	EditorUsername string `koanf:"editor_username"`
	EditorPassword string `koanf:"editor_password"`

	// CasbinModelPath and CasbinPolicyPath override the embedded RBAC model and policy.
	CasbinModelPath  string `koanf:"casbin_model_path"`
	CasbinPolicyPath string `koanf:"casbin_policy_path"`

	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`

	// CORSOrigins defaults to the client URL when empty.
	CORSOrigins []string `koanf:"cors_origins"`
}

// AdminEnabled reports whether admin credentials are configured.
func (s *SecurityConfig) AdminEnabled() bool {
	return s.AdminUsername != "" && s.AdminPassword != ""
}

// EditorEnabled reports whether editor credentials are configured.
func (s *SecurityConfig) EditorEnabled() bool {
	return s.EditorUsername != "" && s.EditorPassword != ""
}

// Audit stores.
const (
	AuditStoreMemory = "memory"
	AuditStoreMongo  = "mongo"
)

// AuditConfig holds admin audit trail settings.
type AuditConfig struct {
	Enabled       bool   `koanf:"enabled"`
	Store         string `koanf:"store"`
	RetentionDays int    `koanf:"retention_days"`
	BufferSize    int    `koanf:"buffer_size"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: trace, debug, info, warn, error.
	Level string `koanf:"level"`

	// Format is json (production) or console (development).
	Format string `koanf:"format"`

	// Caller includes caller file and line number in logs.
	Caller bool `koanf:"caller"`
}

// Load reads configuration from the layered sources:
//  1. Built-in defaults
//  2. Config file (config.yaml if it exists, or the path in CONFIG_PATH)
//  3. Environment variables
func Load() (*Config, error) {
	return LoadWithKoanf()
}
