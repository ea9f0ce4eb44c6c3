// Carbon Offset - Vehicle Emissions Calculator and Offset Checkout
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/carbonoffset

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the paths where config files are searched in order of priority.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/carbonoffset/config.yaml",
	"/etc/carbonoffset/config.yml",
}

// ConfigPathEnvVar is the environment variable that can override the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// DefaultEPAVehiclesURL is the fueleconomy.gov bulk vehicle download.
const DefaultEPAVehiclesURL = "https://fueleconomy.gov/feg/epadata/vehicles.csv"

func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:        3001,
			Host:        "0.0.0.0",
			Timeout:     30 * time.Second,
			Environment: "development",
			ClientURL:   "http://localhost:8080",
		},
		Catalog: CatalogConfig{
			Source:   CatalogSourceFile,
			Path:     "data/vehicles.json",
			CacheTTL: 10 * time.Minute,
		},
		Mongo: MongoConfig{
			URI:            "",
			Database:       "carbon_offset",
			ConnectTimeout: 10 * time.Second,
		},
		Sync: SyncConfig{
			SourceURL: DefaultEPAVehiclesURL,
			BatchSize: 1000,
			Timeout:   5 * time.Minute,
			Interval:  0,
		},
		Content: ContentConfig{
			Store:      ContentStoreBadger,
			BadgerPath: "data/content",
			CacheTTL:   time.Minute,
		},
		Payment: PaymentConfig{
			PricePerTon: 25,
			FeeRate:     0.10,
		},
		Receipt: ReceiptConfig{
			Provider:      ReceiptProviderLog,
			From:          "Carbon Offset <onboarding@resend.dev>",
			RatePerSecond: 2,
			SMTP: SMTPConfig{
				Port:   587,
				UseTLS: true,
			},
		},
		Security: SecurityConfig{
			SessionTimeout:  24 * time.Hour,
			RateLimitReqs:   100,
			RateLimitWindow: time.Minute,
		},
		Audit: AuditConfig{
			Enabled:       true,
			Store:         AuditStoreMemory,
			RetentionDays: 90,
			BufferSize:    1000,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// LoadWithKoanf loads configuration using Koanf v2 with layered sources:
// defaults, then the optional YAML file, then environment variables.
func LoadWithKoanf() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if configPath := findConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// STRIPE_SECRET_KEY -> payment.stripe_secret_key, MONGODB_URI -> mongo.uri
	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}
	cfg.applyDerivedDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// applyDerivedDefaults fills settings whose default depends on other settings.
func (c *Config) applyDerivedDefaults() {
	c.Server.ClientURL = strings.TrimRight(c.Server.ClientURL, "/")
	if len(c.Security.CORSOrigins) == 0 && c.Server.ClientURL != "" {
		c.Security.CORSOrigins = []string{c.Server.ClientURL}
	}
}

// findConfigFile returns the first existing config file, or "".
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// sliceConfigPaths are parsed from comma-separated environment values.
var sliceConfigPaths = []string{
	"security.cors_origins",
}

// processSliceFields converts comma-separated string values to slices for known slice fields.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok || strVal == "" {
			continue
		}

		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if len(trimmed) == 0 {
			continue
		}
		if err := k.Set(path, trimmed); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}

// envMappings maps environment variable names (lowercased) to koanf paths.
var envMappings = map[string]string{
	// Server
	"port":           "server.port",
	"http_port":      "server.port",
	"http_host":      "server.host",
	"server_timeout": "server.timeout",
	"environment":    "server.environment",
	"client_url":     "server.client_url",

	// Catalog
	"catalog_source":    "catalog.source",
	"catalog_path":      "catalog.path",
	"catalog_cache_ttl": "catalog.cache_ttl",

	// MongoDB
	"mongodb_uri":             "mongo.uri",
	"mongo_uri":               "mongo.uri",
	"mongodb_database":        "mongo.database",
	"mongodb_connect_timeout": "mongo.connect_timeout",

	// EPA sync
	"epa_csv_url":     "sync.source_url",
	"sync_batch_size": "sync.batch_size",
	"sync_timeout":    "sync.timeout",
	"sync_interval":   "sync.interval",

	// Content
	"content_store":       "content.store",
	"content_badger_path": "content.badger_path",
	"content_cache_ttl":   "content.cache_ttl",

	// Payment
	"stripe_secret_key":     "payment.stripe_secret_key",
	"offset_price_per_ton":  "payment.price_per_ton",
	"offset_processing_fee": "payment.fee_rate",

	// Receipt
	"receipt_provider":   "receipt.provider",
	"resend_api_key":     "receipt.resend_api_key",
	"receipt_from":       "receipt.from",
	"receipt_rate_limit": "receipt.rate_per_second",
	"smtp_host":          "receipt.smtp.host",
	"smtp_port":          "receipt.smtp.port",
	"smtp_username":      "receipt.smtp.username",
	"smtp_password":      "receipt.smtp.password",
	"smtp_tls":           "receipt.smtp.use_tls",

	// Security
	"jwt_secret":          "security.jwt_secret",
	"session_timeout":     "security.session_timeout",
	"admin_username":      "security.admin_username",
	"admin_password":      "security.admin_password",
	"editor_username":     "security.editor_username",
	"editor_password":     "security.editor_password",
	"casbin_model_path":   "security.casbin_model_path",
	"casbin_policy_path":  "security.casbin_policy_path",
	"rate_limit_requests": "security.rate_limit_reqs",
	"rate_limit_window":   "security.rate_limit_window",
	"disable_rate_limit":  "security.rate_limit_disabled",
	"cors_origins":        "security.cors_origins",

	// Audit
	"audit_enabled":        "audit.enabled",
	"audit_store":          "audit.store",
	"audit_retention_days": "audit.retention_days",
	"audit_buffer_size":    "audit.buffer_size",

	// Logging
	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",
}

// envTransformFunc transforms environment variable names to koanf config paths.
// Unmapped variables return "" so they are skipped.
func envTransformFunc(key string) string {
	return envMappings[strings.ToLower(key)]
}
