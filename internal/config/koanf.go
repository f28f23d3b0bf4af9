// Storefront Catalog - Live Product Sheet Sync and Cache
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/storefront-catalog

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

// DefaultConfigPaths are searched in order; the first existing file is used.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/storefront-catalog/config.yaml",
	"/etc/storefront-catalog/config.yml",
}

// ConfigPathEnvVar overrides the config file location.
const ConfigPathEnvVar = "CONFIG_PATH"

func defaultConfig() *Config {
	return &Config{
		Sheet: SheetConfig{
			Range:              "Products!A:Z",
			BaseURL:            "https://sheets.googleapis.com/v4/spreadsheets",
			TokenURL:           "https://oauth2.googleapis.com/token",
			Timeout:            15 * time.Second,
			RateLimitPerMinute: 60, // Sheets read quota per user
		},
		Cache: CacheConfig{
			TTL:            5 * time.Minute,
			QueryCacheSize: 512,
			WarmOnStart:    true,
		},
		Sync: SyncConfig{
			Enabled:  true,
			Interval: 5 * time.Minute,
		},
		Warm: WarmConfig{
			Profiles: []string{
				"page=1&limit=12",
				"bestseller=true&limit=8",
				"new=true&limit=8",
			},
		},
		Persist: PersistConfig{
			Backend:    "none",
			BadgerPath: "/data/catalog-snapshot",
			RedisKey:   "storefront:catalog:snapshot",
		},
		Server: ServerConfig{
			Host:        "0.0.0.0",
			Port:        8080,
			Timeout:     30 * time.Second,
			Environment: "development",
		},
		API: APIConfig{
			DefaultPageSize: 12,
			MaxPageSize:     100,
		},
		Security: SecurityConfig{
			CORSOrigins:     []string{"*"},
			RateLimitReqs:   100,
			RateLimitWindow: time.Minute,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// LoadWithKoanf loads configuration with precedence env > file > defaults,
// then validates it.
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

	// SHEET_ID -> sheet.spreadsheet_id, CACHE_TTL -> cache.ttl, ...
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

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

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

// sliceConfigPaths are split on commas when they arrive as a single string.
// Warm profiles are split on ';' because a profile itself may hold commas.
var sliceConfigPaths = map[string]string{
	"security.cors_origins": ",",
	"warm.profiles":         ";",
}

func processSliceFields(k *koanf.Koanf) error {
	for path, sep := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok {
			continue
		}
		parts := strings.Split(strVal, sep)
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if err := k.Set(path, trimmed); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}

var envMappings = map[string]string{
	// Sheet source
	"sheet_id":                     "sheet.spreadsheet_id",
	"google_sheet_id":              "sheet.spreadsheet_id",
	"sheet_range":                  "sheet.range",
	"google_api_key":               "sheet.api_key",
	"google_credentials_file":      "sheet.credentials_file",
	"google_service_account_email": "sheet.service_account_email",
	"google_private_key":           "sheet.private_key",
	"sheet_base_url":               "sheet.base_url",
	"sheet_token_url":              "sheet.token_url",
	"sheet_timeout":                "sheet.timeout",
	"sheet_rate_limit":             "sheet.rate_limit_per_minute",

	// Cache
	"cache_ttl":              "cache.ttl",
	"cache_query_size":       "cache.query_cache_size",
	"cache_warm_on_start":    "cache.warm_on_start",
	"warm_profiles":          "warm.profiles",
	"sync_enabled":           "sync.enabled",
	"sync_interval":          "sync.interval",
	"snapshot_store":         "persist.backend",
	"snapshot_badger_path":   "persist.badger_path",
	"redis_addr":             "persist.redis_addr",
	"redis_password":         "persist.redis_password",
	"redis_db":               "persist.redis_db",
	"redis_snapshot_key":     "persist.redis_key",

	// Server
	"http_port":    "server.port",
	"http_host":    "server.host",
	"http_timeout": "server.timeout",
	"environment":  "server.environment",

	// API
	"api_default_page_size": "api.default_page_size",
	"api_max_page_size":     "api.max_page_size",

	// Security
	"admin_token":         "security.admin_token",
	"cors_origins":        "security.cors_origins",
	"rate_limit_requests": "security.rate_limit_reqs",
	"rate_limit_window":   "security.rate_limit_window",
	"disable_rate_limit":  "security.rate_limit_disabled",

	// Logging
	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",
}

// envTransformFunc maps known environment variable names to koanf paths.
// Unknown variables map to "" and are dropped.
func envTransformFunc(key string) string {
	if mapped, ok := envMappings[strings.ToLower(key)]; ok {
		return mapped
	}
	return ""
}
