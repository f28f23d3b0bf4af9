// Storefront Catalog - Live Product Sheet Sync and Cache
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/storefront-catalog

package config

import (
	"time"
)

// Config is the full service configuration. Values are layered by
// LoadWithKoanf: defaults, then an optional YAML file, then environment.
type Config struct {
	Sheet    SheetConfig    `koanf:"sheet"`
	Cache    CacheConfig    `koanf:"cache"`
	Sync     SyncConfig     `koanf:"sync"`
	Warm     WarmConfig     `koanf:"warm"`
	Persist  PersistConfig  `koanf:"persist"`
	Server   ServerConfig   `koanf:"server"`
	API      APIConfig      `koanf:"api"`
	Security SecurityConfig `koanf:"security"`
	Logging  LoggingConfig  `koanf:"logging"`
}

// SheetConfig locates the product spreadsheet and how to authenticate to it.
//
// Exactly one credential style is needed: APIKey for a link-shared sheet, or
// a service account given as CredentialsFile or ServiceAccountEmail+PrivateKey.
type SheetConfig struct {
	SpreadsheetID       string        `koanf:"spreadsheet_id"`
	Range               string        `koanf:"range"`
	APIKey              string        `koanf:"api_key"`
	CredentialsFile     string        `koanf:"credentials_file"`
	ServiceAccountEmail string        `koanf:"service_account_email"`
	PrivateKey          string        `koanf:"private_key"`
	BaseURL             string        `koanf:"base_url"`
	TokenURL            string        `koanf:"token_url"`
	Timeout             time.Duration `koanf:"timeout"`
	RateLimitPerMinute  int           `koanf:"rate_limit_per_minute"`
}

// CacheConfig controls the snapshot TTL and the per-query result cache.
type CacheConfig struct {
	TTL            time.Duration `koanf:"ttl"`
	QueryCacheSize int           `koanf:"query_cache_size"`
	WarmOnStart    bool          `koanf:"warm_on_start"`
}

// SyncConfig controls the scheduled background refresh.
type SyncConfig struct {
	Enabled  bool          `koanf:"enabled"`
	Interval time.Duration `koanf:"interval"`
}

// WarmConfig lists query profiles to pre-compute after each refresh.
// Each profile uses the same syntax as the product listing query string,
// e.g. "bestseller=true&limit=8" or "category=t-shirts&sortBy=price".
type WarmConfig struct {
	Profiles []string `koanf:"profiles"`
}

// PersistConfig selects where the last good snapshot is kept across restarts.
type PersistConfig struct {
	Backend       string `koanf:"backend"` // none, badger, redis
	BadgerPath    string `koanf:"badger_path"`
	RedisAddr     string `koanf:"redis_addr"`
	RedisPassword string `koanf:"redis_password"`
	RedisDB       int    `koanf:"redis_db"`
	RedisKey      string `koanf:"redis_key"`
}

// ServerConfig holds HTTP listener settings.
type ServerConfig struct {
	Host        string        `koanf:"host"`
	Port        int           `koanf:"port"`
	Timeout     time.Duration `koanf:"timeout"`
	Environment string        `koanf:"environment"`
}

// APIConfig holds listing defaults.
type APIConfig struct {
	DefaultPageSize int `koanf:"default_page_size"`
	MaxPageSize     int `koanf:"max_page_size"`
}

// SecurityConfig holds admin access, CORS and rate limiting.
type SecurityConfig struct {
	AdminToken        string        `koanf:"admin_token"`
	CORSOrigins       []string      `koanf:"cors_origins"`
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
}

// LoggingConfig mirrors logging.Config.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// Load reads configuration from all sources.
func Load() (*Config, error) {
	return LoadWithKoanf()
}
