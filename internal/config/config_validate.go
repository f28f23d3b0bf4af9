// Storefront Catalog - Live Product Sheet Sync and Cache
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/storefront-catalog

package config

import (
	"fmt"
	"strings"
	"time"
)

// maxSheetTimeout bounds the fetch timeout so a refresh can never hang.
const maxSheetTimeout = 60 * time.Second

// Validate checks structural settings. Missing sheet credentials are not an
// error here: the service starts and reports NotConfigured per request.
func (c *Config) Validate() error {
	if err := c.validateSheet(); err != nil {
		return err
	}
	if err := c.validateCache(); err != nil {
		return err
	}
	if err := c.validatePersist(); err != nil {
		return err
	}
	if err := c.validateServer(); err != nil {
		return err
	}
	if err := c.validateAPI(); err != nil {
		return err
	}
	if err := c.validateSecurity(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateSheet() error {
	if c.Sheet.Timeout <= 0 || c.Sheet.Timeout > maxSheetTimeout {
		return fmt.Errorf("SHEET_TIMEOUT must be between 1ns and %s, got %s", maxSheetTimeout, c.Sheet.Timeout)
	}
	if c.Sheet.RateLimitPerMinute < 0 {
		return fmt.Errorf("SHEET_RATE_LIMIT must be >= 0 (0 disables), got %d", c.Sheet.RateLimitPerMinute)
	}
	if err := validateHTTPURL(c.Sheet.BaseURL, "SHEET_BASE_URL"); err != nil {
		return err
	}
	return validateHTTPURL(c.Sheet.TokenURL, "SHEET_TOKEN_URL")
}

func (c *Config) validateCache() error {
	if c.Cache.TTL <= 0 {
		return fmt.Errorf("CACHE_TTL must be positive, got %s", c.Cache.TTL)
	}
	if c.Cache.QueryCacheSize < 0 {
		return fmt.Errorf("CACHE_QUERY_SIZE must be >= 0, got %d", c.Cache.QueryCacheSize)
	}
	if c.Sync.Enabled && c.Sync.Interval <= 0 {
		return fmt.Errorf("SYNC_INTERVAL must be positive when SYNC_ENABLED=true")
	}
	return nil
}

func (c *Config) validatePersist() error {
	switch c.Persist.Backend {
	case "", "none":
		return nil
	case "badger":
		if c.Persist.BadgerPath == "" {
			return fmt.Errorf("SNAPSHOT_BADGER_PATH is required when SNAPSHOT_STORE=badger")
		}
	case "redis":
		if c.Persist.RedisAddr == "" {
			return fmt.Errorf("REDIS_ADDR is required when SNAPSHOT_STORE=redis")
		}
		if c.Persist.RedisKey == "" {
			return fmt.Errorf("REDIS_SNAPSHOT_KEY must not be empty")
		}
	default:
		return fmt.Errorf("SNAPSHOT_STORE must be one of none, badger, redis, got %q", c.Persist.Backend)
	}
	return nil
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("HTTP_TIMEOUT must be positive")
	}
	return nil
}

func (c *Config) validateAPI() error {
	if c.API.DefaultPageSize < 1 {
		return fmt.Errorf("API_DEFAULT_PAGE_SIZE must be at least 1, got %d", c.API.DefaultPageSize)
	}
	if c.API.MaxPageSize < c.API.DefaultPageSize {
		return fmt.Errorf("API_MAX_PAGE_SIZE (%d) must be >= API_DEFAULT_PAGE_SIZE (%d)",
			c.API.MaxPageSize, c.API.DefaultPageSize)
	}
	return nil
}

func (c *Config) validateSecurity() error {
	if c.Security.RateLimitDisabled {
		return nil
	}
	if c.Security.RateLimitReqs < 1 || c.Security.RateLimitWindow <= 0 {
		return fmt.Errorf("RATE_LIMIT_REQUESTS and RATE_LIMIT_WINDOW must be positive unless DISABLE_RATE_LIMIT=true")
	}
	if strings.EqualFold(c.Server.Environment, "production") && c.Security.AdminToken == "" {
		return fmt.Errorf("ADMIN_TOKEN is required when ENVIRONMENT=production")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch strings.ToLower(c.Logging.Level) {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal", "panic", "disabled":
	default:
		return fmt.Errorf("LOG_LEVEL %q is not a valid level", c.Logging.Level)
	}
	if c.Logging.Format != "json" && c.Logging.Format != "console" {
		return fmt.Errorf("LOG_FORMAT must be json or console, got %q", c.Logging.Format)
	}
	return nil
}
