// Storefront Catalog - Live Product Sheet Sync and Cache
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/storefront-catalog

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
)

// ChiMiddlewareConfig holds configuration for Chi middleware factories.
type ChiMiddlewareConfig struct {
	CORSAllowedOrigins []string
	CORSAllowedMethods []string
	CORSAllowedHeaders []string
	CORSExposedHeaders []string
	CORSMaxAge         int // seconds

	RateLimitRequests int
	RateLimitWindow   time.Duration
	RateLimitDisabled bool
	RateLimitOnLimit  http.HandlerFunc
}

// DefaultChiMiddlewareConfig returns the defaults. An empty origin list is
// treated by go-chi/cors as any origin, which suits a public catalog;
// security.cors_origins narrows it to the storefront domains.
func DefaultChiMiddlewareConfig() *ChiMiddlewareConfig {
	return &ChiMiddlewareConfig{
		CORSAllowedOrigins: []string{},
		CORSAllowedMethods: []string{"GET", "POST", "OPTIONS"},
		CORSAllowedHeaders: []string{"Content-Type", "Authorization", "If-None-Match"},
		CORSExposedHeaders: []string{"ETag", "X-Request-ID"},
		CORSMaxAge:         86400,

		RateLimitRequests: 300,
		RateLimitWindow:   time.Minute,
	}
}

// ChiMiddleware provides Chi-compatible middleware factories.
type ChiMiddleware struct {
	config *ChiMiddlewareConfig
	cors   func(http.Handler) http.Handler
}

// NewChiMiddleware creates a middleware factory. A nil config uses the defaults.
func NewChiMiddleware(config *ChiMiddlewareConfig) *ChiMiddleware {
	if config == nil {
		config = DefaultChiMiddlewareConfig()
	}

	corsHandler := cors.Handler(cors.Options{
		AllowedOrigins: config.CORSAllowedOrigins,
		AllowedMethods: config.CORSAllowedMethods,
		AllowedHeaders: config.CORSAllowedHeaders,
		ExposedHeaders: config.CORSExposedHeaders,
		MaxAge:         config.CORSMaxAge,
	})

	return &ChiMiddleware{
		config: config,
		cors:   corsHandler,
	}
}

// CORS returns the go-chi/cors handler.
func (m *ChiMiddleware) CORS() func(http.Handler) http.Handler {
	return m.cors
}

// RateLimit limits catalog reads per client IP.
func (m *ChiMiddleware) RateLimit() func(http.Handler) http.Handler {
	return m.limit(m.config.RateLimitRequests, m.config.RateLimitWindow)
}

// RateLimitConfig defines rate limit parameters for specific endpoints.
type RateLimitConfig struct {
	Requests int
	Window   time.Duration
}

var (
	// RateLimitAdmin is strict: every admin call can hit the Sheets API.
	RateLimitAdmin = RateLimitConfig{Requests: 10, Window: time.Minute}

	// RateLimitHealth is permissive for probes and scrapers.
	RateLimitHealth = RateLimitConfig{Requests: 1000, Window: time.Minute}
)

// RateLimitCustom returns a rate limiter with custom configuration.
func (m *ChiMiddleware) RateLimitCustom(config RateLimitConfig) func(http.Handler) http.Handler {
	return m.limit(config.Requests, config.Window)
}

func (m *ChiMiddleware) limit(requests int, window time.Duration) func(http.Handler) http.Handler {
	if m.config.RateLimitDisabled || requests <= 0 {
		return func(next http.Handler) http.Handler {
			return next
		}
	}

	opts := []httprate.Option{httprate.WithKeyFuncs(httprate.KeyByIP)}
	if m.config.RateLimitOnLimit != nil {
		opts = append(opts, httprate.WithLimitHandler(m.config.RateLimitOnLimit))
	}
	return httprate.Limit(requests, window, opts...)
}
