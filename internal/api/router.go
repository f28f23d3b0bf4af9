// Storefront Catalog - Live Product Sheet Sync and Cache
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/storefront-catalog

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tomtom215/storefront-catalog/internal/config"
	"github.com/tomtom215/storefront-catalog/internal/logging"
	"github.com/tomtom215/storefront-catalog/internal/middleware"
)

// Router sets up HTTP routes using Chi.
type Router struct {
	handler       *Handler
	chiMiddleware *ChiMiddleware
	adminToken    string
}

// NewRouter creates a router. A nil chiMw uses DefaultChiMiddlewareConfig.
func NewRouter(handler *Handler, chiMw *ChiMiddleware, adminToken string) *Router {
	if chiMw == nil {
		cfg := DefaultChiMiddlewareConfig()
		cfg.RateLimitOnLimit = handler.tooManyRequests
		chiMw = NewChiMiddleware(cfg)
	}
	if adminToken == "" {
		logging.Warn().Msg("Admin routes are open: security.admin_token is not set")
	}
	return &Router{
		handler:       handler,
		chiMiddleware: chiMw,
		adminToken:    adminToken,
	}
}

// NewRouterFromConfig builds the router and its middleware from application config.
func NewRouterFromConfig(handler *Handler, sec config.SecurityConfig) *Router {
	mwCfg := DefaultChiMiddlewareConfig()
	mwCfg.CORSAllowedOrigins = sec.CORSOrigins
	if sec.RateLimitReqs > 0 {
		mwCfg.RateLimitRequests = sec.RateLimitReqs
	}
	if sec.RateLimitWindow > 0 {
		mwCfg.RateLimitWindow = sec.RateLimitWindow
	}
	mwCfg.RateLimitDisabled = sec.RateLimitDisabled
	mwCfg.RateLimitOnLimit = handler.tooManyRequests
	return NewRouter(handler, NewChiMiddleware(mwCfg), sec.AdminToken)
}

// SetupChi configures all HTTP routes.
func (router *Router) SetupChi() http.Handler {
	h := router.handler
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(router.chiMiddleware.CORS())

	r.NotFound(h.notFound)
	r.MethodNotAllowed(h.methodNotAllowed)

	r.Route("/health", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimitCustom(RateLimitHealth))
		r.Get("/", h.Health)
		r.Get("/ready", h.HealthReady)
	})
	r.With(router.chiMiddleware.RateLimitCustom(RateLimitHealth)).Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.PrometheusMetrics)

		r.Group(func(r chi.Router) {
			r.Use(router.chiMiddleware.RateLimit())
			r.Get("/products", h.Products)
			r.Get("/products/{slug}", h.ProductBySlug)
			r.Get("/variants/sku", h.VariantSKU)
			r.Get("/cache/status", h.CacheStatus)
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(router.chiMiddleware.RateLimitCustom(RateLimitAdmin))
			r.Use(middleware.AdminToken(router.adminToken, h.unauthorized))
			r.Post("/cache/clear", h.ClearCache)
			r.Post("/cache/warm", h.WarmCache)
			r.Post("/sync", h.Sync)
		})
	})

	return r
}
