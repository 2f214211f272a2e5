// Poloboard - Water Polo Ranking Matrix and History API
// Copyright 2026 Poloboard Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/poloboard/poloboard

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/poloboard/poloboard/internal/middleware"
)

// NewRouter assembles the chi router: global middleware, then route
// groups with per-group rate limits. Read endpoints share one group;
// cache administration and health get their own limits.
func NewRouter(h *Handler, mw *ChiMiddleware) http.Handler {
	r := chi.NewRouter()

	// Global middleware. Order matters: request ID first so everything
	// downstream logs with it, recovery before any handler runs.
	r.Use(RequestIDWithLogging())
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(mw.CORS())
	r.Use(APISecurityHeaders())

	r.Group(func(r chi.Router) {
		r.Use(mw.RateLimitCustom(RateLimitRead))
		r.Get("/matrix/{sport}", middleware.PrometheusMetrics(h.Matrix))
		r.Get("/matches/{sport}/{rowRank}/{colRank}", middleware.PrometheusMetrics(h.Matches))
		r.Get("/rankings/{sport}/{teamNames}/{startDate}/{endDate}", middleware.PrometheusMetrics(h.Rankings))
	})

	r.Group(func(r chi.Router) {
		r.Use(mw.RateLimitCustom(RateLimitHealth))
		r.Get("/health", middleware.PrometheusMetrics(h.Health))
	})

	r.Group(func(r chi.Router) {
		r.Use(mw.RateLimitCustom(RateLimitAdmin))
		r.Get("/cache/info", middleware.PrometheusMetrics(h.CacheInfo))
		r.Post("/cache/clear", middleware.PrometheusMetrics(h.CacheClear))
	})

	r.Handle("/metrics", promhttp.Handler())

	return r
}
