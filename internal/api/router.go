// Khaboki - Restaurant Discovery and Delivery Comparison
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/khaboki

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	"github.com/tomtom215/khaboki/internal/middleware"
)

// Router wires handlers and middleware into a chi mux.
type Router struct {
	handler       *Handler
	chiMiddleware *ChiMiddleware
}

// NewRouter creates a Router. A nil mw uses NewChiMiddleware(nil).
func NewRouter(handler *Handler, mw *ChiMiddleware) *Router {
	if mw == nil {
		mw = NewChiMiddleware(nil)
	}
	return &Router{handler: handler, chiMiddleware: mw}
}

// MiddlewareConfigFromHandler derives the CORS and rate limit settings
// from the handler's configuration.
func MiddlewareConfigFromHandler(h *Handler) *ChiMiddlewareConfig {
	if h.config == nil {
		return nil
	}
	sec := h.config.Security
	return &ChiMiddlewareConfig{
		CORSAllowedOrigins: sec.CORSOrigins,
		RateLimitRequests:  sec.RateLimitReqs,
		RateLimitWindow:    sec.RateLimitWindow,
		RateLimitDisabled:  sec.RateLimitDisabled,
	}
}

// SetupChi builds the HTTP handler.
func (router *Router) SetupChi() http.Handler {
	r := chi.NewRouter()
	h := router.handler
	mw := router.chiMiddleware

	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(mw.CORS()) // global so OPTIONS preflight is answered

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		respondError(w, http.StatusNotFound, CodeNotFound, "Route not found", nil)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		respondError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Method not allowed", nil)
	})

	r.Route("/api/v1/health", func(r chi.Router) {
		r.Use(mw.RateLimitCustom(RateLimitHealth))
		r.Use(APISecurityHeaders())
		r.Get("/", h.Health)
		r.Get("/live", h.HealthLive)
		r.Get("/ready", h.HealthReady)
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(mw.RateLimit())
		r.Use(APISecurityHeaders())
		r.Use(middleware.PrometheusMetrics)
		r.Use(middleware.AccessLog(middleware.DefaultSlowRequestThreshold))
		r.Use(middleware.Compression)

		r.With(mw.RateLimitCustom(RateLimitSearch)).Post("/search", h.Search)
		r.Get("/results", h.Results)
		r.Get("/rating", h.Rating)

		r.Route("/compare", func(r chi.Router) {
			r.Get("/", h.CompareGet)
			r.Post("/", h.CompareAdd)
			r.Delete("/", h.CompareRemove)
			r.Delete("/all", h.CompareClear)
		})

		r.With(mw.RateLimitCustom(RateLimitSurprise)).Post("/surprise", h.Surprise)
		r.Delete("/surprise/history", h.SurpriseReset)

		r.Get("/cache", h.CacheInfo)
		r.Delete("/cache", h.CacheClear)

		r.Get("/dataset/stats", h.DatasetStats)
		r.With(mw.RateLimitCustom(RateLimitExport)).Get("/dataset/export", h.DatasetExport)

		r.Get("/ws", h.WebSocket)
	})

	r.Handle("/metrics", promhttp.Handler())
	r.Get("/swagger/*", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
		httpSwagger.DeepLinking(true),
		httpSwagger.DocExpansion("list"),
		httpSwagger.DomID("swagger-ui"),
	))

	return r
}
