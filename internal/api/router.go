// Reelpick - Content-Based Movie Recommendation Service
// Copyright 2026 Reelpick contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelpick/reelpick

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/reelpick/reelpick/internal/config"
	"github.com/reelpick/reelpick/internal/logging"
	"github.com/reelpick/reelpick/internal/middleware"
)

// NewRouter builds the chi router with all middleware and routes.
func NewRouter(h *Handler, cfg *config.Config) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.Security.CORSOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	if !cfg.Security.RateLimitDisabled {
		r.Use(httprate.LimitByIP(cfg.Security.RateLimitReqs, cfg.Security.RateLimitWindow))
	} else {
		logging.Warn().Msg("Rate limiting is disabled")
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/movies", middleware.PrometheusMetrics(h.GetMovies))
		r.Get("/recommendations", middleware.PrometheusMetrics(h.GetRecommendations))
		r.Get("/health", middleware.PrometheusMetrics(h.GetHealth))
	})

	r.Handle("/metrics", promhttp.Handler())

	return r
}
