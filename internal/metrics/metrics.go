// Reelpick - Content-Based Movie Recommendation Service
// Copyright 2026 Reelpick contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelpick/reelpick

// Package metrics provides Prometheus instrumentation for the HTTP API,
// the recommendation engine, and outbound poster fetches.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// API Endpoint Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "endpoint"},
	)

	// Recommendation Metrics
	RecommendRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommend_requests_total",
			Help: "Total number of recommendation computations by outcome",
		},
		[]string{"outcome"}, // "ok", "not_found"
	)

	RecommendDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "recommend_duration_seconds",
			Help:    "Duration of recommendation ranking in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	CatalogSize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "catalog_entries",
			Help: "Number of entries in the loaded catalog",
		},
	)

	// Poster Fetch Metrics
	PosterFetchTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "poster_fetch_total",
			Help: "Total number of poster fetch attempts by outcome",
		},
		[]string{"outcome"}, // "success", "no_poster", "timeout", "connection", "request", "unknown"
	)

	PosterFetchDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "poster_fetch_duration_seconds",
			Help:    "Duration of TMDB poster fetches in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
	)
)

// RecordAPIRequest records a completed API request.
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}
