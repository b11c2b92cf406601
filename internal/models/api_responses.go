// Reelpick - Content-Based Movie Recommendation Service
// Copyright 2026 Reelpick contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelpick/reelpick

// Package models defines the API response envelope and payload types shared
// by all HTTP endpoints.
package models

import (
	"time"
)

// APIResponse is the standardized response wrapper used by every endpoint.
//
// Status is "success" or "error"; Error is populated only for "error".
type APIResponse struct {
	Status   string      `json:"status"`
	Data     interface{} `json:"data"`
	Metadata Metadata    `json:"metadata"`
	Error    *APIError   `json:"error,omitempty"`
}

// Metadata contains response metadata for observability.
type Metadata struct {
	Timestamp   time.Time `json:"timestamp"`
	RequestID   string    `json:"request_id,omitempty"`
	QueryTimeMS int64     `json:"query_time_ms,omitempty"`
}

// APIError carries structured error details.
//
// Codes used by the service: VALIDATION_ERROR, TITLE_NOT_FOUND,
// METHOD_NOT_ALLOWED.
type APIError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// MovieListResponse is the payload of GET /api/v1/movies.
type MovieListResponse struct {
	Titles []string `json:"titles"`
	Count  int      `json:"count"`
}

// RecommendationItem is one recommended movie with its resolved poster.
// PosterURL is always usable: a real CDN URL or a placeholder encoding the
// failure category.
type RecommendationItem struct {
	Title     string  `json:"title"`
	MovieID   int     `json:"movie_id"`
	Score     float64 `json:"score"`
	PosterURL string  `json:"poster_url"`
}

// RecommendationsResponse is the payload of GET /api/v1/recommendations.
type RecommendationsResponse struct {
	Query string               `json:"query"`
	Items []RecommendationItem `json:"items"`
	Count int                  `json:"count"`
}

// HealthResponse is the payload of GET /api/v1/health.
type HealthResponse struct {
	Status      string `json:"status"`
	CatalogSize int    `json:"catalog_size"`
	Version     string `json:"version,omitempty"`
}
