// Reelpick - Content-Based Movie Recommendation Service
// Copyright 2026 Reelpick contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelpick/reelpick

// Package api implements the HTTP endpoints: the movie list, the
// recommendations query, health, and Prometheus metrics.
package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/reelpick/reelpick/internal/catalog"
	"github.com/reelpick/reelpick/internal/logging"
	"github.com/reelpick/reelpick/internal/models"
	"github.com/reelpick/reelpick/internal/recommend"
)

// PosterFetcher resolves a poster image URL for a movie.
type PosterFetcher interface {
	FetchPoster(ctx context.Context, movieID int) (string, error)
}

// Handler holds dependencies for API endpoints.
type Handler struct {
	catalog *catalog.Catalog
	engine  *recommend.Engine
	posters PosterFetcher
	topK    int
	maxK    int
	version string
}

// NewHandler creates an API handler.
func NewHandler(c *catalog.Catalog, engine *recommend.Engine, posters PosterFetcher, topK, maxK int, version string) *Handler {
	if topK < 1 {
		topK = recommend.DefaultK
	}
	if maxK < topK {
		maxK = topK
	}
	return &Handler{
		catalog: c,
		engine:  engine,
		posters: posters,
		topK:    topK,
		maxK:    maxK,
		version: version,
	}
}

// recommendationsRequest carries the validated query parameters of
// GET /api/v1/recommendations.
type recommendationsRequest struct {
	Title string `validate:"required"`
	K     int    `validate:"min=1"`
}

// requestIDFrom returns the caller-supplied X-Request-ID or generates one.
func requestIDFrom(r *http.Request) string {
	if id := r.Header.Get("X-Request-ID"); id != "" {
		return id
	}
	return uuid.NewString()
}

// GetMovies handles GET /api/v1/movies. It returns every catalog title in
// catalog order, so clients can populate pickers and autocomplete.
func (h *Handler) GetMovies(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	titles := h.catalog.Titles()
	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data: models.MovieListResponse{
			Titles: titles,
			Count:  len(titles),
		},
		Metadata: models.Metadata{
			Timestamp:   time.Now(),
			RequestID:   requestIDFrom(r),
			QueryTimeMS: time.Since(start).Milliseconds(),
		},
	})
}

// GetRecommendations handles GET /api/v1/recommendations?title=...&k=...
//
// The title must match a catalog entry exactly (case-sensitive). Each
// recommended item carries a poster URL; when the poster lookup fails the
// item gets a placeholder image for the failure category and the response
// still succeeds.
func (h *Handler) GetRecommendations(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	requestID := requestIDFrom(r)

	title := r.URL.Query().Get("title")
	k := getIntParam(r, "k", h.topK)
	if k > h.maxK {
		k = h.maxK
	}

	req := recommendationsRequest{Title: title, K: k}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondJSON(w, http.StatusBadRequest, &models.APIResponse{
			Status:   "error",
			Metadata: models.Metadata{Timestamp: time.Now(), RequestID: requestID},
			Error:    apiErr,
		})
		return
	}

	scored, err := h.engine.Recommend(r.Context(), title, k)
	if err != nil {
		if errors.Is(err, recommend.ErrTitleNotFound) {
			respondJSON(w, http.StatusNotFound, &models.APIResponse{
				Status:   "error",
				Metadata: models.Metadata{Timestamp: time.Now(), RequestID: requestID},
				Error: &models.APIError{
					Code:    "TITLE_NOT_FOUND",
					Message: "title not found in catalog",
					Details: map[string]interface{}{"title": title},
				},
			})
			return
		}
		respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to compute recommendations", err)
		return
	}

	items := make([]models.RecommendationItem, 0, len(scored))
	for _, s := range scored {
		posterURL, fetchErr := h.posters.FetchPoster(r.Context(), s.MovieID)
		if fetchErr != nil {
			posterURL = placeholderFor(fetchErr)
		}
		items = append(items, models.RecommendationItem{
			Title:     s.Title,
			MovieID:   s.MovieID,
			Score:     s.Score,
			PosterURL: posterURL,
		})
	}

	logging.Debug().
		Str("title", sanitizeLogValue(title)).
		Int("results", len(items)).
		Str("request_id", requestID).
		Msg("recommendations served")

	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data: models.RecommendationsResponse{
			Query: title,
			Items: items,
			Count: len(items),
		},
		Metadata: models.Metadata{
			Timestamp:   time.Now(),
			RequestID:   requestID,
			QueryTimeMS: time.Since(start).Milliseconds(),
		},
	})
}

// GetHealth handles GET /api/v1/health.
func (h *Handler) GetHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data: models.HealthResponse{
			Status:      "ok",
			CatalogSize: h.catalog.Size(),
			Version:     h.version,
		},
		Metadata: models.Metadata{
			Timestamp: time.Now(),
			RequestID: requestIDFrom(r),
		},
	})
}
