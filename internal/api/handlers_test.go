// Reelpick - Content-Based Movie Recommendation Service
// Copyright 2026 Reelpick contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelpick/reelpick

package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/reelpick/reelpick/internal/catalog"
	"github.com/reelpick/reelpick/internal/config"
	"github.com/reelpick/reelpick/internal/models"
	"github.com/reelpick/reelpick/internal/poster"
	"github.com/reelpick/reelpick/internal/recommend"
)

// newTestCatalog writes a 3-movie model to a temp dir and loads it.
// Similarity rows are arranged so "The Matrix" recommends "Blade Runner"
// first, then "Alien".
func newTestCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()

	dir := t.TempDir()
	movieList := `[
		{"movie_id": 603, "title": "The Matrix"},
		{"movie_id": 78, "title": "Blade Runner"},
		{"movie_id": 348, "title": "Alien"}
	]`
	similarity := `[
		[1.0, 0.9, 0.2],
		[0.9, 1.0, 0.4],
		[0.2, 0.4, 1.0]
	]`
	if err := os.WriteFile(filepath.Join(dir, catalog.MovieListFile), []byte(movieList), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, catalog.SimilarityFile), []byte(similarity), 0o600); err != nil {
		t.Fatal(err)
	}

	c, err := catalog.Load(dir)
	if err != nil {
		t.Fatalf("catalog.Load() error = %v", err)
	}
	return c
}

// fakePoster serves canned poster results keyed by movie ID.
type fakePoster struct {
	urls map[int]string
	errs map[int]error
}

func (f *fakePoster) FetchPoster(_ context.Context, movieID int) (string, error) {
	if err, ok := f.errs[movieID]; ok {
		return "", err
	}
	if u, ok := f.urls[movieID]; ok {
		return u, nil
	}
	return "", &poster.FetchError{Kind: poster.KindUnknown, MovieID: movieID}
}

func newTestHandler(t *testing.T, posters PosterFetcher) *Handler {
	t.Helper()
	c := newTestCatalog(t)
	engine := recommend.NewEngine(c, zerolog.Nop())
	return NewHandler(c, engine, posters, 5, 20, "test")
}

// decodeResponse unmarshals the standard envelope with the payload left raw.
func decodeResponse(t *testing.T, body []byte) (string, json.RawMessage, *models.APIError) {
	t.Helper()
	var envelope struct {
		Status string           `json:"status"`
		Data   json.RawMessage  `json:"data"`
		Error  *models.APIError `json:"error"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		t.Fatalf("failed to decode response envelope: %v", err)
	}
	return envelope.Status, envelope.Data, envelope.Error
}

func TestGetMovies(t *testing.T) {
	h := newTestHandler(t, &fakePoster{})

	rec := httptest.NewRecorder()
	h.GetMovies(rec, httptest.NewRequest(http.MethodGet, "/api/v1/movies", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	status, data, _ := decodeResponse(t, rec.Body.Bytes())
	if status != "success" {
		t.Errorf("status = %q, want success", status)
	}

	var payload models.MovieListResponse
	if err := json.Unmarshal(data, &payload); err != nil {
		t.Fatal(err)
	}
	want := []string{"The Matrix", "Blade Runner", "Alien"}
	if payload.Count != len(want) {
		t.Errorf("count = %d, want %d", payload.Count, len(want))
	}
	for i, title := range want {
		if payload.Titles[i] != title {
			t.Errorf("titles[%d] = %q, want %q", i, payload.Titles[i], title)
		}
	}
}

func TestGetRecommendations(t *testing.T) {
	posters := &fakePoster{
		urls: map[int]string{
			78: "https://image.tmdb.org/t/p/w500/blade-runner.jpg",
		},
		errs: map[int]error{
			348: &poster.FetchError{Kind: poster.KindTimeout, MovieID: 348, Err: errors.New("deadline exceeded")},
		},
	}
	h := newTestHandler(t, posters)

	rec := httptest.NewRecorder()
	h.GetRecommendations(rec, httptest.NewRequest(http.MethodGet, "/api/v1/recommendations?title=The+Matrix", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d, body: %s", rec.Code, http.StatusOK, rec.Body.String())
	}

	status, data, _ := decodeResponse(t, rec.Body.Bytes())
	if status != "success" {
		t.Errorf("status = %q, want success", status)
	}

	var payload models.RecommendationsResponse
	if err := json.Unmarshal(data, &payload); err != nil {
		t.Fatal(err)
	}
	if payload.Query != "The Matrix" {
		t.Errorf("query = %q, want The Matrix", payload.Query)
	}
	if payload.Count != 2 {
		t.Fatalf("count = %d, want 2", payload.Count)
	}

	// Ranked by descending similarity, query excluded.
	if payload.Items[0].Title != "Blade Runner" {
		t.Errorf("items[0].title = %q, want Blade Runner", payload.Items[0].Title)
	}
	if payload.Items[0].PosterURL != "https://image.tmdb.org/t/p/w500/blade-runner.jpg" {
		t.Errorf("items[0].poster_url = %q", payload.Items[0].PosterURL)
	}

	// Failed lookup degrades to the matching placeholder.
	if payload.Items[1].Title != "Alien" {
		t.Errorf("items[1].title = %q, want Alien", payload.Items[1].Title)
	}
	if payload.Items[1].PosterURL != PlaceholderTimeout {
		t.Errorf("items[1].poster_url = %q, want %q", payload.Items[1].PosterURL, PlaceholderTimeout)
	}
}

func TestGetRecommendationsMissingTitle(t *testing.T) {
	h := newTestHandler(t, &fakePoster{})

	rec := httptest.NewRecorder()
	h.GetRecommendations(rec, httptest.NewRequest(http.MethodGet, "/api/v1/recommendations", nil))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}

	status, _, apiErr := decodeResponse(t, rec.Body.Bytes())
	if status != "error" {
		t.Errorf("status = %q, want error", status)
	}
	if apiErr == nil || apiErr.Code != "VALIDATION_ERROR" {
		t.Errorf("error = %+v, want code VALIDATION_ERROR", apiErr)
	}
}

func TestGetRecommendationsUnknownTitle(t *testing.T) {
	h := newTestHandler(t, &fakePoster{})

	rec := httptest.NewRecorder()
	h.GetRecommendations(rec, httptest.NewRequest(http.MethodGet, "/api/v1/recommendations?title=Nope", nil))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusNotFound)
	}

	status, _, apiErr := decodeResponse(t, rec.Body.Bytes())
	if status != "error" {
		t.Errorf("status = %q, want error", status)
	}
	if apiErr == nil || apiErr.Code != "TITLE_NOT_FOUND" {
		t.Fatalf("error = %+v, want code TITLE_NOT_FOUND", apiErr)
	}
	if apiErr.Details["title"] != "Nope" {
		t.Errorf("details.title = %v, want Nope", apiErr.Details["title"])
	}
}

func TestGetRecommendationsKCapped(t *testing.T) {
	h := newTestHandler(t, &fakePoster{urls: map[int]string{
		78:  "u1",
		348: "u2",
	}})
	h.maxK = 1

	rec := httptest.NewRecorder()
	h.GetRecommendations(rec, httptest.NewRequest(http.MethodGet, "/api/v1/recommendations?title=The+Matrix&k=100", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	_, data, _ := decodeResponse(t, rec.Body.Bytes())
	var payload models.RecommendationsResponse
	if err := json.Unmarshal(data, &payload); err != nil {
		t.Fatal(err)
	}
	if payload.Count != 1 {
		t.Errorf("count = %d, want 1 (capped)", payload.Count)
	}
}

func TestGetHealth(t *testing.T) {
	h := newTestHandler(t, &fakePoster{})

	rec := httptest.NewRecorder()
	h.GetHealth(rec, httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	_, data, _ := decodeResponse(t, rec.Body.Bytes())
	var payload models.HealthResponse
	if err := json.Unmarshal(data, &payload); err != nil {
		t.Fatal(err)
	}
	if payload.Status != "ok" {
		t.Errorf("health status = %q, want ok", payload.Status)
	}
	if payload.CatalogSize != 3 {
		t.Errorf("catalog_size = %d, want 3", payload.CatalogSize)
	}
}

func TestRouterRoutes(t *testing.T) {
	h := newTestHandler(t, &fakePoster{urls: map[int]string{78: "u1", 348: "u2"}})
	cfg := &config.Config{
		Security: config.SecurityConfig{
			RateLimitReqs:   100,
			RateLimitWindow: time.Minute,
			CORSOrigins:     []string{"*"},
		},
	}
	router := NewRouter(h, cfg)

	srv := httptest.NewServer(router)
	defer srv.Close()

	tests := []struct {
		name       string
		path       string
		wantStatus int
	}{
		{"movies", "/api/v1/movies", http.StatusOK},
		{"recommendations", "/api/v1/recommendations?title=Alien", http.StatusOK},
		{"health", "/api/v1/health", http.StatusOK},
		{"metrics", "/metrics", http.StatusOK},
		{"unknown route", "/api/v1/nope", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := http.Get(srv.URL + tt.path)
			if err != nil {
				t.Fatal(err)
			}
			defer resp.Body.Close()
			if resp.StatusCode != tt.wantStatus {
				t.Errorf("GET %s status = %d, want %d", tt.path, resp.StatusCode, tt.wantStatus)
			}
		})
	}
}
