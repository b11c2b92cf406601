// Reelpick - Content-Based Movie Recommendation Service
// Copyright 2026 Reelpick contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelpick/reelpick

// Package poster resolves poster image URLs through the TMDB movie metadata
// API.
//
// Each fetch is a single bounded attempt: no retries, no backoff, no caching.
// Failures never propagate as opaque errors; they carry a Kind so the caller
// can substitute the matching placeholder image while the rest of a
// recommendation render completes.
package poster

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/reelpick/reelpick/internal/metrics"
)

// Defaults for the TMDB endpoints.
const (
	DefaultBaseURL      = "https://api.themoviedb.org/3"
	DefaultImageBaseURL = "https://image.tmdb.org/t/p/w500/"
	DefaultLanguage     = "en-US"
	DefaultTimeout      = 10 * time.Second
)

// maxErrorBodySize limits how much of an error response body is read for
// diagnostics.
const maxErrorBodySize = 64 * 1024 // 64KB

// Config holds poster client settings.
type Config struct {
	// BaseURL is the TMDB API base URL.
	BaseURL string

	// APIKey is the TMDB API key sent as the api_key query parameter.
	APIKey string

	// Language is the metadata locale.
	Language string

	// ImageBaseURL is the CDN prefix composed with poster_path.
	ImageBaseURL string

	// Timeout bounds each fetch attempt.
	Timeout time.Duration
}

// Client fetches poster URLs from TMDB. Safe for concurrent use.
type Client struct {
	baseURL      string
	apiKey       string
	language     string
	imageBaseURL string
	client       *http.Client
	logger       zerolog.Logger
}

// movieResponse is the subset of GET /movie/{id} the client decodes.
// poster_path is nullable in the TMDB schema.
type movieResponse struct {
	PosterPath *string `json:"poster_path"`
}

// NewClient creates a poster client, applying defaults for unset fields.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewClient(cfg Config, logger zerolog.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Language == "" {
		cfg.Language = DefaultLanguage
	}
	if cfg.ImageBaseURL == "" {
		cfg.ImageBaseURL = DefaultImageBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	return &Client{
		baseURL:      cfg.BaseURL,
		apiKey:       cfg.APIKey,
		language:     cfg.Language,
		imageBaseURL: cfg.ImageBaseURL,
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
		logger: logger.With().Str("component", "poster").Logger(),
	}
}

// FetchPoster performs one GET against the TMDB movie endpoint and returns
// the composed CDN poster URL.
//
// On failure it returns a *FetchError whose Kind identifies the category
// (timeout, connection, request, no-poster, unknown) and logs a diagnostic.
// Deterministic backends yield deterministic results: the same movieID
// always produces the same URL or the same failure kind.
func (c *Client) FetchPoster(ctx context.Context, movieID int) (string, error) {
	start := time.Now()
	posterURL, err := c.fetch(ctx, movieID)

	outcome := "success"
	if err != nil {
		outcome = KindOf(err).String()
	}
	metrics.PosterFetchTotal.WithLabelValues(outcome).Inc()
	metrics.PosterFetchDuration.Observe(time.Since(start).Seconds())

	if err != nil {
		c.logFailure(movieID, err)
		return "", err
	}
	return posterURL, nil
}

// fetch performs the single request attempt.
func (c *Client) fetch(ctx context.Context, movieID int) (string, error) {
	params := url.Values{}
	params.Set("api_key", c.apiKey)
	params.Set("language", c.language)
	reqURL := fmt.Sprintf("%s/movie/%d?%s", c.baseURL, movieID, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
	if err != nil {
		return "", &FetchError{Kind: KindRequest, MovieID: movieID, Err: err}
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return "", &FetchError{Kind: classifyTransport(err), MovieID: movieID, Err: err}
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body := readBodyForError(resp.Body)
		return "", &FetchError{
			Kind:    KindRequest,
			MovieID: movieID,
			Err:     fmt.Errorf("unexpected status %d: %s", resp.StatusCode, body),
		}
	}

	var movie movieResponse
	if err := json.NewDecoder(resp.Body).Decode(&movie); err != nil {
		return "", &FetchError{Kind: KindRequest, MovieID: movieID, Err: fmt.Errorf("failed to decode response: %w", err)}
	}

	if movie.PosterPath == nil || *movie.PosterPath == "" {
		return "", &FetchError{Kind: KindNoPoster, MovieID: movieID}
	}

	return c.imageBaseURL + *movie.PosterPath, nil
}

// logFailure emits the per-category diagnostic for a failed fetch.
func (c *Client) logFailure(movieID int, err error) {
	kind := KindOf(err)
	event := c.logger.Warn()
	if kind != KindNoPoster {
		event = c.logger.Error().Err(err)
	}
	event.
		Int("movie_id", movieID).
		Str("kind", kind.String()).
		Msg("poster fetch failed")
}

// readBodyForError reads a bounded amount of the response body for error
// reporting.
func readBodyForError(r io.Reader) []byte {
	body, err := io.ReadAll(io.LimitReader(r, maxErrorBodySize))
	if err != nil {
		return []byte("(failed to read response body)")
	}
	if len(body) == maxErrorBodySize {
		return append(body, []byte("... (truncated)")...)
	}
	return body
}
