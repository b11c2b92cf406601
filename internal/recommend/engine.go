// Reelpick - Content-Based Movie Recommendation Service
// Copyright 2026 Reelpick contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelpick/reelpick

// Package recommend ranks catalog entries by precomputed similarity to a
// query title.
package recommend

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/reelpick/reelpick/internal/catalog"
	"github.com/reelpick/reelpick/internal/metrics"
)

// DefaultK is the number of recommendations returned when the caller does
// not specify one.
const DefaultK = 5

// ErrTitleNotFound indicates the query title has no exact match in the
// catalog. It is a per-request condition, not a fatal one.
var ErrTitleNotFound = errors.New("title not found in catalog")

// Scored is a single ranked recommendation.
type Scored struct {
	// Index is the catalog row index of the recommended entry.
	Index int `json:"-"`

	// MovieID is the TMDB identifier for poster lookups.
	MovieID int `json:"movie_id"`

	// Title is the recommended entry's title.
	Title string `json:"title"`

	// Score is the precomputed similarity to the query entry.
	Score float64 `json:"score"`
}

// Engine answers "more like this" queries against a loaded catalog.
// It holds only read-only state and is safe for concurrent use.
type Engine struct {
	catalog *catalog.Catalog
	logger  zerolog.Logger
}

// NewEngine creates an engine over the given catalog.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewEngine(c *catalog.Catalog, logger zerolog.Logger) *Engine {
	return &Engine{
		catalog: c,
		logger:  logger.With().Str("component", "recommend").Logger(),
	}
}

// Recommend returns up to k entries ranked by descending similarity to the
// entry whose title matches exactly, excluding that entry itself.
//
// Ranking details:
//   - the query row is excluded by index before sorting, so a degenerate
//     matrix where another row ties the self-similarity score cannot push
//     the query into its own results;
//   - the sort is stable, so equal scores keep catalog row order;
//   - duplicate titles resolve to the first catalog row.
//
// An unknown title returns ErrTitleNotFound with empty results. The scan and
// sort run fresh per call; nothing is cached.
func (e *Engine) Recommend(ctx context.Context, title string, k int) ([]Scored, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if k <= 0 {
		k = DefaultK
	}

	start := time.Now()

	queryIdx, ok := e.catalog.IndexOfTitle(title)
	if !ok {
		e.logger.Warn().Str("title", title).Msg("query title not found in catalog")
		metrics.RecommendRequestsTotal.WithLabelValues("not_found").Inc()
		return nil, ErrTitleNotFound
	}

	row := e.catalog.SimilarityRow(queryIdx)

	candidates := make([]Scored, 0, e.catalog.Size()-1)
	for i, score := range row {
		if i == queryIdx {
			continue
		}
		entry := e.catalog.Entry(i)
		candidates = append(candidates, Scored{
			Index:   i,
			MovieID: entry.MovieID,
			Title:   entry.Title,
			Score:   score,
		})
	}

	sort.SliceStable(candidates, func(a, b int) bool {
		return candidates[a].Score > candidates[b].Score
	})

	if len(candidates) > k {
		candidates = candidates[:k]
	}

	metrics.RecommendRequestsTotal.WithLabelValues("ok").Inc()
	metrics.RecommendDuration.Observe(time.Since(start).Seconds())

	e.logger.Debug().
		Str("title", title).
		Int("results", len(candidates)).
		Msg("recommendation computed")

	return candidates, nil
}
