// Reelpick - Content-Based Movie Recommendation Service
// Copyright 2026 Reelpick contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelpick/reelpick

// Package catalog loads the movie catalog and its precomputed pairwise
// similarity matrix from disk.
//
// Both files are produced by an offline preparation pipeline and are treated
// as opaque, read-only inputs: they are loaded exactly once at startup and
// never mutated afterwards, so the Catalog is safe for concurrent readers
// without locking. A missing or malformed model file is a fatal startup
// condition for the process.
package catalog

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/goccy/go-json"
)

// Model file names within the model directory.
const (
	MovieListFile  = "movie_list.json"
	SimilarityFile = "similarity.json"
)

// Entry is a single catalog record. Position in the catalog equals the
// entry's row index in the similarity matrix.
type Entry struct {
	// MovieID is the TMDB identifier used for poster lookups.
	MovieID int `json:"movie_id"`

	// Title is the display title. Uniqueness is not enforced; lookups
	// resolve to the first matching row.
	Title string `json:"title"`
}

// Catalog holds the ordered movie list and the square similarity matrix,
// immutable once loaded.
type Catalog struct {
	entries    []Entry
	similarity [][]float64

	// titleIndex maps each title to its first occurring row index.
	titleIndex map[string]int
}

// Load reads the catalog and similarity matrix from dir.
//
// It validates the invariant the model files must satisfy: the matrix is
// square and its row count equals the catalog size. A mismatch would silently
// corrupt rankings, so it is rejected at load time.
func Load(dir string) (*Catalog, error) {
	var entries []Entry
	if err := readJSONFile(filepath.Join(dir, MovieListFile), &entries); err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("catalog %s is empty", MovieListFile)
	}

	var similarity [][]float64
	if err := readJSONFile(filepath.Join(dir, SimilarityFile), &similarity); err != nil {
		return nil, err
	}

	if len(similarity) != len(entries) {
		return nil, fmt.Errorf("similarity matrix has %d rows, catalog has %d entries", len(similarity), len(entries))
	}
	for i, row := range similarity {
		if len(row) != len(entries) {
			return nil, fmt.Errorf("similarity matrix row %d has %d columns, want %d", i, len(row), len(entries))
		}
	}

	titleIndex := make(map[string]int, len(entries))
	for i, e := range entries {
		// First occurrence wins for duplicate titles.
		if _, exists := titleIndex[e.Title]; !exists {
			titleIndex[e.Title] = i
		}
	}

	return &Catalog{
		entries:    entries,
		similarity: similarity,
		titleIndex: titleIndex,
	}, nil
}

// readJSONFile decodes a JSON model file into v.
func readJSONFile(path string, v interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read model file %s: %w", path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to decode model file %s: %w", path, err)
	}
	return nil
}

// Size returns the number of catalog entries.
func (c *Catalog) Size() int {
	return len(c.entries)
}

// Entry returns the catalog entry at row index i.
func (c *Catalog) Entry(i int) Entry {
	return c.entries[i]
}

// Titles returns all titles in catalog order.
func (c *Catalog) Titles() []string {
	titles := make([]string, len(c.entries))
	for i, e := range c.entries {
		titles[i] = e.Title
	}
	return titles
}

// IndexOfTitle returns the row index of the first entry whose title matches
// exactly (case-sensitive). The second return value is false if no entry
// matches.
func (c *Catalog) IndexOfTitle(title string) (int, bool) {
	i, ok := c.titleIndex[title]
	return i, ok
}

// SimilarityRow returns the similarity scores of row i against every catalog
// row. The returned slice is shared, not copied; callers must not mutate it.
func (c *Catalog) SimilarityRow(i int) []float64 {
	return c.similarity[i]
}
