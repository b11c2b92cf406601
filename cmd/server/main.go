// Reelpick - Content-Based Movie Recommendation Service
// Copyright 2026 Reelpick contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelpick/reelpick

// Command server runs the Reelpick recommendation API.
//
// Startup order matters: configuration and logging come first, then the
// catalog load. The catalog is the process's reason to exist, so a missing or
// malformed model directory aborts startup instead of serving empty results.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/reelpick/reelpick/internal/api"
	"github.com/reelpick/reelpick/internal/catalog"
	"github.com/reelpick/reelpick/internal/config"
	"github.com/reelpick/reelpick/internal/logging"
	"github.com/reelpick/reelpick/internal/metrics"
	"github.com/reelpick/reelpick/internal/poster"
	"github.com/reelpick/reelpick/internal/recommend"
)

// version is set at build time via -ldflags.
var version = "dev"

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		os.Exit(1)
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	logging.Info().
		Str("version", version).
		Str("model_dir", cfg.Model.Dir).
		Msg("Starting Reelpick")

	cat, err := catalog.Load(cfg.Model.Dir)
	if err != nil {
		logging.Fatal().Err(err).Str("model_dir", cfg.Model.Dir).Msg("Failed to load model files")
	}
	metrics.CatalogSize.Set(float64(cat.Size()))
	logging.Info().Int("catalog_size", cat.Size()).Msg("Catalog loaded")

	engine := recommend.NewEngine(cat, logging.Logger())

	posters := poster.NewClient(poster.Config{
		BaseURL:      cfg.TMDB.BaseURL,
		APIKey:       cfg.TMDB.APIKey,
		Language:     cfg.TMDB.Language,
		ImageBaseURL: cfg.TMDB.ImageBaseURL,
		Timeout:      cfg.TMDB.Timeout,
	}, logging.Logger())

	handler := api.NewHandler(cat, engine, posters, cfg.Recommend.TopK, cfg.Recommend.MaxK, version)
	router := api.NewRouter(handler, cfg)

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
		IdleTimeout:  2 * cfg.Server.Timeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logging.Info().Str("addr", srv.Addr).Msg("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logging.Info().Str("signal", sig.String()).Msg("Shutdown signal received")
	case err := <-errCh:
		logging.Error().Err(err).Msg("HTTP server failed")
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logging.Error().Err(err).Msg("Graceful shutdown failed")
		_ = srv.Close()
	}

	logging.Info().Msg("Server stopped")
}
