// Reelpick - Content-Based Movie Recommendation Service
// Copyright 2026 Reelpick contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelpick/reelpick

// Package config loads and validates service configuration using Koanf v2
// with layered sources: built-in defaults, an optional YAML config file, and
// environment variables (highest priority).
package config

import (
	"fmt"
	"net/url"
	"time"
)

// Config is the root configuration for the service.
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Model     ModelConfig     `koanf:"model"`
	TMDB      TMDBConfig      `koanf:"tmdb"`
	Recommend RecommendConfig `koanf:"recommend"`
	Security  SecurityConfig  `koanf:"security"`
	Logging   LoggingConfig   `koanf:"logging"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port    int           `koanf:"port"`
	Host    string        `koanf:"host"`
	Timeout time.Duration `koanf:"timeout"`
}

// ModelConfig locates the persisted catalog and similarity matrix.
type ModelConfig struct {
	// Dir is the directory containing movie_list.json and similarity.json.
	Dir string `koanf:"dir"`
}

// TMDBConfig holds poster fetch settings.
type TMDBConfig struct {
	BaseURL      string        `koanf:"base_url"`
	APIKey       string        `koanf:"api_key"`
	Language     string        `koanf:"language"`
	ImageBaseURL string        `koanf:"image_base_url"`
	Timeout      time.Duration `koanf:"timeout"`
}

// RecommendConfig holds recommendation settings.
type RecommendConfig struct {
	// TopK is the number of recommendations served per query.
	TopK int `koanf:"top_k"`

	// MaxK caps the client-requested k parameter.
	MaxK int `koanf:"max_k"`
}

// SecurityConfig holds rate limiting and CORS settings.
type SecurityConfig struct {
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
	CORSOrigins       []string      `koanf:"cors_origins"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// Validate checks the configuration for values that would make the service
// unusable. It is called by Load; direct construction in tests may call it
// explicitly.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d out of range [1, 65535]", c.Server.Port)
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("server.timeout must be positive, got %v", c.Server.Timeout)
	}
	if c.Model.Dir == "" {
		return fmt.Errorf("model.dir must not be empty")
	}
	if c.TMDB.APIKey == "" {
		return fmt.Errorf("tmdb.api_key must not be empty")
	}
	if _, err := url.Parse(c.TMDB.BaseURL); err != nil || c.TMDB.BaseURL == "" {
		return fmt.Errorf("tmdb.base_url %q is not a valid URL", c.TMDB.BaseURL)
	}
	if c.TMDB.Timeout <= 0 {
		return fmt.Errorf("tmdb.timeout must be positive, got %v", c.TMDB.Timeout)
	}
	if c.Recommend.TopK < 1 {
		return fmt.Errorf("recommend.top_k must be at least 1, got %d", c.Recommend.TopK)
	}
	if c.Recommend.MaxK < c.Recommend.TopK {
		return fmt.Errorf("recommend.max_k %d must be >= recommend.top_k %d", c.Recommend.MaxK, c.Recommend.TopK)
	}
	if !c.Security.RateLimitDisabled {
		if c.Security.RateLimitReqs < 1 {
			return fmt.Errorf("security.rate_limit_reqs must be at least 1, got %d", c.Security.RateLimitReqs)
		}
		if c.Security.RateLimitWindow <= 0 {
			return fmt.Errorf("security.rate_limit_window must be positive, got %v", c.Security.RateLimitWindow)
		}
	}
	return nil
}
