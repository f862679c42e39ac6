// Khaboki - Restaurant Discovery and Delivery Comparison
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/khaboki

// Package config loads Khaboki configuration.
//
// Values are layered with koanf: struct defaults, then an optional YAML file
// (CONFIG_PATH or one of DefaultConfigPaths), then environment variables. A
// .env file in the working directory is read into the environment first so
// local API keys do not need to be exported by hand.
package config

import "time"

// Config is the root configuration.
type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Scraper  ScraperConfig  `koanf:"scraper"`
	Cache    CacheConfig    `koanf:"cache"`
	Rating   RatingConfig   `koanf:"rating"`
	Search   SearchConfig   `koanf:"search"`
	Surprise SurpriseConfig `koanf:"surprise"`
	Security SecurityConfig `koanf:"security"`
	Logging  LoggingConfig  `koanf:"logging"`
}

// ServerConfig controls the local HTTP listener.
type ServerConfig struct {
	Port    int           `koanf:"port"`
	Host    string        `koanf:"host"`
	Timeout time.Duration `koanf:"timeout"`
	// WriteTimeout must outlast a full scrape, which the backend runs synchronously.
	WriteTimeout time.Duration `koanf:"write_timeout"`
	Environment  string        `koanf:"environment"`
}

// ScraperConfig points at the scraping backend.
type ScraperConfig struct {
	BaseURL        string        `koanf:"base_url"`
	Timeout        time.Duration `koanf:"timeout"`
	BreakerEnabled bool          `koanf:"breaker_enabled"`
}

// CacheConfig controls the single-slot result cache.
type CacheConfig struct {
	Path              string        `koanf:"path"`
	InMemory          bool          `koanf:"in_memory"`
	TTL               time.Duration `koanf:"ttl"`
	LocationTolerance float64       `koanf:"location_tolerance"`
	GCInterval        time.Duration `koanf:"gc_interval"`
}

// PriorConfig is a Bayesian prior: the platform's typical rating and the
// number of pseudo-reviews it is worth.
type PriorConfig struct {
	Average float64 `koanf:"average"`
	Count   float64 `koanf:"count"`
}

// RatingConfig holds the priors used by rating normalization. All applies
// to any platform without its own entry and to cross-platform sorting.
type RatingConfig struct {
	Foodpanda PriorConfig `koanf:"foodpanda"`
	Foodi     PriorConfig `koanf:"foodi"`
	All       PriorConfig `koanf:"all"`
}

// Priors returns the table keyed by platform name.
func (r RatingConfig) Priors() map[string]PriorConfig {
	return map[string]PriorConfig{
		"foodpanda": r.Foodpanda,
		"foodi":     r.Foodi,
		"all":       r.All,
	}
}

// SearchConfig holds search defaults.
type SearchConfig struct {
	DefaultLatitude  float64       `koanf:"default_latitude"`
	DefaultLongitude float64       `koanf:"default_longitude"`
	DefaultText      string        `koanf:"default_text"`
	Timeout          time.Duration `koanf:"timeout"`
}

// SurpriseConfig configures the AI restaurant picker. Without an API key
// the picker only uses local random selection.
type SurpriseConfig struct {
	Enabled           bool          `koanf:"enabled"`
	APIKey            string        `koanf:"api_key"`
	BaseURL           string        `koanf:"base_url"`
	Model             string        `koanf:"model"`
	Timeout           time.Duration `koanf:"timeout"`
	RequestsPerMinute int           `koanf:"requests_per_minute"`
}

// AIEnabled reports whether the remote selector should be wired.
func (s SurpriseConfig) AIEnabled() bool {
	return s.Enabled && s.APIKey != ""
}

// SecurityConfig covers CORS and rate limiting.
type SecurityConfig struct {
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
	CORSOrigins       []string      `koanf:"cors_origins"`
}

// LoggingConfig mirrors logging.Config.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// IsProduction reports whether the environment is production.
func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}
