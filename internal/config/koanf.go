// Khaboki - Restaurant Discovery and Delivery Comparison
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/khaboki

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths are searched in order; the first existing file wins.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/khaboki/config.yaml",
}

const (
	// ConfigPathEnvVar overrides the config file location.
	ConfigPathEnvVar = "CONFIG_PATH"

	// DotEnvPathEnvVar overrides the .env file location.
	DotEnvPathEnvVar = "DOTENV_PATH"
)

func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         5050,
			Host:         "127.0.0.1",
			Timeout:      30 * time.Second,
			WriteTimeout: 5 * time.Minute,
			Environment:  "development",
		},
		Scraper: ScraperConfig{
			BaseURL:        "http://127.0.0.1:5000",
			Timeout:        3 * time.Minute,
			BreakerEnabled: true,
		},
		Cache: CacheConfig{
			Path:              "data/cache",
			TTL:               30 * time.Minute,
			LocationTolerance: 0.001,
			GCInterval:        10 * time.Minute,
		},
		Rating: RatingConfig{
			Foodpanda: PriorConfig{Average: 4.2, Count: 100},
			Foodi:     PriorConfig{Average: 3.8, Count: 50},
			All:       PriorConfig{Average: 4.0, Count: 75},
		},
		Search: SearchConfig{
			DefaultLatitude:  23.8103,
			DefaultLongitude: 90.4125,
			DefaultText:      "Matikata",
			Timeout:          4 * time.Minute,
		},
		Surprise: SurpriseConfig{
			Enabled:           true,
			BaseURL:           "https://generativelanguage.googleapis.com",
			Model:             "gemini-2.0-flash",
			Timeout:           30 * time.Second,
			RequestsPerMinute: 10,
		},
		Security: SecurityConfig{
			RateLimitReqs:   100,
			RateLimitWindow: time.Minute,
			CORSOrigins:     []string{"http://localhost:3000", "http://127.0.0.1:3000"},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// sliceConfigPaths lists keys that may arrive from the environment as
// comma-separated strings.
var sliceConfigPaths = []string{
	"security.cors_origins",
}

// Load builds the configuration from defaults, file and environment, then validates it.
func Load() (*Config, error) {
	if err := loadDotEnv(); err != nil {
		return nil, err
	}

	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if path := findConfigFile(); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// loadDotEnv reads .env into the process environment without overriding
// variables that are already set. A missing file is not an error.
func loadDotEnv() error {
	path := os.Getenv(DotEnvPathEnvVar)
	if path == "" {
		path = ".env"
	}
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

func findConfigFile() string {
	if p := os.Getenv(ConfigPathEnvVar); p != "" {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	for _, p := range DefaultConfigPaths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		raw, ok := k.Get(path).(string)
		if !ok || raw == "" {
			continue
		}
		var items []string
		for _, part := range strings.Split(raw, ",") {
			if part = strings.TrimSpace(part); part != "" {
				items = append(items, part)
			}
		}
		if len(items) == 0 {
			continue
		}
		if err := k.Set(path, items); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}

// envMappings maps lower-cased environment variable names to koanf paths.
// Anything not listed is ignored so unrelated variables cannot leak in.
var envMappings = map[string]string{
	"http_port":          "server.port",
	"http_host":          "server.host",
	"http_timeout":       "server.timeout",
	"http_write_timeout": "server.write_timeout",
	"environment":        "server.environment",

	"scraper_url":             "scraper.base_url",
	"backend_url":             "scraper.base_url",
	"scraper_timeout":         "scraper.timeout",
	"scraper_breaker_enabled": "scraper.breaker_enabled",

	"cache_path":               "cache.path",
	"cache_in_memory":          "cache.in_memory",
	"cache_ttl":                "cache.ttl",
	"cache_location_tolerance": "cache.location_tolerance",
	"cache_gc_interval":        "cache.gc_interval",

	"rating_foodpanda_average": "rating.foodpanda.average",
	"rating_foodpanda_count":   "rating.foodpanda.count",
	"rating_foodi_average":     "rating.foodi.average",
	"rating_foodi_count":       "rating.foodi.count",
	"rating_all_average":       "rating.all.average",
	"rating_all_count":         "rating.all.count",

	"search_default_lat":  "search.default_latitude",
	"search_default_lng":  "search.default_longitude",
	"search_default_text": "search.default_text",
	"search_timeout":      "search.timeout",

	"surprise_enabled":             "surprise.enabled",
	"gemini_api_key":               "surprise.api_key",
	"next_public_gemini_api_key":   "surprise.api_key",
	"gemini_base_url":              "surprise.base_url",
	"gemini_model":                 "surprise.model",
	"surprise_timeout":             "surprise.timeout",
	"surprise_requests_per_minute": "surprise.requests_per_minute",

	"rate_limit_requests": "security.rate_limit_reqs",
	"rate_limit_window":   "security.rate_limit_window",
	"disable_rate_limit":  "security.rate_limit_disabled",
	"cors_origins":        "security.cors_origins",

	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",
}

func envTransformFunc(key string) string {
	return envMappings[strings.ToLower(key)]
}
