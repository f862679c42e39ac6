// Khaboki - Restaurant Discovery and Delivery Comparison
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/khaboki

package config

import (
	"fmt"
	"net/url"
	"time"
)

const (
	minRateLimitRequests = 1
	maxRateLimitRequests = 100000
	minRateLimitWindow   = time.Second
	maxRateLimitWindow   = time.Hour
)

var validLogLevels = map[string]bool{
	"trace": true, "debug": true, "info": true, "warn": true, "error": true,
}

var validLogFormats = map[string]bool{
	"json": true, "console": true,
}

// Validate checks that configuration values are usable.
func (c *Config) Validate() error {
	if err := c.validateServer(); err != nil {
		return err
	}
	if err := c.validateScraper(); err != nil {
		return err
	}
	if err := c.validateCache(); err != nil {
		return err
	}
	if err := c.validateRating(); err != nil {
		return err
	}
	if err := c.validateSearch(); err != nil {
		return err
	}
	if err := c.validateSurprise(); err != nil {
		return err
	}
	if err := c.validateRateLimits(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535")
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("HTTP_TIMEOUT must be positive")
	}
	if c.Server.WriteTimeout < c.Scraper.Timeout {
		return fmt.Errorf("HTTP_WRITE_TIMEOUT (%v) must be at least SCRAPER_TIMEOUT (%v)", c.Server.WriteTimeout, c.Scraper.Timeout)
	}
	return nil
}

func (c *Config) validateScraper() error {
	if err := validateHTTPURL(c.Scraper.BaseURL, "SCRAPER_URL"); err != nil {
		return err
	}
	if c.Scraper.Timeout <= 0 {
		return fmt.Errorf("SCRAPER_TIMEOUT must be positive")
	}
	return nil
}

func (c *Config) validateCache() error {
	if !c.Cache.InMemory && c.Cache.Path == "" {
		return fmt.Errorf("CACHE_PATH is required unless CACHE_IN_MEMORY=true")
	}
	if c.Cache.TTL <= 0 {
		return fmt.Errorf("CACHE_TTL must be positive")
	}
	if c.Cache.LocationTolerance < 0 || c.Cache.LocationTolerance > 1 {
		return fmt.Errorf("CACHE_LOCATION_TOLERANCE must be between 0 and 1 degrees")
	}
	return nil
}

func (c *Config) validateRating() error {
	for platform, p := range c.Rating.Priors() {
		if p.Average < 0 || p.Average > 5 {
			return fmt.Errorf("rating prior %s: average must be between 0 and 5, got %v", platform, p.Average)
		}
		if p.Count <= 0 {
			return fmt.Errorf("rating prior %s: count must be positive, got %v", platform, p.Count)
		}
	}
	return nil
}

func (c *Config) validateSearch() error {
	if c.Search.DefaultLatitude < -90 || c.Search.DefaultLatitude > 90 {
		return fmt.Errorf("SEARCH_DEFAULT_LAT must be between -90 and 90")
	}
	if c.Search.DefaultLongitude < -180 || c.Search.DefaultLongitude > 180 {
		return fmt.Errorf("SEARCH_DEFAULT_LNG must be between -180 and 180")
	}
	if c.Search.Timeout <= 0 {
		return fmt.Errorf("SEARCH_TIMEOUT must be positive")
	}
	return nil
}

func (c *Config) validateSurprise() error {
	if !c.Surprise.AIEnabled() {
		return nil
	}
	if err := validateHTTPURL(c.Surprise.BaseURL, "GEMINI_BASE_URL"); err != nil {
		return err
	}
	if c.Surprise.Model == "" {
		return fmt.Errorf("GEMINI_MODEL is required when GEMINI_API_KEY is set")
	}
	if c.Surprise.RequestsPerMinute < 1 {
		return fmt.Errorf("SURPRISE_REQUESTS_PER_MINUTE must be at least 1")
	}
	return nil
}

func (c *Config) validateRateLimits() error {
	if c.Security.RateLimitDisabled {
		return nil
	}
	if c.Security.RateLimitReqs < minRateLimitRequests || c.Security.RateLimitReqs > maxRateLimitRequests {
		return fmt.Errorf("RATE_LIMIT_REQUESTS must be between %d and %d", minRateLimitRequests, maxRateLimitRequests)
	}
	if c.Security.RateLimitWindow < minRateLimitWindow || c.Security.RateLimitWindow > maxRateLimitWindow {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be between %v and %v", minRateLimitWindow, maxRateLimitWindow)
	}
	return nil
}

func (c *Config) validateLogging() error {
	if !validLogLevels[c.Logging.Level] {
		return fmt.Errorf("LOG_LEVEL must be one of: trace, debug, info, warn, error")
	}
	if c.Logging.Format != "" && !validLogFormats[c.Logging.Format] {
		return fmt.Errorf("LOG_FORMAT must be one of: json, console")
	}
	return nil
}

func validateHTTPURL(rawURL, fieldName string) error {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("%s failed to parse URL: %w", fieldName, err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("%s scheme must be http or https, got: %q", fieldName, parsed.Scheme)
	}
	if parsed.Host == "" {
		return fmt.Errorf("%s host is required", fieldName)
	}
	if parsed.Path != "" && parsed.Path != "/" {
		return fmt.Errorf("%s should be base URL only, remove path: %s", fieldName, parsed.Path)
	}
	if parsed.RawQuery != "" {
		return fmt.Errorf("%s should not contain query parameters", fieldName)
	}
	return nil
}
