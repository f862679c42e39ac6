// Khaboki - Restaurant Discovery and Delivery Comparison
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/khaboki

package models

// ScrapeRequest is the body of POST /scrape on the scraping backend.
type ScrapeRequest struct {
	Lat  float64 `json:"lat"`
	Lng  float64 `json:"lng"`
	Text string  `json:"text"`
}

// ScrapeResponse is the envelope the backend returns from POST /scrape.
type ScrapeResponse struct {
	Success bool      `json:"success"`
	Results ResultSet `json:"results,omitempty"`
	Error   string    `json:"error,omitempty"`
}

// DatasetStats is returned by GET /dataset/stats.
type DatasetStats struct {
	TotalRestaurants  int            `json:"total_restaurants"`
	PlatformBreakdown map[string]int `json:"platform_breakdown"`
	LastUpdated       string         `json:"last_updated"`
	TopCuisines       map[string]int `json:"top_cuisines,omitempty"`
}
