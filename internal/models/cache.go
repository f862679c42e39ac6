// Khaboki - Restaurant Discovery and Delivery Comparison
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/khaboki

package models

import "time"

// CacheEntry is the single persisted search result.
type CacheEntry struct {
	Results   ResultSet     `json:"results"`
	Location  Location      `json:"location"`
	QueryText string        `json:"query_text"`
	Filters   *FilterConfig `json:"filters,omitempty"`
	SavedAt   time.Time     `json:"saved_at"`
}

// CacheInfo summarizes the cache for display. AgeMinutes and QueryText are
// only set when HasCache is true.
type CacheInfo struct {
	HasCache   bool   `json:"has_cache"`
	AgeMinutes *int   `json:"age_minutes,omitempty"`
	QueryText  string `json:"query_text,omitempty"`
}
