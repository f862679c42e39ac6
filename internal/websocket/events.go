// Khaboki - Restaurant Discovery and Delivery Comparison
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/khaboki

package websocket

import (
	"time"

	"github.com/tomtom215/khaboki/internal/models"
)

// SearchEventData is sent with search_started, search_completed and
// search_failed.
type SearchEventData struct {
	Query      string           `json:"query"`
	Location   *models.Location `json:"location,omitempty"`
	Source     string           `json:"source,omitempty"` // cache, scrape
	Counts     map[string]int   `json:"counts,omitempty"`
	DurationMs int64            `json:"duration_ms,omitempty"`
	Error      string           `json:"error,omitempty"`
	Timestamp  string           `json:"timestamp"`
}

// CacheEventData is sent with cache_hit and cache_cleared.
type CacheEventData struct {
	Query      string `json:"query,omitempty"`
	AgeMinutes *int   `json:"age_minutes,omitempty"`
	Timestamp  string `json:"timestamp"`
}

// CompareEventData is sent with compare_updated.
type CompareEventData struct {
	Keys      []string `json:"keys"`
	Ready     bool     `json:"ready"`
	Remaining int      `json:"remaining"`
}

// SurpriseEventData is sent with surprise_selected.
type SurpriseEventData struct {
	Name        string `json:"name"`
	Platform    string `json:"platform"`
	Source      string `json:"source"`
	HistorySize int    `json:"history_size"`
}

func now() string { return time.Now().UTC().Format(time.RFC3339) }

// BroadcastSearchStarted announces a scrape for query.
func (h *Hub) BroadcastSearchStarted(query string, loc models.Location) {
	h.BroadcastJSON(MessageTypeSearchStarted, SearchEventData{Query: query, Location: &loc, Timestamp: now()})
}

// BroadcastSearchCompleted announces fresh results.
func (h *Hub) BroadcastSearchCompleted(query, source string, counts map[string]int, duration time.Duration) {
	h.BroadcastJSON(MessageTypeSearchCompleted, SearchEventData{
		Query:      query,
		Source:     source,
		Counts:     counts,
		DurationMs: duration.Milliseconds(),
		Timestamp:  now(),
	})
}

// BroadcastSearchFailed announces a failed scrape with its error message.
func (h *Hub) BroadcastSearchFailed(query string, err error) {
	data := SearchEventData{Query: query, Timestamp: now()}
	if err != nil {
		data.Error = err.Error()
	}
	h.BroadcastJSON(MessageTypeSearchFailed, data)
}

// BroadcastCacheHit announces that a search was answered from cache.
func (h *Hub) BroadcastCacheHit(query string, ageMinutes *int) {
	h.BroadcastJSON(MessageTypeCacheHit, CacheEventData{Query: query, AgeMinutes: ageMinutes, Timestamp: now()})
}

// BroadcastCacheCleared announces that the result cache was emptied.
func (h *Hub) BroadcastCacheCleared() {
	h.BroadcastJSON(MessageTypeCacheCleared, CacheEventData{Timestamp: now()})
}

// BroadcastCompareUpdated announces the new compare selection.
func (h *Hub) BroadcastCompareUpdated(data CompareEventData) {
	h.BroadcastJSON(MessageTypeCompareUpdated, data)
}

// BroadcastSurpriseSelected announces a surprise pick.
func (h *Hub) BroadcastSurpriseSelected(data SurpriseEventData) {
	h.BroadcastJSON(MessageTypeSurpriseSelected, data)
}
