// Khaboki - Restaurant Discovery and Delivery Comparison
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/khaboki

package models

import "time"

// APIResponse is the envelope of every JSON API response.
//
//	{"status": "success", "data": {...}, "metadata": {"timestamp": "..."}}
//	{"status": "error", "data": null, "metadata": {...}, "error": {"code": "...", "message": "..."}}
type APIResponse struct {
	Status   string      `json:"status"`
	Data     interface{} `json:"data"`
	Metadata Metadata    `json:"metadata"`
	Error    *APIError   `json:"error,omitempty"`
}

// Metadata accompanies every response. QueryTimeMS is the time spent
// producing data; Cached marks answers taken from the result cache.
type Metadata struct {
	Timestamp   time.Time `json:"timestamp"`
	QueryTimeMS int64     `json:"query_time_ms,omitempty"`
	Cached      bool      `json:"cached,omitempty"`
}

// APIError is a machine-readable error code with a message for humans.
type APIError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// HealthStatus is the body of GET /health.
type HealthStatus struct {
	Status           string    `json:"status"` // healthy, degraded
	Version          string    `json:"version"`
	BackendConnected bool      `json:"backend_connected"`
	BreakerState     string    `json:"breaker_state,omitempty"`
	Cache            CacheInfo `json:"cache"`
	HasResults       bool      `json:"has_results"`
	WSClients        int       `json:"ws_clients"`
	Uptime           float64   `json:"uptime"`
}
