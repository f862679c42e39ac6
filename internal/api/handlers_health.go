// Khaboki - Restaurant Discovery and Delivery Comparison
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/khaboki

package api

import (
	"net/http"
	"time"

	"github.com/tomtom215/khaboki/internal/models"
)

// Version is reported by the health endpoint. Overridden at build time.
var Version = "dev"

// Health handles GET /health.
//
// @Summary Health status
// @Description Reports scrape backend connectivity, circuit breaker state, result cache status and uptime
// @Tags Core
// @Produce json
// @Success 200 {object} models.APIResponse{data=models.HealthStatus} "Health status retrieved successfully"
// @Router /health [get]
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	backendUp := h.backend != nil && h.backend.Ping(r.Context()) == nil

	status := "healthy"
	if !backendUp {
		status = "degraded"
	}

	health := models.HealthStatus{
		Status:           status,
		Version:          Version,
		BackendConnected: backendUp,
		Cache:            h.search.CacheInfo(r.Context()),
		Uptime:           time.Since(h.startTime).Seconds(),
	}
	if bs, ok := h.backend.(breakerStater); ok {
		health.BreakerState = bs.State()
	}
	if _, ok := h.search.Current(); ok {
		health.HasResults = true
	}
	if h.hub != nil {
		health.WSClients = h.hub.GetClientCount()
	}

	respondSuccess(w, health, time.Time{}, false)
}

// HealthLive returns 200 while the process is alive, regardless of
// dependencies.
//
// @Summary Liveness probe
// @Tags Core
// @Produce json
// @Success 200 {object} models.APIResponse "Service is alive"
// @Router /health/live [get]
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	respondSuccess(w, map[string]interface{}{
		"alive":  true,
		"uptime": time.Since(h.startTime).Seconds(),
	}, time.Time{}, false)
}

// HealthReady returns 200 only when the scrape backend answers.
//
// @Summary Readiness probe
// @Tags Core
// @Produce json
// @Success 200 {object} models.APIResponse "Service is ready"
// @Failure 503 {object} models.APIResponse "Service is not ready"
// @Router /health/ready [get]
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	ready := h.backend != nil && h.backend.Ping(r.Context()) == nil

	statusCode := http.StatusOK
	status := "ready"
	if !ready {
		statusCode = http.StatusServiceUnavailable
		status = "not_ready"
	}

	respondJSON(w, statusCode, &models.APIResponse{
		Status: status,
		Data: map[string]interface{}{
			"backend_connected": ready,
			"ready_to_serve":    ready,
			"uptime":            time.Since(h.startTime).Seconds(),
		},
		Metadata: models.Metadata{Timestamp: time.Now().UTC()},
	})
}
