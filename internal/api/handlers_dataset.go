// Khaboki - Restaurant Discovery and Delivery Comparison
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/khaboki

package api

import (
	"io"
	"net/http"
	"time"

	"github.com/tomtom215/khaboki/internal/breaker"
	"github.com/tomtom215/khaboki/internal/logging"
)

// DatasetStats handles GET /dataset/stats.
//
// @Summary Scrape backend dataset statistics
// @Tags Dataset
// @Produce json
// @Success 200 {object} models.APIResponse{data=models.DatasetStats}
// @Failure 502 {object} models.APIResponse "Backend failed"
// @Failure 503 {object} models.APIResponse "Backend unavailable"
// @Router /dataset/stats [get]
func (h *Handler) DatasetStats(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	stats, err := h.backend.Stats(r.Context())
	if err != nil {
		h.respondBackendError(w, err, "Failed to load dataset statistics")
		return
	}
	respondSuccess(w, stats, start, false)
}

// DatasetExport handles GET /dataset/export?format=json|csv. The backend's
// file is streamed through with its content headers.
//
// @Summary Download the scraped dataset
// @Tags Dataset
// @Produce json,text/csv
// @Param format query string false "json or csv (default json)"
// @Success 200 {file} file
// @Failure 400 {object} models.APIResponse "Invalid format"
// @Failure 502 {object} models.APIResponse "Backend failed"
// @Router /dataset/export [get]
func (h *Handler) DatasetExport(w http.ResponseWriter, r *http.Request) {
	q := ExportQuery{Format: r.URL.Query().Get("format")}
	if q.Format == "" {
		q.Format = "json"
	}
	if apiErr := validateRequest(&q); apiErr != nil {
		respondAPIError(w, http.StatusBadRequest, apiErr)
		return
	}

	file, err := h.backend.Export(r.Context(), q.Format)
	if err != nil {
		h.respondBackendError(w, err, "Failed to export dataset")
		return
	}
	defer file.Body.Close()

	if file.ContentType != "" {
		w.Header().Set("Content-Type", file.ContentType)
	}
	if file.ContentDisposition != "" {
		w.Header().Set("Content-Disposition", file.ContentDisposition)
	}
	w.WriteHeader(http.StatusOK)
	n, err := io.Copy(w, file.Body)
	if err != nil {
		logging.Ctx(r.Context()).Warn().Err(err).Int64("bytes", n).Msg("Dataset export interrupted")
		return
	}
	logging.Ctx(r.Context()).Info().Str("format", q.Format).Int64("bytes", n).Msg("Dataset exported")
}

func (h *Handler) respondBackendError(w http.ResponseWriter, err error, message string) {
	if breaker.IsRejected(err) {
		respondError(w, http.StatusServiceUnavailable, CodeServiceUnavailable, "Scrape backend is temporarily unavailable", err)
		return
	}
	respondError(w, http.StatusBadGateway, CodeExternalFailed, message, err)
}
