// Khaboki - Restaurant Discovery and Delivery Comparison
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/khaboki

package api

import (
	"net/http"
	"time"

	"github.com/tomtom215/khaboki/internal/logging"
)

// CacheInfo handles GET /cache.
//
// @Summary Result cache status
// @Tags Cache
// @Produce json
// @Success 200 {object} models.APIResponse{data=models.CacheInfo}
// @Router /cache [get]
func (h *Handler) CacheInfo(w http.ResponseWriter, r *http.Request) {
	respondSuccess(w, h.search.CacheInfo(r.Context()), time.Time{}, false)
}

// CacheClear handles DELETE /cache. The results on screen are kept; only
// the persisted entry is removed.
//
// @Summary Clear the result cache
// @Tags Cache
// @Produce json
// @Success 200 {object} models.APIResponse{data=models.CacheInfo}
// @Router /cache [delete]
func (h *Handler) CacheClear(w http.ResponseWriter, r *http.Request) {
	h.search.ClearCache(r.Context())
	logging.Ctx(r.Context()).Info().Msg("Result cache cleared")
	respondSuccess(w, h.search.CacheInfo(r.Context()), time.Time{}, false)
}
