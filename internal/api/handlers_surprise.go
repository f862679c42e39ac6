// Khaboki - Restaurant Discovery and Delivery Comparison
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/khaboki

package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/tomtom215/khaboki/internal/surprise"
	"github.com/tomtom215/khaboki/internal/websocket"
)

// Surprise handles POST /surprise.
//
// @Summary Pick one restaurant from the current results
// @Description Asks the AI selector when configured and falls back to a uniform random pick. With exclude_previous, earlier suggestions are skipped until every restaurant has been shown.
// @Tags Surprise
// @Accept json
// @Produce json
// @Param request body SurpriseRequest false "Preferences"
// @Success 200 {object} models.APIResponse{data=SurpriseView}
// @Failure 400 {object} models.APIResponse "Invalid request"
// @Failure 404 {object} models.APIResponse "No results to pick from"
// @Router /surprise [post]
func (h *Handler) Surprise(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req SurpriseRequest
	if err := decodeStrictJSONBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, CodeBadRequest, "Invalid JSON body: "+err.Error(), err)
		return
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondAPIError(w, http.StatusBadRequest, apiErr)
		return
	}

	snap, ok := h.search.Current()
	if !ok {
		respondError(w, http.StatusNotFound, CodeNoResults, "Search for restaurants first", nil)
		return
	}

	sel, err := h.picker.Pick(r.Context(), snap.Results, req.preferences(), req.ExcludePrevious)
	if errors.Is(err, surprise.ErrNoRestaurants) {
		respondError(w, http.StatusNotFound, CodeNoResults, "No restaurants to pick from", nil)
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, CodeInternal, "Failed to pick a restaurant", err)
		return
	}

	h.compareMu.Lock()
	view := h.viewLocked(sel.Restaurant)
	h.compareMu.Unlock()

	if h.hub != nil {
		h.hub.BroadcastSurpriseSelected(websocket.SurpriseEventData{
			Name:        sel.Restaurant.Name,
			Platform:    sel.Restaurant.Platform,
			Source:      string(sel.Source),
			HistorySize: sel.HistorySize,
		})
	}

	respondSuccess(w, SurpriseView{
		Restaurant:    view,
		Source:        string(sel.Source),
		PreviousCount: sel.HistorySize,
	}, start, false)
}

// SurpriseReset handles DELETE /surprise/history.
//
// @Summary Forget previous suggestions
// @Tags Surprise
// @Produce json
// @Success 200 {object} models.APIResponse
// @Router /surprise/history [delete]
func (h *Handler) SurpriseReset(w http.ResponseWriter, r *http.Request) {
	h.picker.Reset()
	respondSuccess(w, map[string]int{"previous_count": 0}, time.Time{}, false)
}
