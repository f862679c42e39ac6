// Khaboki - Restaurant Discovery and Delivery Comparison
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/khaboki

package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/tomtom215/khaboki/internal/pipeline"
	"github.com/tomtom215/khaboki/internal/websocket"
)

// CompareGet handles GET /compare.
//
// @Summary Current compare selection
// @Tags Compare
// @Produce json
// @Success 200 {object} models.APIResponse{data=CompareView}
// @Router /compare [get]
func (h *Handler) CompareGet(w http.ResponseWriter, r *http.Request) {
	h.compareMu.Lock()
	view := h.compareViewLocked()
	h.compareMu.Unlock()
	respondSuccess(w, view, time.Time{}, false)
}

// CompareAdd handles POST /compare.
//
// @Summary Add a restaurant to the compare selection
// @Description At most three restaurants can be compared. Identity is name plus platform.
// @Description A duplicate or a fourth restaurant is not added and the response says why.
// @Tags Compare
// @Accept json
// @Produce json
// @Param request body CompareAddRequest true "Restaurant to add"
// @Success 200 {object} models.APIResponse{data=CompareAddView}
// @Failure 400 {object} models.APIResponse "Missing name or platform"
// @Router /compare [post]
func (h *Handler) CompareAdd(w http.ResponseWriter, r *http.Request) {
	var req CompareAddRequest
	if err := decodeJSONBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, CodeBadRequest, "Invalid JSON body", err)
		return
	}
	rest := req.Restaurant
	rest.Name = strings.TrimSpace(rest.Name)
	rest.Platform = strings.TrimSpace(rest.Platform)
	if rest.Name == "" || rest.Platform == "" {
		respondError(w, http.StatusBadRequest, CodeBadRequest, "restaurant name and platform are required", nil)
		return
	}

	// A duplicate or a fourth restaurant leaves the selection as it was and
	// says why; neither is an error.
	h.compareMu.Lock()
	out := CompareAddView{}
	switch {
	case h.compare.Contains(rest.Name, rest.Platform):
		out.Reason = CompareReasonDuplicate
	case h.compare.Full():
		out.Reason = CompareReasonFull
	default:
		out.Added = h.compare.Add(rest)
	}
	out.CompareView = h.compareViewLocked()
	h.compareMu.Unlock()

	if out.Added {
		h.broadcastCompare(out.CompareView)
	}
	respondSuccess(w, out, time.Time{}, false)
}

// CompareRemove handles DELETE /compare?name=&platform=.
//
// @Summary Remove a restaurant from the compare selection
// @Tags Compare
// @Produce json
// @Param name query string true "Restaurant name"
// @Param platform query string true "Platform"
// @Success 200 {object} models.APIResponse{data=CompareView}
// @Failure 400 {object} models.APIResponse "Missing name or platform"
// @Failure 404 {object} models.APIResponse "Not selected"
// @Router /compare [delete]
func (h *Handler) CompareRemove(w http.ResponseWriter, r *http.Request) {
	q := CompareRemoveQuery{Name: r.URL.Query().Get("name"), Platform: r.URL.Query().Get("platform")}
	if apiErr := validateRequest(&q); apiErr != nil {
		respondAPIError(w, http.StatusBadRequest, apiErr)
		return
	}

	h.compareMu.Lock()
	if !h.compare.Remove(q.Name, q.Platform) {
		h.compareMu.Unlock()
		respondError(w, http.StatusNotFound, CodeNotFound, "Restaurant is not in the comparison", nil)
		return
	}
	view := h.compareViewLocked()
	h.compareMu.Unlock()

	h.broadcastCompare(view)
	respondSuccess(w, view, time.Time{}, false)
}

// CompareClear handles DELETE /compare/all.
//
// @Summary Empty the compare selection
// @Tags Compare
// @Produce json
// @Success 200 {object} models.APIResponse{data=CompareView}
// @Router /compare/all [delete]
func (h *Handler) CompareClear(w http.ResponseWriter, r *http.Request) {
	h.compareMu.Lock()
	h.compare.Clear()
	view := h.compareViewLocked()
	h.compareMu.Unlock()

	h.broadcastCompare(view)
	respondSuccess(w, view, time.Time{}, false)
}

func (h *Handler) compareViewLocked() CompareView {
	items := h.compare.Items()
	return CompareView{Items: items, Comparison: pipeline.Compare(items, h.normalizer)}
}

func (h *Handler) broadcastCompare(view CompareView) {
	if h.hub == nil {
		return
	}
	keys := make([]string, len(view.Items))
	for i := range view.Items {
		keys[i] = view.Items[i].Key()
	}
	h.hub.BroadcastCompareUpdated(websocket.CompareEventData{
		Keys:      keys,
		Ready:     view.Comparison.Ready,
		Remaining: view.Comparison.Remaining,
	})
}
