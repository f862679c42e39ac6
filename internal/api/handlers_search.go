// Khaboki - Restaurant Discovery and Delivery Comparison
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/khaboki

package api

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/tomtom215/khaboki/internal/breaker"
	"github.com/tomtom215/khaboki/internal/logging"
	"github.com/tomtom215/khaboki/internal/models"
	"github.com/tomtom215/khaboki/internal/pipeline"
	"github.com/tomtom215/khaboki/internal/scraper"
	"github.com/tomtom215/khaboki/internal/search"
)

// Search handles POST /search.
//
// @Summary Search restaurants near a location
// @Description Answers from the result cache when the location and text match a fresh entry, otherwise scrapes every platform. Missing location or text fall back to the configured defaults.
// @Tags Search
// @Accept json
// @Produce json
// @Param request body SearchRequest false "Search parameters"
// @Success 200 {object} models.APIResponse{data=search.Outcome}
// @Failure 400 {object} models.APIResponse "Invalid request"
// @Failure 502 {object} models.APIResponse "Scrape backend reported a failure"
// @Failure 503 {object} models.APIResponse "Scrape backend unavailable"
// @Router /search [post]
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req SearchRequest
	if err := decodeStrictJSONBody(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, CodeBadRequest, "Invalid JSON body: "+err.Error(), err)
		return
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondAPIError(w, http.StatusBadRequest, apiErr)
		return
	}

	sreq := search.Request{Text: req.Text, ForceRefresh: req.ForceRefresh}
	if req.Lat != nil && req.Lng != nil {
		sreq.Location = &models.Location{Lat: *req.Lat, Lng: *req.Lng}
	}
	if req.Filters != nil {
		f := req.Filters.ToModel()
		sreq.Filters = &f
	}

	out, err := h.search.Search(r.Context(), sreq)
	if err != nil {
		status, code := classifySearchError(err)
		respondError(w, status, code, err.Error(), err)
		return
	}
	respondSuccess(w, out, start, out.Source == search.SourceCache)
}

// classifySearchError maps a search failure to an HTTP status. The
// backend's own message is shown to the user unchanged.
func classifySearchError(err error) (int, string) {
	switch {
	case scraper.IsScrapeError(err):
		return http.StatusBadGateway, CodeExternalFailed
	case breaker.IsRejected(err):
		return http.StatusServiceUnavailable, CodeServiceUnavailable
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, CodeExternalFailed
	default:
		return http.StatusBadGateway, CodeExternalFailed
	}
}

// Results handles GET /results.
//
// @Summary Filtered view of the current results
// @Description Applies the text query, platform tab, attribute filters and sort to the most recent search. Each restaurant carries its Bayesian rating under its own platform prior.
// @Tags Search
// @Produce json
// @Param q query string false "Text filter on name and cuisine"
// @Param tab query string false "Platform tab, or all"
// @Param cuisine query string false "Cuisine substring"
// @Param platforms query string false "Comma separated platforms"
// @Param min_rating query number false "Minimum raw rating"
// @Param max_delivery_time query int false "Maximum delivery minutes"
// @Param max_delivery_fee query int false "Maximum delivery fee"
// @Param sort query string false "rating, delivery_time, delivery_fee, name or offers"
// @Success 200 {object} models.APIResponse{data=ResultsView}
// @Failure 400 {object} models.APIResponse "Invalid parameters"
// @Failure 404 {object} models.APIResponse "No search has run yet"
// @Router /results [get]
func (h *Handler) Results(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	rq, err := parseResultsQuery(r.URL.Query())
	if err != nil {
		respondError(w, http.StatusBadRequest, CodeBadRequest, err.Error(), nil)
		return
	}
	if apiErr := validateRequest(rq); apiErr != nil {
		respondAPIError(w, http.StatusBadRequest, apiErr)
		return
	}

	snap, ok := h.search.Current()
	if !ok {
		respondError(w, http.StatusNotFound, CodeNoResults, "No search results yet", nil)
		return
	}

	tab := rq.Tab
	if tab == "" {
		tab = models.PlatformAll
	}
	filters := rq.Filter.ToModel()

	var list []models.Restaurant
	if tab == models.PlatformAll {
		list = pipeline.TextFilter(pipeline.Merge(snap.Results), rq.Query)
	} else {
		list = pipeline.FilterResultSet(snap.Results, rq.Query)[tab]
	}
	list = pipeline.ApplyFilters(list, filters)
	list = pipeline.Sort(list, filters.SortBy, h.normalizer)

	respondSuccess(w, ResultsView{
		Query:       snap.Query,
		TextFilter:  strings.TrimSpace(rq.Query),
		Location:    snap.Location,
		Source:      snap.Source,
		UpdatedAt:   snap.UpdatedAt.UTC().Format(time.RFC3339),
		Tab:         tab,
		Counts:      pipeline.Counts(snap.Results, rq.Query),
		Total:       len(list),
		Filters:     filters,
		Restaurants: h.views(list),
	}, start, snap.Source == search.SourceCache)
}

// views annotates restaurants with their rating and compare membership.
func (h *Handler) views(list []models.Restaurant) []RestaurantView {
	h.compareMu.Lock()
	defer h.compareMu.Unlock()

	out := make([]RestaurantView, len(list))
	for i := range list {
		out[i] = h.viewLocked(list[i])
	}
	return out
}

func (h *Handler) viewLocked(r models.Restaurant) RestaurantView {
	return RestaurantView{
		Restaurant: r,
		Bayesian:   h.normalizer.Normalize(r.Rating, r.Platform),
		InCompare:  h.compare.Contains(r.Name, r.Platform),
	}
}

// Rating handles GET /rating.
//
// @Summary Bayesian-adjust a rating string
// @Description Parses a platform rating such as "4.3(120+)" and shrinks it toward the platform prior.
// @Tags Search
// @Produce json
// @Param rating query string true "Rating text"
// @Param platform query string false "Platform whose prior to use (default all)"
// @Success 200 {object} models.APIResponse{data=models.BayesianRating}
// @Failure 400 {object} models.APIResponse "Invalid parameters"
// @Router /rating [get]
func (h *Handler) Rating(w http.ResponseWriter, r *http.Request) {
	q := RatingQuery{Rating: r.URL.Query().Get("rating"), Platform: r.URL.Query().Get("platform")}
	if apiErr := validateRequest(&q); apiErr != nil {
		respondAPIError(w, http.StatusBadRequest, apiErr)
		return
	}
	platform := q.Platform
	if platform == "" {
		platform = models.PlatformAll
	}
	result := h.normalizer.Normalize(q.Rating, platform)
	logging.Ctx(r.Context()).Debug().Str("rating", sanitizeLogValue(q.Rating)).Float64("adjusted", result.AdjustedRating).Msg("rating normalized")
	respondSuccess(w, result, time.Time{}, false)
}
