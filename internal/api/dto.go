// Khaboki - Restaurant Discovery and Delivery Comparison
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/khaboki

package api

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/tomtom215/khaboki/internal/models"
	"github.com/tomtom215/khaboki/internal/pipeline"
)

// FilterRequest is the attribute filter sent with a search or read from
// the results query string.
type FilterRequest struct {
	CuisineType     string   `json:"cuisine_type" validate:"max=100"`
	MinRating       float64  `json:"min_rating" validate:"gte=0,lte=5"`
	MaxDeliveryTime int      `json:"max_delivery_time" validate:"gte=0,lte=600"`
	Platforms       []string `json:"platforms" validate:"omitempty,max=10,dive,platform"`
	MaxDeliveryFee  *int     `json:"max_delivery_fee,omitempty" validate:"omitempty,gte=0"`
	SortBy          string   `json:"sort_by" validate:"sortkey"`
}

// ToModel converts the request to a FilterConfig.
func (f *FilterRequest) ToModel() models.FilterConfig {
	platforms := make([]string, 0, len(f.Platforms))
	for _, p := range f.Platforms {
		platforms = append(platforms, strings.ToLower(p))
	}
	return models.FilterConfig{
		CuisineType:     f.CuisineType,
		MinRating:       f.MinRating,
		MaxDeliveryTime: f.MaxDeliveryTime,
		Platforms:       platforms,
		MaxDeliveryFee:  f.MaxDeliveryFee,
		SortBy:          models.SortKey(f.SortBy),
	}
}

// SearchRequest is the body of POST /search. Latitude and longitude are
// given together or not at all.
type SearchRequest struct {
	Lat          *float64       `json:"lat" validate:"required_with=Lng,omitempty,latitude"`
	Lng          *float64       `json:"lng" validate:"required_with=Lat,omitempty,longitude"`
	Text         string         `json:"text" validate:"max=200"`
	Filters      *FilterRequest `json:"filters,omitempty"`
	ForceRefresh bool           `json:"force_refresh"`
}

// ResultsQuery is the query string of GET /results.
type ResultsQuery struct {
	Query  string `query:"q" validate:"max=200"`
	Tab    string `query:"tab" validate:"omitempty,platform"`
	Filter FilterRequest
}

// parseResultsQuery reads GET /results parameters. Platforms may repeat
// or be comma separated.
func parseResultsQuery(q url.Values) (*ResultsQuery, error) {
	rq := &ResultsQuery{
		Query: q.Get("q"),
		Tab:   strings.ToLower(q.Get("tab")),
		Filter: FilterRequest{
			CuisineType: q.Get("cuisine"),
			SortBy:      q.Get("sort"),
		},
	}

	for _, v := range q["platforms"] {
		for _, p := range strings.Split(v, ",") {
			if p = strings.TrimSpace(p); p != "" {
				rq.Filter.Platforms = append(rq.Filter.Platforms, p)
			}
		}
	}

	var err error
	if rq.Filter.MinRating, err = floatParam(q, "min_rating"); err != nil {
		return nil, err
	}
	if rq.Filter.MaxDeliveryTime, err = intParam(q, "max_delivery_time"); err != nil {
		return nil, err
	}
	if v := q.Get("max_delivery_fee"); v != "" {
		fee, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("max_delivery_fee must be an integer")
		}
		rq.Filter.MaxDeliveryFee = &fee
	}
	return rq, nil
}

func floatParam(q url.Values, key string) (float64, error) {
	v := q.Get(key)
	if v == "" {
		return 0, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("%s must be a number", key)
	}
	return f, nil
}

func intParam(q url.Values, key string) (int, error) {
	v := q.Get(key)
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer", key)
	}
	return n, nil
}

// RatingQuery is the query string of GET /rating.
type RatingQuery struct {
	Rating   string `query:"rating" validate:"required,max=64"`
	Platform string `query:"platform" validate:"omitempty,platform"`
}

// CompareAddRequest is the body of POST /compare.
type CompareAddRequest struct {
	Restaurant models.Restaurant `json:"restaurant"`
}

// CompareRemoveQuery identifies a restaurant to drop from the compare tray.
type CompareRemoveQuery struct {
	Name     string `query:"name" validate:"required,max=200"`
	Platform string `query:"platform" validate:"required,platform"`
}

// SurprisePreferencesRequest are optional hints forwarded to the AI.
type SurprisePreferencesRequest struct {
	CuisineType     string  `json:"cuisine_type" validate:"max=100"`
	MaxDeliveryTime int     `json:"max_delivery_time" validate:"gte=0,lte=600"`
	MaxDeliveryFee  int     `json:"max_delivery_fee" validate:"gte=0"`
	MinRating       float64 `json:"min_rating" validate:"gte=0,lte=5"`
}

// SurpriseRequest is the body of POST /surprise.
type SurpriseRequest struct {
	Preferences     *SurprisePreferencesRequest `json:"preferences,omitempty"`
	ExcludePrevious bool                        `json:"exclude_previous"`
}

func (s *SurpriseRequest) preferences() *models.SurprisePreferences {
	if s.Preferences == nil {
		return nil
	}
	return &models.SurprisePreferences{
		CuisineType:     s.Preferences.CuisineType,
		MaxDeliveryTime: s.Preferences.MaxDeliveryTime,
		MaxDeliveryFee:  s.Preferences.MaxDeliveryFee,
		MinRating:       s.Preferences.MinRating,
	}
}

// ExportQuery is the query string of GET /dataset/export.
type ExportQuery struct {
	Format string `query:"format" validate:"oneof=json csv"`
}

// RestaurantView is a restaurant annotated for display.
type RestaurantView struct {
	models.Restaurant
	Bayesian  models.BayesianRating `json:"bayesian_rating"`
	InCompare bool                  `json:"in_compare"`
}

// ResultsView is the response of GET /results.
type ResultsView struct {
	Query       string              `json:"query"`
	TextFilter  string              `json:"text_filter,omitempty"`
	Location    models.Location     `json:"location"`
	Source      string              `json:"source"`
	UpdatedAt   string              `json:"updated_at"`
	Tab         string              `json:"tab"`
	Counts      map[string]int      `json:"counts"`
	Total       int                 `json:"total"`
	Filters     models.FilterConfig `json:"filters"`
	Restaurants []RestaurantView    `json:"restaurants"`
}

// CompareView is the response of every /compare endpoint.
type CompareView struct {
	Items      []models.Restaurant `json:"items"`
	Comparison pipeline.Comparison `json:"comparison"`
}

// Reasons a compare add was a no-op.
const (
	CompareReasonDuplicate = "already_selected"
	CompareReasonFull      = "selection_full"
)

// CompareAddView is the response of POST /compare. Added is false when the
// selection was left unchanged, with Reason saying why.
type CompareAddView struct {
	CompareView
	Added  bool   `json:"added"`
	Reason string `json:"reason,omitempty"`
}

// SurpriseView is the response of POST /surprise.
type SurpriseView struct {
	Restaurant    RestaurantView `json:"restaurant"`
	Source        string         `json:"source"`
	PreviousCount int            `json:"previous_count"`
}
