// Khaboki - Restaurant Discovery and Delivery Comparison
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/khaboki

package models

// SortKey selects the result ordering.
type SortKey string

// Sort keys. SortOffers keeps the incoming order.
const (
	SortRating       SortKey = "rating"
	SortDeliveryTime SortKey = "delivery_time"
	SortDeliveryFee  SortKey = "delivery_fee"
	SortName         SortKey = "name"
	SortOffers       SortKey = "offers"
)

// FilterConfig holds the attribute filters and sort order for a result view.
// Zero values disable a filter: empty CuisineType, MinRating 0,
// MaxDeliveryTime 0, empty Platforms and nil MaxDeliveryFee.
type FilterConfig struct {
	CuisineType     string   `json:"cuisine_type"`
	MinRating       float64  `json:"min_rating"`
	MaxDeliveryTime int      `json:"max_delivery_time"`
	Platforms       []string `json:"platforms"`
	MaxDeliveryFee  *int     `json:"max_delivery_fee,omitempty"`
	SortBy          SortKey  `json:"sort_by"`
}

// DefaultFilterConfig mirrors the initial state of the filter panel.
func DefaultFilterConfig() FilterConfig {
	fee := 100
	return FilterConfig{
		MaxDeliveryTime: 60,
		Platforms:       []string{PlatformFoodpanda, PlatformFoodi},
		MaxDeliveryFee:  &fee,
		SortBy:          SortRating,
	}
}
