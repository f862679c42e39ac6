// Khaboki - Restaurant Discovery and Delivery Comparison
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/khaboki

package models

// SurprisePreferences are optional hints for the surprise picker. They are
// forwarded to the AI selector as-is and never used to filter locally.
type SurprisePreferences struct {
	CuisineType     string  `json:"cuisine_type,omitempty"`
	MaxDeliveryTime int     `json:"max_delivery_time,omitempty"`
	MaxDeliveryFee  int     `json:"max_delivery_fee,omitempty"`
	MinRating       float64 `json:"min_rating,omitempty"`
}

// SelectionSource records who picked a surprise restaurant.
type SelectionSource string

const (
	SourceAI     SelectionSource = "ai"
	SourceRandom SelectionSource = "random"
)
