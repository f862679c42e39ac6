// Khaboki - Restaurant Discovery and Delivery Comparison
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/khaboki

package models

// Confidence grades how much a rating can be trusted given its review count.
type Confidence string

const (
	ConfidenceLow    Confidence = "low"
	ConfidenceMedium Confidence = "medium"
	ConfidenceHigh   Confidence = "high"
)

// BayesianRating is the normalized view of a raw rating string.
type BayesianRating struct {
	RawRating      float64    `json:"raw_rating"`
	AdjustedRating float64    `json:"adjusted_rating"`
	ReviewCount    int        `json:"review_count"`
	Confidence     Confidence `json:"confidence"`
}
