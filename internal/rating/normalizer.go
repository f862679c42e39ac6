// Khaboki - Restaurant Discovery and Delivery Comparison
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/khaboki

// Package rating turns platform rating strings into comparable scores.
//
// Platforms report ratings as "<average>(<count>[+])", for example
// "4.7(12)" or "4.3(1000+)". A raw average over a handful of reviews is
// noisy, so Normalize blends it with a per-platform prior:
//
//	adjusted = (priorAvg*priorCount + avg*count) / (priorCount + count)
//
// rounded to one decimal place. Few reviews pull the score toward the prior;
// many reviews leave it close to the raw value.
package rating

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/tomtom215/khaboki/internal/models"
)

// Prior is a platform's baseline average and its weight in pseudo-reviews.
type Prior struct {
	Average float64
	Count   float64
}

// Review count thresholds for confidence grades.
const (
	HighConfidenceReviews   = 100
	MediumConfidenceReviews = 25
)

// ratingPattern matches the first "<float>(<int>[+])" in the string.
var ratingPattern = regexp.MustCompile(`(\d+\.?\d*)\((\d+)\+?\)`)

// DefaultPriors returns the built-in prior table.
func DefaultPriors() map[string]Prior {
	return map[string]Prior{
		models.PlatformFoodpanda: {Average: 4.2, Count: 100},
		models.PlatformFoodi:     {Average: 3.8, Count: 50},
		models.PlatformAll:       {Average: 4.0, Count: 75},
	}
}

// Normalizer applies Bayesian adjustment with a fixed prior table.
// It holds no mutable state and is safe for concurrent use.
type Normalizer struct {
	priors   map[string]Prior
	fallback Prior
}

// NewNormalizer copies priors, lower-casing platform names. When the table
// has no "all" entry the built-in one is used as the fallback.
func NewNormalizer(priors map[string]Prior) *Normalizer {
	n := &Normalizer{priors: make(map[string]Prior, len(priors))}
	for platform, p := range priors {
		n.priors[strings.ToLower(platform)] = p
	}
	fallback, ok := n.priors[models.PlatformAll]
	if !ok {
		fallback = DefaultPriors()[models.PlatformAll]
		n.priors[models.PlatformAll] = fallback
	}
	n.fallback = fallback
	return n
}

// Default returns a Normalizer over DefaultPriors.
func Default() *Normalizer {
	return NewNormalizer(DefaultPriors())
}

// Prior returns the prior used for platform, falling back to "all".
func (n *Normalizer) Prior(platform string) Prior {
	if p, ok := n.priors[strings.ToLower(platform)]; ok {
		return p
	}
	return n.fallback
}

// Normalize parses rating and adjusts it with the platform prior. A string
// that does not match the pattern yields a zero rating with low confidence.
func (n *Normalizer) Normalize(rating, platform string) models.BayesianRating {
	raw, count, ok := Parse(rating)
	if !ok {
		return models.BayesianRating{Confidence: models.ConfidenceLow}
	}

	p := n.Prior(platform)
	adjusted := raw
	if denom := p.Count + float64(count); denom > 0 {
		adjusted = (p.Average*p.Count + raw*float64(count)) / denom
	}

	return models.BayesianRating{
		RawRating:      raw,
		AdjustedRating: roundTenth(adjusted),
		ReviewCount:    count,
		Confidence:     ConfidenceFor(count),
	}
}

// Adjusted is shorthand for Normalize(rating, platform).AdjustedRating.
func (n *Normalizer) Adjusted(rating, platform string) float64 {
	return n.Normalize(rating, platform).AdjustedRating
}

// Parse extracts the average and review count from a rating string.
func Parse(rating string) (avg float64, count int, ok bool) {
	m := ratingPattern.FindStringSubmatch(rating)
	if m == nil {
		return 0, 0, false
	}
	avg, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, 0, false
	}
	count, err = strconv.Atoi(m[2])
	if err != nil {
		return 0, 0, false
	}
	return avg, count, true
}

// ConfidenceFor grades a review count.
func ConfidenceFor(reviews int) models.Confidence {
	switch {
	case reviews >= HighConfidenceReviews:
		return models.ConfidenceHigh
	case reviews >= MediumConfidenceReviews:
		return models.ConfidenceMedium
	default:
		return models.ConfidenceLow
	}
}

// roundTenth rounds half up to one decimal place.
func roundTenth(v float64) float64 {
	return math.Floor(v*10+0.5) / 10
}
