// Khaboki - Restaurant Discovery and Delivery Comparison
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/khaboki

// Package pipeline turns a scraped ResultSet into the list a user sees:
// merge, text search, attribute filters, sorting and side-by-side comparison.
//
// Every function here is pure. Inputs are never modified; results are new
// slices that share Restaurant values with the input.
package pipeline

import (
	"strings"

	"github.com/tomtom215/khaboki/internal/models"
)

// Merge flattens rs in platform order (foodpanda, foodi, then others),
// keeping each platform's internal order.
func Merge(rs models.ResultSet) []models.Restaurant {
	out := make([]models.Restaurant, 0, rs.Total())
	for _, p := range rs.Platforms() {
		out = append(out, rs[p]...)
	}
	return out
}

// TextFilter keeps restaurants whose name or cuisine contains query,
// ignoring case. An empty query keeps everything.
func TextFilter(list []models.Restaurant, query string) []models.Restaurant {
	q := strings.ToLower(strings.TrimSpace(query))
	out := make([]models.Restaurant, 0, len(list))
	for i := range list {
		if q == "" || matchesText(&list[i], q) {
			out = append(out, list[i])
		}
	}
	return out
}

func matchesText(r *models.Restaurant, lowerQuery string) bool {
	return strings.Contains(strings.ToLower(r.Name), lowerQuery) ||
		strings.Contains(strings.ToLower(r.CuisineType), lowerQuery)
}

// FilterResultSet applies TextFilter to each platform. Merging the result
// gives the same list as TextFilter over Merge(rs).
func FilterResultSet(rs models.ResultSet, query string) models.ResultSet {
	out := make(models.ResultSet, len(rs))
	for p, list := range rs {
		out[p] = TextFilter(list, query)
	}
	return out
}

// Counts returns the text-filtered size of every platform tab plus "all".
func Counts(rs models.ResultSet, query string) map[string]int {
	filtered := FilterResultSet(rs, query)
	counts := make(map[string]int, len(filtered)+1)
	total := 0
	for p, list := range filtered {
		counts[p] = len(list)
		total += len(list)
	}
	counts[models.PlatformAll] = total
	return counts
}

// ApplyFilters drops restaurants that fail any active attribute filter.
// A value that cannot be parsed passes the corresponding filter.
func ApplyFilters(list []models.Restaurant, f models.FilterConfig) []models.Restaurant {
	cuisine := strings.ToLower(strings.TrimSpace(f.CuisineType))

	var platforms map[string]bool
	if len(f.Platforms) > 0 {
		platforms = make(map[string]bool, len(f.Platforms))
		for _, p := range f.Platforms {
			platforms[strings.ToLower(p)] = true
		}
	}

	out := make([]models.Restaurant, 0, len(list))
	for i := range list {
		r := &list[i]
		if cuisine != "" && !strings.Contains(strings.ToLower(r.CuisineType), cuisine) {
			continue
		}
		if platforms != nil && !platforms[strings.ToLower(r.Platform)] {
			continue
		}
		if f.MinRating > 0 {
			if v, ok := RawRating(r.Rating); ok && v < f.MinRating {
				continue
			}
		}
		if f.MaxDeliveryTime > 0 {
			if m, ok := DeliveryMinutes(r.DeliveryTime); ok && m > f.MaxDeliveryTime {
				continue
			}
		}
		if f.MaxDeliveryFee != nil {
			if fee, ok := DeliveryFee(r.DeliveryFee); ok && fee > *f.MaxDeliveryFee {
				continue
			}
		}
		out = append(out, *r)
	}
	return out
}
