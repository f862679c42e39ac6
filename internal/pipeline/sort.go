// Khaboki - Restaurant Discovery and Delivery Comparison
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/khaboki

package pipeline

import (
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/tomtom215/khaboki/internal/models"
	"github.com/tomtom215/khaboki/internal/rating"
)

// Sort returns a stably sorted copy of list.
//
// Rating sorts descending by Bayesian score computed with the "all" prior
// so platforms compete on equal terms. Delivery time and fee sort
// ascending with unknown values last. Name uses English collation.
// SortOffers and unrecognised keys keep the input order.
func Sort(list []models.Restaurant, key models.SortKey, n *rating.Normalizer) []models.Restaurant {
	if n == nil {
		n = rating.Default()
	}
	out := make([]models.Restaurant, len(list))
	copy(out, list)

	switch key {
	case models.SortRating:
		scores := make([]float64, len(out))
		for i := range out {
			scores[i] = n.Adjusted(out[i].Rating, models.PlatformAll)
		}
		sortByKey(out, scores, func(a, b float64) bool { return a > b })
	case models.SortDeliveryTime:
		mins := make([]float64, len(out))
		for i := range out {
			mins[i] = float64(MinutesOrUnknown(out[i].DeliveryTime))
		}
		sortByKey(out, mins, func(a, b float64) bool { return a < b })
	case models.SortDeliveryFee:
		fees := make([]float64, len(out))
		for i := range out {
			fees[i] = float64(FeeOrUnknown(out[i].DeliveryFee))
		}
		sortByKey(out, fees, func(a, b float64) bool { return a < b })
	case models.SortName:
		// Collators are not safe for concurrent use; build one per call.
		col := collate.New(language.English)
		sort.SliceStable(out, func(i, j int) bool {
			return col.CompareString(out[i].Name, out[j].Name) < 0
		})
	}
	return out
}

// sortByKey stably sorts list by precomputed keys, moving keys with it.
func sortByKey(list []models.Restaurant, keys []float64, less func(a, b float64) bool) {
	idx := make([]int, len(list))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(i, j int) bool { return less(keys[idx[i]], keys[idx[j]]) })

	sorted := make([]models.Restaurant, len(list))
	for i, k := range idx {
		sorted[i] = list[k]
	}
	copy(list, sorted)
}
