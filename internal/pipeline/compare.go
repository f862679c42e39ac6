// Khaboki - Restaurant Discovery and Delivery Comparison
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/khaboki

package pipeline

import (
	"github.com/tomtom215/khaboki/internal/models"
	"github.com/tomtom215/khaboki/internal/rating"
)

// MaxCompare is the capacity of a CompareSet.
const MaxCompare = 3

// CompareSet is an ordered, duplicate-free selection of at most MaxCompare
// restaurants. Identity is name plus case-folded platform.
//
// CompareSet is not safe for concurrent use.
type CompareSet struct {
	items []models.Restaurant
}

// NewCompareSet returns an empty set.
func NewCompareSet() *CompareSet {
	return &CompareSet{}
}

// Add appends r. It returns false, leaving the set unchanged, when r is
// already present or the set is full.
func (c *CompareSet) Add(r models.Restaurant) bool {
	if len(c.items) >= MaxCompare || c.Contains(r.Name, r.Platform) {
		return false
	}
	c.items = append(c.items, r)
	return true
}

// Remove deletes the restaurant with the given identity. It returns false
// when nothing matched.
func (c *CompareSet) Remove(name, platform string) bool {
	probe := models.Restaurant{Name: name, Platform: platform}
	for i := range c.items {
		if c.items[i].SameAs(&probe) {
			c.items = append(c.items[:i:i], c.items[i+1:]...)
			return true
		}
	}
	return false
}

// Contains reports whether a restaurant with the given identity is present.
func (c *CompareSet) Contains(name, platform string) bool {
	probe := models.Restaurant{Name: name, Platform: platform}
	for i := range c.items {
		if c.items[i].SameAs(&probe) {
			return true
		}
	}
	return false
}

// Items returns a copy of the selection in insertion order.
func (c *CompareSet) Items() []models.Restaurant {
	out := make([]models.Restaurant, len(c.items))
	copy(out, c.items)
	return out
}

// Len returns the number of selected restaurants.
func (c *CompareSet) Len() int { return len(c.items) }

// Full reports whether another Add would be rejected for capacity.
func (c *CompareSet) Full() bool { return len(c.items) >= MaxCompare }

// Ready reports whether there is enough to compare.
func (c *CompareSet) Ready() bool { return len(c.items) >= 2 }

// Clear empties the set.
func (c *CompareSet) Clear() { c.items = nil }

// Metrics are the comparable projections of one restaurant.
type Metrics struct {
	Restaurant   models.Restaurant     `json:"restaurant"`
	Rating       models.BayesianRating `json:"rating"`
	DeliveryMins int                   `json:"delivery_minutes"`
	DeliveryFee  int                   `json:"delivery_fee"`
}

// Best names the winning value of one metric and every restaurant that
// reaches it, identified by Restaurant.Key.
type Best struct {
	Value   float64  `json:"value"`
	Winners []string `json:"winners"`
}

// Comparison is the side-by-side view of a selection. A nil Best means no
// restaurant had a usable value for that metric.
type Comparison struct {
	Rows       []Metrics `json:"rows"`
	BestRating *Best     `json:"best_rating,omitempty"`
	BestTime   *Best     `json:"best_delivery_time,omitempty"`
	BestFee    *Best     `json:"best_delivery_fee,omitempty"`
	Ready      bool      `json:"ready"`
	Capacity   int       `json:"capacity"`
	Remaining  int       `json:"remaining"`
}

// Compare computes per-restaurant metrics and the best value of each. The
// rating uses each restaurant's own platform prior. Ratings of zero and
// Unknown times or fees are ignored when choosing a winner.
func Compare(list []models.Restaurant, n *rating.Normalizer) Comparison {
	if n == nil {
		n = rating.Default()
	}
	cmp := Comparison{
		Rows:      make([]Metrics, 0, len(list)),
		Ready:     len(list) >= 2,
		Capacity:  MaxCompare,
		Remaining: max(MaxCompare-len(list), 0),
	}

	for i := range list {
		r := list[i]
		row := Metrics{
			Restaurant:   r,
			Rating:       n.Normalize(r.Rating, r.Platform),
			DeliveryMins: MinutesOrUnknown(r.DeliveryTime),
			DeliveryFee:  FeeOrUnknown(r.DeliveryFee),
		}
		cmp.Rows = append(cmp.Rows, row)
	}

	cmp.BestRating = best(cmp.Rows,
		func(m *Metrics) (float64, bool) { return m.Rating.AdjustedRating, m.Rating.AdjustedRating > 0 },
		func(a, b float64) bool { return a > b })
	cmp.BestTime = best(cmp.Rows,
		func(m *Metrics) (float64, bool) { return float64(m.DeliveryMins), m.DeliveryMins < Unknown },
		func(a, b float64) bool { return a < b })
	cmp.BestFee = best(cmp.Rows,
		func(m *Metrics) (float64, bool) { return float64(m.DeliveryFee), m.DeliveryFee < Unknown },
		func(a, b float64) bool { return a < b })
	return cmp
}

func best(rows []Metrics, value func(*Metrics) (float64, bool), better func(a, b float64) bool) *Best {
	var b *Best
	for i := range rows {
		v, ok := value(&rows[i])
		if !ok {
			continue
		}
		key := rows[i].Restaurant.Key()
		switch {
		case b == nil || better(v, b.Value):
			b = &Best{Value: v, Winners: []string{key}}
		case v == b.Value:
			b.Winners = append(b.Winners, key)
		}
	}
	return b
}
