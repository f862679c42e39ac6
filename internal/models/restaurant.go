// Khaboki - Restaurant Discovery and Delivery Comparison
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/khaboki

// Package models holds the data types shared across Khaboki packages. JSON
// field names match the scraping backend so values pass through unchanged.
package models

import (
	"sort"
	"strings"

	"github.com/goccy/go-json"
)

// Known platforms, in display order.
const (
	PlatformFoodpanda = "foodpanda"
	PlatformFoodi     = "foodi"

	// PlatformAll is the pseudo-platform used for cross-platform priors and the "all" tab.
	PlatformAll = "all"
)

// KnownPlatforms is the canonical merge order.
var KnownPlatforms = []string{PlatformFoodpanda, PlatformFoodi}

// Restaurant is a single listing as returned by a platform scraper.
// Rating, DeliveryTime and DeliveryFee are display strings such as
// "4.3(120+)", "25-40 min" and "৳ 35"; the pipeline package parses them.
type Restaurant struct {
	Name         string            `json:"name"`
	CuisineType  string            `json:"cuisine_type"`
	Rating       string            `json:"rating"`
	DeliveryTime string            `json:"delivery_time"`
	DeliveryFee  string            `json:"delivery_fee"`
	Platform     string            `json:"platform"`
	ImageURL     string            `json:"image_url"`
	URL          string            `json:"url"`
	MenuItems    []json.RawMessage `json:"menu_items"`
	Offers       []string          `json:"offers,omitempty"`
}

// Key identifies a restaurant across the compare set and surprise history.
// Platform is case-folded; name is kept as scraped.
func (r *Restaurant) Key() string {
	return r.Name + "|" + strings.ToLower(r.Platform)
}

// SameAs reports whether two records describe the same listing.
func (r *Restaurant) SameAs(other *Restaurant) bool {
	return r.Name == other.Name && strings.EqualFold(r.Platform, other.Platform)
}

// ResultSet maps a platform name to its listings. A missing key is an empty list.
type ResultSet map[string][]Restaurant

// Platforms returns the keys in merge order: known platforms first, then
// any others alphabetically. Platforms with no entry are omitted.
func (rs ResultSet) Platforms() []string {
	out := make([]string, 0, len(rs))
	seen := make(map[string]bool, len(KnownPlatforms))
	for _, p := range KnownPlatforms {
		seen[p] = true
		if _, ok := rs[p]; ok {
			out = append(out, p)
		}
	}
	var extra []string
	for p := range rs {
		if !seen[p] {
			extra = append(extra, p)
		}
	}
	sort.Strings(extra)
	return append(out, extra...)
}

// Total counts listings across all platforms.
func (rs ResultSet) Total() int {
	n := 0
	for _, list := range rs {
		n += len(list)
	}
	return n
}

// Location is a point in decimal degrees.
type Location struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}
