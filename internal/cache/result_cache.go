// Khaboki - Restaurant Discovery and Delivery Comparison
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/khaboki

// Package cache keeps the most recent search result so a repeated search
// for the same place and text can skip the slow scrape.
//
// There is exactly one slot. An entry is reusable while it is younger than
// the TTL, its location is within the tolerance on both axes and its query
// text matches case-insensitively. Expired entries are removed when a read
// notices them; nothing runs in the background.
//
// Storage failures never reach callers: the cache is an optimisation and a
// broken disk must not break search.
package cache

import (
	"context"
	"errors"
	"math"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/khaboki/internal/logging"
	"github.com/tomtom215/khaboki/internal/metrics"
	"github.com/tomtom215/khaboki/internal/models"
)

// EntryKey is the storage key of the single cache slot.
const EntryKey = "khaboki:result-cache"

const cacheType = "results"

// Defaults applied by New for zero Options fields.
const (
	DefaultTTL               = 30 * time.Minute
	DefaultLocationTolerance = 0.001
)

// Options configures a ResultCache.
type Options struct {
	TTL               time.Duration
	LocationTolerance float64
	// Now overrides the clock in tests.
	Now func() time.Time
}

// ResultCache is the single-slot search result cache.
type ResultCache struct {
	store Storage
	ttl   time.Duration
	tol   float64
	now   func() time.Time
}

// New creates a ResultCache over store.
func New(store Storage, opts Options) *ResultCache {
	if opts.TTL <= 0 {
		opts.TTL = DefaultTTL
	}
	if opts.LocationTolerance <= 0 {
		opts.LocationTolerance = DefaultLocationTolerance
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &ResultCache{store: store, ttl: opts.TTL, tol: opts.LocationTolerance, now: opts.Now}
}

// TTL returns the configured entry lifetime.
func (c *ResultCache) TTL() time.Duration {
	return c.ttl
}

// Save replaces the cached entry.
func (c *ResultCache) Save(ctx context.Context, results models.ResultSet, loc models.Location, queryText string, filters *models.FilterConfig) {
	entry := models.CacheEntry{
		Results:   results,
		Location:  loc,
		QueryText: queryText,
		Filters:   filters,
		SavedAt:   c.now(),
	}
	data, err := json.Marshal(entry)
	if err != nil {
		c.storageFailed(ctx, "encode", err)
		return
	}
	if err := c.store.Set(ctx, EntryKey, data); err != nil {
		c.storageFailed(ctx, "save", err)
		return
	}
	logging.Ctx(ctx).Debug().
		Str("query", queryText).
		Int("restaurants", results.Total()).
		Msg("search results cached")
}

// Load returns the cached entry if one exists and has not expired.
func (c *ResultCache) Load(ctx context.Context) (*models.CacheEntry, bool) {
	entry, _ := c.load(ctx)
	return entry, entry != nil
}

// ShouldUseCache returns the cached entry when it can answer a search for
// loc and queryText.
func (c *ResultCache) ShouldUseCache(ctx context.Context, loc models.Location, queryText string) (*models.CacheEntry, bool) {
	entry, reason := c.load(ctx)
	if entry == nil {
		metrics.CacheMisses.WithLabelValues(cacheType, reason).Inc()
		return nil, false
	}
	if !IsLocationSimilar(entry.Location, loc, c.tol) {
		metrics.CacheMisses.WithLabelValues(cacheType, "location").Inc()
		return nil, false
	}
	if strings.ToLower(entry.QueryText) != strings.ToLower(queryText) {
		metrics.CacheMisses.WithLabelValues(cacheType, "query").Inc()
		return nil, false
	}
	metrics.CacheHits.WithLabelValues(cacheType).Inc()
	return entry, true
}

// Clear removes the cached entry. It is idempotent.
func (c *ResultCache) Clear(ctx context.Context) {
	if err := c.store.Delete(ctx, EntryKey); err != nil {
		c.storageFailed(ctx, "clear", err)
	}
}

// Info describes the current entry for display.
func (c *ResultCache) Info(ctx context.Context) models.CacheInfo {
	entry, _ := c.load(ctx)
	if entry == nil {
		return models.CacheInfo{HasCache: false}
	}
	age := int(c.now().Sub(entry.SavedAt).Milliseconds() / 60000)
	if age < 0 {
		age = 0
	}
	return models.CacheInfo{HasCache: true, AgeMinutes: &age, QueryText: entry.QueryText}
}

// load reads the slot and reports why it came back empty.
func (c *ResultCache) load(ctx context.Context) (*models.CacheEntry, string) {
	data, err := c.store.Get(ctx, EntryKey)
	if errors.Is(err, ErrNotFound) {
		return nil, "empty"
	}
	if err != nil {
		c.storageFailed(ctx, "load", err)
		return nil, "error"
	}

	var entry models.CacheEntry
	if err := json.Unmarshal(data, &entry); err != nil {
		c.storageFailed(ctx, "decode", err)
		return nil, "error"
	}

	if c.now().Sub(entry.SavedAt) > c.ttl {
		metrics.CacheEvictions.WithLabelValues(cacheType).Inc()
		if err := c.store.Delete(ctx, EntryKey); err != nil {
			c.storageFailed(ctx, "evict", err)
		}
		return nil, "expired"
	}
	return &entry, ""
}

func (c *ResultCache) storageFailed(ctx context.Context, op string, err error) {
	metrics.CacheStorageErrors.WithLabelValues(cacheType, op).Inc()
	logging.Ctx(ctx).Warn().Err(err).Str("operation", op).Msg("result cache storage failed")
}

// IsLocationSimilar reports whether a and b differ by at most tolerance
// degrees on each axis independently.
func IsLocationSimilar(a, b models.Location, tolerance float64) bool {
	return math.Abs(a.Lat-b.Lat) <= tolerance && math.Abs(a.Lng-b.Lng) <= tolerance
}
