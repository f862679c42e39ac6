// Khaboki - Restaurant Discovery and Delivery Comparison
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/khaboki

// Package search runs a location search: consult the result cache, scrape
// on a miss, remember the outcome as the current result set, and tell
// connected clients what happened.
package search

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"golang.org/x/sync/singleflight"

	"github.com/tomtom215/khaboki/internal/cache"
	"github.com/tomtom215/khaboki/internal/logging"
	"github.com/tomtom215/khaboki/internal/metrics"
	"github.com/tomtom215/khaboki/internal/models"
	"github.com/tomtom215/khaboki/internal/pipeline"
)

// Result sources.
const (
	SourceCache  = "cache"
	SourceScrape = "scrape"
)

// Defaults for a search with no location or text.
var (
	DefaultLocation = models.Location{Lat: 23.8103, Lng: 90.4125}
	DefaultText     = "Matikata"
)

// Fetcher scrapes restaurants around a location.
type Fetcher interface {
	Scrape(ctx context.Context, req models.ScrapeRequest) (models.ResultSet, error)
}

// Broadcaster receives search lifecycle events. *websocket.Hub implements it.
type Broadcaster interface {
	BroadcastSearchStarted(query string, loc models.Location)
	BroadcastSearchCompleted(query, source string, counts map[string]int, duration time.Duration)
	BroadcastSearchFailed(query string, err error)
	BroadcastCacheHit(query string, ageMinutes *int)
	BroadcastCacheCleared()
}

// Config tunes a Service. Zero values use the package defaults.
type Config struct {
	DefaultLocation *models.Location
	DefaultText     string

	// Timeout bounds one scrape, independent of the caller's context.
	Timeout time.Duration
}

// Request is one search.
type Request struct {
	Location     *models.Location
	Text         string
	Filters      *models.FilterConfig
	ForceRefresh bool
}

// Snapshot is a result set together with the search that produced it.
type Snapshot struct {
	Results   models.ResultSet     `json:"results"`
	Location  models.Location      `json:"location"`
	Query     string               `json:"query"`
	Filters   *models.FilterConfig `json:"filters,omitempty"`
	Source    string               `json:"source"`
	UpdatedAt time.Time            `json:"updated_at"`
}

// Outcome is what Search returns.
type Outcome struct {
	Snapshot
	Counts map[string]int `json:"counts"`

	// Shared is true when this caller joined a scrape already in flight.
	Shared bool `json:"shared,omitempty"`
}

// Service orchestrates searches. It is safe for concurrent use.
type Service struct {
	cache   *cache.ResultCache
	fetcher Fetcher
	events  Broadcaster
	cfg     Config
	now     func() time.Time

	group singleflight.Group

	mu      sync.RWMutex
	current *Snapshot
}

// NewService creates a search service. events may be nil.
func NewService(rc *cache.ResultCache, fetcher Fetcher, events Broadcaster, cfg Config) *Service {
	if cfg.DefaultLocation == nil {
		loc := DefaultLocation
		cfg.DefaultLocation = &loc
	}
	if strings.TrimSpace(cfg.DefaultText) == "" {
		cfg.DefaultText = DefaultText
	}
	if events == nil {
		events = nopBroadcaster{}
	}
	return &Service{cache: rc, fetcher: fetcher, events: events, cfg: cfg, now: time.Now}
}

// Search answers req from cache when possible and scrapes otherwise.
//
// Cache is consulted before anything is sent to the backend, and
// ForceRefresh skips it. Concurrent searches for the same location, text
// and filters share one scrape. Scrape errors are returned unchanged.
func (s *Service) Search(ctx context.Context, req Request) (*Outcome, error) {
	loc := *s.cfg.DefaultLocation
	if req.Location != nil {
		loc = *req.Location
	}
	text := strings.TrimSpace(req.Text)
	if text == "" {
		text = s.cfg.DefaultText
	}

	if !req.ForceRefresh {
		if entry, ok := s.cache.ShouldUseCache(ctx, loc, text); ok {
			snap := Snapshot{
				Results:   entry.Results,
				Location:  entry.Location,
				Query:     entry.QueryText,
				Filters:   entry.Filters,
				Source:    SourceCache,
				UpdatedAt: entry.SavedAt,
			}
			s.setCurrent(&snap)

			age := max(int(s.now().Sub(entry.SavedAt).Milliseconds()/60000), 0)
			s.events.BroadcastCacheHit(entry.QueryText, &age)
			logging.Ctx(ctx).Info().Str("query", text).Int("age_minutes", age).Msg("Search answered from cache")
			return &Outcome{Snapshot: snap, Counts: pipeline.Counts(snap.Results, "")}, nil
		}
	}

	v, err, shared := s.group.Do(flightKey(loc, text, req.Filters), func() (interface{}, error) {
		return s.scrape(ctx, loc, text, req.Filters)
	})
	if err != nil {
		return nil, err
	}
	snap := v.(*Snapshot)
	return &Outcome{Snapshot: *snap, Counts: pipeline.Counts(snap.Results, ""), Shared: shared}, nil
}

// scrape fetches fresh results. It runs once per in-flight key, detached
// from the first caller's cancellation so joiners are not failed by it.
func (s *Service) scrape(ctx context.Context, loc models.Location, text string, filters *models.FilterConfig) (*Snapshot, error) {
	if s.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(context.WithoutCancel(ctx), s.cfg.Timeout)
		defer cancel()
	} else {
		ctx = context.WithoutCancel(ctx)
	}

	log := logging.Ctx(ctx)
	log.Info().Str("query", text).Float64("lat", loc.Lat).Float64("lng", loc.Lng).Msg("Scraping restaurants")
	s.events.BroadcastSearchStarted(text, loc)

	start := s.now()
	results, err := s.fetcher.Scrape(ctx, models.ScrapeRequest{Lat: loc.Lat, Lng: loc.Lng, Text: text})
	if err != nil {
		log.Warn().Err(err).Str("query", text).Msg("Scrape failed")
		s.events.BroadcastSearchFailed(text, err)
		return nil, err
	}
	if results == nil {
		results = models.ResultSet{}
	}

	s.cache.Save(ctx, results, loc, text, filters)

	snap := &Snapshot{
		Results:   results,
		Location:  loc,
		Query:     text,
		Filters:   filters,
		Source:    SourceScrape,
		UpdatedAt: s.now(),
	}
	s.setCurrent(snap)

	counts := pipeline.Counts(results, "")
	s.events.BroadcastSearchCompleted(text, SourceScrape, counts, s.now().Sub(start))
	return snap, nil
}

// flightKey identifies an in-flight scrape. Filters are part of it because
// they are saved with the cache entry; a joiner with other filters would
// otherwise get back, and cache, the first caller's.
func flightKey(loc models.Location, text string, filters *models.FilterConfig) string {
	key := fmt.Sprintf("%.6f|%.6f|%s", loc.Lat, loc.Lng, strings.ToLower(text))
	if filters == nil {
		return key
	}
	b, err := json.Marshal(filters)
	if err != nil {
		return key + "|" + fmt.Sprintf("%+v", *filters)
	}
	return key + "|" + string(b)
}

func (s *Service) setCurrent(snap *Snapshot) {
	s.mu.Lock()
	s.current = snap
	s.mu.Unlock()

	counts := make(map[string]int, len(snap.Results))
	for p, list := range snap.Results {
		counts[p] = len(list)
	}
	metrics.SetCurrentRestaurants(counts)
}

// Current returns the most recent result set, if any.
func (s *Service) Current() (*Snapshot, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return nil, false
	}
	snap := *s.current
	return &snap, true
}

// Restore makes an unexpired cached entry the current result set. It is
// called once at startup and reports whether anything was restored.
func (s *Service) Restore(ctx context.Context) bool {
	entry, ok := s.cache.Load(ctx)
	if !ok {
		return false
	}
	s.setCurrent(&Snapshot{
		Results:   entry.Results,
		Location:  entry.Location,
		Query:     entry.QueryText,
		Filters:   entry.Filters,
		Source:    SourceCache,
		UpdatedAt: entry.SavedAt,
	})
	logging.Ctx(ctx).Info().
		Str("query", entry.QueryText).
		Int("restaurants", entry.Results.Total()).
		Msg("Restored cached results")
	return true
}

// CacheInfo describes the cached entry.
func (s *Service) CacheInfo(ctx context.Context) models.CacheInfo {
	return s.cache.Info(ctx)
}

// ClearCache empties the result cache. The current result set is kept.
func (s *Service) ClearCache(ctx context.Context) {
	s.cache.Clear(ctx)
	s.events.BroadcastCacheCleared()
	logging.Ctx(ctx).Info().Msg("Result cache cleared")
}

type nopBroadcaster struct{}

func (nopBroadcaster) BroadcastSearchStarted(string, models.Location)                         {}
func (nopBroadcaster) BroadcastSearchCompleted(string, string, map[string]int, time.Duration) {}
func (nopBroadcaster) BroadcastSearchFailed(string, error)                                    {}
func (nopBroadcaster) BroadcastCacheHit(string, *int)                                         {}
func (nopBroadcaster) BroadcastCacheCleared()                                                 {}
