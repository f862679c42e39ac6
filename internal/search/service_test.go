// Khaboki - Restaurant Discovery and Delivery Comparison
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/khaboki

package search

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/tomtom215/khaboki/internal/cache"
	"github.com/tomtom215/khaboki/internal/models"
	"github.com/tomtom215/khaboki/internal/scraper"
)

type fakeFetcher struct {
	mu      sync.Mutex
	calls   atomic.Int32
	last    models.ScrapeRequest
	results models.ResultSet
	err     error
	gate    chan struct{} // when set, Scrape blocks until closed
}

func (f *fakeFetcher) Scrape(ctx context.Context, req models.ScrapeRequest) (models.ResultSet, error) {
	f.calls.Add(1)
	f.mu.Lock()
	f.last = req
	gate := f.gate
	f.mu.Unlock()
	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return f.results, f.err
}

func (f *fakeFetcher) lastRequest() models.ScrapeRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.last
}

type recorder struct {
	mu     sync.Mutex
	events []string
}

func (r *recorder) add(e string) {
	r.mu.Lock()
	r.events = append(r.events, e)
	r.mu.Unlock()
}

func (r *recorder) list() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.events...)
}

func (r *recorder) BroadcastSearchStarted(string, models.Location) { r.add("search_started") }
func (r *recorder) BroadcastSearchCompleted(string, string, map[string]int, time.Duration) {
	r.add("search_completed")
}
func (r *recorder) BroadcastSearchFailed(string, error) { r.add("search_failed") }
func (r *recorder) BroadcastCacheHit(string, *int)      { r.add("cache_hit") }
func (r *recorder) BroadcastCacheCleared()              { r.add("cache_cleared") }

func sampleResults() models.ResultSet {
	return models.ResultSet{
		"foodpanda": {{Name: "Kacchi Bhai", Platform: "foodpanda"}, {Name: "Chillox", Platform: "foodpanda"}},
		"foodi":     {{Name: "Pizza Roma", Platform: "foodi"}},
	}
}

func newService(t *testing.T, f *fakeFetcher) (*Service, *cache.ResultCache, *recorder) {
	t.Helper()
	rc := cache.New(cache.NewMemoryStorage(), cache.Options{})
	rec := &recorder{}
	return NewService(rc, f, rec, Config{Timeout: 5 * time.Second}), rc, rec
}

func equal(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestSearchScrapesAndCaches(t *testing.T) {
	t.Parallel()

	f := &fakeFetcher{results: sampleResults()}
	svc, rc, rec := newService(t, f)
	ctx := context.Background()
	loc := &models.Location{Lat: 23.7925, Lng: 90.4078}

	out, err := svc.Search(ctx, Request{Location: loc, Text: "Gulshan"})
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if out.Source != SourceScrape || out.Counts["all"] != 3 || out.Counts["foodi"] != 1 {
		t.Errorf("Outcome = %+v", out)
	}
	// The requested location is sent, not the default.
	if got := f.lastRequest(); got.Lat != loc.Lat || got.Lng != loc.Lng || got.Text != "Gulshan" {
		t.Errorf("backend request = %+v", got)
	}
	if _, ok := rc.ShouldUseCache(ctx, *loc, "gulshan"); !ok {
		t.Error("results were not cached")
	}
	if cur, ok := svc.Current(); !ok || cur.Query != "Gulshan" || cur.Results.Total() != 3 {
		t.Errorf("Current() = %+v, %v", cur, ok)
	}
	if !equal(rec.list(), []string{"search_started", "search_completed"}) {
		t.Errorf("events = %v", rec.list())
	}

	// Same location, different case: answered from cache without a fetch.
	out, err = svc.Search(ctx, Request{Location: &models.Location{Lat: 23.7929, Lng: 90.4071}, Text: "GULSHAN"})
	if err != nil {
		t.Fatal(err)
	}
	if out.Source != SourceCache || f.calls.Load() != 1 {
		t.Errorf("Source = %s, fetches = %d", out.Source, f.calls.Load())
	}
	if ev := rec.list(); ev[len(ev)-1] != "cache_hit" {
		t.Errorf("events = %v", ev)
	}

	// ForceRefresh bypasses the cache.
	if _, err := svc.Search(ctx, Request{Location: loc, Text: "Gulshan", ForceRefresh: true}); err != nil {
		t.Fatal(err)
	}
	if f.calls.Load() != 2 {
		t.Errorf("fetches after ForceRefresh = %d, want 2", f.calls.Load())
	}
}

func TestSearchDefaults(t *testing.T) {
	t.Parallel()

	f := &fakeFetcher{results: models.ResultSet{}}
	svc, _, _ := newService(t, f)

	out, err := svc.Search(context.Background(), Request{Text: "   "})
	if err != nil {
		t.Fatal(err)
	}
	got := f.lastRequest()
	if got.Lat != DefaultLocation.Lat || got.Lng != DefaultLocation.Lng || got.Text != DefaultText {
		t.Errorf("backend request = %+v", got)
	}
	if out.Query != DefaultText || out.Counts["all"] != 0 {
		t.Errorf("Outcome = %+v", out)
	}
}

func TestSearchFailureIsSurfacedUnchanged(t *testing.T) {
	t.Parallel()

	backendErr := &scraper.ScrapeError{StatusCode: 500, Message: "Foodi: element not found"}
	f := &fakeFetcher{err: backendErr}
	svc, rc, rec := newService(t, f)
	ctx := context.Background()

	_, err := svc.Search(ctx, Request{Text: "Banani"})
	if !errors.Is(err, backendErr) || err.Error() != "Foodi: element not found" {
		t.Errorf("Search() error = %v", err)
	}
	if _, ok := svc.Current(); ok {
		t.Error("failed search set current results")
	}
	if info := rc.Info(ctx); info.HasCache {
		t.Error("failed search wrote the cache")
	}
	if !equal(rec.list(), []string{"search_started", "search_failed"}) {
		t.Errorf("events = %v", rec.list())
	}
}

func TestConcurrentIdenticalSearchesShareOneScrape(t *testing.T) {
	t.Parallel()

	gate := make(chan struct{})
	f := &fakeFetcher{results: sampleResults(), gate: gate}
	svc, _, _ := newService(t, f)

	const n = 5
	var wg sync.WaitGroup
	outcomes := make([]*Outcome, n)
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			outcomes[i], errs[i] = svc.Search(context.Background(), Request{Text: "Dhanmondi", ForceRefresh: true})
		}(i)
	}

	deadline := time.Now().Add(time.Second)
	for f.calls.Load() == 0 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	time.Sleep(20 * time.Millisecond)
	close(gate)
	wg.Wait()

	if c := f.calls.Load(); c != 1 {
		t.Errorf("backend called %d times, want 1", c)
	}
	for i := range errs {
		if errs[i] != nil || outcomes[i].Results.Total() != 3 {
			t.Errorf("caller %d: %+v, %v", i, outcomes[i], errs[i])
		}
	}
}

func TestConcurrentSearchesWithDifferentFiltersDoNotShare(t *testing.T) {
	t.Parallel()

	gate := make(chan struct{})
	f := &fakeFetcher{results: sampleResults(), gate: gate}
	svc, rc, _ := newService(t, f)

	filters := []*models.FilterConfig{{MinRating: 4}, {MinRating: 3, SortBy: models.SortName}}
	outcomes := make([]*Outcome, len(filters))
	errs := make([]error, len(filters))
	var wg sync.WaitGroup
	for i := range filters {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			outcomes[i], errs[i] = svc.Search(context.Background(), Request{Text: "Banani", Filters: filters[i], ForceRefresh: true})
		}(i)
	}

	deadline := time.Now().Add(time.Second)
	for f.calls.Load() < 2 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	close(gate)
	wg.Wait()

	if c := f.calls.Load(); c != 2 {
		t.Errorf("backend called %d times, want one scrape per filter set", c)
	}
	for i := range filters {
		if errs[i] != nil {
			t.Fatalf("caller %d: %v", i, errs[i])
		}
		if outcomes[i].Shared || outcomes[i].Filters != filters[i] {
			t.Errorf("caller %d got filters %+v, want its own %+v", i, outcomes[i].Filters, filters[i])
		}
	}

	entry, ok := rc.Load(context.Background())
	if !ok || entry.Filters == nil {
		t.Fatal("no cached filters")
	}
	if entry.Filters.MinRating != 4 && entry.Filters.MinRating != 3 {
		t.Errorf("cached filters = %+v", entry.Filters)
	}
}

func TestFlightKey(t *testing.T) {
	t.Parallel()

	loc := models.Location{Lat: 23.8103, Lng: 90.4125}
	fee := 50
	base := flightKey(loc, "Matikata", nil)
	if flightKey(loc, "MATIKATA", nil) != base {
		t.Error("text case should not change the key")
	}
	a := flightKey(loc, "Matikata", &models.FilterConfig{MaxDeliveryFee: &fee})
	b := flightKey(loc, "Matikata", &models.FilterConfig{MaxDeliveryFee: &fee})
	if a != b {
		t.Errorf("equal filters gave different keys: %q %q", a, b)
	}
	if a == base || a == flightKey(loc, "Matikata", &models.FilterConfig{}) {
		t.Error("different filters must give different keys")
	}
}

func TestSearchSurvivesCallerCancellation(t *testing.T) {
	t.Parallel()

	gate := make(chan struct{})
	f := &fakeFetcher{results: sampleResults(), gate: gate}
	svc, rc, _ := newService(t, f)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, err := svc.Search(ctx, Request{Text: "Uttara"})
		done <- err
	}()
	for f.calls.Load() == 0 {
		time.Sleep(time.Millisecond)
	}
	cancel()
	close(gate)

	if err := <-done; err != nil {
		t.Errorf("Search() error = %v", err)
	}
	if !rc.Info(context.Background()).HasCache {
		t.Error("scrape finished after cancellation was not cached")
	}
}

func TestRestoreAndClearCache(t *testing.T) {
	t.Parallel()

	f := &fakeFetcher{}
	svc, rc, rec := newService(t, f)
	ctx := context.Background()

	if svc.Restore(ctx) {
		t.Error("Restore() with empty cache = true")
	}

	rc.Save(ctx, sampleResults(), models.Location{Lat: 1, Lng: 2}, "Mirpur", nil)
	if !svc.Restore(ctx) {
		t.Fatal("Restore() = false")
	}
	cur, ok := svc.Current()
	if !ok || cur.Source != SourceCache || cur.Query != "Mirpur" {
		t.Errorf("Current() = %+v, %v", cur, ok)
	}
	if info := svc.CacheInfo(ctx); !info.HasCache || info.QueryText != "Mirpur" {
		t.Errorf("CacheInfo() = %+v", info)
	}

	svc.ClearCache(ctx)
	if svc.CacheInfo(ctx).HasCache {
		t.Error("cache not cleared")
	}
	if _, ok := svc.Current(); !ok {
		t.Error("ClearCache dropped the current results")
	}
	if ev := rec.list(); len(ev) != 1 || ev[0] != "cache_cleared" {
		t.Errorf("events = %v", ev)
	}
	if f.calls.Load() != 0 {
		t.Error("Restore or ClearCache hit the backend")
	}
}
