// Khaboki - Restaurant Discovery and Delivery Comparison
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/khaboki

package cache

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/tomtom215/khaboki/internal/models"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// failingStorage fails every operation.
type failingStorage struct{}

var errDisk = errors.New("disk full")

func (failingStorage) Get(context.Context, string) ([]byte, error) { return nil, errDisk }
func (failingStorage) Set(context.Context, string, []byte) error   { return errDisk }
func (failingStorage) Delete(context.Context, string) error        { return errDisk }

var (
	dhaka   = models.Location{Lat: 23.8103, Lng: 90.4125}
	results = models.ResultSet{
		"foodpanda": {{Name: "Kacchi Bhai", Platform: "foodpanda", Rating: "4.5(1000+)"}},
		"foodi":     {{Name: "Pizza Roma", Platform: "foodi", Rating: "4.0(20)"}},
	}
)

func newTestCache(t *testing.T) (*ResultCache, *fakeClock) {
	t.Helper()
	clock := newFakeClock()
	return New(NewMemoryStorage(), Options{Now: clock.Now}), clock
}

func TestSaveAndLoad(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	c, _ := newTestCache(t)

	if _, ok := c.Load(ctx); ok {
		t.Fatal("empty cache returned an entry")
	}

	c.Save(ctx, results, dhaka, "Matikata", nil)
	entry, ok := c.Load(ctx)
	if !ok {
		t.Fatal("Load() after Save() returned nothing")
	}
	if entry.QueryText != "Matikata" || entry.Location != dhaka {
		t.Errorf("entry = %+v", entry)
	}
	if entry.Results.Total() != 2 || entry.Results["foodi"][0].Name != "Pizza Roma" {
		t.Errorf("results not preserved: %+v", entry.Results)
	}
}

func TestSaveOverwritesSingleSlot(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	c, _ := newTestCache(t)

	c.Save(ctx, results, dhaka, "first", nil)
	c.Save(ctx, models.ResultSet{}, models.Location{Lat: 1, Lng: 1}, "second", nil)

	entry, ok := c.Load(ctx)
	if !ok || entry.QueryText != "second" {
		t.Fatalf("Load() = %+v, %v; want the second save", entry, ok)
	}
}

func TestLoadExpiry(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := NewMemoryStorage()
	clock := newFakeClock()
	c := New(store, Options{Now: clock.Now})

	c.Save(ctx, results, dhaka, "Matikata", nil)

	clock.Advance(30 * time.Minute)
	if _, ok := c.Load(ctx); !ok {
		t.Fatal("entry exactly at TTL should still load")
	}

	clock.Advance(time.Minute)
	if _, ok := c.Load(ctx); ok {
		t.Fatal("entry older than TTL loaded")
	}
	if _, err := store.Get(ctx, EntryKey); !errors.Is(err, ErrNotFound) {
		t.Errorf("expired entry not evicted, Get err = %v", err)
	}
}

func TestShouldUseCache(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		loc     models.Location
		text    string
		advance time.Duration
		want    bool
	}{
		{"nearby and different case", models.Location{Lat: 23.8105, Lng: 90.4127}, "matikata", 0, true},
		{"same point", dhaka, "Matikata", 10 * time.Minute, true},
		{"latitude too far", models.Location{Lat: 23.8123, Lng: 90.4125}, "Matikata", 0, false},
		{"longitude too far", models.Location{Lat: 23.8103, Lng: 90.4145}, "Matikata", 0, false},
		{"other text", dhaka, "Banani", 0, false},
		{"expired", dhaka, "Matikata", 31 * time.Minute, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			ctx := context.Background()
			c, clock := newTestCache(t)
			c.Save(ctx, results, dhaka, "Matikata", nil)
			clock.Advance(tt.advance)

			entry, ok := c.ShouldUseCache(ctx, tt.loc, tt.text)
			if ok != tt.want {
				t.Fatalf("ShouldUseCache() = %v, want %v", ok, tt.want)
			}
			if ok && entry.Results.Total() != 2 {
				t.Errorf("hit returned wrong results: %+v", entry.Results)
			}
		})
	}
}

func TestClearIsIdempotent(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	c, _ := newTestCache(t)

	c.Clear(ctx)
	c.Save(ctx, results, dhaka, "Matikata", nil)
	c.Clear(ctx)
	c.Clear(ctx)

	if _, ok := c.Load(ctx); ok {
		t.Fatal("entry survived Clear")
	}
	if info := c.Info(ctx); info.HasCache {
		t.Errorf("Info() after Clear = %+v", info)
	}
}

func TestInfo(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	c, clock := newTestCache(t)

	if info := c.Info(ctx); info.HasCache || info.AgeMinutes != nil {
		t.Fatalf("Info() on empty cache = %+v", info)
	}

	c.Save(ctx, results, dhaka, "Matikata", nil)
	clock.Advance(7*time.Minute + 59*time.Second)

	info := c.Info(ctx)
	if !info.HasCache || info.QueryText != "Matikata" {
		t.Fatalf("Info() = %+v", info)
	}
	if info.AgeMinutes == nil || *info.AgeMinutes != 7 {
		t.Errorf("AgeMinutes = %v, want 7", info.AgeMinutes)
	}
}

func TestStorageFailuresAreSwallowed(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	c := New(failingStorage{}, Options{})

	c.Save(ctx, results, dhaka, "Matikata", nil)
	c.Clear(ctx)
	if _, ok := c.Load(ctx); ok {
		t.Error("Load() on failing storage returned an entry")
	}
	if _, ok := c.ShouldUseCache(ctx, dhaka, "Matikata"); ok {
		t.Error("ShouldUseCache() on failing storage returned a hit")
	}
	if info := c.Info(ctx); info.HasCache {
		t.Error("Info() on failing storage reported a cache")
	}
}

func TestCorruptEntryIsTreatedAsAbsent(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := NewMemoryStorage()
	if err := store.Set(ctx, EntryKey, []byte("{not json")); err != nil {
		t.Fatal(err)
	}
	c := New(store, Options{})

	if _, ok := c.Load(ctx); ok {
		t.Fatal("corrupt entry loaded")
	}
}

func TestIsLocationSimilar(t *testing.T) {
	t.Parallel()

	tests := []struct {
		a, b models.Location
		tol  float64
		want bool
	}{
		{dhaka, dhaka, 0.001, true},
		{dhaka, models.Location{Lat: 23.8108, Lng: 90.4120}, 0.001, true},
		{dhaka, models.Location{Lat: 23.8125, Lng: 90.4125}, 0.001, false},
		// per-axis, not euclidean: both axes just inside is still similar
		{dhaka, models.Location{Lat: 23.8112, Lng: 90.4134}, 0.001, true},
		{dhaka, models.Location{Lat: 23.8125, Lng: 90.4125}, 0.01, true},
	}
	for _, tt := range tests {
		if got := IsLocationSimilar(tt.a, tt.b, tt.tol); got != tt.want {
			t.Errorf("IsLocationSimilar(%v, %v, %v) = %v, want %v", tt.a, tt.b, tt.tol, got, tt.want)
		}
	}
}

func createTestBadgerDB(t *testing.T) *badger.DB {
	t.Helper()
	db, err := OpenBadger(t.TempDir(), false)
	if err != nil {
		t.Fatalf("OpenBadger: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestBadgerStorage(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := NewBadgerStorage(createTestBadgerDB(t))

	if _, err := store.Get(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Get(missing) err = %v, want ErrNotFound", err)
	}
	if err := store.Set(ctx, "k", []byte("v1")); err != nil {
		t.Fatal(err)
	}
	got, err := store.Get(ctx, "k")
	if err != nil || string(got) != "v1" {
		t.Fatalf("Get(k) = %q, %v", got, err)
	}
	if err := store.Delete(ctx, "k"); err != nil {
		t.Fatal(err)
	}
	if err := store.Delete(ctx, "k"); err != nil {
		t.Errorf("second Delete err = %v", err)
	}
}

func TestResultCacheSurvivesReopen(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	dir := t.TempDir()

	db, err := OpenBadger(dir, false)
	if err != nil {
		t.Fatal(err)
	}
	New(NewBadgerStorage(db), Options{}).Save(ctx, results, dhaka, "Matikata", nil)
	if err := db.Close(); err != nil {
		t.Fatal(err)
	}

	db, err = OpenBadger(dir, false)
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	entry, ok := New(NewBadgerStorage(db), Options{}).ShouldUseCache(ctx, dhaka, "MATIKATA")
	if !ok || entry.Results.Total() != 2 {
		t.Fatalf("entry not restored after reopen: %+v, %v", entry, ok)
	}
}

func TestValueLogCollector(t *testing.T) {
	t.Parallel()

	db := createTestBadgerDB(t)
	if _, err := NewValueLogCollector(db).Collect(); err != nil {
		t.Errorf("Collect() on fresh db = %v", err)
	}

	mem, err := OpenBadger("", true)
	if err != nil {
		t.Fatal(err)
	}
	defer mem.Close()
	if n, err := NewValueLogCollector(mem).Collect(); n != 0 || err != nil {
		t.Errorf("Collect() in memory = %d, %v", n, err)
	}
}
