// Khaboki - Restaurant Discovery and Delivery Comparison
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/khaboki

package surprise

import (
	"context"
	"errors"
	"math/rand"
	"testing"

	"github.com/tomtom215/khaboki/internal/models"
)

// scriptedSelector returns a fixed pick or error and records what it saw.
type scriptedSelector struct {
	pick    *models.Restaurant
	err     error
	calls   int
	lastLen int
	exclude bool
}

func (s *scriptedSelector) Pick(_ context.Context, candidates []models.Restaurant, _ *models.SurprisePreferences, exclude bool) (*models.Restaurant, error) {
	s.calls++
	s.lastLen = len(candidates)
	s.exclude = exclude
	return s.pick, s.err
}

func restaurants() models.ResultSet {
	return models.ResultSet{
		"foodpanda": {
			{Name: "Kacchi Bhai", Platform: "foodpanda", Rating: "4.5(1000+)"},
			{Name: "Chillox", Platform: "foodpanda"},
		},
		"foodi": {
			{Name: "Kacchi Bhai", Platform: "foodi"},
		},
	}
}

func seeded() *RandomSelector {
	return NewRandomSelectorWithRand(rand.New(rand.NewSource(42)))
}

func TestPickerEmptyResults(t *testing.T) {
	t.Parallel()

	p := NewPicker(&scriptedSelector{}, seeded())
	for _, rs := range []models.ResultSet{nil, {}, {"foodpanda": nil, "foodi": {}}} {
		if _, err := p.Pick(context.Background(), rs, nil, false); !errors.Is(err, ErrNoRestaurants) {
			t.Errorf("Pick(%v) error = %v, want ErrNoRestaurants", rs, err)
		}
	}
}

func TestPickerUsesAIPick(t *testing.T) {
	t.Parallel()

	// The model echoes a trimmed copy; the candidate itself is returned.
	ai := &scriptedSelector{pick: &models.Restaurant{Name: "Kacchi Bhai", Platform: "FOODPANDA"}}
	p := NewPicker(ai, seeded())

	sel, err := p.Pick(context.Background(), restaurants(), nil, false)
	if err != nil {
		t.Fatalf("Pick() error = %v", err)
	}
	if sel.Source != models.SourceAI {
		t.Errorf("Source = %s, want ai", sel.Source)
	}
	if sel.Restaurant.Rating != "4.5(1000+)" || sel.Restaurant.Platform != "foodpanda" {
		t.Errorf("Restaurant = %+v, want the candidate record", sel.Restaurant)
	}
	if sel.HistorySize != 1 || ai.lastLen != 3 {
		t.Errorf("HistorySize = %d, candidates seen = %d", sel.HistorySize, ai.lastLen)
	}
}

func TestPickerFallsBack(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		ai   SelectionService
	}{
		{"no selector", nil},
		{"selector error", &scriptedSelector{err: errors.New("quota exceeded")}},
		{"rate limited", &scriptedSelector{err: ErrRateLimited}},
		{"nil pick", &scriptedSelector{}},
		{"pick not among candidates", &scriptedSelector{pick: &models.Restaurant{Name: "Imaginary Diner", Platform: "foodi"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			p := NewPicker(tt.ai, seeded())
			sel, err := p.Pick(context.Background(), restaurants(), nil, false)
			if err != nil {
				t.Fatalf("Pick() error = %v, want fallback", err)
			}
			if sel.Source != models.SourceRandom {
				t.Errorf("Source = %s, want random", sel.Source)
			}
			if _, ok := find(pipelineAll(), &sel.Restaurant); !ok {
				t.Errorf("fallback pick %+v not in candidates", sel.Restaurant)
			}
		})
	}
}

func TestPickerExclusionCyclesThroughEveryRestaurant(t *testing.T) {
	t.Parallel()

	p := NewPicker(nil, seeded())
	ctx := context.Background()

	first, err := p.Pick(ctx, restaurants(), nil, false)
	if err != nil {
		t.Fatal(err)
	}
	seen := map[string]bool{first.Restaurant.Key(): true}

	for i := 0; i < 2; i++ {
		sel, err := p.Pick(ctx, restaurants(), nil, true)
		if err != nil {
			t.Fatal(err)
		}
		if seen[sel.Restaurant.Key()] {
			t.Fatalf("repeat pick %s before exhausting candidates", sel.Restaurant.Key())
		}
		seen[sel.Restaurant.Key()] = true
		if sel.HistorySize != i+2 {
			t.Errorf("HistorySize = %d, want %d", sel.HistorySize, i+2)
		}
	}

	// Everything has been suggested: history resets, then grows by one.
	sel, err := p.Pick(ctx, restaurants(), nil, true)
	if err != nil {
		t.Fatal(err)
	}
	if sel.HistorySize != 1 {
		t.Errorf("HistorySize after exhaustion = %d, want 1", sel.HistorySize)
	}
}

func TestPickerExclusionNarrowsAICandidates(t *testing.T) {
	t.Parallel()

	ai := &scriptedSelector{pick: &models.Restaurant{Name: "Chillox", Platform: "foodpanda"}}
	p := NewPicker(ai, seeded())
	ctx := context.Background()

	if _, err := p.Pick(ctx, restaurants(), nil, false); err != nil {
		t.Fatal(err)
	}
	ai.pick = &models.Restaurant{Name: "Kacchi Bhai", Platform: "foodi"}
	sel, err := p.Pick(ctx, restaurants(), nil, true)
	if err != nil {
		t.Fatal(err)
	}
	if ai.lastLen != 2 || !ai.exclude {
		t.Errorf("AI saw %d candidates (exclude=%v), want 2 (true)", ai.lastLen, ai.exclude)
	}
	if sel.Source != models.SourceAI || sel.HistorySize != 2 {
		t.Errorf("Selection = %+v", sel)
	}

	// A previously suggested restaurant is no longer a candidate.
	ai.pick = &models.Restaurant{Name: "Chillox", Platform: "foodpanda"}
	sel, err = p.Pick(ctx, restaurants(), nil, true)
	if err != nil {
		t.Fatal(err)
	}
	if sel.Source != models.SourceRandom || sel.Restaurant.Key() != "Kacchi Bhai|foodpanda" {
		t.Errorf("Selection = %+v, want random fallback to the only remaining restaurant", sel)
	}
}

func TestPickerFreshRequestResetsHistory(t *testing.T) {
	t.Parallel()

	p := NewPicker(nil, seeded())
	ctx := context.Background()
	for i := 0; i < 2; i++ {
		_, _ = p.Pick(ctx, restaurants(), nil, true)
	}
	if p.HistoryLen() != 2 {
		t.Fatalf("HistoryLen() = %d", p.HistoryLen())
	}

	sel, _ := p.Pick(ctx, restaurants(), nil, false)
	h := p.History()
	if len(h) != 1 || h[0].Key() != sel.Restaurant.Key() {
		t.Errorf("History() = %v, want only the last pick", h)
	}

	p.Reset()
	if p.HistoryLen() != 0 {
		t.Errorf("HistoryLen() after Reset = %d", p.HistoryLen())
	}
}

func TestRandomSelector(t *testing.T) {
	t.Parallel()

	s := seeded()
	if _, err := s.Pick(context.Background(), nil, nil, false); !errors.Is(err, ErrNoRestaurants) {
		t.Errorf("Pick(nil) error = %v", err)
	}

	one := []models.Restaurant{{Name: "Only"}}
	for i := 0; i < 20; i++ {
		pick, err := s.Pick(context.Background(), one, nil, false)
		if err != nil || pick.Name != "Only" {
			t.Fatalf("Pick() = %v, %v", pick, err)
		}
	}

	all := pipelineAll()
	counts := map[string]int{}
	for i := 0; i < 300; i++ {
		pick, _ := s.Pick(context.Background(), all, nil, false)
		counts[pick.Key()]++
	}
	for _, r := range all {
		if counts[r.Key()] == 0 {
			t.Errorf("%s never picked in 300 draws", r.Key())
		}
	}
}

func pipelineAll() []models.Restaurant {
	rs := restaurants()
	return append(append([]models.Restaurant{}, rs["foodpanda"]...), rs["foodi"]...)
}
