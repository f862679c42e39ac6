// Khaboki - Restaurant Discovery and Delivery Comparison
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/khaboki

// Package surprise picks a single restaurant for the "Surprise Me" button.
//
// A Picker asks an AI selector first and falls back to a uniform random
// choice whenever the AI is unavailable, errors, or answers with something
// that is not one of the candidates. Only an empty result set is reported
// as an error.
package surprise

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"time"

	"github.com/tomtom215/khaboki/internal/models"
)

// ErrNoRestaurants is returned when there is nothing to choose from.
var ErrNoRestaurants = errors.New("no restaurants available")

// SelectionService chooses one restaurant out of candidates.
//
// prefs may be nil. excludePrevious tells the selector the user asked for
// something different from earlier picks. Implementations may return a
// restaurant that is not among the candidates; callers must check.
type SelectionService interface {
	Pick(ctx context.Context, candidates []models.Restaurant, prefs *models.SurprisePreferences, excludePrevious bool) (*models.Restaurant, error)
}

// RandomSelector picks uniformly at random. It is safe for concurrent use.
type RandomSelector struct {
	mu  sync.Mutex
	rng *rand.Rand
}

var _ SelectionService = (*RandomSelector)(nil)

// NewRandomSelector returns a selector seeded from the clock.
func NewRandomSelector() *RandomSelector {
	return NewRandomSelectorWithRand(rand.New(rand.NewSource(time.Now().UnixNano()))) //nolint:gosec // not security sensitive
}

// NewRandomSelectorWithRand uses rng, typically a fixed seed in tests.
func NewRandomSelectorWithRand(rng *rand.Rand) *RandomSelector {
	return &RandomSelector{rng: rng}
}

// Pick implements SelectionService.
func (s *RandomSelector) Pick(_ context.Context, candidates []models.Restaurant, _ *models.SurprisePreferences, _ bool) (*models.Restaurant, error) {
	if len(candidates) == 0 {
		return nil, ErrNoRestaurants
	}
	s.mu.Lock()
	i := s.rng.Intn(len(candidates))
	s.mu.Unlock()

	pick := candidates[i]
	return &pick, nil
}
