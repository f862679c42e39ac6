// Khaboki - Restaurant Discovery and Delivery Comparison
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/khaboki

package surprise

import (
	"context"
	"errors"
	"sync"

	"github.com/tomtom215/khaboki/internal/breaker"
	"github.com/tomtom215/khaboki/internal/logging"
	"github.com/tomtom215/khaboki/internal/metrics"
	"github.com/tomtom215/khaboki/internal/models"
	"github.com/tomtom215/khaboki/internal/pipeline"
)

// Selection is the outcome of one Picker.Pick.
type Selection struct {
	Restaurant  models.Restaurant      `json:"restaurant"`
	Source      models.SelectionSource `json:"source"`
	HistorySize int                    `json:"history_size"`
}

// Picker holds the suggestion history and applies the exclusion and
// fallback rules around a SelectionService. It is safe for concurrent use.
type Picker struct {
	mu       sync.Mutex
	ai       SelectionService
	fallback *RandomSelector
	history  []models.Restaurant
}

// NewPicker creates a picker. ai may be nil, in which case every pick is
// random. fallback may be nil to use a clock-seeded RandomSelector.
func NewPicker(ai SelectionService, fallback *RandomSelector) *Picker {
	if fallback == nil {
		fallback = NewRandomSelector()
	}
	return &Picker{ai: ai, fallback: fallback}
}

// Pick chooses one restaurant from results.
//
// With excludePrevious, earlier picks are skipped until every restaurant
// has been suggested, at which point the history starts over. A pick made
// with excludePrevious is appended to the history; otherwise the history
// becomes just this pick.
//
// ErrNoRestaurants is the only error returned.
func (p *Picker) Pick(ctx context.Context, results models.ResultSet, prefs *models.SurprisePreferences, excludePrevious bool) (*Selection, error) {
	all := pipeline.Merge(results)
	if len(all) == 0 {
		return nil, ErrNoRestaurants
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	eligible := all
	if excludePrevious && len(p.history) > 0 {
		eligible = p.withoutHistory(all)
		if len(eligible) == 0 {
			logging.Ctx(ctx).Debug().Int("restaurants", len(all)).Msg("All restaurants suggested, resetting history")
			p.history = nil
			eligible = all
		}
	}

	pick, source := p.choose(ctx, eligible, prefs, excludePrevious)

	if excludePrevious {
		p.history = append(p.history, pick)
	} else {
		p.history = []models.Restaurant{pick}
	}
	metrics.SurpriseSelections.WithLabelValues(string(source)).Inc()

	return &Selection{Restaurant: pick, Source: source, HistorySize: len(p.history)}, nil
}

// choose asks the AI selector and falls back to random selection over the
// same eligible set. eligible is never empty here.
func (p *Picker) choose(ctx context.Context, eligible []models.Restaurant, prefs *models.SurprisePreferences, excludePrevious bool) (models.Restaurant, models.SelectionSource) {
	if p.ai != nil {
		pick, err := p.ai.Pick(ctx, eligible, prefs, excludePrevious)
		switch {
		case err != nil:
			logging.Ctx(ctx).Warn().Err(err).Msg("AI selection failed, falling back to random")
			metrics.SurpriseFallbacks.WithLabelValues(fallbackReason(err)).Inc()
		case pick == nil:
			logging.Ctx(ctx).Warn().Msg("AI selection returned nothing, falling back to random")
			metrics.SurpriseFallbacks.WithLabelValues("empty").Inc()
		default:
			if match, ok := find(eligible, pick); ok {
				return match, models.SourceAI
			}
			logging.Ctx(ctx).Warn().
				Str("name", pick.Name).
				Str("platform", pick.Platform).
				Msg("AI picked a restaurant outside the candidates, falling back to random")
			metrics.SurpriseFallbacks.WithLabelValues("unknown_pick").Inc()
		}
	}

	// eligible is non-empty so the random selector cannot fail.
	pick, _ := p.fallback.Pick(ctx, eligible, prefs, excludePrevious)
	return *pick, models.SourceRandom
}

func (p *Picker) withoutHistory(all []models.Restaurant) []models.Restaurant {
	out := make([]models.Restaurant, 0, len(all))
	for i := range all {
		if _, seen := find(p.history, &all[i]); !seen {
			out = append(out, all[i])
		}
	}
	return out
}

// find returns the element of list with the same identity as r.
func find(list []models.Restaurant, r *models.Restaurant) (models.Restaurant, bool) {
	for i := range list {
		if list[i].SameAs(r) {
			return list[i], true
		}
	}
	return models.Restaurant{}, false
}

func fallbackReason(err error) string {
	switch {
	case errors.Is(err, ErrRateLimited):
		return "rate_limited"
	case errors.Is(err, ErrEmptyReply):
		return "empty"
	case breaker.IsRejected(err):
		return "circuit_open"
	default:
		return "error"
	}
}

// Reset forgets every previous suggestion.
func (p *Picker) Reset() {
	p.mu.Lock()
	p.history = nil
	p.mu.Unlock()
}

// History returns a copy of previous suggestions, oldest first.
func (p *Picker) History() []models.Restaurant {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]models.Restaurant, len(p.history))
	copy(out, p.history)
	return out
}

// HistoryLen returns the number of previous suggestions.
func (p *Picker) HistoryLen() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.history)
}
