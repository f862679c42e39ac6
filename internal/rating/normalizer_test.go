// Khaboki - Restaurant Discovery and Delivery Comparison
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/khaboki

package rating

import (
	"fmt"
	"math"
	"testing"

	"github.com/tomtom215/khaboki/internal/models"
)

func TestNormalize(t *testing.T) {
	t.Parallel()

	n := Default()
	tests := []struct {
		name     string
		rating   string
		platform string
		want     models.BayesianRating
	}{
		{
			name: "few reviews pulled toward foodpanda prior", rating: "5.0(10)", platform: "foodpanda",
			want: models.BayesianRating{RawRating: 5.0, AdjustedRating: 4.3, ReviewCount: 10, Confidence: models.ConfidenceLow},
		},
		{
			name: "plus suffix and high confidence", rating: "4.5(1000+)", platform: "foodpanda",
			want: models.BayesianRating{RawRating: 4.5, AdjustedRating: 4.5, ReviewCount: 1000, Confidence: models.ConfidenceHigh},
		},
		{
			name: "foodi prior", rating: "4.8(50)", platform: "foodi",
			want: models.BayesianRating{RawRating: 4.8, AdjustedRating: 4.3, ReviewCount: 50, Confidence: models.ConfidenceMedium},
		},
		{
			name: "unknown platform uses all prior", rating: "3.0(25)", platform: "pathao",
			want: models.BayesianRating{RawRating: 3.0, AdjustedRating: 3.8, ReviewCount: 25, Confidence: models.ConfidenceMedium},
		},
		{
			name: "platform case ignored", rating: "5.0(10)", platform: "FOODPANDA",
			want: models.BayesianRating{RawRating: 5.0, AdjustedRating: 4.3, ReviewCount: 10, Confidence: models.ConfidenceLow},
		},
		{
			name: "integer average", rating: "4(100)", platform: "all",
			want: models.BayesianRating{RawRating: 4, AdjustedRating: 4.0, ReviewCount: 100, Confidence: models.ConfidenceHigh},
		},
		{
			name: "zero reviews equals prior", rating: "1.0(0)", platform: "foodi",
			want: models.BayesianRating{RawRating: 1.0, AdjustedRating: 3.8, ReviewCount: 0, Confidence: models.ConfidenceLow},
		},
		{
			name: "embedded in text", rating: "Rated 4.2(99) by users", platform: "foodpanda",
			want: models.BayesianRating{RawRating: 4.2, AdjustedRating: 4.2, ReviewCount: 99, Confidence: models.ConfidenceMedium},
		},
		{name: "no reviews marker", rating: "4.5", platform: "foodpanda", want: models.BayesianRating{Confidence: models.ConfidenceLow}},
		{name: "no rating", rating: "No rating", platform: "foodi", want: models.BayesianRating{Confidence: models.ConfidenceLow}},
		{name: "empty", rating: "", platform: "", want: models.BayesianRating{Confidence: models.ConfidenceLow}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := n.Normalize(tt.rating, tt.platform); got != tt.want {
				t.Errorf("Normalize(%q, %q) = %+v, want %+v", tt.rating, tt.platform, got, tt.want)
			}
		})
	}
}

func TestAdjustedMovesTowardRawAsReviewsGrow(t *testing.T) {
	t.Parallel()

	n := Default()
	prev := -1.0
	for _, reviews := range []int{0, 1, 10, 100, 1000, 100000} {
		got := n.Adjusted(fmt.Sprintf("5.0(%d+)", reviews), "foodpanda")
		if got < prev {
			t.Errorf("reviews=%d: adjusted %v dropped below %v", reviews, got, prev)
		}
		if reviews == 0 && got != 4.2 {
			t.Errorf("reviews=0: adjusted = %v, want the 4.2 prior", got)
		}
		prev = got
	}
	if math.Abs(prev-5.0) > 0.05 {
		t.Errorf("adjusted with 100000 reviews = %v, want within 0.05 of 5.0", prev)
	}
}

func TestNormalizeIsDeterministic(t *testing.T) {
	t.Parallel()

	n := Default()
	first := n.Normalize("4.1(37)", "foodi")
	for i := 0; i < 100; i++ {
		if got := n.Normalize("4.1(37)", "foodi"); got != first {
			t.Fatalf("call %d returned %+v, first was %+v", i, got, first)
		}
	}
}

func TestConfidenceBoundaries(t *testing.T) {
	t.Parallel()

	tests := map[int]models.Confidence{
		0:   models.ConfidenceLow,
		24:  models.ConfidenceLow,
		25:  models.ConfidenceMedium,
		99:  models.ConfidenceMedium,
		100: models.ConfidenceHigh,
	}
	for reviews, want := range tests {
		if got := ConfidenceFor(reviews); got != want {
			t.Errorf("ConfidenceFor(%d) = %s, want %s", reviews, got, want)
		}
	}
}

func TestNewNormalizerCustomPriors(t *testing.T) {
	t.Parallel()

	n := NewNormalizer(map[string]Prior{"FoodPanda": {Average: 3.0, Count: 10}})

	if p := n.Prior("foodpanda"); p.Average != 3.0 || p.Count != 10 {
		t.Errorf("Prior(foodpanda) = %+v", p)
	}
	if p := n.Prior("unknown"); p != DefaultPriors()[models.PlatformAll] {
		t.Errorf("missing all entry should fall back to the built-in prior, got %+v", p)
	}
	// (3.0*10 + 5.0*10) / 20 = 4.0
	if got := n.Adjusted("5.0(10)", "foodpanda"); got != 4.0 {
		t.Errorf("Adjusted = %v, want 4.0", got)
	}
}

func TestRoundTenthHalfUp(t *testing.T) {
	t.Parallel()

	tests := map[float64]float64{
		4.25:  4.3,
		4.249: 4.2,
		3.96:  4.0,
	}
	for in, want := range tests {
		if got := roundTenth(in); got != want {
			t.Errorf("roundTenth(%v) = %v, want %v", in, got, want)
		}
	}
}
