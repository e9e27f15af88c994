package budscan

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestConfidence(t *testing.T) {
	t.Parallel()

	tests := []struct {
		score float64
		want  int
	}{
		{score: 0, want: 30},
		{score: 1, want: 31},
		{score: 5, want: 37},
		{score: 10, want: 44},
		{score: 12.5, want: 48},
		{score: 13, want: 49},
		{score: 29.99, want: 49},
		{score: 30, want: 50},
		{score: 45, want: 65},
		{score: 49.9, want: 69},
		{score: 50, want: 70},
		{score: 75, want: 80},
		{score: 99.9, want: 89},
		{score: 100, want: 95},
		{score: 180, want: 99},
		{score: 1200, want: 99},
		{score: -5, want: 30},
		{score: math.NaN(), want: 0},
		{score: math.Inf(1), want: 99},
	}

	for _, tc := range tests {
		if got := Confidence(tc.score); got != tc.want {
			t.Errorf("Confidence(%v) = %d, want %d", tc.score, got, tc.want)
		}
	}
}

func TestConfidenceMonotonic(t *testing.T) {
	t.Parallel()

	prev := Confidence(0)
	for s := 0.0; s <= 300; s += 0.25 {
		got := Confidence(s)
		if got < prev {
			t.Fatalf("Confidence(%v) = %d < previous %d", s, got, prev)
		}
		if got < 0 || got > MaxConfidence {
			t.Fatalf("Confidence(%v) = %d out of range", s, got)
		}
		prev = got
	}
}

func TestReasoning(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		b     ScoreBreakdown
		color string
		typ   ProductType
		want  []string
	}{
		{
			name: "nothing clears a threshold",
			b:    ScoreBreakdown{TextMatch: 19, WebMatch: 19, ColorMatch: 19, TypeIndicators: 14, EffectLabels: 5},
			want: []string{LowConfidenceReason},
		},
		{
			name: "full text and web",
			b:    ScoreBreakdown{TextMatch: 200, WebMatch: 20},
			want: []string{"Name found in label text", "Similar images found online"},
		},
		{
			name: "partial text",
			b:    ScoreBreakdown{TextMatch: 30},
			want: []string{"Partial name match in label text"},
		},
		{
			name:  "visual signals",
			b:     ScoreBreakdown{ColorMatch: 35, TypeIndicators: 20, EffectLabels: 6, FlavorLabels: 6},
			color: ColorPurple,
			typ:   TypeIndica,
			want: []string{
				"Dominant purple color matches this strain",
				"Dense, compact structure typical of indica",
				"Detected features match known effects",
				"Detected features match flavor profile",
			},
		},
		{
			name: "sativa structure",
			b:    ScoreBreakdown{TypeIndicators: 15},
			typ:  TypeSativa,
			want: []string{"Airy, light structure typical of sativa"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got := Reasoning(tc.b, tc.color, tc.typ)
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Errorf("Reasoning mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
