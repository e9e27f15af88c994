package budscan

import (
	"testing"
)

func TestScoreBreakdownSum(t *testing.T) {
	t.Parallel()

	b := ScoreBreakdown{ColorMatch: 25, TypeIndicators: 10, TextMatch: 30, WebMatch: 20, EffectLabels: 3, FlavorLabels: 6}
	if got, want := b.Sum(), 25.0+10+2*30+20+3+6; got != want {
		t.Errorf("Sum() = %v, want %v", got, want)
	}
	if got := b.withTotal().Total; got != b.Sum() {
		t.Errorf("withTotal().Total = %v, want %v", got, b.Sum())
	}
}

func TestTextScore(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		entry string
		text  string
		want  float64
	}{
		{name: "exact name", entry: "Blue Dream", text: "blue dream", want: 200},
		{name: "name inside label", entry: "Sour Diesel", text: "SOUR DIESEL 3.5G", want: 200},
		{name: "label inside name", entry: "Sour Diesel Reserve", text: "sour diesel", want: 200},
		{name: "one long word", entry: "Blue Dream", text: "Dream big", want: 30},
		{name: "two long words apart", entry: "Granddaddy Purple Kush", text: "purple\nfrom granddaddy", want: 60},
		{name: "short words ignored", entry: "OG Kush", text: "og", want: 0},
		{name: "no text", entry: "OG Kush", text: "", want: 0},
		{name: "no match", entry: "Wedding Cake", text: "Net Wt 3.5g", want: 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := textScore(tc.entry, tc.text); got != tc.want {
				t.Errorf("textScore(%q, %q) = %v, want %v", tc.entry, tc.text, got, tc.want)
			}
		})
	}
}

func TestWebScore(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		hits []WebHit
		want float64
	}{
		{name: "no hits", hits: nil, want: 0},
		{name: "full name", hits: []WebHit{{Description: "blue dream strain", Score: 0.5}}, want: 20},
		{name: "word only", hits: []WebHit{{Description: "dream catcher", Score: 1}}, want: 5},
		{name: "capped", hits: []WebHit{{Description: "blue dream", Score: 1}, {Description: "blue dream seeds", Score: 1}}, want: 40},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := webScore("Blue Dream", tc.hits); got != tc.want {
				t.Errorf("webScore() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestColorScore(t *testing.T) {
	t.Parallel()

	entry := CatalogEntry{Name: "Purple Punch", Description: "Purple and green hues"}
	fr := FeatureRecord{DominantColor: ColorPurple, SecondaryColors: []string{ColorGreen, ColorWhite}}

	if got := colorScore(entry, fr, false); got != 40 {
		t.Errorf("colorScore() = %v, want 40", got)
	}
	if got := colorScore(entry, fr, true); got != 65 {
		t.Errorf("colorScore(macro) = %v, want 65", got)
	}
}

func TestTypeScore(t *testing.T) {
	t.Parallel()

	dense := FeatureRecord{Tags: []string{"dense bud"}}
	airy := FeatureRecord{Tags: []string{"airy flower"}}

	tests := []struct {
		name  string
		typ   ProductType
		fr    FeatureRecord
		macro bool
		want  float64
	}{
		{name: "indica with trait", typ: TypeIndica, fr: dense, want: 20},
		{name: "indica macro", typ: TypeIndica, fr: dense, macro: true, want: 30},
		{name: "indica without trait", typ: TypeIndica, fr: airy, want: 0},
		{name: "sativa with trait", typ: TypeSativa, fr: airy, want: 20},
		{name: "hybrid", typ: TypeHybrid, want: 10},
		{name: "hybrid macro", typ: TypeHybrid, macro: true, want: 20},
		{name: "unknown", typ: TypeUnknown, fr: dense, want: 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := typeScore(CatalogEntry{Type: tc.typ}, tc.fr, tc.macro); got != tc.want {
				t.Errorf("typeScore() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestTagOverlapScore(t *testing.T) {
	t.Parallel()

	fr := FeatureRecord{Tags: []string{"relaxed mood", "berry"}}
	labels := []string{"Relaxed", "Happy", " berry "}

	if got := tagOverlapScore(labels, fr, false); got != 6 {
		t.Errorf("tagOverlapScore() = %v, want 6", got)
	}
	if got := tagOverlapScore(labels, fr, true); got != 12 {
		t.Errorf("tagOverlapScore(macro) = %v, want 12", got)
	}
}

func TestScoreEntryMacroSkipsTextAndWeb(t *testing.T) {
	t.Parallel()

	entry := CatalogEntry{Name: "Purple Punch", Type: TypeIndica}
	fr := FeatureRecord{
		DominantColor: ColorPurple,
		Text:          "Purple Punch",
		WebHits:       []WebHit{{Description: "purple punch", Score: 1}},
	}

	regular := ScoreEntry(entry, fr, false)
	if regular.TextMatch == 0 || regular.WebMatch == 0 {
		t.Errorf("regular breakdown = %+v, want text and web contributions", regular)
	}

	macro := ScoreEntry(entry, fr, true)
	if macro.TextMatch != 0 || macro.WebMatch != 0 {
		t.Errorf("macro breakdown = %+v, want no text or web contribution", macro)
	}
	if macro.Total != macro.Sum() {
		t.Errorf("Total = %v, want %v", macro.Total, macro.Sum())
	}
}
