package budscan

import (
	"strings"
)

// textMatchWeight multiplies TextMatch in the total: printed label text is the
// most reliable signal and must dominate visual cues when present.
const textMatchWeight = 2

const (
	maxTextMatch     = 200
	fullNameMatch    = 200
	nameWordMatch    = 30
	looseNameMatch   = 150
	maxWebMatch      = 40
	webFullNameScale = 30
	webWordScale     = 5
	minNameWordLen   = 4
)

// ScoreBreakdown holds the named components of a candidate's match score.
type ScoreBreakdown struct {
	ColorMatch     float64 `json:"colorMatch"`
	TypeIndicators float64 `json:"typeIndicators"`
	TextMatch      float64 `json:"textMatch"`
	WebMatch       float64 `json:"webMatch"`
	EffectLabels   float64 `json:"effectLabels"`
	FlavorLabels   float64 `json:"flavorLabels"`
	Total          float64 `json:"total"`
}

// Sum computes the weighted total from the components.
func (b ScoreBreakdown) Sum() float64 {
	return b.ColorMatch + b.TypeIndicators + textMatchWeight*b.TextMatch +
		b.WebMatch + b.EffectLabels + b.FlavorLabels
}

// withTotal returns b with Total recomputed from its components.
func (b ScoreBreakdown) withTotal() ScoreBreakdown {
	b.Total = b.Sum()
	return b
}

// bonus selects the macro or regular value of a scoring rule.
func bonus(macro bool, regular, macroValue float64) float64 {
	if macro {
		return macroValue
	}
	return regular
}

// ScoreEntry scores one catalog entry against the extracted features. The
// macro flag marks a bare bud photo: visual cues weigh more and text and web
// signals are skipped.
func ScoreEntry(entry CatalogEntry, fr FeatureRecord, macro bool) ScoreBreakdown {
	b := ScoreBreakdown{
		ColorMatch:     colorScore(entry, fr, macro),
		TypeIndicators: typeScore(entry, fr, macro),
		EffectLabels:   tagOverlapScore(entry.Effects, fr, macro),
		FlavorLabels:   tagOverlapScore(entry.Flavors, fr, macro),
	}
	if !macro {
		b.TextMatch = textScore(entry.Name, fr.Text)
		b.WebMatch = webScore(entry.Name, fr.WebHits)
	}
	return b.withTotal()
}

func colorScore(entry CatalogEntry, fr FeatureRecord, macro bool) float64 {
	name := strings.ToLower(entry.Name)
	desc := strings.ToLower(entry.Description)

	score := 0.0
	if fr.DominantColor != "" {
		if strings.Contains(name, fr.DominantColor) {
			score += bonus(macro, 25, 35)
		}
		if strings.Contains(desc, fr.DominantColor) {
			score += bonus(macro, 10, 20)
		}
	}
	for _, c := range fr.SecondaryColors {
		if strings.Contains(name, c) || strings.Contains(desc, c) {
			score += bonus(macro, 5, 10)
		}
	}
	return score
}

var (
	indicaTraits = []string{"purple", "violet", "dense", "compact", "thick"}
	sativaTraits = []string{"tall", "light", "bright", "thin", "airy"}
)

func typeScore(entry CatalogEntry, fr FeatureRecord, macro bool) float64 {
	switch entry.Type {
	case TypeIndica:
		if fr.hasTagContaining(indicaTraits...) {
			return bonus(macro, 20, 30)
		}
	case TypeSativa:
		if fr.hasTagContaining(sativaTraits...) {
			return bonus(macro, 20, 30)
		}
	case TypeHybrid:
		return bonus(macro, 10, 20)
	}
	return 0
}

// textScore matches the entry name against OCR text; the result never exceeds maxTextMatch.
func textScore(name, text string) float64 {
	normText := normalizeName(text)
	normName := normalizeName(name)
	if normText == "" || normName == "" {
		return 0
	}

	score := 0.0
	if mutualContains(normText, normName) {
		score = fullNameMatch
	} else {
		for _, w := range strings.Fields(normName) {
			if len(w) >= minNameWordLen && strings.Contains(normText, w) {
				score += nameWordMatch
			}
		}
	}

	if strings.Contains(strings.ToLower(text), strings.ToLower(strings.TrimSpace(name))) {
		score += looseNameMatch
	}
	return min(score, maxTextMatch)
}

// webScore weighs web entity hits naming the entry; capped at maxWebMatch.
func webScore(name string, hits []WebHit) float64 {
	lowerName := strings.ToLower(strings.TrimSpace(name))
	if lowerName == "" {
		return 0
	}
	words := strings.Fields(normalizeName(name))

	score := 0.0
	for _, h := range hits {
		if strings.Contains(h.Description, lowerName) {
			score += webFullNameScale * h.Score
		}
		for _, w := range words {
			if len(w) >= minNameWordLen && strings.Contains(h.Description, w) {
				score += webWordScale * h.Score
			}
		}
	}
	return min(score, maxWebMatch)
}

// tagOverlapScore counts labels (effects or flavors) that appear inside a detected tag.
func tagOverlapScore(labels []string, fr FeatureRecord, macro bool) float64 {
	per := bonus(macro, 3, 6)
	score := 0.0
	for _, l := range labels {
		l = strings.ToLower(strings.TrimSpace(l))
		if l != "" && fr.hasTagContaining(l) {
			score += per
		}
	}
	return score
}
