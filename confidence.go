package budscan

import (
	"fmt"
	"math"
)

// MaxConfidence is the ceiling of the confidence scale.
const MaxConfidence = 99

// Confidence maps a total score onto an integer percentage in [0, 99].
// The mapping is piecewise linear and non-decreasing in score.
func Confidence(score float64) int {
	if math.IsNaN(score) {
		return 0
	}
	score = math.Max(score, 0)
	var c float64
	switch {
	case score >= 100:
		c = math.Min(90+math.Floor(score/20), MaxConfidence)
	case score >= 50:
		c = 70 + math.Floor((score-50)/2.5)
	case score >= 30:
		c = 50 + math.Floor(score-30)
	default:
		// Capped below the next band so the curve never drops at 30.
		c = math.Min(30+math.Floor(score/0.67), 49)
	}
	return clampConfidence(c)
}

func clampConfidence(c float64) int {
	return int(math.Max(0, math.Min(c, MaxConfidence)))
}

// Reasoning thresholds.
const (
	reasonTextFull   = 50
	reasonTextPart   = 20
	reasonWeb        = 20
	reasonColor      = 20
	reasonType       = 15
	reasonTagOverlap = 6
)

// LowConfidenceReason is the only reason given when no signal clears its threshold.
const LowConfidenceReason = "Low confidence, try another image"

// Reasoning turns a score breakdown into short ordered justifications.
func Reasoning(b ScoreBreakdown, dominantColor string, t ProductType) []string {
	var out []string
	switch {
	case b.TextMatch >= reasonTextFull:
		out = append(out, "Name found in label text")
	case b.TextMatch >= reasonTextPart:
		out = append(out, "Partial name match in label text")
	}
	if b.WebMatch >= reasonWeb {
		out = append(out, "Similar images found online")
	}
	if b.ColorMatch >= reasonColor {
		out = append(out, fmt.Sprintf("Dominant %s color matches this strain", dominantColor))
	}
	if b.TypeIndicators >= reasonType {
		out = append(out, typeReason(t))
	}
	if b.EffectLabels >= reasonTagOverlap {
		out = append(out, "Detected features match known effects")
	}
	if b.FlavorLabels >= reasonTagOverlap {
		out = append(out, "Detected features match flavor profile")
	}
	if len(out) == 0 {
		return []string{LowConfidenceReason}
	}
	return out
}

func typeReason(t ProductType) string {
	switch t {
	case TypeIndica:
		return "Dense, compact structure typical of indica"
	case TypeSativa:
		return "Airy, light structure typical of sativa"
	case TypeHybrid:
		return "Balanced traits consistent with a hybrid"
	default:
		return "Visual traits consistent with this type"
	}
}
