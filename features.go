package budscan

import (
	"sort"
	"strings"
)

// Palette color names produced by ColorName.
const (
	ColorPurple      = "purple"
	ColorGreen       = "green"
	ColorYellowGreen = "yellow-green"
	ColorOrange      = "orange"
	ColorBrown       = "brown"
	ColorWhite       = "white"
	ColorDark        = "dark"
)

// maxSwatches is how many swatches survive extraction: the dominant one plus two.
const maxSwatches = 3

// macroTags are close-up botanical labels typical of a bare bud photo.
var macroTags = map[string]bool{
	"leaf":            true,
	"macro":           true,
	"trichome":        true,
	"close-up":        true,
	"herb":            true,
	"green":           true,
	"weed":            true,
	"perennial plant": true,
}

// minMacroTags is how many macroTags must be present to flag a macro image.
const minMacroTags = 3

// WebHit is a web entity with its description lower-cased.
type WebHit struct {
	Description string
	Score       float64
}

// FeatureRecord is the normalized view of an AnnotationBundle used for scoring.
type FeatureRecord struct {
	Tags            []string // lower-cased tag names, input order
	DominantColor   string   // palette name of the most prominent swatch
	SecondaryColors []string // palette names of the next two swatches
	Text            string   // cleaned OCR text, original case
	WebHits         []WebHit
	Objects         map[string]bool
}

// ColorName maps an RGB triple onto the fixed palette using channel-dominance rules.
func ColorName(r, g, b int) string {
	switch {
	case r < 50 && g < 50 && b < 50:
		return ColorDark
	case r > 200 && g > 200 && b > 200:
		return ColorWhite
	case b > r && b > g && b > 150:
		return ColorPurple
	case r > 100 && b > 100 && g+30 < r && g+30 < b:
		return ColorPurple
	case g > r && g > b && g > 150 && r < 100:
		return ColorGreen
	case g >= r && g > b && g > 150 && b < 120:
		return ColorYellowGreen
	case r > 200 && g >= 100 && g <= 180 && b < 100:
		return ColorOrange
	case r > g && g > b && r > 100 && b < 100:
		return ColorBrown
	default:
		return ColorGreen
	}
}

// ExtractFeatures normalizes an annotation bundle. Missing fields default to empty values.
func ExtractFeatures(bundle AnnotationBundle) FeatureRecord {
	fr := FeatureRecord{
		Tags:          make([]string, 0, len(bundle.Tags)),
		DominantColor: ColorGreen,
		Text:          cleanText(bundle.DetectedText),
		Objects:       make(map[string]bool, len(bundle.Objects)),
	}

	for _, t := range bundle.Tags {
		name := strings.ToLower(strings.TrimSpace(t.Name))
		if name != "" {
			fr.Tags = append(fr.Tags, name)
		}
	}

	swatches := rankSwatches(bundle.DominantColors)
	for i, s := range swatches {
		name := ColorName(s.Red, s.Green, s.Blue)
		if i == 0 {
			fr.DominantColor = name
			continue
		}
		fr.SecondaryColors = append(fr.SecondaryColors, name)
	}

	for _, e := range bundle.WebEntities {
		desc := strings.ToLower(strings.TrimSpace(e.Description))
		if desc == "" {
			continue
		}
		fr.WebHits = append(fr.WebHits, WebHit{Description: desc, Score: e.Score})
	}

	for _, o := range bundle.Objects {
		if name := strings.ToLower(strings.TrimSpace(o)); name != "" {
			fr.Objects[name] = true
		}
	}

	return fr
}

// rankSwatches orders swatches by coverage, keeping input order on ties,
// and returns at most maxSwatches of them. The input is not modified.
func rankSwatches(in []ColorSwatch) []ColorSwatch {
	out := make([]ColorSwatch, len(in))
	copy(out, in)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Coverage > out[j].Coverage
	})
	if len(out) > maxSwatches {
		out = out[:maxSwatches]
	}
	return out
}

// IsMacroImage reports a bare close-up bud photo: enough macro tags and no OCR text.
func IsMacroImage(fr FeatureRecord) bool {
	if strings.TrimSpace(fr.Text) != "" {
		return false
	}
	seen := make(map[string]bool)
	for _, t := range fr.Tags {
		if macroTags[t] {
			seen[t] = true
		}
	}
	return len(seen) >= minMacroTags
}

// hasTagContaining reports whether any tag contains one of the given words.
func (fr FeatureRecord) hasTagContaining(words ...string) bool {
	for _, t := range fr.Tags {
		for _, w := range words {
			if strings.Contains(t, w) {
				return true
			}
		}
	}
	return false
}
