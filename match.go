package budscan

import (
	"sort"
)

const (
	// MaxMatches is the length limit of MatchResult.Matches.
	MaxMatches = 5

	exactLabelBoost = 500
	ocrBackedBonus  = 150
	minPreferred    = 1

	maxResultNames = 8
)

// ExactLabelReason annotates a match promoted because its name is printed on the label.
const ExactLabelReason = "Exact product name read from label"

// CategoryPackaged is accepted as a packaged-product category by the OCR-backed pass.
const CategoryPackaged = "packaged"

// MatchStrainByVisuals ranks catalog entries against one annotation bundle.
//
// The call is pure: it reads the bundle and the catalog snapshot, never
// mutates either, and returns identical results for identical inputs. A
// non-empty catalog always yields at least one match.
func MatchStrainByVisuals(bundle AnnotationBundle, catalog []CatalogEntry) MatchResult {
	fr := ExtractFeatures(bundle)
	insights := MineLabel(bundle.DetectedText)
	macro := IsMacroImage(fr)

	if len(catalog) == 0 {
		return finalize(nil, insights)
	}

	scored := scoreAll(catalog, fr, macro)
	top := rankMatches(scored)
	if len(top) > MaxMatches {
		top = top[:MaxMatches]
	}

	names := catalogNames(catalog)
	insights.StrainNameGuess = refineNameGuess(insights, fr.Text, top, names)

	top = promoteExactLabel(top, scored, insights.StrainNameGuess, names)

	if isPackagedInsights(insights) {
		var backed string
		top, backed = promoteOCRBacked(top, fr.Text)
		if backed != "" {
			insights.StrainNameGuess = backed
		}
	}

	return finalize(top, insights)
}

// scoreAll scores every entry, in catalog order. Entries whose normalized name
// and the OCR text contain one another get an extra text bonus so they are
// not out-ranked on ties by looser substring hits.
func scoreAll(catalog []CatalogEntry, fr FeatureRecord, macro bool) []ScoredMatch {
	normText := normalizeName(fr.Text)
	out := make([]ScoredMatch, len(catalog))
	for i, entry := range catalog {
		b := ScoreEntry(entry, fr, macro)
		if !macro && mutualContains(normText, normalizeName(entry.Name)) {
			b.TextMatch += ocrBackedBonus
			b = b.withTotal()
		}
		out[i] = ScoredMatch{
			Entry:     entry,
			Score:     b.Total,
			Reasoning: Reasoning(b, fr.DominantColor, entry.Type),
			Breakdown: b,
		}
	}
	return out
}

// rankMatches sorts positive-score matches best first, preferring those at or
// above minPreferred. When nothing scores above zero the single best entry is
// kept so a non-empty catalog never yields an empty list.
func rankMatches(scored []ScoredMatch) []ScoredMatch {
	var positive []ScoredMatch
	for _, m := range scored {
		if m.Score > 0 {
			positive = append(positive, m)
		}
	}
	sort.SliceStable(positive, func(i, j int) bool {
		return positive[i].Score > positive[j].Score
	})

	var preferred []ScoredMatch
	for _, m := range positive {
		if m.Score >= minPreferred {
			preferred = append(preferred, m)
		}
	}
	switch {
	case len(preferred) > 0:
		return preferred
	case len(positive) > 0:
		return positive
	case len(scored) > 0:
		best := scored[0]
		for _, m := range scored[1:] {
			if m.Score > best.Score {
				best = m
			}
		}
		return []ScoredMatch{best}
	default:
		return nil
	}
}

// catalogNames maps each normalized catalog name to its first entry's spelling.
func catalogNames(catalog []CatalogEntry) map[string]string {
	out := make(map[string]string, len(catalog))
	for _, e := range catalog {
		key := normalizeName(e.Name)
		if _, ok := out[key]; key != "" && !ok {
			out[key] = e.Name
		}
	}
	return out
}

// refineNameGuess re-runs every name strategy now that visual matches exist
// and keeps the miner's guess unless a candidate emerges.
func refineNameGuess(ins LabelInsights, text string, top []ScoredMatch, names map[string]string) string {
	known := make([]string, len(top))
	for i, m := range top {
		known[i] = m.Entry.Name
	}
	rejects := nameRejects(ins.Brand)
	if c, ok := pickName(gatherCandidates(textLines(text), known), names, rejects); ok {
		return c.Name
	}
	if rejects[normalizeName(ins.StrainNameGuess)] {
		return ""
	}
	return ins.StrainNameGuess
}

// promoteExactLabel moves the entry whose name equals the guessed label name
// to rank one with a large boost. An entry outside the working list is pulled
// in with the boost as its score. A guess naming no catalog entry changes nothing.
func promoteExactLabel(top, scored []ScoredMatch, guess string, names map[string]string) []ScoredMatch {
	key := normalizeName(guess)
	if key == "" {
		return top
	}
	if _, ok := names[key]; !ok {
		return top
	}

	for i, m := range top {
		if normalizeName(m.Entry.Name) != key {
			continue
		}
		m.Score += exactLabelBoost
		m.Reasoning = prependReason(m.Reasoning, ExactLabelReason)
		return moveToFront(top, i, m)
	}

	for _, m := range scored {
		if normalizeName(m.Entry.Name) != key {
			continue
		}
		m.Score = exactLabelBoost
		m.Reasoning = prependReason(m.Reasoning, ExactLabelReason)
		out := make([]ScoredMatch, 0, len(top)+1)
		out = append(out, m)
		out = append(out, top...)
		if len(out) > MaxMatches {
			out = out[:MaxMatches]
		}
		return out
	}
	return top
}

// promoteOCRBacked moves the first working match whose name is printed in the
// OCR text to rank one and returns its name.
func promoteOCRBacked(top []ScoredMatch, text string) ([]ScoredMatch, string) {
	normText := normalizeName(text)
	if normText == "" {
		return top, ""
	}
	for i, m := range top {
		if containsName(normText, normalizeName(m.Entry.Name)) {
			return moveToFront(top, i, m), m.Entry.Name
		}
	}
	return top, ""
}

func isPackagedInsights(ins LabelInsights) bool {
	return ins.IsPackagedProduct || ins.Category == CategoryVape || ins.Category == CategoryPackaged
}

// moveToFront returns a copy of list with m (the updated element i) first.
func moveToFront(list []ScoredMatch, i int, m ScoredMatch) []ScoredMatch {
	out := make([]ScoredMatch, 0, len(list))
	out = append(out, m)
	out = append(out, list[:i]...)
	out = append(out, list[i+1:]...)
	return out
}

func prependReason(reasons []string, r string) []string {
	out := make([]string, 0, len(reasons)+1)
	out = append(out, r)
	for _, have := range reasons {
		if have != LowConfidenceReason {
			out = append(out, have)
		}
	}
	return out
}

// finalize assigns confidences and assembles the result.
func finalize(top []ScoredMatch, ins LabelInsights) MatchResult {
	matches := make([]ScoredMatch, len(top))
	for i, m := range top {
		m.Confidence = Confidence(m.Score)
		matches[i] = m
	}

	res := MatchResult{
		Matches:           matches,
		OtherMatches:      []ScoredMatch{},
		LabelInsights:     ins,
		IsPackagedProduct: ins.IsPackagedProduct,
	}
	if len(matches) > 0 {
		first := matches[0]
		res.TopMatch = &first
		res.OtherMatches = matches[1:]
	}

	var names []string
	names = appendUnique(names, ins.StrainNameGuess)
	for _, n := range ins.CandidateNames {
		names = appendUnique(names, n)
	}
	for _, m := range matches {
		names = appendUnique(names, m.Entry.Name)
	}
	if len(names) > maxResultNames {
		names = names[:maxResultNames]
	}
	res.CandidateNames = names
	return res
}
