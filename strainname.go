package budscan

import (
	"regexp"
	"slices"
	"sort"
	"strings"
)

// Name guess sources.
const (
	SourceLine  = "line"
	SourceLabel = "label"
)

// NameCandidate is a proposed strain or product name read off a label.
type NameCandidate struct {
	Name   string  `json:"name"`
	Score  float64 `json:"score"`
	Source string  `json:"source"`
}

// NameGuesser proposes name candidates from OCR lines. known holds catalog
// names already matched visually; guessers may use them to disambiguate.
type NameGuesser interface {
	Source() string
	MaxScore() float64
	Candidates(lines []string, known []string) []NameCandidate
}

// brandPlaceholders are brand names that OCR keeps proposing as strain names.
var brandPlaceholders = []string{"dark horse"}

var strainKeywords = map[string]bool{
	"kush": true, "og": true, "haze": true, "runtz": true, "gelato": true, "cake": true,
	"cookies": true, "diesel": true, "sherbet": true, "zkittlez": true, "mints": true,
	"glue": true, "punch": true, "pie": true, "sour": true, "chem": true, "gas": true,
	"fuel": true, "berry": true, "cherry": true, "banana": true, "papaya": true,
	"tangie": true, "slurricane": true,
}

// hasStrainKeyword reports whether any word of s is a strain keyword.
func hasStrainKeyword(s string) bool {
	for _, w := range strings.Fields(normalizeName(s)) {
		if strainKeywords[w] {
			return true
		}
	}
	return false
}

// lineDenylist holds compliance and marketing boilerplate fragments. A line
// carrying any of them as whole words is never a name.
var lineDenylist = withMarketingPhrases([]string{
	"set the", "net wt", "net weight", "batch", "activation time",
	"lic", "license", "thc", "cbd", "warning", "keep out", "government", "tested",
	"mfg", "exp", "pkg", "serving", "servings", "ingredients", "universal symbol",
	"www", "com", "for use only", "contains", "distributed", "manufactured",
	"cultivated", "lot", "harvest", "packaged", "total",
})

// withMarketingPhrases appends every marketingTable phrase, normalized and deduplicated.
func withMarketingPhrases(deny []string) []string {
	for _, m := range marketingTable {
		if p := normalizeName(m.phrase); !slices.Contains(deny, p) {
			deny = append(deny, p)
		}
	}
	return deny
}

// labelDenylist extends lineDenylist with packaging and product-category terms.
var labelDenylist = append(append([]string(nil), lineDenylist...),
	"weight", "grams", "gram", "oz", "package", "cannabinoids", "terpenes",
	"children", "pregnancy", "pregnant", "impair", "machinery", "adults",
	"flower", "pre roll", "preroll", "pre rolls", "vape", "cartridge", "cart",
	"pod", "disposable", "concentrate", "rosin", "badder",
	"edible", "edibles", "gummies", "gummy",
	"chocolate", "tincture", "topical", "indica", "sativa", "hybrid", "cannabis",
	"marijuana", "product", "effects", "delayed", "dosage", "eighth", "brand",
)

var longDigitsRe = regexp.MustCompile(`\d{4,}`)

// isBoilerplate reports whether line carries any denylisted fragment as whole words.
func isBoilerplate(line string, deny []string) bool {
	normed := normalizeName(line)
	for _, d := range deny {
		if containsNormalized(normed, d) {
			return true
		}
	}
	return false
}

// nameTokens splits a line into words, trimming edge punctuation.
func nameTokens(line string) []string {
	raw := strings.Fields(line)
	out := make([]string, 0, len(raw))
	for _, t := range raw {
		t = strings.Trim(t, `.,;:!?"()[]{}#*|/\_-+=~`)
		if t != "" {
			out = append(out, t)
		}
	}
	return out
}

// lineGuesser scores each surviving line by strain keywords, word count,
// casing and agreement with visually matched catalog names.
type lineGuesser struct{}

func (lineGuesser) Source() string    { return SourceLine }
func (lineGuesser) MaxScore() float64 { return 6 }

func (lineGuesser) Candidates(lines []string, known []string) []NameCandidate {
	knownWords := make([][]string, 0, len(known))
	for _, k := range known {
		if ws := strings.Fields(normalizeName(k)); len(ws) > 0 {
			knownWords = append(knownWords, ws)
		}
	}

	var out []NameCandidate
	for _, line := range lines {
		if isBoilerplate(line, lineDenylist) || longDigitsRe.MatchString(line) {
			continue
		}
		var words []string
		for _, t := range nameTokens(line) {
			if !hasDigit(t) {
				words = append(words, t)
			}
		}
		if len(words) == 0 {
			continue
		}
		cleaned := strings.Join(words, " ")

		score := 0.0
		if hasStrainKeyword(cleaned) {
			score += 2
		}
		if len(words) >= 2 && len(words) <= 4 {
			score++
		}
		if !isAllCaps(cleaned) {
			score++
		}
		lineWords := wordSet(normalizeName(line))
		for _, kw := range knownWords {
			if allIn(kw, lineWords) {
				score += 2
				break
			}
		}
		if score <= 0 {
			continue
		}
		out = append(out, NameCandidate{Name: titleCase(cleaned), Score: score, Source: SourceLine})
	}
	sortCandidates(out)
	return out
}

// labelGuesser is the miner's extraction path: a broader denylist and a
// score dominated by the number of meaningful words and strain hints.
type labelGuesser struct{}

// maxNameWords rejects sentence-length lines.
const maxNameWords = 6

var nameStopWords = map[string]bool{
	"the": true, "and": true, "of": true, "by": true, "with": true, "for": true,
	"a": true, "an": true, "in": true, "to": true, "is": true, "or": true,
}

func (labelGuesser) Source() string    { return SourceLabel }
func (labelGuesser) MaxScore() float64 { return 25*4 + 100 + 20 + 15 }

func (labelGuesser) Candidates(lines []string, _ []string) []NameCandidate {
	var out []NameCandidate
	for _, line := range lines {
		if isBoilerplate(line, labelDenylist) || longDigitsRe.MatchString(line) {
			continue
		}
		tokens := nameTokens(line)
		if len(tokens) == 0 || hasLongID(tokens) {
			continue
		}

		var meaningful []string
		letters := 0
		for _, t := range tokens {
			if isLetters(t) {
				letters++
			}
			if hasDigit(t) || len(t) < 2 || nameStopWords[strings.ToLower(t)] {
				continue
			}
			meaningful = append(meaningful, t)
		}
		if len(meaningful) == 0 || len(meaningful) > maxNameWords {
			continue
		}

		score := 25 * float64(len(meaningful))
		if hasStrainKeyword(strings.Join(meaningful, " ")) {
			score += 100
		}
		if len(meaningful) >= 2 && len(meaningful) <= 4 {
			score += 20
		}
		if float64(letters) >= 0.8*float64(len(tokens)) {
			score += 15
		}
		out = append(out, NameCandidate{
			Name:   titleCase(strings.Join(meaningful, " ")),
			Score:  score,
			Source: SourceLabel,
		})
	}
	sortCandidates(out)
	return out
}

// hasLongID reports a token that looks like a package or lab identifier:
// six or more characters mixing letters and digits.
func hasLongID(tokens []string) bool {
	const minIDLen = 6
	for _, t := range tokens {
		if len(t) >= minIDLen && hasDigit(t) && strings.IndexFunc(t, isASCIILetter) >= 0 {
			return true
		}
	}
	return false
}

func isASCIILetter(r rune) bool { return r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' }

func sortCandidates(c []NameCandidate) {
	sort.SliceStable(c, func(i, j int) bool { return c[i].Score > c[j].Score })
}

func wordSet(normalized string) map[string]bool {
	ws := strings.Fields(normalized)
	set := make(map[string]bool, len(ws))
	for _, w := range ws {
		set[w] = true
	}
	return set
}

func allIn(words []string, set map[string]bool) bool {
	for _, w := range words {
		if !set[w] {
			return false
		}
	}
	return true
}

// nameGuessers are consulted in this order; earlier sources win exact ties.
var nameGuessers = []NameGuesser{lineGuesser{}, labelGuesser{}}

// nameRejects returns the normalized names that must never be accepted as a
// strain guess: brand placeholders and the label's own brand.
func nameRejects(brand string) map[string]bool {
	rejects := make(map[string]bool, len(brandPlaceholders)+1)
	for _, b := range brandPlaceholders {
		rejects[normalizeName(b)] = true
	}
	if b := normalizeName(brand); b != "" {
		rejects[b] = true
	}
	return rejects
}

// pickName selects one candidate across all strategies. A candidate naming a
// catalog entry beats any unconfirmed one and takes the catalog spelling;
// otherwise the highest score relative to its strategy's maximum wins.
func pickName(cands []NameCandidate, catalogNames map[string]string, rejects map[string]bool) (NameCandidate, bool) {
	maxScores := make(map[string]float64, len(nameGuessers))
	rank := make(map[string]int, len(nameGuessers))
	for i, g := range nameGuessers {
		maxScores[g.Source()] = g.MaxScore()
		rank[g.Source()] = i
	}
	relative := func(c NameCandidate) float64 {
		if m := maxScores[c.Source]; m > 0 {
			return min(c.Score/m, 1)
		}
		return 0
	}

	var (
		best          NameCandidate
		bestConfirmed bool
		found         bool
	)
	for _, c := range cands {
		key := normalizeName(c.Name)
		if key == "" || rejects[key] {
			continue
		}
		display, confirmed := catalogNames[key]
		if confirmed {
			c.Name = display
		}
		if !found {
			best, bestConfirmed, found = c, confirmed, true
			continue
		}
		switch {
		case confirmed != bestConfirmed:
			if confirmed {
				best, bestConfirmed = c, confirmed
			}
		case relative(c) != relative(best):
			if relative(c) > relative(best) {
				best, bestConfirmed = c, confirmed
			}
		case rank[c.Source] < rank[best.Source]:
			best, bestConfirmed = c, confirmed
		}
	}
	return best, found
}

// gatherCandidates runs every guesser over lines.
func gatherCandidates(lines []string, known []string) []NameCandidate {
	var all []NameCandidate
	for _, g := range nameGuessers {
		all = append(all, g.Candidates(lines, known)...)
	}
	return all
}
