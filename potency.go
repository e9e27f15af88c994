package budscan

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// Cannabinoid is one cannabinoid reading from a label. Either value may be absent.
type Cannabinoid struct {
	Name    string   `json:"name"`
	Percent *float64 `json:"percent"`
	Mg      *float64 `json:"mg"`
}

// Terpene is one terpene reading from a label.
type Terpene struct {
	Name    string  `json:"name"`
	Percent float64 `json:"percent"`
}

// NetWeight is the declared package weight. Unit is one of g, mg, oz.
type NetWeight struct {
	Value float64 `json:"value"`
	Unit  string  `json:"unit"`
}

// cannabinoidNames is the fixed vocabulary, in output order.
var cannabinoidNames = []string{"THC", "THCA", "THCV", "CBD", "CBDA", "CBG", "CBN", "CBC"}

// terpeneNames is the fixed terpene vocabulary, in output order.
var terpeneNames = []string{
	"myrcene", "limonene", "caryophyllene", "pinene",
	"linalool", "humulene", "terpinolene", "ocimene",
}

// keywordGap is the short window allowed between a keyword and its number.
// It is captured so amountOf can reject a gap that runs into another keyword.
const keywordGap = `([^\d\n%]{0,10})`

const numberGroup = `(\d+(?:\.\d+)?)`

type amountPatterns struct {
	percent *regexp.Regexp
	mg      *regexp.Regexp
}

func compileAmount(keyword string) amountPatterns {
	kw := `(?i)\b` + regexp.QuoteMeta(keyword) + `\b` + keywordGap + numberGroup
	return amountPatterns{
		percent: regexp.MustCompile(kw + `\s*%`),
		mg:      regexp.MustCompile(kw + `\s*mg\b`),
	}
}

var (
	cannabinoidPatterns = func() map[string]amountPatterns {
		m := make(map[string]amountPatterns, len(cannabinoidNames))
		for _, n := range cannabinoidNames {
			m[n] = compileAmount(n)
		}
		return m
	}()

	// vocabularyRe matches any cannabinoid or terpene keyword.
	vocabularyRe = func() *regexp.Regexp {
		words := make([]string, 0, len(cannabinoidNames)+len(terpeneNames))
		for _, n := range append(append([]string(nil), cannabinoidNames...), terpeneNames...) {
			words = append(words, regexp.QuoteMeta(n))
		}
		return regexp.MustCompile(`(?i)\b(?:` + strings.Join(words, "|") + `)\b`)
	}()

	terpenePatterns = func() map[string]*regexp.Regexp {
		m := make(map[string]*regexp.Regexp, len(terpeneNames))
		for _, n := range terpeneNames {
			m[n] = compileAmount(n).percent
		}
		return m
	}()

	netWeightRe = regexp.MustCompile(
		`(?i)(net\s*(?:wt|weight)\.?|weight|wt\.?)?\s*[:\-]?\s*` + numberGroup +
			`\s*(grams|gram|milligrams|mg|ounces|ounce|oz|g)\b`,
	)
)

// firstNumber returns the first captured number of re in text.
func firstNumber(re *regexp.Regexp, text string) (float64, bool) {
	m := re.FindStringSubmatch(text)
	if m == nil {
		return 0, false
	}
	v, err := strconv.ParseFloat(m[len(m)-1], 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// amountOf returns the number of the first keyword match built by
// compileAmount whose gap names no other keyword, so "THC: N/A CBD 5%"
// gives THC nothing.
func amountOf(re *regexp.Regexp, text string) (float64, bool) {
	for off := 0; off < len(text); {
		loc := re.FindStringSubmatchIndex(text[off:])
		if loc == nil {
			return 0, false
		}
		if gap := text[off+loc[2] : off+loc[3]]; !vocabularyRe.MatchString(gap) {
			v, err := strconv.ParseFloat(text[off+loc[4]:off+loc[5]], 64)
			return v, err == nil
		}
		// Retry from the end of the keyword; the gap may hold the same keyword again.
		off += loc[2]
	}
	return 0, false
}

// parsePercent finds "<keyword> ... <n>%" for a cannabinoid.
func parsePercent(text, name string) (float64, bool) {
	p, ok := cannabinoidPatterns[name]
	if !ok {
		return 0, false
	}
	return amountOf(p.percent, text)
}

// parseMg finds "<keyword> ... <n>mg" for a cannabinoid.
func parseMg(text, name string) (float64, bool) {
	p, ok := cannabinoidPatterns[name]
	if !ok {
		return 0, false
	}
	return amountOf(p.mg, text)
}

// parseCannabinoids returns every cannabinoid of the vocabulary with at least one reading.
func parseCannabinoids(text string) []Cannabinoid {
	var out []Cannabinoid
	for _, name := range cannabinoidNames {
		c := Cannabinoid{Name: name}
		if v, ok := parsePercent(text, name); ok {
			c.Percent = ptr(v)
		}
		if v, ok := parseMg(text, name); ok {
			c.Mg = ptr(v)
		}
		if c.Percent != nil || c.Mg != nil {
			out = append(out, c)
		}
	}
	return out
}

// parseTerpenes returns the terpene readings and their summed percentage.
func parseTerpenes(text string) ([]Terpene, float64, bool) {
	var (
		out   []Terpene
		total float64
	)
	for _, name := range terpeneNames {
		v, ok := amountOf(terpenePatterns[name], text)
		if !ok {
			continue
		}
		out = append(out, Terpene{Name: name, Percent: v})
		total += v
	}
	if len(out) == 0 {
		return nil, 0, false
	}
	return out, roundTo(total, 3), true
}

// parseNetWeight prefers a weight preceded by a marker phrase, then the first
// gram/ounce amount. Bare milligram amounts are potency, not weight.
func parseNetWeight(text string) (NetWeight, bool) {
	matches := netWeightRe.FindAllStringSubmatch(text, -1)
	var fallback *NetWeight
	for _, m := range matches {
		v, err := strconv.ParseFloat(m[2], 64)
		if err != nil {
			continue
		}
		nw := NetWeight{Value: v, Unit: normalizeWeightUnit(m[3])}
		if strings.TrimSpace(m[1]) != "" {
			return nw, true
		}
		if fallback == nil && nw.Unit != "mg" {
			fallback = &nw
		}
	}
	if fallback != nil {
		return *fallback, true
	}
	return NetWeight{}, false
}

func normalizeWeightUnit(u string) string {
	switch strings.ToLower(u) {
	case "mg", "milligrams":
		return "mg"
	case "oz", "ounce", "ounces":
		return "oz"
	default:
		return "g"
	}
}

func ptr[T any](v T) *T { return &v }

func roundTo(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
