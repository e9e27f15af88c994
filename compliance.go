package budscan

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Product categories returned by classifyCategory.
const (
	CategoryFlower      = "flower"
	CategoryVape        = "vape"
	CategoryConcentrate = "concentrate"
	CategoryEdible      = "edible"
	CategoryTopical     = "topical"
	CategoryTincture    = "tincture"
	CategoryUnknown     = "unknown"
)

// Dosage is the per-serving breakdown printed on edibles.
type Dosage struct {
	PerServingMg *float64 `json:"perServingMg"`
	Servings     *int     `json:"servings"`
	TotalMg      *float64 `json:"totalMg"`
}

type keywordBucket struct {
	category string
	patterns []*regexp.Regexp
}

// wordPattern matches phrase case-insensitively on word boundaries.
func wordPattern(phrase string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(phrase) + `\b`)
}

func wordPatterns(phrases ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(phrases))
	for i, p := range phrases {
		out[i] = wordPattern(p)
	}
	return out
}

// categoryBuckets are checked in order; the first bucket with a hit wins.
var categoryBuckets = []keywordBucket{
	{CategoryFlower, wordPatterns("flower", "pre-roll", "pre-rolls", "preroll", "pre roll", "bud", "buds", "smalls", "shake", "eighth")},
	{CategoryVape, wordPatterns("vape", "cartridge", "cart", "pod", "disposable", "510")},
	{CategoryConcentrate, wordPatterns("concentrate", "extract", "wax", "shatter", "budder", "badder", "rosin", "live resin", "diamonds", "sauce", "crumble", "distillate", "hash")},
	{CategoryEdible, wordPatterns("edible", "edibles", "gummy", "gummies", "chocolate", "chews", "beverage", "cookie", "brownie", "candy")},
	{CategoryTopical, wordPatterns("topical", "lotion", "balm", "salve", "cream", "transdermal")},
	{CategoryTincture, wordPatterns("tincture", "drops", "sublingual", "dropper")},
}

// classifyCategory returns the first category bucket matching text.
func classifyCategory(text string) string {
	for _, b := range categoryBuckets {
		for _, re := range b.patterns {
			if re.MatchString(text) {
				return b.category
			}
		}
	}
	return CategoryUnknown
}

var productTypePatterns = []struct {
	t  ProductType
	re *regexp.Regexp
}{
	{TypeHybrid, wordPattern("hybrid")},
	{TypeIndica, wordPattern("indica")},
	{TypeSativa, wordPattern("sativa")},
}

// parseProductTypeText finds an indica/sativa/hybrid marker; hybrid wins over
// "indica-dominant hybrid" style labels.
func parseProductTypeText(text string) (ProductType, bool) {
	for _, p := range productTypePatterns {
		if p.re.MatchString(text) {
			return p.t, true
		}
	}
	return TypeUnknown, false
}

var (
	batchRe   = regexp.MustCompile(`(?i)\b(?:batch|lot)\s*(?:#|no\.?|number|id)?\s*[:#]?\s*([A-Z0-9][A-Z0-9\-]{2,})`)
	licenseRe = regexp.MustCompile(`(?i)\b(?:lic(?:ense)?)\.?\s*(?:#|no\.?|number)?\s*[:#]?\s*([A-Z0-9][A-Z0-9\-]{3,})`)
	labRe     = regexp.MustCompile(`(?i)\b(?:tested\s+by\s*[:\-]?|(?:testing\s+)?lab(?:oratory)?\s*[:\-])\s*([A-Za-z][A-Za-z0-9&.,' \-]{1,40})`)
)

// parseMarkedToken returns the first token following re's marker that contains a digit.
func parseMarkedToken(re *regexp.Regexp, text string) (string, bool) {
	for _, m := range re.FindAllStringSubmatch(text, -1) {
		tok := strings.Trim(m[1], "-")
		if hasDigit(tok) {
			return strings.ToUpper(tok), true
		}
	}
	return "", false
}

func parseBatchID(text string) (string, bool) { return parseMarkedToken(batchRe, text) }

func parseLicenseNumber(text string) (string, bool) { return parseMarkedToken(licenseRe, text) }

// parseLabName returns the testing lab named after a "tested by" style marker.
func parseLabName(text string) (string, bool) {
	for _, line := range strings.Split(text, "\n") {
		m := labRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		name := strings.Trim(m[1], " .,-:")
		if name == "" || hasDigit(name) && len(strings.Fields(name)) == 1 {
			continue
		}
		return name, true
	}
	return "", false
}

const dateGroup = `(\d{4}-\d{1,2}-\d{1,2}|\d{1,2}[/.\-]\d{1,2}[/.\-]\d{2,4})`

var (
	packagedDateRe   = regexp.MustCompile(`(?i)\b(?:pkg|packaged|packed|package|mfg|manufactured|harvest(?:ed)?)\s*(?:date|on|d)?\.?\s*[:\-]?\s*` + dateGroup)
	testedDateRe     = regexp.MustCompile(`(?i)\b(?:tested|test|testing|analy[sz]ed)\s*(?:date|on)?\.?\s*[:\-]?\s*` + dateGroup)
	expirationDateRe = regexp.MustCompile(`(?i)\b(?:exp|expires|expiration|expiry|best\s+by|use\s+by)\s*(?:date|on)?\.?\s*[:\-]?\s*` + dateGroup)
)

var dateLayouts = []string{"2006-1-2", "1/2/2006", "1/2/06", "1-2-2006", "1-2-06", "1.2.2006", "1.2.06"}

// parseDate returns the date after re's marker, as YYYY-MM-DD when it parses.
func parseDate(re *regexp.Regexp, text string) (string, bool) {
	m := re.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	raw := m[1]
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.Format("2006-01-02"), true
		}
	}
	return raw, true
}

// usStates maps state codes to names.
var usStates = map[string]string{
	"AL": "alabama", "AK": "alaska", "AZ": "arizona", "AR": "arkansas", "CA": "california",
	"CO": "colorado", "CT": "connecticut", "DE": "delaware", "FL": "florida", "GA": "georgia",
	"HI": "hawaii", "ID": "idaho", "IL": "illinois", "IN": "indiana", "IA": "iowa",
	"KS": "kansas", "KY": "kentucky", "LA": "louisiana", "ME": "maine", "MD": "maryland",
	"MA": "massachusetts", "MI": "michigan", "MN": "minnesota", "MS": "mississippi", "MO": "missouri",
	"MT": "montana", "NE": "nebraska", "NV": "nevada", "NH": "new hampshire", "NJ": "new jersey",
	"NM": "new mexico", "NY": "new york", "NC": "north carolina", "ND": "north dakota", "OH": "ohio",
	"OK": "oklahoma", "OR": "oregon", "PA": "pennsylvania", "RI": "rhode island", "SC": "south carolina",
	"SD": "south dakota", "TN": "tennessee", "TX": "texas", "UT": "utah", "VT": "vermont",
	"VA": "virginia", "WA": "washington", "WV": "west virginia", "WI": "wisconsin", "WY": "wyoming",
	"DC": "district of columbia",
}

// ambiguousStateCodes are also common English words or label abbreviations;
// they only count after a comma ("Denver, CO" style).
var ambiguousStateCodes = map[string]bool{
	"OR": true, "IN": true, "ME": true, "OK": true, "HI": true, "DE": true, "OH": true,
	"AL": true, "ID": true, "LA": true, "MA": true, "PA": true, "MD": true, "MS": true,
	"SC": true, "CT": true, "NE": true, "VA": true, "GA": true, "AR": true,
}

var (
	stateTokenRe = regexp.MustCompile(`(,\s*)?\b([A-Z]{2})\b`)
	stateNameRes = func() map[string]*regexp.Regexp {
		m := make(map[string]*regexp.Regexp, len(usStates))
		for code, name := range usStates {
			m[code] = wordPattern(name)
		}
		return m
	}()
)

// parseJurisdiction scans for a US state code token, then for a full state name.
func parseJurisdiction(text string) (string, bool) {
	for _, m := range stateTokenRe.FindAllStringSubmatch(text, -1) {
		code := m[2]
		if _, ok := usStates[code]; !ok {
			continue
		}
		if ambiguousStateCodes[code] && m[1] == "" {
			continue
		}
		return code, true
	}

	best, bestIdx := "", -1
	for code, re := range stateNameRes {
		loc := re.FindStringIndex(text)
		if loc == nil {
			continue
		}
		// Earliest mention wins; longer names win at the same offset
		// ("west virginia" over "virginia"), code order breaks exact ties.
		if bestIdx == -1 || loc[0] < bestIdx ||
			loc[0] == bestIdx && (len(usStates[code]) > len(usStates[best]) ||
				len(usStates[code]) == len(usStates[best]) && code < best) {
			best, bestIdx = code, loc[0]
		}
	}
	if bestIdx >= 0 {
		return best, true
	}
	return "", false
}

// Warning flags toggled by warningRules.
const (
	flagNone = iota
	flagChildren
	flagPregnancy
	flagImpairment
	flagAdultUse
)

// warningRules map lower-cased label phrases to canonical warnings.
var warningRules = []struct {
	phrases []string
	warning string
	flag    int
}{
	{[]string{"keep out of reach of children", "keep away from children", "out of reach of children", "keep out of the reach of children"}, "Keep out of reach of children", flagChildren},
	{[]string{"pregnan", "breastfeeding", "breast-feeding", "nursing"}, "Not for use during pregnancy or breastfeeding", flagPregnancy},
	{[]string{"impair", "operate machinery", "operating machinery", "do not drive", "driving"}, "May impair ability to drive or operate machinery", flagImpairment},
	{[]string{"21 and older", "21 years", "adults 21", "21+", "for adult use", "adult use only"}, "For use only by adults 21 and older", flagAdultUse},
	{[]string{"government warning"}, "Government warning", flagNone},
	{[]string{"habit forming", "habit-forming"}, "May be habit forming", flagNone},
	{[]string{"not been evaluated by the fda", "not evaluated by the fda", "fda has not"}, "Not evaluated by the FDA", flagNone},
	{[]string{"health risks", "health risk"}, "Health risks associated with consumption", flagNone},
	{[]string{"delayed effect", "effects may be delayed", "activation time", "onset"}, "Effects may be delayed", flagNone},
}

type warningSet struct {
	warnings   []string
	children   bool
	pregnancy  bool
	impairment bool
	adultUse   bool
}

// parseWarnings collects deduplicated canonical warnings and their flags.
func parseWarnings(text string) warningSet {
	var ws warningSet
	lower := strings.ToLower(text)
	seen := make(map[string]bool)
	for _, rule := range warningRules {
		for _, p := range rule.phrases {
			if !strings.Contains(lower, p) {
				continue
			}
			if !seen[rule.warning] {
				seen[rule.warning] = true
				ws.warnings = append(ws.warnings, rule.warning)
			}
			switch rule.flag {
			case flagChildren:
				ws.children = true
			case flagPregnancy:
				ws.pregnancy = true
			case flagImpairment:
				ws.impairment = true
			case flagAdultUse:
				ws.adultUse = true
			}
			break
		}
	}
	return ws
}

// marketingTable maps label phrases to marketing tags, in output order.
var marketingTable = []struct {
	phrase string
	tag    string
}{
	{"full spectrum", "full-spectrum"},
	{"full-spectrum", "full-spectrum"},
	{"live resin", "live-resin"},
	{"sauce", "sauce"},
	{"hash rosin", "hash-rosin"},
	{"solventless", "solventless"},
	{"cured resin", "cured-resin"},
	{"diamonds", "diamonds"},
	{"shatter", "shatter"},
	{"wax", "wax"},
	{"budder", "budder"},
	{"crumble", "crumble"},
}

var marketingPatterns = func() []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(marketingTable))
	for i, e := range marketingTable {
		out[i] = wordPattern(e.phrase)
	}
	return out
}()

// parseMarketingTags returns the deduplicated marketing tags present in text.
func parseMarketingTags(text string) []string {
	var tags []string
	seen := make(map[string]bool)
	for i, e := range marketingTable {
		if seen[e.tag] || !marketingPatterns[i].MatchString(text) {
			continue
		}
		seen[e.tag] = true
		tags = append(tags, e.tag)
	}
	return tags
}

var (
	perServingRes = []*regexp.Regexp{
		regexp.MustCompile(`(?i)` + numberGroup + `\s*mg\s*(?:thc\s*|cbd\s*)?(?:per|/|each|a)\s*(?:serving|piece|gummy|pc|chew|dose)`),
		regexp.MustCompile(`(?i)(?:per\s+serving|each\s+(?:piece|gummy|serving)|serving\s+size)\s*[:\-]?\s*` + numberGroup + `\s*mg`),
	}
	servingsRes = []*regexp.Regexp{
		regexp.MustCompile(`(?i)servings\s*(?:per\s*(?:package|container|pack))?\s*[:\-]?\s*(\d+)\b`),
		regexp.MustCompile(`(?i)\b(\d+)\s*(?:servings|pieces|gummies|pcs|chews|ct|count)\b`),
	}
)

// parseDosage extracts per-serving milligrams and serving count.
func parseDosage(text string) (Dosage, bool) {
	var d Dosage
	for _, re := range perServingRes {
		if v, ok := firstNumber(re, text); ok {
			d.PerServingMg = ptr(v)
			break
		}
	}
	for _, re := range servingsRes {
		m := re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		if n, err := strconv.Atoi(m[1]); err == nil && n > 0 {
			d.Servings = ptr(n)
			break
		}
	}
	if d.PerServingMg == nil && d.Servings == nil {
		return Dosage{}, false
	}
	if d.PerServingMg != nil && d.Servings != nil {
		d.TotalMg = ptr(roundTo(*d.PerServingMg*float64(*d.Servings), 2))
	}
	return d, true
}

// packagingMarkers indicate printed packaging even when no field parses.
var packagingMarkers = []string{
	"batch", "lot #", "lic #", "license", "net wt", "net weight", "tested by",
	"government warning", "pkg date", "packaged", "mfg", "exp date", "total thc", "thc:",
	"keep out of reach", "universal symbol",
}

func hasPackagingMarker(text string) bool {
	lower := strings.ToLower(text)
	for _, m := range packagingMarkers {
		if strings.Contains(lower, m) {
			return true
		}
	}
	return false
}

var brandMarkerRe = regexp.MustCompile(`(?i)^(?:brand\s*[:\-]|by\s+|from\s+)\s*([A-Za-z][A-Za-z0-9&' .\-]{1,40})$`)

// maxBrandWords bounds the ALL-CAPS first-line brand heuristic.
const maxBrandWords = 3

// parseBrand looks for an explicit brand marker, then a short ALL-CAPS first
// line that carries no strain keyword and no compliance boilerplate while a
// later line does carry a strain keyword.
func parseBrand(lines []string) (string, bool) {
	for _, l := range lines {
		if m := brandMarkerRe.FindStringSubmatch(l); m != nil {
			return strings.TrimSpace(m[1]), true
		}
	}
	if len(lines) < 2 {
		return "", false
	}
	first := lines[0]
	words := strings.Fields(first)
	if len(words) == 0 || len(words) > maxBrandWords || !isAllCaps(first) || hasDigit(first) {
		return "", false
	}
	if hasStrainKeyword(first) || isBoilerplate(first, labelDenylist) {
		return "", false
	}
	for _, l := range lines[1:] {
		if hasStrainKeyword(l) && !isBoilerplate(l, lineDenylist) {
			return titleCase(first), true
		}
	}
	return "", false
}
