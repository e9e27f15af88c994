package budscan

import (
	"log/slog"
	"slices"
	"strings"
)

// maxCandidateNames bounds LabelInsights.CandidateNames.
const maxCandidateNames = 5

// LabelInsights is the structured packaging metadata mined from label text.
// Absent values stay nil or empty; mining never fails.
type LabelInsights struct {
	StrainNameGuess   string      `json:"strainNameGuess"`
	Brand             string      `json:"brand"`
	IsPackagedProduct bool        `json:"isPackagedProduct"`
	ProductType       ProductType `json:"productType"`
	Category          string      `json:"category"`

	THCPercent          *float64      `json:"thcPercent"`
	CBDPercent          *float64      `json:"cbdPercent"`
	THCMg               *float64      `json:"thcMg"`
	CBDMg               *float64      `json:"cbdMg"`
	Cannabinoids        []Cannabinoid `json:"cannabinoids"`
	Terpenes            []Terpene     `json:"terpenes"`
	TerpenePercentTotal *float64      `json:"terpenePercentTotal"`
	NetWeight           *NetWeight    `json:"netWeight"`

	BatchID        string `json:"batchId"`
	LicenseNumber  string `json:"licenseNumber"`
	LabName        string `json:"labName"`
	Jurisdiction   string `json:"jurisdiction"`
	PackagedDate   string `json:"packagedDate"`
	TestedDate     string `json:"testedDate"`
	ExpirationDate string `json:"expirationDate"`

	Warnings          []string `json:"warnings"`
	ChildWarning      bool     `json:"childWarning"`
	PregnancyWarning  bool     `json:"pregnancyWarning"`
	ImpairmentWarning bool     `json:"impairmentWarning"`
	AdultUseOnly      bool     `json:"adultUseOnly"`

	Dosage         *Dosage  `json:"dosage"`
	MarketingTags  []string `json:"marketingTags"`
	CandidateNames []string `json:"candidateNames"`
	RawText        string   `json:"rawText"`
}

func (ins LabelInsights) clone() LabelInsights {
	ins.THCPercent = clonePtr(ins.THCPercent)
	ins.CBDPercent = clonePtr(ins.CBDPercent)
	ins.THCMg = clonePtr(ins.THCMg)
	ins.CBDMg = clonePtr(ins.CBDMg)
	if ins.Cannabinoids != nil {
		cs := make([]Cannabinoid, len(ins.Cannabinoids))
		for i, c := range ins.Cannabinoids {
			cs[i] = Cannabinoid{Name: c.Name, Percent: clonePtr(c.Percent), Mg: clonePtr(c.Mg)}
		}
		ins.Cannabinoids = cs
	}
	ins.Terpenes = slices.Clone(ins.Terpenes)
	ins.TerpenePercentTotal = clonePtr(ins.TerpenePercentTotal)
	ins.NetWeight = clonePtr(ins.NetWeight)
	ins.Warnings = slices.Clone(ins.Warnings)
	if ins.Dosage != nil {
		ins.Dosage = &Dosage{
			PerServingMg: clonePtr(ins.Dosage.PerServingMg),
			Servings:     clonePtr(ins.Dosage.Servings),
			TotalMg:      clonePtr(ins.Dosage.TotalMg),
		}
	}
	ins.MarketingTags = slices.Clone(ins.MarketingTags)
	ins.CandidateNames = slices.Clone(ins.CandidateNames)
	return ins
}

// emptyInsights is the all-null structure for text.
func emptyInsights(text string) LabelInsights {
	return LabelInsights{
		ProductType: TypeUnknown,
		Category:    CategoryUnknown,
		RawText:     text,
	}
}

// MineLabel parses free-form OCR text into LabelInsights. Empty input yields
// the all-null structure; a panic in any parser degrades to the same
// structure carrying the raw text.
func MineLabel(text string) (ins LabelInsights) {
	defer func() {
		if r := recover(); r != nil {
			slog.Debug("budscan: label miner recovered", "panic", r)
			ins = emptyInsights(text)
		}
	}()

	if strings.TrimSpace(text) == "" {
		return emptyInsights("")
	}
	return newInsightsBuilder(text).build()
}

// insightsBuilder populates one LabelInsights from independent parsers.
type insightsBuilder struct {
	raw   string
	text  string
	lines []string
	ins   LabelInsights
}

func newInsightsBuilder(raw string) *insightsBuilder {
	text := cleanText(raw)
	return &insightsBuilder{
		raw:   raw,
		text:  text,
		lines: textLines(text),
		ins:   emptyInsights(raw),
	}
}

func (b *insightsBuilder) build() LabelInsights {
	b.potency()
	b.packaging()
	b.compliance()
	b.warnings()
	b.names()
	b.ins.IsPackagedProduct = b.isPackaged()
	return b.ins
}

func (b *insightsBuilder) potency() {
	b.ins.Cannabinoids = parseCannabinoids(b.text)
	for _, c := range b.ins.Cannabinoids {
		switch c.Name {
		case "THC":
			b.ins.THCPercent, b.ins.THCMg = c.Percent, c.Mg
		case "CBD":
			b.ins.CBDPercent, b.ins.CBDMg = c.Percent, c.Mg
		}
	}
	if terps, total, ok := parseTerpenes(b.text); ok {
		b.ins.Terpenes = terps
		b.ins.TerpenePercentTotal = ptr(total)
	}
}

func (b *insightsBuilder) packaging() {
	if nw, ok := parseNetWeight(b.text); ok {
		b.ins.NetWeight = &nw
	}
	b.ins.Category = classifyCategory(b.text)
	if t, ok := parseProductTypeText(b.text); ok {
		b.ins.ProductType = t
	}
	b.ins.MarketingTags = parseMarketingTags(b.text)
	if d, ok := parseDosage(b.text); ok {
		b.ins.Dosage = &d
	}
}

func (b *insightsBuilder) compliance() {
	if v, ok := parseBatchID(b.text); ok {
		b.ins.BatchID = v
	}
	if v, ok := parseLicenseNumber(b.text); ok {
		b.ins.LicenseNumber = v
	}
	if v, ok := parseLabName(b.text); ok {
		b.ins.LabName = v
	}
	if v, ok := parseJurisdiction(b.text); ok {
		b.ins.Jurisdiction = v
	}
	if v, ok := parseDate(packagedDateRe, b.text); ok {
		b.ins.PackagedDate = v
	}
	if v, ok := parseDate(testedDateRe, b.text); ok {
		b.ins.TestedDate = v
	}
	if v, ok := parseDate(expirationDateRe, b.text); ok {
		b.ins.ExpirationDate = v
	}
}

func (b *insightsBuilder) warnings() {
	ws := parseWarnings(b.text)
	b.ins.Warnings = ws.warnings
	b.ins.ChildWarning = ws.children
	b.ins.PregnancyWarning = ws.pregnancy
	b.ins.ImpairmentWarning = ws.impairment
	b.ins.AdultUseOnly = ws.adultUse
}

func (b *insightsBuilder) names() {
	if brand, ok := parseBrand(b.lines); ok {
		b.ins.Brand = brand
	}
	rejects := nameRejects(b.ins.Brand)
	cands := labelGuesser{}.Candidates(b.lines, nil)
	for _, c := range cands {
		if rejects[normalizeName(c.Name)] {
			continue
		}
		if b.ins.StrainNameGuess == "" {
			b.ins.StrainNameGuess = c.Name
		}
		b.ins.CandidateNames = appendUnique(b.ins.CandidateNames, c.Name)
		if len(b.ins.CandidateNames) == maxCandidateNames {
			break
		}
	}
}

func (b *insightsBuilder) isPackaged() bool {
	if hasPackagingMarker(b.text) {
		return true
	}
	i := b.ins
	return i.BatchID != "" || i.LicenseNumber != "" || i.LabName != "" ||
		i.NetWeight != nil || i.THCPercent != nil || i.CBDPercent != nil
}

// appendUnique appends s unless an equal name (after normalization) is present.
func appendUnique(list []string, s string) []string {
	key := normalizeName(s)
	if key == "" {
		return list
	}
	for _, have := range list {
		if normalizeName(have) == key {
			return list
		}
	}
	return append(list, s)
}
