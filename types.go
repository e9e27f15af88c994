package budscan

import (
	"math"
	"slices"
	"strings"
)

// Tag is a detected label with its detector confidence.
type Tag struct {
	Name       string  `json:"name" yaml:"name"`
	Confidence float64 `json:"confidence" yaml:"confidence"`
}

// ColorSwatch is one dominant color of a photo with the fraction of pixels it covers.
type ColorSwatch struct {
	Red      int     `json:"red" yaml:"red"`
	Green    int     `json:"green" yaml:"green"`
	Blue     int     `json:"blue" yaml:"blue"`
	Coverage float64 `json:"coverage" yaml:"coverage"`
}

// WebEntity is a reverse-image web hit with its relevance score.
type WebEntity struct {
	Description string  `json:"description" yaml:"description"`
	Score       float64 `json:"score" yaml:"score"`
}

// AnnotationBundle is the output of the external vision-analysis step for one photo.
// The engine only reads it.
type AnnotationBundle struct {
	Tags           []Tag         `json:"tags" yaml:"tags"`
	DominantColors []ColorSwatch `json:"dominantColors" yaml:"dominantColors"`
	DetectedText   string        `json:"detectedText" yaml:"detectedText"`
	WebEntities    []WebEntity   `json:"webEntities" yaml:"webEntities"`
	Objects        []string      `json:"objects" yaml:"objects"`
}

// ProductType is the botanical type of a strain.
type ProductType string

const (
	TypeIndica  ProductType = "indica"
	TypeSativa  ProductType = "sativa"
	TypeHybrid  ProductType = "hybrid"
	TypeUnknown ProductType = "unknown"
)

// ParseProductType maps free text to a ProductType. Anything unrecognized is TypeUnknown.
func ParseProductType(s string) ProductType {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "indica":
		return TypeIndica
	case "sativa":
		return TypeSativa
	case "hybrid":
		return TypeHybrid
	default:
		return TypeUnknown
	}
}

// CatalogEntry is one strain or product record available for matching.
// The engine never mutates entries.
type CatalogEntry struct {
	Name        string      `json:"name" yaml:"name"`
	Type        ProductType `json:"type" yaml:"type"`
	Description string      `json:"description,omitempty" yaml:"description"`
	Effects     []string    `json:"effects,omitempty" yaml:"effects"`
	Flavors     []string    `json:"flavors,omitempty" yaml:"flavors"`
	THC         *float64    `json:"thc,omitempty" yaml:"thc"`
	CBD         *float64    `json:"cbd,omitempty" yaml:"cbd"`
	Lineage     string      `json:"lineage,omitempty" yaml:"lineage"`
}

// ScoredMatch is one ranked catalog candidate.
type ScoredMatch struct {
	Entry      CatalogEntry   `json:"entry"`
	Score      float64        `json:"score"`
	Confidence int            `json:"confidence"`
	Reasoning  []string       `json:"reasoning"`
	Breakdown  ScoreBreakdown `json:"scoreBreakdown"`
}

// MatchResult is the final output of MatchStrainByVisuals.
type MatchResult struct {
	Matches           []ScoredMatch `json:"matches"`
	TopMatch          *ScoredMatch  `json:"topMatch"`
	OtherMatches      []ScoredMatch `json:"otherMatches"`
	LabelInsights     LabelInsights `json:"labelInsights"`
	IsPackagedProduct bool          `json:"isPackagedProduct"`
	CandidateNames    []string      `json:"candidateNames"`
}

// ReportMatch is the flattened, client-facing view of a ScoredMatch.
type ReportMatch struct {
	Name       string      `json:"name"`
	Type       ProductType `json:"type"`
	Score      int         `json:"score"`
	Confidence int         `json:"confidence"`
	Reasoning  string      `json:"reasoning"`
}

// Report is the serialized output contract handed back to the intake pipeline.
type Report struct {
	Matches           []ReportMatch `json:"matches"`
	LabelInsights     LabelInsights `json:"labelInsights"`
	IsPackagedProduct bool          `json:"isPackagedProduct"`
}

// Report flattens the result into the client-facing output contract.
func (r MatchResult) Report() Report {
	out := Report{
		Matches:           make([]ReportMatch, 0, len(r.Matches)),
		LabelInsights:     r.LabelInsights,
		IsPackagedProduct: r.IsPackagedProduct,
	}
	for _, m := range r.Matches {
		out.Matches = append(out.Matches, ReportMatch{
			Name:       m.Entry.Name,
			Type:       m.Entry.Type,
			Score:      int(math.Round(m.Score)),
			Confidence: m.Confidence,
			Reasoning:  strings.Join(m.Reasoning, "; "),
		})
	}
	return out
}

func (e CatalogEntry) clone() CatalogEntry {
	e.Effects = slices.Clone(e.Effects)
	e.Flavors = slices.Clone(e.Flavors)
	e.THC = clonePtr(e.THC)
	e.CBD = clonePtr(e.CBD)
	return e
}

func (m ScoredMatch) clone() ScoredMatch {
	m.Entry = m.Entry.clone()
	m.Reasoning = slices.Clone(m.Reasoning)
	return m
}

// clone returns a copy of r that shares no memory with it.
func (r MatchResult) clone() MatchResult {
	r.Matches = cloneMatches(r.Matches)
	r.OtherMatches = cloneMatches(r.OtherMatches)
	if r.TopMatch != nil {
		top := r.TopMatch.clone()
		r.TopMatch = &top
	}
	r.LabelInsights = r.LabelInsights.clone()
	r.CandidateNames = slices.Clone(r.CandidateNames)
	return r
}

func cloneMatches(in []ScoredMatch) []ScoredMatch {
	if in == nil {
		return nil
	}
	out := make([]ScoredMatch, len(in))
	for i, m := range in {
		out[i] = m.clone()
	}
	return out
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
