// internal/models/match.go
package models

// Domain names one of the eight scoring categories.
type Domain string

const (
	DomainMedical    Domain = "medical"
	DomainSafety     Domain = "safety"
	DomainLocation   Domain = "location"
	DomainSocial     Domain = "social"
	DomainFinancial  Domain = "financial"
	DomainStaff      Domain = "staff"
	DomainRegulatory Domain = "regulatory"
	DomainServices   Domain = "services"
)

// Domains lists every scoring domain in canonical order.
var Domains = []Domain{
	DomainMedical,
	DomainSafety,
	DomainLocation,
	DomainSocial,
	DomainFinancial,
	DomainStaff,
	DomainRegulatory,
	DomainServices,
}

// TotalPoints is the fixed point budget shared out across the domains.
const TotalPoints = 156.0

// ScoringWeights holds one weight per domain. Derived weights sum to 100.
type ScoringWeights struct {
	Medical    float64 `json:"medical"`
	Safety     float64 `json:"safety"`
	Location   float64 `json:"location"`
	Social     float64 `json:"social"`
	Financial  float64 `json:"financial"`
	Staff      float64 `json:"staff"`
	Regulatory float64 `json:"regulatory"`
	Services   float64 `json:"services"`
}

// Get returns the weight for d.
func (w ScoringWeights) Get(d Domain) float64 {
	switch d {
	case DomainMedical:
		return w.Medical
	case DomainSafety:
		return w.Safety
	case DomainLocation:
		return w.Location
	case DomainSocial:
		return w.Social
	case DomainFinancial:
		return w.Financial
	case DomainStaff:
		return w.Staff
	case DomainRegulatory:
		return w.Regulatory
	case DomainServices:
		return w.Services
	}
	return 0
}

// Set assigns the weight for d.
func (w *ScoringWeights) Set(d Domain, v float64) {
	switch d {
	case DomainMedical:
		w.Medical = v
	case DomainSafety:
		w.Safety = v
	case DomainLocation:
		w.Location = v
	case DomainSocial:
		w.Social = v
	case DomainFinancial:
		w.Financial = v
	case DomainStaff:
		w.Staff = v
	case DomainRegulatory:
		w.Regulatory = v
	case DomainServices:
		w.Services = v
	}
}

// Sum returns the total of all eight weights.
func (w ScoringWeights) Sum() float64 {
	return w.Medical + w.Safety + w.Location + w.Social +
		w.Financial + w.Staff + w.Regulatory + w.Services
}

// CategoryScoreSet holds one normalised [0,1] sub-score per domain.
type CategoryScoreSet struct {
	Medical    float64 `json:"medical"`
	Safety     float64 `json:"safety"`
	Location   float64 `json:"location"`
	Social     float64 `json:"social"`
	Financial  float64 `json:"financial"`
	Staff      float64 `json:"staff"`
	Regulatory float64 `json:"regulatory"`
	Services   float64 `json:"services"`
}

// Get returns the sub-score for d.
func (c CategoryScoreSet) Get(d Domain) float64 {
	return ScoringWeights(c).Get(d)
}

// Set assigns the sub-score for d.
func (c *CategoryScoreSet) Set(d Domain, v float64) {
	(*ScoringWeights)(c).Set(d, v)
}

// CategoryPoints is the per-domain share of the point budget.
type CategoryPoints CategoryScoreSet

// Get returns the points allocated to d.
func (p CategoryPoints) Get(d Domain) float64 {
	return ScoringWeights(p).Get(d)
}

// MatchResult is the scored outcome of one (client, candidate) pair.
type MatchResult struct {
	FacilityID        string           `json:"facilityId"`
	TotalPoints       float64          `json:"totalPoints"`
	NormalizedPercent float64          `json:"normalizedPercent"`
	Weights           ScoringWeights   `json:"weights"`
	CategoryScores    CategoryScoreSet `json:"categoryScores"`
	PointAllocation   CategoryPoints   `json:"pointAllocation"`
	AppliedConditions []string         `json:"appliedConditions,omitempty"`
}

// ScoredCandidate pairs a facility with its match result for selection.
type ScoredCandidate struct {
	Facility CandidateFacility `json:"facility"`
	Match    MatchResult       `json:"match"`
}
