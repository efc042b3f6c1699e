// internal/models/enrichment.go
package models

import (
	"encoding/json"

	"carehome-workers/internal/matching/safenum"
)

// EnrichmentBundle carries third-party signals about a facility. Every numeric
// field is optional; nil means the upstream source had no value.
type EnrichmentBundle struct {
	Inspection            InspectionRatings   `json:"inspection"`
	FoodSafety            FoodSafety          `json:"foodSafety"`
	IncidentsLast12Months *float64            `json:"incidentsLast12Months,omitempty"`
	Financial             FinancialIndicators `json:"financial"`
	StaffQualityScore     *float64            `json:"staffQualityScore,omitempty"`
	Reviews               ReviewMetrics       `json:"reviews"`
}

// InspectionRatings holds regulator ratings on a 1 (inadequate) to 4
// (outstanding) scale.
type InspectionRatings struct {
	Overall         *float64 `json:"overall,omitempty"`
	PreviousOverall *float64 `json:"previousOverall,omitempty"`
	Safe            *float64 `json:"safe,omitempty"`
	Effective       *float64 `json:"effective,omitempty"`
	Caring          *float64 `json:"caring,omitempty"`
	Responsive      *float64 `json:"responsive,omitempty"`
	WellLed         *float64 `json:"wellLed,omitempty"`
}

// FoodSafety is a 0-5 hygiene rating with its direction of travel.
type FoodSafety struct {
	Rating *float64 `json:"rating,omitempty"`
	Trend  string   `json:"trend,omitempty"`
}

type FinancialIndicators struct {
	BankruptcyRisk           *float64 `json:"bankruptcyRisk,omitempty"`
	DirectorChanges24Months  *float64 `json:"directorChanges24Months,omitempty"`
	OwnershipChanges36Months *float64 `json:"ownershipChanges36Months,omitempty"`
	OverdueFilings           *float64 `json:"overdueFilings,omitempty"`
}

type ReviewMetrics struct {
	AverageRating     *float64 `json:"averageRating,omitempty"`
	ReviewCount       *float64 `json:"reviewCount,omitempty"`
	VisitorEngagement *float64 `json:"visitorEngagement,omitempty"`
}

// Food safety trends.
const (
	TrendImproving = "improving"
	TrendStable    = "stable"
	TrendDeclining = "declining"
)

// Regulator rating scale.
const (
	RatingInadequate          = 1.0
	RatingRequiresImprovement = 2.0
	RatingGood                = 3.0
	RatingOutstanding         = 4.0
)

// RatingFromLabel converts a regulator rating label into the numeric scale.
// Unknown labels return nil so that scorers apply their neutral default.
func RatingFromLabel(label string) *float64 {
	var v float64
	switch NormalizeKey(label) {
	case "outstanding":
		v = RatingOutstanding
	case "good":
		v = RatingGood
	case "requires improvement", "requires_improvement", "requires-improvement":
		v = RatingRequiresImprovement
	case "inadequate":
		v = RatingInadequate
	default:
		return nil
	}
	return &v
}

// Float returns a pointer to v. Handy when building bundles by hand.
func Float(v float64) *float64 {
	return &v
}

// looseNumber decodes any JSON value into an optional float. Numeric strings
// are accepted, thousands separators included; anything else becomes nil.
type looseNumber struct{ v *float64 }

func (n *looseNumber) UnmarshalJSON(data []byte) error {
	var raw interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil
	}
	n.v = safenum.Optional(raw)
	return nil
}

// looseRating is a looseNumber that also understands regulator labels.
type looseRating struct{ v *float64 }

func (r *looseRating) UnmarshalJSON(data []byte) error {
	var raw interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil
	}
	if label, ok := raw.(string); ok {
		if v := RatingFromLabel(label); v != nil {
			r.v = v
			return nil
		}
	}
	r.v = safenum.Optional(raw)
	return nil
}

// UnmarshalJSON never fails on a single field: a value that is not a number
// decodes as absent. A bundle that is not a JSON object is still an error.
func (b *EnrichmentBundle) UnmarshalJSON(data []byte) error {
	type plain EnrichmentBundle
	var raw struct {
		plain
		IncidentsLast12Months looseNumber `json:"incidentsLast12Months"`
		StaffQualityScore     looseNumber `json:"staffQualityScore"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*b = EnrichmentBundle(raw.plain)
	b.IncidentsLast12Months = raw.IncidentsLast12Months.v
	b.StaffQualityScore = raw.StaffQualityScore.v
	return nil
}

// The section decoders below drop a section that is not an object rather
// than failing the bundle.

func (r *InspectionRatings) UnmarshalJSON(data []byte) error {
	var raw struct {
		Overall         looseRating `json:"overall"`
		PreviousOverall looseRating `json:"previousOverall"`
		Safe            looseRating `json:"safe"`
		Effective       looseRating `json:"effective"`
		Caring          looseRating `json:"caring"`
		Responsive      looseRating `json:"responsive"`
		WellLed         looseRating `json:"wellLed"`
	}
	*r = InspectionRatings{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil
	}
	*r = InspectionRatings{
		Overall:         raw.Overall.v,
		PreviousOverall: raw.PreviousOverall.v,
		Safe:            raw.Safe.v,
		Effective:       raw.Effective.v,
		Caring:          raw.Caring.v,
		Responsive:      raw.Responsive.v,
		WellLed:         raw.WellLed.v,
	}
	return nil
}

func (f *FoodSafety) UnmarshalJSON(data []byte) error {
	var raw struct {
		Rating looseNumber `json:"rating"`
		Trend  interface{} `json:"trend"`
	}
	*f = FoodSafety{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil
	}
	f.Rating = raw.Rating.v
	if trend, ok := raw.Trend.(string); ok {
		f.Trend = trend
	}
	return nil
}

func (fi *FinancialIndicators) UnmarshalJSON(data []byte) error {
	var raw struct {
		BankruptcyRisk           looseNumber `json:"bankruptcyRisk"`
		DirectorChanges24Months  looseNumber `json:"directorChanges24Months"`
		OwnershipChanges36Months looseNumber `json:"ownershipChanges36Months"`
		OverdueFilings           looseNumber `json:"overdueFilings"`
	}
	*fi = FinancialIndicators{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil
	}
	*fi = FinancialIndicators{
		BankruptcyRisk:           raw.BankruptcyRisk.v,
		DirectorChanges24Months:  raw.DirectorChanges24Months.v,
		OwnershipChanges36Months: raw.OwnershipChanges36Months.v,
		OverdueFilings:           raw.OverdueFilings.v,
	}
	return nil
}

func (m *ReviewMetrics) UnmarshalJSON(data []byte) error {
	var raw struct {
		AverageRating     looseNumber `json:"averageRating"`
		ReviewCount       looseNumber `json:"reviewCount"`
		VisitorEngagement looseNumber `json:"visitorEngagement"`
	}
	*m = ReviewMetrics{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil
	}
	*m = ReviewMetrics{
		AverageRating:     raw.AverageRating.v,
		ReviewCount:       raw.ReviewCount.v,
		VisitorEngagement: raw.VisitorEngagement.v,
	}
	return nil
}
