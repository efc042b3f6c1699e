// internal/models/selection.go
package models

// MaxRecommendations is the size of the shortlist.
const MaxRecommendations = 5

// SelectionCategory labels why a facility made the shortlist.
type SelectionCategory string

const (
	CategoryBestOverall       SelectionCategory = "best_overall"
	CategoryMedicalSafety     SelectionCategory = "medical_safety"
	CategoryQuality           SelectionCategory = "quality"
	CategoryValue             SelectionCategory = "cost"
	CategoryLocationSocial    SelectionCategory = "location_social"
	CategoryComfort           SelectionCategory = "comfort"
	CategoryAdditionalOptions SelectionCategory = "additional_option"
)

type Recommendation struct {
	Facility  CandidateFacility `json:"facility"`
	Rank      int               `json:"rank"`
	Category  SelectionCategory `json:"category"`
	Label     string            `json:"label"`
	Reasoning string            `json:"reasoning"`
	Score     float64           `json:"score"`
}

type DiversityMetrics struct {
	DistinctProviders  int `json:"distinctProviders"`
	DistinctLocalities int `json:"distinctLocalities"`
	DuplicatesDetected int `json:"duplicatesDetected"`
	Substitutions      int `json:"substitutions"`
	Backfilled         int `json:"backfilled"`
}

type SelectionResult struct {
	SessionID       string           `json:"sessionId,omitempty"`
	Recommendations []Recommendation `json:"recommendations"`
	Diversity       DiversityMetrics `json:"diversity"`
}
