// internal/workers/carehome/search-candidate-facilities/models.go
package searchcandidatefacilities

import "carehome-workers/internal/models"

type Input struct {
	ClientProfile *models.ClientProfile `json:"clientProfile"`
	MaxCandidates int                   `json:"maxCandidates,omitempty"`
}

type Output struct {
	Candidates     []models.CandidateFacility `json:"candidates"`
	CandidateCount int                        `json:"candidateCount"`
	TotalHits      int64                      `json:"totalHits"`
	Took           int                        `json:"took"`
}

type searchResponse struct {
	Took int `json:"took"`
	Hits struct {
		Total struct {
			Value int64 `json:"value"`
		} `json:"total"`
		Hits []searchHit `json:"hits"`
	} `json:"hits"`
}

type searchHit struct {
	ID     string         `json:"_id"`
	Source facilitySource `json:"_source"`
}

// facilitySource is the indexed document: the facility fields plus a
// geo_point used by the distance filter.
type facilitySource struct {
	models.CandidateFacility
	Location *geoPoint `json:"location,omitempty"`
}

type geoPoint struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}
