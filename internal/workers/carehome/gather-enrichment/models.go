// internal/workers/carehome/gather-enrichment/models.go
package gatherenrichment

import "carehome-workers/internal/models"

type Input struct {
	Candidates []models.CandidateFacility `json:"candidates"`
}

type Output struct {
	Candidates    []models.CandidateFacility `json:"candidates"`
	EnrichedCount int                        `json:"enrichedCount"`
	DegradedCount int                        `json:"degradedCount"`
	DurationMs    int64                      `json:"durationMs"`
}
