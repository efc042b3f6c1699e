// internal/matching/scorers/regulatory.go
package scorers

import (
	"carehome-workers/internal/matching/safenum"
	"carehome-workers/internal/models"
)

// RegulatoryMax is the point ceiling for the regulatory domain.
const RegulatoryMax = 20.0

// midTierRating sits between requires-improvement and good.
const midTierRating = 2.5

// Regulatory scores the five inspection key questions.
func Regulatory(_ models.CandidateFacility, _ models.ClientProfile, e models.EnrichmentBundle) float64 {
	var t tally
	r := e.Inspection

	for _, rating := range []*float64{r.Safe, r.Effective, r.Caring, r.Responsive, r.WellLed} {
		t.add(ratingBand(safenum.Float(rating, midTierRating))*4, 4)
	}

	return t.score()
}
