// internal/matching/scorers/staff.go
package scorers

import (
	"carehome-workers/internal/matching/safenum"
	"carehome-workers/internal/models"
)

// StaffMax is the point ceiling for the staff domain.
const StaffMax = 20.0

const defaultStaffQuality = 50.0

// Staff scores the staffing composite plus the Effective and Well-led
// inspection ratings.
func Staff(_ models.CandidateFacility, _ models.ClientProfile, e models.EnrichmentBundle) float64 {
	var t tally

	quality := safenum.Clamp(safenum.Float(e.StaffQualityScore, defaultStaffQuality), 0, 100)
	t.add(quality/100*16, 16)
	t.add(ratingBonus(e.Inspection.Effective), 2)
	t.add(ratingBonus(e.Inspection.WellLed), 2)

	return t.score()
}

func ratingBonus(r *float64) float64 {
	if r == nil {
		return 1
	}
	switch v := safenum.Float(r, 0); {
	case v >= models.RatingOutstanding:
		return 2
	case v >= models.RatingGood:
		return 1
	}
	return 0
}
