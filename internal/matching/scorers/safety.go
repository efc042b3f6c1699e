// internal/matching/scorers/safety.go
package scorers

import (
	"carehome-workers/internal/matching/safenum"
	"carehome-workers/internal/models"
)

// SafetyMax is the point ceiling for the safety domain.
const SafetyMax = 25.0

const (
	defaultOverallRating   = 2.5
	defaultFoodRating      = 3.0
	defaultIncidentPoints  = 3.0
	defaultCompliancePoint = 1.0
)

// Safety scores inspection history, food hygiene, incidents and filing
// compliance.
func Safety(_ models.CandidateFacility, _ models.ClientProfile, e models.EnrichmentBundle) float64 {
	var t tally

	t.add(inspectionTrend(e.Inspection), 10)
	t.add(foodSafety(e.FoodSafety), 8)

	incidents := defaultIncidentPoints
	if e.IncidentsLast12Months != nil {
		incidents = 5 - safenum.NonNegative(e.IncidentsLast12Months, 0)
	}
	t.add(incidents, 5)

	t.add(countSteps(e.Financial.OverdueFilings, []float64{2, 1}, defaultCompliancePoint), 2)

	return t.score()
}

func inspectionTrend(r models.InspectionRatings) float64 {
	current := safenum.Float(r.Overall, defaultOverallRating)
	points := ratingBand(current) * 8

	switch {
	case r.Overall == nil || r.PreviousOverall == nil:
		points++
	case current > safenum.Float(r.PreviousOverall, current):
		points += 2
	case current == safenum.Float(r.PreviousOverall, current):
		points++
	}
	return points
}

func foodSafety(f models.FoodSafety) float64 {
	rating := safenum.Clamp(safenum.Float(f.Rating, defaultFoodRating), 0, 5)
	points := rating / 5 * 7

	switch models.NormalizeKey(f.Trend) {
	case models.TrendImproving:
		points++
	case models.TrendStable:
		points += 0.5
	case models.TrendDeclining:
		points--
	}
	return points
}
