// internal/matching/scorers/services.go
package scorers

import (
	"carehome-workers/internal/matching/safenum"
	"carehome-workers/internal/models"
)

// ServicesMax is the point ceiling for the services domain.
const ServicesMax = 11.0

// Services scores therapies, mental-health provision, specialist programmes
// that match the client's interests, and activity volume.
func Services(c models.CandidateFacility, p models.ClientProfile, _ models.EnrichmentBundle) float64 {
	var t tally

	t.add(float64(models.DistinctNonEmpty(c.Therapies)), 3)
	t.add(float64(models.DistinctNonEmpty(c.MentalHealthServices)), 3)
	t.add(matchShare(p.Social.Interests, c.SpecialistPrograms, 3, 1.5), 3)
	t.add(activityVolume(c.ActivitiesPerWeek), 2)

	return t.score()
}

func activityVolume(activities *float64) float64 {
	if activities == nil {
		return 1
	}
	switch n := safenum.NonNegative(activities, 0); {
	case n >= 14:
		return 2
	case n >= 7:
		return 1
	}
	return 0
}
