// internal/matching/scorers/social.go
package scorers

import (
	"math"

	"carehome-workers/internal/matching/safenum"
	"carehome-workers/internal/models"
)

// SocialMax is the point ceiling for the social domain.
const SocialMax = 15.0

const (
	defaultReviewAverage   = 3.5
	defaultEngagementIndex = 50.0
	activitiesForFullWeek  = 14.0
)

// Social scores visitor engagement, community integration and how well the
// activity programme suits the client's disposition.
func Social(c models.CandidateFacility, p models.ClientProfile, e models.EnrichmentBundle) float64 {
	var t tally

	avg := safenum.Clamp(safenum.Float(e.Reviews.AverageRating, defaultReviewAverage), 0, 5)
	volume := 1.0
	if e.Reviews.ReviewCount != nil {
		volume = math.Min(safenum.NonNegative(e.Reviews.ReviewCount, 0)/20, 1) * 2
	}
	idx := safenum.Clamp(safenum.Float(e.Reviews.VisitorEngagement, defaultEngagementIndex), 0, 100)
	t.add(avg/5*4+volume+idx/100*2, 8)

	t.add(float64(models.DistinctNonEmpty(c.CommunityPrograms)), 4)
	t.add(activityFit(c.ActivitiesPerWeek, p.Social.Disposition), 3)

	return t.score()
}

func activityFit(activities *float64, disposition string) float64 {
	if activities == nil {
		return 1.5
	}
	richness := math.Min(safenum.NonNegative(activities, 0)/activitiesForFullWeek, 1)
	return 3 * (1 - math.Abs(richness-activityTarget(disposition)))
}

func activityTarget(disposition string) float64 {
	switch models.NormalizeKey(disposition) {
	case models.DispositionVerySocial:
		return 1.0
	case models.DispositionPrefersQuiet:
		return 0.3
	}
	return 0.6
}
