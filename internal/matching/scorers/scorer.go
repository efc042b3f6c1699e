// internal/matching/scorers/scorer.go

// Package scorers holds the eight domain scorers. Each one reads a candidate,
// the client profile and the candidate's enrichment bundle and returns a
// normalised sub-score in [0,1]. Sub-factors are summed as capped points and
// divided by the domain maximum; absent inputs score a neutral default.
package scorers

import (
	"carehome-workers/internal/matching/safenum"
	"carehome-workers/internal/models"
)

// Func scores one domain for a (candidate, client) pair.
type Func func(c models.CandidateFacility, p models.ClientProfile, e models.EnrichmentBundle) float64

// Scorer binds a domain to its scoring function and point ceiling.
type Scorer struct {
	Domain models.Domain
	Max    float64
	Score  Func
}

// Registry returns the scorers in canonical domain order.
func Registry() []Scorer {
	return []Scorer{
		{Domain: models.DomainMedical, Max: MedicalMax, Score: Medical},
		{Domain: models.DomainSafety, Max: SafetyMax, Score: Safety},
		{Domain: models.DomainLocation, Max: LocationMax, Score: Location},
		{Domain: models.DomainSocial, Max: SocialMax, Score: Social},
		{Domain: models.DomainFinancial, Max: FinancialMax, Score: Financial},
		{Domain: models.DomainStaff, Max: StaffMax, Score: Staff},
		{Domain: models.DomainRegulatory, Max: RegulatoryMax, Score: Regulatory},
		{Domain: models.DomainServices, Max: ServicesMax, Score: Services},
	}
}

// ScoreAll runs every scorer and collects the sub-scores.
func ScoreAll(c models.CandidateFacility, p models.ClientProfile, e models.EnrichmentBundle) models.CategoryScoreSet {
	var out models.CategoryScoreSet
	for _, s := range Registry() {
		out.Set(s.Domain, safenum.Clamp(safenum.Finite(s.Score(c, p, e), 0), 0, 1))
	}
	return out
}

// tally accumulates capped sub-factor points against a running maximum.
type tally struct {
	points float64
	max    float64
}

func (t *tally) add(v, limit float64) {
	t.points += safenum.Clamp(safenum.Finite(v, 0), 0, limit)
	t.max += limit
}

func (t tally) score() float64 {
	if t.max <= 0 {
		return 0
	}
	return safenum.Clamp(t.points/t.max, 0, 1)
}

// matchShare returns limit scaled by the share of wanted items found in
// offered, or whenEmpty when nothing is wanted.
func matchShare(wanted, offered []string, limit, whenEmpty float64) float64 {
	needed := models.DistinctNonEmpty(wanted)
	if needed == 0 {
		return whenEmpty
	}
	return limit * safenum.Ratio(float64(models.CountMatches(wanted, offered)), float64(needed))
}

// ratingBand converts a 1..4 regulator rating into [0,1].
func ratingBand(r float64) float64 {
	return (safenum.Clamp(r, models.RatingInadequate, models.RatingOutstanding) - 1) / 3
}

// countSteps maps a non-negative count onto a descending step table; counts
// beyond the table score zero. Absent counts score absent.
func countSteps(p *float64, steps []float64, absent float64) float64 {
	if p == nil {
		return absent
	}
	n := safenum.NonNegative(p, 0)
	for i, v := range steps {
		if n <= float64(i) {
			return v
		}
	}
	return 0
}
