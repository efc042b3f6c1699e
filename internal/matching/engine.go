// internal/matching/engine.go

// Package matching turns a client profile and a candidate facility into a
// MatchResult: per-domain sub-scores weighted into a 156 point budget.
package matching

import (
	"math"

	"carehome-workers/internal/matching/safenum"
	"carehome-workers/internal/matching/scorers"
	"carehome-workers/internal/matching/weights"
	"carehome-workers/internal/models"
)

// Engine scores candidates with a fixed weight policy.
type Engine struct {
	policy *weights.Policy
}

// NewEngine returns an engine that derives weights with policy. A nil policy
// means the default rule table.
func NewEngine(policy *weights.Policy) *Engine {
	if policy == nil {
		policy = weights.DefaultPolicy()
	}
	return &Engine{policy: policy}
}

// DeriveWeights exposes the engine's weight policy.
func (e *Engine) DeriveWeights(profile models.ClientProfile) (models.ScoringWeights, []string) {
	return e.policy.Derive(profile)
}

// MatchScore scores one candidate. When w is nil the weights are derived from
// profile and the fired condition tags are recorded on the result. When
// enrichment is nil the candidate's own bundle is used.
func (e *Engine) MatchScore(
	candidate models.CandidateFacility,
	profile models.ClientProfile,
	enrichment *models.EnrichmentBundle,
	w *models.ScoringWeights,
) models.MatchResult {
	var conditions []string
	if w == nil {
		derived, tags := e.policy.Derive(profile)
		w, conditions = &derived, tags
	}
	return score(candidate, profile, bundleFor(candidate, enrichment), *w, conditions)
}

// ScoreAll scores every candidate against one weight vector, derived once
// when w is nil. Each candidate is scored with its own enrichment bundle.
func (e *Engine) ScoreAll(
	candidates []models.CandidateFacility,
	profile models.ClientProfile,
	w *models.ScoringWeights,
) []models.ScoredCandidate {
	var conditions []string
	if w == nil {
		derived, tags := e.policy.Derive(profile)
		w, conditions = &derived, tags
	}

	out := make([]models.ScoredCandidate, 0, len(candidates))
	for _, c := range candidates {
		out = append(out, models.ScoredCandidate{
			Facility: c,
			Match:    score(c, profile, c.EnrichmentOrEmpty(), *w, conditions),
		})
	}
	return out
}

// MatchScore scores one candidate with the default weight policy.
func MatchScore(
	candidate models.CandidateFacility,
	profile models.ClientProfile,
	enrichment *models.EnrichmentBundle,
	w *models.ScoringWeights,
) models.MatchResult {
	return NewEngine(nil).MatchScore(candidate, profile, enrichment, w)
}

// ScoreAll scores a candidate set with the default weight policy.
func ScoreAll(
	candidates []models.CandidateFacility,
	profile models.ClientProfile,
	w *models.ScoringWeights,
) []models.ScoredCandidate {
	return NewEngine(nil).ScoreAll(candidates, profile, w)
}

func score(
	c models.CandidateFacility,
	p models.ClientProfile,
	e models.EnrichmentBundle,
	w models.ScoringWeights,
	conditions []string,
) models.MatchResult {
	sub := scorers.ScoreAll(c, p, e)

	var alloc models.CategoryScoreSet
	total := 0.0
	for _, d := range models.Domains {
		weight := math.Max(safenum.Finite(w.Get(d), 0), 0)
		points := safenum.Finite(sub.Get(d)*weight/100*models.TotalPoints, 0)
		alloc.Set(d, points)
		total += points
	}
	total = safenum.Clamp(total, 0, models.TotalPoints)

	result := models.MatchResult{
		FacilityID:        c.ID,
		TotalPoints:       total,
		NormalizedPercent: safenum.Clamp(total/models.TotalPoints*100, 0, 100),
		Weights:           w,
		CategoryScores:    sub,
		PointAllocation:   models.CategoryPoints(alloc),
	}
	if len(conditions) > 0 {
		result.AppliedConditions = append([]string(nil), conditions...)
	}
	return result
}

func bundleFor(c models.CandidateFacility, e *models.EnrichmentBundle) models.EnrichmentBundle {
	if e != nil {
		return *e
	}
	return c.EnrichmentOrEmpty()
}
