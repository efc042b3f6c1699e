// internal/matching/selection/select.go

// Package selection builds the diversified top-5 shortlist from scored
// candidates. Category winners are merged, entries that repeat both an
// already-used provider and an already-used locality are swapped for a close
// alternative when one exists, and short lists are backfilled.
package selection

import (
	"sort"

	"carehome-workers/internal/models"
)

// substituteThreshold is the share of the replaced entry's score an
// alternative must reach.
const substituteThreshold = 0.9

const diversifiedSuffix = " (diversified alternative)"

type entry struct {
	idx         int
	objective   objective
	leader      float64 // category leader's objective score
	duplicate   bool
	substituted bool
	backfilled  bool
}

// tracker remembers which providers and localities are already represented.
// Empty locality keys are never tracked, so a facility with no known area
// cannot count as a locality duplicate.
type tracker struct {
	providers  map[string]struct{}
	localities map[string]struct{}
}

func newTracker() *tracker {
	return &tracker{
		providers:  make(map[string]struct{}),
		localities: make(map[string]struct{}),
	}
}

func (t *tracker) add(f models.CandidateFacility) {
	t.providers[f.ProviderKey()] = struct{}{}
	if loc := f.LocalityKey(); loc != "" {
		t.localities[loc] = struct{}{}
	}
}

func (t *tracker) providerUsed(f models.CandidateFacility) bool {
	_, ok := t.providers[f.ProviderKey()]
	return ok
}

func (t *tracker) localityUsed(f models.CandidateFacility) bool {
	loc := f.LocalityKey()
	if loc == "" {
		return false
	}
	_, ok := t.localities[loc]
	return ok
}

// duplicate reports whether f repeats both a used provider and a used locality.
func (t *tracker) duplicate(f models.CandidateFacility) bool {
	return t.providerUsed(f) && t.localityUsed(f)
}

// addsVariety reports whether f brings a new provider or a new locality.
func (t *tracker) addsVariety(f models.CandidateFacility) bool {
	return !t.providerUsed(f) || (f.LocalityKey() != "" && !t.localityUsed(f))
}

// SelectTop5 picks up to five recommendations from scored. It never fails:
// an empty pool yields an empty result with zeroed diversity counters.
func SelectTop5(scored []models.ScoredCandidate, profile models.ClientProfile) models.SelectionResult {
	result := models.SelectionResult{Recommendations: []models.Recommendation{}}
	if len(scored) == 0 {
		return result
	}

	chosen := make(map[int]struct{}, models.MaxRecommendations+1)
	shortlist := make([]entry, 0, models.MaxRecommendations+1)
	for _, obj := range objectivesFor(profile) {
		idx, ok := argMax(scored, obj.score, chosen)
		if !ok {
			break
		}
		// The category leader may already hold an earlier slot.
		top, _ := argMax(scored, obj.score, nil)
		chosen[idx] = struct{}{}
		shortlist = append(shortlist, entry{idx: idx, objective: obj, leader: obj.score(scored[top].Match)})
	}

	// Winners past the fifth slot go back to the pool so the diversity pass
	// can use them as alternatives.
	if len(shortlist) > models.MaxRecommendations {
		for _, e := range shortlist[models.MaxRecommendations:] {
			delete(chosen, e.idx)
		}
		shortlist = shortlist[:models.MaxRecommendations]
	}

	seen := newTracker()
	for i := range shortlist {
		e := &shortlist[i]
		current := scored[e.idx]
		if seen.duplicate(current.Facility) {
			e.duplicate = true
			if alt, ok := alternative(scored, current.Match.NormalizedPercent, chosen, seen); ok {
				delete(chosen, e.idx)
				chosen[alt] = struct{}{}
				e.idx = alt
				e.substituted = true
			}
		}
		seen.add(scored[e.idx].Facility)
	}

	if len(shortlist) < models.MaxRecommendations {
		shortlist = backfill(scored, shortlist, chosen, seen)
	}

	result.Recommendations = rank(scored, shortlist)
	result.Diversity = diversity(scored, shortlist)
	return result
}

// argMax returns the highest-scoring candidate not in exclude. Ties go to the
// earliest candidate.
func argMax(scored []models.ScoredCandidate, score func(models.MatchResult) float64, exclude map[int]struct{}) (int, bool) {
	best, found := -1, false
	bestScore := 0.0
	for i, c := range scored {
		if _, skip := exclude[i]; skip {
			continue
		}
		s := score(c.Match)
		if !found || s > bestScore {
			best, bestScore, found = i, s, true
		}
	}
	return best, found
}

// alternative finds the best unchosen candidate within the substitution
// threshold that does not repeat both a used provider and a used locality.
func alternative(scored []models.ScoredCandidate, replaced float64, chosen map[int]struct{}, seen *tracker) (int, bool) {
	floor := replaced * substituteThreshold
	best, found := -1, false
	bestScore := 0.0
	for i, c := range scored {
		if _, taken := chosen[i]; taken {
			continue
		}
		pct := c.Match.NormalizedPercent
		if pct < floor || seen.duplicate(c.Facility) {
			continue
		}
		if !found || pct > bestScore {
			best, bestScore, found = i, pct, true
		}
	}
	return best, found
}

func backfill(scored []models.ScoredCandidate, shortlist []entry, chosen map[int]struct{}, seen *tracker) []entry {
	order := make([]int, 0, len(scored))
	for i := range scored {
		if _, taken := chosen[i]; !taken {
			order = append(order, i)
		}
	}
	sort.SliceStable(order, func(a, b int) bool {
		return scored[order[a]].Match.NormalizedPercent > scored[order[b]].Match.NormalizedPercent
	})

	take := func(varietyOnly bool) {
		for _, i := range order {
			if len(shortlist) >= models.MaxRecommendations {
				return
			}
			if _, taken := chosen[i]; taken {
				continue
			}
			if varietyOnly && !seen.addsVariety(scored[i].Facility) {
				continue
			}
			chosen[i] = struct{}{}
			seen.add(scored[i].Facility)
			shortlist = append(shortlist, entry{idx: i, objective: additionalOption, backfilled: true})
		}
	}
	take(true)
	take(false)
	return shortlist
}

func rank(scored []models.ScoredCandidate, shortlist []entry) []models.Recommendation {
	recs := make([]models.Recommendation, 0, len(shortlist))
	for i, e := range shortlist {
		c := scored[e.idx]
		reasoning := e.objective.reasoning
		if !e.backfilled && e.objective.score(c.Match) < e.leader {
			reasoning = e.objective.runnerUpReasoning
		}
		if e.substituted {
			reasoning += diversifiedSuffix
		}
		recs = append(recs, models.Recommendation{
			Facility:  c.Facility,
			Rank:      i + 1,
			Category:  e.objective.category,
			Label:     e.objective.label,
			Reasoning: reasoning,
			Score:     c.Match.NormalizedPercent,
		})
	}
	return recs
}

func diversity(scored []models.ScoredCandidate, shortlist []entry) models.DiversityMetrics {
	providers := make([]string, 0, len(shortlist))
	localities := make([]string, 0, len(shortlist))
	var duplicates, substitutions, backfilled int
	for _, e := range shortlist {
		f := scored[e.idx].Facility
		providers = append(providers, f.ProviderKey())
		localities = append(localities, f.LocalityKey())
		if e.duplicate {
			duplicates++
		}
		if e.substituted {
			substitutions++
		}
		if e.backfilled {
			backfilled++
		}
	}
	return models.DiversityMetrics{
		DistinctProviders:  models.DistinctNonEmpty(providers),
		DistinctLocalities: models.DistinctNonEmpty(localities),
		DuplicatesDetected: duplicates,
		Substitutions:      substitutions,
		Backfilled:         backfilled,
	}
}
