// internal/matching/weights/policy.go

// Package weights derives the per-client weight vector over the eight scoring
// domains. Risk signals in the profile shift weight between domains through an
// ordered rule table: the first exclusive rule that matches wins outright, and
// only when none match do the additive rules apply, all of them together.
package weights

import (
	"carehome-workers/internal/matching/safenum"
	"carehome-workers/internal/models"
)

// Condition tags reported alongside derived weights.
const (
	TagHighFallRisk       = "high_fall_risk"
	TagDementia           = "dementia"
	TagMultipleConditions = "multiple_conditions"
	TagNursingRequired    = "nursing_required"
	TagLowBudget          = "low_budget"
	TagUrgentPlacement    = "urgent_placement"
)

// Rule is one guarded weight adjustment.
type Rule struct {
	Tag       string
	Exclusive bool
	Applies   func(models.ClientProfile) bool
	Delta     models.ScoringWeights
}

// Base returns the starting weight vector. It sums to 101 and is normalised
// along with every adjustment.
func Base() models.ScoringWeights {
	return models.ScoringWeights{
		Medical:    19,
		Safety:     16,
		Location:   10,
		Social:     10,
		Financial:  13,
		Staff:      13,
		Regulatory: 13,
		Services:   7,
	}
}

// DefaultRules returns the rule table in evaluation order.
func DefaultRules() []Rule {
	return []Rule{
		{
			Tag:       TagHighFallRisk,
			Exclusive: true,
			Applies:   hasHighFallRisk,
			Delta: models.ScoringWeights{
				Medical: -1, Safety: 9, Location: -2, Social: -2,
				Financial: -1, Staff: -1, Regulatory: -1, Services: -2,
			},
		},
		{
			Tag:       TagDementia,
			Exclusive: true,
			Applies:   hasCognitiveDiagnosis,
			Delta: models.ScoringWeights{
				Medical: 7, Safety: 2, Location: -2,
				Staff: 1, Regulatory: -3, Services: -5,
			},
		},
		{
			Tag:       TagMultipleConditions,
			Exclusive: true,
			Applies:   hasMultipleConditions,
			Delta: models.ScoringWeights{
				Medical: 10, Location: -3, Social: -3,
				Staff: 1, Services: -4,
			},
		},
		{
			Tag:     TagNursingRequired,
			Applies: func(p models.ClientProfile) bool { return p.Medical.NeedsNursing() },
			Delta: models.ScoringWeights{
				Medical: 3, Location: -1, Social: -2,
				Staff: 3, Services: -2,
			},
		},
		{
			Tag:     TagLowBudget,
			Applies: hasLowBudget,
			Delta: models.ScoringWeights{
				Medical: -1, Location: -1, Social: -1,
				Financial: 6, Services: -4,
			},
		},
		{
			Tag:     TagUrgentPlacement,
			Applies: isUrgent,
			Delta: models.ScoringWeights{
				Medical: -1, Location: 7, Social: -1,
				Financial: -1, Services: -5,
			},
		},
	}
}

// Policy evaluates a rule table against client profiles. It holds no mutable
// state and is safe for concurrent use.
type Policy struct {
	base  models.ScoringWeights
	rules []Rule
}

// NewPolicy builds a policy from a base vector and an ordered rule table.
func NewPolicy(base models.ScoringWeights, rules []Rule) *Policy {
	return &Policy{base: base, rules: rules}
}

// DefaultPolicy returns the standard base vector and rule table.
func DefaultPolicy() *Policy {
	return NewPolicy(Base(), DefaultRules())
}

// Derive returns the normalised weights for profile and the tags of the rules
// that fired, in evaluation order.
func (p *Policy) Derive(profile models.ClientProfile) (models.ScoringWeights, []string) {
	w := p.base
	tags := []string{}

	for _, r := range p.rules {
		if !r.Exclusive || r.Applies == nil || !r.Applies(profile) {
			continue
		}
		w = add(w, r.Delta)
		tags = append(tags, r.Tag)
		return p.normalize(w), tags
	}

	for _, r := range p.rules {
		if r.Exclusive || r.Applies == nil || !r.Applies(profile) {
			continue
		}
		w = add(w, r.Delta)
		tags = append(tags, r.Tag)
	}

	return p.normalize(w), tags
}

// Derive applies the default policy.
func Derive(profile models.ClientProfile) (models.ScoringWeights, []string) {
	return DefaultPolicy().Derive(profile)
}

func (p *Policy) normalize(w models.ScoringWeights) models.ScoringWeights {
	if n, ok := Normalize(w); ok {
		return n
	}
	// Rules drove every weight to zero; fall back to the base proportions.
	n, _ := Normalize(p.base)
	return n
}

// Normalize clamps negative weights to zero and rescales the vector so that it
// sums to 100, each weight rounded to one decimal. It reports false when the
// clamped vector sums to zero.
func Normalize(w models.ScoringWeights) (models.ScoringWeights, bool) {
	var clamped models.ScoringWeights
	for _, d := range models.Domains {
		v := safenum.Finite(w.Get(d), 0)
		if v < 0 {
			v = 0
		}
		clamped.Set(d, v)
	}

	total := clamped.Sum()
	if total <= 0 {
		return models.ScoringWeights{}, false
	}

	var out models.ScoringWeights
	for _, d := range models.Domains {
		out.Set(d, safenum.Round(clamped.Get(d)/total*100, 1))
	}
	return out, true
}

func add(a, b models.ScoringWeights) models.ScoringWeights {
	var out models.ScoringWeights
	for _, d := range models.Domains {
		out.Set(d, a.Get(d)+b.Get(d))
	}
	return out
}
