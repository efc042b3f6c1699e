// internal/matching/weights/policy_test.go
package weights

import (
	"testing"

	"carehome-workers/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Helper Functions
// ==========================

func assertNormalized(t *testing.T, w models.ScoringWeights) {
	t.Helper()
	assert.InDelta(t, 100.0, w.Sum(), 0.1)
	for _, d := range models.Domains {
		assert.GreaterOrEqual(t, w.Get(d), 0.0, "domain %s", d)
	}
}

func profileWith(mutate func(p *models.ClientProfile)) models.ClientProfile {
	p := models.ClientProfile{ClientID: "client-1"}
	if mutate != nil {
		mutate(&p)
	}
	return p
}

// ==========================
// Tier Tests
// ==========================

func TestDerive_NoConditionsUsesNormalizedBase(t *testing.T) {
	w, tags := Derive(profileWith(nil))

	assertNormalized(t, w)
	assert.Empty(t, tags)
	assert.Equal(t, models.ScoringWeights{
		Medical: 18.8, Safety: 15.8, Location: 9.9, Social: 9.9,
		Financial: 12.9, Staff: 12.9, Regulatory: 12.9, Services: 6.9,
	}, w)
}

func TestDerive_ExclusiveTiers(t *testing.T) {
	tests := []struct {
		name     string
		profile  models.ClientProfile
		expected models.ScoringWeights
		tag      string
	}{
		{
			name: "high fall risk by history",
			profile: profileWith(func(p *models.ClientProfile) {
				p.Safety.FallHistory = "high_risk"
			}),
			expected: models.ScoringWeights{
				Medical: 18, Safety: 25, Location: 8, Social: 8,
				Financial: 12, Staff: 12, Regulatory: 12, Services: 5,
			},
			tag: TagHighFallRisk,
		},
		{
			name: "high fall risk by count",
			profile: profileWith(func(p *models.ClientProfile) {
				p.Safety.FallHistory = "low_risk"
				p.Safety.FallsLast12Months = 3
			}),
			expected: models.ScoringWeights{
				Medical: 18, Safety: 25, Location: 8, Social: 8,
				Financial: 12, Staff: 12, Regulatory: 12, Services: 5,
			},
			tag: TagHighFallRisk,
		},
		{
			name: "dementia diagnosis",
			profile: profileWith(func(p *models.ClientProfile) {
				p.Medical.Conditions = []string{"Alzheimer's disease"}
			}),
			expected: models.ScoringWeights{
				Medical: 25.7, Safety: 17.8, Location: 7.9, Social: 9.9,
				Financial: 12.9, Staff: 13.9, Regulatory: 9.9, Services: 2.0,
			},
			tag: TagDementia,
		},
		{
			name: "multiple conditions",
			profile: profileWith(func(p *models.ClientProfile) {
				p.Medical.Conditions = []string{"diabetes", "COPD", "arthritis", "none"}
			}),
			expected: models.ScoringWeights{
				Medical: 28.4, Safety: 15.7, Location: 6.9, Social: 6.9,
				Financial: 12.7, Staff: 13.7, Regulatory: 12.7, Services: 2.9,
			},
			tag: TagMultipleConditions,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, tags := Derive(tt.profile)

			assertNormalized(t, w)
			assert.Equal(t, []string{tt.tag}, tags)
			for _, d := range models.Domains {
				assert.InDelta(t, tt.expected.Get(d), w.Get(d), 0.001, "domain %s", d)
			}
		})
	}
}

func TestDerive_FirstExclusiveTierWins(t *testing.T) {
	p := profileWith(func(p *models.ClientProfile) {
		p.Safety.FallHistory = "High Risk"
		p.Medical.Conditions = []string{"dementia", "diabetes", "copd"}
		p.Medical.RequiresNursing = true
		p.Location.Timeline = "urgent"
	})

	w, tags := Derive(p)

	assert.Equal(t, []string{TagHighFallRisk}, tags)
	assert.InDelta(t, 25.0, w.Safety, 0.001)
}

func TestDerive_TrivialConditionsDoNotCount(t *testing.T) {
	p := profileWith(func(p *models.ClientProfile) {
		p.Medical.Conditions = []string{"diabetes", "Diabetes", "other", "", "copd"}
	})

	_, tags := Derive(p)

	assert.NotContains(t, tags, TagMultipleConditions)
}

// ==========================
// Additive Adjustment Tests
// ==========================

func TestDerive_AdditiveAdjustments(t *testing.T) {
	tests := []struct {
		name    string
		profile models.ClientProfile
		tags    []string
	}{
		{
			name: "nursing via flag",
			profile: profileWith(func(p *models.ClientProfile) {
				p.Medical.RequiresNursing = true
			}),
			tags: []string{TagNursingRequired},
		},
		{
			name: "nursing via care type",
			profile: profileWith(func(p *models.ClientProfile) {
				p.Medical.CareTypes = []string{"Nursing"}
			}),
			tags: []string{TagNursingRequired},
		},
		{
			name: "low budget band",
			profile: profileWith(func(p *models.ClientProfile) {
				p.Location.BudgetBand = "low"
			}),
			tags: []string{TagLowBudget},
		},
		{
			name: "low weekly budget",
			profile: profileWith(func(p *models.ClientProfile) {
				p.Location.WeeklyBudget = 850
			}),
			tags: []string{TagLowBudget},
		},
		{
			name: "undeclared budget is not low",
			profile: profileWith(func(p *models.ClientProfile) {
				p.Location.WeeklyBudget = 0
			}),
			tags: []string{},
		},
		{
			name: "urgent and nursing",
			profile: profileWith(func(p *models.ClientProfile) {
				p.Location.Timeline = "URGENT"
				p.Medical.RequiresNursing = true
			}),
			tags: []string{TagNursingRequired, TagUrgentPlacement},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, tags := Derive(tt.profile)

			assertNormalized(t, w)
			assert.Equal(t, tt.tags, tags)
		})
	}
}

func TestDerive_AllAdditiveRulesClampServices(t *testing.T) {
	p := profileWith(func(p *models.ClientProfile) {
		p.Medical.RequiresNursing = true
		p.Location.BudgetBand = "low"
		p.Location.Timeline = "urgent"
	})

	w, tags := Derive(p)

	assertNormalized(t, w)
	assert.Equal(t, []string{TagNursingRequired, TagLowBudget, TagUrgentPlacement}, tags)
	assert.Equal(t, 0.0, w.Services)
	assert.InDelta(t, 19.2, w.Medical, 0.001)
	assert.InDelta(t, 17.3, w.Financial, 0.001)
	assert.InDelta(t, 14.4, w.Location, 0.001)
}

func TestDerive_Deterministic(t *testing.T) {
	p := profileWith(func(p *models.ClientProfile) {
		p.Medical.Conditions = []string{"dementia"}
	})

	w1, t1 := Derive(p)
	w2, t2 := Derive(p)

	assert.Equal(t, w1, w2)
	assert.Equal(t, t1, t2)
}

// ==========================
// Normalisation Tests
// ==========================

func TestNormalize_ZeroVector(t *testing.T) {
	_, ok := Normalize(models.ScoringWeights{})
	assert.False(t, ok)
}

func TestPolicy_FallsBackToBaseWhenRulesZeroEverything(t *testing.T) {
	base := Base()
	wipe := models.ScoringWeights{
		Medical: -100, Safety: -100, Location: -100, Social: -100,
		Financial: -100, Staff: -100, Regulatory: -100, Services: -100,
	}
	policy := NewPolicy(base, []Rule{{
		Tag:       "wipe",
		Exclusive: true,
		Applies:   func(models.ClientProfile) bool { return true },
		Delta:     wipe,
	}})

	w, tags := policy.Derive(profileWith(nil))

	require.Equal(t, []string{"wipe"}, tags)
	expected, _ := Normalize(base)
	assert.Equal(t, expected, w)
}

func BenchmarkDerive(b *testing.B) {
	p := profileWith(func(p *models.ClientProfile) {
		p.Medical.RequiresNursing = true
		p.Location.Timeline = "urgent"
	})
	policy := DefaultPolicy()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		policy.Derive(p)
	}
}
