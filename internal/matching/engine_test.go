// internal/matching/engine_test.go
package matching

import (
	"math"
	"testing"

	"carehome-workers/internal/matching/weights"
	"carehome-workers/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Helper Functions
// ==========================

func f(v float64) *float64 { return models.Float(v) }

func testFacility(id string) models.CandidateFacility {
	return models.CandidateFacility{
		ID:                      id,
		Name:                    "Facility " + id,
		ProviderID:              "prov-" + id,
		Latitude:                f(51.51),
		Longitude:               f(-0.12),
		CareTypes:               []string{"residential", "nursing"},
		RegisteredNursing:       true,
		Has24hNursing:           true,
		HasParking:              true,
		TransportDistanceMeters: f(600),
		Specialisms:             []string{"falls prevention"},
		Therapies:               []string{"physiotherapy"},
		ActivitiesPerWeek:       f(10),
	}
}

func testEnrichment() *models.EnrichmentBundle {
	return &models.EnrichmentBundle{
		Inspection: models.InspectionRatings{
			Overall: f(3), PreviousOverall: f(3), Safe: f(3), Effective: f(3),
			Caring: f(4), Responsive: f(3), WellLed: f(3),
		},
		FoodSafety:            models.FoodSafety{Rating: f(4), Trend: "stable"},
		IncidentsLast12Months: f(1),
		StaffQualityScore:     f(72),
		Reviews:               models.ReviewMetrics{AverageRating: f(4.2), ReviewCount: f(12)},
	}
}

func testProfile() models.ClientProfile {
	return models.ClientProfile{
		ClientID: "client-1",
		Medical:  models.MedicalNeeds{SpecialistNeeds: []string{"Falls Prevention"}},
		Safety:   models.SafetyHistory{FallHistory: "high_risk"},
		Location: models.LocationPreferences{Latitude: f(51.5), Longitude: f(-0.1), MaxDistanceKm: 10},
	}
}

func assertWellFormed(t *testing.T, r models.MatchResult) {
	t.Helper()
	assert.GreaterOrEqual(t, r.TotalPoints, 0.0)
	assert.LessOrEqual(t, r.TotalPoints, models.TotalPoints)
	assert.GreaterOrEqual(t, r.NormalizedPercent, 0.0)
	assert.LessOrEqual(t, r.NormalizedPercent, 100.0)
	for _, d := range models.Domains {
		assert.GreaterOrEqual(t, r.CategoryScores.Get(d), 0.0, "domain %s", d)
		assert.LessOrEqual(t, r.CategoryScores.Get(d), 1.0, "domain %s", d)
	}
}

// ==========================
// MatchScore Tests
// ==========================

func TestMatchScore_DerivesWeightsWhenAbsent(t *testing.T) {
	r := MatchScore(testFacility("a"), testProfile(), testEnrichment(), nil)

	assertWellFormed(t, r)
	assert.Equal(t, "a", r.FacilityID)
	assert.Equal(t, []string{weights.TagHighFallRisk}, r.AppliedConditions)
	assert.InDelta(t, 25.0, r.Weights.Safety, 0.001)
}

func TestMatchScore_UsesSuppliedWeights(t *testing.T) {
	w := models.ScoringWeights{Medical: 100}

	r := MatchScore(testFacility("a"), testProfile(), testEnrichment(), &w)

	assertWellFormed(t, r)
	assert.Empty(t, r.AppliedConditions)
	assert.Equal(t, w, r.Weights)
	assert.InDelta(t, r.CategoryScores.Medical*models.TotalPoints, r.TotalPoints, 1e-9)
	for _, d := range models.Domains[1:] {
		assert.Equal(t, 0.0, r.PointAllocation.Get(d))
	}
}

func TestMatchScore_AllocationSumsToTotal(t *testing.T) {
	r := MatchScore(testFacility("a"), testProfile(), testEnrichment(), nil)

	sum := 0.0
	for _, d := range models.Domains {
		want := r.CategoryScores.Get(d) * r.Weights.Get(d) / 100 * models.TotalPoints
		assert.InDelta(t, want, r.PointAllocation.Get(d), 1e-9, "domain %s", d)
		sum += r.PointAllocation.Get(d)
	}
	assert.InDelta(t, sum, r.TotalPoints, 1e-9)
	assert.InDelta(t, r.TotalPoints/models.TotalPoints*100, r.NormalizedPercent, 1e-9)
}

func TestMatchScore_PerfectScoreHitsBudget(t *testing.T) {
	w := models.ScoringWeights{Regulatory: 100}
	e := &models.EnrichmentBundle{Inspection: models.InspectionRatings{
		Safe: f(4), Effective: f(4), Caring: f(4), Responsive: f(4), WellLed: f(4),
	}}

	r := MatchScore(testFacility("a"), testProfile(), e, &w)

	assert.InDelta(t, models.TotalPoints, r.TotalPoints, 1e-9)
	assert.InDelta(t, 100.0, r.NormalizedPercent, 1e-9)
}

func TestMatchScore_GuardsBadWeights(t *testing.T) {
	tests := []struct {
		name string
		w    models.ScoringWeights
	}{
		{"nan", models.ScoringWeights{Medical: math.NaN(), Safety: 50}},
		{"inf", models.ScoringWeights{Safety: math.Inf(1)}},
		{"oversized", models.ScoringWeights{Medical: 400, Safety: 400}},
		{"negative", models.ScoringWeights{Medical: -100}},
		{"zero", models.ScoringWeights{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := MatchScore(testFacility("a"), testProfile(), testEnrichment(), &tt.w)
			assertWellFormed(t, r)
			assert.False(t, math.IsNaN(r.TotalPoints))
		})
	}
}

func TestMatchScore_AbsentEnrichment(t *testing.T) {
	c := models.CandidateFacility{ID: "bare"}

	r := MatchScore(c, models.ClientProfile{}, nil, nil)

	assertWellFormed(t, r)
	assert.Greater(t, r.TotalPoints, 0.0)
}

func TestMatchScore_FallsBackToCandidateEnrichment(t *testing.T) {
	c := testFacility("a")
	c.Enrichment = testEnrichment()

	withOwn := MatchScore(c, testProfile(), nil, nil)
	explicit := MatchScore(c, testProfile(), testEnrichment(), nil)

	assert.Equal(t, explicit, withOwn)
}

func TestMatchScore_Deterministic(t *testing.T) {
	c, p, e := testFacility("a"), testProfile(), testEnrichment()

	first := MatchScore(c, p, e, nil)
	for i := 0; i < 10; i++ {
		require.Equal(t, first, MatchScore(c, p, e, nil))
	}
}

// ==========================
// ScoreAll Tests
// ==========================

func TestScoreAll_SharesOneWeightDerivation(t *testing.T) {
	a, b := testFacility("a"), testFacility("b")
	b.Enrichment = testEnrichment()

	scored := ScoreAll([]models.CandidateFacility{a, b}, testProfile(), nil)

	require.Len(t, scored, 2)
	assert.Equal(t, "a", scored[0].Match.FacilityID)
	assert.Equal(t, "b", scored[1].Match.FacilityID)
	assert.Equal(t, scored[0].Match.Weights, scored[1].Match.Weights)
	assert.Equal(t, []string{weights.TagHighFallRisk}, scored[1].Match.AppliedConditions)
	assert.Greater(t, scored[1].Match.CategoryScores.Regulatory, scored[0].Match.CategoryScores.Regulatory)
}

func TestScoreAll_Empty(t *testing.T) {
	assert.Empty(t, ScoreAll(nil, testProfile(), nil))
}

func TestEngine_CustomPolicy(t *testing.T) {
	flat := models.ScoringWeights{
		Medical: 1, Safety: 1, Location: 1, Social: 1,
		Financial: 1, Staff: 1, Regulatory: 1, Services: 1,
	}
	engine := NewEngine(weights.NewPolicy(flat, nil))

	w, tags := engine.DeriveWeights(testProfile())

	assert.Empty(t, tags)
	assert.Equal(t, 12.5, w.Medical)
	r := engine.MatchScore(testFacility("a"), testProfile(), testEnrichment(), nil)
	assert.Nil(t, r.AppliedConditions)
}

func BenchmarkMatchScore(b *testing.B) {
	c, p, e := testFacility("a"), testProfile(), testEnrichment()
	engine := NewEngine(nil)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		engine.MatchScore(c, p, e, nil)
	}
}
