// internal/workers/carehome/derive-scoring-weights/handler_test.go
package derivescoringweights

import (
	"context"
	"encoding/json"
	"testing"

	apperrors "carehome-workers/internal/common/errors"
	"carehome-workers/internal/common/logger"
	"carehome-workers/internal/matching/weights"
	"carehome-workers/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHandler(t *testing.T) *Handler {
	return NewHandler(LoadConfig(), nil, logger.NewTestLogger(t))
}

func TestHandler_Execute_Tiers(t *testing.T) {
	tests := []struct {
		name    string
		profile models.ClientProfile
		tags    []string
	}{
		{
			name:    "base profile",
			profile: models.ClientProfile{ClientID: "c1"},
			tags:    []string{},
		},
		{
			name: "high fall risk",
			profile: models.ClientProfile{
				ClientID: "c2",
				Safety:   models.SafetyHistory{FallHistory: models.FallHistoryHighRisk},
			},
			tags: []string{weights.TagHighFallRisk},
		},
		{
			name: "dementia with urgent nursing",
			profile: models.ClientProfile{
				ClientID: "c3",
				Medical:  models.MedicalNeeds{Conditions: []string{"dementia"}, RequiresNursing: true},
				Location: models.LocationPreferences{Timeline: models.TimelineUrgent},
			},
			tags: []string{weights.TagDementia},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := tt.profile
			out, err := newTestHandler(t).Execute(context.Background(), &Input{ClientProfile: &p})
			require.NoError(t, err)

			assert.Equal(t, tt.tags, out.AppliedConditions)
			assert.InDelta(t, 100.0, out.Weights.Sum(), 0.1)
		})
	}
}

func TestHandler_Execute_MatchesPolicy(t *testing.T) {
	p := models.ClientProfile{
		Safety: models.SafetyHistory{FallsLast12Months: 4},
	}
	want, wantTags := weights.Derive(p)

	out, err := newTestHandler(t).Execute(context.Background(), &Input{ClientProfile: &p})
	require.NoError(t, err)

	assert.Equal(t, want, out.Weights)
	assert.Equal(t, wantTags, out.AppliedConditions)
}

func TestHandler_Execute_MissingProfile(t *testing.T) {
	_, err := newTestHandler(t).Execute(context.Background(), &Input{})
	require.Error(t, err)

	stdErr, ok := apperrors.AsStandardError(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrCodeInvalidInput, stdErr.Code)
}

func TestOutput_JSONShape(t *testing.T) {
	raw, err := json.Marshal(Output{AppliedConditions: []string{}})
	require.NoError(t, err)
	assert.JSONEq(t,
		`{"weights":{"medical":0,"safety":0,"location":0,"social":0,"financial":0,"staff":0,"regulatory":0,"services":0},"appliedConditions":[]}`,
		string(raw))
}
