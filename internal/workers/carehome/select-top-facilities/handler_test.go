// internal/workers/carehome/select-top-facilities/handler_test.go
package selecttopfacilities

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"testing"
	"time"

	apperrors "carehome-workers/internal/common/errors"
	"carehome-workers/internal/common/logger"
	"carehome-workers/internal/models"
	"carehome-workers/internal/store"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Helper Functions
// ==========================

type MockShortlists struct {
	mock.Mock
}

func (m *MockShortlists) SaveShortlist(ctx context.Context, clientID string, result models.SelectionResult) error {
	return m.Called(ctx, clientID, result).Error(0)
}

func createTestConfig() *Config {
	return &Config{Timeout: 5 * time.Second, PersistShortlist: true}
}

func newTestHandler(t *testing.T, shortlists ShortlistStore) *Handler {
	h := NewHandler(createTestConfig(), shortlists, logger.NewTestLogger(t))
	h.newID = func() string { return "session-1" }
	return h
}

func scored(id, provider, locality string, pct float64) models.ScoredCandidate {
	return models.ScoredCandidate{
		Facility: models.CandidateFacility{ID: id, ProviderID: provider, LocalAuthority: locality},
		Match: models.MatchResult{
			FacilityID:        id,
			NormalizedPercent: pct,
			CategoryScores: models.CategoryScoreSet{
				Medical: pct / 100, Safety: pct / 100, Location: 0.5, Social: 0.5,
				Financial: 0.5, Staff: 0.5, Regulatory: 0.5, Services: 0.5,
			},
		},
	}
}

func profile() *models.ClientProfile {
	return &models.ClientProfile{ClientID: "client-1", Priorities: []models.PriorityCategory{models.PriorityCost}}
}

// ==========================
// Core Functionality Tests
// ==========================

func TestHandler_Execute_SelectsAndPersists(t *testing.T) {
	shortlists := new(MockShortlists)
	shortlists.On("SaveShortlist", mock.Anything, "client-1", mock.MatchedBy(func(r models.SelectionResult) bool {
		return r.SessionID == "session-1" && len(r.Recommendations) == 3
	})).Return(nil)

	h := newTestHandler(t, shortlists)
	out, err := h.Execute(context.Background(), &Input{
		ClientProfile: profile(),
		ScoredCandidates: []models.ScoredCandidate{
			scored("a", "p1", "leeds", 90),
			scored("b", "p2", "york", 80),
			scored("c", "p3", "hull", 70),
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "session-1", out.Selection.SessionID)
	assert.Equal(t, []string{"a", "b", "c"}, out.ShortlistIDs)
	assert.Len(t, out.MatchResults, 3)
	assert.Equal(t, 3, out.Selection.Diversity.DistinctProviders)
	assert.Equal(t, models.CategoryBestOverall, out.Selection.Recommendations[0].Category)
	shortlists.AssertExpectations(t)
}

func TestHandler_Execute_DiversifiesDuplicates(t *testing.T) {
	h := newTestHandler(t, nil)
	out, err := h.Execute(context.Background(), &Input{
		ClientProfile: &models.ClientProfile{ClientID: "client-1"},
		ScoredCandidates: []models.ScoredCandidate{
			scored("a", "p1", "leeds", 90),
			scored("b", "p1", "leeds", 80),
			scored("c", "p2", "york", 75),
		},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"a", "c", "b"}, out.ShortlistIDs)
	assert.Equal(t, 1, out.Selection.Diversity.Substitutions)
}

func TestHandler_Execute_EmptyPool(t *testing.T) {
	shortlists := new(MockShortlists)
	shortlists.On("SaveShortlist", mock.Anything, "client-1", mock.Anything).Return(nil)

	out, err := newTestHandler(t, shortlists).Execute(context.Background(), &Input{ClientProfile: profile()})
	require.NoError(t, err)

	assert.NotNil(t, out.Selection.Recommendations)
	assert.Empty(t, out.Selection.Recommendations)
	assert.Equal(t, models.DiversityMetrics{}, out.Selection.Diversity)
	assert.Empty(t, out.ShortlistIDs)
}

func TestHandler_Execute_DefaultSessionIDIsUUID(t *testing.T) {
	h := NewHandler(&Config{Timeout: time.Second}, nil, logger.NewTestLogger(t))

	out, err := h.Execute(context.Background(), &Input{ClientProfile: profile()})
	require.NoError(t, err)
	assert.Regexp(t, `^[0-9a-f]{8}-[0-9a-f]{4}-4[0-9a-f]{3}-[89ab][0-9a-f]{3}-[0-9a-f]{12}$`, out.Selection.SessionID)
}

func TestHandler_Execute_PersistsThroughRepository(t *testing.T) {
	db, sqlMock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	sqlMock.ExpectExec(regexp.QuoteMeta(`INSERT INTO shortlist_sessions`)).
		WithArgs("session-1", "client-1", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	h := newTestHandler(t, store.NewRepository(db, nil, 0, nil))
	_, err = h.Execute(context.Background(), &Input{
		ClientProfile:    profile(),
		ScoredCandidates: []models.ScoredCandidate{scored("a", "p1", "leeds", 90)},
	})
	require.NoError(t, err)
	assert.NoError(t, sqlMock.ExpectationsWereMet())
}

// ==========================
// Error Handling Tests
// ==========================

func TestHandler_Execute_Errors(t *testing.T) {
	t.Run("missing profile", func(t *testing.T) {
		_, err := newTestHandler(t, nil).Execute(context.Background(), &Input{})
		stdErr, ok := apperrors.AsStandardError(err)
		require.True(t, ok)
		assert.Equal(t, apperrors.ErrCodeInvalidInput, stdErr.Code)
	})

	t.Run("candidate without id", func(t *testing.T) {
		_, err := newTestHandler(t, nil).Execute(context.Background(), &Input{
			ClientProfile:    profile(),
			ScoredCandidates: []models.ScoredCandidate{scored("", "p1", "leeds", 50)},
		})
		stdErr, ok := apperrors.AsStandardError(err)
		require.True(t, ok)
		assert.Equal(t, apperrors.ErrCodeCandidateIdentity, stdErr.Code)
	})

	t.Run("persistence failure is retryable", func(t *testing.T) {
		shortlists := new(MockShortlists)
		shortlists.On("SaveShortlist", mock.Anything, "client-1", mock.Anything).Return(errors.New("connection reset"))

		_, err := newTestHandler(t, shortlists).Execute(context.Background(), &Input{ClientProfile: profile()})
		stdErr, ok := apperrors.AsStandardError(err)
		require.True(t, ok)
		assert.Equal(t, apperrors.ErrCodeQueryExecutionFailed, stdErr.Code)
		assert.True(t, stdErr.Retryable)
	})

	t.Run("closed connection", func(t *testing.T) {
		shortlists := new(MockShortlists)
		shortlists.On("SaveShortlist", mock.Anything, "client-1", mock.Anything).
			Return(fmt.Errorf("insert shortlist: %w", sql.ErrConnDone))

		_, err := newTestHandler(t, shortlists).Execute(context.Background(), &Input{ClientProfile: profile()})
		stdErr, ok := apperrors.AsStandardError(err)
		require.True(t, ok)
		assert.Equal(t, apperrors.ErrCodeDatabaseConnectionFailed, stdErr.Code)
		assert.True(t, stdErr.Retryable)
	})
}
