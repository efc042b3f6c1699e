// internal/common/errors/errors_test.go
package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/pb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConvertToBPMNError(t *testing.T) {
	tests := []struct {
		name        string
		err         *StandardError
		wantCode    string
		wantRetries int
	}{
		{"validation is terminal", NewProfileValidationFailedError("priorities[0]: invalid"), "PROFILE_VALIDATION_FAILED", 0},
		{"search failure retries", NewFacilitySearchFailedError(fmt.Errorf("connection refused")), "FACILITY_SEARCH_FAILED", 3},
		{"search timeout retries twice", NewSearchTimeoutError("care_facilities"), "SEARCH_TIMEOUT", 2},
		{"missing identity is terminal", NewCandidateIdentityMissingError(4), "CANDIDATE_IDENTITY_MISSING", 0},
		{"notification retries", NewNotificationSendFailedError("email", fmt.Errorf("throttled")), "NOTIFICATION_SEND_FAILED", 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bpmnErr := ConvertToBPMNError(tt.err)

			assert.Equal(t, tt.wantCode, bpmnErr.Code)
			assert.Equal(t, tt.wantRetries, bpmnErr.Retries)
			vars := bpmnErr.ToErrorVariables()
			assert.Equal(t, tt.wantCode, vars["errorCode"])
			assert.Equal(t, string(tt.err.Code), vars["originalErrorCode"])
		})
	}
}

func TestConvertToBPMNError_CarriesMetadata(t *testing.T) {
	stdErr := NewProfileNotFoundError("client-9").WithMetadata("clientId", "client-9")

	vars := ConvertToBPMNError(stdErr).ToErrorVariables()

	assert.Equal(t, "client-9", vars["clientId"])
}

func TestNormalize(t *testing.T) {
	cause := NewQueryExecutionFailedError("facility_batch", fmt.Errorf("deadlock"))
	wrapped := fmt.Errorf("load candidates: %w", cause)

	got := Normalize(wrapped)
	assert.Same(t, cause, got)

	plain := Normalize(fmt.Errorf("boom"))
	assert.Equal(t, ErrCodeInternal, plain.Code)
	assert.False(t, plain.Retryable)
	assert.Equal(t, "boom", plain.Details)
}

func TestStandardError_Unwrap(t *testing.T) {
	sentinel := stderrors.New("MATCH_SCORE_FAILED")
	err := NewMatchScoreFailedError(sentinel)

	require.True(t, stderrors.Is(err, sentinel))
	assert.Contains(t, err.Error(), "MATCH_SCORE_FAILED")
}

func TestRemainingRetries(t *testing.T) {
	job := func(retries int32) entities.Job {
		return entities.Job{ActivatedJob: &pb.ActivatedJob{Key: 1, Retries: retries}}
	}

	assert.Equal(t, int32(2), remainingRetries(job(5), 3))
	assert.Equal(t, int32(1), remainingRetries(job(2), 3))
	assert.Equal(t, int32(0), remainingRetries(job(1), 3))
}

func TestGetErrorCategory(t *testing.T) {
	assert.Equal(t, "PROFILE", GetErrorCategory(ErrCodeProfileValidationFailed))
	assert.Equal(t, "DATABASE", GetErrorCategory(ErrCodeQueryTimeout))
	assert.Equal(t, "SEARCH", GetErrorCategory(ErrCodeFacilitySearchFailed))
	assert.Equal(t, "NOTIFICATION", GetErrorCategory(ErrCodeNotificationSendFailed))
	assert.Equal(t, "OTHER", GetErrorCategory(ErrCodeInternal))
	assert.Equal(t, "MATCHING", GetErrorCategory(ErrCodeSelectionFailed))
	assert.Equal(t, "VALIDATION", GetErrorCategory(ErrCodeInvalidInput))
	assert.True(t, IsRetryableErrorCode(ErrCodeDatabaseConnectionFailed))
	assert.False(t, IsRetryableErrorCode(ErrCodeMatchScoreFailed))
}
