// internal/workers/carehome/select-top-facilities/handler.go
package selecttopfacilities

import (
	"context"
	"encoding/json"
	"fmt"

	"carehome-workers/internal/common/camunda"
	apperrors "carehome-workers/internal/common/errors"
	"carehome-workers/internal/common/logger"
	"carehome-workers/internal/common/metrics"
	"carehome-workers/internal/matching/selection"
	"carehome-workers/internal/models"
	"carehome-workers/internal/store"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/google/uuid"
)

const (
	TaskType = "select-top-facilities"
)

// ShortlistStore is satisfied by *store.Repository.
type ShortlistStore interface {
	SaveShortlist(ctx context.Context, clientID string, result models.SelectionResult) error
}

type Handler struct {
	config       *Config
	shortlists   ShortlistStore
	newID        func() string
	logger       logger.Logger
	errorHandler *apperrors.ErrorHandler
}

func NewHandler(config *Config, shortlists ShortlistStore, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:       config,
		shortlists:   shortlists,
		newID:        func() string { return uuid.New().String() },
		logger:       log,
		errorHandler: apperrors.NewErrorHandler(log),
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	done := metrics.Track(TaskType)

	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		stdErr := apperrors.NewInvalidInputError(fmt.Sprintf("parse input: %v", err))
		h.errorHandler.HandleJobError(ctx, client, job, stdErr)
		done(string(stdErr.Code))
		return
	}

	output, err := h.execute(ctx, &input)
	if err != nil {
		h.errorHandler.HandleJobError(ctx, client, job, err)
		done(string(apperrors.Normalize(err).Code))
		return
	}

	h.completeJob(ctx, client, job, output)
	done("")
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	if input.ClientProfile == nil {
		return nil, apperrors.NewInvalidInputError("clientProfile is required")
	}
	for i, s := range input.ScoredCandidates {
		if s.Facility.ID == "" {
			return nil, apperrors.NewCandidateIdentityMissingError(i)
		}
	}

	result, err := selectShortlist(input.ScoredCandidates, *input.ClientProfile)
	if err != nil {
		return nil, err
	}
	result.SessionID = h.newID()

	metrics.SelectionSubstitutions.Add(float64(result.Diversity.Substitutions))

	if h.config.PersistShortlist && h.shortlists != nil {
		if err := h.shortlists.SaveShortlist(ctx, input.ClientProfile.ClientID, result); err != nil {
			if store.IsConnectionError(err) {
				return nil, apperrors.NewDatabaseConnectionFailedError(err)
			}
			return nil, apperrors.NewQueryExecutionFailedError(string(models.QueryTypeShortlistSave), err)
		}
	}

	matches := make([]models.MatchResult, 0, len(input.ScoredCandidates))
	for _, s := range input.ScoredCandidates {
		matches = append(matches, s.Match)
	}

	ids := make([]string, 0, len(result.Recommendations))
	for _, r := range result.Recommendations {
		ids = append(ids, r.Facility.ID)
	}

	h.logger.Info("shortlist selected", map[string]interface{}{
		"clientId":           input.ClientProfile.ClientID,
		"sessionId":          result.SessionID,
		"pool":               len(input.ScoredCandidates),
		"shortlisted":        len(ids),
		"substitutions":      result.Diversity.Substitutions,
		"backfilled":         result.Diversity.Backfilled,
		"distinctProviders":  result.Diversity.DistinctProviders,
		"distinctLocalities": result.Diversity.DistinctLocalities,
	})

	return &Output{
		Selection:    result,
		MatchResults: matches,
		ShortlistIDs: ids,
	}, nil
}

func selectShortlist(scored []models.ScoredCandidate, profile models.ClientProfile) (result models.SelectionResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = apperrors.NewSelectionFailedError(fmt.Errorf("selection panicked: %v", r))
		}
	}()
	return selection.SelectTop5(scored, profile), nil
}

func (h *Handler) completeJob(ctx context.Context, client worker.JobClient, job entities.Job, output *Output) {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		h.logger.Error("failed to create complete job command", map[string]interface{}{
			"error": err,
		})
		return
	}
	sendCtx, cancel := camunda.CommandContext(ctx)
	defer cancel()
	if _, err = cmd.Send(sendCtx); err != nil {
		h.logger.Error("failed to send complete job command", map[string]interface{}{
			"error": err,
		})
	}
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
