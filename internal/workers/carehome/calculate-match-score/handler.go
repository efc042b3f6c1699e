// internal/workers/carehome/calculate-match-score/handler.go
package calculatematchscore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"carehome-workers/internal/common/camunda"
	apperrors "carehome-workers/internal/common/errors"
	"carehome-workers/internal/common/logger"
	"carehome-workers/internal/common/metrics"
	"carehome-workers/internal/matching"
	"carehome-workers/internal/models"
	"carehome-workers/internal/store"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "calculate-match-score"
)

// ProfileSource is satisfied by *store.Repository.
type ProfileSource interface {
	ClientProfile(ctx context.Context, clientID string) (*models.ClientProfile, error)
}

type Handler struct {
	config       *Config
	engine       *matching.Engine
	profiles     ProfileSource
	logger       logger.Logger
	errorHandler *apperrors.ErrorHandler
}

func NewHandler(config *Config, engine *matching.Engine, profiles ProfileSource, log logger.Logger) *Handler {
	if engine == nil {
		engine = matching.NewEngine(nil)
	}
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:       config,
		engine:       engine,
		profiles:     profiles,
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
	for i, c := range input.Candidates {
		if strings.TrimSpace(c.ID) == "" {
			return nil, apperrors.NewCandidateIdentityMissingError(i)
		}
	}

	profile, err := h.resolveProfile(ctx, input)
	if err != nil {
		return nil, err
	}

	// Supplied weights come from derive-scoring-weights upstream; otherwise
	// ScoreAll derives them and tags every MatchResult with the fired rules.
	w, tags, scored, err := h.score(input, *profile)
	if err != nil {
		return nil, err
	}

	top := 0.0
	for _, s := range scored {
		metrics.MatchPercent.Observe(s.Match.NormalizedPercent)
		if s.Match.NormalizedPercent > top {
			top = s.Match.NormalizedPercent
		}
	}
	metrics.CandidatesScored.Add(float64(len(scored)))

	h.logger.Info("match scores calculated", map[string]interface{}{
		"clientId":          profile.ClientID,
		"candidates":        len(scored),
		"appliedConditions": tags,
		"topMatchPercent":   top,
	})

	return &Output{
		ScoredCandidates:  scored,
		Weights:           w,
		AppliedConditions: tags,
		TopMatchPercent:   top,
	}, nil
}

// score runs the engine. The engine has no error path; a panic on malformed
// input is reported as a terminal MATCH_SCORE_FAILED instead of crashing the
// worker.
func (h *Handler) score(input *Input, profile models.ClientProfile) (w models.ScoringWeights, tags []string, scored []models.ScoredCandidate, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = apperrors.NewMatchScoreFailedError(fmt.Errorf("scoring panicked: %v", r))
		}
	}()

	if input.Weights != nil {
		w, tags = *input.Weights, input.AppliedConditions
		if tags == nil {
			tags = []string{}
		}
		return w, tags, h.engine.ScoreAll(input.Candidates, profile, &w), nil
	}

	w, tags = h.engine.DeriveWeights(profile)
	return w, tags, h.engine.ScoreAll(input.Candidates, profile, nil), nil
}

// resolveProfile prefers the inline profile and falls back to the store.
func (h *Handler) resolveProfile(ctx context.Context, input *Input) (*models.ClientProfile, error) {
	if input.ClientProfile != nil {
		return input.ClientProfile, nil
	}
	if input.ClientID == "" {
		return nil, apperrors.NewInvalidInputError("clientProfile or clientId is required")
	}
	if h.profiles == nil {
		return nil, apperrors.NewProfileNotFoundError(input.ClientID)
	}

	profile, err := h.profiles.ClientProfile(ctx, input.ClientID)
	switch {
	case err == nil:
		return profile, nil
	case errors.Is(err, store.ErrNotFound):
		return nil, apperrors.NewProfileNotFoundError(input.ClientID)
	case errors.Is(err, context.DeadlineExceeded):
		return nil, apperrors.NewQueryTimeoutError(string(models.QueryTypeClientProfile))
	case store.IsConnectionError(err):
		return nil, apperrors.NewDatabaseConnectionFailedError(err)
	default:
		return nil, apperrors.NewQueryExecutionFailedError(string(models.QueryTypeClientProfile), err)
	}
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
