// internal/workers/carehome/derive-scoring-weights/handler.go
package derivescoringweights

import (
	"context"
	"encoding/json"
	"fmt"

	"carehome-workers/internal/common/camunda"
	apperrors "carehome-workers/internal/common/errors"
	"carehome-workers/internal/common/logger"
	"carehome-workers/internal/common/metrics"
	"carehome-workers/internal/matching/weights"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "derive-scoring-weights"
)

type Handler struct {
	config       *Config
	policy       *weights.Policy
	logger       logger.Logger
	errorHandler *apperrors.ErrorHandler
}

// NewHandler uses the default policy when policy is nil.
func NewHandler(config *Config, policy *weights.Policy, log logger.Logger) *Handler {
	if policy == nil {
		policy = weights.DefaultPolicy()
	}
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:       config,
		policy:       policy,
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

func (h *Handler) execute(_ context.Context, input *Input) (*Output, error) {
	if input.ClientProfile == nil {
		return nil, apperrors.NewInvalidInputError("clientProfile is required")
	}

	w, tags := h.policy.Derive(*input.ClientProfile)

	h.logger.Info("scoring weights derived", map[string]interface{}{
		"clientId":          input.ClientProfile.ClientID,
		"appliedConditions": tags,
		"safety":            w.Safety,
		"medical":           w.Medical,
	})

	return &Output{Weights: w, AppliedConditions: tags}, nil
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
