// internal/workers/carehome/validate-client-profile/handler.go
package validateclientprofile

import (
	"context"
	"encoding/json"
	"fmt"

	"carehome-workers/internal/common/camunda"
	apperrors "carehome-workers/internal/common/errors"
	"carehome-workers/internal/common/logger"
	"carehome-workers/internal/common/metrics"
	"carehome-workers/internal/common/validation"
	"carehome-workers/internal/models"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "validate-client-profile"
)

type Handler struct {
	config       *Config
	logger       logger.Logger
	errorHandler *apperrors.ErrorHandler
}

func NewHandler(config *Config, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:       config,
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
	if len(input.ClientProfile) == 0 || string(input.ClientProfile) == "null" {
		return nil, apperrors.NewProfileValidationFailedError("clientProfile is required")
	}

	var document interface{}
	if err := json.Unmarshal(input.ClientProfile, &document); err != nil {
		return nil, apperrors.NewProfileValidationFailedError(fmt.Sprintf("clientProfile is not JSON: %v", err))
	}

	result, err := validation.ValidateClientProfile(document)
	if err != nil {
		return nil, apperrors.NewProfileValidationFailedError(err.Error())
	}
	if !result.Valid {
		return nil, apperrors.NewProfileValidationFailedError(result.Summary()).
			WithMetadata("validationErrors", result.Errors)
	}

	var profile models.ClientProfile
	if err := json.Unmarshal(input.ClientProfile, &profile); err != nil {
		return nil, apperrors.NewProfileValidationFailedError(err.Error())
	}

	warnings := profileWarnings(profile)

	h.logger.Info("client profile validated", map[string]interface{}{
		"clientId": profile.ClientID,
		"warnings": len(warnings),
	})

	return &Output{
		ClientProfile:      profile,
		ProfileValid:       true,
		ValidationWarnings: warnings,
	}, nil
}

// profileWarnings lists soft problems the matching core tolerates by
// falling back to neutral behaviour.
func profileWarnings(p models.ClientProfile) []string {
	warnings := []string{}

	if !p.Location.HasCoordinates() {
		warnings = append(warnings, "location coordinates missing: distance scored as neutral")
	}

	seen := map[models.PriorityCategory]bool{}
	for _, raw := range p.Priorities {
		cat, ok := models.ParsePriority(string(raw))
		if !ok {
			warnings = append(warnings, fmt.Sprintf("unknown priority %q ignored", raw))
			continue
		}
		if seen[cat] {
			warnings = append(warnings, fmt.Sprintf("repeated priority %q ignored", raw))
			continue
		}
		seen[cat] = true
	}
	if len(seen) > models.MaxPriorities {
		warnings = append(warnings, fmt.Sprintf("only the first %d priorities are used", models.MaxPriorities))
	}

	if p.Location.WeeklyBudget == 0 && p.Location.BudgetBand == "" {
		warnings = append(warnings, "no budget declared")
	}

	return warnings
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
