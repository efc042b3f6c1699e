// internal/workers/carehome/search-candidate-facilities/handler.go
package searchcandidatefacilities

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"carehome-workers/internal/common/camunda"
	apperrors "carehome-workers/internal/common/errors"
	"carehome-workers/internal/common/logger"
	"carehome-workers/internal/common/metrics"
	"carehome-workers/internal/models"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/elastic/go-elasticsearch/v8"
)

const (
	TaskType = "search-candidate-facilities"
)

var (
	ErrSearchQueryFailed = errors.New("FACILITY_SEARCH_FAILED")
	ErrIndexNotFound     = errors.New("INDEX_NOT_FOUND")
)

type Handler struct {
	config       *Config
	client       *elasticsearch.Client
	logger       logger.Logger
	errorHandler *apperrors.ErrorHandler
}

func NewHandler(config *Config, client *elasticsearch.Client, log logger.Logger) *Handler {
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:       config,
		client:       client,
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
		stdErr := h.classify(ctx, err)
		h.errorHandler.HandleJobError(context.Background(), client, job, stdErr)
		done(string(stdErr.Code))
		return
	}

	h.completeJob(ctx, client, job, output)
	done("")
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	if input.ClientProfile == nil {
		return nil, apperrors.NewInvalidInputError("clientProfile is required")
	}

	size := h.config.MaxCandidates
	if input.MaxCandidates > 0 && input.MaxCandidates < size {
		size = input.MaxCandidates
	}

	body, err := json.Marshal(buildQuery(*input.ClientProfile, size, h.config.RadiusFactor))
	if err != nil {
		return nil, fmt.Errorf("%w: encode query: %v", ErrSearchQueryFailed, err)
	}

	res, err := h.client.Search(
		h.client.Search.WithContext(ctx),
		h.client.Search.WithIndex(h.config.Index),
		h.client.Search.WithBody(bytes.NewReader(body)),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSearchQueryFailed, err)
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusNotFound {
		return nil, ErrIndexNotFound
	}
	if res.IsError() {
		return nil, fmt.Errorf("%w: %s", ErrSearchQueryFailed, res.Status())
	}

	var parsed searchResponse
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", ErrSearchQueryFailed, err)
	}

	candidates := make([]models.CandidateFacility, 0, len(parsed.Hits.Hits))
	for _, hit := range parsed.Hits.Hits {
		f := toCandidate(hit)
		if f.ID == "" {
			h.logger.Warn("search hit without id skipped", nil)
			continue
		}
		candidates = append(candidates, f)
	}

	h.logger.Info("candidate facilities found", map[string]interface{}{
		"clientId":   input.ClientProfile.ClientID,
		"candidates": len(candidates),
		"totalHits":  parsed.Hits.Total.Value,
		"took":       parsed.Took,
	})

	return &Output{
		Candidates:     candidates,
		CandidateCount: len(candidates),
		TotalHits:      parsed.Hits.Total.Value,
		Took:           parsed.Took,
	}, nil
}

func toCandidate(hit searchHit) models.CandidateFacility {
	f := hit.Source.CandidateFacility
	if f.ID == "" {
		f.ID = hit.ID
	}
	if !f.HasCoordinates() && hit.Source.Location != nil {
		lat, lon := hit.Source.Location.Lat, hit.Source.Location.Lon
		f.Latitude, f.Longitude = &lat, &lon
	}
	return f
}

func (h *Handler) classify(ctx context.Context, err error) *apperrors.StandardError {
	if stdErr, ok := apperrors.AsStandardError(err); ok {
		return stdErr
	}
	switch {
	case errors.Is(ctx.Err(), context.DeadlineExceeded):
		return apperrors.NewSearchTimeoutError(h.config.Index)
	case errors.Is(err, ErrIndexNotFound):
		return apperrors.NewIndexNotFoundError(h.config.Index)
	default:
		return apperrors.NewFacilitySearchFailedError(err)
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
