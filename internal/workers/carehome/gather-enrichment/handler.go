// internal/workers/carehome/gather-enrichment/handler.go
package gatherenrichment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"carehome-workers/internal/common/camunda"
	apperrors "carehome-workers/internal/common/errors"
	"carehome-workers/internal/common/logger"
	"carehome-workers/internal/common/metrics"
	"carehome-workers/internal/models"
	"carehome-workers/internal/store"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
	"golang.org/x/sync/errgroup"
)

const (
	TaskType = "gather-enrichment"
)

// EnrichmentSource is satisfied by *store.Repository.
type EnrichmentSource interface {
	EnrichmentBundle(ctx context.Context, facilityID string) (*models.EnrichmentBundle, error)
}

type Handler struct {
	config       *Config
	source       EnrichmentSource
	tracer       trace.Tracer
	logger       logger.Logger
	errorHandler *apperrors.ErrorHandler
}

func NewHandler(config *Config, source EnrichmentSource, tracer trace.Tracer, log logger.Logger) *Handler {
	if tracer == nil {
		tracer = noop.NewTracerProvider().Tracer(TaskType)
	}
	log = log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:       config,
		source:       source,
		tracer:       tracer,
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

// execute fetches one bundle per candidate through a bounded pool. A failed
// or slow fetch yields an empty bundle; it never fails the job.
func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	start := time.Now()

	out := make([]models.CandidateFacility, len(input.Candidates))
	copy(out, input.Candidates)

	var degraded, enriched int64

	poolSize := h.config.PoolSize
	if poolSize <= 0 {
		poolSize = 1
	}

	g := new(errgroup.Group)
	g.SetLimit(poolSize)

	for i := range out {
		if out[i].Enrichment != nil {
			continue
		}
		if out[i].ID == "" {
			out[i].Enrichment = &models.EnrichmentBundle{}
			atomic.AddInt64(&degraded, 1)
			continue
		}

		i := i
		g.Go(func() error {
			bundle, ok := h.fetch(ctx, out[i].ID)
			out[i].Enrichment = bundle
			if ok {
				atomic.AddInt64(&enriched, 1)
			} else {
				atomic.AddInt64(&degraded, 1)
			}
			return nil
		})
	}
	_ = g.Wait()

	elapsed := time.Since(start)
	h.logger.Info("enrichment gathered", map[string]interface{}{
		"candidates": len(out),
		"enriched":   enriched,
		"degraded":   degraded,
		"durationMs": elapsed.Milliseconds(),
	})

	return &Output{
		Candidates:    out,
		EnrichedCount: int(enriched),
		DegradedCount: int(degraded),
		DurationMs:    elapsed.Milliseconds(),
	}, nil
}

func (h *Handler) fetch(parent context.Context, facilityID string) (*models.EnrichmentBundle, bool) {
	ctx, span := h.tracer.Start(parent, "enrichment.fetch",
		trace.WithAttributes(attribute.String("facility.id", facilityID)))
	defer span.End()

	ctx, cancel := context.WithTimeout(ctx, h.config.PerCallTimeout)
	defer cancel()

	bundle, err := h.source.EnrichmentBundle(ctx, facilityID)
	if err == nil && bundle != nil {
		return bundle, true
	}

	reason := failureReason(ctx, err)
	metrics.EnrichmentFetchFailures.WithLabelValues(reason).Inc()
	span.SetAttributes(attribute.String("enrichment.failure", reason))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, reason)
	}

	h.logger.Warn("enrichment unavailable, using empty bundle", map[string]interface{}{
		"facilityId": facilityID,
		"reason":     reason,
		"error":      err,
	})
	return &models.EnrichmentBundle{}, false
}

func failureReason(ctx context.Context, err error) string {
	switch {
	case err == nil:
		return "empty"
	case errors.Is(err, store.ErrNotFound):
		return "not_found"
	case errors.Is(err, context.DeadlineExceeded), errors.Is(ctx.Err(), context.DeadlineExceeded):
		return "timeout"
	default:
		return "error"
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
