// internal/common/errors/handler.go
package errors

import (
	"context"
	"encoding/json"
	"time"

	"carehome-workers/internal/common/camunda"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

// ErrorHandler handles job errors with standardized error handling
type ErrorHandler struct {
	logger Logger
}

type Logger interface {
	Error(msg string, fields map[string]interface{})
}

func NewErrorHandler(logger Logger) *ErrorHandler {
	return &ErrorHandler{logger: logger}
}

// HandleJobError fails the job with retries for retryable codes and throws
// a BPMN error otherwise.
func (h *ErrorHandler) HandleJobError(ctx context.Context, client worker.JobClient, job entities.Job, err error) {
	stdErr := Normalize(err)
	bpmnErr := ConvertToBPMNError(stdErr)

	h.logError(job, stdErr, bpmnErr)

	if bpmnErr.Retries > 0 && job.Retries > 0 {
		h.failJobWithRetries(ctx, client, job, bpmnErr)
		return
	}
	h.throwBPMNError(ctx, client, job, bpmnErr)
}

// Normalize ensures we always have a StandardError
func Normalize(err error) *StandardError {
	if stdErr, ok := AsStandardError(err); ok {
		return stdErr
	}
	return &StandardError{
		Code:      ErrCodeInternal,
		Message:   "Unexpected error",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

// remainingRetries never raises the job's own remaining retry budget.
func remainingRetries(job entities.Job, maxRetries int) int32 {
	retries := maxRetries
	if job.Retries > 0 && int(job.Retries) < maxRetries {
		retries = int(job.Retries)
	}
	// Zeebe counts the current attempt, so one is consumed here.
	if retries > 0 {
		retries--
	}
	return int32(retries)
}

// The job context may already be past its deadline when a handler gives up,
// so fail and throw commands go out on camunda.CommandContext.
func (h *ErrorHandler) failJobWithRetries(ctx context.Context, client worker.JobClient, job entities.Job, bpmnErr *BPMNError) {
	cmd := client.NewFailJobCommand().
		JobKey(job.Key).
		Retries(remainingRetries(job, bpmnErr.Retries)).
		ErrorMessage(bpmnErr.Message)

	sendCtx, cancel := camunda.CommandContext(ctx)
	defer cancel()

	var err error
	if withVars, varsErr := cmd.VariablesFromString(h.errorVariables(bpmnErr)); varsErr == nil {
		_, err = withVars.Send(sendCtx)
	} else {
		_, err = cmd.Send(sendCtx)
	}
	if err != nil {
		h.logSendFailure("fail", job, bpmnErr, err)
	}
}

func (h *ErrorHandler) throwBPMNError(ctx context.Context, client worker.JobClient, job entities.Job, bpmnErr *BPMNError) {
	cmd := client.NewThrowErrorCommand().
		JobKey(job.Key).
		ErrorCode(bpmnErr.Code).
		ErrorMessage(bpmnErr.Message)

	sendCtx, cancel := camunda.CommandContext(ctx)
	defer cancel()

	var err error
	if withVars, varsErr := cmd.VariablesFromString(h.errorVariables(bpmnErr)); varsErr == nil {
		_, err = withVars.Send(sendCtx)
	} else {
		_, err = cmd.Send(sendCtx)
	}
	if err != nil {
		h.logSendFailure("throw", job, bpmnErr, err)
	}
}

func (h *ErrorHandler) errorVariables(bpmnErr *BPMNError) string {
	varsJSON, err := json.Marshal(bpmnErr.ToErrorVariables())
	if err != nil {
		return "{}"
	}
	return string(varsJSON)
}

func (h *ErrorHandler) logSendFailure(command string, job entities.Job, bpmnErr *BPMNError, err error) {
	h.logger.Error("failed to send job command", map[string]interface{}{
		"command":   command,
		"jobKey":    job.Key,
		"errorCode": bpmnErr.Code,
		"error":     err.Error(),
	})
}

func (h *ErrorHandler) logError(job entities.Job, stdErr *StandardError, bpmnErr *BPMNError) {
	h.logger.Error("Job failed", map[string]interface{}{
		"jobKey":           job.Key,
		"jobType":          job.Type,
		"errorCode":        string(stdErr.Code),
		"bpmnErrorCode":    bpmnErr.Code,
		"message":          bpmnErr.Message,
		"details":          stdErr.Details,
		"retryable":        stdErr.Retryable,
		"retries":          bpmnErr.Retries,
		"errorCategory":    GetErrorCategory(stdErr.Code),
		"workflowInstance": job.ProcessInstanceKey,
	})
}
