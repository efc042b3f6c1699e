// internal/common/camunda/worker.go
package camunda

import (
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"
	"go.uber.org/zap"
)

// JobHandler is the signature every care-home worker exposes as Handle.
type JobHandler func(client worker.JobClient, job entities.Job)

// WorkerOptions mirrors config.WorkerConfig without importing it.
type WorkerOptions struct {
	MaxJobsActive int
	Timeout       time.Duration
	PollInterval  time.Duration
}

// Worker is one open job subscription.
type Worker struct {
	worker worker.JobWorker
	logger *zap.Logger
}

// NewWorker opens a job worker for taskType. A panicking handler is logged
// and the job is left to time out so Zeebe can hand it out again.
func NewWorker(client zbc.Client, taskType string, opts WorkerOptions, handler JobHandler, logger *zap.Logger) *Worker {
	log := logger.With(zap.String("taskType", taskType))

	builder := client.NewJobWorker().
		JobType(taskType).
		Handler(func(jc worker.JobClient, job entities.Job) {
			defer func() {
				if r := recover(); r != nil {
					log.Error("Handler panicked", zap.Any("panic", r), zap.Int64("jobKey", job.Key))
				}
			}()
			handler(jc, job)
		})

	if opts.MaxJobsActive > 0 {
		builder = builder.MaxJobsActive(opts.MaxJobsActive)
	}
	if opts.Timeout > 0 {
		builder = builder.Timeout(opts.Timeout)
	}
	if opts.PollInterval > 0 {
		builder = builder.PollInterval(opts.PollInterval)
	}

	jw := builder.Open()
	log.Info("Worker started",
		zap.Int("maxJobsActive", opts.MaxJobsActive),
		zap.Duration("timeout", opts.Timeout),
	)

	return &Worker{worker: jw, logger: log}
}

// Close stops polling and waits for in-flight jobs.
func (w *Worker) Close() {
	w.logger.Info("Stopping worker")
	w.worker.Close()
	w.worker.AwaitClose()
}
