package camunda

import (
	"context"
	"sync"
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/commands"
	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"

	"taxrefund-workers/internal/common/config"
	"taxrefund-workers/internal/common/logger"
	"taxrefund-workers/internal/common/metrics"
	"taxrefund-workers/internal/common/observability"
)

// JobHandler is the signature every questionnaire worker exposes as Handle.
type JobHandler func(client worker.JobClient, job entities.Job)

// CamundaWorker owns the job workers opened on one Zeebe client.
type CamundaWorker struct {
	client zbc.Client
	logger logger.Logger
	obs    *observability.Observability

	mu      sync.Mutex
	workers map[string]worker.JobWorker
}

func NewWorker(client zbc.Client, log logger.Logger) *CamundaWorker {
	return &CamundaWorker{
		client:  client,
		logger:  log,
		workers: make(map[string]worker.JobWorker),
	}
}

// WithObservability also reports every handled job to the OpenTelemetry meters.
func (w *CamundaWorker) WithObservability(obs *observability.Observability) *CamundaWorker {
	w.obs = obs
	return w
}

// Start opens a job worker for taskType unless the worker is disabled.
// It reports whether a worker was opened.
func (w *CamundaWorker) Start(taskType string, wcfg config.WorkerConfig, handler JobHandler) bool {
	if !wcfg.Enabled {
		w.logger.Info("worker disabled", map[string]interface{}{"taskType": taskType})
		return false
	}

	wrapped := Instrument(taskType, handler)
	if w.obs != nil {
		wrapped = Observe(w.obs, taskType, wrapped)
	}

	jobWorker := w.client.NewJobWorker().
		JobType(taskType).
		Handler(worker.JobHandler(wrapped)).
		MaxJobsActive(wcfg.MaxJobsActive).
		Timeout(config.GetDuration(wcfg.Timeout)).
		Open()

	w.mu.Lock()
	w.workers[taskType] = jobWorker
	w.mu.Unlock()

	w.logger.Info("worker started", map[string]interface{}{
		"taskType":      taskType,
		"maxJobsActive": wcfg.MaxJobsActive,
		"timeout_ms":    wcfg.Timeout,
	})
	return true
}

// TaskTypes lists the task types with an open worker.
func (w *CamundaWorker) TaskTypes() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]string, 0, len(w.workers))
	for t := range w.workers {
		out = append(out, t)
	}
	return out
}

// Stop closes every job worker and waits for in-flight handlers to return.
func (w *CamundaWorker) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()
	for taskType, jw := range w.workers {
		w.logger.Info("stopping worker", map[string]interface{}{"taskType": taskType})
		jw.Close()
		jw.AwaitClose()
	}
	w.workers = make(map[string]worker.JobWorker)
}

// Instrument tracks the active job gauge and duration for a handler.
func Instrument(taskType string, handler JobHandler) JobHandler {
	return func(client worker.JobClient, job entities.Job) {
		active := metrics.WorkerJobsActive.WithLabelValues(taskType)
		active.Inc()
		defer active.Dec()

		start := time.Now()
		handler(client, job)
		metrics.WorkerJobDuration.WithLabelValues(taskType).Observe(time.Since(start).Seconds())
	}
}

// Job outcomes reported by Observe.
const (
	OutcomeCompleted = "completed"
	OutcomeFailed    = "failed"
	OutcomeThrown    = "error_thrown"
	OutcomeNone      = "none"
)

// outcomeClient remembers the last command a handler built.
type outcomeClient struct {
	worker.JobClient
	outcome string
}

func (c *outcomeClient) NewCompleteJobCommand() commands.CompleteJobCommandStep1 {
	c.outcome = OutcomeCompleted
	return c.JobClient.NewCompleteJobCommand()
}

func (c *outcomeClient) NewFailJobCommand() commands.FailJobCommandStep1 {
	c.outcome = OutcomeFailed
	return c.JobClient.NewFailJobCommand()
}

func (c *outcomeClient) NewThrowErrorCommand() commands.ThrowErrorCommandStep1 {
	c.outcome = OutcomeThrown
	return c.JobClient.NewThrowErrorCommand()
}

// Observe records the job count and duration on the OpenTelemetry meters,
// labelled with the command the handler answered the job with.
func Observe(obs *observability.Observability, taskType string, handler JobHandler) JobHandler {
	return func(client worker.JobClient, job entities.Job) {
		oc := &outcomeClient{JobClient: client, outcome: OutcomeNone}
		start := time.Now()
		handler(oc, job)

		ctx := context.Background()
		obs.RecordJobProcessed(ctx, taskType, oc.outcome)
		obs.RecordJobDuration(ctx, taskType, time.Since(start), oc.outcome)
	}
}
