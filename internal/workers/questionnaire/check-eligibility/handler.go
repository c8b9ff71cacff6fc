// internal/workers/questionnaire/check-eligibility/handler.go
package checkeligibility

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"

	"taxrefund-workers/internal/common/errors"
	"taxrefund-workers/internal/common/logger"
	"taxrefund-workers/internal/common/metrics"
	"taxrefund-workers/internal/questionnaire"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "check-eligibility"
)

type Handler struct {
	config       *Config
	logger       logger.Logger
	errorHandler *errors.ErrorHandler
}

func NewHandler(config *Config, log logger.Logger) *Handler {
	l := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:       config,
		logger:       l,
		errorHandler: errors.NewErrorHandler(l),
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	input, err := parseInput(job.Variables)
	if err != nil {
		h.failJob(client, job, err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	output, err := h.execute(ctx, input)
	if err != nil {
		h.failJob(client, job, err)
		return
	}

	h.completeJob(client, job, output)
}

func parseInput(variables string) (*Input, error) {
	var input Input
	if err := json.Unmarshal([]byte(variables), &input); err != nil {
		return nil, errors.NewParseError(err)
	}
	input.Gate = strings.ToLower(strings.TrimSpace(input.Gate))
	return &input, nil
}

// execute evaluates one gate. A blocked verdict is a normal result; the
// process routes on blockReason.
func (h *Handler) execute(_ context.Context, input *Input) (*Output, error) {
	output := &Output{Gate: input.Gate, Reason: questionnaire.BlockNone}

	switch input.Gate {
	case GateEmployment:
		verdict := h.config.Policy.EmploymentBlocksProgress(input.Answers.EmploymentStatus)
		output.Blocked = verdict.Blocked
		output.Reason = verdict.Reason
	case GateEligibility:
		if !questionnaire.IsEligible(input.Answers) {
			output.Blocked = true
			output.Reason = questionnaire.BlockNotEligible
		}
	default:
		return nil, errors.NewUnknownGateError(input.Gate)
	}

	if output.Blocked {
		output.Message = questionnaire.BlockMessage(output.Reason)
	}

	metrics.GateVerdicts.WithLabelValues(output.Gate, strconv.FormatBool(output.Blocked), string(output.Reason)).Inc()
	h.logger.Info("gate evaluated", map[string]interface{}{
		"gate":    output.Gate,
		"blocked": output.Blocked,
		"reason":  string(output.Reason),
		"policy":  string(h.config.Policy.EmploymentGate),
	})

	return output, nil
}

func (h *Handler) completeJob(client worker.JobClient, job entities.Job, output *Output) {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		h.logger.Error("failed to create complete job command", map[string]interface{}{
			"error": err,
		})
		return
	}
	if _, err = cmd.Send(context.Background()); err != nil {
		h.logger.Error("failed to complete job", map[string]interface{}{
			"error": err,
		})
		return
	}
	metrics.RecordJobResult(TaskType, "")
}

func (h *Handler) failJob(client worker.JobClient, job entities.Job, err error) {
	stdErr := errors.Normalize(err)
	metrics.RecordJobResult(TaskType, string(stdErr.Code))

	if handleErr := h.errorHandler.HandleJobError(context.Background(), client, job, stdErr); handleErr != nil {
		h.logger.Error("failed to report job error", map[string]interface{}{
			"error": handleErr,
		})
	}
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
