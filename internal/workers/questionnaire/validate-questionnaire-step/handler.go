// internal/workers/questionnaire/validate-questionnaire-step/handler.go
package validatequestionnairestep

import (
	"context"
	"encoding/json"
	"strings"

	"taxrefund-workers/internal/common/errors"
	"taxrefund-workers/internal/common/logger"
	"taxrefund-workers/internal/common/metrics"
	"taxrefund-workers/internal/questionnaire"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "validate-questionnaire-step"
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

// parseInput checks the variable shape before decoding so a missing step is
// not silently read as step 0.
func parseInput(variables string) (*Input, error) {
	result, err := inputSchema.ValidateJSON([]byte(variables))
	if err != nil {
		return nil, errors.NewParseError(err)
	}
	if !result.Valid {
		return nil, errors.NewInputValidationFailedError(strings.Join(result.GetErrorMessages(), "; "))
	}

	var input Input
	if err := json.Unmarshal([]byte(variables), &input); err != nil {
		return nil, errors.NewParseError(err)
	}
	return &input, nil
}

// execute runs one forward transition of the questionnaire. Incomplete and
// blocked steps are outcomes, not job failures.
func (h *Handler) execute(_ context.Context, input *Input) (*Output, error) {
	next, outcome := h.config.Policy.Next(questionnaire.FlowState{
		Step:    input.Step,
		Answers: input.Answers,
	})

	stepErrors := outcome.Errors
	if stepErrors == nil {
		stepErrors = []questionnaire.FieldError{}
	}

	output := &Output{
		Step:        input.Step,
		NextStep:    next.Step,
		Complete:    len(outcome.Errors) == 0,
		Errors:      stepErrors,
		Transition:  outcome.Transition,
		BlockReason: outcome.Reason,
		TotalScore:  outcome.Score.TotalScore,
		Tier:        outcome.Score.Tier,
	}
	if outcome.Transition == questionnaire.TransitionBlocked {
		output.BlockMessage = questionnaire.BlockMessage(outcome.Reason)
	}

	h.logger.Info("step validated", map[string]interface{}{
		"step":       input.Step,
		"transition": string(outcome.Transition),
		"errorCount": len(outcome.Errors),
		"totalScore": outcome.Score.TotalScore,
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
