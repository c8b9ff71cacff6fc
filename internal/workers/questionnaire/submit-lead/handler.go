// internal/workers/questionnaire/submit-lead/handler.go
package submitlead

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"strings"
	"time"

	"taxrefund-workers/internal/common/database"
	"taxrefund-workers/internal/common/errors"
	"taxrefund-workers/internal/common/logger"
	"taxrefund-workers/internal/common/metrics"
	"taxrefund-workers/internal/common/observability"
	"taxrefund-workers/internal/questionnaire"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/google/uuid"
)

const (
	TaskType = "submit-lead"

	releaseTimeout = 5 * time.Second
)

// SubmissionLocker guards against a second submission for the same applicant
// while one is being delivered.
type SubmissionLocker interface {
	Acquire(ctx context.Context, id string) (*database.Lock, bool, error)
	Release(ctx context.Context, lock *database.Lock) error
}

// Dependencies are the clients the handler dispatches through. Nil channel
// clients fail that channel when it is enabled.
type Dependencies struct {
	SES           SESService
	SNS           SNSService
	Webhook       WebhookPoster
	Locker        SubmissionLocker
	Observability *observability.Observability
}

type Handler struct {
	config       *Config
	logger       logger.Logger
	errorHandler *errors.ErrorHandler
	sesClient    SESService
	snsClient    SNSService
	webhook      WebhookPoster
	locker       SubmissionLocker
	obs          *observability.Observability
}

func NewHandler(config *Config, deps Dependencies, log logger.Logger) (*Handler, error) {
	if deps.Locker == nil {
		return nil, fmt.Errorf("%s: submission locker is required", TaskType)
	}

	l := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:       config,
		logger:       l,
		errorHandler: errors.NewErrorHandler(l),
		sesClient:    deps.SES,
		snsClient:    deps.SNS,
		webhook:      deps.Webhook,
		locker:       deps.Locker,
		obs:          deps.Observability,
	}, nil
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
	return &input, nil
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	answers := input.Answers.Clone()

	if err := h.checkSubmittable(input, answers); err != nil {
		return nil, err
	}

	score := h.config.Policy.Score(answers)
	nationalID := strings.TrimSpace(answers.ContactDetails.NationalID)

	lock, acquired, err := h.locker.Acquire(ctx, nationalID)
	if err != nil {
		return nil, errors.NewLockUnavailableError(err)
	}
	if !acquired {
		metrics.SubmissionsRejected.Inc()
		h.logger.Warn("submission already in flight, ignoring", map[string]interface{}{
			"tier": string(score.Tier),
		})
		return &Output{
			SubmissionID:  uuid.New().String(),
			Status:        StatusIgnored,
			EmailStatus:   StatusSkipped,
			WebhookStatus: StatusSkipped,
			SMSStatus:     StatusSkipped,
			TotalScore:    score.TotalScore,
			Tier:          score.Tier,
		}, nil
	}
	defer h.release(lock)

	summary := questionnaire.FormatSummary(answers, score)
	submissionID := uuid.New().String()
	d := h.dispatch(ctx, answers, score, summary)

	if !d.delivered() {
		h.obs.RecordLeadSubmitted(ctx, string(score.Tier), StatusFailed)
		cause := stderrors.Join(d.errs...)
		if cause == nil {
			cause = stderrors.New("no notification channel enabled")
		}
		return nil, errors.NewNotificationSendFailedError("lead", cause).
			WithMetadata("submissionId", submissionID).
			WithMetadata("channelErrors", d.codes)
	}

	h.obs.RecordLeadSubmitted(ctx, string(score.Tier), StatusSent)
	h.logger.Info("lead submitted", map[string]interface{}{
		"submissionId": submissionID,
		"totalScore":   score.TotalScore,
		"tier":         string(score.Tier),
		"email":        d.email,
		"webhook":      d.webhook,
		"sms":          d.sms,
	})

	reset := questionnaire.Reset()
	return &Output{
		SubmissionID:  submissionID,
		Status:        StatusSent,
		SentAt:        time.Now().UTC().Format(time.RFC3339),
		EmailStatus:   d.email,
		WebhookStatus: d.webhook,
		SMSStatus:     d.sms,
		TotalScore:    score.TotalScore,
		Tier:          score.Tier,
		Subject:       summary.Subject,
		Step:          &reset.Step,
		Answers:       &reset.Answers,
	}, nil
}

// checkSubmittable requires every step to be complete and both gates to pass,
// then checks the input formats against the schema.
func (h *Handler) checkSubmittable(input *Input, answers questionnaire.AnswerSet) error {
	for step := questionnaire.StepMaritalStatus; step < questionnaire.StepCount; step++ {
		if errs := h.config.Policy.StepErrors(step, answers); len(errs) > 0 {
			details := make([]string, 0, len(errs))
			for _, fe := range errs {
				details = append(details, fmt.Sprintf("%s: %s", fe.Field, fe.Code))
			}
			return errors.NewStepIncompleteError(step, strings.Join(details, "; "))
		}
	}

	if gate := h.config.Policy.EmploymentBlocksProgress(answers.EmploymentStatus); gate.Blocked {
		return errors.NewBusinessRuleError(questionnaire.BlockMessage(gate.Reason), "employment gate: "+string(gate.Reason)).
			WithMetadata("blockReason", string(gate.Reason))
	}
	if !questionnaire.IsEligible(answers) {
		return errors.NewBusinessRuleError(questionnaire.BlockMessage(questionnaire.BlockNotEligible), "eligibility gate").
			WithMetadata("blockReason", string(questionnaire.BlockNotEligible))
	}

	result, err := inputSchema.ValidateGo(input)
	if err != nil {
		return errors.NewInputValidationFailedError(err.Error())
	}
	if !result.Valid {
		return errors.NewInputValidationFailedError(strings.Join(result.GetErrorMessages(), "; "))
	}
	return nil
}

// release runs on a fresh context so an expired job context still frees the
// lock for the applicant's next attempt.
func (h *Handler) release(lock *database.Lock) {
	ctx, cancel := context.WithTimeout(context.Background(), releaseTimeout)
	defer cancel()

	if err := h.locker.Release(ctx, lock); err != nil {
		h.logger.Warn("failed to release submission lock", map[string]interface{}{
			"error": err,
		})
	}
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
