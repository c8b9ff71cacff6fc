// internal/workers/questionnaire/submit-lead/channels.go
package submitlead

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"

	awsclient "taxrefund-workers/internal/common/aws"
	"taxrefund-workers/internal/common/errors"
	"taxrefund-workers/internal/common/metrics"
	"taxrefund-workers/internal/questionnaire"

	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/sns"
)

// Define interfaces for mocking
type SESService interface {
	SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

type SNSService interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

type WebhookPoster interface {
	PostJSON(ctx context.Context, url string, payload interface{}) error
}

var errChannelNotConfigured = stderrors.New("channel enabled without a client")

var channelServices = map[string]string{
	ChannelEmail:   "ses",
	ChannelWebhook: "webhook",
	ChannelSMS:     "sns",
}

// delivery is the per-channel result of one submission.
type delivery struct {
	email   string
	webhook string
	sms     string
	errs    []error
	codes   map[string]errors.ErrorCode
}

// delivered reports whether at least one primary channel accepted the lead.
func (d *delivery) delivered() bool {
	return d.email == StatusSent || d.webhook == StatusSent
}

// dispatch sends the lead once over every enabled channel. Nothing is retried.
func (h *Handler) dispatch(ctx context.Context, answers questionnaire.AnswerSet, score questionnaire.ScoreResult, summary questionnaire.Summary) *delivery {
	n := h.config.Notifications
	d := &delivery{email: StatusDisabled, webhook: StatusDisabled, sms: StatusDisabled, codes: map[string]errors.ErrorCode{}}

	if n.Email.Enabled {
		d.email = h.record(ChannelEmail, h.sendEmail(ctx, answers, summary), d)
	}
	if n.Webhook.Enabled {
		d.webhook = h.record(ChannelWebhook, h.sendWebhook(ctx, summary), d)
	}

	// the sales SMS is an extra alert for strong leads and never decides the outcome
	if n.SMS.Enabled && d.delivered() {
		if score.Tier.AtLeast(h.config.smsMinTier()) {
			d.sms = h.record(ChannelSMS, h.sendSMS(ctx, answers, score), nil)
		} else {
			d.sms = StatusSkipped
		}
	}
	return d
}

// record logs and counts one channel attempt. Errors are collected into d when
// d is not nil.
func (h *Handler) record(channel string, err error, d *delivery) string {
	if err != nil {
		chErr := channelError(channelServices[channel], err)
		h.logger.Error("lead notification failed", map[string]interface{}{
			"channel":   channel,
			"errorCode": string(chErr.Code),
			"error":     err,
		})
		metrics.NotificationsSent.WithLabelValues(channel, StatusFailed).Inc()
		if d != nil {
			d.errs = append(d.errs, fmt.Errorf("%s: %w: %v", channel, chErr, err))
			d.codes[channel] = chErr.Code
		}
		return StatusFailed
	}

	h.logger.Info("lead notification sent", map[string]interface{}{"channel": channel})
	metrics.NotificationsSent.WithLabelValues(channel, StatusSent).Inc()
	return StatusSent
}

// channelError classifies a failed attempt as a timeout or a plain
// external-service failure.
func channelError(service string, err error) *errors.StandardError {
	var te interface{ Timeout() bool }
	if stderrors.Is(err, context.DeadlineExceeded) || (stderrors.As(err, &te) && te.Timeout()) {
		return errors.NewTimeoutError(service, err)
	}
	return errors.NewExternalServiceError(service, err)
}

func (h *Handler) sendEmail(ctx context.Context, answers questionnaire.AnswerSet, summary questionnaire.Summary) error {
	if h.sesClient == nil {
		return errChannelNotConfigured
	}
	cfg := h.config.Notifications.Email

	replyTo := ""
	if cfg.ReplyToApplicant {
		replyTo = strings.TrimSpace(answers.ContactDetails.Email)
	}

	_, err := h.sesClient.SendEmail(ctx, awsclient.PlainTextEmail(cfg.FromEmail, cfg.Recipients, replyTo, summary.Subject, summary.Body))
	return err
}

func (h *Handler) sendWebhook(ctx context.Context, summary questionnaire.Summary) error {
	if h.webhook == nil {
		return errChannelNotConfigured
	}
	cfg := h.config.Notifications.Webhook

	return h.webhook.PostJSON(ctx, cfg.URL, webhookPayload{
		ServiceID:  cfg.ServiceID,
		TemplateID: cfg.TemplateID,
		UserID:     cfg.UserID,
		TemplateParams: templateParams{
			Subject: summary.Subject,
			Message: summary.Body,
		},
	})
}

func (h *Handler) sendSMS(ctx context.Context, answers questionnaire.AnswerSet, score questionnaire.ScoreResult) error {
	if h.snsClient == nil {
		return errChannelNotConfigured
	}
	cfg := h.config.Notifications.SMS

	_, err := h.snsClient.Publish(ctx, awsclient.TransactionalSMS(cfg.SalesPhone, cfg.SenderID, smsText(answers, score)))
	return err
}

func smsText(answers questionnaire.AnswerSet, score questionnaire.ScoreResult) string {
	c := answers.ContactDetails
	return fmt.Sprintf("%s (%d): %s %s", score.Tier.Label(), score.TotalScore, c.FullName(), strings.TrimSpace(c.Phone))
}
