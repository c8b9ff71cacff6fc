// internal/workers/questionnaire/submit-lead/models.go
package submitlead

import "taxrefund-workers/internal/questionnaire"

type Input struct {
	Answers questionnaire.AnswerSet `json:"answers"`
}

type Output struct {
	SubmissionID  string             `json:"submissionId"`
	Status        string             `json:"status"` // "sent" or "ignored"
	SentAt        string             `json:"sentAt,omitempty"`
	EmailStatus   string             `json:"emailStatus"`
	WebhookStatus string             `json:"webhookStatus"`
	SMSStatus     string             `json:"smsStatus"`
	TotalScore    int                `json:"totalScore"`
	Tier          questionnaire.Tier `json:"tier"`
	Subject       string             `json:"subject,omitempty"`

	// Set after a delivered lead so the process starts over with an empty
	// questionnaire.
	Step    *int                     `json:"step,omitempty"`
	Answers *questionnaire.AnswerSet `json:"answers,omitempty"`
}

// Statuses
const (
	StatusSent     = "sent"
	StatusFailed   = "failed"
	StatusDisabled = "disabled"
	StatusSkipped  = "skipped"
	StatusIgnored  = "ignored"
)

// Channels
const (
	ChannelEmail   = "email"
	ChannelWebhook = "webhook"
	ChannelSMS     = "sms"
)

// webhookPayload is the EmailJS-compatible send request.
type webhookPayload struct {
	ServiceID      string         `json:"service_id"`
	TemplateID     string         `json:"template_id"`
	UserID         string         `json:"user_id"`
	TemplateParams templateParams `json:"template_params"`
}

type templateParams struct {
	Subject string `json:"subject"`
	Message string `json:"message"`
}
