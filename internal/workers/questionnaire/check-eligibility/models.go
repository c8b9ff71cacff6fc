// internal/workers/questionnaire/check-eligibility/models.go
package checkeligibility

import "taxrefund-workers/internal/questionnaire"

// Gates
const (
	GateEmployment  = "employment"
	GateEligibility = "eligibility"
)

type Input struct {
	Gate    string                  `json:"gate"`
	Answers questionnaire.AnswerSet `json:"answers"`
}

type Output struct {
	Gate    string                    `json:"gate"`
	Blocked bool                      `json:"blocked"`
	Reason  questionnaire.BlockReason `json:"blockReason"`
	Message string                    `json:"blockMessage,omitempty"`
}
