// internal/workers/questionnaire/calculate-lead-score/models.go
package calculateleadscore

import "taxrefund-workers/internal/questionnaire"

type Input struct {
	Answers questionnaire.AnswerSet `json:"answers"`
}

type Output struct {
	TotalScore int                          `json:"totalScore"`
	Tier       questionnaire.Tier           `json:"tier"`
	TierLabel  string                       `json:"tierLabel"`
	Breakdown  []questionnaire.Contribution `json:"breakdown"`
}
