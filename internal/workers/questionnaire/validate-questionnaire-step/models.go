// internal/workers/questionnaire/validate-questionnaire-step/models.go
package validatequestionnairestep

import "taxrefund-workers/internal/questionnaire"

type Input struct {
	Step    int                     `json:"step"`
	Answers questionnaire.AnswerSet `json:"answers"`
}

type Output struct {
	Step         int                        `json:"step"`
	NextStep     int                        `json:"nextStep"`
	Complete     bool                       `json:"stepComplete"`
	Errors       []questionnaire.FieldError `json:"stepErrors"`
	Transition   questionnaire.Transition   `json:"transition"`
	BlockReason  questionnaire.BlockReason  `json:"blockReason"`
	BlockMessage string                     `json:"blockMessage,omitempty"`
	TotalScore   int                        `json:"totalScore"`
	Tier         questionnaire.Tier         `json:"tier"`
}
