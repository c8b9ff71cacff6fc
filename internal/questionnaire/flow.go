package questionnaire

// Transition is the outcome of a flow step.
type Transition string

const (
	TransitionAdvanced      Transition = "advanced"
	TransitionIncomplete    Transition = "incomplete"
	TransitionBlocked       Transition = "blocked"
	TransitionReadyToSubmit Transition = "ready_to_submit"
	TransitionWentBack      Transition = "went_back"
	TransitionStayed        Transition = "stayed"
)

// FlowState is the collector's position in the questionnaire together with
// the answers gathered so far. Transitions return a new value.
type FlowState struct {
	Step    int       `json:"step"`
	Answers AnswerSet `json:"answers"`
}

// StepOutcome is what the collector needs to decide navigation.
type StepOutcome struct {
	Transition Transition   `json:"transition"`
	Reason     BlockReason  `json:"reason"`
	Errors     []FieldError `json:"errors,omitempty"`
	Score      ScoreResult  `json:"score"`
}

// NewFlow starts an empty questionnaire at the first step.
func NewFlow() FlowState {
	return FlowState{Step: StepMaritalStatus}
}

// Next validates the current step, applies the gates that fire on leaving it,
// and moves forward when allowed. The score is recomputed every time.
func (p Policy) Next(state FlowState) (FlowState, StepOutcome) {
	next := FlowState{Step: state.Step, Answers: state.Answers.Clone()}
	outcome := StepOutcome{Reason: BlockNone, Score: p.Score(next.Answers)}

	if errs := p.StepErrors(state.Step, next.Answers); len(errs) > 0 {
		outcome.Transition = TransitionIncomplete
		outcome.Errors = errs
		return next, outcome
	}

	switch state.Step {
	case StepEmploymentStatus:
		if gate := p.EmploymentBlocksProgress(next.Answers.EmploymentStatus); gate.Blocked {
			outcome.Transition = TransitionBlocked
			outcome.Reason = gate.Reason
			return next, outcome
		}
	case StepAdditionalCriteria:
		if !IsEligible(next.Answers) {
			outcome.Transition = TransitionBlocked
			outcome.Reason = BlockNotEligible
			return next, outcome
		}
	case StepContactDetails:
		outcome.Transition = TransitionReadyToSubmit
		return next, outcome
	}

	next.Step++
	outcome.Transition = TransitionAdvanced
	return next, outcome
}

// Back moves one step backwards, keeping every answer.
func Back(state FlowState) (FlowState, Transition) {
	next := FlowState{Step: state.Step, Answers: state.Answers.Clone()}
	if next.Step <= StepMaritalStatus {
		next.Step = StepMaritalStatus
		return next, TransitionStayed
	}
	if next.Step > StepContactDetails {
		next.Step = StepContactDetails
		return next, TransitionWentBack
	}
	next.Step--
	return next, TransitionWentBack
}

// Reset discards all answers, as after a successful submission.
func Reset() FlowState {
	return NewFlow()
}
