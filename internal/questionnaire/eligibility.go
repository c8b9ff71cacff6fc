package questionnaire

// BlockReason explains why the flow cannot continue.
type BlockReason string

const (
	BlockNone             BlockReason = "none"
	BlockSelfEmployedOnly BlockReason = "selfEmployedOnly"
	BlockNeverEmployed    BlockReason = "neverEmployed"
	BlockNotEligible      BlockReason = "notEligible"
)

// EmploymentGate selects how strictly the employment answer gates the flow.
type EmploymentGate string

const (
	// EmploymentGateStrict blocks self-employed-only and unemployed applicants.
	EmploymentGateStrict EmploymentGate = "strict"
	// EmploymentGateLenient blocks only self-employed-only applicants.
	EmploymentGateLenient EmploymentGate = "lenient"
)

// Policy is the flow variant in force. DefaultPolicy is the canonical one.
type Policy struct {
	EmploymentGate  EmploymentGate `mapstructure:"employment_gate" json:"employmentGate"`
	AskSeverancePay bool           `mapstructure:"ask_severance_pay" json:"askSeverancePay"`
}

// DefaultPolicy is the strict employment gate with the severance question asked.
var DefaultPolicy = Policy{
	EmploymentGate:  EmploymentGateStrict,
	AskSeverancePay: true,
}

// GateResult is the verdict of the employment gate.
type GateResult struct {
	Blocked bool        `json:"blocked"`
	Reason  BlockReason `json:"reason"`
}

// qualifyingLowIncomeCriteria may make a below-7000 applicant eligible.
var qualifyingLowIncomeCriteria = map[Criterion]bool{
	CriterionPensionWithdrawal: true,
	CriterionUnemployment:      true,
	CriterionPropertyTax:       true,
	CriterionSecurities:        true,
	CriterionRentalIncome:      true,
	CriterionOver60:            true,
}

// IsQualifyingLowIncomeCriterion reports whether c belongs to the restricted
// subset honored for below-7000 incomes.
func IsQualifyingLowIncomeCriterion(c Criterion) bool {
	return qualifyingLowIncomeCriteria[c]
}

// IsEligible decides whether the applicant may continue to the contact step.
// Rules apply in priority order: a job change always qualifies; a low income
// needs a qualifying criterion; a high income needs any criterion.
func IsEligible(answers AnswerSet) bool {
	if answers.JobHistory == JobHistoryChanged {
		return true
	}

	criteria := answers.RecognizedCriteria()
	switch answers.Income {
	case IncomeBelow7000:
		for _, c := range criteria {
			if qualifyingLowIncomeCriteria[c] {
				return true
			}
		}
		return false
	case IncomeAbove7000:
		return len(criteria) > 0
	default:
		return false
	}
}

// EmploymentBlocksProgress applies the canonical strict employment gate.
func EmploymentBlocksProgress(status EmploymentStatus) GateResult {
	return DefaultPolicy.EmploymentBlocksProgress(status)
}

// EmploymentBlocksProgress applies the policy's employment gate.
func (p Policy) EmploymentBlocksProgress(status EmploymentStatus) GateResult {
	switch normalizeEmployment(status) {
	case EmploymentSelfEmployed:
		return GateResult{Blocked: true, Reason: BlockSelfEmployedOnly}
	case EmploymentUnemployed:
		if p.EmploymentGate != EmploymentGateLenient {
			return GateResult{Blocked: true, Reason: BlockNeverEmployed}
		}
	}
	return GateResult{Blocked: false, Reason: BlockNone}
}

// Normalize maps an empty or unknown gate to strict.
func (p Policy) Normalize() Policy {
	if p.EmploymentGate != EmploymentGateLenient {
		p.EmploymentGate = EmploymentGateStrict
	}
	return p
}

// BlockMessage is the user-facing text shown when the flow is blocked.
func BlockMessage(reason BlockReason) string {
	switch reason {
	case BlockSelfEmployedOnly:
		return "אם עבדת כעצמאי בלבד סימן שאתה מחוייב בהגשת דוחות שנתיים. אין באפשרותנו לבצע עבורך החזר מס"
	case BlockNeverEmployed:
		return "במידה ולא עבדת כלל לא נוכה לך מס ולכן אין באפשרותנו לבצע החזר מס"
	case BlockNotEligible:
		return "לא ניתן להתקדם מכיוון שאין זכאות להחזר מס"
	default:
		return ""
	}
}
