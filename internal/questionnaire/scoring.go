package questionnaire

import "fmt"

// Tier is the lead-quality bucket derived from the total score.
type Tier string

const (
	TierVeryStrong Tier = "veryStrong"
	TierStrong     Tier = "strong"
	TierMedium     Tier = "medium"
	TierWeak       Tier = "weak"
)

// Point values of the scoring table.
const (
	PointsMarried          = 3
	PointsOtherMarital     = 2
	PointsEmployed         = 5
	PointsBothEmployed     = 3
	PointsIncomeAbove7000  = 5
	PointsSeverancePay     = 2
	PointsJobChanged       = 4
	PointsJobSame          = 2
	PointsPerCriterion     = 3
	veryStrongTierMinScore = 30
	strongTierMinScore     = 20
	mediumTierMinScore     = 15
)

// Contribution is one line of the score breakdown.
type Contribution struct {
	Field  string `json:"field"`
	Value  string `json:"value"`
	Label  string `json:"label"`
	Points int    `json:"points"`
}

func (c Contribution) String() string {
	return fmt.Sprintf("%s: %d נקודות", c.Label, c.Points)
}

// ScoreResult is recomputed from scratch on every call to Score.
type ScoreResult struct {
	TotalScore int            `json:"totalScore"`
	Tier       Tier           `json:"tier"`
	Breakdown  []Contribution `json:"breakdown"`
}

// Score evaluates the scoring table under the canonical policy.
func Score(answers AnswerSet) ScoreResult {
	return DefaultPolicy.Score(answers)
}

// Score evaluates the scoring table over the answers. Unset and unrecognized
// values contribute nothing and are left out of the breakdown. The severance
// answer only counts when the policy asks for it.
func (p Policy) Score(answers AnswerSet) ScoreResult {
	var breakdown []Contribution
	add := func(field, value, label string, points int) {
		breakdown = append(breakdown, Contribution{Field: field, Value: value, Label: label, Points: points})
	}

	switch {
	case answers.MaritalStatus == MaritalMarried:
		add("maritalStatus", string(answers.MaritalStatus), "נשוי/אה", PointsMarried)
	case answers.MaritalStatus.Valid():
		add("maritalStatus", string(answers.MaritalStatus), "רווק/ה / גרוש/ה / אלמן/ה", PointsOtherMarital)
	}

	switch answers.EmploymentStatus {
	case EmploymentEmployed:
		add("employmentStatus", string(answers.EmploymentStatus), "שכיר", PointsEmployed)
	case EmploymentBoth:
		add("employmentStatus", string(answers.EmploymentStatus), "שכיר + עצמאי", PointsBothEmployed)
	}

	if answers.Income == IncomeAbove7000 {
		add("income", string(answers.Income), `הכנסה מעל 7,000 ש"ח`, PointsIncomeAbove7000)
	}

	if p.AskSeverancePay && answers.SeverancePayWithdrawn != nil && *answers.SeverancePayWithdrawn {
		add("severancePayWithdrawn", "yes", "משיכת כספי פיצויים/פנסיה", PointsSeverancePay)
	}

	switch answers.JobHistory {
	case JobHistoryChanged:
		add("jobHistory", string(answers.JobHistory), "החלפת עבודה", PointsJobChanged)
	case JobHistorySame:
		add("jobHistory", string(answers.JobHistory), "לא החליף עבודה", PointsJobSame)
	}

	for _, c := range answers.RecognizedCriteria() {
		add("additionalCriteria", string(c), c.Label(), PointsPerCriterion)
	}

	total := 0
	for _, c := range breakdown {
		total += c.Points
	}

	if breakdown == nil {
		breakdown = []Contribution{}
	}

	return ScoreResult{
		TotalScore: total,
		Tier:       ClassifyTier(total),
		Breakdown:  breakdown,
	}
}

// ClassifyTier maps a total score onto its tier, highest threshold first.
func ClassifyTier(score int) Tier {
	switch {
	case score >= veryStrongTierMinScore:
		return TierVeryStrong
	case score >= strongTierMinScore:
		return TierStrong
	case score >= mediumTierMinScore:
		return TierMedium
	default:
		return TierWeak
	}
}

var tierRank = map[Tier]int{
	TierWeak:       1,
	TierMedium:     2,
	TierStrong:     3,
	TierVeryStrong: 4,
}

// AtLeast reports whether t ranks at or above min. Unknown tiers rank below weak.
func (t Tier) AtLeast(min Tier) bool {
	return tierRank[t] >= tierRank[min]
}

func (t Tier) Valid() bool {
	_, ok := tierRank[t]
	return ok
}
