package questionnaire

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatSummary(t *testing.T) {
	answers := AnswerSet{
		MaritalStatus:    MaritalMarried,
		EmploymentStatus: EmploymentEmployed,
		Income:           IncomeAbove7000,
		JobHistory:       JobHistoryChanged,
		ContactDetails:   validContact(),
	}.WithSeverancePay(true).WithCriteria(CriterionSecurities, "mystery")

	result := Score(answers)
	summary := FormatSummary(answers, result)

	assert.Equal(t, SummarySubject, summary.Subject)
	for _, want := range []string{
		"שם מלא: Dana Levi",
		"טלפון: 0501234567",
		"אימייל: dana@example.com",
		"תעודת זהות: 123456782",
		"תאריך לידה: 17.5.1990",
		"כתובת: Herzl 10, Tel Aviv",
		"מצב משפחתי: נשוי/אה",
		"סטטוס תעסוקה: שכיר",
		`הכנסה חודשית: מעל 7,000 ש"ח`,
		"קיבל פיצויים: כן",
		"החליף עבודה: כן",
		"- מסחר בניירות ערך",
		"ציון: 22",
		"איכות הליד: ליד איכותי",
		"נשוי/אה: 3 נקודות",
		"מסחר בניירות ערך: 3 נקודות",
	} {
		assert.Contains(t, summary.Body, want)
	}
	assert.NotContains(t, summary.Body, "mystery")
}

func TestFormatSummary_NoCriteriaAndNoSeveranceQuestion(t *testing.T) {
	answers := AnswerSet{
		MaritalStatus:    MaritalSingle,
		EmploymentStatus: EmploymentBoth,
		Income:           IncomeBelow7000,
		JobHistory:       JobHistorySame,
		ContactDetails:   validContact(),
	}

	summary := FormatSummary(answers, Score(answers))

	assert.Contains(t, summary.Body, "קריטריונים נוספים:\nאין")
	assert.NotContains(t, summary.Body, "קיבל פיצויים")
	assert.Contains(t, summary.Body, "החליף עבודה: לא")
	assert.True(t, strings.HasSuffix(summary.Body, "\n"))
}
