package questionnaire

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"
	"time"
)

// SummarySubject is the subject line of every lead notification.
const SummarySubject = "ליד חדש מטופס החזרי מס"

// Summary is the human-readable lead message handed to the notifier.
type Summary struct {
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

type summaryView struct {
	FullName   string
	Phone      string
	Email      string
	NationalID string
	BirthDate  string
	Address    string
	Marital    string
	Employment string
	Income     string
	Severance  string
	JobChanged string
	Criteria   []string
	Score      int
	Tier       string
	Breakdown  []string
}

var summaryTemplate = template.Must(template.New("summary").Parse(`שם מלא: {{.FullName}}
טלפון: {{.Phone}}
אימייל: {{.Email}}
תעודת זהות: {{.NationalID}}
תאריך לידה: {{.BirthDate}}
כתובת: {{.Address}}

מצב משפחתי: {{.Marital}}
סטטוס תעסוקה: {{.Employment}}
הכנסה חודשית: {{.Income}}
{{- if .Severance}}
קיבל פיצויים: {{.Severance}}{{end}}
החליף עבודה: {{.JobChanged}}

קריטריונים נוספים:
{{- if .Criteria}}{{range .Criteria}}
- {{.}}{{end}}{{else}}
אין{{end}}

ציון: {{.Score}}
איכות הליד: {{.Tier}}

פירוט הניקוד:
{{- range .Breakdown}}
{{.}}{{end}}
`))

// FormatSummary renders the lead message for a finished questionnaire.
func FormatSummary(answers AnswerSet, result ScoreResult) Summary {
	c := answers.ContactDetails
	view := summaryView{
		FullName:   c.FullName(),
		Phone:      strings.TrimSpace(c.Phone),
		Email:      strings.TrimSpace(c.Email),
		NationalID: strings.TrimSpace(c.NationalID),
		BirthDate:  formatBirthDate(c.BirthDate),
		Address:    strings.TrimSpace(c.Address),
		Marital:    answers.MaritalStatus.Label(),
		Employment: employmentSummaryLabel(answers.EmploymentStatus),
		Income:     answers.Income.Label(),
		Severance:  yesNoLabel(answers.SeverancePayWithdrawn),
		JobChanged: jobChangedLabel(answers.JobHistory),
		Score:      result.TotalScore,
		Tier:       result.Tier.Label(),
	}
	for _, cr := range answers.RecognizedCriteria() {
		view.Criteria = append(view.Criteria, cr.Label())
	}
	for _, line := range result.Breakdown {
		view.Breakdown = append(view.Breakdown, line.String())
	}

	var buf bytes.Buffer
	if err := summaryTemplate.Execute(&buf, view); err != nil {
		// the template only reads plain fields of summaryView
		buf.WriteString(fmt.Sprintf("summary render failed: %v", err))
	}
	return Summary{Subject: SummarySubject, Body: buf.String()}
}

// formatBirthDate renders YYYY-MM-DD as d.m.yyyy, leaving bad input untouched.
func formatBirthDate(value string) string {
	value = strings.TrimSpace(value)
	t, err := time.Parse(BirthDateLayout, value)
	if err != nil {
		return value
	}
	return fmt.Sprintf("%d.%d.%d", t.Day(), int(t.Month()), t.Year())
}

func employmentSummaryLabel(e EmploymentStatus) string {
	if l := e.Label(); l != "" {
		return l
	}
	return employmentLabels[EmploymentUnemployed]
}

func jobChangedLabel(j JobHistory) string {
	if j == JobHistoryChanged {
		return "כן"
	}
	return "לא"
}
