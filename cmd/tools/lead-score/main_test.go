package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taxrefund-workers/internal/questionnaire"
)

const answersYAML = `
maritalStatus: married
employmentStatus: employed
income: above7000
severancePayWithdrawn: false
jobHistory: changed
additionalCriteria: [securities, donations, mystery]
personalDetails:
  firstName: דנה
  lastName: כהן
  idNumber: "123456782"
  birthDate: "1985-03-12"
  address: הרצל 1
  phone: "0501234567"
  email: dana@example.com
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestLoadAnswers_YAMLAndJSON(t *testing.T) {
	fromYAML, err := loadAnswers(writeFile(t, "answers.yaml", answersYAML))
	require.NoError(t, err)

	data, err := json.Marshal(fromYAML)
	require.NoError(t, err)
	fromJSON, err := loadAnswers(writeFile(t, "answers.JSON", string(data)))
	require.NoError(t, err)

	assert.Equal(t, fromYAML, fromJSON)
	assert.Equal(t, questionnaire.MaritalMarried, fromYAML.MaritalStatus)
	assert.Equal(t, "123456782", fromYAML.ContactDetails.NationalID)
	require.NotNil(t, fromYAML.SeverancePayWithdrawn)
}

func TestRootCmd_JSONReport(t *testing.T) {
	out, err := run(t, writeFile(t, "answers.yaml", answersYAML), "--json", "--summary")
	require.NoError(t, err)

	var r fullReport
	require.NoError(t, json.Unmarshal([]byte(out), &r))

	assert.Equal(t, 23, r.Score.TotalScore)
	assert.Equal(t, questionnaire.TierStrong, r.Score.Tier)
	require.Len(t, r.Gates, 2)
	assert.False(t, r.Gates[0].Blocked)
	assert.False(t, r.Gates[1].Blocked)
	require.Len(t, r.Steps, questionnaire.StepCount)
	for _, s := range r.Steps {
		assert.True(t, s.Complete, s.Name)
	}
	require.NotNil(t, r.Summary)
	assert.Equal(t, questionnaire.SummarySubject, r.Summary.Subject)
}

func TestRootCmd_Tables(t *testing.T) {
	out, err := run(t, writeFile(t, "answers.yaml", "employmentStatus: notEmployed\n"))
	require.NoError(t, err)

	assert.Contains(t, out, "Score")
	assert.Contains(t, out, "neverEmployed")
	assert.Contains(t, out, "MISSING_REQUIRED")
}

func TestRootCmd_LenientGate(t *testing.T) {
	out, err := run(t, writeFile(t, "answers.yaml", "employmentStatus: unemployed\n"), "--json", "--employment-gate", "lenient")
	require.NoError(t, err)

	var r fullReport
	require.NoError(t, json.Unmarshal([]byte(out), &r))
	assert.False(t, r.Gates[0].Blocked)
	assert.Equal(t, questionnaire.EmploymentGateLenient, r.Policy.EmploymentGate)
}

func TestRootCmd_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{name: "missing file", args: []string{filepath.Join(t.TempDir(), "nope.yaml")}},
		{name: "bad gate", args: []string{writeFile(t, "a.yaml", "income: below7000\n"), "--employment-gate", "relaxed"}},
		{name: "bad json", args: []string{writeFile(t, "a.json", "{")}},
		{name: "no args", args: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, tt.args...)
			assert.Error(t, err)
		})
	}
}

func TestCriteriaCmd(t *testing.T) {
	out, err := run(t, "criteria")
	require.NoError(t, err)

	for _, c := range questionnaire.CriteriaVocabulary {
		assert.Contains(t, out, string(c))
	}
}
