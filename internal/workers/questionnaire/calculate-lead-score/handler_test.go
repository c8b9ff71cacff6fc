// internal/workers/questionnaire/calculate-lead-score/handler_test.go
package calculateleadscore

import (
	"context"
	"testing"
	"time"

	"taxrefund-workers/internal/common/config"
	"taxrefund-workers/internal/common/errors"
	"taxrefund-workers/internal/common/logger"
	"taxrefund-workers/internal/common/metrics"
	"taxrefund-workers/internal/questionnaire"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHandler(t *testing.T) *Handler {
	return NewHandler(&Config{Timeout: 5 * time.Second, Policy: questionnaire.DefaultPolicy}, logger.NewTestLogger(t))
}

func TestHandler_Execute(t *testing.T) {
	tests := []struct {
		name          string
		answers       questionnaire.AnswerSet
		expectedScore int
		expectedTier  questionnaire.Tier
		expectedLines int
	}{
		{
			name: "full strong lead",
			answers: questionnaire.AnswerSet{
				MaritalStatus:    questionnaire.MaritalMarried,
				EmploymentStatus: questionnaire.EmploymentEmployed,
				Income:           questionnaire.IncomeAbove7000,
				JobHistory:       questionnaire.JobHistoryChanged,
				AdditionalCriteria: []questionnaire.Criterion{
					questionnaire.CriterionSecurities,
					questionnaire.CriterionDonations,
				},
			},
			expectedScore: 23,
			expectedTier:  questionnaire.TierStrong,
			expectedLines: 6,
		},
		{
			name: "low income weak lead",
			answers: questionnaire.AnswerSet{
				MaritalStatus:    questionnaire.MaritalSingle,
				EmploymentStatus: questionnaire.EmploymentBoth,
				Income:           questionnaire.IncomeBelow7000,
				JobHistory:       questionnaire.JobHistorySame,
			},
			expectedScore: 7,
			expectedTier:  questionnaire.TierWeak,
			expectedLines: 3,
		},
		{
			name:          "empty answers",
			answers:       questionnaire.AnswerSet{},
			expectedScore: 0,
			expectedTier:  questionnaire.TierWeak,
			expectedLines: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestHandler(t)

			output, err := h.Execute(context.Background(), &Input{Answers: tt.answers})

			require.NoError(t, err)
			assert.Equal(t, tt.expectedScore, output.TotalScore)
			assert.Equal(t, tt.expectedTier, output.Tier)
			assert.Equal(t, tt.expectedTier.Label(), output.TierLabel)
			assert.Len(t, output.Breakdown, tt.expectedLines)
			assert.NotNil(t, output.Breakdown)
		})
	}
}

func TestHandler_Execute_RecordsTier(t *testing.T) {
	h := newTestHandler(t)
	before := testutil.ToFloat64(metrics.LeadTiers.WithLabelValues(string(questionnaire.TierWeak)))

	_, err := h.Execute(context.Background(), &Input{})
	require.NoError(t, err)

	assert.Equal(t, before+1, testutil.ToFloat64(metrics.LeadTiers.WithLabelValues(string(questionnaire.TierWeak))))
}

func TestParseInput(t *testing.T) {
	input, err := parseInput(`{"answers":{"maritalStatus":"married","employmentStatus":"notEmployed"}}`)
	require.NoError(t, err)
	assert.Equal(t, questionnaire.MaritalMarried, input.Answers.MaritalStatus)
	assert.Equal(t, questionnaire.EmploymentUnemployed, input.Answers.EmploymentStatus)

	_, err = parseInput(`{"answers":`)
	require.Error(t, err)
	stdErr, ok := errors.AsStandardError(err)
	require.True(t, ok)
	assert.Equal(t, errors.ErrCodeParseError, stdErr.Code)
}

func TestHandler_Execute_SeveranceFollowsPolicy(t *testing.T) {
	answers := questionnaire.AnswerSet{
		MaritalStatus:         questionnaire.MaritalSingle,
		SeverancePayWithdrawn: questionnaire.Bool(true),
	}

	asked, err := newTestHandler(t).Execute(context.Background(), &Input{Answers: answers})
	require.NoError(t, err)
	assert.Equal(t, 4, asked.TotalScore)

	notAsked := NewHandler(&Config{
		Timeout: 5 * time.Second,
		Policy:  questionnaire.Policy{EmploymentGate: questionnaire.EmploymentGateStrict, AskSeverancePay: false},
	}, logger.NewTestLogger(t))
	output, err := notAsked.Execute(context.Background(), &Input{Answers: answers})
	require.NoError(t, err)
	assert.Equal(t, 2, output.TotalScore)
	assert.Len(t, output.Breakdown, 1)
}

func TestLoadConfig(t *testing.T) {
	assert.Equal(t, 10*time.Second, LoadConfig(nil).Timeout)
	assert.Equal(t, questionnaire.DefaultPolicy, LoadConfig(nil).Policy)

	appCfg := &config.Config{Workers: map[string]config.WorkerConfig{
		TaskType: {Enabled: true, Timeout: 4000},
	}}
	assert.Equal(t, 4*time.Second, LoadConfig(appCfg).Timeout)
}
