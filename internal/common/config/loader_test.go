package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taxrefund-workers/internal/questionnaire"
)

// notifications stays last so tests can append channel blocks to it.
const baseYAML = `
camunda:
  broker_address: zeebe:26500
redis:
  address: redis:6379
workers:
  submit-lead:
    enabled: true
notifications:
  aws_region: il-central-1
  email:
    from_email: leads@example.co.il
    recipients: [sales@example.co.il]
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadFromFile_Defaults(t *testing.T) {
	cfg, err := LoadFromFile(writeConfig(t, baseYAML))
	require.NoError(t, err)

	assert.Equal(t, "taxrefund-workers", cfg.App.Name)
	assert.Equal(t, 10, cfg.Camunda.MaxJobsActive)
	assert.Equal(t, 30000, cfg.Redis.LockTTL)
	assert.Equal(t, "taxrefund:submit:", cfg.Redis.LockPrefix)
	assert.Equal(t, questionnaire.DefaultPolicy, cfg.Questionnaire)
	assert.True(t, cfg.Notifications.Email.Enabled)
	assert.Equal(t, "veryStrong", cfg.Notifications.SMS.MinTier)
	assert.Equal(t, ":8080", cfg.Metrics.Address)

	w := cfg.Workers["submit-lead"]
	assert.True(t, w.Enabled)
	assert.Equal(t, 5, w.MaxJobsActive)
	assert.Equal(t, 30000, w.Timeout)
}

func TestLoadFromFile_LenientPolicy(t *testing.T) {
	cfg, err := LoadFromFile(writeConfig(t, baseYAML+`
questionnaire:
  employment_gate: lenient
  ask_severance_pay: false
`))
	require.NoError(t, err)

	assert.Equal(t, questionnaire.EmploymentGateLenient, cfg.Questionnaire.EmploymentGate)
	assert.False(t, cfg.Questionnaire.AskSeverancePay)
}

func TestLoadFromFile_UnknownGateFallsBackToStrict(t *testing.T) {
	cfg, err := LoadFromFile(writeConfig(t, baseYAML+`
questionnaire:
  employment_gate: relaxed
`))
	require.NoError(t, err)

	assert.Equal(t, questionnaire.EmploymentGateStrict, cfg.Questionnaire.EmploymentGate)
}

func TestLoadFromFile_ExpandsEnvPlaceholders(t *testing.T) {
	t.Setenv("TEST_SALES_PHONE", "+972501112222")

	cfg, err := LoadFromFile(writeConfig(t, baseYAML+`
  sms:
    enabled: true
    sales_phone: ${TEST_SALES_PHONE}
`))
	require.NoError(t, err)

	assert.Equal(t, "+972501112222", cfg.Notifications.SMS.SalesPhone)
}

func TestLoadFromFile_Validation(t *testing.T) {
	tests := []struct {
		name        string
		yaml        string
		expectedErr string
	}{
		{
			name:        "missing broker",
			yaml:        "redis:\n  address: redis:6379\n",
			expectedErr: "camunda.broker_address is required",
		},
		{
			name:        "missing redis",
			yaml:        "camunda:\n  broker_address: zeebe:26500\n",
			expectedErr: "redis.address is required",
		},
		{
			name: "email without recipients",
			yaml: `
camunda:
  broker_address: zeebe:26500
redis:
  address: redis:6379
notifications:
  aws_region: il-central-1
  email:
    from_email: leads@example.co.il
`,
			expectedErr: "notifications.email.recipients is required",
		},
		{
			name: "no channel enabled",
			yaml: `
camunda:
  broker_address: zeebe:26500
redis:
  address: redis:6379
notifications:
  email:
    enabled: false
`,
			expectedErr: "at least one of notifications.email or notifications.webhook must be enabled",
		},
		{
			name: "webhook without url",
			yaml: `
camunda:
  broker_address: zeebe:26500
redis:
  address: redis:6379
notifications:
  email:
    enabled: false
  webhook:
    enabled: true
`,
			expectedErr: "notifications.webhook.url is required",
		},
		{
			name: "sms with bad tier",
			yaml: baseYAML + `
  sms:
    enabled: true
    sales_phone: "+972500000000"
    min_tier: excellent
`,
			expectedErr: `notifications.sms.min_tier "excellent" is not a tier`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("LEAD_WEBHOOK_URL", "")
			t.Setenv("LEAD_EMAIL_RECIPIENTS", "")

			_, err := LoadFromFile(writeConfig(t, tt.yaml))

			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.expectedErr)
		})
	}
}

func TestGetWorkerConfig_Fallback(t *testing.T) {
	cfg := &Config{Workers: map[string]WorkerConfig{"calculate-lead-score": {Enabled: false}}}

	assert.False(t, IsWorkerEnabled(cfg, "calculate-lead-score"))
	assert.True(t, IsWorkerEnabled(cfg, "submit-lead"))
	assert.Equal(t, 5, GetWorkerConfig(cfg, "submit-lead").MaxJobsActive)
}
