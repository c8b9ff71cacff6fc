// internal/workers/questionnaire/submit-lead/config.go
package submitlead

import (
	"time"

	"taxrefund-workers/internal/common/config"
	"taxrefund-workers/internal/questionnaire"
)

type Config struct {
	Timeout       time.Duration
	Policy        questionnaire.Policy
	Notifications config.NotificationConfig
}

func LoadConfig(appCfg *config.Config) *Config {
	cfg := &Config{
		Timeout: 30 * time.Second,
		Policy:  questionnaire.DefaultPolicy,
	}
	if appCfg == nil {
		return cfg
	}

	cfg.Policy = appCfg.Questionnaire.Normalize()
	cfg.Notifications = appCfg.Notifications
	if wcfg := config.GetWorkerConfig(appCfg, TaskType); wcfg.Timeout > 0 {
		cfg.Timeout = config.GetDuration(wcfg.Timeout)
	}
	return cfg
}

// smsMinTier is the lowest tier that triggers the sales SMS.
func (c *Config) smsMinTier() questionnaire.Tier {
	if t := questionnaire.Tier(c.Notifications.SMS.MinTier); t.Valid() {
		return t
	}
	return questionnaire.TierVeryStrong
}
