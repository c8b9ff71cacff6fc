// internal/workers/questionnaire/calculate-lead-score/config.go
package calculateleadscore

import (
	"time"

	"taxrefund-workers/internal/common/config"
	"taxrefund-workers/internal/questionnaire"
)

type Config struct {
	Timeout time.Duration
	Policy  questionnaire.Policy
}

func LoadConfig(appCfg *config.Config) *Config {
	cfg := &Config{
		Timeout: 10 * time.Second,
		Policy:  questionnaire.DefaultPolicy,
	}
	if appCfg != nil {
		cfg.Policy = appCfg.Questionnaire.Normalize()
		if wcfg := config.GetWorkerConfig(appCfg, TaskType); wcfg.Timeout > 0 {
			cfg.Timeout = config.GetDuration(wcfg.Timeout)
		}
	}
	return cfg
}
