package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"taxrefund-workers/internal/questionnaire"
)

// Load reads configs/config.yaml, merges config.<APP_ENVIRONMENT>.yaml over it
// and lets environment variables override any key (camunda.broker_address ->
// CAMUNDA_BROKER_ADDRESS).
func Load() (*Config, error) {
	envFile := loadEnvFile()

	v := newViper()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./configs")
	v.AddConfigPath("../../configs")
	v.AddConfigPath(".")

	env := os.Getenv("APP_ENVIRONMENT")
	if env == "" {
		env = "development"
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading base config: %w", err)
		}
	}

	v.SetConfigName(fmt.Sprintf("config.%s", env))
	_ = v.MergeInConfig()

	cfg, err := finish(v)
	if err != nil {
		return nil, err
	}
	cfg.EnvFile = envFile
	return cfg, nil
}

// LoadFromFile loads configuration from a specific file path.
func LoadFromFile(path string) (*Config, error) {
	envFile := loadEnvFile()

	v := newViper()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	cfg, err := finish(v)
	if err != nil {
		return nil, err
	}
	cfg.EnvFile = envFile
	return cfg, nil
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	v.SetDefault("questionnaire.employment_gate", string(questionnaire.EmploymentGateStrict))
	v.SetDefault("questionnaire.ask_severance_pay", true)
	v.SetDefault("notifications.email.enabled", true)
	v.SetDefault("metrics.enabled", true)
	return v
}

func finish(v *viper.Viper) (*Config, error) {
	expandEnvVars(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyDefaults(&cfg)
	overrideEmptyConfig(&cfg)

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// loadEnvFile loads the first .env found walking from the working directory
// up to the module root and returns its path.
func loadEnvFile() string {
	possiblePaths := []string{
		".env",
		"../.env",
		"../../.env",
		"../../../.env",
	}
	if rootDir := findProjectRoot(); rootDir != "" {
		possiblePaths = append(possiblePaths, filepath.Join(rootDir, ".env"))
	}

	for _, path := range possiblePaths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Load(path); err == nil {
				return path
			}
		}
	}
	return ""
}

func findProjectRoot() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

// expandEnvVars resolves ${VAR} placeholders left in string values.
func expandEnvVars(v *viper.Viper) {
	for _, key := range v.AllKeys() {
		strVal, ok := v.Get(key).(string)
		if !ok {
			continue
		}
		if strings.Contains(strVal, "${") || (strings.HasPrefix(strVal, "$") && len(strVal) > 1) {
			// unset variables expand to "" so overrideEmptyConfig can fill them
			v.Set(key, os.ExpandEnv(strVal))
		}
	}
}

// overrideEmptyConfig fills secrets and endpoints from their conventional
// environment names when the config file leaves them empty.
func overrideEmptyConfig(cfg *Config) {
	setIfEmpty(&cfg.Notifications.AWSRegion, "AWS_REGION")
	setIfEmpty(&cfg.Notifications.Email.FromEmail, "LEAD_EMAIL_FROM")
	setIfEmpty(&cfg.Notifications.SMS.SalesPhone, "LEAD_SALES_PHONE")
	setIfEmpty(&cfg.Notifications.Webhook.URL, "LEAD_WEBHOOK_URL")
	setIfEmpty(&cfg.Notifications.Webhook.UserID, "LEAD_WEBHOOK_USER_ID")
	setIfEmpty(&cfg.Redis.Password, "REDIS_PASSWORD")

	if len(cfg.Notifications.Email.Recipients) == 0 {
		if val := os.Getenv("LEAD_EMAIL_RECIPIENTS"); val != "" {
			for _, r := range strings.Split(val, ",") {
				if r = strings.TrimSpace(r); r != "" {
					cfg.Notifications.Email.Recipients = append(cfg.Notifications.Email.Recipients, r)
				}
			}
		}
	}
}

func setIfEmpty(target *string, envKey string) {
	if *target != "" {
		return
	}
	if val := os.Getenv(envKey); val != "" {
		*target = val
	}
}

// applyDefaults sets default values for optional configuration fields.
func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "taxrefund-workers"
	}

	if cfg.Camunda.MaxJobsActive == 0 {
		cfg.Camunda.MaxJobsActive = 10
	}
	if cfg.Camunda.Timeout == 0 {
		cfg.Camunda.Timeout = 30000
	}
	if cfg.Camunda.RequestTimeout == 0 {
		cfg.Camunda.RequestTimeout = 30000
	}

	if cfg.Redis.LockTTL == 0 {
		cfg.Redis.LockTTL = 30000
	}
	if cfg.Redis.LockPrefix == "" {
		cfg.Redis.LockPrefix = "taxrefund:submit:"
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}
	if cfg.Logging.Output == "" {
		cfg.Logging.Output = "stdout"
	}

	cfg.Questionnaire = cfg.Questionnaire.Normalize()

	if cfg.Notifications.SMS.MinTier == "" {
		cfg.Notifications.SMS.MinTier = string(questionnaire.TierVeryStrong)
	}
	if cfg.Notifications.Webhook.Timeout == 0 {
		cfg.Notifications.Webhook.Timeout = 10000
	}

	if cfg.Metrics.Address == "" {
		cfg.Metrics.Address = ":8080"
	}
	if cfg.Metrics.ServiceName == "" {
		cfg.Metrics.ServiceName = cfg.App.Name
	}

	for key, worker := range cfg.Workers {
		if worker.MaxJobsActive == 0 {
			worker.MaxJobsActive = 5
		}
		if worker.Timeout == 0 {
			worker.Timeout = 30000
		}
		if worker.MaxRetries == 0 {
			worker.MaxRetries = 3
		}
		cfg.Workers[key] = worker
	}
}

// validateConfig validates critical configuration fields.
func validateConfig(cfg *Config) error {
	if cfg.Camunda.BrokerAddress == "" {
		return fmt.Errorf("camunda.broker_address is required")
	}
	if cfg.Redis.Address == "" {
		return fmt.Errorf("redis.address is required")
	}

	n := cfg.Notifications
	if !n.Email.Enabled && !n.Webhook.Enabled {
		return fmt.Errorf("at least one of notifications.email or notifications.webhook must be enabled")
	}
	if n.Email.Enabled {
		if n.Email.FromEmail == "" {
			return fmt.Errorf("notifications.email.from_email is required")
		}
		if len(n.Email.Recipients) == 0 {
			return fmt.Errorf("notifications.email.recipients is required")
		}
	}
	if (n.Email.Enabled || n.SMS.Enabled) && n.AWSRegion == "" {
		return fmt.Errorf("notifications.aws_region is required for email and sms")
	}
	if n.SMS.Enabled {
		if n.SMS.SalesPhone == "" {
			return fmt.Errorf("notifications.sms.sales_phone is required")
		}
		if !questionnaire.Tier(n.SMS.MinTier).Valid() {
			return fmt.Errorf("notifications.sms.min_tier %q is not a tier", n.SMS.MinTier)
		}
	}
	if n.Webhook.Enabled && n.Webhook.URL == "" {
		return fmt.Errorf("notifications.webhook.url is required")
	}
	return nil
}

// GetDuration converts milliseconds from config to time.Duration.
func GetDuration(milliseconds int) time.Duration {
	return time.Duration(milliseconds) * time.Millisecond
}

// GetWorkerConfig retrieves worker-specific configuration with fallback to defaults.
func GetWorkerConfig(cfg *Config, workerName string) WorkerConfig {
	if worker, exists := cfg.Workers[workerName]; exists {
		return worker
	}
	return WorkerConfig{
		Enabled:       true,
		MaxJobsActive: 5,
		Timeout:       30000,
		MaxRetries:    3,
	}
}

// IsWorkerEnabled checks if a specific worker is enabled.
func IsWorkerEnabled(cfg *Config, workerName string) bool {
	if worker, exists := cfg.Workers[workerName]; exists {
		return worker.Enabled
	}
	return true
}
