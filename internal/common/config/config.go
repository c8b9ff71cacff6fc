package config

import "taxrefund-workers/internal/questionnaire"

// Config is the main application configuration struct.
type Config struct {
	App           AppConfig               `mapstructure:"app"`
	Camunda       CamundaConfig           `mapstructure:"camunda"`
	Redis         RedisConfig             `mapstructure:"redis"`
	Workers       map[string]WorkerConfig `mapstructure:"workers"`
	Logging       LoggingConfig           `mapstructure:"logging"`
	Questionnaire questionnaire.Policy    `mapstructure:"questionnaire"`
	Notifications NotificationConfig      `mapstructure:"notifications"`
	Metrics       MetricsConfig           `mapstructure:"metrics"`

	// EnvFile is the .env file that was loaded, if any.
	EnvFile string `mapstructure:"-"`
}

// --- Core App/Infrastructure Config ---
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

type CamundaConfig struct {
	BrokerAddress  string `mapstructure:"broker_address"`
	UsePlaintext   bool   `mapstructure:"use_plaintext"`
	MaxJobsActive  int    `mapstructure:"max_jobs_active"`
	Timeout        int    `mapstructure:"timeout"`         // milliseconds
	RequestTimeout int    `mapstructure:"request_timeout"` // milliseconds
}

// RedisConfig also carries the submission lock settings.
type RedisConfig struct {
	Address    string `mapstructure:"address"`
	Password   string `mapstructure:"password"`
	DB         int    `mapstructure:"db"`
	LockTTL    int    `mapstructure:"lock_ttl"` // milliseconds
	LockPrefix string `mapstructure:"lock_prefix"`
}

// WorkerConfig holds the core settings applicable to every worker.
type WorkerConfig struct {
	Enabled       bool `mapstructure:"enabled"`
	MaxJobsActive int  `mapstructure:"max_jobs_active"`
	Timeout       int  `mapstructure:"timeout"`     // milliseconds
	MaxRetries    int  `mapstructure:"max_retries"` // For error handling
}

// --- Notification channels used by submit-lead ---

type NotificationConfig struct {
	AWSRegion string        `mapstructure:"aws_region"`
	Email     EmailConfig   `mapstructure:"email"`
	SMS       SMSConfig     `mapstructure:"sms"`
	Webhook   WebhookConfig `mapstructure:"webhook"`
}

// EmailConfig sends the lead summary through SES.
type EmailConfig struct {
	Enabled    bool     `mapstructure:"enabled"`
	FromEmail  string   `mapstructure:"from_email"`
	Recipients []string `mapstructure:"recipients"`
	// ReplyToApplicant sets Reply-To to the applicant's address.
	ReplyToApplicant bool `mapstructure:"reply_to_applicant"`
}

// SMSConfig alerts the sales phone through SNS for top tier leads.
type SMSConfig struct {
	Enabled    bool   `mapstructure:"enabled"`
	SalesPhone string `mapstructure:"sales_phone"`
	SenderID   string `mapstructure:"sender_id"`
	MinTier    string `mapstructure:"min_tier"`
}

// WebhookConfig posts the lead to an EmailJS style endpoint.
type WebhookConfig struct {
	Enabled    bool   `mapstructure:"enabled"`
	URL        string `mapstructure:"url"`
	ServiceID  string `mapstructure:"service_id"`
	TemplateID string `mapstructure:"template_id"`
	UserID     string `mapstructure:"user_id"`
	Timeout    int    `mapstructure:"timeout"` // milliseconds
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}

type MetricsConfig struct {
	Enabled     bool   `mapstructure:"enabled"`
	Address     string `mapstructure:"address"`
	ServiceName string `mapstructure:"service_name"`
}
