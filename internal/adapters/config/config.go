package config

import (
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"minerva/pkg/errors"
)

type Config struct {
	App           AppConfig
	AI            AIConfig
	Analysis      AnalysisConfig
	ErrorTracking ErrorTrackingConfig
	Metrics       MetricsConfig
}

type AppConfig struct {
	Name     string `envconfig:"APP_NAME" default:"minerva"`
	Env      string `envconfig:"APP_ENV" default:"development"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
	Debug    bool   `envconfig:"DEBUG" default:"false"`
}

type AIConfig struct {
	OpenAIKey     string        `envconfig:"OPENAI_API_KEY"`
	Model         string        `envconfig:"OPENAI_MODEL" default:"gpt-4o"`
	MaxTokens     int           `envconfig:"OPENAI_MAX_TOKENS" default:"4096"`
	Temperature   float64       `envconfig:"OPENAI_TEMPERATURE" default:"0.2"`
	Timeout       time.Duration `envconfig:"OPENAI_TIMEOUT" default:"120s"`
	ReqPerMinute  int           `envconfig:"OPENAI_REQ_PER_MINUTE" default:"500"`
	MaxIterations int           `envconfig:"AGENT_MAX_ITERATIONS" default:"20"`
}

type AnalysisConfig struct {
	// WorkDir holds uploaded datasets and generated artifacts for a session.
	WorkDir string `envconfig:"ANALYSIS_WORK_DIR" default:"./workdir"`

	// RulesetPath points at the classification rule-set YAML.
	// A missing file disables class cleaning but is not fatal.
	RulesetPath string `envconfig:"ANALYSIS_RULESET_PATH" default:"./configs/class_rules.yaml"`

	RscriptBin    string        `envconfig:"RSCRIPT_BIN" default:"Rscript"`
	ScriptDir     string        `envconfig:"ANALYSIS_SCRIPT_DIR" default:"./scripts/r"`
	ScriptTimeout time.Duration `envconfig:"ANALYSIS_SCRIPT_TIMEOUT" default:"60s"`
}

type ErrorTrackingConfig struct {
	Enabled     bool   `envconfig:"ERROR_TRACKING_ENABLED" default:"false"`
	SentryDSN   string `envconfig:"SENTRY_DSN"`
	Environment string `envconfig:"SENTRY_ENVIRONMENT" default:"production"`
}

type MetricsConfig struct {
	Enabled bool   `envconfig:"METRICS_ENABLED" default:"false"`
	Addr    string `envconfig:"METRICS_ADDR" default:":9090"`
}

func Load() (*Config, error) {
	// Load .env file if exists (ignore error if not exists)
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, errors.Wrap(err, "failed to process env config")
	}

	return &cfg, nil
}

// Validate checks settings that cannot be expressed as envconfig tags.
func (c *Config) Validate() error {
	if c.AI.MaxIterations <= 0 {
		return errors.NewValidationError("AGENT_MAX_ITERATIONS", "must be positive", c.AI.MaxIterations)
	}
	if c.Analysis.WorkDir == "" {
		return errors.NewValidationError("ANALYSIS_WORK_DIR", "must not be empty", c.Analysis.WorkDir)
	}
	return nil
}
