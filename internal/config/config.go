package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Port             string   `mapstructure:"PORT"`
	Env              string   `mapstructure:"ENV"`
	CORSOrigins      []string `mapstructure:"CORS_ORIGINS"`
	RateLimitRPS     float64  `mapstructure:"RATE_LIMIT_RPS"`
	RateLimitBurst   int      `mapstructure:"RATE_LIMIT_BURST"`
	RequestTimeoutMS int      `mapstructure:"REQUEST_TIMEOUT_MS"`
	NLPBaseURL       string   `mapstructure:"NLP_BASE_URL"`
	NLPAPIKey        string   `mapstructure:"NLP_API_KEY"`
	NLPTimeoutMS     int      `mapstructure:"NLP_TIMEOUT_MS"`
	NLPMinConfidence float64  `mapstructure:"NLP_MIN_CONFIDENCE"`
	PDFFontPath      string   `mapstructure:"PDF_FONT_PATH"`
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("PORT", "8080")
	v.SetDefault("ENV", "development")
	v.SetDefault("CORS_ORIGINS", "http://localhost:3000")
	v.SetDefault("RATE_LIMIT_RPS", 100)
	v.SetDefault("RATE_LIMIT_BURST", 200)
	v.SetDefault("REQUEST_TIMEOUT_MS", 30000)
	v.SetDefault("NLP_TIMEOUT_MS", 10000)
	v.SetDefault("NLP_MIN_CONFIDENCE", 0.5)

	// Bind env vars explicitly so Unmarshal picks them up
	v.BindEnv("PORT")
	v.BindEnv("ENV")
	v.BindEnv("CORS_ORIGINS")
	v.BindEnv("RATE_LIMIT_RPS")
	v.BindEnv("RATE_LIMIT_BURST")
	v.BindEnv("REQUEST_TIMEOUT_MS")
	v.BindEnv("NLP_BASE_URL")
	v.BindEnv("NLP_API_KEY")
	v.BindEnv("NLP_TIMEOUT_MS")
	v.BindEnv("NLP_MIN_CONFIDENCE")
	v.BindEnv("PDF_FONT_PATH")

	// Try reading .env file, but don't fail if missing
	_ = v.ReadInConfig()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if cfg.CORSOrigins == nil {
		origins := v.GetString("CORS_ORIGINS")
		if origins != "" {
			cfg.CORSOrigins = strings.Split(origins, ",")
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// NLPEnabled reports whether an entity extraction service is configured.
// When false the entities summary mode always uses the rule-table fallback.
func (c *Config) NLPEnabled() bool {
	return c.NLPBaseURL != ""
}

// NLPTimeout returns the configured NLP request timeout as a duration.
func (c *Config) NLPTimeout() time.Duration {
	return time.Duration(c.NLPTimeoutMS) * time.Millisecond
}

// RequestTimeout returns the per-request processing deadline of the API
// routes as a duration.
func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutMS) * time.Millisecond
}

// Validate checks that the configuration is internally consistent. Rate
// limits must be positive and the NLP confidence threshold must be a
// probability.
func (c *Config) Validate() error {
	if c.RateLimitRPS <= 0 {
		return fmt.Errorf("RATE_LIMIT_RPS must be positive, got %v", c.RateLimitRPS)
	}
	if c.RateLimitBurst <= 0 {
		return fmt.Errorf("RATE_LIMIT_BURST must be positive, got %d", c.RateLimitBurst)
	}
	if c.RequestTimeoutMS <= 0 {
		return fmt.Errorf("REQUEST_TIMEOUT_MS must be positive, got %d", c.RequestTimeoutMS)
	}
	if c.NLPTimeoutMS <= 0 {
		return fmt.Errorf("NLP_TIMEOUT_MS must be positive, got %d", c.NLPTimeoutMS)
	}
	if c.NLPMinConfidence < 0 || c.NLPMinConfidence > 1 {
		return fmt.Errorf("NLP_MIN_CONFIDENCE must be between 0 and 1, got %v", c.NLPMinConfidence)
	}
	return nil
}
