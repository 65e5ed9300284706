package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v9"
	"github.com/hashicorp/go-multierror"
)

type Mode string

const (
	ModeLocal Mode = "local"
	ModeGCP   Mode = "gcp"
)

const mockLLMEnv = "YATRA_USE_MOCK_LLM"

type Config struct {
	Mode Mode   `env:"YATRA_MODE" envDefault:"local"`
	Port string `env:"YATRA_PORT" envDefault:"8080"`

	// Gemini API credential. Ignored in gcp mode, where Vertex uses ADC.
	APIKey       string `env:"API_KEY"`
	GCPProjectID string `env:"YATRA_GCP_PROJECT"`
	GCPLocation  string `env:"YATRA_GCP_LOCATION" envDefault:"us-central1"`

	ChatModel   string `env:"YATRA_CHAT_MODEL" envDefault:"gemini-3-pro-preview"`
	SearchModel string `env:"YATRA_SEARCH_MODEL" envDefault:"gemini-3-flash-preview"`
	MapsModel   string `env:"YATRA_MAPS_MODEL" envDefault:"gemini-2.5-flash"`
	VisionModel string `env:"YATRA_VISION_MODEL" envDefault:"gemini-3-pro-preview"`

	UseMockLLM     bool          `env:"YATRA_USE_MOCK_LLM"`
	ScriptedWarmup bool          `env:"YATRA_SCRIPTED_WARMUP" envDefault:"false"`
	GatewayTimeout time.Duration `env:"YATRA_GATEWAY_TIMEOUT" envDefault:"60s"`

	SOSCountdown   int           `env:"YATRA_SOS_COUNTDOWN" envDefault:"5"`
	SessionIdleTTL time.Duration `env:"YATRA_SESSION_IDLE_TTL" envDefault:"30m"`

	RateLimitPerMinute int      `env:"YATRA_RATE_LIMIT_PER_MINUTE" envDefault:"30"`
	AllowedOrigins     []string `env:"YATRA_ALLOWED_ORIGINS" envDefault:"*" envSeparator:","`

	ShareURL      string `env:"YATRA_SHARE_URL" envDefault:"https://github-readme-stats.vercel.app"`
	MaxImageBytes int64  `env:"YATRA_MAX_IMAGE_BYTES" envDefault:"8388608"`

	LogLevel string `env:"YATRA_LOG_LEVEL" envDefault:"info"`
}

// Load reads all env vars and builds the config.
// The mock gateway is the default in local mode when no API key is set.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing env config: %w", err)
	}

	if _, set := os.LookupEnv(mockLLMEnv); !set {
		cfg.UseMockLLM = cfg.Mode == ModeLocal && cfg.APIKey == ""
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Validate reports every problem at once.
func (c *Config) Validate() error {
	var result *multierror.Error

	switch c.Mode {
	case ModeLocal, ModeGCP:
	default:
		result = multierror.Append(result, fmt.Errorf("YATRA_MODE must be %q or %q, got %q", ModeLocal, ModeGCP, c.Mode))
	}
	if c.Port == "" {
		result = multierror.Append(result, errors.New("YATRA_PORT cannot be empty"))
	}
	if !c.UseMockLLM {
		if c.Mode == ModeGCP && c.GCPProjectID == "" {
			result = multierror.Append(result, errors.New("YATRA_GCP_PROJECT must be set in gcp mode"))
		}
		if c.Mode == ModeLocal && c.APIKey == "" {
			result = multierror.Append(result, errors.New("API_KEY must be set unless the mock LLM is used"))
		}
	}
	if c.GatewayTimeout <= 0 {
		result = multierror.Append(result, errors.New("YATRA_GATEWAY_TIMEOUT must be > 0"))
	}
	if c.SOSCountdown < 0 {
		result = multierror.Append(result, errors.New("YATRA_SOS_COUNTDOWN must be >= 0"))
	}
	if c.SessionIdleTTL <= 0 {
		result = multierror.Append(result, errors.New("YATRA_SESSION_IDLE_TTL must be > 0"))
	}
	if c.RateLimitPerMinute <= 0 {
		result = multierror.Append(result, errors.New("YATRA_RATE_LIMIT_PER_MINUTE must be > 0"))
	}
	if c.MaxImageBytes <= 0 {
		result = multierror.Append(result, errors.New("YATRA_MAX_IMAGE_BYTES must be > 0"))
	}

	return result.ErrorOrNil()
}
