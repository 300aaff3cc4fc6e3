package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
)

// Global singleton kept for packages wired before dependency injection.
var globalConfig *Config

// Config holds all environment backed configuration for ai-api.
type Config struct {
	// HTTP Server
	HTTPPort    int    `env:"HTTP_PORT" envDefault:"8080"`
	MetricsPort int    `env:"METRICS_PORT" envDefault:"9091"`
	DatabaseURL string `env:"DATABASE_URL,notEmpty"`

	// Provider gateway
	ProviderKeySecret      string `env:"PROVIDER_KEY_SECRET,notEmpty"`
	DefaultAnthropicAPIKey string `env:"DEFAULT_ANTHROPIC_API_KEY,notEmpty"`
	DefaultAnthropicModel  string `env:"DEFAULT_ANTHROPIC_MODEL" envDefault:"claude-3-5-haiku-latest"`

	// Cached BYOK adapters are re-probed on this interval; 0 disables the sweep.
	HealthRecheckIntervalMinutes int `env:"HEALTH_RECHECK_INTERVAL_MINUTES" envDefault:"30"`

	// Observability / Logging
	HTTPTimeout      time.Duration `env:"HTTP_TIMEOUT" envDefault:"30s"`
	OTLPEndpoint     string        `env:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	ServiceName      string        `env:"SERVICE_NAME" envDefault:"ai-api"`
	ServiceNamespace string        `env:"SERVICE_NAMESPACE" envDefault:"venturedesk"`
	Environment      string        `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel         string        `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat        string        `env:"LOG_FORMAT" envDefault:"console"`

	// Features
	AutoMigrate bool `env:"AUTO_MIGRATE" envDefault:"true"`

	// Internal
	EnvReloadedAt time.Time
}

// Load parses environment variables into Config and performs minimal
// validation. The operator credential for the shared default provider is
// checked here so a misconfigured deployment fails at boot, not at first use.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if strings.TrimSpace(cfg.ProviderKeySecret) == "" {
		return nil, errors.New("PROVIDER_KEY_SECRET must not be blank")
	}
	if strings.TrimSpace(cfg.DefaultAnthropicAPIKey) == "" {
		return nil, errors.New("DEFAULT_ANTHROPIC_API_KEY must not be blank")
	}
	if cfg.HealthRecheckIntervalMinutes < 0 {
		return nil, fmt.Errorf("HEALTH_RECHECK_INTERVAL_MINUTES must be >= 0, got %d", cfg.HealthRecheckIntervalMinutes)
	}

	cfg.LogLevel = strings.ToLower(cfg.LogLevel)
	cfg.LogFormat = strings.ToLower(cfg.LogFormat)
	cfg.EnvReloadedAt = time.Now()

	globalConfig = cfg

	return cfg, nil
}

// GetGlobal returns the global config instance.
// Deprecated: Use dependency injection with Load() instead.
func GetGlobal() *Config {
	return globalConfig
}

var Version = "dev"

func IsDev() bool {
	return strings.HasPrefix(Version, "dev")
}
