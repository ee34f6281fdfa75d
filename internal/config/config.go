package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/benvon/content-api/internal/validation"
	"github.com/spf13/viper"
	"github.com/ulule/limiter/v3"
)

// APIVersion is reported by the welcome and health endpoints
const APIVersion = "1.0.0"

// Config holds application configuration
type Config struct {
	Port              int           `mapstructure:"port" validate:"min=1,max=65535"`
	Environment       string        `mapstructure:"environment" validate:"oneof=development production test"`
	LogLevel          string        `mapstructure:"log_level" validate:"oneof=debug info warn error"`
	CORSOrigin        string        `mapstructure:"cors_origin" validate:"required,origins"`
	RateLimit         string        `mapstructure:"rate_limit" validate:"required,rate"`
	TrustProxyHeaders bool          `mapstructure:"trust_proxy_headers"`
	MaxBodyBytes      int64         `mapstructure:"max_body_bytes" validate:"gt=0"`
	ShutdownTimeout   time.Duration `mapstructure:"shutdown_timeout" validate:"gt=0"`
	OTELEnabled       bool          `mapstructure:"otel_enabled"`
	OTELEndpoint      string        `mapstructure:"otel_exporter_otlp_endpoint"`

	// Rate is RateLimit parsed by Load.
	Rate limiter.Rate `mapstructure:"-" validate:"-"`
}

var defaults = map[string]any{
	"port":                        3000,
	"environment":                 "development",
	"log_level":                   "info",
	"cors_origin":                 "*",
	"rate_limit":                  "100-M",
	"trust_proxy_headers":         false,
	"max_body_bytes":              int64(1 << 20),
	"shutdown_timeout":            30 * time.Second,
	"otel_enabled":                false,
	"otel_exporter_otlp_endpoint": "",
}

// NewViper returns a viper instance with defaults registered and environment
// lookup enabled. Keys map to upper-case environment variables (log_level -> LOG_LEVEL).
func NewViper() *viper.Viper {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.AutomaticEnv()
	return v
}

// Load reads configuration from v, or from the environment when v is nil
func Load(v *viper.Viper) (*Config, error) {
	if v == nil {
		v = NewViper()
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode configuration: %w", err)
	}
	cfg.Environment = strings.ToLower(strings.TrimSpace(cfg.Environment))
	cfg.LogLevel = strings.ToLower(strings.TrimSpace(cfg.LogLevel))
	cfg.CORSOrigin = strings.TrimSpace(cfg.CORSOrigin)

	if err := validation.Validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", validation.Describe(err))
	}

	rate, err := limiter.NewRateFromFormatted(strings.TrimSpace(cfg.RateLimit))
	if err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT %q: %w", cfg.RateLimit, err)
	}
	cfg.Rate = rate

	if cfg.OTELEnabled && cfg.OTELEndpoint == "" {
		return nil, fmt.Errorf("OTEL_EXPORTER_OTLP_ENDPOINT is required when OTEL_ENABLED is set")
	}

	return cfg, nil
}

// Addr returns the listen address for the configured port
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

// IsProduction reports whether the service runs in production mode
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// AllowedOrigins returns CORS_ORIGIN split on commas, trimmed and deduplicated.
func (c *Config) AllowedOrigins() []string {
	parts := strings.Split(c.CORSOrigin, ",")
	var out []string
	seen := make(map[string]bool)
	for _, p := range parts {
		s := strings.TrimSpace(p)
		if s != "" && !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}
