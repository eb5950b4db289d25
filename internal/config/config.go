// Package config provides configuration loading and validation for the
// expertise engine.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Defaults applied when the corresponding environment variable is unset.
const (
	DefaultPort                   = 8080
	DefaultGeminiModel            = "gemma-3-12b-it"
	DefaultCertificatePoints      = 250
	DefaultPositionPointsPerMonth = 250
	DefaultUpstreamTimeout        = 30 * time.Second
)

// Config holds the runtime configuration, loaded from the environment.
type Config struct {
	Port        int
	DatabaseURL string

	// External recommendation services.
	GeminiAPIKey    string
	GeminiModel     string
	MLServiceURL    string
	UpstreamTimeout time.Duration

	// AdminToken protects the accrual trigger endpoint.
	AdminToken string

	// Point valuation constants.
	CertificatePoints      float64
	PositionPointsPerMonth float64

	// AccrualGuard enables the once-per-day run guard on the batch job.
	AccrualGuard bool
}

// FromEnv builds a Config from environment variables, applying defaults for
// optional values. Call Validate before using the result.
func FromEnv() (*Config, error) {
	cfg := &Config{
		Port:                   DefaultPort,
		DatabaseURL:            os.Getenv("DATABASE_URL"),
		GeminiAPIKey:           os.Getenv("GEMINI_API_KEY"),
		GeminiModel:            DefaultGeminiModel,
		MLServiceURL:           os.Getenv("ML_SERVICE_URL"),
		UpstreamTimeout:        DefaultUpstreamTimeout,
		AdminToken:             os.Getenv("ADMIN_TOKEN"),
		CertificatePoints:      DefaultCertificatePoints,
		PositionPointsPerMonth: DefaultPositionPointsPerMonth,
	}

	if v := os.Getenv("PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("failed to parse PORT: %w", err)
		}
		cfg.Port = port
	}
	if v := os.Getenv("GEMINI_MODEL"); v != "" {
		cfg.GeminiModel = v
	}
	if v := os.Getenv("UPSTREAM_TIMEOUT"); v != "" {
		timeout, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("failed to parse UPSTREAM_TIMEOUT: %w", err)
		}
		cfg.UpstreamTimeout = timeout
	}
	if v := os.Getenv("CERTIFICATE_POINTS"); v != "" {
		points, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, fmt.Errorf("failed to parse CERTIFICATE_POINTS: %w", err)
		}
		cfg.CertificatePoints = points
	}
	if v := os.Getenv("POSITION_POINTS_PER_MONTH"); v != "" {
		points, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, fmt.Errorf("failed to parse POSITION_POINTS_PER_MONTH: %w", err)
		}
		cfg.PositionPointsPerMonth = points
	}
	if v := os.Getenv("ACCRUAL_GUARD"); v != "" {
		guard, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("failed to parse ACCRUAL_GUARD: %w", err)
		}
		cfg.AccrualGuard = guard
	}

	return cfg, nil
}

// Validate checks that the configuration has usable values.
func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("config error: port %d out of range", c.Port)
	}
	if c.DatabaseURL == "" {
		return fmt.Errorf("config error: DATABASE_URL is required")
	}
	if c.GeminiAPIKey == "" {
		return fmt.Errorf("config error: GEMINI_API_KEY is required")
	}
	if c.CertificatePoints <= 0 {
		return fmt.Errorf("config error: certificate points must be positive")
	}
	if c.PositionPointsPerMonth <= 0 {
		return fmt.Errorf("config error: position points per month must be positive")
	}
	if c.UpstreamTimeout <= 0 {
		return fmt.Errorf("config error: upstream timeout must be positive")
	}
	return nil
}
