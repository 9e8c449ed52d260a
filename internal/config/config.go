// Package config loads the service configuration from the environment.
package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds the configuration for the timetable service.
// Environment variables are parsed from the EREBOR_ prefix.
type Config struct {
	// HTTP Configuration
	HTTPPort int `envconfig:"HTTP_PORT" default:"8000"`

	// Logging
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	// Durable store
	DBPath string `envconfig:"DB_PATH" default:"erebor.db"`

	// Fetch client
	FetchMaxTries          int `envconfig:"FETCH_MAX_TRIES" default:"3"`
	FetchRetryDelaySeconds int `envconfig:"FETCH_RETRY_DELAY_SECONDS" default:"5"`

	// Moria upstream
	MoriaBaseURL string `envconfig:"MORIA_BASE_URL" default:""`
	MoriaCron    string `envconfig:"MORIA_CRON" default:"0 0 0 * * *"`
	// Roster entries carrying this groups code are excluded from group
	// matching. The upstream schema does not document the value; it is kept
	// configurable rather than hard-coded.
	MoriaSkipGroupsCode string `envconfig:"MORIA_SKIP_GROUPS_CODE" default:"1"`

	// Ingestion pipeline: terminate the process when the pipeline breaks,
	// instead of keeping reads alive with ingestion disabled.
	ExitOnFailure bool `envconfig:"EXIT_ON_FAILURE" default:"true"`

	// Read API
	CORSAllowedOrigin string `envconfig:"CORS_ALLOWED_ORIGIN" default:"https://erebor.vpcloud.eu"`
}

// FetchRetryDelay returns the fixed delay between fetch attempts.
func (c *Config) FetchRetryDelay() time.Duration {
	return time.Duration(c.FetchRetryDelaySeconds) * time.Second
}

// Validate checks values envconfig cannot express constraints for.
func (c *Config) Validate() error {
	if c.HTTPPort <= 0 || c.HTTPPort > 65535 {
		return fmt.Errorf("EREBOR_HTTP_PORT out of range: %d", c.HTTPPort)
	}
	if c.FetchMaxTries < 1 {
		return fmt.Errorf("EREBOR_FETCH_MAX_TRIES must be at least 1, got %d", c.FetchMaxTries)
	}
	if c.FetchRetryDelaySeconds < 0 {
		return fmt.Errorf("EREBOR_FETCH_RETRY_DELAY_SECONDS must not be negative, got %d", c.FetchRetryDelaySeconds)
	}
	if c.MoriaBaseURL == "" {
		return fmt.Errorf("EREBOR_MORIA_BASE_URL is required")
	}
	return nil
}

// New creates a Config by parsing EREBOR_-prefixed environment variables.
func New() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("EREBOR", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment variables: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
