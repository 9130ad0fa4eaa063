package config

import (
	"fmt"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// Load reads configuration from environment variables.
// It attempts to load from .env file first (for local development),
// then parses environment variables into the Config struct.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		logrus.Warnf("no .env file found or error loading it: %v (this is normal in production)", err)
	} else {
		logrus.Infof("loaded environment variables from .env file")
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config from environment: %w", err)
	}

	return cfg, nil
}

// Validate performs custom validation on the configuration.
func (c *Config) Validate() error {
	if c.MetricsPort < 1 || c.MetricsPort > 65535 {
		return fmt.Errorf("invalid METRICS_PORT: %d (must be 1-65535)", c.MetricsPort)
	}

	if c.TickIntervalSeconds < 1 {
		return fmt.Errorf("invalid TICK_INTERVAL_SECONDS: %d (must be positive)", c.TickIntervalSeconds)
	}

	if c.ActionTimeoutSeconds < 1 {
		return fmt.Errorf("invalid ACTION_TIMEOUT_SECONDS: %d (must be positive)", c.ActionTimeoutSeconds)
	}

	if c.ThresholdIntervalSeconds < 1 {
		return fmt.Errorf("invalid THRESHOLD_INTERVAL_SECONDS: %d (must be positive)", c.ThresholdIntervalSeconds)
	}

	return nil
}
