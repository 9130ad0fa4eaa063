package config

// Config holds all application configuration loaded from environment
// variables via github.com/caarlos0/env struct tags.
type Config struct {
	// Server configuration
	MetricsPort int    `env:"METRICS_PORT" envDefault:"8080"`
	Environment string `env:"ENVIRONMENT" envDefault:"dev"`
	ServiceName string `env:"SERVICE_NAME" envDefault:"AutomationEngine"`

	// Redis configuration
	RedisHost     string `env:"REDIS_HOST" envDefault:"localhost"`
	RedisPort     string `env:"REDIS_PORT" envDefault:"6379"`
	RedisPassword string `env:"REDIS_PASSWORD"`

	// Engine configuration
	RulesConfigPath          string `env:"RULES_CONFIG_PATH" envDefault:"config/rules.yaml"`
	TickIntervalSeconds      int    `env:"TICK_INTERVAL_SECONDS" envDefault:"60"`
	ActionTimeoutSeconds     int    `env:"ACTION_TIMEOUT_SECONDS" envDefault:"30"`
	ThresholdIntervalSeconds int    `env:"THRESHOLD_INTERVAL_SECONDS" envDefault:"300"`

	// Telemetry configuration
	OtelEnabled bool `env:"OTEL_ENABLED" envDefault:"true"`
}
