package rule

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents a rule-set configuration file. It is the bootstrap
// input for the default rules registered at startup; the engine does
// not own rule persistence beyond it.
type Config struct {
	Rules []RuleConfig `yaml:"rules"`
}

// RuleConfig is a single rule definition entry.
type RuleConfig struct {
	ID         string      `yaml:"id"`
	Name       string      `yaml:"name"`
	Enabled    bool        `yaml:"enabled"`
	Trigger    Trigger     `yaml:"trigger"`
	Conditions []Condition `yaml:"conditions,omitempty"`
	Actions    []Action    `yaml:"actions,omitempty"`
}

// LoadConfig loads a rule-set configuration from a YAML file.
// Supports environment variable expansion in the form ${VAR} or ${VAR:default}.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	expanded := expandEnvVars(string(data))

	var config Config
	if err := yaml.Unmarshal([]byte(expanded), &config); err != nil {
		return nil, fmt.Errorf("failed to parse YAML config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// Validate validates the configuration for common errors.
func (c *Config) Validate() error {
	ruleIDs := make(map[string]bool)
	for _, rc := range c.Rules {
		if rc.ID == "" {
			return fmt.Errorf("rule with empty ID found")
		}
		if ruleIDs[rc.ID] {
			return fmt.Errorf("duplicate rule ID: %s", rc.ID)
		}
		ruleIDs[rc.ID] = true

		switch rc.Trigger.Type {
		case TriggerSchedule:
			if rc.Trigger.Pattern == "" {
				return fmt.Errorf("rule %s: schedule trigger has empty pattern", rc.ID)
			}
		case TriggerEvent:
			if rc.Trigger.EventName == "" {
				return fmt.Errorf("rule %s: event trigger has empty event name", rc.ID)
			}
		case TriggerThreshold:
			if rc.Trigger.MetricName == "" {
				return fmt.Errorf("rule %s: threshold trigger has empty metric name", rc.ID)
			}
			if rc.Trigger.Operator != OpGreaterThan && rc.Trigger.Operator != OpLessThan {
				return fmt.Errorf("rule %s: threshold trigger operator must be %s or %s",
					rc.ID, OpGreaterThan, OpLessThan)
			}
		default:
			return fmt.Errorf("rule %s: unknown trigger type: %s", rc.ID, rc.Trigger.Type)
		}

		for i, a := range rc.Actions {
			if a.Type == "" {
				return fmt.Errorf("rule %s: action %d has empty type", rc.ID, i)
			}
		}
	}

	return nil
}

// Build converts the configuration entries into registrable rules.
func (c *Config) Build() []*Rule {
	rules := make([]*Rule, 0, len(c.Rules))
	for _, rc := range c.Rules {
		r := &Rule{
			ID:         rc.ID,
			Name:       rc.Name,
			Trigger:    rc.Trigger,
			Conditions: rc.Conditions,
			Actions:    rc.Actions,
			Active:     rc.Enabled,
			CreatedAt:  time.Now(),
		}
		rules = append(rules, r)
	}

	return rules
}

// expandEnvVars expands environment variables in the format ${VAR} or ${VAR:default}.
func expandEnvVars(s string) string {
	return os.Expand(s, func(key string) string {
		parts := strings.SplitN(key, ":", 2)
		name := parts[0]

		if value, ok := os.LookupEnv(name); ok {
			return value
		}

		if len(parts) == 2 {
			return parts[1]
		}

		return ""
	})
}
