package action

import (
	"context"

	"github.com/crewops/automation-engine/pkg/rule"
)

// Handler performs one side-effecting step in response to a rule run.
// Handlers are registered in a Registry keyed by action type and
// invoked by the Dispatcher; collaborators such as storage or the
// notifier are bound at construction time.
type Handler interface {
	// Type returns the action type string this handler serves.
	Type() string

	// Execute performs the action. The handler can read its declared
	// config and the run context to perform its operation.
	// Returns error if the action fails.
	Execute(ctx context.Context, cfg Config, runCtx rule.Context) error
}

// Config is the opaque per-action configuration map, interpreted only
// by the handler it is declared for.
type Config map[string]interface{}

// GetString retrieves a string config value with a default.
func (c Config) GetString(key, defaultValue string) string {
	if val, ok := c[key]; ok {
		if strVal, ok := val.(string); ok {
			return strVal
		}
	}
	return defaultValue
}

// GetInt retrieves an integer config value with a default.
// YAML decodes whole numbers as int while JSON decodes them as
// float64, so both are accepted.
func (c Config) GetInt(key string, defaultValue int) int {
	if val, ok := c[key]; ok {
		switch v := val.(type) {
		case int:
			return v
		case int64:
			return int(v)
		case float64:
			return int(v)
		}
	}
	return defaultValue
}

// GetFloat retrieves a float config value with a default.
func (c Config) GetFloat(key string, defaultValue float64) float64 {
	if val, ok := c[key]; ok {
		switch v := val.(type) {
		case float64:
			return v
		case int:
			return float64(v)
		}
	}
	return defaultValue
}

// GetBool retrieves a boolean config value with a default.
func (c Config) GetBool(key string, defaultValue bool) bool {
	if val, ok := c[key]; ok {
		if boolVal, ok := val.(bool); ok {
			return boolVal
		}
	}
	return defaultValue
}

// GetStringSlice retrieves a string slice config value with a default.
func (c Config) GetStringSlice(key string, defaultValue []string) []string {
	if val, ok := c[key]; ok {
		if sliceVal, ok := val.([]string); ok {
			return sliceVal
		}
		// YAML and JSON both decode lists as []interface{}
		if interfaceSlice, ok := val.([]interface{}); ok {
			result := make([]string, 0, len(interfaceSlice))
			for _, item := range interfaceSlice {
				if str, ok := item.(string); ok {
					result = append(result, str)
				}
			}
			return result
		}
	}
	return defaultValue
}
