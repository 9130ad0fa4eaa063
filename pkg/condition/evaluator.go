// Package condition implements pure condition evaluation over the
// loosely-typed run context. Evaluation never panics and has no side
// effects: anything missing or mistyped fails closed.
package condition

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/crewops/automation-engine/pkg/rule"
)

// Evaluate checks all conditions against the context. Conditions are
// AND-ed and evaluation short-circuits on the first failure. An empty
// condition list always passes.
func Evaluate(ctx rule.Context, conditions []rule.Condition) bool {
	for _, c := range conditions {
		if !evaluateOne(ctx, c) {
			return false
		}
	}

	return true
}

// evaluateOne checks a single condition. A missing field or an unknown
// operator resolves to false rather than an error so that forward or
// backward rule-definition skew cannot abort a run.
func evaluateOne(ctx rule.Context, c rule.Condition) bool {
	value, ok := resolvePath(ctx, c.Field)
	if !ok {
		return false
	}

	switch c.Operator {
	case rule.OpEquals:
		return reflect.DeepEqual(value, c.Value)
	case rule.OpGreaterThan:
		left, lok := toNumber(value)
		right, rok := toNumber(c.Value)
		return lok && rok && left > right
	case rule.OpLessThan:
		left, lok := toNumber(value)
		right, rok := toNumber(c.Value)
		return lok && rok && left < right
	case rule.OpContains:
		haystack := strings.ToLower(toString(value))
		needle := strings.ToLower(toString(c.Value))
		return strings.Contains(haystack, needle)
	default:
		return false
	}
}

// resolvePath walks the context key by key along a dot-separated path.
// Returns false as soon as any segment is missing or the current node
// is not a map.
func resolvePath(ctx rule.Context, path string) (interface{}, bool) {
	if path == "" {
		return nil, false
	}

	var current interface{} = map[string]interface{}(ctx)
	for _, segment := range strings.Split(path, ".") {
		node, ok := asMap(current)
		if !ok {
			return nil, false
		}

		current, ok = node[segment]
		if !ok {
			return nil, false
		}
	}

	return current, true
}

// asMap normalizes the map shapes a context tree can contain.
func asMap(v interface{}) (map[string]interface{}, bool) {
	switch m := v.(type) {
	case map[string]interface{}:
		return m, true
	case rule.Context:
		return m, true
	default:
		return nil, false
	}
}

// toNumber coerces a value to float64. Numeric strings are accepted;
// everything else reports false.
func toNumber(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint64:
		return float64(n), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

func toString(v interface{}) string {
	if s, ok := v.(string); ok {
		return s
	}

	return fmt.Sprint(v)
}
