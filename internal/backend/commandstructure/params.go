package commandstructure

import (
	"fmt"
	"strconv"
	"strings"
)

// GetStringParam returns params[key] when it is a string.
func GetStringParam(params map[string]any, key string, defaultValue string) string {
	if val, ok := params[key].(string); ok {
		return val
	}
	return defaultValue
}

// GetIntParam accepts the numeric types produced by YAML and JSON decoding.
func GetIntParam(params map[string]any, key string, defaultValue int) int {
	switch v := params[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	case string:
		if parsed, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			return parsed
		}
	}
	return defaultValue
}

// GetBoolParam accepts booleans and the strings "true"/"false" in any case.
func GetBoolParam(params map[string]any, key string, defaultValue bool) bool {
	switch v := params[key].(type) {
	case bool:
		return v
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "true":
			return true
		case "false":
			return false
		}
	}
	return defaultValue
}

func ValidateRequiredParams(params map[string]any, required []string) error {
	for _, key := range required {
		if _, ok := params[key]; !ok {
			return fmt.Errorf("missing required parameter: %s", key)
		}
	}
	return nil
}
