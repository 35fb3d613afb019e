package commandstructure

import (
	"testing"
)

func TestGetStringParam(t *testing.T) {
	params := map[string]any{
		"key1": "value1",
		"key2": 123,
	}

	if val := GetStringParam(params, "key1", "default"); val != "value1" {
		t.Errorf("Expected 'value1', got '%s'", val)
	}
	if val := GetStringParam(params, "key2", "default"); val != "default" {
		t.Errorf("Expected 'default', got '%s'", val)
	}
	if val := GetStringParam(params, "missing", "default"); val != "default" {
		t.Errorf("Expected 'default', got '%s'", val)
	}
}

func TestGetIntParam(t *testing.T) {
	params := map[string]any{
		"int":     123,
		"int64":   int64(456),
		"float64": float64(789),
		"string":  " 320 ",
		"garbage": "not-an-int",
	}

	tests := []struct {
		key      string
		expected int
	}{
		{key: "int", expected: 123},
		{key: "int64", expected: 456},
		{key: "float64", expected: 789},
		{key: "string", expected: 320},
		{key: "garbage", expected: 999},
		{key: "missing", expected: 999},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			if val := GetIntParam(params, tt.key, 999); val != tt.expected {
				t.Errorf("Expected %d, got %d", tt.expected, val)
			}
		})
	}
}

func TestGetBoolParam(t *testing.T) {
	params := map[string]any{
		"bool":   true,
		"upper":  "FALSE",
		"spaced": " true ",
		"other":  "maybe",
		"number": 1,
	}

	tests := []struct {
		key          string
		defaultValue bool
		expected     bool
	}{
		{key: "bool", defaultValue: false, expected: true},
		{key: "upper", defaultValue: true, expected: false},
		{key: "spaced", defaultValue: false, expected: true},
		{key: "other", defaultValue: true, expected: true},
		{key: "number", defaultValue: false, expected: false},
		{key: "missing", defaultValue: true, expected: true},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			if val := GetBoolParam(params, tt.key, tt.defaultValue); val != tt.expected {
				t.Errorf("Expected %v, got %v", tt.expected, val)
			}
		})
	}
}

func TestValidateRequiredParams(t *testing.T) {
	params := map[string]any{
		"param1": "value1",
		"param2": 123,
	}

	if err := ValidateRequiredParams(params, []string{"param1", "param2"}); err != nil {
		t.Errorf("Expected no error, got %v", err)
	}
	if err := ValidateRequiredParams(params, []string{"param1", "param3"}); err == nil {
		t.Error("Expected error for missing required param")
	}
	if err := ValidateRequiredParams(params, []string{}); err != nil {
		t.Errorf("Expected no error for empty required list, got %v", err)
	}
}
