package config

import (
	"fmt"
	"strings"

	"sigs.k8s.io/yaml"
)

// ParseKeyValue parses a single key=value pair and returns the key and value.
// If no value is provided, the value will be empty.
func ParseKeyValue(input string) (key, val string) {
	chunks := strings.SplitN(input, "=", 2)
	key = strings.TrimSpace(chunks[0])
	if len(chunks) > 1 {
		val = chunks[1]
	}
	return
}

// ParseKeyValuePairs parses a comma-separated string of key=value pairs
// and returns them as a map. Empty pairs are ignored, and whitespace
// around pairs is trimmed.
func ParseKeyValuePairs(input string) map[string]string {
	result := make(map[string]string)
	if input == "" {
		return result
	}

	pairs := strings.Split(input, ",")
	for _, pair := range pairs {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		key, val := ParseKeyValue(pair)
		if key != "" {
			result[key] = val
		}
	}
	return result
}

// ParseParams parses key=value pairs into parameter values.
// Values are decoded as YAML scalars so "3" becomes a number and "true" a bool,
// quote them to keep them as strings i.e. version='"1.0"'.
func ParseParams(input string) (map[string]any, error) {
	result := map[string]any{}
	for key, raw := range ParseKeyValuePairs(input) {
		val, err := parseScalar(raw)
		if err != nil {
			return nil, fmt.Errorf("parameter %q: %w", key, err)
		}
		result[key] = val
	}
	return result, nil
}

func parseScalar(raw string) (any, error) {
	if raw == "" {
		return "", nil
	}
	var val any
	if err := yaml.Unmarshal([]byte(raw), &val); err != nil {
		return nil, err
	}
	switch val.(type) {
	case map[string]any, []any:
		return nil, fmt.Errorf("value %q is not a scalar", raw)
	case nil:
		return raw, nil
	}
	return val, nil
}
