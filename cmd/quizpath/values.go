package main

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// readValues merges a YAML/JSON mapping file with key=value overrides.
// Values are parsed as YAML, so "true", "3" and "[a, b]" keep their types.
func readValues(path string, sets []string) (map[string]any, error) {
	values := make(map[string]any)

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		// JSON is a subset of YAML.
		if err := yaml.Unmarshal(data, &values); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		if values == nil {
			values = make(map[string]any)
		}
	}

	for _, kv := range sets {
		key, raw, ok := strings.Cut(kv, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("expected key=value, got %q", kv)
		}
		value, err := parseValue(raw)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", key, err)
		}
		values[key] = value
	}

	return values, nil
}

// parseValue decodes a single YAML scalar or flow collection.
// An empty string stays an empty string (a retracted answer).
func parseValue(raw string) (any, error) {
	if strings.TrimSpace(raw) == "" {
		return "", nil
	}
	var v any
	if err := yaml.Unmarshal([]byte(raw), &v); err != nil {
		return nil, err
	}
	return v, nil
}
