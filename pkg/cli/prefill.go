package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// LoadPrefill reads a YAML or JSON document of canned answers (for
// example subject defaults) into v. The format follows the file
// extension; with an unknown extension YAML is tried first, then JSON.
func LoadPrefill(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read prefill file: %w", err)
	}
	return ParsePrefill(data, path, v)
}

// ParsePrefill parses prefill data based on the filename extension.
func ParsePrefill(data []byte, filename string, v any) error {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, v); err != nil {
			return fmt.Errorf("failed to parse YAML: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(data, v); err != nil {
			return fmt.Errorf("failed to parse JSON: %w", err)
		}
	default:
		if err := yaml.Unmarshal(data, v); err != nil {
			if err2 := json.Unmarshal(data, v); err2 != nil {
				return fmt.Errorf("failed to parse prefill file (tried YAML and JSON)")
			}
		}
	}
	return nil
}
