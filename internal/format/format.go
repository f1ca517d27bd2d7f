package format

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// Output formats accepted by --output.
const (
	Table = "table"
	JSON  = "json"
	YAML  = "yaml"
)

// Validate reports whether name is a known output format.
func Validate(name string) error {
	switch name {
	case Table, JSON, YAML:
		return nil
	default:
		return fmt.Errorf("unknown output format %q, want one of %s, %s, %s", name, Table, JSON, YAML)
	}
}

// Encode writes v to w as JSON or YAML.
func Encode(w io.Writer, name string, v any) error {
	switch name {
	case JSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("failed to encode json: %w", err)
		}
	case YAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("failed to encode yaml: %w", err)
		}
		if err := enc.Close(); err != nil {
			return fmt.Errorf("failed to flush yaml: %w", err)
		}
	default:
		return fmt.Errorf("format %q cannot encode values", name)
	}

	return nil
}
