package domain

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

const maxEditDepth = 2

// ApplyEdits returns a copy of u with the given form field edits applied.
// A path is either a top level field ("firstName") or one nested field
// ("address.city"). Values are coerced to the JSON type the field already has.
func ApplyEdits(u *User, edits map[string]string) (*User, error) {
	if u == nil {
		return nil, fmt.Errorf("no user to edit: %w", ErrInvalidInput)
	}

	raw, err := json.Marshal(u)
	if err != nil {
		return nil, fmt.Errorf("failed to encode user: %w", err)
	}

	var fields map[string]any
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, fmt.Errorf("failed to decode user: %w", err)
	}

	paths := make([]string, 0, len(edits))
	for path := range edits {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	for _, path := range paths {
		if err := setField(fields, path, edits[path]); err != nil {
			return nil, err
		}
	}

	raw, err = json.Marshal(fields)
	if err != nil {
		return nil, fmt.Errorf("failed to encode edited user: %w", err)
	}

	edited := &User{}
	if err := json.Unmarshal(raw, edited); err != nil {
		return nil, fmt.Errorf("failed to decode edited user: %w: %v", ErrInvalidInput, err)
	}

	if edited.ID != u.ID {
		return nil, fmt.Errorf("id cannot be edited: %w", ErrInvalidInput)
	}

	return edited, nil
}

func setField(fields map[string]any, path, value string) error {
	parts := strings.Split(path, ".")
	if len(parts) > maxEditDepth || parts[0] == "" {
		return fmt.Errorf("unsupported field %q: %w", path, ErrInvalidInput)
	}

	target := fields
	if len(parts) == maxEditDepth {
		nested, ok := fields[parts[0]].(map[string]any)
		if !ok {
			return fmt.Errorf("unknown field %q: %w", path, ErrInvalidInput)
		}
		target = nested
	}

	key := parts[len(parts)-1]
	current, ok := target[key]
	if !ok {
		return fmt.Errorf("unknown field %q: %w", path, ErrInvalidInput)
	}

	coerced, err := coerce(current, value)
	if err != nil {
		return fmt.Errorf("invalid value for %q: %w", path, err)
	}
	target[key] = coerced

	return nil
}

func coerce(current any, value string) (any, error) {
	switch current.(type) {
	case string:
		return value, nil
	case float64:
		n, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil {
			return nil, fmt.Errorf("%q is not a number: %w", value, ErrInvalidInput)
		}

		return n, nil
	case bool:
		b, err := strconv.ParseBool(strings.TrimSpace(value))
		if err != nil {
			return nil, fmt.Errorf("%q is not a boolean: %w", value, ErrInvalidInput)
		}

		return b, nil
	default:
		return nil, fmt.Errorf("field is not editable: %w", ErrInvalidInput)
	}
}
