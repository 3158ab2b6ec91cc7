// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package settings

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/pdiddy/melchior/pkg/types"
)

// Set assigns value to the field named by its JSON key. Nested keys use a
// dot, as in "engagement_elements.stories". value is read as JSON when it
// parses (numbers, booleans) and as a plain string otherwise. The result is
// normalized and its warnings returned.
func Set(s *types.Settings, key, value string) ([]string, error) {
	fields, err := toMap(*s)
	if err != nil {
		return nil, err
	}

	parent, leaf, err := lookup(fields, key)
	if err != nil {
		return nil, err
	}

	var parsed any
	if err := json.Unmarshal([]byte(value), &parsed); err != nil {
		parsed = value
	}
	parent[leaf] = parsed

	data, err := json.Marshal(fields)
	if err != nil {
		return nil, fmt.Errorf("encoding settings: %w", err)
	}
	next := types.DefaultSettings()
	if err := json.Unmarshal(data, &next); err != nil {
		return nil, fmt.Errorf("invalid value %q for %s: %w", value, key, err)
	}
	warnings := next.Normalize()
	*s = next
	return warnings, nil
}

// Get returns the value stored under key, formatted the way Set accepts it.
func Get(s types.Settings, key string) (string, error) {
	fields, err := toMap(s)
	if err != nil {
		return "", err
	}
	parent, leaf, err := lookup(fields, key)
	if err != nil {
		return "", err
	}
	if str, ok := parent[leaf].(string); ok {
		return str, nil
	}
	data, err := json.Marshal(parent[leaf])
	if err != nil {
		return "", fmt.Errorf("encoding %s: %w", key, err)
	}
	return string(data), nil
}

// lookup resolves a dotted key to the map holding its leaf field.
func lookup(fields map[string]any, key string) (map[string]any, string, error) {
	parent, leaf := fields, key
	if head, rest, ok := strings.Cut(key, "."); ok {
		nested, isMap := fields[head].(map[string]any)
		if !isMap {
			return nil, "", fmt.Errorf("unknown setting %q", key)
		}
		parent, leaf = nested, rest
	}
	current, known := parent[leaf]
	if !known {
		return nil, "", fmt.Errorf("unknown setting %q (known: %s)", key, strings.Join(Keys(), ", "))
	}
	if _, isMap := current.(map[string]any); isMap {
		return nil, "", fmt.Errorf("setting %q has sub-keys; set %s.<name>", key, key)
	}
	return parent, leaf, nil
}

// Keys returns every settable key, sorted.
func Keys() []string {
	fields, _ := toMap(types.DefaultSettings())
	var keys []string
	for k, v := range fields {
		if nested, ok := v.(map[string]any); ok {
			for sub := range nested {
				keys = append(keys, k+"."+sub)
			}
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func toMap(s types.Settings) (map[string]any, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("encoding settings: %w", err)
	}
	var fields map[string]any
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, fmt.Errorf("decoding settings: %w", err)
	}
	return fields, nil
}
