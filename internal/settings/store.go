// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package settings persists the generation Settings record as one indented
// JSON object. Loading never fails on content: a missing or malformed file
// yields defaults, and out-of-range values are normalized with warnings.
package settings

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/pdiddy/melchior/pkg/types"
)

// DefaultFile is the settings file used when no path is configured.
const DefaultFile = "melchior-settings.json"

// Load reads the settings file at path. Keys absent from the file keep their
// default values. The returned warnings describe a malformed file or any
// value that was corrected; only an unreadable file is an error.
func Load(path string) (types.Settings, []string, error) {
	s := types.DefaultSettings()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return s, nil, nil
		}
		return s, nil, fmt.Errorf("reading settings %s: %w", path, err)
	}

	if err := json.Unmarshal(data, &s); err != nil {
		return types.DefaultSettings(), []string{
			fmt.Sprintf("settings file %s is malformed (%v), using defaults", path, err),
		}, nil
	}

	return s, s.Normalize(), nil
}

// Save writes s to path as indented JSON, creating parent directories.
func Save(path string, s types.Settings) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating settings directory: %w", err)
		}
	}
	data, err := json.MarshalIndent(s, "", "    ")
	if err != nil {
		return fmt.Errorf("marshaling settings: %w", err)
	}
	data = append(data, '\n')
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing settings %s: %w", path, err)
	}
	return nil
}
