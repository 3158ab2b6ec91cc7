// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package outline

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/melchior/pkg/types"
)

// Load reads an outline YAML file, typically one saved by Save and edited
// by hand.
func Load(path string) (*types.Outline, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading outline: %w", err)
	}
	var o types.Outline
	if err := yaml.Unmarshal(data, &o); err != nil {
		return nil, fmt.Errorf("parsing outline: %w", err)
	}
	if err := Validate(&o); err != nil {
		return nil, fmt.Errorf("outline %s: %w", path, err)
	}
	return &o, nil
}

// Save writes o to path as YAML, creating parent directories.
func Save(path string, o *types.Outline) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating outline directory: %w", err)
	}
	data, err := yaml.Marshal(o)
	if err != nil {
		return fmt.Errorf("marshaling outline: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing outline: %w", err)
	}
	return nil
}

// Validate checks the structural requirements a draftable outline must meet:
// a title and at least one section, every section titled.
func Validate(o *types.Outline) error {
	if strings.TrimSpace(o.Title) == "" {
		return errors.New("article_title is required")
	}
	if len(o.Sections) == 0 {
		return errors.New("at least one section is required")
	}
	for i, s := range o.Sections {
		if strings.TrimSpace(s.Title) == "" {
			return fmt.Errorf("section %d has no title", i+1)
		}
	}
	return nil
}
