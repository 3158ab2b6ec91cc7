// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package archive

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"go.yaml.in/yaml/v3"
)

// Export formats.
const (
	FormatYAML = "yaml"
	FormatJSON = "json"
)

// Export writes every archived entry, with HTML, to w in format.
func (s *Store) Export(ctx context.Context, w io.Writer, format string) error {
	entries, err := s.exportEntries(ctx)
	if err != nil {
		return err
	}

	var data []byte
	switch format {
	case FormatYAML:
		data, err = yaml.Marshal(entries)
		if err != nil {
			return fmt.Errorf("marshaling YAML: %w", err)
		}
	case FormatJSON:
		data, err = json.MarshalIndent(entries, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling JSON: %w", err)
		}
		data = append(data, '\n')
	default:
		return fmt.Errorf("unknown export format %q (want yaml or json)", format)
	}

	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("writing export: %w", err)
	}
	return nil
}

func (s *Store) exportEntries(ctx context.Context) ([]Entry, error) {
	listed, err := s.List(ctx, 0)
	if err != nil {
		return nil, fmt.Errorf("querying for export: %w", err)
	}
	entries := make([]Entry, 0, len(listed))
	for _, l := range listed {
		e, err := s.Get(ctx, l.ID)
		if err != nil {
			return nil, fmt.Errorf("loading %s for export: %w", l.ID, err)
		}
		entries = append(entries, *e)
	}
	return entries, nil
}
