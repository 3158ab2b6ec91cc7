// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package outline

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/melchior/pkg/types"
)

func TestSaveLoadOutline(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plans", "outline.yaml")
	want := &types.Outline{
		Title:          "E-bikes in the city",
		TargetAudience: "Urban commuters",
		Keywords:       []string{"e-bike", "commute"},
		Sections: []types.SectionSpec{
			{Number: 1, Title: "Why now", TargetWords: 300, Keywords: []string{"trend"}, Prompt: "Open with a statistic."},
			{Number: 2, Title: "Choosing a battery", TargetWords: 400, Keywords: []string{"battery"}, Prompt: "Compare capacities."},
		},
	}

	require.NoError(t, Save(path, want))
	got, err := Load(path)
	require.NoError(t, err)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("outline mismatch (-want +got):\n%s", diff)
	}

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "article_title: E-bikes in the city")
	assert.Contains(t, string(data), "estimated_words: 400")
}

func TestLoadOutlineErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{"invalid yaml", "article_title: [unclosed", "parsing outline"},
		{"missing title", "sections:\n  - title: a\n", "article_title is required"},
		{"no sections", "article_title: x\n", "at least one section"},
		{"untitled section", "article_title: x\nsections:\n  - prompt: p\n", "section 1 has no title"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "outline.yaml")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o644))
			_, err := Load(path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadOutlineMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}
