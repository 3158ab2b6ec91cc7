// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package outline

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/melchior/internal/llm"
	"github.com/pdiddy/melchior/internal/llm/llmtest"
	"github.com/pdiddy/melchior/pkg/types"
)

var topic = types.Topic{
	ID:          1,
	Title:       "Electric bicycles for city commuters",
	Keywords:    []string{"e-bike", "commute", "battery range"},
	Description: "How e-bikes change the daily commute",
}

var longPrompt = strings.Repeat("Explain the point with a concrete example. ", 6)

func outlineJSON(t *testing.T, title string, n int, prompt string) string {
	t.Helper()
	o := types.Outline{
		Title:          title,
		TargetAudience: "Urban commuters",
		Keywords:       []string{"e-bike", "commute"},
	}
	for i := 1; i <= n; i++ {
		o.Sections = append(o.Sections, types.SectionSpec{
			Number:      i,
			Title:       fmt.Sprintf("Section %d", i),
			TargetWords: 300,
			Keywords:    []string{"e-bike"},
			Prompt:      prompt,
		})
	}
	data, err := json.Marshal(o)
	require.NoError(t, err)
	return string(data)
}

func TestSynthesizeSectionCounts(t *testing.T) {
	for _, n := range []int{3, 10} {
		t.Run(fmt.Sprintf("%d sections", n), func(t *testing.T) {
			fake := llmtest.NewFake(llmtest.Text(outlineJSON(t, "E-bikes in the city", n, longPrompt)))
			s := types.DefaultSettings()
			s.NumSections = n

			res, err := NewSynthesizer(fake, "gpt-4o-mini", nil).Synthesize(context.Background(), topic, s, "")
			require.NoError(t, err)
			assert.Len(t, res.Outline.Sections, n)
			assert.Empty(t, res.Warnings)

			assert.Contains(t, fake.Last().System(), fmt.Sprintf("EXACTLY %d sections", n))
			assert.Contains(t, fake.UserPrompt(0), fmt.Sprintf("Number of sections: EXACTLY %d", n))
			assert.Equal(t, llm.FormatJSON, fake.Last().Format)
		})
	}
}

func TestSynthesizeCountMismatchWarns(t *testing.T) {
	fake := llmtest.NewFake(llmtest.Text(outlineJSON(t, "E-bikes", 5, longPrompt)))
	s := types.DefaultSettings()
	s.NumSections = 7

	res, err := NewSynthesizer(fake, "m", nil).Synthesize(context.Background(), topic, s, "")
	require.NoError(t, err)
	assert.Len(t, res.Outline.Sections, 5)
	require.Len(t, res.Warnings, 1)
	assert.Contains(t, res.Warnings[0], "5 sections instead of the requested 7")
}

func TestSynthesizeShortPromptsWarn(t *testing.T) {
	fake := llmtest.NewFake(llmtest.Text(outlineJSON(t, "E-bikes", 3, "Write about bikes.")))
	s := types.DefaultSettings()
	s.NumSections = 3

	res, err := NewSynthesizer(fake, "m", nil).Synthesize(context.Background(), topic, s, "")
	require.NoError(t, err)
	require.Len(t, res.Warnings, 1)
	assert.Contains(t, res.Warnings[0], "3 of 3 section prompts are shorter than 200 characters")
}

func TestSynthesizeTitleFallback(t *testing.T) {
	fake := llmtest.NewFake(llmtest.Text(outlineJSON(t, "", 3, longPrompt)))
	s := types.DefaultSettings()
	s.NumSections = 3

	res, err := NewSynthesizer(fake, "m", nil).Synthesize(context.Background(), topic, s, "")
	require.NoError(t, err)
	assert.Equal(t, topic.Title, res.Outline.Title)
	assert.Len(t, res.Warnings, 1)
}

func TestSynthesizeMergesTruncatedResearch(t *testing.T) {
	fake := llmtest.NewFake(llmtest.Text(outlineJSON(t, "E-bikes", 7, longPrompt)))
	research := strings.Repeat("ż", MaxResearchChars) + "TAIL-MARKER"

	_, err := NewSynthesizer(fake, "m", nil).Synthesize(context.Background(), topic, types.DefaultSettings(), research)
	require.NoError(t, err)

	user := fake.UserPrompt(0)
	assert.Contains(t, user, "Research data:")
	assert.NotContains(t, user, "TAIL-MARKER")
	assert.Contains(t, fake.Last().System(), "Use the research data provided")
}

func TestSynthesizeWithoutResearchOmitsBlock(t *testing.T) {
	fake := llmtest.NewFake(llmtest.Text(outlineJSON(t, "E-bikes", 7, longPrompt)))
	_, err := NewSynthesizer(fake, "m", nil).Synthesize(context.Background(), topic, types.DefaultSettings(), "")
	require.NoError(t, err)
	assert.NotContains(t, fake.UserPrompt(0), "Research data:")
	assert.NotContains(t, fake.Last().System(), "Use the research data provided")
}

func TestSynthesizePromptCarriesSettings(t *testing.T) {
	fake := llmtest.NewFake(llmtest.Text(outlineJSON(t, "E-bikes", 7, longPrompt)))
	s := types.DefaultSettings()
	s.SectionLength = types.LengthLong
	s.EngagementElements = types.EngagementElements{Stories: true}

	_, err := NewSynthesizer(fake, "m", nil).Synthesize(context.Background(), topic, s, "")
	require.NoError(t, err)

	system := fake.Last().System()
	assert.Contains(t, system, `"estimated_words": 400`)
	assert.Contains(t, system, "(350-450 words)")
	assert.Contains(t, system, "- Use stories and anecdotes to illustrate points")
	assert.NotContains(t, system, "rhetorical questions")
}

func TestSynthesizeMalformed(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"prose", "Section 1: Introduction"},
		{"no sections", `{"article_title": "x", "sections": []}`},
		{"bad type", `{"article_title": "x", "sections": {"title": "y"}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := llmtest.NewFake(llmtest.Text(tt.text))
			res, err := NewSynthesizer(fake, "m", nil).Synthesize(context.Background(), topic, types.DefaultSettings(), "")
			assert.ErrorIs(t, err, llm.ErrMalformedResponse)
			assert.Nil(t, res)
		})
	}
}

func TestCheckNumbersSections(t *testing.T) {
	o := &types.Outline{Sections: []types.SectionSpec{
		{Title: "a", Prompt: longPrompt},
		{Title: "b", Prompt: longPrompt},
		{Number: 7, Title: "c", Prompt: longPrompt},
	}}
	assert.Empty(t, Check(o, 3))
	assert.Equal(t, 1, o.Sections[0].Number)
	assert.Equal(t, 2, o.Sections[1].Number)
	assert.Equal(t, 7, o.Sections[2].Number)
}

func TestTruncateRunes(t *testing.T) {
	assert.Equal(t, "zaż", truncate("zażółć", 3))
	assert.Equal(t, "abc", truncate("abc", 10))
	assert.Equal(t, 5, utf8.RuneCountInString(truncate(strings.Repeat("ł", 9), 5)))
}
