// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package outline turns a selected topic, and optionally its research, into
// a structured article plan with one generation call.
package outline

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/pdiddy/melchior/internal/llm"
	"github.com/pdiddy/melchior/pkg/types"
)

const (
	// MaxResearchChars bounds the research text merged into the prompt.
	MaxResearchChars = 8000

	// MinPromptChars is the shortest section prompt considered detailed.
	MinPromptChars = 200
)

// Synthesizer generates article outlines.
type Synthesizer struct {
	client llm.Client
	model  string
	logger *zap.Logger
}

// NewSynthesizer returns a Synthesizer that calls model through client.
func NewSynthesizer(client llm.Client, model string, logger *zap.Logger) *Synthesizer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Synthesizer{client: client, model: model, logger: logger}
}

// Result is a generated outline plus any soft validation warnings.
type Result struct {
	Outline  *types.Outline
	Warnings []string
}

// Synthesize requests an outline of s.NumSections sections for topic.
// research may be empty; longer text is cut to MaxResearchChars. Warnings
// never block: the outline is returned as produced.
func (g *Synthesizer) Synthesize(ctx context.Context, topic types.Topic, s types.Settings, research string) (*Result, error) {
	research = truncate(strings.TrimSpace(research), MaxResearchChars)
	system, user, err := renderPrompts(topic, s, research)
	if err != nil {
		return nil, err
	}

	g.logger.Info("synthesizing outline",
		zap.Int("topic", topic.ID),
		zap.Int("sections", s.NumSections),
		zap.Int("research_chars", utf8.RuneCountInString(research)))

	resp, err := g.client.Generate(ctx, llm.Request{
		Model: g.model,
		Messages: []llm.Message{
			{Role: llm.RoleSystem, Content: system},
			{Role: llm.RoleUser, Content: user},
		},
		Temperature: llm.Float(s.Temperature),
		TopP:        llm.Float(s.TopP),
		MaxTokens:   s.MaxTokens,
		Format:      llm.FormatJSON,
	})
	if err != nil {
		return nil, fmt.Errorf("generating outline: %w", err)
	}

	var o types.Outline
	if err := llm.DecodeJSON(resp.Text, &o); err != nil {
		return nil, fmt.Errorf("decoding outline: %w", err)
	}
	if len(o.Sections) == 0 {
		return nil, fmt.Errorf("%w: outline has no sections", llm.ErrMalformedResponse)
	}

	warnings := Check(&o, s.NumSections)
	if strings.TrimSpace(o.Title) == "" {
		o.Title = topic.Title
		warnings = append(warnings, "outline has no article title, using the topic title")
	}

	g.logger.Info("outline ready",
		zap.String("title", o.Title),
		zap.Int("sections", len(o.Sections)),
		zap.Int("warnings", len(warnings)))
	return &Result{Outline: &o, Warnings: warnings}, nil
}

// Check numbers unnumbered sections and reports deviations from the
// requested plan: a section count other than requested and prompts shorter
// than MinPromptChars.
func Check(o *types.Outline, requested int) []string {
	var warnings []string
	if n := len(o.Sections); n != requested {
		warnings = append(warnings, fmt.Sprintf("model produced %d sections instead of the requested %d", n, requested))
	}

	short := 0
	for i := range o.Sections {
		sec := &o.Sections[i]
		if sec.Number == 0 {
			sec.Number = i + 1
		}
		if utf8.RuneCountInString(strings.TrimSpace(sec.Prompt)) < MinPromptChars {
			short++
		}
	}
	if short > 0 {
		warnings = append(warnings, fmt.Sprintf("%d of %d section prompts are shorter than %d characters; article quality may suffer", short, len(o.Sections), MinPromptChars))
	}
	return warnings
}

// truncate returns the first n runes of s.
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
