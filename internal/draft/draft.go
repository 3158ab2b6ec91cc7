// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package draft writes an article from an outline one section at a time.
// Each section is a single generation call whose length is checked against
// an inflated word budget; short sections are reported, never retried.
// The finished document is an HTML fragment of <h3> headings and paragraph
// bodies, optionally followed by a numbered bibliography.
package draft

import (
	"context"
	"errors"
	"fmt"
	"html"
	"strings"

	"go.uber.org/zap"

	"github.com/pdiddy/melchior/internal/llm"
	"github.com/pdiddy/melchior/pkg/types"
)

// Drafter generates articles section by section.
type Drafter struct {
	client llm.Client
	model  string
	logger *zap.Logger

	// Multiplier inflates the requested length; values below 1 use
	// DefaultMultiplier.
	Multiplier float64

	// Progress, when set, is called after every drafted section.
	Progress func(total int, r types.SectionReport)
}

// NewDrafter returns a Drafter that calls model through client.
func NewDrafter(client llm.Client, model string, logger *zap.Logger) *Drafter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Drafter{client: client, model: model, logger: logger, Multiplier: DefaultMultiplier}
}

// Draft writes the article for o. research may be nil. A failing section
// call aborts the whole article and returns the error; nothing partial is
// returned.
func (d *Drafter) Draft(ctx context.Context, o *types.Outline, research *types.ResearchResult, s types.Settings) (*types.Article, error) {
	if o == nil || len(o.Sections) == 0 {
		return nil, errors.New("outline has no sections")
	}

	var researchText string
	var citations []string
	if research != nil {
		researchText = head(research.Content, researchChars)
		citations = research.Citations
	}

	var doc strings.Builder
	doc.WriteString("<h3>" + html.EscapeString(o.Title) + "</h3>\n\n")

	article := &types.Article{Title: o.Title}
	for i, sec := range o.Sections {
		target := sec.TargetWords
		if target <= 0 {
			target = s.SectionLength.TargetWords()
		}
		plan := PlanLength(target, d.Multiplier)

		system, user, err := renderPrompts(promptData{
			Outline:  o,
			Section:  sec,
			Total:    len(o.Sections),
			Plan:     plan,
			Settings: s,
			Previous: tail(doc.String(), contextChars),
			Research: researchText,
		})
		if err != nil {
			return nil, err
		}

		d.logger.Info("drafting section",
			zap.Int("index", i+1),
			zap.Int("of", len(o.Sections)),
			zap.String("title", sec.Title),
			zap.Int("ai_target", plan.AITarget))

		resp, err := d.client.Generate(ctx, llm.Request{
			Model: d.model,
			Messages: []llm.Message{
				{Role: llm.RoleSystem, Content: system},
				{Role: llm.RoleUser, Content: user},
			},
			Temperature: llm.Float(s.Temperature),
			TopP:        llm.Float(s.TopP),
			MaxTokens:   sectionMaxTokens,
		})
		if err != nil {
			return nil, fmt.Errorf("drafting section %d %q: %w", i+1, sec.Title, err)
		}

		body, err := CleanSection(resp.Text)
		if err != nil {
			return nil, fmt.Errorf("cleaning section %d: %w", i+1, err)
		}
		words := WordCount(body)

		doc.WriteString("<h3>" + html.EscapeString(sec.Title) + "</h3>\n\n" + body + "\n\n")
		article.TotalWords += words

		report := types.SectionReport{
			Index:         i + 1,
			Title:         sec.Title,
			Words:         words,
			DisplayTarget: plan.Display,
			AITarget:      plan.AITarget,
			MinAcceptable: plan.MinAcceptable,
			Passed:        plan.Passed(words),
		}
		article.Sections = append(article.Sections, report)
		if !report.Passed {
			d.logger.Warn("section under target",
				zap.Int("index", report.Index),
				zap.Int("words", words),
				zap.Int("min", plan.MinAcceptable))
		}
		if d.Progress != nil {
			d.Progress(len(o.Sections), report)
		}
	}

	if s.AddBibliography && len(citations) > 0 {
		article.Bibliography = RenderBibliography(citations)
		doc.WriteString(article.Bibliography)
	}
	article.HTML = doc.String()

	d.logger.Info("article drafted",
		zap.Int("sections", len(article.Sections)),
		zap.Int("words", article.TotalWords),
		zap.Int("under_target", len(article.UnderTarget())))
	return article, nil
}
