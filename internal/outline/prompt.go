// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package outline

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"github.com/pdiddy/melchior/pkg/types"
)

var funcs = template.FuncMap{"join": strings.Join}

// systemPromptTmpl describes the outline contract: JSON shape, exact section
// count, per-section length and the detail expected from section prompts.
var systemPromptTmpl = template.Must(template.New("outline-system").Funcs(funcs).Parse(`You are an expert at planning articles.

Search intent: {{.Settings.SearchIntent}}
Complexity level: {{.Settings.ComplexityLevel}}
Content type: {{.Settings.ContentType}}
Readability: {{.Settings.ReadabilityIndex}}
Language: {{.Settings.Language}}
Engagement elements:{{range .Engagement}}
- {{.}}{{end}}

Respond with a JSON object in exactly this format:
{
    "article_title": "Final article title",
    "target_audience": "Detailed description of the target audience",
    "main_keywords": ["keyword1", "keyword2", "keyword3", "keyword4", "keyword5"],
    "sections": [
        {
            "section_number": 1,
            "title": "Section title",
            "estimated_words": {{.TargetWords}},
            "keywords": ["keyword1", "keyword2"],
            "prompt": "Detailed instructions for writing the section"
        }
    ]
}

IMPORTANT INSTRUCTIONS:
1. Plan a COHERENT article that reads as one continuous text.
2. Create EXACTLY {{.Settings.NumSections}} sections (numbered 1 to {{.Settings.NumSections}}).
3. The first section is an introduction that draws the reader in.
4. The last section is a summary of the most important points.
5. Every section has a unique title.
6. Section titles use sentence case, not title case.
7. Every section has 2-3 keywords.
8. Every section is {{.TargetWords}} words long ({{.WordRange}} words).

SECTION PROMPTS:
- Section prompts must be VERY DETAILED (at least {{.MinPromptChars}} characters).
- Every prompt states:
  a) the exact purpose of the section
  b) 3-5 key points to cover
  c) the suggested tone and style
  d) concrete information the section must contain
  e) structural hints (for example, open with an example, close with a question)
- Prompts are never generic; they give concrete direction.
- Prompts ask for the section to be written in paragraphs.

ADDITIONAL REQUIREMENTS:
1. Sections follow LOGICALLY from one another and form a smooth narrative.
2. Do NOT plan subheadings or subsections; each section is one continuous block of paragraphs.
3. The article title is catchy, SEO-friendly and clearly states the subject.
4. Prompts ask each section to avoid opening with the same grammatical pattern as the others.
{{if .HasResearch}}
Use the research data provided to build a complete, well planned outline.
{{end}}`))

var userPromptTmpl = template.Must(template.New("outline-user").Funcs(funcs).Parse(`Create an article outline.
Topic: {{.Topic.Title}}
Keywords: {{join .Topic.Keywords ", "}}
Description: {{.Topic.Description}}
Number of sections: EXACTLY {{.Settings.NumSections}}
{{if .HasResearch}}Research data:
{{.Research}}{{end}}`))

type promptData struct {
	Topic          types.Topic
	Settings       types.Settings
	Engagement     []string
	TargetWords    int
	WordRange      string
	MinPromptChars int
	Research       string
	HasResearch    bool
}

func renderPrompts(topic types.Topic, s types.Settings, research string) (system, user string, err error) {
	data := promptData{
		Topic:          topic,
		Settings:       s,
		Engagement:     s.EngagementElements.Instructions(),
		TargetWords:    s.SectionLength.TargetWords(),
		WordRange:      s.SectionLength.WordRange(),
		MinPromptChars: MinPromptChars,
		Research:       research,
		HasResearch:    research != "",
	}
	var sys, usr bytes.Buffer
	if err := systemPromptTmpl.Execute(&sys, data); err != nil {
		return "", "", fmt.Errorf("rendering system prompt: %w", err)
	}
	if err := userPromptTmpl.Execute(&usr, data); err != nil {
		return "", "", fmt.Errorf("rendering user prompt: %w", err)
	}
	return sys.String(), usr.String(), nil
}
