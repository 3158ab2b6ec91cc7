// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package draft

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"github.com/pdiddy/melchior/pkg/types"
)

const (
	// contextChars is the trailing window of the article passed to each
	// section call.
	contextChars = 4000

	// researchChars is the leading slice of research passed to each
	// section call.
	researchChars = 2000

	// sectionMaxTokens caps every section response.
	sectionMaxTokens = 2000

	// shortfallAllowance is how far below AITarget the prompt tolerates.
	shortfallAllowance = 50

	noResearch = "No research data available."
)

var funcs = template.FuncMap{"join": strings.Join}

var systemPromptTmpl = template.Must(template.New("section-system").Funcs(funcs).Parse(`You are a professional copywriter. Your task is to write ONE SECTION of an article.

LENGTH REQUIREMENTS - VERY IMPORTANT:
1. This section MUST be EXACTLY {{.Plan.AITarget}} words long.
2. The minimum is {{.Floor}} words.
3. Count the words after writing and if there are fewer than {{.Plan.AITarget}}, EXTEND the text.

SECTION SPECIFICATION:
- Section title: {{.Section.Title}}
- Keywords: {{join .Section.Keywords ", "}}
- Goal: {{.Section.Prompt}}
- Section number: {{.Section.Number}} of {{.Total}}

FORMAT:
[Exactly {{.Plan.AITarget}} words of section content, without any headings]

STYLE AND CONTENT:
1. The text is detailed, informative and valuable.
2. Weave keywords in naturally.
3. Avoid repetition and filler.
4. Do not create subsections or subheadings; write one continuous text.
5. Stay consistent with the earlier sections.
6. Split the text into paragraphs with <p> and </p> tags.
7. AVOID opening with the same grammatical structure as other sections.
8. Vary how the section opens: a question, a quote, an anecdote, a statistic.
9. Do NOT add the word count at the end of the section.
10. Write in {{.Settings.Language}} at a {{.Settings.ReadabilityIndex}} readability level for a {{.Settings.ComplexityLevel}} audience.

VERY IMPORTANT:
- Generate ONLY this one section, not the whole article.
- Do not repeat content from previous sections.
- MAKE SURE the section has at least {{.Floor}} words.
`))

var userPromptTmpl = template.Must(template.New("section-user").Parse(`Write the section "{{.Section.Title}}" for the article "{{.Outline.Title}}".

Target audience: {{.Outline.TargetAudience}}

Earlier sections of the article (for context):
{{.Previous}}

Research data (use this information):
{{.Research}}

IMPORTANT: This section MUST contain EXACTLY {{.Plan.AITarget}} words. Count the words before finishing.
`))

type promptData struct {
	Outline  *types.Outline
	Section  types.SectionSpec
	Total    int
	Plan     LengthPlan
	Floor    int
	Settings types.Settings
	Previous string
	Research string
}

func renderPrompts(data promptData) (system, user string, err error) {
	data.Floor = max(data.Plan.AITarget-shortfallAllowance, data.Plan.MinAcceptable)
	if data.Research == "" {
		data.Research = noResearch
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

// tail returns the last n runes of s.
func tail(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[len(r)-n:])
}

// head returns the first n runes of s.
func head(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
