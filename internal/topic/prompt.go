// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package topic

import (
	"bytes"
	"fmt"
	"text/template"

	"github.com/pdiddy/melchior/pkg/types"
)

// systemPromptTmpl frames the proposer as an SEO editor and fixes the JSON
// shape of the answer.
var systemPromptTmpl = template.Must(template.New("topics-system").Parse(`You are an SEO and content marketing expert. Propose article topics.

Search intent: {{.Settings.SearchIntent}}
Complexity level: {{.Settings.ComplexityLevel}}
Content type: {{.Settings.ContentType}}
Language: {{.Settings.Language}}

Respond with a JSON object in exactly this format:
{
    "topics": [
        {
            "id": 1,
            "title": "Article title (max 60 characters)",
            "keywords": ["keyword1", "keyword2", "keyword3"],
            "description": "Short description of the topic (max 200 characters)"
        }
    ]
}

Requirements:
- Exactly {{.Settings.NumTopics}} topics
- Every topic has a unique id (1-{{.Settings.NumTopics}})
- Titles are catchy and SEO-friendly
- 3-5 keywords per topic
- A short but substantive description
- Write titles, keywords and descriptions in {{.Settings.Language}}
`))

// userPromptTmpl carries the operator's keywords.
var userPromptTmpl = template.Must(template.New("topics-user").Parse(
	`Generate {{.Settings.NumTopics}} article topics based on the keywords: {{.Keywords}}`))

type promptData struct {
	Keywords string
	Settings types.Settings
}

func renderPrompts(keywords string, s types.Settings) (system, user string, err error) {
	data := promptData{Keywords: keywords, Settings: s}
	var sys, usr bytes.Buffer
	if err := systemPromptTmpl.Execute(&sys, data); err != nil {
		return "", "", fmt.Errorf("rendering system prompt: %w", err)
	}
	if err := userPromptTmpl.Execute(&usr, data); err != nil {
		return "", "", fmt.Errorf("rendering user prompt: %w", err)
	}
	return sys.String(), usr.String(), nil
}
