// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package research

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"github.com/pdiddy/melchior/pkg/types"
)

const systemPrompt = `You are a research assistant who delivers thorough, well documented information.

IMPORTANT:
1. Gather information from AT LEAST 4-5 DIFFERENT SOURCES.
2. Use varied sources: scientific journals, respected magazines, industry reports, government statistics.
3. Cite every source you use.
4. Present different perspectives on the subject.
5. Give the most recent data, studies and examples available.

Your research must include:
- Current statistics and data
- Expert opinions and commentary (with their affiliation)
- Examples and case studies
- The latest trends in the field`

var userPromptTmpl = template.Must(template.New("research-user").Funcs(template.FuncMap{
	"join": strings.Join,
}).Parse(`Research the subject in detail: '{{.Topic.Title}}'. Keywords to cover: {{join .Topic.Keywords ", "}}. Collect varied information from MANY different sources and make sure every source is clearly marked. Write the research in {{.Language}}.`))

func renderUserPrompt(topic types.Topic, language string) (string, error) {
	var buf bytes.Buffer
	err := userPromptTmpl.Execute(&buf, struct {
		Topic    types.Topic
		Language string
	}{topic, language})
	if err != nil {
		return "", fmt.Errorf("rendering research prompt: %w", err)
	}
	return buf.String(), nil
}
