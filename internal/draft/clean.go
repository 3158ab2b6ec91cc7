// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package draft

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"

	"github.com/yuin/goldmark"
	gmhtml "github.com/yuin/goldmark/renderer/html"
	"golang.org/x/net/html"

	"github.com/pdiddy/melchior/internal/llm"
)

var (
	// fenceLinePattern matches stray code fence lines left inside a body.
	fenceLinePattern = regexp.MustCompile("(?m)^\\s*```[a-zA-Z]*\\s*$\\n?")

	// htmlHeadingPattern matches a heading element the model re-emitted.
	htmlHeadingPattern = regexp.MustCompile(`(?is)<h[1-6][^>]*>.*?</h[1-6]>\s*`)

	// mdHeadingPattern matches a Markdown ATX heading line.
	mdHeadingPattern = regexp.MustCompile(`(?m)^[ \t]{0,3}#{1,6}[ \t]+.*$\n?`)

	paragraphPattern = regexp.MustCompile(`(?i)<p[\s>]`)
)

var markdown = goldmark.New(goldmark.WithRendererOptions(gmhtml.WithUnsafe()))

// CleanSection normalizes a generated section body: fences and headings are
// removed, and a body without paragraph markup is rendered from Markdown.
func CleanSection(body string) (string, error) {
	body = llm.StripFences(body)
	body = fenceLinePattern.ReplaceAllString(body, "")
	body = htmlHeadingPattern.ReplaceAllString(body, "")
	body = mdHeadingPattern.ReplaceAllString(body, "")
	body = strings.TrimSpace(body)
	if body == "" || paragraphPattern.MatchString(body) {
		return body, nil
	}

	var buf bytes.Buffer
	if err := markdown.Convert([]byte(body), &buf); err != nil {
		return "", fmt.Errorf("rendering section markdown: %w", err)
	}
	return strings.TrimSpace(buf.String()), nil
}

// WordCount returns the number of whitespace-separated words in the text of
// an HTML fragment, with all markup removed.
func WordCount(fragment string) int {
	z := html.NewTokenizer(strings.NewReader(fragment))
	var text strings.Builder
	for {
		switch z.Next() {
		case html.ErrorToken:
			// io.EOF or a tokenizer error; either way the text so far counts.
			return len(strings.Fields(text.String()))
		case html.TextToken:
			text.Write(z.Text())
		}
	}
}
