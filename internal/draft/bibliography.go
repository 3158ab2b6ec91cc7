// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package draft

import (
	"html"
	"strings"
)

// RenderBibliography renders citations as a numbered HTML list. URL
// citations become links with the query string removed; other citations are
// plain list items. It returns "" when there are no citations.
func RenderBibliography(citations []string) string {
	if len(citations) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString("\n<h3>Bibliography</h3>\n<ol>\n")
	for _, c := range citations {
		if strings.HasPrefix(c, "http") {
			clean, _, _ := strings.Cut(c, "?")
			clean = html.EscapeString(clean)
			b.WriteString(`    <li><a href="` + clean + `" target="_blank">` + clean + "</a></li>\n")
			continue
		}
		b.WriteString("    <li>" + html.EscapeString(c) + "</li>\n")
	}
	b.WriteString("</ol>\n")
	return b.String()
}
