// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package research

import (
	"regexp"
	"strings"

	"github.com/pdiddy/melchior/internal/llm"
)

// urlPattern finds URLs in free research text when the service returned no
// structured citations.
var urlPattern = regexp.MustCompile(`https?://[^\s)"'\]]+`)

// domainPattern captures the host of a URL without a leading "www.".
var domainPattern = regexp.MustCompile(`https?://(?:www\.)?([^/]+)`)

// ExtractCitations returns the source references for a research response.
// Structured citations win; only when there are none is the text scanned for
// URLs. The result is deduplicated in first-seen order.
func ExtractCitations(structured []llm.Citation, text string) []string {
	var raw []string
	for _, c := range structured {
		raw = append(raw, c.URL)
	}
	if len(raw) == 0 {
		for _, u := range urlPattern.FindAllString(text, -1) {
			raw = append(raw, strings.TrimRight(u, ".,;:"))
		}
	}
	return dedup(raw)
}

// Domain returns the host of a URL citation, or "" for free-text references.
func Domain(citation string) string {
	m := domainPattern.FindStringSubmatch(citation)
	if m == nil {
		return ""
	}
	return strings.ToLower(m[1])
}

// CountDomains returns the number of distinct source domains.
func CountDomains(citations []string) int {
	seen := make(map[string]bool)
	for _, c := range citations {
		if d := Domain(c); d != "" {
			seen[d] = true
		}
	}
	return len(seen)
}

func dedup(in []string) []string {
	seen := make(map[string]bool, len(in))
	var out []string
	for _, s := range in {
		s = strings.TrimSpace(s)
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}
