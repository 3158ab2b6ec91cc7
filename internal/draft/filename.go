// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package draft

import (
	"strings"
	"unicode"
)

// Filename returns the download file name for an article title: spaces
// become underscores, characters unsafe in file names are dropped.
func Filename(title string) string {
	var b strings.Builder
	for _, r := range strings.TrimSpace(title) {
		switch {
		case r == ' ':
			b.WriteRune('_')
		case unicode.IsLetter(r), unicode.IsDigit(r), r == '-', r == '_', r == '.':
			b.WriteRune(r)
		}
	}
	name := strings.Trim(b.String(), "._")
	if name == "" {
		name = "article"
	}
	return name + ".html"
}
