//go:build mage

package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

// Article writes an article for keywords into articles/ using the first
// proposed topic and archives it.
func Article(keywords string) error {
	mg.Deps(Build)
	if strings.TrimSpace(keywords) == "" {
		return fmt.Errorf("article needs keywords")
	}
	out := filepath.Join("articles", slug(keywords)+".html")
	return sh.RunV(filepath.Join(binDir, binName), "run", "--archive", "-o", out, keywords)
}

// Topics proposes topics for keywords without writing anything.
func Topics(keywords string) error {
	mg.Deps(Build)
	return sh.RunV(filepath.Join(binDir, binName), "topics", keywords)
}

func slug(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), "-")
}
