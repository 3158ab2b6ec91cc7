// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/pdiddy/melchior/internal/research"
	"github.com/pdiddy/melchior/pkg/types"
)

var (
	okStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#8BC34A")).Bold(true)
	warnStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFC107")).Bold(true)
	errStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#e53935")).Bold(true)
	titleStyle = lipgloss.NewStyle().Bold(true).Underline(true)
	dimStyle   = lipgloss.NewStyle().Faint(true)
)

func printWarnings(w io.Writer, warnings []string) {
	for _, msg := range warnings {
		fmt.Fprintf(w, "%s %s\n", warnStyle.Render("warning:"), msg)
	}
}

func printTopics(w io.Writer, topics []types.Topic) {
	for _, t := range topics {
		fmt.Fprintf(w, "%3d  %s\n", t.ID, titleStyle.Render(t.Title))
		fmt.Fprintf(w, "     %s\n", t.Description)
		fmt.Fprintf(w, "     %s\n", dimStyle.Render("keywords: "+strings.Join(t.Keywords, ", ")))
	}
}

func printOutline(w io.Writer, o *types.Outline) {
	fmt.Fprintf(w, "%s\n", titleStyle.Render(o.Title))
	if o.TargetAudience != "" {
		fmt.Fprintf(w, "audience: %s\n", o.TargetAudience)
	}
	if len(o.Keywords) > 0 {
		fmt.Fprintf(w, "keywords: %s\n", strings.Join(o.Keywords, ", "))
	}
	for _, s := range o.Sections {
		fmt.Fprintf(w, "%3d  %-50s  %4d words\n", s.Number, s.Title, s.TargetWords)
	}
}

func printSectionReport(w io.Writer, total int, r types.SectionReport) {
	status := okStyle.Render("ok")
	note := ""
	if !r.Passed {
		status = warnStyle.Render("short")
		note = " - shorter than expected"
	}
	fmt.Fprintf(w, "%-5s section %d/%d: %d words (target %d)%s\n",
		status, r.Index, total, r.Words, r.DisplayTarget, note)
}

func printArticleSummary(w io.Writer, a *types.Article) {
	fmt.Fprintf(w, "%s article %q: %d words in %d sections\n",
		okStyle.Render("done"), a.Title, a.TotalWords, len(a.Sections))
	if under := a.UnderTarget(); len(under) > 0 {
		fmt.Fprintf(w, "%s %d section(s) under target\n", warnStyle.Render("warning:"), len(under))
	}
}

func printResearch(w io.Writer, r types.ResearchResult, rendered bool) {
	fmt.Fprintf(w, "%s research complete: %d citation(s) from %d source(s)\n",
		okStyle.Render("done"), len(r.Citations), r.Sources)
	if rendered {
		fmt.Fprintln(w, renderMarkdown(r.Content))
	}
}

func printResearchFailure(w io.Writer, f *research.Failure) {
	fmt.Fprintf(w, "%s %v\n", errStyle.Render("research unavailable:"), f.Err)
	for _, g := range f.Guidance {
		fmt.Fprintf(w, "  - %s\n", g)
	}
	fmt.Fprintln(w, "continuing without research")
}

func printError(w io.Writer, err error) {
	fmt.Fprintf(w, "%s %v\n", errStyle.Render("error:"), err)
}

// renderMarkdown renders research text for the terminal, falling back to the
// raw text when rendering fails.
func renderMarkdown(text string) string {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		return text
	}
	out, err := r.Render(text)
	if err != nil {
		return text
	}
	return out
}

// writeArticle writes the article HTML to path, creating parent directories.
func writeArticle(path string, a *types.Article) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating output directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(a.HTML), 0o644); err != nil {
		return fmt.Errorf("writing article: %w", err)
	}
	return nil
}
