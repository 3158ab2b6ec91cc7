// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the melchior article
// pipeline: settings, topics, research results, outlines, and articles.
package types

// Topic is a candidate article subject proposed by the topic stage.
type Topic struct {
	// ID is the 1-based identifier assigned by the proposer.
	ID int `json:"id" yaml:"id"`

	// Title is the SEO-oriented article title.
	Title string `json:"title" yaml:"title"`

	// Keywords lists the topic keywords, normally three to five.
	Keywords []string `json:"keywords" yaml:"keywords"`

	// Description briefly explains what the article would cover.
	Description string `json:"description" yaml:"description"`
}

// ResearchResult holds the outcome of web research for one topic.
type ResearchResult struct {
	// TopicID is the topic the research was performed for.
	TopicID int `json:"topic_id" yaml:"topic_id"`

	// Content is the free-text research summary returned by the model.
	Content string `json:"content" yaml:"content"`

	// Citations lists source URLs (or free-text references) in first-seen order.
	Citations []string `json:"citations" yaml:"citations"`

	// Sources is the number of distinct source domains among Citations.
	Sources int `json:"sources" yaml:"sources"`
}

// IsEmpty reports whether the research produced no usable content.
func (r ResearchResult) IsEmpty() bool {
	return r.Content == "" && len(r.Citations) == 0
}

// SectionSpec is one planned section of an article.
type SectionSpec struct {
	// Number is the 1-based position in the outline.
	Number int `json:"section_number" yaml:"section_number"`

	// Title is the section heading.
	Title string `json:"title" yaml:"title"`

	// TargetWords is the planned length of the section.
	TargetWords int `json:"estimated_words" yaml:"estimated_words"`

	// Keywords lists the section keywords.
	Keywords []string `json:"keywords" yaml:"keywords"`

	// Prompt holds the generation instructions for the section.
	Prompt string `json:"prompt" yaml:"prompt"`
}

// Outline is the structured plan of an article.
type Outline struct {
	Title          string        `json:"article_title" yaml:"article_title"`
	TargetAudience string        `json:"target_audience" yaml:"target_audience"`
	Keywords       []string      `json:"main_keywords" yaml:"main_keywords"`
	Sections       []SectionSpec `json:"sections" yaml:"sections"`
}

// SectionReport records how one drafted section measured up against its
// length plan.
type SectionReport struct {
	Index         int    `json:"index" yaml:"index"`
	Title         string `json:"title" yaml:"title"`
	Words         int    `json:"words" yaml:"words"`
	DisplayTarget int    `json:"display_target" yaml:"display_target"`
	AITarget      int    `json:"ai_target" yaml:"ai_target"`
	MinAcceptable int    `json:"min_acceptable" yaml:"min_acceptable"`
	Passed        bool   `json:"passed" yaml:"passed"`
}

// Article is the terminal artifact of the pipeline.
type Article struct {
	// Title is the article title from the outline.
	Title string `json:"title" yaml:"title"`

	// HTML is the full document: headings, section bodies and the
	// optional bibliography block.
	HTML string `json:"html" yaml:"html"`

	// Bibliography is the rendered bibliography block, empty when none
	// was appended.
	Bibliography string `json:"bibliography,omitempty" yaml:"bibliography,omitempty"`

	// TotalWords is the sum of the section word counts.
	TotalWords int `json:"total_words" yaml:"total_words"`

	// Sections holds the per-section length reports in outline order.
	Sections []SectionReport `json:"sections" yaml:"sections"`
}

// UnderTarget returns the reports of sections shorter than their minimum.
func (a *Article) UnderTarget() []SectionReport {
	var out []SectionReport
	for _, s := range a.Sections {
		if !s.Passed {
			out = append(out, s)
		}
	}
	return out
}
