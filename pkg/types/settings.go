// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "fmt"

// SearchIntent describes what a reader searching for the article wants.
type SearchIntent string

const (
	IntentInformational SearchIntent = "informational"
	IntentNavigational  SearchIntent = "navigational"
	IntentTransactional SearchIntent = "transactional"
	IntentCommercial    SearchIntent = "commercial"
)

// ComplexityLevel is the expected expertise of the audience.
type ComplexityLevel string

const (
	ComplexityBasic        ComplexityLevel = "basic"
	ComplexityIntermediate ComplexityLevel = "intermediate"
	ComplexityExpert       ComplexityLevel = "expert"
)

// ContentType is the editorial format of the article.
type ContentType string

const (
	ContentHowTo      ContentType = "how-to"
	ContentList       ContentType = "list"
	ContentGuide      ContentType = "guide"
	ContentCaseStudy  ContentType = "case-study"
	ContentReview     ContentType = "review"
	ContentComparison ContentType = "comparison"
	ContentFAQ        ContentType = "faq"
)

// Readability controls sentence and vocabulary complexity.
type Readability string

const (
	ReadabilitySimpler     Readability = "simpler"
	ReadabilityStandard    Readability = "standard"
	ReadabilityMoreComplex Readability = "more-complex"
)

// SectionLength selects the target word count of each article section.
type SectionLength string

const (
	LengthShort  SectionLength = "short"
	LengthMedium SectionLength = "medium"
	LengthLong   SectionLength = "long"
)

// TargetWords returns the nominal word count for a section length.
// Unknown values map to the medium target.
func (l SectionLength) TargetWords() int {
	switch l {
	case LengthShort:
		return 225
	case LengthLong:
		return 400
	default:
		return 300
	}
}

// WordRange returns the human-readable word range for a section length.
func (l SectionLength) WordRange() string {
	switch l {
	case LengthShort:
		return "200-250"
	case LengthLong:
		return "350-450"
	default:
		return "250-350"
	}
}

// SearchContextSize is how much web context a search-augmented model pulls in.
type SearchContextSize string

const (
	ContextLow    SearchContextSize = "low"
	ContextMedium SearchContextSize = "medium"
	ContextHigh   SearchContextSize = "high"
)

// EngagementElements toggles the reader-engagement techniques requested
// from the model.
type EngagementElements struct {
	RhetoricalQuestions bool `json:"rhetorical_questions" yaml:"rhetorical_questions"`
	StatisticsQuotes    bool `json:"statistics_quotes" yaml:"statistics_quotes"`
	ExamplesCases       bool `json:"examples_cases" yaml:"examples_cases"`
	Stories             bool `json:"stories" yaml:"stories"`
}

// Instructions returns one prompt instruction per enabled element, in a
// fixed order.
func (e EngagementElements) Instructions() []string {
	var out []string
	if e.RhetoricalQuestions {
		out = append(out, "Use rhetorical questions to engage the reader")
	}
	if e.StatisticsQuotes {
		out = append(out, "Include statistics and expert quotes")
	}
	if e.ExamplesCases {
		out = append(out, "Add examples and case studies")
	}
	if e.Stories {
		out = append(out, "Use stories and anecdotes to illustrate points")
	}
	return out
}

// Bounds for numeric settings.
const (
	MinTopics    = 3
	MaxTopics    = 10
	MinSections  = 3
	MaxSections  = 15
	MinMaxTokens = 100
	MaxMaxTokens = 4000
)

// Settings holds the generation parameters for one pipeline run. Stages
// receive it by value so a run never observes a change made mid-way.
type Settings struct {
	// Temperature is the sampling temperature in [0, 1].
	Temperature float64 `json:"temperature" yaml:"temperature"`

	// TopP is the nucleus sampling mass in [0, 1].
	TopP float64 `json:"top_p" yaml:"top_p"`

	// MaxTokens caps the response length of topic and outline calls.
	MaxTokens int `json:"max_tokens" yaml:"max_tokens"`

	// DoResearch enables the optional web research stage.
	DoResearch bool `json:"do_research" yaml:"do_research"`

	// SearchContextSize is passed to the search-augmented model.
	SearchContextSize SearchContextSize `json:"search_context_size" yaml:"search_context_size"`

	// AddBibliography appends the research citations to the article.
	AddBibliography bool `json:"add_bibliography" yaml:"add_bibliography"`

	SearchIntent       SearchIntent       `json:"search_intent" yaml:"search_intent"`
	ComplexityLevel    ComplexityLevel    `json:"complexity_level" yaml:"complexity_level"`
	EngagementElements EngagementElements `json:"engagement_elements" yaml:"engagement_elements"`
	ContentType        ContentType        `json:"content_type" yaml:"content_type"`
	ReadabilityIndex   Readability        `json:"readability_index" yaml:"readability_index"`

	// NumTopics is how many topics the proposer asks for, in [3, 10].
	NumTopics int `json:"num_topics" yaml:"num_topics"`

	// NumSections is how many outline sections are requested, in [3, 15].
	NumSections int `json:"num_sections" yaml:"num_sections"`

	SectionLength SectionLength `json:"section_length" yaml:"section_length"`

	// Language is the language the article is written in.
	Language string `json:"language" yaml:"language"`
}

// DefaultSettings returns the built-in settings used when no settings file
// exists or it cannot be parsed.
func DefaultSettings() Settings {
	return Settings{
		Temperature:       0.7,
		TopP:              1.0,
		MaxTokens:         2000,
		DoResearch:        false,
		SearchContextSize: ContextMedium,
		AddBibliography:   true,
		SearchIntent:      IntentInformational,
		ComplexityLevel:   ComplexityIntermediate,
		EngagementElements: EngagementElements{
			RhetoricalQuestions: true,
			StatisticsQuotes:    true,
			ExamplesCases:       true,
			Stories:             false,
		},
		ContentType:      ContentGuide,
		ReadabilityIndex: ReadabilityStandard,
		NumTopics:        5,
		NumSections:      7,
		SectionLength:    LengthMedium,
		Language:         "English",
	}
}

// Normalize clamps numeric fields into their allowed ranges and replaces
// unknown enumeration values with defaults. It returns one warning per
// corrected field; an already valid record yields no warnings.
func (s *Settings) Normalize() []string {
	def := DefaultSettings()
	var warnings []string

	clampFloat := func(name string, v *float64, lo, hi float64) {
		if *v < lo || *v > hi {
			c := min(max(*v, lo), hi)
			warnings = append(warnings, fmt.Sprintf("%s %.2f out of range [%.1f, %.1f], using %.2f", name, *v, lo, hi, c))
			*v = c
		}
	}
	clampInt := func(name string, v *int, lo, hi int) {
		if *v < lo || *v > hi {
			c := min(max(*v, lo), hi)
			warnings = append(warnings, fmt.Sprintf("%s %d out of range [%d, %d], using %d", name, *v, lo, hi, c))
			*v = c
		}
	}

	clampFloat("temperature", &s.Temperature, 0, 1)
	clampFloat("top_p", &s.TopP, 0, 1)
	clampInt("max_tokens", &s.MaxTokens, MinMaxTokens, MaxMaxTokens)
	clampInt("num_topics", &s.NumTopics, MinTopics, MaxTopics)
	clampInt("num_sections", &s.NumSections, MinSections, MaxSections)

	if !oneOf(s.SearchContextSize, ContextLow, ContextMedium, ContextHigh) {
		warnings = append(warnings, unknownValue("search_context_size", s.SearchContextSize, def.SearchContextSize))
		s.SearchContextSize = def.SearchContextSize
	}
	if !oneOf(s.SearchIntent, IntentInformational, IntentNavigational, IntentTransactional, IntentCommercial) {
		warnings = append(warnings, unknownValue("search_intent", s.SearchIntent, def.SearchIntent))
		s.SearchIntent = def.SearchIntent
	}
	if !oneOf(s.ComplexityLevel, ComplexityBasic, ComplexityIntermediate, ComplexityExpert) {
		warnings = append(warnings, unknownValue("complexity_level", s.ComplexityLevel, def.ComplexityLevel))
		s.ComplexityLevel = def.ComplexityLevel
	}
	if !oneOf(s.ContentType, ContentHowTo, ContentList, ContentGuide, ContentCaseStudy, ContentReview, ContentComparison, ContentFAQ) {
		warnings = append(warnings, unknownValue("content_type", s.ContentType, def.ContentType))
		s.ContentType = def.ContentType
	}
	if !oneOf(s.ReadabilityIndex, ReadabilitySimpler, ReadabilityStandard, ReadabilityMoreComplex) {
		warnings = append(warnings, unknownValue("readability_index", s.ReadabilityIndex, def.ReadabilityIndex))
		s.ReadabilityIndex = def.ReadabilityIndex
	}
	if !oneOf(s.SectionLength, LengthShort, LengthMedium, LengthLong) {
		warnings = append(warnings, unknownValue("section_length", s.SectionLength, def.SectionLength))
		s.SectionLength = def.SectionLength
	}
	if s.Language == "" {
		warnings = append(warnings, fmt.Sprintf("language empty, using %q", def.Language))
		s.Language = def.Language
	}

	return warnings
}

func oneOf[T comparable](v T, allowed ...T) bool {
	for _, a := range allowed {
		if v == a {
			return true
		}
	}
	return false
}

func unknownValue[T ~string](field string, got, fallback T) string {
	return fmt.Sprintf("%s %q is not recognized, using %q", field, string(got), string(fallback))
}
