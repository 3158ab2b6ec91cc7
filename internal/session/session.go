// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package session drives the article pipeline as an explicit state machine:
//
//	Idle -> TopicsGenerated -> (ResearchDone) -> OutlineGenerated -> ArticleGenerated
//
// Every transition is triggered by the caller. A stage that fails leaves the
// state and all artifacts as they were. A Session is owned by one caller and
// is not safe for concurrent use.
package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pdiddy/melchior/internal/draft"
	"github.com/pdiddy/melchior/internal/llm"
	"github.com/pdiddy/melchior/internal/outline"
	"github.com/pdiddy/melchior/internal/research"
	"github.com/pdiddy/melchior/internal/topic"
	"github.com/pdiddy/melchior/pkg/types"
)

// ErrInvalidTransition is returned when a stage is called before its
// prerequisites exist.
var ErrInvalidTransition = errors.New("invalid transition")

// State is a pipeline position.
type State int

const (
	StateIdle State = iota
	StateTopicsGenerated
	StateResearchDone
	StateOutlineGenerated
	StateArticleGenerated
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateTopicsGenerated:
		return "topics-generated"
	case StateResearchDone:
		return "research-done"
	case StateOutlineGenerated:
		return "outline-generated"
	case StateArticleGenerated:
		return "article-generated"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Stages bundles the pipeline stages a session drives.
type Stages struct {
	Topics   *topic.Proposer
	Research *research.Researcher
	Outline  *outline.Synthesizer
	Draft    *draft.Drafter
}

// NewStages builds every stage on one client with the per-stage models.
func NewStages(client llm.Client, models types.ModelConfig, logger *zap.Logger) Stages {
	return Stages{
		Topics:   topic.NewProposer(client, models.Topics, logger.Named("topic")),
		Research: research.NewResearcher(client, models.Research, logger.Named("research")),
		Outline:  outline.NewSynthesizer(client, models.Outline, logger.Named("outline")),
		Draft:    draft.NewDrafter(client, models.Section, logger.Named("draft")),
	}
}

// Session holds the artifacts of one pipeline run.
type Session struct {
	id     string
	stages Stages
	logger *zap.Logger

	settings types.Settings
	state    State

	keywords string
	topics   []types.Topic
	selected *types.Topic
	research map[int]types.ResearchResult
	outline  *types.Outline
	article  *types.Article

	// warnings holds the corrections made to the settings passed to New.
	warnings []string
}

// New returns an idle session using settings, normalized. Corrections made
// during normalization are available from Warnings.
func New(stages Stages, settings types.Settings, logger *zap.Logger) *Session {
	if logger == nil {
		logger = zap.NewNop()
	}
	warnings := settings.Normalize()
	id := uuid.NewString()
	return &Session{
		id:       id,
		stages:   stages,
		logger:   logger.With(zap.String("session", id)),
		settings: settings,
		research: make(map[int]types.ResearchResult),
		warnings: warnings,
	}
}

func (s *Session) ID() string               { return s.id }
func (s *Session) State() State             { return s.state }
func (s *Session) Settings() types.Settings { return s.settings }
func (s *Session) Keywords() string         { return s.keywords }
func (s *Session) Topics() []types.Topic    { return s.topics }
func (s *Session) Outline() *types.Outline  { return s.outline }
func (s *Session) Article() *types.Article  { return s.article }

// Warnings returns the settings corrections made when the session was
// created.
func (s *Session) Warnings() []string { return s.warnings }

// Selected returns the selected topic, or nil.
func (s *Session) Selected() *types.Topic { return s.selected }

// CachedResearch returns the research cached for a topic.
func (s *Session) CachedResearch(topicID int) (types.ResearchResult, bool) {
	r, ok := s.research[topicID]
	return r, ok
}

// UpdateSettings replaces the settings for subsequent stages and returns
// the normalization warnings. Artifacts already produced are kept.
func (s *Session) UpdateSettings(settings types.Settings) []string {
	warnings := settings.Normalize()
	s.settings = settings
	return warnings
}

// GenerateTopics proposes topics for keywords. On success the previous
// topics, selection, outline, article and research cache are discarded.
func (s *Session) GenerateTopics(ctx context.Context, keywords string) ([]string, error) {
	res, err := s.stages.Topics.Propose(ctx, keywords, s.settings)
	if err != nil {
		return nil, err
	}
	s.keywords = keywords
	s.topics = res.Topics
	s.selected = nil
	s.outline = nil
	s.article = nil
	clear(s.research)
	s.transition(StateTopicsGenerated)
	return res.Warnings, nil
}

// SelectTopic selects one of the proposed topics by id. Selecting a topic
// discards any outline and article built for the previous selection.
func (s *Session) SelectTopic(id int) error {
	if len(s.topics) == 0 {
		return fmt.Errorf("%w: no topics to select from", ErrInvalidTransition)
	}
	for i := range s.topics {
		if s.topics[i].ID != id {
			continue
		}
		t := s.topics[i]
		s.selected = &t
		s.outline = nil
		s.article = nil
		if _, ok := s.research[id]; ok {
			s.transition(StateResearchDone)
		} else {
			s.transition(StateTopicsGenerated)
		}
		return nil
	}
	return fmt.Errorf("topic %d not found", id)
}

// Research runs the research stage for the selected topic and caches the
// result. Failures, including research being disabled, leave the session
// unchanged; a *research.Failure carries operator guidance.
func (s *Session) Research(ctx context.Context) (types.ResearchResult, error) {
	if s.selected == nil {
		return types.ResearchResult{}, fmt.Errorf("%w: select a topic first", ErrInvalidTransition)
	}
	res, err := s.stages.Research.Research(ctx, *s.selected, s.settings)
	if err != nil {
		return res, err
	}
	s.research[s.selected.ID] = res
	if s.state < StateResearchDone {
		s.transition(StateResearchDone)
	}
	return res, nil
}

// GenerateOutline synthesizes an outline for the selected topic, using its
// cached research when present. A new outline discards the article.
func (s *Session) GenerateOutline(ctx context.Context) ([]string, error) {
	if s.selected == nil {
		return nil, fmt.Errorf("%w: select a topic first", ErrInvalidTransition)
	}
	cached := s.research[s.selected.ID]
	res, err := s.stages.Outline.Synthesize(ctx, *s.selected, s.settings, cached.Content)
	if err != nil {
		return nil, err
	}
	s.outline = res.Outline
	s.article = nil
	s.transition(StateOutlineGenerated)
	return res.Warnings, nil
}

// SetOutline installs an outline built elsewhere, such as one loaded from a
// file. It does not require topics.
func (s *Session) SetOutline(o *types.Outline) error {
	if o == nil {
		return errors.New("outline is nil")
	}
	if err := outline.Validate(o); err != nil {
		return fmt.Errorf("invalid outline: %w", err)
	}
	s.outline = o
	s.article = nil
	s.transition(StateOutlineGenerated)
	return nil
}

// GenerateArticle drafts the article from the current outline. A failing
// section leaves the previous article, if any, in place.
func (s *Session) GenerateArticle(ctx context.Context) (*types.Article, error) {
	if s.outline == nil {
		return nil, fmt.Errorf("%w: generate an outline first", ErrInvalidTransition)
	}
	var res *types.ResearchResult
	if s.selected != nil {
		if r, ok := s.research[s.selected.ID]; ok {
			res = &r
		}
	}
	a, err := s.stages.Draft.Draft(ctx, s.outline, res, s.settings)
	if err != nil {
		return nil, err
	}
	s.article = a
	s.transition(StateArticleGenerated)
	return a, nil
}

func (s *Session) transition(to State) {
	if s.state != to {
		s.logger.Debug("state change", zap.Stringer("from", s.state), zap.Stringer("to", to))
	}
	s.state = to
}
