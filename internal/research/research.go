// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package research performs the optional web-research stage for a topic.
// Research is best effort: when the search-augmented call fails the stage
// returns an empty result and a *Failure explaining what to check, and the
// pipeline continues without research.
package research

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/pdiddy/melchior/internal/llm"
	"github.com/pdiddy/melchior/pkg/types"
)

// ErrDisabled is returned when research is switched off in the settings.
var ErrDisabled = errors.New("research is disabled in settings")

// Failure describes a research call that did not produce usable research.
type Failure struct {
	TopicID int
	Model   string
	Err     error

	// Guidance lists what the operator can check to make research work.
	Guidance []string
}

func (f *Failure) Error() string {
	return fmt.Sprintf("research for topic %d failed: %v", f.TopicID, f.Err)
}

func (f *Failure) Unwrap() error { return f.Err }

// Researcher runs search-augmented research calls.
type Researcher struct {
	client llm.Client
	model  string
	logger *zap.Logger
}

// NewResearcher returns a Researcher that calls model through client.
// model must support web search.
func NewResearcher(client llm.Client, model string, logger *zap.Logger) *Researcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Researcher{client: client, model: model, logger: logger}
}

// Research gathers web research for topic. It returns ErrDisabled without
// calling the service when s.DoResearch is false. Any other failure yields an
// empty result for the topic and a *Failure.
func (r *Researcher) Research(ctx context.Context, topic types.Topic, s types.Settings) (types.ResearchResult, error) {
	empty := types.ResearchResult{TopicID: topic.ID}
	if !s.DoResearch {
		return empty, ErrDisabled
	}

	user, err := renderUserPrompt(topic, s.Language)
	if err != nil {
		return empty, err
	}

	r.logger.Info("researching topic",
		zap.Int("topic", topic.ID),
		zap.String("model", r.model),
		zap.String("context_size", string(s.SearchContextSize)))

	resp, err := r.client.Generate(ctx, llm.Request{
		Model: r.model,
		Messages: []llm.Message{
			{Role: llm.RoleSystem, Content: systemPrompt},
			{Role: llm.RoleUser, Content: user},
		},
		WebSearch: &llm.WebSearch{ContextSize: string(s.SearchContextSize)},
	})
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return empty, err
		}
		return empty, r.fail(topic.ID, err)
	}

	content := strings.TrimSpace(resp.Text)
	if content == "" {
		return empty, r.fail(topic.ID, fmt.Errorf("%w: research response is empty", llm.ErrMalformedResponse))
	}

	citations := ExtractCitations(resp.Citations, content)
	result := types.ResearchResult{
		TopicID:   topic.ID,
		Content:   content,
		Citations: citations,
		Sources:   CountDomains(citations),
	}

	r.logger.Info("research complete",
		zap.Int("topic", topic.ID),
		zap.Int("citations", len(citations)),
		zap.Int("sources", result.Sources),
		zap.Bool("structured", len(resp.Citations) > 0))
	return result, nil
}

func (r *Researcher) fail(topicID int, err error) *Failure {
	r.logger.Warn("research failed", zap.Int("topic", topicID), zap.Error(err))
	return &Failure{
		TopicID:  topicID,
		Model:    r.model,
		Err:      err,
		Guidance: guidance(r.model, err),
	}
}

// guidance returns the checks relevant to err, most specific first.
func guidance(model string, err error) []string {
	access := fmt.Sprintf("Confirm your account has access to the search-capable model %q (models.research).", model)
	key := "Confirm the API key is valid and allowed to use web search."
	sdk := "Confirm the provider supports web search options for this model; search-preview models are required on OpenAI."

	switch {
	case errors.Is(err, llm.ErrSearchUnsupported):
		return []string{sdk, access}
	case errors.Is(err, llm.ErrUnauthorized):
		return []string{key, access}
	case errors.Is(err, llm.ErrUnavailable):
		return []string{"The service is unreachable or rate limited; try again later.", access}
	default:
		return []string{access, key, sdk}
	}
}
