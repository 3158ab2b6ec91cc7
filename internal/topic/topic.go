// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package topic proposes candidate article topics from operator keywords.
// One generation call returns a JSON list of topics; structural problems are
// errors, soft problems (count, keyword spread, ids) are warnings.
package topic

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/pdiddy/melchior/internal/llm"
	"github.com/pdiddy/melchior/pkg/types"
)

// ErrNoKeywords is returned when Propose is called with blank keywords.
var ErrNoKeywords = errors.New("keywords are required")

// Keyword count bounds a well-formed topic should respect.
const (
	minKeywords = 3
	maxKeywords = 5
)

// Proposer generates topic proposals.
type Proposer struct {
	client llm.Client
	model  string
	logger *zap.Logger
}

// NewProposer returns a Proposer that calls model through client.
func NewProposer(client llm.Client, model string, logger *zap.Logger) *Proposer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Proposer{client: client, model: model, logger: logger}
}

// Result is the outcome of one proposal call.
type Result struct {
	Topics   []types.Topic
	Warnings []string
}

type topicsPayload struct {
	Topics []types.Topic `json:"topics"`
}

// Propose asks the service for s.NumTopics topics about keywords. A response
// that cannot be decoded returns an error wrapping llm.ErrMalformedResponse
// and no topics; there is no retry.
func (p *Proposer) Propose(ctx context.Context, keywords string, s types.Settings) (*Result, error) {
	keywords = strings.TrimSpace(keywords)
	if keywords == "" {
		return nil, ErrNoKeywords
	}

	system, user, err := renderPrompts(keywords, s)
	if err != nil {
		return nil, err
	}

	p.logger.Info("proposing topics",
		zap.String("keywords", keywords),
		zap.Int("requested", s.NumTopics))

	resp, err := p.client.Generate(ctx, llm.Request{
		Model: p.model,
		Messages: []llm.Message{
			{Role: llm.RoleSystem, Content: system},
			{Role: llm.RoleUser, Content: user},
		},
		Temperature: llm.Float(s.Temperature),
		TopP:        llm.Float(s.TopP),
		MaxTokens:   s.MaxTokens,
		Format:      llm.FormatJSON,
	})
	if err != nil {
		return nil, fmt.Errorf("generating topics: %w", err)
	}

	var payload topicsPayload
	if err := llm.DecodeJSON(resp.Text, &payload); err != nil {
		return nil, fmt.Errorf("decoding topics: %w", err)
	}

	topics, warnings := validate(payload.Topics, s.NumTopics)
	if len(topics) == 0 {
		return nil, fmt.Errorf("%w: response contains no usable topics", llm.ErrMalformedResponse)
	}

	p.logger.Info("topics proposed",
		zap.Int("count", len(topics)),
		zap.Int("warnings", len(warnings)))
	return &Result{Topics: topics, Warnings: warnings}, nil
}

// validate drops untitled topics, renumbers duplicate or missing ids and
// collects warnings for deviations from the requested shape.
func validate(in []types.Topic, requested int) ([]types.Topic, []string) {
	var warnings []string
	topics := make([]types.Topic, 0, len(in))
	for _, t := range in {
		t.Title = strings.TrimSpace(t.Title)
		if t.Title == "" {
			warnings = append(warnings, "dropped a topic without a title")
			continue
		}
		topics = append(topics, t)
	}

	if len(topics) != requested {
		warnings = append(warnings, fmt.Sprintf("model returned %d topics instead of the requested %d", len(topics), requested))
	}

	seen := make(map[int]bool, len(topics))
	renumber := false
	for _, t := range topics {
		if t.ID < 1 || seen[t.ID] {
			renumber = true
			break
		}
		seen[t.ID] = true
	}
	if renumber {
		warnings = append(warnings, "topic ids were missing or duplicated and have been renumbered")
		for i := range topics {
			topics[i].ID = i + 1
		}
	}

	for _, t := range topics {
		if n := len(t.Keywords); n < minKeywords || n > maxKeywords {
			warnings = append(warnings, fmt.Sprintf("topic %d %q has %d keywords, expected %d-%d", t.ID, t.Title, n, minKeywords, maxKeywords))
		}
		if strings.TrimSpace(t.Description) == "" {
			warnings = append(warnings, fmt.Sprintf("topic %d %q has no description", t.ID, t.Title))
		}
	}
	return topics, warnings
}
