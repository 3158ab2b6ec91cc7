// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package session

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"

	"github.com/pdiddy/melchior/internal/llm"
	"github.com/pdiddy/melchior/internal/llm/llmtest"
	"github.com/pdiddy/melchior/internal/research"
	"github.com/pdiddy/melchior/pkg/types"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m, goleak.IgnoreTopFunction("go.opencensus.io/stats/view.(*worker).start"))
}

const topicsReply = `{"topics": [
	{"id": 1, "title": "E-bikes for commuters", "keywords": ["e-bike", "commute", "city"], "description": "Daily riding"},
	{"id": 2, "title": "Choosing an e-bike battery", "keywords": ["battery", "range", "charging"], "description": "Capacity and care"},
	{"id": 3, "title": "E-bike maintenance", "keywords": ["maintenance", "brakes", "tires"], "description": "Keeping it running"}
]}`

func outlineReply(n int) string {
	prompt := strings.Repeat("Cover the key point with a concrete example and a statistic. ", 4)
	var secs []string
	for i := 1; i <= n; i++ {
		secs = append(secs, fmt.Sprintf(`{"section_number": %d, "title": "Part %d", "estimated_words": 300, "keywords": ["a", "b"], "prompt": %q}`, i, i, prompt))
	}
	return `{"article_title": "E-bikes for commuters", "target_audience": "Commuters", "main_keywords": ["e-bike"], "sections": [` + strings.Join(secs, ",") + `]}`
}

func body(n int) string {
	return "<p>" + strings.TrimSpace(strings.Repeat("word ", n)) + "</p>"
}

func settings() types.Settings {
	s := types.DefaultSettings()
	s.NumTopics = 3
	s.NumSections = 3
	s.DoResearch = true
	return s
}

func newSession(fake *llmtest.Fake, s types.Settings) *Session {
	stages := NewStages(fake, types.DefaultModels(types.ProviderOpenAI), zap.NewNop())
	return New(stages, s, zap.NewNop())
}

func TestFullPipeline(t *testing.T) {
	fake := llmtest.NewFake(
		llmtest.Text(topicsReply),
		llmtest.Reply{Response: &llm.Response{
			Text:      "Research notes about e-bikes.",
			Citations: []llm.Citation{{URL: "https://example.com/article?utm=1"}},
		}},
		llmtest.Text(outlineReply(3)),
		llmtest.Text(body(300)),
		llmtest.Text(body(300)),
		llmtest.Text(body(300)),
	)
	sess := newSession(fake, settings())
	ctx := context.Background()

	_, err := uuid.Parse(sess.ID())
	require.NoError(t, err)
	assert.Equal(t, StateIdle, sess.State())

	warnings, err := sess.GenerateTopics(ctx, "electric bicycles")
	require.NoError(t, err)
	assert.Empty(t, warnings)
	assert.Equal(t, StateTopicsGenerated, sess.State())
	assert.Len(t, sess.Topics(), 3)

	require.NoError(t, sess.SelectTopic(1))
	assert.Equal(t, StateTopicsGenerated, sess.State())

	res, err := sess.Research(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Sources)
	assert.Equal(t, StateResearchDone, sess.State())

	_, err = sess.GenerateOutline(ctx)
	require.NoError(t, err)
	assert.Equal(t, StateOutlineGenerated, sess.State())
	assert.Contains(t, fake.UserPrompt(2), "Research notes about e-bikes.")

	a, err := sess.GenerateArticle(ctx)
	require.NoError(t, err)
	assert.Equal(t, StateArticleGenerated, sess.State())
	assert.Equal(t, 900, a.TotalWords)
	assert.Contains(t, a.HTML, `<a href="https://example.com/article" target="_blank">`)
	assert.Same(t, a, sess.Article())
	assert.Equal(t, 6, fake.Calls())
}

func TestPipelineWithoutResearch(t *testing.T) {
	fake := llmtest.NewFake(
		llmtest.Text(topicsReply),
		llmtest.Text(outlineReply(3)),
		llmtest.Text(body(300)),
		llmtest.Text(body(300)),
		llmtest.Text(body(300)),
	)
	s := settings()
	s.DoResearch = false
	sess := newSession(fake, s)
	ctx := context.Background()

	_, err := sess.GenerateTopics(ctx, "electric bicycles")
	require.NoError(t, err)
	require.NoError(t, sess.SelectTopic(2))

	_, err = sess.Research(ctx)
	assert.ErrorIs(t, err, research.ErrDisabled)
	assert.Equal(t, StateTopicsGenerated, sess.State())

	_, err = sess.GenerateOutline(ctx)
	require.NoError(t, err)
	assert.NotContains(t, fake.UserPrompt(1), "Research data:")

	a, err := sess.GenerateArticle(ctx)
	require.NoError(t, err)
	assert.NotContains(t, a.HTML, "Bibliography")
}

func TestInvalidTransitions(t *testing.T) {
	sess := newSession(llmtest.NewFake(), settings())
	ctx := context.Background()

	assert.ErrorIs(t, sess.SelectTopic(1), ErrInvalidTransition)
	_, err := sess.Research(ctx)
	assert.ErrorIs(t, err, ErrInvalidTransition)
	_, err = sess.GenerateOutline(ctx)
	assert.ErrorIs(t, err, ErrInvalidTransition)
	_, err = sess.GenerateArticle(ctx)
	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.Equal(t, StateIdle, sess.State())
}

func TestFailedStageKeepsState(t *testing.T) {
	fake := llmtest.NewFake(
		llmtest.Text(topicsReply),
		llmtest.Text("not json"),
		llmtest.Fail(fmt.Errorf("%w: 503", llm.ErrUnavailable)),
	)
	sess := newSession(fake, settings())
	ctx := context.Background()

	_, err := sess.GenerateTopics(ctx, "bikes")
	require.NoError(t, err)
	topics := sess.Topics()

	_, err = sess.GenerateTopics(ctx, "other")
	assert.ErrorIs(t, err, llm.ErrMalformedResponse)
	assert.Equal(t, StateTopicsGenerated, sess.State())
	assert.Equal(t, topics, sess.Topics())
	assert.Equal(t, "bikes", sess.Keywords())

	require.NoError(t, sess.SelectTopic(1))
	_, err = sess.Research(ctx)
	var f *research.Failure
	require.ErrorAs(t, err, &f)
	assert.Equal(t, StateTopicsGenerated, sess.State())
	_, cached := sess.CachedResearch(1)
	assert.False(t, cached)
}

func TestFailedArticleKeepsPrevious(t *testing.T) {
	fake := llmtest.NewFake(
		llmtest.Text(topicsReply),
		llmtest.Text(outlineReply(3)),
		llmtest.Text(body(300)), llmtest.Text(body(300)), llmtest.Text(body(300)),
		llmtest.Text(body(300)), llmtest.Fail(fmt.Errorf("%w: 500", llm.ErrUnavailable)),
	)
	s := settings()
	s.DoResearch = false
	sess := newSession(fake, s)
	ctx := context.Background()

	_, err := sess.GenerateTopics(ctx, "bikes")
	require.NoError(t, err)
	require.NoError(t, sess.SelectTopic(1))
	_, err = sess.GenerateOutline(ctx)
	require.NoError(t, err)
	first, err := sess.GenerateArticle(ctx)
	require.NoError(t, err)

	_, err = sess.GenerateArticle(ctx)
	assert.ErrorIs(t, err, llm.ErrUnavailable)
	assert.Same(t, first, sess.Article())
	assert.Equal(t, StateArticleGenerated, sess.State())
}

func TestNewTopicsClearDownstream(t *testing.T) {
	fake := llmtest.NewFake(
		llmtest.Text(topicsReply),
		llmtest.Text("research https://a.example/x"),
		llmtest.Text(outlineReply(3)),
		llmtest.Text(topicsReply),
	)
	sess := newSession(fake, settings())
	ctx := context.Background()

	_, err := sess.GenerateTopics(ctx, "bikes")
	require.NoError(t, err)
	require.NoError(t, sess.SelectTopic(1))
	_, err = sess.Research(ctx)
	require.NoError(t, err)
	_, err = sess.GenerateOutline(ctx)
	require.NoError(t, err)

	_, err = sess.GenerateTopics(ctx, "scooters")
	require.NoError(t, err)
	assert.Equal(t, StateTopicsGenerated, sess.State())
	assert.Nil(t, sess.Selected())
	assert.Nil(t, sess.Outline())
	assert.Nil(t, sess.Article())
	_, cached := sess.CachedResearch(1)
	assert.False(t, cached)
}

func TestSelectTopicUsesResearchCache(t *testing.T) {
	fake := llmtest.NewFake(
		llmtest.Text(topicsReply),
		llmtest.Text("research https://a.example/x"),
	)
	sess := newSession(fake, settings())
	ctx := context.Background()

	_, err := sess.GenerateTopics(ctx, "bikes")
	require.NoError(t, err)
	require.NoError(t, sess.SelectTopic(1))
	_, err = sess.Research(ctx)
	require.NoError(t, err)

	require.NoError(t, sess.SelectTopic(2))
	assert.Equal(t, StateTopicsGenerated, sess.State())
	require.NoError(t, sess.SelectTopic(1))
	assert.Equal(t, StateResearchDone, sess.State())
	assert.Equal(t, 2, fake.Calls(), "cached research is not fetched again")

	assert.Error(t, sess.SelectTopic(42))
}

func TestSetOutline(t *testing.T) {
	fake := llmtest.NewFake(llmtest.Text(body(300)))
	sess := newSession(fake, settings())

	assert.Error(t, sess.SetOutline(&types.Outline{}))
	assert.Equal(t, StateIdle, sess.State())

	o := &types.Outline{
		Title:    "Hand written",
		Sections: []types.SectionSpec{{Number: 1, Title: "Only section", TargetWords: 300}},
	}
	require.NoError(t, sess.SetOutline(o))
	assert.Equal(t, StateOutlineGenerated, sess.State())

	a, err := sess.GenerateArticle(context.Background())
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(a.HTML, "<h3>Hand written</h3>"))
}

func TestUpdateSettings(t *testing.T) {
	sess := newSession(llmtest.NewFake(), settings())

	s := sess.Settings()
	s.NumTopics = 50
	s.Temperature = 0.1
	warnings := sess.UpdateSettings(s)
	assert.Len(t, warnings, 1)
	assert.Equal(t, types.MaxTopics, sess.Settings().NumTopics)
	assert.Equal(t, 0.1, sess.Settings().Temperature)
}

func TestNewKeepsNormalizeWarnings(t *testing.T) {
	s := settings()
	s.NumTopics = 20
	sess := newSession(llmtest.NewFake(), s)

	require.Len(t, sess.Warnings(), 1)
	assert.Contains(t, sess.Warnings()[0], "num_topics 20 out of range")
	assert.Equal(t, types.MaxTopics, sess.Settings().NumTopics)

	assert.Empty(t, newSession(llmtest.NewFake(), settings()).Warnings())
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "idle", StateIdle.String())
	assert.Equal(t, "article-generated", StateArticleGenerated.String())
	assert.Equal(t, "state(9)", State(9).String())
}
