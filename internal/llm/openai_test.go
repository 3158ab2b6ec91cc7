// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const completionBody = `{
  "id": "chatcmpl-1",
  "object": "chat.completion",
  "created": 1,
  "model": "gpt-4o-mini-search-preview",
  "choices": [{
    "index": 0,
    "finish_reason": "stop",
    "message": {
      "role": "assistant",
      "content": "Sales grew 20%% in 2024.",
      "annotations": [
        {"type": "url_citation", "url_citation": {"start_index": 0, "end_index": 5, "title": "Report", "url": "https://example.com/report?utm_source=openai"}},
        {"type": "url_citation", "url_citation": {"start_index": 6, "end_index": 9, "title": "Stats", "url": "https://stats.example.org/ebikes"}}
      ]
    }
  }],
  "usage": {"prompt_tokens": 10, "completion_tokens": 5, "total_tokens": 15}
}`

func newTestOpenAI(t *testing.T, handler http.HandlerFunc) *OpenAI {
	t.Helper()
	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)
	client, err := NewOpenAI(OpenAIOptions{APIKey: "test-key", BaseURL: ts.URL + "/", HTTPClient: ts.Client()})
	require.NoError(t, err)
	return client
}

func TestOpenAIGenerateMapsRequestAndAnnotations(t *testing.T) {
	var body map[string]any
	client := newTestOpenAI(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		data, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(data, &body))
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, completionBody)
	})

	resp, err := client.Generate(context.Background(), Request{
		Model: "gpt-4o-mini-search-preview",
		Messages: []Message{
			{Role: RoleSystem, Content: "You are a researcher."},
			{Role: RoleUser, Content: "Research e-bikes."},
		},
		WebSearch: &WebSearch{ContextSize: "high"},
		Format:    FormatJSON,
		MaxTokens: 500,
	})
	require.NoError(t, err)

	assert.Equal(t, "Sales grew 20% in 2024.", resp.Text)
	require.Len(t, resp.Citations, 2)
	assert.Equal(t, "https://example.com/report?utm_source=openai", resp.Citations[0].URL)
	assert.Equal(t, "Stats", resp.Citations[1].Title)

	assert.Equal(t, "gpt-4o-mini-search-preview", body["model"])
	assert.Equal(t, map[string]any{"search_context_size": "high"}, body["web_search_options"])
	assert.Equal(t, map[string]any{"type": "json_object"}, body["response_format"])
	assert.EqualValues(t, 500, body["max_tokens"])
	assert.NotContains(t, body, "temperature")
	msgs, ok := body["messages"].([]any)
	require.True(t, ok)
	assert.Len(t, msgs, 2)
}

func TestOpenAIGenerateSendsSamplingParams(t *testing.T) {
	var body map[string]any
	client := newTestOpenAI(t, func(w http.ResponseWriter, r *http.Request) {
		data, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(data, &body))
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, completionBody)
	})

	_, err := client.Generate(context.Background(), Request{
		Model:       "gpt-4o-mini",
		Messages:    []Message{{Role: RoleUser, Content: "hi"}},
		Temperature: Float(0.3),
		TopP:        Float(0.9),
	})
	require.NoError(t, err)
	assert.InDelta(t, 0.3, body["temperature"], 1e-9)
	assert.InDelta(t, 0.9, body["top_p"], 1e-9)
	assert.NotContains(t, body, "web_search_options")
	assert.NotContains(t, body, "response_format")
}

func TestOpenAIGenerateClassifiesErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		search bool
		want   error
	}{
		{"search rejected", http.StatusBadRequest, true, ErrSearchUnsupported},
		{"bad key", http.StatusUnauthorized, false, ErrUnauthorized},
		{"server error", http.StatusInternalServerError, false, ErrUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			client := newTestOpenAI(t, func(w http.ResponseWriter, r *http.Request) {
				calls++
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				fmt.Fprint(w, `{"error":{"message":"nope","type":"invalid_request_error"}}`)
			})
			req := Request{Model: "m", Messages: []Message{{Role: RoleUser, Content: "x"}}}
			if tt.search {
				req.WebSearch = &WebSearch{ContextSize: "medium"}
			}
			_, err := client.Generate(context.Background(), req)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
			assert.Equal(t, 1, calls, "a failed call must not be retried")
		})
	}
}

func TestOpenAIGenerateNoChoices(t *testing.T) {
	client := newTestOpenAI(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"id":"x","object":"chat.completion","created":1,"model":"m","choices":[]}`)
	})
	_, err := client.Generate(context.Background(), Request{Model: "m", Messages: []Message{{Role: RoleUser, Content: "x"}}})
	assert.ErrorIs(t, err, ErrMalformedResponse)
}

func TestNewOpenAIRequiresKey(t *testing.T) {
	_, err := NewOpenAI(OpenAIOptions{})
	assert.Error(t, err)
}
