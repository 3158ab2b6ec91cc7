// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package llm is the boundary to the text-generation service. Stages build a
// Request, a Client turns it into one API call, and the Response carries the
// text plus any structured citations the service attached.
package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// Sentinel errors used to classify service failures. Adapters wrap the
// underlying SDK error so callers can still inspect it.
var (
	// ErrMalformedResponse marks a response that is not in the expected shape.
	ErrMalformedResponse = errors.New("malformed response")

	// ErrUnavailable marks transport failures, rate limiting and server errors.
	ErrUnavailable = errors.New("generation service unavailable")

	// ErrUnauthorized marks rejected credentials.
	ErrUnauthorized = errors.New("generation service rejected credentials")

	// ErrSearchUnsupported marks a search-augmented request the service or
	// model refused.
	ErrSearchUnsupported = errors.New("web search not supported")
)

// Role is the author of a chat message.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one entry of the conversation sent to the service.
type Message struct {
	Role    Role
	Content string
}

// Format is the requested response shape.
type Format int

const (
	FormatText Format = iota
	FormatJSON
)

// WebSearch enables search augmentation for a request.
type WebSearch struct {
	// ContextSize is "low", "medium" or "high".
	ContextSize string
}

// Request is a single generation call.
type Request struct {
	Model    string
	Messages []Message

	// Temperature and TopP are omitted from the API call when nil.
	Temperature *float64
	TopP        *float64

	// MaxTokens caps the response length; zero leaves the service default.
	MaxTokens int

	Format    Format
	WebSearch *WebSearch
}

// System returns the concatenated system messages of the request.
func (r Request) System() string {
	var parts []string
	for _, m := range r.Messages {
		if m.Role == RoleSystem {
			parts = append(parts, m.Content)
		}
	}
	return strings.Join(parts, "\n\n")
}

// Citation is a structured source reference attached by the service.
type Citation struct {
	URL   string
	Title string
}

// Response is the result of a generation call.
type Response struct {
	Text      string
	Citations []Citation
}

// Client issues generation calls. Implementations make exactly one API
// attempt per call.
type Client interface {
	Generate(ctx context.Context, req Request) (*Response, error)
}

// Float returns a pointer to v, for the optional sampling parameters.
func Float(v float64) *float64 { return &v }

// fencePattern matches a Markdown code fence wrapping the whole response,
// e.g. ```json ... ```.
var fencePattern = regexp.MustCompile("(?s)^\\s*```[a-zA-Z]*\\s*\\n(.*?)\\n?\\s*```\\s*$")

// StripFences removes a Markdown code fence wrapping the whole text.
func StripFences(text string) string {
	if m := fencePattern.FindStringSubmatch(text); m != nil {
		return m[1]
	}
	return strings.TrimSpace(text)
}

// DecodeJSON unmarshals a JSON response body into v. A fenced body is
// unwrapped first. Failures wrap ErrMalformedResponse.
func DecodeJSON(text string, v any) error {
	body := StripFences(text)
	if body == "" {
		return fmt.Errorf("%w: empty body", ErrMalformedResponse)
	}
	if err := json.Unmarshal([]byte(body), v); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return nil
}

// classifyStatus maps an HTTP status from the service to a sentinel error.
// search reports whether the failed request asked for web search.
func classifyStatus(status int, search bool) error {
	switch {
	case search && (status == 400 || status == 403 || status == 404):
		return ErrSearchUnsupported
	case status == 401 || status == 403:
		return ErrUnauthorized
	case status == 429 || status >= 500:
		return ErrUnavailable
	default:
		return nil
	}
}
