// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package llmtest provides a scripted llm.Client for tests.
package llmtest

import (
	"context"
	"fmt"

	"github.com/pdiddy/melchior/internal/llm"
)

// Reply is one scripted outcome: either a response or an error.
type Reply struct {
	Response *llm.Response
	Err      error
}

// Text returns a Reply carrying only response text.
func Text(s string) Reply {
	return Reply{Response: &llm.Response{Text: s}}
}

// Fail returns a Reply carrying an error.
func Fail(err error) Reply {
	return Reply{Err: err}
}

// Fake replays scripted replies in order and records every request.
// It fails the call when the script is exhausted.
type Fake struct {
	Replies  []Reply
	Requests []llm.Request
}

// NewFake returns a Fake that replays replies in order.
func NewFake(replies ...Reply) *Fake {
	return &Fake{Replies: replies}
}

// Generate implements llm.Client.
func (f *Fake) Generate(_ context.Context, req llm.Request) (*llm.Response, error) {
	f.Requests = append(f.Requests, req)
	n := len(f.Requests)
	if n > len(f.Replies) {
		return nil, fmt.Errorf("llmtest: unexpected call %d (script has %d replies)", n, len(f.Replies))
	}
	r := f.Replies[n-1]
	if r.Err != nil {
		return nil, r.Err
	}
	return r.Response, nil
}

// Calls returns the number of Generate calls made.
func (f *Fake) Calls() int { return len(f.Requests) }

// Last returns the most recent request. It panics when no call was made.
func (f *Fake) Last() llm.Request { return f.Requests[len(f.Requests)-1] }

// UserPrompt returns the concatenated user messages of request i.
func (f *Fake) UserPrompt(i int) string {
	var s string
	for _, m := range f.Requests[i].Messages {
		if m.Role == llm.RoleUser {
			s += m.Content
		}
	}
	return s
}
