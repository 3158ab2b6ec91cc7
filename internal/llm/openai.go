// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	openai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"
	"go.uber.org/zap"
)

// OpenAI implements Client on the chat completions API.
type OpenAI struct {
	client openai.Client
	logger *zap.Logger
}

// OpenAIOptions configures NewOpenAI.
type OpenAIOptions struct {
	APIKey string

	// BaseURL points the client at an OpenAI-compatible gateway.
	BaseURL string

	// HTTPClient carries the timeout and User-Agent; nil uses the SDK default.
	HTTPClient *http.Client

	Logger *zap.Logger
}

// NewOpenAI builds an OpenAI client. SDK-level retries are disabled so each
// Generate call is a single attempt.
func NewOpenAI(opts OpenAIOptions) (*OpenAI, error) {
	if opts.APIKey == "" {
		return nil, errors.New("openai api key missing: set api_key, OPENAI_API_KEY or .secrets/openai-api-key")
	}
	reqOpts := []option.RequestOption{
		option.WithAPIKey(opts.APIKey),
		option.WithMaxRetries(0),
	}
	if opts.BaseURL != "" {
		reqOpts = append(reqOpts, option.WithBaseURL(opts.BaseURL))
	}
	if opts.HTTPClient != nil {
		reqOpts = append(reqOpts, option.WithHTTPClient(opts.HTTPClient))
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OpenAI{client: openai.NewClient(reqOpts...), logger: logger}, nil
}

// Generate sends one chat completion request.
func (o *OpenAI) Generate(ctx context.Context, req Request) (*Response, error) {
	params := openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(req.Model),
		Messages: toOpenAIMessages(req.Messages),
	}
	if req.Temperature != nil {
		params.Temperature = openai.Float(*req.Temperature)
	}
	if req.TopP != nil {
		params.TopP = openai.Float(*req.TopP)
	}
	if req.MaxTokens > 0 {
		params.MaxTokens = openai.Int(int64(req.MaxTokens))
	}
	if req.Format == FormatJSON {
		params.ResponseFormat = openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONObject: &shared.ResponseFormatJSONObjectParam{},
		}
	}
	if req.WebSearch != nil {
		params.WebSearchOptions = openai.ChatCompletionNewParamsWebSearchOptions{
			SearchContextSize: req.WebSearch.ContextSize,
		}
	}

	o.logger.Debug("openai request",
		zap.String("model", req.Model),
		zap.Int("messages", len(req.Messages)),
		zap.Bool("json", req.Format == FormatJSON),
		zap.Bool("web_search", req.WebSearch != nil))

	resp, err := o.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return nil, classifyOpenAIError(err, req.WebSearch != nil)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("%w: openai returned no choices", ErrMalformedResponse)
	}

	msg := resp.Choices[0].Message
	out := &Response{Text: msg.Content}
	for _, a := range msg.Annotations {
		if a.URLCitation.URL == "" {
			continue
		}
		out.Citations = append(out.Citations, Citation{
			URL:   a.URLCitation.URL,
			Title: a.URLCitation.Title,
		})
	}

	o.logger.Debug("openai response",
		zap.String("model", req.Model),
		zap.Int("chars", len(out.Text)),
		zap.Int("citations", len(out.Citations)),
		zap.Int64("total_tokens", resp.Usage.TotalTokens))
	return out, nil
}

func toOpenAIMessages(msgs []Message) []openai.ChatCompletionMessageParamUnion {
	out := make([]openai.ChatCompletionMessageParamUnion, 0, len(msgs))
	for _, m := range msgs {
		switch m.Role {
		case RoleSystem:
			out = append(out, openai.SystemMessage(m.Content))
		case RoleAssistant:
			out = append(out, openai.ChatCompletionMessageParamOfAssistant(m.Content))
		default:
			out = append(out, openai.UserMessage(m.Content))
		}
	}
	return out
}

// classifyOpenAIError wraps SDK errors with the matching sentinel.
func classifyOpenAIError(err error, search bool) error {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		if sentinel := classifyStatus(apiErr.StatusCode, search); sentinel != nil {
			return fmt.Errorf("%w: %w", sentinel, err)
		}
		return fmt.Errorf("openai request: %w", err)
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return fmt.Errorf("%w: %w", ErrUnavailable, err)
}
