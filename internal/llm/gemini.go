// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"go.uber.org/zap"
	"google.golang.org/genai"
)

// Gemini implements Client on the Gemini API. Web search requests use the
// Google Search grounding tool and map grounding chunks to citations.
type Gemini struct {
	client *genai.Client
	logger *zap.Logger
}

// GeminiOptions configures NewGemini.
type GeminiOptions struct {
	APIKey string

	// BaseURL overrides the Gemini API endpoint.
	BaseURL string

	HTTPClient *http.Client
	Logger     *zap.Logger
}

// NewGemini builds a Gemini client.
func NewGemini(ctx context.Context, opts GeminiOptions) (*Gemini, error) {
	if opts.APIKey == "" {
		return nil, errors.New("gemini api key missing: set api_key, GEMINI_API_KEY or .secrets/gemini-api-key")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:     opts.APIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: opts.HTTPClient,
		HTTPOptions: genai.HTTPOptions{
			BaseURL: opts.BaseURL,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("creating gemini client: %w", err)
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Gemini{client: client, logger: logger}, nil
}

// Generate sends one GenerateContent request.
func (g *Gemini) Generate(ctx context.Context, req Request) (*Response, error) {
	cfg := &genai.GenerateContentConfig{}
	if sys := req.System(); sys != "" {
		cfg.SystemInstruction = genai.NewContentFromText(sys, genai.RoleUser)
	}
	if req.Temperature != nil {
		cfg.Temperature = genai.Ptr(float32(*req.Temperature))
	}
	if req.TopP != nil {
		cfg.TopP = genai.Ptr(float32(*req.TopP))
	}
	if req.MaxTokens > 0 {
		cfg.MaxOutputTokens = int32(req.MaxTokens)
	}
	if req.Format == FormatJSON {
		cfg.ResponseMIMEType = "application/json"
	}
	if req.WebSearch != nil {
		// Context size has no Gemini equivalent; grounding decides on its own.
		cfg.Tools = []*genai.Tool{{GoogleSearch: &genai.GoogleSearch{}}}
	}

	var contents []*genai.Content
	for _, m := range req.Messages {
		switch m.Role {
		case RoleSystem:
			continue
		case RoleAssistant:
			contents = append(contents, genai.NewContentFromText(m.Content, genai.RoleModel))
		default:
			contents = append(contents, genai.NewContentFromText(m.Content, genai.RoleUser))
		}
	}

	g.logger.Debug("gemini request",
		zap.String("model", req.Model),
		zap.Int("contents", len(contents)),
		zap.Bool("json", req.Format == FormatJSON),
		zap.Bool("web_search", req.WebSearch != nil))

	resp, err := g.client.Models.GenerateContent(ctx, req.Model, contents, cfg)
	if err != nil {
		return nil, classifyGeminiError(err, req.WebSearch != nil)
	}
	if len(resp.Candidates) == 0 {
		return nil, fmt.Errorf("%w: gemini returned no candidates", ErrMalformedResponse)
	}

	out := &Response{Text: resp.Text()}
	if gm := resp.Candidates[0].GroundingMetadata; gm != nil {
		for _, chunk := range gm.GroundingChunks {
			if chunk == nil || chunk.Web == nil || chunk.Web.URI == "" {
				continue
			}
			out.Citations = append(out.Citations, Citation{URL: chunk.Web.URI, Title: chunk.Web.Title})
		}
	}

	g.logger.Debug("gemini response",
		zap.String("model", req.Model),
		zap.Int("chars", len(out.Text)),
		zap.Int("citations", len(out.Citations)))
	return out, nil
}

func classifyGeminiError(err error, search bool) error {
	code := 0
	var apiErr genai.APIError
	var apiErrPtr *genai.APIError
	switch {
	case errors.As(err, &apiErr):
		code = apiErr.Code
	case errors.As(err, &apiErrPtr):
		code = apiErrPtr.Code
	}
	if code != 0 {
		if sentinel := classifyStatus(code, search); sentinel != nil {
			return fmt.Errorf("%w: %w", sentinel, err)
		}
		return fmt.Errorf("gemini request: %w", err)
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return fmt.Errorf("%w: %w", ErrUnavailable, err)
}
