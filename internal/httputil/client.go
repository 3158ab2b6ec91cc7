// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package httputil provides the HTTP client shared by the generation backends.
package httputil

import (
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/pdiddy/melchior/pkg/types"
)

// DefaultTimeout bounds a single generation call. Section drafting on a slow
// model can take well over a minute.
const DefaultTimeout = 180 * time.Second

// DefaultUserAgent is sent when the config leaves user_agent empty.
const DefaultUserAgent = "melchior/0.1"

// NewClient returns an http.Client that applies the configured timeout,
// stamps the User-Agent header and logs each round trip at debug level.
// It never retries: each pipeline stage makes exactly one attempt.
func NewClient(cfg types.HTTPConfig, logger *zap.Logger) *http.Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ua := cfg.UserAgent
	if ua == "" {
		ua = DefaultUserAgent
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &http.Client{
		Timeout: timeout,
		Transport: &transport{
			base:      http.DefaultTransport,
			userAgent: ua,
			logger:    logger,
		},
	}
}

type transport struct {
	base      http.RoundTripper
	userAgent string
	logger    *zap.Logger
}

// RoundTrip clones the request so the caller's headers stay untouched.
func (t *transport) RoundTrip(req *http.Request) (*http.Response, error) {
	r := req.Clone(req.Context())
	r.Header.Set("User-Agent", t.userAgent)

	start := time.Now()
	resp, err := t.base.RoundTrip(r)
	elapsed := time.Since(start)

	if err != nil {
		t.logger.Debug("http request failed",
			zap.String("method", r.Method),
			zap.String("host", r.URL.Host),
			zap.String("path", r.URL.Path),
			zap.Duration("elapsed", elapsed),
			zap.Error(err))
		return nil, err
	}
	t.logger.Debug("http request",
		zap.String("method", r.Method),
		zap.String("host", r.URL.Host),
		zap.String("path", r.URL.Path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", elapsed))
	return resp, nil
}
