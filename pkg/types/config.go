// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings used by the generation clients.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "melchior/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// Provider identifies the generation service backend.
type Provider string

const (
	ProviderOpenAI Provider = "openai"
	ProviderGemini Provider = "gemini"
)

// ModelConfig names the model used by each pipeline stage.
type ModelConfig struct {
	Topics   string `json:"topics" yaml:"topics"`
	Research string `json:"research" yaml:"research"`
	Outline  string `json:"outline" yaml:"outline"`
	Section  string `json:"section" yaml:"section"`
}

// DefaultModels returns the per-stage model defaults for a provider.
func DefaultModels(p Provider) ModelConfig {
	if p == ProviderGemini {
		return ModelConfig{
			Topics:   "gemini-2.5-flash",
			Research: "gemini-2.5-flash",
			Outline:  "gemini-2.5-flash",
			Section:  "gemini-2.5-flash",
		}
	}
	return ModelConfig{
		Topics:   "gpt-4o-mini",
		Research: "gpt-4o-mini-search-preview",
		Outline:  "gpt-4o-mini",
		Section:  "gpt-4o-mini",
	}
}

// AIConfig holds settings for the generation service client.
type AIConfig struct {
	HTTPConfig `yaml:",inline"`

	// Provider selects the backend: openai or gemini.
	Provider Provider `json:"provider" yaml:"provider"`

	// APIKey is the authentication key for the AI API.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// BaseURL overrides the API endpoint (OpenAI-compatible gateways or a
	// Gemini proxy).
	BaseURL string `json:"base_url,omitempty" yaml:"base_url,omitempty"`

	// Models names the model for each stage.
	Models ModelConfig `json:"models" yaml:"models"`
}

// AppConfig groups everything the CLI resolves from flags, environment,
// config file and secrets before building a session.
type AppConfig struct {
	AI AIConfig `json:"ai" yaml:"ai"`

	// SettingsFile is the path of the JSON settings record.
	SettingsFile string `json:"settings_file" yaml:"settings_file"`

	// ArchiveDir holds the article archive database.
	ArchiveDir string `json:"archive_dir" yaml:"archive_dir"`

	// Verbose enables debug logging.
	Verbose bool `json:"verbose" yaml:"verbose"`
}
