// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/pdiddy/melchior/internal/httputil"
	"github.com/pdiddy/melchior/internal/llm"
	"github.com/pdiddy/melchior/internal/secrets"
	"github.com/pdiddy/melchior/internal/session"
	"github.com/pdiddy/melchior/internal/settings"
	"github.com/pdiddy/melchior/pkg/types"
)

// appConfig resolves the application config from flags, environment, the
// config file and loaded secrets, in that order of precedence.
func appConfig() types.AppConfig {
	provider := types.Provider(viper.GetString("provider"))
	if provider == "" {
		provider = types.ProviderOpenAI
	}

	models := types.DefaultModels(provider)
	for key, dst := range map[string]*string{
		"models.topics":   &models.Topics,
		"models.research": &models.Research,
		"models.outline":  &models.Outline,
		"models.section":  &models.Section,
	} {
		if v := viper.GetString(key); v != "" {
			*dst = v
		}
	}

	apiKey := viper.GetString("api_key")
	if apiKey == "" {
		keyFile := secrets.OpenAIKey
		if provider == types.ProviderGemini {
			keyFile = secrets.GeminiKey
		}
		apiKey = loadedSecrets.Lookup(keyFile)
	}

	return types.AppConfig{
		AI: types.AIConfig{
			HTTPConfig: types.HTTPConfig{
				Timeout:   viper.GetDuration("http.timeout"),
				UserAgent: viper.GetString("http.user_agent"),
			},
			Provider: provider,
			APIKey:   apiKey,
			BaseURL:  viper.GetString("base_url"),
			Models:   models,
		},
		SettingsFile: viper.GetString("settings_file"),
		ArchiveDir:   viper.GetString("archive_dir"),
		Verbose:      verbose || viper.GetBool("verbose"),
	}
}

// newClient builds the generation client for cfg. Package-level var for test
// substitution.
var newClient = func(ctx context.Context, cfg types.AIConfig, logger *zap.Logger) (llm.Client, error) {
	httpClient := httputil.NewClient(cfg.HTTPConfig, logger.Named("http"))
	switch cfg.Provider {
	case types.ProviderOpenAI:
		return llm.NewOpenAI(llm.OpenAIOptions{
			APIKey:     cfg.APIKey,
			BaseURL:    cfg.BaseURL,
			HTTPClient: httpClient,
			Logger:     logger.Named("openai"),
		})
	case types.ProviderGemini:
		return llm.NewGemini(ctx, llm.GeminiOptions{
			APIKey:     cfg.APIKey,
			BaseURL:    cfg.BaseURL,
			HTTPClient: httpClient,
			Logger:     logger.Named("gemini"),
		})
	default:
		return nil, fmt.Errorf("unknown provider %q (want openai or gemini)", cfg.Provider)
	}
}

// loadSettings reads the settings file and prints any warnings to w.
func loadSettings(path string, w io.Writer) (types.Settings, error) {
	s, warnings, err := settings.Load(path)
	if err != nil {
		return s, err
	}
	printWarnings(w, warnings)
	return s, nil
}

// openSession builds a session on the configured client. Settings
// corrections and section reports are printed to w.
func openSession(ctx context.Context, cfg types.AppConfig, s types.Settings, w io.Writer) (*session.Session, error) {
	client, err := newClient(ctx, cfg.AI, logger)
	if err != nil {
		return nil, err
	}
	stages := session.NewStages(client, cfg.AI.Models, logger)
	stages.Draft.Progress = func(total int, r types.SectionReport) {
		printSectionReport(w, total, r)
	}
	sess := session.New(stages, s, logger)
	printWarnings(w, sess.Warnings())
	return sess, nil
}
