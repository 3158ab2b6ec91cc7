// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the melchior CLI.
// melchior proposes article topics from keywords, optionally researches the
// chosen topic on the web, plans an outline and drafts the article section by
// section into an HTML file.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/pdiddy/melchior/internal/httputil"
	"github.com/pdiddy/melchior/internal/secrets"
	"github.com/pdiddy/melchior/internal/settings"
)

// version is set at build time via ldflags.
var version = "dev"

var (
	// loadedSecrets holds API keys loaded from .secrets/ at startup.
	loadedSecrets secrets.Secrets

	logger  = zap.NewNop()
	verbose bool
)

// rootCmd is the base command for the melchior CLI.
var rootCmd = &cobra.Command{
	Use:   "melchior",
	Short: "Generate long-form SEO articles with a language model",
	Long: `melchior turns a handful of keywords into a finished article. It asks a
language model for topic proposals, optionally researches the chosen topic
on the web, plans an outline and writes the article one section at a time,
reporting how each section measured up against its length target.

Use "run" for a one-shot article, "session" to step through the pipeline
interactively, and "settings" to tune the generation parameters.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		s, err := secrets.Load(".secrets/", os.Stderr)
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			keys := make([]string, 0, len(s))
			for k := range s {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			fmt.Fprintf(os.Stderr, "Loaded secrets: %v\n", keys)
		}

		config := zap.NewProductionConfig()
		config.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
		if verbose || viper.GetBool("verbose") {
			config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		logger, err = config.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "config file (default: ./melchior.yaml or ~/.config/melchior/melchior.yaml)")
	flags.BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	flags.String("provider", "", "generation provider: openai or gemini")
	flags.String("settings", "", "settings file (default: "+settings.DefaultFile+")")

	viper.BindPFlag("provider", flags.Lookup("provider"))
	viper.BindPFlag("settings_file", flags.Lookup("settings"))

	viper.SetDefault("provider", "openai")
	viper.SetDefault("settings_file", settings.DefaultFile)
	viper.SetDefault("archive_dir", "archive")
	viper.SetDefault("http.timeout", httputil.DefaultTimeout)
	viper.SetDefault("http.user_agent", httputil.DefaultUserAgent)
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("melchior")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "melchior"))
		}
	}

	viper.SetEnvPrefix("MELCHIOR")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
