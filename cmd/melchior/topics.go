// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var topicsCmd = &cobra.Command{
	Use:   "topics [keywords...]",
	Short: "Propose article topics for keywords",
	Long: `Topics asks the model for article topic proposals built around the given
keywords. The number of topics, search intent, complexity and content type
come from the settings file.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runTopics,
}

func init() {
	topicsCmd.Flags().Bool("json", false, "output topics as JSON")
	topicsCmd.Flags().Int("count", 0, "number of topics to propose (overrides num_topics)")

	rootCmd.AddCommand(topicsCmd)
}

func runTopics(cmd *cobra.Command, args []string) error {
	cfg := appConfig()
	out := cmd.OutOrStdout()

	s, err := loadSettings(cfg.SettingsFile, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	if n, _ := cmd.Flags().GetInt("count"); n > 0 {
		s.NumTopics = n
	}

	sess, err := openSession(cmd.Context(), cfg, s, out)
	if err != nil {
		return err
	}

	warnings, err := sess.GenerateTopics(cmd.Context(), strings.Join(args, " "))
	if err != nil {
		return fmt.Errorf("generating topics: %w", err)
	}
	printWarnings(cmd.ErrOrStderr(), warnings)

	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(sess.Topics())
	}
	printTopics(out, sess.Topics())
	if len(sess.Topics()) > 0 {
		fmt.Fprintln(cmd.ErrOrStderr(), `use "melchior run --topic N <keywords>" to write one`)
	}
	return nil
}
