// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/melchior/internal/settings"
	"github.com/pdiddy/melchior/pkg/types"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Show and change the generation settings",
	Long: `Settings manages the JSON settings file that parameterizes every stage:
sampling, research, audience, engagement elements and article shape.
Missing keys take their defaults; out-of-range values are corrected with a
warning.`,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective settings",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := loadSettings(appConfig().SettingsFile, cmd.ErrOrStderr())
		if err != nil {
			return err
		}
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "    ")
		return enc.Encode(s)
	},
}

var settingsSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Change one setting and save the file",
	Long: `Set changes one setting by its JSON key and saves the settings file.
Nested keys use a dot, for example engagement_elements.stories.

Keys: ` + strings.Join(settings.Keys(), ", "),
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := appConfig().SettingsFile
		s, err := loadSettings(path, cmd.ErrOrStderr())
		if err != nil {
			return err
		}
		warnings, err := settings.Set(&s, args[0], args[1])
		if err != nil {
			return err
		}
		printWarnings(cmd.ErrOrStderr(), warnings)
		if err := settings.Save(path, s); err != nil {
			return err
		}
		stored, err := settings.Get(s, args[0])
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s = %s\n", args[0], stored)
		return nil
	},
}

var settingsResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Write the default settings to the settings file",
	RunE: func(cmd *cobra.Command, args []string) error {
		path := appConfig().SettingsFile
		if err := settings.Save(path, types.DefaultSettings()); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "reset %s to defaults\n", path)
		return nil
	},
}

var settingsPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the settings file path",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), appConfig().SettingsFile)
	},
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	settingsCmd.AddCommand(settingsResetCmd)
	settingsCmd.AddCommand(settingsPathCmd)

	rootCmd.AddCommand(settingsCmd)
}
