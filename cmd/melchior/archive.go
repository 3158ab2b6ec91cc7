// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/melchior/internal/archive"
)

var archiveCmd = &cobra.Command{
	Use:   "archive",
	Short: "Browse and export archived articles",
	Long: `Archive manages the local SQLite archive of finished articles. Articles
are added with "run --archive" or the "archive" command of a session.`,
}

// --- list subcommand ---

var archiveListCmd = &cobra.Command{
	Use:   "list [query]",
	Short: "List archived articles, newest first",
	Long: `List prints archived articles, newest first. With a query only articles
whose title, topic or keywords contain it are listed.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runArchiveList,
}

func runArchiveList(cmd *cobra.Command, args []string) error {
	store, err := archive.Open(appConfig().ArchiveDir)
	if err != nil {
		return err
	}
	defer store.Close()

	limit, _ := cmd.Flags().GetInt("limit")
	var entries []archive.Entry
	if len(args) == 1 {
		entries, err = store.Search(cmd.Context(), args[0], limit)
	} else {
		entries, err = store.List(cmd.Context(), limit)
	}
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(entries) == 0 {
		fmt.Fprintln(out, "No articles archived.")
		return nil
	}
	fmt.Fprintf(out, "%-36s  %-16s  %6s  %s\n", "ID", "Created", "Words", "Title")
	fmt.Fprintln(out, strings.Repeat("-", 100))
	for _, e := range entries {
		fmt.Fprintf(out, "%-36s  %-16s  %6d  %s\n",
			e.ID, e.CreatedAt.Local().Format("2006-01-02 15:04"), e.Words, e.Title)
	}
	return nil
}

// --- show subcommand ---

var archiveShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Print an archived article's HTML",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := archive.Open(appConfig().ArchiveDir)
		if err != nil {
			return err
		}
		defer store.Close()

		e, err := store.Get(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), e.HTML)
		return nil
	},
}

// --- delete subcommand ---

var archiveDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Remove an article from the archive",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := archive.Open(appConfig().ArchiveDir)
		if err != nil {
			return err
		}
		defer store.Close()

		if err := store.Delete(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", args[0])
		return nil
	},
}

// --- export subcommand ---

var archiveExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the archive as YAML or JSON",
	RunE:  runArchiveExport,
}

func runArchiveExport(cmd *cobra.Command, args []string) error {
	store, err := archive.Open(appConfig().ArchiveDir)
	if err != nil {
		return err
	}
	defer store.Close()

	format, _ := cmd.Flags().GetString("format")
	path, _ := cmd.Flags().GetString("output")

	var w io.Writer = cmd.OutOrStdout()
	if path != "" {
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("creating export file: %w", err)
		}
		defer f.Close()
		w = f
	}
	if err := store.Export(cmd.Context(), w, format); err != nil {
		return err
	}
	if path != "" {
		fmt.Fprintf(cmd.ErrOrStderr(), "exported archive to %s\n", path)
	}
	return nil
}

func init() {
	archiveListCmd.Flags().Int("limit", 20, "maximum number of articles to list (0 for all)")
	archiveExportCmd.Flags().String("format", archive.FormatYAML, "export format: yaml or json")
	archiveExportCmd.Flags().StringP("output", "o", "", "write the export to a file instead of stdout")

	archiveCmd.AddCommand(archiveListCmd)
	archiveCmd.AddCommand(archiveShowCmd)
	archiveCmd.AddCommand(archiveDeleteCmd)
	archiveCmd.AddCommand(archiveExportCmd)

	rootCmd.AddCommand(archiveCmd)
}
