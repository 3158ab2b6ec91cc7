// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/melchior/internal/archive"
	"github.com/pdiddy/melchior/internal/draft"
	"github.com/pdiddy/melchior/internal/outline"
	"github.com/pdiddy/melchior/internal/research"
	"github.com/pdiddy/melchior/internal/session"
	"github.com/pdiddy/melchior/pkg/types"
)

var runCmd = &cobra.Command{
	Use:   "run [keywords...]",
	Short: "Write a complete article from keywords",
	Long: `Run executes the whole pipeline: it proposes topics for the keywords,
picks one (--topic), optionally researches it, plans an outline and drafts the
article section by section. The article is written as HTML.

With --outline the topic and outline stages are skipped and the given outline
file is drafted directly. Use --outline-out to save the generated outline for
editing and reuse.`,
	RunE: runRun,
}

func init() {
	runCmd.Flags().Int("topic", 1, "id of the proposed topic to write")
	runCmd.Flags().Bool("research", false, "research the topic on the web (overrides do_research)")
	runCmd.Flags().Bool("show-research", false, "print the research text")
	runCmd.Flags().String("outline", "", "draft this outline YAML file instead of generating one")
	runCmd.Flags().String("outline-out", "", "save the generated outline to this YAML file")
	runCmd.Flags().StringP("output", "o", "", "article HTML path (default: derived from the title)")
	runCmd.Flags().Bool("archive", false, "store the article in the local archive")

	rootCmd.AddCommand(runCmd)
}

// runOptions carries the run command flags.
type runOptions struct {
	Keywords     string
	TopicID      int
	ShowResearch bool
	OutlineIn    string
	OutlineOut   string
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg := appConfig()
	out := cmd.OutOrStdout()

	opts := runOptions{Keywords: strings.Join(args, " ")}
	opts.TopicID, _ = cmd.Flags().GetInt("topic")
	opts.ShowResearch, _ = cmd.Flags().GetBool("show-research")
	opts.OutlineIn, _ = cmd.Flags().GetString("outline")
	opts.OutlineOut, _ = cmd.Flags().GetString("outline-out")
	if opts.Keywords == "" && opts.OutlineIn == "" {
		return errors.New("provide keywords or --outline")
	}

	s, err := loadSettings(cfg.SettingsFile, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("research") {
		s.DoResearch, _ = cmd.Flags().GetBool("research")
	}

	sess, err := openSession(cmd.Context(), cfg, s, out)
	if err != nil {
		return err
	}

	a, err := runPipeline(cmd.Context(), sess, opts, out)
	if err != nil {
		return err
	}

	path, _ := cmd.Flags().GetString("output")
	if path == "" {
		path = draft.Filename(a.Title)
	}
	if err := writeArticle(path, a); err != nil {
		return err
	}
	fmt.Fprintf(out, "wrote %s\n", path)

	if archived, _ := cmd.Flags().GetBool("archive"); archived {
		id, err := archiveArticle(cmd.Context(), cfg.ArchiveDir, sess)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "archived as %s\n", id)
	}
	return nil
}

// runPipeline drives sess from keywords (or an outline file) to a finished
// article, printing progress to w. Research failures are reported and the
// run continues without research.
func runPipeline(ctx context.Context, sess *session.Session, opts runOptions, w io.Writer) (*types.Article, error) {
	if opts.OutlineIn != "" {
		o, err := outline.Load(opts.OutlineIn)
		if err != nil {
			return nil, err
		}
		if err := sess.SetOutline(o); err != nil {
			return nil, err
		}
		fmt.Fprintf(w, "loaded outline %q with %d sections\n", o.Title, len(o.Sections))
	} else {
		fmt.Fprintf(w, "proposing topics for %q\n", opts.Keywords)
		warnings, err := sess.GenerateTopics(ctx, opts.Keywords)
		if err != nil {
			return nil, fmt.Errorf("generating topics: %w", err)
		}
		printWarnings(w, warnings)
		printTopics(w, sess.Topics())

		if err := sess.SelectTopic(opts.TopicID); err != nil {
			return nil, err
		}
		fmt.Fprintf(w, "selected topic %d: %s\n", opts.TopicID, sess.Selected().Title)

		if sess.Settings().DoResearch {
			researchTopic(ctx, sess, opts.ShowResearch, w)
		}

		fmt.Fprintln(w, "planning outline")
		warnings, err = sess.GenerateOutline(ctx)
		if err != nil {
			return nil, fmt.Errorf("generating outline: %w", err)
		}
		printWarnings(w, warnings)
		printOutline(w, sess.Outline())

		if opts.OutlineOut != "" {
			if err := outline.Save(opts.OutlineOut, sess.Outline()); err != nil {
				return nil, err
			}
			fmt.Fprintf(w, "saved outline to %s\n", opts.OutlineOut)
		}
	}

	fmt.Fprintf(w, "drafting %d sections\n", len(sess.Outline().Sections))
	a, err := sess.GenerateArticle(ctx)
	if err != nil {
		return nil, fmt.Errorf("generating article: %w", err)
	}
	printArticleSummary(w, a)
	return a, nil
}

// researchTopic runs research for the selected topic. Failures are printed
// with their guidance and otherwise ignored.
func researchTopic(ctx context.Context, sess *session.Session, show bool, w io.Writer) {
	fmt.Fprintln(w, "researching topic on the web")
	r, err := sess.Research(ctx)
	var f *research.Failure
	switch {
	case err == nil:
		printResearch(w, r, show)
	case errors.As(err, &f):
		printResearchFailure(w, f)
	default:
		printError(w, err)
	}
}

// archiveArticle stores the session's article in the archive under dir.
func archiveArticle(ctx context.Context, dir string, sess *session.Session) (string, error) {
	a := sess.Article()
	if a == nil {
		return "", fmt.Errorf("%w: no article to archive", session.ErrInvalidTransition)
	}
	store, err := archive.Open(dir)
	if err != nil {
		return "", err
	}
	defer store.Close()

	topicTitle := a.Title
	var keywords []string
	if t := sess.Selected(); t != nil {
		topicTitle = t.Title
		keywords = t.Keywords
	}
	return store.Save(ctx, archive.NewEntry(sess.ID(), topicTitle, keywords, a))
}
