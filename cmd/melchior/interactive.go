// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/melchior/internal/draft"
	"github.com/pdiddy/melchior/internal/outline"
	"github.com/pdiddy/melchior/internal/research"
	"github.com/pdiddy/melchior/internal/session"
	"github.com/pdiddy/melchior/internal/settings"
	"github.com/pdiddy/melchior/pkg/types"
)

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Step through the pipeline interactively",
	Long: `Session opens an interactive prompt that drives the pipeline one stage
at a time: propose topics, select one, research it, plan and revise the
outline, draft the article and save it. Type "help" at the prompt for the
list of commands.`,
	RunE: runSession,
}

func init() {
	rootCmd.AddCommand(sessionCmd)
}

func runSession(cmd *cobra.Command, args []string) error {
	cfg := appConfig()
	out := cmd.OutOrStdout()

	s, err := loadSettings(cfg.SettingsFile, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	sess, err := openSession(cmd.Context(), cfg, s, out)
	if err != nil {
		return err
	}

	r := &repl{sess: sess, cfg: cfg, out: out}
	return r.run(cmd.Context(), cmd.InOrStdin())
}

const replHelp = `commands:
  topics <keywords>      propose topics
  select <id>            select a proposed topic
  research               research the selected topic on the web
  outline                plan the outline for the selected topic
  load <file>            use an outline YAML file
  save-outline <file>    save the outline as YAML
  article                draft the article from the outline
  save [file]            write the article HTML
  archive                store the article in the archive
  show <what>            topics, outline, research, article, settings, state
  set <key> <value>      change a setting for this session
  persist                write the session settings to the settings file
  help                   this text
  quit                   leave the session`

// repl is the line-oriented front end of a session.
type repl struct {
	sess *session.Session
	cfg  types.AppConfig
	out  io.Writer
}

func (r *repl) run(ctx context.Context, in io.Reader) error {
	fmt.Fprintf(r.out, "session %s (type \"help\" for commands)\n", r.sess.ID())
	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprintf(r.out, "[%s]> ", r.sess.State())
		if !scanner.Scan() {
			fmt.Fprintln(r.out)
			return scanner.Err()
		}
		quit, err := r.exec(ctx, scanner.Text())
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return err
			}
			printError(r.out, err)
		}
		if quit {
			return nil
		}
	}
}

// exec runs one command line. It reports whether the session should end.
func (r *repl) exec(ctx context.Context, line string) (bool, error) {
	verb, rest, _ := strings.Cut(strings.TrimSpace(line), " ")
	rest = strings.TrimSpace(rest)

	switch verb {
	case "":
		return false, nil
	case "quit", "exit":
		return true, nil
	case "help":
		fmt.Fprintln(r.out, replHelp)
		return false, nil
	case "topics":
		warnings, err := r.sess.GenerateTopics(ctx, rest)
		if err != nil {
			return false, err
		}
		printWarnings(r.out, warnings)
		printTopics(r.out, r.sess.Topics())
	case "select":
		id, err := strconv.Atoi(rest)
		if err != nil {
			return false, fmt.Errorf("select needs a topic id: %w", err)
		}
		if err := r.sess.SelectTopic(id); err != nil {
			return false, err
		}
		fmt.Fprintf(r.out, "selected: %s\n", r.sess.Selected().Title)
	case "research":
		res, err := r.sess.Research(ctx)
		var f *research.Failure
		switch {
		case errors.As(err, &f):
			printResearchFailure(r.out, f)
		case err != nil:
			return false, err
		default:
			printResearch(r.out, res, false)
		}
	case "outline":
		warnings, err := r.sess.GenerateOutline(ctx)
		if err != nil {
			return false, err
		}
		printWarnings(r.out, warnings)
		printOutline(r.out, r.sess.Outline())
	case "load":
		o, err := outline.Load(rest)
		if err != nil {
			return false, err
		}
		if err := r.sess.SetOutline(o); err != nil {
			return false, err
		}
		printOutline(r.out, o)
	case "save-outline":
		if r.sess.Outline() == nil {
			return false, fmt.Errorf("%w: no outline yet", session.ErrInvalidTransition)
		}
		if rest == "" {
			return false, errors.New("save-outline needs a file name")
		}
		if err := outline.Save(rest, r.sess.Outline()); err != nil {
			return false, err
		}
		fmt.Fprintf(r.out, "saved outline to %s\n", rest)
	case "article":
		a, err := r.sess.GenerateArticle(ctx)
		if err != nil {
			return false, err
		}
		printArticleSummary(r.out, a)
	case "save":
		a := r.sess.Article()
		if a == nil {
			return false, fmt.Errorf("%w: no article yet", session.ErrInvalidTransition)
		}
		path := rest
		if path == "" {
			path = draft.Filename(a.Title)
		}
		if err := writeArticle(path, a); err != nil {
			return false, err
		}
		fmt.Fprintf(r.out, "wrote %s\n", path)
	case "archive":
		id, err := archiveArticle(ctx, r.cfg.ArchiveDir, r.sess)
		if err != nil {
			return false, err
		}
		fmt.Fprintf(r.out, "archived as %s\n", id)
	case "show":
		return false, r.show(rest)
	case "set":
		key, value, ok := strings.Cut(rest, " ")
		if !ok {
			return false, errors.New("set needs a key and a value")
		}
		s := r.sess.Settings()
		warnings, err := settings.Set(&s, key, strings.TrimSpace(value))
		if err != nil {
			return false, err
		}
		r.sess.UpdateSettings(s)
		printWarnings(r.out, warnings)
	case "persist":
		if err := settings.Save(r.cfg.SettingsFile, r.sess.Settings()); err != nil {
			return false, err
		}
		fmt.Fprintf(r.out, "saved settings to %s\n", r.cfg.SettingsFile)
	default:
		return false, fmt.Errorf("unknown command %q (type \"help\")", verb)
	}
	return false, nil
}

func (r *repl) show(what string) error {
	switch what {
	case "topics":
		printTopics(r.out, r.sess.Topics())
	case "outline":
		if r.sess.Outline() == nil {
			return errors.New("no outline yet")
		}
		printOutline(r.out, r.sess.Outline())
	case "research":
		t := r.sess.Selected()
		if t == nil {
			return errors.New("no topic selected")
		}
		res, ok := r.sess.CachedResearch(t.ID)
		if !ok {
			return errors.New("no research for the selected topic")
		}
		printResearch(r.out, res, true)
		for i, c := range res.Citations {
			fmt.Fprintf(r.out, "%3d. %s\n", i+1, c)
		}
	case "article":
		if r.sess.Article() == nil {
			return errors.New("no article yet")
		}
		fmt.Fprintln(r.out, r.sess.Article().HTML)
	case "settings":
		enc := json.NewEncoder(r.out)
		enc.SetIndent("", "    ")
		return enc.Encode(r.sess.Settings())
	case "state":
		fmt.Fprintf(r.out, "state: %s\n", r.sess.State())
	default:
		return fmt.Errorf("show what? (topics, outline, research, article, settings, state)")
	}
	return nil
}
