package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/verte-zerg/typewriter/internal/algebra"
	"github.com/verte-zerg/typewriter/internal/config"
	"github.com/verte-zerg/typewriter/internal/exercise"
	"github.com/verte-zerg/typewriter/internal/keycode"
	"github.com/verte-zerg/typewriter/internal/scheme"
	"github.com/verte-zerg/typewriter/internal/session"
	"github.com/verte-zerg/typewriter/internal/stats"
)

var (
	inspectScheme string
	spellTrace    bool
	replayText    string
)

func newSchemesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "schemes",
		Short: "List available schemes",
		Args:  cobra.NoArgs,
		RunE:  runSchemesCmd,
	}
}

func runSchemesCmd(cmd *cobra.Command, _ []string) error {
	cat, err := scheme.LoadCatalog(config.DefaultSchemeDir())
	if err != nil {
		return fmt.Errorf("failed to load schemes: %w", err)
	}
	rows := make([][]string, 0, len(cat.All()))
	for _, def := range cat.All() {
		rows = append(rows, []string{
			def.Slug,
			def.Name,
			def.Discipline.String(),
			def.Format.String(),
			def.Layout,
			fmt.Sprintf("%d", len(def.Keys)),
		})
	}
	lines := stats.FormatTable([]string{"Slug", "Name", "Discipline", "Format", "Layout", "Keys"}, rows, map[int]bool{5: true})
	return writeLines(cmd, lines)
}

func writeLines(cmd *cobra.Command, lines []string) error {
	out := cmd.OutOrStdout()
	if width := stats.TerminalWidth(out); width > 0 {
		lines = stats.FitWidth(lines, width)
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(out, line); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

func loadScheme(slug string) (*scheme.Definition, error) {
	cat, err := scheme.LoadCatalog(config.DefaultSchemeDir())
	if err != nil {
		return nil, fmt.Errorf("failed to load schemes: %w", err)
	}
	def, ok := cat.Get(slug)
	if !ok {
		return nil, fmt.Errorf("unknown scheme %q (available: %s)", slug, strings.Join(cat.Slugs(), ", "))
	}
	return def, nil
}

func newSpellCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "spell CODE...",
		Short: "Convert codes to spellings",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runSpellCmd,
	}
	cmd.Flags().StringVar(&inspectScheme, "scheme", defaultScheme, "input scheme slug")
	cmd.Flags().BoolVar(&spellTrace, "trace", false, "print every rule step")
	return cmd
}

func runSpellCmd(cmd *cobra.Command, args []string) error {
	def, err := loadScheme(inspectScheme)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	for _, code := range args {
		spelling, ok := def.CodeToSpelling(code)
		if !ok {
			spelling = "(none)"
		}
		if _, err := fmt.Fprintf(out, "%s\t%s\n", code, spelling); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		if spellTrace {
			if err := writeTrace(out, algebra.Trace(code, def.Rules.CodeToSpelling)); err != nil {
				return err
			}
		}
	}
	return nil
}

func writeTrace(w io.Writer, steps []algebra.Step) error {
	for _, step := range steps {
		mark := ""
		if step.Vetoed {
			mark = " (vetoed)"
		}
		if _, err := fmt.Fprintf(w, "  %-32s %s%s\n", step.Op, step.Output, mark); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

func newCodeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "code SPELLING...",
		Short: "Convert spellings to codes and keys",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runCodeCmd,
	}
	cmd.Flags().StringVar(&inspectScheme, "scheme", defaultScheme, "input scheme slug")
	return cmd
}

func runCodeCmd(cmd *cobra.Command, args []string) error {
	def, err := loadScheme(inspectScheme)
	if err != nil {
		return err
	}
	rows := make([][]string, 0, len(args))
	for _, spelling := range args {
		code, ok := def.SpellingToCode(spelling)
		if !ok {
			rows = append(rows, []string{spelling, "(none)", ""})
			continue
		}
		rows = append(rows, []string{spelling, def.Display(code), keyNames(def.Encode(code))})
	}
	return writeLines(cmd, stats.FormatTable([]string{"Spelling", "Code", "Keys"}, rows, nil))
}

func keyNames(set keycode.Set) string {
	codes := set.Codes()
	names := make([]string, len(codes))
	for i, c := range codes {
		names[i] = c.String()
	}
	return strings.Join(names, " ")
}

func newReplayCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "replay EVENT...",
		Short: "Feed +KEY/-KEY events into an exercise",
		Long: "Feed key events into an exercise and print the outcome of each.\n" +
			"+KEY presses a key, -KEY releases it, for example: +X +C +U +I +O -X -C -U -I -O",
		Args: cobra.MinimumNArgs(1),
		RunE: runReplayCmd,
	}
	cmd.Flags().StringVar(&inspectScheme, "scheme", defaultScheme, "input scheme slug")
	cmd.Flags().StringVar(&replayText, "text", "", "answer text, with an optional // caption")
	return cmd
}

type replayEvent struct {
	code keycode.Code
	down bool
}

func parseEvents(args []string) ([]replayEvent, error) {
	events := make([]replayEvent, 0, len(args))
	for _, arg := range args {
		if len(arg) < 2 || (arg[0] != '+' && arg[0] != '-') {
			return nil, fmt.Errorf("invalid event %q: want +KEY or -KEY", arg)
		}
		code, ok := keycode.Parse(arg[1:])
		if !ok {
			return nil, fmt.Errorf("unknown key %q", arg[1:])
		}
		events = append(events, replayEvent{code: code, down: arg[0] == '+'})
	}
	return events, nil
}

func runReplayCmd(cmd *cobra.Command, args []string) error {
	def, err := loadScheme(inspectScheme)
	if err != nil {
		return err
	}
	events, err := parseEvents(args)
	if err != nil {
		return err
	}
	s := session.New(def)
	if replayText != "" {
		s.Load(exercise.SplitAssignment(replayText))
	}
	return replay(cmd.OutOrStdout(), s, events)
}

func replay(w io.Writer, s *session.Session, events []replayEvent) error {
	for _, ev := range events {
		var out session.Outcome
		edge := "-"
		if ev.down {
			edge = "+"
			out = s.KeyDown(ev.code)
		} else {
			out = s.KeyUp(ev.code)
		}
		line := fmt.Sprintf("%s%-9s live=%-8s %d/%d", edge, ev.code, s.LiveCode(), s.Position(), s.Len())
		if out != session.None {
			line += " " + out.String()
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	sum := s.Summary()
	_, err := fmt.Fprintf(w, "done %d/%d, correct %d, incorrect %d\n", sum.Done, sum.Units, sum.Correct, sum.Incorrect)
	if err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
