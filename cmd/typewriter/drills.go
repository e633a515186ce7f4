package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/verte-zerg/typewriter/internal/config"
	"github.com/verte-zerg/typewriter/internal/drill"
	"github.com/verte-zerg/typewriter/internal/exercise"
	"github.com/verte-zerg/typewriter/internal/model"
	"github.com/verte-zerg/typewriter/internal/stats"
	"github.com/verte-zerg/typewriter/internal/store"
)

const (
	fetchTimeout = 30 * time.Second
	fetchWorkers = 4
)

var (
	drillsScheme      string
	drillScheme       string
	drillTitle        string
	drillCaptionMode  string
	drillFile         string
	drillFetchTimeout time.Duration
)

func newDrillsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "drills",
		Short: "List bundled and saved drills",
		Args:  cobra.NoArgs,
		RunE:  runDrillsCmd,
	}
	cmd.Flags().StringVar(&drillsScheme, "scheme", "", "scheme filter")
	return cmd
}

func runDrillsCmd(cmd *cobra.Command, _ []string) error {
	bundled, err := drill.LoadBundled()
	if err != nil {
		return fmt.Errorf("failed to load drills: %w", err)
	}
	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()
	saved, err := st.ListDrills(cmd.Context(), drillsScheme)
	if err != nil {
		return fmt.Errorf("failed to list saved drills: %w", err)
	}

	var rows [][]string
	for _, slug := range bundled.Slugs() {
		if drillsScheme != "" && slug != drillsScheme {
			continue
		}
		for _, d := range bundled.For(slug) {
			rows = append(rows, []string{"bundled", slug, d.Title, preview(d.Answer)})
		}
	}
	for _, d := range saved {
		rows = append(rows, []string{d.ID[:8], d.Scheme, d.Title, preview(d.Answer)})
	}
	if len(rows) == 0 {
		logErrln("No drills found.")
		return nil
	}
	return writeLines(cmd, stats.FormatTable([]string{"Id", "Scheme", "Title", "Answer"}, rows, nil))
}

func preview(answer string) string {
	fields := strings.Fields(answer)
	if len(fields) > 6 {
		fields = append(fields[:6], "…")
	}
	return strings.Join(fields, " ")
}

func newDrillCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "drill",
		Short: "Manage saved drills",
	}

	add := &cobra.Command{
		Use:   "add [TEXT]",
		Short: "Save answer text or a drill file",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runDrillAddCmd,
	}
	add.Flags().StringVar(&drillScheme, "scheme", defaultScheme, "scheme slug the drill is typed with")
	add.Flags().StringVar(&drillTitle, "title", "", "drill title")
	add.Flags().StringVar(&drillCaptionMode, "caption-mode", "", "caption mode (auto, words, lines, line-words)")
	add.Flags().StringVar(&drillFile, "file", "", "text or YAML drill file")

	rm := &cobra.Command{
		Use:   "rm ID",
		Short: "Delete a saved drill",
		Args:  cobra.ExactArgs(1),
		RunE:  runDrillRmCmd,
	}

	fetch := &cobra.Command{
		Use:   "fetch URL...",
		Short: "Download answer texts and save them as drills",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runDrillFetchCmd,
	}
	fetch.Flags().StringVar(&drillScheme, "scheme", defaultScheme, "scheme slug the drill is typed with")
	fetch.Flags().StringVar(&drillTitle, "title", "", "drill title")
	fetch.Flags().StringVar(&drillCaptionMode, "caption-mode", "", "caption mode (auto, words, lines, line-words)")
	fetch.Flags().DurationVar(&drillFetchTimeout, "timeout", fetchTimeout, "download timeout")

	cmd.AddCommand(add, rm, fetch)
	return cmd
}

func runDrillAddCmd(cmd *cobra.Command, args []string) error {
	var drills []drill.Drill
	source := "text"
	switch {
	case drillFile != "" && len(args) > 0:
		return fmt.Errorf("pass either TEXT or --file, not both")
	case drillFile != "":
		loaded, err := drill.LoadFile(drillFile)
		if err != nil {
			return err
		}
		drills = loaded
		source = drillFile
	case len(args) == 1:
		a := exercise.SplitAssignment(args[0])
		drills = []drill.Drill{{Answer: a.Answer, Caption: a.Caption}}
	default:
		return fmt.Errorf("nothing to add: pass TEXT or --file")
	}

	records := make([]model.SavedDrill, 0, len(drills))
	for _, d := range drills {
		rec, err := savedDrill(d, source)
		if err != nil {
			return err
		}
		records = append(records, rec)
	}
	return saveDrills(cmd, records)
}

func savedDrill(d drill.Drill, source string) (model.SavedDrill, error) {
	if drillTitle != "" {
		d.Title = drillTitle
	}
	if drillCaptionMode != "" {
		d.CaptionMode = drillCaptionMode
	}
	if _, err := d.Assignment(); err != nil {
		return model.SavedDrill{}, err
	}
	return model.SavedDrill{
		Scheme:      drillScheme,
		Title:       d.Title,
		Answer:      d.Answer,
		Caption:     d.Caption,
		CaptionMode: d.CaptionMode,
		Source:      source,
	}, nil
}

func saveDrills(cmd *cobra.Command, records []model.SavedDrill) error {
	if _, err := loadScheme(drillScheme); err != nil {
		return err
	}
	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()
	var saved []model.SavedDrill
	if len(records) == 1 {
		d, err := st.AddDrill(cmd.Context(), records[0])
		if err != nil {
			return fmt.Errorf("failed to save drill: %w", err)
		}
		saved = append(saved, d)
	} else {
		saved, err = st.ImportDrills(cmd.Context(), records)
		if err != nil {
			return fmt.Errorf("failed to save drills: %w", err)
		}
	}
	for _, d := range saved {
		if _, err := fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\n", d.ID[:8], d.Scheme, d.Title); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

func runDrillRmCmd(cmd *cobra.Command, args []string) error {
	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()
	d, err := st.DeleteDrill(cmd.Context(), args[0])
	switch {
	case errors.Is(err, store.ErrNotFound):
		return fmt.Errorf("no saved drill with id %q", args[0])
	case errors.Is(err, store.ErrAmbiguous):
		return fmt.Errorf("id %q matches several drills, use more characters", args[0])
	case err != nil:
		return fmt.Errorf("failed to delete drill: %w", err)
	}
	logErrf("Deleted %s (%s)\n", d.Title, d.ID[:8])
	return nil
}

func runDrillFetchCmd(cmd *cobra.Command, args []string) error {
	fetcher := drill.NewFetcher(drillFetchTimeout)
	records := make([]model.SavedDrill, len(args))
	g, ctx := errgroup.WithContext(cmd.Context())
	g.SetLimit(fetchWorkers)
	for i, url := range args {
		i, url := i, url
		g.Go(func() error {
			logErrf("Fetching %s...\n", url)
			a, err := fetcher.Fetch(ctx, url)
			if err != nil {
				return fmt.Errorf("failed to fetch %s: %w", url, err)
			}
			rec, err := savedDrill(drill.Drill{Title: a.Title, Answer: a.Answer, Caption: a.Caption}, url)
			if err != nil {
				return err
			}
			records[i] = rec
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	return saveDrills(cmd, records)
}
