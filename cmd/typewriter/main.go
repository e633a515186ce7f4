// Package main provides the CLI entrypoint for typewriter.
package main

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/verte-zerg/typewriter/internal/config"
	"github.com/verte-zerg/typewriter/internal/drill"
	"github.com/verte-zerg/typewriter/internal/exercise"
	"github.com/verte-zerg/typewriter/internal/generator"
	"github.com/verte-zerg/typewriter/internal/logging"
	"github.com/verte-zerg/typewriter/internal/model"
	"github.com/verte-zerg/typewriter/internal/scheme"
	"github.com/verte-zerg/typewriter/internal/stats"
	"github.com/verte-zerg/typewriter/internal/store"
	"github.com/verte-zerg/typewriter/internal/tui"
)

const (
	defaultScheme      = "combo_pinyin"
	defaultRandomWords = 20
	defaultWeakTop     = 8
	defaultWeakFactor  = 0.5
	defaultLogLevel    = "info"
	summaryUnitTop     = 20
)

var (
	practiceScheme      string
	practiceDrill       string
	practiceText        string
	practiceRandom      bool
	practiceRandomWords int
	practiceFocusWeak   bool
	practiceWeakTop     int
	practiceWeakFactor  float64
	practiceWatch       bool
	logLevel            string
	logFile             string
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "typewriter",
		Short:         "Chord and shape-code typing trainer",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runPracticeCmd,
	}

	rootCmd.Flags().StringVar(&practiceScheme, "scheme", defaultScheme, "input scheme slug")
	rootCmd.Flags().StringVar(&practiceDrill, "drill", "", "bundled drill title or saved drill id to start with")
	rootCmd.Flags().StringVar(&practiceText, "text", "", "custom answer text, with an optional // caption")
	rootCmd.Flags().BoolVar(&practiceRandom, "random", false, "start with random drills")
	rootCmd.Flags().IntVar(&practiceRandomWords, "random-words", defaultRandomWords, "units per random drill (0 uses the whole pool)")
	rootCmd.Flags().BoolVar(&practiceFocusWeak, "focus-weak", false, "bias random drills toward weak units")
	rootCmd.Flags().IntVar(&practiceWeakTop, "weak-top", defaultWeakTop, "number of weak units to focus on")
	rootCmd.Flags().Float64Var(&practiceWeakFactor, "weak-factor", defaultWeakFactor, "share of random units drawn from weak ones (0-1)")
	rootCmd.Flags().BoolVar(&practiceWatch, "watch", false, "reload user schemes when their files change")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", defaultLogLevel, "log level (debug, info, warn, error)")

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newSchemesCmd())
	rootCmd.AddCommand(newDrillsCmd())
	rootCmd.AddCommand(newDrillCmd())
	rootCmd.AddCommand(newSpellCmd())
	rootCmd.AddCommand(newCodeCmd())
	rootCmd.AddCommand(newReplayCmd())

	return rootCmd
}

func runPracticeCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyStringConfig(cmd, "scheme", &practiceScheme, fileCfg.Practice.Scheme)
	applyStringConfig(cmd, "drill", &practiceDrill, fileCfg.Practice.Drill)
	applyIntConfig(cmd, "random-words", &practiceRandomWords, fileCfg.Practice.RandomWords)
	applyBoolConfig(cmd, "focus-weak", &practiceFocusWeak, fileCfg.Practice.FocusWeak)
	applyIntConfig(cmd, "weak-top", &practiceWeakTop, fileCfg.Practice.WeakTop)
	applyFloatConfig(cmd, "weak-factor", &practiceWeakFactor, fileCfg.Practice.WeakFactor)
	applyBoolConfig(cmd, "watch", &practiceWatch, fileCfg.Practice.Watch)
	applyStringConfig(cmd, "log-level", &logLevel, fileCfg.Log.Level)
	logFile = config.DefaultLogPath()
	if fileCfg.Log.File != nil {
		logFile = *fileCfg.Log.File
	}

	cfg := model.Config{
		Scheme:      practiceScheme,
		Drill:       practiceDrill,
		RandomWords: practiceRandomWords,
		FocusWeak:   practiceFocusWeak,
		WeakTop:     practiceWeakTop,
		WeakFactor:  practiceWeakFactor,
		Watch:       practiceWatch,
	}
	logCfg := model.LogConfig{Level: logLevel, File: logFile}
	if err := config.Validate(cfg, logCfg); err != nil {
		return err
	}

	logger, err := logging.New(logCfg.Level, logCfg.File)
	if err != nil {
		return fmt.Errorf("failed to set up logging: %w", err)
	}
	defer func() {
		_ = logger.Sync()
	}()

	schemeDir := config.DefaultSchemeDir()
	schemes, err := scheme.LoadCatalog(schemeDir)
	if err != nil {
		return fmt.Errorf("failed to load schemes: %w", err)
	}
	def, ok := schemes.Get(cfg.Scheme)
	if !ok {
		return fmt.Errorf("unknown scheme %q (available: %s)", cfg.Scheme, strings.Join(schemes.Slugs(), ", "))
	}

	drills, err := drill.LoadBundled()
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
	ctx := context.Background()
	saved, err := st.ListDrills(ctx, "")
	if err != nil {
		return fmt.Errorf("failed to list saved drills: %w", err)
	}

	opts := tui.Options{
		Config:    cfg,
		Schemes:   schemes,
		Drills:    drills,
		Saved:     saved,
		Generator: generator.New(),
		Logger:    logger,
		Random:    practiceRandom,
	}
	initial, err := resolveInitial(ctx, st, drills, def, cfg.Drill, practiceText)
	if err != nil {
		return err
	}
	opts.Initial = initial

	m := tui.NewModel(def, opts)
	program := tea.NewProgram(m, tea.WithAltScreen(), tea.WithReportFocus())

	if cfg.Watch {
		watcher, err := scheme.NewWatcher(schemeDir, logger, func(cat *scheme.Catalog, err error) {
			program.Send(tui.SchemesReloadedMsg{Catalog: cat, Err: err})
		})
		if err != nil {
			return fmt.Errorf("failed to watch schemes: %w", err)
		}
		watchCtx, cancel := context.WithCancel(ctx)
		defer cancel()
		if err := watcher.Start(watchCtx); err != nil {
			return fmt.Errorf("failed to watch schemes: %w", err)
		}
		defer watcher.Stop()
	}

	logger.Info("practice started", zap.String("scheme", def.Slug), zap.Bool("random", practiceRandom))
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return printReport(cmd, m)
}

// resolveInitial picks the first exercise: custom text, then a bundled
// drill title, then a saved drill id.
func resolveInitial(ctx context.Context, st *store.Store, drills drill.Catalog, def *scheme.Definition, name, text string) (*exercise.Assignment, error) {
	if text != "" {
		a := exercise.SplitAssignment(text)
		return &a, nil
	}
	if name == "" {
		return nil, nil
	}
	if d, ok := drills.Find(def.Slug, name); ok {
		a, err := d.Assignment()
		if err != nil {
			return nil, err
		}
		return &a, nil
	}
	saved, err := st.GetDrill(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("drill %q not found for scheme %s: %w", name, def.Slug, err)
	}
	a, err := savedAssignment(saved)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func savedAssignment(d model.SavedDrill) (exercise.Assignment, error) {
	return drill.Drill{Title: d.Title, Answer: d.Answer, Caption: d.Caption, CaptionMode: d.CaptionMode}.Assignment()
}

func printReport(cmd *cobra.Command, m *tui.Model) error {
	out := cmd.OutOrStdout()
	summaries := m.Summaries()
	if len(summaries) == 0 {
		return nil
	}
	for _, sum := range summaries {
		if err := stats.RenderSummary(out, sum, sum.Misses); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	if err := stats.RenderUnitTable(out, m.UnitStats(), summaryUnitTop); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyFloatConfig(cmd *cobra.Command, name string, target, value *float64) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyBoolConfig(cmd *cobra.Command, name string, target, value *bool) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# typewriter configuration
# Uncomment a value to enable it. CLI flags override config values.

[practice]
# scheme = %q    # Input scheme slug
# drill = ""               # Bundled drill title or saved drill id
# random-words = %d        # Units per random drill
# focus-weak = false       # Bias random drills toward weak units
# weak-top = %d             # Number of weak units to focus on
# weak-factor = %.1f       # Share of random units drawn from weak ones (0-1)
# watch = false            # Reload user schemes when their files change

[log]
# level = %q           # debug, info, warn or error
# file = %q
`,
		defaultScheme,
		defaultRandomWords,
		defaultWeakTop,
		defaultWeakFactor,
		defaultLogLevel,
		config.DefaultLogPath(),
	)
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}

func logErrln(args ...any) {
	if _, err := fmt.Fprintln(os.Stderr, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
