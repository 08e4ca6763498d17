// Package main provides the CLI entrypoint for minutetype.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/verte-zerg/minutetype/internal/config"
	"github.com/verte-zerg/minutetype/internal/engine"
	"github.com/verte-zerg/minutetype/internal/generator"
	"github.com/verte-zerg/minutetype/internal/history"
	"github.com/verte-zerg/minutetype/internal/historyui"
	"github.com/verte-zerg/minutetype/internal/logging"
	"github.com/verte-zerg/minutetype/internal/model"
	"github.com/verte-zerg/minutetype/internal/store"
	"github.com/verte-zerg/minutetype/internal/tui"
	"github.com/verte-zerg/minutetype/internal/wordlist"
)

const (
	defaultLang     = wordlist.DefaultLang
	defaultCaps     = 0.0
	defaultPunct    = 0.0
	defaultWindow   = 5
	defaultLogLevel = "info"
	plainWidth      = 80
)

const defaultPunctSet = ".,!?;:"

var (
	testLang     string
	testWordList string
	testCaps     float64
	testPunct    float64
	testPunctSet string
	testSave     bool

	logLevel string

	historyLang   string
	historySince  string
	historyLast   int
	historyWindow int
	historyPlain  bool

	exportLang   string
	exportSince  string
	exportLast   int
	exportFormat string
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "minutetype",
		Short:         "One-minute typing speed test",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runTestCmd,
	}

	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", defaultLogLevel, "log level (debug, info, warn, error)")

	rootCmd.Flags().StringVar(&testLang, "lang", defaultLang, "language code")
	rootCmd.Flags().StringVar(&testWordList, "wordlist", "", "word list file, one word per line")
	rootCmd.Flags().Float64Var(&testCaps, "caps", defaultCaps, "probability of capitalized first letter (0-1)")
	rootCmd.Flags().Float64Var(&testPunct, "punct", defaultPunct, "punctuation probability per word (0-1)")
	rootCmd.Flags().StringVar(&testPunctSet, "punct-set", defaultPunctSet, "punctuation set")
	rootCmd.Flags().BoolVar(&testSave, "save", true, "store finished results")

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newHistoryCmd())
	rootCmd.AddCommand(newExportCmd())

	return rootCmd
}

func loadFileConfig(cmd *cobra.Command) (config.FileConfig, error) {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return config.FileConfig{}, fmt.Errorf("failed to load config: %w", err)
	}
	applyStringConfig(cmd, "log-level", &logLevel, fileCfg.Log.Level)
	return fileCfg, nil
}

func runTestCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := loadFileConfig(cmd)
	if err != nil {
		return err
	}
	applyStringConfig(cmd, "lang", &testLang, fileCfg.Test.Lang)
	applyStringConfig(cmd, "wordlist", &testWordList, fileCfg.Test.WordList)
	applyFloatConfig(cmd, "caps", &testCaps, fileCfg.Test.CapsPct)
	applyFloatConfig(cmd, "punct", &testPunct, fileCfg.Test.PunctPct)
	applyStringConfig(cmd, "punct-set", &testPunctSet, fileCfg.Test.PunctSet)
	applyBoolConfig(cmd, "save", &testSave, fileCfg.Test.Save)

	cfg := model.Config{
		Lang:     strings.ToLower(strings.TrimSpace(testLang)),
		WordList: testWordList,
		CapsPct:  testCaps,
		PunctPct: testPunct,
		PunctSet: testPunctSet,
		Save:     testSave,
		Tiers:    fileCfg.TierList(),
	}
	if err := config.Validate(cfg); err != nil {
		return err
	}

	level, err := logging.ParseLevel(logLevel)
	if err != nil {
		return err
	}
	logPath := config.DefaultLogPath()
	if fileCfg.Log.File != nil && *fileCfg.Log.File != "" {
		logPath = *fileCfg.Log.File
	}
	closeLog, err := logging.SetupFile(logPath, level)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := closeLog(); cerr != nil {
			logErrf("failed to close log: %v\n", cerr)
		}
	}()

	wordPath := resolveWordListPath(cfg)
	words, source, err := wordlist.Resolve(wordPath, cfg.Lang)
	if err != nil {
		return err
	}
	slog.Info("word list loaded", "source", source, "words", len(words))

	var recorder tui.Recorder
	if cfg.Save {
		st, err := store.Open(config.DefaultDBPath())
		if err != nil {
			return fmt.Errorf("failed to open db: %w", err)
		}
		defer func() {
			if cerr := st.Close(); cerr != nil {
				slog.Error("failed to close db", "err", cerr)
			}
		}()
		recorder = st
	}

	gen := generator.New(words, generator.Options{
		CapsPct:  cfg.CapsPct,
		PunctPct: cfg.PunctPct,
		PunctSet: []rune(cfg.PunctSet),
	})
	session := engine.New(gen, cfg.Tiers)
	m := tui.NewModel(session, recorder, tui.Options{Lang: cfg.Lang, WordSource: source, Save: cfg.Save})
	program := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

func resolveWordListPath(cfg model.Config) string {
	if cfg.WordList != "" {
		return cfg.WordList
	}
	return config.DefaultWordListPath(cfg.Lang)
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
	if err := ensureConfigFile(path); err != nil {
		return err
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

// ensureConfigFile writes the commented template unless a config already exists.
func ensureConfigFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("failed to stat config: %w", err)
	}
	if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Browse past results",
		Args:  cobra.NoArgs,
		RunE:  runHistoryCmd,
	}
	cmd.Flags().StringVar(&historyLang, "lang", "", "language filter")
	cmd.Flags().StringVar(&historySince, "since", "", "start date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&historyLast, "last", 0, "limit to last N results")
	cmd.Flags().IntVar(&historyWindow, "window", defaultWindow, "moving average window")
	cmd.Flags().BoolVar(&historyPlain, "plain", false, "print a text report instead of the TUI")
	return cmd
}

func runHistoryCmd(cmd *cobra.Command, _ []string) error {
	if err := setupCLILogging(cmd); err != nil {
		return err
	}
	filter, err := buildFilter(historyLang, historySince, historyLast, historyWindow)
	if err != nil {
		return err
	}

	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			slog.Error("failed to close db", "err", cerr)
		}
	}()

	if historyPlain {
		return runPlainHistory(cmd.Context(), cmd.OutOrStdout(), st, filter)
	}
	m := historyui.NewModel(st, filter)
	program := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run history TUI: %w", err)
	}
	return nil
}

func runPlainHistory(ctx context.Context, w io.Writer, src history.Source, filter model.HistoryFilter) error {
	report, err := history.BuildReport(ctx, src, filter)
	if err != nil {
		return fmt.Errorf("failed to build report: %w", err)
	}
	return history.Render(w, report, filter.Window, terminalWidth())
}

func terminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return plainWidth
	}
	return width
}

func newExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write past results as JSON or YAML",
		Args:  cobra.NoArgs,
		RunE:  runExportCmd,
	}
	cmd.Flags().StringVar(&exportFormat, "format", history.FormatJSON, "output format (json or yaml)")
	cmd.Flags().StringVar(&exportLang, "lang", "", "language filter")
	cmd.Flags().StringVar(&exportSince, "since", "", "start date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&exportLast, "last", 0, "limit to last N results")
	return cmd
}

func runExportCmd(cmd *cobra.Command, _ []string) error {
	if err := setupCLILogging(cmd); err != nil {
		return err
	}
	filter, err := buildFilter(exportLang, exportSince, exportLast, 1)
	if err != nil {
		return err
	}

	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			slog.Error("failed to close db", "err", cerr)
		}
	}()

	report, err := history.BuildReport(cmd.Context(), st, filter)
	if err != nil {
		return fmt.Errorf("failed to build report: %w", err)
	}
	slog.Debug("exporting results", "count", len(report.Results), "format", exportFormat)
	return history.Export(cmd.OutOrStdout(), report.Results, exportFormat)
}

func setupCLILogging(cmd *cobra.Command) error {
	if _, err := loadFileConfig(cmd); err != nil {
		return err
	}
	level, err := logging.ParseLevel(logLevel)
	if err != nil {
		return err
	}
	logging.Setup(level)
	return nil
}

func buildFilter(lang, since string, last, window int) (model.HistoryFilter, error) {
	filter := model.HistoryFilter{
		Lang:   strings.ToLower(strings.TrimSpace(lang)),
		Last:   last,
		Window: window,
	}
	if since != "" {
		parsed, err := time.ParseInLocation("2006-01-02", since, time.Local)
		if err != nil {
			return model.HistoryFilter{}, fmt.Errorf("invalid --since value: %w", err)
		}
		filter.Since = &parsed
	}
	if err := config.ValidateFilter(filter); err != nil {
		return model.HistoryFilter{}, err
	}
	return filter, nil
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
	var tiers strings.Builder
	for _, t := range engine.DefaultTiers() {
		fmt.Fprintf(&tiers, "# [[tiers]]\n# wpm = %d\n# name = %q\n# icon = %q\n", t.WPM, t.Name, t.Icon)
	}
	return fmt.Sprintf(`# minutetype configuration
# Uncomment a value to enable it. CLI flags override config values.

[test]
# lang = %q              # Language code
# wordlist = ""            # Word list file (default: built-in list or wordlists/<lang>.txt)
# caps = %.2f              # Probability of capitalized first letter (0-1)
# punct = %.2f             # Punctuation probability per word (0-1)
# punct-set = %q       # Punctuation set
# save = true              # Store finished results

[log]
# level = %q           # debug, info, warn, error
# file = ""                # Log file for the test screen

# Tiers are resolved by the highest threshold at or below the final WPM.
%s`,
		defaultLang,
		defaultCaps,
		defaultPunct,
		defaultPunctSet,
		defaultLogLevel,
		tiers.String(),
	)
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
