// Package main provides the CLI entrypoint for primedial.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/primedial/internal/config"
	"github.com/verte-zerg/primedial/internal/dial"
	"github.com/verte-zerg/primedial/internal/dialui"
	"github.com/verte-zerg/primedial/internal/engine"
	"github.com/verte-zerg/primedial/internal/log"
	"github.com/verte-zerg/primedial/internal/model"
	"github.com/verte-zerg/primedial/internal/store"
)

const (
	defaultMin           = 1
	defaultMax           = 1000
	defaultCap           = dial.DefaultCap
	defaultDebounceMs    = 300
	defaultCacheCapacity = 256
	defaultMaxSpan       = 10_000_000
	defaultHighlight     = model.HighlightExact
	defaultLogLevel      = "INFO"
	defaultLogFormat     = "text"
)

var (
	rangeMin      int
	rangeMax      int
	rangeMaxSpan  int
	displayCap    int
	debounceMs    int
	highlightMode string
	cacheCapacity int
	logLevel      string
	logFormat     string
	randomSeed    int64
)

// settings is everything resolved from flags, env, and the config file.
type settings struct {
	cfg       model.Config
	logLevel  string
	logFormat string
	dbPath    string
}

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "primedial",
		Short:         "Prime range dial and random prime picker",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runDialCmd,
	}

	flags := rootCmd.PersistentFlags()
	flags.IntVar(&rangeMin, "min", defaultMin, "lower bound of the range (inclusive)")
	flags.IntVar(&rangeMax, "max", defaultMax, "upper bound of the range (inclusive)")
	flags.IntVar(&rangeMaxSpan, "max-span", defaultMaxSpan, "largest accepted range size (0 disables)")
	flags.IntVar(&displayCap, "cap", defaultCap, "maximum number of dial segments")
	flags.IntVar(&debounceMs, "debounce-ms", defaultDebounceMs, "delay before recomputing after a range edit")
	flags.StringVar(&highlightMode, "highlight-mode", defaultHighlight, "how draws map onto the dial (exact or nearest)")
	flags.IntVar(&cacheCapacity, "cache-capacity", defaultCacheCapacity, "number of ranges kept in memory (0 keeps all)")
	flags.StringVar(&logLevel, "log-level", defaultLogLevel, "log level (DEBUG, INFO, WARN, ERROR)")
	flags.StringVar(&logFormat, "log-format", defaultLogFormat, "log format (text or json)")

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newPrimesCmd())
	rootCmd.AddCommand(newRandomCmd())
	rootCmd.AddCommand(newSeriesCmd())
	rootCmd.AddCommand(newHistoryCmd())

	return rootCmd
}

func runDialCmd(cmd *cobra.Command, _ []string) error {
	s, err := resolveSettings(cmd)
	if err != nil {
		return err
	}

	logger, closeLog := openTUILogger(s)
	defer closeLog()

	eng, err := engine.New(s.cfg, engine.WithLogger(logger))
	if err != nil {
		return fmt.Errorf("failed to create engine: %w", err)
	}

	st, err := store.Open(s.dbPath)
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	model := dialui.NewModel(eng, st, s.cfg, logger)
	program := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

func resolveSettings(cmd *cobra.Command) (settings, error) {
	fileCfg, envCfg, err := config.Load(config.DefaultConfigPath(), "")
	if err != nil {
		return settings{}, fmt.Errorf("failed to load config: %w", err)
	}
	applyIntConfig(cmd, "min", &rangeMin, fileCfg.Range.Min)
	applyIntConfig(cmd, "max", &rangeMax, fileCfg.Range.Max)
	applyIntConfig(cmd, "max-span", &rangeMaxSpan, fileCfg.Range.MaxSpan)
	applyIntConfig(cmd, "cap", &displayCap, fileCfg.Display.Cap)
	applyIntConfig(cmd, "debounce-ms", &debounceMs, fileCfg.Display.DebounceMs)
	applyStringConfig(cmd, "highlight-mode", &highlightMode, fileCfg.Display.Highlight)
	applyIntConfig(cmd, "cache-capacity", &cacheCapacity, fileCfg.Cache.Capacity)
	applyStringConfig(cmd, "log-level", &logLevel, fileCfg.Log.Level)
	applyStringConfig(cmd, "log-format", &logFormat, fileCfg.Log.Format)

	cfg := model.Config{
		Min:           rangeMin,
		Max:           rangeMax,
		Cap:           displayCap,
		DebounceMs:    debounceMs,
		Highlight:     highlightMode,
		CacheCapacity: cacheCapacity,
		MaxSpan:       rangeMaxSpan,
		Seed:          randomSeed,
	}
	if err := validateConfig(cfg); err != nil {
		return settings{}, err
	}

	dbPath := envCfg.DBPath
	if dbPath == "" {
		dbPath = config.DefaultDBPath()
	}
	return settings{
		cfg:       cfg,
		logLevel:  logLevel,
		logFormat: logFormat,
		dbPath:    dbPath,
	}, nil
}

func newCLILogger(s settings) *log.Logger {
	return log.NewLogger(os.Stderr, log.ParseFormat(s.logFormat), s.logLevel)
}

// openTUILogger logs to a file next to the database so the alternate screen
// stays clean. It falls back to discarding records.
func openTUILogger(s settings) (*log.Logger, func()) {
	path := config.DefaultLogPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return log.Discard(), func() {}
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return log.Discard(), func() {}
	}
	logger := log.NewLogger(file, log.ParseFormat(s.logFormat), s.logLevel)
	return logger, func() {
		if cerr := file.Close(); cerr != nil {
			logErrf("failed to close log file: %v\n", cerr)
		}
	}
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

func validateConfig(cfg model.Config) error {
	if cfg.Min > cfg.Max {
		return fmt.Errorf("--min must be <= --max")
	}
	if cfg.Cap <= 0 {
		return fmt.Errorf("--cap must be > 0")
	}
	if cfg.DebounceMs < 0 {
		return fmt.Errorf("--debounce-ms must be >= 0")
	}
	if cfg.Highlight != model.HighlightExact && cfg.Highlight != model.HighlightNearest {
		return fmt.Errorf("--highlight-mode must be %q or %q", model.HighlightExact, model.HighlightNearest)
	}
	if cfg.CacheCapacity < 0 {
		return fmt.Errorf("--cache-capacity must be >= 0")
	}
	if cfg.MaxSpan < 0 {
		return fmt.Errorf("--max-span must be >= 0")
	}
	return nil
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
