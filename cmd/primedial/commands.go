package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/verte-zerg/primedial/internal/chart"
	"github.com/verte-zerg/primedial/internal/config"
	"github.com/verte-zerg/primedial/internal/engine"
	"github.com/verte-zerg/primedial/internal/log"
	"github.com/verte-zerg/primedial/internal/model"
	"github.com/verte-zerg/primedial/internal/selector"
	"github.com/verte-zerg/primedial/internal/store"
)

const (
	defaultHistoryLast = 20
	historyTimeLayout  = "2006-01-02 15:04:05"
	noPrimesNote       = "No primes in range"
)

var timeNow = time.Now

var (
	seriesHighlight int
	seriesColor     bool
	seriesRows      int

	historyLast   int
	historyCounts bool
	historySince  string
)

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

func newPrimesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "primes",
		Short: "List the primes in a range",
		Args:  cobra.NoArgs,
		RunE:  runPrimesCmd,
	}
}

func runPrimesCmd(cmd *cobra.Command, _ []string) error {
	s, err := resolveSettings(cmd)
	if err != nil {
		return err
	}
	eng, err := engine.New(s.cfg, engine.WithLogger(newCLILogger(s)))
	if err != nil {
		return fmt.Errorf("failed to create engine: %w", err)
	}
	primes, err := eng.QueryRange(cmd.Context(), s.cfg.Min, s.cfg.Max)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	for _, p := range primes {
		if _, err := fmt.Fprintln(out, p); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

func newRandomCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "random",
		Short: "Draw a random prime from a range",
		Args:  cobra.NoArgs,
		RunE:  runRandomCmd,
	}
	cmd.Flags().Int64Var(&randomSeed, "seed", 0, "random seed (0 uses the clock)")
	return cmd
}

func runRandomCmd(cmd *cobra.Command, _ []string) error {
	s, err := resolveSettings(cmd)
	if err != nil {
		return err
	}
	logger := newCLILogger(s)
	eng, err := engine.New(s.cfg, engine.WithLogger(logger))
	if err != nil {
		return fmt.Errorf("failed to create engine: %w", err)
	}
	value, err := eng.RandomPrime(cmd.Context(), s.cfg.Min, s.cfg.Max)
	if errors.Is(err, selector.ErrEmptyRange) {
		_, werr := fmt.Fprintln(cmd.OutOrStdout(), noPrimesNote)
		return werr
	}
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintln(cmd.OutOrStdout(), value); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	recordDraw(cmd.Context(), s, logger, model.Draw{
		Min:     s.cfg.Min,
		Max:     s.cfg.Max,
		Value:   value,
		DrawnAt: timeNow(),
	})
	return nil
}

// recordDraw stores a draw in history. Failures are logged, not returned.
func recordDraw(ctx context.Context, s settings, logger *log.Logger, draw model.Draw) {
	st, err := store.Open(s.dbPath)
	if err != nil {
		logger.Warn("failed to open history", "path", s.dbPath, "error", err)
		return
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()
	if _, err := st.InsertDraw(ctx, draw); err != nil {
		logger.Warn("failed to record draw", "error", err)
	}
}

func newSeriesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "series",
		Short: "Render the dial chart and its table",
		Args:  cobra.NoArgs,
		RunE:  runSeriesCmd,
	}
	cmd.Flags().IntVar(&seriesHighlight, "highlight", 0, "prime to highlight on the dial")
	cmd.Flags().BoolVar(&seriesColor, "color", false, "force colour output")
	cmd.Flags().IntVar(&seriesRows, "rows", 0, "chart height in lines (0 fits the terminal)")
	return cmd
}

func runSeriesCmd(cmd *cobra.Command, _ []string) error {
	s, err := resolveSettings(cmd)
	if err != nil {
		return err
	}
	eng, err := engine.New(s.cfg, engine.WithLogger(newCLILogger(s)))
	if err != nil {
		return fmt.Errorf("failed to create engine: %w", err)
	}
	ctx := cmd.Context()
	out := cmd.OutOrStdout()
	series, err := eng.BuildSeries(ctx, s.cfg.Min, s.cfg.Max, s.cfg.Cap)
	if errors.Is(err, selector.ErrEmptyRange) {
		_, werr := fmt.Fprintln(out, noPrimesNote)
		return werr
	}
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("highlight") {
		series, err = eng.HighlightValue(ctx, series, s.cfg.Min, s.cfg.Max, seriesHighlight)
		if err != nil {
			return err
		}
	}

	title := fmt.Sprintf("Primes %s", model.Range{Min: s.cfg.Min, Max: s.cfg.Max})
	if err := chart.RenderDial(out, series, chart.DialOptions{Title: title, Rows: seriesRows, Color: seriesColor}); err != nil {
		return fmt.Errorf("failed to render dial: %w", err)
	}
	if _, err := fmt.Fprintln(out); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if err := chart.RenderSummary(out, series); err != nil {
		return fmt.Errorf("failed to render summary: %w", err)
	}
	if _, err := fmt.Fprintln(out); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if err := chart.RenderTable(out, series); err != nil {
		return fmt.Errorf("failed to render table: %w", err)
	}
	return nil
}

func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show past random draws",
		Args:  cobra.NoArgs,
		RunE:  runHistoryCmd,
	}
	cmd.Flags().IntVar(&historyLast, "last", defaultHistoryLast, "limit to last N draws (0 shows all)")
	cmd.Flags().BoolVar(&historyCounts, "counts", false, "show how often each prime was drawn")
	cmd.Flags().StringVar(&historySince, "since", "", "only draws on or after this date (YYYY-MM-DD)")
	return cmd
}

func runHistoryCmd(cmd *cobra.Command, _ []string) error {
	s, err := resolveSettings(cmd)
	if err != nil {
		return err
	}
	if historyLast < 0 {
		return fmt.Errorf("--last must be >= 0")
	}
	filter := model.HistoryFilter{Last: historyLast}
	if historySince != "" {
		parsed, err := time.ParseInLocation("2006-01-02", historySince, time.Local)
		if err != nil {
			return fmt.Errorf("invalid --since value: %w", err)
		}
		filter.Since = &parsed
	}
	if cmd.Flags().Changed("min") || cmd.Flags().Changed("max") {
		filter.Range = &model.Range{Min: s.cfg.Min, Max: s.cfg.Max}
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

	out := cmd.OutOrStdout()
	if historyCounts {
		counts, err := st.DrawCounts(cmd.Context(), filter)
		if err != nil {
			return fmt.Errorf("failed to load draw counts: %w", err)
		}
		return writeLines(out, formatCounts(counts))
	}
	draws, err := st.ListDraws(cmd.Context(), filter)
	if err != nil {
		return fmt.Errorf("failed to load history: %w", err)
	}
	return writeLines(out, formatDraws(draws))
}

func formatDraws(draws []model.Draw) []string {
	if len(draws) == 0 {
		return []string{"No draws found."}
	}
	lines := make([]string, 0, len(draws))
	for _, d := range draws {
		lines = append(lines, fmt.Sprintf("%s  %-21s  %d",
			d.DrawnAt.Local().Format(historyTimeLayout),
			model.Range{Min: d.Min, Max: d.Max},
			d.Value))
	}
	return lines
}

func formatCounts(counts []model.DrawCount) []string {
	if len(counts) == 0 {
		return []string{"No draws found."}
	}
	lines := make([]string, 0, len(counts))
	for _, c := range counts {
		lines = append(lines, fmt.Sprintf("%d x%d", c.Value, c.Count))
	}
	return lines
}

func writeLines(w io.Writer, lines []string) error {
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# primedial configuration
# Uncomment a value to enable it. PRIMEDIAL_* environment variables override
# config values and CLI flags override both.

[range]
# min = %d                # Lower bound (inclusive)
# max = %d             # Upper bound (inclusive)
# max-span = %d     # Largest accepted range size (0 disables)

[display]
# cap = %d                # Maximum number of dial segments
# debounce-ms = %d       # Delay before recomputing after a range edit
# highlight = %q      # "exact" or "nearest"

[cache]
# capacity = %d          # Ranges kept in memory (0 keeps all)

[log]
# level = %q          # DEBUG, INFO, WARN, ERROR
# format = %q         # text or json
`,
		defaultMin,
		defaultMax,
		defaultMaxSpan,
		defaultCap,
		defaultDebounceMs,
		defaultHighlight,
		defaultCacheCapacity,
		defaultLogLevel,
		defaultLogFormat,
	)
}
