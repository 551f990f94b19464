package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/brandnamegen/brandcheck/internal/cache"
	"github.com/brandnamegen/brandcheck/internal/history"
	"github.com/brandnamegen/brandcheck/internal/models"
	"github.com/brandnamegen/brandcheck/internal/orchestration"
	"github.com/brandnamegen/brandcheck/internal/projectconfig"
	"github.com/brandnamegen/brandcheck/internal/reporting"
	"github.com/brandnamegen/brandcheck/internal/spinner"
	"github.com/spf13/cobra"
)

type evaluateOptions struct {
	locales   []string
	minGrade  string
	format    string
	output    string
	interpret bool
	verbose   bool
	matcher   string
	algorithm string
	cache     bool
	noCache   bool
	history   bool
	noHistory bool
}

func newEvaluateCommand(root *rootFlags) *cobra.Command {
	opts := &evaluateOptions{}

	cmd := &cobra.Command{
		Use:   "evaluate <title>",
		Short: "Score how unique a title is",
		Long: `Score how unique a brand or app title is across one or more locales.

Each locale runs the domain, ASO suggestion, storefront and web search
checks concurrently. A failed check scores half its weight and adds a
warning. With several locales every component keeps its lowest score.

Locales use the form country:hl:gl:location_code:language_code, e.g.
--locale us:en:US:2840:en --locale de:de:DE:2276:de. Empty fields keep the
United States defaults.

Exits 1 when --min-grade is given and the title grades below it.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return evaluateCommandE(cmd, root, opts, args[0])
		},
	}

	cmd.Flags().StringArrayVarP(&opts.locales, "locale", "l", nil, "Locale to evaluate (can be repeated; default: config locales or US English)")
	cmd.Flags().StringVar(&opts.minGrade, "min-grade", "", "Fail with exit code 1 below this grade: colliding, borderline, likely-unique, distinct")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "text", "Output format: text, markdown, json, junit")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "Write the report to a file instead of stdout")
	cmd.Flags().BoolVar(&opts.interpret, "interpret", false, "Print a plain-language interpretation of the result")
	cmd.Flags().BoolVarP(&opts.verbose, "verbose", "v", false, "Print per-component progress to stderr")
	cmd.Flags().StringVar(&opts.matcher, "matcher", "", "Matcher engine: auto, enhanced, builtin (overrides config)")
	cmd.Flags().StringVar(&opts.algorithm, "algorithm", "", "Enhanced matcher algorithm: wratio, jaro-winkler, levenshtein, lcs (overrides config)")
	cmd.Flags().BoolVar(&opts.cache, "cache", false, "Enable report caching (overrides config)")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "Disable report caching (overrides config)")
	cmd.Flags().BoolVar(&opts.history, "history", false, "Record the report in the history database (overrides config)")
	cmd.Flags().BoolVar(&opts.noHistory, "no-history", false, "Do not record the report (overrides config)")
	cmd.MarkFlagsMutuallyExclusive("cache", "no-cache")
	cmd.MarkFlagsMutuallyExclusive("history", "no-history")

	return cmd
}

func evaluateCommandE(cmd *cobra.Command, root *rootFlags, opts *evaluateOptions, title string) error {
	format, err := reporting.ParseFormat(opts.format)
	if err != nil {
		return err
	}
	var minGrade models.Grade
	if opts.minGrade != "" {
		if minGrade, err = models.ParseGrade(opts.minGrade); err != nil {
			return err
		}
	}

	cfg, err := root.loadConfig()
	if err != nil {
		return err
	}

	uc, err := cfg.Uniqueness()
	if err != nil {
		return fmt.Errorf("invalid scoring config: %w", err)
	}
	if opts.matcher != "" {
		if uc.MatcherEngine, err = models.ParseMatcherEngine(opts.matcher); err != nil {
			return err
		}
	}
	algorithm := cfg.EnhancedAlgorithm
	if opts.algorithm != "" {
		algorithm = opts.algorithm
	}

	locales, err := resolveLocales(cfg, opts.locales)
	if err != nil {
		return err
	}

	creds, err := loadCredentials()
	if err != nil {
		return err
	}

	evalOpts := []orchestration.Option{
		orchestration.WithProviders(newProviderSet(cfg, creds)),
		orchestration.WithMatcherAlgorithm(algorithm),
		orchestration.WithParallelLocales(cfg.ParallelLocales),
	}

	if enabled(cfg.CacheEnabled(), opts.cache, opts.noCache) {
		evalOpts = append(evalOpts, orchestration.WithCache(cache.New(cfg.CacheDir(), cfg.CacheTTL())))
	}
	if enabled(cfg.HistoryEnabled(), opts.history, opts.noHistory) {
		store, err := history.Open(cfg.HistoryPath())
		if err != nil {
			return fmt.Errorf("opening history: %w", err)
		}
		defer store.Close() //nolint:errcheck
		evalOpts = append(evalOpts, orchestration.WithHistory(store))
	}

	ev := orchestration.New(uc, evalOpts...)

	errOut := cmd.ErrOrStderr()
	stopProgress := func() {}
	switch {
	case opts.verbose:
		ev.OnProgress(newVerboseListener(errOut))
	case spinner.IsTerminal(errOut):
		s := spinner.New(errOut, fmt.Sprintf("Evaluating %s...", reporting.TruncateTitle(title, 40)))
		ev.OnProgress(spinnerListener(s))
		stopProgress = s.Stop
	}

	report, err := ev.Evaluate(cmd.Context(), title, locales)
	stopProgress()
	if err != nil {
		return err
	}

	if err := writeReport(cmd.OutOrStdout(), opts.output, format, report); err != nil {
		return err
	}
	if opts.interpret {
		fmt.Fprintf(cmd.OutOrStdout(), "\n%s", reporting.FormatSummaryReport(report)) //nolint:errcheck
	}

	if minGrade != "" && !report.Grade.AtLeast(minGrade) {
		return &GradeBelowMinimumError{Title: report.Title, Grade: report.Grade, Minimum: minGrade}
	}
	return nil
}

// enabled applies --x / --no-x flags over a config default.
func enabled(configured, on, off bool) bool {
	switch {
	case off:
		return false
	case on:
		return true
	default:
		return configured
	}
}

func resolveLocales(cfg *projectconfig.ProjectConfig, flags []string) ([]models.LocaleSpec, error) {
	if len(flags) == 0 {
		return cfg.LocaleSpecs()
	}
	out := make([]models.LocaleSpec, 0, len(flags))
	for _, s := range flags {
		loc, err := models.ParseLocale(s)
		if err != nil {
			return nil, err
		}
		out = append(out, loc)
	}
	return out, nil
}

// writeReport renders report to path, or to w when path is empty.
func writeReport(w io.Writer, path string, format reporting.Format, report *models.UniquenessReport) error {
	if path == "" {
		return reporting.Write(w, format, report)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating output file: %w", err)
	}
	if err := reporting.Write(f, format, report); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("writing output file: %w", err)
	}
	fmt.Fprintf(w, "Report written to %s (%s %d/100)\n", path, report.Grade, report.OverallScore) //nolint:errcheck
	return nil
}

// newVerboseListener prints one line per event. Events arrive from several
// goroutines, so writes are serialized.
func newVerboseListener(w io.Writer) orchestration.ProgressListener {
	var mu sync.Mutex
	return func(event orchestration.ProgressEvent) {
		mu.Lock()
		defer mu.Unlock()

		switch event.EventType {
		case orchestration.EventEvaluationStart:
			fmt.Fprintf(w, "Evaluating %q across %d locale(s)...\n", event.Title, event.TotalLocales) //nolint:errcheck
		case orchestration.EventEvaluationCached:
			fmt.Fprintf(w, "%q [cached]\n", event.Title) //nolint:errcheck
		case orchestration.EventLocaleStart:
			fmt.Fprintf(w, "[%d/%d] Locale %s\n", event.LocaleNum, event.TotalLocales, event.Locale) //nolint:errcheck
		case orchestration.EventComponentComplete:
			duration := time.Duration(event.DurationMs) * time.Millisecond
			icon := "✓"
			if event.Warning != "" {
				icon = "!"
			}
			fmt.Fprintf(w, "  %s %s/%s score=%d (%v)", icon, event.Locale, event.Component, event.Score, duration) //nolint:errcheck
			if event.Warning != "" {
				fmt.Fprintf(w, ": %s", event.Warning) //nolint:errcheck
			}
			fmt.Fprintln(w) //nolint:errcheck
		case orchestration.EventLocaleComplete:
			fmt.Fprintf(w, "[%d/%d] Locale %s total=%d\n", event.LocaleNum, event.TotalLocales, event.Locale, event.Score) //nolint:errcheck
		case orchestration.EventEvaluationComplete:
			duration := time.Duration(event.DurationMs) * time.Millisecond
			fmt.Fprintf(w, "Evaluation completed in %v\n", duration) //nolint:errcheck
		}
	}
}

// spinnerListener keeps the spinner message on the latest component.
func spinnerListener(s *spinner.Spinner) orchestration.ProgressListener {
	return func(event orchestration.ProgressEvent) {
		if event.EventType != orchestration.EventComponentComplete {
			return
		}
		parts := []string{"Checked", string(event.Component)}
		if event.Locale != "" {
			parts = append(parts, "("+event.Locale+")")
		}
		s.Update(strings.Join(parts, " ") + "...")
	}
}
