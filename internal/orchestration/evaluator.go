// Package orchestration drives a uniqueness evaluation: it fans the four
// providers out per locale, scores their answers, substitutes neutral
// scores for failures and combines the locales conservatively.
package orchestration

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/brandnamegen/brandcheck/internal/cache"
	"github.com/brandnamegen/brandcheck/internal/matcher"
	"github.com/brandnamegen/brandcheck/internal/models"
	"github.com/brandnamegen/brandcheck/internal/providers"
	"github.com/brandnamegen/brandcheck/internal/scoring"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
)

// DefaultParallelLocales bounds how many locales are evaluated at once.
const DefaultParallelLocales = 4

const tracerName = "github.com/brandnamegen/brandcheck/internal/orchestration"

// Recorder persists finished reports. *history.Store implements it.
type Recorder interface {
	Record(ctx context.Context, report *models.UniquenessReport) error
}

// Evaluator scores titles. It is safe for concurrent use.
type Evaluator struct {
	// mu guards cfg and the matcher binding.
	mu              sync.Mutex
	cfg             models.UniquenessConfig
	algorithm       string
	matcher         matcher.Matcher
	explicitMatcher bool
	resolve         func(models.MatcherEngine, string) (matcher.Matcher, error)

	providers       providers.Set
	cache           *cache.Cache
	history         Recorder
	parallelLocales int
	tracer          trace.Tracer
	now             func() time.Time
	newID           func() string

	// Progress tracking
	progressMu sync.Mutex
	listeners  []ProgressListener
}

// Option configures an Evaluator.
type Option func(*Evaluator)

// WithProviders sets the provider for each component.
func WithProviders(set providers.Set) Option {
	return func(e *Evaluator) {
		e.providers = set
	}
}

// WithMatcher pins the matcher. The configured engine is then ignored.
func WithMatcher(m matcher.Matcher) Option {
	return func(e *Evaluator) {
		e.matcher = m
		e.explicitMatcher = m != nil
	}
}

// WithMatcherAlgorithm selects the enhanced engine's algorithm.
func WithMatcherAlgorithm(algorithm string) Option {
	return func(e *Evaluator) {
		e.algorithm = algorithm
	}
}

// WithCache enables report caching
func WithCache(c *cache.Cache) Option {
	return func(e *Evaluator) {
		e.cache = c
	}
}

// WithHistory records every fresh report.
func WithHistory(r Recorder) Option {
	return func(e *Evaluator) {
		e.history = r
	}
}

// WithParallelLocales bounds locale concurrency. Values below 1 keep the default.
func WithParallelLocales(n int) Option {
	return func(e *Evaluator) {
		if n > 0 {
			e.parallelLocales = n
		}
	}
}

// WithTracerProvider records spans on tp instead of the global provider.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(e *Evaluator) {
		if tp != nil {
			e.tracer = tp.Tracer(tracerName)
		}
	}
}

// New creates an evaluator for cfg. The config is validated on Evaluate.
func New(cfg models.UniquenessConfig, opts ...Option) *Evaluator {
	e := &Evaluator{
		cfg:             cfg.Clone(),
		resolve:         matcher.Resolve,
		parallelLocales: DefaultParallelLocales,
		tracer:          otel.Tracer(tracerName),
		now:             time.Now,
		newID:           uuid.NewString,
	}
	for _, o := range opts {
		o(e)
	}
	return e
}

// Config returns a copy of the current configuration.
func (e *Evaluator) Config() models.UniquenessConfig {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.cfg.Clone()
}

// SetConfig replaces the configuration. A matcher resolved from the previous
// engine setting is dropped and resolved again on the next Evaluate; a
// matcher set with SetMatcher or WithMatcher is kept.
func (e *Evaluator) SetConfig(cfg models.UniquenessConfig) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.cfg = cfg.Clone()
	if !e.explicitMatcher {
		e.matcher = nil
	}
}

// SetMatcher pins m for later evaluations. A nil m restores engine resolution.
func (e *Evaluator) SetMatcher(m matcher.Matcher) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.matcher = m
	e.explicitMatcher = m != nil
}

// snapshot validates the config and binds the matcher at most once.
func (e *Evaluator) snapshot() (models.UniquenessConfig, matcher.Matcher, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.cfg.Validate(); err != nil {
		return models.UniquenessConfig{}, nil, fmt.Errorf("invalid uniqueness config: %w", err)
	}

	if e.matcher == nil {
		engine, _ := models.ParseMatcherEngine(string(e.cfg.MatcherEngine))
		m, err := e.resolve(engine, e.algorithm)
		if err != nil {
			return models.UniquenessConfig{}, nil, fmt.Errorf("resolving matcher: %w", err)
		}
		slog.Debug("Matcher resolved", "engine", engine, "matcher", m.Name())
		e.matcher = m
	}

	return e.cfg.Clone(), e.matcher, nil
}

// Evaluate scores title in every locale and combines the results. An empty
// locale list evaluates the default locale. Provider failures never surface
// as errors; they become neutral components with a warning.
func (e *Evaluator) Evaluate(ctx context.Context, title string, locales []models.LocaleSpec) (*models.UniquenessReport, error) {
	cfg, m, err := e.snapshot()
	if err != nil {
		return nil, err
	}

	title = strings.TrimSpace(title)
	if len(locales) == 0 {
		locales = []models.LocaleSpec{models.DefaultLocale()}
	}

	ctx, span := e.tracer.Start(ctx, "brandcheck.evaluate", trace.WithAttributes(
		attribute.String("brandcheck.title", title),
		attribute.Int("brandcheck.locales", len(locales)),
		attribute.String("brandcheck.matcher", m.Name()),
	))
	defer span.End()

	cacheKey := e.cacheKey(title, locales, cfg, m)
	if cacheKey != "" {
		if cached, ok := e.cache.Get(cacheKey); ok {
			cached.Cached = true
			span.SetAttributes(attribute.Bool("brandcheck.cached", true))
			e.notifyProgress(ProgressEvent{
				EventType:    EventEvaluationCached,
				Title:        title,
				TotalLocales: len(locales),
				Score:        cached.OverallScore,
			})
			return cached, nil
		}
	}

	start := e.now()
	e.notifyProgress(ProgressEvent{
		EventType:    EventEvaluationStart,
		Title:        title,
		TotalLocales: len(locales),
	})

	reports := make([]models.LocaleReport, len(locales))

	var g errgroup.Group
	g.SetLimit(e.parallelLocales)
	for i, loc := range locales {
		g.Go(func() error {
			e.notifyProgress(ProgressEvent{
				EventType:    EventLocaleStart,
				Title:        title,
				Locale:       loc.Label(),
				LocaleNum:    i + 1,
				TotalLocales: len(locales),
			})

			reports[i] = e.evaluateLocale(ctx, title, loc, m, cfg)

			e.notifyProgress(ProgressEvent{
				EventType:    EventLocaleComplete,
				Title:        title,
				Locale:       loc.Label(),
				LocaleNum:    i + 1,
				TotalLocales: len(locales),
				Score:        localeTotal(reports[i]),
				DurationMs:   reports[i].DurationMs,
			})
			return nil
		})
	}
	_ = g.Wait()

	components := combine(reports)
	total := 0
	for _, v := range components {
		total += v
	}

	report := &models.UniquenessReport{
		ID:           e.newID(),
		Title:        title,
		OverallScore: total,
		Grade:        scoring.BinGrade(total, cfg.Thresholds),
		Components:   components,
		Locales:      reports,
		Explanations: explanations(reports),
		Matcher:      m.Name(),
		EvaluatedAt:  start.UTC(),
		DurationMs:   e.now().Sub(start).Milliseconds(),
	}

	span.SetAttributes(
		attribute.Int("brandcheck.score", report.OverallScore),
		attribute.String("brandcheck.grade", string(report.Grade)),
	)

	e.store(ctx, cacheKey, report)

	e.notifyProgress(ProgressEvent{
		EventType:    EventEvaluationComplete,
		Title:        title,
		TotalLocales: len(locales),
		Score:        report.OverallScore,
		DurationMs:   report.DurationMs,
		Details:      map[string]any{"grade": string(report.Grade), "warnings": len(report.Warnings())},
	})

	return report, nil
}

func (e *Evaluator) cacheKey(title string, locales []models.LocaleSpec, cfg models.UniquenessConfig, m matcher.Matcher) string {
	if e.cache == nil {
		return ""
	}
	key, err := cache.Key(title, locales, cfg, m.Name())
	if err != nil {
		slog.Warn("Cache key generation failed", "error", err)
		return ""
	}
	return key
}

// store caches and records a fresh report. Reports carrying provider
// warnings are recorded but never cached.
func (e *Evaluator) store(ctx context.Context, cacheKey string, report *models.UniquenessReport) {
	if cacheKey != "" && len(report.Warnings()) == 0 {
		if err := e.cache.Put(cacheKey, report); err != nil {
			slog.Warn("Failed to cache report", "error", err)
		}
	}

	if e.history != nil {
		if err := e.history.Record(ctx, report); err != nil {
			slog.Warn("Failed to record report history", "id", report.ID, "error", err)
		}
	}
}
