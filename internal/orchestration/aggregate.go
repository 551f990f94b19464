package orchestration

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/brandnamegen/brandcheck/internal/matcher"
	"github.com/brandnamegen/brandcheck/internal/models"
	"github.com/brandnamegen/brandcheck/internal/scoring"
	"github.com/brandnamegen/brandcheck/internal/utils"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
)

var errNoProvider = errors.New("provider not configured")

// failureFormats prefix the neutral-score warning of each component.
var failureFormats = map[models.ComponentName]string{
	models.ComponentDomain:    "Domain check failed: %v",
	models.ComponentAppFollow: "AppFollow failed: %v",
	models.ComponentPlay:      "Play search failed: %v",
	models.ComponentGoogle:    "SERP fetch failed: %v",
}

// outcome is the tagged result of one provider call. When failure is set the
// score is the neutral substitute and stats are empty.
type outcome struct {
	score    models.ComponentScore
	stats    models.MatchStats
	checkURL string
	failure  string
}

// evaluateLocale runs the four providers concurrently and assembles the
// locale report. Every component is present whether its provider succeeded
// or not.
func (e *Evaluator) evaluateLocale(ctx context.Context, title string, locale models.LocaleSpec, m matcher.Matcher, cfg models.UniquenessConfig) models.LocaleReport {
	ctx, span := e.tracer.Start(ctx, "brandcheck.locale", trace.WithAttributes(
		attribute.String("brandcheck.locale", locale.Label()),
	))
	defer span.End()

	start := e.now()
	outcomes := make([]outcome, len(models.ComponentNames))

	var g errgroup.Group
	for i, name := range models.ComponentNames {
		g.Go(func() error {
			componentStart := e.now()
			outcomes[i] = e.runComponent(ctx, name, title, locale, m, cfg)
			e.notifyProgress(ProgressEvent{
				EventType:  EventComponentComplete,
				Title:      title,
				Locale:     locale.Label(),
				Component:  name,
				Score:      outcomes[i].score.Score,
				Warning:    outcomes[i].failure,
				DurationMs: e.now().Sub(componentStart).Milliseconds(),
			})
			return nil
		})
	}
	_ = g.Wait()

	report := models.LocaleReport{
		Locale:     locale,
		Components: make(map[models.ComponentName]models.ComponentScore, len(outcomes)),
		DurationMs: e.now().Sub(start).Milliseconds(),
	}
	for i, name := range models.ComponentNames {
		o := outcomes[i]
		report.Components[name] = o.score
		switch name {
		case models.ComponentAppFollow:
			report.Features.AppFollow = o.stats
		case models.ComponentPlay:
			report.Features.Play = o.stats
		case models.ComponentGoogle:
			report.Features.Google = o.stats
			report.Features.SERPCheckURL = o.checkURL
		}
	}

	span.SetAttributes(attribute.Int("brandcheck.locale_score", localeTotal(report)))
	return report
}

// runComponent calls one provider and scores its answer. Errors and panics
// both turn into the neutral substitute.
func (e *Evaluator) runComponent(ctx context.Context, name models.ComponentName, title string, locale models.LocaleSpec, m matcher.Matcher, cfg models.UniquenessConfig) (out outcome) {
	ctx, span := e.tracer.Start(ctx, "brandcheck.provider."+string(name), trace.WithAttributes(
		attribute.String("brandcheck.component", string(name)),
		attribute.String("brandcheck.locale", locale.Label()),
	))
	defer span.End()

	fail := func(err error) outcome {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())

		attrs := []any{"component", string(name), "locale", locale.Label(), "error", err}
		if sc := span.SpanContext(); sc.IsValid() {
			attrs = append(attrs, "traceID", sc.TraceID().String())
		}
		slog.Warn("Provider failed, using neutral score", attrs...)

		msg := fmt.Sprintf(failureFormats[name], err)
		return outcome{score: scoring.Neutral(name, cfg, msg), failure: msg}
	}

	defer func() {
		if r := recover(); r != nil {
			out = fail(fmt.Errorf("provider panic: %v", r))
		}
	}()

	var err error
	if name == models.ComponentDomain {
		out, err = e.checkDomain(ctx, title, cfg)
	} else {
		out, err = e.fetchTerms(ctx, name, title, locale, m, cfg)
	}
	if err != nil {
		return fail(err)
	}

	span.SetAttributes(attribute.Int("brandcheck.component_score", out.score.Score))
	return out
}

func (e *Evaluator) checkDomain(ctx context.Context, title string, cfg models.UniquenessConfig) (outcome, error) {
	if e.providers.Domain == nil {
		return outcome{}, errNoProvider
	}
	status, err := e.providers.Domain.Check(ctx, title)
	if err != nil {
		return outcome{}, err
	}
	utils.DomainStatusToSlog(status)
	return outcome{score: scoring.ScoreDomain(status, cfg)}, nil
}

func (e *Evaluator) fetchTerms(ctx context.Context, name models.ComponentName, title string, locale models.LocaleSpec, m matcher.Matcher, cfg models.UniquenessConfig) (outcome, error) {
	src := e.providers.TermSource(name)
	if src == nil {
		return outcome{}, errNoProvider
	}
	res, err := src.Fetch(ctx, title, locale)
	if err != nil {
		return outcome{}, err
	}

	var hits []models.TermHit
	var checkURL string
	if res != nil {
		hits = res.Hits
		checkURL = res.CheckURL
	}

	stats := scoring.BandCounts(m, title, hits)
	utils.MatchStatsToSlog(name, locale.Label(), stats)
	return outcome{
		score:    scoring.TermScorers[name](stats, cfg),
		stats:    stats,
		checkURL: checkURL,
	}, nil
}

func localeTotal(r models.LocaleReport) int {
	total := 0
	for _, cs := range r.Components {
		total += cs.Score
	}
	return total
}
