package orchestration

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/brandnamegen/brandcheck/internal/cache"
	"github.com/brandnamegen/brandcheck/internal/matcher"
	"github.com/brandnamegen/brandcheck/internal/models"
	"github.com/brandnamegen/brandcheck/internal/providers"
	"github.com/brandnamegen/brandcheck/internal/providers/mocks"
	"github.com/brandnamegen/brandcheck/internal/utils"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

// fixedMatcher scores known terms from a table and everything else 0.
type fixedMatcher map[string]int

func (fixedMatcher) Name() string { return "fixed" }

func (f fixedMatcher) ScorePair(_, b string) int { return f[b] }

func (f fixedMatcher) Stats(query string, candidates []string) models.MatchStats {
	var s models.MatchStats
	for _, c := range candidates {
		s.MaxScore = max(s.MaxScore, f.ScorePair(query, c))
	}
	return s
}

func hits(terms ...string) *providers.TermResult {
	res := &providers.TermResult{}
	for i, t := range terms {
		res.Hits = append(res.Hits, models.TermHit{Term: t, Position: utils.Ptr(i + 1)})
	}
	return res
}

type mockSet struct {
	domain    *mocks.MockDomainChecker
	appFollow *mocks.MockTermSource
	play      *mocks.MockTermSource
	google    *mocks.MockTermSource
}

func newMockSet(t *testing.T) (*mockSet, providers.Set) {
	ctrl := gomock.NewController(t)
	ms := &mockSet{
		domain:    mocks.NewMockDomainChecker(ctrl),
		appFollow: mocks.NewMockTermSource(ctrl),
		play:      mocks.NewMockTermSource(ctrl),
		google:    mocks.NewMockTermSource(ctrl),
	}
	return ms, providers.Set{Domain: ms.domain, AppFollow: ms.appFollow, Play: ms.play, Google: ms.google}
}

func (ms *mockSet) allFail(times int) {
	ms.domain.EXPECT().Check(gomock.Any(), gomock.Any()).Return(nil, errors.New("rdap down")).Times(times)
	ms.appFollow.EXPECT().Fetch(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, providers.ErrMissingCredentials).Times(times)
	ms.play.EXPECT().Fetch(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, errors.New("503")).Times(times)
	ms.google.EXPECT().Fetch(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, errors.New("timeout")).Times(times)
}

func brandNameProviders(ms *mockSet) {
	ms.domain.EXPECT().Check(gomock.Any(), "BrandName").Return(&models.DomainStatus{
		Domain:        "brandname.com",
		Available:     utils.Ptr(true),
		StatusCode:    utils.Ptr(404),
		Authoritative: true,
		Source:        models.DomainSourceRDAPVerisign,
	}, nil)
	ms.appFollow.EXPECT().Fetch(gomock.Any(), "BrandName", gomock.Any()).Return(hits(), nil)
	ms.play.EXPECT().Fetch(gomock.Any(), "BrandName", gomock.Any()).Return(hits("BrandName"), nil)
	ms.google.EXPECT().Fetch(gomock.Any(), "BrandName", gomock.Any()).Return(&providers.TermResult{
		CheckURL: "https://www.google.com/search?q=BrandName",
	}, nil)
}

func TestEvaluate_BrandName(t *testing.T) {
	ms, set := newMockSet(t)
	brandNameProviders(ms)

	e := New(models.DefaultUniquenessConfig(), WithProviders(set), WithMatcher(matcher.NewBuiltin()))
	report, err := e.Evaluate(context.Background(), "  BrandName ", nil)
	require.NoError(t, err)

	assert.Equal(t, map[models.ComponentName]int{
		models.ComponentDomain:    25,
		models.ComponentAppFollow: 25,
		models.ComponentPlay:      12,
		models.ComponentGoogle:    30,
	}, report.Components)
	assert.Equal(t, 92, report.OverallScore)
	assert.Equal(t, models.GradeDistinct, report.Grade)
	assert.Equal(t, "BrandName", report.Title)
	assert.Equal(t, "builtin", report.Matcher)
	assert.Equal(t, []string{"SERP verification URL (en-2840): https://www.google.com/search?q=BrandName"}, report.Explanations)
	assert.Empty(t, report.Warnings())

	_, err = uuid.Parse(report.ID)
	assert.NoError(t, err)

	require.Len(t, report.Locales, 1)
	loc := report.Locales[0]
	assert.Equal(t, models.DefaultLocale(), loc.Locale)
	require.Len(t, loc.Components, 4)
	assert.Equal(t, 1, loc.Features.Play.N95)
	assert.Equal(t, 1, *loc.Features.Play.TopHitPos)
	assert.Zero(t, loc.Features.AppFollow.MaxScore)
}

func TestEvaluate_AllProvidersFail(t *testing.T) {
	ms, set := newMockSet(t)
	ms.allFail(1)

	e := New(models.DefaultUniquenessConfig(), WithProviders(set), WithMatcher(matcher.NewBuiltin()))
	report, err := e.Evaluate(context.Background(), "BrandName", nil)
	require.NoError(t, err)

	assert.Equal(t, 49, report.OverallScore)
	assert.Equal(t, models.GradeBorderline, report.Grade)
	assert.Equal(t, map[models.ComponentName]int{
		models.ComponentDomain:    12,
		models.ComponentAppFollow: 12,
		models.ComponentPlay:      10,
		models.ComponentGoogle:    15,
	}, report.Components)
	assert.Equal(t, []string{
		"Warning [domain]: Domain check failed: rdap down",
		"Warning [appfollow]: AppFollow failed: missing credentials",
		"Warning [play]: Play search failed: 503",
		"Warning [google]: SERP fetch failed: timeout",
	}, report.Explanations)
}

func TestEvaluate_NilProvidersAreFailures(t *testing.T) {
	e := New(models.DefaultUniquenessConfig(), WithMatcher(matcher.NewBuiltin()))
	report, err := e.Evaluate(context.Background(), "BrandName", nil)
	require.NoError(t, err)

	assert.Equal(t, 49, report.OverallScore)
	assert.Len(t, report.Warnings(), 4)
	assert.Contains(t, report.Explanations[0], "provider not configured")
}

func TestEvaluate_ProviderPanicIsNeutral(t *testing.T) {
	ms, set := newMockSet(t)
	ms.appFollow.EXPECT().Fetch(gomock.Any(), "BrandName", gomock.Any()).Return(hits(), nil)
	ms.play.EXPECT().Fetch(gomock.Any(), "BrandName", gomock.Any()).Return(hits(), nil)
	ms.google.EXPECT().Fetch(gomock.Any(), "BrandName", gomock.Any()).Return(hits(), nil)
	set.Domain = panicChecker{}

	e := New(models.DefaultUniquenessConfig(), WithProviders(set), WithMatcher(matcher.NewBuiltin()))
	report, err := e.Evaluate(context.Background(), "BrandName", nil)
	require.NoError(t, err)

	assert.Equal(t, 12, report.Components[models.ComponentDomain])
	assert.Contains(t, report.Locales[0].Components[models.ComponentDomain].Warning(), "provider panic: boom")
	assert.Equal(t, 12+25+20+30, report.OverallScore)
}

type panicChecker struct{}

func (panicChecker) Check(context.Context, string) (*models.DomainStatus, error) {
	panic("boom")
}

func TestEvaluate_MultiLocaleTakesMinimum(t *testing.T) {
	ms, set := newMockSet(t)
	us := models.DefaultLocale()
	de := models.LocaleSpec{Country: "de", HL: "de", GL: "DE", LocationCode: 2276, LanguageCode: "de", Weight: 1}

	m := fixedMatcher{"close": 85, "dup": 100, "near": 92}

	ms.domain.EXPECT().Check(gomock.Any(), "BrandName").Return(&models.DomainStatus{Available: utils.Ptr(true)}, nil).Times(2)
	// us: one 80-band hit at position 1 -> 25 - 2 - 3 = 20
	ms.appFollow.EXPECT().Fetch(gomock.Any(), "BrandName", us).Return(hits("close"), nil)
	// de: two duplicates and one 90-band hit below the top three -> 25 - 16 - 4 = 5
	ms.appFollow.EXPECT().Fetch(gomock.Any(), "BrandName", de).Return(hits("x", "y", "z", "dup", "dup", "near"), nil)
	ms.play.EXPECT().Fetch(gomock.Any(), "BrandName", gomock.Any()).Return(hits(), nil).Times(2)
	ms.google.EXPECT().Fetch(gomock.Any(), "BrandName", us).Return(&providers.TermResult{CheckURL: "https://us.example"}, nil)
	ms.google.EXPECT().Fetch(gomock.Any(), "BrandName", de).Return(nil, errors.New("quota"))

	e := New(models.DefaultUniquenessConfig(), WithProviders(set), WithMatcher(m))
	report, err := e.Evaluate(context.Background(), "BrandName", []models.LocaleSpec{us, de})
	require.NoError(t, err)

	require.Len(t, report.Locales, 2)
	assert.Equal(t, us, report.Locales[0].Locale)
	assert.Equal(t, de, report.Locales[1].Locale)
	assert.Equal(t, 20, report.Locales[0].Components[models.ComponentAppFollow].Score)
	assert.Equal(t, 5, report.Locales[1].Components[models.ComponentAppFollow].Score)

	assert.Equal(t, 5, report.Components[models.ComponentAppFollow])
	assert.Equal(t, 15, report.Components[models.ComponentGoogle])
	assert.Equal(t, 25+5+20+15, report.OverallScore)
	assert.Equal(t, models.GradeLikelyUnique, report.Grade)

	assert.Equal(t, []string{
		"SERP verification URL (en-2840): https://us.example",
		"Warning [google]: SERP fetch failed: quota",
	}, report.Explanations)

	for name, v := range report.Components {
		for _, loc := range report.Locales {
			assert.LessOrEqual(t, v, loc.Components[name].Score, name)
		}
	}
}

func TestEvaluate_InvalidConfig(t *testing.T) {
	cfg := models.DefaultUniquenessConfig()
	cfg.Thresholds = models.Thresholds{Border: 90, Likely: 60, Distinct: 80}

	e := New(cfg)
	_, err := e.Evaluate(context.Background(), "BrandName", nil)
	require.ErrorContains(t, err, "invalid uniqueness config")
}

func TestEvaluate_EmptyTitle(t *testing.T) {
	ms, set := newMockSet(t)
	ms.domain.EXPECT().Check(gomock.Any(), "").Return(nil, providers.ErrInvalidLabel)
	ms.appFollow.EXPECT().Fetch(gomock.Any(), "", gomock.Any()).Return(hits("anything"), nil)
	ms.play.EXPECT().Fetch(gomock.Any(), "", gomock.Any()).Return(hits(), nil)
	ms.google.EXPECT().Fetch(gomock.Any(), "", gomock.Any()).Return(hits(), nil)

	e := New(models.DefaultUniquenessConfig(), WithProviders(set), WithMatcher(matcher.NewBuiltin()))
	report, err := e.Evaluate(context.Background(), "   ", nil)
	require.NoError(t, err)
	assert.Equal(t, 12+25+20+30, report.OverallScore)
}

func TestEvaluate_WeightsBoundScores(t *testing.T) {
	cfg := models.DefaultUniquenessConfig()
	cfg.Weights = map[models.ComponentName]int{
		models.ComponentDomain: 3,
		models.ComponentPlay:   50,
	}

	ms, set := newMockSet(t)
	ms.allFail(1)

	e := New(cfg, WithProviders(set), WithMatcher(matcher.NewBuiltin()))
	report, err := e.Evaluate(context.Background(), "BrandName", nil)
	require.NoError(t, err)

	sum := 0
	for _, name := range models.ComponentNames {
		cs := report.Locales[0].Components[name]
		assert.GreaterOrEqual(t, cs.Score, 0)
		assert.LessOrEqual(t, cs.Score, cs.Weight)
		sum += report.Components[name]
	}
	assert.Equal(t, report.OverallScore, sum)
	assert.Equal(t, 2+0+25+0, report.OverallScore)
}

func TestEvaluate_ResolvesMatcherOnce(t *testing.T) {
	ms, set := newMockSet(t)
	ms.allFail(3)

	var calls atomic.Int32
	e := New(models.DefaultUniquenessConfig(), WithProviders(set))
	e.resolve = func(engine models.MatcherEngine, algorithm string) (matcher.Matcher, error) {
		calls.Add(1)
		return matcher.NewBuiltin(), nil
	}

	var wg sync.WaitGroup
	for range 2 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := e.Evaluate(context.Background(), "BrandName", nil)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()
	assert.Equal(t, int32(1), calls.Load())

	e.SetConfig(models.DefaultUniquenessConfig())
	_, err := e.Evaluate(context.Background(), "BrandName", nil)
	require.NoError(t, err)
	assert.Equal(t, int32(2), calls.Load())
}

func TestEvaluate_ResolveErrors(t *testing.T) {
	cfg := models.DefaultUniquenessConfig()
	cfg.MatcherEngine = models.EngineEnhanced

	e := New(cfg)
	e.resolve = func(models.MatcherEngine, string) (matcher.Matcher, error) {
		return nil, matcher.ErrEnhancedUnavailable
	}
	_, err := e.Evaluate(context.Background(), "BrandName", nil)
	require.ErrorIs(t, err, matcher.ErrEnhancedUnavailable)
}

func TestSetMatcherSurvivesSetConfig(t *testing.T) {
	e := New(models.DefaultUniquenessConfig())
	e.resolve = func(models.MatcherEngine, string) (matcher.Matcher, error) {
		t.Fatal("resolve should not be called")
		return nil, nil
	}
	e.SetMatcher(fixedMatcher{})

	cfg := models.DefaultUniquenessConfig()
	cfg.Weights[models.ComponentGoogle] = 10
	e.SetConfig(cfg)

	_, m, err := e.snapshot()
	require.NoError(t, err)
	assert.Equal(t, "fixed", m.Name())
	assert.Equal(t, 10, e.Config().Weight(models.ComponentGoogle))

	// Config returns a copy.
	e.Config().Weights[models.ComponentGoogle] = 99
	assert.Equal(t, 10, e.Config().Weight(models.ComponentGoogle))
}

func TestEvaluate_Progress(t *testing.T) {
	ms, set := newMockSet(t)
	brandNameProviders(ms)

	e := New(models.DefaultUniquenessConfig(), WithProviders(set), WithMatcher(matcher.NewBuiltin()))

	// Every clock read advances 25ms
	var clockMu sync.Mutex
	clock := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	e.now = func() time.Time {
		clockMu.Lock()
		defer clockMu.Unlock()
		clock = clock.Add(25 * time.Millisecond)
		return clock
	}

	var mu sync.Mutex
	counts := map[EventType]int{}
	componentDurations := map[models.ComponentName]int64{}
	var last ProgressEvent
	e.OnProgress(func(ev ProgressEvent) {
		mu.Lock()
		defer mu.Unlock()
		counts[ev.EventType]++
		if ev.EventType == EventComponentComplete {
			componentDurations[ev.Component] = ev.DurationMs
		}
		last = ev
	})

	_, err := e.Evaluate(context.Background(), "BrandName", nil)
	require.NoError(t, err)

	assert.Equal(t, 1, counts[EventEvaluationStart])
	assert.Equal(t, 1, counts[EventLocaleStart])
	assert.Equal(t, 4, counts[EventComponentComplete])
	assert.Equal(t, 1, counts[EventLocaleComplete])
	assert.Equal(t, 1, counts[EventEvaluationComplete])
	assert.Equal(t, EventEvaluationComplete, last.EventType)
	assert.Equal(t, 92, last.Score)

	require.Len(t, componentDurations, 4)
	for name, d := range componentDurations {
		assert.GreaterOrEqual(t, d, int64(25), name)
	}
}

type recorder struct {
	mu      sync.Mutex
	reports []*models.UniquenessReport
	err     error
}

func (r *recorder) Record(_ context.Context, report *models.UniquenessReport) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reports = append(r.reports, report)
	return r.err
}

func TestEvaluate_CacheAndHistory(t *testing.T) {
	ms, set := newMockSet(t)
	brandNameProviders(ms)

	c := cache.New(t.TempDir(), time.Hour)
	rec := &recorder{}
	e := New(models.DefaultUniquenessConfig(), WithProviders(set), WithMatcher(matcher.NewBuiltin()), WithCache(c), WithHistory(rec))

	var cachedEvents atomic.Int32
	e.OnProgress(func(ev ProgressEvent) {
		if ev.EventType == EventEvaluationCached {
			cachedEvents.Add(1)
		}
	})

	first, err := e.Evaluate(context.Background(), "BrandName", nil)
	require.NoError(t, err)
	assert.False(t, first.Cached)

	// Providers are expected once; a second call must come from the cache.
	second, err := e.Evaluate(context.Background(), "BrandName", nil)
	require.NoError(t, err)
	assert.True(t, second.Cached)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, first.OverallScore, second.OverallScore)
	assert.Equal(t, int32(1), cachedEvents.Load())

	require.Len(t, rec.reports, 1)
	assert.Equal(t, first.ID, rec.reports[0].ID)
}

func TestEvaluate_ReportsWithWarningsAreNotCached(t *testing.T) {
	ms, set := newMockSet(t)
	ms.allFail(2)

	rec := &recorder{err: errors.New("disk full")}
	e := New(models.DefaultUniquenessConfig(), WithProviders(set), WithMatcher(matcher.NewBuiltin()),
		WithCache(cache.New(t.TempDir(), 0)), WithHistory(rec))

	for range 2 {
		report, err := e.Evaluate(context.Background(), "BrandName", nil)
		require.NoError(t, err)
		assert.False(t, report.Cached)
	}
	assert.Len(t, rec.reports, 2)
}

func TestEvaluate_ParallelLocalesLimit(t *testing.T) {
	var inFlight, peak atomic.Int32
	slow := slowSource{inFlight: &inFlight, peak: &peak}

	set := providers.Set{Domain: nil, AppFollow: slow, Play: nil, Google: nil}
	e := New(models.DefaultUniquenessConfig(), WithProviders(set), WithMatcher(matcher.NewBuiltin()), WithParallelLocales(2))

	locales := make([]models.LocaleSpec, 5)
	for i := range locales {
		locales[i] = models.DefaultLocale()
		locales[i].LocationCode = 1000 + i
	}

	report, err := e.Evaluate(context.Background(), "BrandName", locales)
	require.NoError(t, err)
	require.Len(t, report.Locales, 5)
	for i, loc := range report.Locales {
		assert.Equal(t, 1000+i, loc.Locale.LocationCode)
	}
	assert.LessOrEqual(t, peak.Load(), int32(2))
}

type slowSource struct {
	inFlight *atomic.Int32
	peak     *atomic.Int32
}

func (s slowSource) Fetch(context.Context, string, models.LocaleSpec) (*providers.TermResult, error) {
	n := s.inFlight.Add(1)
	defer s.inFlight.Add(-1)
	for {
		p := s.peak.Load()
		if n <= p || s.peak.CompareAndSwap(p, n) {
			break
		}
	}
	time.Sleep(20 * time.Millisecond)
	return hits(), nil
}
