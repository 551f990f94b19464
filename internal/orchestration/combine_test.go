package orchestration

import (
	"testing"

	"github.com/brandnamegen/brandcheck/internal/models"
	"github.com/stretchr/testify/require"
)

func localeWith(scores map[models.ComponentName]int, warnings map[models.ComponentName]string) models.LocaleReport {
	r := models.LocaleReport{Locale: models.DefaultLocale(), Components: map[models.ComponentName]models.ComponentScore{}}
	for name, s := range scores {
		cs := models.ComponentScore{Name: name, Score: s}
		if w, ok := warnings[name]; ok {
			cs.Details = map[string]any{models.DetailWarning: w}
		}
		r.Components[name] = cs
	}
	return r
}

func TestCombine(t *testing.T) {
	a := localeWith(map[models.ComponentName]int{
		models.ComponentDomain: 25, models.ComponentAppFollow: 20, models.ComponentPlay: 3, models.ComponentGoogle: 30,
	}, nil)
	b := localeWith(map[models.ComponentName]int{
		models.ComponentDomain: 15, models.ComponentAppFollow: 5, models.ComponentPlay: 20,
	}, nil)

	got := combine([]models.LocaleReport{a, b})
	require.Equal(t, map[models.ComponentName]int{
		models.ComponentDomain:    15,
		models.ComponentAppFollow: 5,
		models.ComponentPlay:      3,
		models.ComponentGoogle:    30,
	}, got)

	require.Equal(t, map[models.ComponentName]int{
		models.ComponentDomain:    0,
		models.ComponentAppFollow: 0,
		models.ComponentPlay:      0,
		models.ComponentGoogle:    0,
	}, combine(nil))
}

func TestCombine_SingleLocaleIsIdentity(t *testing.T) {
	scores := map[models.ComponentName]int{
		models.ComponentDomain: 12, models.ComponentAppFollow: 0, models.ComponentPlay: 7, models.ComponentGoogle: 26,
	}
	require.Equal(t, scores, combine([]models.LocaleReport{localeWith(scores, nil)}))
}

func TestExplanations(t *testing.T) {
	us := localeWith(map[models.ComponentName]int{models.ComponentGoogle: 15, models.ComponentDomain: 12},
		map[models.ComponentName]string{
			models.ComponentGoogle: "SERP fetch failed: quota",
			models.ComponentDomain: "Domain check failed: 503",
		})
	us.Features.SERPCheckURL = "https://example.com/us"

	de := localeWith(map[models.ComponentName]int{models.ComponentPlay: 10},
		map[models.ComponentName]string{models.ComponentPlay: "Play search failed: 403"})
	de.Locale.LanguageCode = "de"
	de.Locale.LocationCode = 2276
	de.Features.SERPCheckURL = "https://example.com/de"

	require.Equal(t, []string{
		"SERP verification URL (en-2840): https://example.com/us",
		"Warning [domain]: Domain check failed: 503",
		"Warning [google]: SERP fetch failed: quota",
		"SERP verification URL (de-2276): https://example.com/de",
		"Warning [play]: Play search failed: 403",
	}, explanations([]models.LocaleReport{us, de}))

	require.Empty(t, explanations([]models.LocaleReport{localeWith(nil, nil)}))
}
