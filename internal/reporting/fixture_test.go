package reporting

import (
	"time"

	"github.com/brandnamegen/brandcheck/internal/models"
)

func score(name models.ComponentName, s, w int) models.ComponentScore {
	return models.ComponentScore{Name: name, Score: s, Weight: w, Details: map[string]any{"max_score": 100 - s}}
}

func newTestReport() *models.UniquenessReport {
	de := models.DefaultLocale()
	de.Country, de.HL, de.GL, de.LocationCode, de.LanguageCode = "de", "de", "DE", 2276, "de"

	warned := models.ComponentScore{
		Name: models.ComponentAppFollow, Score: 12, Weight: 25,
		Details: map[string]any{models.DetailWarning: "AppFollow check failed: unauthorized"},
	}

	return &models.UniquenessReport{
		ID:           "0b0c4a5e-1111-2222-3333-444455556666",
		Title:        "BrandName",
		OverallScore: 54,
		Grade:        models.GradeBorderline,
		Components: map[models.ComponentName]int{
			models.ComponentDomain:    25,
			models.ComponentAppFollow: 12,
			models.ComponentPlay:      12,
			models.ComponentGoogle:    5,
		},
		Locales: []models.LocaleReport{
			{
				Locale: models.DefaultLocale(),
				Components: map[models.ComponentName]models.ComponentScore{
					models.ComponentDomain:    score(models.ComponentDomain, 25, 25),
					models.ComponentAppFollow: score(models.ComponentAppFollow, 25, 25),
					models.ComponentPlay:      score(models.ComponentPlay, 12, 20),
					models.ComponentGoogle:    score(models.ComponentGoogle, 30, 30),
				},
				DurationMs: 1200,
			},
			{
				Locale: de,
				Components: map[models.ComponentName]models.ComponentScore{
					models.ComponentDomain:    score(models.ComponentDomain, 25, 25),
					models.ComponentAppFollow: warned,
					models.ComponentPlay:      score(models.ComponentPlay, 20, 20),
					models.ComponentGoogle:    score(models.ComponentGoogle, 5, 30),
				},
				Features:   models.LocaleFeatures{SERPCheckURL: "https://www.google.com/search?q=BrandName&hl=de&gl=DE"},
				DurationMs: 1400,
			},
		},
		Explanations: []string{
			"SERP verification URL (de-2276): https://www.google.com/search?q=BrandName&hl=de&gl=DE",
			"Warning [appfollow]: AppFollow check failed: unauthorized",
		},
		Matcher:     "enhanced:wratio",
		EvaluatedAt: time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC),
		DurationMs:  1500,
	}
}
