package orchestration

import (
	"fmt"

	"github.com/brandnamegen/brandcheck/internal/models"
)

// combine takes the per-component minimum across locales, so a collision in
// any market caps the component. Components absent from every locale are 0.
func combine(locales []models.LocaleReport) map[models.ComponentName]int {
	out := make(map[models.ComponentName]int, len(models.ComponentNames))
	for _, name := range models.ComponentNames {
		found := false
		lowest := 0
		for _, loc := range locales {
			cs, ok := loc.Components[name]
			if !ok {
				continue
			}
			if !found || cs.Score < lowest {
				lowest = cs.Score
				found = true
			}
		}
		out[name] = lowest
	}
	return out
}

// explanations lists, per locale in order, the SERP verification URL and then
// each component warning in component order.
func explanations(locales []models.LocaleReport) []string {
	out := []string{}
	for _, loc := range locales {
		if loc.Features.SERPCheckURL != "" {
			out = append(out, fmt.Sprintf("SERP verification URL (%s-%d): %s",
				loc.Locale.LanguageCode, loc.Locale.LocationCode, loc.Features.SERPCheckURL))
		}
		for _, name := range models.ComponentNames {
			cs, ok := loc.Components[name]
			if !ok {
				continue
			}
			if w := cs.Warning(); w != "" {
				out = append(out, fmt.Sprintf("Warning [%s]: %s", name, w))
			}
		}
	}
	return out
}
