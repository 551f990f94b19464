package reporting

import (
	"fmt"
	"strings"
	"time"

	"github.com/brandnamegen/brandcheck/internal/models"
	"github.com/brandnamegen/brandcheck/internal/scoring"
)

// InterpretGrade returns a plain-language verdict for a grade.
func InterpretGrade(g models.Grade) string {
	switch g {
	case models.GradeDistinct:
		return "No meaningful collisions found. The title is safe to pursue."
	case models.GradeLikelyUnique:
		return "Minor overlaps exist. Review the flagged sources before committing."
	case models.GradeBorderline:
		return "Noticeable overlap with existing names. Consider a variation."
	case models.GradeColliding:
		return "The title clashes with existing brands or apps. Choose another."
	default:
		return fmt.Sprintf("Unknown grade %q", string(g))
	}
}

// InterpretComponent labels a weight-bounded score.
func InterpretComponent(score, weight int) string {
	if weight <= 0 {
		return "Not scored"
	}
	ratio := float64(score) / float64(weight)
	switch {
	case ratio >= 0.9:
		return "Clear"
	case ratio >= 0.5:
		return "Some overlap"
	case ratio > 0:
		return "Crowded"
	default:
		return "Collision"
	}
}

// componentPassed is true when a component scored at least neutral.
func componentPassed(cs models.ComponentScore) bool {
	return cs.Warning() == "" && cs.Score >= scoring.NeutralScore(cs.Weight)
}

// FormatSummaryReport produces a full plain-language report from a UniquenessReport.
func FormatSummaryReport(report *models.UniquenessReport) string {
	var b strings.Builder

	duration := time.Duration(report.DurationMs) * time.Millisecond

	b.WriteString("=== Interpretation ===\n\n")

	b.WriteString(fmt.Sprintf("Title:         %s\n", report.Title))
	b.WriteString(fmt.Sprintf("Overall Score: %d/100 (%s)\n", report.OverallScore, report.Grade))
	b.WriteString(fmt.Sprintf("Verdict:       %s\n", InterpretGrade(report.Grade)))
	b.WriteString(fmt.Sprintf("Matcher:       %s\n", report.Matcher))
	b.WriteString(fmt.Sprintf("Duration:      %v\n", duration))
	if report.Cached {
		b.WriteString("Source:        cache\n")
	}

	weights := componentWeights(report)
	b.WriteString("\nPer-Component Interpretation:\n")
	for _, name := range models.ComponentNames {
		score := report.Components[name]
		w := weights[name]
		icon := "✓"
		if score < scoring.NeutralScore(w) {
			icon = "✗"
		}
		b.WriteString(fmt.Sprintf("  %s %s: %d/%d %s\n", icon, name, score, w, InterpretComponent(score, w)))
	}

	if warnings := report.Warnings(); len(warnings) > 0 {
		b.WriteString("\nWarnings (neutral scores substituted):\n")
		for _, w := range warnings {
			b.WriteString(fmt.Sprintf("  - %s\n", w))
		}
	}

	return b.String()
}

// componentWeights reads the per-component weights from the first locale.
func componentWeights(report *models.UniquenessReport) map[models.ComponentName]int {
	out := make(map[models.ComponentName]int, len(models.ComponentNames))
	if len(report.Locales) == 0 {
		return out
	}
	for name, cs := range report.Locales[0].Components {
		out[name] = cs.Weight
	}
	return out
}
