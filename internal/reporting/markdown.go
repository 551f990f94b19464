package reporting

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/brandnamegen/brandcheck/internal/models"
)

// formatDuration formats a duration in a consistent, human-readable way.
func formatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	return d.String()
}

// RenderMarkdown formats a report as a markdown summary, suitable for PR
// comments and CI step summaries.
func RenderMarkdown(report *models.UniquenessReport) string {
	var b strings.Builder

	duration := time.Duration(report.DurationMs) * time.Millisecond

	b.WriteString(fmt.Sprintf("## Uniqueness: %s\n\n", report.Title))

	b.WriteString(fmt.Sprintf("**Grade:** %s | **Score:** %d/100 | **Duration:** %s\n\n",
		report.Grade, report.OverallScore, formatDuration(duration)))
	b.WriteString(fmt.Sprintf("> %s\n\n", InterpretGrade(report.Grade)))

	// Per-component breakdown table
	weights := componentWeights(report)
	b.WriteString("### Components\n\n")
	b.WriteString("| Component | Score | Weight | Assessment |\n")
	b.WriteString("|-----------|-------|--------|------------|\n")
	for _, name := range models.ComponentNames {
		score := report.Components[name]
		b.WriteString(fmt.Sprintf("| %s | %d | %d | %s |\n",
			name, score, weights[name], InterpretComponent(score, weights[name])))
	}
	b.WriteString("\n")

	if len(report.Locales) > 1 {
		b.WriteString("### Locales\n\n")
		b.WriteString("| Locale |")
		sep := "|--------|"
		for _, name := range models.ComponentNames {
			b.WriteString(fmt.Sprintf(" %s |", name))
			sep += strings.Repeat("-", len(name)+2) + "|"
		}
		b.WriteString("\n" + sep + "\n")
		for _, loc := range report.Locales {
			b.WriteString(fmt.Sprintf("| %s |", loc.Locale.Label()))
			for _, name := range models.ComponentNames {
				cs := loc.Components[name]
				icon := ""
				if !componentPassed(cs) {
					icon = " ⚠️"
				}
				b.WriteString(fmt.Sprintf(" %d%s |", cs.Score, icon))
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	if len(report.Explanations) > 0 {
		b.WriteString("### Notes\n\n")
		for _, line := range report.Explanations {
			b.WriteString(fmt.Sprintf("- %s\n", line))
		}
		b.WriteString("\n")
	}

	// Footer with metadata
	b.WriteString("---\n\n")
	b.WriteString(fmt.Sprintf("**Matcher:** %s | **Evaluated:** %s | **ID:** `%s`\n",
		report.Matcher, report.EvaluatedAt.UTC().Format(time.RFC3339), report.ID))

	return b.String()
}

// WriteMarkdown writes RenderMarkdown(report) to w.
func WriteMarkdown(w io.Writer, report *models.UniquenessReport) error {
	_, err := io.WriteString(w, RenderMarkdown(report))
	return err
}
