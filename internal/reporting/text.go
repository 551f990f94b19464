package reporting

import (
	"fmt"
	"io"
	"strings"

	"github.com/brandnamegen/brandcheck/internal/models"
	"github.com/mattn/go-runewidth"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const colGap = "  "

// RenderText renders a report as an aligned plain-text table: one row per
// component, one column per locale plus the combined minimum.
func RenderText(report *models.UniquenessReport) string {
	var b strings.Builder
	p := message.NewPrinter(language.English)

	header := fmt.Sprintf("%s  %d/100  %s", report.Title, report.OverallScore, report.Grade)
	if report.Cached {
		header += "  (cached)"
	}
	b.WriteString(header + "\n")
	b.WriteString(strings.Repeat("=", runewidth.StringWidth(header)) + "\n\n")

	weights := componentWeights(report)

	rows := [][]string{{"Component", "Weight", "Score"}}
	for _, loc := range report.Locales {
		rows[0] = append(rows[0], loc.Locale.Label())
	}
	totalWeight := 0
	for _, name := range models.ComponentNames {
		totalWeight += weights[name]
		row := []string{string(name), fmt.Sprintf("%d", weights[name]), fmt.Sprintf("%d", report.Components[name])}
		for _, loc := range report.Locales {
			cell := "-"
			if cs, ok := loc.Components[name]; ok {
				cell = fmt.Sprintf("%d", cs.Score)
				if cs.Warning() != "" {
					cell += "*"
				}
			}
			row = append(row, cell)
		}
		rows = append(rows, row)
	}
	total := []string{"total", fmt.Sprintf("%d", totalWeight), fmt.Sprintf("%d", report.OverallScore)}
	for _, loc := range report.Locales {
		sum := 0
		for _, cs := range loc.Components {
			sum += cs.Score
		}
		total = append(total, fmt.Sprintf("%d", sum))
	}
	rows = append(rows, total)

	writeTable(&b, rows)

	b.WriteString("\n")
	b.WriteString(p.Sprintf("Matcher: %s  Duration: %d ms\n", report.Matcher, report.DurationMs))
	if len(report.Warnings()) > 0 {
		b.WriteString("* neutral score substituted after a provider failure\n")
	}

	if len(report.Explanations) > 0 {
		b.WriteString("\n")
		for _, line := range report.Explanations {
			b.WriteString(line + "\n")
		}
	}

	return b.String()
}

// WriteText writes RenderText(report) to w.
func WriteText(w io.Writer, report *models.UniquenessReport) error {
	_, err := io.WriteString(w, RenderText(report))
	return err
}

// writeTable pads every column to its widest cell by display width.
func writeTable(b *strings.Builder, rows [][]string) {
	var widths []int
	for _, row := range rows {
		for i, cell := range row {
			if i >= len(widths) {
				widths = append(widths, 0)
			}
			widths[i] = max(widths[i], runewidth.StringWidth(cell))
		}
	}

	for _, row := range rows {
		cells := make([]string, len(row))
		for i, cell := range row {
			if i == len(row)-1 {
				cells[i] = cell
				continue
			}
			cells[i] = padRight(cell, widths[i])
		}
		b.WriteString(strings.Join(cells, colGap) + "\n")
	}
}

// padRight pads s with spaces so its terminal display width reaches width.
func padRight(s string, width int) string {
	sw := runewidth.StringWidth(s)
	if sw >= width {
		return s
	}
	return s + strings.Repeat(" ", width-sw)
}

// TruncateTitle shortens a title to maxWidth display cells, ending in "…".
func TruncateTitle(title string, maxWidth int) string {
	return runewidth.Truncate(title, maxWidth, "…")
}
