package reporting

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/brandnamegen/brandcheck/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderMarkdown(t *testing.T) {
	got := RenderMarkdown(newTestReport())

	assert.True(t, strings.HasPrefix(got, "## Uniqueness: BrandName\n\n"))
	assert.Contains(t, got, "**Grade:** Borderline | **Score:** 54/100 | **Duration:** 1.5s\n")
	assert.Contains(t, got, "> "+InterpretGrade(models.GradeBorderline)+"\n")

	assert.Contains(t, got, "| Component | Score | Weight | Assessment |\n")
	assert.Contains(t, got, "| domain | 25 | 25 | Clear |\n")
	assert.Contains(t, got, "| google | 5 | 30 | Crowded |\n")

	assert.Contains(t, got, "| Locale | domain | appfollow | play | google |\n")
	assert.Contains(t, got, "|--------|--------|-----------|------|--------|\n")
	assert.Contains(t, got, "| en-2840 | 25 | 25 | 12 | 30 |\n")
	assert.Contains(t, got, "| de-2276 | 25 | 12 ⚠️ | 20 | 5 ⚠️ |\n")

	assert.Contains(t, got, "- Warning [appfollow]: AppFollow check failed: unauthorized\n")
	assert.Contains(t, got, "**Matcher:** enhanced:wratio | **Evaluated:** 2026-03-14T09:26:53Z | **ID:** `0b0c4a5e-1111-2222-3333-444455556666`\n")
}

func TestRenderMarkdown_SingleLocale(t *testing.T) {
	report := newTestReport()
	report.Locales = report.Locales[:1]
	report.Explanations = nil

	got := RenderMarkdown(report)
	assert.NotContains(t, got, "### Locales")
	assert.NotContains(t, got, "### Notes")
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "250ms", formatDuration(250*time.Millisecond))
	assert.Equal(t, "2.5s", formatDuration(2500*time.Millisecond))
}

func TestWriteMarkdown(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteMarkdown(&buf, newTestReport()))
	assert.Equal(t, RenderMarkdown(newTestReport()), buf.String())
}
