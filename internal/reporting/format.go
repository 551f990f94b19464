// Package reporting renders uniqueness reports as text, markdown, JSON and
// JUnit XML.
package reporting

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/brandnamegen/brandcheck/internal/models"
)

// Format selects an output renderer.
type Format string

const (
	FormatText     Format = "text"
	FormatMarkdown Format = "markdown"
	FormatJSON     Format = "json"
	FormatJUnit    Format = "junit"
)

// Formats lists every supported format.
var Formats = []Format{FormatText, FormatMarkdown, FormatJSON, FormatJUnit}

// ParseFormat converts a flag value to a Format. "md" is accepted for markdown.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "text":
		return FormatText, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	case "json":
		return FormatJSON, nil
	case "junit":
		return FormatJUnit, nil
	default:
		return FormatText, fmt.Errorf("invalid format %q: must be text, markdown, json, or junit", s)
	}
}

// Write renders report to w in the given format.
func Write(w io.Writer, format Format, report *models.UniquenessReport) error {
	switch format {
	case FormatText:
		return WriteText(w, report)
	case FormatMarkdown:
		return WriteMarkdown(w, report)
	case FormatJSON:
		return WriteJSON(w, report)
	case FormatJUnit:
		return WriteJUnit(w, report)
	default:
		return fmt.Errorf("unsupported format %q", format)
	}
}

// WriteJSON writes v as indented JSON.
func WriteJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encoding JSON: %w", err)
	}
	return nil
}
