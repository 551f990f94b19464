package reporting

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/brandnamegen/brandcheck/internal/models"
	"github.com/brandnamegen/brandcheck/internal/scoring"
)

// JUnit XML schema types

// JUnitTestSuites is the top-level container.
type JUnitTestSuites struct {
	XMLName    xml.Name         `xml:"testsuites"`
	Name       string           `xml:"name,attr"`
	Tests      int              `xml:"tests,attr"`
	Failures   int              `xml:"failures,attr"`
	Errors     int              `xml:"errors,attr"`
	Time       float64          `xml:"time,attr"`
	TestSuites []JUnitTestSuite `xml:"testsuite"`
}

// JUnitTestSuite maps to one locale.
type JUnitTestSuite struct {
	XMLName    xml.Name        `xml:"testsuite"`
	Name       string          `xml:"name,attr"`
	Tests      int             `xml:"tests,attr"`
	Failures   int             `xml:"failures,attr"`
	Errors     int             `xml:"errors,attr"`
	Time       float64         `xml:"time,attr"`
	Timestamp  string          `xml:"timestamp,attr"`
	Properties []JUnitProperty `xml:"properties>property,omitempty"`
	TestCases  []JUnitTestCase `xml:"testcase"`
}

// JUnitTestCase maps to one component score.
type JUnitTestCase struct {
	XMLName   xml.Name      `xml:"testcase"`
	Name      string        `xml:"name,attr"`
	Classname string        `xml:"classname,attr"`
	Time      float64       `xml:"time,attr"`
	Failure   *JUnitFailure `xml:"failure,omitempty"`
	Error     *JUnitError   `xml:"error,omitempty"`
}

// JUnitFailure marks a component that scored below neutral.
type JUnitFailure struct {
	Message string `xml:"message,attr"`
	Type    string `xml:"type,attr"`
	Body    string `xml:",chardata"`
}

// JUnitError marks a component whose provider failed.
type JUnitError struct {
	Message string `xml:"message,attr"`
	Type    string `xml:"type,attr"`
	Body    string `xml:",chardata"`
}

// JUnitProperty is a key-value metadata entry.
type JUnitProperty struct {
	Name  string `xml:"name,attr"`
	Value string `xml:"value,attr"`
}

// ConvertToJUnit converts a UniquenessReport to JUnit XML format.
func ConvertToJUnit(report *models.UniquenessReport) *JUnitTestSuites {
	out := &JUnitTestSuites{
		Name: report.Title,
		Time: float64(report.DurationMs) / 1000.0,
	}

	for _, loc := range report.Locales {
		suite := convertLocale(report, loc)
		out.Tests += suite.Tests
		out.Failures += suite.Failures
		out.Errors += suite.Errors
		out.TestSuites = append(out.TestSuites, suite)
	}

	return out
}

func convertLocale(report *models.UniquenessReport, loc models.LocaleReport) JUnitTestSuite {
	suite := JUnitTestSuite{
		Name:      loc.Locale.Label(),
		Time:      float64(loc.DurationMs) / 1000.0,
		Timestamp: report.EvaluatedAt.UTC().Format(time.RFC3339),
		Properties: []JUnitProperty{
			{Name: "title", Value: report.Title},
			{Name: "country", Value: loc.Locale.Country},
			{Name: "matcher", Value: report.Matcher},
			{Name: "overall_score", Value: fmt.Sprintf("%d", report.OverallScore)},
			{Name: "grade", Value: string(report.Grade)},
		},
	}
	if loc.Features.SERPCheckURL != "" {
		suite.Properties = append(suite.Properties, JUnitProperty{Name: "serp_check_url", Value: loc.Features.SERPCheckURL})
	}

	for _, name := range models.ComponentNames {
		cs, ok := loc.Components[name]
		if !ok {
			continue
		}
		tc := JUnitTestCase{
			Name:      string(name),
			Classname: report.Title,
		}
		if w := cs.Warning(); w != "" {
			tc.Error = &JUnitError{
				Message: w,
				Type:    "ProviderError",
				Body:    fmt.Sprintf("neutral score %d/%d substituted", cs.Score, cs.Weight),
			}
			suite.Errors++
		} else if neutral := scoring.NeutralScore(cs.Weight); cs.Score < neutral {
			tc.Failure = &JUnitFailure{
				Message: fmt.Sprintf("%s: score=%d/%d below neutral %d", name, cs.Score, cs.Weight, neutral),
				Type:    "Collision",
				Body:    formatDetails(cs.Details),
			}
			suite.Failures++
		}
		suite.Tests++
		suite.TestCases = append(suite.TestCases, tc)
	}

	return suite
}

func formatDetails(details map[string]any) string {
	if len(details) == 0 {
		return ""
	}

	// Sort for deterministic output
	keys := make([]string, 0, len(details))
	for k := range details {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, k := range keys {
		b.WriteString(fmt.Sprintf("%s=%v\n", k, details[k]))
	}
	return b.String()
}

// WriteJUnit writes JUnit XML to w.
func WriteJUnit(w io.Writer, report *models.UniquenessReport) error {
	data, err := xml.MarshalIndent(ConvertToJUnit(report), "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling JUnit XML: %w", err)
	}
	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	if _, err := w.Write(append(data, '\n')); err != nil {
		return err
	}
	return nil
}

// WriteJUnitXML writes JUnit XML to the specified file path.
func WriteJUnitXML(report *models.UniquenessReport, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := WriteJUnit(f, report); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
