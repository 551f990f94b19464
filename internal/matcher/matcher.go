// Package matcher scores the similarity of a candidate title against terms
// returned by the providers. Two engines share the Matcher contract: the
// always-available builtin engine and the go-edlib backed enhanced engine.
package matcher

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"unicode"

	"github.com/brandnamegen/brandcheck/internal/models"
)

// Similarity band cutoffs on the 0-100 scale.
const (
	Band95 = 95
	Band90 = 90
	Band80 = 80
)

// ErrEnhancedUnavailable is returned when the enhanced engine cannot be built.
var ErrEnhancedUnavailable = errors.New("enhanced matcher is unavailable")

// Matcher is the interface for all similarity engines.
type Matcher interface {
	// Name identifies the engine in reports.
	Name() string

	// ScorePair returns the similarity of a and b in [0, 100].
	ScorePair(a, b string) int

	// Stats scores query against every candidate.
	Stats(query string, candidates []string) models.MatchStats
}

// Resolve builds the matcher selected by engine. For [models.EngineAuto] a
// failure to build the enhanced engine silently falls back to builtin.
func Resolve(engine models.MatcherEngine, algorithm string) (Matcher, error) {
	switch engine {
	case models.EngineBuiltin:
		return NewBuiltin(), nil
	case models.EngineEnhanced:
		return NewEnhanced(algorithm)
	case models.EngineAuto, "":
		m, err := NewEnhanced(algorithm)
		if err != nil {
			slog.Debug("Enhanced matcher unavailable, using builtin", "error", err)
			return NewBuiltin(), nil
		}
		return m, nil
	default:
		return nil, fmt.Errorf("'%s' is not a valid matcher engine", engine)
	}
}

// Normalize lowercases s, replaces every run of characters outside [a-z0-9]
// with a single space and trims the result. Accented letters fall outside
// the range and act as separators.
// Normalize(Normalize(s)) == Normalize(s).
func Normalize(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	pendingSpace := false
	for _, r := range s {
		r = unicode.ToLower(r)
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if pendingSpace && b.Len() > 0 {
				b.WriteByte(' ')
			}
			pendingSpace = false
			b.WriteRune(r)
			continue
		}
		pendingSpace = true
	}
	return b.String()
}

// tokenSortKey joins the sorted normalized tokens of s.
func tokenSortKey(s string) string {
	toks := strings.Fields(Normalize(s))
	sort.Strings(toks)
	return strings.Join(toks, " ")
}

// collectStats runs score over every candidate and tallies the bands.
func collectStats(score func(a, b string) int, query string, candidates []string) models.MatchStats {
	var stats models.MatchStats
	for _, c := range candidates {
		sc := score(query, c)
		if sc > stats.MaxScore {
			stats.MaxScore = sc
		}
		if sc >= Band95 {
			stats.N95++
		}
		if sc >= Band90 {
			stats.N90++
		}
		if sc >= Band80 {
			stats.N80++
		}
	}
	return stats
}

func clampPercent(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
