//go:build !brandcheck_nofuzzy

package matcher

import (
	"fmt"
	"sort"
	"strings"
	"unicode"

	"github.com/brandnamegen/brandcheck/internal/models"
	"github.com/hbollon/go-edlib"
)

// Algorithms supported by the enhanced engine.
const (
	AlgorithmWRatio      = "wratio"
	AlgorithmJaroWinkler = "jaro-winkler"
	AlgorithmLevenshtein = "levenshtein"
	AlgorithmLCS         = "lcs"
)

const (
	unbaseScale      = 0.95
	partialScale     = 0.9
	longPartialScale = 0.6
)

// Enhanced delegates to go-edlib. The default "wratio" algorithm combines an
// indel ratio with token-sort, token-set and partial ratios, scaled by the
// length ratio of the two strings.
type Enhanced struct {
	algorithm string
	edlibAlgo edlib.Algorithm
}

// NewEnhanced builds an enhanced matcher for algorithm ("" means wratio).
func NewEnhanced(algorithm string) (Matcher, error) {
	e := &Enhanced{algorithm: strings.ToLower(strings.TrimSpace(algorithm))}
	switch e.algorithm {
	case "", AlgorithmWRatio:
		e.algorithm = AlgorithmWRatio
	case AlgorithmJaroWinkler:
		e.edlibAlgo = edlib.JaroWinkler
	case AlgorithmLevenshtein:
		e.edlibAlgo = edlib.Levenshtein
	case AlgorithmLCS:
	default:
		return nil, fmt.Errorf("%w: unknown algorithm %q", ErrEnhancedUnavailable, algorithm)
	}
	return e, nil
}

func (e *Enhanced) Name() string {
	return string(models.EngineEnhanced) + ":" + e.algorithm
}

func (e *Enhanced) ScorePair(a, b string) int {
	pa, pb := process(a), process(b)
	if pa == "" || pb == "" {
		return 0
	}
	if pa == pb {
		return 100
	}

	switch e.algorithm {
	case AlgorithmWRatio:
		return clampPercent(int(wratio(pa, pb)))
	case AlgorithmLCS:
		return clampPercent(int(indelRatio(pa, pb)))
	default:
		sim, err := edlib.StringsSimilarity(pa, pb, e.edlibAlgo)
		if err != nil {
			return 0
		}
		return clampPercent(int(100 * sim))
	}
}

func (e *Enhanced) Stats(query string, candidates []string) models.MatchStats {
	return collectStats(e.ScorePair, query, candidates)
}

// process lowercases, turns every non letter/digit into a space and
// collapses whitespace. Unlike Normalize it keeps non-ASCII letters.
func process(s string) string {
	mapped := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return unicode.ToLower(r)
		}
		return ' '
	}, s)
	return strings.Join(strings.Fields(mapped), " ")
}

// indelRatio is 100 * 2*LCS / (len(a)+len(b)).
func indelRatio(a, b string) float64 {
	la, lb := len([]rune(a)), len([]rune(b))
	if la+lb == 0 {
		return 100
	}
	return 100 * 2 * float64(edlib.LCS(a, b)) / float64(la+lb)
}

// partialRatio slides the shorter string over the longer one and keeps the
// best window.
func partialRatio(a, b string) float64 {
	short, long := []rune(a), []rune(b)
	if len(short) > len(long) {
		short, long = long, short
	}
	if len(short) == 0 {
		return 0
	}

	best := 0.0
	s := string(short)
	for i := 0; i+len(short) <= len(long); i++ {
		r := indelRatio(s, string(long[i:i+len(short)]))
		if r > best {
			best = r
			if best == 100 {
				break
			}
		}
	}
	return best
}

func sortedTokens(s string) string {
	toks := strings.Fields(s)
	sort.Strings(toks)
	return strings.Join(toks, " ")
}

// tokenSets splits a and b into their sorted intersection and differences.
func tokenSets(a, b string) (sect, diffAB, diffBA string) {
	setA, setB := map[string]bool{}, map[string]bool{}
	for _, t := range strings.Fields(a) {
		setA[t] = true
	}
	for _, t := range strings.Fields(b) {
		setB[t] = true
	}

	var common, onlyA, onlyB []string
	for t := range setA {
		if setB[t] {
			common = append(common, t)
		} else {
			onlyA = append(onlyA, t)
		}
	}
	for t := range setB {
		if !setA[t] {
			onlyB = append(onlyB, t)
		}
	}
	sort.Strings(common)
	sort.Strings(onlyA)
	sort.Strings(onlyB)
	return strings.Join(common, " "), strings.Join(onlyA, " "), strings.Join(onlyB, " ")
}

func joinNonEmpty(parts ...string) string {
	var out []string
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, " ")
}

func tokenSetRatio(a, b string, ratio func(x, y string) float64) float64 {
	sect, diffAB, diffBA := tokenSets(a, b)
	if sect != "" && (diffAB == "" || diffBA == "") {
		return 100
	}
	combinedAB := joinNonEmpty(sect, diffAB)
	combinedBA := joinNonEmpty(sect, diffBA)

	best := ratio(combinedAB, combinedBA)
	if sect != "" {
		best = max(best, ratio(sect, combinedAB), ratio(sect, combinedBA))
	}
	return best
}

func wratio(a, b string) float64 {
	la, lb := len([]rune(a)), len([]rune(b))
	lenRatio := float64(max(la, lb)) / float64(min(la, lb))

	best := indelRatio(a, b)
	if lenRatio < 1.5 {
		tokenSort := indelRatio(sortedTokens(a), sortedTokens(b))
		tokenSet := tokenSetRatio(a, b, indelRatio)
		return max(best, max(tokenSort, tokenSet)*unbaseScale)
	}

	scale := partialScale
	if lenRatio > 8 {
		scale = longPartialScale
	}
	best = max(best, partialRatio(a, b)*scale)

	partialSort := partialRatio(sortedTokens(a), sortedTokens(b))
	partialSet := tokenSetRatio(a, b, partialRatio)
	return max(best, max(partialSort, partialSet)*unbaseScale*scale)
}
