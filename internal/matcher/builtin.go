package matcher

import (
	"strings"

	"github.com/brandnamegen/brandcheck/internal/models"
)

// Score floors applied by the builtin heuristics.
const (
	substringFloor = 90
	tokenSortFloor = 88
)

// Builtin scores with a Ratcliff/Obershelp ratio over normalized strings plus
// two collision heuristics: compact substring containment and equal sorted
// token multisets.
type Builtin struct{}

// NewBuiltin returns the builtin matcher. It never fails.
func NewBuiltin() *Builtin {
	return &Builtin{}
}

func (*Builtin) Name() string { return string(models.EngineBuiltin) }

func (*Builtin) ScorePair(a, b string) int {
	na, nb := Normalize(a), Normalize(b)
	sc := clampPercent(int(100 * sequenceRatio(na, nb)))
	if sc >= substringFloor {
		return sc
	}

	ca, cb := strings.ReplaceAll(na, " ", ""), strings.ReplaceAll(nb, " ", "")
	if ca != "" && cb != "" && (strings.Contains(cb, ca) || strings.Contains(ca, cb)) {
		sc = max(sc, substringFloor)
	}
	if sc < substringFloor && na != "" && tokenSortKey(na) == tokenSortKey(nb) {
		sc = max(sc, tokenSortFloor)
	}
	return sc
}

func (m *Builtin) Stats(query string, candidates []string) models.MatchStats {
	return collectStats(m.ScorePair, query, candidates)
}
