// Package scoring turns provider results into weight-bounded component scores
// and bins the combined total into a grade.
package scoring

import (
	"math"

	"github.com/brandnamegen/brandcheck/internal/matcher"
	"github.com/brandnamegen/brandcheck/internal/models"
)

// Detail keys written into ComponentScore.Details.
const (
	DetailAvailable  = "available"
	DetailRDAPStatus = "rdap_status"
	DetailSource     = "source"
	DetailN95        = "n95"
	DetailN90        = "n90"
	DetailN80        = "n80"
	DetailMaxScore   = "max_score"
	DetailTopPos     = "top_pos"
)

// registeredPenalty is subtracted from the domain weight when the .com is taken.
const registeredPenalty = 10

// TopPositionCutoff is the rank at or above which a near-duplicate counts as
// a front-page collision.
const TopPositionCutoff = 3

// BandCounts scores every hit against title and tallies the similarity bands.
// TopHitPos is the smallest position among hits scoring at least Band80;
// hits without a position never set it.
func BandCounts(m matcher.Matcher, title string, hits []models.TermHit) models.MatchStats {
	var stats models.MatchStats
	for _, h := range hits {
		sc := m.ScorePair(title, h.Term)
		if sc > stats.MaxScore {
			stats.MaxScore = sc
		}
		if sc >= matcher.Band80 {
			stats.N80++
			if h.Position != nil && (stats.TopHitPos == nil || *h.Position < *stats.TopHitPos) {
				pos := *h.Position
				stats.TopHitPos = &pos
			}
		}
		if sc >= matcher.Band90 {
			stats.N90++
		}
		if sc >= matcher.Band95 {
			stats.N95++
		}
	}
	return stats
}

// ScoreDomain gives the full domain weight to an available .com and the
// weight less ten otherwise. An unknown status counts as registered.
func ScoreDomain(status *models.DomainStatus, cfg models.UniquenessConfig) models.ComponentScore {
	w := cfg.Weight(models.ComponentDomain)
	details := map[string]any{DetailAvailable: nil, DetailRDAPStatus: nil}

	available := false
	if status != nil {
		if status.Available != nil {
			available = *status.Available
			details[DetailAvailable] = available
		}
		if status.StatusCode != nil {
			details[DetailRDAPStatus] = *status.StatusCode
		}
		details[DetailSource] = string(status.Source)
	}

	score := w
	if !available {
		score = w - registeredPenalty
	}
	return component(models.ComponentDomain, score, w, details)
}

// bandPenalty describes a linear penalty over band counts.
type bandPenalty struct {
	perN95 int
	perN90 int
	perN80 int
	topHit int
}

var (
	appFollowPenalty = bandPenalty{perN95: 8, perN90: 4, perN80: 2, topHit: 3}
	playPenalty      = bandPenalty{perN95: 6, perN90: 3, perN80: 1, topHit: 2}
)

func (p bandPenalty) apply(w int, s models.MatchStats) int {
	score := w
	score -= p.perN95 * s.N95
	score -= p.perN90 * (s.N90 - s.N95)
	score -= p.perN80 * (s.N80 - s.N90)
	if s.TopHitPos != nil && *s.TopHitPos <= TopPositionCutoff {
		score -= p.topHit
	}
	return score
}

// ScoreAppFollow scores ASO suggestions.
func ScoreAppFollow(stats models.MatchStats, cfg models.UniquenessConfig) models.ComponentScore {
	w := cfg.Weight(models.ComponentAppFollow)
	return component(models.ComponentAppFollow, appFollowPenalty.apply(w, stats), w, statsDetails(stats))
}

// ScorePlay scores storefront search results. Its penalties are gentler
// than ScoreAppFollow's.
func ScorePlay(stats models.MatchStats, cfg models.UniquenessConfig) models.ComponentScore {
	w := cfg.Weight(models.ComponentPlay)
	return component(models.ComponentPlay, playPenalty.apply(w, stats), w, statsDetails(stats))
}

// ScoreGoogle scores organic web results. The rank of the closest
// near-duplicate dominates; band counts add capped penalties on top.
func ScoreGoogle(stats models.MatchStats, cfg models.UniquenessConfig) models.ComponentScore {
	w := cfg.Weight(models.ComponentGoogle)
	score := w

	if stats.TopHitPos != nil {
		switch pos := *stats.TopHitPos; {
		case pos <= TopPositionCutoff:
			score -= 20
		case pos <= 10:
			score -= 10
		default:
			score -= 4
		}
	}
	score -= min(10, 2*stats.N95)
	score -= min(5, stats.N90-stats.N95)

	return component(models.ComponentGoogle, score, w, statsDetails(stats))
}

// TermScorer scores the band statistics of one term source.
type TermScorer func(stats models.MatchStats, cfg models.UniquenessConfig) models.ComponentScore

// TermScorers maps every term-based component to its scorer.
var TermScorers = map[models.ComponentName]TermScorer{
	models.ComponentAppFollow: ScoreAppFollow,
	models.ComponentPlay:      ScorePlay,
	models.ComponentGoogle:    ScoreGoogle,
}

// NeutralScore is half of w rounded half to even, floored at 0.
func NeutralScore(w int) int {
	return max(0, int(math.RoundToEven(float64(w)/2)))
}

// Neutral is the substitute for a component whose provider failed.
func Neutral(name models.ComponentName, cfg models.UniquenessConfig, message string) models.ComponentScore {
	w := cfg.Weight(name)
	return component(name, NeutralScore(w), w, map[string]any{models.DetailWarning: message})
}

// BinGrade maps total onto a grade by descending threshold comparison.
func BinGrade(total int, t models.Thresholds) models.Grade {
	switch {
	case total >= t.Distinct:
		return models.GradeDistinct
	case total >= t.Likely:
		return models.GradeLikelyUnique
	case total >= t.Border:
		return models.GradeBorderline
	default:
		return models.GradeColliding
	}
}

func statsDetails(s models.MatchStats) map[string]any {
	d := map[string]any{
		DetailN95:      s.N95,
		DetailN90:      s.N90,
		DetailN80:      s.N80,
		DetailMaxScore: s.MaxScore,
		DetailTopPos:   nil,
	}
	if s.TopHitPos != nil {
		d[DetailTopPos] = *s.TopHitPos
	}
	return d
}

// component clamps score into [0, weight].
func component(name models.ComponentName, score, weight int, details map[string]any) models.ComponentScore {
	return models.ComponentScore{
		Name:    name,
		Score:   max(0, min(score, weight)),
		Weight:  weight,
		Details: details,
	}
}
