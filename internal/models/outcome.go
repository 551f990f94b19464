package models

import (
	"fmt"
	"strings"
	"time"
)

// Grade is the categorical summary of an overall score.
type Grade string

const (
	GradeColliding    Grade = "Colliding"
	GradeBorderline   Grade = "Borderline"
	GradeLikelyUnique Grade = "Likely Unique"
	GradeDistinct     Grade = "Distinct"
)

var gradeRank = map[Grade]int{
	GradeColliding:    0,
	GradeBorderline:   1,
	GradeLikelyUnique: 2,
	GradeDistinct:     3,
}

func (g Grade) String() string {
	return string(g)
}

// Rank orders grades from Colliding (0) to Distinct (3). Unknown grades rank -1.
func (g Grade) Rank() int {
	if r, ok := gradeRank[g]; ok {
		return r
	}
	return -1
}

// AtLeast returns true if g is at or above the target grade.
func (g Grade) AtLeast(target Grade) bool {
	return g.Rank() >= target.Rank()
}

// ParseGrade converts a flag value to a Grade. Matching ignores case and
// accepts "likely" and "likely-unique" for GradeLikelyUnique.
func ParseGrade(s string) (Grade, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "colliding":
		return GradeColliding, nil
	case "borderline":
		return GradeBorderline, nil
	case "likely", "likely unique", "likely-unique":
		return GradeLikelyUnique, nil
	case "distinct":
		return GradeDistinct, nil
	default:
		return GradeColliding, fmt.Errorf("invalid grade %q: must be colliding, borderline, likely-unique, or distinct", s)
	}
}

// TermHit is one (term, position) pair returned by a provider.
type TermHit struct {
	Term string `json:"term"`
	// Position is 1-based; nil when the provider does not rank its results.
	Position *int `json:"position,omitempty"`
}

// DomainSource names the endpoint that produced a DomainStatus.
type DomainSource string

const (
	DomainSourceRDAPVerisign  DomainSource = "rdap:verisign"
	DomainSourceDoHGoogle     DomainSource = "doh:google"
	DomainSourceDoHCloudflare DomainSource = "doh:cloudflare"
	DomainSourceUnknown       DomainSource = "unknown"
)

// DomainStatus is the registration state of the brand's .com domain.
type DomainStatus struct {
	Domain string `json:"domain"`
	// Available is true when unregistered, false when registered and nil
	// when the registry could not say.
	Available     *bool        `json:"available"`
	StatusCode    *int         `json:"rdap_status,omitempty"`
	Authoritative bool         `json:"authoritative"`
	Source        DomainSource `json:"source"`
	Note          string       `json:"note,omitempty"`
}

// MatchStats aggregates the similarity of one title against a list of terms.
type MatchStats struct {
	MaxScore int `json:"max_score"`
	N95      int `json:"n_95"`
	N90      int `json:"n_90"`
	N80      int `json:"n_80"`
	// TopHitPos is left nil by Matcher.Stats; position tracking belongs to the scorers.
	TopHitPos *int `json:"top_hit_pos,omitempty"`
}

// DetailWarning is the ComponentScore.Details key carrying a failure message.
const DetailWarning = "warning"

// ComponentScore is one weight-bounded component of the uniqueness score.
type ComponentScore struct {
	Name    ComponentName  `json:"name"`
	Score   int            `json:"score"`
	Weight  int            `json:"weight"`
	Details map[string]any `json:"details,omitempty"`
}

// Warning returns the failure message when the score is a neutral substitute.
func (c ComponentScore) Warning() string {
	if w, ok := c.Details[DetailWarning].(string); ok {
		return w
	}
	return ""
}

// LocaleFeatures holds the raw per-source diagnostics for one locale.
type LocaleFeatures struct {
	AppFollow    MatchStats `json:"af"`
	Play         MatchStats `json:"ps"`
	Google       MatchStats `json:"serp"`
	SERPCheckURL string     `json:"serp_check_url,omitempty"`
}

// LocaleReport is one locale's four component scores.
type LocaleReport struct {
	Locale     LocaleSpec                       `json:"locale"`
	Components map[ComponentName]ComponentScore `json:"components"`
	Features   LocaleFeatures                   `json:"features"`
	DurationMs int64                            `json:"duration_ms"`
}

// UniquenessReport is the final result of one evaluation.
type UniquenessReport struct {
	ID           string                `json:"id"`
	Title        string                `json:"title"`
	OverallScore int                   `json:"overall_score"`
	Grade        Grade                 `json:"grade"`
	Components   map[ComponentName]int `json:"components"`
	Locales      []LocaleReport        `json:"locales"`
	Explanations []string              `json:"explanations"`
	Matcher      string                `json:"matcher"`
	EvaluatedAt  time.Time             `json:"evaluated_at"`
	DurationMs   int64                 `json:"duration_ms"`
	Cached       bool                  `json:"cached,omitempty"`
}

// Warnings returns every component warning across all locales.
func (r *UniquenessReport) Warnings() []string {
	var out []string
	for _, loc := range r.Locales {
		for _, name := range ComponentNames {
			if cs, ok := loc.Components[name]; ok {
				if w := cs.Warning(); w != "" {
					out = append(out, w)
				}
			}
		}
	}
	return out
}
