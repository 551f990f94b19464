// Package providers talks to the external sources behind each uniqueness
// component: the .com registry, ASO suggestions, the storefront search page
// and organic web search results.
package providers

//go:generate go tool mockgen -destination=mocks/mock_providers.go -package=mocks . DomainChecker,TermSource

import (
	"context"

	"github.com/brandnamegen/brandcheck/internal/models"
)

// DomainChecker reports the registration state of a title's .com domain.
type DomainChecker interface {
	Check(ctx context.Context, title string) (*models.DomainStatus, error)
}

// TermSource returns the ordered terms a source associates with title.
type TermSource interface {
	Fetch(ctx context.Context, title string, locale models.LocaleSpec) (*TermResult, error)
}

// TermResult is a successful TermSource response. An empty Hits slice is a
// valid answer.
type TermResult struct {
	Hits []models.TermHit
	// CheckURL reproduces the lookup in a browser, when the source offers one.
	CheckURL string
	Meta     map[string]string
}

// Terms returns the hit terms in order.
func (r *TermResult) Terms() []string {
	out := make([]string, 0, len(r.Hits))
	for _, h := range r.Hits {
		out = append(out, h.Term)
	}
	return out
}

// Set bundles one provider per component. A nil field is reported as a
// provider failure by the evaluator.
type Set struct {
	Domain    DomainChecker
	AppFollow TermSource
	Play      TermSource
	Google    TermSource
}

// TermSource returns the source backing a term-based component.
func (s Set) TermSource(name models.ComponentName) TermSource {
	switch name {
	case models.ComponentAppFollow:
		return s.AppFollow
	case models.ComponentPlay:
		return s.Play
	case models.ComponentGoogle:
		return s.Google
	default:
		return nil
	}
}

func hitsFromTerms(terms []string) []models.TermHit {
	hits := make([]models.TermHit, 0, len(terms))
	for i, t := range terms {
		p := i + 1
		hits = append(hits, models.TermHit{Term: t, Position: &p})
	}
	return hits
}
