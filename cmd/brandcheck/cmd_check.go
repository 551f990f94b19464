package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/brandnamegen/brandcheck/internal/matcher"
	"github.com/brandnamegen/brandcheck/internal/models"
	"github.com/brandnamegen/brandcheck/internal/projectconfig"
	"github.com/brandnamegen/brandcheck/internal/providers"
	"github.com/brandnamegen/brandcheck/internal/reporting"
	"github.com/brandnamegen/brandcheck/internal/scoring"
	"github.com/brandnamegen/brandcheck/internal/utils"
	"github.com/spf13/cobra"
)

func newCheckCommand(root *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Run a single provider check",
		Long: `Run one of the checks behind "evaluate" on its own and print the raw
answer. Useful for verifying credentials and endpoints.`,
	}

	cmd.AddCommand(newCheckDomainCommand(root))
	cmd.AddCommand(newCheckTermsCommand(root, models.ComponentAppFollow, "appfollow", "List ASO keyword suggestions for a title"))
	cmd.AddCommand(newCheckTermsCommand(root, models.ComponentPlay, "play", "List storefront search results for a title"))
	cmd.AddCommand(newCheckTermsCommand(root, models.ComponentGoogle, "serp", "List matching organic web results for a title"))

	return cmd
}

// domainCheckResult is the JSON shape of "check domain".
type domainCheckResult struct {
	*models.DomainStatus
	WWWResolves *bool               `json:"www_resolves,omitempty"`
	WWWSource   models.DomainSource `json:"www_source,omitempty"`
}

func newCheckDomainCommand(root *rootFlags) *cobra.Command {
	var www, asJSON bool

	cmd := &cobra.Command{
		Use:   "domain <title>",
		Short: "Check whether the title's .com domain is registered",
		Long: `Look up <title>.com in the registry over RDAP. The title is lowercased,
non-alphanumeric runs become hyphens and non-ASCII labels are punycoded.

With --www, also resolve www.<title>.com over DNS-over-HTTPS.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := root.loadConfig()
			if err != nil {
				return err
			}

			title := args[0]
			domain, err := providers.ComDomain(title)
			if err != nil {
				return err
			}

			checker := newProviderSet(cfg, projectconfig.Credentials{}).Domain
			status, err := checker.Check(cmd.Context(), title)
			if err != nil {
				return fmt.Errorf("checking %s: %w", domain, err)
			}
			if status == nil {
				status = &models.DomainStatus{Domain: domain, Source: models.DomainSourceUnknown}
			}
			utils.DomainStatusToSlog(status)

			result := domainCheckResult{DomainStatus: status}
			if www {
				resolver, err := newWWWResolver(cfg)
				if err != nil {
					return err
				}
				resolves, err := resolver.Resolves(cmd.Context(), domain)
				if err != nil {
					return fmt.Errorf("resolving www.%s: %w", domain, err)
				}
				result.WWWResolves = utils.Ptr(resolves)
				result.WWWSource = resolver.Source()
			}

			if asJSON {
				return reporting.WriteJSON(cmd.OutOrStdout(), result)
			}
			printDomainResult(cmd.OutOrStdout(), result)
			return nil
		},
	}

	cmd.Flags().BoolVar(&www, "www", false, "Also check whether www.<domain> resolves")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON")

	return cmd
}

func printDomainResult(w io.Writer, r domainCheckResult) {
	state := "unknown"
	if r.Available != nil {
		state = "registered"
		if *r.Available {
			state = "available"
		}
	}
	fmt.Fprintf(w, "%s: %s (%s", r.Domain, state, r.Source) //nolint:errcheck
	if r.StatusCode != nil {
		fmt.Fprintf(w, ", status %d", *r.StatusCode) //nolint:errcheck
	}
	fmt.Fprintln(w, ")") //nolint:errcheck
	if r.Note != "" {
		fmt.Fprintf(w, "  note: %s\n", r.Note) //nolint:errcheck
	}

	if r.WWWResolves != nil {
		answer := "does not resolve"
		if *r.WWWResolves {
			answer = "resolves"
		}
		fmt.Fprintf(w, "www.%s: %s (%s)\n", r.Domain, answer, r.WWWSource) //nolint:errcheck
	}
}

// termHit is one row of a term check.
type termHit struct {
	Term       string `json:"term"`
	Position   *int   `json:"position,omitempty"`
	Similarity int    `json:"similarity"`
}

// termCheckResult is the JSON shape of the term checks.
type termCheckResult struct {
	Title     string               `json:"title"`
	Component models.ComponentName `json:"component"`
	Locale    models.LocaleSpec    `json:"locale"`
	Matcher   string               `json:"matcher"`
	Hits      []termHit            `json:"hits"`
	Stats     models.MatchStats    `json:"stats"`
	Score     int                  `json:"score"`
	Weight    int                  `json:"weight"`
	CheckURL  string               `json:"check_url,omitempty"`
	Meta      map[string]string    `json:"meta,omitempty"`
}

func newCheckTermsCommand(root *rootFlags, component models.ComponentName, use, short string) *cobra.Command {
	var locale string
	var asJSON bool

	cmd := &cobra.Command{
		Use:   use + " <title>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := root.loadConfig()
			if err != nil {
				return err
			}
			uc, err := cfg.Uniqueness()
			if err != nil {
				return fmt.Errorf("invalid scoring config: %w", err)
			}

			var loc models.LocaleSpec
			if locale != "" {
				if loc, err = models.ParseLocale(locale); err != nil {
					return err
				}
			} else {
				locales, err := cfg.LocaleSpecs()
				if err != nil {
					return err
				}
				loc = locales[0]
			}

			m, err := matcher.Resolve(uc.MatcherEngine, cfg.EnhancedAlgorithm)
			if err != nil {
				return err
			}

			creds, err := loadCredentials()
			if err != nil {
				return err
			}
			source := newProviderSet(cfg, creds).TermSource(component)

			title := args[0]
			res, err := source.Fetch(cmd.Context(), title, loc)
			if err != nil {
				return fmt.Errorf("%s check failed: %w", component, err)
			}
			if res == nil {
				res = &providers.TermResult{}
			}

			stats := scoring.BandCounts(m, title, res.Hits)
			utils.MatchStatsToSlog(component, loc.Label(), stats)
			cs := scoring.TermScorers[component](stats, uc)

			result := termCheckResult{
				Title:     title,
				Component: component,
				Locale:    loc,
				Matcher:   m.Name(),
				Hits:      make([]termHit, 0, len(res.Hits)),
				Stats:     stats,
				Score:     cs.Score,
				Weight:    cs.Weight,
				CheckURL:  res.CheckURL,
				Meta:      res.Meta,
			}
			for _, h := range res.Hits {
				result.Hits = append(result.Hits, termHit{Term: h.Term, Position: h.Position, Similarity: m.ScorePair(title, h.Term)})
			}

			if asJSON {
				return reporting.WriteJSON(cmd.OutOrStdout(), result)
			}
			printTermResult(cmd.OutOrStdout(), result)
			return nil
		},
	}

	cmd.Flags().StringVarP(&locale, "locale", "l", "", "Locale country:hl:gl:location_code:language_code (default: first config locale)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON")

	return cmd
}

func printTermResult(w io.Writer, r termCheckResult) {
	fmt.Fprintf(w, "%s results for %q (%s, matcher %s)\n\n", r.Component, r.Title, r.Locale.Label(), r.Matcher) //nolint:errcheck

	if len(r.Hits) == 0 {
		fmt.Fprintln(w, "No results.") //nolint:errcheck
	} else {
		width := 0
		for _, h := range r.Hits {
			width = max(width, len(positionLabel(h.Position)))
		}
		for _, h := range r.Hits {
			fmt.Fprintf(w, "%*s  %3d%%  %s\n", width, positionLabel(h.Position), h.Similarity, h.Term) //nolint:errcheck
		}
	}

	fmt.Fprintf(w, "\nmax=%d n95=%d n90=%d n80=%d", r.Stats.MaxScore, r.Stats.N95, r.Stats.N90, r.Stats.N80) //nolint:errcheck
	if r.Stats.TopHitPos != nil {
		fmt.Fprintf(w, " top=%d", *r.Stats.TopHitPos) //nolint:errcheck
	}
	fmt.Fprintf(w, "\nscore: %d/%d %s\n", r.Score, r.Weight, reporting.InterpretComponent(r.Score, r.Weight)) //nolint:errcheck
	if r.CheckURL != "" {
		fmt.Fprintf(w, "verify: %s\n", r.CheckURL) //nolint:errcheck
	}
}

func positionLabel(p *int) string {
	if p == nil {
		return "-"
	}
	return "#" + strconv.Itoa(*p)
}
