package main

import (
	"fmt"
	"log/slog"

	"github.com/brandnamegen/brandcheck/internal/models"
	"github.com/brandnamegen/brandcheck/internal/namegen"
	"github.com/brandnamegen/brandcheck/internal/projectconfig"
	"github.com/brandnamegen/brandcheck/internal/reporting"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

// domainCheckParallelism bounds concurrent registry lookups in "generate --domains".
const domainCheckParallelism = 4

// candidate is one generated name, with its .com state when checked.
type candidate struct {
	Name      string `json:"name"`
	Available *bool  `json:"available,omitempty"`
	Error     string `json:"error,omitempty"`
}

type generateOptions struct {
	style   string
	limit   int
	domains bool
	asJSON  bool
}

func newGenerateCommand(root *rootFlags) *cobra.Command {
	opts := &generateOptions{}

	cmd := &cobra.Command{
		Use:   "generate <keyword>...",
		Short: "Generate brand name ideas from keywords",
		Long: `Generate brand name candidates by combining fixed prefixes and suffixes
with the given keywords. A style adds an infix: modern (x), classic (a),
playful (oo) or professional (pro).

With --domains, each candidate's .com is looked up in the registry.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return generateCommandE(cmd, root, opts, args)
		},
	}

	cmd.Flags().StringVarP(&opts.style, "style", "s", "", "Name style: modern, classic, playful, professional")
	cmd.Flags().IntVarP(&opts.limit, "limit", "n", namegen.DefaultLimit, "Maximum number of names")
	cmd.Flags().BoolVar(&opts.domains, "domains", false, "Check .com availability of every candidate")
	cmd.Flags().BoolVar(&opts.asJSON, "json", false, "Print JSON")

	return cmd
}

func generateCommandE(cmd *cobra.Command, root *rootFlags, opts *generateOptions, keywords []string) error {
	style, err := namegen.ParseStyle(opts.style)
	if err != nil {
		return err
	}
	if opts.limit < 1 {
		return fmt.Errorf("--limit must be at least 1, got %d", opts.limit)
	}

	names := namegen.Generate(keywords, style, opts.limit)
	if len(names) == 0 {
		return fmt.Errorf("no usable keywords in %q", keywords)
	}

	candidates := make([]candidate, len(names))
	for i, n := range names {
		candidates[i].Name = n
	}

	if opts.domains {
		cfg, err := root.loadConfig()
		if err != nil {
			return err
		}
		checker := newProviderSet(cfg, projectconfig.Credentials{}).Domain

		g, ctx := errgroup.WithContext(cmd.Context())
		g.SetLimit(domainCheckParallelism)
		for i := range candidates {
			g.Go(func() error {
				status, err := checker.Check(ctx, candidates[i].Name)
				switch {
				case err != nil:
					slog.Warn("Domain check failed", "name", candidates[i].Name, "error", err)
					candidates[i].Error = err.Error()
				case status != nil:
					candidates[i].Available = status.Available
				}
				return nil
			})
		}
		_ = g.Wait()
	}

	if opts.asJSON {
		return reporting.WriteJSON(cmd.OutOrStdout(), candidates)
	}

	out := cmd.OutOrStdout()
	for _, c := range candidates {
		if !opts.domains {
			fmt.Fprintln(out, c.Name) //nolint:errcheck
			continue
		}
		fmt.Fprintf(out, "%s  %s\n", c.Name, domainState(c)) //nolint:errcheck
	}
	return nil
}

func domainState(c candidate) string {
	switch {
	case c.Error != "":
		return "? (check failed)"
	case c.Available == nil:
		return "? (" + string(models.DomainSourceUnknown) + ")"
	case *c.Available:
		return "✓ .com available"
	default:
		return "✗ .com taken"
	}
}
