package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/brandnamegen/brandcheck/internal/history"
	"github.com/brandnamegen/brandcheck/internal/reporting"
	"github.com/spf13/cobra"
)

func newHistoryCommand(root *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Browse recorded evaluations",
		Long: `Browse evaluations recorded in the history database.

Evaluations are recorded when history is enabled in .brandcheck.yaml or
"evaluate --history" is given.`,
	}

	cmd.AddCommand(newHistoryListCommand(root))
	cmd.AddCommand(newHistoryShowCommand(root))

	return cmd
}

// openHistory opens the configured history database.
func (f *rootFlags) openHistory() (*history.Store, error) {
	cfg, err := f.loadConfig()
	if err != nil {
		return nil, err
	}
	store, err := history.Open(cfg.HistoryPath())
	if err != nil {
		return nil, fmt.Errorf("opening history: %w", err)
	}
	return store, nil
}

func newHistoryListCommand(root *rootFlags) *cobra.Command {
	var title string
	var limit int
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent evaluations, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := root.openHistory()
			if err != nil {
				return err
			}
			defer store.Close() //nolint:errcheck

			entries, err := store.List(cmd.Context(), history.ListOptions{Title: title, Limit: limit})
			if err != nil {
				return err
			}

			if asJSON {
				return reporting.WriteJSON(cmd.OutOrStdout(), entries)
			}

			out := cmd.OutOrStdout()
			if len(entries) == 0 {
				fmt.Fprintln(out, "No evaluations recorded.") //nolint:errcheck
				return nil
			}
			for _, e := range entries {
				fmt.Fprintf(out, "%s  %s  %3d  %-13s  %s  [%s]\n", //nolint:errcheck
					e.EvaluatedAt.Local().Format("2006-01-02 15:04"),
					e.ID,
					e.Score,
					e.Grade,
					reporting.TruncateTitle(e.Title, 40),
					strings.Join(e.Locales, ","))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "Only show evaluations of this title (case-insensitive)")
	cmd.Flags().IntVarP(&limit, "limit", "n", history.DefaultListLimit, "Maximum number of entries")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON")

	return cmd
}

func newHistoryShowCommand(root *rootFlags) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show a recorded report",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := reporting.ParseFormat(format)
			if err != nil {
				return err
			}

			store, err := root.openHistory()
			if err != nil {
				return err
			}
			defer store.Close() //nolint:errcheck

			report, err := store.Get(cmd.Context(), args[0])
			if errors.Is(err, history.ErrNotFound) {
				return fmt.Errorf("no recorded evaluation with id %q", args[0])
			}
			if err != nil {
				return err
			}
			return reporting.Write(cmd.OutOrStdout(), f, report)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "text", "Output format: text, markdown, json, junit")

	return cmd
}
