package main

import (
	"fmt"
	"path/filepath"

	"github.com/brandnamegen/brandcheck/internal/cache"
	"github.com/spf13/cobra"
)

func newCacheCommand(root *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the report cache",
		Long: `Manage the report cache.

The cache stores finished reports so repeated evaluations of the same title
with the same locales, weights, thresholds and matcher skip the providers.
Reports that carry provider warnings are never cached.`,
	}

	cmd.AddCommand(newCacheClearCommand(root))

	return cmd
}

func newCacheClearCommand(root *rootFlags) *cobra.Command {
	var cacheDir string

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Clear the report cache",
		Long: `Clear all cached reports.

The next evaluation of every title will query the providers again.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := cacheDir
			if dir == "" {
				cfg, err := root.loadConfig()
				if err != nil {
					return err
				}
				dir = cfg.CacheDir()
			}

			// Resolve to absolute path
			absDir, err := filepath.Abs(dir)
			if err != nil {
				return fmt.Errorf("resolving cache directory: %w", err)
			}

			c := cache.New(absDir, 0)
			if err := c.Clear(); err != nil {
				return fmt.Errorf("clearing cache: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Cache cleared: %s\n", c.Dir()) //nolint:errcheck
			return nil
		},
	}

	cmd.Flags().StringVar(&cacheDir, "cache-dir", "", "Cache directory to clear (default: from config)")

	return cmd
}
