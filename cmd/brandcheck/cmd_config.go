package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/brandnamegen/brandcheck/internal/projectconfig"
	"github.com/brandnamegen/brandcheck/internal/validation"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newConfigCommand(root *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect and validate .brandcheck.yaml",
	}

	cmd.AddCommand(newConfigValidateCommand(root))
	cmd.AddCommand(newConfigShowCommand(root))

	return cmd
}

func newConfigValidateCommand(root *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "validate [path]",
		Short: "Validate a config file against the schema",
		Long: `Validate a config file against the embedded JSON schema and check that
its weights, thresholds and locales are usable.

Without a path, validates the file "evaluate" would load.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := root.configPath
			if len(args) == 1 {
				path = args[0]
			}
			if path == "" {
				cfg, err := root.loadConfig()
				if err != nil {
					return err
				}
				path = cfg.Path()
			}
			if path == "" {
				return errors.New("no config file found: create " + projectconfig.ConfigFileName + " or pass a path")
			}

			errs, err := validation.ValidateConfigFile(path)
			if err != nil {
				return err
			}
			if len(errs) > 0 {
				out := cmd.ErrOrStderr()
				for _, e := range errs {
					fmt.Fprintf(out, "  %s\n", e) //nolint:errcheck
				}
				return fmt.Errorf("%s: %d schema error(s)", path, len(errs))
			}

			// Semantic checks the schema cannot express
			cfg := projectconfig.New()
			if err := projectconfig.LoadFile(cfg, path); err != nil {
				return err
			}
			if _, err := cfg.Uniqueness(); err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			if _, err := cfg.LocaleSpecs(); err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}

			abs, err := filepath.Abs(path)
			if err != nil {
				abs = path
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ %s is valid\n", abs) //nolint:errcheck
			return nil
		},
	}
}

func newConfigShowCommand(root *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration as YAML",
		Long: `Print the configuration "evaluate" would use: defaults, overlaid with
the config file and any --set overrides. Credentials are never shown.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := root.loadConfig()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if p := cfg.Path(); p != "" {
				fmt.Fprintf(out, "# loaded from %s\n", p) //nolint:errcheck
			} else {
				fmt.Fprintln(out, "# defaults (no config file found)") //nolint:errcheck
			}

			enc := yaml.NewEncoder(out)
			enc.SetIndent(2)
			if err := enc.Encode(cfg); err != nil {
				return fmt.Errorf("encoding config: %w", err)
			}
			if err := enc.Close(); err != nil {
				return err
			}

			if _, err := os.Stat(projectconfig.DotEnvFile); err == nil {
				fmt.Fprintf(out, "# credentials: %s present\n", projectconfig.DotEnvFile) //nolint:errcheck
			}
			return nil
		},
	}
}
