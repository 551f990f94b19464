package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/brandnamegen/brandcheck/internal/projectconfig"
	"github.com/brandnamegen/brandcheck/internal/telemetry"
	"github.com/spf13/cobra"
)

// traceFlushTimeout bounds how long exit waits for pending spans.
const traceFlushTimeout = 5 * time.Second

var version = "dev"

// rootFlags are shared by every subcommand.
type rootFlags struct {
	debug      bool
	configPath string
	sets       []string
	trace      string

	stopTracing telemetry.ShutdownFunc
}

func newRootCommand() *cobra.Command {
	return buildRootCommand(&rootFlags{})
}

func buildRootCommand(flags *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "brandcheck",
		Short: "brandcheck - score how unique a brand or app title is",
		Long: `brandcheck scores how unique a proposed brand or app title is.

It checks the .com registry, ASO keyword suggestions, storefront search
results and organic web results, combines them into a 0-100 score and
grades the title Colliding, Borderline, Likely Unique or Distinct.

Settings come from .brandcheck.yaml (searched upwards from the working
directory, else $BRANDCHECK_CONFIG). Credentials come from the environment
and a .env file in the working directory.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().BoolVar(&flags.debug, "debug", false, "Enable debug logging")
	cmd.PersistentFlags().StringVar(&flags.configPath, "config", "", "Config file (default: .brandcheck.yaml found from the working directory)")
	cmd.PersistentFlags().StringArrayVar(&flags.sets, "set", nil, "Override a config value, e.g. --set weights.play=10 (can be repeated)")
	cmd.PersistentFlags().StringVar(&flags.trace, "trace", "", "Export OpenTelemetry traces to this OTLP/HTTP endpoint, e.g. http://localhost:4318 (default: $"+telemetry.EndpointEnv+")")
	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if flags.debug {
			slog.SetLogLoggerLevel(slog.LevelDebug)
		}
		shutdown, err := telemetry.Setup(cmd.Context(), "brandcheck", flags.trace)
		if err != nil {
			return fmt.Errorf("setting up tracing: %w", err)
		}
		flags.stopTracing = shutdown
		return nil
	}

	// Add subcommands
	cmd.AddCommand(newEvaluateCommand(flags))
	cmd.AddCommand(newCheckCommand(flags))
	cmd.AddCommand(newGenerateCommand(flags))
	cmd.AddCommand(newCacheCommand(flags))
	cmd.AddCommand(newHistoryCommand(flags))
	cmd.AddCommand(newConfigCommand(flags))

	return cmd
}

// loadConfig resolves the project config and applies --set overrides.
func (f *rootFlags) loadConfig() (*projectconfig.ProjectConfig, error) {
	var cfg *projectconfig.ProjectConfig
	if f.configPath != "" {
		cfg = projectconfig.New()
		if err := projectconfig.LoadFile(cfg, f.configPath); err != nil {
			return nil, err
		}
	} else {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("getting working directory: %w", err)
		}
		cfg, err = projectconfig.Load(wd)
		if err != nil {
			return nil, err
		}
	}

	if err := projectconfig.ApplyOverrides(cfg, f.sets); err != nil {
		return nil, err
	}
	if p := cfg.Path(); p != "" {
		slog.Debug("loaded config", "path", p)
	}
	return cfg, nil
}

// shutdownTracing flushes spans recorded during the command, if tracing ran.
func (f *rootFlags) shutdownTracing() error {
	if f.stopTracing == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), traceFlushTimeout)
	defer cancel()
	if err := f.stopTracing(ctx); err != nil {
		return fmt.Errorf("flushing traces: %w", err)
	}
	return nil
}

func execute() error {
	flags := &rootFlags{}
	rootCmd := buildRootCommand(flags)
	err := rootCmd.Execute()
	return errors.Join(err, flags.shutdownTracing())
}
