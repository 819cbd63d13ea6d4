package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/papapumpkin/linkrank/internal/config"
	"github.com/papapumpkin/linkrank/internal/report"
	"github.com/papapumpkin/linkrank/internal/ui"
)

// addRankFlags registers the estimator flags shared by rank, compare and
// watch. Unset flags leave the configured value alone.
func addRankFlags(cmd *cobra.Command) {
	cmd.Flags().Float64("damping", 0, "probability of following a link (default 0.85)")
	cmd.Flags().Int("samples", 0, "random-walk length for the sampling estimator (default 10000)")
	cmd.Flags().Float64("threshold", 0, "convergence threshold for the iterative estimator (default 0.001)")
	cmd.Flags().Int("max-iterations", 0, "fail if iteration has not converged after this many steps (0 = unbounded)")
	cmd.Flags().String("dangling", "", `treatment of pages without links: "redistribute" or "drop"`)
	cmd.Flags().Uint64("seed", 0, "random seed for sampling (0 = time-based)")
	cmd.Flags().String("format", "", "output format: "+strings.Join(report.FormatNames(), ", "))
	cmd.Flags().Bool("save", false, "store the run in the history database")
}

// loadConfig reads configuration, applies flag overrides and validates the
// result.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, err
	}
	applyFlagOverrides(cmd, &cfg)
	if err := cfg.Validate(); err != nil {
		return config.Config{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// applyFlagOverrides applies explicitly set CLI flag values to the loaded config.
func applyFlagOverrides(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("damping") {
		cfg.Damping, _ = flags.GetFloat64("damping")
	}
	if flags.Changed("samples") {
		cfg.Samples, _ = flags.GetInt("samples")
	}
	if flags.Changed("threshold") {
		cfg.Threshold, _ = flags.GetFloat64("threshold")
	}
	if flags.Changed("max-iterations") {
		cfg.MaxIterations, _ = flags.GetInt("max-iterations")
	}
	if flags.Changed("dangling") {
		cfg.Dangling, _ = flags.GetString("dangling")
	}
	if flags.Changed("seed") {
		cfg.Seed, _ = flags.GetUint64("seed")
	}
	if flags.Changed("format") {
		cfg.Format, _ = flags.GetString("format")
	}
	if v, _ := flags.GetBool("verbose"); v {
		cfg.Verbose = true
	}
}

// setupSignalContext returns a context cancelled on SIGINT or SIGTERM.
func setupSignalContext(parent context.Context, printer *ui.Printer) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		select {
		case <-sigCh:
			printer.Info("\nshutting down...")
			cancel()
		case <-ctx.Done():
		}
		signal.Stop(sigCh)
	}()
	return ctx, cancel
}
