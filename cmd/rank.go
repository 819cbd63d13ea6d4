package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/papapumpkin/linkrank/internal/config"
	"github.com/papapumpkin/linkrank/internal/report"
	"github.com/papapumpkin/linkrank/internal/store"
	"github.com/papapumpkin/linkrank/internal/ui"
)

var rankCmd = &cobra.Command{
	Use:   "rank <corpus>",
	Short: "Estimate PageRank by sampling and by iteration",
	Long: `Loads a corpus (a directory of .html pages or an edge-list file) and prints
the PageRank of every page twice: once estimated from a random surfer's walk
and once computed by power iteration.`,
	Args: cobra.ExactArgs(1),
	RunE: runRank,
}

func init() {
	addRankFlags(rankCmd)
	rankCmd.Flags().Bool("reference", false, "also compute gonum's reference PageRank")
	rootCmd.AddCommand(rankCmd)
}

func runRank(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	methods := []string{store.MethodSample, store.MethodIterate}
	if ref, _ := cmd.Flags().GetBool("reference"); ref {
		methods = append(methods, store.MethodReference)
	}
	save, _ := cmd.Flags().GetBool("save")

	printer := ui.New(cfg.Verbose)
	ctx, cancel := setupSignalContext(cmd.Context(), printer)
	defer cancel()

	return rankOnce(ctx, cmd.OutOrStdout(), cfg, printer, args[0], methods, cfg.Format, save)
}

// rankOnce performs a complete ranking pass: estimate, render to w, and
// optionally save.
func rankOnce(ctx context.Context, w io.Writer, cfg config.Config, printer *ui.Printer,
	corpusPath string, methods []string, formatName string, save bool,
) error {
	format, err := report.FormatByName(formatName)
	if err != nil {
		return err
	}

	runID := newRunID()
	em := openTelemetry(cfg, runID, printer)
	defer em.Close()

	r := &ranker{cfg: cfg, printer: printer, emitter: em}
	res, err := r.run(ctx, runID, corpusPath, methods)
	if err != nil {
		return err
	}

	out, err := format.Render(res.Reports)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprint(w, out); err != nil {
		return err
	}

	if save {
		return r.save(ctx, res)
	}
	return nil
}
