package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/papapumpkin/linkrank/internal/report"
	"github.com/papapumpkin/linkrank/internal/store"
	"github.com/papapumpkin/linkrank/internal/ui"
)

var compareCmd = &cobra.Command{
	Use:   "compare <corpus>",
	Short: "Run every estimator and show how far apart they are",
	Long: `Runs the sampling, iterative and gonum reference estimators on the same
corpus, prints them side by side (table format unless --format is given), and
reports the largest per-page difference between each pair.`,
	Args: cobra.ExactArgs(1),
	RunE: runCompare,
}

func init() {
	addRankFlags(compareCmd)
	rootCmd.AddCommand(compareCmd)
}

func runCompare(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	formatName := "table"
	if cmd.Flags().Changed("format") {
		formatName = cfg.Format
	}
	format, err := report.FormatByName(formatName)
	if err != nil {
		return err
	}
	save, _ := cmd.Flags().GetBool("save")

	printer := ui.New(cfg.Verbose)
	ctx, cancel := setupSignalContext(cmd.Context(), printer)
	defer cancel()

	runID := newRunID()
	em := openTelemetry(cfg, runID, printer)
	defer em.Close()

	r := &ranker{cfg: cfg, printer: printer, emitter: em}
	res, err := r.run(ctx, runID, args[0],
		[]string{store.MethodSample, store.MethodIterate, store.MethodReference})
	if err != nil {
		return err
	}

	out, err := format.Render(res.Reports)
	if err != nil {
		return err
	}
	if err := writeComparison(cmd.OutOrStdout(), out, res.Reports); err != nil {
		return err
	}

	if save {
		return r.save(ctx, res)
	}
	return nil
}

// writeComparison prints the rendered reports followed by the pairwise
// differences between them.
func writeComparison(w io.Writer, rendered string, reports []report.Report) error {
	_, err := fmt.Fprintf(w, "%s\n%s", rendered, report.FormatDifferences(report.Differences(reports)))
	return err
}
