package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/papapumpkin/linkrank/internal/report"
	"github.com/papapumpkin/linkrank/internal/store"
)

var historyCmd = &cobra.Command{
	Use:   "history [run-id]",
	Short: "List saved runs, or show the results of one",
	Long: `Without arguments, lists the runs stored with --save, newest first.
With a run ID, prints that run's results in the configured format.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().Int("limit", 20, "maximum number of runs to list (0 = all)")
	historyCmd.Flags().String("format", "", "output format for a single run: "+strings.Join(report.FormatNames(), ", "))
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if _, err := os.Stat(cfg.DBPath); err != nil {
		return fmt.Errorf("no history at %s (run with --save first): %w", cfg.DBPath, err)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	s, err := store.NewSQLiteStore(ctx, cfg.DBPath)
	if err != nil {
		return err
	}
	defer s.Close()

	w := cmd.OutOrStdout()
	if len(args) == 1 {
		run, err := s.Run(ctx, args[0])
		if err != nil {
			return err
		}
		format, err := report.FormatByName(cfg.Format)
		if err != nil {
			return err
		}
		out, err := format.Render(fromStoredRun(run))
		if err != nil {
			return err
		}
		_, err = fmt.Fprint(w, out)
		return err
	}

	limit, _ := cmd.Flags().GetInt("limit")
	runs, err := s.Runs(ctx, limit)
	if err != nil {
		return err
	}
	writeRunList(w, runs)
	return nil
}

// writeRunList prints a one-row-per-run summary table.
func writeRunList(w io.Writer, runs []store.Run) {
	if len(runs) == 0 {
		fmt.Fprintln(w, "no saved runs")
		return
	}
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		Headers("ID", "CREATED", "CORPUS", "PAGES", "DAMPING", "SAMPLES", "DANGLING").
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return lipgloss.NewStyle().Bold(true).Padding(0, 1)
			}
			return lipgloss.NewStyle().Padding(0, 1)
		})
	for _, run := range runs {
		t.Row(
			run.ID,
			run.CreatedAt.Local().Format(time.DateTime),
			run.Corpus,
			strconv.Itoa(run.Pages),
			strconv.FormatFloat(run.Damping, 'g', -1, 64),
			strconv.Itoa(run.Samples),
			run.Dangling,
		)
	}
	fmt.Fprintln(w, t.Render())
}
