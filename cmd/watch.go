package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/papapumpkin/linkrank/internal/config"
	"github.com/papapumpkin/linkrank/internal/corpus"
	"github.com/papapumpkin/linkrank/internal/store"
	"github.com/papapumpkin/linkrank/internal/telemetry"
	"github.com/papapumpkin/linkrank/internal/ui"
	"github.com/papapumpkin/linkrank/internal/watch"
)

var watchCmd = &cobra.Command{
	Use:   "watch <corpus-dir>",
	Short: "Re-rank a directory of pages whenever one of them changes",
	Long: `Ranks the corpus once, then watches the directory and re-runs the ranking
each time an .html page is added, edited or removed. Stop with Ctrl-C.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	addRankFlags(watchCmd)
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	dir := args[0]
	if info, err := os.Stat(dir); err != nil {
		return err
	} else if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", dir)
	}
	save, _ := cmd.Flags().GetBool("save")

	printer := ui.New(cfg.Verbose)
	ctx, cancel := setupSignalContext(cmd.Context(), printer)
	defer cancel()

	w, err := watch.NewWatcher(dir, corpus.IsPage)
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	if err := w.Start(); err != nil {
		return fmt.Errorf("watching %s: %w", dir, err)
	}
	defer w.Stop()

	return watchLoop(ctx, cmd.OutOrStdout(), cfg, printer, dir, w.Changes, save)
}

// watchLoop ranks dir once and then again after every change until ctx is
// cancelled or changes is closed. A failed pass is reported and the loop
// keeps waiting, since the next edit may repair the corpus.
func watchLoop(ctx context.Context, out io.Writer, cfg config.Config, printer *ui.Printer,
	dir string, changes <-chan watch.Change, save bool,
) error {
	methods := []string{store.MethodSample, store.MethodIterate}
	pass := func() {
		if err := rankOnce(ctx, out, cfg, printer, dir, methods, cfg.Format, save); err != nil {
			printer.Error(err.Error())
		}
	}

	pass()
	printer.Watching(dir)
	for {
		select {
		case <-ctx.Done():
			return nil
		case c, ok := <-changes:
			if !ok {
				return nil
			}
			name := filepath.Base(c.File)
			printer.CorpusChanged(name, c.Kind.String())
			recordChange(cfg, printer, name, c.Kind.String())
			pass()
		}
	}
}

// recordChange appends a corpus_changed event to the watch session's
// telemetry file.
func recordChange(cfg config.Config, printer *ui.Printer, file, kind string) {
	em := openTelemetry(cfg, "watch", printer)
	defer em.Close()
	if err := em.Record(telemetry.KindCorpusChanged, "", map[string]any{"file": file, "change": kind}); err != nil {
		printer.Debug("%v", err)
	}
}
