package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/papapumpkin/linkrank/internal/config"
	"github.com/papapumpkin/linkrank/internal/corpus"
	"github.com/papapumpkin/linkrank/internal/graph"
	"github.com/papapumpkin/linkrank/internal/rank"
	"github.com/papapumpkin/linkrank/internal/report"
	"github.com/papapumpkin/linkrank/internal/store"
	"github.com/papapumpkin/linkrank/internal/telemetry"
	"github.com/papapumpkin/linkrank/internal/ui"
)

// referenceTol is the L2 convergence tolerance passed to gonum.
const referenceTol = 1e-10

// ranker runs the estimators over one corpus and reports progress.
type ranker struct {
	cfg     config.Config
	printer *ui.Printer
	emitter *telemetry.Emitter // may be nil
}

// rankResult is the outcome of one pass over a corpus.
type rankResult struct {
	RunID   string
	Corpus  string
	Graph   *graph.Graph
	Seed    uint64
	Options rank.Options
	Reports []report.Report
}

// newRunID returns a fresh identifier for a run.
func newRunID() string {
	return uuid.NewString()
}

// openTelemetry starts the run's event file, or returns a nil emitter when
// telemetry is disabled. Failure to open is reported and not fatal.
func openTelemetry(cfg config.Config, runID string, printer *ui.Printer) *telemetry.Emitter {
	if cfg.TelemetryDir == "" {
		return nil
	}
	em, err := telemetry.Open(cfg.TelemetryDir, runID)
	if err != nil {
		printer.Warn(fmt.Sprintf("telemetry disabled: %v", err))
		return nil
	}
	return em
}

// run loads the corpus and applies each method in order. Methods are
// store.MethodSample, store.MethodIterate and store.MethodReference.
func (r *ranker) run(ctx context.Context, runID, corpusPath string, methods []string) (*rankResult, error) {
	raw, err := corpus.Load(corpusPath)
	if err != nil {
		return nil, err
	}
	g := graph.Build(raw)

	opts, err := r.cfg.RankOptions()
	if err != nil {
		return nil, err
	}
	seed := r.cfg.EffectiveSeed()

	res := &rankResult{RunID: runID, Corpus: corpusPath, Graph: g, Seed: seed, Options: opts}

	r.printer.RunStart(corpusPath, g.Len(), len(g.Dangling()))
	r.record(telemetry.KindRunStart, "", map[string]any{
		"corpus":   corpusPath,
		"pages":    g.Len(),
		"dangling": len(g.Dangling()),
		"damping":  opts.Damping,
		"seed":     seed,
	})

	for _, method := range r.applicable(g, opts, methods) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		rep, err := r.estimate(g, method, opts, seed)
		if err != nil {
			return nil, fmt.Errorf("%s estimate: %w", method, err)
		}
		res.Reports = append(res.Reports, rep)
	}

	r.record(telemetry.KindRunDone, "", map[string]any{"methods": len(res.Reports)})
	return res, nil
}

// applicable drops the reference method when gonum cannot serve the input,
// reporting why.
func (r *ranker) applicable(g *graph.Graph, opts rank.Options, methods []string) []string {
	var kept []string
	for _, method := range methods {
		if method == store.MethodReference {
			switch {
			case opts.Damping >= 1:
				r.printer.Warn("skipping reference estimate: gonum needs damping below 1")
				continue
			case g.Len() > rank.MaxReferencePages:
				r.printer.Warn(fmt.Sprintf("skipping reference estimate: %d pages exceeds the limit of %d",
					g.Len(), rank.MaxReferencePages))
				continue
			}
		}
		kept = append(kept, method)
	}
	return kept
}

// estimate runs a single method and wraps its result in a report.
func (r *ranker) estimate(g *graph.Graph, method string, opts rank.Options, seed uint64) (report.Report, error) {
	start := time.Now()
	rep := report.Report{Method: method, Meta: map[string]string{}}

	var err error
	switch method {
	case store.MethodSample:
		rep.Title = fmt.Sprintf("PageRank Results from Sampling (n = %d)", opts.Samples)
		rep.Meta["samples"] = strconv.Itoa(opts.Samples)
		rep.Meta["seed"] = strconv.FormatUint(seed, 10)
		rep.Ranks, err = rank.Sample(g, opts, rank.NewSource(seed))

	case store.MethodIterate:
		iterations := 0
		opts.Trace = func(iteration int, delta float64) {
			iterations = iteration
			r.printer.Iteration(iteration, delta)
			r.record(telemetry.KindIteration, method, map[string]any{"iteration": iteration, "delta": delta})
		}
		rep.Title = "PageRank Results from Iteration"
		rep.Ranks, err = rank.Iterate(g, opts)
		rep.Meta["iterations"] = strconv.Itoa(iterations)
		rep.Meta["dangling"] = opts.Dangling.String()

	case store.MethodReference:
		rep.Title = "PageRank Results from gonum (reference)"
		rep.Ranks, err = rank.Reference(g, opts.Damping, referenceTol)

	default:
		return report.Report{}, fmt.Errorf("unknown method %q", method)
	}
	if err != nil {
		return report.Report{}, err
	}

	elapsed := time.Since(start)
	r.printer.EstimateDone(method, elapsed)
	r.record(telemetry.KindEstimateDone, method, map[string]any{
		"elapsed_ms": float64(elapsed.Microseconds()) / 1000,
		"sum":        rep.Ranks.Sum(),
	})
	return rep, nil
}

// record writes a telemetry event, reporting failures without aborting.
func (r *ranker) record(kind, method string, data map[string]any) {
	if err := r.emitter.Record(kind, method, data); err != nil {
		r.printer.Debug("%v", err)
	}
}

// save persists a result to the history database.
func (r *ranker) save(ctx context.Context, res *rankResult) error {
	if dir := filepath.Dir(r.cfg.DBPath); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating %s: %w", dir, err)
		}
	}
	s, err := store.NewSQLiteStore(ctx, r.cfg.DBPath)
	if err != nil {
		return err
	}
	defer s.Close()

	if err := s.SaveRun(ctx, toStoredRun(res)); err != nil {
		return err
	}
	r.printer.RunSaved(res.RunID, r.cfg.DBPath)
	r.record(telemetry.KindRunSaved, "", map[string]any{"db_path": r.cfg.DBPath})
	return nil
}

// toStoredRun converts a result into its persisted form.
func toStoredRun(res *rankResult) store.Run {
	run := store.Run{
		ID:        res.RunID,
		Corpus:    res.Corpus,
		Pages:     res.Graph.Len(),
		Damping:   res.Options.Damping,
		Samples:   res.Options.Samples,
		Threshold: res.Options.Threshold,
		Dangling:  res.Options.Dangling.String(),
		Seed:      res.Seed,
		Results:   make(map[string]rank.Distribution, len(res.Reports)),
	}
	for _, rep := range res.Reports {
		run.Results[rep.Method] = rep.Ranks
	}
	return run
}

// fromStoredRun rebuilds display reports from a persisted run.
func fromStoredRun(run store.Run) []report.Report {
	var reports []report.Report
	for _, method := range run.Methods() {
		reports = append(reports, report.Report{
			Title:  fmt.Sprintf("%s: %s (%s)", run.ID, method, run.Corpus),
			Method: method,
			Ranks:  run.Results[method],
			Meta: map[string]string{
				"damping": strconv.FormatFloat(run.Damping, 'g', -1, 64),
				"seed":    strconv.FormatUint(run.Seed, 10),
				"created": run.CreatedAt.Format(time.RFC3339),
			},
		})
	}
	return reports
}
