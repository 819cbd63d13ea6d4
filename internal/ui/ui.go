// Package ui prints human-oriented status lines to stderr. Results go to
// stdout through the report package; everything here is commentary a script
// can ignore.
package ui

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/lipgloss"
)

var (
	styleAccent = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6"))
	styleOk     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("2"))
	styleWarn   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("3"))
	styleErr    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("1"))
	styleDim    = lipgloss.NewStyle().Faint(true)
)

// Printer writes styled progress messages. Debug output is shown only when
// Verbose is set.
type Printer struct {
	Verbose bool
	w       io.Writer
}

// New returns a Printer writing to stderr.
func New(verbose bool) *Printer {
	return &Printer{Verbose: verbose, w: os.Stderr}
}

// NewWithWriter returns a Printer writing to w.
func NewWithWriter(w io.Writer, verbose bool) *Printer {
	return &Printer{Verbose: verbose, w: w}
}

// RunStart announces the corpus being ranked.
func (p *Printer) RunStart(corpus string, pages, dangling int) {
	fmt.Fprintf(p.w, "%s %s %s\n",
		styleAccent.Render("◆ ranking"), corpus,
		styleDim.Render(fmt.Sprintf("(%d pages, %d dangling)", pages, dangling)))
}

// EstimateDone reports a finished estimator and its wall time.
func (p *Printer) EstimateDone(method string, elapsed time.Duration) {
	fmt.Fprintf(p.w, "%s %s\n",
		styleOk.Render("✓ "+method),
		styleDim.Render(fmt.Sprintf("done (%s)", elapsed.Round(time.Microsecond))))
}

// Iteration reports one power-method step. Verbose only.
func (p *Printer) Iteration(iteration int, delta float64) {
	if !p.Verbose {
		return
	}
	fmt.Fprintln(p.w, styleDim.Render(fmt.Sprintf("  iteration %d: max change %.6g", iteration, delta)))
}

// RunSaved reports where a run was persisted.
func (p *Printer) RunSaved(runID, dbPath string) {
	fmt.Fprintf(p.w, "%s %s %s\n", styleOk.Render("✓ saved"), runID, styleDim.Render("→ "+dbPath))
}

// CorpusChanged reports a settled file change seen by the watcher.
func (p *Printer) CorpusChanged(file, kind string) {
	fmt.Fprintf(p.w, "%s %s %s\n", styleWarn.Render("↻ "+kind), file, styleDim.Render("re-ranking"))
}

// Watching announces that the watch loop is idle and waiting for edits.
func (p *Printer) Watching(dir string) {
	fmt.Fprintf(p.w, "%s %s %s\n", styleAccent.Render("◆ watching"), dir, styleDim.Render("(ctrl-c to stop)"))
}

// Warn prints a non-fatal problem.
func (p *Printer) Warn(msg string) {
	fmt.Fprintf(p.w, "%s %s\n", styleWarn.Render("⚠"), msg)
}

// Error prints msg as an error.
func (p *Printer) Error(msg string) {
	fmt.Fprintf(p.w, "%s%s\n", styleErr.Render("error: "), msg)
}

// Info prints a dimmed informational line.
func (p *Printer) Info(msg string) {
	fmt.Fprintln(p.w, styleDim.Render(msg))
}

// Debug prints msg only in verbose mode.
func (p *Printer) Debug(format string, args ...any) {
	if !p.Verbose {
		return
	}
	fmt.Fprintln(p.w, styleDim.Render("debug: "+fmt.Sprintf(format, args...)))
}
