package ui

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

func TestPrinter_Messages(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		print func(p *Printer)
		want  []string
	}{
		{"run start", func(p *Printer) { p.RunStart("corpus0", 4, 1) }, []string{"ranking", "corpus0", "4 pages", "1 dangling"}},
		{"estimate done", func(p *Printer) { p.EstimateDone("iterate", 1500*time.Microsecond) }, []string{"iterate", "1.5ms"}},
		{"saved", func(p *Printer) { p.RunSaved("abc-123", "/tmp/h.db") }, []string{"saved", "abc-123", "/tmp/h.db"}},
		{"corpus changed", func(p *Printer) { p.CorpusChanged("2.html", "modified") }, []string{"modified", "2.html", "re-ranking"}},
		{"watching", func(p *Printer) { p.Watching("site") }, []string{"watching", "site"}},
		{"warn", func(p *Printer) { p.Warn("sum drifted") }, []string{"sum drifted"}},
		{"error", func(p *Printer) { p.Error("boom") }, []string{"error: ", "boom"}},
		{"info", func(p *Printer) { p.Info("hello") }, []string{"hello"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var buf bytes.Buffer
			tt.print(NewWithWriter(&buf, false))
			out := buf.String()
			for _, want := range tt.want {
				if !strings.Contains(out, want) {
					t.Errorf("expected output to contain %q, got:\n%s", want, out)
				}
			}
			if !strings.HasSuffix(out, "\n") {
				t.Errorf("expected a trailing newline, got %q", out)
			}
		})
	}
}

func TestPrinter_VerboseGating(t *testing.T) {
	t.Parallel()

	var quiet, loud bytes.Buffer
	for _, p := range []*Printer{NewWithWriter(&quiet, false), NewWithWriter(&loud, true)} {
		p.Iteration(3, 0.0125)
		p.Debug("loaded %d pages", 4)
	}

	if quiet.Len() != 0 {
		t.Errorf("non-verbose printer wrote %q", quiet.String())
	}
	out := loud.String()
	for _, want := range []string{"iteration 3", "0.0125", "debug: loaded 4 pages"} {
		if !strings.Contains(out, want) {
			t.Errorf("verbose output missing %q:\n%s", want, out)
		}
	}
}
