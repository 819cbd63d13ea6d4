package telemetry

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestFormatLine(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		line string
		want string
	}{
		{
			name: "full event",
			line: `{"ts":"2025-01-01T10:20:30Z","kind":"estimate_done","run":"r1","method":"sample","data":{"samples":100,"sum":1}}`,
			want: "[10:20:30] estimate_done run=r1 method=sample samples=100 sum=1",
		},
		{
			name: "no context",
			line: `{"ts":"2025-01-01T00:00:05Z","kind":"corpus_changed"}`,
			want: "[00:00:05] corpus_changed",
		},
		{
			name: "scalar data",
			line: `{"ts":"2025-01-01T00:00:00Z","kind":"run_saved","data":"abc"}`,
			want: `[00:00:00] run_saved "abc"`,
		},
		{
			name: "garbage",
			line: `not json`,
			want: "??? not json",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := FormatLine(tt.line); got != tt.want {
				t.Errorf("FormatLine() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestResolve(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()

	older := Path(dir, "old")
	newer := Path(dir, "new")
	for _, p := range []string{older, newer, filepath.Join(dir, "notes.txt")} {
		if err := os.WriteFile(p, []byte("{}\n"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	past := time.Now().Add(-time.Hour)
	if err := os.Chtimes(older, past, past); err != nil {
		t.Fatal(err)
	}

	got, err := Resolve(dir, "")
	if err != nil {
		t.Fatalf("Resolve latest: %v", err)
	}
	if got != newer {
		t.Errorf("Resolve latest = %q, want %q", got, newer)
	}

	got, err = Resolve(dir, "old")
	if err != nil {
		t.Fatalf("Resolve(old): %v", err)
	}
	if got != older {
		t.Errorf("Resolve(old) = %q, want %q", got, older)
	}

	if _, err := Resolve(dir, "missing"); err == nil || !strings.Contains(err.Error(), `"missing"`) {
		t.Errorf("Resolve(missing) = %v, want error naming the run", err)
	}
}

func TestResolve_EmptyDir(t *testing.T) {
	t.Parallel()
	if _, err := Resolve(t.TempDir(), ""); err == nil {
		t.Error("expected error for directory without telemetry files")
	}
}
