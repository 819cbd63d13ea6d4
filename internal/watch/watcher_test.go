package watch

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func isHTML(name string) bool { return strings.HasSuffix(name, ".html") }

// startWatcher starts a watcher on dir and stops it at cleanup.
func startWatcher(t *testing.T, dir string) *Watcher {
	t.Helper()
	w, err := NewWatcher(dir, isHTML)
	if err != nil {
		t.Fatalf("NewWatcher failed: %v", err)
	}
	if err := w.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	t.Cleanup(w.Stop)
	return w
}

// waitChange returns the next change or fails after a timeout.
func waitChange(t *testing.T, w *Watcher) Change {
	t.Helper()
	select {
	case c := <-w.Changes:
		return c
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for change event")
		return Change{}
	}
}

func TestWatcher_DetectsChange(t *testing.T) {
	dir := t.TempDir()
	page := filepath.Join(dir, "1.html")
	if err := os.WriteFile(page, []byte(`<a href="2.html">2</a>`), 0o644); err != nil {
		t.Fatalf("failed to create page: %v", err)
	}

	w := startWatcher(t, dir)

	if err := os.WriteFile(page, []byte(`<a href="3.html">3</a>`), 0o644); err != nil {
		t.Fatalf("failed to update page: %v", err)
	}

	c := waitChange(t, w)
	if c.Kind != ChangeModified {
		t.Errorf("expected ChangeModified, got %s", c.Kind)
	}
	if filepath.Base(c.File) != "1.html" {
		t.Errorf("expected change for 1.html, got %q", c.File)
	}
}

func TestWatcher_DetectsAdd(t *testing.T) {
	dir := t.TempDir()
	w := startWatcher(t, dir)

	if err := os.WriteFile(filepath.Join(dir, "new.html"), []byte("<p>hi</p>"), 0o644); err != nil {
		t.Fatalf("failed to create page: %v", err)
	}

	if c := waitChange(t, w); c.Kind != ChangeAdded {
		t.Errorf("expected ChangeAdded, got %s", c.Kind)
	}
}

func TestWatcher_DetectsRemoval(t *testing.T) {
	dir := t.TempDir()
	page := filepath.Join(dir, "gone.html")
	if err := os.WriteFile(page, []byte("<p>bye</p>"), 0o644); err != nil {
		t.Fatalf("failed to create page: %v", err)
	}

	w := startWatcher(t, dir)

	if err := os.Remove(page); err != nil {
		t.Fatalf("failed to remove page: %v", err)
	}

	if c := waitChange(t, w); c.Kind != ChangeRemoved {
		t.Errorf("expected ChangeRemoved, got %s", c.Kind)
	}
}

func TestWatcher_IgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	w := startWatcher(t, dir)

	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("hello"), 0o644); err != nil {
		t.Fatalf("failed to create file: %v", err)
	}

	select {
	case c := <-w.Changes:
		t.Errorf("unexpected change event: %+v", c)
	case <-time.After(300 * time.Millisecond):
	}
}

func TestWatcher_DebouncesBursts(t *testing.T) {
	dir := t.TempDir()
	page := filepath.Join(dir, "busy.html")
	if err := os.WriteFile(page, []byte("v0"), 0o644); err != nil {
		t.Fatalf("failed to create page: %v", err)
	}

	w := startWatcher(t, dir)

	for i := range 5 {
		if err := os.WriteFile(page, []byte(strings.Repeat("x", i+1)), 0o644); err != nil {
			t.Fatalf("write %d: %v", i, err)
		}
	}

	waitChange(t, w)
	select {
	case c := <-w.Changes:
		t.Errorf("burst produced a second change: %+v", c)
	case <-time.After(400 * time.Millisecond):
	}
}

func TestWatcher_StopClosesChanges(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWatcher(dir, nil)
	if err != nil {
		t.Fatalf("NewWatcher failed: %v", err)
	}
	if err := w.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	w.Stop()

	if _, ok := <-w.Changes; ok {
		t.Error("Changes should be closed after Stop")
	}
}

func TestChangeKind_String(t *testing.T) {
	for kind, want := range map[ChangeKind]string{
		ChangeModified: "modified",
		ChangeRemoved:  "removed",
		ChangeAdded:    "added",
		ChangeKind(42): "unknown",
	} {
		if got := kind.String(); got != want {
			t.Errorf("%d.String() = %q, want %q", int(kind), got, want)
		}
	}
}
