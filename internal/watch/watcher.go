// Package watch reports debounced changes to the page files of a corpus
// directory so a ranking can be refreshed when the corpus is edited.
package watch

import (
	"errors"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// ChangeKind describes the type of file change detected.
type ChangeKind int

const (
	ChangeModified ChangeKind = iota // page file edited
	ChangeRemoved                    // page file deleted or renamed away
	ChangeAdded                      // new page file appeared
)

// String returns a lowercase name for the kind.
func (k ChangeKind) String() string {
	switch k {
	case ChangeModified:
		return "modified"
	case ChangeRemoved:
		return "removed"
	case ChangeAdded:
		return "added"
	default:
		return "unknown"
	}
}

// Change is a settled change to one file in the watched directory.
type Change struct {
	Kind ChangeKind
	File string // path as reported by fsnotify
}

// Debounce is how long a file must stay quiet before its change is emitted.
const Debounce = 100 * time.Millisecond

// Watcher monitors a directory for changes to files accepted by its match
// function. Bursts of events for the same file collapse into one Change.
type Watcher struct {
	Dir     string
	Changes <-chan Change // Read-only external channel

	changes chan Change // Internal write channel
	match   func(name string) bool
	done    chan struct{}
	watcher *fsnotify.Watcher
}

// pendingChange tracks a file whose change has not yet settled.
type pendingChange struct {
	last    time.Time
	created bool
}

// NewWatcher creates a watcher for dir. match receives a file's base name;
// a nil match accepts every file.
func NewWatcher(dir string, match func(name string) bool) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if match == nil {
		match = func(string) bool { return true }
	}

	ch := make(chan Change, 16)
	return &Watcher{
		Dir:     dir,
		Changes: ch,
		changes: ch,
		match:   match,
		done:    make(chan struct{}),
		watcher: fw,
	}, nil
}

// Start begins watching the directory for changes.
func (w *Watcher) Start() error {
	if err := w.watcher.Add(w.Dir); err != nil {
		return err
	}
	go w.loop()
	return nil
}

// Stop closes the watcher, waits for pending changes to flush, and closes
// Changes.
func (w *Watcher) Stop() {
	w.watcher.Close()
	<-w.done
	close(w.changes)
}

func (w *Watcher) loop() {
	defer close(w.done)

	pending := make(map[string]*pendingChange)
	ticker := time.NewTicker(Debounce)
	defer ticker.Stop()

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				for file, p := range pending {
					w.emit(file, p)
				}
				return
			}
			if !w.match(filepath.Base(event.Name)) {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
				!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
				continue
			}
			p, ok := pending[event.Name]
			if !ok {
				p = &pendingChange{}
				pending[event.Name] = p
			}
			p.last = time.Now()
			if event.Has(fsnotify.Create) {
				p.created = true
			}

		case <-ticker.C:
			now := time.Now()
			for file, p := range pending {
				if now.Sub(p.last) >= Debounce {
					w.emit(file, p)
					delete(pending, file)
				}
			}

		case _, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			// Watch errors are non-fatal; the next event still arrives.
		}
	}
}

// emit classifies a settled change by whether the file still exists. When
// the consumer is behind and the buffer is full the change is dropped: any
// queued change already tells the consumer to reload.
func (w *Watcher) emit(file string, p *pendingChange) {
	c := Change{Kind: ChangeModified, File: file}
	switch _, err := os.Stat(file); {
	case errors.Is(err, os.ErrNotExist):
		c.Kind = ChangeRemoved
	case p.created:
		c.Kind = ChangeAdded
	}

	select {
	case w.changes <- c:
	default:
	}
}
