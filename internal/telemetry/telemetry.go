// Package telemetry provides a JSONL event stream for recording what a
// ranking run did: when it started, how each estimator converged, where its
// results were stored, and which corpus changes triggered a re-run. Each run
// writes its own file named after the run ID.
package telemetry

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Event kinds identify the type of telemetry event.
const (
	KindRunStart      = "run_start"
	KindEstimateDone  = "estimate_done"
	KindIteration     = "iteration"
	KindRunSaved      = "run_saved"
	KindRunDone       = "run_done"
	KindCorpusChanged = "corpus_changed"
)

// FileExt is the extension of telemetry files.
const FileExt = ".jsonl"

// Event represents a single telemetry record. Each event carries a timestamp,
// a kind tag, and optional context identifiers (run, estimation method)
// along with arbitrary structured data.
type Event struct {
	Timestamp time.Time `json:"ts"`
	Kind      string    `json:"kind"`
	RunID     string    `json:"run,omitempty"`
	Method    string    `json:"method,omitempty"`
	Data      any       `json:"data,omitempty"`
}

// Emitter writes telemetry events to a JSONL file. It is safe for concurrent
// use by multiple goroutines. A nil *Emitter is a valid no-op emitter.
type Emitter struct {
	file  *os.File
	enc   *json.Encoder
	runID string
	now   func() time.Time
	mu    sync.Mutex
}

// NewEmitter creates a new Emitter that writes JSONL events to the file at
// path. The file is created if it does not exist, or appended to if it does.
func NewEmitter(path string) (*Emitter, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("telemetry: open %s: %w", path, err)
	}
	return &Emitter{
		file: f,
		enc:  json.NewEncoder(f),
		now:  time.Now,
	}, nil
}

// Open creates dir if needed and returns an Emitter writing to the run's
// file inside it. Events recorded through Record carry runID.
func Open(dir, runID string) (*Emitter, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("telemetry: create %s: %w", dir, err)
	}
	em, err := NewEmitter(Path(dir, runID))
	if err != nil {
		return nil, err
	}
	em.runID = runID
	return em, nil
}

// Path returns the telemetry file for runID inside dir.
func Path(dir, runID string) string {
	return filepath.Join(dir, runID+FileExt)
}

// Emit writes a single event to the JSONL file. It is safe for concurrent use.
// Calling Emit on a nil Emitter is a no-op.
func (e *Emitter) Emit(evt Event) error {
	if e == nil {
		return nil
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.enc.Encode(evt); err != nil {
		return fmt.Errorf("telemetry: encode event: %w", err)
	}
	return nil
}

// Record stamps an event with the current time and the emitter's run ID and
// writes it. Calling Record on a nil Emitter is a no-op.
func (e *Emitter) Record(kind, method string, data any) error {
	if e == nil {
		return nil
	}
	return e.Emit(Event{
		Timestamp: e.now().UTC(),
		Kind:      kind,
		RunID:     e.runID,
		Method:    method,
		Data:      data,
	})
}

// Close flushes and closes the underlying file. Calling Close on a nil
// Emitter is a no-op.
func (e *Emitter) Close() error {
	if e == nil {
		return nil
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.file.Close(); err != nil {
		return fmt.Errorf("telemetry: close: %w", err)
	}
	return nil
}
