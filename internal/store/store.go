// Package store persists ranking runs so results can be listed and compared
// later. The store uses SQLite in WAL mode; a run and all of its per-page
// values are written in one transaction.
package store

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/papapumpkin/linkrank/internal/rank"
)

// ErrRunNotFound is returned when a run ID has no stored run.
var ErrRunNotFound = errors.New("run not found")

// Estimation methods recorded with each result.
const (
	MethodSample    = "sample"
	MethodIterate   = "iterate"
	MethodReference = "reference"
)

// Run is one ranking invocation over a corpus together with the parameters
// it used and the estimate produced by each method.
type Run struct {
	ID        string                       `json:"id"`
	Corpus    string                       `json:"corpus"`
	Pages     int                          `json:"pages"`
	Damping   float64                      `json:"damping"`
	Samples   int                          `json:"samples"`
	Threshold float64                      `json:"threshold"`
	Dangling  string                       `json:"dangling"`
	Seed      uint64                       `json:"seed"`
	CreatedAt time.Time                    `json:"created_at"`
	Results   map[string]rank.Distribution `json:"results,omitempty"`
}

// Methods returns the methods with stored results in display order: sample,
// iterate, reference, then any others by name.
func (r Run) Methods() []string {
	methods := make([]string, 0, len(r.Results))
	for m := range r.Results {
		methods = append(methods, m)
	}
	sort.Slice(methods, func(i, j int) bool {
		oi, oj := methodOrder(methods[i]), methodOrder(methods[j])
		if oi != oj {
			return oi < oj
		}
		return methods[i] < methods[j]
	})
	return methods
}

func methodOrder(m string) int {
	switch m {
	case MethodSample:
		return 0
	case MethodIterate:
		return 1
	case MethodReference:
		return 2
	default:
		return 3
	}
}

// Store records ranking runs.
type Store interface {
	// SaveRun writes the run and all of its results atomically.
	SaveRun(ctx context.Context, run Run) error
	// Runs lists the most recent runs first, without results. A limit of 0
	// or less returns every run.
	Runs(ctx context.Context, limit int) ([]Run, error)
	// Run loads a single run with its results, or ErrRunNotFound.
	Run(ctx context.Context, id string) (Run, error)
	Close() error
}
