// Package rank estimates PageRank over a link graph. It provides the
// random-surfer transition model, a Monte-Carlo sampling estimator, a
// power-method iterative estimator, and a gonum-backed reference estimator.
//
// All estimators treat the graph as read-only and keep their working state
// local to the call, so a single graph may be ranked concurrently.
package rank

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidInput is returned when a precondition is violated: an empty
// graph, an unknown page, a damping factor outside [0, 1], a non-positive
// sample count or threshold, or a missing random source.
var ErrInvalidInput = errors.New("invalid input")

// ErrNotConverged is returned by Iterate when MaxIterations is set and the
// rank vector did not settle within that many iterations.
var ErrNotConverged = errors.New("not converged")

// DanglingPolicy selects how the iterative estimator treats rank held by
// pages without outbound links.
type DanglingPolicy int

const (
	// DanglingRedistribute spreads dangling rank uniformly over all pages,
	// matching the transition model used by the sampling estimator. Total
	// rank stays 1.
	DanglingRedistribute DanglingPolicy = iota
	// DanglingDrop lets dangling rank leak out of the system: dangling pages
	// contribute to no page's incoming sum. Total rank decays below 1 when
	// the graph has dangling pages.
	DanglingDrop
)

// String returns the configuration name of the policy.
func (p DanglingPolicy) String() string {
	switch p {
	case DanglingRedistribute:
		return "redistribute"
	case DanglingDrop:
		return "drop"
	default:
		return fmt.Sprintf("DanglingPolicy(%d)", int(p))
	}
}

// ParseDangling parses a policy name as written in configuration.
func ParseDangling(name string) (DanglingPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "redistribute":
		return DanglingRedistribute, nil
	case "drop":
		return DanglingDrop, nil
	default:
		return 0, fmt.Errorf("%w: unknown dangling policy %q", ErrInvalidInput, name)
	}
}

// Options configures the estimators.
type Options struct {
	Damping       float64        // probability of following a link; typically 0.85
	Samples       int            // random-walk length for Sample
	Threshold     float64        // max per-page change that counts as converged
	MaxIterations int            // 0 means iterate until converged
	Dangling      DanglingPolicy // iterative estimator only

	// Trace, when set, is called by Iterate after every iteration with the
	// 1-based iteration number and the max per-page change it produced.
	Trace func(iteration int, delta float64)
}

// DefaultOptions returns damping 0.85, 10000 samples, threshold 0.001,
// unbounded iterations and uniform redistribution of dangling rank.
func DefaultOptions() Options {
	return Options{
		Damping:   0.85,
		Samples:   10000,
		Threshold: 0.001,
		Dangling:  DanglingRedistribute,
	}
}

// Validate checks every field used by either estimator.
func (o Options) Validate() error {
	if err := o.validateSampling(); err != nil {
		return err
	}
	return o.validateIteration()
}

func (o Options) validateSampling() error {
	if err := validateDamping(o.Damping); err != nil {
		return err
	}
	if o.Samples <= 0 {
		return fmt.Errorf("%w: sample count must be positive, got %d", ErrInvalidInput, o.Samples)
	}
	return nil
}

func (o Options) validateIteration() error {
	if err := validateDamping(o.Damping); err != nil {
		return err
	}
	if !(o.Threshold > 0) {
		return fmt.Errorf("%w: threshold must be positive, got %g", ErrInvalidInput, o.Threshold)
	}
	if o.MaxIterations < 0 {
		return fmt.Errorf("%w: max iterations must not be negative, got %d", ErrInvalidInput, o.MaxIterations)
	}
	if o.Dangling != DanglingRedistribute && o.Dangling != DanglingDrop {
		return fmt.Errorf("%w: unknown dangling policy %d", ErrInvalidInput, int(o.Dangling))
	}
	return nil
}

func validateDamping(d float64) error {
	// NaN fails both comparisons, so test the accepted range directly.
	if !(d >= 0 && d <= 1) {
		return fmt.Errorf("%w: damping must be in [0, 1], got %g", ErrInvalidInput, d)
	}
	return nil
}
