package rank

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/papapumpkin/linkrank/internal/graph"
)

// Iterate computes PageRank with the power method. Every page starts at 1/N
// and is repeatedly updated to
//
//	PR(p) = (1-d)/N + d * Σ_{q→p} PR(q)/outDegree(q)
//
// plus the share of dangling rank dictated by opts.Dangling. Iteration stops
// once one update moves no page by opts.Threshold or more; the returned
// vector is the one that update was applied to, so applying Step to it again
// changes every entry by less than the threshold.
//
// Convergence is guaranteed for damping < 1. With damping = 1 the loop may
// not terminate unless opts.MaxIterations bounds it.
func Iterate(g *graph.Graph, opts Options) (Distribution, error) {
	if err := checkGraph(g); err != nil {
		return nil, err
	}
	if err := opts.validateIteration(); err != nil {
		return nil, err
	}

	n := g.Len()
	rank := make([]float64, n)
	for i := range rank {
		rank[i] = 1 / float64(n)
	}

	next := make([]float64, n)
	for iter := 1; ; iter++ {
		step(g, rank, opts.Damping, opts.Dangling, next)
		delta := floats.Distance(rank, next, math.Inf(1))
		if opts.Trace != nil {
			opts.Trace(iter, delta)
		}
		if delta < opts.Threshold {
			return fromVector(g, rank), nil
		}
		if opts.MaxIterations > 0 && iter >= opts.MaxIterations {
			return nil, fmt.Errorf("%w after %d iterations (delta %g, threshold %g)",
				ErrNotConverged, iter, delta, opts.Threshold)
		}
		rank, next = next, rank
	}
}

// Step applies a single power-method update to ranks and returns the result.
// ranks must assign a value to every page of g; missing pages count as 0.
func Step(g *graph.Graph, ranks Distribution, damping float64, policy DanglingPolicy) (Distribution, error) {
	if err := checkGraph(g); err != nil {
		return nil, err
	}
	if err := validateDamping(damping); err != nil {
		return nil, err
	}
	current := make([]float64, g.Len())
	for i := range current {
		current[i] = ranks[g.PageAt(i)]
	}
	next := make([]float64, g.Len())
	step(g, current, damping, policy, next)
	return fromVector(g, next), nil
}

// step writes the update of rank into next. It reads only its arguments.
func step(g *graph.Graph, rank []float64, damping float64, policy DanglingPolicy, next []float64) {
	n := float64(len(rank))
	base := (1 - damping) / n
	if policy == DanglingRedistribute {
		base += damping * danglingMass(g, rank) / n
	}
	for p := range next {
		next[p] = base + damping*incoming(g, rank, p)
	}
}

// incoming sums rank[q]/outDegree(q) over every page q linking to p.
func incoming(g *graph.Graph, rank []float64, p int) float64 {
	var sum float64
	for _, q := range g.InIndices(p) {
		sum += rank[q] / float64(len(g.OutIndices(q)))
	}
	return sum
}

// danglingMass is the total rank held by pages without outbound links.
func danglingMass(g *graph.Graph, rank []float64) float64 {
	var mass float64
	for q, r := range rank {
		if len(g.OutIndices(q)) == 0 {
			mass += r
		}
	}
	return mass
}
