package rank

import (
	"fmt"
	"math/rand/v2"

	"github.com/papapumpkin/linkrank/internal/graph"
)

// Source is the randomness consumed by Sample. *rand.Rand from math/rand/v2
// satisfies it.
type Source interface {
	Float64() float64 // uniform in [0, 1)
	IntN(n int) int   // uniform in [0, n)
}

// NewSource returns a deterministic PCG-backed Source. Two sources built
// from the same seed produce the same sequence.
func NewSource(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// Sample estimates PageRank by simulating a random surfer for opts.Samples
// steps. The walk starts on a uniformly chosen page; each step records the
// current page and moves according to its Transition distribution. The
// estimate for a page is the fraction of steps spent on it.
func Sample(g *graph.Graph, opts Options, src Source) (Distribution, error) {
	if err := checkGraph(g); err != nil {
		return nil, err
	}
	if err := opts.validateSampling(); err != nil {
		return nil, err
	}
	if src == nil {
		return nil, fmt.Errorf("%w: random source is nil", ErrInvalidInput)
	}

	counts := sampleCounts(g, opts.Damping, opts.Samples, src)
	ranks := make([]float64, len(counts))
	for i, c := range counts {
		ranks[i] = float64(c) / float64(opts.Samples)
	}
	return fromVector(g, ranks), nil
}

// sampleCounts runs the walk and returns visit counts in graph index order.
// The counts always total samples.
func sampleCounts(g *graph.Graph, damping float64, samples int, src Source) []int {
	n := g.Len()
	counts := make([]int, n)
	weights := make([]float64, n)

	current := src.IntN(n)
	for range samples {
		counts[current]++
		transitionWeights(g, current, damping, weights)
		current = draw(weights, src.Float64())
	}
	return counts
}

// draw picks an index by inverse CDF: the first index whose cumulative
// weight exceeds u. Rounding can leave the total a hair under 1, in which
// case the last index with positive weight is chosen.
func draw(weights []float64, u float64) int {
	var cumulative float64
	last := len(weights) - 1
	for j, w := range weights {
		if w <= 0 {
			continue
		}
		cumulative += w
		last = j
		if u < cumulative {
			return j
		}
	}
	return last
}
