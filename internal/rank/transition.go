package rank

import (
	"fmt"

	"github.com/papapumpkin/linkrank/internal/graph"
)

// Transition returns the distribution of the page a random surfer visits
// next when standing on page. Every page receives (1-damping)/N; every page
// linked from page additionally receives damping/|links|. A dangling page is
// treated as linking to every page, so its distribution is uniform.
func Transition(g *graph.Graph, page graph.Page, damping float64) (Distribution, error) {
	if err := checkGraph(g); err != nil {
		return nil, err
	}
	if err := validateDamping(damping); err != nil {
		return nil, err
	}
	i, ok := g.IndexOf(page)
	if !ok {
		return nil, fmt.Errorf("%w: page %q is not in the graph", ErrInvalidInput, page)
	}
	weights := make([]float64, g.Len())
	transitionWeights(g, i, damping, weights)
	return fromVector(g, weights), nil
}

// transitionWeights fills weights (len N) with the transition distribution
// of page i in graph index order.
func transitionWeights(g *graph.Graph, i int, damping float64, weights []float64) {
	n := len(weights)
	base := (1 - damping) / float64(n)
	for j := range weights {
		weights[j] = base
	}

	links := g.OutIndices(i)
	if len(links) == 0 {
		share := damping / float64(n)
		for j := range weights {
			weights[j] += share
		}
		return
	}
	share := damping / float64(len(links))
	for _, j := range links {
		weights[j] += share
	}
}

func checkGraph(g *graph.Graph) error {
	if g == nil || g.Len() == 0 {
		return fmt.Errorf("%w: graph has no pages", ErrInvalidInput)
	}
	return nil
}
