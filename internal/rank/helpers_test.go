package rank

import (
	"fmt"
	"testing"

	"github.com/papapumpkin/linkrank/internal/graph"
)

const floatTol = 1e-9

// buildCycle creates A ↔ B.
func buildCycle(t *testing.T) *graph.Graph {
	t.Helper()
	return graph.Build(map[graph.Page][]string{
		"A": {"B"},
		"B": {"A"},
	})
}

// buildChain creates A → B → C with C dangling.
func buildChain(t *testing.T) *graph.Graph {
	t.Helper()
	return graph.Build(map[graph.Page][]string{
		"A": {"B"},
		"B": {"C"},
		"C": nil,
	})
}

// buildCorpus mirrors a small hand-written web corpus:
//
//	1 → 2, 2 → 1, 2 → 3, 3 → 2, 3 → 4, 4 → 2
func buildCorpus(t *testing.T) *graph.Graph {
	t.Helper()
	return graph.Build(map[graph.Page][]string{
		"1.html": {"2.html"},
		"2.html": {"1.html", "3.html"},
		"3.html": {"2.html", "4.html"},
		"4.html": {"2.html"},
	})
}

// buildRandom creates a graph of n pages where each ordered pair is linked
// with probability p. Roughly a fifth of the pages are forced dangling.
func buildRandom(t *testing.T, seed uint64, n int, p float64) *graph.Graph {
	t.Helper()
	src := NewSource(seed)
	raw := make(map[graph.Page][]string, n)
	for i := range n {
		name := graph.Page(fmt.Sprintf("p%03d", i))
		raw[name] = nil
		if src.Float64() < 0.2 {
			continue
		}
		for j := range n {
			if src.Float64() < p {
				raw[name] = append(raw[name], fmt.Sprintf("p%03d", j))
			}
		}
	}
	return graph.Build(raw)
}

// fixtures returns the shared graphs used by property-style tests.
func fixtures(t *testing.T) map[string]*graph.Graph {
	t.Helper()
	return map[string]*graph.Graph{
		"single":   graph.Build(map[graph.Page][]string{"only": nil}),
		"cycle":    buildCycle(t),
		"chain":    buildChain(t),
		"corpus":   buildCorpus(t),
		"all-dead": graph.Build(map[graph.Page][]string{"x": nil, "y": nil, "z": nil}),
		"random":   buildRandom(t, 7, 40, 0.1),
		"sparse":   buildRandom(t, 11, 25, 0.02),
	}
}
