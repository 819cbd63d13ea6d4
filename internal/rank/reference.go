package rank

import (
	"fmt"

	"gonum.org/v1/gonum/graph/network"
	"gonum.org/v1/gonum/graph/simple"

	"github.com/papapumpkin/linkrank/internal/graph"
)

// MaxReferencePages bounds the graphs Reference accepts. gonum builds a dense
// N×N transition matrix, so memory grows with the square of the page count.
const MaxReferencePages = 5000

// Reference computes PageRank with gonum's dense power iteration. gonum
// treats dangling nodes as linking to every node, so the result agrees with
// Iterate under DanglingRedistribute and with the limit of Sample. It exists
// as an independent cross-check of both estimators.
//
// damping must be below 1: gonum starts from a random vector and never
// settles on a periodic graph without the random jump. Graphs larger than
// MaxReferencePages are rejected.
func Reference(g *graph.Graph, damping, tol float64) (Distribution, error) {
	if err := checkGraph(g); err != nil {
		return nil, err
	}
	if err := validateDamping(damping); err != nil {
		return nil, err
	}
	if damping >= 1 {
		return nil, fmt.Errorf("%w: reference estimator needs damping below 1, got %g", ErrInvalidInput, damping)
	}
	if !(tol > 0) {
		return nil, fmt.Errorf("%w: tolerance must be positive, got %g", ErrInvalidInput, tol)
	}
	if n := g.Len(); n > MaxReferencePages {
		return nil, fmt.Errorf("%w: reference estimator supports at most %d pages, got %d", ErrInvalidInput, MaxReferencePages, n)
	}

	dg := simple.NewDirectedGraph()
	for i := range g.Len() {
		dg.AddNode(simple.Node(int64(i)))
	}
	for i := range g.Len() {
		for _, j := range g.OutIndices(i) {
			dg.SetEdge(simple.Edge{F: simple.Node(int64(i)), T: simple.Node(int64(j))})
		}
	}

	scores := network.PageRank(dg, damping, tol)
	ranks := make([]float64, g.Len())
	for id, r := range scores {
		ranks[id] = r
	}
	return fromVector(g, ranks), nil
}
