package graph

// The estimators in internal/rank work on dense vectors, so the graph exposes
// its index space directly. Indices are positions in Pages().

// IndexOf returns the index of p and whether p is in the graph.
func (g *Graph) IndexOf(p Page) (int, bool) {
	i, ok := g.index[p]
	return i, ok
}

// PageAt returns the page at index i.
func (g *Graph) PageAt(i int) Page {
	return g.pages[i]
}

// OutIndices returns the sorted outbound indices of page i. The returned
// slice is shared with the graph and must not be modified.
func (g *Graph) OutIndices(i int) []int {
	return g.out[i]
}

// InIndices returns the sorted inbound indices of page i. The returned slice
// is shared with the graph and must not be modified.
func (g *Graph) InIndices(i int) []int {
	return g.in[i]
}
