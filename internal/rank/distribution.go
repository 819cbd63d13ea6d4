package rank

import (
	"math"
	"sort"

	"github.com/papapumpkin/linkrank/internal/graph"
)

// Distribution maps every page of a graph to a probability. Both transition
// distributions and rank estimates use it; values sum to 1 within floating
// point tolerance.
type Distribution map[graph.Page]float64

// Entry is a single page/value pair of a Distribution.
type Entry struct {
	Page  graph.Page
	Value float64
}

// Sum returns the total probability mass.
func (d Distribution) Sum() float64 {
	// Sum in page order so the result does not depend on map iteration.
	var total float64
	for _, e := range d.ByPage() {
		total += e.Value
	}
	return total
}

// Sorted returns entries by value descending, ties broken by page name.
func (d Distribution) Sorted() []Entry {
	entries := d.ByPage()
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Value > entries[j].Value
	})
	return entries
}

// ByPage returns entries sorted by page name.
func (d Distribution) ByPage() []Entry {
	entries := make([]Entry, 0, len(d))
	for p, v := range d {
		entries = append(entries, Entry{Page: p, Value: v})
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Page < entries[j].Page
	})
	return entries
}

// MaxDiff returns the largest absolute per-page difference between d and
// other. Pages missing from one side count as 0 there.
func (d Distribution) MaxDiff(other Distribution) float64 {
	var maxDelta float64
	for p, v := range d {
		maxDelta = math.Max(maxDelta, math.Abs(v-other[p]))
	}
	for p, v := range other {
		if _, ok := d[p]; !ok {
			maxDelta = math.Max(maxDelta, math.Abs(v))
		}
	}
	return maxDelta
}

// fromVector maps a dense vector in graph index order back to pages.
func fromVector(g *graph.Graph, v []float64) Distribution {
	d := make(Distribution, len(v))
	for i, x := range v {
		d[g.PageAt(i)] = x
	}
	return d
}
