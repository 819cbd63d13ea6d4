// Package graph models a corpus of hyperlinked pages as an immutable directed
// graph. Pages are indexed in sorted order so that every consumer walks the
// graph deterministically.
package graph

import "sort"

// Page identifies a document in the corpus.
type Page string

// Graph maps every page to the set of corpus pages it links to. A Graph is
// read-only once built and may be shared between goroutines.
type Graph struct {
	pages []Page       // sorted
	index map[Page]int // page → position in pages
	// out holds, per page index, the sorted indices of linked pages.
	out [][]int
	// in holds, per page index, the sorted indices of pages linking to it.
	in [][]int
}

// Build constructs a Graph from raw extracted links. Only links that name a
// key of raw are kept; self-links and duplicates are dropped. Pages whose
// remaining set is empty are dangling and stay in the graph.
func Build(raw map[Page][]string) *Graph {
	g := &Graph{
		pages: make([]Page, 0, len(raw)),
		index: make(map[Page]int, len(raw)),
	}
	for p := range raw {
		g.pages = append(g.pages, p)
	}
	sort.Slice(g.pages, func(i, j int) bool { return g.pages[i] < g.pages[j] })
	for i, p := range g.pages {
		g.index[p] = i
	}

	g.out = make([][]int, len(g.pages))
	g.in = make([][]int, len(g.pages))
	for i, p := range g.pages {
		seen := make(map[int]bool, len(raw[p]))
		for _, link := range raw[p] {
			j, ok := g.index[Page(link)]
			if !ok || j == i || seen[j] {
				continue
			}
			seen[j] = true
			g.out[i] = append(g.out[i], j)
		}
		sort.Ints(g.out[i])
	}
	// Pages are visited in index order, so every inbound list ends up sorted.
	for i, targets := range g.out {
		for _, j := range targets {
			g.in[j] = append(g.in[j], i)
		}
	}
	return g
}

// Len returns the number of pages.
func (g *Graph) Len() int {
	return len(g.pages)
}

// Pages returns all pages sorted by name.
func (g *Graph) Pages() []Page {
	pages := make([]Page, len(g.pages))
	copy(pages, g.pages)
	return pages
}

// Has reports whether p is a page of the graph.
func (g *Graph) Has(p Page) bool {
	_, ok := g.index[p]
	return ok
}

// Links returns the pages p links to, sorted. Returns nil for unknown or
// dangling pages.
func (g *Graph) Links(p Page) []Page {
	i, ok := g.index[p]
	if !ok {
		return nil
	}
	return g.namesOf(g.out[i])
}

// Inbound returns the pages linking to p, sorted.
func (g *Graph) Inbound(p Page) []Page {
	i, ok := g.index[p]
	if !ok {
		return nil
	}
	return g.namesOf(g.in[i])
}

// OutDegree returns the number of pages p links to.
func (g *Graph) OutDegree(p Page) int {
	i, ok := g.index[p]
	if !ok {
		return 0
	}
	return len(g.out[i])
}

// Dangling returns the pages without outbound links, sorted.
func (g *Graph) Dangling() []Page {
	var pages []Page
	for i, targets := range g.out {
		if len(targets) == 0 {
			pages = append(pages, g.pages[i])
		}
	}
	return pages
}

// Raw returns a copy of the adjacency as a plain map.
func (g *Graph) Raw() map[Page][]Page {
	raw := make(map[Page][]Page, len(g.pages))
	for i, p := range g.pages {
		raw[p] = g.namesOf(g.out[i])
	}
	return raw
}

// Equal reports whether both graphs have the same pages and links.
func (g *Graph) Equal(other *Graph) bool {
	if g == nil || other == nil {
		return g == other
	}
	if len(g.pages) != len(other.pages) {
		return false
	}
	for i, p := range g.pages {
		if other.pages[i] != p || len(g.out[i]) != len(other.out[i]) {
			return false
		}
		for k, j := range g.out[i] {
			if other.out[i][k] != j {
				return false
			}
		}
	}
	return true
}

func (g *Graph) namesOf(indices []int) []Page {
	if len(indices) == 0 {
		return nil
	}
	names := make([]Page, len(indices))
	for k, j := range indices {
		names[k] = g.pages[j]
	}
	return names
}
