package depgraph

import (
	"github.com/coreos/go-semver/semver"

	"github.com/mutools/mubundle/library"
)

// Edge records one dependent -> dependency relation, in first-discovery order.
type Edge struct {
	Dependent  string
	Dependency string
}

// Request records one occurrence of a library being requested at a version,
// and by whom. The first request for a name selects the canonical descriptor.
type Request struct {
	Version     semver.Version
	RequestedBy string
}

// Graph is the resolved dependency graph of a composition: one canonical
// descriptor per library name, the order names were first discovered in, and
// every version request seen for each name (the reconciler's input).
//
// A Graph is immutable after Build and safe for concurrent reads.
type Graph struct {
	root      *library.Descriptor
	libraries map[string]*library.Descriptor
	order     []string
	edges     []Edge
	requests  map[string][]Request
}

// Root returns the descriptor the graph was built from.
func (g *Graph) Root() *library.Descriptor {
	return g.root
}

// Lookup returns the canonical descriptor for a name.
func (g *Graph) Lookup(name string) (*library.Descriptor, bool) {
	d, ok := g.libraries[name]
	return d, ok
}

// Order returns library names in first-discovery order, root first.
func (g *Graph) Order() []string {
	out := make([]string, len(g.order))
	copy(out, g.order)
	return out
}

// Edges returns the dependent -> dependency edge list in discovery order.
func (g *Graph) Edges() []Edge {
	out := make([]Edge, len(g.edges))
	copy(out, g.edges)
	return out
}

// Requests returns every version request recorded for a name, in discovery
// order. The first entry is the one the composition uses.
func (g *Graph) Requests(name string) []Request {
	reqs := g.requests[name]
	out := make([]Request, len(reqs))
	copy(out, reqs)
	return out
}

// Len returns the number of distinct libraries in the graph, root included.
func (g *Graph) Len() int {
	return len(g.libraries)
}
