package mubundle

import (
	"github.com/mutools/mubundle/depgraph"
	"github.com/mutools/mubundle/emit"
	"github.com/mutools/mubundle/library"
)

// Compose runs the full pipeline for a root descriptor: dependency graph
// construction, version reconciliation, and topological emission.
func Compose(root *library.Descriptor, opts emit.Options) (*emit.Output, error) {
	g, err := depgraph.Build(root)
	if err != nil {
		return nil, err
	}
	return emit.Compose(g, opts)
}
