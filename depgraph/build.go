package depgraph

import (
	muerrors "github.com/mutools/mubundle/errors"
	"github.com/mutools/mubundle/library"
)

// Build walks root's dependencies depth-first and returns the resolved graph.
//
// The first descriptor discovered for a name becomes canonical; later
// occurrences of the same name are recorded as version requests but their
// subtrees are not re-walked. That shortcut is sound only when the versions
// agree, which Reconcile verifies afterwards.
//
// A library transitively depending on itself fails fast with a
// cyclic_dependency error naming the cycle.
func Build(root *library.Descriptor) (*Graph, error) {
	if root == nil {
		return nil, muerrors.InvalidInput(muerrors.PhaseBuild, "nil root descriptor")
	}
	if root.Name == "" {
		return nil, muerrors.InvalidInput(muerrors.PhaseBuild, "root descriptor has no name")
	}

	b := &builder{
		graph: &Graph{
			root:      root,
			libraries: make(map[string]*library.Descriptor),
			requests:  make(map[string][]Request),
		},
		inProgress: make(map[string]bool),
	}

	if err := b.walk(root, ""); err != nil {
		return nil, err
	}
	return b.graph, nil
}

type builder struct {
	graph      *Graph
	inProgress map[string]bool
	stack      []string
}

func (b *builder) walk(d *library.Descriptor, requestedBy string) error {
	name := d.Name
	if name == "" {
		return muerrors.New(muerrors.PhaseBuild, muerrors.KindInvalidInput).
			Libraries(requestedBy).
			Detail("dependency of %q has no name", requestedBy).
			Build()
	}

	if b.inProgress[name] {
		return muerrors.CyclicDependency(append(b.cycleFrom(name), name))
	}

	b.graph.requests[name] = append(b.graph.requests[name], Request{
		Version:     d.Version,
		RequestedBy: requestedBy,
	})

	if _, seen := b.graph.libraries[name]; seen {
		// Already walked under the first-discovered descriptor. The skipped
		// subtree is only safe to ignore if reconciliation finds the
		// versions compatible.
		return nil
	}

	b.graph.libraries[name] = d
	b.graph.order = append(b.graph.order, name)

	b.inProgress[name] = true
	b.stack = append(b.stack, name)

	for _, dep := range d.Dependencies {
		if dep == nil {
			return muerrors.New(muerrors.PhaseBuild, muerrors.KindInvalidInput).
				Libraries(name).
				Detail("nil dependency declared by %q", name).
				Build()
		}
		b.graph.edges = append(b.graph.edges, Edge{Dependent: name, Dependency: dep.Name})
		if err := b.walk(dep, name); err != nil {
			return err
		}
	}

	b.stack = b.stack[:len(b.stack)-1]
	delete(b.inProgress, name)
	return nil
}

// cycleFrom returns the portion of the DFS stack starting at the first
// occurrence of name, i.e. the libraries actually on the cycle.
func (b *builder) cycleFrom(name string) []string {
	for i, n := range b.stack {
		if n == name {
			out := make([]string, len(b.stack)-i)
			copy(out, b.stack[i:])
			return out
		}
	}
	return append([]string(nil), b.stack...)
}
