package depgraph

import (
	"github.com/coreos/go-semver/semver"

	muerrors "github.com/mutools/mubundle/errors"
)

// Conflict records a library requested at more than one version within a
// single composition. It is a diagnostic, not an error: non-strict emission
// proceeds with the first-discovered version.
type Conflict struct {
	// Name is the conflicted library.
	Name string

	// Versions lists the distinct requested triples in discovery order.
	Versions []semver.Version

	// Selected is the version the composition uses (first discovered).
	Selected semver.Version

	// RequestedBy maps each distinct version string to the dependents that
	// asked for it.
	RequestedBy map[string][]string
}

// VersionStrings returns the distinct versions as strings, discovery order.
func (c Conflict) VersionStrings() []string {
	out := make([]string, len(c.Versions))
	for i, v := range c.Versions {
		out[i] = v.String()
	}
	return out
}

// Reconcile compares every version request per library name and returns one
// Conflict for each name requested at more than one distinct triple.
// Conflicts are returned in the graph's first-discovery order.
func Reconcile(g *Graph) []Conflict {
	var conflicts []Conflict
	for _, name := range g.order {
		reqs := g.requests[name]
		if len(reqs) < 2 {
			continue
		}

		var distinct []semver.Version
		requestedBy := make(map[string][]string)
		for _, req := range reqs {
			vs := req.Version.String()
			if _, seen := requestedBy[vs]; !seen {
				distinct = append(distinct, req.Version)
			}
			by := req.RequestedBy
			if by == "" {
				by = "(root)"
			}
			requestedBy[vs] = append(requestedBy[vs], by)
		}
		if len(distinct) < 2 {
			continue
		}

		conflicts = append(conflicts, Conflict{
			Name:        name,
			Versions:    distinct,
			Selected:    distinct[0],
			RequestedBy: requestedBy,
		})
	}
	return conflicts
}

// ReconcileStrict returns a version_mismatch error for the first conflict in
// the graph, or nil if every request agrees.
func ReconcileStrict(g *Graph) error {
	conflicts := Reconcile(g)
	if len(conflicts) == 0 {
		return nil
	}
	c := conflicts[0]
	return muerrors.VersionMismatch(c.Name, c.VersionStrings())
}

// ConflictFor returns the conflict for a given name, if any.
func ConflictFor(conflicts []Conflict, name string) (Conflict, bool) {
	for _, c := range conflicts {
		if c.Name == name {
			return c, true
		}
	}
	return Conflict{}, false
}
