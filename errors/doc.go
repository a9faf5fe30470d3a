// Package errors provides structured error types for the bundler and the
// handle runtime.
//
// Every error carries a Phase (where in processing it occurred) and a Kind
// (what went wrong), plus the implicated library names where that makes
// sense. This keeps diagnostics greppable and lets callers match on
// category with errors.Is:
//
//	_, err := emit.Compose(graph, opts)
//	if errors.Is(err, &muerrors.Error{Phase: muerrors.PhaseEmit, Kind: muerrors.KindGuardCollision}) {
//	    // two libraries declared the same guard symbol
//	}
//
// Composition-time errors (cyclic_dependency, version_mismatch,
// missing_region, guard_collision) are fatal to a composition run. Runtime
// errors (already_initialized, objects_still_live, out_of_memory,
// invalid_handle) are advisory: the handle runtime always returns a safe
// sentinel alongside them and never panics.
package errors
