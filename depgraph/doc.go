// Package depgraph builds and reconciles the dependency graph of a
// single-file library composition.
//
// Build performs a depth-first walk from a root descriptor, producing an
// acyclic graph keyed by library name. The first descriptor discovered for a
// name wins; later requests for the same name are recorded but not re-walked.
// Cycles are detected with an in-progress marker on the DFS stack and fail
// fast rather than recursing.
//
// Reconcile then checks that every request for a given name agrees on the
// version triple. Disagreements are surfaced as Conflict diagnostics; strict
// callers use ReconcileStrict to turn the first conflict into a hard error.
package depgraph
