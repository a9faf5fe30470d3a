// Package mubundle composes single-file C libraries ("mu-style" libraries)
// into one coherent output file, and provides the handle-based object
// lifecycle runtime those libraries share.
//
// # Architecture Overview
//
// The module is organized into several packages with distinct responsibilities:
//
//	mubundle/        Root package with the one-call Compose pipeline
//	├── library/     Library descriptors: name, version triple, regions, guards
//	├── depgraph/    Dependency graph construction and version reconciliation
//	├── emit/        Topological emission of the composed output file
//	├── manifest/    TOML bundle manifests mapping libraries to files on disk
//	├── handle/      Handle runtime: context, object table, lifecycle contract
//	├── errors/      Structured error types shared by all phases
//	└── cmd/mubundle CLI bundler with an interactive graph inspector
//
// # Quick Start
//
// Compose a library with its dependencies:
//
//	util := library.MustNew("muUtils", "1.1.0")
//	util.Header = utilDecls
//	util.Impl = utilBodies
//
//	gfx := library.MustNew("muGraphics", "1.0.0").Depends(util)
//	gfx.Header = gfxDecls
//	gfx.Impl = gfxBodies
//
//	out, err := mubundle.Compose(gfx, emit.Options{
//	    Comment: emit.FileComment{Filename: "muGraphics.h", Author: "me"},
//	})
//	os.WriteFile("muGraphics.h", []byte(out.Text), 0o644)
//
// Each library's header region is emitted once, dependencies first, under
// its own include guard; implementation regions follow under the root's
// trigger macro. Version conflicts between transitively included libraries
// become diagnostic comments, or hard errors in strict mode.
//
// # Handle Runtime
//
// Composed libraries share a handle-based object lifecycle: a context owns a
// growable object table, handles are slot indices, destroyed slots recycle
// through a free list. See the handle package.
//
// # Determinism
//
// Composition is a single-threaded batch computation over immutable
// descriptors. Identical input always yields byte-identical output; ties
// among independent libraries break by first-discovery order.
package mubundle
