// Package manifest loads bundle manifests: TOML files describing a set of
// single-file libraries, their region files on disk, and the composition
// options to apply.
//
// A minimal manifest:
//
//	root = "muGraphics"
//	output = "muGraphics.h"
//
//	[comment]
//	author = "someone"
//	description = "2D graphics in one file"
//
//	[[library]]
//	name = "muUtils"
//	version = "1.1.0"
//	header = "muUtils/header.h"
//	impl = "muUtils/impl.h"
//
//	[[library]]
//	name = "muGraphics"
//	version = "1.0.0"
//	header = "muGraphics/header.h"
//	impl = "muGraphics/impl.h"
//	depends = ["muUtils"]
//
// Dependency references may pin a version with "name@1.0.0"; a pin that
// disagrees with the entry's declared version is reported by reconciliation
// like any other version conflict.
package manifest
