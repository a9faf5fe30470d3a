// Package library defines the descriptor for a single-file ("mu-style")
// library: one file carrying both a declarations-only header region and a
// function-bodies implementation region, each independently includable via
// its own guard symbol.
//
// Descriptors are pure data. The bundler never interprets the region text;
// it treats both regions as opaque payloads and only generates the guard and
// version scaffolding around them.
//
// Version triples use github.com/coreos/go-semver; only the major.minor.patch
// fields participate in identity and conflict checks.
package library
