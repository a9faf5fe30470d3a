// Package emit linearizes a dependency graph and produces the composed
// single-file output.
//
// Emission runs two passes mirroring the two-region structure of mu-style
// libraries: a header pass and an implementation pass. Within each pass a
// library's text always follows the text of everything it depends on, and an
// explicit emission record guarantees each region appears exactly once no
// matter how many dependents reach it.
//
// The output layout is a byte-for-byte contract: leading doc comment, header
// section under the root's include guard, implementation section under the
// root's trigger macro, trailing license block, two blank lines of padding.
package emit
