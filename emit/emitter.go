package emit

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/mutools/mubundle/depgraph"
	muerrors "github.com/mutools/mubundle/errors"
	"github.com/mutools/mubundle/library"
)

// Output is the result of a successful composition: the final file text,
// the emission order used, and any version conflicts found along the way.
type Output struct {
	// Text is the complete composed file.
	Text string

	// Order is the emission order, dependencies first, root last.
	Order []string

	// Conflicts holds the non-fatal version conflicts detected during
	// reconciliation. Empty in strict mode (strict conflicts abort).
	Conflicts []depgraph.Conflict
}

// Compose linearizes the graph and emits the composed single-file output.
//
// The header pass emits every library's header region once, dependencies
// before dependents, each wrapped in its include guard. The implementation
// pass does the same under the root's implementation trigger, with a
// define-once guard per library. Ties among independent libraries break by
// first-discovery order, so output is reproducible byte for byte.
//
// Fatal failures (version_mismatch in strict mode, guard_collision,
// missing_region) produce no partial output.
func Compose(g *depgraph.Graph, opts Options) (*Output, error) {
	if g == nil || g.Root() == nil {
		return nil, muerrors.InvalidInput(muerrors.PhaseEmit, "nil graph")
	}

	conflicts := depgraph.Reconcile(g)
	if opts.Strict && len(conflicts) > 0 {
		c := conflicts[0]
		return nil, muerrors.VersionMismatch(c.Name, c.VersionStrings())
	}

	if err := checkGuards(g); err != nil {
		return nil, err
	}
	if err := checkRegions(g); err != nil {
		return nil, err
	}

	order := topoOrder(g)
	root := g.Root()
	record := NewRecord()

	var b strings.Builder
	writeFileComment(&b, root, opts)

	// Header pass.
	b.WriteString("\n#ifndef " + root.HeaderGuard() + "\n")
	b.WriteString("#define " + root.HeaderGuard() + "\n")
	for _, name := range order {
		if name == root.Name {
			continue
		}
		d, _ := g.Lookup(name)
		if record.HeaderEmitted(name) {
			continue
		}
		if !opts.SuppressVersionDiagnostics {
			if c, ok := depgraph.ConflictFor(conflicts, name); ok {
				b.WriteString("\n" + mismatchDiagnostic(c) + "\n")
				Logger().Warn("version conflict",
					zap.String("library", c.Name),
					zap.Strings("versions", c.VersionStrings()),
					zap.String("selected", c.Selected.String()))
			}
		}
		writeHeaderRegion(&b, d)
		record.MarkHeader(name)
		Logger().Debug("emitted header region", zap.String("library", name))
	}
	b.WriteString("\n")
	writeVersionDefines(&b, root)
	b.WriteString("\n" + ensureNewline(root.Header))
	record.MarkHeader(root.Name)
	b.WriteString("#endif /* " + root.HeaderGuard() + " */\n")

	// Implementation pass, elided entirely by consumers that never define
	// the trigger macro.
	b.WriteString("\n#ifdef " + root.ImplGuard() + "\n")
	for _, name := range order {
		if name == root.Name {
			continue
		}
		d, _ := g.Lookup(name)
		if record.ImplEmitted(name) || d.Impl == "" {
			continue
		}
		writeImplRegion(&b, d)
		record.MarkImpl(name)
		Logger().Debug("emitted implementation region", zap.String("library", name))
	}
	if root.Impl != "" {
		b.WriteString("\n" + ensureNewline(root.Impl))
	}
	record.MarkImpl(root.Name)
	b.WriteString("\n#endif /* " + root.ImplGuard() + " */\n")

	// Trailing license block, padded with two blank lines so tooling that
	// strips a final newline cannot eat into the comment.
	b.WriteString("\n/*\n" + ensureNewline(licenseText(opts)) + "*/\n\n\n")

	Logger().Info("composition complete",
		zap.String("root", root.Name),
		zap.Int("libraries", g.Len()),
		zap.Int("conflicts", len(conflicts)))

	return &Output{
		Text:      b.String(),
		Order:     order,
		Conflicts: conflicts,
	}, nil
}

func writeHeaderRegion(b *strings.Builder, d *library.Descriptor) {
	b.WriteString("\n#ifndef " + d.HeaderGuard() + "\n")
	b.WriteString("#define " + d.HeaderGuard() + "\n\n")
	writeVersionDefines(b, d)
	b.WriteString("\n" + ensureNewline(d.Header))
	b.WriteString("#endif /* " + d.HeaderGuard() + " */\n")
}

func writeImplRegion(b *strings.Builder, d *library.Descriptor) {
	b.WriteString("\n#ifndef " + d.ImplGuard() + "\n")
	b.WriteString("#define " + d.ImplGuard() + "\n\n")
	b.WriteString(ensureNewline(d.Impl))
	b.WriteString("#endif /* " + d.ImplGuard() + " */\n")
}

func writeVersionDefines(b *strings.Builder, d *library.Descriptor) {
	prefix := d.GuardPrefix()
	fmt.Fprintf(b, "#define %s_VERSION_MAJOR %d\n", prefix, d.Version.Major)
	fmt.Fprintf(b, "#define %s_VERSION_MINOR %d\n", prefix, d.Version.Minor)
	fmt.Fprintf(b, "#define %s_VERSION_PATCH %d\n", prefix, d.Version.Patch)
}

func writeFileComment(b *strings.Builder, root *library.Descriptor, opts Options) {
	c := opts.Comment
	filename := c.Filename
	if filename == "" {
		filename = root.Name + ".h"
	}
	author := c.Author
	if author == "" {
		author = "unknown"
	}
	pointer := c.LicensePointer
	if pointer == "" {
		pointer = "MIT License or public domain, whichever you prefer"
	}

	b.WriteString("/*\n")
	b.WriteString(filename + " - " + author + "\n")
	if c.Description != "" {
		b.WriteString(c.Description + "\n")
	}
	b.WriteString("\nThis software is provided 'as-is', without any express or implied warranty.\n")
	b.WriteString("In no event will the authors be held liable for any damages arising from\n")
	b.WriteString("the use of this software.\n")
	b.WriteString("\nLicensed under " + pointer + ".\n")
	b.WriteString("See the end of this file for the full license text.\n")
	if c.Notes != "" {
		b.WriteString("\n" + ensureNewline(c.Notes))
	}
	b.WriteString("*/\n")
}

// mismatchDiagnostic renders the pragma-style comment placed before a
// conflicted dependency's header region.
func mismatchDiagnostic(c depgraph.Conflict) string {
	var parts []string
	for _, v := range c.Versions[1:] {
		vs := v.String()
		by := c.RequestedBy[vs]
		if len(by) > 0 {
			parts = append(parts, fmt.Sprintf("%s (by %s)", vs, strings.Join(by, ", ")))
		} else {
			parts = append(parts, vs)
		}
	}
	return fmt.Sprintf("/* #pragma message: version mismatch for %s: composed at %s, also requested %s */",
		c.Name, c.Selected.String(), strings.Join(parts, ", "))
}

func licenseText(opts Options) string {
	if opts.License != "" {
		return opts.License
	}
	return DefaultLicense
}

func ensureNewline(s string) string {
	if s == "" || strings.HasSuffix(s, "\n") {
		return s
	}
	return s + "\n"
}

// topoOrder returns library names dependencies-first, root last. Ties among
// independent libraries break by declaration order, which matches the
// builder's first-discovery order.
func topoOrder(g *depgraph.Graph) []string {
	var order []string
	visited := make(map[string]bool)

	var visit func(name string)
	visit = func(name string) {
		if visited[name] {
			return
		}
		visited[name] = true
		d, ok := g.Lookup(name)
		if !ok {
			return
		}
		for _, dep := range d.Dependencies {
			visit(dep.Name)
		}
		order = append(order, name)
	}

	visit(g.Root().Name)
	return order
}

// checkGuards rejects graphs where two distinct libraries resolve to the
// same guard symbol. A shared guard would make the second library's region
// silently vanish under the first one's include guard.
func checkGuards(g *depgraph.Graph) error {
	owners := make(map[string]string)
	for _, name := range g.Order() {
		d, _ := g.Lookup(name)
		for _, guard := range []string{d.HeaderGuard(), d.ImplGuard()} {
			if prev, taken := owners[guard]; taken && prev != name {
				return muerrors.GuardCollision(guard, prev, name)
			}
			owners[guard] = name
		}
	}
	return nil
}

// checkRegions verifies every library carries the regions composition needs:
// a header region is mandatory, an implementation region is optional
// (header-only libraries are legal and skipped by the implementation pass).
func checkRegions(g *depgraph.Graph) error {
	for _, name := range g.Order() {
		d, _ := g.Lookup(name)
		if d.Header == "" {
			return muerrors.MissingRegion(name, "header")
		}
	}
	return nil
}
