package emit

import (
	"errors"
	"strings"
	"testing"

	"github.com/mutools/mubundle/depgraph"
	muerrors "github.com/mutools/mubundle/errors"
	"github.com/mutools/mubundle/library"
)

func lib(t *testing.T, name, version string) *library.Descriptor {
	t.Helper()
	d := library.MustNew(name, version)
	d.Header = "/* " + name + " declarations */\n"
	d.Impl = "/* " + name + " bodies */\n"
	return d
}

func buildGraph(t *testing.T, root *library.Descriptor) *depgraph.Graph {
	t.Helper()
	g, err := depgraph.Build(root)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	return g
}

func TestCompose_DiamondOrder(t *testing.T) {
	c := lib(t, "c", "1.0.0")
	a := lib(t, "a", "1.0.0").Depends(c)
	b := lib(t, "b", "1.0.0").Depends(c)
	r := lib(t, "r", "1.0.0").Depends(a, b)

	out, err := Compose(buildGraph(t, r), Options{})
	if err != nil {
		t.Fatalf("Compose failed: %v", err)
	}

	want := []string{"c", "a", "b", "r"}
	if len(out.Order) != len(want) {
		t.Fatalf("Order = %v, want %v", out.Order, want)
	}
	for i := range want {
		if out.Order[i] != want[i] {
			t.Fatalf("Order = %v, want %v", out.Order, want)
		}
	}

	// Dependency text precedes dependent text in both sections.
	for _, pair := range [][2]string{{"c", "a"}, {"c", "b"}, {"a", "r"}, {"b", "r"}} {
		depHdr := strings.Index(out.Text, "/* "+pair[0]+" declarations */")
		hdr := strings.Index(out.Text, "/* "+pair[1]+" declarations */")
		if depHdr < 0 || hdr < 0 || depHdr > hdr {
			t.Errorf("header of %s should precede header of %s", pair[0], pair[1])
		}
		depImpl := strings.Index(out.Text, "/* "+pair[0]+" bodies */")
		impl := strings.Index(out.Text, "/* "+pair[1]+" bodies */")
		if depImpl < 0 || impl < 0 || depImpl > impl {
			t.Errorf("impl of %s should precede impl of %s", pair[0], pair[1])
		}
	}
}

func TestCompose_SharedDependencyEmittedOnce(t *testing.T) {
	c := lib(t, "c", "1.0.0")
	a := lib(t, "a", "1.0.0").Depends(c)
	b := lib(t, "b", "1.0.0").Depends(c)
	r := lib(t, "r", "1.0.0").Depends(a, b)

	out, err := Compose(buildGraph(t, r), Options{})
	if err != nil {
		t.Fatalf("Compose failed: %v", err)
	}

	if n := strings.Count(out.Text, "/* c declarations */"); n != 1 {
		t.Errorf("c header appears %d times, want 1", n)
	}
	if n := strings.Count(out.Text, "/* c bodies */"); n != 1 {
		t.Errorf("c impl appears %d times, want 1", n)
	}
}

func TestCompose_Structure(t *testing.T) {
	dep := lib(t, "muMemory", "1.2.0")
	root := lib(t, "muUtils", "2.1.3").Depends(dep)

	out, err := Compose(buildGraph(t, root), Options{
		Comment: FileComment{
			Filename:    "muUtils.h",
			Author:      "someone",
			Description: "utility routines",
		},
	})
	if err != nil {
		t.Fatalf("Compose failed: %v", err)
	}
	text := out.Text

	if !strings.HasPrefix(text, "/*\nmuUtils.h - someone\nutility routines\n") {
		t.Errorf("leading comment malformed:\n%s", text[:120])
	}

	// Ordered structural landmarks.
	landmarks := []string{
		"#ifndef MUUTILS_H",
		"#define MUUTILS_H",
		"#ifndef MUMEMORY_H",
		"#define MUMEMORY_H",
		"#define MUMEMORY_VERSION_MAJOR 1",
		"#define MUMEMORY_VERSION_MINOR 2",
		"#define MUMEMORY_VERSION_PATCH 0",
		"/* muMemory declarations */",
		"#endif /* MUMEMORY_H */",
		"#define MUUTILS_VERSION_MAJOR 2",
		"#define MUUTILS_VERSION_MINOR 1",
		"#define MUUTILS_VERSION_PATCH 3",
		"/* muUtils declarations */",
		"#endif /* MUUTILS_H */",
		"#ifdef MUUTILS_IMPLEMENTATION",
		"#ifndef MUMEMORY_IMPLEMENTATION",
		"#define MUMEMORY_IMPLEMENTATION",
		"/* muMemory bodies */",
		"#endif /* MUMEMORY_IMPLEMENTATION */",
		"/* muUtils bodies */",
		"#endif /* MUUTILS_IMPLEMENTATION */",
	}
	pos := 0
	for _, mark := range landmarks {
		idx := strings.Index(text[pos:], mark)
		if idx < 0 {
			t.Fatalf("landmark %q missing or out of order", mark)
		}
		pos += idx + len(mark)
	}

	// Trailing license block padded with exactly two blank lines.
	if !strings.HasSuffix(text, "*/\n\n\n") {
		t.Errorf("output should end with license close and two blank lines, got %q", text[len(text)-12:])
	}
	if !strings.Contains(text, "ALTERNATIVE A - MIT License") {
		t.Error("default license text missing")
	}
}

func TestCompose_VersionConflictDiagnostic(t *testing.T) {
	ca := lib(t, "c", "1.0.0")
	cb := lib(t, "c", "2.0.0")
	a := lib(t, "a", "1.0.0").Depends(ca)
	b := lib(t, "b", "1.0.0").Depends(cb)
	r := lib(t, "r", "1.0.0").Depends(a, b)

	out, err := Compose(buildGraph(t, r), Options{})
	if err != nil {
		t.Fatalf("Compose failed: %v", err)
	}

	if len(out.Conflicts) != 1 || out.Conflicts[0].Name != "c" {
		t.Fatalf("Conflicts = %v, want one for c", out.Conflicts)
	}
	diag := "/* #pragma message: version mismatch for c: composed at 1.0.0, also requested 2.0.0 (by b) */"
	if !strings.Contains(out.Text, diag) {
		t.Errorf("diagnostic comment missing, want %q", diag)
	}
	// First-discovered version's defines win.
	if !strings.Contains(out.Text, "#define C_VERSION_MAJOR 1") {
		t.Error("composed version should be 1.0.0")
	}
	if n := strings.Count(out.Text, "/* c declarations */"); n != 1 {
		t.Errorf("c emitted %d times, want 1", n)
	}
}

func TestCompose_SuppressedDiagnostics(t *testing.T) {
	ca := lib(t, "c", "1.0.0")
	cb := lib(t, "c", "2.0.0")
	a := lib(t, "a", "1.0.0").Depends(ca)
	b := lib(t, "b", "1.0.0").Depends(cb)
	r := lib(t, "r", "1.0.0").Depends(a, b)

	out, err := Compose(buildGraph(t, r), Options{SuppressVersionDiagnostics: true})
	if err != nil {
		t.Fatalf("Compose failed: %v", err)
	}
	if strings.Contains(out.Text, "version mismatch") {
		t.Error("diagnostic should be suppressed")
	}
	// Conflicts are still reported on the output.
	if len(out.Conflicts) != 1 {
		t.Errorf("Conflicts = %d, want 1", len(out.Conflicts))
	}
}

func TestCompose_StrictAborts(t *testing.T) {
	ca := lib(t, "c", "1.0.0")
	cb := lib(t, "c", "2.0.0")
	a := lib(t, "a", "1.0.0").Depends(ca)
	b := lib(t, "b", "1.0.0").Depends(cb)
	r := lib(t, "r", "1.0.0").Depends(a, b)

	out, err := Compose(buildGraph(t, r), Options{Strict: true})
	if err == nil {
		t.Fatal("expected version_mismatch error")
	}
	if !errors.Is(err, &muerrors.Error{Phase: muerrors.PhaseReconcile, Kind: muerrors.KindVersionMismatch}) {
		t.Fatalf("wrong error: %v", err)
	}
	if out != nil {
		t.Error("no partial output on fatal error")
	}
}

func TestCompose_GuardCollision(t *testing.T) {
	// Distinct names that sanitize to the same guard prefix.
	a := lib(t, "mu-lib", "1.0.0")
	b := lib(t, "mu_lib", "1.0.0")
	r := lib(t, "r", "1.0.0").Depends(a, b)

	out, err := Compose(buildGraph(t, r), Options{})
	if err == nil {
		t.Fatal("expected guard_collision error")
	}
	if !errors.Is(err, &muerrors.Error{Phase: muerrors.PhaseEmit, Kind: muerrors.KindGuardCollision}) {
		t.Fatalf("wrong error: %v", err)
	}
	if out != nil {
		t.Error("no partial output on fatal error")
	}
}

func TestCompose_MissingHeaderRegion(t *testing.T) {
	dep := library.MustNew("dep", "1.0.0")
	dep.Impl = "/* bodies only */\n"
	r := lib(t, "r", "1.0.0").Depends(dep)

	_, err := Compose(buildGraph(t, r), Options{})
	if !errors.Is(err, &muerrors.Error{Phase: muerrors.PhaseEmit, Kind: muerrors.KindMissingRegion}) {
		t.Fatalf("wrong error: %v", err)
	}
}

func TestCompose_HeaderOnlyDependency(t *testing.T) {
	dep := library.MustNew("dep", "1.0.0")
	dep.Header = "/* dep declarations */\n"
	r := lib(t, "r", "1.0.0").Depends(dep)

	out, err := Compose(buildGraph(t, r), Options{})
	if err != nil {
		t.Fatalf("Compose failed: %v", err)
	}
	if strings.Contains(out.Text, "#ifndef DEP_IMPLEMENTATION") {
		t.Error("header-only library should be skipped by the implementation pass")
	}
	if !strings.Contains(out.Text, "/* dep declarations */") {
		t.Error("header region missing")
	}
}

func TestCompose_Deterministic(t *testing.T) {
	build := func() string {
		c := lib(t, "c", "1.0.0")
		a := lib(t, "a", "1.0.0").Depends(c)
		b := lib(t, "b", "1.0.0").Depends(c)
		r := lib(t, "r", "1.0.0").Depends(a, b)
		out, err := Compose(buildGraph(t, r), Options{})
		if err != nil {
			t.Fatalf("Compose failed: %v", err)
		}
		return out.Text
	}

	first := build()
	for i := 0; i < 5; i++ {
		if build() != first {
			t.Fatal("output differs across runs on identical input")
		}
	}
}

func TestRecord(t *testing.T) {
	rec := NewRecord()
	if rec.HeaderEmitted("x") || rec.ImplEmitted("x") {
		t.Fatal("fresh record should be empty")
	}
	rec.MarkHeader("x")
	if !rec.HeaderEmitted("x") {
		t.Error("header mark lost")
	}
	if rec.ImplEmitted("x") {
		t.Error("header mark should not imply impl mark")
	}
	rec.MarkImpl("x")
	if !rec.ImplEmitted("x") {
		t.Error("impl mark lost")
	}
}
