package library

import (
	"strings"

	"github.com/coreos/go-semver/semver"
)

// Descriptor is the static metadata for one single-file library: its name,
// version triple, declared dependencies, and the raw text of its two regions.
//
// Name is the stable identity of a library across versions. Two descriptors
// with equal names and differing version triples describe the same library at
// conflicting versions, never two different libraries.
type Descriptor struct {
	// Name is the unique symbolic identifier, e.g. "muUtils".
	Name string

	// Version is the library's version triple. Only Major, Minor, and Patch
	// are meaningful; pre-release and metadata fields are ignored.
	Version semver.Version

	// Dependencies lists the libraries this one includes, in declaration
	// order. Duplicates by name are permitted; reconciliation checks that
	// their versions agree.
	Dependencies []*Descriptor

	// Header is the declarations-only region, copied verbatim into the
	// composed output's header section.
	Header string

	// Impl is the function-bodies region, copied verbatim into the composed
	// output's implementation section. May be empty for header-only libraries.
	Impl string

	// Guard overrides the prefix used for the library's guard symbols. When
	// empty the prefix is derived from Name.
	Guard string
}

// New creates a descriptor with a parsed version triple.
// The version must be a plain "major.minor.patch" string.
func New(name, version string) (*Descriptor, error) {
	v, err := semver.NewVersion(version)
	if err != nil {
		return nil, err
	}
	return &Descriptor{Name: name, Version: *v}, nil
}

// MustNew is New for static descriptor tables; it panics on a malformed version.
func MustNew(name, version string) *Descriptor {
	d, err := New(name, version)
	if err != nil {
		panic(err)
	}
	return d
}

// Depends appends dependencies and returns the descriptor for chaining.
func (d *Descriptor) Depends(deps ...*Descriptor) *Descriptor {
	d.Dependencies = append(d.Dependencies, deps...)
	return d
}

// GuardPrefix returns the symbol prefix for this library's guards: the Guard
// override if set, otherwise the name upper-cased with every character that
// is not a letter or digit mapped to an underscore.
func (d *Descriptor) GuardPrefix() string {
	if d.Guard != "" {
		return d.Guard
	}
	return SanitizeGuard(d.Name)
}

// HeaderGuard returns the include-guard symbol for the header region.
func (d *Descriptor) HeaderGuard() string {
	return d.GuardPrefix() + "_H"
}

// ImplGuard returns the trigger/guard symbol for the implementation region.
func (d *Descriptor) ImplGuard() string {
	return d.GuardPrefix() + "_IMPLEMENTATION"
}

// SameVersion reports whether two descriptors request the same version triple.
func (d *Descriptor) SameVersion(other *Descriptor) bool {
	return d.Version.Compare(other.Version) == 0
}

// SanitizeGuard maps an arbitrary library name to a valid macro identifier:
// upper-cased, non-alphanumeric runes replaced with underscores, and a
// leading underscore prepended if the name starts with a digit.
func SanitizeGuard(name string) string {
	var b strings.Builder
	for _, r := range strings.ToUpper(name) {
		switch {
		case r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	s := b.String()
	if s == "" {
		return "_"
	}
	if s[0] >= '0' && s[0] <= '9' {
		return "_" + s
	}
	return s
}
