package errors

import (
	"fmt"
	"strings"
)

// Phase indicates where in processing the error occurred
type Phase string

const (
	PhaseBuild     Phase = "build"     // dependency graph construction
	PhaseReconcile Phase = "reconcile" // version reconciliation
	PhaseEmit      Phase = "emit"      // composed output emission
	PhaseManifest  Phase = "manifest"  // bundle manifest loading
	PhaseRuntime   Phase = "runtime"   // handle runtime operations
)

// Kind categorizes the error
type Kind string

const (
	KindCyclicDependency   Kind = "cyclic_dependency"
	KindVersionMismatch    Kind = "version_mismatch"
	KindMissingRegion      Kind = "missing_region"
	KindGuardCollision     Kind = "guard_collision"
	KindAlreadyInitialized Kind = "already_initialized"
	KindObjectsStillLive   Kind = "objects_still_live"
	KindOutOfMemory        Kind = "out_of_memory"
	KindInvalidHandle      Kind = "invalid_handle"
	KindNotInitialized     Kind = "not_initialized"
	KindTerminated         Kind = "terminated"
	KindUnknownLibrary     Kind = "unknown_library"
	KindDuplicateLibrary   Kind = "duplicate_library"
	KindInvalidInput       Kind = "invalid_input"
)

// Error is the structured error type used throughout the bundler and runtime.
type Error struct {
	Cause     error
	Phase     Phase
	Kind      Kind
	Detail    string
	Libraries []string
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if len(e.Libraries) > 0 {
		b.WriteString(" in ")
		b.WriteString(strings.Join(e.Libraries, ", "))
	}

	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Phase == t.Phase && e.Kind == t.Kind
	}
	return false
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase: phase,
			Kind:  kind,
		},
	}
}

// Libraries sets the implicated library names
func (b *Builder) Libraries(names ...string) *Builder {
	b.err.Libraries = names
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// Convenience constructors for common error patterns

// CyclicDependency creates a cycle error naming the libraries along the cycle,
// in walk order, first repeated library last.
func CyclicDependency(cycle []string) *Error {
	return &Error{
		Phase:     PhaseBuild,
		Kind:      KindCyclicDependency,
		Libraries: cycle,
		Detail:    "dependency cycle: " + strings.Join(cycle, " -> "),
	}
}

// VersionMismatch creates a strict-mode version conflict error.
func VersionMismatch(name string, versions []string) *Error {
	return &Error{
		Phase:     PhaseReconcile,
		Kind:      KindVersionMismatch,
		Libraries: []string{name},
		Detail:    fmt.Sprintf("conflicting versions requested: %s", strings.Join(versions, ", ")),
	}
}

// MissingRegion creates an error for a descriptor lacking a required text region.
func MissingRegion(name, region string) *Error {
	return &Error{
		Phase:     PhaseEmit,
		Kind:      KindMissingRegion,
		Libraries: []string{name},
		Detail:    fmt.Sprintf("library has no %s region", region),
	}
}

// GuardCollision creates an error for two distinct libraries sharing a guard symbol.
func GuardCollision(guard, first, second string) *Error {
	return &Error{
		Phase:     PhaseEmit,
		Kind:      KindGuardCollision,
		Libraries: []string{first, second},
		Detail:    fmt.Sprintf("guard symbol %q declared by both libraries", guard),
	}
}

// AlreadyInitialized creates an error for a double Init without an intervening Term.
func AlreadyInitialized() *Error {
	return &Error{
		Phase:  PhaseRuntime,
		Kind:   KindAlreadyInitialized,
		Detail: "context already initialized",
	}
}

// ObjectsStillLive creates an error for Term while objects remain in the table.
func ObjectsStillLive(count int) *Error {
	return &Error{
		Phase:  PhaseRuntime,
		Kind:   KindObjectsStillLive,
		Detail: fmt.Sprintf("%d object(s) still live", count),
	}
}

// OutOfMemory creates an error for object table growth failure.
func OutOfMemory(limit int) *Error {
	return &Error{
		Phase:  PhaseRuntime,
		Kind:   KindOutOfMemory,
		Detail: fmt.Sprintf("object table full (limit %d)", limit),
	}
}

// InvalidHandle creates an error for an out-of-range, sentinel, or freed handle.
func InvalidHandle(handle uint32) *Error {
	return &Error{
		Phase:  PhaseRuntime,
		Kind:   KindInvalidHandle,
		Detail: fmt.Sprintf("handle %d does not reference a live object", handle),
	}
}

// NotInitialized creates an error for an operation on a non-initialized context.
func NotInitialized() *Error {
	return &Error{
		Phase:  PhaseRuntime,
		Kind:   KindNotInitialized,
		Detail: "context not initialized",
	}
}

// Terminated creates an error for an operation on a terminated context.
func Terminated() *Error {
	return &Error{
		Phase:  PhaseRuntime,
		Kind:   KindTerminated,
		Detail: "context terminated; create a fresh one",
	}
}

// UnknownLibrary creates a manifest error for a dependency name with no entry.
func UnknownLibrary(name, referencedBy string) *Error {
	return &Error{
		Phase:     PhaseManifest,
		Kind:      KindUnknownLibrary,
		Libraries: []string{name},
		Detail:    fmt.Sprintf("dependency %q of %q has no manifest entry", name, referencedBy),
	}
}

// DuplicateLibrary creates a manifest error for two entries sharing a name.
func DuplicateLibrary(name string) *Error {
	return &Error{
		Phase:     PhaseManifest,
		Kind:      KindDuplicateLibrary,
		Libraries: []string{name},
		Detail:    fmt.Sprintf("library %q declared more than once", name),
	}
}

// InvalidInput creates an invalid input error
func InvalidInput(phase Phase, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidInput,
		Detail: detail,
	}
}

// Wrap wraps an existing error with additional context
func Wrap(phase Phase, kind Kind, cause error, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   kind,
		Detail: detail,
		Cause:  cause,
	}
}

// KindOf returns the Kind of err if it is a structured Error, or empty otherwise.
func KindOf(err error) Kind {
	if e, ok := err.(*Error); ok {
		return e.Kind
	}
	return ""
}
