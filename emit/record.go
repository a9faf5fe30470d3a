package emit

// Record tracks which libraries have already been emitted, split by region.
// A library may have its header emitted while its implementation is still
// pending; the two passes consult the record independently so re-reaching a
// shared dependency is a no-op instead of a duplicate definition.
type Record struct {
	headerEmitted map[string]bool
	implEmitted   map[string]bool
}

// NewRecord creates an empty emission record.
func NewRecord() *Record {
	return &Record{
		headerEmitted: make(map[string]bool),
		implEmitted:   make(map[string]bool),
	}
}

// HeaderEmitted reports whether a library's header region is already out.
func (r *Record) HeaderEmitted(name string) bool {
	return r.headerEmitted[name]
}

// MarkHeader records that a library's header region has been emitted.
func (r *Record) MarkHeader(name string) {
	r.headerEmitted[name] = true
}

// ImplEmitted reports whether a library's implementation region is already out.
func (r *Record) ImplEmitted(name string) bool {
	return r.implEmitted[name]
}

// MarkImpl records that a library's implementation region has been emitted.
func (r *Record) MarkImpl(name string) {
	r.implEmitted[name] = true
}
