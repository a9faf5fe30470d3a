package handle

// Handle is an opaque reference to a live object in a Context's table.
// Valid handles lie in [0, None); None is the "no object" sentinel. A handle
// goes stale the instant its object is destroyed, and the runtime never
// retroactively invalidates copies held by callers.
type Handle uint32

// None is the sentinel meaning "no object". Handle-returning operations
// return None on failure so callers can overwrite their variable in one
// expression: h, _ = ctx.Destroy(h).
const None Handle = ^Handle(0)

// State is the lifecycle state of a Context. Terminated is terminal; a
// terminated context is never reusable and a fresh one must be created.
type State uint8

const (
	StateUninitialized State = iota
	StateInitialized
	StateTerminated
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateInitialized:
		return "initialized"
	case StateTerminated:
		return "terminated"
	default:
		return "unknown"
	}
}

// TermPolicy decides what Term does when objects are still live.
type TermPolicy uint8

const (
	// TermErrorIfLive makes Term fail with objects_still_live, leaving the
	// context initialized. The stricter default.
	TermErrorIfLive TermPolicy = iota

	// TermDestroyRemaining makes Term bulk-destroy every live object,
	// running Drop hooks, before releasing the table.
	TermDestroyRemaining
)

// EventType identifies an object lifecycle event.
type EventType uint8

const (
	EventCreated EventType = iota
	EventDestroyed
)

// Event describes one object lifecycle transition.
type Event struct {
	Value  any
	Handle Handle
	Type   EventType
}

// Observer receives notifications about object lifecycle events.
// Notifications are delivered after the table mutation completes, outside
// the context's lock.
type Observer interface {
	OnObjectEvent(Event)
}

// Dropper is optionally implemented by object values that need cleanup when
// destroyed, whether individually or during a bulk-destroying Term.
type Dropper interface {
	Drop()
}
