package handle

import (
	muerrors "github.com/mutools/mubundle/errors"
)

// Context owns an object table and its lifecycle state. Objects are stored
// in a growable slot arena; handles are the slot indices, and destroyed
// slots are recycled LIFO through a free list.
//
// A Context starts Uninitialized, becomes Initialized via Init, and ends
// Terminated via Term. Without the thread-safety option, concurrent use
// from multiple goroutines is undefined behavior by contract.
type Context struct {
	mu         locker
	slots      []slot
	freeList   []Handle
	observers  []Observer
	state      State
	liveCount  int
	limit      int
	policy     TermPolicy
	threadSafe bool
}

type slot struct {
	value any
	live  bool
}

// Option configures a Context at creation time.
type Option func(*Context)

// ThreadSafe makes every table mutation and query acquire an internal lock
// for its duration. Operations on the same context are linearized; contexts
// never share state, so operations on different contexts stay independent.
func ThreadSafe() Option {
	return func(c *Context) { c.threadSafe = true }
}

// WithCapacityLimit bounds the object table at n live objects. Create fails
// with out_of_memory once the bound is reached. Zero means unbounded.
func WithCapacityLimit(n int) Option {
	return func(c *Context) { c.limit = n }
}

// WithTermPolicy selects what Term does when objects are still live.
func WithTermPolicy(p TermPolicy) Option {
	return func(c *Context) { c.policy = p }
}

// NewContext creates an uninitialized context. Call Init before use.
func NewContext(opts ...Option) *Context {
	c := &Context{policy: TermErrorIfLive}
	for _, opt := range opts {
		opt(c)
	}
	c.mu = newLocker(c.threadSafe)
	return c
}

// State returns the context's lifecycle state.
func (c *Context) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Init allocates the object table and transitions to Initialized.
// Fails with already_initialized on a second call without an intervening
// Term, and with terminated on a dead context.
func (c *Context) Init() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch c.state {
	case StateInitialized:
		return muerrors.AlreadyInitialized()
	case StateTerminated:
		return muerrors.Terminated()
	}

	c.slots = make([]slot, 0, 64)
	c.freeList = make([]Handle, 0, 16)
	c.liveCount = 0
	c.state = StateInitialized
	return nil
}

// Term releases the object table and transitions to Terminated.
// With the default policy it fails with objects_still_live if any object
// remains, leaving the context usable; under TermDestroyRemaining it
// destroys the survivors first, running their Drop hooks.
func (c *Context) Term() error {
	c.mu.Lock()

	if c.state != StateInitialized {
		state := c.state
		c.mu.Unlock()
		if state == StateTerminated {
			return muerrors.Terminated()
		}
		return muerrors.NotInitialized()
	}

	if c.liveCount > 0 && c.policy == TermErrorIfLive {
		n := c.liveCount
		c.mu.Unlock()
		return muerrors.ObjectsStillLive(n)
	}

	var events []Event
	for i := range c.slots {
		if !c.slots[i].live {
			continue
		}
		value := c.slots[i].value
		if d, ok := value.(Dropper); ok {
			d.Drop()
		}
		c.slots[i] = slot{}
		events = append(events, Event{Type: EventDestroyed, Handle: Handle(i), Value: value})
	}

	c.slots = nil
	c.freeList = nil
	c.liveCount = 0
	c.state = StateTerminated
	observers := c.observers
	c.mu.Unlock()

	for _, e := range events {
		notify(observers, e)
	}
	return nil
}

// Create stores a value and returns its handle, reusing a freed slot when
// one is available (LIFO) and appending otherwise. Returns None with
// out_of_memory when growth would exceed the capacity limit.
func (c *Context) Create(value any) (Handle, error) {
	c.mu.Lock()

	if c.state != StateInitialized {
		state := c.state
		c.mu.Unlock()
		return None, stateError(state)
	}

	if c.limit > 0 && c.liveCount >= c.limit {
		limit := c.limit
		c.mu.Unlock()
		return None, muerrors.OutOfMemory(limit)
	}

	var h Handle
	if n := len(c.freeList); n > 0 {
		h = c.freeList[n-1]
		c.freeList = c.freeList[:n-1]
		c.slots[h] = slot{value: value, live: true}
	} else {
		h = Handle(len(c.slots))
		c.slots = append(c.slots, slot{value: value, live: true})
	}
	c.liveCount++
	observers := c.observers
	c.mu.Unlock()

	notify(observers, Event{Type: EventCreated, Handle: h, Value: value})
	return h, nil
}

// Destroy releases the object behind a handle and recycles its slot.
// It always returns None so callers can overwrite their handle variable in
// one expression; a stale, sentinel, or out-of-range handle yields
// invalid_handle and nothing else happens.
func (c *Context) Destroy(h Handle) (Handle, error) {
	c.mu.Lock()

	if c.state != StateInitialized {
		state := c.state
		c.mu.Unlock()
		return None, stateError(state)
	}

	if !c.liveLocked(h) {
		c.mu.Unlock()
		return None, muerrors.InvalidHandle(uint32(h))
	}

	value := c.slots[h].value
	if d, ok := value.(Dropper); ok {
		d.Drop()
	}
	c.slots[h] = slot{}
	c.freeList = append(c.freeList, h)
	c.liveCount--
	observers := c.observers
	c.mu.Unlock()

	notify(observers, Event{Type: EventDestroyed, Handle: h, Value: value})
	return None, nil
}

// Get returns the value behind a live handle.
func (c *Context) Get(h Handle) (any, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StateInitialized {
		return nil, stateError(c.state)
	}
	if !c.liveLocked(h) {
		return nil, muerrors.InvalidHandle(uint32(h))
	}
	return c.slots[h].value, nil
}

// Set replaces the value behind a live handle in place.
func (c *Context) Set(h Handle, value any) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StateInitialized {
		return stateError(c.state)
	}
	if !c.liveLocked(h) {
		return muerrors.InvalidHandle(uint32(h))
	}
	c.slots[h].value = value
	return nil
}

// Live reports whether a handle currently references a live object.
func (c *Context) Live(h Handle) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state == StateInitialized && c.liveLocked(h)
}

// Len returns the number of live objects. Zero when not initialized.
func (c *Context) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.liveCount
}

// Subscribe registers an observer for object lifecycle events.
func (c *Context) Subscribe(o Observer) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.observers = append(c.observers, o)
}

// Unsubscribe removes a previously registered observer.
func (c *Context) Unsubscribe(o Observer) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, obs := range c.observers {
		if obs == o {
			c.observers = append(c.observers[:i], c.observers[i+1:]...)
			return
		}
	}
}

func (c *Context) liveLocked(h Handle) bool {
	return h != None && int(h) < len(c.slots) && c.slots[h].live
}

func stateError(s State) error {
	if s == StateTerminated {
		return muerrors.Terminated()
	}
	return muerrors.NotInitialized()
}

func notify(observers []Observer, e Event) {
	for _, o := range observers {
		o.OnObjectEvent(e)
	}
}
