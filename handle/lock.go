package handle

import "sync"

// locker guards all mutations of a context's object table. Thread-safe
// contexts carry a real mutex; the default carries a no-op with the same
// interface, so enabling the capability never changes the API shape.
type locker interface {
	Lock()
	Unlock()
}

type nopLocker struct{}

func (nopLocker) Lock()   {}
func (nopLocker) Unlock() {}

func newLocker(threadSafe bool) locker {
	if threadSafe {
		return &sync.Mutex{}
	}
	return nopLocker{}
}
