// Package handle implements the object lifecycle contract that composed
// single-file libraries share: a context owning a growable table of live
// objects, addressed by opaque integer handles.
//
// # Lifecycle
//
// A Context moves Uninitialized -> Initialized -> Terminated. Terminated is
// terminal; build a fresh context to start over.
//
//	ctx := handle.NewContext()
//	if err := ctx.Init(); err != nil { ... }
//
//	h, err := ctx.Create(myObject)
//	v, err := ctx.Get(h)
//	h, _ = ctx.Destroy(h) // always returns None, overwriting the stale copy
//
//	err := ctx.Term()
//
// Destroyed slots are recycled LIFO, so a freed index may legally come back
// from a later Create. Handles are never assumed monotonically increasing.
//
// # Thread safety
//
// By default the context performs zero synchronization and concurrent use is
// undefined behavior by contract. Opting in with ThreadSafe() puts a real
// lock behind the same interface:
//
//	ctx := handle.NewContext(handle.ThreadSafe())
//
// Operations on one context are then linearized by its lock; distinct
// contexts never interact. Nothing blocks indefinitely and no operation
// holds the lock across anything that could suspend.
//
// # Failure model
//
// Runtime errors never abort the process. Every operation returns a safe
// sentinel (None for handle-returning calls) alongside a structured error;
// ResultOf converts the error into a compact enumerator with MU_-style
// debug names.
package handle
