package handle

import (
	"errors"
	"sync"
	"testing"

	muerrors "github.com/mutools/mubundle/errors"
)

func initialized(t *testing.T, opts ...Option) *Context {
	t.Helper()
	ctx := NewContext(opts...)
	if err := ctx.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	return ctx
}

func isKind(err error, kind muerrors.Kind) bool {
	return errors.Is(err, &muerrors.Error{Phase: muerrors.PhaseRuntime, Kind: kind})
}

func TestContext_StateTransitions(t *testing.T) {
	ctx := NewContext()
	if ctx.State() != StateUninitialized {
		t.Fatalf("fresh context state = %s", ctx.State())
	}

	if err := ctx.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	if ctx.State() != StateInitialized {
		t.Fatalf("state after Init = %s", ctx.State())
	}

	if err := ctx.Init(); !isKind(err, muerrors.KindAlreadyInitialized) {
		t.Fatalf("second Init: %v, want already_initialized", err)
	}

	if err := ctx.Term(); err != nil {
		t.Fatalf("Term failed: %v", err)
	}
	if ctx.State() != StateTerminated {
		t.Fatalf("state after Term = %s", ctx.State())
	}

	// Terminated is terminal.
	if err := ctx.Init(); !isKind(err, muerrors.KindTerminated) {
		t.Fatalf("Init after Term: %v, want terminated", err)
	}
	if err := ctx.Term(); !isKind(err, muerrors.KindTerminated) {
		t.Fatalf("Term after Term: %v, want terminated", err)
	}
}

func TestContext_OperationsBeforeInit(t *testing.T) {
	ctx := NewContext()

	if h, err := ctx.Create("x"); h != None || !isKind(err, muerrors.KindNotInitialized) {
		t.Fatalf("Create = (%v, %v), want (None, not_initialized)", h, err)
	}
	if h, err := ctx.Destroy(0); h != None || !isKind(err, muerrors.KindNotInitialized) {
		t.Fatalf("Destroy = (%v, %v), want (None, not_initialized)", h, err)
	}
	if err := ctx.Term(); !isKind(err, muerrors.KindNotInitialized) {
		t.Fatalf("Term: %v, want not_initialized", err)
	}
}

func TestContext_CreateDestroyReuse(t *testing.T) {
	ctx := initialized(t)

	h, err := ctx.Create("first")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if h != 0 {
		t.Fatalf("first handle = %d, want 0", h)
	}

	got, err := ctx.Destroy(h)
	if err != nil {
		t.Fatalf("Destroy failed: %v", err)
	}
	if got != None {
		t.Fatalf("Destroy returned %d, want None", got)
	}

	// The freed slot's index comes back on the next create.
	h2, err := ctx.Create("second")
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if h2 != 0 {
		t.Fatalf("reused handle = %d, want 0", h2)
	}

	if _, err := ctx.Destroy(h2); err != nil {
		t.Fatalf("Destroy failed: %v", err)
	}
	if err := ctx.Term(); err != nil {
		t.Fatalf("Term with no live objects failed: %v", err)
	}
}

func TestContext_StaleHandleIsInvalid(t *testing.T) {
	ctx := initialized(t)

	h, _ := ctx.Create("x")
	if _, err := ctx.Destroy(h); err != nil {
		t.Fatalf("Destroy failed: %v", err)
	}

	// Every operation on the stale handle fails with invalid_handle.
	if _, err := ctx.Get(h); !isKind(err, muerrors.KindInvalidHandle) {
		t.Errorf("Get(stale): %v, want invalid_handle", err)
	}
	if err := ctx.Set(h, "y"); !isKind(err, muerrors.KindInvalidHandle) {
		t.Errorf("Set(stale): %v, want invalid_handle", err)
	}
	if got, err := ctx.Destroy(h); got != None || !isKind(err, muerrors.KindInvalidHandle) {
		t.Errorf("Destroy(stale) = (%v, %v), want (None, invalid_handle)", got, err)
	}
	if ctx.Live(h) {
		t.Error("stale handle reported live")
	}
}

func TestContext_InvalidHandles(t *testing.T) {
	ctx := initialized(t)
	ctx.Create("x")

	for _, h := range []Handle{None, 1, 9999} {
		if _, err := ctx.Get(h); !isKind(err, muerrors.KindInvalidHandle) {
			t.Errorf("Get(%d): %v, want invalid_handle", h, err)
		}
	}
}

func TestContext_LIFOReuse(t *testing.T) {
	ctx := initialized(t)

	h0, _ := ctx.Create("a")
	h1, _ := ctx.Create("b")
	h2, _ := ctx.Create("c")
	_ = h0

	ctx.Destroy(h1)
	ctx.Destroy(h2)

	// Most recently freed slot first.
	got, _ := ctx.Create("d")
	if got != h2 {
		t.Errorf("reused handle = %d, want %d", got, h2)
	}
	got, _ = ctx.Create("e")
	if got != h1 {
		t.Errorf("reused handle = %d, want %d", got, h1)
	}
}

func TestContext_GetSet(t *testing.T) {
	ctx := initialized(t)

	h, _ := ctx.Create("before")
	if v, err := ctx.Get(h); err != nil || v != "before" {
		t.Fatalf("Get = (%v, %v)", v, err)
	}
	if err := ctx.Set(h, "after"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if v, _ := ctx.Get(h); v != "after" {
		t.Fatalf("Get after Set = %v", v)
	}
}

func TestContext_TermWithLiveObjects(t *testing.T) {
	ctx := initialized(t)
	ctx.Create("a")
	ctx.Create("b")

	err := ctx.Term()
	if !isKind(err, muerrors.KindObjectsStillLive) {
		t.Fatalf("Term: %v, want objects_still_live", err)
	}
	// Context stays usable after the refused Term.
	if ctx.State() != StateInitialized {
		t.Fatalf("state = %s, want initialized", ctx.State())
	}
	if ctx.Len() != 2 {
		t.Fatalf("Len = %d, want 2", ctx.Len())
	}
}

type dropCounter struct {
	mu    sync.Mutex
	drops int
}

func (d *dropCounter) Drop() {
	d.mu.Lock()
	d.drops++
	d.mu.Unlock()
}

func TestContext_TermDestroyRemaining(t *testing.T) {
	ctx := initialized(t, WithTermPolicy(TermDestroyRemaining))

	d1 := &dropCounter{}
	d2 := &dropCounter{}
	ctx.Create(d1)
	ctx.Create(d2)

	if err := ctx.Term(); err != nil {
		t.Fatalf("Term failed: %v", err)
	}
	if d1.drops != 1 || d2.drops != 1 {
		t.Errorf("drops = %d, %d, want 1, 1", d1.drops, d2.drops)
	}
	if ctx.State() != StateTerminated {
		t.Fatalf("state = %s, want terminated", ctx.State())
	}
}

func TestContext_DropOnDestroy(t *testing.T) {
	ctx := initialized(t)

	d := &dropCounter{}
	h, _ := ctx.Create(d)
	ctx.Destroy(h)
	if d.drops != 1 {
		t.Errorf("drops = %d, want 1", d.drops)
	}
}

func TestContext_CapacityLimit(t *testing.T) {
	ctx := initialized(t, WithCapacityLimit(2))

	ctx.Create("a")
	ctx.Create("b")

	h, err := ctx.Create("c")
	if h != None || !isKind(err, muerrors.KindOutOfMemory) {
		t.Fatalf("Create over limit = (%v, %v), want (None, out_of_memory)", h, err)
	}

	// Destroying frees capacity again.
	ctx.Destroy(0)
	if _, err := ctx.Create("c"); err != nil {
		t.Fatalf("Create after free failed: %v", err)
	}
}

type eventRecorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *eventRecorder) OnObjectEvent(e Event) {
	r.mu.Lock()
	r.events = append(r.events, e)
	r.mu.Unlock()
}

func TestContext_Observers(t *testing.T) {
	ctx := initialized(t)
	rec := &eventRecorder{}
	ctx.Subscribe(rec)

	h, _ := ctx.Create("x")
	ctx.Destroy(h)

	if len(rec.events) != 2 {
		t.Fatalf("events = %d, want 2", len(rec.events))
	}
	if rec.events[0].Type != EventCreated || rec.events[0].Handle != h {
		t.Errorf("first event = %+v", rec.events[0])
	}
	if rec.events[1].Type != EventDestroyed || rec.events[1].Value != "x" {
		t.Errorf("second event = %+v", rec.events[1])
	}

	ctx.Unsubscribe(rec)
	ctx.Create("y")
	if len(rec.events) != 2 {
		t.Error("received events after Unsubscribe")
	}
}

func TestContext_ThreadSafe(t *testing.T) {
	ctx := initialized(t, ThreadSafe())

	const goroutines = 8
	const perGoroutine = 200

	var wg sync.WaitGroup
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < perGoroutine; j++ {
				h, err := ctx.Create(j)
				if err != nil {
					t.Errorf("Create failed: %v", err)
					return
				}
				if _, err := ctx.Get(h); err != nil {
					t.Errorf("Get failed: %v", err)
					return
				}
				if _, err := ctx.Destroy(h); err != nil {
					t.Errorf("Destroy failed: %v", err)
					return
				}
			}
		}()
	}
	wg.Wait()

	if ctx.Len() != 0 {
		t.Fatalf("Len = %d, want 0", ctx.Len())
	}
	if err := ctx.Term(); err != nil {
		t.Fatalf("Term failed: %v", err)
	}
}

func TestResult_Mapping(t *testing.T) {
	tests := []struct {
		err  error
		want Result
		name string
	}{
		{nil, ResultSuccess, "MU_SUCCESS"},
		{muerrors.AlreadyInitialized(), ResultAlreadyInitialized, "MU_ALREADY_INITIALIZED"},
		{muerrors.ObjectsStillLive(1), ResultObjectsStillLive, "MU_OBJECTS_STILL_LIVE"},
		{muerrors.OutOfMemory(4), ResultOutOfMemory, "MU_OUT_OF_MEMORY"},
		{muerrors.InvalidHandle(3), ResultInvalidHandle, "MU_INVALID_HANDLE"},
		{muerrors.NotInitialized(), ResultNotInitialized, "MU_NOT_INITIALIZED"},
		{muerrors.Terminated(), ResultTerminated, "MU_TERMINATED"},
		{errors.New("foreign"), ResultUnknown, "MU_UNKNOWN"},
	}
	for _, tt := range tests {
		got := ResultOf(tt.err)
		if got != tt.want {
			t.Errorf("ResultOf(%v) = %v, want %v", tt.err, got, tt.want)
		}
		if got.String() != tt.name {
			t.Errorf("String() = %s, want %s", got.String(), tt.name)
		}
	}
}

func TestHandle_NoneSentinel(t *testing.T) {
	if None != ^Handle(0) {
		t.Fatal("None must be the maximum handle value")
	}
	ctx := initialized(t)
	h, _ := ctx.Create("x")
	if h == None {
		t.Fatal("valid handle must never equal None")
	}
}
