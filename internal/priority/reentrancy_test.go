package priority

import (
	"errors"
	"testing"
)

func TestReentrant_RegisterFromCallbackIsDeferred(t *testing.T) {
	var rec recorder
	r := New[string]()

	var inner *Handle[string]
	var pendingInside int
	var registeredInside bool
	opts := append(rec.options("A"), WithOnBecameActive(func(n Notification[string]) {
		if inner != nil {
			return
		}
		inner = r.Register("k", 10, rec.options("B")...)
		pendingInside = r.Pending()
		registeredInside = inner.Registered()
	}))

	a := r.Register("k", 0, opts...)

	if inner == nil {
		t.Fatal("expected callback to run")
	}
	if pendingInside != 1 {
		t.Errorf("expected 1 pending mutation inside callback, got %d", pendingInside)
	}
	if registeredInside {
		t.Error("expected nested registration to be queued while delivering")
	}
	if !inner.Registered() || !inner.IsTop() || a.IsTop() {
		t.Error("expected nested registration to apply after the outer operation")
	}
	if r.Pending() != 0 {
		t.Errorf("expected queue to be drained, got %d", r.Pending())
	}

	want := []string{
		"A:became-active",
		"B:no-longer-active",
		"A:no-longer-active",
		"B:became-active",
	}
	if got := rec.take(); !equalEvents(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestReentrant_UnregisterSelfOnFired(t *testing.T) {
	var rec recorder
	r := New[string]()

	var a *Handle[string]
	var errInside error
	opts := append(rec.options("A"), WithOnFired(func(n Notification[string]) {
		errInside = n.Handle.Unregister()
		// The handle is still ranked until the dispatch returns.
		if !n.Handle.IsTop() {
			t.Error("expected handle to still be top inside its own callback")
		}
	}))
	a = r.Register("k", 5, opts...)
	b := r.Register("k", 1, rec.options("B")...)
	rec.take()

	r.Dispatch(1, "k", true)

	if errInside != nil {
		t.Fatalf("unexpected error: %v", errInside)
	}
	if a.Registered() {
		t.Error("expected A to be unregistered after dispatch")
	}
	if !b.IsTop() {
		t.Error("expected B to take over")
	}
	want := []string{"A:fired@1", "A:no-longer-active", "B:became-active"}
	if got := rec.take(); !equalEvents(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}

	if err := a.Unregister(); !errors.Is(err, ErrNotRegistered) {
		t.Errorf("expected ErrNotRegistered, got %v", err)
	}
}

func TestReentrant_DoubleUnregisterWhileQueued(t *testing.T) {
	r := New[string]()

	var first, second error
	r.Register("k", 0, WithOnFired(func(n Notification[string]) {
		first = n.Handle.Unregister()
		second = n.Handle.Unregister()
	}))
	r.Dispatch(1, "k", true)

	if first != nil {
		t.Errorf("expected first unregister to be accepted, got %v", first)
	}
	if !errors.Is(second, ErrNotRegistered) {
		t.Errorf("expected ErrNotRegistered for queued double unregister, got %v", second)
	}
	if r.Has("k") {
		t.Error("expected key to be removed")
	}
}

func TestReentrant_RegisterThenUnregisterInCallback(t *testing.T) {
	var rec recorder
	r := New[string]()

	var ghost *Handle[string]
	r.Register("k", 0, WithOnFired(func(n Notification[string]) {
		ghost = r.Register("k", 99, rec.options("ghost")...)
		if err := ghost.Unregister(); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	}))
	r.Dispatch(1, "k", true)

	if ghost.Registered() {
		t.Error("expected cancelled registration to never apply")
	}
	if got := rec.take(); len(got) != 0 {
		t.Errorf("expected no notifications for cancelled registration, got %v", got)
	}
	if r.Len("k") != 1 {
		t.Errorf("expected 1 handle, got %d", r.Len("k"))
	}
}

func TestReentrant_SetPriorityCascade(t *testing.T) {
	var rec recorder
	r := New[string]()

	a := r.Register("k", 2, rec.options("A")...)
	var b *Handle[string]
	// Whenever B becomes active it hands the key back to A.
	b = r.Register("k", 1, append(rec.options("B"), WithOnBecameActive(func(n Notification[string]) {
		a.SetAsTop()
	}))...)
	rec.take()

	b.SetPriority(10)

	if !a.IsTop() {
		t.Error("expected A to reclaim the key")
	}
	if a.Priority() != 11 {
		t.Errorf("expected A priority 11, got %d", a.Priority())
	}
	want := []string{
		"A:no-longer-active",
		"B:became-active",
		"B:no-longer-active",
		"A:became-active",
	}
	if got := rec.take(); !equalEvents(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
	if s := r.Stats(); s.Deferred != 1 {
		t.Errorf("expected 1 deferred mutation, got %d", s.Deferred)
	}
}

func TestPanicRecovery(t *testing.T) {
	var reported []*CallbackPanicError
	r := New[string](WithPanicHandler(func(err *CallbackPanicError) {
		reported = append(reported, err)
	}))

	var after bool
	h := r.Register("k", 0, WithName("boom"), WithOnFired(func(n Notification[string]) {
		panic("kaboom")
	}))
	h.OnFired().Subscribe(func(n Notification[string]) { after = true })

	if !r.Dispatch(1, "k", true) {
		t.Fatal("expected dispatch to fire")
	}

	if !after {
		t.Error("expected later subscribers to run after a panic")
	}
	if len(reported) != 1 {
		t.Fatalf("expected 1 reported panic, got %d", len(reported))
	}
	err := reported[0]
	if !errors.Is(err, ErrCallbackPanic) {
		t.Error("expected errors.Is to match ErrCallbackPanic")
	}
	if err.Handle != "boom" || err.Kind != KindFired || err.Value != "kaboom" {
		t.Errorf("unexpected panic error: %+v", err)
	}
	if err.Stack == "" {
		t.Error("expected stack trace")
	}
	if r.Stats().Panics != 1 {
		t.Errorf("expected 1 panic in stats, got %d", r.Stats().Panics)
	}

	// Registry remains usable.
	h.SetPriority(3)
	if r.TopPriority("k") != 3 {
		t.Errorf("expected top priority 3, got %d", r.TopPriority("k"))
	}
}
