package priority

import "strconv"

type handleState int

const (
	// stateQueued means Register was called from a callback and has not been applied yet.
	stateQueued handleState = iota
	stateRegistered
	stateRemoved
)

// Handle is one listener's registration for one trigger key.
// Handles are compared by identity; two handles with equal priority are distinct.
type Handle[K comparable] struct {
	reg      *Registry[K]
	id       uint64
	name     string
	key      K
	priority int
	claimTop bool

	state    handleState
	removing bool

	fired          Sink[K]
	becameActive   Sink[K]
	noLongerActive Sink[K]
}

func newHandle[K comparable](reg *Registry[K], id uint64, k K, prio int, cfg registerConfig) *Handle[K] {
	h := &Handle[K]{
		reg:            reg,
		id:             id,
		name:           cfg.name,
		key:            k,
		priority:       prio,
		claimTop:       cfg.claimTop,
		state:          stateQueued,
		fired:          Sink[K]{kind: KindFired},
		becameActive:   Sink[K]{kind: KindBecameActive},
		noLongerActive: Sink[K]{kind: KindNoLongerActive},
	}
	for _, sub := range cfg.subs {
		fn, ok := sub.fn.(func(Notification[K]))
		if !ok {
			// Callback typed for a different key type; skip it.
			continue
		}
		h.sink(sub.kind).Subscribe(fn)
	}
	return h
}

// ID returns the registry-unique sequence number of the handle.
func (h *Handle[K]) ID() uint64 { return h.id }

// Name returns the handle's name.
func (h *Handle[K]) Name() string { return h.name }

// Key returns the trigger key the handle is registered under.
func (h *Handle[K]) Key() K { return h.key }

// Priority returns the handle's current priority.
func (h *Handle[K]) Priority() int { return h.priority }

// ClaimsTop reports whether the handle was registered with WithClaimTop.
func (h *Handle[K]) ClaimsTop() bool { return h.claimTop }

// Registered reports whether the handle is currently in its key's ranking.
// A handle whose registration is still queued is not registered yet.
func (h *Handle[K]) Registered() bool { return h.state == stateRegistered }

// OnFired returns the sink notified when the trigger fires while the handle is active.
func (h *Handle[K]) OnFired() *Sink[K] { return &h.fired }

// OnBecameActive returns the sink notified when the handle becomes active.
func (h *Handle[K]) OnBecameActive() *Sink[K] { return &h.becameActive }

// OnNoLongerActive returns the sink notified when the handle stops being active.
func (h *Handle[K]) OnNoLongerActive() *Sink[K] { return &h.noLongerActive }

// IsTop reports whether the handle is the active handle of its key.
func (h *Handle[K]) IsTop() bool {
	return h.reg.IsTop(h)
}

// TopPriority returns the priority of the active handle of this handle's key,
// or NoPriority if the key has no registered handles.
func (h *Handle[K]) TopPriority() int {
	return h.reg.TopPriority(h.key)
}

// SetPriority changes the handle's priority and re-ranks its key if the handle
// is registered. Setting the priority of an unregistered handle only stores it.
func (h *Handle[K]) SetPriority(p int) {
	r := h.reg
	if r.delivering() {
		r.enqueue(func() { r.setPriority(h, p) })
		return
	}
	r.setPriority(h, p)
	r.flush()
}

// SetAsTop raises the handle above the current active handle of its key.
func (h *Handle[K]) SetAsTop() {
	r := h.reg
	if r.delivering() {
		r.enqueue(func() { r.setPriority(h, r.TopPriority(h.key)+1) })
		return
	}
	r.setPriority(h, r.TopPriority(h.key)+1)
	r.flush()
}

// Unregister removes the handle from its key. Unregistration is final.
// Returns ErrNotRegistered if the handle was already unregistered.
func (h *Handle[K]) Unregister() error {
	if h.state == stateRemoved || h.removing {
		return ErrNotRegistered
	}
	r := h.reg
	h.removing = true
	if r.delivering() {
		r.enqueue(func() { r.unregister(h) })
		return nil
	}
	r.unregister(h)
	r.flush()
	return nil
}

// Poll fires OnFired if the trigger fired this tick, the handle is active and
// its key has not already fired for this tick. It reports whether it fired.
func (h *Handle[K]) Poll(tick uint64, fired bool) bool {
	if !fired || !h.IsTop() {
		return false
	}
	ok := h.reg.fire(tick, h.key)
	h.reg.flush()
	return ok
}

func (h *Handle[K]) sink(kind Kind) *Sink[K] {
	switch kind {
	case KindBecameActive:
		return &h.becameActive
	case KindNoLongerActive:
		return &h.noLongerActive
	default:
		return &h.fired
	}
}

// String returns the handle's name, falling back to its sequence number.
func (h *Handle[K]) String() string {
	if h.name != "" {
		return h.name
	}
	return "handle#" + strconv.FormatUint(h.id, 10)
}
