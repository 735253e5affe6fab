package priority

import (
	"fmt"
	"runtime/debug"
	"sort"

	"github.com/rs/zerolog"
)

// Registry ranks handles per trigger key and emits activity transitions.
// It is not safe for concurrent use.
type Registry[K comparable] struct {
	entries   map[K][]*Handle[K]
	lastFired map[K]uint64

	logger       zerolog.Logger
	panicHandler PanicHandler

	nextID uint64

	// depth counts nested sink deliveries; mutations requested while it is
	// non-zero are queued in pending.
	depth    int
	pending  []func()
	flushing bool

	stats Stats
}

// New creates an empty registry.
func New[K comparable](opts ...Option) *Registry[K] {
	cfg := defaultRegistryConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	r := &Registry[K]{
		entries:      make(map[K][]*Handle[K]),
		lastFired:    make(map[K]uint64),
		logger:       cfg.logger,
		panicHandler: cfg.panicHandler,
	}
	if r.panicHandler == nil {
		r.panicHandler = r.logPanic
	}
	return r
}

// Register creates a handle for k with the given priority and inserts it into
// the key's ranking. The new handle immediately receives OnBecameActive if it
// is first, or OnNoLongerActive otherwise.
//
// Called from inside a callback, the insertion is queued and the returned
// handle reports Registered() == false until it is applied.
func (r *Registry[K]) Register(k K, prio int, opts ...RegisterOption) *Handle[K] {
	var cfg registerConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	r.nextID++
	h := newHandle(r, r.nextID, k, prio, cfg)

	if r.delivering() {
		r.enqueue(func() { r.register(h) })
		return h
	}
	r.register(h)
	r.flush()
	return h
}

// Unregister removes h from the registry. See Handle.Unregister.
func (r *Registry[K]) Unregister(h *Handle[K]) error {
	if h == nil {
		return ErrNilHandle
	}
	if h.reg != r {
		return ErrForeignHandle
	}
	return h.Unregister()
}

// IsTop reports whether h is the first handle of its key.
// Returns false for nil, unregistered or foreign handles.
func (r *Registry[K]) IsTop(h *Handle[K]) bool {
	if h == nil || h.reg != r {
		return false
	}
	list := r.entries[h.key]
	return len(list) > 0 && list[0] == h
}

// TopPriority returns the priority of the active handle for k, or NoPriority
// if no handle is registered under k.
func (r *Registry[K]) TopPriority(k K) int {
	list := r.entries[k]
	if len(list) == 0 {
		return NoPriority
	}
	return list[0].priority
}

// Top returns the active handle for k.
func (r *Registry[K]) Top(k K) (*Handle[K], bool) {
	list := r.entries[k]
	if len(list) == 0 {
		return nil, false
	}
	return list[0], true
}

// Handles returns the handles registered under k in rank order.
// Returns a copy to prevent modification of the ranking.
func (r *Registry[K]) Handles(k K) []*Handle[K] {
	list := r.entries[k]
	if len(list) == 0 {
		return nil
	}
	result := make([]*Handle[K], len(list))
	copy(result, list)
	return result
}

// Keys returns every key with at least one registered handle, in no
// particular order.
func (r *Registry[K]) Keys() []K {
	keys := make([]K, 0, len(r.entries))
	for k := range r.entries {
		keys = append(keys, k)
	}
	return keys
}

// Has reports whether any handle is registered under k.
func (r *Registry[K]) Has(k K) bool {
	_, ok := r.entries[k]
	return ok
}

// Len returns the number of handles registered under k.
func (r *Registry[K]) Len(k K) int {
	return len(r.entries[k])
}

// Count returns the total number of registered handles.
func (r *Registry[K]) Count() int {
	n := 0
	for _, list := range r.entries {
		n += len(list)
	}
	return n
}

// Pending returns the number of queued mutations awaiting replay.
func (r *Registry[K]) Pending() int {
	return len(r.pending)
}

// Stats returns a snapshot of registry counters.
func (r *Registry[K]) Stats() Stats {
	s := r.stats
	s.Keys = len(r.entries)
	s.Handles = r.Count()
	return s
}

func (r *Registry[K]) register(h *Handle[K]) {
	if h.removing || h.state != stateQueued {
		// Unregistered before the queued registration was applied.
		h.state = stateRemoved
		return
	}

	list := r.entries[h.key]
	if h.claimTop && len(list) > 0 {
		h.priority = list[0].priority + 1
	}
	list = append(list, h)
	r.entries[h.key] = list
	h.state = stateRegistered
	r.stats.Registrations++

	r.logger.Debug().
		Str("handle", h.String()).
		Str("key", keyString(h.key)).
		Int("priority", h.priority).
		Bool("claim_top", h.claimTop).
		Msg("handle registered")

	if list[0] == h {
		r.notify(h, KindBecameActive, 0)
	} else {
		r.notify(h, KindNoLongerActive, 0)
	}
	r.resort(h.key)
}

func (r *Registry[K]) unregister(h *Handle[K]) {
	if h.state != stateRegistered {
		h.state = stateRemoved
		return
	}

	list := r.entries[h.key]
	idx := -1
	for i, other := range list {
		if other == h {
			idx = i
			break
		}
	}
	h.state = stateRemoved
	if idx < 0 {
		return
	}

	prevTop := list[0]
	next := make([]*Handle[K], 0, len(list)-1)
	next = append(next, list[:idx]...)
	next = append(next, list[idx+1:]...)
	if len(next) == 0 {
		delete(r.entries, h.key)
		delete(r.lastFired, h.key)
	} else {
		r.entries[h.key] = next
	}
	r.stats.Unregistrations++

	r.logger.Debug().
		Str("handle", h.String()).
		Str("key", keyString(h.key)).
		Int("remaining", len(next)).
		Msg("handle unregistered")

	if prevTop != h {
		return
	}
	r.notify(h, KindNoLongerActive, 0)
	if len(next) > 0 {
		r.notify(next[0], KindBecameActive, 0)
	}
}

func (r *Registry[K]) setPriority(h *Handle[K], p int) {
	h.priority = p
	if h.state != stateRegistered {
		return
	}
	r.resort(h.key)
}

// resort re-ranks k and announces a change of active handle.
func (r *Registry[K]) resort(k K) {
	list := r.entries[k]
	if len(list) < 2 {
		return
	}

	prevTop := list[0]
	// Equal priorities rank by registration order, however often the key is re-sorted.
	sort.SliceStable(list, func(i, j int) bool {
		if list[i].priority != list[j].priority {
			return list[i].priority > list[j].priority
		}
		return list[i].id < list[j].id
	})
	curTop := list[0]

	if curTop == prevTop {
		return
	}
	r.logger.Debug().
		Str("key", keyString(k)).
		Str("from", prevTop.String()).
		Str("to", curTop.String()).
		Int("priority", curTop.priority).
		Msg("active handle changed")

	r.notify(prevTop, KindNoLongerActive, 0)
	r.notify(curTop, KindBecameActive, 0)
}

// fire delivers OnFired to the active handle of k unless k already fired
// during tick.
func (r *Registry[K]) fire(tick uint64, k K) bool {
	list := r.entries[k]
	if len(list) == 0 {
		return false
	}
	if last, ok := r.lastFired[k]; ok && last == tick {
		r.stats.DuplicateFires++
		return false
	}
	r.lastFired[k] = tick

	top := list[0]
	r.logger.Trace().
		Str("handle", top.String()).
		Str("key", keyString(k)).
		Uint64("tick", tick).
		Msg("trigger fired")
	r.notify(top, KindFired, tick)
	return true
}

func (r *Registry[K]) notify(h *Handle[K], kind Kind, tick uint64) {
	switch kind {
	case KindFired:
		r.stats.Fired++
	case KindBecameActive:
		r.stats.BecameActive++
	case KindNoLongerActive:
		r.stats.NoLongerActive++
	}

	sink := h.sink(kind)
	if sink.Len() == 0 {
		return
	}

	r.depth++
	defer func() { r.depth-- }()

	n := Notification[K]{Kind: kind, Handle: h, Tick: tick}
	sink.emit(n, func(id SubscriptionID, recovered any) {
		r.stats.Panics++
		r.panicHandler(&CallbackPanicError{
			Handle:         h.String(),
			Kind:           kind,
			SubscriptionID: id,
			Value:          recovered,
			Stack:          string(debug.Stack()),
		})
	})
}

func (r *Registry[K]) delivering() bool {
	return r.depth > 0
}

func (r *Registry[K]) enqueue(op func()) {
	r.stats.Deferred++
	r.pending = append(r.pending, op)
}

// flush replays queued mutations in order. Mutations queued during replay are
// appended and replayed in the same pass.
func (r *Registry[K]) flush() {
	if r.flushing || r.delivering() {
		return
	}
	r.flushing = true
	defer func() { r.flushing = false }()

	for len(r.pending) > 0 {
		op := r.pending[0]
		r.pending[0] = nil
		r.pending = r.pending[1:]
		op()
	}
	r.pending = nil
}

func (r *Registry[K]) logPanic(err *CallbackPanicError) {
	r.logger.Error().
		Err(err).
		Str("handle", err.Handle).
		Str("sink", err.Kind.String()).
		Str("stack", err.Stack).
		Msg("callback panicked")
}

func keyString(k any) string {
	if s, ok := k.(fmt.Stringer); ok {
		return s.String()
	}
	return fmt.Sprint(k)
}
