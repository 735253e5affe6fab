package priority

// Dispatch reports whether the trigger for k fired during tick. If it did, the
// active handle of k receives OnFired, unless k already fired for this tick.
// It reports whether a handle was notified.
func (r *Registry[K]) Dispatch(tick uint64, k K, fired bool) bool {
	if !fired {
		return false
	}
	ok := r.fire(tick, k)
	r.flush()
	return ok
}

// DispatchTick evaluates every registered key once for tick, asking fired
// whether its trigger fired. Mutations requested by OnFired callbacks are
// applied after all keys have been evaluated. Returns the number of handles
// notified.
func (r *Registry[K]) DispatchTick(tick uint64, fired func(K) bool) int {
	if fired == nil {
		return 0
	}

	count := 0
	for _, k := range r.Keys() {
		if !fired(k) {
			continue
		}
		if r.fireDeferred(tick, k) {
			count++
		}
	}
	r.flush()
	return count
}

// fireDeferred fires k while holding back replay of queued mutations, so every
// key in a tick is evaluated against the same ranking.
func (r *Registry[K]) fireDeferred(tick uint64, k K) bool {
	r.depth++
	defer func() { r.depth-- }()
	return r.fire(tick, k)
}
