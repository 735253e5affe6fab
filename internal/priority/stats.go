package priority

// Stats contains registry counters.
type Stats struct {
	// Keys is the number of keys with at least one registered handle.
	Keys int

	// Handles is the number of registered handles across all keys.
	Handles int

	// Registrations is the total number of applied registrations.
	Registrations uint64

	// Unregistrations is the total number of applied unregistrations.
	Unregistrations uint64

	// BecameActive is the number of OnBecameActive notifications.
	BecameActive uint64

	// NoLongerActive is the number of OnNoLongerActive notifications.
	NoLongerActive uint64

	// Fired is the number of OnFired notifications.
	Fired uint64

	// DuplicateFires counts fires suppressed because the key already fired
	// during the same tick.
	DuplicateFires uint64

	// Deferred counts mutations queued because they were requested from a callback.
	Deferred uint64

	// Panics counts subscribers that panicked.
	Panics uint64
}
