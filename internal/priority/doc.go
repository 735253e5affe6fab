// Package priority arbitrates exclusive first refusal over shared triggers.
//
// Many listeners may register interest in the same trigger key (for example the
// Escape key). At any moment exactly one of them is active for that key: the
// listener with the highest priority, ties going to the listener registered
// first. Only the active listener is told when the trigger fires.
//
// # Ranking
//
// Each key owns a slice of handles kept in descending priority order. Sorting
// is stable, so equal-priority handles keep their registration order across any
// number of re-sorts:
//
//	reg := priority.New[key.Trigger]()
//	menu := reg.Register(esc, 0, priority.WithName("menu"))
//	dialog := reg.Register(esc, 0, priority.WithClaimTop())  // priority 1, now active
//	dialog.SetPriority(-5)                                    // menu active again
//
// # Transitions
//
// Every handle exposes three sinks:
//
//   - OnBecameActive: the handle moved to the front of its key
//   - OnNoLongerActive: the handle left the front of its key
//   - OnFired: the trigger fired while the handle was active
//
// A freshly registered handle always receives exactly one of OnBecameActive or
// OnNoLongerActive so it learns its initial status. When an active handle is
// unregistered it receives OnNoLongerActive before its successor receives
// OnBecameActive.
//
// # Ticks
//
// The host polls its trigger source once per tick and reports fired keys through
// Dispatch or DispatchTick. A key fires at most once per tick identifier, even if
// the host reports the same tick twice.
//
// # Reentrancy
//
// Callbacks run synchronously inside the operation that caused them. A callback
// that calls Register, Unregister, SetPriority or SetAsTop does not mutate the
// registry in place: the call is queued and replayed in order once the outermost
// operation has finished delivering. Queries made from a callback see the state
// as of the triggering operation.
//
// A Registry is not safe for concurrent use. Drive it from the host loop's
// goroutine.
package priority
