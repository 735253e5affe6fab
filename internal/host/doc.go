// Package host drives a priority registry from real key presses.
//
// A Loop ticks at a fixed rate. On every tick it drains its Source and
// dispatches each trigger that was pressed to the active handle of that
// trigger. A Binder turns configured bindings into registry handles and keeps
// them in sync when the binding file is reloaded. A View renders the current
// ranking to a tcell screen.
//
// The registry is not safe for concurrent use; everything that touches it from
// outside the loop goroutine goes through Loop.Do.
package host
