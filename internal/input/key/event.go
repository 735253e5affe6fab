package key

import (
	"time"
)

// Event represents a single key press reported by the terminal.
type Event struct {
	// Key identifies the key pressed.
	Key Key

	// Rune is the character for KeyRune events.
	Rune rune

	// Modifiers contains the active modifier keys.
	Modifiers Modifier

	// Timestamp is when the event occurred.
	Timestamp time.Time
}

// NewEvent creates a key event with the current timestamp.
func NewEvent(k Key, r rune, mods Modifier) Event {
	return Event{
		Key:       k,
		Rune:      r,
		Modifiers: mods,
		Timestamp: time.Now(),
	}
}

// Trigger returns the normalized trigger this event fires.
func (e Event) Trigger() Trigger {
	if e.Key == KeyRune {
		return NewRuneTrigger(e.Rune, e.Modifiers)
	}
	return NewTrigger(e.Key, e.Modifiers)
}

// String returns the canonical specification of the event's trigger.
func (e Event) String() string {
	return e.Trigger().String()
}
