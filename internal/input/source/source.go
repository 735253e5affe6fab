// Package source supplies the host loop with the triggers pressed each tick.
package source

import (
	"sync"

	"github.com/dshills/keyclaim/internal/input/key"
)

// Source reports the triggers pressed since the previous Drain.
type Source interface {
	Drain() []key.Trigger
}

// Scripted is an in-memory Source. It is safe for concurrent use.
type Scripted struct {
	mu      sync.Mutex
	pending []key.Trigger
}

// NewScripted creates a source preloaded with triggers for the first drain.
func NewScripted(triggers ...key.Trigger) *Scripted {
	return &Scripted{pending: append([]key.Trigger(nil), triggers...)}
}

// Push queues triggers for the next drain.
func (s *Scripted) Push(triggers ...key.Trigger) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending = append(s.pending, triggers...)
}

// Drain returns and clears the queued triggers.
func (s *Scripted) Drain() []key.Trigger {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.pending
	s.pending = nil
	return out
}
