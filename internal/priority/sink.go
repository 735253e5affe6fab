package priority

import (
	"github.com/google/uuid"
)

// Kind identifies which sink a notification was delivered through.
type Kind int

const (
	// KindFired is delivered when the trigger fires while the handle is active.
	KindFired Kind = iota

	// KindBecameActive is delivered when the handle moves to the front of its key.
	KindBecameActive

	// KindNoLongerActive is delivered when the handle leaves the front of its key.
	KindNoLongerActive
)

// String returns a human-readable kind name.
func (k Kind) String() string {
	switch k {
	case KindFired:
		return "fired"
	case KindBecameActive:
		return "became-active"
	case KindNoLongerActive:
		return "no-longer-active"
	default:
		return "unknown"
	}
}

// Notification is passed to every subscriber of a sink.
type Notification[K comparable] struct {
	// Kind is the sink being delivered.
	Kind Kind

	// Handle is the handle the notification concerns.
	Handle *Handle[K]

	// Tick is the host tick for KindFired notifications and zero otherwise.
	Tick uint64
}

// Callback receives notifications from a Sink.
type Callback[K comparable] func(Notification[K])

// SubscriptionID identifies a subscriber within a Sink.
type SubscriptionID string

type subscriber[K comparable] struct {
	id SubscriptionID
	fn Callback[K]
}

// Sink is a multi-subscriber notification point. Subscribers are called in
// subscription order, although callers should not depend on that.
type Sink[K comparable] struct {
	kind Kind
	subs []subscriber[K]
}

// Subscribe adds fn to the sink and returns an id usable with Unsubscribe.
// A nil fn is ignored and yields an empty id.
func (s *Sink[K]) Subscribe(fn Callback[K]) SubscriptionID {
	if fn == nil {
		return ""
	}
	id := SubscriptionID(uuid.New().String())
	s.subs = append(s.subs, subscriber[K]{id: id, fn: fn})
	return id
}

// Unsubscribe removes the subscriber with the given id.
// Returns false if no such subscriber exists.
func (s *Sink[K]) Unsubscribe(id SubscriptionID) bool {
	for i, sub := range s.subs {
		if sub.id != id {
			continue
		}
		// Copy rather than shift in place so an in-flight emit keeps its view.
		next := make([]subscriber[K], 0, len(s.subs)-1)
		next = append(next, s.subs[:i]...)
		next = append(next, s.subs[i+1:]...)
		s.subs = next
		return true
	}
	return false
}

// Len returns the number of subscribers.
func (s *Sink[K]) Len() int {
	return len(s.subs)
}

// Kind returns the kind of notification this sink delivers.
func (s *Sink[K]) Kind() Kind {
	return s.kind
}

// emit calls every subscriber registered at the time of the call. A panicking
// subscriber is reported through recovered and does not stop the others.
func (s *Sink[K]) emit(n Notification[K], recovered func(SubscriptionID, any)) int {
	subs := s.subs
	for _, sub := range subs {
		s.call(sub, n, recovered)
	}
	return len(subs)
}

func (s *Sink[K]) call(sub subscriber[K], n Notification[K], recovered func(SubscriptionID, any)) {
	defer func() {
		if r := recover(); r != nil && recovered != nil {
			recovered(sub.id, r)
		}
	}()
	sub.fn(n)
}
