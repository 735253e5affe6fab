package priority

import (
	"github.com/rs/zerolog"
)

// NoPriority is returned by TopPriority when a key has no registered handles.
const NoPriority = -1

// Option configures a Registry.
type Option func(*registryConfig)

type registryConfig struct {
	logger       zerolog.Logger
	panicHandler PanicHandler
}

// PanicHandler is called when a subscriber panics during delivery.
type PanicHandler func(err *CallbackPanicError)

func defaultRegistryConfig() registryConfig {
	return registryConfig{
		logger: zerolog.Nop(),
	}
}

// WithLogger sets the logger used for registration and transition events.
func WithLogger(l zerolog.Logger) Option {
	return func(c *registryConfig) {
		c.logger = l
	}
}

// WithPanicHandler sets the handler invoked when a subscriber panics.
// By default panics are logged at error level.
func WithPanicHandler(h PanicHandler) Option {
	return func(c *registryConfig) {
		c.panicHandler = h
	}
}

// RegisterOption configures a single registration.
type RegisterOption func(*registerConfig)

type registerConfig struct {
	name     string
	claimTop bool
	subs     []pendingSub
}

type pendingSub struct {
	kind Kind
	fn   any
}

// WithName names the handle for logs and diagnostics.
func WithName(name string) RegisterOption {
	return func(c *registerConfig) {
		c.name = name
	}
}

// WithClaimTop makes the handle claim the front of its key on registration by
// taking the current top priority plus one.
func WithClaimTop() RegisterOption {
	return func(c *registerConfig) {
		c.claimTop = true
	}
}

// WithOnFired subscribes fn to the handle's OnFired sink before registration.
func WithOnFired[K comparable](fn func(Notification[K])) RegisterOption {
	return withSub(KindFired, fn)
}

// WithOnBecameActive subscribes fn to OnBecameActive before registration, so it
// observes the initial status signal.
func WithOnBecameActive[K comparable](fn func(Notification[K])) RegisterOption {
	return withSub(KindBecameActive, fn)
}

// WithOnNoLongerActive subscribes fn to OnNoLongerActive before registration, so
// it observes the initial status signal.
func WithOnNoLongerActive[K comparable](fn func(Notification[K])) RegisterOption {
	return withSub(KindNoLongerActive, fn)
}

func withSub[K comparable](kind Kind, fn func(Notification[K])) RegisterOption {
	return func(c *registerConfig) {
		if fn != nil {
			c.subs = append(c.subs, pendingSub{kind: kind, fn: fn})
		}
	}
}
