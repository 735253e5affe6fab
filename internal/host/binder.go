package host

import (
	"errors"
	"fmt"
	"sort"

	"github.com/rs/zerolog"

	"github.com/dshills/keyclaim/internal/action"
	"github.com/dshills/keyclaim/internal/config"
	"github.com/dshills/keyclaim/internal/input/key"
	"github.com/dshills/keyclaim/internal/priority"
)

// Binder owns the handles created from configured bindings.
// Like the registry, it is not safe for concurrent use.
type Binder struct {
	registry *priority.Registry[key.Trigger]
	engine   *action.Engine
	logger   zerolog.Logger

	bound map[string]*binding
}

type binding struct {
	cfg     config.Binding
	handle  *priority.Handle[key.Trigger]
	actions map[priority.Kind]*action.Action
}

// BinderOption configures a Binder.
type BinderOption func(*Binder)

// WithEngine enables Lua actions. Without an engine, action sources in the
// bindings are ignored.
func WithEngine(e *action.Engine) BinderOption {
	return func(b *Binder) {
		b.engine = e
	}
}

// WithBinderLogger sets the logger used for binding activity.
func WithBinderLogger(logger zerolog.Logger) BinderOption {
	return func(b *Binder) {
		b.logger = logger
	}
}

// NewBinder creates a binder that registers into reg.
func NewBinder(reg *priority.Registry[key.Trigger], opts ...BinderOption) *Binder {
	b := &Binder{
		registry: reg,
		logger:   zerolog.Nop(),
		bound:    make(map[string]*binding),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Apply brings the registry in line with bindings. Bindings must have been
// validated so their Trigger is set.
//
// Bindings that disappeared are unregistered and new ones registered in the
// given order. A changed priority is applied with SetPriority. A changed key or
// claim_top re-registers the binding. Changed actions are recompiled in place.
// A binding whose actions fail to compile is skipped; its error is returned
// joined with any others after the rest of the set has been applied.
func (b *Binder) Apply(bindings []config.Binding) error {
	want := make(map[string]bool, len(bindings))
	for _, cfg := range bindings {
		want[cfg.Name] = true
	}

	for _, name := range b.Names() {
		if !want[name] {
			b.remove(name)
		}
	}

	var errs []error
	for _, cfg := range bindings {
		if err := b.apply(cfg); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (b *Binder) apply(cfg config.Binding) error {
	actions, err := b.compile(cfg)
	if err != nil {
		return err
	}

	cur, ok := b.bound[cfg.Name]
	if !ok {
		b.add(cfg, actions)
		return nil
	}

	if cur.cfg.Trigger != cfg.Trigger || cur.cfg.ClaimTop != cfg.ClaimTop {
		b.remove(cfg.Name)
		b.add(cfg, actions)
		return nil
	}

	cur.actions = actions
	if cur.cfg.Priority != cfg.Priority && !cfg.ClaimTop {
		cur.handle.SetPriority(cfg.Priority)
		b.logger.Debug().
			Str("binding", cfg.Name).
			Int("from", cur.cfg.Priority).
			Int("to", cfg.Priority).
			Msg("binding priority changed")
	}
	cur.cfg = cfg
	return nil
}

func (b *Binder) add(cfg config.Binding, actions map[priority.Kind]*action.Action) {
	bd := &binding{cfg: cfg, actions: actions}
	opts := []priority.RegisterOption{
		priority.WithName(cfg.Name),
		priority.WithOnFired(func(n priority.Notification[key.Trigger]) { b.notify(bd, n) }),
		priority.WithOnBecameActive(func(n priority.Notification[key.Trigger]) { b.notify(bd, n) }),
		priority.WithOnNoLongerActive(func(n priority.Notification[key.Trigger]) { b.notify(bd, n) }),
	}
	if cfg.ClaimTop {
		opts = append(opts, priority.WithClaimTop())
	}
	b.bound[cfg.Name] = bd
	bd.handle = b.registry.Register(cfg.Trigger, cfg.Priority, opts...)
}

func (b *Binder) remove(name string) {
	bd, ok := b.bound[name]
	if !ok {
		return
	}
	delete(b.bound, name)
	if err := bd.handle.Unregister(); err != nil {
		b.logger.Warn().Err(err).Str("binding", name).Msg("unregister failed")
	}
}

func (b *Binder) compile(cfg config.Binding) (map[priority.Kind]*action.Action, error) {
	if b.engine == nil {
		return nil, nil
	}
	sources := map[priority.Kind]string{
		priority.KindFired:          cfg.OnFired,
		priority.KindBecameActive:   cfg.OnBecameActive,
		priority.KindNoLongerActive: cfg.OnNoLongerActive,
	}

	actions := make(map[priority.Kind]*action.Action)
	for kind, src := range sources {
		if src == "" {
			continue
		}
		a, err := b.engine.Compile(cfg.Name+"."+kind.String(), src)
		if err != nil {
			return nil, fmt.Errorf("binding %q: %w", cfg.Name, err)
		}
		actions[kind] = a
	}
	return actions, nil
}

func (b *Binder) notify(bd *binding, n priority.Notification[key.Trigger]) {
	ev := b.logger.Debug()
	if n.Kind == priority.KindFired {
		ev = b.logger.Info().Uint64("tick", n.Tick)
	}
	ev.Str("binding", bd.cfg.Name).
		Str("trigger", n.Handle.Key().String()).
		Int("priority", n.Handle.Priority()).
		Msg(n.Kind.String())

	a := bd.actions[n.Kind]
	if a == nil {
		return
	}
	err := a.Run(action.Invocation{
		Binding: bd.cfg.Name,
		Event:   n.Kind.String(),
		Tick:    n.Tick,
	})
	if err != nil {
		b.logger.Warn().Err(err).Str("binding", bd.cfg.Name).Msg("action failed")
	}
}

// Handle returns the registry handle of the named binding.
func (b *Binder) Handle(name string) (*priority.Handle[key.Trigger], bool) {
	bd, ok := b.bound[name]
	if !ok {
		return nil, false
	}
	return bd.handle, true
}

// Names returns the bound binding names in sorted order.
func (b *Binder) Names() []string {
	names := make([]string, 0, len(b.bound))
	for name := range b.bound {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of bound bindings.
func (b *Binder) Len() int {
	return len(b.bound)
}

// Close unregisters every binding.
func (b *Binder) Close() {
	for _, name := range b.Names() {
		b.remove(name)
	}
}
