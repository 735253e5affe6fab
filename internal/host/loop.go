package host

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/dshills/keyclaim/internal/input/key"
	"github.com/dshills/keyclaim/internal/input/source"
	"github.com/dshills/keyclaim/internal/priority"
)

// DefaultTickRate is used when no tick rate is configured.
const DefaultTickRate = 16 * time.Millisecond

// Tick summarizes one loop iteration.
type Tick struct {
	Number   uint64
	Triggers []key.Trigger
	Fired    int
}

// Loop polls a key source once per tick and dispatches to a registry.
type Loop struct {
	registry *priority.Registry[key.Trigger]
	source   source.Source
	tickRate time.Duration
	logger   zerolog.Logger

	quit    key.Trigger
	hasQuit bool
	onTick  func(Tick)

	// mu serializes ticks with Do.
	mu        sync.Mutex
	tick      uint64
	quitting  bool
	running   atomic.Bool
	rateReset chan time.Duration
}

// LoopOption configures a Loop.
type LoopOption func(*Loop)

// WithTickRate sets the loop period.
func WithTickRate(d time.Duration) LoopOption {
	return func(l *Loop) {
		if d > 0 {
			l.tickRate = d
		}
	}
}

// WithLogger sets the loop logger.
func WithLogger(logger zerolog.Logger) LoopOption {
	return func(l *Loop) {
		l.logger = logger
	}
}

// WithQuitTrigger makes Run return after a tick in which t was pressed.
// The trigger is still dispatched to the registry.
func WithQuitTrigger(t key.Trigger) LoopOption {
	return func(l *Loop) {
		l.quit = t
		l.hasQuit = true
	}
}

// WithTickHook registers fn to run at the end of every tick, on the loop
// goroutine.
func WithTickHook(fn func(Tick)) LoopOption {
	return func(l *Loop) {
		l.onTick = fn
	}
}

// NewLoop creates a loop over reg fed by src.
func NewLoop(reg *priority.Registry[key.Trigger], src source.Source, opts ...LoopOption) (*Loop, error) {
	if src == nil {
		return nil, ErrNoSource
	}
	l := &Loop{
		registry:  reg,
		source:    src,
		tickRate:  DefaultTickRate,
		logger:    zerolog.Nop(),
		rateReset: make(chan time.Duration, 1),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l, nil
}

// Registry returns the registry the loop dispatches to.
func (l *Loop) Registry() *priority.Registry[key.Trigger] {
	return l.registry
}

// Tick returns the number of the last completed tick.
func (l *Loop) Tick() uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.tick
}

// TickRate returns the current loop period.
func (l *Loop) TickRate() time.Duration {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.tickRate
}

// SetTickRate changes the loop period. A running loop picks it up on its next
// tick.
func (l *Loop) SetTickRate(d time.Duration) {
	if d <= 0 {
		return
	}
	l.mu.Lock()
	changed := l.tickRate != d
	l.tickRate = d
	l.mu.Unlock()

	if !changed {
		return
	}
	select {
	case l.rateReset <- d:
	default:
		// A reset is already pending; the ticker reads tickRate when it fires.
	}
}

// Do runs fn with exclusive access to the registry, between ticks.
func (l *Loop) Do(fn func(reg *priority.Registry[key.Trigger])) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fn(l.registry)
}

// Step runs exactly one tick and returns the number of handles that fired.
func (l *Loop) Step() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.step()
}

func (l *Loop) step() int {
	l.tick++
	tick := l.tick

	triggers := l.source.Drain()
	pressed := make(map[key.Trigger]bool, len(triggers))
	for _, t := range triggers {
		pressed[t] = true
		if l.hasQuit && t == l.quit {
			l.quitting = true
		}
		if !l.registry.Has(t) {
			l.logger.Trace().
				Str("trigger", t.String()).
				Uint64("tick", tick).
				Msg("unbound trigger")
		}
	}

	fired := 0
	if len(pressed) > 0 {
		fired = l.registry.DispatchTick(tick, func(t key.Trigger) bool {
			return pressed[t]
		})
	}

	if l.onTick != nil {
		l.onTick(Tick{Number: tick, Triggers: triggers, Fired: fired})
	}
	return fired
}

// Run ticks until ctx is cancelled or the quit trigger is pressed.
// It returns nil on a clean stop.
func (l *Loop) Run(ctx context.Context) error {
	if !l.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer l.running.Store(false)

	ticker := time.NewTicker(l.TickRate())
	defer ticker.Stop()

	l.logger.Info().Dur("tick_rate", l.TickRate()).Msg("loop started")
	defer func() {
		l.logger.Info().Uint64("ticks", l.Tick()).Msg("loop stopped")
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case d := <-l.rateReset:
			ticker.Reset(d)
			l.logger.Debug().Dur("tick_rate", d).Msg("tick rate changed")

		case <-ticker.C:
			l.mu.Lock()
			l.step()
			quit := l.quitting
			l.mu.Unlock()
			if quit {
				l.logger.Debug().Msg("quit trigger pressed")
				return nil
			}
		}
	}
}
