package source

import (
	"errors"
	"sync"
	"sync/atomic"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/keyclaim/internal/input/key"
)

// ErrClosed is returned when starting a terminal source that was closed.
var ErrClosed = errors.New("terminal source is closed")

const defaultBufferSize = 256

// Terminal reads key presses from a tcell screen. A background goroutine pumps
// PollEvent into a bounded buffer that the host loop drains once per tick.
type Terminal struct {
	screen tcell.Screen
	events chan key.Event

	mu      sync.Mutex
	started bool
	closed  bool
	wg      sync.WaitGroup

	dropped  atomic.Uint64
	onResize func(width, height int)
}

// TerminalOption configures a Terminal.
type TerminalOption func(*Terminal)

// WithBufferSize sets how many key presses may queue between drains.
func WithBufferSize(n int) TerminalOption {
	return func(t *Terminal) {
		if n > 0 {
			t.events = make(chan key.Event, n)
		}
	}
}

// WithResizeHandler sets a callback for terminal resize events. It runs on the
// pump goroutine.
func WithResizeHandler(fn func(width, height int)) TerminalOption {
	return func(t *Terminal) {
		t.onResize = fn
	}
}

// NewTerminal wraps screen. The screen is initialized by Start.
func NewTerminal(screen tcell.Screen, opts ...TerminalOption) *Terminal {
	t := &Terminal{
		screen: screen,
		events: make(chan key.Event, defaultBufferSize),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Screen returns the underlying tcell screen.
func (t *Terminal) Screen() tcell.Screen {
	return t.screen
}

// Start initializes the screen and begins pumping events.
func (t *Terminal) Start() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return ErrClosed
	}
	if t.started {
		return nil
	}
	if err := t.screen.Init(); err != nil {
		return err
	}
	t.started = true

	t.wg.Add(1)
	go t.pump()
	return nil
}

// Close finalizes the screen and waits for the pump goroutine to exit.
func (t *Terminal) Close() {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return
	}
	t.closed = true
	started := t.started
	t.mu.Unlock()

	if started {
		t.screen.Fini()
		t.wg.Wait()
	}
}

// Dropped returns the number of key presses discarded because the buffer was full.
func (t *Terminal) Dropped() uint64 {
	return t.dropped.Load()
}

// Drain returns the triggers pressed since the previous call without blocking.
func (t *Terminal) Drain() []key.Trigger {
	var out []key.Trigger
	for {
		select {
		case ev := <-t.events:
			out = append(out, ev.Trigger())
		default:
			return out
		}
	}
}

func (t *Terminal) pump() {
	defer t.wg.Done()
	for {
		ev := t.screen.PollEvent()
		if ev == nil {
			// Screen finalized.
			return
		}
		switch e := ev.(type) {
		case *tcell.EventKey:
			ke, ok := convertKey(e)
			if !ok {
				continue
			}
			select {
			case t.events <- ke:
			default:
				t.dropped.Add(1)
			}
		case *tcell.EventResize:
			if t.onResize != nil {
				w, h := e.Size()
				t.onResize(w, h)
			}
		}
	}
}

// convertKey maps a tcell key event to a key.Event.
func convertKey(e *tcell.EventKey) (key.Event, bool) {
	mods := convertMod(e.Modifiers())
	k := e.Key()

	switch k {
	case tcell.KeyRune:
		return key.NewEvent(key.KeyRune, e.Rune(), mods), true
	case tcell.KeyEscape:
		return key.NewEvent(key.KeyEscape, 0, mods), true
	case tcell.KeyEnter:
		return key.NewEvent(key.KeyEnter, 0, mods), true
	case tcell.KeyTab:
		return key.NewEvent(key.KeyTab, 0, mods), true
	case tcell.KeyBacktab:
		return key.NewEvent(key.KeyTab, 0, mods.With(key.ModShift)), true
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		return key.NewEvent(key.KeyBackspace, 0, mods), true
	}

	if special, ok := specialKeys[k]; ok {
		return key.NewEvent(special, 0, mods), true
	}
	if k >= tcell.KeyF1 && k <= tcell.KeyF12 {
		return key.NewEvent(key.KeyF1+key.Key(k-tcell.KeyF1), 0, mods), true
	}
	if k >= tcell.KeyCtrlA && k <= tcell.KeyCtrlZ {
		r := rune('a' + (k - tcell.KeyCtrlA))
		return key.NewEvent(key.KeyRune, r, mods.With(key.ModCtrl)), true
	}
	if k == tcell.KeyCtrlSpace {
		return key.NewEvent(key.KeyRune, ' ', mods.With(key.ModCtrl)), true
	}
	return key.Event{}, false
}

var specialKeys = map[tcell.Key]key.Key{
	tcell.KeyDelete: key.KeyDelete,
	tcell.KeyInsert: key.KeyInsert,
	tcell.KeyHome:   key.KeyHome,
	tcell.KeyEnd:    key.KeyEnd,
	tcell.KeyPgUp:   key.KeyPageUp,
	tcell.KeyPgDn:   key.KeyPageDown,
	tcell.KeyUp:     key.KeyUp,
	tcell.KeyDown:   key.KeyDown,
	tcell.KeyLeft:   key.KeyLeft,
	tcell.KeyRight:  key.KeyRight,
}

// convertMod converts a tcell modifier mask to key modifiers.
func convertMod(m tcell.ModMask) key.Modifier {
	var result key.Modifier
	if m&tcell.ModShift != 0 {
		result = result.With(key.ModShift)
	}
	if m&tcell.ModCtrl != 0 {
		result = result.With(key.ModCtrl)
	}
	if m&tcell.ModAlt != 0 {
		result = result.With(key.ModAlt)
	}
	if m&tcell.ModMeta != 0 {
		result = result.With(key.ModMeta)
	}
	return result
}
