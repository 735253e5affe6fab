// Package action runs small Lua snippets attached to bindings.
//
// All actions compiled by one Engine share a single sandboxed Lua state, so
// globals written by one action are visible to the next. Only the base, table,
// string and math libraries are available.
package action

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	lua "github.com/yuin/gopher-lua"
)

// DefaultTimeout bounds a single action run.
const DefaultTimeout = time.Second

// Invocation describes why an action is running.
type Invocation struct {
	Binding string
	Event   string
	Tick    uint64
}

// Engine owns the Lua state shared by its actions. It is safe for concurrent
// use; runs are serialized.
type Engine struct {
	mu      sync.Mutex
	L       *lua.LState
	logger  zerolog.Logger
	timeout time.Duration
	closed  bool

	// current is the action being run, for log().
	current string
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger that receives log() output.
func WithLogger(l zerolog.Logger) Option {
	return func(e *Engine) {
		e.logger = l
	}
}

// WithTimeout bounds each run. Zero disables the limit.
func WithTimeout(d time.Duration) Option {
	return func(e *Engine) {
		e.timeout = d
	}
}

// NewEngine creates a sandboxed Lua engine.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		logger:  zerolog.Nop(),
		timeout: DefaultTimeout,
	}
	for _, opt := range opts {
		opt(e)
	}

	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)
	for _, name := range []string{"dofile", "loadfile", "load", "loadstring", "require", "module"} {
		L.SetGlobal(name, lua.LNil)
	}
	L.SetGlobal("log", L.NewFunction(e.luaLog))

	e.L = L
	return e
}

// Compile parses src and returns an action bound to this engine.
func (e *Engine) Compile(name, src string) (*Action, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return nil, ErrEngineClosed
	}
	fn, err := e.L.LoadString(src)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidScript, name, err)
	}
	return &Action{engine: e, name: name, fn: fn}, nil
}

// Close releases the Lua state. Further runs fail with ErrEngineClosed.
func (e *Engine) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return
	}
	e.closed = true
	e.L.Close()
}

func (e *Engine) run(a *Action, inv Invocation) (err error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return ErrEngineClosed
	}

	L := e.L
	L.SetGlobal("binding", lua.LString(inv.Binding))
	L.SetGlobal("event", lua.LString(inv.Event))
	L.SetGlobal("tick", lua.LNumber(inv.Tick))

	if e.timeout > 0 {
		ctx, cancel := context.WithTimeout(context.Background(), e.timeout)
		defer cancel()
		L.SetContext(ctx)
		defer L.RemoveContext()
	}

	e.current = a.name
	defer func() { e.current = "" }()

	top := L.GetTop()
	defer L.SetTop(top)

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %s: lua panic: %v", ErrActionFailed, a.name, r)
		}
	}()

	L.Push(a.fn)
	if perr := L.PCall(0, lua.MultRet, nil); perr != nil {
		return fmt.Errorf("%w: %s: %v", ErrActionFailed, a.name, perr)
	}
	return nil
}

// luaLog implements log(msg) for scripts.
func (e *Engine) luaLog(L *lua.LState) int {
	msg := L.CheckString(1)
	e.logger.Info().
		Str("action", e.current).
		Str("binding", L.GetGlobal("binding").String()).
		Msg(msg)
	return 0
}

// Action is a compiled Lua snippet.
type Action struct {
	engine *Engine
	name   string
	fn     *lua.LFunction
}

// Name returns the name given to Compile.
func (a *Action) Name() string {
	return a.name
}

// Run executes the action with binding, event and tick set as globals.
func (a *Action) Run(inv Invocation) error {
	return a.engine.run(a, inv)
}
