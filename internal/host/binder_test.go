package host

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/dshills/keyclaim/internal/action"
	"github.com/dshills/keyclaim/internal/input/key"
	"github.com/dshills/keyclaim/internal/priority"
)

const baseBindings = `
[[binding]]
name = "menu"
key = "Esc"

[[binding]]
name = "dialog"
key = "Esc"
priority = 5

[[binding]]
name = "save"
key = "Ctrl+S"
`

func TestBinder_Apply(t *testing.T) {
	reg := priority.New[key.Trigger]()
	b := NewBinder(reg)

	if err := b.Apply(parseBindings(t, baseBindings)); err != nil {
		t.Fatalf("Apply: %v", err)
	}

	if b.Len() != 3 {
		t.Errorf("expected 3 bindings, got %d", b.Len())
	}
	dialog, ok := b.Handle("dialog")
	if !ok || !dialog.IsTop() {
		t.Error("expected dialog to be active on Esc")
	}
	if reg.TopPriority(key.MustParseTrigger("<C-s>")) != 0 {
		t.Error("expected save registered on Ctrl+S")
	}
	if _, ok := b.Handle("missing"); ok {
		t.Error("expected unknown binding to be absent")
	}
}

func TestBinder_ApplyDiff(t *testing.T) {
	reg := priority.New[key.Trigger]()
	b := NewBinder(reg)
	if err := b.Apply(parseBindings(t, baseBindings)); err != nil {
		t.Fatal(err)
	}
	menu, _ := b.Handle("menu")
	save, _ := b.Handle("save")

	err := b.Apply(parseBindings(t, `
[[binding]]
name = "menu"
key = "Esc"
priority = 9

[[binding]]
name = "save"
key = "F2"

[[binding]]
name = "help"
key = "F1"
`))
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}

	if got := b.Names(); strings.Join(got, ",") != "help,menu,save" {
		t.Errorf("unexpected bindings: %v", got)
	}

	// Priority change keeps the handle.
	if h, _ := b.Handle("menu"); h != menu || h.Priority() != 9 || !h.IsTop() {
		t.Error("expected menu to keep its handle and become active")
	}

	// Key change re-registers.
	newSave, _ := b.Handle("save")
	if newSave == save {
		t.Error("expected save to be re-registered")
	}
	if save.Registered() {
		t.Error("expected old save handle to be unregistered")
	}
	if reg.Has(key.MustParseTrigger("Ctrl+S")) {
		t.Error("expected Ctrl+S to have no listeners")
	}
	if newSave.Key() != key.MustParseTrigger("F2") {
		t.Errorf("expected save on F2, got %s", newSave.Key())
	}

	// Removed binding is unregistered.
	if reg.Len(key.MustParseTrigger("Esc")) != 1 {
		t.Errorf("expected only menu on Esc, got %d", reg.Len(key.MustParseTrigger("Esc")))
	}
}

func TestBinder_ClaimTop(t *testing.T) {
	reg := priority.New[key.Trigger]()
	b := NewBinder(reg)

	err := b.Apply(parseBindings(t, baseBindings+`
[[binding]]
name = "popup"
key = "Esc"
claim_top = true
`))
	if err != nil {
		t.Fatal(err)
	}

	popup, _ := b.Handle("popup")
	if !popup.IsTop() || popup.Priority() != 6 {
		t.Errorf("expected popup on top with priority 6, got %d", popup.Priority())
	}
}

func TestBinder_Actions(t *testing.T) {
	var buf bytes.Buffer
	engine := action.NewEngine(action.WithLogger(zerolog.New(&buf)))
	defer engine.Close()

	reg := priority.New[key.Trigger]()
	b := NewBinder(reg, WithEngine(engine))

	err := b.Apply(parseBindings(t, `
[[binding]]
name = "menu"
key = "Esc"
on_fired = "log('closing ' .. binding .. ' at ' .. tostring(tick))"
on_no_longer_active = "log(binding .. ' lost Esc')"

[[binding]]
name = "dialog"
key = "Esc"
claim_top = true
`))
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if !strings.Contains(buf.String(), "menu lost Esc") {
		t.Errorf("expected no-longer-active action output, got %s", buf.String())
	}

	dialog, _ := b.Handle("dialog")
	if err := dialog.Unregister(); err != nil {
		t.Fatal(err)
	}
	reg.Dispatch(4, key.MustParseTrigger("Esc"), true)
	if !strings.Contains(buf.String(), "closing menu at 4") {
		t.Errorf("expected fired action output, got %s", buf.String())
	}
}

func TestBinder_CompileErrorSkipsBinding(t *testing.T) {
	engine := action.NewEngine()
	defer engine.Close()

	reg := priority.New[key.Trigger]()
	b := NewBinder(reg, WithEngine(engine))

	err := b.Apply(parseBindings(t, `
[[binding]]
name = "broken"
key = "Esc"
on_fired = "if then"

[[binding]]
name = "fine"
key = "Enter"
`))
	if !errors.Is(err, action.ErrInvalidScript) {
		t.Fatalf("expected ErrInvalidScript, got %v", err)
	}
	if _, ok := b.Handle("broken"); ok {
		t.Error("expected broken binding to be skipped")
	}
	if _, ok := b.Handle("fine"); !ok {
		t.Error("expected remaining bindings to be applied")
	}
}

func TestBinder_Close(t *testing.T) {
	reg := priority.New[key.Trigger]()
	b := NewBinder(reg)
	if err := b.Apply(parseBindings(t, baseBindings)); err != nil {
		t.Fatal(err)
	}

	b.Close()

	if reg.Count() != 0 {
		t.Errorf("expected empty registry, got %d handles", reg.Count())
	}
	if b.Len() != 0 {
		t.Errorf("expected no bindings, got %d", b.Len())
	}
}
