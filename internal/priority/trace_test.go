package priority

import (
	"fmt"
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"
)

// traceStep is one operation in a golden transition trace.
type traceStep struct {
	desc string
	run  func()
}

func runTrace(t *testing.T, name string, rec *recorder, r *Registry[string], key string, steps []traceStep) {
	t.Helper()

	var b strings.Builder
	for _, step := range steps {
		step.run()
		fmt.Fprintf(&b, "> %s\n", step.desc)
		for _, e := range rec.take() {
			fmt.Fprintf(&b, "  %s\n", e)
		}
		fmt.Fprintf(&b, "  top=%d ranking=%v\n", r.TopPriority(key), names(r.Handles(key)))
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, name, []byte(b.String()))
}

func TestTrace_Scenario(t *testing.T) {
	var rec recorder
	r := New[string]()
	var a, b *Handle[string]

	runTrace(t, "scenario", &rec, r, "K", []traceStep{
		{"register A priority=0", func() { a = r.Register("K", 0, rec.options("A")...) }},
		{"register B priority=5", func() { b = r.Register("K", 5, rec.options("B")...) }},
		{"A.SetPriority(10)", func() { a.SetPriority(10) }},
		{"fire tick=1", func() { r.Dispatch(1, "K", true) }},
		{"fire tick=1 again", func() { r.Dispatch(1, "K", true) }},
		{"unregister A", func() { _ = a.Unregister() }},
		{"fire tick=2", func() { r.Dispatch(2, "K", true) }},
		{"unregister B", func() { _ = b.Unregister() }},
	})
}

func TestTrace_ClaimTopStack(t *testing.T) {
	var rec recorder
	r := New[string]()
	var menu, dialog, confirm *Handle[string]

	runTrace(t, "claim_top_stack", &rec, r, "Esc", []traceStep{
		{"register menu priority=0", func() {
			menu = r.Register("Esc", 0, rec.options("menu")...)
		}},
		{"register dialog claim-top", func() {
			dialog = r.Register("Esc", 0, append(rec.options("dialog"), WithClaimTop())...)
		}},
		{"register confirm claim-top", func() {
			confirm = r.Register("Esc", 0, append(rec.options("confirm"), WithClaimTop())...)
		}},
		{"unregister confirm", func() { _ = confirm.Unregister() }},
		{"menu.SetAsTop()", func() { menu.SetAsTop() }},
		{"unregister menu", func() { _ = menu.Unregister() }},
		{"unregister dialog", func() { _ = dialog.Unregister() }},
	})
}
