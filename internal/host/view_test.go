package host

import (
	"strings"
	"testing"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/keyclaim/internal/input/key"
	"github.com/dshills/keyclaim/internal/priority"
)

func screenRow(s tcell.Screen, y int) string {
	width, _ := s.Size()
	var b strings.Builder
	for x := 0; x < width; x++ {
		r, _, _, _ := s.GetContent(x, y) //nolint:staticcheck // GetContent is the correct API
		if r == 0 {
			r = ' '
		}
		b.WriteRune(r)
	}
	return strings.TrimRight(b.String(), " ")
}

func TestView_Render(t *testing.T) {
	screen := tcell.NewSimulationScreen("UTF-8")
	if err := screen.Init(); err != nil {
		t.Fatal(err)
	}
	defer screen.Fini()
	screen.SetSize(60, 20)

	reg := priority.New[key.Trigger]()
	b := NewBinder(reg)
	if err := b.Apply(parseBindings(t, baseBindings)); err != nil {
		t.Fatal(err)
	}

	v := NewView(screen, reg)
	v.Render(Tick{Number: 12, Triggers: []key.Trigger{key.MustParseTrigger("Esc")}, Fired: 1})

	want := []string{
		"keyclaim  tick 12  (Ctrl+C to quit)",
		"",
		"Ctrl+s",
		"  * save (0)",
		"Esc",
		"  * dialog (5)",
		"    menu (0)",
		"",
		"tick 12: Esc",
	}
	for y, line := range want {
		if got := screenRow(screen, y); got != line {
			t.Errorf("row %d = %q, want %q", y, got, line)
		}
	}
}

func TestView_RecentIsBounded(t *testing.T) {
	v := NewView(tcell.NewSimulationScreen("UTF-8"), priority.New[key.Trigger]())
	for i := 0; i < 20; i++ {
		v.Record("line")
	}
	if len(v.recent) != v.maxRecent {
		t.Errorf("expected %d recent lines, got %d", v.maxRecent, len(v.recent))
	}
}
