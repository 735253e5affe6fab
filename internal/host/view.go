package host

import (
	"fmt"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/keyclaim/internal/input/key"
	"github.com/dshills/keyclaim/internal/priority"
)

// View draws the current ranking and recent activity on a tcell screen.
type View struct {
	screen   tcell.Screen
	registry *priority.Registry[key.Trigger]

	recent    []string
	maxRecent int

	header tcell.Style
	active tcell.Style
	normal tcell.Style
}

// NewView creates a view over reg.
func NewView(screen tcell.Screen, reg *priority.Registry[key.Trigger]) *View {
	return &View{
		screen:    screen,
		registry:  reg,
		maxRecent: 8,
		header:    tcell.StyleDefault.Bold(true),
		active:    tcell.StyleDefault.Foreground(tcell.ColorGreen),
		normal:    tcell.StyleDefault,
	}
}

// Record adds a line to the activity log shown under the ranking.
func (v *View) Record(line string) {
	v.recent = append(v.recent, line)
	if len(v.recent) > v.maxRecent {
		v.recent = v.recent[len(v.recent)-v.maxRecent:]
	}
}

// Render redraws the screen for tick. It is meant to be used as a tick hook.
func (v *View) Render(t Tick) {
	if len(t.Triggers) > 0 {
		for _, trig := range t.Triggers {
			v.Record(fmt.Sprintf("tick %d: %s", t.Number, trig))
		}
	}

	v.screen.Clear()
	width, height := v.screen.Size()

	y := 0
	v.line(0, y, width, v.header, fmt.Sprintf("keyclaim  tick %d  (Ctrl+C to quit)", t.Number))
	y += 2

	for _, kr := range Ranking(v.registry) {
		if y >= height {
			break
		}
		v.line(0, y, width, v.header, kr.Trigger.String())
		y++
		for _, e := range kr.Entries {
			if y >= height {
				break
			}
			style := v.normal
			mark := " "
			if e.Active {
				style = v.active
				mark = "*"
			}
			v.line(2, y, width, style, fmt.Sprintf("%s %s (%d)", mark, e.Name, e.Priority))
			y++
		}
	}

	y++
	for _, r := range v.recent {
		if y >= height {
			break
		}
		v.line(0, y, width, v.normal, r)
		y++
	}

	v.screen.Show()
}

func (v *View) line(x, y, width int, style tcell.Style, s string) {
	for _, r := range s {
		if x >= width {
			return
		}
		v.screen.SetContent(x, y, r, nil, style)
		x++
	}
}
