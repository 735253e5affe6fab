package priority

import (
	"fmt"
)

// recorder collects notifications as "name:kind" strings in delivery order.
type recorder struct {
	events []string
}

func (rec *recorder) options(name string) []RegisterOption {
	return []RegisterOption{
		WithName(name),
		WithOnBecameActive(rec.record),
		WithOnNoLongerActive(rec.record),
		WithOnFired(rec.record),
	}
}

func (rec *recorder) record(n Notification[string]) {
	if n.Kind == KindFired {
		rec.events = append(rec.events, fmt.Sprintf("%s:%s@%d", n.Handle, n.Kind, n.Tick))
		return
	}
	rec.events = append(rec.events, fmt.Sprintf("%s:%s", n.Handle, n.Kind))
}

// take returns the recorded events and resets the recorder.
func (rec *recorder) take() []string {
	events := rec.events
	rec.events = nil
	return events
}

func equalEvents(got, want []string) bool {
	if len(got) != len(want) {
		return false
	}
	for i := range got {
		if got[i] != want[i] {
			return false
		}
	}
	return true
}

func names(handles []*Handle[string]) []string {
	result := make([]string, len(handles))
	for i, h := range handles {
		result[i] = h.String()
	}
	return result
}
