package host

import (
	"fmt"
	"io"
	"sort"

	"github.com/dshills/keyclaim/internal/input/key"
	"github.com/dshills/keyclaim/internal/priority"
)

// Entry is one handle in a key's ranking.
type Entry struct {
	Name     string
	Priority int
	Active   bool
}

// KeyRanking lists the handles of one trigger, active handle first.
type KeyRanking struct {
	Trigger key.Trigger
	Entries []Entry
}

// Ranking snapshots reg, ordered by trigger name.
func Ranking(reg *priority.Registry[key.Trigger]) []KeyRanking {
	keys := reg.Keys()
	sort.Slice(keys, func(i, j int) bool {
		return keys[i].String() < keys[j].String()
	})

	result := make([]KeyRanking, 0, len(keys))
	for _, k := range keys {
		handles := reg.Handles(k)
		kr := KeyRanking{Trigger: k, Entries: make([]Entry, len(handles))}
		for i, h := range handles {
			kr.Entries[i] = Entry{Name: h.String(), Priority: h.Priority(), Active: i == 0}
		}
		result = append(result, kr)
	}
	return result
}

// WriteRanking prints a ranking as indented text, marking the active handle
// with '*'.
func WriteRanking(w io.Writer, ranking []KeyRanking) error {
	for _, kr := range ranking {
		if _, err := fmt.Fprintf(w, "%s\n", kr.Trigger); err != nil {
			return err
		}
		for _, e := range kr.Entries {
			mark := ' '
			if e.Active {
				mark = '*'
			}
			if _, err := fmt.Fprintf(w, "  %c %-20s %d\n", mark, e.Name, e.Priority); err != nil {
				return err
			}
		}
	}
	return nil
}
