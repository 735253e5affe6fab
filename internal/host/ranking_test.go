package host

import (
	"bytes"
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/dshills/keyclaim/internal/input/key"
	"github.com/dshills/keyclaim/internal/priority"
)

func TestRanking(t *testing.T) {
	reg := priority.New[key.Trigger]()
	b := NewBinder(reg)
	if err := b.Apply(parseBindings(t, baseBindings)); err != nil {
		t.Fatal(err)
	}

	ranking := Ranking(reg)
	if len(ranking) != 2 {
		t.Fatalf("expected 2 keys, got %d", len(ranking))
	}
	esc := ranking[1]
	if esc.Trigger != key.MustParseTrigger("Esc") {
		t.Fatalf("expected Esc second, got %s", esc.Trigger)
	}
	if len(esc.Entries) != 2 || esc.Entries[0].Name != "dialog" || !esc.Entries[0].Active || esc.Entries[1].Active {
		t.Errorf("unexpected Esc ranking: %+v", esc.Entries)
	}

	var buf bytes.Buffer
	if err := WriteRanking(&buf, ranking); err != nil {
		t.Fatal(err)
	}
	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "ranking", buf.Bytes())
}
