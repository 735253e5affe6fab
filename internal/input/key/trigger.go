package key

import (
	"unicode"
)

// Trigger identifies a key combination that listeners compete for.
// Triggers are comparable and normalized, so they can be used as map keys.
type Trigger struct {
	Key       Key
	Rune      rune
	Modifiers Modifier
}

// NewTrigger builds a normalized trigger for a special key.
func NewTrigger(k Key, mods Modifier) Trigger {
	return normalize(Trigger{Key: k, Modifiers: mods})
}

// NewRuneTrigger builds a normalized trigger for a character.
func NewRuneTrigger(r rune, mods Modifier) Trigger {
	return normalize(Trigger{Key: KeyRune, Rune: r, Modifiers: mods})
}

// normalize folds Shift into characters and lowercases Ctrl+letter, matching
// what terminals report.
func normalize(t Trigger) Trigger {
	if t.Key != KeyRune {
		t.Rune = 0
		return t
	}
	if t.Modifiers.Has(ModCtrl) {
		t.Rune = unicode.ToLower(t.Rune)
		return t
	}
	if unicode.IsLetter(t.Rune) {
		if t.Modifiers.Has(ModShift) {
			t.Rune = unicode.ToUpper(t.Rune)
		}
		t.Modifiers = t.Modifiers.Without(ModShift)
	}
	return t
}

// IsZero reports whether t is the zero trigger.
func (t Trigger) IsZero() bool {
	return t == Trigger{}
}

// String returns the canonical specification, e.g. "Ctrl+s", "Esc", "Q".
// The result parses back to the same trigger.
func (t Trigger) String() string {
	name := t.Key.String()
	if t.Key == KeyRune {
		name = runeName(t.Rune)
	}
	if t.Modifiers == ModNone {
		return name
	}
	return t.Modifiers.String() + "+" + name
}

func runeName(r rune) string {
	switch r {
	case ' ':
		return "Space"
	case '+':
		return "Plus"
	case '<':
		return "lt"
	case 0:
		return "None"
	}
	return string(r)
}
