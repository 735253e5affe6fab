package key

import (
	"errors"
	"fmt"
	"strings"
)

// Parse errors
var (
	ErrEmptySpec   = errors.New("empty key specification")
	ErrInvalidSpec = errors.New("invalid key specification")
)

// runeAliases names characters that cannot be written literally in a spec.
var runeAliases = map[string]rune{
	"space":  ' ',
	"plus":   '+',
	"minus":  '-',
	"lt":     '<',
	"gt":     '>',
	"bar":    '|',
	"bslash": '\\',
}

// ParseTrigger parses a trigger specification.
//
// Supported formats:
//   - Single character: "a", "Q", "?"
//   - Named keys: "Esc", "Enter", "Tab", "F5", "Space"
//   - With modifiers: "Ctrl+S", "Alt+F4", "Ctrl+Shift+P"
//   - Vim-style: "<C-s>", "<A-F4>", "<CR>", "<Esc>"
func ParseTrigger(spec string) (Trigger, error) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return Trigger{}, ErrEmptySpec
	}

	if len(spec) > 2 && strings.HasPrefix(spec, "<") && strings.HasSuffix(spec, ">") {
		return parseVim(spec[1 : len(spec)-1])
	}

	if len(spec) > 1 && strings.Contains(spec, "+") {
		parts := strings.Split(spec, "+")
		return parseParts(parts[:len(parts)-1], parts[len(parts)-1], spec)
	}

	return parseKey(spec, ModNone)
}

// MustParseTrigger parses a trigger specification and panics on error.
// Use only for known-valid specs in initialization code.
func MustParseTrigger(spec string) Trigger {
	t, err := ParseTrigger(spec)
	if err != nil {
		panic("invalid key specification: " + spec + ": " + err.Error())
	}
	return t
}

// parseVim parses the inside of Vim notation like "C-s" or "CR".
func parseVim(inner string) (Trigger, error) {
	parts := strings.Split(inner, "-")
	if len(parts) == 1 {
		return parseKey(inner, ModNone)
	}
	return parseParts(parts[:len(parts)-1], parts[len(parts)-1], "<"+inner+">")
}

func parseParts(modNames []string, keyPart, spec string) (Trigger, error) {
	var mods Modifier
	for _, name := range modNames {
		mod := ModifierFromName(name)
		if mod == ModNone {
			return Trigger{}, fmt.Errorf("%w: unknown modifier %q in %q", ErrInvalidSpec, name, spec)
		}
		mods = mods.With(mod)
	}
	return parseKey(keyPart, mods)
}

func parseKey(name string, mods Modifier) (Trigger, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Trigger{}, ErrInvalidSpec
	}

	runes := []rune(name)
	if len(runes) == 1 {
		return NewRuneTrigger(runes[0], mods), nil
	}

	lower := strings.ToLower(name)
	if r, ok := runeAliases[lower]; ok {
		return NewRuneTrigger(r, mods), nil
	}
	if k := KeyFromName(lower); k != KeyNone {
		return NewTrigger(k, mods), nil
	}
	return Trigger{}, fmt.Errorf("%w: unknown key %q", ErrInvalidSpec, name)
}
