// Package key defines the trigger vocabulary of the terminal host.
//
//   - Key: a special key (Escape, Enter, F5, ...) or KeyRune for characters
//   - Modifier: Ctrl, Alt, Shift and Meta bits
//   - Event: one key press reported by the terminal
//   - Trigger: the comparable identity listeners compete for
//
// # Trigger Specifications
//
// Bindings name their trigger with a short specification:
//
//   - Simple keys: "q", "?", "Esc", "Enter", "F5", "Space"
//   - With modifiers: "Ctrl+S", "Alt+F4", "Ctrl+Shift+P"
//   - Vim-style: "<C-s>", "<A-f>", "<CR>", "<Esc>"
//
// Shift is folded into letters, so "Q", "Shift+q" and "Shift+Q" all name the
// same trigger. Ctrl combinations are lowercased: "Ctrl+S" is "Ctrl+s".
package key
