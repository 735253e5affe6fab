// Package config loads the keyclaim binding file.
//
// A binding file is TOML:
//
//	tick_rate = "16ms"
//	log_level = "info"
//
//	[[binding]]
//	name = "menu"
//	key = "Esc"
//	priority = 0
//
//	[[binding]]
//	name = "dialog"
//	key = "<Esc>"
//	claim_top = true
//	on_fired = "log('dialog closed')"
//
// Keys use the syntax of key.ParseTrigger. The on_fired, on_became_active and
// on_no_longer_active fields hold optional Lua actions.
//
// Precedence, highest first:
//
//  1. Command-line flags
//  2. KEYCLAIM_* environment variables (see Env)
//  3. The binding file
//  4. Built-in defaults (see Default)
//
// Unknown fields are rejected. Validate reports every problem in one joined
// error.
package config
