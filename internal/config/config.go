package config

import (
	"fmt"
	"time"

	"github.com/dshills/keyclaim/internal/input/key"
)

// Defaults applied before a file is decoded.
const (
	DefaultTickRate = 16 * time.Millisecond
	DefaultLogLevel = "info"
)

// Config is the decoded binding file.
type Config struct {
	// TickRate is the host loop period.
	TickRate Duration `toml:"tick_rate"`

	// LogLevel is one of trace, debug, info, warn, error.
	LogLevel string `toml:"log_level"`

	// Bindings are the listeners registered at startup.
	Bindings []Binding `toml:"binding"`

	// Path is the file the configuration was loaded from, if any.
	Path string `toml:"-"`
}

// Binding declares one listener for one trigger.
type Binding struct {
	// Name identifies the binding in logs and across reloads.
	Name string `toml:"name"`

	// Key is the trigger specification, e.g. "Esc" or "Ctrl+S".
	Key string `toml:"key"`

	// Priority is the initial priority.
	Priority int `toml:"priority"`

	// ClaimTop makes the binding take the front of its key on registration.
	ClaimTop bool `toml:"claim_top"`

	// OnFired, OnBecameActive and OnNoLongerActive are optional Lua actions.
	OnFired          string `toml:"on_fired"`
	OnBecameActive   string `toml:"on_became_active"`
	OnNoLongerActive string `toml:"on_no_longer_active"`

	// Trigger is Key parsed by Validate.
	Trigger key.Trigger `toml:"-"`
}

// Default returns a configuration with defaults and no bindings.
func Default() *Config {
	return &Config{
		TickRate: Duration{DefaultTickRate},
		LogLevel: DefaultLogLevel,
	}
}

// Binding returns the binding with the given name.
func (c *Config) Binding(name string) (Binding, bool) {
	for _, b := range c.Bindings {
		if b.Name == name {
			return b, true
		}
	}
	return Binding{}, false
}

// Duration is a time.Duration that decodes from strings like "16ms".
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", text, err)
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}
