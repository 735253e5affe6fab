package config

import (
	"errors"
	"fmt"

	"github.com/dshills/keyclaim/internal/input/key"
)

var logLevels = map[string]bool{
	"trace": true,
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// Validate checks the configuration and resolves each binding's Trigger.
// All problems are reported together, joined with errors.Join.
func (c *Config) Validate() error {
	var errs []error

	if c.TickRate.Duration <= 0 {
		errs = append(errs, &ValidationError{Field: "tick_rate", Message: "must be positive"})
	}
	if !logLevels[c.LogLevel] {
		errs = append(errs, &ValidationError{
			Field:   "log_level",
			Message: fmt.Sprintf("unknown level %q (must be trace, debug, info, warn, or error)", c.LogLevel),
		})
	}

	seen := make(map[string]int, len(c.Bindings))
	for i := range c.Bindings {
		b := &c.Bindings[i]
		field := fmt.Sprintf("binding[%d]", i)

		switch prev, dup := seen[b.Name]; {
		case b.Name == "":
			errs = append(errs, &ValidationError{Field: field + ".name", Message: "is required"})
		case dup:
			errs = append(errs, &ValidationError{
				Field:   field + ".name",
				Message: fmt.Sprintf("%q already used by binding[%d]", b.Name, prev),
			})
		default:
			seen[b.Name] = i
		}

		t, err := key.ParseTrigger(b.Key)
		if err != nil {
			errs = append(errs, &ValidationError{Field: field + ".key", Message: err.Error()})
			continue
		}
		b.Trigger = t
	}

	return errors.Join(errs...)
}
