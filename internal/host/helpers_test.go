package host

import (
	"testing"

	"github.com/dshills/keyclaim/internal/config"
)

// parseBindings decodes and validates a TOML binding file body.
func parseBindings(t *testing.T, body string) []config.Binding {
	t.Helper()

	cfg, err := config.Parse("test.toml", []byte(body))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	return cfg.Bindings
}
