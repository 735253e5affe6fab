package config

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/pelletier/go-toml/v2"
)

// EnvPrefix is the prefix of environment variables that override the file.
const EnvPrefix = "KEYCLAIM_"

// Env holds the environment overrides.
type Env struct {
	// Config is the binding file path (KEYCLAIM_CONFIG).
	Config string `env:"CONFIG"`

	// TickRate overrides tick_rate (KEYCLAIM_TICK_RATE).
	TickRate time.Duration `env:"TICK_RATE"`

	// LogLevel overrides log_level (KEYCLAIM_LOG_LEVEL).
	LogLevel string `env:"LOG_LEVEL"`
}

// ParseEnv reads the KEYCLAIM_ environment variables.
func ParseEnv() (Env, error) {
	var e Env
	if err := env.ParseWithOptions(&e, env.Options{Prefix: EnvPrefix}); err != nil {
		return Env{}, fmt.Errorf("parse env: %w", err)
	}
	return e, nil
}

// Apply overrides c with every variable that was set.
func (e Env) Apply(c *Config) {
	if e.TickRate > 0 {
		c.TickRate = Duration{e.TickRate}
	}
	if e.LogLevel != "" {
		c.LogLevel = e.LogLevel
	}
}

// Load reads, decodes and validates the binding file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		return nil, fmt.Errorf("reading config file %s: %w", path, err)
	}

	c, err := Parse(path, data)
	if err != nil {
		return nil, err
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Parse decodes TOML data on top of the defaults without validating.
// Unknown keys are rejected so typos in binding files surface early.
func Parse(source string, data []byte) (*Config, error) {
	c := Default()
	dec := toml.NewDecoder(bytes.NewReader(data)).DisallowUnknownFields()
	if err := dec.Decode(c); err != nil {
		perr := &ParseError{Path: source, Err: err}
		var derr *toml.DecodeError
		if errors.As(err, &derr) {
			perr.Line, perr.Column = derr.Position()
		}
		return nil, perr
	}
	c.Path = source
	return c, nil
}
