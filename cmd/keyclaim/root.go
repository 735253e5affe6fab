package main

import (
	"github.com/spf13/cobra"

	"github.com/dshills/keyclaim/internal/config"
)

// DefaultConfigFile is used when neither --config nor KEYCLAIM_CONFIG is set.
const DefaultConfigFile = "keyclaim.toml"

type options struct {
	configPath string
	logLevel   string
	logFile    string
}

// NewRootCmd builds the keyclaim command tree.
func NewRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:   "keyclaim",
		Short: "Route key presses to the highest-priority listener",
		Long: `keyclaim registers the bindings of a TOML file against the keys of your
terminal. When several bindings share a key only the one with the highest
priority receives it, and every binding is told when it gains or loses the key.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "",
		"binding file (default $KEYCLAIM_CONFIG or "+DefaultConfigFile+")")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "",
		"log level: trace, debug, info, warn, error (overrides the binding file)")

	root.AddCommand(newRunCmd(opts))
	root.AddCommand(newCheckCmd(opts))
	root.AddCommand(newVersionCmd())
	return root
}

// loadConfig resolves the binding file path, loads it and applies the
// environment and flag overrides.
func loadConfig(opts *options) (*config.Config, config.Env, error) {
	envs, err := config.ParseEnv()
	if err != nil {
		return nil, config.Env{}, err
	}

	path := opts.configPath
	if path == "" {
		path = envs.Config
	}
	if path == "" {
		path = DefaultConfigFile
	}

	cfg, err := config.Load(path)
	if err != nil {
		return nil, envs, err
	}
	applyOverrides(cfg, envs, opts)
	return cfg, envs, nil
}

func applyOverrides(cfg *config.Config, envs config.Env, opts *options) {
	envs.Apply(cfg)
	if opts.logLevel != "" {
		cfg.LogLevel = opts.logLevel
	}
}
