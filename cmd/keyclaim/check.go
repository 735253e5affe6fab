package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dshills/keyclaim/internal/action"
	"github.com/dshills/keyclaim/internal/host"
	"github.com/dshills/keyclaim/internal/input/key"
	"github.com/dshills/keyclaim/internal/logging"
	"github.com/dshills/keyclaim/internal/priority"
)

func newCheckCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Validate a binding file and print the resulting ranking",
		Long: `check loads the binding file, compiles every Lua action and registers the
bindings in a scratch registry. The active binding of each key is marked '*'.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := loadConfig(opts)
			if err != nil {
				return err
			}
			if err := logging.Setup(cfg.LogLevel, cmd.ErrOrStderr()); err != nil {
				return err
			}

			engine := action.NewEngine(action.WithLogger(logging.Get("action")))
			defer engine.Close()

			reg := priority.New[key.Trigger](priority.WithLogger(logging.Get("registry")))
			binder := host.NewBinder(reg, host.WithEngine(engine), host.WithBinderLogger(logging.Get("binder")))
			if err := binder.Apply(cfg.Bindings); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if err := host.WriteRanking(out, host.Ranking(reg)); err != nil {
				return err
			}
			fmt.Fprintf(out, "%s: %d bindings on %d keys\n", cfg.Path, binder.Len(), len(reg.Keys()))
			return nil
		},
	}
}
