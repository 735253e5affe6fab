package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/gdamore/tcell/v2"
	"github.com/spf13/cobra"

	"github.com/dshills/keyclaim/internal/action"
	"github.com/dshills/keyclaim/internal/config"
	"github.com/dshills/keyclaim/internal/config/watcher"
	"github.com/dshills/keyclaim/internal/host"
	"github.com/dshills/keyclaim/internal/input/key"
	"github.com/dshills/keyclaim/internal/input/source"
	"github.com/dshills/keyclaim/internal/logging"
	"github.com/dshills/keyclaim/internal/priority"
)

func newRunCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the terminal host",
		Long: `run takes over the terminal, registers the bindings of the binding file and
dispatches key presses to them until Ctrl+C. The binding file is reloaded when
it changes on disk.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHost(cmd.Context(), opts)
		},
	}
	cmd.Flags().StringVar(&opts.logFile, "log-file", "",
		"write logs to this file while the terminal is in use (default: discard)")
	return cmd
}

func runHost(ctx context.Context, opts *options) error {
	cfg, envs, err := loadConfig(opts)
	if err != nil {
		return err
	}

	// The screen owns the terminal, so logs only go to a file.
	var logOut io.Writer = io.Discard
	if opts.logFile != "" {
		f, err := os.OpenFile(opts.logFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		defer f.Close()
		logOut = f
	}
	if err := logging.Setup(cfg.LogLevel, logOut); err != nil {
		return err
	}
	log := logging.Get("keyclaim")

	engine := action.NewEngine(action.WithLogger(logging.Get("action")))
	defer engine.Close()

	reg := priority.New[key.Trigger](priority.WithLogger(logging.Get("registry")))
	binder := host.NewBinder(reg, host.WithEngine(engine), host.WithBinderLogger(logging.Get("binder")))
	if err := binder.Apply(cfg.Bindings); err != nil {
		return err
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("create screen: %w", err)
	}
	term := source.NewTerminal(screen)
	if err := term.Start(); err != nil {
		return fmt.Errorf("start terminal: %w", err)
	}
	defer term.Close()

	view := host.NewView(screen, reg)
	loop, err := host.NewLoop(reg, term,
		host.WithTickRate(cfg.TickRate.Duration),
		host.WithLogger(logging.Get("loop")),
		host.WithQuitTrigger(key.NewRuneTrigger('c', key.ModCtrl)),
		host.WithTickHook(view.Render),
	)
	if err != nil {
		return err
	}
	defer loop.Do(func(*priority.Registry[key.Trigger]) { binder.Close() })

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	w, err := watcher.New(cfg.Path, func(next *config.Config, err error) {
		if err != nil {
			log.Warn().Err(err).Msg("binding file reload failed")
			return
		}
		applyOverrides(next, envs, opts)
		loop.Do(func(*priority.Registry[key.Trigger]) {
			if err := binder.Apply(next.Bindings); err != nil {
				log.Warn().Err(err).Msg("some bindings were not applied")
			}
			view.Record(fmt.Sprintf("reloaded %d bindings", binder.Len()))
		})
		loop.SetTickRate(next.TickRate.Duration)
		log.Info().Int("bindings", len(next.Bindings)).Msg("binding file reloaded")
	})
	if err != nil {
		log.Warn().Err(err).Str("path", cfg.Path).Msg("live reload disabled")
	} else {
		go w.Run(ctx)
	}

	log.Info().
		Str("config", cfg.Path).
		Int("bindings", binder.Len()).
		Msg("keyclaim started")
	return loop.Run(ctx)
}
