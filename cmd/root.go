package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime"
	"time"

	"github.com/cli/go-gh/v2/pkg/term"
	"github.com/spf13/cobra"

	"github.com/fchimpan/textloop/internal/config"
	"github.com/fchimpan/textloop/internal/winconsole"
)

// RunOptions is what a backend needs to host the demo loop.
type RunOptions struct {
	Interval time.Duration
	Overlay  bool
	X        int
	Logger   *slog.Logger
	Stdout   io.Writer
}

type Deps struct {
	RunConsole func(ctx context.Context, opts RunOptions) error
	RunTUI     func(ctx context.Context, opts RunOptions) error
	Terminal   func() (isTTY bool, width int)
	GOOS       string
	Stdout     io.Writer
	Stderr     io.Writer
}

func DefaultDeps() Deps {
	return Deps{
		RunConsole: defaultRunConsole,
		RunTUI:     defaultRunTUI,
		Terminal:   defaultTerminal,
		GOOS:       runtime.GOOS,
		Stdout:     os.Stdout,
		Stderr:     os.Stderr,
	}
}

func defaultTerminal() (bool, int) {
	t := term.FromEnv()
	if !t.IsTerminalOutput() {
		return false, 0
	}
	w, _, err := t.Size()
	if err != nil {
		return true, 80
	}
	return true, w
}

func NewRootCmd(deps Deps) *cobra.Command {
	var (
		configPath string
		intervalMs int
		backend    string
		x          int
		noOverlay  bool
		logFile    string
		logLevel   string
	)

	c := &cobra.Command{
		Use:          "textloop",
		Short:        "Run a keyboard-driven loop with a status overlay above the console output",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}

			flags := cmd.Flags()
			if flags.Changed("interval") {
				cfg.IntervalMs = intervalMs
			}
			if flags.Changed("backend") {
				cfg.Backend = config.Backend(backend)
			}
			if flags.Changed("x") {
				cfg.OverlayX = x
			}
			if flags.Changed("no-overlay") {
				cfg.Overlay = !noOverlay
			}
			if flags.Changed("log-file") {
				cfg.LogFile = logFile
			}
			if flags.Changed("log-level") {
				cfg.LogLevel = logLevel
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			if err := run(cmd.Context(), deps, cfg); err != nil {
				if hint := hintFor(err); hint != "" {
					fmt.Fprintln(deps.Stderr, "hint: "+hint)
				}
				return err
			}
			return nil
		},
	}

	c.Flags().StringVarP(&configPath, "config", "c", "", "YAML config file (default: $"+config.EnvVar+")")
	c.Flags().IntVarP(&intervalMs, "interval", "i", 50, "pause between ticks in milliseconds")
	c.Flags().StringVarP(&backend, "backend", "b", string(config.BackendAuto), "screen backend: auto, console or tea")
	c.Flags().IntVar(&x, "x", 0, "column of the overlay's left edge")
	c.Flags().BoolVar(&noOverlay, "no-overlay", false, "run without the alternate-buffer overlay")
	c.Flags().StringVar(&logFile, "log-file", "", "write logs to this file instead of stderr")
	c.Flags().StringVar(&logLevel, "log-level", "warn", "log level: debug, info, warn or error")

	c.AddCommand(newKeysCmd(deps))

	c.SetOut(deps.Stdout)
	c.SetErr(deps.Stderr)
	return c
}

func hintFor(err error) string {
	switch {
	case winconsole.IsInitError(err):
		return "the console backend needs a Windows console; try `--backend tea`"
	case errors.Is(err, errNotTerminal):
		return "the tea backend needs a terminal on stdout; try `--backend console` on Windows"
	default:
		return ""
	}
}
