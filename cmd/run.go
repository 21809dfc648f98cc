package cmd

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
	"time"

	"golang.org/x/term"

	"github.com/fchimpan/textloop/internal/config"
)

var errNotTerminal = errors.New("standard output is not a terminal")

func run(ctx context.Context, deps Deps, cfg *config.Config) error {
	if deps.RunConsole == nil {
		return fmt.Errorf("deps.RunConsole is nil")
	}
	if deps.RunTUI == nil {
		return fmt.Errorf("deps.RunTUI is nil")
	}
	if deps.Terminal == nil {
		return fmt.Errorf("deps.Terminal is nil")
	}

	level, err := cfg.Level()
	if err != nil {
		return err
	}
	backend := selectBackend(cfg.Backend, deps.GOOS)

	var logOut io.Writer = deps.Stderr
	text := isTerminalWriter(deps.Stderr)
	var held *heldWriter
	switch {
	case cfg.LogFile != "":
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		defer f.Close()
		logOut, text = f, false
	case backend == config.BackendTea:
		// Bubble Tea owns the terminal until RunTUI returns.
		held = &heldWriter{out: deps.Stderr}
		logOut = held
	}
	logger := newLogger(logOut, text, level).With("backend", string(backend))

	opts := RunOptions{
		Interval: time.Duration(cfg.IntervalMs) * time.Millisecond,
		Overlay:  cfg.Overlay,
		X:        cfg.OverlayX,
		Logger:   logger,
		Stdout:   deps.Stdout,
	}

	switch backend {
	case config.BackendConsole:
		err = deps.RunConsole(ctx, opts)
	default:
		if isTTY, _ := deps.Terminal(); !isTTY {
			return errNotTerminal
		}
		err = deps.RunTUI(ctx, opts)
		if held != nil {
			if relErr := held.Release(); relErr != nil && err == nil {
				err = fmt.Errorf("flush logs: %w", relErr)
			}
		}
	}
	if errors.Is(err, context.Canceled) {
		logger.Info("interrupted")
		return nil
	}
	if err != nil {
		logger.Error("loop failed", "error", err)
	}
	return err
}

// selectBackend resolves auto: the native console on Windows, Bubble Tea
// everywhere else.
func selectBackend(b config.Backend, goos string) config.Backend {
	if b != config.BackendAuto {
		return b
	}
	if goos == "windows" {
		return config.BackendConsole
	}
	return config.BackendTea
}

// newLogger uses a text handler for terminals and JSON otherwise.
func newLogger(w io.Writer, text bool, level slog.Level) *slog.Logger {
	options := &slog.HandlerOptions{Level: level}
	if text {
		return slog.New(slog.NewTextHandler(w, options))
	}
	return slog.New(slog.NewJSONHandler(w, options))
}

func isTerminalWriter(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// heldWriter buffers writes until Release, then passes them straight through.
type heldWriter struct {
	mu       sync.Mutex
	buf      bytes.Buffer
	out      io.Writer
	released bool
}

func (h *heldWriter) Write(p []byte) (int, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.released {
		return h.out.Write(p)
	}
	return h.buf.Write(p)
}

// Release writes everything held so far to out.
func (h *heldWriter) Release() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.released {
		return nil
	}
	h.released = true
	_, err := h.out.Write(h.buf.Bytes())
	h.buf.Reset()
	return err
}
