package loop

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/fchimpan/textloop/internal/keys"
	"github.com/fchimpan/textloop/internal/screen"
)

var (
	ErrInterval   = errors.New("loop: interval must be >= 0")
	ErrNilHandler = errors.New("loop: nil handler")
	ErrNilConsole = errors.New("loop: nil console")
	ErrNotRunning = errors.New("loop: driver is not running")
	ErrWasStopped = errors.New("loop: driver already stopped")
)

// DefaultInterval is the pause between ticks when no option sets one.
const DefaultInterval = 50 * time.Millisecond

// Handler is the loop body. OnTick receives the keys pressed since the
// previous tick, in press order, and reports whether the loop continues.
type Handler interface {
	OnTick(pressed []keys.Code) bool
}

// HandlerFunc adapts a plain function to Handler.
type HandlerFunc func(pressed []keys.Code) bool

func (f HandlerFunc) OnTick(pressed []keys.Code) bool { return f(pressed) }

type State int

const (
	Idle State = iota
	Running
	Stopped
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Running:
		return "running"
	case Stopped:
		return "stopped"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// SleepFunc blocks for d or until ctx is done.
type SleepFunc func(ctx context.Context, d time.Duration) error

// Sleep is the default SleepFunc.
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

type Option func(*Driver)

// WithInterval sets the pause between ticks.
func WithInterval(d time.Duration) Option {
	return func(dr *Driver) { dr.interval = d }
}

// WithOverlay toggles the alternate-buffer overlay. It is on by default.
func WithOverlay(enabled bool) Option {
	return func(dr *Driver) { dr.overlay = enabled }
}

func WithLogger(l *slog.Logger) Option {
	return func(dr *Driver) {
		if l != nil {
			dr.logger = l
		}
	}
}

func WithSleep(fn SleepFunc) Option {
	return func(dr *Driver) {
		if fn != nil {
			dr.sleep = fn
		}
	}
}

// Driver runs the poll, callback, recomposite, sleep cycle on a single
// goroutine. It owns the compositor; the handler reaches it through
// Compositor while a tick is in progress.
type Driver struct {
	console    screen.Console
	input      keys.Source
	compositor *screen.Compositor

	interval time.Duration
	overlay  bool
	sleep    SleepFunc
	logger   *slog.Logger

	state State
	ticks int

	// swapped is set once Begin has touched the console, so End knows to
	// restore it even when Begin failed halfway.
	swapped bool
}

// New captures the console geometry and allocates the compositor.
func New(console screen.Console, input keys.Source, opts ...Option) (*Driver, error) {
	if console == nil {
		return nil, ErrNilConsole
	}
	if input == nil {
		return nil, keys.ErrNoSource
	}

	d := &Driver{
		console:  console,
		input:    input,
		interval: DefaultInterval,
		overlay:  true,
		sleep:    Sleep,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.interval < 0 {
		return nil, fmt.Errorf("%w: got %s", ErrInterval, d.interval)
	}

	comp, err := screen.NewCompositor(console)
	if err != nil {
		return nil, fmt.Errorf("init compositor: %w", err)
	}
	d.compositor = comp
	return d, nil
}

func (d *Driver) Compositor() *screen.Compositor { return d.compositor }

func (d *Driver) State() State { return d.state }

// Ticks returns how many times the handler has been invoked.
func (d *Driver) Ticks() int { return d.ticks }

func (d *Driver) Interval() time.Duration { return d.interval }

// SetOverlay paints the overlay. It is the handler-facing entry point and
// is only valid on the loop goroutine.
func (d *Driver) SetOverlay(lines []string, x int) error {
	return d.compositor.SetOverlay(lines, x)
}

// Begin enters the running state. With overlay support the cursor is hidden
// and the alternate buffer becomes visible.
func (d *Driver) Begin() error {
	switch d.state {
	case Running:
		return nil
	case Stopped:
		return ErrWasStopped
	}

	if d.overlay {
		d.swapped = true
		if err := d.console.SetCursorVisible(false); err != nil {
			return fmt.Errorf("hide cursor: %w", err)
		}
		if err := d.compositor.CopyStandardOutput(); err != nil {
			return err
		}
		if err := d.console.Activate(true); err != nil {
			return fmt.Errorf("activate alternate buffer: %w", err)
		}
	}
	d.state = Running
	d.logger.Info("loop started", "interval", d.interval, "overlay", d.overlay)
	return nil
}

// Step runs one tick: poll keys, invoke h, recomposite. It returns the
// handler's continue flag.
func (d *Driver) Step(h Handler) (bool, error) {
	if h == nil {
		return false, ErrNilHandler
	}
	if d.state != Running {
		return false, ErrNotRunning
	}

	pressed, err := keys.Poll(d.input)
	if err != nil {
		return false, fmt.Errorf("poll keys: %w", err)
	}

	d.ticks++
	cont := h.OnTick(pressed)
	d.logger.Debug("tick", "n", d.ticks, "keys", len(pressed), "continue", cont)

	if d.overlay {
		if err := d.compositor.CopyStandardOutput(); err != nil {
			return false, err
		}
	}
	return cont, nil
}

// End swaps the primary buffer back in and enters the terminal state. It is
// safe to call more than once.
func (d *Driver) End() error {
	if d.state == Stopped {
		return nil
	}
	d.state = Stopped

	var errs []error
	if d.swapped {
		d.swapped = false
		if err := d.console.Activate(false); err != nil {
			errs = append(errs, fmt.Errorf("restore primary buffer: %w", err))
		}
		if err := d.console.SetCursorVisible(true); err != nil {
			errs = append(errs, fmt.Errorf("show cursor: %w", err))
		}
	}
	d.logger.Info("loop stopped", "ticks", d.ticks)
	return errors.Join(errs...)
}

// Run drives h until it returns false, ctx is done, or a console operation
// fails. The primary buffer is restored on every exit path, panics included.
func (d *Driver) Run(ctx context.Context, h Handler) (err error) {
	if h == nil {
		return ErrNilHandler
	}
	if err := d.Begin(); err != nil {
		_ = d.End()
		return err
	}
	defer func() {
		if endErr := d.End(); endErr != nil && err == nil {
			err = endErr
		}
	}()

	for {
		cont, err := d.Step(h)
		if err != nil {
			return err
		}
		if !cont {
			return nil
		}
		if err := d.sleep(ctx, d.interval); err != nil {
			return err
		}
	}
}

// Start is the one-call form of New followed by Run, taking the interval in
// milliseconds.
func Start(ctx context.Context, console screen.Console, input keys.Source, intervalMs int, fn func(pressed []keys.Code) bool, opts ...Option) error {
	if fn == nil {
		return ErrNilHandler
	}
	if intervalMs < 0 {
		return fmt.Errorf("%w: got %dms", ErrInterval, intervalMs)
	}
	opts = append([]Option{WithInterval(time.Duration(intervalMs) * time.Millisecond)}, opts...)
	d, err := New(console, input, opts...)
	if err != nil {
		return err
	}
	return d.Run(ctx, HandlerFunc(fn))
}
