package cmd

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/cli/go-gh/v2/pkg/term"

	"github.com/fchimpan/textloop/internal/demo"
	"github.com/fchimpan/textloop/internal/keys"
	"github.com/fchimpan/textloop/internal/loop"
	"github.com/fchimpan/textloop/internal/screen"
	"github.com/fchimpan/textloop/internal/tui"
)

func defaultRunTUI(ctx context.Context, opts RunOptions) error {
	w, h, err := term.FromEnv().Size()
	if err != nil || w <= 0 || h <= 0 {
		w, h = 80, 24
	}
	con := screen.NewMemory(screen.Size{W: w, H: h})
	input := &keys.Queue{}

	drv, err := loop.New(con, input,
		loop.WithInterval(opts.Interval),
		loop.WithOverlay(opts.Overlay),
		loop.WithLogger(opts.Logger),
	)
	if err != nil {
		return err
	}
	// The in-memory primary buffer stands in for standard output here.
	d := demo.New(con, opts.X)
	if opts.Overlay {
		d.Bind(drv)
	}

	m := tui.NewModel(drv, con, input, d)
	p := tea.NewProgram(m,
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	)
	_, runErr := p.Run()
	if err := m.Close(); err != nil {
		return err
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if runErr != nil {
		return runErr
	}
	return d.Err()
}
