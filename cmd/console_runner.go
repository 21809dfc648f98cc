package cmd

import (
	"context"

	"github.com/fchimpan/textloop/internal/demo"
	"github.com/fchimpan/textloop/internal/loop"
	"github.com/fchimpan/textloop/internal/winconsole"
)

func defaultRunConsole(ctx context.Context, opts RunOptions) (err error) {
	con, err := winconsole.Open()
	if err != nil {
		return err
	}
	defer func() {
		if cerr := con.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	drv, err := loop.New(con, con,
		loop.WithInterval(opts.Interval),
		loop.WithOverlay(opts.Overlay),
		loop.WithLogger(opts.Logger),
	)
	if err != nil {
		return err
	}
	// Key echoes go to the process's standard output, the buffer the
	// compositor scrapes.
	d := demo.New(opts.Stdout, opts.X)
	if opts.Overlay {
		d.Bind(drv)
	}
	if err := drv.Run(ctx, d); err != nil {
		return err
	}
	return d.Err()
}
