package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/fchimpan/textloop/cmd"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	root := cmd.NewRootCmd(cmd.DefaultDeps())
	if err := root.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
