package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/telhawk-systems/flowsearch/cmd"
	"github.com/telhawk-systems/flowsearch/pkg/output"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cmd.Execute(ctx); err != nil {
		output.Error("%s", err)
		stop()
		os.Exit(1)
	}
}
