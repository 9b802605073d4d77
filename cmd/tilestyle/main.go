package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/fang"

	"github.com/go-spatial/tilestyle/internal/cli"
	"github.com/go-spatial/tilestyle/pkg/version"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	err := fang.Execute(ctx, cli.NewRootCmd(),
		fang.WithVersion(version.Info()),
		fang.WithErrorHandler(cli.ErrorHandler),
	)
	if err != nil {
		cancel()
		os.Exit(1) //nolint:gocritic // The context is canceled above.
	}
}
